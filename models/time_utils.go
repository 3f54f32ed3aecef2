package models

// PeriodsPerYear returns the annualization factor for an interval label.
// Daily data uses 252 trading days; intraday intervals scale from a
// 6.5-hour session.
func PeriodsPerYear(interval string) float64 {
	switch interval {
	case "1min":
		return 252.0 * 6.5 * 60
	case "5min":
		return 252.0 * 6.5 * 12
	case "15min":
		return 252.0 * 6.5 * 4
	case "30min":
		return 252.0 * 6.5 * 2
	case "1h":
		return 252.0 * 6.5
	case "4h":
		return 252.0 * 6.5 / 4
	case "1week":
		return 52.0
	case "1month":
		return 12.0
	default: // 1day and anything unrecognized
		return 252.0
	}
}

// CandlesForWindow estimates how many candles cover the given number of
// calendar days at the given interval, with a 10% buffer for gaps.
func CandlesForWindow(interval string, days int) int {
	candlesPerDay := 1
	switch interval {
	case "1min":
		candlesPerDay = 24 * 60
	case "5min":
		candlesPerDay = 24 * 12
	case "15min":
		candlesPerDay = 24 * 4
	case "30min":
		candlesPerDay = 24 * 2
	case "1h":
		candlesPerDay = 24
	case "4h":
		candlesPerDay = 6
	case "1day":
		candlesPerDay = 1
	case "1week":
		days = days / 7
		if days < 1 {
			days = 1
		}
	case "1month":
		days = days / 30
		if days < 1 {
			days = 1
		}
	}
	return int(float64(candlesPerDay) * float64(days) * 1.1)
}
