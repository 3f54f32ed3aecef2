package signals

import (
	"github.com/alphapulse/alphapulse/models"
)

// Aggregate combines signals into one weighted consensus call.
// Each signal maps to a scalar through the score table, weighted by its
// category weight; the score is the weight-normalized sum. Equal opposing
// weighted contributions cancel to zero and classify as NEUTRAL.
// Confidence degrades with disagreement between component scalars,
// floored at 50; with no signals at all the result is NEUTRAL at the
// floor.
func Aggregate(cfg Config, sigs []models.Signal) models.AggregatedSignal {
	if len(sigs) == 0 {
		return models.AggregatedSignal{
			OverallDirection: models.RatingNeutral,
			Confidence:       50,
		}
	}

	var weightedSum, totalWeight float64
	scalars := make([]float64, 0, len(sigs))
	breakdown := make([]models.SignalContribution, 0, len(sigs))

	for _, sig := range sigs {
		rating := ratingFor(sig)
		scalar := cfg.Scores[rating]
		weight, ok := cfg.CategoryWeights[sig.Category]
		if !ok {
			weight = 0.10 // unknown category still participates, lightly
		}

		weightedSum += scalar * weight
		totalWeight += weight
		scalars = append(scalars, scalar)
		breakdown = append(breakdown, models.SignalContribution{
			Type:         sig.Type,
			Rating:       rating,
			Scalar:       scalar,
			Weight:       weight,
			Contribution: scalar * weight,
		})
	}

	score := 0.0
	if totalWeight > 0 {
		score = weightedSum / totalWeight
	}

	confidence := 100 - variance(scalars)*100
	if confidence < 50 {
		confidence = 50
	}

	return models.AggregatedSignal{
		OverallDirection: classify(score),
		Score:            score,
		Confidence:       confidence,
		Breakdown:        breakdown,
	}
}

// ratingFor maps a signal's direction and strength to a discrete rating.
func ratingFor(sig models.Signal) models.Rating {
	switch sig.Direction {
	case models.DirectionBullish:
		if sig.Strength == models.StrengthStrong {
			return models.RatingStrongBuy
		}
		return models.RatingBuy
	case models.DirectionBearish:
		if sig.Strength == models.StrengthStrong {
			return models.RatingStrongSell
		}
		return models.RatingSell
	default:
		return models.RatingNeutral
	}
}

func classify(score float64) models.Rating {
	switch {
	case score > 0.6:
		return models.RatingStrongBuy
	case score > 0.3:
		return models.RatingBuy
	case score < -0.6:
		return models.RatingStrongSell
	case score < -0.3:
		return models.RatingSell
	default:
		return models.RatingNeutral
	}
}

// variance is the population variance of the component scalars.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sum float64
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(values))
}
