package risk

import (
	"math"

	"github.com/alphapulse/alphapulse/models"
)

// AttributionReport breaks the portfolio period return down by holding
// and by grouping dimension. When weights sum to 1, Total equals the
// portfolio period return within attributionTolerance.
type AttributionReport struct {
	Total        float64            `json:"total"`
	ByHolding    map[string]float64 `json:"by_holding"`
	BySector     map[string]float64 `json:"by_sector"`
	ByAssetClass map[string]float64 `json:"by_asset_class"`
	ByGeography  map[string]float64 `json:"by_geography"`
}

// attributionTolerance is the rounding tolerance for the sum-of-
// contributions invariant.
const attributionTolerance = 1e-9

// Attribution computes contribution[asset] = weight * periodReturn per
// holding and aggregates by sector, asset class and geography. When the
// weights sum to 1 and portfolioReturn is the weighted return, the
// contributions must reproduce it; a mismatch beyond tolerance is an
// invariant violation, surfaced loudly rather than swallowed.
func Attribution(holdings []models.Holding, portfolioReturn float64) (AttributionReport, error) {
	rep := AttributionReport{
		ByHolding:    make(map[string]float64, len(holdings)),
		BySector:     make(map[string]float64),
		ByAssetClass: make(map[string]float64),
		ByGeography:  make(map[string]float64),
	}

	var weightSum float64
	for _, h := range holdings {
		contribution := h.Weight * h.PeriodReturn
		rep.Total += contribution
		rep.ByHolding[h.Symbol] += contribution
		weightSum += h.Weight

		if h.Sector != "" {
			rep.BySector[h.Sector] += contribution
		}
		if h.AssetClass != "" {
			rep.ByAssetClass[h.AssetClass] += contribution
		}
		if h.Geography != "" {
			rep.ByGeography[h.Geography] += contribution
		}
	}

	fullyInvested := math.Abs(weightSum-1) < 1e-6
	if fullyInvested && math.Abs(rep.Total-portfolioReturn) > attributionTolerance {
		return rep, models.ErrInvariant("risk.Attribution",
			"contributions do not reproduce the portfolio period return")
	}
	return rep, nil
}
