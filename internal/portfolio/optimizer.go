package portfolio

import (
	"math"

	"github.com/alphapulse/alphapulse/models"
)

// weightTolerance is the invariant bound for Σweight after normalization.
const weightTolerance = 1e-6

// Allocation is the output of an optimizer run.
type Allocation struct {
	Method  string             `json:"method"`
	Weights map[string]float64 `json:"weights"`
	// BoundsRespected is false when renormalizing after clipping pushed a
	// weight back outside [MinWeight, MaxWeight]. This is a known
	// limitation of clip-then-renormalize; it is surfaced, not silently
	// corrected.
	BoundsRespected bool `json:"bounds_respected"`
}

// Bounds are the per-asset clip limits for the mean-variance tilt.
type Bounds struct {
	MinWeight float64 `yaml:"min_weight"`
	MaxWeight float64 `yaml:"max_weight"`
}

// DefaultBounds keep any single asset between 5% and 40%.
func DefaultBounds() Bounds { return Bounds{MinWeight: 0.05, MaxWeight: 0.40} }

// Validate checks the portfolio's structural invariants: weights sum to
// 1 within tolerance when present, the covariance matrix is square,
// symmetric and aligned to Symbols, and variances are non-negative.
func Validate(p models.Portfolio) error {
	if len(p.Symbols) == 0 {
		return models.ErrDegenerate("portfolio.Validate", "empty symbol universe")
	}
	if len(p.Weights) > 0 {
		var sum float64
		for _, w := range p.Weights {
			sum += w
		}
		if math.Abs(sum-1) > weightTolerance {
			return models.ErrInvariant("portfolio.Validate", "weights do not sum to 1")
		}
	}
	if len(p.Covariance) != len(p.Symbols) {
		return models.ErrDegenerate("portfolio.Validate", "covariance matrix not aligned to symbols")
	}
	for i, row := range p.Covariance {
		if len(row) != len(p.Symbols) {
			return models.ErrDegenerate("portfolio.Validate", "covariance matrix not square")
		}
		if row[i] < 0 {
			return models.ErrDegenerate("portfolio.Validate", "negative variance on diagonal")
		}
		for j := i + 1; j < len(row); j++ {
			if math.Abs(row[j]-p.Covariance[j][i]) > 1e-9 {
				return models.ErrDegenerate("portfolio.Validate", "covariance matrix not symmetric")
			}
		}
	}
	return nil
}

// MeanVariance is the simplified mean-variance allocator (not a QP
// solver): start equal-weight, tilt each asset by its Sharpe-like score
// expectedReturn/sqrt(variance), clip to the bounds, renormalize to sum
// 1. The renormalization can push a weight back outside the clip bounds;
// the Allocation flags that instead of correcting it.
func MeanVariance(p models.Portfolio, bounds Bounds) (Allocation, error) {
	if err := Validate(p); err != nil {
		return Allocation{}, err
	}

	n := len(p.Symbols)
	base := 1.0 / float64(n)
	raw := make([]float64, n)

	for i, sym := range p.Symbols {
		score := 0.0
		if variance := p.Covariance[i][i]; variance > 0 {
			score = p.ExpectedReturns[sym] / math.Sqrt(variance)
		}
		raw[i] = clip(base*(1+score), bounds.MinWeight, bounds.MaxWeight)
	}

	weights, err := normalize(p.Symbols, raw, "portfolio.MeanVariance")
	if err != nil {
		return Allocation{}, err
	}

	return Allocation{
		Method:          "mean_variance",
		Weights:         weights,
		BoundsRespected: respectsBounds(weights, bounds),
	}, nil
}

// RiskParity allocates proportionally to inverse volatility. Every asset
// needs positive variance; a riskless asset makes the inverse undefined.
func RiskParity(p models.Portfolio) (Allocation, error) {
	if err := Validate(p); err != nil {
		return Allocation{}, err
	}

	raw := make([]float64, len(p.Symbols))
	for i := range p.Symbols {
		variance := p.Covariance[i][i]
		if variance == 0 {
			return Allocation{}, models.ErrDegenerate("portfolio.RiskParity", "zero variance asset")
		}
		raw[i] = 1 / math.Sqrt(variance)
	}

	weights, err := normalize(p.Symbols, raw, "portfolio.RiskParity")
	if err != nil {
		return Allocation{}, err
	}
	return Allocation{Method: "risk_parity", Weights: weights, BoundsRespected: true}, nil
}

// MinimumVariance allocates proportionally to inverse variance.
func MinimumVariance(p models.Portfolio) (Allocation, error) {
	if err := Validate(p); err != nil {
		return Allocation{}, err
	}

	raw := make([]float64, len(p.Symbols))
	for i := range p.Symbols {
		variance := p.Covariance[i][i]
		if variance == 0 {
			return Allocation{}, models.ErrDegenerate("portfolio.MinimumVariance", "zero variance asset")
		}
		raw[i] = 1 / variance
	}

	weights, err := normalize(p.Symbols, raw, "portfolio.MinimumVariance")
	if err != nil {
		return Allocation{}, err
	}
	return Allocation{Method: "minimum_variance", Weights: weights, BoundsRespected: true}, nil
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalize scales raw weights to sum 1 and verifies the invariant.
func normalize(symbols []string, raw []float64, op string) (map[string]float64, error) {
	var sum float64
	for _, w := range raw {
		sum += w
	}
	if sum <= 0 {
		return nil, models.ErrDegenerate(op, "non-positive weight sum before normalization")
	}

	weights := make(map[string]float64, len(symbols))
	var check float64
	for i, sym := range symbols {
		weights[sym] = raw[i] / sum
		check += weights[sym]
	}
	if math.Abs(check-1) > weightTolerance {
		return nil, models.ErrInvariant(op, "normalized weights do not sum to 1")
	}
	return weights, nil
}

func respectsBounds(weights map[string]float64, bounds Bounds) bool {
	for _, w := range weights {
		if w < bounds.MinWeight-weightTolerance || w > bounds.MaxWeight+weightTolerance {
			return false
		}
	}
	return true
}
