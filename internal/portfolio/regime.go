package portfolio

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alphapulse/alphapulse/models"
)

// AssetClass buckets used by the regime multiplier tables.
const (
	ClassStocks      = "stocks"
	ClassBonds       = "bonds"
	ClassCommodities = "commodities"
	ClassGold        = "gold"
	ClassCrypto      = "crypto"
	ClassCash        = "cash"
)

// RegimeTables maps each macro quadrant to per-asset-class weight
// multipliers and symbols to asset classes. Static configuration,
// overridable from YAML.
type RegimeTables struct {
	Multipliers map[models.MacroRegime]map[string]float64 `yaml:"multipliers"`
	AssetClass  map[string]string                         `yaml:"asset_class"`
}

// DefaultRegimeTables returns the built-in quadrant tables.
func DefaultRegimeTables() RegimeTables {
	return RegimeTables{
		Multipliers: map[models.MacroRegime]map[string]float64{
			models.RegimeGoldilocks: {
				ClassStocks: 1.30, ClassBonds: 1.00, ClassCommodities: 0.80,
				ClassGold: 0.70, ClassCrypto: 1.20, ClassCash: 0.60,
			},
			models.RegimeReflation: {
				ClassStocks: 1.10, ClassBonds: 0.70, ClassCommodities: 1.30,
				ClassGold: 1.10, ClassCrypto: 1.00, ClassCash: 0.70,
			},
			models.RegimeStagflation: {
				ClassStocks: 0.70, ClassBonds: 0.80, ClassCommodities: 1.30,
				ClassGold: 1.40, ClassCrypto: 0.70, ClassCash: 1.20,
			},
			models.RegimeDeflation: {
				ClassStocks: 0.80, ClassBonds: 1.40, ClassCommodities: 0.60,
				ClassGold: 1.10, ClassCrypto: 0.60, ClassCash: 1.30,
			},
		},
		AssetClass: map[string]string{
			"SPY": ClassStocks, "QQQ": ClassStocks, "IWM": ClassStocks,
			"TLT": ClassBonds, "IEF": ClassBonds, "AGG": ClassBonds,
			"DBC": ClassCommodities, "USO": ClassCommodities,
			"GLD": ClassGold, "IAU": ClassGold,
			"BTC/USD": ClassCrypto, "ETH/USD": ClassCrypto,
			"BIL": ClassCash, "SHV": ClassCash,
		},
	}
}

// LoadRegimeTables reads YAML overrides on top of the defaults.
func LoadRegimeTables(path string) (RegimeTables, error) {
	tables := DefaultRegimeTables()
	data, err := os.ReadFile(path)
	if err != nil {
		return tables, err
	}
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return DefaultRegimeTables(), err
	}
	return tables, nil
}

// ClassOf looks up the asset class for a symbol, defaulting to stocks.
func (t RegimeTables) ClassOf(symbol string) string {
	if class, ok := t.AssetClass[symbol]; ok {
		return class
	}
	return ClassStocks
}

// AdjustForRegime scales base weights by the per-asset-class multiplier
// of the given macro regime and renormalizes to sum 1. An unknown regime
// leaves the weights untouched.
func AdjustForRegime(base map[string]float64, regime models.MacroRegime, tables RegimeTables) (map[string]float64, error) {
	multipliers, ok := tables.Multipliers[regime]
	if !ok {
		out := make(map[string]float64, len(base))
		for sym, w := range base {
			out[sym] = w
		}
		return out, nil
	}

	symbols := make([]string, 0, len(base))
	raw := make([]float64, 0, len(base))
	for sym, w := range base {
		mult, ok := multipliers[tables.ClassOf(sym)]
		if !ok {
			mult = 1.0
		}
		symbols = append(symbols, sym)
		raw = append(raw, w*mult)
	}

	return normalize(symbols, raw, "portfolio.AdjustForRegime")
}
