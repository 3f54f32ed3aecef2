package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphapulse/alphapulse/internal/series"
	"github.com/alphapulse/alphapulse/internal/signals"
	"github.com/alphapulse/alphapulse/models"
)

func TestIndicatorSetUsesConfiguredPeriods(t *testing.T) {
	st, err := series.FromCandles("SPY", generateTestCandles(60, 0))
	require.NoError(t, err)

	cfg := signals.DefaultConfig()
	cfg.ATRPeriod = 10
	cfg.ADXPeriod = 10

	byName := map[string]models.IndicatorResult{}
	for _, r := range IndicatorSet(st, cfg) {
		byName[r.Name] = r
	}

	require.Contains(t, byName, "ATR")
	assert.Equal(t, 10.0, byName["ATR"].Params["period"])
	require.Contains(t, byName, "ADX")

	require.Contains(t, byName, "VOL_RATIO")
	assert.Equal(t, 5.0, byName["VOL_RATIO"].Params["fast"])
	assert.Equal(t, 10.0, byName["VOL_RATIO"].Params["slow"])
	assert.Greater(t, byName["VOL_RATIO"].Current, 0.0)
}
