package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord_FullShape(t *testing.T) {
	raw := json.RawMessage(`{
		"stateName": "KERALA",
		"locationName": "WAYANAD",
		"year": "ignored",
		"category": {"total": "Safe"},
		"totalGWAvailability": {"total": 500},
		"rainfall": {"total": 2800.5},
		"area": {"recharge_worthy": {"totalArea": 120}},
		"loss": {"total": 15},
		"reportSummary": {"total": {"BLOCK": {"safe": 4}}},
		"groundwater": {"level": 9}
	}`)

	rec, err := ParseRecord("2020-2021", raw)
	require.NoError(t, err)

	assert.Equal(t, "2020-2021", rec.Year)
	assert.Equal(t, "KERALA", rec.StateName)
	assert.Equal(t, "WAYANAD", rec.LocationName)
	assert.Equal(t, "Safe", rec.Category)
	assert.Equal(t, 500.0, rec.TotalGWAvailability.Value())
	assert.Equal(t, 2800.5, rec.Rainfall.Value())
	assert.Equal(t, 120.0, rec.RechargeWorthyArea.Value())
	assert.Equal(t, 15.0, rec.Loss.Value())
	assert.Equal(t, 4.0, rec.SafeBlocks.Value())
	assert.Equal(t, 9.0, rec.Groundwater.Value())
	assert.Equal(t, 500.0, rec.GroundwaterValue())
}

func TestParseRecord_SparseShape(t *testing.T) {
	raw := json.RawMessage(`{"stateName": "GOA", "locationName": "NORTH GOA", "rainfall": 3000, "category": "Critical", "area": 12}`)

	rec, err := ParseRecord("2019-2020", raw)
	require.NoError(t, err)

	assert.Equal(t, "Critical", rec.Category)
	assert.Equal(t, MetricScalar, rec.Rainfall.Kind)
	assert.Equal(t, 3000.0, rec.Rainfall.Value())
	assert.False(t, rec.TotalGWAvailability.Present())
	assert.False(t, rec.RechargeWorthyArea.Present(), "area that is not an object has no recharge-worthy total")
	assert.False(t, rec.SafeBlocks.Present())
	assert.Equal(t, NotAvailable, rec.Loss.Display())
	assert.Equal(t, 0.0, rec.GroundwaterValue())
}

func TestParseRecord_GroundwaterFallsBackToRawReading(t *testing.T) {
	rec, err := ParseRecord("2019-2020", json.RawMessage(`{"stateName": "GOA", "groundwater": 33}`))
	require.NoError(t, err)
	assert.Equal(t, 33.0, rec.GroundwaterValue())
}

func TestParseRecord_RejectsNonObject(t *testing.T) {
	_, err := ParseRecord("2019-2020", json.RawMessage(`["not", "a", "record"]`))
	assert.Error(t, err)

	_, err = ParseRecord("2019-2020", json.RawMessage(`"text"`))
	assert.Error(t, err)
}

func TestIntent_IsLocationScoped(t *testing.T) {
	scoped := []Intent{IntentGroundwater, IntentRainfall, IntentRechargeWorthyArea, IntentSafeBlocks, IntentCriticality}
	for _, i := range scoped {
		assert.True(t, i.IsLocationScoped(), string(i))
	}
	generic := []Intent{IntentHowMuchWater, IntentSafeToExtract, IntentStatus, IntentLoss, IntentGreeting, IntentUnknown}
	for _, i := range generic {
		assert.False(t, i.IsLocationScoped(), string(i))
	}
}
