package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/models"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/store"
)

var (
	kerala   = models.Location{Kind: models.LocationState, Name: "Kerala"}
	punjab   = models.Location{Kind: models.LocationState, Name: "Punjab"}
	wayanad  = models.Location{Kind: models.LocationDistrict, Name: "Wayanad"}
	ludhiana = models.Location{Kind: models.LocationDistrict, Name: "Ludhiana"}
)

func TestAggregateLocation_StateSums(t *testing.T) {
	a := NewAggregator(sampleStore(), DefaultAggregatorConfig())

	tests := []struct {
		intent models.Intent
		loc    models.Location
		want   float64
	}{
		{models.IntentGroundwater, kerala, 500},
		{models.IntentRainfall, kerala, 4700},
		{models.IntentRechargeWorthyArea, kerala, 200},
		{models.IntentGroundwater, punjab, 1600},
		{models.IntentRainfall, punjab, 1250},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent)+"/"+tt.loc.Name, func(t *testing.T) {
			agg := a.AggregateLocation(tt.loc, tt.intent)
			require.True(t, agg.Found)
			assert.Equal(t, tt.want, agg.Total)
		})
	}
}

func TestAggregateLocation_LatestYearOnly(t *testing.T) {
	a := NewAggregator(sampleStore(), AggregatorConfig{SafeExtractThreshold: 100, StateSumsAllYears: false})

	agg := a.AggregateLocation(punjab, models.IntentGroundwater)
	assert.Equal(t, 900.0, agg.Total, "only 2020-2021 is summed")
	require.Len(t, agg.Records, 1)
	assert.Equal(t, "Ludhiana", agg.Records[0].LocationName)
}

func TestAggregateLocation_District(t *testing.T) {
	a := NewAggregator(sampleStore(), DefaultAggregatorConfig())

	agg := a.AggregateLocation(wayanad, models.IntentRainfall)
	require.True(t, agg.Found)
	assert.Equal(t, "2800", agg.Direct.Display())

	agg = a.AggregateLocation(ludhiana, models.IntentSafeBlocks)
	require.True(t, agg.Found)
	assert.False(t, agg.Direct.Present())
	assert.Equal(t, 0.0, agg.Direct.Value())

	agg = a.AggregateLocation(models.Location{Kind: models.LocationDistrict, Name: "Amritsar"}, models.IntentRechargeWorthyArea)
	assert.Equal(t, models.NotAvailable, agg.Direct.Display())
}

func TestAggregateLocation_SafeBlocksCountsRecords(t *testing.T) {
	a := NewAggregator(sampleStore(), DefaultAggregatorConfig())

	assert.Equal(t, 1, a.AggregateLocation(kerala, models.IntentSafeBlocks).Count, "Palakkad has zero safe blocks")
	assert.Equal(t, 1, a.AggregateLocation(punjab, models.IntentSafeBlocks).Count)
}

func TestAggregateLocation_Criticality(t *testing.T) {
	s := store.New(append(sampleRecords(), &models.Record{
		Year: "2019-2020", StateName: "Kerala", LocationName: "Idukki", Category: "Safe",
	}))
	a := NewAggregator(s, DefaultAggregatorConfig())

	agg := a.AggregateLocation(kerala, models.IntentCriticality)
	assert.Equal(t, []string{"Safe", "Semi-Critical"}, agg.Labels, "deduplicated in first-seen order")

	agg = a.AggregateLocation(punjab, models.IntentCriticality)
	assert.Equal(t, []string{"Over-Exploited"}, agg.Labels, "missing labels are excluded")

	agg = a.AggregateLocation(models.Location{Kind: models.LocationDistrict, Name: "Amritsar"}, models.IntentCriticality)
	assert.False(t, agg.Found)
}

func TestAggregateLocation_Unresolved(t *testing.T) {
	a := NewAggregator(sampleStore(), DefaultAggregatorConfig())

	for _, loc := range []models.Location{
		models.UnknownLocation,
		{Kind: models.LocationState, Name: "Atlantis"},
		{Kind: models.LocationDistrict, Name: "Atlantis"},
	} {
		agg := a.AggregateLocation(loc, models.IntentGroundwater)
		assert.False(t, agg.Found, loc.Name)
		assert.Empty(t, agg.Records, loc.Name)
	}
}

func TestAggregate_HowMuchWater(t *testing.T) {
	a := NewAggregator(sampleStore(), DefaultAggregatorConfig())

	agg := a.Aggregate(a.Filter(models.QueryFilter{State: "kerala"}), models.IntentHowMuchWater)
	assert.Equal(t, 200.0, agg.Total)
	assert.Equal(t, 100.0, agg.Average)
	assert.False(t, agg.NoUsableData)

	agg = a.Aggregate(a.Filter(models.QueryFilter{District: "Amritsar"}), models.IntentHowMuchWater)
	assert.True(t, agg.NoUsableData, "zero recharge goes to the fallback")

	agg = a.Aggregate(nil, models.IntentHowMuchWater)
	assert.True(t, agg.NoUsableData)
	assert.False(t, agg.Found)
}

func TestAggregate_SafeToExtractThresholdIsStrict(t *testing.T) {
	recs := func(values ...float64) []*models.Record {
		var out []*models.Record
		for _, v := range values {
			out = append(out, &models.Record{RechargeWorthyArea: models.NestedMetric(v)})
		}
		return out
	}
	a := NewAggregator(store.New(nil), DefaultAggregatorConfig())

	tests := []struct {
		name   string
		values []float64
		safe   bool
	}{
		{"exactly threshold", []float64{100}, false},
		{"just above", []float64{100.0001}, true},
		{"average above", []float64{50, 151}, true},
		{"average equal", []float64{50, 150}, false},
		{"empty list is risky", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := a.Aggregate(recs(tt.values...), models.IntentSafeToExtract)
			assert.Equal(t, tt.safe, agg.Safe)
		})
	}
}

func TestAggregate_SafeToExtractConfigurableThreshold(t *testing.T) {
	a := NewAggregator(sampleStore(), AggregatorConfig{SafeExtractThreshold: 50})

	agg := a.Aggregate(a.Filter(models.QueryFilter{State: "Punjab"}), models.IntentSafeToExtract)
	assert.Equal(t, 30.0, agg.Average)
	assert.False(t, agg.Safe)

	agg = a.Aggregate(a.Filter(models.QueryFilter{State: "Kerala"}), models.IntentSafeToExtract)
	assert.True(t, agg.Safe)
}

func TestAggregate_Status(t *testing.T) {
	a := NewAggregator(sampleStore(), DefaultAggregatorConfig())

	agg := a.Aggregate(a.Filter(models.QueryFilter{State: "Punjab"}), models.IntentStatus)
	assert.Equal(t, []string{"Over-Exploited", "unknown"}, agg.Labels)
	assert.False(t, agg.NoUsableData)

	agg = a.Aggregate(a.Filter(models.QueryFilter{District: "Amritsar"}), models.IntentStatus)
	assert.Equal(t, []string{"unknown"}, agg.Labels)
	assert.True(t, agg.NoUsableData)
}

func TestAggregate_Loss(t *testing.T) {
	a := NewAggregator(sampleStore(), DefaultAggregatorConfig())

	agg := a.Aggregate(a.Filter(models.QueryFilter{}), models.IntentLoss)
	assert.Equal(t, 14.5, agg.Total)

	agg = a.Aggregate(a.Filter(models.QueryFilter{District: "Ludhiana"}), models.IntentLoss)
	assert.True(t, agg.NoUsableData)
}

func TestAggregate_FilterByYear(t *testing.T) {
	a := NewAggregator(sampleStore(), DefaultAggregatorConfig())

	agg := a.Aggregate(a.Filter(models.QueryFilter{Year: "2019-2020"}), models.IntentLoss)
	assert.Equal(t, 4.5, agg.Total)
	assert.Empty(t, a.Filter(models.QueryFilter{Year: "2019"}), "year labels match exactly")
}

func TestAggregate_Idempotent(t *testing.T) {
	s := sampleStore()
	a := NewAggregator(s, DefaultAggregatorConfig())

	first := a.AggregateLocation(kerala, models.IntentGroundwater)
	second := a.AggregateLocation(kerala, models.IntentGroundwater)
	assert.Equal(t, first, second)
	assert.Equal(t, 300.0, s.Records()[0].TotalGWAvailability.Value(), "records are not mutated")
}

func TestAggregate_ReflectsCurrentRecordValues(t *testing.T) {
	s := sampleStore()
	a := NewAggregator(s, DefaultAggregatorConfig())
	require.Equal(t, 500.0, a.AggregateLocation(kerala, models.IntentGroundwater).Total)

	s.Records()[0].TotalGWAvailability = models.NestedMetric(1000)

	assert.Equal(t, 1200.0, a.AggregateLocation(kerala, models.IntentGroundwater).Total)
}

func TestAggregation_Err(t *testing.T) {
	a := NewAggregator(sampleStore(), DefaultAggregatorConfig())

	tests := []struct {
		name string
		agg  *Aggregation
		want error
	}{
		{"resolved state", a.AggregateLocation(kerala, models.IntentGroundwater), nil},
		{"unknown location", a.AggregateLocation(models.UnknownLocation, models.IntentGroundwater), apperrors.ErrLocationNotResolved},
		{"no labels", a.AggregateLocation(models.Location{Kind: models.LocationDistrict, Name: "Amritsar"}, models.IntentCriticality), apperrors.ErrNotFound},
		{"matching records", a.Aggregate(a.Filter(models.QueryFilter{State: "kerala"}), models.IntentStatus), nil},
		{"no records", a.Aggregate(nil, models.IntentStatus), apperrors.ErrNoMatchingRecords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.agg.Err()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAggregateLocation_DistrictKeepsHistoryForCharts(t *testing.T) {
	s := store.New(append(sampleRecords(),
		&models.Record{Year: "2019-2020", StateName: "Kerala", LocationName: "Wayanad", Rainfall: models.NestedMetric(2500)},
		&models.Record{Year: "2019-2020", StateName: "Punjab", LocationName: "Wayanad", Rainfall: models.NestedMetric(400)},
	))
	a := NewAggregator(s, DefaultAggregatorConfig())

	agg := a.AggregateLocation(wayanad, models.IntentRainfall)
	require.True(t, agg.Found)
	assert.Equal(t, "2800", agg.Direct.Display(), "the answer uses the first record")

	require.Len(t, agg.Records, 2, "same-named districts of other states are excluded")
	assert.Equal(t, "2020-2021", agg.Records[0].Year)
	assert.Equal(t, "2019-2020", agg.Records[1].Year)
	for _, rec := range agg.Records {
		assert.Equal(t, "Kerala", rec.StateName)
	}
}
