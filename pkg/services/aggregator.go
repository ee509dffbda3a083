package services

import (
	"fmt"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/models"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/store"
)

// DefaultSafeExtractThreshold is the average recharge-worthy area above which
// extraction is reported as safe. It is a placeholder policy, not a calibrated
// hydrological limit.
const DefaultSafeExtractThreshold = 100.0

// unknownCategory labels records without a category in status answers.
const unknownCategory = "unknown"

// AggregatorConfig holds the tunable aggregation policies.
type AggregatorConfig struct {
	// SafeExtractThreshold is compared with strict ">" against average recharge.
	SafeExtractThreshold float64
	// StateSumsAllYears keeps the legacy behaviour of summing every district-year
	// of a state. When false only the latest year label of the state is summed.
	StateSumsAllYears bool
}

// DefaultAggregatorConfig returns the legacy-compatible policies.
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		SafeExtractThreshold: DefaultSafeExtractThreshold,
		StateSumsAllYears:    true,
	}
}

// Aggregation is the result of aggregating one intent. Which fields are set
// depends on the intent. Records is the matched list, kept for charting; for a
// district it holds every year of that district, not only the answered record.
type Aggregation struct {
	Intent   models.Intent
	Location models.Location
	Records  []*models.Record

	// Found is false when the location was not in the index or the requested
	// field is unavailable for it.
	Found bool

	// Direct holds the single-record value for district answers.
	Direct models.Metric

	Total   float64
	Average float64
	Count   int
	Labels  []string
	Safe    bool

	// NoUsableData marks results the pipeline should hand to the fallback
	// collaborator instead of answering (zero sums, empty label sets).
	NoUsableData bool
}

// Err explains why the aggregation has no answer, or returns nil.
func (agg *Aggregation) Err() error {
	if agg.Intent.IsLocationScoped() {
		switch {
		case !agg.Location.Resolved():
			return apperrors.ErrLocationNotResolved
		case !agg.Found:
			return fmt.Errorf("%w: %s data for %s", apperrors.ErrNotFound, agg.Intent, agg.Location.Name)
		}
		return nil
	}
	if len(agg.Records) == 0 {
		return apperrors.ErrNoMatchingRecords
	}
	return nil
}

// Aggregator computes per-intent answers over the record store. It never
// mutates records and keeps no cache, so results always reflect current values.
type Aggregator struct {
	store *store.Store
	cfg   AggregatorConfig
}

// NewAggregator creates an aggregator over s.
func NewAggregator(s *store.Store, cfg AggregatorConfig) *Aggregator {
	return &Aggregator{store: s, cfg: cfg}
}

// Scope returns the records a location-scoped intent is computed over: every
// record of a state, or the first record of a district.
func (a *Aggregator) Scope(loc models.Location) []*models.Record {
	switch loc.Kind {
	case models.LocationState:
		recs, ok := a.store.StateRecords(loc.Name)
		if !ok {
			return nil
		}
		if !a.cfg.StateSumsAllYears {
			return latestYear(recs)
		}
		return recs
	case models.LocationDistrict:
		if rec, ok := a.store.FirstByLocation(loc.Name); ok {
			return []*models.Record{rec}
		}
	}
	return nil
}

// Filter returns the records matching the extracted query predicates.
func (a *Aggregator) Filter(f models.QueryFilter) []*models.Record {
	return a.store.Filter(f)
}

// AggregateLocation answers a location-scoped intent for loc.
func (a *Aggregator) AggregateLocation(loc models.Location, intent models.Intent) *Aggregation {
	records := a.Scope(loc)
	agg := &Aggregation{Intent: intent, Location: loc, Records: records}
	if len(records) == 0 {
		return agg
	}

	read := metricReader(intent)
	switch loc.Kind {
	case models.LocationState:
		switch intent {
		case models.IntentSafeBlocks:
			for _, rec := range records {
				if rec.SafeBlocks.Value() > 0 {
					agg.Count++
				}
			}
			agg.Found = true
		case models.IntentCriticality:
			agg.Labels = distinctLabels(records, false)
			agg.Found = len(agg.Labels) > 0
		default:
			for _, rec := range records {
				agg.Total += read(rec).Value()
			}
			agg.Found = true
		}
	case models.LocationDistrict:
		rec := records[0]
		agg.Records = a.store.Filter(models.QueryFilter{State: rec.StateName, District: rec.LocationName})
		switch intent {
		case models.IntentCriticality:
			if hasCategory(rec) {
				agg.Labels = []string{rec.Category}
				agg.Found = true
			}
		default:
			agg.Direct = read(rec)
			agg.Found = true
		}
	}
	return agg
}

// Aggregate answers a generic intent over an already filtered record list.
func (a *Aggregator) Aggregate(records []*models.Record, intent models.Intent) *Aggregation {
	agg := &Aggregation{Intent: intent, Records: records, Found: len(records) > 0}

	switch intent {
	case models.IntentHowMuchWater:
		agg.Total = sumOf(records, func(r *models.Record) models.Metric { return r.RechargeWorthyArea })
		agg.Average = average(agg.Total, len(records))
		agg.NoUsableData = agg.Total == 0
	case models.IntentSafeToExtract:
		agg.Total = sumOf(records, func(r *models.Record) models.Metric { return r.RechargeWorthyArea })
		agg.Average = average(agg.Total, len(records))
		agg.Safe = agg.Average > a.cfg.SafeExtractThreshold
	case models.IntentStatus:
		agg.Labels = distinctLabels(records, true)
		agg.NoUsableData = len(agg.Labels) == 0 ||
			(len(agg.Labels) == 1 && agg.Labels[0] == unknownCategory)
	case models.IntentLoss:
		agg.Total = sumOf(records, func(r *models.Record) models.Metric { return r.Loss })
		agg.NoUsableData = agg.Total == 0
	default:
		agg.NoUsableData = true
	}
	return agg
}

// metricReader picks the field a location-scoped intent reads.
func metricReader(intent models.Intent) func(*models.Record) models.Metric {
	switch intent {
	case models.IntentRainfall:
		return func(r *models.Record) models.Metric { return r.Rainfall }
	case models.IntentRechargeWorthyArea:
		return func(r *models.Record) models.Metric { return r.RechargeWorthyArea }
	case models.IntentSafeBlocks:
		return func(r *models.Record) models.Metric { return r.SafeBlocks }
	default:
		return func(r *models.Record) models.Metric { return r.TotalGWAvailability }
	}
}

func sumOf(records []*models.Record, read func(*models.Record) models.Metric) float64 {
	total := 0.0
	for _, rec := range records {
		total += read(rec).Value()
	}
	return total
}

// average returns 0 for an empty list rather than dividing by zero.
func average(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

func hasCategory(rec *models.Record) bool {
	return rec.Category != "" && rec.Category != models.NotAvailable
}

// distinctLabels returns category labels deduplicated in first-seen order. With
// includeUnknown, records lacking a label contribute "unknown".
func distinctLabels(records []*models.Record, includeUnknown bool) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, rec := range records {
		label := rec.Category
		if !hasCategory(rec) {
			if !includeUnknown {
				continue
			}
			label = unknownCategory
		}
		if seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// latestYear keeps the records of the greatest year label. "YYYY-YYYY" labels
// order chronologically as strings.
func latestYear(records []*models.Record) []*models.Record {
	if len(records) == 0 {
		return nil
	}
	latest := records[0].Year
	for _, rec := range records[1:] {
		if rec.Year > latest {
			latest = rec.Year
		}
	}
	var out []*models.Record
	for _, rec := range records {
		if rec.Year == latest {
			out = append(out, rec)
		}
	}
	return out
}
