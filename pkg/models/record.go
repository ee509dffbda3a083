package models

import (
	"encoding/json"
	"fmt"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/jsonutil"
)

// Record is one state or district in one assessment year.
type Record struct {
	Year         string
	StateName    string
	LocationName string

	// Category is the stage-of-extraction label, e.g. "Safe". Empty when absent.
	Category string

	TotalGWAvailability Metric
	Rainfall            Metric
	RechargeWorthyArea  Metric
	Loss                Metric
	SafeBlocks          Metric

	// Groundwater is the loosely shaped "groundwater" reading (number or {level,total}).
	Groundwater Metric
}

// GroundwaterValue prefers the assessed availability total and falls back to the
// raw groundwater reading.
func (r *Record) GroundwaterValue() float64 {
	if r.TotalGWAvailability.Present() {
		return r.TotalGWAvailability.Value()
	}
	return r.Groundwater.Value()
}

// ParseRecord decodes a single per-location object. year is the label of the
// enclosing year key and always wins over any "year" field inside the object.
func ParseRecord(year string, raw json.RawMessage) (*Record, error) {
	if !jsonutil.IsObject(raw) {
		return nil, fmt.Errorf("record is not an object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}

	rec := &Record{
		Year:                year,
		StateName:           jsonutil.FlexibleStringValue(fields["stateName"]),
		LocationName:        jsonutil.FlexibleStringValue(fields["locationName"]),
		Category:            parseCategory(fields["category"]),
		TotalGWAvailability: ParseMetric(fields["totalGWAvailability"]),
		Rainfall:            ParseMetric(fields["rainfall"]),
		RechargeWorthyArea:  ParseMetric(jsonutil.Lookup(raw, "area", "recharge_worthy", "totalArea")),
		Loss:                ParseMetric(fields["loss"]),
		SafeBlocks:          ParseMetric(jsonutil.Lookup(raw, "reportSummary", "total", "BLOCK", "safe")),
		Groundwater:         ParseMetric(fields["groundwater"]),
	}
	return rec, nil
}

// parseCategory accepts either {"total": "Safe"} or a bare label.
func parseCategory(raw json.RawMessage) string {
	if jsonutil.IsObject(raw) {
		return jsonutil.FlexibleStringValue(jsonutil.Lookup(raw, "total"))
	}
	return jsonutil.FlexibleStringValue(raw)
}
