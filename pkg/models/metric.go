package models

import (
	"encoding/json"
	"strconv"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/jsonutil"
)

// NotAvailable is displayed in place of a metric the record does not carry.
const NotAvailable = "N/A"

// MetricKind tags the shape a metric arrived in.
type MetricKind int

const (
	// MetricAbsent means the field was missing, null or unparseable.
	MetricAbsent MetricKind = iota
	// MetricScalar means the field was a bare number (or numeric string/boolean).
	MetricScalar
	// MetricNested means the field was an object carrying total and/or level.
	MetricNested
)

// Metric is a numeric reading whose upstream shape is not fixed: it may be a raw
// number or an object such as {"total": 12.5, "level": 3}.
type Metric struct {
	Kind   MetricKind
	Scalar float64
	Total  *float64
	Level  *float64
}

// ScalarMetric builds a metric from a bare number.
func ScalarMetric(v float64) Metric {
	return Metric{Kind: MetricScalar, Scalar: v}
}

// NestedMetric builds a metric carrying only a total.
func NestedMetric(total float64) Metric {
	return Metric{Kind: MetricNested, Total: &total}
}

// ParseMetric decodes any of the shapes the dataset uses for numeric fields.
func ParseMetric(raw json.RawMessage) Metric {
	if jsonutil.IsObject(raw) {
		m := Metric{Kind: MetricNested}
		if v, ok := jsonutil.FlexibleFloat(jsonutil.Lookup(raw, "total")); ok {
			m.Total = &v
		}
		if v, ok := jsonutil.FlexibleFloat(jsonutil.Lookup(raw, "level")); ok {
			m.Level = &v
		}
		return m
	}
	if v, ok := jsonutil.FlexibleFloat(raw); ok {
		return ScalarMetric(v)
	}
	return Metric{}
}

// Present reports whether the metric carries a usable number.
func (m Metric) Present() bool {
	switch m.Kind {
	case MetricScalar:
		return true
	case MetricNested:
		return m.Total != nil || m.Level != nil
	default:
		return false
	}
}

// Value normalises the metric for aggregation: scalar value, else total, else
// level, else 0.
func (m Metric) Value() float64 {
	switch m.Kind {
	case MetricScalar:
		return m.Scalar
	case MetricNested:
		if m.Total != nil {
			return *m.Total
		}
		if m.Level != nil {
			return *m.Level
		}
	}
	return 0
}

// Display renders the metric for a single-record answer, "N/A" when absent.
func (m Metric) Display() string {
	if !m.Present() {
		return NotAvailable
	}
	return FormatNumber(m.Value())
}

// FormatNumber renders whole numbers without a decimal part and everything else
// in the shortest exact form.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
