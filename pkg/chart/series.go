package chart

import (
	"sort"
	"strings"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/models"
)

// Metric names the record field plotted on the Y axis.
type Metric string

const (
	MetricRecharge    Metric = "recharge"
	MetricRainfall    Metric = "rainfall"
	MetricGroundwater Metric = "groundwater"
	MetricLoss        Metric = "loss"
	MetricSafeBlocks  Metric = "safe_blocks"
)

// Label is the Y axis caption for the metric.
func (m Metric) Label() string {
	switch m {
	case MetricRainfall:
		return "Rainfall (mm)"
	case MetricGroundwater:
		return "Groundwater (cubic meters)"
	case MetricLoss:
		return "Loss"
	case MetricSafeBlocks:
		return "Safe blocks"
	default:
		return "Recharge (Total Area)"
	}
}

// Value reads the metric from a record, unwrapping nested total/level shapes.
func (m Metric) Value(rec *models.Record) float64 {
	switch m {
	case MetricRainfall:
		return rec.Rainfall.Value()
	case MetricGroundwater:
		return rec.GroundwaterValue()
	case MetricLoss:
		return rec.Loss.Value()
	case MetricSafeBlocks:
		return rec.SafeBlocks.Value()
	default:
		return rec.RechargeWorthyArea.Value()
	}
}

// MetricFor chooses what to plot for a question: the metric the intent answers,
// else whatever the question mentions, else recharge.
func MetricFor(intent models.Intent, query string) Metric {
	q := strings.ToLower(query)
	switch {
	case intent == models.IntentRainfall || strings.Contains(q, "rainfall"):
		return MetricRainfall
	case intent == models.IntentGroundwater || strings.Contains(q, "groundwater"):
		return MetricGroundwater
	case intent == models.IntentLoss:
		return MetricLoss
	case intent == models.IntentSafeBlocks:
		return MetricSafeBlocks
	default:
		return MetricRecharge
	}
}

// Point is one (year, value) observation of a location.
type Point struct {
	Year     string
	Location string
	Value    float64
}

// Points builds the parallel year/value list for records, in record order.
func Points(records []*models.Record, metric Metric) []Point {
	points := make([]Point, 0, len(records))
	for _, rec := range records {
		points = append(points, Point{
			Year:     rec.Year,
			Location: rec.LocationName,
			Value:    metric.Value(rec),
		})
	}
	return points
}

// Series groups points by location over a chronologically sorted year axis.
// A location without a reading for a year gets a gap (nil).
type Series struct {
	Years  []string
	Names  []string
	Values map[string][]any
}

// GroupByLocation turns points into one series per location. Repeated
// (location, year) pairs are summed.
func GroupByLocation(points []Point) Series {
	yearSet := make(map[string]bool)
	byLocation := make(map[string]map[string]float64)
	var names []string

	for _, p := range points {
		yearSet[p.Year] = true
		name := p.Location
		if name == "" {
			name = "Unknown"
		}
		if _, ok := byLocation[name]; !ok {
			byLocation[name] = make(map[string]float64)
			names = append(names, name)
		}
		byLocation[name][p.Year] += p.Value
	}

	years := make([]string, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Strings(years)

	values := make(map[string][]any, len(names))
	for _, name := range names {
		row := make([]any, len(years))
		for i, y := range years {
			if v, ok := byLocation[name][y]; ok {
				row[i] = v
			}
		}
		values[name] = row
	}

	return Series{Years: years, Names: names, Values: values}
}
