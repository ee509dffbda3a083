package services

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/models"
)

// Fixed replies.
const (
	GreetingReply        = "Hi! How may I help you today?"
	NotUnderstoodReply   = "One Moment Please!"
	UnresolvedPlaceReply = "Sorry, I could not identify the state or district in your question."
	SafeToExtractReply   = "Yes, it is safe to extract water."
	RiskyToExtractReply  = "No, water extraction is risky."
	NoDataReply          = "Sorry, no data found."
	noDataPrefix         = "No data found"
)

// metricTemplate describes how one location-scoped intent is phrased.
type metricTemplate struct {
	subject string // "Total groundwater available"
	unit    string // appended after the value, may be empty
	metric  string // name used in the apology
}

var metricTemplates = map[models.Intent]metricTemplate{
	models.IntentGroundwater:        {subject: "Total groundwater available", unit: "cubic meters", metric: "groundwater"},
	models.IntentRainfall:           {subject: "Total rainfall", unit: "mm", metric: "rainfall"},
	models.IntentRechargeWorthyArea: {subject: "Total recharge-worthy area", unit: "hectares", metric: "recharge-worthy area"},
	models.IntentSafeBlocks:         {subject: "Total safe blocks", metric: "safe block"},
	models.IntentCriticality:        {subject: "Groundwater criticality", metric: "criticality"},
}

// FormatLocation renders a location-scoped aggregation.
func FormatLocation(agg *Aggregation) string {
	if !agg.Location.Resolved() {
		return UnresolvedPlaceReply
	}

	tmpl := metricTemplates[agg.Intent]
	name := agg.Location.Name
	if !agg.Found {
		return Apology(tmpl.metric, name)
	}

	var value string
	switch {
	case agg.Intent == models.IntentCriticality:
		value = strings.Join(agg.Labels, ", ")
	case agg.Location.Kind == models.LocationDistrict && agg.Intent == models.IntentSafeBlocks:
		// A district without a block summary has zero safe blocks.
		value = models.FormatNumber(agg.Direct.Value())
	case agg.Location.Kind == models.LocationDistrict:
		value = agg.Direct.Display()
	case agg.Intent == models.IntentSafeBlocks:
		value = fmt.Sprintf("%d", agg.Count)
	default:
		value = models.FormatNumber(agg.Total)
	}

	if tmpl.unit == "" {
		return fmt.Sprintf("%s in %s: %s.", tmpl.subject, name, value)
	}
	return fmt.Sprintf("%s in %s: %s %s.", tmpl.subject, name, value, tmpl.unit)
}

// FormatGeneric renders a generic aggregation. The boolean is false when the
// result carries no usable answer and should go to the fallback collaborator.
func FormatGeneric(agg *Aggregation, query string) (string, bool) {
	if len(agg.Records) == 0 {
		return fmt.Sprintf("%s for the query: %s", noDataPrefix, query), false
	}

	switch agg.Intent {
	case models.IntentHowMuchWater:
		if agg.NoUsableData {
			return "", false
		}
		return fmt.Sprintf("Total water available is %s.", models.FormatNumber(agg.Total)), true
	case models.IntentSafeToExtract:
		if agg.Safe {
			return SafeToExtractReply, true
		}
		return RiskyToExtractReply, true
	case models.IntentStatus:
		if agg.NoUsableData {
			return "", false
		}
		return "Water status/category: " + strings.Join(agg.Labels, ", "), true
	case models.IntentLoss:
		if agg.NoUsableData {
			return "", false
		}
		return "Total water loss: " + models.FormatNumber(agg.Total), true
	default:
		return NotUnderstoodReply, false
	}
}

// Apology is the reply for a resolved location lacking the requested metric.
func Apology(metric, location string) string {
	return fmt.Sprintf("Sorry, I could not find %s data for %s.", metric, location)
}

// NeedsFallback reports whether a reply is one of the placeholders that should
// be replaced by the generative fallback.
func NeedsFallback(reply string) bool {
	trimmed := strings.TrimSpace(reply)
	return trimmed == "" || trimmed == NotUnderstoodReply || strings.HasPrefix(trimmed, noDataPrefix)
}

// ChartLink renders the clickable reference appended to a reply.
func ChartLink(ref string) string {
	return fmt.Sprintf("\nVisualization: <a href='%s' target='_blank'>Click here to view the chart</a>", ref)
}
