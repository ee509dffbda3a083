package services

import (
	"strings"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/models"
)

// QueryClassifier maps a question to an intent.
type QueryClassifier interface {
	Classify(text string) models.Classification
}

type keywordRule struct {
	intent   models.Intent
	keywords []string
}

// Rule order matters: the first rule with any keyword contained in the question wins.
var (
	primaryRules = []keywordRule{
		{intent: models.IntentGroundwater, keywords: []string{"groundwater", "water level"}},
		{intent: models.IntentRainfall, keywords: []string{"rainfall", "rain water"}},
		{intent: models.IntentRechargeWorthyArea, keywords: []string{"recharge-worthy", "recharge worthy"}},
		{intent: models.IntentSafeBlocks, keywords: []string{"safe blocks"}},
		{intent: models.IntentCriticality, keywords: []string{"criticality", "stage", "category"}},
	}
	secondaryRules = []keywordRule{
		// Plain "recharge" only reaches this rule when "recharge-worthy" did not match.
		{intent: models.IntentHowMuchWater, keywords: []string{"how much water", "recharge"}},
		{intent: models.IntentSafeToExtract, keywords: []string{"safe to extract"}},
		{intent: models.IntentStatus, keywords: []string{"status"}},
		{intent: models.IntentLoss, keywords: []string{"loss"}},
	}

	greetings     = []string{"hi", "hello", "hey"}
	chartKeywords = []string{"chart", "graph", "plot"}
)

type keywordClassifier struct{}

var _ QueryClassifier = (*keywordClassifier)(nil)

// NewQueryClassifier returns the ordered keyword classifier.
func NewQueryClassifier() QueryClassifier {
	return &keywordClassifier{}
}

// Classify applies the greeting check, then the primary and secondary keyword
// rules. The chart flag is independent of the chosen intent.
func (c *keywordClassifier) Classify(text string) models.Classification {
	query := strings.ToLower(text)

	if IsGreeting(query) {
		return models.Classification{Intent: models.IntentGreeting}
	}

	result := models.Classification{
		Intent: models.IntentUnknown,
		Chart:  containsAny(query, chartKeywords),
	}
	for _, rules := range [][]keywordRule{primaryRules, secondaryRules} {
		for _, rule := range rules {
			if containsAny(query, rule.keywords) {
				result.Intent = rule.intent
				return result
			}
		}
	}
	return result
}

// IsGreeting reports whether the whole question is one of the greeting words.
func IsGreeting(text string) bool {
	query := strings.ToLower(strings.TrimSpace(text))
	for _, g := range greetings {
		if query == g {
			return true
		}
	}
	return false
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
