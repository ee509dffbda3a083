package services

import (
	"regexp"
	"strings"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/models"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/store"
)

// yearPattern matches a four digit year, optionally followed by the closing year
// of an assessment period ("2019" or "2019-2020").
var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}(?:-(?:19|20)\d{2})?\b`)

// QueryParser extracts the optional state, district and year predicates used by
// the intents that are answered over a filtered record list.
type QueryParser struct {
	states    []string
	districts []string
	cfg       ResolverConfig
}

// NewQueryParser builds a parser over the names in s. cfg is shared with the
// location resolver so both pick the same name for a question.
func NewQueryParser(s *store.Store, cfg ResolverConfig) *QueryParser {
	districts := make([]string, 0, len(s.Districts()))
	for _, d := range s.Districts() {
		districts = append(districts, d.Name)
	}
	return &QueryParser{states: s.States(), districts: districts, cfg: cfg}
}

// Parse extracts each predicate independently. Unlike the location resolver, a
// question may yield both a state and a district.
func (p *QueryParser) Parse(text string) models.QueryFilter {
	query := strings.ToLower(text)

	var f models.QueryFilter
	f.State, _ = matchName(query, p.states, p.cfg.LongestMatch)
	f.District, _ = matchName(query, p.districts, p.cfg.LongestMatch)
	f.Year = yearPattern.FindString(query)
	return f
}
