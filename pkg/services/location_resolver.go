package services

import (
	"strings"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/models"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/store"
)

// LocationResolver finds the state or district a question refers to.
type LocationResolver interface {
	Resolve(text string) models.Location
}

// ResolverConfig controls how substring matches are chosen.
type ResolverConfig struct {
	// LongestMatch picks the longest matching name within a tier instead of the
	// first one in index order.
	LongestMatch bool
}

type locationResolver struct {
	states    []string
	districts []string
	cfg       ResolverConfig
}

var _ LocationResolver = (*locationResolver)(nil)

// NewLocationResolver builds a resolver over the names in s. Names are scanned
// in store index order so resolution is reproducible.
func NewLocationResolver(s *store.Store, cfg ResolverConfig) LocationResolver {
	districts := make([]string, 0, len(s.Districts()))
	for _, d := range s.Districts() {
		districts = append(districts, d.Name)
	}
	return &locationResolver{
		states:    s.States(),
		districts: districts,
		cfg:       cfg,
	}
}

// Resolve matches state names first and district names second. A question that
// names both a state and a district of another state resolves to the state.
func (r *locationResolver) Resolve(text string) models.Location {
	query := strings.ToLower(text)

	if name, ok := r.match(query, r.states); ok {
		return models.Location{Kind: models.LocationState, Name: name}
	}
	if name, ok := r.match(query, r.districts); ok {
		return models.Location{Kind: models.LocationDistrict, Name: name}
	}
	return models.UnknownLocation
}

func (r *locationResolver) match(query string, names []string) (string, bool) {
	return matchName(query, names, r.cfg.LongestMatch)
}

// matchName returns a name whose lower-cased form occurs in query: the first in
// names order, or the longest when longest is set. Empty names never match.
func matchName(query string, names []string, longest bool) (string, bool) {
	best := ""
	found := false
	for _, name := range names {
		if name == "" || !strings.Contains(query, strings.ToLower(name)) {
			continue
		}
		if !longest {
			return name, true
		}
		if !found || len(name) > len(best) {
			best = name
			found = true
		}
	}
	return best, found
}
