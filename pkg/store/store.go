// Package store holds the read-only in-memory index over the groundwater dataset.
package store

import (
	"strings"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/models"
)

// District is a location name together with the state it was first seen under.
type District struct {
	Name  string
	State string
}

// Store is the flat record list plus a per-state index. It is built once and
// never mutated afterwards, so it is safe for concurrent readers.
type Store struct {
	records   []*models.Record
	byState   map[string][]*models.Record
	states    []string
	districts []District
	years     []string
}

// New indexes records in the order given. Records are shared, not copied.
func New(records []*models.Record) *Store {
	s := &Store{
		records: records,
		byState: make(map[string][]*models.Record),
	}

	seenDistrict := make(map[string]bool)
	seenYear := make(map[string]bool)
	for _, rec := range records {
		if _, ok := s.byState[rec.StateName]; !ok {
			s.states = append(s.states, rec.StateName)
		}
		s.byState[rec.StateName] = append(s.byState[rec.StateName], rec)

		if !seenYear[rec.Year] {
			seenYear[rec.Year] = true
			s.years = append(s.years, rec.Year)
		}
	}

	// Districts are listed state by state so scans follow the state index order.
	for _, state := range s.states {
		for _, rec := range s.byState[state] {
			if rec.LocationName == "" || seenDistrict[rec.LocationName] {
				continue
			}
			seenDistrict[rec.LocationName] = true
			s.districts = append(s.districts, District{Name: rec.LocationName, State: state})
		}
	}

	return s
}

// Records returns every record in load order.
func (s *Store) Records() []*models.Record {
	return s.records
}

// States returns state names in first-seen order.
func (s *Store) States() []string {
	return s.states
}

// Districts returns distinct location names in state index order.
func (s *Store) Districts() []District {
	return s.districts
}

// DistrictsOf returns the distinct location names recorded under state.
func (s *Store) DistrictsOf(state string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, rec := range s.byState[state] {
		if rec.LocationName == "" || seen[rec.LocationName] {
			continue
		}
		seen[rec.LocationName] = true
		names = append(names, rec.LocationName)
	}
	return names
}

// Years returns year labels in first-seen order.
func (s *Store) Years() []string {
	return s.years
}

// StateRecords returns all records of a state across all years.
// The second value is false when the state is not in the index.
func (s *Store) StateRecords(state string) ([]*models.Record, bool) {
	recs, ok := s.byState[state]
	return recs, ok
}

// FirstByLocation returns the first record, in state index order, whose
// location name equals name exactly.
func (s *Store) FirstByLocation(name string) (*models.Record, bool) {
	for _, state := range s.states {
		for _, rec := range s.byState[state] {
			if rec.LocationName == name {
				return rec, true
			}
		}
	}
	return nil, false
}

// Filter returns records matching every non-empty predicate of f. State and
// district names compare case-insensitively, the year label exactly.
func (s *Store) Filter(f models.QueryFilter) []*models.Record {
	var out []*models.Record
	for _, rec := range s.records {
		if f.State != "" && !strings.EqualFold(rec.StateName, f.State) {
			continue
		}
		if f.District != "" && !strings.EqualFold(rec.LocationName, f.District) {
			continue
		}
		if f.Year != "" && rec.Year != f.Year {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}
