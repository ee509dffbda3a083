package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/models"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/store"
)

func TestLocationResolver_Resolve(t *testing.T) {
	r := NewLocationResolver(sampleStore(), ResolverConfig{})

	tests := []struct {
		name  string
		query string
		want  models.Location
	}{
		{"state", "groundwater in Kerala", models.Location{Kind: models.LocationState, Name: "Kerala"}},
		{"case insensitive", "RAINFALL IN PUNJAB", models.Location{Kind: models.LocationState, Name: "Punjab"}},
		{"district", "rainfall in wayanad", models.Location{Kind: models.LocationDistrict, Name: "Wayanad"}},
		{"state wins over district", "wayanad district of kerala", models.Location{Kind: models.LocationState, Name: "Kerala"}},
		{"state wins over district of another state", "ludhiana or kerala", models.Location{Kind: models.LocationState, Name: "Kerala"}},
		{"unknown", "groundwater in Atlantis", models.UnknownLocation},
		{"empty", "", models.UnknownLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.query))
		})
	}
}

func TestLocationResolver_FirstMatchIsIndexOrder(t *testing.T) {
	s := store.New([]*models.Record{
		{Year: "2020", StateName: "Tamil Nadu", LocationName: "Kota"},
		{Year: "2020", StateName: "Tamil Nadu", LocationName: "Kotagiri"},
	})

	first := NewLocationResolver(s, ResolverConfig{})
	assert.Equal(t, "Kota", first.Resolve("rainfall in kotagiri").Name)

	longest := NewLocationResolver(s, ResolverConfig{LongestMatch: true})
	assert.Equal(t, "Kotagiri", longest.Resolve("rainfall in kotagiri").Name)
	assert.Equal(t, "Kota", longest.Resolve("rainfall in kota").Name)
}

func TestLocationResolver_EmptyNamesNeverMatch(t *testing.T) {
	s := store.New([]*models.Record{
		{Year: "2020", StateName: "", LocationName: ""},
		{Year: "2020", StateName: "Goa", LocationName: "North Goa"},
	})
	r := NewLocationResolver(s, ResolverConfig{})

	assert.Equal(t, models.UnknownLocation, r.Resolve("rainfall in mars"))
	assert.Equal(t, models.Location{Kind: models.LocationState, Name: "Goa"}, r.Resolve("rainfall in north goa"))
}

func TestLocationResolver_Deterministic(t *testing.T) {
	r := NewLocationResolver(sampleStore(), ResolverConfig{})
	first := r.Resolve("palakkad and wayanad")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, r.Resolve("palakkad and wayanad"))
	}
	assert.Equal(t, "Wayanad", first.Name, "districts scan in first-seen order")
}
