package models

// LocationKind says which administrative tier a name was matched against.
type LocationKind string

const (
	LocationState    LocationKind = "state"
	LocationDistrict LocationKind = "district"
	LocationUnknown  LocationKind = "unknown"
)

// Location is a resolved place mentioned in a question.
type Location struct {
	Kind LocationKind
	Name string
}

// UnknownLocation is returned when no state or district matched.
var UnknownLocation = Location{Kind: LocationUnknown}

// Resolved reports whether the location matched a known state or district.
func (l Location) Resolved() bool {
	return l.Kind == LocationState || l.Kind == LocationDistrict
}

// QueryFilter holds the optional predicates extracted from a free-form question.
// Empty fields match everything.
type QueryFilter struct {
	State    string
	District string
	Year     string
}
