package domain

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Display layouts for reported dates, matching the alert email format.
const (
	DisplayDateTimeLayout = "Jan 02, 2006 15:04"
	DisplayDateLayout     = "Jan 02, 2006"
)

// UnknownCount is the placeholder used when a sighting does not report how
// many birds were seen. It is rendered verbatim, never treated as a number.
const UnknownCount = "?"

// Geo is a WGS-84 latitude/longitude pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Sighting is one reported observation of a species at a place and time.
// Sightings are immutable once constructed.
type Sighting struct {
	Species        string `json:"species"`
	ScientificName string `json:"scientificName"`
	Count          string `json:"count"` // numeric string, or UnknownCount
	Confirmed      bool   `json:"confirmed"`
	Location       string `json:"location"`
	Geo            *Geo   `json:"geo,omitempty"` // nil until coordinates are known
	ReportedDate   string `json:"reportedDate"`
	Observer       string `json:"observer"`
	Comments       string `json:"comments,omitempty"`
	ChecklistURL   string `json:"checklistUrl,omitempty"`

	// SourceDate is the Date header of the alert email this sighting came
	// from. Only the .eml mode day-count filter reads it.
	SourceDate time.Time `json:"-"`
}

// HasCoords reports whether the sighting carries coordinates. Only sightings
// with coordinates are rendered.
func (s Sighting) HasCoords() bool {
	return s.Geo != nil
}

// GroupKey identifies one map marker: coordinates rounded to 5 decimals.
type GroupKey struct {
	Lat float64
	Lon float64
}

// Group is the ordered set of sightings sharing a GroupKey.
type Group struct {
	Key       GroupKey
	Sightings []Sighting
}

// GroupByCoordinates buckets sightings by rounded coordinates, preserving
// first-seen order of both keys and the sightings within each group.
// Sightings without coordinates are skipped.
func GroupByCoordinates(sightings []Sighting) []Group {
	index := make(map[GroupKey]int)
	var groups []Group

	for _, s := range sightings {
		if !s.HasCoords() {
			continue
		}
		key := GroupKey{Lat: round5(s.Geo.Lat), Lon: round5(s.Geo.Lon)}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Sightings = append(groups[i].Sightings, s)
	}

	return groups
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

// FilterByState keeps sightings whose location contains the given text,
// case-insensitively. An empty filter keeps everything.
func FilterByState(sightings []Sighting, state string) []Sighting {
	if state == "" {
		return sightings
	}
	needle := strings.ToLower(state)
	var kept []Sighting
	for _, s := range sightings {
		if strings.Contains(strings.ToLower(s.Location), needle) {
			kept = append(kept, s)
		}
	}
	return kept
}

// SpeciesNames returns the sorted distinct species names in the given set.
func SpeciesNames(sightings []Sighting) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range sightings {
		if !seen[s.Species] {
			seen[s.Species] = true
			names = append(names, s.Species)
		}
	}
	sort.Strings(names)
	return names
}

// ParseReportedDate recovers the calendar date from a display-formatted
// reported date like "Feb 05, 2026 15:08" or "Feb 05, 2026". The returned
// time is midnight UTC of that day. ok is false when neither layout matches.
func ParseReportedDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DisplayDateTimeLayout, DisplayDateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return midnightUTC(t), true
		}
	}
	return time.Time{}, false
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
