package domain

import (
	"sort"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Marker color endpoints: bright red for the newest reports fading to dark
// blue-grey for the oldest.
var (
	newestColor = colorful.Color{R: 231.0 / 255.0, G: 76.0 / 255.0, B: 60.0 / 255.0} // #e74c3c
	oldestColor = colorful.Color{R: 44.0 / 255.0, G: 62.0 / 255.0, B: 80.0 / 255.0}  // #2c3e50
)

// AgeColor maps an age fraction in [0,1] (0 = newest, 1 = oldest) to a hex
// color by independent per-channel linear interpolation between the two
// endpoints. Out-of-range fractions are clamped.
func AgeColor(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return newestColor.BlendRgb(oldestColor, fraction).Hex()
}

// ColorScale normalizes reported dates across the whole record set so every
// marker and legend entry uses the same scale. Build it once per render.
type ColorScale struct {
	newest time.Time
	span   int         // denominator in days, always >= 1
	dates  []time.Time // distinct reported dates, newest first
}

// NewColorScale derives the scale from the sightings' reported dates. When
// overrideDays is greater than 1 it is used as the span; otherwise the span
// is the actual newest-to-oldest distance in days, floored at 1.
func NewColorScale(sightings []Sighting, overrideDays int) ColorScale {
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, s := range sightings {
		d, ok := ParseReportedDate(s.ReportedDate)
		if !ok || seen[d] {
			continue
		}
		seen[d] = true
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	cs := ColorScale{span: 1, dates: dates}
	if len(dates) == 0 {
		return cs
	}
	cs.newest = dates[0]

	switch {
	case overrideDays > 1:
		cs.span = overrideDays
	default:
		if span := daysBetween(dates[len(dates)-1], cs.newest); span > 1 {
			cs.span = span
		}
	}
	return cs
}

// Fraction returns the age fraction of a calendar date relative to the
// newest reported date. A zero date (or a scale with no dates) maps to 0.
func (cs ColorScale) Fraction(d time.Time) float64 {
	if cs.newest.IsZero() || d.IsZero() {
		return 0
	}
	return float64(daysBetween(d, cs.newest)) / float64(cs.span)
}

// ColorFor returns the marker color for a single calendar date.
func (cs ColorScale) ColorFor(d time.Time) string {
	return AgeColor(cs.Fraction(d))
}

// GroupColor colors a group by its own newest reported date. Groups with no
// parseable date default to the global newest (fraction 0).
func (cs ColorScale) GroupColor(g Group) string {
	var newest time.Time
	for _, s := range g.Sightings {
		if d, ok := ParseReportedDate(s.ReportedDate); ok && d.After(newest) {
			newest = d
		}
	}
	if newest.IsZero() {
		newest = cs.newest
	}
	return cs.ColorFor(newest)
}

// Dates returns the distinct reported dates in the set, newest first. The
// renderer builds the legend from this; fewer than two dates means no legend.
func (cs ColorScale) Dates() []time.Time {
	return cs.dates
}

// daysBetween counts whole days from older to newer. Both arguments are
// midnight-UTC calendar dates, so the division is exact.
func daysBetween(older, newer time.Time) int {
	return int(newer.Sub(older).Hours() / 24)
}
