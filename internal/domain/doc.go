// Package domain models eBird rare-bird sightings.
//
// # Data Sources
//
// Sightings come from two places that are normalized into the same
// [Sighting] shape:
//
//   - Rare Bird Alert emails (.eml files) as sent by eBird's alert
//     subscription service. The plain-text body lists one block per sighting.
//   - The eBird v2 API "recent notable observations" endpoint, handled by
//     the ebird adapter.
//
// # Alert Email Grammar
//
// The email body is externally authored, loosely formatted text, not a
// formal grammar. A sighting block looks like:
//
//	Black Rail (Laterallus jamaicensis) (2) CONFIRMED
//	- Reported Feb 05, 2026 15:08 by Jane Doe
//	- Plum Island, Essex, Massachusetts
//	- Map: https://maps.google.com/?q=42.12345,-71.54321
//	- Checklist: https://ebird.org/checklist/S123456789
//	- Comments: "Seen at the salt pannes"
//
// The header's count "(2)" and trailing "CONFIRMED" are both optional; an
// absent count is recorded as the literal "?" because it is a display string,
// not a number. The location is the first bullet line before the Map line
// that is not a Reported/Map/Media/Checklist/Comments line. Parsing is
// best-effort: unrecognized lines are skipped, never an error, and a block
// that never yields coordinates is dropped.
//
// # Reported Dates
//
// Dates appear in the alert display format "Feb 05, 2026 15:08" (time
// optional). [ParseReportedDate] recovers the calendar date for recency
// color scaling; unparseable dates simply opt the sighting out of scaling.
//
// # Grouping and Color
//
// Sightings sharing coordinates rounded to 5 decimal places (about one
// meter) collapse into one [Group], rendered as a single map marker. Marker
// color interpolates linearly per RGB channel from #e74c3c (newest) to
// #2c3e50 (oldest) across the observed date span, which is floored at one
// day so a single-day data set never divides by zero.
package domain
