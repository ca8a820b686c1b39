package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// headerRe matches a species header line:
	//
	//	"Black Rail (Laterallus jamaicensis) (2) CONFIRMED"
	//
	// Count and CONFIRMED are optional. The parenthesized scientific name
	// must look like a binomial (uppercase then lowercase letter), which
	// keeps parenthetical remarks in location lines from starting records.
	headerRe = regexp.MustCompile(`^(.+?)\s+\(([A-Z][a-z].*?)\)\s*(?:\((\d+)\))?\s*(CONFIRMED)?$`)

	// reportedRe splits "- Reported Feb 05, 2026 15:08 by Jane Doe" into
	// date and observer.
	reportedRe = regexp.MustCompile(`^- Reported (.+?) by (.+)$`)

	// coordsRe finds the q=<lat>,<lon> pair inside a maps link.
	coordsRe = regexp.MustCompile(`q=(-?\d+\.?\d*),(-?\d+\.?\d*)`)
)

// ParseAlertBody extracts sightings from the plain-text body of a rare bird
// alert email. The format is heuristic (see the package doc), so parsing is
// best-effort: unmatched lines are skipped, and a record that never receives
// coordinates before the next header or end of input is dropped.
func ParseAlertBody(body string) []Sighting {
	var acc alertAccumulator
	for _, raw := range strings.Split(body, "\n") {
		acc.feed(strings.TrimSpace(raw))
	}
	return acc.finish()
}

// alertAccumulator is the parser state: either no active record, or one
// record collecting field lines until the next header flushes it.
type alertAccumulator struct {
	current *Sighting
	out     []Sighting
}

// feed classifies one trimmed line. The prefix rules form an ordered list
// evaluated first-match-wins.
func (a *alertAccumulator) feed(line string) {
	if s, ok := parseHeader(line); ok {
		a.flush()
		a.current = &s
		return
	}
	if a.current == nil {
		return
	}

	switch {
	case strings.HasPrefix(line, "- Reported "):
		if m := reportedRe.FindStringSubmatch(line); m != nil {
			a.current.ReportedDate = m[1]
			a.current.Observer = m[2]
		}
	case strings.HasPrefix(line, "- Map:"):
		if m := coordsRe.FindStringSubmatch(line); m != nil {
			lat, errLat := strconv.ParseFloat(m[1], 64)
			lon, errLon := strconv.ParseFloat(m[2], 64)
			if errLat == nil && errLon == nil {
				a.current.Geo = &Geo{Lat: lat, Lon: lon}
			}
		}
	case strings.HasPrefix(line, "- Checklist:"):
		a.current.ChecklistURL = afterColon(line)
	case strings.HasPrefix(line, "- Comments:"):
		a.current.Comments = strings.Trim(afterColon(line), `"`)
	case strings.HasPrefix(line, "- Media:"):
		// Ignored.
	case strings.HasPrefix(line, "- ") && !a.current.HasCoords() && a.current.Location == "":
		// Location is the first remaining bullet line seen before the Map
		// line. Known fragility: a location placed after the Map line is
		// silently missed; the alert format has not been observed doing that.
		a.current.Location = strings.TrimSpace(strings.TrimLeft(line, "- "))
	}
}

// flush finalizes the current record. Records without coordinates cannot be
// placed on the map and are discarded.
func (a *alertAccumulator) flush() {
	if a.current != nil && a.current.HasCoords() {
		a.out = append(a.out, *a.current)
	}
	a.current = nil
}

func (a *alertAccumulator) finish() []Sighting {
	a.flush()
	return a.out
}

// parseHeader matches a species header line and returns the fresh record.
// Bullet lines never start a record.
func parseHeader(line string) (Sighting, bool) {
	if line == "" || strings.HasPrefix(line, "- ") {
		return Sighting{}, false
	}
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return Sighting{}, false
	}
	count := m[3]
	if count == "" {
		count = UnknownCount
	}
	return Sighting{
		Species:        m[1],
		ScientificName: m[2],
		Count:          count,
		Confirmed:      m[4] != "",
	}, true
}

func afterColon(line string) string {
	_, rest, _ := strings.Cut(line, ":")
	return strings.TrimSpace(rest)
}
