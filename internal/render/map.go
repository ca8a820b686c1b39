// Package render serializes sighting groups into a self-contained Leaflet
// map page. Leaflet and the OpenStreetMap tiles load from public CDNs, so
// the output file needs no local assets or API key.
package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/couchcryptid/rare-bird-map/internal/domain"
)

//go:embed map.html.tmpl
var pageTemplate string

var tmpl = template.Must(template.New("map").Parse(pageTemplate))

// Options configure one render pass.
type Options struct {
	Title    string
	SpanDays int // explicit color-scale span in days; <= 1 means use the observed span
}

// marker is the per-group payload handed to the page's JavaScript.
type marker struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Color   string  `json:"color"`
	Popup   string  `json:"popup"`
	Tooltip string  `json:"tooltip"`
}

type legendEntry struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

type page struct {
	Title         string
	SightingCount int
	LocationCount int
	GeneratedAt   string
	CenterJSON    template.JS
	MarkersJSON   template.JS
	LegendJSON    template.JS
}

// Build renders the map page. Every sighting must carry coordinates; the
// adapters guarantee that by construction.
func Build(sightings []domain.Sighting, opts Options) (string, error) {
	if len(sightings) == 0 {
		return "", errors.New("no sightings to render")
	}

	groups := domain.GroupByCoordinates(sightings)
	scale := domain.NewColorScale(sightings, opts.SpanDays)

	markers := make([]marker, 0, len(groups))
	for _, g := range groups {
		markers = append(markers, marker{
			Lat:     g.Key.Lat,
			Lon:     g.Key.Lon,
			Color:   scale.GroupColor(g),
			Popup:   popupHTML(g),
			Tooltip: strings.Join(domain.SpeciesNames(g.Sightings), ", "),
		})
	}

	markersJSON, err := marshalTemplateJS(markers)
	if err != nil {
		return "", fmt.Errorf("marshal markers: %w", err)
	}
	legendJSON, err := marshalTemplateJS(buildLegend(scale))
	if err != nil {
		return "", fmt.Errorf("marshal legend: %w", err)
	}

	centerLat, centerLon := center(sightings)
	centerJSON, err := marshalTemplateJS([2]float64{centerLat, centerLon})
	if err != nil {
		return "", fmt.Errorf("marshal center: %w", err)
	}

	var buf bytes.Buffer
	data := page{
		Title:         opts.Title,
		SightingCount: len(sightings),
		LocationCount: len(groups),
		GeneratedAt:   clock.Now().Format(domain.DisplayDateTimeLayout),
		CenterJSON:    centerJSON,
		MarkersJSON:   markersJSON,
		LegendJSON:    legendJSON,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// marshalTemplateJS marshals a value for embedding inside a <script> block.
// encoding/json escapes <, > and & so the payload cannot close the tag.
func marshalTemplateJS(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

// popupHTML lists the sightings at one location, de-duplicated by the
// "species (count)" tag so repeated reports of the same birds collapse.
func popupHTML(g domain.Group) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b><br>", html.EscapeString(g.Sightings[0].Location))

	seen := make(map[string]bool)
	for _, s := range g.Sightings {
		tag := fmt.Sprintf("%s (%s)", s.Species, s.Count)
		if seen[tag] {
			continue
		}
		seen[tag] = true

		check := ""
		if s.Confirmed {
			check = " &#10003;"
		}
		fmt.Fprintf(&b, "<b>%s</b> &times;%s%s<br><i>%s</i> &mdash; %s<br>",
			html.EscapeString(s.Species),
			html.EscapeString(s.Count),
			check,
			html.EscapeString(s.ReportedDate),
			html.EscapeString(s.Observer),
		)
		if s.Comments != "" {
			fmt.Fprintf(&b, "<span style='color:#555'>%s</span><br>", html.EscapeString(s.Comments))
		}
		if s.ChecklistURL != "" {
			fmt.Fprintf(&b, "<a href='%s' target='_blank'>Checklist</a><br>", html.EscapeString(s.ChecklistURL))
		}
		b.WriteString("<hr style='margin:4px 0'>")
	}
	return b.String()
}

// buildLegend maps each distinct reported date to its scale color. A single
// date (or none) yields an empty legend, which the page omits.
func buildLegend(scale domain.ColorScale) []legendEntry {
	dates := scale.Dates()
	entries := make([]legendEntry, 0, len(dates))
	if len(dates) < 2 {
		return entries
	}
	for _, d := range dates {
		entries = append(entries, legendEntry{
			Color: scale.ColorFor(d),
			Label: d.Format(domain.DisplayDateLayout),
		})
	}
	return entries
}

func center(sightings []domain.Sighting) (lat, lon float64) {
	for _, s := range sightings {
		lat += s.Geo.Lat
		lon += s.Geo.Lon
	}
	n := float64(len(sightings))
	return lat / n, lon / n
}
