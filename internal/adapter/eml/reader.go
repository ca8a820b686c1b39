// Package eml discovers and parses rare-bird-alert .eml files.
package eml

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"

	"github.com/couchcryptid/rare-bird-map/internal/domain"
)

// Alert is one parsed rare-bird-alert email.
type Alert struct {
	Path      string
	Subject   string
	Date      time.Time // calendar date of the Date header; zero when missing
	Sightings []domain.Sighting
}

// FindFiles resolves the input path to a list of .eml files. A file path is
// returned as-is; a directory (or an empty path, meaning the working
// directory) is globbed for *.eml, sorted. No matches is an error.
func FindFiles(path string) ([]string, error) {
	dir := path
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			return []string{path}, nil
		}
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.eml"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no .eml files found in %s", dir)
	}
	sort.Strings(matches)
	return matches, nil
}

// ParseFile reads one .eml file and extracts its sightings. The message must
// carry a plain-text body; alert emails always do, and without one there is
// nothing to parse. Each sighting is tagged with the email's send date for
// the day-count filter.
func ParseFile(path string) (Alert, error) {
	f, err := os.Open(path)
	if err != nil {
		return Alert{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	env, err := enmime.ReadEnvelope(f)
	if err != nil {
		return Alert{}, fmt.Errorf("parse %s: %w", path, err)
	}
	// Envelope.Text falls back to down-converted HTML, which is not the
	// alert format; require a genuine text/plain part.
	plain := env.Root.DepthMatchFirst(func(p *enmime.Part) bool {
		return p.ContentType == "text/plain"
	})
	if plain == nil || strings.TrimSpace(env.Text) == "" {
		return Alert{}, fmt.Errorf("no plain-text body found in %s", path)
	}

	alert := Alert{
		Path:    path,
		Subject: env.GetHeader("Subject"),
	}
	if raw := env.GetHeader("Date"); raw != "" {
		if t, err := mail.ParseDate(raw); err == nil {
			t = t.UTC()
			alert.Date = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}

	alert.Sightings = domain.ParseAlertBody(env.Text)
	for i := range alert.Sightings {
		alert.Sightings[i].SourceDate = alert.Date
	}
	return alert, nil
}

// NewestDate returns the most recent send date across the alerts, or the
// zero time when none carries one.
func NewestDate(alerts []Alert) time.Time {
	var newest time.Time
	for _, a := range alerts {
		if a.Date.After(newest) {
			newest = a.Date
		}
	}
	return newest
}

// FilterByDays keeps alerts sent within the last days days, anchored at the
// newest send date, inclusive. Undated alerts are dropped once a window is
// requested. days <= 0 keeps everything.
func FilterByDays(alerts []Alert, days int) []Alert {
	if days <= 0 {
		return alerts
	}
	newest := NewestDate(alerts)
	if newest.IsZero() {
		return alerts
	}
	cutoff := newest.AddDate(0, 0, -(days - 1))

	var kept []Alert
	for _, a := range alerts {
		if !a.Date.IsZero() && !a.Date.Before(cutoff) {
			kept = append(kept, a)
		}
	}
	return kept
}
