package eml

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plainAlert = `From: ebird-alert@birds.cornell.edu
To: birder@example.com
Subject: Massachusetts Rare Bird Alert
Date: Thu, 05 Feb 2026 16:00:00 -0500
MIME-Version: 1.0
Content-Type: text/plain; charset="UTF-8"

Black Rail (Laterallus jamaicensis) (2) CONFIRMED
- Reported Feb 05, 2026 15:08 by Jane Doe
- Plum Island, Essex, Massachusetts
- Map: https://maps.google.com/?q=42.12345,-71.54321
`

const multipartAlert = `From: ebird-alert@birds.cornell.edu
Subject: Maryland Rare Bird Alert
Date: Wed, 04 Feb 2026 08:00:00 -0500
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="sep"

--sep
Content-Type: text/plain; charset="UTF-8"

Ruff (Calidris pugnax)
- Assateague Island, Maryland
- Map: https://maps.google.com/?q=38.05,-75.24
--sep
Content-Type: text/html; charset="UTF-8"

<html><body><b>Ruff</b></body></html>
--sep--
`

const htmlOnlyAlert = `From: ebird-alert@birds.cornell.edu
Subject: HTML Alert
MIME-Version: 1.0
Content-Type: text/html; charset="UTF-8"

<html><body><b>Ruff</b> at Assateague</body></html>
`

func writeEML(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("plain text message", func(t *testing.T) {
		path := writeEML(t, dir, "ma.eml", plainAlert)
		alert, err := ParseFile(path)
		require.NoError(t, err)

		assert.Equal(t, "Massachusetts Rare Bird Alert", alert.Subject)
		// -0500 16:00 is 21:00 UTC, still Feb 5.
		assert.Equal(t, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), alert.Date)
		require.Len(t, alert.Sightings, 1)
		assert.Equal(t, "Black Rail", alert.Sightings[0].Species)
		assert.Equal(t, alert.Date, alert.Sightings[0].SourceDate)
	})

	t.Run("multipart message uses the plain part", func(t *testing.T) {
		path := writeEML(t, dir, "md.eml", multipartAlert)
		alert, err := ParseFile(path)
		require.NoError(t, err)

		require.Len(t, alert.Sightings, 1)
		assert.Equal(t, "Ruff", alert.Sightings[0].Species)
		assert.Equal(t, "Assateague Island, Maryland", alert.Sightings[0].Location)
	})

	t.Run("html-only message is rejected", func(t *testing.T) {
		path := writeEML(t, dir, "html.eml", htmlOnlyAlert)
		_, err := ParseFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no plain-text body")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(dir, "nope.eml"))
		require.Error(t, err)
	})
}

func TestFindFiles(t *testing.T) {
	t.Run("single file path", func(t *testing.T) {
		dir := t.TempDir()
		path := writeEML(t, dir, "one.eml", plainAlert)
		files, err := FindFiles(path)
		require.NoError(t, err)
		assert.Equal(t, []string{path}, files)
	})

	t.Run("directory is globbed and sorted", func(t *testing.T) {
		dir := t.TempDir()
		b := writeEML(t, dir, "b.eml", plainAlert)
		a := writeEML(t, dir, "a.eml", plainAlert)
		writeEML(t, dir, "notes.txt", "not an email")

		files, err := FindFiles(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{a, b}, files)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := FindFiles(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .eml files")
	})

	t.Run("nonexistent path", func(t *testing.T) {
		_, err := FindFiles(filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
	})
}

func datedAlert(day int) Alert {
	return Alert{
		Path: fmt.Sprintf("alert-%02d.eml", day),
		Date: time.Date(2026, 2, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestFilterByDays(t *testing.T) {
	// Send dates spanning 10 days.
	var alerts []Alert
	for day := 1; day <= 10; day++ {
		alerts = append(alerts, datedAlert(day))
	}

	t.Run("window anchored at newest, inclusive", func(t *testing.T) {
		kept := FilterByDays(alerts, 3)
		require.Len(t, kept, 3)
		assert.Equal(t, 8, kept[0].Date.Day())
		assert.Equal(t, 10, kept[2].Date.Day())
	})

	t.Run("zero days keeps everything", func(t *testing.T) {
		assert.Len(t, FilterByDays(alerts, 0), 10)
	})

	t.Run("window wider than the data keeps everything", func(t *testing.T) {
		assert.Len(t, FilterByDays(alerts, 30), 10)
	})

	t.Run("undated alerts dropped when filtering", func(t *testing.T) {
		mixed := append([]Alert{{Path: "undated.eml"}}, alerts...)
		kept := FilterByDays(mixed, 3)
		assert.Len(t, kept, 3)
	})

	t.Run("all undated keeps everything", func(t *testing.T) {
		undated := []Alert{{Path: "x.eml"}, {Path: "y.eml"}}
		assert.Len(t, FilterByDays(undated, 3), 2)
	})
}

func TestNewestDate(t *testing.T) {
	assert.True(t, NewestDate(nil).IsZero())
	assert.Equal(t, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
		NewestDate([]Alert{datedAlert(3), datedAlert(9), datedAlert(7)}))
}
