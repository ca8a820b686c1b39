// Command genalert builds rare-bird-alert .eml fixtures from a JSON sighting
// list. It writes the same block format the parser consumes, so fixtures
// generated here stay in sync with real alert emails.
//
// Usage:
//
//	go run ./cmd/genalert \
//	  -sightings testdata/sightings.json \
//	  -out testdata/alert.eml \
//	  -subject "Massachusetts Rare Bird Alert"
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/rare-bird-map/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	sightingsPath := flag.String("sightings", "", "JSON file with an array of sightings")
	outPath := flag.String("out", "", "output .eml path")
	subject := flag.String("subject", "eBird Rare Bird Alert", "alert Subject header")
	date := flag.String("date", "", "alert Date header in RFC 1123Z, defaults to now")
	flag.Parse()

	if *sightingsPath == "" || *outPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -sightings, -out")
	}

	data, err := os.ReadFile(*sightingsPath)
	if err != nil {
		return fmt.Errorf("read sightings: %w", err)
	}
	var sightings []domain.Sighting
	if err := json.Unmarshal(data, &sightings); err != nil {
		return fmt.Errorf("parse sightings: %w", err)
	}
	if len(sightings) == 0 {
		return fmt.Errorf("no sightings in %s", *sightingsPath)
	}

	sent := time.Now()
	if *date != "" {
		sent, err = time.Parse(time.RFC1123Z, *date)
		if err != nil {
			return fmt.Errorf("parse -date: %w", err)
		}
	}

	msg := buildMessage(*subject, sent, sightings)
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(*outPath, []byte(msg), 0o600); err != nil {
		return fmt.Errorf("write alert: %w", err)
	}
	log.Printf("wrote %s: %d sightings", *outPath, len(sightings))
	return nil
}

// buildMessage renders a plain-text alert email. Every block follows the
// fixed bullet order the alerts use: reported line, location, map link,
// then the optional checklist and comments lines.
func buildMessage(subject string, sent time.Time, sightings []domain.Sighting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: ebird-alert@birds.cornell.edu\r\n")
	fmt.Fprintf(&b, "To: subscriber@example.com\r\n")
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", sent.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	fmt.Fprintf(&b, "\r\n")

	for i := range sightings {
		s := &sightings[i]
		b.WriteString(headerLine(s))
		b.WriteString("\n")
		if s.ReportedDate != "" || s.Observer != "" {
			fmt.Fprintf(&b, "- Reported %s by %s\n", s.ReportedDate, s.Observer)
		}
		if s.Location != "" {
			fmt.Fprintf(&b, "- %s\n", s.Location)
		}
		if s.Geo != nil {
			fmt.Fprintf(&b, "- Map: https://maps.google.com/?q=%g,%g\n", s.Geo.Lat, s.Geo.Lon)
		}
		if s.ChecklistURL != "" {
			fmt.Fprintf(&b, "- Checklist: %s\n", s.ChecklistURL)
		}
		if s.Comments != "" {
			fmt.Fprintf(&b, "- Comments: \"%s\"\n", s.Comments)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func headerLine(s *domain.Sighting) string {
	line := fmt.Sprintf("%s (%s)", s.Species, s.ScientificName)
	if s.Count != "" && s.Count != domain.UnknownCount {
		line += fmt.Sprintf(" (%s)", s.Count)
	}
	if s.Confirmed {
		line += " CONFIRMED"
	}
	return line
}
