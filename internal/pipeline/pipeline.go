// Package pipeline runs the single filter-group-render-write pass that turns
// a set of sightings into a map file on disk.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/rare-bird-map/internal/browser"
	"github.com/couchcryptid/rare-bird-map/internal/domain"
	"github.com/couchcryptid/rare-bird-map/internal/render"
)

// ErrNoSightings indicates nothing renderable survived parsing and filtering.
var ErrNoSightings = errors.New("no sightings with coordinates found")

// Options control a single run.
type Options struct {
	Title       string
	Output      string
	StateFilter string
	SpanDays    int
	OpenBrowser bool
}

// Pipeline owns the run's side effects: summary output, the file write, and
// the browser launch.
type Pipeline struct {
	logger *slog.Logger
	out    io.Writer // human-facing summary, normally stdout
	open   func(url string) error
}

// New creates a Pipeline writing its summary to out.
func New(logger *slog.Logger, out io.Writer) *Pipeline {
	return &Pipeline{logger: logger, out: out, open: browser.Open}
}

// Run filters, renders, and writes the map, returning the output path.
// There is no partial success: any failure aborts the run.
func (p *Pipeline) Run(sightings []domain.Sighting, opts Options) (string, error) {
	if opts.StateFilter != "" {
		filtered := domain.FilterByState(sightings, opts.StateFilter)
		fmt.Fprintf(p.out, "Filtered to %q: %d of %d sightings\n", opts.StateFilter, len(filtered), len(sightings))
		sightings = filtered
	}
	if len(sightings) == 0 {
		return "", ErrNoSightings
	}

	species := domain.SpeciesNames(sightings)
	fmt.Fprintf(p.out, "Total: %d sightings — %d unique species:\n", len(sightings), len(species))
	for _, name := range species {
		fmt.Fprintf(p.out, "  • %s\n", name)
	}

	page, err := render.Build(sightings, render.Options{Title: opts.Title, SpanDays: opts.SpanDays})
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(opts.Output, []byte(page), 0o644); err != nil {
		return "", fmt.Errorf("write map: %w", err)
	}
	fmt.Fprintf(p.out, "Map written to: %s\n", opts.Output)

	if opts.OpenBrowser {
		if err := p.open(fileURL(opts.Output)); err != nil {
			p.logger.Warn("could not open browser", "error", err)
		}
	}
	return opts.Output, nil
}

func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}
