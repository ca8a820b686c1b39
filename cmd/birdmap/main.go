// Command birdmap turns eBird rare-bird-alert emails, or a live eBird API
// query, into an interactive HTML map.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/rare-bird-map/internal/adapter/eml"
	"github.com/couchcryptid/rare-bird-map/internal/config"
	"github.com/couchcryptid/rare-bird-map/internal/domain"
	"github.com/couchcryptid/rare-bird-map/internal/observability"
	"github.com/couchcryptid/rare-bird-map/internal/pipeline"
)

const defaultTitle = "eBird Rare Bird Alert"

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "birdmap [eml-file-or-dir]",
	Short: "Map eBird rare bird alerts",
	Long: `birdmap parses eBird rare-bird-alert .eml files and writes an
interactive HTML map of the sightings. Point it at a single .eml file or a
directory of them; with no argument it scans the working directory.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	},
	RunE: runEML,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfg.Output, "output", "o", "", "output HTML path (default: next to the input)")
	pf.StringVarP(&cfg.StateFilter, "state", "s", "", "only keep sightings whose location mentions this state")
	pf.BoolVar(&cfg.NoOpen, "no-open", false, "do not open the map in a browser")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "log format (text or json)")

	rootCmd.Flags().IntVarP(&cfg.Days, "days", "d", 0, "only map alerts sent in the last N days (0 = all)")
}

func runEML(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg.InputPath = args[0]
	}

	files, err := eml.FindFiles(cfg.InputPath)
	if err != nil {
		return err
	}

	var alerts []eml.Alert
	for _, path := range files {
		alert, err := eml.ParseFile(path)
		if err != nil {
			return err
		}
		if len(alert.Sightings) == 0 {
			logger.Debug("no sightings in file", "path", path)
			continue
		}
		alerts = append(alerts, alert)
	}
	if len(alerts) == 0 {
		return fmt.Errorf("no sightings with coordinates found in any .eml file")
	}

	if cfg.Days > 0 {
		before := len(alerts)
		alerts = eml.FilterByDays(alerts, cfg.Days)
		logger.Info("filtered alerts by age", "days", cfg.Days, "kept", len(alerts), "of", before)
		if len(alerts) == 0 {
			return fmt.Errorf("no alerts sent in the last %d day(s)", cfg.Days)
		}
	}

	title := defaultTitle
	if s := alerts[0].Subject; s != "" {
		title = s
	}

	var sightings []domain.Sighting
	for _, a := range alerts {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d sightings\n", a.Path, len(a.Sightings))
		sightings = append(sightings, a.Sightings...)
	}

	output := cfg.Output
	if output == "" {
		output = config.DefaultOutput(cfg.InputPath)
	}

	p := pipeline.New(logger, cmd.OutOrStdout())
	_, err = p.Run(sightings, pipeline.Options{
		Title:       title,
		Output:      output,
		StateFilter: cfg.StateFilter,
		SpanDays:    cfg.Days,
		OpenBrowser: !cfg.NoOpen,
	})
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
