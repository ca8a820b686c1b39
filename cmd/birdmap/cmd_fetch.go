package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/rare-bird-map/internal/adapter/ebird"
	"github.com/couchcryptid/rare-bird-map/internal/config"
	"github.com/couchcryptid/rare-bird-map/internal/pipeline"
)

const fetchTimeout = 30 * time.Second

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch notable observations from the eBird API and map them",
	Long: `fetch queries the eBird v2 API for recent notable observations in a
region and writes them to an interactive HTML map. An API key is required,
either via --api-key or the EBIRD_API_KEY environment variable (a .env file
is honored).`,
	SilenceUsage: true,
	RunE:         runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&cfg.Region, "region", "r", "", "eBird region code, e.g. US-MA (required)")
	fetchCmd.Flags().StringVar(&cfg.APIKey, "api-key", "", "eBird API key (default: EBIRD_API_KEY env var)")
	fetchCmd.Flags().IntVar(&cfg.Back, "back", 7, "lookback window in days (1-30)")
	_ = fetchCmd.MarkFlagRequired("region")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if err := cfg.ResolveAPIKey(); err != nil {
		return err
	}
	back := config.ClampBack(cfg.Back)

	client := ebird.NewClient(cfg.APIKey, fetchTimeout, logger)
	sightings, err := client.FetchNotable(cmd.Context(), cfg.Region, back)
	if err != nil {
		return err
	}

	output := cfg.Output
	if output == "" {
		output = config.DefaultOutputName
	}

	p := pipeline.New(logger, cmd.OutOrStdout())
	_, err = p.Run(sightings, pipeline.Options{
		Title:       "eBird Notable: " + cfg.Region,
		Output:      output,
		StateFilter: cfg.StateFilter,
		SpanDays:    back,
		OpenBrowser: !cfg.NoOpen,
	})
	return err
}
