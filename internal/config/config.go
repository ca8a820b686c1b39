// Package config resolves run options for the birdmap CLI.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DefaultOutputName is the map filename used when --output is not given.
const DefaultOutputName = "ebird_map.html"

const apiKeyEnv = "EBIRD_API_KEY"

// The eBird API only accepts lookback windows of 1 to 30 days.
const (
	minLookbackDays = 1
	maxLookbackDays = 30
)

// Config holds the resolved options for one run. Flags populate it; the
// remaining fields are derived here.
type Config struct {
	Output      string
	StateFilter string
	NoOpen      bool
	LogLevel    string
	LogFormat   string

	// .eml mode.
	InputPath string
	Days      int

	// API mode.
	Region string
	APIKey string
	Back   int
}

// ResolveAPIKey fills APIKey from the environment when the flag was not
// set. A .env file in the working directory is honored.
func (c *Config) ResolveAPIKey() error {
	if c.APIKey != "" {
		return nil
	}
	_ = godotenv.Load() // a missing .env is normal
	c.APIKey = os.Getenv(apiKeyEnv)
	if c.APIKey == "" {
		return errors.New("--api-key or EBIRD_API_KEY env var required")
	}
	return nil
}

// ClampBack bounds the API lookback window to the range eBird accepts.
func ClampBack(days int) int {
	if days < minLookbackDays {
		return minLookbackDays
	}
	if days > maxLookbackDays {
		return maxLookbackDays
	}
	return days
}

// DefaultOutput derives the output path for .eml mode: next to the input,
// or DefaultOutputName in the working directory when no input was given.
func DefaultOutput(inputPath string) string {
	if inputPath == "" {
		return DefaultOutputName
	}
	if info, err := os.Stat(inputPath); err == nil && info.IsDir() {
		return filepath.Join(inputPath, DefaultOutputName)
	}
	return filepath.Join(filepath.Dir(inputPath), DefaultOutputName)
}
