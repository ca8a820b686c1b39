// Package ebird fetches notable observations from the eBird v2 API.
package ebird

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/rare-bird-map/internal/domain"
)

const (
	defaultBaseURL = "https://api.ebird.org/v2"
	tokenHeader    = "X-eBirdApiToken"
)

// Failure classes the CLI maps to distinct user-facing messages.
var (
	ErrInvalidAPIKey  = errors.New("invalid eBird API key")
	ErrInvalidRegion  = errors.New("invalid region code")
	ErrNoObservations = errors.New("no notable observations found")
)

// Client calls the eBird API with a caller-supplied token.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an eBird API client.
func NewClient(token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// observation mirrors the fields of an eBird notable observation we consume.
// Coordinates are pointers so an absent field is distinguishable from zero.
type observation struct {
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	ObsReviewed     bool     `json:"obsReviewed"`
	ObsValid        bool     `json:"obsValid"`
	ObsDt           string   `json:"obsDt"`
	SubID           string   `json:"subId"`
	ComName         string   `json:"comName"`
	SciName         string   `json:"sciName"`
	HowMany         int      `json:"howMany"`
	LocName         string   `json:"locName"`
	UserDisplayName string   `json:"userDisplayName"`
}

// FetchNotable returns the recent notable observations for a region as
// sightings. back is the lookback window in days (the API accepts 1-30).
// Observations without coordinates are dropped. A 403 maps to
// ErrInvalidAPIKey, a 400 to ErrInvalidRegion, and an empty result to
// ErrNoObservations.
func (c *Client) FetchNotable(ctx context.Context, region string, back int) ([]domain.Sighting, error) {
	u := fmt.Sprintf("%s/data/obs/%s/recent/notable", c.baseURL, url.PathEscape(region))
	params := url.Values{
		"detail": {"full"},
		"back":   {strconv.Itoa(back)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(tokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch notable observations: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return nil, ErrInvalidAPIKey
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRegion, region)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("eBird API error: status %d: %s", resp.StatusCode, body)
	}

	var observations []observation
	if err := json.NewDecoder(resp.Body).Decode(&observations); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(observations) == 0 {
		return nil, fmt.Errorf("%w for region %q in the last %d day(s)", ErrNoObservations, region, back)
	}

	sightings := make([]domain.Sighting, 0, len(observations))
	for _, o := range observations {
		if o.Lat == nil || o.Lng == nil {
			continue
		}
		sightings = append(sightings, o.toSighting())
	}

	c.logger.Debug("notable observations fetched",
		"region", region,
		"back", back,
		"observations", len(observations),
		"with_coordinates", len(sightings),
	)
	return sightings, nil
}

func (o observation) toSighting() domain.Sighting {
	s := domain.Sighting{
		Species:        o.ComName,
		ScientificName: o.SciName,
		Count:          domain.UnknownCount,
		Confirmed:      o.ObsReviewed && o.ObsValid,
		Location:       o.LocName,
		Geo:            &domain.Geo{Lat: *o.Lat, Lon: *o.Lng},
		ReportedDate:   formatObsDate(o.ObsDt),
		Observer:       o.UserDisplayName,
	}
	if s.Species == "" {
		s.Species = "Unknown"
	}
	if o.HowMany > 0 {
		s.Count = strconv.Itoa(o.HowMany)
	}
	if o.SubID != "" {
		s.ChecklistURL = "https://ebird.org/checklist/" + o.SubID
	}
	return s
}

// formatObsDate reformats eBird's "2006-01-02 15:04" (time optional) into
// the alert display format. Unparseable input yields an empty string, never
// an error.
func formatObsDate(obsDt string) string {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, obsDt); err == nil {
			return t.Format(domain.DisplayDateTimeLayout)
		}
	}
	return ""
}
