package ebird

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

func testClient(baseURL string) *Client {
	return &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func ptr(v float64) *float64 { return &v }

func TestClient_FetchNotable_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "US-MA")
		assert.Equal(t, "full", r.URL.Query().Get("detail"))
		assert.Equal(t, "7", r.URL.Query().Get("back"))
		assert.Equal(t, testToken, r.Header.Get("X-eBirdApiToken"))

		obs := []observation{
			{
				Lat: ptr(42.12345), Lng: ptr(-71.54321),
				ObsReviewed: true, ObsValid: true,
				ObsDt: "2026-02-05 15:08", SubID: "S123456789",
				ComName: "Black Rail", SciName: "Laterallus jamaicensis",
				HowMany: 2, LocName: "Plum Island, Essex, Massachusetts",
				UserDisplayName: "Jane Doe",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(obs))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	sightings, err := c.FetchNotable(context.Background(), "US-MA", 7)
	require.NoError(t, err)
	require.Len(t, sightings, 1)

	s := sightings[0]
	assert.Equal(t, "Black Rail", s.Species)
	assert.Equal(t, "Laterallus jamaicensis", s.ScientificName)
	assert.Equal(t, "2", s.Count)
	assert.True(t, s.Confirmed)
	assert.Equal(t, "Plum Island, Essex, Massachusetts", s.Location)
	require.NotNil(t, s.Geo)
	assert.Equal(t, 42.12345, s.Geo.Lat)
	assert.Equal(t, -71.54321, s.Geo.Lon)
	assert.Equal(t, "Feb 05, 2026 15:08", s.ReportedDate)
	assert.Equal(t, "Jane Doe", s.Observer)
	assert.Equal(t, "https://ebird.org/checklist/S123456789", s.ChecklistURL)
}

func TestClient_FetchNotable_ConfirmedRequiresBothFlags(t *testing.T) {
	tests := []struct {
		name     string
		reviewed bool
		valid    bool
		want     bool
	}{
		{"reviewed and valid", true, true, true},
		{"reviewed only", true, false, false},
		{"valid only", false, true, false},
		{"neither", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := observation{Lat: ptr(1), Lng: ptr(2), ObsReviewed: tt.reviewed, ObsValid: tt.valid}
			assert.Equal(t, tt.want, o.toSighting().Confirmed)
		})
	}
}

func TestClient_FetchNotable_DropsObservationsWithoutCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		obs := []observation{
			{ComName: "No Coordinates", Lng: ptr(-71.5)},
			{ComName: "Placed", Lat: ptr(42.1), Lng: ptr(-71.5)},
			{ComName: "Also Missing", Lat: ptr(42.1)},
		}
		require.NoError(t, json.NewEncoder(w).Encode(obs))
	}))
	defer srv.Close()

	sightings, err := testClient(srv.URL).FetchNotable(context.Background(), "US-MA", 7)
	require.NoError(t, err)
	require.Len(t, sightings, 1)
	assert.Equal(t, "Placed", sightings[0].Species)
}

func TestClient_FetchNotable_InvalidAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchNotable(context.Background(), "US-MA", 7)
	require.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestClient_FetchNotable_InvalidRegion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchNotable(context.Background(), "XX-BOGUS", 7)
	require.ErrorIs(t, err, ErrInvalidRegion)
	assert.Contains(t, err.Error(), "XX-BOGUS")
}

func TestClient_FetchNotable_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream broke"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchNotable(context.Background(), "US-MA", 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidAPIKey)
	assert.NotErrorIs(t, err, ErrInvalidRegion)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_FetchNotable_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchNotable(context.Background(), "US-MA", 3)
	require.ErrorIs(t, err, ErrNoObservations)
	assert.Contains(t, err.Error(), "3 day(s)")
}

func TestClient_FetchNotable_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.FetchNotable(context.Background(), "US-MA", 7)
	require.Error(t, err)
}

func TestObservation_CountPlaceholder(t *testing.T) {
	o := observation{Lat: ptr(1), Lng: ptr(2)}
	assert.Equal(t, "?", o.toSighting().Count)

	o.HowMany = 4
	assert.Equal(t, "4", o.toSighting().Count)
}

func TestObservation_ChecklistURL(t *testing.T) {
	o := observation{Lat: ptr(1), Lng: ptr(2)}
	assert.Empty(t, o.toSighting().ChecklistURL)

	o.SubID = "S42"
	assert.Equal(t, "https://ebird.org/checklist/S42", o.toSighting().ChecklistURL)
}

func TestFormatObsDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"date and time", "2026-02-05 15:08", "Feb 05, 2026 15:08"},
		{"date only", "2026-02-05", "Feb 05, 2026 00:00"},
		{"unparseable", "yesterday-ish", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatObsDate(tt.input))
		})
	}
}
