package firms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/patiwat/firewatch-go/internal/errors"
	"github.com/patiwat/firewatch-go/internal/geofence"
	"github.com/patiwat/firewatch-go/internal/hotspot"
	"github.com/patiwat/firewatch-go/internal/httpclient"
)

// Client queries the FIRMS area CSV endpoint for one bounding box.
type Client struct {
	http         *httpclient.Client
	endpoint     string
	apiKey       string
	bounds       geofence.Bounds
	lookbackDays int
}

// NewClient creates a FIRMS API client. lookbackDays should span the night
// pass, which falls on the previous UTC calendar day.
func NewClient(httpClient *httpclient.Client, endpoint, apiKey string, bounds geofence.Bounds, lookbackDays int) *Client {
	return &Client{
		http:         httpClient,
		endpoint:     strings.TrimRight(endpoint, "/"),
		apiKey:       apiKey,
		bounds:       bounds,
		lookbackDays: lookbackDays,
	}
}

// FetchSensor fetches and parses detections for one sensor source. Any
// failure (missing key, network error, non-success status, error-flagged
// body) is returned as an error; the pipeline treats it as zero records
// from this sensor.
func (c *Client) FetchSensor(ctx context.Context, sensor string) ([]hotspot.RawRecord, error) {
	if c.apiKey == "" {
		return nil, errors.Newf("FIRMS map key not configured").
			Component("firms").
			Category(errors.CategoryConfiguration).
			Build()
	}

	// /api/area/csv/{key}/{sensor}/{west},{south},{east},{north}/{days}
	url := fmt.Sprintf("%s/%s/%s/%.5f,%.5f,%.5f,%.5f/%d",
		c.endpoint, c.apiKey, sensor,
		c.bounds.MinLon, c.bounds.MinLat, c.bounds.MaxLon, c.bounds.MaxLat,
		c.lookbackDays)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, errors.New(err).
			Component("firms").
			Category(errors.CategoryHTTP).
			Context("sensor", sensor).
			Build()
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, errors.New(err).
			Component("firms").
			Category(errors.CategoryNetwork).
			Context("sensor", sensor).
			Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("FIRMS API returned status %d", resp.StatusCode).
			Component("firms").
			Category(errors.CategoryHTTP).
			Context("sensor", sensor).
			Context("status", resp.StatusCode).
			Build()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(err).
			Component("firms").
			Category(errors.CategoryNetwork).
			Context("sensor", sensor).
			Build()
	}

	text := string(body)
	// The API reports failures as a 200 with a plain-text message body.
	if strings.Contains(text, "Invalid") || strings.Contains(text, "Error") {
		return nil, errors.Newf("FIRMS API returned error body: %s", firstLine(text)).
			Component("firms").
			Category(errors.CategoryFeedParsing).
			Context("sensor", sensor).
			Build()
	}

	return ParseCSV(text), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

// sensorSource adapts one sensor of a Client to the pipeline Source
// interface.
type sensorSource struct {
	client *Client
	sensor string
}

func (s *sensorSource) Name() string {
	return "firms:" + s.sensor
}

func (s *sensorSource) Fetch(ctx context.Context) ([]hotspot.RawRecord, error) {
	return s.client.FetchSensor(ctx, s.sensor)
}

// Sources returns one pipeline source per sensor, preserving the configured
// order. That order is the deduplication tie-break.
func Sources(client *Client, sensors []string) []hotspot.Source {
	sources := make([]hotspot.Source, 0, len(sensors))
	for _, sensor := range sensors {
		sources = append(sources, &sensorSource{client: client, sensor: sensor})
	}
	return sources
}
