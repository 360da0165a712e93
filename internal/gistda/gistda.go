// Package gistda fetches hotspot detections from the GISTDA Sphere
// disaster-hotspot API, the secondary upstream source. Queries are issued
// per district.
package gistda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/patiwat/firewatch-go/internal/errors"
	"github.com/patiwat/firewatch-go/internal/hotspot"
	"github.com/patiwat/firewatch-go/internal/httpclient"
)

// response mirrors the GISTDA API envelope.
type response struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    []wireRecord `json:"data"`
}

// wireRecord is one hotspot entry in a GISTDA response. Field names follow
// the FIRMS column vocabulary the API reuses.
type wireRecord struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Brightness float64 `json:"brightness"`
	Scan       float64 `json:"scan"`
	Track      float64 `json:"track"`
	AcqDate    string  `json:"acq_date"`
	AcqTime    string  `json:"acq_time"`
	Satellite  string  `json:"satellite"`
	Confidence string  `json:"confidence"`
	Version    string  `json:"version"`
	BrightT31  float64 `json:"bright_t31"`
	FRP        float64 `json:"frp"`
	DayNight   string  `json:"daynight"`
}

// Client queries the GISTDA disaster-hotspot endpoint.
type Client struct {
	http     *httpclient.Client
	endpoint string
	apiKey   string
}

// NewClient creates a GISTDA API client.
func NewClient(httpClient *httpclient.Client, endpoint, apiKey string) *Client {
	return &Client{http: httpClient, endpoint: endpoint, apiKey: apiKey}
}

// FetchDistrict fetches detections for one province/district pair. Any
// failure is returned as an error and recovered by the pipeline as zero
// records from this district.
func (c *Client) FetchDistrict(ctx context.Context, province, district string) ([]hotspot.RawRecord, error) {
	if c.apiKey == "" {
		return nil, errors.Newf("GISTDA API key not configured").
			Component("gistda").
			Category(errors.CategoryConfiguration).
			Build()
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.New(err).
			Component("gistda").
			Category(errors.CategoryConfiguration).
			Context("endpoint", c.endpoint).
			Build()
	}
	q := u.Query()
	q.Set("pv_tn", province)
	q.Set("ap_tn", district)
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	resp, err := c.http.Get(ctx, u.String())
	if err != nil {
		return nil, errors.New(err).
			Component("gistda").
			Category(errors.CategoryNetwork).
			Context("district", district).
			Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("GISTDA API returned status %d", resp.StatusCode).
			Component("gistda").
			Category(errors.CategoryHTTP).
			Context("district", district).
			Context("status", resp.StatusCode).
			Build()
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.New(err).
			Component("gistda").
			Category(errors.CategoryFeedParsing).
			Context("district", district).
			Build()
	}

	if payload.Status != "success" && payload.Status != "ok" {
		return nil, errors.Newf("GISTDA API returned error status %q: %s", payload.Status, payload.Message).
			Component("gistda").
			Category(errors.CategoryFeedParsing).
			Context("district", district).
			Build()
	}

	records := make([]hotspot.RawRecord, 0, len(payload.Data))
	for i := range payload.Data {
		w := &payload.Data[i]
		records = append(records, hotspot.RawRecord{
			Latitude:   w.Latitude,
			Longitude:  w.Longitude,
			Brightness: w.Brightness,
			Scan:       w.Scan,
			Track:      w.Track,
			AcqDate:    w.AcqDate,
			AcqTime:    w.AcqTime,
			Satellite:  w.Satellite,
			Confidence: w.Confidence,
			Version:    w.Version,
			BrightTI5:  w.BrightT31,
			FRP:        w.FRP,
			DayNight:   w.DayNight,
		})
	}
	return records, nil
}

// districtSource adapts one district query to the pipeline Source interface.
type districtSource struct {
	client   *Client
	province string
	district string
}

func (s *districtSource) Name() string {
	return "gistda:" + s.district
}

func (s *districtSource) Fetch(ctx context.Context) ([]hotspot.RawRecord, error) {
	return s.client.FetchDistrict(ctx, s.province, s.district)
}

// Sources returns one pipeline source per district, preserving order.
func Sources(client *Client, province string, districts []string) []hotspot.Source {
	sources := make([]hotspot.Source, 0, len(districts))
	for _, d := range districts {
		sources = append(sources, &districtSource{client: client, province: province, district: d})
	}
	return sources
}
