// Package hotspot contains the core detection types and the normalization,
// enrichment and deduplication pipeline that turns raw feed records into a
// stable detection set.
package hotspot

import (
	"context"
	"fmt"
	"strings"
)

// RawRecord is one loosely-validated row from an upstream feed. Numeric
// fields default to zero when the feed value is missing or malformed.
type RawRecord struct {
	Latitude   float64
	Longitude  float64
	Brightness float64 // MODIS brightness temperature
	Scan       float64
	Track      float64
	AcqDate    string // "2006-01-02" in the feed's UTC clock
	AcqTime    string // "HHMM", possibly unpadded
	Satellite  string
	Instrument string
	Confidence string
	Version    string
	BrightTI4  float64 // VIIRS I-4 brightness temperature
	BrightTI5  float64 // VIIRS I-5 brightness temperature
	FRP        float64 // fire radiative power
	DayNight   string
}

// EffectiveBrightness returns the MODIS brightness when present, otherwise
// the VIIRS I-4 channel.
func (r *RawRecord) EffectiveBrightness() float64 {
	if r.Brightness != 0 {
		return r.Brightness
	}
	return r.BrightTI4
}

// Detection is one enriched thermal-anomaly event. A Detection is
// constructed once per pipeline run and never mutated; its ID is the unit
// of comparison across polls.
type Detection struct {
	ID         string  `json:"id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Brightness float64 `json:"brightness"`
	Scan       float64 `json:"scan"`
	Track      float64 `json:"track"`
	AcqDate    string  `json:"acq_date"`
	AcqTime    string  `json:"acq_time"`
	Satellite  string  `json:"satellite"`
	Instrument string  `json:"instrument"`
	Confidence string  `json:"confidence"`
	Version    string  `json:"version"`
	BrightT31  float64 `json:"bright_t31"`
	FRP        float64 `json:"frp"`
	DayNight   string  `json:"daynight"`

	// Derived enrichment.
	Province      string `json:"province"`
	District      string `json:"district"`
	ProtectedArea string `json:"protectedArea,omitempty"`
	GridRef       string `json:"gridRef,omitempty"`
	PassWindow    string `json:"passWindow,omitempty"`
	Source        string `json:"source"`
}

// DeriveID builds the stable detection identifier from coordinates rounded
// to 4 decimal places and the acquisition timestamp. Two readings that
// round to the same lat/lon/date/time produce the same ID regardless of
// which sensor reported them.
func DeriveID(lat, lon float64, acqDate, acqTime string) string {
	date := strings.ReplaceAll(acqDate, "-", "")
	clock := strings.TrimSpace(acqTime)
	if n := len(clock); n > 0 && n < 4 {
		clock = strings.Repeat("0", 4-n) + clock
	}
	return fmt.Sprintf("%.4f_%.4f_%s%s", lat, lon, date, clock)
}

// Source is an upstream feed unit: one sensor (FIRMS) or one district
// query (GISTDA). Fetch failures are recovered by the pipeline as zero
// records from that source; they never abort other sources.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]RawRecord, error)
}

// IDs extracts the identifier set of a detection slice.
func IDs(detections []Detection) []string {
	ids := make([]string, 0, len(detections))
	for i := range detections {
		ids = append(ids, detections[i].ID)
	}
	return ids
}

// Districts returns the distinct districts of the detections, in first-seen
// order.
func Districts(detections []Detection) []string {
	seen := make(map[string]struct{}, len(detections))
	var out []string
	for i := range detections {
		d := detections[i].District
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
