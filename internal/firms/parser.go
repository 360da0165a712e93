// Package firms fetches and parses thermal-anomaly detections from the
// NASA FIRMS area API.
package firms

import (
	"strconv"
	"strings"

	"github.com/patiwat/firewatch-go/internal/hotspot"
)

// ParseCSV converts a FIRMS area CSV payload into raw records. The format
// is row-oriented with a header line; rows are zipped positionally against
// the header. Input with no data rows yields an empty slice, a field
// missing from a short row defaults to the empty string, and a numeric
// field that fails to parse defaults to zero.
func ParseCSV(text string) []hotspot.RawRecord {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil
	}

	headers := strings.Split(lines[0], ",")
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.TrimSpace(h)] = i
	}

	records := make([]hotspot.RawRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")

		str := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}
		num := func(name string) float64 {
			v, err := strconv.ParseFloat(str(name), 64)
			if err != nil {
				return 0
			}
			return v
		}

		records = append(records, hotspot.RawRecord{
			Latitude:   num("latitude"),
			Longitude:  num("longitude"),
			Brightness: num("brightness"),
			Scan:       num("scan"),
			Track:      num("track"),
			AcqDate:    str("acq_date"),
			AcqTime:    str("acq_time"),
			Satellite:  str("satellite"),
			Instrument: str("instrument"),
			Confidence: str("confidence"),
			Version:    str("version"),
			BrightTI4:  num("bright_ti4"),
			BrightTI5:  num("bright_ti5"),
			FRP:        num("frp"),
			DayNight:   str("daynight"),
		})
	}

	return records
}
