// Package passfilter decides whether a detection timestamp falls inside a
// satellite overpass window and belongs to the current local day.
//
// The upstream feed is queried with a multi-day lookback so that the night
// pass, which is on the previous UTC calendar day, is captured. The local
// date equality check here is what keeps stale detections from prior days
// out of the pipeline.
package passfilter

import (
	"fmt"
	"strings"
	"time"

	"github.com/patiwat/firewatch-go/internal/conf"
)

// Window names.
const (
	WindowNight     = "night"
	WindowAfternoon = "afternoon"
)

// Window is a named half-open local-hour interval [Start, End).
type Window struct {
	Name  string
	Start int
	End   int
}

// Contains reports whether the local hour falls inside the window.
func (w Window) Contains(hour int) bool {
	return hour >= w.Start && hour < w.End
}

// Result is the classification of one detection timestamp.
type Result struct {
	Window    string    // matched window name, empty when none
	Today     bool      // record's local date equals now's local date
	LocalTime time.Time // acquisition time converted to the local zone
}

// Accepted reports whether the record survives the temporal filter.
func (r Result) Accepted() bool {
	return r.Window != "" && r.Today
}

// Classifier converts feed UTC timestamps to local time and classifies them
// against the configured overpass windows. It is a pure function of its
// inputs; the caller supplies "now".
type Classifier struct {
	loc     *time.Location
	windows []Window
}

// New creates a classifier for the given local zone and windows.
func New(loc *time.Location, windows ...Window) *Classifier {
	return &Classifier{loc: loc, windows: windows}
}

// FromSettings builds a classifier from pass settings.
func FromSettings(p *conf.PassSettings, loc *time.Location) *Classifier {
	return New(loc,
		Window{Name: WindowNight, Start: p.Night.Start, End: p.Night.End},
		Window{Name: WindowAfternoon, Start: p.Afternoon.Start, End: p.Afternoon.End},
	)
}

// Classify parses a feed acquisition date ("2006-01-02") and time (up to
// four digits of "HHMM", as FIRMS emits "630" for 06:30), converts to the
// local zone and classifies the result.
func (c *Classifier) Classify(acqDate, acqTime string, now time.Time) (Result, error) {
	t, err := c.ParseAcquisition(acqDate, acqTime)
	if err != nil {
		return Result{}, err
	}

	local := t.In(c.loc)
	res := Result{LocalTime: local}

	hour := local.Hour()
	for _, w := range c.windows {
		if w.Contains(hour) {
			res.Window = w.Name
			break
		}
	}

	localNow := now.In(c.loc)
	res.Today = local.Year() == localNow.Year() && local.YearDay() == localNow.YearDay()

	return res, nil
}

// ParseAcquisition parses feed date and time fields into a UTC instant.
func (c *Classifier) ParseAcquisition(acqDate, acqTime string) (time.Time, error) {
	acqTime = strings.TrimSpace(acqTime)
	if len(acqTime) == 0 || len(acqTime) > 4 {
		return time.Time{}, fmt.Errorf("invalid acquisition time %q", acqTime)
	}
	padded := strings.Repeat("0", 4-len(acqTime)) + acqTime

	t, err := time.ParseInLocation("2006-01-02 1504", strings.TrimSpace(acqDate)+" "+padded, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid acquisition timestamp %q %q: %w", acqDate, acqTime, err)
	}
	return t, nil
}

// InPassWindow reports whether the current local hour falls inside any
// overpass window. Used to gate whole scheduled polls.
func (c *Classifier) InPassWindow(now time.Time) bool {
	hour := now.In(c.loc).Hour()
	for _, w := range c.windows {
		if w.Contains(hour) {
			return true
		}
	}
	return false
}

// Location returns the classifier's local zone.
func (c *Classifier) Location() *time.Location {
	return c.loc
}
