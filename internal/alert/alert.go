// Package alert composes hotspot notification messages and delivers them
// through pluggable providers. Composition is pure; delivery is the only
// side effect and is never retried here.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/patiwat/firewatch-go/internal/hotspot"
)

// Alert is one notification event built from a poll result.
type Alert struct {
	ID         string              `json:"id"`
	Timestamp  time.Time           `json:"timestamp"`
	Hotspots   []hotspot.Detection `json:"hotspots"`
	NewCount   int                 `json:"newCount"`
	TotalCount int                 `json:"totalCount"`
	Districts  []string            `json:"districts"`
}

// Compose builds an alert from the novel subset of a poll. Districts are
// the distinct districts of the novel detections, in first-seen order.
func Compose(novel, all []hotspot.Detection, now time.Time) Alert {
	return Alert{
		ID:         uuid.New().String(),
		Timestamp:  now,
		Hotspots:   novel,
		NewCount:   len(novel),
		TotalCount: len(all),
		Districts:  hotspot.Districts(novel),
	}
}

// Provider delivers rendered messages to one notification channel.
type Provider interface {
	GetName() string
	IsEnabled() bool
	ValidateConfig() error
	Send(ctx context.Context, messages []string) error
}

// ThaiDateTime renders a timestamp in the short Thai convention with a
// Buddhist-era year, e.g. "15/3/2567 13:30".
func ThaiDateTime(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	return fmt.Sprintf("%d/%d/%d %02d:%02d",
		local.Day(), int(local.Month()), local.Year()+543, local.Hour(), local.Minute())
}
