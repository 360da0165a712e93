// Package poller orchestrates the poll cycle: collect detections, diff
// against the known baseline, deliver alerts and commit the new baseline.
// Each invocation is panic-guarded so one bad poll can never take down the
// scheduler loop.
package poller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/patiwat/firewatch-go/internal/alert"
	"github.com/patiwat/firewatch-go/internal/errors"
	"github.com/patiwat/firewatch-go/internal/hotspot"
	"github.com/patiwat/firewatch-go/internal/logging"
	"github.com/patiwat/firewatch-go/internal/novelty"
	"github.com/patiwat/firewatch-go/internal/observability/metrics"
	"github.com/patiwat/firewatch-go/internal/passfilter"
)

var pollerLogger *slog.Logger

func init() {
	pollerLogger = logging.ForService("poller")
	if pollerLogger == nil {
		pollerLogger = slog.New(slog.NewJSONHandler(io.Discard, nil)).With("service", "poller")
	}
}

const (
	cacheKeyDetections = "detections:last"
	cacheKeyResult     = "result:last"

	snapshotTTL = 24 * time.Hour
)

// Options control one poll invocation.
type Options struct {
	// ForceNotify alerts on every current detection instead of only novel
	// ones, and overrides pass-window gating and cold-start suppression.
	ForceNotify bool
	// TestMode runs the full pipeline and delivers real alerts but never
	// commits the baseline, so everything reported here is reported again
	// by the next real poll. Overrides pass-window gating like ForceNotify.
	TestMode bool
}

// Result describes one poll invocation's outcome.
type Result struct {
	StartedAt  time.Time     `json:"startedAt"`
	Duration   time.Duration `json:"duration"`
	Skipped    bool          `json:"skipped"`
	SkipReason string        `json:"skipReason,omitempty"`
	Detections int           `json:"detections"`
	Novel      int           `json:"novel"`
	Delivered  bool          `json:"delivered"`
	Committed  bool          `json:"committed"`
	Error      string        `json:"error,omitempty"`
}

// HistorySink records delivered detections; nil disables history.
type HistorySink interface {
	SaveDetections(ctx context.Context, detections []hotspot.Detection) error
}

// Config wires a poller together.
type Config struct {
	Service    *hotspot.Service
	Tracker    *novelty.Tracker
	Classifier *passfilter.Classifier
	Composer   *alert.Composer
	Providers  []alert.Provider
	History    HistorySink
	Metrics    *metrics.PipelineMetrics

	Interval time.Duration
	// EnforcePassWindows skips scheduled polls outside overpass windows.
	EnforcePassWindows bool
	// NotifyOnEmpty sends the all-clear message when a completed poll has
	// no novel detections.
	NotifyOnEmpty bool
	// ColdStartNotify delivers the very first observed set instead of
	// silently adopting it as the baseline.
	ColdStartNotify bool

	// Now is the clock; nil uses time.Now. Injected by tests.
	Now func() time.Time
}

// Poller runs the poll cycle on a schedule and on demand.
type Poller struct {
	cfg   Config
	cache *gocache.Cache
	now   func() time.Time

	// mu serializes poll invocations. The scheduler loop and the manual
	// HTTP trigger run on different goroutines; two overlapping polls
	// would diff against the same baseline and alert twice.
	mu sync.Mutex
}

// New creates a poller.
func New(cfg Config) *Poller {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Poller{
		cfg:   cfg,
		// No janitor goroutine: the two snapshot keys are simply
		// overwritten on every poll.
		cache: gocache.New(snapshotTTL, 0),
		now:   now,
	}
}

// Poll runs one invocation. Panics inside the pipeline are recovered and
// reported as a failed result so callers (scheduler loop, HTTP trigger)
// always get a structured outcome.
func (p *Poller) Poll(ctx context.Context, opts Options) (res Result, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := p.now()
	res.StartedAt = start

	defer func() {
		if r := recover(); r != nil {
			pollerLogger.Error("poll panicked", "panic", r, "stack", string(debug.Stack()))
			err = errors.Newf("poll panicked: %v", r).
				Component("poller").
				Category(errors.CategoryState).
				Build()
			res.Error = err.Error()
			p.recordResult(&res, "failed")
		}
	}()

	if p.cfg.EnforcePassWindows && !opts.ForceNotify && !opts.TestMode && !p.cfg.Classifier.InPassWindow(start) {
		res.Skipped = true
		res.SkipReason = "outside pass window"
		pollerLogger.Info("poll skipped", "reason", res.SkipReason,
			"local_time", start.In(p.cfg.Classifier.Location()).Format("15:04"))
		p.recordResult(&res, "skipped")
		return res, nil
	}

	detections := p.cfg.Service.Collect(ctx, start)
	res.Detections = len(detections)

	novel := p.cfg.Tracker.Diff(detections)
	if opts.ForceNotify {
		novel = detections
	}
	res.Novel = len(novel)
	primed := p.cfg.Tracker.Primed()

	res.Delivered = p.deliver(ctx, novel, detections, start, primed, opts.ForceNotify)

	if opts.TestMode {
		// The baseline stays where it was, so the next real poll reports
		// the same detections again.
		pollerLogger.Info("test mode: baseline not committed",
			"detections", res.Detections, "novel", res.Novel)
	} else {
		// The baseline advances regardless of delivery outcome: a failed
		// send is not re-alerted on the next poll.
		if commitErr := p.cfg.Tracker.Commit(ctx, detections); commitErr != nil {
			pollerLogger.Error("baseline commit failed", "error", commitErr)
			res.Error = commitErr.Error()
			p.recordResult(&res, "failed")
			return res, commitErr
		}
		res.Committed = true

		if p.cfg.History != nil && len(novel) > 0 {
			if histErr := p.cfg.History.SaveDetections(ctx, novel); histErr != nil {
				pollerLogger.Warn("history write failed", "error", histErr)
			}
		}
	}

	p.cache.Set(cacheKeyDetections, detections, gocache.DefaultExpiration)
	res.Duration = p.now().Sub(start)
	p.recordResult(&res, "completed")

	pollerLogger.Info("poll complete",
		"detections", res.Detections, "novel", res.Novel,
		"delivered", res.Delivered, "duration", res.Duration)
	return res, nil
}

// Verify sends the channel-verification message. It is not a poll: nothing
// is fetched, diffed or committed, and the last-result snapshot is left
// alone.
func (p *Poller) Verify(ctx context.Context) (Result, error) {
	start := p.now()
	res := Result{StartedAt: start}

	sent := p.send(ctx, p.cfg.Composer.TestMessage(start))
	res.Delivered = sent
	res.Duration = p.now().Sub(start)

	if !sent && len(p.cfg.Providers) > 0 {
		return res, errors.Newf("verification message delivery failed").
			Component("poller").
			Category(errors.CategoryNotification).
			Build()
	}
	return res, nil
}

// deliver sends the appropriate messages for the poll outcome and reports
// whether anything was sent.
func (p *Poller) deliver(ctx context.Context, novel, all []hotspot.Detection, now time.Time, primed, force bool) bool {
	if len(novel) == 0 {
		if p.cfg.NotifyOnEmpty {
			return p.send(ctx, p.cfg.Composer.NoHotspotMessage(now))
		}
		return false
	}

	if !primed && !force && !p.cfg.ColdStartNotify {
		pollerLogger.Info("cold start: adopting baseline without alerting", "detections", len(novel))
		return false
	}

	a := alert.Compose(novel, all, now)
	if p.cfg.Metrics != nil {
		p.cfg.Metrics.NovelDetections.Add(float64(len(novel)))
	}
	return p.send(ctx, p.cfg.Composer.Messages(&a))
}

// send fans the messages out to every enabled provider. Reports true when
// at least one provider accepted them.
func (p *Poller) send(ctx context.Context, messages []string) bool {
	delivered := false
	for _, provider := range p.cfg.Providers {
		if !provider.IsEnabled() {
			continue
		}
		if err := provider.Send(ctx, messages); err != nil {
			pollerLogger.Error("notification delivery failed",
				"provider", provider.GetName(), "error", err)
			if p.cfg.Metrics != nil {
				p.cfg.Metrics.NotificationsTotal.WithLabelValues("failed").Inc()
			}
			continue
		}
		if p.cfg.Metrics != nil {
			p.cfg.Metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		}
		delivered = true
	}
	return delivered
}

// Run polls on the configured interval until ctx is cancelled. The first
// poll happens immediately.
func (p *Poller) Run(ctx context.Context) error {
	if p.cfg.Interval <= 0 {
		return errors.Newf("poll interval must be positive, got %s", p.cfg.Interval).
			Component("poller").
			Category(errors.CategoryConfiguration).
			Build()
	}

	pollerLogger.Info("scheduler started", "interval", p.cfg.Interval,
		"enforce_pass_windows", p.cfg.EnforcePassWindows)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := p.Poll(ctx, Options{}); err != nil {
			pollerLogger.Error("scheduled poll failed", "error", err)
		}
		select {
		case <-ctx.Done():
			pollerLogger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Snapshot returns the detection set of the most recent completed poll.
func (p *Poller) Snapshot() []hotspot.Detection {
	if v, ok := p.cache.Get(cacheKeyDetections); ok {
		if detections, ok := v.([]hotspot.Detection); ok {
			return detections
		}
	}
	return nil
}

// LastResult returns the most recent poll result.
func (p *Poller) LastResult() (Result, bool) {
	if v, ok := p.cache.Get(cacheKeyResult); ok {
		if res, ok := v.(Result); ok {
			return res, true
		}
	}
	return Result{}, false
}

// Primed exposes the tracker's cold/warm state for the status endpoint.
func (p *Poller) Primed() bool {
	return p.cfg.Tracker.Primed()
}

// InPassWindow reports whether now falls inside an overpass window.
func (p *Poller) InPassWindow() bool {
	return p.cfg.Classifier.InPassWindow(p.now())
}

func (p *Poller) recordResult(res *Result, outcome string) {
	if res.Duration == 0 && !res.Skipped {
		res.Duration = p.now().Sub(res.StartedAt)
	}
	p.cache.Set(cacheKeyResult, *res, gocache.DefaultExpiration)

	if p.cfg.Metrics == nil {
		return
	}
	p.cfg.Metrics.PollsTotal.WithLabelValues(outcome).Inc()
	if outcome == "completed" {
		p.cfg.Metrics.DetectionsCurrent.Set(float64(res.Detections))
		p.cfg.Metrics.PollDuration.Observe(res.Duration.Seconds())
	}
}

// String implements fmt.Stringer for log-friendly results.
func (r Result) String() string {
	if r.Skipped {
		return fmt.Sprintf("skipped (%s)", r.SkipReason)
	}
	if r.Error != "" {
		return fmt.Sprintf("failed: %s", r.Error)
	}
	return fmt.Sprintf("completed: %d detections, %d novel, delivered=%t", r.Detections, r.Novel, r.Delivered)
}
