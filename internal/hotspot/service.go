package hotspot

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/patiwat/firewatch-go/internal/geo"
	"github.com/patiwat/firewatch-go/internal/geofence"
	"github.com/patiwat/firewatch-go/internal/logging"
	"github.com/patiwat/firewatch-go/internal/observability/metrics"
	"github.com/patiwat/firewatch-go/internal/passfilter"
)

var serviceLogger *slog.Logger

func init() {
	serviceLogger = logging.ForService("hotspot")
	if serviceLogger == nil {
		serviceLogger = slog.New(slog.NewJSONHandler(io.Discard, nil)).With("service", "hotspot")
	}
}

// Service merges records from all configured sources into one filtered,
// enriched, deduplicated detection set.
type Service struct {
	sources    []Source
	registry   *geofence.Registry
	classifier *passfilter.Classifier
	metrics    *metrics.PipelineMetrics
}

// NewService creates the enrichment pipeline. Source order is significant:
// when two sources report the same detection ID, the record from the
// earlier source wins. metrics may be nil.
func NewService(sources []Source, registry *geofence.Registry, classifier *passfilter.Classifier, m *metrics.PipelineMetrics) *Service {
	return &Service{
		sources:    sources,
		registry:   registry,
		classifier: classifier,
		metrics:    m,
	}
}

// Collect fetches all sources concurrently, then filters, enriches and
// deduplicates the merged records. A failing source contributes zero
// records and never aborts the others; the result is deterministic given
// identical raw inputs and an identical now.
func (s *Service) Collect(ctx context.Context, now time.Time) []Detection {
	results := make([][]RawRecord, len(s.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		g.Go(func() error {
			records, err := src.Fetch(gctx)
			if err != nil {
				serviceLogger.Warn("source fetch failed, continuing without it",
					"source", src.Name(), "error", err)
				if s.metrics != nil {
					s.metrics.FetchErrorsTotal.WithLabelValues(src.Name()).Inc()
				}
				return nil
			}
			serviceLogger.Debug("source fetch complete",
				"source", src.Name(), "records", len(records))
			if s.metrics != nil {
				s.metrics.RecordsFetched.WithLabelValues(src.Name()).Add(float64(len(records)))
			}
			results[i] = records
			return nil
		})
	}
	// Fetch goroutines never return errors, Wait is only a barrier.
	_ = g.Wait()

	seen := make(map[string]struct{})
	var detections []Detection
	for i := range results {
		for j := range results[i] {
			d, ok := s.enrich(&results[i][j], s.sources[i].Name(), now)
			if !ok {
				continue
			}
			if _, dup := seen[d.ID]; dup {
				continue
			}
			seen[d.ID] = struct{}{}
			detections = append(detections, d)
		}
	}

	serviceLogger.Info("poll collection complete",
		"sources", len(s.sources), "detections", len(detections))
	return detections
}

// enrich applies the province envelope check and temporal filter, then
// derives the detection's identity and geographic metadata.
func (s *Service) enrich(r *RawRecord, sourceName string, now time.Time) (Detection, bool) {
	if !s.registry.InProvince(r.Latitude, r.Longitude) {
		return Detection{}, false
	}

	res, err := s.classifier.Classify(r.AcqDate, r.AcqTime, now)
	if err != nil {
		serviceLogger.Debug("dropping record with malformed timestamp",
			"source", sourceName, "acq_date", r.AcqDate, "acq_time", r.AcqTime, "error", err)
		return Detection{}, false
	}
	if !res.Accepted() {
		return Detection{}, false
	}

	d := Detection{
		ID:         DeriveID(r.Latitude, r.Longitude, r.AcqDate, r.AcqTime),
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Brightness: r.EffectiveBrightness(),
		Scan:       r.Scan,
		Track:      r.Track,
		AcqDate:    r.AcqDate,
		AcqTime:    r.AcqTime,
		Satellite:  r.Satellite,
		Instrument: r.Instrument,
		Confidence: r.Confidence,
		Version:    r.Version,
		BrightT31:  r.BrightTI5,
		FRP:        r.FRP,
		DayNight:   r.DayNight,
		Province:   s.registry.Province().Name,
		GridRef:    geo.GridRef(r.Latitude, r.Longitude),
		PassWindow: res.Window,
		Source:     sourceName,
	}

	if district, ok := s.registry.District(r.Latitude, r.Longitude); ok {
		d.District = district.Name
	} else {
		d.District = geofence.DistrictFallback
	}
	if area, ok := s.registry.ProtectedArea(r.Latitude, r.Longitude); ok {
		d.ProtectedArea = area.Name
	}

	return d, true
}
