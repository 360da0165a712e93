// Package monitor wires the configured pipeline together and drives it,
// either continuously with the HTTP API attached or as a single check.
package monitor

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/patiwat/firewatch-go/internal/alert"
	"github.com/patiwat/firewatch-go/internal/api"
	"github.com/patiwat/firewatch-go/internal/conf"
	"github.com/patiwat/firewatch-go/internal/datastore"
	"github.com/patiwat/firewatch-go/internal/errors"
	"github.com/patiwat/firewatch-go/internal/firms"
	"github.com/patiwat/firewatch-go/internal/geofence"
	"github.com/patiwat/firewatch-go/internal/gistda"
	"github.com/patiwat/firewatch-go/internal/hotspot"
	"github.com/patiwat/firewatch-go/internal/httpclient"
	"github.com/patiwat/firewatch-go/internal/logging"
	"github.com/patiwat/firewatch-go/internal/novelty"
	"github.com/patiwat/firewatch-go/internal/observability/metrics"
	"github.com/patiwat/firewatch-go/internal/passfilter"
	"github.com/patiwat/firewatch-go/internal/poller"
)

// Runtime holds the assembled pipeline and its teardown hooks.
type Runtime struct {
	Poller   *poller.Poller
	Registry *prometheus.Registry
	Settings *conf.Settings

	store *datastore.SQLiteStore
	httpc *httpclient.Client
}

// Build assembles the pipeline from settings. Callers must Close the
// returned runtime.
func Build(ctx context.Context, settings *conf.Settings) (*Runtime, error) {
	loc := settings.Location()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	httpc := httpclient.New(&httpclient.Config{
		DefaultTimeout: time.Duration(settings.Feed.Timeout) * time.Second,
	})

	regions := geofence.DefaultRegistry()
	classifier := passfilter.FromSettings(&settings.Pass, loc)

	sources, err := buildSources(settings, httpc, regions)
	if err != nil {
		httpc.Close()
		return nil, err
	}
	service := hotspot.NewService(sources, regions, classifier, pipelineMetrics)

	var store *datastore.SQLiteStore
	var trackerStore novelty.Store = novelty.NewMemStore()
	if settings.Store.Type == "sqlite" {
		store, err = datastore.Open(settings.Store.Path)
		if err != nil {
			httpc.Close()
			return nil, err
		}
		trackerStore = store
	}

	tracker := novelty.NewTracker(trackerStore)
	if err := tracker.Restore(ctx); err != nil {
		logging.Warn("could not restore tracker state, starting cold", "error", err)
	}

	composer := alert.NewComposer(settings.Region.Province, settings.Region.Districts,
		loc, settings.Notify.MaxCoordinateLines)

	var providers []alert.Provider
	if settings.Notify.Enabled {
		provider := alert.NewShoutrrrProvider("shoutrrr", true, settings.Notify.URLs,
			time.Duration(settings.Notify.Timeout)*time.Second)
		if err := provider.ValidateConfig(); err != nil {
			if store != nil {
				_ = store.Close()
			}
			httpc.Close()
			return nil, err
		}
		providers = append(providers, provider)
	}

	var history poller.HistorySink
	if store != nil {
		history = store
	}

	p := poller.New(poller.Config{
		Service:            service,
		Tracker:            tracker,
		Classifier:         classifier,
		Composer:           composer,
		Providers:          providers,
		History:            history,
		Metrics:            pipelineMetrics,
		Interval:           time.Duration(settings.Monitor.Interval) * time.Minute,
		EnforcePassWindows: settings.Pass.Enforce,
		NotifyOnEmpty:      settings.Notify.OnEmpty,
		ColdStartNotify:    settings.Notify.ColdStart,
	})

	return &Runtime{
		Poller:   p,
		Registry: registry,
		Settings: settings,
		store:    store,
		httpc:    httpc,
	}, nil
}

// buildSources creates the feed sources for the configured provider.
func buildSources(settings *conf.Settings, httpc *httpclient.Client, reg *geofence.Registry) ([]hotspot.Source, error) {
	switch settings.Feed.Provider {
	case "firms":
		client := firms.NewClient(httpc, settings.Feed.FIRMS.Endpoint, settings.Feed.FIRMS.APIKey,
			reg.Province().Bounds, settings.Feed.LookbackDays)
		return firms.Sources(client, settings.Feed.FIRMS.Sensors), nil
	case "gistda":
		client := gistda.NewClient(httpc, settings.Feed.GISTDA.Endpoint, settings.Feed.GISTDA.APIKey)
		return gistda.Sources(client, settings.Region.Province, settings.Region.Districts), nil
	default:
		return nil, errors.Newf("unknown feed provider %q", settings.Feed.Provider).
			Component("monitor").
			Category(errors.CategoryConfiguration).
			Build()
	}
}

// Close releases the runtime's resources.
func (r *Runtime) Close() {
	if r.store != nil {
		_ = r.store.Close()
	}
	r.httpc.Close()
}

// Run drives the continuous monitor: the scheduler loop plus the HTTP API,
// stopping cleanly on SIGINT/SIGTERM.
func Run(ctx context.Context, settings *conf.Settings) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := Build(ctx, settings)
	if err != nil {
		return err
	}
	defer rt.Close()

	server := api.New(rt.Poller, settings.Monitor.Listen, rt.Registry)

	if console := logging.HumanReadable(); console != nil {
		console.Info("monitor started",
			"listen", settings.Monitor.Listen,
			"interval_minutes", settings.Monitor.Interval,
			"provider", settings.Feed.Provider)
	}

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Start() }()

	schedErr := make(chan error, 1)
	go func() { schedErr <- rt.Poller.Run(ctx) }()

	select {
	case err := <-serverErr:
		if err != nil {
			return errors.New(err).
				Component("monitor").
				Category(errors.CategoryNetwork).
				Context("listen", settings.Monitor.Listen).
				Build()
		}
	case err := <-schedErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Warn("http server shutdown failed", "error", err)
	}
	return nil
}

// RunOnce executes a single poll and returns its result.
func RunOnce(ctx context.Context, settings *conf.Settings, opts poller.Options) (poller.Result, error) {
	rt, err := Build(ctx, settings)
	if err != nil {
		return poller.Result{}, err
	}
	defer rt.Close()

	return rt.Poller.Poll(ctx, opts)
}

// Verify sends the channel-verification message through the configured
// providers without running a poll.
func Verify(ctx context.Context, settings *conf.Settings) (poller.Result, error) {
	rt, err := Build(ctx, settings)
	if err != nil {
		return poller.Result{}, err
	}
	defer rt.Close()

	return rt.Poller.Verify(ctx)
}
