// Package api exposes the monitor's HTTP surface: read-only access to the
// latest detection snapshot, a manual check trigger and health/metrics
// endpoints.
package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/patiwat/firewatch-go/internal/hotspot"
	"github.com/patiwat/firewatch-go/internal/logging"
	"github.com/patiwat/firewatch-go/internal/poller"
)

var apiLogger *slog.Logger

func init() {
	apiLogger = logging.ForService("api")
	if apiLogger == nil {
		apiLogger = slog.New(slog.NewJSONHandler(io.Discard, nil)).With("service", "api")
	}
}

// Server hosts the HTTP API around a running poller.
type Server struct {
	echo   *echo.Echo
	poller *poller.Poller
	listen string
}

// checkRequest is the manual trigger body. Both fields default to false.
type checkRequest struct {
	ForceNotify bool `json:"forceNotify"`
	TestMode    bool `json:"testMode"`
}

// statusResponse describes the monitor's current state.
type statusResponse struct {
	Primed       bool           `json:"primed"`
	InPassWindow bool           `json:"inPassWindow"`
	LastResult   *poller.Result `json:"lastResult,omitempty"`
}

// hotspotsResponse wraps the snapshot so a count travels with the list.
type hotspotsResponse struct {
	Count    int                 `json:"count"`
	Hotspots []hotspot.Detection `json:"hotspots"`
}

// New creates the server. registry provides the /metrics collectors; nil
// disables the endpoint.
func New(p *poller.Poller, listen string, registry *prometheus.Registry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	requestLogger := logging.Structured()
	if requestLogger == nil {
		requestLogger = slog.Default()
	}
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			requestLogger.Info("http request",
				"remote_ip", v.RemoteIP, "method", v.Method, "uri", v.URI,
				"status", v.Status, "error", v.Error)
			return nil
		},
	}))

	s := &Server{echo: e, poller: p, listen: listen}

	v1 := e.Group("/api/v1")
	v1.GET("/hotspots", s.handleHotspots)
	v1.POST("/check", s.handleCheck)
	v1.GET("/status", s.handleStatus)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if registry != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	return s
}

// handleHotspots serves the latest poll's detection set. Reading the
// snapshot never triggers a poll or a notification.
func (s *Server) handleHotspots(c echo.Context) error {
	detections := s.poller.Snapshot()
	if detections == nil {
		detections = []hotspot.Detection{}
	}
	return c.JSON(http.StatusOK, hotspotsResponse{Count: len(detections), Hotspots: detections})
}

// handleCheck runs one poll synchronously and returns its result.
func (s *Server) handleCheck(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	apiLogger.Info("manual check requested",
		"force_notify", req.ForceNotify, "test_mode", req.TestMode)

	res, err := s.poller.Poll(c.Request().Context(), poller.Options{
		ForceNotify: req.ForceNotify,
		TestMode:    req.TestMode,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, res)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleStatus(c echo.Context) error {
	resp := statusResponse{
		Primed:       s.poller.Primed(),
		InPassWindow: s.poller.InPassWindow(),
	}
	if res, ok := s.poller.LastResult(); ok {
		resp.LastResult = &res
	}
	return c.JSON(http.StatusOK, resp)
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	apiLogger.Info("http server starting", "listen", s.listen)
	err := s.echo.Start(s.listen)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
