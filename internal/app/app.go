// Package app wires the configured services into one runtime for the CLI
// commands.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wgamage/snakeid-go/internal/conf"
	"github.com/wgamage/snakeid-go/internal/curation"
	"github.com/wgamage/snakeid-go/internal/datastore"
	"github.com/wgamage/snakeid-go/internal/errors"
	"github.com/wgamage/snakeid-go/internal/identify"
	"github.com/wgamage/snakeid-go/internal/logging"
	"github.com/wgamage/snakeid-go/internal/observability"
	"github.com/wgamage/snakeid-go/internal/observability/metrics"
	"github.com/wgamage/snakeid-go/internal/snakenet"
	"github.com/wgamage/snakeid-go/internal/telemetry"
)

// Runtime bundles the wired services. Fields are nil when the corresponding
// concern is disabled or not requested.
type Runtime struct {
	Settings *conf.Settings
	Sink     *telemetry.Sink
	Metrics  *observability.Metrics
	Store    datastore.Interface
	SnakeNet *snakenet.SnakeNet
	Identify *identify.Service
	Curation *curation.Service

	shutdownTelemetry func()
}

// Build opens the datastore and wires telemetry, metrics and the services.
// The model bundle is only loaded when loadModels is set; taxonomy-only
// commands skip it.
func Build(settings *conf.Settings, loadModels bool) (*Runtime, error) {
	rt := &Runtime{Settings: settings, Sink: telemetry.NewSink()}

	shutdown, err := telemetry.Init(&settings.Sentry, rt.Sink)
	if err != nil {
		return nil, err
	}
	rt.shutdownTelemetry = shutdown

	var snakeNetMetrics *metrics.SnakeNetMetrics
	var taxonomyMetrics *metrics.TaxonomyMetrics
	if settings.Metrics.Enabled {
		m, err := observability.NewMetrics()
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.Metrics = m
		snakeNetMetrics = m.SnakeNet
		taxonomyMetrics = m.Taxonomy

		go func() {
			if err := m.Serve(settings.Metrics.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.ForService("observability").Error("metrics endpoint stopped", "error", err)
			}
		}()
	}

	rt.Store = datastore.New(settings)
	if rt.Store == nil {
		rt.Close()
		return nil, fmt.Errorf("no database output enabled in configuration")
	}
	if err := rt.Store.Open(); err != nil {
		rt.Close()
		return nil, fmt.Errorf("opening datastore: %w", err)
	}

	if loadModels {
		rt.SnakeNet = snakenet.New(settings, snakeNetMetrics)
		rt.Identify = identify.New(settings, rt.SnakeNet, rt.Store, snakeNetMetrics)
	}

	rt.Curation = curation.New(settings, rt.Store, taxonomyMetrics)

	return rt, nil
}

// Close releases the runtime's resources in reverse wiring order.
func (rt *Runtime) Close() {
	if rt.Metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rt.Metrics.Shutdown(ctx); err != nil {
			logging.ForService("observability").Error("stopping metrics endpoint", "error", err)
		}
		cancel()
		rt.Metrics = nil
	}
	if rt.SnakeNet != nil {
		rt.SnakeNet.Delete()
		rt.SnakeNet = nil
	}
	if rt.Store != nil {
		if err := rt.Store.Close(); err != nil {
			logging.ForService("app").Error("closing datastore", "error", err)
		}
		rt.Store = nil
	}
	if rt.shutdownTelemetry != nil {
		rt.shutdownTelemetry()
		rt.shutdownTelemetry = nil
	}
}
