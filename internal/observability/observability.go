// Package observability provides metrics and monitoring capabilities for the SnakeID application.
package observability

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wgamage/snakeid-go/internal/logging"
	"github.com/wgamage/snakeid-go/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry
	SnakeNet *metrics.SnakeNetMetrics
	Taxonomy *metrics.TaxonomyMetrics

	mu  sync.Mutex
	srv *http.Server
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors.
// It returns an error if any metric collector fails to initialize.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	snakenetMetrics, err := metrics.NewSnakeNetMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create SnakeNet metrics: %w", err)
	}

	taxonomyMetrics, err := metrics.NewTaxonomyMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create taxonomy metrics: %w", err)
	}

	return &Metrics{
		registry: registry,
		SnakeNet: snakenetMetrics,
		Taxonomy: taxonomyMetrics,
	}, nil
}

// Registry exposes the underlying registry for testing and custom handlers.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Serve starts an HTTP endpoint exposing the metrics in Prometheus format.
// It blocks until the server stops; Shutdown stops it cleanly.
func (m *Metrics) Serve(listen string) error {
	log := logging.ForService("observability")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("metrics endpoint listen on %s: %w", listen, err)
	}

	m.mu.Lock()
	m.srv = srv
	m.mu.Unlock()

	log.Info("Metrics endpoint listening", "listen", ln.Addr().String())
	return srv.Serve(ln)
}

// Shutdown stops the metrics endpoint, waiting for in-flight scrapes up to
// the context deadline. A no-op when Serve was never started.
func (m *Metrics) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	srv := m.srv
	m.srv = nil
	m.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
