// Package server exposes the dashboard queries as a JSON HTTP API for the
// presentation layer.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"delivery-dashboard/services"
	"delivery-dashboard/utils"
)

const shutdownTimeout = 10 * time.Second

// Server serves the query API over HTTP.
type Server struct {
	queries  *services.QueryService
	logger   *utils.Logger
	metrics  *Collector
	registry *prometheus.Registry
	router   *mux.Router
}

// New builds a Server over queries.
func New(queries *services.QueryService, logger *utils.Logger) (*Server, error) {
	metrics := NewMetricsCollector()
	registry, err := newRegistry(metrics)
	if err != nil {
		return nil, fmt.Errorf("server: register metrics: %w", err)
	}
	metrics.datasetRows.Set(float64(queries.DatasetSize()))

	s := &Server{
		queries:  queries,
		logger:   logger,
		metrics:  metrics,
		registry: registry,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Methods(http.MethodGet).Path("/reviews").Handler(s.instrument("reviews", s.handleReviews))
	api.Methods(http.MethodGet).Path("/cities").Handler(s.instrument("cities", s.handleCities))
	api.Methods(http.MethodGet).Path("/order-types").Handler(s.instrument("order_types", s.handleOrderTypes))
	api.Methods(http.MethodGet).Path("/top").Handler(s.instrument("top", s.handleTop))
	api.Methods(http.MethodGet).Path("/summary").Handler(s.instrument("summary", s.handleSummary))
	api.Methods(http.MethodGet).Path("/report").Handler(s.instrument("report", s.handleReport))
	api.Methods(http.MethodGet).Path("/options").Handler(s.instrument("options", s.handleOptions))
	api.Methods(http.MethodGet).Path("/nearest").Handler(s.instrument("nearest", s.handleNearest))

	r.Methods(http.MethodGet).Path("/healthz").HandlerFunc(s.handleHealth)
	r.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("[server] Listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("[server] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
