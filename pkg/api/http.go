// Package api serves the debug HTTP surface of spec.md §6: a
// snapshot of {lastAggregated, lastNormalized, updatedAt} and a
// health check. Neither endpoint is part of the specified core;
// they exist so the core is observable end to end, per SPEC_FULL.md.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pricecore/oracle-core/pkg/cache"
	"github.com/pricecore/oracle-core/pkg/logging"
	"github.com/pricecore/oracle-core/pkg/metrics"
	"github.com/pricecore/oracle-core/pkg/quote"
)

// DebugSnapshot is the wire shape spec.md §6 specifies for the debug
// surface.
type DebugSnapshot struct {
	LastAggregated map[string]quote.ConsensusPrice   `json:"lastAggregated"`
	LastNormalized map[string][]quote.CanonicalQuote `json:"lastNormalized"`
	UpdatedAt      int64                             `json:"updatedAt"`
}

// Server serves the debug surface over HTTP.
type Server struct {
	addr   string
	cache  *cache.Cache
	logger *logging.Logger
	server *http.Server
}

// NewServer builds a debug/health Server reading from cache.
func NewServer(addr string, c *cache.Cache, logger *logging.Logger) *Server {
	return &Server{addr: addr, cache: c, logger: logger}
}

// Start serves until the process shuts it down via Stop.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/debug", s.handleDebug)

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("starting debug HTTP server", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("debug HTTP server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("stopping debug HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	defer func() { metrics.RecordHTTPRequest("/health", "200", time.Since(start)) }()

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleDebug(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	status := "200"
	defer func() { metrics.RecordHTTPRequest("/debug", status, time.Since(start)) }()

	lastAggregated, lastNormalized, updatedAt := s.cache.Snapshot()
	snapshot := DebugSnapshot{
		LastAggregated: lastAggregated,
		LastNormalized: lastNormalized,
		UpdatedAt:      updatedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		status = "500"
		w.WriteHeader(http.StatusInternalServerError)
		s.logger.Error("failed to encode debug snapshot", "error", err)
		return
	}
}
