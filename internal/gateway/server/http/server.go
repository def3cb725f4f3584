package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxlink-io/voxlink/internal/pkg/metrics"
	"github.com/voxlink-io/voxlink/pkg/log"
	"github.com/voxlink-io/voxlink/pkg/options"
)

// Resolver is the slice of the dispatcher the HTTP ingress needs.
type Resolver interface {
	Dispatch(ctx context.Context, text string) string
}

// Server implements the HTTP ingress: utterance resolution for shortcut-style
// frontends plus health and metrics endpoints.
type Server struct {
	server   *http.Server
	resolver Resolver
}

type utteranceRequest struct {
	Text string `json:"text"`
}

type utteranceResponse struct {
	Reply string `json:"reply"`
}

// NewServer creates a new HTTP server routing to the given resolver.
func NewServer(opts *options.HttpOptions, resolver Resolver) *Server {
	s := &Server{resolver: resolver}

	r := mux.NewRouter()
	r.HandleFunc("/v1/utterance", s.handleUtterance).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// Liveness and readiness probes.
	r.HandleFunc("/healthz", handleOK).Methods(http.MethodGet)
	r.HandleFunc("/readyz", handleOK).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:    opts.Addr,
		Handler: r,
	}
	return s
}

func handleOK(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleUtterance(w http.ResponseWriter, r *http.Request) {
	var req utteranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, `{"error":"body must be {\"text\":\"...\"}"}`, http.StatusBadRequest)
		return
	}

	reply := s.resolver.Dispatch(r.Context(), req.Text)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(utteranceResponse{Reply: reply}); err != nil {
		log.Error(err, "Failed to encode utterance response")
	}
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	log.Info("Starting HTTP Server", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
