// Package server is the REST API over assessment sessions. Routes live
// under /v1 and require a bearer JWT when a secret is configured.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/blackwell-systems/usermanual/internal/logging"
	"github.com/blackwell-systems/usermanual/internal/session"
)

// Options configure a Server.
type Options struct {
	Addr      string
	JWTSecret string
	Language  string // default for requests that name none
}

// Server serves the REST API.
type Server struct {
	svc  *session.Service
	opts Options
	log  *zap.Logger
	now  func() time.Time
}

// New returns a Server backed by svc.
func New(svc *session.Service, opts Options, log *zap.Logger) *Server {
	return &Server{svc: svc, opts: opts, log: logging.OrNop(log), now: time.Now}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()
	if s.opts.JWTSecret != "" {
		v1.Use(requireToken(s.opts.JWTSecret))
	}

	v1.HandleFunc("/questions", s.listQuestions).Methods("GET")
	v1.HandleFunc("/sessions", s.createSession).Methods("POST")
	v1.HandleFunc("/sessions", s.listSessions).Methods("GET")
	v1.HandleFunc("/sessions/{id}", s.getSession).Methods("GET")
	v1.HandleFunc("/sessions/{id}", s.deleteSession).Methods("DELETE")
	v1.HandleFunc("/sessions/{id}/answers", s.getAnswers).Methods("GET")
	v1.HandleFunc("/sessions/{id}/answers/{qid:[0-9]+}", s.putAnswer).Methods("PUT")
	v1.HandleFunc("/sessions/{id}/answers/{qid:[0-9]+}", s.deleteAnswer).Methods("DELETE")
	v1.HandleFunc("/sessions/{id}/analysis", s.getAnalysis).Methods("GET")
	v1.HandleFunc("/sessions/{id}/snapshots", s.createSnapshot).Methods("POST")
	v1.HandleFunc("/sessions/{id}/snapshots", s.listSnapshots).Methods("GET")
	v1.HandleFunc("/sessions/{id}/report", s.getReport).Methods("GET")
	v1.HandleFunc("/sessions/{id}/prompt", s.getPrompt).Methods("GET")
	v1.HandleFunc("/sessions/{id}/narrative", s.getNarrative).Methods("GET")

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.opts.Addr), zap.Bool("auth", s.opts.JWTSecret != ""))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
