// Package server exposes the task list as a small JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"checklist/internal/config"
	"checklist/internal/domain"
	"checklist/internal/logging"
	"checklist/internal/progress"

	"github.com/charmbracelet/log"
	"github.com/rs/cors"
)

const shutdownTimeout = 5 * time.Second

// TaskService is the task list the server operates on.
type TaskService interface {
	Add(ctx context.Context, text, dayRaw string) (domain.Task, error)
	Toggle(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	List() []domain.Task
	Progress() float64
	Dirty() bool
	LastSaved() time.Time
}

// Server serves the task API.
type Server struct {
	tasks   TaskService
	chart   progress.ChartOptions
	addr    string
	logger  *log.Logger
	handler http.Handler
}

// New builds a server for tasks using the chart and server sections of cfg.
func New(tasks TaskService, cfg *config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{
		tasks:  tasks,
		chart:  progress.DefaultChartOptions(),
		addr:   "127.0.0.1:8080",
		logger: logger,
	}
	origins := []string{"*"}
	if cfg != nil {
		s.chart = progress.ChartOptions{
			BaseURL: cfg.Chart.BaseURL,
			Width:   cfg.Chart.Width,
			Height:  cfg.Chart.Height,
			Colors:  cfg.Chart.Colors,
		}
		s.addr = cfg.Server.Addr
		if len(cfg.Server.AllowedOrigins) > 0 {
			origins = cfg.Server.AllowedOrigins
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /tasks", s.listTasks)
	mux.HandleFunc("POST /tasks", s.addTask)
	mux.HandleFunc("POST /tasks/{id}/toggle", s.toggleTask)
	mux.HandleFunc("DELETE /tasks/{id}", s.removeTask)
	mux.HandleFunc("GET /progress", s.progress)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	s.handler = s.logRequests(c.Handler(mux))

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
