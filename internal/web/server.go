// Package web exposes the analytical query layer over HTTP as a JSON API.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"fjacquet/budgify/internal/config"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Server holds what the handlers need: the store path and optional basic
// auth credentials. The store itself opens a connection per request, so the
// server carries no pool.
type Server struct {
	DBPath       string
	AuthUser     string
	AuthPassword string
}

// NewRouter builds the API router. When AuthPassword is set, every /api
// route sits behind basic auth; /health stays open for probes.
func NewRouter(s Server) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok")) //nolint:errcheck
	})

	r.Route("/api", func(r chi.Router) {
		if s.AuthPassword != "" {
			r.Use(middleware.BasicAuth("budgify", map[string]string{
				s.AuthUser: s.AuthPassword,
			}))
		}

		r.Get("/metadata", s.handleMetadata)
		r.Get("/overview", s.handleOverview)
		r.Get("/summary/category", s.handleSummaryCategory)
		r.Get("/summary/period", s.handleSummaryPeriod)
		r.Get("/summary/merchant", s.handleSummaryMerchant)
		r.Get("/transactions", s.handleTransactions)
		r.Get("/compare", s.handleCompare)
		r.Get("/insights", s.handleInsights)
	})

	return r
}

// ListenAndServe runs the API server until the context is cancelled.
func ListenAndServe(ctx context.Context, addr string, s Server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Starting API server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
