package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	Metrics bool
	API     http.Handler // поддерево /api
	Admin   http.Handler // поддерево /admin
	Webhook http.Handler // POST /bot/{token}
}

type Server struct {
	srv *http.Server
}

func New(addr string, opts Options) *Server {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if opts.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	if opts.Webhook != nil {
		r.Post("/bot/{token}", opts.Webhook.ServeHTTP)
	}
	if opts.API != nil {
		r.Mount("/api", opts.API)
	}
	if opts.Admin != nil {
		r.Mount("/admin", opts.Admin)
	}

	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
