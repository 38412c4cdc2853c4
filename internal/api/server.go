package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"crosstab/adapters/stats/engine"
	"crosstab/domain/crosstab"
	"crosstab/domain/dataset"
	"crosstab/internal"
	"crosstab/internal/config"
	"crosstab/internal/report"
)

// Server exposes the batch analysis pipeline over HTTP: dataset upload,
// column profiles, batch sweeps, report rendering, and per-pair heatmap data
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	engine *engine.Engine
	http   *http.Server

	mu         sync.RWMutex
	ds         *dataset.Dataset
	sourceName string
	batch      *crosstab.BatchResult
	rep        *report.Report
}

// NewServer creates the HTTP server
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		engine: engine.New(engine.Config{
			ExpectedCountThreshold: cfg.Analysis.ExpectedCountThreshold,
			YatesCorrection:        cfg.Analysis.YatesCorrection,
		}),
	}
	s.routes()
	s.http = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/datasets", s.handleUploadDataset)
		r.Get("/columns", s.handleColumns)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/report", s.handleReportJSON)
		r.Get("/report.md", s.handleReportMarkdown)
		r.Get("/report.html", s.handleReportHTML)
		r.Get("/pairs/{a}/{b}/heatmap", s.handleHeatmap)
		r.Get("/pairs/{a}/{b}/posthoc", s.handlePosthoc)
		r.Get("/pairs/{a}/{b}/table.csv", s.handleTableCSV)
	})
}

// UseDataset installs a pre-loaded dataset, e.g. from a configured data file
func (s *Server) UseDataset(ds *dataset.Dataset, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = ds
	s.sourceName = name
	s.batch = nil
	s.rep = nil
}

// Start begins serving; it blocks until the listener fails or is shut down
func (s *Server) Start() error {
	internal.DefaultLogger.Info("[Server] Listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	internal.DefaultLogger.Info("[Server] Shutting down")
	return s.http.Shutdown(ctx)
}
