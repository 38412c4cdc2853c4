package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"crosstab/adapters/excel"
	"crosstab/adapters/export"
	"crosstab/adapters/stats/tabulate"
	"crosstab/adapters/stats/tests"
	"crosstab/domain/core"
	"crosstab/domain/crosstab"
	"crosstab/domain/dataset"
	"crosstab/internal/profiling"
	"crosstab/internal/report"
)

// maxUploadBytes caps dataset uploads at 32 MiB
const maxUploadBytes = 32 << 20

type analyzeRequest struct {
	Columns []string `json:"columns,omitempty"`
}

// handleUploadDataset accepts a multipart CSV/TSV upload and installs it as
// the active dataset
func (s *Server) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	delimiter := ','
	if strings.ToLower(filepath.Ext(header.Filename)) == ".tsv" {
		delimiter = '\t'
	}
	ds, err := excel.ReadCSV(file, delimiter)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	cleaned, err := ds.Clean(ds.Columns...)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	s.UseDataset(cleaned, header.Filename)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"filename": header.Filename,
		"columns":  cleaned.Columns,
		"records":  cleaned.Len(),
	})
}

// handleColumns returns per-column profiles for the active dataset
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.activeDataset(w)
	if !ok {
		return
	}

	profiles := make([]profiling.ColumnProfile, 0, len(ds.Columns))
	for _, col := range ds.Columns {
		profile, err := profiling.Profile(ds, col)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err)
			return
		}
		profiles = append(profiles, profile)
	}
	respondJSON(w, http.StatusOK, profiles)
}

// handleAnalyze runs a batch sweep over the requested (or all categorical)
// columns and stores the result for subsequent report requests
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.activeDataset(w)
	if !ok {
		return
	}

	var req analyzeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
	}

	batch, err := s.engine.Sweep(ds, req.Columns)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err)
		return
	}
	rep := report.Summarize(batch, s.cfg.Analysis.Alpha)

	s.mu.Lock()
	s.batch = batch
	s.rep = rep
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, rep)
}

func (s *Server) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.activeReport(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (s *Server) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.activeReport(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, rep.MarkdownTable())
}

func (s *Server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.activeReport(w)
	if !ok {
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	html := markdown.ToHTML([]byte(rep.MarkdownTable()), p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// handleHeatmap returns the raw heatmap and row-proportion data for one pair
func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	table, ok := s.pairTable(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"heatmap":     report.Heatmap(table),
		"proportions": report.Proportions(table),
	})
}

// handlePosthoc returns Bonferroni-corrected pairwise row-category
// comparisons for one pair's contingency table
func (s *Server) handlePosthoc(w http.ResponseWriter, r *http.Request) {
	table, ok := s.pairTable(w, r)
	if !ok {
		return
	}

	opts := tests.Options{
		ExpectedCountThreshold: s.cfg.Analysis.ExpectedCountThreshold,
		YatesCorrection:        s.cfg.Analysis.YatesCorrection,
	}
	comparisons, err := tests.PairwisePosthoc(table, s.cfg.Analysis.Alpha, opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"row_var":     table.RowVar,
		"col_var":     table.ColVar,
		"alpha":       s.cfg.Analysis.Alpha,
		"comparisons": comparisons,
	})
}

func (s *Server) handleTableCSV(w http.ResponseWriter, r *http.Request) {
	table, ok := s.pairTable(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := export.WriteTableCSV(w, table); err != nil {
		respondError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) pairTable(w http.ResponseWriter, r *http.Request) (*crosstab.ContingencyTable, bool) {
	ds, ok := s.activeDataset(w)
	if !ok {
		return nil, false
	}

	pair := crosstab.NewPair(chi.URLParam(r, "a"), chi.URLParam(r, "b"))
	if pair.A == pair.B {
		respondError(w, http.StatusBadRequest, fmt.Errorf("pair requires two distinct columns"))
		return nil, false
	}

	// Prefer the table already computed by the last sweep
	s.mu.RLock()
	batch := s.batch
	s.mu.RUnlock()
	if batch != nil {
		if result, found := batch.Get(pair); found && result.Table != nil {
			return result.Table, true
		}
	}

	table, err := tabulate.Build(ds, pair)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsPairEnumerationError(err) {
			status = http.StatusNotFound
		}
		respondError(w, status, err)
		return nil, false
	}
	return table, true
}

func (s *Server) activeDataset(w http.ResponseWriter) (*dataset.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ds == nil {
		respondError(w, http.StatusConflict, fmt.Errorf("no dataset loaded; upload one first"))
		return nil, false
	}
	return s.ds, true
}

func (s *Server) activeReport(w http.ResponseWriter) (*report.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rep == nil {
		respondError(w, http.StatusConflict, fmt.Errorf("no analysis run yet; POST /api/analyze first"))
		return nil, false
	}
	return s.rep, true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers already sent; nothing left to do but log via the
		// middleware logger
		return
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
