package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ughe/tigereval/config"
	"github.com/ughe/tigereval/evaluate"
	"github.com/ughe/tigereval/metrics"
	"github.com/ughe/tigereval/ocr"
	"github.com/ughe/tigereval/reference"
)

const (
	maxHistory      = 200
	shutdownTimeout = 10 * time.Second
)

// history keeps OCR results in memory, newest first.
type history struct {
	mu      sync.RWMutex
	results []*ocr.Result
}

func (h *history) add(r *ocr.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = append([]*ocr.Result{r}, h.results...)
	if len(h.results) > maxHistory {
		h.results = h.results[:maxHistory]
	}
}

func (h *history) list() []*ocr.Result {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*ocr.Result, len(h.results))
	copy(out, h.results)
	return out
}

func (h *history) get(id string) (*ocr.Result, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, r := range h.results {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

type server struct {
	services    map[string]ocr.Client
	defaultSvc  string
	refs        reference.Dataset
	history     *history
	live        http.Handler
	static      string
	maxUploadMB int64
	maxChars    int
}

func newServer(c *config.Config, services map[string]ocr.Client, refs reference.Dataset) *server {
	return &server{
		services:    services,
		defaultSvc:  c.Services[0],
		refs:        refs,
		history:     &history{},
		live:        newLiveHandler(c.Server.MaxLiveSessions, c.Server.MaxCompareChars),
		static:      c.Server.Static,
		maxUploadMB: c.Server.MaxUploadMB,
		maxChars:    c.Server.MaxCompareChars,
	}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /api/ocr", s.handleOCR)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/history/{id}", s.handleResult)
	mux.HandleFunc("GET /api/history/{id}/evaluation", s.handleEvaluation)
	mux.HandleFunc("POST /api/history/{id}/evaluation", s.handleManualEvaluation)
	mux.HandleFunc("POST /api/compare", s.handleCompare)
	mux.Handle("GET /ws/compare", s.live)
	if s.static != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.static)))
	}
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleOCR(w http.ResponseWriter, r *http.Request) {
	service := r.URL.Query().Get("service")
	if service == "" {
		service = s.defaultSvc
	}
	client, ok := s.services[service]
	if !ok {
		http.Error(w, "service not configured: "+service, http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB<<20)
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "missing image: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := runService(image, service, client, header.Filename)
	if err != nil {
		slog.Error("ocr failed", "file", header.Filename, "service", service, "error", err)
		http.Error(w, "Failed to process the image with "+service, http.StatusBadGateway)
		return
	}
	s.history.add(result)
	slog.Info("ocr complete", "id", result.ID, "file", result.FileName, "service", service,
		"millis", result.Duration, "segments", len(result.Segments))
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.history.list())
}

func (s *server) lookup(w http.ResponseWriter, r *http.Request) (*ocr.Result, bool) {
	result, ok := s.history.get(r.PathValue("id"))
	if !ok {
		http.Error(w, "result not found", http.StatusNotFound)
	}
	return result, ok
}

func (s *server) handleResult(w http.ResponseWriter, r *http.Request) {
	if result, ok := s.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *server) handleEvaluation(w http.ResponseWriter, r *http.Request) {
	result, ok := s.lookup(w, r)
	if !ok {
		return
	}
	report := evaluate.Evaluate(result, s.refs.ForDocument(result.FileName))
	observe(report)
	writeJSON(w, http.StatusOK, report)
}

type manualRequest struct {
	GroundTruths map[string]string `json:"groundTruths"`
}

// handleManualEvaluation scores a result against ground truth typed in by
// the user, keyed by question label.
func (s *server) handleManualEvaluation(w http.ResponseWriter, r *http.Request) {
	result, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req manualRequest
	if !decodeBody(w, r, s.maxUploadMB<<20, &req) {
		return
	}
	for _, text := range req.GroundTruths {
		if tooLong(s.maxChars, text) {
			http.Error(w, "ground truth too long", http.StatusRequestEntityTooLarge)
			return
		}
	}
	report := evaluate.Evaluate(result, reference.Manual(result.FileName, req.GroundTruths))
	observe(report)
	writeJSON(w, http.StatusOK, report)
}

type compareRequest struct {
	Reference  string `json:"reference"`
	Hypothesis string `json:"hypothesis"`
}

// compareBodyLimit bounds a request carrying texts of up to maxChars runes
// each, allowing for JSON escapes.
func compareBodyLimit(maxChars int) int64 {
	return int64(maxChars)*16 + 4096
}

// tooLong reports whether any text exceeds maxChars runes. The edit distance
// table grows with the product of both lengths.
func tooLong(maxChars int, texts ...string) bool {
	if maxChars <= 0 {
		return false
	}
	for _, t := range texts {
		if utf8.RuneCountInString(t) > maxChars {
			return true
		}
	}
	return false
}

// decodeBody reads a JSON body of at most limit bytes into v, writing 413 or
// 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !decodeBody(w, r, compareBodyLimit(s.maxChars), &req) {
		return
	}
	if tooLong(s.maxChars, req.Reference, req.Hypothesis) {
		http.Error(w, "text too long", http.StatusRequestEntityTooLarge)
		return
	}
	writeJSON(w, http.StatusOK, evaluate.Compare(req.Reference, req.Hypothesis))
}

// observe records scored segments.
func observe(r *evaluate.Report) {
	if !r.Matched {
		return
	}
	metrics.EvaluationsTotal.WithLabelValues(string(r.Mode)).Inc()
	metrics.SegmentsSkipped.Add(float64(r.Skipped()))
	for _, s := range r.Scores {
		if s.Skipped {
			continue
		}
		metrics.CER.Observe(s.CER)
		metrics.WER.Observe(s.WER)
	}
}

// loadReferences treats a missing dataset as empty so OCR still works
// without ground truth. A malformed dataset is an error.
func loadReferences(filename string) (reference.Dataset, error) {
	refs, err := reference.Load(filename)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("reference dataset not found, evaluations will be unmatched", "path", filename)
		return reference.Dataset{}, nil
	}
	return refs, err
}

func serve(ctx context.Context, c *config.Config) error {
	clients, err := newClients(c, c.Services)
	if err != nil {
		return err
	}
	refs, err := loadReferences(c.Reference)
	if err != nil {
		return err
	}
	s := newServer(c, clients, refs)
	srv := &http.Server{Addr: c.Server.Addr, Handler: s.routes()}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("serving", "addr", c.Server.Addr, "services", c.Services, "references", len(refs))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func buildServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the OCR and evaluation HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
