// Package web serves the browser front end: an upload form, the
// conversion handler, and per-result CSV/summary downloads. Results are
// held in memory; restarting the server discards them.
package web

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/santuchal/sdf-to-smiles/internal/convert"
	"github.com/santuchal/sdf-to-smiles/internal/output"
)

// MaxUploadBytes caps uploads; chemistry vendors ship multi-hundred-MB
// libraries, but those belong on the CLI, not in a browser tab.
const MaxUploadBytes = 256 << 20

// Server is the HTTP front end.
type Server struct {
	log    *slog.Logger
	router *chi.Mux
	store  *resultStore
	server *http.Server

	// now is a test seam for the dataset-id default.
	now func() time.Time
}

// NewServer builds the server and its routes.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		log:    logger,
		router: chi.NewRouter(),
		store:  newResultStore(),
		now:    time.Now,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(5 * time.Minute))

	s.router.Get("/", s.handleIndex)
	s.router.Post("/convert", s.handleConvert)
	s.router.Get("/results/{resultID}/csv", s.handleDownloadCSV)
	s.router.Get("/results/{resultID}/summary", s.handleDownloadSummary)
	return s
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux { return s.router }

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	s.log.Info("listening", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, "")
}

func (s *Server) renderIndex(w http.ResponseWriter, errMsg string) {
	params := indexParams{
		DatasetIDDefault: s.now().UTC().Format("RUN-20060102-150405"),
		StoragePlans:     StoragePlans,
		Error:            errMsg,
	}
	if errMsg != "" {
		w.WriteHeader(http.StatusBadRequest)
	}
	if err := indexTmpl.Execute(w, params); err != nil {
		s.log.Error("render index", "err", err)
	}
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.renderIndex(w, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.renderIndex(w, "Please upload an SDF / SD file before converting.")
		return
	}
	defer file.Close()

	alcoaEnabled := r.FormValue("alcoa") == "on"
	md := convert.AlcoaMetadata{
		Operator:    strings.TrimSpace(r.FormValue("operator")),
		Contact:     strings.TrimSpace(r.FormValue("contact")),
		Purpose:     strings.TrimSpace(r.FormValue("purpose")),
		StoragePlan: strings.TrimSpace(r.FormValue("storage_plan")),
		DatasetID:   strings.TrimSpace(r.FormValue("dataset_id")),
	}
	if alcoaEnabled && (md.Operator == "" || md.Contact == "" || md.Purpose == "") {
		s.renderIndex(w, "Operator name, contact, and purpose are required for ALCOA+ mode.")
		return
	}

	// Spool to a temp file so the engine can stream it, hashing on the
	// way through.
	suffix := filepath.Ext(header.Filename)
	if suffix == "" {
		suffix = ".sdf"
	}
	tmp, err := os.CreateTemp("", "upload-*"+suffix)
	if err != nil {
		s.internalError(w, "create temp file", err)
		return
	}
	defer os.Remove(tmp.Name())

	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, hash), file)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.internalError(w, "spool upload", err)
		return
	}
	if n == 0 {
		s.renderIndex(w, "The uploaded file seems empty.")
		return
	}
	md.FileHash = hex.EncodeToString(hash.Sum(nil))

	rows, summary, err := convert.Run(convert.Options{
		InputPath:     tmp.Name(),
		EnforceALCOA:  alcoaEnabled,
		AlcoaMetadata: md,
	})
	if err != nil {
		s.internalError(w, "convert", err)
		return
	}
	summary.InputSDF = header.Filename // temp path is meaningless to the user

	if len(rows) == 0 {
		s.renderIndex(w, "No molecules were successfully converted. Check the input file or try running it through the CLI for detailed logs.")
		return
	}

	id := s.store.Put(&Result{
		SourceName:   header.Filename,
		Rows:         rows,
		Summary:      summary,
		AlcoaEnabled: alcoaEnabled,
	})
	s.log.Info("converted", "result_id", id, "file", header.Filename,
		"rows", len(rows), "alcoa", alcoaEnabled)

	preview := rows
	if len(preview) > PreviewLimit {
		preview = preview[:PreviewLimit]
	}
	params := resultsParams{
		ResultID:     id,
		SourceName:   header.Filename,
		Counts:       summary.Counts,
		Issues:       summary.Counts.ParseFailures + summary.Counts.SmilesFailures,
		TotalRows:    len(rows),
		PreviewRows:  len(preview),
		Header:       output.Header(rows),
		Preview:      preview,
		AlcoaEnabled: alcoaEnabled,
	}
	if err := resultsTmpl.Execute(w, params); err != nil {
		s.log.Error("render results", "err", err)
	}
}

func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	res, ok := s.store.Get(chi.URLParam(r, "resultID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	stem := strings.TrimSuffix(res.SourceName, filepath.Ext(res.SourceName))
	if stem == "" {
		stem = "converted"
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s_smiles.csv"`, stem))
	if err := output.WriteCSV(w, res.Rows); err != nil {
		s.log.Error("stream csv", "err", err)
	}
}

func (s *Server) handleDownloadSummary(w http.ResponseWriter, r *http.Request) {
	res, ok := s.store.Get(chi.URLParam(r, "resultID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	payload := struct {
		*convert.Summary
		OutputRows   int  `json:"output_rows"`
		AlcoaEnabled bool `json:"alcoa_enabled"`
	}{res.Summary, len(res.Rows), res.AlcoaEnabled}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		s.log.Error("encode summary", "err", err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, stage string, err error) {
	s.log.Error(stage, "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
