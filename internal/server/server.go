package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"contractscan/internal/analyze"
	"contractscan/internal/pdf"
	"contractscan/internal/scan"
)

// Server exposes one scan session over HTTP. It is the serve-mode
// counterpart of the interactive UI: the session state, document edits,
// PDF uploads and scan triggers all go through the same controller.
type Server struct {
	controller    *scan.Controller
	router        *mux.Router
	maxUploadSize int64
}

// New creates an HTTP server around a scan session
func New(controller *scan.Controller, maxUploadSize int64) *Server {
	if maxUploadSize <= 0 {
		maxUploadSize = 20 << 20
	}

	s := &Server{
		controller:    controller,
		router:        mux.NewRouter(),
		maxUploadSize: maxUploadSize,
	}
	s.routes()
	return s
}

// Router returns the configured HTTP handler
func (s *Server) Router() *mux.Router {
	return s.router
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.health).Methods("GET")
	s.router.HandleFunc("/api/state", s.getState).Methods("GET")
	s.router.HandleFunc("/api/document", s.updateDocument).Methods("PUT")
	s.router.HandleFunc("/api/document/pdf", s.uploadPDF).Methods("POST")
	s.router.HandleFunc("/api/scan", s.triggerScan).Methods("POST")
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

// documentUpdate carries a partial edit: nil fields are left untouched.
type documentUpdate struct {
	Title *string `json:"title"`
	Text  *string `json:"text"`
}

func (s *Server) updateDocument(w http.ResponseWriter, r *http.Request) {
	var update documentUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid document payload: %v", err))
		return
	}

	if update.Title != nil {
		s.controller.SetTitle(*update.Title)
	}
	if update.Text != nil {
		s.controller.SetText(*update.Text)
	}

	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) uploadPDF(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/pdf") {
		writeError(w, http.StatusUnsupportedMediaType, "upload must be application/pdf")
		return
	}

	filename := r.Header.Get("X-Filename")
	if filename == "" {
		filename = "upload.pdf"
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUploadSize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
		return
	}

	if err := s.controller.LoadPDF(r.Context(), filename, data); err != nil {
		s.writeLoadError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) writeLoadError(w http.ResponseWriter, err error) {
	var extErr *pdf.ExtractionError

	switch {
	case errors.Is(err, scan.ErrNotPDF):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, scan.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, pdf.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &extErr):
		writeError(w, http.StatusUnprocessableEntity, extErr.Hint)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) triggerScan(w http.ResponseWriter, r *http.Request) {
	err := s.controller.Scan(r.Context())

	switch {
	case errors.Is(err, scan.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, scan.ErrEmptyDocument):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Analysis failures are part of the session state, not transport
	// errors: the snapshot carries the failed phase and lastError.
	status := http.StatusOK
	if err != nil {
		if kind, ok := analyze.KindOf(err); ok && kind == analyze.KindConfiguration {
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, s.controller.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
