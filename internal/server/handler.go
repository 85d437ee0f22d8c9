// Package server exposes the diagram pipeline over HTTP: a form page at "/",
// the JSON generation endpoint at "/generate" and a health check.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/ankek/textdiagram/internal/diagram"
	"github.com/ankek/textdiagram/internal/interfaces"
	"github.com/ankek/textdiagram/internal/logging"
	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Form field names accepted by POST /generate.
const (
	FieldText         = "text"
	FieldDiagramType  = "diagram_type"
	FieldRevision     = "revision"
	FieldPreviousCode = "previous_code"
)

// maxFormBytes bounds the request body of POST /generate.
const maxFormBytes = 1 << 20

// DiagramTypes are offered on the form page. Any identifier accepted by the
// rendering service can still be posted directly.
var DiagramTypes = []string{
	"mermaid", "plantuml", "graphviz", "d2", "c4plantuml", "blockdiag",
	"seqdiag", "nomnoml", "erd", "dbml", "structurizr", "wavedrom",
}

type generateResponse struct {
	DiagramCode string `json:"diagram_code"`
	DiagramSVG  string `json:"diagram_svg"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type indexView struct {
	DiagramTypes []string
	DefaultType  string
}

// Handler serves the HTTP API.
type Handler struct {
	generator interfaces.DiagramGenerator
	templates *template.Template
	logger    *zap.Logger
}

// NewHandler parses the embedded templates and returns a handler backed by generator.
func NewHandler(generator interfaces.DiagramGenerator, logger *zap.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Handler{
		generator: generator,
		templates: tmpl,
		logger:    logging.OrNop(logger),
	}, nil
}

// Routes returns the mux with all endpoints wrapped in the logging and
// recovery middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate", h.HandleGenerate)
	mux.HandleFunc("/healthz", h.HandleHealth)
	mux.HandleFunc("/", h.HandleIndex)
	return accessLog(h.logger, recoverPanics(h.logger, mux))
}

// HandleIndex renders the form page.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	view := indexView{DiagramTypes: DiagramTypes, DefaultType: diagram.DefaultType}
	if err := h.templates.ExecuteTemplate(w, "index", view); err != nil {
		h.logger.Error("failed to render index", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// HandleGenerate runs the pipeline for a form-encoded request.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid form body: " + err.Error()})
		return
	}

	req := diagram.Request{
		Description:  r.PostFormValue(FieldText),
		Type:         r.PostFormValue(FieldDiagramType),
		Revision:     r.PostFormValue(FieldRevision),
		PreviousCode: r.PostFormValue(FieldPreviousCode),
	}.Normalize()

	result, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		h.logger.Warn("diagram generation failed",
			zap.String("diagram_type", req.Type),
			zap.Bool("revision", req.IsRevision()),
			zap.Int("status", status),
			zap.Error(err))
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		DiagramCode: result.Code,
		DiagramSVG:  result.SVG,
	})
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps an error kind to the response status. Only invalid input is
// a client error; generation and rendering failures are reported as 500.
func statusFor(err error) int {
	var valErr *diagram.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
