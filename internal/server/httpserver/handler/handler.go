// Package handler provides HTTP request handlers for sigcap.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/seqlab/sigcap-go/internal/core/domain"
	"github.com/seqlab/sigcap-go/internal/storage"
	"github.com/seqlab/sigcap-go/internal/telemetry/metric"
)

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	container *domain.Container
	archive   *storage.Engine
	metrics   *metric.Registry
	logger    *slog.Logger
	mux       *http.ServeMux
}

// New creates a new Handler. The archive and metrics registry may be
// nil; archive endpoints then report service unavailable and counters
// are skipped.
func New(container *domain.Container, archive *storage.Engine, metrics *metric.Registry, logger *slog.Logger) *Handler {
	h := &Handler{
		container: container,
		archive:   archive,
		metrics:   metrics,
		logger:    logger,
		mux:       http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers all HTTP routes.
func (h *Handler) registerRoutes() {
	// Health endpoints
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	// Capture endpoints
	h.mux.HandleFunc("GET /capture", h.handleGetCapture)
	h.mux.HandleFunc("POST /capture", h.handleUploadCapture)
	h.mux.HandleFunc("GET /capture/file", h.handleDownloadCapture)
	h.mux.HandleFunc("GET /capture/data", h.handleCaptureData)

	// Channel endpoints
	h.mux.HandleFunc("GET /channels/{idx}/label", h.handleGetLabel)
	h.mux.HandleFunc("PUT /channels/{idx}/label", h.handleSetLabel)
	h.mux.HandleFunc("GET /channels/{idx}/annotations", h.handleListAnnotations)
	h.mux.HandleFunc("POST /channels/{idx}/annotations", h.handleAddAnnotation)
	h.mux.HandleFunc("DELETE /channels/{idx}/annotations", h.handleClearAnnotations)

	// Cursor endpoints
	h.mux.HandleFunc("GET /cursors", h.handleListCursors)
	h.mux.HandleFunc("PUT /cursors/enabled", h.handleSetCursorsEnabled)
	h.mux.HandleFunc("GET /cursors/{idx}", h.handleGetCursor)
	h.mux.HandleFunc("PUT /cursors/{idx}", h.handleSetCursor)
	h.mux.HandleFunc("DELETE /cursors/{idx}", h.handleClearCursor)

	// Archive endpoints
	h.mux.HandleFunc("GET /archive", h.handleListArchive)
	h.mux.HandleFunc("POST /archive", h.handleStoreCapture)
	h.mux.HandleFunc("GET /archive/{id}", h.handleGetArchiveEntry)
	h.mux.HandleFunc("DELETE /archive/{id}", h.handleDeleteArchiveEntry)
	h.mux.HandleFunc("POST /archive/{id}/restore", h.handleRestoreCapture)

	// Acquisition endpoints
	h.mux.HandleFunc("POST /acquire/simulate", h.handleSimulate)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(r)
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// getRequestID extracts request ID from the header set by middleware.
func getRequestID(r *http.Request) string {
	return r.Header.Get("X-Request-ID")
}

// handleDomainError converts domain errors to HTTP responses.
func (h *Handler) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		status := errorCodeToHTTPStatus(code)
		h.writeError(w, r, status, code, err.Error(), nil)
		return
	}

	h.logger.Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, "SC-SYS-5000", "internal server error", nil)
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasPrefix(code, "SC-ARG-"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"), strings.HasSuffix(code, "-4002"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-5000"):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// channelIndex parses the {idx} path segment.
func channelIndex(r *http.Request) (int, error) {
	idx, err := strconv.Atoi(r.PathValue("idx"))
	if err != nil {
		return 0, domain.ErrInvalidIndex.WithDetails("index must be an integer")
	}
	return idx, nil
}
