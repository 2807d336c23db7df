// Package handler provides HTTP request handlers for sigcap.
package handler

import (
	"net/http"

	"github.com/seqlab/sigcap-go/internal/core/domain"
	"github.com/seqlab/sigcap-go/internal/format/olsfile"
	"github.com/seqlab/sigcap-go/internal/storage"
)

// requireArchive reports whether the archive is configured, writing
// the error response when it is not.
func (h *Handler) requireArchive(w http.ResponseWriter, r *http.Request) bool {
	if h.archive == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "SC-SYS-5000", "archive not configured", nil)
		return false
	}
	return true
}

func archiveEntry(info storage.Info) ArchiveEntryResponse {
	return ArchiveEntryResponse{
		ID:           info.ID,
		CreatedAt:    info.CreatedAt,
		Transitions:  info.Transitions,
		SampleRate:   info.SampleRate,
		ChannelCount: info.ChannelCount,
		SizeBytes:    info.SizeBytes,
		Encrypted:    info.Encrypted,
	}
}

// handleListArchive handles GET /archive.
func (h *Handler) handleListArchive(w http.ResponseWriter, r *http.Request) {
	if !h.requireArchive(w, r) {
		return
	}

	infos, err := h.archive.List(r.Context())
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	items := make([]ArchiveEntryResponse, 0, len(infos))
	for _, info := range infos {
		items = append(items, archiveEntry(info))
	}

	h.writeJSON(w, r, http.StatusOK, ListArchiveResponse{Items: items, Total: len(items)})
}

// handleStoreCapture handles POST /archive: the current capture and
// cursor state are stored as a new archive entry.
func (h *Handler) handleStoreCapture(w http.ResponseWriter, r *http.Request) {
	if !h.requireArchive(w, r) {
		return
	}

	capture := h.container.Capture()
	if capture == nil {
		h.handleDomainError(w, r, domain.ErrNoCapture)
		return
	}

	doc := &olsfile.Document{
		Capture:         capture,
		CursorPositions: h.container.CursorPositions(),
		CursorsEnabled:  h.container.CursorsEnabled(),
	}

	info, err := h.archive.Put(r.Context(), doc)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CapturesArchived.Inc()
	}
	h.logger.Info("capture archived", "id", info.ID, "size_bytes", info.SizeBytes)

	h.writeJSON(w, r, http.StatusCreated, StoreCaptureResponse{
		ID:        info.ID,
		CreatedAt: info.CreatedAt,
		SizeBytes: info.SizeBytes,
	})
}

// handleGetArchiveEntry handles GET /archive/{id}.
func (h *Handler) handleGetArchiveEntry(w http.ResponseWriter, r *http.Request) {
	if !h.requireArchive(w, r) {
		return
	}

	info, err := h.archive.Info(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, archiveEntry(info))
}

// handleDeleteArchiveEntry handles DELETE /archive/{id}.
func (h *Handler) handleDeleteArchiveEntry(w http.ResponseWriter, r *http.Request) {
	if !h.requireArchive(w, r) {
		return
	}

	id := r.PathValue("id")
	if err := h.archive.Delete(r.Context(), id); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// handleRestoreCapture handles POST /archive/{id}/restore: the stored
// capture replaces the container's current one, cursors included.
func (h *Handler) handleRestoreCapture(w http.ResponseWriter, r *http.Request) {
	if !h.requireArchive(w, r) {
		return
	}

	id := r.PathValue("id")
	doc, info, err := h.archive.Get(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.container.SetCapture(doc.Capture)
	h.container.SetCursorPositions(doc.CursorPositions)
	h.container.SetCursorsEnabled(doc.CursorsEnabled)

	if h.metrics != nil {
		h.metrics.CapturesLoaded.Inc()
	}
	h.logger.Info("capture restored", "id", id, "transitions", info.Transitions)

	h.writeJSON(w, r, http.StatusOK, archiveEntry(info))
}
