// Package handler provides HTTP request handlers for sigcap.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/seqlab/sigcap-go/internal/core/domain"
)

// cursorResponse builds the API view of one cursor, including its
// snapshot timestamp and trigger-relative time when derivable.
func (h *Handler) cursorResponse(idx int) (CursorResponse, error) {
	set, err := h.container.IsCursorPositionSet(idx)
	if err != nil {
		return CursorResponse{}, err
	}

	resp := CursorResponse{Index: idx, Set: set}
	if !set {
		return resp, nil
	}

	pos, err := h.container.CursorPosition(idx)
	if err != nil {
		return CursorResponse{}, err
	}
	resp.Position = &pos

	if ts, ok, err := h.container.CursorTimestamp(idx); err == nil && ok {
		resp.Timestamp = &ts
	}
	if tv, ok, err := h.container.CursorTimeValue(idx); err == nil && ok {
		resp.TimeSeconds = &tv
	}

	return resp, nil
}

// handleListCursors handles GET /cursors.
func (h *Handler) handleListCursors(w http.ResponseWriter, r *http.Request) {
	cursors := make([]CursorResponse, 0, domain.MaxCursors)
	for i := 0; i < domain.MaxCursors; i++ {
		c, err := h.cursorResponse(i)
		if err != nil {
			h.handleDomainError(w, r, err)
			return
		}
		cursors = append(cursors, c)
	}

	h.writeJSON(w, r, http.StatusOK, CursorsResponse{
		Enabled: h.container.CursorsEnabled(),
		Cursors: cursors,
	})
}

// handleGetCursor handles GET /cursors/{idx}.
func (h *Handler) handleGetCursor(w http.ResponseWriter, r *http.Request) {
	idx, err := channelIndex(r)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	c, err := h.cursorResponse(idx)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, c)
}

// handleSetCursor handles PUT /cursors/{idx}.
func (h *Handler) handleSetCursor(w http.ResponseWriter, r *http.Request) {
	idx, err := channelIndex(r)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	var req SetCursorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "SC-SYS-4000", "invalid request body", nil)
		return
	}

	if err := h.container.SetCursorPosition(idx, req.Position); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	c, err := h.cursorResponse(idx)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, c)
}

// handleClearCursor handles DELETE /cursors/{idx}.
func (h *Handler) handleClearCursor(w http.ResponseWriter, r *http.Request) {
	idx, err := channelIndex(r)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	if err := h.container.ClearCursorPosition(idx); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, CursorResponse{Index: idx, Set: false})
}

// handleSetCursorsEnabled handles PUT /cursors/enabled.
func (h *Handler) handleSetCursorsEnabled(w http.ResponseWriter, r *http.Request) {
	var req CursorsEnabledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "SC-SYS-4000", "invalid request body", nil)
		return
	}

	h.container.SetCursorsEnabled(req.Enabled)
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"enabled": req.Enabled})
}
