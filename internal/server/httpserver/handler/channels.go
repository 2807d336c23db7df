// Package handler provides HTTP request handlers for sigcap.
package handler

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/seqlab/sigcap-go/internal/core/domain"
)

// handleGetLabel handles GET /channels/{idx}/label.
func (h *Handler) handleGetLabel(w http.ResponseWriter, r *http.Request) {
	idx, err := channelIndex(r)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	label, err := h.container.ChannelLabel(idx)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	set, err := h.container.IsChannelLabelSet(idx)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, LabelResponse{
		Channel: idx,
		Label:   label,
		Set:     set,
	})
}

// handleSetLabel handles PUT /channels/{idx}/label.
func (h *Handler) handleSetLabel(w http.ResponseWriter, r *http.Request) {
	idx, err := channelIndex(r)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	var req SetLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "SC-SYS-4000", "invalid request body", nil)
		return
	}

	if err := h.container.SetChannelLabel(idx, req.Label); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, LabelResponse{
		Channel: idx,
		Label:   req.Label,
		Set:     req.Label != "",
	})
}

// handleListAnnotations handles GET /channels/{idx}/annotations.
// An optional sample window filters the result; without one the whole
// capture range is used.
func (h *Handler) handleListAnnotations(w http.ResponseWriter, r *http.Request) {
	idx, err := channelIndex(r)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	capture := h.container.Capture()
	absLength := int64(math.MaxInt64)
	if capture != nil {
		absLength = capture.AbsoluteLength()
	}

	start, end := int64(0), absLength-1
	if r.URL.Query().Get("start") != "" || r.URL.Query().Get("end") != "" {
		start, end, err = parseWindow(r, absLength)
		if err != nil {
			h.handleDomainError(w, r, err)
			return
		}
	}

	annotations, err := h.container.ChannelAnnotations(idx, start, end)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	items := make([]AnnotationResponse, 0, len(annotations))
	for _, a := range annotations {
		items = append(items, AnnotationResponse{
			Channel: idx,
			Start:   a.StartSample,
			End:     a.EndSample,
			Payload: a.Payload,
		})
	}

	h.writeJSON(w, r, http.StatusOK, ListAnnotationsResponse{
		Channel: idx,
		Items:   items,
		Total:   len(items),
	})
}

// handleAddAnnotation handles POST /channels/{idx}/annotations.
func (h *Handler) handleAddAnnotation(w http.ResponseWriter, r *http.Request) {
	idx, err := channelIndex(r)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	var req AnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "SC-SYS-4000", "invalid request body", nil)
		return
	}
	if req.Start < 0 || req.End < req.Start {
		h.handleDomainError(w, r,
			domain.ErrInvalidIndex.WithDetails("annotation range must satisfy 0 <= start <= end"))
		return
	}

	if err := h.container.AddChannelAnnotation(idx, req.Start, req.End, req.Payload); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.AnnotationsAdded.Inc()
	}

	h.writeJSON(w, r, http.StatusCreated, AnnotationResponse{
		Channel: idx,
		Start:   req.Start,
		End:     req.End,
		Payload: req.Payload,
	})
}

// handleClearAnnotations handles DELETE /channels/{idx}/annotations.
func (h *Handler) handleClearAnnotations(w http.ResponseWriter, r *http.Request) {
	idx, err := channelIndex(r)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	if err := h.container.ClearChannelAnnotations(idx); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{"channel": idx, "cleared": true})
}
