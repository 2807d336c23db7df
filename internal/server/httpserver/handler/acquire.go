// Package handler provides HTTP request handlers for sigcap.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/seqlab/sigcap-go/internal/acquire"
	"github.com/seqlab/sigcap-go/internal/format/olsfile"
)

// handleSimulate handles POST /acquire/simulate. The generated capture
// replaces the container's current one.
func (h *Handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "SC-SYS-4000", "invalid request body", nil)
		return
	}

	cfg := acquire.GeneratorConfig{
		Pattern:       acquire.Pattern(req.Pattern),
		Samples:       req.Samples,
		SampleRate:    req.SampleRate,
		ChannelCount:  req.Channels,
		Seed:          req.Seed,
		TriggerSample: -1,
	}
	if req.TriggerSample != nil {
		cfg.TriggerSample = *req.TriggerSample
	}

	capture, err := acquire.Generate(r.Context(), cfg)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	h.container.SetCapture(capture)
	if h.metrics != nil {
		h.metrics.CapturesLoaded.Inc()
	}

	resp := SimulateResponse{
		Transitions:    capture.Transitions(),
		AbsoluteLength: capture.AbsoluteLength(),
	}

	if req.Store && h.archive != nil {
		info, err := h.archive.Put(r.Context(), olsfile.NewDocument(capture))
		if err != nil {
			h.handleDomainError(w, r, err)
			return
		}
		if h.metrics != nil {
			h.metrics.CapturesArchived.Inc()
		}
		resp.ArchivedAs = info.ID
	}

	h.logger.Info("simulated capture generated",
		"pattern", req.Pattern,
		"samples", req.Samples,
		"transitions", resp.Transitions,
	)

	h.writeJSON(w, r, http.StatusCreated, resp)
}
