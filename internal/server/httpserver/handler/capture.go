// Package handler provides HTTP request handlers for sigcap.
package handler

import (
	"net/http"
	"strconv"

	"github.com/seqlab/sigcap-go/internal/core/domain"
	"github.com/seqlab/sigcap-go/internal/format/olsfile"
)

// maxUploadBytes bounds capture uploads. The legacy layout caps out
// far below this; compressed captures of unusual density still fit.
const maxUploadBytes = 64 << 20

// handleGetCapture handles GET /capture.
func (h *Handler) handleGetCapture(w http.ResponseWriter, r *http.Request) {
	capture := h.container.Capture()
	if capture == nil {
		h.writeJSON(w, r, http.StatusOK, CaptureInfoResponse{Present: false})
		return
	}

	resp := CaptureInfoResponse{
		Present:         true,
		Transitions:     capture.Transitions(),
		ChannelCount:    capture.ChannelCount(),
		EnabledChannels: capture.EnabledChannels(),
		AbsoluteLength:  capture.AbsoluteLength(),
		HasTiming:       capture.HasTimingData(),
	}
	if capture.HasTimingData() {
		resp.SampleRate = capture.SampleRate()
	}
	if capture.HasTriggerData() {
		idx := capture.TriggerIndex()
		resp.TriggerIndex = &idx
	}

	h.writeJSON(w, r, http.StatusOK, resp)
}

// handleUploadCapture handles POST /capture. The body is a capture
// file in either layout; cursors from the file replace the table.
func (h *Handler) handleUploadCapture(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	defer body.Close()

	if err := olsfile.ReadContainer(body, h.container); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CapturesLoaded.Inc()
	}

	capture := h.container.Capture()
	h.logger.Info("capture uploaded",
		"transitions", capture.Transitions(),
		"absolute_length", capture.AbsoluteLength(),
	)

	h.writeJSON(w, r, http.StatusCreated, UploadCaptureResponse{
		Transitions:    capture.Transitions(),
		AbsoluteLength: capture.AbsoluteLength(),
	})
}

// handleDownloadCapture handles GET /capture/file.
func (h *Handler) handleDownloadCapture(w http.ResponseWriter, r *http.Request) {
	if !h.container.HasCapture() {
		h.handleDomainError(w, r, domain.ErrNoCapture)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=us-ascii")
	w.Header().Set("Content-Disposition", `attachment; filename="capture.ols"`)
	if err := olsfile.WriteContainer(w, h.container); err != nil {
		// Headers are gone by now; log instead of rewriting the response.
		h.logger.Error("capture download failed", "error", err)
	}
}

// handleCaptureData handles GET /capture/data?start=&end=.
// It returns the transitions covering the requested sample window.
func (h *Handler) handleCaptureData(w http.ResponseWriter, r *http.Request) {
	capture := h.container.Capture()
	if capture == nil {
		h.handleDomainError(w, r, domain.ErrNoCapture)
		return
	}

	start, end, err := parseWindow(r, capture.AbsoluteLength())
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	lo := capture.SampleIndex(start)
	hi := capture.SampleIndex(end)
	if lo < 0 {
		lo = 0
	}

	values := capture.Values()[lo : hi+1]
	timestamps := capture.Timestamps()[lo : hi+1]

	h.writeJSON(w, r, http.StatusOK, TransitionWindowResponse{
		Start:      start,
		End:        end,
		Values:     values,
		Timestamps: timestamps,
	})
}

// parseWindow extracts the start/end query parameters, defaulting to
// the whole capture and clamping end to the capture length.
func parseWindow(r *http.Request, absLength int64) (start, end int64, err error) {
	end = absLength - 1

	if s := r.URL.Query().Get("start"); s != "" {
		start, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, domain.ErrInvalidIndex.WithDetails("start must be an integer")
		}
	}
	if s := r.URL.Query().Get("end"); s != "" {
		end, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, domain.ErrInvalidIndex.WithDetails("end must be an integer")
		}
	}

	if end >= absLength {
		end = absLength - 1
	}
	if start < 0 || start > end {
		return 0, 0, domain.ErrInvalidIndex.WithDetails("window must satisfy 0 <= start <= end")
	}
	return start, end, nil
}
