// Package handler provides HTTP request handlers for sigcap.
package handler

import "time"

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics and
// /capture/file which stream their native formats).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// CaptureInfoResponse is the response body for GET /capture.
type CaptureInfoResponse struct {
	Present         bool   `json:"present"`
	Transitions     int    `json:"transitions,omitempty"`
	SampleRate      int    `json:"sample_rate,omitempty"`
	ChannelCount    int    `json:"channel_count,omitempty"`
	EnabledChannels uint32 `json:"enabled_channels,omitempty"`
	AbsoluteLength  int64  `json:"absolute_length,omitempty"`
	TriggerIndex    *int   `json:"trigger_index,omitempty"`
	HasTiming       bool   `json:"has_timing,omitempty"`
}

// UploadCaptureResponse is the response body for POST /capture.
type UploadCaptureResponse struct {
	Transitions    int   `json:"transitions"`
	AbsoluteLength int64 `json:"absolute_length"`
}

// TransitionWindowResponse is the response body for GET /capture/data.
type TransitionWindowResponse struct {
	Start      int64    `json:"start"`
	End        int64    `json:"end"`
	Values     []uint32 `json:"values"`
	Timestamps []int64  `json:"timestamps"`
}

// LabelResponse is the response body for GET /channels/{idx}/label.
type LabelResponse struct {
	Channel int    `json:"channel"`
	Label   string `json:"label"`
	Set     bool   `json:"set"`
}

// SetLabelRequest is the request body for PUT /channels/{idx}/label.
type SetLabelRequest struct {
	Label string `json:"label"`
}

// AnnotationRequest is the request body for POST /channels/{idx}/annotations.
type AnnotationRequest struct {
	Start   int64 `json:"start"`
	End     int64 `json:"end"`
	Payload any   `json:"payload,omitempty"`
}

// AnnotationResponse represents one annotation in API responses.
type AnnotationResponse struct {
	Channel int   `json:"channel"`
	Start   int64 `json:"start"`
	End     int64 `json:"end"`
	Payload any   `json:"payload,omitempty"`
}

// ListAnnotationsResponse is the response body for GET /channels/{idx}/annotations.
type ListAnnotationsResponse struct {
	Channel int                  `json:"channel"`
	Items   []AnnotationResponse `json:"items"`
	Total   int                  `json:"total"`
}

// CursorResponse represents one cursor in API responses.
type CursorResponse struct {
	Index       int      `json:"index"`
	Set         bool     `json:"set"`
	Position    *int64   `json:"position,omitempty"`
	Timestamp   *int64   `json:"timestamp,omitempty"`
	TimeSeconds *float64 `json:"time_seconds,omitempty"`
}

// CursorsResponse is the response body for GET /cursors.
type CursorsResponse struct {
	Enabled bool             `json:"enabled"`
	Cursors []CursorResponse `json:"cursors"`
}

// SetCursorRequest is the request body for PUT /cursors/{idx}.
type SetCursorRequest struct {
	Position int64 `json:"position"`
}

// CursorsEnabledRequest is the request body for PUT /cursors/enabled.
type CursorsEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// ArchiveEntryResponse represents one archived capture.
type ArchiveEntryResponse struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Transitions  int       `json:"transitions"`
	SampleRate   int       `json:"sample_rate"`
	ChannelCount int       `json:"channel_count"`
	SizeBytes    int       `json:"size_bytes"`
	Encrypted    bool      `json:"encrypted"`
}

// ListArchiveResponse is the response body for GET /archive.
type ListArchiveResponse struct {
	Items []ArchiveEntryResponse `json:"items"`
	Total int                    `json:"total"`
}

// StoreCaptureResponse is the response body for POST /archive.
type StoreCaptureResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int       `json:"size_bytes"`
}

// SimulateRequest is the request body for POST /acquire/simulate.
type SimulateRequest struct {
	Pattern       string `json:"pattern"`
	Samples       int    `json:"samples"`
	SampleRate    int    `json:"sample_rate"`
	Channels      int    `json:"channels"`
	Seed          int64  `json:"seed,omitempty"`
	TriggerSample *int64 `json:"trigger_sample,omitempty"`

	// Store archives the generated capture in addition to loading it.
	Store bool `json:"store,omitempty"`
}

// SimulateResponse is the response body for POST /acquire/simulate.
type SimulateResponse struct {
	Transitions    int    `json:"transitions"`
	AbsoluteLength int64  `json:"absolute_length"`
	ArchivedAs     string `json:"archived_as,omitempty"`
}
