// Package domain defines the core domain models for sigcap.
package domain

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
)

// CursorUnset is the sentinel for a cursor slot that has no position.
// The same value is written literally to capture files, so an unset
// cursor survives a write/read round trip.
const CursorUnset int64 = math.MinInt64

// Container is the long-lived home of the current capture.
//
// One instance is shared per session: a producer (file load or
// acquisition) installs a new Capture with a single atomic pointer swap,
// and any number of readers query it. Installing a capture clears the
// annotation index, because annotations describe a specific data set.
// Cursor positions and channel labels are user configuration and are
// left untouched across captures.
type Container struct {
	capture atomic.Pointer[Capture]

	mu             sync.RWMutex
	cursors        [MaxCursors]int64
	cursorsEnabled bool
	labels         [MaxChannels]string

	annotations *AnnotationIndex
}

// NewContainer creates a container with no capture, all cursors unset,
// and empty channel labels.
func NewContainer() *Container {
	c := &Container{
		annotations: NewAnnotationIndex(),
	}
	for i := range c.cursors {
		c.cursors[i] = CursorUnset
	}
	return c
}

func checkCursorIndex(idx int) error {
	if idx < 0 || idx >= MaxCursors {
		return ErrInvalidIndex.WithDetails(
			fmt.Sprintf("cursor index %d not in 0..%d", idx, MaxCursors-1))
	}
	return nil
}

// SetCapture installs the given capture as current and clears all
// annotations. A nil capture clears the container. Readers observe
// either the fully-old or fully-new capture, never a partial one.
func (c *Container) SetCapture(capture *Capture) {
	c.capture.Store(capture)
	c.annotations.ClearAll()
}

// Capture returns the current capture, or nil when none is installed.
func (c *Container) Capture() *Capture {
	return c.capture.Load()
}

// HasCapture reports whether capture data is available.
func (c *Container) HasCapture() bool {
	return c.capture.Load() != nil
}

// SetChannelLabel sets the label for a channel.
func (c *Container) SetChannelLabel(channelIdx int, label string) error {
	if err := checkChannelIndex(channelIdx); err != nil {
		return err
	}
	c.mu.Lock()
	c.labels[channelIdx] = label
	c.mu.Unlock()
	return nil
}

// ChannelLabel returns the label for a channel; empty when unset.
func (c *Container) ChannelLabel(channelIdx int) (string, error) {
	if err := checkChannelIndex(channelIdx); err != nil {
		return "", err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.labels[channelIdx], nil
}

// IsChannelLabelSet reports whether a channel has a non-blank label.
func (c *Container) IsChannelLabelSet(channelIdx int) (bool, error) {
	label, err := c.ChannelLabel(channelIdx)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(label) != "", nil
}

// SetCursorPosition places a cursor at the given transition index.
// Use ClearCursorPosition to unset a cursor.
func (c *Container) SetCursorPosition(cursorIdx int, pos int64) error {
	if err := checkCursorIndex(cursorIdx); err != nil {
		return err
	}
	c.mu.Lock()
	c.cursors[cursorIdx] = pos
	c.mu.Unlock()
	return nil
}

// ClearCursorPosition marks a cursor slot as unset.
func (c *Container) ClearCursorPosition(cursorIdx int) error {
	return c.SetCursorPosition(cursorIdx, CursorUnset)
}

// CursorPosition returns the position of a cursor, or CursorUnset.
func (c *Container) CursorPosition(cursorIdx int) (int64, error) {
	if err := checkCursorIndex(cursorIdx); err != nil {
		return CursorUnset, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cursors[cursorIdx], nil
}

// IsCursorPositionSet reports whether the cursor has a position.
func (c *Container) IsCursorPositionSet(cursorIdx int) (bool, error) {
	pos, err := c.CursorPosition(cursorIdx)
	if err != nil {
		return false, err
	}
	return pos != CursorUnset, nil
}

// CursorPositions returns a copy of the whole cursor table.
func (c *Container) CursorPositions() [MaxCursors]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cursors
}

// SetCursorPositions replaces the whole cursor table. Used by the file
// codec when installing migrated cursor state.
func (c *Container) SetCursorPositions(positions [MaxCursors]int64) {
	c.mu.Lock()
	c.cursors = positions
	c.mu.Unlock()
}

// SetCursorsEnabled sets whether cursors are in use.
func (c *Container) SetCursorsEnabled(enabled bool) {
	c.mu.Lock()
	c.cursorsEnabled = enabled
	c.mu.Unlock()
}

// CursorsEnabled reports whether cursors are in use.
func (c *Container) CursorsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cursorsEnabled
}

// CursorTimestamp returns the sample timestamp of the transition the
// cursor points at. The second return is false when the cursor is
// unset, no capture is installed, or the cursor lies past the last
// transition.
func (c *Container) CursorTimestamp(cursorIdx int) (int64, bool, error) {
	pos, err := c.CursorPosition(cursorIdx)
	if err != nil {
		return 0, false, err
	}
	capture := c.capture.Load()
	if pos == CursorUnset || capture == nil {
		return 0, false, nil
	}
	ts := capture.Timestamps()
	if pos < 0 || pos >= int64(len(ts)) {
		return 0, false, nil
	}
	return ts[pos], true, nil
}

// CursorTimeValue returns the cursor's time in seconds, relative to the
// trigger when one is known. The second return is false when the cursor
// timestamp is unavailable or the capture has no timing data.
func (c *Container) CursorTimeValue(cursorIdx int) (float64, bool, error) {
	ts, ok, err := c.CursorTimestamp(cursorIdx)
	if err != nil || !ok {
		return 0, false, err
	}
	capture := c.capture.Load()
	if capture == nil || !capture.HasTimingData() {
		return 0, false, nil
	}
	return float64(c.CalculateTime(ts)) / float64(capture.SampleRate()), true, nil
}

// CalculateTime expresses an absolute sample time relative to the
// trigger when trigger data exists; otherwise the time is returned
// unchanged.
func (c *Container) CalculateTime(abs int64) int64 {
	capture := c.capture.Load()
	if capture != nil && capture.HasTriggerData() {
		return abs - capture.TriggerTimePosition()
	}
	return abs
}

// AddChannelAnnotation records an annotated sample range on a channel.
// Annotation writers may run on a different goroutine than readers.
func (c *Container) AddChannelAnnotation(channelIdx int, start, end int64, payload any) error {
	return c.annotations.Add(channelIdx, start, end, payload)
}

// ClearChannelAnnotations removes all annotations for one channel.
func (c *Container) ClearChannelAnnotations(channelIdx int) error {
	return c.annotations.Clear(channelIdx)
}

// ChannelAnnotation returns the first annotation covering the sample
// index, if any.
func (c *Container) ChannelAnnotation(channelIdx int, sample int64) (Annotation, bool, error) {
	return c.annotations.At(channelIdx, sample)
}

// ChannelAnnotations returns all annotations overlapping [start, end].
func (c *Container) ChannelAnnotations(channelIdx int, start, end int64) ([]Annotation, error) {
	return c.annotations.Overlapping(channelIdx, start, end)
}

// Annotations exposes the underlying index for bulk operations.
func (c *Container) Annotations() *AnnotationIndex {
	return c.annotations
}

// SampleRate returns the current capture's sample rate, or NotAvailable.
func (c *Container) SampleRate() int {
	if capture := c.capture.Load(); capture != nil {
		return capture.SampleRate()
	}
	return NotAvailable
}

// ChannelCount returns the current capture's channel count, or NotAvailable.
func (c *Container) ChannelCount() int {
	if capture := c.capture.Load(); capture != nil {
		return capture.ChannelCount()
	}
	return NotAvailable
}

// EnabledChannels returns the current capture's enabled-channel mask,
// or 0 when no capture is installed.
func (c *Container) EnabledChannels() uint32 {
	if capture := c.capture.Load(); capture != nil {
		return capture.EnabledChannels()
	}
	return 0
}

// AbsoluteLength returns the current capture's raw sample count, or
// NotAvailable.
func (c *Container) AbsoluteLength() int64 {
	if capture := c.capture.Load(); capture != nil {
		return capture.AbsoluteLength()
	}
	return NotAvailable
}

// TriggerIndex returns the current capture's trigger transition index,
// or NotAvailable.
func (c *Container) TriggerIndex() int {
	if capture := c.capture.Load(); capture != nil {
		return capture.TriggerIndex()
	}
	return NotAvailable
}
