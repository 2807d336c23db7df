// Package domain defines the core domain models for sigcap.
package domain

import (
	"fmt"
	"slices"
	"sort"
)

// Capture limits.
const (
	// MaxChannels is the maximum number of channels.
	MaxChannels = 32

	// MaxCursors is the maximum number of cursors that can be set.
	MaxCursors = 10

	// NotAvailable is the sentinel for absent trigger data and
	// unavailable capture-level queries.
	NotAvailable = -1
)

// Capture holds one completed acquisition in transition-compressed form.
//
// Values and timestamps are stored pairwise: values[i] is the combined
// 32-bit channel state that became current at sample index timestamps[i].
// The first timestamp is always 0 and timestamps are strictly increasing.
// A Capture is never mutated after construction; a new acquisition
// supersedes it.
type Capture struct {
	values          []uint32
	timestamps      []int64
	triggerIndex    int
	sampleRate      int
	channelCount    int
	enabledChannels uint32
	absoluteLength  int64
}

// NewCapture creates a Capture from already-compressed transition data.
//
// The value and timestamp slices must be the same length; timestamps must
// start at 0 and be strictly increasing; absoluteLength must cover at
// least the compressed transitions. The slices are copied. A negative
// triggerIndex is normalized to NotAvailable.
func NewCapture(values []uint32, timestamps []int64, triggerIndex, sampleRate, channelCount int, enabledChannels uint32, absoluteLength int64) (*Capture, error) {
	if len(values) != len(timestamps) {
		return nil, ErrInvalidCapture.WithDetails(
			fmt.Sprintf("%d values but %d timestamps", len(values), len(timestamps)))
	}
	if len(timestamps) > 0 && timestamps[0] != 0 {
		return nil, ErrInvalidCapture.WithDetails("first timestamp must be 0")
	}
	for i := 1; i < len(timestamps); i++ {
		if timestamps[i] <= timestamps[i-1] {
			return nil, ErrInvalidCapture.WithDetails(
				fmt.Sprintf("timestamps not strictly increasing at index %d", i))
		}
	}
	if absoluteLength < int64(len(values)) {
		return nil, ErrInvalidCapture.WithDetails("absolute length shorter than transition count")
	}
	if channelCount <= 0 || channelCount > MaxChannels {
		return nil, ErrInvalidCapture.WithDetails(
			fmt.Sprintf("channel count %d not in 1..%d", channelCount, MaxChannels))
	}
	if triggerIndex < 0 {
		triggerIndex = NotAvailable
	}
	if triggerIndex > len(values) {
		return nil, ErrInvalidCapture.WithDetails(
			fmt.Sprintf("trigger index %d beyond %d transitions", triggerIndex, len(values)))
	}

	return &Capture{
		values:          slices.Clone(values),
		timestamps:      slices.Clone(timestamps),
		triggerIndex:    triggerIndex,
		sampleRate:      sampleRate,
		channelCount:    channelCount,
		enabledChannels: enabledChannels,
		absoluteLength:  absoluteLength,
	}, nil
}

// FromSamples creates a Capture by run-length compressing a dense
// per-sample array: a transition is emitted for index 0 and for every
// index whose value differs from its predecessor. The capture has no
// trigger data; absolute length is the raw sample count.
func FromSamples(samples []uint32, sampleRate, channelCount int, enabledChannels uint32) (*Capture, error) {
	if len(samples) == 0 {
		return nil, ErrInvalidCapture.WithDetails("no samples")
	}
	values, timestamps := CompressSamples(samples)
	return NewCapture(values, timestamps, NotAvailable, sampleRate, channelCount, enabledChannels, int64(len(samples)))
}

// CompressSamples run-length compresses a dense sample array into
// (value, sample index) transition pairs. The first sample always
// produces a transition, so a non-empty input yields timestamps[0] == 0.
func CompressSamples(samples []uint32) (values []uint32, timestamps []int64) {
	if len(samples) == 0 {
		return nil, nil
	}

	count := 1
	prev := samples[0]
	for _, s := range samples[1:] {
		if s != prev {
			count++
		}
		prev = s
	}

	values = make([]uint32, 0, count)
	timestamps = make([]int64, 0, count)
	values = append(values, samples[0])
	timestamps = append(timestamps, 0)
	prev = samples[0]
	for i, s := range samples {
		if s != prev {
			values = append(values, s)
			timestamps = append(timestamps, int64(i))
		}
		prev = s
	}
	return values, timestamps
}

// Transitions returns the number of stored transitions.
func (c *Capture) Transitions() int {
	return len(c.values)
}

// Values returns the transition values. The slice must not be modified.
func (c *Capture) Values() []uint32 {
	return c.values
}

// Timestamps returns the transition sample indices. The slice must not
// be modified.
func (c *Capture) Timestamps() []int64 {
	return c.timestamps
}

// SampleRate returns the sample rate in Hz, or NotAvailable for state
// captures without timing data.
func (c *Capture) SampleRate() int {
	return c.sampleRate
}

// ChannelCount returns the number of captured channels.
func (c *Capture) ChannelCount() int {
	return c.channelCount
}

// EnabledChannels returns the enabled-channel bitmask.
func (c *Capture) EnabledChannels() uint32 {
	return c.enabledChannels
}

// AbsoluteLength returns the raw sample count before compression.
func (c *Capture) AbsoluteLength() int64 {
	return c.absoluteLength
}

// TriggerIndex returns the transition index of the trigger event, or
// NotAvailable if no trigger data exists.
func (c *Capture) TriggerIndex() int {
	return c.triggerIndex
}

// HasTriggerData reports whether a trigger position is known.
func (c *Capture) HasTriggerData() bool {
	return c.triggerIndex != NotAvailable
}

// HasTimingData reports whether the capture carries a sample rate.
func (c *Capture) HasTimingData() bool {
	return c.sampleRate > 0
}

// TriggerTimePosition returns the sample timestamp of the trigger
// transition, or NotAvailable when no trigger data exists or the
// migrated index lies past the last transition.
func (c *Capture) TriggerTimePosition() int64 {
	if c.triggerIndex < 0 || c.triggerIndex >= len(c.timestamps) {
		return NotAvailable
	}
	return c.timestamps[c.triggerIndex]
}

// SampleIndex returns the index of the transition covering the given
// absolute sample time: the last transition whose timestamp does not
// exceed abs. Returns NotAvailable for times before the capture start.
func (c *Capture) SampleIndex(abs int64) int {
	if len(c.timestamps) == 0 || abs < 0 {
		return NotAvailable
	}
	// First index with timestamp > abs; the covering transition is the
	// one before it.
	i := sort.Search(len(c.timestamps), func(i int) bool {
		return c.timestamps[i] > abs
	})
	return i - 1
}
