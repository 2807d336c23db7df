// Package domain defines the core domain models for sigcap.
package domain

import (
	"fmt"
	"sync"
)

// Annotation is one annotated sample range on a channel. The payload is
// opaque to the container: protocol decoders and other tools define it.
type Annotation struct {
	StartSample int64
	EndSample   int64
	Payload     any
}

// Contains reports whether the given sample index falls inside the
// annotated range (inclusive on both ends).
func (a Annotation) Contains(sample int64) bool {
	return sample >= a.StartSample && sample <= a.EndSample
}

// Overlaps reports whether the annotated range intersects [start, end].
func (a Annotation) Overlaps(start, end int64) bool {
	return a.EndSample >= start && a.StartSample <= end
}

// AnnotationIndex stores annotations per channel in arrival order.
//
// Channels are a fixed arena indexed 0..MaxChannels-1, so channel lookup
// never allocates. Writers to the same channel are serialized; readers
// get a snapshot of the channel's entries taken at call time, so an
// iteration is never affected by concurrent writes.
type AnnotationIndex struct {
	channels [MaxChannels]annotationChannel
}

type annotationChannel struct {
	mu      sync.RWMutex
	entries []Annotation
}

// NewAnnotationIndex creates an empty index.
func NewAnnotationIndex() *AnnotationIndex {
	return &AnnotationIndex{}
}

func checkChannelIndex(idx int) error {
	if idx < 0 || idx >= MaxChannels {
		return ErrInvalidIndex.WithDetails(
			fmt.Sprintf("channel index %d not in 0..%d", idx, MaxChannels-1))
	}
	return nil
}

// Add appends an annotation for the given channel. Entries are kept in
// arrival order; overlapping ranges are legal and never merged.
func (x *AnnotationIndex) Add(channelIdx int, start, end int64, payload any) error {
	if err := checkChannelIndex(channelIdx); err != nil {
		return err
	}
	ch := &x.channels[channelIdx]
	ch.mu.Lock()
	ch.entries = append(ch.entries, Annotation{StartSample: start, EndSample: end, Payload: payload})
	ch.mu.Unlock()
	return nil
}

// Clear removes all annotations for the given channel.
func (x *AnnotationIndex) Clear(channelIdx int) error {
	if err := checkChannelIndex(channelIdx); err != nil {
		return err
	}
	ch := &x.channels[channelIdx]
	ch.mu.Lock()
	ch.entries = nil
	ch.mu.Unlock()
	return nil
}

// ClearAll removes all annotations for all channels.
func (x *AnnotationIndex) ClearAll() {
	for i := range x.channels {
		ch := &x.channels[i]
		ch.mu.Lock()
		ch.entries = nil
		ch.mu.Unlock()
	}
}

// At returns the first stored annotation (in arrival order) whose range
// contains the given sample index. The second return is false when no
// annotation covers the sample; that is a valid outcome, not an error.
func (x *AnnotationIndex) At(channelIdx int, sample int64) (Annotation, bool, error) {
	if err := checkChannelIndex(channelIdx); err != nil {
		return Annotation{}, false, err
	}
	ch := &x.channels[channelIdx]
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	for _, a := range ch.entries {
		if a.Contains(sample) {
			return a, true, nil
		}
	}
	return Annotation{}, false, nil
}

// Overlapping returns all annotations intersecting [start, end], in
// arrival order. The returned slice is a snapshot owned by the caller.
func (x *AnnotationIndex) Overlapping(channelIdx int, start, end int64) ([]Annotation, error) {
	if err := checkChannelIndex(channelIdx); err != nil {
		return nil, err
	}
	ch := &x.channels[channelIdx]
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	var out []Annotation
	for _, a := range ch.entries {
		if a.Overlaps(start, end) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Count returns the number of annotations stored for the given channel.
func (x *AnnotationIndex) Count(channelIdx int) (int, error) {
	if err := checkChannelIndex(channelIdx); err != nil {
		return 0, err
	}
	ch := &x.channels[channelIdx]
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return len(ch.entries), nil
}
