// Package domain defines the core domain models for sigcap.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - Capture: immutable transition-compressed waveform data
//   - Container: the shared container composing a capture with
//     cursors, channel labels, and annotations
//   - AnnotationIndex: per-channel annotated sample ranges
//   - Errors: domain-specific error definitions
//
// A Capture stores one completed acquisition as a run-length
// compressed sequence of 32-bit channel values and their sample
// timestamps. It is installed into a Container by a producer and
// queried by any number of readers; it is superseded, never edited.
package domain
