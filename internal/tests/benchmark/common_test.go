package benchmark

import (
	"fmt"
	"math/rand"
	"runtime"
	"testing"

	"github.com/seqlab/sigcap-go/internal/core/domain"
	"github.com/seqlab/sigcap-go/internal/format/olsfile"
)

// SampleCounts defines the raw sample counts for benchmarking.
var SampleCounts = []int{1000, 10000, 100000, 1000000}

// TransitionCounts defines the transition counts for benchmarking.
var TransitionCounts = []int{100, 1000, 10000, 100000}

// rawSamples builds a deterministic raw sample stream where roughly
// one sample in eight changes value.
func rawSamples(count int) []uint32 {
	rng := rand.New(rand.NewSource(42))
	samples := make([]uint32, count)
	value := uint32(0)
	for i := range samples {
		if rng.Intn(8) == 0 {
			value = rng.Uint32() & 0xff
		}
		samples[i] = value
	}
	return samples
}

// benchCapture builds a capture with the given number of transitions.
func benchCapture(b *testing.B, transitions int) *domain.Capture {
	b.Helper()
	values := make([]uint32, transitions)
	timestamps := make([]int64, transitions)
	for i := range values {
		values[i] = uint32(i) & 0xff
		timestamps[i] = int64(i) * 8
	}
	capture, err := domain.NewCapture(values, timestamps, domain.NotAvailable, 1000000, 8, 0xff, int64(transitions)*8)
	if err != nil {
		b.Fatalf("NewCapture: %v", err)
	}
	return capture
}

// benchDocument builds a document with the given number of transitions.
func benchDocument(b *testing.B, transitions int) *olsfile.Document {
	b.Helper()
	return olsfile.NewDocument(benchCapture(b, transitions))
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithCounts runs a benchmark function with various counts.
func runWithCounts(b *testing.B, label string, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("%s_%d", label, count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
