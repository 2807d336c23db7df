package benchmark

import (
	"testing"

	"github.com/seqlab/sigcap-go/internal/core/domain"
)

// BenchmarkCompressSamples benchmarks run-length compression of raw samples.
func BenchmarkCompressSamples(b *testing.B) {
	runWithCounts(b, "samples", SampleCounts, func(b *testing.B, count int) {
		samples := rawSamples(count)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			values, timestamps := domain.CompressSamples(samples)
			if len(values) != len(timestamps) {
				b.Fatal("length mismatch")
			}
		}
	})
}

// BenchmarkFromSamples benchmarks building a capture from raw samples.
func BenchmarkFromSamples(b *testing.B) {
	runWithCounts(b, "samples", SampleCounts, func(b *testing.B, count int) {
		samples := rawSamples(count)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if _, err := domain.FromSamples(samples, 1000000, 8, 0xff); err != nil {
				b.Fatalf("FromSamples: %v", err)
			}
		}
	})
}

// BenchmarkSampleIndex benchmarks the binary search over transition timestamps.
func BenchmarkSampleIndex(b *testing.B) {
	capture := benchCapture(b, 100000)
	length := capture.AbsoluteLength()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if idx := capture.SampleIndex(int64(i) % length); idx < 0 {
			b.Fatal("index not found")
		}
	}
}

// BenchmarkContainerWindow benchmarks annotation window queries on a
// container with many annotations.
func BenchmarkContainerWindow(b *testing.B) {
	container := domain.NewContainer()
	container.SetCapture(benchCapture(b, 10000))

	for i := 0; i < 5000; i++ {
		start := int64(i * 16)
		if err := container.AddChannelAnnotation(i%8, start, start+8, "byte"); err != nil {
			b.Fatalf("AddChannelAnnotation: %v", err)
		}
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := container.ChannelAnnotations(i%8, 1000, 9000); err != nil {
			b.Fatalf("ChannelAnnotations: %v", err)
		}
	}
}
