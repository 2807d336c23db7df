package benchmark

import (
	"context"
	"testing"

	"github.com/seqlab/sigcap-go/internal/acquire"
)

// BenchmarkGenerate benchmarks simulated capture generation per pattern.
func BenchmarkGenerate(b *testing.B) {
	patterns := []acquire.Pattern{
		acquire.PatternSquare,
		acquire.PatternCounter,
		acquire.PatternRandom,
	}

	for _, pattern := range patterns {
		b.Run(string(pattern), func(b *testing.B) {
			cfg := acquire.GeneratorConfig{
				Pattern:       pattern,
				Samples:       100000,
				SampleRate:    1000000,
				ChannelCount:  8,
				Seed:          42,
				TriggerSample: -1,
			}
			ctx := context.Background()

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if _, err := acquire.Generate(ctx, cfg); err != nil {
					b.Fatalf("Generate: %v", err)
				}
			}
		})
	}
}
