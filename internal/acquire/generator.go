package acquire

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/time/rate"

	"github.com/seqlab/sigcap-go/internal/core/domain"
)

// Pattern selects the generated signal shape.
type Pattern string

const (
	// PatternSquare toggles all enabled channels together every
	// squarePeriod samples.
	PatternSquare Pattern = "square"

	// PatternCounter emits the raw sample counter on the bus, so
	// channel n toggles every 2^n samples.
	PatternCounter Pattern = "counter"

	// PatternRandom flips a random channel at random intervals,
	// deterministic for a given seed.
	PatternRandom Pattern = "random"
)

// GeneratorConfig configures a simulated acquisition run.
type GeneratorConfig struct {
	Pattern      Pattern
	Samples      int
	SampleRate   int
	ChannelCount int

	// Seed drives the random pattern. The same seed always produces
	// the same capture.
	Seed int64

	// TriggerSample marks the raw sample where the simulated trigger
	// fires. Negative means no trigger.
	TriggerSample int64

	// RealTime paces generation at SampleRate instead of producing
	// the capture as fast as possible.
	RealTime bool
}

func (c *GeneratorConfig) validate() error {
	if c.Samples <= 0 {
		return domain.ErrInvalidCapture.WithDetails("sample count must be positive")
	}
	if c.ChannelCount < 1 || c.ChannelCount > domain.MaxChannels {
		return domain.ErrInvalidCapture.WithDetails(
			fmt.Sprintf("channel count %d outside [1, %d]", c.ChannelCount, domain.MaxChannels))
	}
	if c.SampleRate <= 0 {
		return domain.ErrInvalidCapture.WithDetails("sample rate must be positive")
	}
	switch c.Pattern {
	case PatternSquare, PatternCounter, PatternRandom:
	default:
		return domain.ErrInvalidCapture.WithDetails(
			fmt.Sprintf("unknown pattern %q", c.Pattern))
	}
	return nil
}

// paceChunk is how many samples are produced between limiter waits
// and cancellation checks.
const paceChunk = 1024

// Generate produces one simulated capture. With RealTime set, sample
// production is paced at the configured rate and the context cancels
// a run in progress.
func Generate(ctx context.Context, cfg GeneratorConfig) (*domain.Capture, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mask := channelMask(cfg.ChannelCount)
	rng := rand.New(rand.NewSource(cfg.Seed))

	var limiter *rate.Limiter
	if cfg.RealTime {
		limiter = rate.NewLimiter(rate.Limit(cfg.SampleRate), paceChunk)
	}

	samples := make([]uint32, cfg.Samples)
	var value uint32
	for i := 0; i < cfg.Samples; i++ {
		if i%paceChunk == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if limiter != nil {
				n := cfg.Samples - i
				if n > paceChunk {
					n = paceChunk
				}
				if err := limiter.WaitN(ctx, n); err != nil {
					return nil, err
				}
			}
		}

		switch cfg.Pattern {
		case PatternSquare:
			value = squareValue(i, mask)
		case PatternCounter:
			value = uint32(i)
		case PatternRandom:
			if rng.Intn(4) == 0 {
				value ^= 1 << uint(rng.Intn(cfg.ChannelCount))
			}
		}
		samples[i] = value & mask
	}

	values, timestamps := domain.CompressSamples(samples)
	trigger := domain.NotAvailable
	if cfg.TriggerSample >= 0 {
		trigger = triggerIndexFor(timestamps, cfg.TriggerSample)
	}

	return domain.NewCapture(values, timestamps, trigger,
		cfg.SampleRate, cfg.ChannelCount, mask, int64(cfg.Samples))
}

// squarePeriod is the half-period, in samples, of the square pattern.
const squarePeriod = 8

func squareValue(sample int, mask uint32) uint32 {
	if (sample/squarePeriod)%2 == 1 {
		return mask
	}
	return 0
}

// triggerIndexFor finds the transition covering the trigger sample:
// the last transition whose timestamp does not exceed it.
func triggerIndexFor(timestamps []int64, sample int64) int {
	idx := domain.NotAvailable
	for i, ts := range timestamps {
		if ts > sample {
			break
		}
		idx = i
	}
	return idx
}

func channelMask(channels int) uint32 {
	if channels >= 32 {
		return 0xffffffff
	}
	return (1 << uint(channels)) - 1
}
