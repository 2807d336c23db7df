package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/seqlab/sigcap-go/internal/acquire"
	"github.com/seqlab/sigcap-go/internal/format/olsfile"
)

// GenerateCommand returns the generate command.
func GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Write a simulated capture to a file",
		ArgsUsage: "OUTPUT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "pattern",
				Aliases: []string{"p"},
				Usage:   "Signal pattern: square, counter, random",
				Value:   "square",
			},
			&cli.IntFlag{
				Name:    "samples",
				Aliases: []string{"n"},
				Usage:   "Number of raw samples",
				Value:   4096,
			},
			&cli.IntFlag{
				Name:  "sample-rate",
				Usage: "Sample rate in Hz",
				Value: 1000000,
			},
			&cli.IntFlag{
				Name:  "channels",
				Usage: "Channel count (1-32)",
				Value: 8,
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Seed for the random pattern",
			},
			&cli.Int64Flag{
				Name:  "trigger",
				Usage: "Trigger sample position (negative for none)",
				Value: -1,
			},
		},
		Action: generateFile,
	}
}

func generateFile(c *cli.Context) error {
	outputPath := c.Args().First()
	if outputPath == "" {
		return fmt.Errorf("output file required")
	}

	cfg := acquire.GeneratorConfig{
		Pattern:       acquire.Pattern(c.String("pattern")),
		Samples:       c.Int("samples"),
		SampleRate:    c.Int("sample-rate"),
		ChannelCount:  c.Int("channels"),
		Seed:          c.Int64("seed"),
		TriggerSample: c.Int64("trigger"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	capture, err := acquire.Generate(ctx, cfg)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer out.Close()

	if err := olsfile.Write(out, olsfile.NewDocument(capture)); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", outputPath, err)
	}

	fmt.Printf("Generated %s capture: %s\n", cfg.Pattern, outputPath)
	fmt.Printf("  Samples:     %d at %d Hz on %d channels\n", cfg.Samples, cfg.SampleRate, cfg.ChannelCount)
	fmt.Printf("  Transitions: %d\n", capture.Transitions())
	return nil
}
