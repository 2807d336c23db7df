package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/seqlab/sigcap-go/internal/cli/connection"
	"github.com/seqlab/sigcap-go/internal/cli/output"
)

// CaptureCommand returns the capture subcommand group.
func CaptureCommand() *cli.Command {
	return &cli.Command{
		Name:    "capture",
		Aliases: []string{"cap"},
		Usage:   "Work with the server's current capture",
		Subcommands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "Show current capture metadata",
				Action: captureInfo,
			},
			{
				Name:      "upload",
				Usage:     "Upload a capture file to the server",
				ArgsUsage: "FILE",
				Action:    captureUpload,
			},
			{
				Name:      "download",
				Usage:     "Download the current capture to a file",
				ArgsUsage: "FILE",
				Action:    captureDownload,
			},
			{
				Name:  "data",
				Usage: "Fetch a transition window of the current capture",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "start",
						Usage: "Window start sample",
					},
					&cli.Int64Flag{
						Name:  "end",
						Usage: "Window end sample (inclusive)",
						Value: -1,
					},
				},
				Action: captureData,
			},
		},
	}
}

// captureInfoResponse mirrors the server's capture metadata payload.
type captureInfoResponse struct {
	Present         bool   `json:"present"`
	Transitions     int    `json:"transitions,omitempty"`
	SampleRate      int    `json:"sample_rate,omitempty"`
	ChannelCount    int    `json:"channel_count,omitempty"`
	EnabledChannels uint32 `json:"enabled_channels,omitempty"`
	AbsoluteLength  int64  `json:"absolute_length,omitempty"`
	TriggerIndex    *int   `json:"trigger_index,omitempty"`
	HasTiming       bool   `json:"has_timing,omitempty"`
}

func captureInfo(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/capture")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var info captureInfoResponse
	if err := connection.ParseResponse(resp, &info); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, info)
	default:
		if !info.Present {
			fmt.Println("No capture loaded.")
			return nil
		}
		fmt.Printf("Current capture\n")
		fmt.Printf("  Transitions:      %d\n", info.Transitions)
		fmt.Printf("  Channels:         %d (mask 0x%08x)\n", info.ChannelCount, info.EnabledChannels)
		fmt.Printf("  Absolute length:  %d samples\n", info.AbsoluteLength)
		if info.HasTiming {
			fmt.Printf("  Sample rate:      %d Hz\n", info.SampleRate)
		}
		if info.TriggerIndex != nil {
			fmt.Printf("  Trigger index:    %d\n", *info.TriggerIndex)
		}
		return nil
	}
}

func captureUpload(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("capture file required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	spin := output.NewSpinner(os.Stderr, "Uploading "+path)
	spin.Start()
	resp, err := client.PostRaw(ctx, "/capture", bytes.NewReader(data), "text/plain; charset=us-ascii")
	if err != nil {
		spin.Fail("upload failed")
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Transitions    int   `json:"transitions"`
		AbsoluteLength int64 `json:"absolute_length"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		spin.Fail("upload failed")
		return err
	}

	spin.Success(fmt.Sprintf("Uploaded %s: %d transitions, %d samples", path, result.Transitions, result.AbsoluteLength))
	return nil
}

func captureDownload(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("output file required")
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/capture/file")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	body, err := connection.ReadRaw(resp)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Printf("Downloaded capture to %s (%d bytes)\n", path, len(body))
	return nil
}

func captureData(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	path := fmt.Sprintf("/capture/data?start=%d", c.Int64("start"))
	if end := c.Int64("end"); end >= 0 {
		path += fmt.Sprintf("&end=%d", end)
	}

	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var window struct {
		Start      int64    `json:"start"`
		End        int64    `json:"end"`
		Values     []uint32 `json:"values"`
		Timestamps []int64  `json:"timestamps"`
	}
	if err := connection.ParseResponse(resp, &window); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, window)
	default:
		fmt.Printf("Window [%d, %d]: %d transitions\n", window.Start, window.End, len(window.Values))
		for i := range window.Values {
			fmt.Printf("  %08x @ %d\n", window.Values[i], window.Timestamps[i])
		}
		return nil
	}
}
