package command

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/seqlab/sigcap-go/internal/cli/output"
	"github.com/seqlab/sigcap-go/internal/core/domain"
	"github.com/seqlab/sigcap-go/internal/format/olsfile"
)

// fileSummary describes one capture file for display.
type fileSummary struct {
	File            string `json:"file" yaml:"file"`
	Layout          string `json:"layout" yaml:"layout"`
	Transitions     int    `json:"transitions" yaml:"transitions"`
	SampleRate      int    `json:"sample_rate" yaml:"sample_rate"`
	ChannelCount    int    `json:"channel_count" yaml:"channel_count"`
	EnabledChannels string `json:"enabled_channels" yaml:"enabled_channels"`
	AbsoluteLength  int64  `json:"absolute_length" yaml:"absolute_length"`
	TriggerIndex    int    `json:"trigger_index" yaml:"trigger_index"`
	HasTiming       bool   `json:"has_timing" yaml:"has_timing"`
	CursorsEnabled  bool   `json:"cursors_enabled" yaml:"cursors_enabled"`
	CursorsSet      int    `json:"cursors_set" yaml:"cursors_set"`
}

// InspectCommand returns the inspect command.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show the header summary of a capture file",
		ArgsUsage: "FILE",
		Action:    inspectFile,
	}
}

func inspectFile(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("capture file required")
	}

	doc, layout, err := readCaptureFile(path)
	if err != nil {
		return err
	}

	capture := doc.Capture
	summary := fileSummary{
		File:            path,
		Layout:          layout,
		Transitions:     capture.Transitions(),
		ChannelCount:    capture.ChannelCount(),
		EnabledChannels: fmt.Sprintf("0x%08x", capture.EnabledChannels()),
		AbsoluteLength:  capture.AbsoluteLength(),
		TriggerIndex:    capture.TriggerIndex(),
		HasTiming:       capture.HasTimingData(),
		CursorsEnabled:  doc.CursorsEnabled,
	}
	if capture.HasTimingData() {
		summary.SampleRate = capture.SampleRate()
	}
	for _, pos := range doc.CursorPositions {
		if pos != domain.CursorUnset {
			summary.CursorsSet++
		}
	}

	flags := ParseGlobalFlags(c)
	formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
	return formatter.Format(os.Stdout, summary)
}

// readCaptureFile parses a capture file and reports which on-disk
// layout it used. Legacy files are migrated to the transition layout
// during the read.
func readCaptureFile(path string) (*olsfile.Document, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	layout, err := detectLayout(f)
	if err != nil {
		return nil, "", err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, "", fmt.Errorf("rewind %s: %w", path, err)
	}

	doc, err := olsfile.Read(f)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return doc, layout, nil
}

// detectLayout scans header lines for the Compressed flag.
func detectLayout(f *os.File) (string, error) {
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, ";") {
			break
		}
		key, value, ok := strings.Cut(line[1:], ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(key) == "Compressed" {
			if strings.TrimSpace(value) == "true" {
				return "compressed", nil
			}
			return "legacy", nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "legacy", nil
}
