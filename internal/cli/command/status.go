package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/seqlab/sigcap-go/internal/cli/connection"
	"github.com/seqlab/sigcap-go/internal/cli/output"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Check server health and capture state",
		Action: serverStatus,
	}
}

func serverStatus(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/health")
	if err != nil {
		PrintError("health check failed: %v", err)
		return fmt.Errorf("server unreachable")
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := connection.ParseResponse(resp, &health); err != nil {
		return err
	}

	resp, err = client.Get(ctx, "/ready")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var ready struct {
		Status  string `json:"status"`
		Capture bool   `json:"capture"`
	}
	if err := connection.ParseResponse(resp, &ready); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, map[string]any{
			"status":  health.Status,
			"ready":   ready.Status,
			"capture": ready.Capture,
		})
	default:
		if health.Status == "healthy" {
			fmt.Printf("✓ Server is healthy\n")
		} else {
			fmt.Printf("✗ Server is unhealthy: %s\n", health.Status)
		}
		fmt.Printf("  Target:  %s\n", client.BaseURL())
		if ready.Capture {
			fmt.Printf("  Capture: loaded\n")
		} else {
			fmt.Printf("  Capture: none\n")
		}
		return nil
	}
}
