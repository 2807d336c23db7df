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

// ArchiveCommand returns the archive subcommand group.
func ArchiveCommand() *cli.Command {
	return &cli.Command{
		Name:    "archive",
		Aliases: []string{"arc"},
		Usage:   "Manage archived captures on the server",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List archived captures",
				Action: archiveList,
			},
			{
				Name:   "store",
				Usage:  "Archive the server's current capture",
				Action: archiveStore,
			},
			{
				Name:      "get",
				Usage:     "Show metadata of an archived capture",
				ArgsUsage: "CAPTURE_ID",
				Action:    archiveGet,
			},
			{
				Name:      "restore",
				Usage:     "Restore an archived capture as current",
				ArgsUsage: "CAPTURE_ID",
				Action:    archiveRestore,
			},
			{
				Name:      "delete",
				Usage:     "Delete an archived capture",
				ArgsUsage: "CAPTURE_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: archiveDelete,
			},
		},
	}
}

// archiveEntry mirrors the server's archive metadata payload.
type archiveEntry struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Transitions  int       `json:"transitions"`
	SampleRate   int       `json:"sample_rate"`
	ChannelCount int       `json:"channel_count"`
	SizeBytes    int       `json:"size_bytes"`
	Encrypted    bool      `json:"encrypted" table:"wide"`
}

func archiveList(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/archive")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Items []archiveEntry `json:"items"`
		Total int            `json:"total"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, result.Items)
	default:
		table := &output.Table{
			Headers: []string{"CAPTURE ID", "CREATED", "TRANSITIONS", "RATE", "CHANNELS", "SIZE"},
		}
		for _, entry := range result.Items {
			table.Rows = append(table.Rows, []string{
				truncateID(entry.ID),
				entry.CreatedAt.Format("2006-01-02 15:04"),
				fmt.Sprintf("%d", entry.Transitions),
				fmt.Sprintf("%d", entry.SampleRate),
				fmt.Sprintf("%d", entry.ChannelCount),
				fmt.Sprintf("%d B", entry.SizeBytes),
			})
		}
		if err := table.Render(os.Stdout); err != nil {
			return err
		}
		fmt.Printf("\nTotal: %d captures\n", result.Total)
		return nil
	}
}

func archiveStore(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	resp, err := client.Post(ctx, "/archive", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Printf("Capture archived as %s\n", result.ID)
	return nil
}

func archiveGet(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("capture ID required")
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/archive/"+id)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var entry archiveEntry
	if err := connection.ParseResponse(resp, &entry); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
	return formatter.Format(os.Stdout, entry)
}

func archiveRestore(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("capture ID required")
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	resp, err := client.Post(ctx, "/archive/"+id+"/restore", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Printf("Capture %s restored as current.\n", id)
	return nil
}

func archiveDelete(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("capture ID required")
	}

	if !c.Bool("force") {
		fmt.Printf("Are you sure you want to delete capture '%s'? [y/N]: ", id)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Delete(ctx, "/archive/"+id)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Printf("Capture %s deleted.\n", id)
	return nil
}
