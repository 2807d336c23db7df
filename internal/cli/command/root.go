package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/seqlab/sigcap-go/internal/cli/connection"
	"github.com/seqlab/sigcap-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "sigcap-cli",
		Usage:   "Logic analyzer capture file tool and server client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			InspectCommand(),
			ConvertCommand(),
			GenerateCommand(),
			CaptureCommand(),
			ArchiveCommand(),
			SimulateCommand(),
			StatusCommand(),
			RemoteCommand(),
			ShellCommand(),
		},
	}
	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "sigcap server address (e.g., localhost:5180)",
			EnvVars: []string{"SIGCAP_SERVER"},
		},
		&cli.StringFlag{
			Name:  "ca-cert",
			Usage: "PEM file with extra trusted CA certificates",
			EnvVars: []string{"SIGCAP_CA_CERT"},
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "CLI config file path (default ~/.sigcap/cli.yaml)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server  string
	CACert  string
	Config  string
	Output  string // table, json, yaml
	Wide    bool
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server:  c.String("server"),
		CACert:  c.String("ca-cert"),
		Config:  c.String("config"),
		Output:  c.String("output"),
		Wide:    c.Bool("wide"),
		Verbose: c.Bool("verbose"),
	}
}

// EnsureConnected builds the HTTP client for the target server. An
// explicit --server flag wins over the saved remote profile.
func EnsureConnected(c *cli.Context) (*connection.HTTPClient, error) {
	flags := ParseGlobalFlags(c)

	if flags.Server != "" {
		if flags.CACert != "" {
			return connection.NewHTTPClientWithCA(flags.Server, flags.CACert)
		}
		return connection.NewHTTPClient(flags.Server), nil
	}

	mgr, err := connection.NewManager(flags.Config)
	if err != nil {
		return nil, err
	}
	return mgr.Client()
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

// truncateID truncates long IDs for display.
func truncateID(id string) string {
	if len(id) <= 36 {
		return id
	}
	return id[:33] + "..."
}
