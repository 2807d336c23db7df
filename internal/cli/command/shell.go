package command

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/seqlab/sigcap-go/internal/cli/repl"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:    "shell",
		Aliases: []string{"repl"},
		Usage:   "Start an interactive shell",
		Action:  runShell,
	}
}

func runShell(c *cli.Context) error {
	// Re-enter the app for each line so shell commands behave
	// exactly like single invocations. Global flags from the shell
	// invocation are passed through.
	passthrough := []string{os.Args[0]}
	for _, flag := range []string{"server", "ca-cert", "config", "output"} {
		if v := c.String(flag); v != "" {
			passthrough = append(passthrough, "--"+flag, v)
		}
	}

	r := repl.New(func(args []string) error {
		full := make([]string, 0, len(passthrough)+len(args))
		full = append(full, passthrough...)
		full = append(full, args...)
		return c.App.Run(full)
	})
	return r.Run()
}
