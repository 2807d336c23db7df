package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/seqlab/sigcap-go/internal/cli/config"
	"github.com/seqlab/sigcap-go/internal/cli/connection"
	"github.com/seqlab/sigcap-go/internal/cli/output"
)

// RemoteCommand returns the remote subcommand group for managing
// saved server profiles.
func RemoteCommand() *cli.Command {
	return &cli.Command{
		Name:  "remote",
		Usage: "Manage saved server profiles",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Save a server profile",
				ArgsUsage: "NAME SERVER",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "ca-cert",
						Usage: "PEM file with extra trusted CA certificates",
					},
				},
				Action: remoteAdd,
			},
			{
				Name:   "list",
				Usage:  "List saved server profiles",
				Action: remoteList,
			},
			{
				Name:      "use",
				Usage:     "Select the active server profile",
				ArgsUsage: "NAME",
				Action:    remoteUse,
			},
			{
				Name:      "remove",
				Usage:     "Delete a saved server profile",
				ArgsUsage: "NAME",
				Action:    remoteRemove,
			},
		},
	}
}

func remoteManager(c *cli.Context) (*connection.Manager, error) {
	return connection.NewManager(c.String("config"))
}

func remoteAdd(c *cli.Context) error {
	name := c.Args().Get(0)
	server := c.Args().Get(1)
	if name == "" || server == "" {
		return fmt.Errorf("remote name and server address required")
	}

	mgr, err := remoteManager(c)
	if err != nil {
		return err
	}

	remote := config.RemoteConfig{
		Server: server,
		CACert: c.String("ca-cert"),
	}
	if err := mgr.Add(name, remote); err != nil {
		return err
	}

	fmt.Printf("Remote '%s' saved (%s).\n", name, server)
	return nil
}

func remoteList(c *cli.Context) error {
	mgr, err := remoteManager(c)
	if err != nil {
		return err
	}

	current := mgr.CurrentName()
	table := &output.Table{
		Headers: []string{"", "NAME", "SERVER", "CA CERT"},
	}
	for _, name := range mgr.Names() {
		remote, _ := mgr.Get(name)
		marker := ""
		if name == current {
			marker = "*"
		}
		table.Rows = append(table.Rows, []string{marker, name, remote.Server, remote.CACert})
	}
	return table.Render(os.Stdout)
}

func remoteUse(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("remote name required")
	}

	mgr, err := remoteManager(c)
	if err != nil {
		return err
	}
	if err := mgr.Use(name); err != nil {
		return err
	}

	fmt.Printf("Active remote is now '%s'.\n", name)
	return nil
}

func remoteRemove(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("remote name required")
	}

	mgr, err := remoteManager(c)
	if err != nil {
		return err
	}
	if err := mgr.Remove(name); err != nil {
		return err
	}

	fmt.Printf("Remote '%s' removed.\n", name)
	return nil
}
