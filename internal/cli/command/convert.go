package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/seqlab/sigcap-go/internal/format/olsfile"
)

// ConvertCommand returns the convert command.
func ConvertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Rewrite a capture file in the compressed transition layout",
		ArgsUsage: "INPUT OUTPUT",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite the output file if it exists",
			},
		},
		Action: convertFile,
	}
}

func convertFile(c *cli.Context) error {
	input := c.Args().Get(0)
	outputPath := c.Args().Get(1)
	if input == "" || outputPath == "" {
		return fmt.Errorf("input and output files required")
	}

	if !c.Bool("force") {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("output %s exists, use --force to overwrite", outputPath)
		}
	}

	doc, layout, err := readCaptureFile(input)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer out.Close()

	if err := olsfile.Write(out, doc); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", outputPath, err)
	}

	fmt.Printf("Converted %s (%s) -> %s (compressed)\n", input, layout, outputPath)
	fmt.Printf("  Transitions:     %d\n", doc.Capture.Transitions())
	fmt.Printf("  Absolute length: %d samples\n", doc.Capture.AbsoluteLength())
	return nil
}
