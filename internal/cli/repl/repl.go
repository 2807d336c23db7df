package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Runner executes one parsed command line. The argument slice is the
// whitespace-split command and its arguments.
type Runner func(args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	completer *Completer
	history   *History
	runner    Runner
}

// New creates a new REPL instance that dispatches commands to run.
func New(run Runner) *REPL {
	return &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		completer: NewCompleter(),
		history:   NewHistory(),
		runner:    run,
	}
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, "sigcap> ")

		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.history.Add(line)

		if line == "exit" || line == "quit" {
			return nil
		}
		if line == "help" {
			r.printHelp()
			continue
		}

		if err := r.execute(line); err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}

func (r *REPL) execute(line string) error {
	if r.runner == nil {
		return fmt.Errorf("unknown command: %s", line)
	}
	return r.runner(strings.Fields(line))
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.output, "Available commands:")
	for _, cmd := range r.completer.commands {
		fmt.Fprintf(r.output, "  %s\n", cmd)
	}
}
