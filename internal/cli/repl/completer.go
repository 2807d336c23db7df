package repl

import "strings"

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			"capture", "capture info", "capture upload", "capture download", "capture data",
			"archive", "archive list", "archive store", "archive get", "archive restore", "archive delete",
			"cursor", "cursor list", "cursor set", "cursor clear",
			"label", "label get", "label set",
			"simulate",
			"status",
			"remote", "remote add", "remote list", "remote use", "remote remove",
			"help", "exit", "quit",
		},
	}
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
