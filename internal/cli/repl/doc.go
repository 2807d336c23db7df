// Package repl provides interactive mode for sigcap-cli.
//
// This package implements the Read-Eval-Print Loop for interactive sessions:
//
//   - repl.go: Main REPL loop and command dispatch
//   - completer.go: Tab completion for commands
//   - history.go: Command history persistence
package repl
