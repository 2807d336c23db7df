// Package command provides CLI command definitions for sigcap-cli.
//
// It uses urfave/cli/v2 for command parsing. Local commands (inspect,
// convert, generate) work on capture files directly; remote commands
// (capture, archive, status, simulate) talk to a sigcap server over
// its HTTP API. The shell command runs the same commands in an
// interactive REPL.
package command
