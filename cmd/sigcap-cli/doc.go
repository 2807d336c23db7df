// Package main provides the entry point for sigcap-cli.
//
// The CLI tool works with capture files locally and talks to a
// sigcap-server for:
//
//   - Inspecting, converting and generating capture files
//   - Uploading, downloading and querying the loaded capture
//   - Archive management (list, store, get, restore, delete)
//   - Simulated capture generation on the server
//   - Remote server profiles with optional custom CA certificates
//
// Usage:
//
//	sigcap-cli [command] [flags]
//	sigcap-cli inspect capture.ols
//	sigcap-cli --server http://localhost:5180 archive list
//
// The CLI supports both single-command mode and interactive shell mode.
package main
