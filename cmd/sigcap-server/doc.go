// Package main provides the entry point for sigcap-server.
//
// The server hosts a single waveform container behind an HTTP API:
//
//   - Capture upload, download and windowed data queries
//   - Channel labels, annotations and cursor management
//   - A Badger-backed capture archive with store/restore/delete
//   - Simulated capture generation for testing pipelines
//   - Optional spool directory ingestion of dropped capture files
//
// Usage:
//
//	sigcap-server [flags]
//	sigcap-server --config /path/to/config.yaml
//
// The server loads configuration, initializes the archive and metrics,
// and serves until interrupted.
package main
