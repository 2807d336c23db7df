// Package tlsroots provides TLS certificate management for sigcap
// clients and the server.
//
// This package handles TLS certificate loading and management:
//
//   - roots.go: System certificates + custom CA loading
//   - watcher.go: Certificate hot-reload via fsnotify
//
// The CLI builds its client trust pool here when a remote profile
// carries a custom CA; the server serves its key pair through the
// watcher so certificate rotation needs no restart.
package tlsroots
