// Package handler provides HTTP request handlers for sigcap.
//
// This package contains handlers for all HTTP endpoints:
//
//   - capture.go: current capture metadata, upload, download, data windows
//   - channels.go: channel labels and annotations
//   - cursors.go: cursor table operations
//   - archive.go: capture archive CRUD and restore
//   - acquire.go: simulated acquisition
//   - health.go: health and readiness checks
//
// All handlers follow a consistent pattern:
//
//   - Parse and validate request
//   - Call domain operation
//   - Format and return response
//   - Handle errors with appropriate HTTP status codes
package handler
