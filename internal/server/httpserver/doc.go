// Package httpserver provides the HTTP/HTTPS server for sigcap.
//
// This package implements the HTTP transport layer:
//
//   - server.go: http.Server lifecycle wrapper
//   - router.go: route table and middleware wiring
//   - middleware.go: request ID, panic recovery, rate limiting,
//     request logging and metrics
//
// Request handlers live in the handler subpackage.
package httpserver
