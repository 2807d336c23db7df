// Package logger provides structured logging for sigcap.
//
// This package wraps log/slog for structured logging:
//
//   - logger.go: handler configuration and the package-level default
//   - context.go: context-aware logging with request IDs
//   - redact.go: sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Dynamic log level adjustment
//   - Automatic masking of key material in log attributes
//   - Context propagation for request tracing
package logger
