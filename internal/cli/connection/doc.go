// Package connection provides HTTP connectivity for sigcap-cli.
//
// It contains:
//
//   - http.go: JSON and raw-body HTTP client for the sigcap server,
//     including envelope parsing
//   - manager.go: named remote profiles persisted in the CLI config
//
// TLS connections can trust a custom CA via the tlsroots package.
package connection
