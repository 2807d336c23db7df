// Package config provides CLI configuration for sigcap-cli.
//
// This package defines CLI-specific configuration:
//
//   - spec.go: CLIConfig struct (~/.sigcap/cli.yaml)
//   - loader.go: Configuration loading and saving
//
// Configuration includes:
//
//   - Saved remote server profiles
//   - The active remote
//   - Output format preference
package config
