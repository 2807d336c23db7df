package config

// DefaultServer is the server address used when no remote is
// configured.
const DefaultServer = "http://localhost:5180"

// CLIConfig is the configuration for sigcap-cli.
type CLIConfig struct {
	// DefaultOutput is the preferred output format: table, json or yaml.
	DefaultOutput string `yaml:"default_output"`

	// Remotes holds saved server profiles keyed by name.
	Remotes map[string]RemoteConfig `yaml:"remotes"`

	// CurrentRemote names the active profile in Remotes.
	CurrentRemote string `yaml:"current_remote"`
}

// RemoteConfig stores a saved server profile.
type RemoteConfig struct {
	Server string `yaml:"server"`

	// CACert is an optional PEM file with extra trusted CA
	// certificates for this remote.
	CACert string `yaml:"ca_cert,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultOutput: "table",
		Remotes:       make(map[string]RemoteConfig),
	}
}
