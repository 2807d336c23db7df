// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for sigcap-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Spool   SpoolSection   `koanf:"spool"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// RateLimit is the per-client request rate in requests per second.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the per-client burst allowance when rate limiting
	// is enabled.
	RateBurst int `koanf:"rate_burst"`
}

// StorageSection configures the capture archive.
type StorageSection struct {
	// DataDir is the directory holding the archive database.
	DataDir string `koanf:"data_dir"`

	// EncryptionKey seals archived captures when set. Hex-encoded,
	// at least 16 bytes after decoding.
	EncryptionKey string `koanf:"encryption_key"`

	// GCInterval is how often the archive value log is compacted.
	GCInterval time.Duration `koanf:"gc_interval"`

	// GCThreshold is the value-log rewrite ratio passed to the store.
	GCThreshold float64 `koanf:"gc_threshold"`

	// SyncWrites forces an fsync on every archive write.
	SyncWrites bool `koanf:"sync_writes"`
}

// SpoolSection configures directory ingestion of capture files.
type SpoolSection struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`

	// Archive stores every ingested capture in the archive in
	// addition to loading it into the container.
	Archive bool `koanf:"archive"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
