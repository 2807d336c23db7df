// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr  = "127.0.0.1:5180"
	DefaultRateLimit = 50.0
	DefaultRateBurst = 100

	DefaultDataDir     = "/var/lib/sigcap-server/data"
	DefaultGCInterval  = 10 * time.Minute
	DefaultGCThreshold = 0.5

	DefaultSpoolDir = "/var/lib/sigcap-server/spool"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:      DefaultHTTPAddr,
				RateLimit: DefaultRateLimit,
				RateBurst: DefaultRateBurst,
			},
		},
		Storage: StorageSection{
			DataDir:     DefaultDataDir,
			GCInterval:  DefaultGCInterval,
			GCThreshold: DefaultGCThreshold,
		},
		Spool: SpoolSection{
			Enabled: false,
			Dir:     DefaultSpoolDir,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
