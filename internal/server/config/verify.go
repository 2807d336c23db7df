// Package config defines the server configuration structure.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
)

// minEncryptionKeyBytes matches the archive cipher's minimum.
const minEncryptionKeyBytes = 16

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifySpool(&cfg.Spool)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
			return fmt.Errorf("server.http.addr %q is not host:port: %w", cfg.HTTP.Addr, err)
		}
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must both be set")
	}
	if cfg.HTTP.RateLimit < 0 {
		return errors.New("server.http.rate_limit must not be negative")
	}
	if cfg.HTTP.RateLimit > 0 && cfg.HTTP.RateBurst < 1 {
		return errors.New("server.http.rate_burst must be at least 1 when rate limiting is on")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}

	// Check if data directory exists or can be created
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return errors.New("cannot create data directory: " + err.Error())
	}

	if cfg.EncryptionKey != "" {
		key, err := hex.DecodeString(cfg.EncryptionKey)
		if err != nil {
			return errors.New("storage.encryption_key must be hex encoded")
		}
		if len(key) < minEncryptionKeyBytes {
			return fmt.Errorf("storage.encryption_key must decode to at least %d bytes", minEncryptionKeyBytes)
		}
	}

	if cfg.GCInterval < 0 {
		return errors.New("storage.gc_interval must not be negative")
	}
	if cfg.GCThreshold < 0 || cfg.GCThreshold >= 1 {
		return errors.New("storage.gc_threshold must be in [0, 1)")
	}

	return nil
}

func verifySpool(cfg *SpoolSection) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return errors.New("spool.dir is required when spool.enabled is set")
	}
	return nil
}

// EncryptionKeyBytes decodes the configured archive key. Returns nil
// when no key is configured.
func (s *StorageSection) EncryptionKeyBytes() ([]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil
	}
	return hex.DecodeString(s.EncryptionKey)
}
