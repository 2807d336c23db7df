// Package main provides the entry point for sigcap-server.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/seqlab/sigcap-go/internal/acquire"
	"github.com/seqlab/sigcap-go/internal/core/domain"
	"github.com/seqlab/sigcap-go/internal/infra/buildinfo"
	"github.com/seqlab/sigcap-go/internal/infra/confloader"
	"github.com/seqlab/sigcap-go/internal/infra/shutdown"
	"github.com/seqlab/sigcap-go/internal/infra/tlsroots"
	"github.com/seqlab/sigcap-go/internal/server/config"
	"github.com/seqlab/sigcap-go/internal/server/httpserver"
	"github.com/seqlab/sigcap-go/internal/storage"
	"github.com/seqlab/sigcap-go/internal/telemetry/logger"
	"github.com/seqlab/sigcap-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("sigcap-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, slogLogger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting sigcap-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	container := domain.NewContainer()

	registry := metric.NewRegistry()
	registry.Prometheus().MustRegister(metric.NewContainerCollector(container))

	archive, err := initArchive(cfg, slogLogger)
	if err != nil {
		return fmt.Errorf("init archive: %w", err)
	}
	archive.RegisterMetrics(registry.Prometheus())

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Container: container,
		Archive:   archive,
		Metrics:   registry,
		Logger:    slogLogger,
		RateLimit: cfg.Server.HTTP.RateLimit,
		RateBurst: cfg.Server.HTTP.RateBurst,
	})
	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	useTLS := cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != ""

	var certWatcher *tlsroots.Watcher
	if useTLS {
		certWatcher, err = tlsroots.NewWatcher(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile,
			tlsroots.WithLogger(slogLogger))
		if err != nil {
			return fmt.Errorf("load TLS certificate: %w", err)
		}
		certWatcher.StartAsync()
		httpServer.SetTLSConfig(&tls.Config{
			GetCertificate: certWatcher.GetCertificate,
			MinVersion:     tls.VersionTLS12,
		})
	}

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Shutdown hooks run in reverse order of startup.
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	if cfg.Spool.Enabled {
		spool, err := initSpool(cfg, container, archive, registry, slogLogger)
		if err != nil {
			return fmt.Errorf("init spool: %w", err)
		}
		if err := spool.Start(); err != nil {
			return fmt.Errorf("start spool: %w", err)
		}
		log.Info("spool ingestion enabled", "dir", cfg.Spool.Dir)

		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down spool")
			return spool.Stop()
		})
	}

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down archive")
		return archive.Close()
	})

	if certWatcher != nil {
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			certWatcher.Stop()
			return nil
		})
	}

	if *configFile != "" {
		confWatcher, err := watchConfig(*configFile, log)
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			return confWatcher.Stop()
		})
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)

		var err error
		if useTLS {
			// Certificates come from the watcher via GetCertificate.
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)

	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger.
// Returns both the logger interface and slog.Logger for components that need it.
func initLogger(cfg *config.ServerConfig) (logger.Logger, *slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, nil, err
	}

	logger.SetDefault(log)

	return log, slog.Default(), nil
}

// watchConfig reloads the log level when the config file changes.
// Other settings require a restart.
func watchConfig(configFile string, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(slog.Default()))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(path)
		if err != nil {
			log.Error("config reload failed", "file", path, "error", err)
			return
		}
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level reloaded", "level", cfg.Log.Level)
	})
	watcher.StartAsync()

	return watcher, nil
}

// initArchive opens the Badger-backed capture archive.
func initArchive(cfg *config.ServerConfig, log *slog.Logger) (*storage.Engine, error) {
	key, err := cfg.Storage.EncryptionKeyBytes()
	if err != nil {
		return nil, err
	}

	return storage.Open(storage.Config{
		Dir:           cfg.Storage.DataDir,
		EncryptionKey: key,
		GCInterval:    cfg.Storage.GCInterval,
		GCThreshold:   cfg.Storage.GCThreshold,
		SyncWrites:    cfg.Storage.SyncWrites,
	}, log)
}

// initSpool creates the spool watcher over the configured directory.
func initSpool(cfg *config.ServerConfig, container *domain.Container, archive *storage.Engine, registry *metric.Registry, log *slog.Logger) (*acquire.Spool, error) {
	opts := []acquire.SpoolOption{
		acquire.WithSpoolLogger(log),
		acquire.WithSpoolMetrics(registry),
	}
	if cfg.Spool.Archive {
		opts = append(opts, acquire.WithArchive(archive))
	}
	return acquire.NewSpool(cfg.Spool.Dir, container, opts...)
}
