package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spaolacci/murmur3"

	"github.com/seqlab/sigcap-go/internal/core/domain"
	"github.com/seqlab/sigcap-go/internal/format/olsfile"
	"github.com/seqlab/sigcap-go/pkg/crypto/adaptive"
)

// Key layout inside Badger.
const (
	dataKeyPrefix = "cap:data:"
	infoKeyPrefix = "cap:info:"
)

// Info is the metadata stored next to each archived capture.
type Info struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Transitions  int       `json:"transitions"`
	SampleRate   int       `json:"sample_rate"`
	ChannelCount int       `json:"channel_count"`
	SizeBytes    int       `json:"size_bytes"`
	Fingerprint  uint64    `json:"fingerprint"`
	Encrypted    bool      `json:"encrypted"`
}

// Stats summarizes archive-wide state.
type Stats struct {
	Entries      int
	LSMSize      int64
	ValueLogSize int64
	LastGCTime   int64
	GCCycles     uint64
}

// Config configures the archive engine.
type Config struct {
	// Dir is the Badger data directory.
	Dir string

	// EncryptionKey seals capture payloads when non-empty. A 32-byte
	// working key is derived from it, so any length >= 16 is accepted.
	EncryptionKey []byte

	// GCInterval is the interval between value-log GC runs.
	// Default: 10m
	GCInterval time.Duration

	// GCThreshold is the value-log discard ratio (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// SyncWrites enables fsync after each write.
	SyncWrites bool
}

func (c *Config) withDefaults() Config {
	cfg := *c
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}
	if cfg.GCThreshold <= 0 || cfg.GCThreshold > 1 {
		cfg.GCThreshold = 0.5
	}
	return cfg
}

// Engine is the Badger-backed capture archive.
type Engine struct {
	db     *badger.DB
	cfg    Config
	cipher adaptive.Cipher
	logger *slog.Logger

	lastGCTime atomic.Int64
	gcCycles   atomic.Uint64

	metricEntries   prometheus.Gauge
	metricTotalSize prometheus.Gauge
	metricLastGC    prometheus.Gauge
	metricPuts      prometheus.Counter

	stopCh chan struct{}
	doneCh chan struct{}
}

// Open opens (or creates) the archive in cfg.Dir and starts the
// background GC loop.
func Open(cfg Config, logger *slog.Logger) (*Engine, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("storage: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	var cipher adaptive.Cipher
	if len(cfg.EncryptionKey) > 0 {
		key, err := deriveArchiveKey(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		cipher, err = adaptive.New(key)
		if err != nil {
			return nil, fmt.Errorf("storage: init cipher: %w", err)
		}
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{logger: logger}
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}

	e := &Engine{
		db:     db,
		cfg:    cfg,
		cipher: cipher,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go e.gcLoop()

	logger.Info("capture archive opened",
		"dir", cfg.Dir,
		"encrypted", cipher != nil,
		"gc_interval", cfg.GCInterval)

	return e, nil
}

// Put archives a capture document and returns its metadata. A new
// cap-{ulid} ID is assigned.
func (e *Engine) Put(ctx context.Context, doc *olsfile.Document) (Info, error) {
	if doc == nil || doc.Capture == nil {
		return Info{}, domain.ErrInvalidCapture.WithDetails("nothing to archive")
	}

	id, err := domain.GenerateCaptureID()
	if err != nil {
		return Info{}, err
	}

	var buf bytes.Buffer
	if err := olsfile.Write(&buf, doc); err != nil {
		return Info{}, err
	}
	payload := buf.Bytes()

	info := Info{
		ID:           id,
		CreatedAt:    time.Now().UTC(),
		Transitions:  doc.Capture.Transitions(),
		SampleRate:   doc.Capture.SampleRate(),
		ChannelCount: doc.Capture.ChannelCount(),
		SizeBytes:    len(payload),
		Fingerprint:  murmur3.Sum64(payload),
		Encrypted:    e.cipher != nil,
	}

	if e.cipher != nil {
		payload, err = e.cipher.Encrypt(payload, []byte(id))
		if err != nil {
			return Info{}, fmt.Errorf("storage: seal capture: %w", err)
		}
	}

	infoJSON, err := json.Marshal(info)
	if err != nil {
		return Info{}, fmt.Errorf("storage: encode info: %w", err)
	}

	err = e.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(dataKeyPrefix+id), payload); err != nil {
			return err
		}
		return txn.Set([]byte(infoKeyPrefix+id), infoJSON)
	})
	if err != nil {
		return Info{}, fmt.Errorf("storage: store capture: %w", err)
	}

	if e.metricPuts != nil {
		e.metricPuts.Inc()
	}
	e.logger.Info("capture archived",
		"id", id,
		"transitions", info.Transitions,
		"size_bytes", info.SizeBytes)

	return info, nil
}

// Get loads an archived capture, verifying its fingerprint.
func (e *Engine) Get(ctx context.Context, id string) (*olsfile.Document, Info, error) {
	if err := domain.ValidateCaptureID(id); err != nil {
		return nil, Info{}, err
	}

	info, err := e.Info(ctx, id)
	if err != nil {
		return nil, Info{}, err
	}

	var payload []byte
	err = e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(dataKeyPrefix + id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrArchiveNotFound.WithDetails(id)
			}
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, Info{}, err
	}

	if info.Encrypted {
		if e.cipher == nil {
			return nil, Info{}, domain.ErrArchiveCorrupt.WithDetails(
				"entry is encrypted but no key is configured")
		}
		payload, err = e.cipher.Decrypt(payload, []byte(id))
		if err != nil {
			return nil, Info{}, domain.ErrArchiveCorrupt.WithCause(err)
		}
	}

	if murmur3.Sum64(payload) != info.Fingerprint {
		return nil, Info{}, domain.ErrArchiveCorrupt.WithDetails(
			fmt.Sprintf("fingerprint mismatch for %s", id))
	}

	doc, err := olsfile.Read(bytes.NewReader(payload))
	if err != nil {
		return nil, Info{}, domain.ErrArchiveCorrupt.WithCause(err)
	}
	return doc, info, nil
}

// Info loads only the metadata of an archived capture.
func (e *Engine) Info(ctx context.Context, id string) (Info, error) {
	if err := domain.ValidateCaptureID(id); err != nil {
		return Info{}, err
	}

	var info Info
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(infoKeyPrefix + id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrArchiveNotFound.WithDetails(id)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &info)
		})
	})
	if err != nil {
		return Info{}, err
	}
	return info, nil
}

// List returns metadata for every archived capture, ordered by ID
// (ULIDs sort by creation time).
func (e *Engine) List(ctx context.Context) ([]Info, error) {
	var infos []Info
	err := e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(infoKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var info Info
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &info)
			})
			if err != nil {
				return err
			}
			infos = append(infos, info)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list captures: %w", err)
	}
	return infos, nil
}

// Delete removes an archived capture and its metadata.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if err := domain.ValidateCaptureID(id); err != nil {
		return err
	}

	// Existence check first so a delete of a missing entry fails.
	if _, err := e.Info(ctx, id); err != nil {
		return err
	}

	err := e.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(dataKeyPrefix + id)); err != nil {
			return err
		}
		return txn.Delete([]byte(infoKeyPrefix + id))
	})
	if err != nil {
		return fmt.Errorf("storage: delete capture: %w", err)
	}

	e.logger.Info("capture deleted", "id", id)
	return nil
}

// Stats returns archive statistics.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	entries := 0
	err := e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(infoKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			entries++
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	lsm, vlog := e.db.Size()
	return Stats{
		Entries:      entries,
		LSMSize:      lsm,
		ValueLogSize: vlog,
		LastGCTime:   e.lastGCTime.Load(),
		GCCycles:     e.gcCycles.Load(),
	}, nil
}

// GC runs value-log garbage collection until nothing more can be
// reclaimed.
func (e *Engine) GC(ctx context.Context) error {
	start := time.Now()
	cycles := 0
	for {
		err := e.db.RunValueLogGC(e.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return fmt.Errorf("storage: gc: %w", err)
		}
		cycles++
		// Badger does not report reclaimed bytes, so count rewrite
		// cycles instead.
		e.gcCycles.Add(1)
	}

	e.lastGCTime.Store(time.Now().UnixMilli())
	if cycles > 0 {
		e.logger.Info("archive gc completed",
			"cycles", cycles,
			"elapsed", time.Since(start))
	}
	return nil
}

// Close stops the GC loop and closes the database.
func (e *Engine) Close() error {
	close(e.stopCh)
	<-e.doneCh

	if err := e.db.Close(); err != nil {
		return fmt.Errorf("storage: close db: %w", err)
	}
	e.logger.Info("capture archive closed")
	return nil
}

func (e *Engine) gcLoop() {
	defer close(e.doneCh)

	ticker := time.NewTicker(e.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if err := e.GC(ctx); err != nil {
				e.logger.Error("auto gc failed", "error", err)
			}
			cancel()
		case <-e.stopCh:
			return
		}
	}
}

// deriveArchiveKey stretches the configured key into the 32-byte
// working key the cipher needs.
func deriveArchiveKey(master []byte) ([]byte, error) {
	key, err := adaptive.DeriveSubkey(master, "sigcap/archive", 32)
	if err != nil {
		return nil, fmt.Errorf("storage: derive key: %w", err)
	}
	return key, nil
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
