package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/seqlab/sigcap-go/internal/core/domain"
	"github.com/seqlab/sigcap-go/internal/format/olsfile"
	"github.com/seqlab/sigcap-go/internal/storage"
	"github.com/seqlab/sigcap-go/internal/telemetry/metric"
)

// spoolExt is the file extension the spool ingests.
const spoolExt = ".ols"

// Spool watches a directory and loads every capture file dropped into
// it. A parsed file replaces the container's current capture; when an
// archive is attached the document is archived as well. Files that
// fail to parse are logged and skipped.
type Spool struct {
	dir       string
	container *domain.Container
	archive   *storage.Engine
	logger    *slog.Logger
	metrics   *metric.Registry

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	mu       sync.Mutex
	ingested map[string]int64 // path -> size at last successful ingest
}

// SpoolOption configures a Spool.
type SpoolOption func(*Spool)

// WithArchive attaches an archive; every ingested capture is stored.
func WithArchive(archive *storage.Engine) SpoolOption {
	return func(s *Spool) {
		s.archive = archive
	}
}

// WithSpoolMetrics counts ingested files and loaded captures.
func WithSpoolMetrics(reg *metric.Registry) SpoolOption {
	return func(s *Spool) {
		s.metrics = reg
	}
}

// WithSpoolLogger sets the logger.
func WithSpoolLogger(logger *slog.Logger) SpoolOption {
	return func(s *Spool) {
		s.logger = logger
	}
}

// NewSpool creates a spool watcher on dir. Call Start to begin
// ingesting.
func NewSpool(dir string, container *domain.Container, opts ...SpoolOption) (*Spool, error) {
	if dir == "" {
		return nil, fmt.Errorf("acquire: spool dir is required")
	}
	if container == nil {
		return nil, fmt.Errorf("acquire: container is required")
	}

	s := &Spool{
		dir:       dir,
		container: container,
		logger:    slog.Default(),
		done:      make(chan struct{}),
		ingested:  make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start begins watching the spool directory. Files already present
// are ingested first, oldest name first.
func (s *Spool) Start() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("acquire: create spool dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("acquire: start watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return fmt.Errorf("acquire: watch %s: %w", s.dir, err)
	}
	s.watcher = w

	s.ingestExisting()

	s.wg.Add(1)
	go s.loop()

	s.logger.Info("spool watcher started", "dir", s.dir)
	return nil
}

// Stop shuts the watcher down and waits for the event loop.
func (s *Spool) Stop() error {
	close(s.done)
	err := s.watcher.Close()
	s.wg.Wait()
	s.logger.Info("spool watcher stopped")
	return err
}

func (s *Spool) loop() {
	defer s.wg.Done()

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				s.maybeIngest(event.Name)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("spool watcher error", "error", err)
		case <-s.done:
			return
		}
	}
}

func (s *Spool) ingestExisting() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Error("spool scan failed", "dir", s.dir, "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		s.maybeIngest(filepath.Join(s.dir, entry.Name()))
	}
}

// maybeIngest loads one spool file unless it was already ingested at
// its current size. Write events fire repeatedly while a producer is
// still writing; a parse failure now may be a complete file on the
// next event.
func (s *Spool) maybeIngest(path string) {
	if !strings.EqualFold(filepath.Ext(path), spoolExt) {
		return
	}
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return
	}

	s.mu.Lock()
	if size, ok := s.ingested[path]; ok && size == fi.Size() {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err := s.ingest(path); err != nil {
		s.logger.Warn("spool file skipped", "path", path, "error", err)
		return
	}

	s.mu.Lock()
	s.ingested[path] = fi.Size()
	s.mu.Unlock()
}

func (s *Spool) ingest(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := olsfile.Read(f)
	if err != nil {
		return err
	}

	s.container.SetCapture(doc.Capture)
	s.container.SetCursorPositions(doc.CursorPositions)
	s.container.SetCursorsEnabled(doc.CursorsEnabled)

	if s.archive != nil {
		info, err := s.archive.Put(context.Background(), doc)
		if err != nil {
			return fmt.Errorf("archive spool file: %w", err)
		}
		s.logger.Info("spool capture archived", "path", path, "id", info.ID)
	}

	if s.metrics != nil {
		s.metrics.SpoolIngested.Inc()
		s.metrics.CapturesLoaded.Inc()
	}

	s.logger.Info("spool capture loaded",
		"path", path,
		"transitions", doc.Capture.Transitions())
	return nil
}
