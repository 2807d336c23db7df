package storage

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/seqlab/sigcap-go/internal/core/domain"
	"github.com/seqlab/sigcap-go/internal/format/olsfile"
)

func testEngine(t *testing.T, key []byte) *Engine {
	t.Helper()
	e, err := Open(Config{
		Dir:           t.TempDir(),
		EncryptionKey: key,
		GCInterval:    time.Hour,
	}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := e.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return e
}

func testDocument(t *testing.T) *olsfile.Document {
	t.Helper()
	capture, err := domain.NewCapture(
		[]uint32{0xff, 0x01, 0xff}, []int64{0, 4, 9},
		1, 1_000_000, 8, 0xff, 12,
	)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	doc := olsfile.NewDocument(capture)
	doc.CursorsEnabled = true
	doc.CursorPositions[0] = 2
	return doc
}

func TestEngine_PutGet(t *testing.T) {
	e := testEngine(t, nil)
	ctx := context.Background()

	info, err := e.Put(ctx, testDocument(t))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := domain.ValidateCaptureID(info.ID); err != nil {
		t.Fatalf("Put assigned invalid ID %q: %v", info.ID, err)
	}
	if info.Transitions != 3 {
		t.Errorf("info.Transitions = %d, want 3", info.Transitions)
	}
	if info.Encrypted {
		t.Error("info.Encrypted = true without a key")
	}

	doc, got, err := e.Get(ctx, info.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != info.ID {
		t.Errorf("Get info.ID = %q, want %q", got.ID, info.ID)
	}
	if doc.Capture.Transitions() != 3 {
		t.Errorf("Transitions = %d, want 3", doc.Capture.Transitions())
	}
	if doc.Capture.TriggerIndex() != 1 {
		t.Errorf("TriggerIndex = %d, want 1", doc.Capture.TriggerIndex())
	}
	if doc.CursorPositions[0] != 2 {
		t.Errorf("cursor 0 = %d, want 2", doc.CursorPositions[0])
	}
	if !doc.CursorsEnabled {
		t.Error("CursorsEnabled = false, want true")
	}
}

func TestEngine_GetMissing(t *testing.T) {
	e := testEngine(t, nil)

	id, err := domain.GenerateCaptureID()
	if err != nil {
		t.Fatalf("GenerateCaptureID: %v", err)
	}
	_, _, err = e.Get(context.Background(), id)
	if !domain.IsDomainError(err, domain.ErrArchiveNotFound.Code) {
		t.Fatalf("Get err = %v, want %v", err, domain.ErrArchiveNotFound)
	}
}

func TestEngine_GetBadID(t *testing.T) {
	e := testEngine(t, nil)

	_, _, err := e.Get(context.Background(), "not-a-capture-id")
	if !domain.IsDomainError(err, domain.ErrInvalidCaptureID.Code) {
		t.Fatalf("Get err = %v, want %v", err, domain.ErrInvalidCaptureID)
	}
}

func TestEngine_Encrypted(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	e := testEngine(t, key)
	ctx := context.Background()

	info, err := e.Put(ctx, testDocument(t))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !info.Encrypted {
		t.Fatal("info.Encrypted = false with a key configured")
	}

	doc, _, err := e.Get(ctx, info.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Capture.Transitions() != 3 {
		t.Fatalf("Transitions = %d, want 3", doc.Capture.Transitions())
	}

	// The stored payload must not be the plaintext file.
	var stored []byte
	err = e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(dataKeyPrefix + info.ID))
		if err != nil {
			return err
		}
		stored, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		t.Fatalf("read raw payload: %v", err)
	}
	if len(stored) > 0 && stored[0] == ';' {
		t.Error("stored payload begins with plaintext header")
	}
}

func TestEngine_TamperDetected(t *testing.T) {
	e := testEngine(t, nil)
	ctx := context.Background()

	info, err := e.Put(ctx, testDocument(t))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Flip the payload under the engine.
	err = e.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(dataKeyPrefix+info.ID), []byte(";Size: 0\n"))
	})
	if err != nil {
		t.Fatalf("tamper: %v", err)
	}

	_, _, err = e.Get(ctx, info.ID)
	if !domain.IsDomainError(err, domain.ErrArchiveCorrupt.Code) {
		t.Fatalf("Get err = %v, want %v", err, domain.ErrArchiveCorrupt)
	}
}

func TestEngine_ListDelete(t *testing.T) {
	e := testEngine(t, nil)
	ctx := context.Background()

	first, err := e.Put(ctx, testDocument(t))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	time.Sleep(2 * time.Millisecond) // ULIDs are only ordered across milliseconds
	second, err := e.Put(ctx, testDocument(t))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	infos, err := e.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len(List) = %d, want 2", len(infos))
	}
	// ULIDs order by creation time.
	if infos[0].ID != first.ID || infos[1].ID != second.ID {
		t.Errorf("List order = [%s, %s], want [%s, %s]",
			infos[0].ID, infos[1].ID, first.ID, second.ID)
	}

	if err := e.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := e.Get(ctx, first.ID); !domain.IsDomainError(err, domain.ErrArchiveNotFound.Code) {
		t.Fatalf("Get after Delete err = %v, want %v", err, domain.ErrArchiveNotFound)
	}

	err = e.Delete(ctx, first.ID)
	if !domain.IsDomainError(err, domain.ErrArchiveNotFound.Code) {
		t.Fatalf("second Delete err = %v, want %v", err, domain.ErrArchiveNotFound)
	}

	stats, err := e.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 1 {
		t.Fatalf("Stats.Entries = %d, want 1", stats.Entries)
	}
}

func TestEngine_GCStats(t *testing.T) {
	e := testEngine(t, nil)
	ctx := context.Background()

	if err := e.GC(ctx); err != nil {
		t.Fatalf("GC: %v", err)
	}

	stats, err := e.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	// A fresh value log has nothing to rewrite, so no cycle may be
	// counted. The counter tracks actual rewrites, nothing else.
	if stats.GCCycles != 0 {
		t.Fatalf("Stats.GCCycles = %d, want 0", stats.GCCycles)
	}
	if stats.LastGCTime <= 0 {
		t.Fatalf("Stats.LastGCTime = %d, want > 0", stats.LastGCTime)
	}
}
