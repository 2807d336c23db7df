package domain

import (
	"testing"
)

func testCapture(t *testing.T, trigger int) *Capture {
	t.Helper()
	c, err := NewCapture([]uint32{1, 2, 3, 4}, []int64{0, 5, 12, 20}, trigger, 1000, 8, 0xff, 25)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	return c
}

func TestContainer_CursorBounds(t *testing.T) {
	c := NewContainer()

	for _, idx := range []int{-1, MaxCursors} {
		if err := c.SetCursorPosition(idx, 10); !IsDomainError(err, ErrInvalidIndex.Code) {
			t.Errorf("SetCursorPosition(%d) err = %v, want %v", idx, err, ErrInvalidIndex)
		}
		if _, err := c.CursorPosition(idx); !IsDomainError(err, ErrInvalidIndex.Code) {
			t.Errorf("CursorPosition(%d) err = %v, want %v", idx, err, ErrInvalidIndex)
		}
	}

	for idx := 0; idx < MaxCursors; idx++ {
		if err := c.SetCursorPosition(idx, int64(idx)*100); err != nil {
			t.Fatalf("SetCursorPosition(%d): %v", idx, err)
		}
		got, err := c.CursorPosition(idx)
		if err != nil {
			t.Fatalf("CursorPosition(%d): %v", idx, err)
		}
		if got != int64(idx)*100 {
			t.Fatalf("CursorPosition(%d) = %d, want %d", idx, got, idx*100)
		}
	}
}

func TestContainer_CursorUnsetDistinctFromZero(t *testing.T) {
	c := NewContainer()

	if set, _ := c.IsCursorPositionSet(0); set {
		t.Fatal("fresh cursor reported as set")
	}

	// Position zero is a real position, not "unset".
	if err := c.SetCursorPosition(0, 0); err != nil {
		t.Fatalf("SetCursorPosition: %v", err)
	}
	if set, _ := c.IsCursorPositionSet(0); !set {
		t.Fatal("cursor at position 0 reported as unset")
	}

	if err := c.ClearCursorPosition(0); err != nil {
		t.Fatalf("ClearCursorPosition: %v", err)
	}
	if set, _ := c.IsCursorPositionSet(0); set {
		t.Fatal("cleared cursor reported as set")
	}
}

func TestContainer_ChannelLabelBounds(t *testing.T) {
	c := NewContainer()

	for _, idx := range []int{-1, MaxChannels} {
		if err := c.SetChannelLabel(idx, "CLK"); !IsDomainError(err, ErrInvalidIndex.Code) {
			t.Errorf("SetChannelLabel(%d) err = %v, want %v", idx, err, ErrInvalidIndex)
		}
	}

	if err := c.SetChannelLabel(31, "MISO"); err != nil {
		t.Fatalf("SetChannelLabel(31): %v", err)
	}
	got, err := c.ChannelLabel(31)
	if err != nil {
		t.Fatalf("ChannelLabel(31): %v", err)
	}
	if got != "MISO" {
		t.Fatalf("ChannelLabel(31) = %q, want MISO", got)
	}
}

func TestContainer_IsChannelLabelSet(t *testing.T) {
	c := NewContainer()

	if set, _ := c.IsChannelLabelSet(0); set {
		t.Fatal("fresh label reported as set")
	}
	if err := c.SetChannelLabel(0, "   "); err != nil {
		t.Fatalf("SetChannelLabel: %v", err)
	}
	if set, _ := c.IsChannelLabelSet(0); set {
		t.Fatal("blank label reported as set")
	}
	if err := c.SetChannelLabel(0, "SCL"); err != nil {
		t.Fatalf("SetChannelLabel: %v", err)
	}
	if set, _ := c.IsChannelLabelSet(0); !set {
		t.Fatal("non-blank label reported as unset")
	}
}

func TestContainer_SetCaptureClearsAnnotations(t *testing.T) {
	c := NewContainer()
	c.SetCapture(testCapture(t, NotAvailable))

	if err := c.AddChannelAnnotation(2, 0, 10, "spi decode"); err != nil {
		t.Fatalf("AddChannelAnnotation: %v", err)
	}
	if err := c.SetChannelLabel(2, "MOSI"); err != nil {
		t.Fatalf("SetChannelLabel: %v", err)
	}
	if err := c.SetCursorPosition(4, 7); err != nil {
		t.Fatalf("SetCursorPosition: %v", err)
	}

	c.SetCapture(testCapture(t, 1))

	// Annotations belong to the replaced data and are dropped.
	anns, err := c.ChannelAnnotations(2, 0, 100)
	if err != nil {
		t.Fatalf("ChannelAnnotations: %v", err)
	}
	if len(anns) != 0 {
		t.Fatalf("got %d annotations after capture swap, want 0", len(anns))
	}

	// Labels and cursors survive the swap.
	if label, _ := c.ChannelLabel(2); label != "MOSI" {
		t.Fatalf("ChannelLabel(2) = %q after swap, want MOSI", label)
	}
	if pos, _ := c.CursorPosition(4); pos != 7 {
		t.Fatalf("CursorPosition(4) = %d after swap, want 7", pos)
	}
}

func TestContainer_CursorTimestamp(t *testing.T) {
	c := NewContainer()

	// No capture loaded.
	if _, ok, err := c.CursorTimestamp(0); err != nil || ok {
		t.Fatalf("CursorTimestamp without capture = (ok=%v, err=%v), want no value", ok, err)
	}

	c.SetCapture(testCapture(t, NotAvailable))

	// Cursor positions index transitions; timestamps are [0, 5, 12, 20].
	if err := c.SetCursorPosition(1, 2); err != nil {
		t.Fatalf("SetCursorPosition: %v", err)
	}
	ts, ok, err := c.CursorTimestamp(1)
	if err != nil || !ok {
		t.Fatalf("CursorTimestamp = (ok=%v, err=%v), want value", ok, err)
	}
	if ts != 12 {
		t.Fatalf("CursorTimestamp = %d, want 12", ts)
	}

	// Unset cursor yields no value.
	if _, ok, err := c.CursorTimestamp(2); err != nil || ok {
		t.Fatalf("CursorTimestamp(unset) = (ok=%v, err=%v), want no value", ok, err)
	}

	// Cursor past the last transition yields no value.
	if err := c.SetCursorPosition(3, 99); err != nil {
		t.Fatalf("SetCursorPosition: %v", err)
	}
	if _, ok, _ := c.CursorTimestamp(3); ok {
		t.Fatal("CursorTimestamp past last transition reported a value")
	}
}

func TestContainer_CursorTimeValue(t *testing.T) {
	c := NewContainer()
	c.SetCapture(testCapture(t, 1)) // trigger at timestamp 5, rate 1000 Hz

	if err := c.SetCursorPosition(0, 2); err != nil {
		t.Fatalf("SetCursorPosition: %v", err)
	}

	v, ok, err := c.CursorTimeValue(0)
	if err != nil || !ok {
		t.Fatalf("CursorTimeValue = (ok=%v, err=%v), want value", ok, err)
	}
	want := 7.0 / 1000.0 // (12 - 5) samples at 1 kHz
	if v != want {
		t.Fatalf("CursorTimeValue = %v, want %v", v, want)
	}
}

func TestContainer_CalculateTime(t *testing.T) {
	c := NewContainer()

	c.SetCapture(testCapture(t, NotAvailable))
	if got := c.CalculateTime(9); got != 9 {
		t.Fatalf("CalculateTime(9) without trigger = %d, want 9", got)
	}

	c.SetCapture(testCapture(t, 1)) // trigger time position 5
	if got := c.CalculateTime(9); got != 4 {
		t.Fatalf("CalculateTime(9) with trigger = %d, want 4", got)
	}
}

func TestContainer_PassthroughWithoutCapture(t *testing.T) {
	c := NewContainer()

	if c.HasCapture() {
		t.Fatal("HasCapture = true on empty container")
	}
	if got := c.SampleRate(); got != NotAvailable {
		t.Fatalf("SampleRate = %d, want %d", got, NotAvailable)
	}
	if got := c.TriggerIndex(); got != NotAvailable {
		t.Fatalf("TriggerIndex = %d, want %d", got, NotAvailable)
	}
	if got := c.EnabledChannels(); got != 0 {
		t.Fatalf("EnabledChannels = %d, want 0", got)
	}
}
