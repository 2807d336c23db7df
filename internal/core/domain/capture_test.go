package domain

import (
	"testing"
)

func TestCompressSamples_Runs(t *testing.T) {
	// 4 maximal runs -> 4 transitions.
	samples := []uint32{7, 7, 7, 1, 1, 9, 9, 9, 9, 2}

	values, timestamps := CompressSamples(samples)

	wantValues := []uint32{7, 1, 9, 2}
	wantTimestamps := []int64{0, 3, 5, 9}

	if len(values) != len(wantValues) {
		t.Fatalf("len(values) = %d, want %d", len(values), len(wantValues))
	}
	for i := range wantValues {
		if values[i] != wantValues[i] {
			t.Errorf("values[%d] = %d, want %d", i, values[i], wantValues[i])
		}
		if timestamps[i] != wantTimestamps[i] {
			t.Errorf("timestamps[%d] = %d, want %d", i, timestamps[i], wantTimestamps[i])
		}
	}
	if timestamps[0] != 0 {
		t.Errorf("timestamps[0] = %d, want 0", timestamps[0])
	}
}

func TestCompressSamples_SingleRun(t *testing.T) {
	values, timestamps := CompressSamples([]uint32{5, 5, 5, 5})

	if len(values) != 1 || len(timestamps) != 1 {
		t.Fatalf("got %d transitions, want 1", len(values))
	}
	if values[0] != 5 || timestamps[0] != 0 {
		t.Fatalf("transition = (%d, %d), want (5, 0)", values[0], timestamps[0])
	}
}

func TestCompressSamples_AlreadyMinimal(t *testing.T) {
	// No two adjacent values equal: compression must not change anything.
	samples := []uint32{1, 2, 3, 2, 1}

	values, timestamps := CompressSamples(samples)

	if len(values) != len(samples) {
		t.Fatalf("len(values) = %d, want %d", len(values), len(samples))
	}
	for i := range samples {
		if values[i] != samples[i] {
			t.Errorf("values[%d] = %d, want %d", i, values[i], samples[i])
		}
		if timestamps[i] != int64(i) {
			t.Errorf("timestamps[%d] = %d, want %d", i, timestamps[i], i)
		}
	}
}

func TestCompressSamples_Empty(t *testing.T) {
	values, timestamps := CompressSamples(nil)
	if values != nil || timestamps != nil {
		t.Fatalf("CompressSamples(nil) = (%v, %v), want (nil, nil)", values, timestamps)
	}
}

func TestNewCapture_Validation(t *testing.T) {
	tests := []struct {
		name       string
		values     []uint32
		timestamps []int64
		trigger    int
		channels   int
		absLen     int64
	}{
		{"length mismatch", []uint32{1, 2}, []int64{0}, -1, 8, 2},
		{"first timestamp not zero", []uint32{1, 2}, []int64{1, 2}, -1, 8, 2},
		{"not strictly increasing", []uint32{1, 2, 3}, []int64{0, 5, 5}, -1, 8, 3},
		{"decreasing", []uint32{1, 2, 3}, []int64{0, 5, 4}, -1, 8, 3},
		{"absolute length too short", []uint32{1, 2}, []int64{0, 1}, -1, 8, 1},
		{"zero channels", []uint32{1}, []int64{0}, -1, 0, 1},
		{"too many channels", []uint32{1}, []int64{0}, -1, 33, 1},
		{"trigger beyond transitions", []uint32{1, 2}, []int64{0, 1}, 3, 8, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCapture(tt.values, tt.timestamps, tt.trigger, 1000, tt.channels, 0xff, tt.absLen)
			if !IsDomainError(err, ErrInvalidCapture.Code) {
				t.Fatalf("NewCapture err = %v, want %v", err, ErrInvalidCapture)
			}
		})
	}
}

func TestNewCapture_NegativeTriggerNormalized(t *testing.T) {
	c, err := NewCapture([]uint32{1}, []int64{0}, -42, 1000, 8, 0xff, 1)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	if c.TriggerIndex() != NotAvailable {
		t.Fatalf("TriggerIndex = %d, want %d", c.TriggerIndex(), NotAvailable)
	}
	if c.HasTriggerData() {
		t.Fatal("HasTriggerData = true, want false")
	}
}

func TestNewCapture_CopiesInput(t *testing.T) {
	values := []uint32{1, 2}
	timestamps := []int64{0, 4}

	c, err := NewCapture(values, timestamps, 1, 1000, 8, 0xff, 10)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}

	values[0] = 99
	timestamps[1] = 99

	if c.Values()[0] != 1 {
		t.Errorf("Values[0] = %d, want 1 (input mutation leaked)", c.Values()[0])
	}
	if c.Timestamps()[1] != 4 {
		t.Errorf("Timestamps[1] = %d, want 4 (input mutation leaked)", c.Timestamps()[1])
	}
}

func TestFromSamples(t *testing.T) {
	c, err := FromSamples([]uint32{0, 0, 1, 1, 0}, 1_000_000, 16, 0xffff)
	if err != nil {
		t.Fatalf("FromSamples: %v", err)
	}

	if c.Transitions() != 3 {
		t.Fatalf("Transitions = %d, want 3", c.Transitions())
	}
	if c.AbsoluteLength() != 5 {
		t.Fatalf("AbsoluteLength = %d, want 5", c.AbsoluteLength())
	}
	if c.HasTriggerData() {
		t.Fatal("HasTriggerData = true, want false")
	}
	if !c.HasTimingData() {
		t.Fatal("HasTimingData = false, want true")
	}
}

func TestFromSamples_Empty(t *testing.T) {
	_, err := FromSamples(nil, 1000, 8, 0xff)
	if !IsDomainError(err, ErrInvalidCapture.Code) {
		t.Fatalf("FromSamples(nil) err = %v, want %v", err, ErrInvalidCapture)
	}
}

func TestCapture_SampleIndex(t *testing.T) {
	c, err := NewCapture([]uint32{1, 2, 3, 4}, []int64{0, 5, 12, 20}, NotAvailable, 1000, 8, 0xff, 25)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}

	tests := []struct {
		abs  int64
		want int
	}{
		{-1, NotAvailable},
		{0, 0},
		{4, 0},
		{5, 1},
		{11, 1},
		{12, 2},
		{20, 3},
		{1000, 3},
	}
	for _, tt := range tests {
		if got := c.SampleIndex(tt.abs); got != tt.want {
			t.Errorf("SampleIndex(%d) = %d, want %d", tt.abs, got, tt.want)
		}
	}
}

func TestCapture_TriggerTimePosition(t *testing.T) {
	c, err := NewCapture([]uint32{1, 2, 3}, []int64{0, 5, 12}, 2, 1000, 8, 0xff, 20)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	if got := c.TriggerTimePosition(); got != 12 {
		t.Fatalf("TriggerTimePosition = %d, want 12", got)
	}

	// Migrated trigger index may equal the transition count; the time
	// position is then unavailable.
	c, err = NewCapture([]uint32{1, 2, 3}, []int64{0, 5, 12}, 3, 1000, 8, 0xff, 20)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	if got := c.TriggerTimePosition(); got != NotAvailable {
		t.Fatalf("TriggerTimePosition = %d, want %d", got, NotAvailable)
	}
}
