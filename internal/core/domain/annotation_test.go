package domain

import (
	"sync"
	"testing"
)

func TestAnnotationIndex_ChannelBounds(t *testing.T) {
	idx := NewAnnotationIndex()

	for _, ch := range []int{-1, MaxChannels} {
		if err := idx.Add(ch, 0, 10, "x"); !IsDomainError(err, ErrInvalidIndex.Code) {
			t.Errorf("Add(%d) err = %v, want %v", ch, err, ErrInvalidIndex)
		}
		if err := idx.Clear(ch); !IsDomainError(err, ErrInvalidIndex.Code) {
			t.Errorf("Clear(%d) err = %v, want %v", ch, err, ErrInvalidIndex)
		}
		if _, _, err := idx.At(ch, 0); !IsDomainError(err, ErrInvalidIndex.Code) {
			t.Errorf("At(%d) err = %v, want %v", ch, err, ErrInvalidIndex)
		}
	}

	for _, ch := range []int{0, MaxChannels - 1} {
		if err := idx.Add(ch, 0, 10, "x"); err != nil {
			t.Errorf("Add(%d): %v", ch, err)
		}
	}
}

func TestAnnotationIndex_AtFirstMatch(t *testing.T) {
	idx := NewAnnotationIndex()

	if err := idx.Add(3, 0, 100, "first"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := idx.Add(3, 40, 60, "second"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Both contain sample 50; arrival order wins.
	got, ok, err := idx.At(3, 50)
	if err != nil || !ok {
		t.Fatalf("At = (%v, %v, %v), want match", got, ok, err)
	}
	if got.Payload != "first" {
		t.Fatalf("At payload = %v, want first", got.Payload)
	}

	// No annotation covers sample 200.
	_, ok, err = idx.At(3, 200)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if ok {
		t.Fatal("At(3, 200) matched, want none")
	}
}

func TestAnnotationIndex_Overlapping(t *testing.T) {
	idx := NewAnnotationIndex()
	if err := idx.Add(1, 0, 10, "a"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := idx.Add(1, 20, 30, "b"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := idx.Add(1, 25, 50, "c"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := idx.Overlapping(1, 22, 28)
	if err != nil {
		t.Fatalf("Overlapping: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(Overlapping) = %d, want 2", len(got))
	}
	if got[0].Payload != "b" || got[1].Payload != "c" {
		t.Fatalf("Overlapping payloads = %v, %v, want b, c", got[0].Payload, got[1].Payload)
	}

	// Result is a snapshot: later adds must not change it.
	if err := idx.Add(1, 23, 24, "d"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("snapshot grew to %d after Add", len(got))
	}
}

func TestAnnotationIndex_Clear(t *testing.T) {
	idx := NewAnnotationIndex()
	if err := idx.Add(0, 0, 1, nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := idx.Add(5, 0, 1, nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := idx.Clear(0); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, _ := idx.Count(0); n != 0 {
		t.Fatalf("Count(0) = %d, want 0 after Clear", n)
	}
	if n, _ := idx.Count(5); n != 1 {
		t.Fatalf("Count(5) = %d, want 1 (Clear leaked across channels)", n)
	}

	idx.ClearAll()
	if n, _ := idx.Count(5); n != 0 {
		t.Fatalf("Count(5) = %d, want 0 after ClearAll", n)
	}
}

func TestAnnotationIndex_ConcurrentAdd(t *testing.T) {
	idx := NewAnnotationIndex()

	var wg sync.WaitGroup
	const perChannel = 50
	for ch := 0; ch < 4; ch++ {
		wg.Add(1)
		go func(ch int) {
			defer wg.Done()
			for i := 0; i < perChannel; i++ {
				s := int64(i * 10)
				if err := idx.Add(ch, s, s+5, nil); err != nil {
					t.Errorf("Add(%d): %v", ch, err)
				}
			}
		}(ch)
	}
	wg.Wait()

	for ch := 0; ch < 4; ch++ {
		if n, _ := idx.Count(ch); n != perChannel {
			t.Fatalf("Count(%d) = %d, want %d", ch, n, perChannel)
		}
	}
}

func TestAnnotation_Contains(t *testing.T) {
	a := Annotation{StartSample: 10, EndSample: 20}

	tests := []struct {
		sample int64
		want   bool
	}{
		{9, false},
		{10, true},
		{20, true},
		{21, false},
	}
	for _, tt := range tests {
		if got := a.Contains(tt.sample); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.sample, got, tt.want)
		}
	}
}
