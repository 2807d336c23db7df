package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type archiveRow struct {
	ID          string `json:"id"`
	Transitions int    `json:"transitions"`
	SampleRate  int    `json:"sample_rate"`
	Encrypted   bool   `json:"encrypted" table:"wide"`
	Raw         []byte `json:"-" table:"-"`
}

func TestTable_Render(t *testing.T) {
	table := &Table{
		Headers: []string{"CAPTURE ID", "TRANSITIONS"},
		Rows: [][]string{
			{"cap-01hq3ka9", "512"},
			{"cap-01hq3kb2", "16384"},
		},
	}

	var buf bytes.Buffer
	if err := table.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("rendered %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "CAPTURE ID") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "16384") {
		t.Errorf("row line = %q", lines[2])
	}
}

func TestFormat_SliceOfStructs(t *testing.T) {
	rows := []archiveRow{
		{ID: "cap-01hq3ka9", Transitions: 512, SampleRate: 1000000, Encrypted: true},
		{ID: "cap-01hq3kb2", Transitions: 64, SampleRate: 200000},
	}

	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.Format(&buf, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ID", "TRANSITIONS", "SAMPLE_RATE", "cap-01hq3ka9", "1000000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ENCRYPTED") {
		t.Errorf("wide-only column rendered without wide mode:\n%s", out)
	}
}

func TestFormat_WideMode(t *testing.T) {
	rows := []archiveRow{{ID: "cap-01hq3ka9", Encrypted: true}}

	var buf bytes.Buffer
	f := &TableFormatter{Wide: true}
	if err := f.Format(&buf, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ENCRYPTED") || !strings.Contains(out, "true") {
		t.Errorf("wide column missing:\n%s", out)
	}
}

func TestFormat_SkippedColumn(t *testing.T) {
	rows := []archiveRow{{ID: "cap-01hq3ka9", Raw: []byte{1, 2, 3}}}

	var buf bytes.Buffer
	f := &TableFormatter{Wide: true}
	if err := f.Format(&buf, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(buf.String(), "RAW") {
		t.Errorf("table:\"-\" column rendered:\n%s", buf.String())
	}
}

func TestFormat_SingleStruct(t *testing.T) {
	summary := struct {
		File        string `json:"file"`
		Transitions int    `json:"transitions"`
		HasTiming   bool   `json:"has_timing"`
	}{File: "burst.ols", Transitions: 4096, HasTiming: true}

	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.Format(&buf, summary); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "FIELD") || !strings.Contains(out, "VALUE") {
		t.Errorf("field listing headers missing:\n%s", out)
	}
	for _, want := range []string{"file", "burst.ols", "transitions", "4096", "has_timing", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormat_PointerAndExistingTable(t *testing.T) {
	table := &Table{Headers: []string{"NAME"}, Rows: [][]string{{"lab"}}}

	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.Format(&buf, table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "lab") {
		t.Errorf("existing table not rendered:\n%s", buf.String())
	}
}

func TestFormat_FallbackToJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.Format(&buf, 42); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "42" {
		t.Errorf("fallback output = %q, want JSON 42", buf.String())
	}
}

func TestCellValue_Rendering(t *testing.T) {
	loaded := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	row := struct {
		Label   string    `json:"label"`
		Created time.Time `json:"created"`
		Zero    time.Time `json:"zero"`
		Samples []int64   `json:"samples"`
		Empty   []int64   `json:"empty"`
		Ratio   float64   `json:"ratio"`
	}{
		Label:   "",
		Created: loaded,
		Samples: []int64{0, 5, 12, 20},
		Ratio:   0.5,
	}

	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.Format(&buf, row); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"2026-03-14 09:30", "[4 items]", "0.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Empty string, zero time, and empty slice all render as "-".
	if got := strings.Count(out, "-"); got < 3 {
		t.Errorf("expected at least 3 placeholder cells, got %d:\n%s", got, out)
	}
}

func TestFormat_Map(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.Format(&buf, map[string]int{"channels": 8}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "KEY") || !strings.Contains(out, "channels") || !strings.Contains(out, "8") {
		t.Errorf("map output wrong:\n%s", out)
	}
}

func TestFormat_EmptySlice(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.Format(&buf, []archiveRow{}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "" {
		t.Errorf("empty slice produced output: %q", buf.String())
	}
}

func TestFormat_Nil(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.Format(&buf, nil); err != nil {
		t.Fatalf("Format(nil) error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Format(nil) wrote %q", buf.String())
	}
}
