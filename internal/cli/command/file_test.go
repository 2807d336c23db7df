package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

// legacyFixture is an 8-channel legacy layout file with a run of
// repeated samples.
const legacyFixture = ";Size: 6\n;Rate: 1000\n;Channels: 8\n00ff\n00ff\n0001\n0001\n0001\n00ff\n"

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func generateFlags() []cli.Flag {
	return GenerateCommand().Flags
}

func TestGenerate_WritesReadableFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "gen.ols")

	ctx := makeContext(generateFlags(), []string{
		"--pattern", "counter", "--samples", "64", "--sample-rate", "1000", "--channels", "8", out,
	})
	if err := generateFile(ctx); err != nil {
		t.Fatalf("generateFile() error = %v", err)
	}

	doc, layout, err := readCaptureFile(out)
	if err != nil {
		t.Fatalf("readCaptureFile() error = %v", err)
	}
	if layout != "compressed" {
		t.Errorf("layout = %q, want compressed", layout)
	}
	if doc.Capture.Transitions() != 64 {
		t.Errorf("Transitions = %d, want 64", doc.Capture.Transitions())
	}
	if doc.Capture.AbsoluteLength() != 64 {
		t.Errorf("AbsoluteLength = %d, want 64", doc.Capture.AbsoluteLength())
	}
}

func TestGenerate_BadPattern(t *testing.T) {
	out := filepath.Join(t.TempDir(), "gen.ols")

	ctx := makeContext(generateFlags(), []string{"--pattern", "sawtooth", out})
	if err := generateFile(ctx); err == nil {
		t.Fatal("generateFile() should fail for unknown pattern")
	}
}

func TestGenerate_MissingOutput(t *testing.T) {
	ctx := makeContext(generateFlags(), nil)
	if err := generateFile(ctx); err == nil {
		t.Fatal("generateFile() should fail without an output file")
	}
}

func TestConvert_LegacyToCompressed(t *testing.T) {
	input := writeFixture(t, "legacy.ols", legacyFixture)
	out := filepath.Join(t.TempDir(), "converted.ols")

	ctx := makeContext(ConvertCommand().Flags, []string{input, out})
	if err := convertFile(ctx); err != nil {
		t.Fatalf("convertFile() error = %v", err)
	}

	doc, layout, err := readCaptureFile(out)
	if err != nil {
		t.Fatalf("readCaptureFile() error = %v", err)
	}
	if layout != "compressed" {
		t.Errorf("layout = %q, want compressed", layout)
	}
	// The run-length content survives the migration
	if doc.Capture.Transitions() != 3 {
		t.Errorf("Transitions = %d, want 3", doc.Capture.Transitions())
	}
	if doc.Capture.AbsoluteLength() != 6 {
		t.Errorf("AbsoluteLength = %d, want 6", doc.Capture.AbsoluteLength())
	}
}

func TestConvert_RefusesOverwrite(t *testing.T) {
	input := writeFixture(t, "legacy.ols", legacyFixture)
	out := writeFixture(t, "exists.ols", "already here")

	ctx := makeContext(ConvertCommand().Flags, []string{input, out})
	err := convertFile(ctx)
	if err == nil {
		t.Fatal("convertFile() should refuse to overwrite without --force")
	}
	if !strings.Contains(err.Error(), "--force") {
		t.Errorf("error = %v, should mention --force", err)
	}
}

func TestConvert_ForceOverwrite(t *testing.T) {
	input := writeFixture(t, "legacy.ols", legacyFixture)
	out := writeFixture(t, "exists.ols", "already here")

	ctx := makeContext(ConvertCommand().Flags, []string{"--force", input, out})
	if err := convertFile(ctx); err != nil {
		t.Fatalf("convertFile() error = %v", err)
	}

	if _, _, err := readCaptureFile(out); err != nil {
		t.Fatalf("converted file does not parse: %v", err)
	}
}

func TestInspect_MissingFile(t *testing.T) {
	ctx := makeContext(nil, []string{filepath.Join(t.TempDir(), "missing.ols")})
	if err := inspectFile(ctx); err == nil {
		t.Fatal("inspectFile() should fail for missing file")
	}
}

func TestInspect_JSONOutput(t *testing.T) {
	input := writeFixture(t, "legacy.ols", legacyFixture)

	ctx := makeContext(nil, []string{"--output", "json", input})
	if err := inspectFile(ctx); err != nil {
		t.Fatalf("inspectFile() error = %v", err)
	}
}

func TestDetectLayout(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"legacy", legacyFixture, "legacy"},
		{"compressed", ";Size: 1\n;Compressed: true\n;AbsoluteLength: 4\n000000ff@0\n", "compressed"},
		{"compressed false", ";Size: 1\n;Compressed: false\n00ff\n", "legacy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, "f.ols", tt.content)
			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer f.Close()

			got, err := detectLayout(f)
			if err != nil {
				t.Fatalf("detectLayout() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("detectLayout() = %q, want %q", got, tt.want)
			}
		})
	}
}
