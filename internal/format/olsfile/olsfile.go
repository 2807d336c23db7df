package olsfile

import (
	"io"
	"strings"

	"github.com/seqlab/sigcap-go/internal/core/domain"
)

// MaxLegacySize bounds the sample count of the legacy raw layout.
const MaxLegacySize = 262144

// Header keys recognized by the reader. Unrecognized keys are ignored.
const (
	keySize            = "Size"
	keyRate            = "Rate"
	keyChannels        = "Channels"
	keyTriggerPosition = "TriggerPosition"
	keyEnabledChannels = "EnabledChannels"
	keyCursorA         = "CursorA"
	keyCursorB         = "CursorB"
	keyCursorPrefix    = "Cursor"
	keyCursorEnabled   = "CursorEnabled"
	keyCompressed      = "Compressed"
	keyAbsoluteLength  = "AbsoluteLength"
)

// Document is the full content of one capture file: the waveform
// itself plus the cursor state carried in the header and trailer.
type Document struct {
	Capture         *domain.Capture
	CursorPositions [domain.MaxCursors]int64
	CursorsEnabled  bool
}

// NewDocument wraps a capture with all cursors unset.
func NewDocument(capture *domain.Capture) *Document {
	doc := &Document{Capture: capture}
	for i := range doc.CursorPositions {
		doc.CursorPositions[i] = domain.CursorUnset
	}
	return doc
}

type lineKind int

const (
	lineHeader lineKind = iota
	lineData
)

// classify tags one line as a header/trailer line or a data line.
func classify(line string) lineKind {
	if strings.HasPrefix(line, ";") {
		return lineHeader
	}
	return lineData
}

// ReadContainer parses a capture file and installs its content into
// the container: the capture replaces the current one (clearing
// annotations), and the file's cursor state overwrites the table.
func ReadContainer(r io.Reader, c *domain.Container) error {
	doc, err := Read(r)
	if err != nil {
		return err
	}
	c.SetCapture(doc.Capture)
	c.SetCursorPositions(doc.CursorPositions)
	c.SetCursorsEnabled(doc.CursorsEnabled)
	return nil
}

// WriteContainer serializes the container's current capture and
// cursor state. Fails when no capture is installed.
func WriteContainer(w io.Writer, c *domain.Container) error {
	capture := c.Capture()
	if capture == nil {
		return domain.ErrNoCapture
	}
	doc := &Document{
		Capture:         capture,
		CursorPositions: c.CursorPositions(),
		CursorsEnabled:  c.CursorsEnabled(),
	}
	return Write(w, doc)
}
