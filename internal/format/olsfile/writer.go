package olsfile

import (
	"bufio"
	"fmt"
	"io"

	"github.com/seqlab/sigcap-go/internal/core/domain"
)

// Write serializes a document in the compressed layout. The legacy
// raw layout is never emitted; a written file always reads back to an
// identical capture and cursor table.
func Write(w io.Writer, doc *Document) error {
	if doc == nil || doc.Capture == nil {
		return domain.ErrInvalidCapture.WithDetails("document has no capture")
	}
	capture := doc.Capture
	values := capture.Values()
	timestamps := capture.Timestamps()

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, ";%s: %d\n", keySize, len(values))
	fmt.Fprintf(bw, ";%s: %d\n", keyRate, capture.SampleRate())
	fmt.Fprintf(bw, ";%s: %d\n", keyChannels, capture.ChannelCount())
	fmt.Fprintf(bw, ";%s: %d\n", keyEnabledChannels, capture.EnabledChannels())
	if capture.HasTriggerData() {
		fmt.Fprintf(bw, ";%s: %d\n", keyTriggerPosition, capture.TriggerIndex())
	}
	fmt.Fprintf(bw, ";%s: true\n", keyCompressed)
	fmt.Fprintf(bw, ";%s: %d\n", keyAbsoluteLength, capture.AbsoluteLength())

	for i, v := range values {
		if _, err := fmt.Fprintf(bw, "%08x@%d\n", v, timestamps[i]); err != nil {
			return fmt.Errorf("writing transition %d: %w", i, err)
		}
	}

	fmt.Fprintf(bw, ";%s: %t\n", keyCursorEnabled, doc.CursorsEnabled)
	for i, pos := range doc.CursorPositions {
		fmt.Fprintf(bw, ";%s%d: %d\n", keyCursorPrefix, i, pos)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing capture file: %w", err)
	}
	return nil
}
