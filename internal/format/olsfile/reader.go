package olsfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/seqlab/sigcap-go/internal/core/domain"
)

// header accumulates every ";Key: value" line seen in the file,
// whether it appears before or after the data block.
type header struct {
	size            int
	sizeSet         bool
	rate            int
	channels        int
	trigger         int64
	triggerSet      bool
	enabledChannels uint32
	enabledSet      bool
	cursors         [domain.MaxCursors]int64
	cursorSet       [domain.MaxCursors]bool
	cursorsEnabled  bool
	compressed      bool
	absoluteLength  int64
	absoluteSet     bool
}

func newHeader() *header {
	return &header{
		rate:     domain.NotAvailable,
		channels: domain.MaxChannels,
	}
}

// apply parses one ";Key: value" line. Unrecognized keys are ignored;
// a recognized key with an unparsable value is a corrupt file.
func (h *header) apply(line string) error {
	key, value, found := strings.Cut(line[1:], ":")
	if !found {
		return nil
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	var err error
	switch key {
	case keySize:
		h.size, err = strconv.Atoi(value)
		h.sizeSet = err == nil
	case keyRate:
		h.rate, err = strconv.Atoi(value)
	case keyChannels:
		h.channels, err = strconv.Atoi(value)
	case keyTriggerPosition:
		h.trigger, err = strconv.ParseInt(value, 10, 64)
		h.triggerSet = err == nil
	case keyEnabledChannels:
		var mask int64
		mask, err = strconv.ParseInt(value, 10, 64)
		h.enabledChannels = uint32(mask)
		h.enabledSet = err == nil
	case keyCursorA:
		err = h.applyCursor(0, value)
	case keyCursorB:
		err = h.applyCursor(1, value)
	case keyCursorEnabled:
		h.cursorsEnabled, err = strconv.ParseBool(value)
	case keyCompressed:
		h.compressed, err = strconv.ParseBool(value)
	case keyAbsoluteLength:
		h.absoluteLength, err = strconv.ParseInt(value, 10, 64)
		h.absoluteSet = err == nil
	default:
		if idx, ok := cursorKeyIndex(key); ok {
			err = h.applyCursor(idx, value)
		}
	}
	if err != nil {
		return domain.ErrCorruptFile.WithDetails(
			fmt.Sprintf("header %s has malformed value %q", key, value))
	}
	return nil
}

func (h *header) applyCursor(idx int, value string) error {
	pos, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return err
	}
	h.cursors[idx] = pos
	h.cursorSet[idx] = true
	return nil
}

// cursorKeyIndex matches the "Cursor0".."Cursor9" header keys.
func cursorKeyIndex(key string) (int, bool) {
	suffix, found := strings.CutPrefix(key, keyCursorPrefix)
	if !found || len(suffix) != 1 || suffix[0] < '0' || suffix[0] > '9' {
		return 0, false
	}
	return int(suffix[0] - '0'), true
}

// Read parses a capture file. Both the current compressed layout and
// the legacy one-raw-sample-per-line layout are accepted; legacy data
// is run-length-compressed and legacy trigger/cursor time values are
// migrated to transition indices.
func Read(r io.Reader) (*Document, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	h := newHeader()

	// Header phase: consume ";" lines until the first data line.
	var firstData string
	haveData := false
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if classify(line) == lineHeader {
			if err := h.apply(line); err != nil {
				return nil, err
			}
			continue
		}
		firstData = line
		haveData = true
		break
	}
	if err := sc.Err(); err != nil {
		return nil, domain.ErrCorruptFile.WithCause(err)
	}
	if !haveData {
		// A compressed capture with zero transitions has no data
		// block; its trailer lines were absorbed above. Anything
		// else ending inside the header is truncated.
		if h.sizeSet && h.compressed && h.size == 0 {
			return h.build(nil, nil, h.absoluteLength)
		}
		return nil, domain.ErrCorruptFile.WithDetails("stream ended before any data line")
	}
	if !h.sizeSet {
		return nil, domain.ErrCorruptFile.WithDetails("header missing Size")
	}

	var (
		values     []uint32
		timestamps []int64
		absLen     int64
		err        error
	)
	if h.compressed {
		values, timestamps, err = readTransitions(sc, h.size, firstData)
		if err != nil {
			return nil, err
		}
		absLen = h.absoluteLength
		if !h.absoluteSet && len(timestamps) > 0 {
			absLen = timestamps[len(timestamps)-1] + 1
		}
	} else {
		if h.size <= 0 || h.size > MaxLegacySize {
			return nil, domain.ErrInvalidSize.WithDetails(
				fmt.Sprintf("legacy layout size %d outside (0, %d]", h.size, MaxLegacySize))
		}
		samples, rerr := readLegacySamples(sc, h.size, h.channels, firstData)
		if rerr != nil {
			return nil, rerr
		}
		values, timestamps = domain.CompressSamples(samples)
		absLen = int64(h.size)
	}

	// Trailer phase: the cursor block written after the data lines.
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if classify(line) != lineHeader {
			continue
		}
		if err := h.apply(line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, domain.ErrCorruptFile.WithCause(err)
	}

	return h.build(values, timestamps, absLen)
}

// readTransitions consumes size compressed data lines, the first of
// which has already been read.
func readTransitions(sc *bufio.Scanner, size int, first string) ([]uint32, []int64, error) {
	if size <= 0 {
		return nil, nil, domain.ErrInvalidData.WithDetails(
			fmt.Sprintf("unexpected data line %q for size %d", first, size))
	}
	values := make([]uint32, 0, size)
	timestamps := make([]int64, 0, size)

	line := first
	for {
		v, ts, err := parseTransitionLine(line)
		if err != nil {
			return nil, nil, err
		}
		values = append(values, v)
		timestamps = append(timestamps, ts)
		if len(values) == size {
			return values, timestamps, nil
		}
		line, err = nextDataLine(sc, len(values), size)
		if err != nil {
			return nil, nil, err
		}
	}
}

// readLegacySamples consumes size raw sample lines, the first of
// which has already been read.
func readLegacySamples(sc *bufio.Scanner, size, channels int, first string) ([]uint32, error) {
	digits := 8
	if channels <= 16 {
		digits = 4
	}
	samples := make([]uint32, 0, size)

	line := first
	for {
		v, err := parseLegacySample(line, digits)
		if err != nil {
			return nil, err
		}
		samples = append(samples, v)
		if len(samples) == size {
			return samples, nil
		}
		line, err = nextDataLine(sc, len(samples), size)
		if err != nil {
			return nil, err
		}
	}
}

func nextDataLine(sc *bufio.Scanner, have, want int) (string, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", domain.ErrInvalidData.WithCause(err)
		}
		return "", domain.ErrInvalidData.WithDetails(
			fmt.Sprintf("stream ended after %d of %d data lines", have, want))
	}
	return strings.TrimRight(sc.Text(), "\r"), nil
}

// parseTransitionLine decodes "HHHHHHHH@T": 8 hex digits split as two
// 16-bit halves, then a decimal signed timestamp.
func parseTransitionLine(line string) (uint32, int64, error) {
	if len(line) < 10 || line[8] != '@' {
		return 0, 0, domain.ErrInvalidData.WithDetails(
			fmt.Sprintf("malformed transition line %q", line))
	}
	hi, err := strconv.ParseUint(line[0:4], 16, 16)
	if err != nil {
		return 0, 0, domain.ErrInvalidData.WithDetails(
			fmt.Sprintf("malformed transition value %q", line[0:8]))
	}
	lo, err := strconv.ParseUint(line[4:8], 16, 16)
	if err != nil {
		return 0, 0, domain.ErrInvalidData.WithDetails(
			fmt.Sprintf("malformed transition value %q", line[0:8]))
	}
	ts, err := strconv.ParseInt(line[9:], 10, 64)
	if err != nil {
		return 0, 0, domain.ErrInvalidData.WithDetails(
			fmt.Sprintf("malformed transition timestamp %q", line[9:]))
	}
	return uint32(hi)<<16 | uint32(lo), ts, nil
}

func parseLegacySample(line string, digits int) (uint32, error) {
	if len(line) != digits {
		return 0, domain.ErrInvalidData.WithDetails(
			fmt.Sprintf("sample line %q is not %d hex digits", line, digits))
	}
	if digits == 8 {
		hi, err := strconv.ParseUint(line[0:4], 16, 16)
		if err != nil {
			return 0, domain.ErrInvalidData.WithDetails(
				fmt.Sprintf("malformed sample %q", line))
		}
		lo, err := strconv.ParseUint(line[4:8], 16, 16)
		if err != nil {
			return 0, domain.ErrInvalidData.WithDetails(
				fmt.Sprintf("malformed sample %q", line))
		}
		return uint32(hi)<<16 | uint32(lo), nil
	}
	v, err := strconv.ParseUint(line, 16, 16)
	if err != nil {
		return 0, domain.ErrInvalidData.WithDetails(
			fmt.Sprintf("malformed sample %q", line))
	}
	return uint32(v), nil
}

// build assembles the document, running trigger and cursor migration
// against the final timestamp list.
func (h *header) build(values []uint32, timestamps []int64, absoluteLength int64) (*Document, error) {
	trigger := migrateTrigger(h.trigger, h.triggerSet, timestamps)

	enabled := h.enabledChannels
	if !h.enabledSet {
		enabled = defaultEnabledMask(h.channels)
	}

	capture, err := domain.NewCapture(values, timestamps, trigger, h.rate, h.channels, enabled, absoluteLength)
	if err != nil {
		return nil, domain.ErrInvalidData.WithCause(err)
	}

	doc := NewDocument(capture)
	doc.CursorsEnabled = h.cursorsEnabled
	for i := range h.cursors {
		if !h.cursorSet[i] || h.cursors[i] == domain.CursorUnset {
			continue
		}
		doc.CursorPositions[i] = migrateCursor(h.cursors[i], timestamps)
	}
	return doc, nil
}

// migrateTrigger resolves the ambiguous trigger field: a value within
// the transition count is already an index, anything larger is a
// legacy absolute time resolved to the first transition past it.
func migrateTrigger(raw int64, set bool, timestamps []int64) int {
	if !set || raw < 0 {
		return domain.NotAvailable
	}
	if raw <= int64(len(timestamps)) {
		return int(raw)
	}
	for i := 1; i < len(timestamps); i++ {
		if timestamps[i] > raw {
			return i
		}
	}
	return domain.NotAvailable
}

// migrateCursor applies the same index-or-time disambiguation to a
// cursor slot.
func migrateCursor(raw int64, timestamps []int64) int64 {
	if raw >= 0 && raw <= int64(len(timestamps)) {
		return raw
	}
	for i := 1; i < len(timestamps); i++ {
		if timestamps[i] > raw {
			return int64(i)
		}
	}
	return domain.CursorUnset
}

func defaultEnabledMask(channels int) uint32 {
	if channels >= 32 {
		return 0xffffffff
	}
	return (1 << uint(channels)) - 1
}
