package trace

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: cbor encoder mode: %v", err))
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("trace: cbor decoder mode: %v", err))
	}
}

// FileRecorder appends CBOR events to a file.
type FileRecorder struct {
	mu     sync.Mutex
	file   *os.File
	enc    *cbor.Encoder
	logger *slog.Logger
	failed bool
	closed bool
}

// NewFileRecorder opens path for appending, creating it with mode 0644.
// Write failures are reported once on logger; a nil logger uses slog.Default.
func NewFileRecorder(path string, logger *slog.Logger) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileRecorder{file: f, enc: encMode.NewEncoder(f), logger: logger}, nil
}

// Record appends ev. A failed write never reaches the exchange being
// captured; only the first one is logged.
func (r *FileRecorder) Record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if err := r.enc.Encode(ev); err != nil && !r.failed {
		r.failed = true
		r.logger.Warn("trace capture write failed", "path", r.file.Name(), "error", err)
	}
}

// Close closes the file. Later Record calls are ignored.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// Decode reads every event from a capture stream.
func Decode(rd io.Reader) ([]Event, error) {
	dec := decMode.NewDecoder(rd)

	var out []Event
	for {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("trace: decode event %d: %w", len(out), err)
		}
		out = append(out, ev)
	}
}

var _ Recorder = (*FileRecorder)(nil)
