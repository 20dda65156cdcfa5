// Package trace captures controller exchanges for offline debugging.
//
// A Recorder receives one Event per step of a logical operation: service
// acquire, session open, each parameter-block call, session close and service
// release. Recorders must be safe for concurrent use because every caller
// runs its own session.
//
// Capture files are a stream of CBOR-encoded events (see FileRecorder and
// Decode). For development, SlogRecorder prints the same events at debug level.
package trace

import "time"

// Recorder receives exchange events.
type Recorder interface {
	Record(ev Event)
}

// Phase is the lifecycle step an Event belongs to.
type Phase uint8

const (
	PhaseAcquire Phase = iota
	PhaseOpen
	PhaseCall
	PhaseClose
	PhaseRelease
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseAcquire:
		return "ACQUIRE"
	case PhaseOpen:
		return "OPEN"
	case PhaseCall:
		return "CALL"
	case PhaseClose:
		return "CLOSE"
	case PhaseRelease:
		return "RELEASE"
	default:
		return "UNKNOWN"
	}
}

// Event is one captured step. CBOR encoding uses integer keys.
type Event struct {
	Timestamp time.Time `cbor:"1,keyasint"`
	SessionID string    `cbor:"2,keyasint,omitempty"`
	Op        string    `cbor:"3,keyasint,omitempty"`
	Phase     Phase     `cbor:"4,keyasint"`

	// Call fields; zero for lifecycle phases.
	Selector uint8  `cbor:"5,keyasint,omitempty"`
	SubOp    uint8  `cbor:"6,keyasint,omitempty"`
	Key      string `cbor:"7,keyasint,omitempty"`
	Size     uint32 `cbor:"8,keyasint,omitempty"`
	Result   uint8  `cbor:"9,keyasint,omitempty"`

	Duration time.Duration `cbor:"10,keyasint,omitempty"`
	Err      string        `cbor:"11,keyasint,omitempty"`
}

// Noop discards all events. The zero value is ready to use.
type Noop struct{}

// Record discards ev.
func (Noop) Record(Event) {}

// Multi fans events out to several recorders.
type Multi []Recorder

// Record forwards ev to every recorder.
func (m Multi) Record(ev Event) {
	for _, r := range m {
		r.Record(ev)
	}
}

var (
	_ Recorder = Noop{}
	_ Recorder = Multi(nil)
)
