// internal/status/snapshot.go
package status

import (
	"errors"

	"github.com/tamzrod/smc-keys/internal/smc"
)

// Snapshot represents exactly what gets reported.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
	AdapterKnown   bool
}

// Tracker owns a Snapshot and applies poll outcomes to it.
// Not safe for concurrent use; one goroutine drives it.
type Tracker struct {
	snap Snapshot
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot { return t.snap }

// Observe applies one cycle outcome and reports whether the snapshot changed.
func (t *Tracker) Observe(err error) bool {
	prev := t.snap

	if err == nil {
		// Recovery / OK
		t.snap.Health = HealthOK
		t.snap.LastErrorCode = 0
		t.snap.SecondsInError = 0
		return t.snap != prev
	}

	t.snap.Health = HealthError
	if errors.Is(err, smc.ErrServiceUnavailable) {
		t.snap.Health = HealthUnavailable
	}
	t.snap.LastErrorCode = uint16(smc.StatusOf(err))

	// seconds_in_error increments on Tick only.
	return t.snap != prev
}

// ObserveAdapter records whether the adapter identity was read.
func (t *Tracker) ObserveAdapter(known bool) bool {
	if t.snap.AdapterKnown == known {
		return false
	}
	t.snap.AdapterKnown = known
	return true
}

// Tick advances seconds-in-error by one while not OK.
func (t *Tracker) Tick() bool {
	if t.snap.Health == HealthOK || t.snap.SecondsInError >= MaxSecondsInError {
		return false
	}
	t.snap.SecondsInError++
	return true
}
