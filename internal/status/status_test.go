package status

import (
	"errors"
	"testing"

	"github.com/tamzrod/smc-keys/internal/smc"
)

func TestTracker_StartsUnknown(t *testing.T) {
	var tr Tracker
	if got := tr.Snapshot().Health; got != HealthUnknown {
		t.Fatalf("health: got=%d want=%d", got, HealthUnknown)
	}
	// Unknown is not OK, so the counter runs.
	if !tr.Tick() {
		t.Fatalf("expected tick to advance from unknown")
	}
}

func TestTracker_ErrorThenRecovery(t *testing.T) {
	var tr Tracker

	if !tr.Observe(&smc.Error{Op: "read", Kind: smc.ErrKeyNotFound}) {
		t.Fatalf("expected change on first error")
	}
	s := tr.Snapshot()
	if s.Health != HealthError || s.LastErrorCode != uint16(smc.StatusKeyNotFound) {
		t.Fatalf("unexpected snapshot: %+v", s)
	}

	tr.Tick()
	tr.Tick()
	if tr.Snapshot().SecondsInError != 2 {
		t.Fatalf("seconds: got=%d", tr.Snapshot().SecondsInError)
	}

	// Same error again: no change, counter kept.
	if tr.Observe(&smc.Error{Op: "read", Kind: smc.ErrKeyNotFound}) {
		t.Fatalf("expected no change on repeated error")
	}

	if !tr.Observe(nil) {
		t.Fatalf("expected change on recovery")
	}
	s = tr.Snapshot()
	if s.Health != HealthOK || s.LastErrorCode != 0 || s.SecondsInError != 0 {
		t.Fatalf("unexpected snapshot after recovery: %+v", s)
	}
	if tr.Tick() {
		t.Fatalf("tick must not advance while OK")
	}
}

func TestTracker_Unavailable(t *testing.T) {
	var tr Tracker
	tr.Observe(&smc.Error{Op: "read", Kind: smc.ErrServiceUnavailable})

	s := tr.Snapshot()
	if s.Health != HealthUnavailable {
		t.Fatalf("health: got=%s", HealthName(s.Health))
	}
	if s.LastErrorCode != uint16(smc.StatusServiceUnavailable) {
		t.Fatalf("code: got=%d", s.LastErrorCode)
	}
}

func TestTracker_UnknownErrorIsFault(t *testing.T) {
	var tr Tracker
	tr.Observe(errors.New("boom"))
	if got := tr.Snapshot().LastErrorCode; got != uint16(smc.StatusControllerFault) {
		t.Fatalf("code: got=%d", got)
	}
}

func TestTracker_Saturates(t *testing.T) {
	tr := Tracker{snap: Snapshot{Health: HealthError, SecondsInError: MaxSecondsInError - 1}}
	if !tr.Tick() {
		t.Fatalf("expected last increment")
	}
	if tr.Tick() {
		t.Fatalf("expected saturation")
	}
	if tr.Snapshot().SecondsInError != MaxSecondsInError {
		t.Fatalf("seconds: got=%d", tr.Snapshot().SecondsInError)
	}
}

func TestEncode(t *testing.T) {
	regs := Encode(Snapshot{Health: HealthError, LastErrorCode: 3, SecondsInError: 9, AdapterKnown: true})
	if len(regs) != SlotsPerBlock {
		t.Fatalf("len: got=%d", len(regs))
	}
	want := []uint16{HealthError, 3, 9, 1}
	for i := range want {
		if regs[i] != want[i] {
			t.Fatalf("slot %d: got=%d want=%d", i, regs[i], want[i])
		}
	}
}

func TestObserveAdapter(t *testing.T) {
	var tr Tracker
	if !tr.ObserveAdapter(true) || tr.ObserveAdapter(true) {
		t.Fatalf("expected change only on transition")
	}
}
