// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/smc-keys/internal/keys"
	"github.com/tamzrod/smc-keys/internal/smc"
)

// KeyValue is the raw result of a single key read.
type KeyValue struct {
	Key   smc.Key
	Value uint32
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	At time.Time

	Values []KeyValue
	Err    error // non-nil means the key reads failed

	// Adapter identity is sampled independently; a failure here leaves the
	// identity unknown without failing the cycle.
	Adapter      keys.AdapterIdentity
	AdapterKnown bool
	AdapterErr   error
}
