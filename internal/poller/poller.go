// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/tamzrod/smc-keys/internal/keys"
	"github.com/tamzrod/smc-keys/internal/smc"
)

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval        time.Duration
	Keys            []smc.Key
	AdapterIdentity bool
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg     Config
	helpers keys.Helpers
}

// New creates a poller with immutable config.
func New(cfg Config, h keys.Helpers) (*Poller, error) {
	if h == nil {
		return nil, errors.New("poller: helpers required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Keys) == 0 && !cfg.AdapterIdentity {
		return nil, errors.New("poller: nothing to poll")
	}
	return &Poller{cfg: cfg, helpers: h}, nil
}

// PollOnce performs exactly one poll cycle.
// Key reads are all-or-nothing: any failure aborts them.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	res := PollResult{At: time.Now()}

	if p.cfg.AdapterIdentity {
		id, err := p.helpers.ReadAdapterIdentity(ctx)
		if err != nil {
			res.AdapterErr = err
		} else {
			res.Adapter, res.AdapterKnown = id, true
		}
	}

	values := make([]KeyValue, 0, len(p.cfg.Keys))
	for _, k := range p.cfg.Keys {
		v, err := p.helpers.ReadInt32(ctx, k)
		if err != nil {
			res.Err = err
			return res
		}
		values = append(values, KeyValue{Key: k, Value: v})
	}

	// Commit only if all reads succeeded
	res.Values = values
	return res
}
