// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/smc-keys/internal/config"
	"github.com/tamzrod/smc-keys/internal/keys"
	"github.com/tamzrod/smc-keys/internal/smc"
)

// Build constructs a Poller from the poll section of the config.
func Build(pc cfg.PollConfig, h keys.Helpers) (*Poller, error) {
	return New(
		Config{
			Interval:        time.Duration(pc.IntervalMs) * time.Millisecond,
			Keys:            append([]smc.Key(nil), pc.Keys...),
			AdapterIdentity: pc.AdapterIdentity,
		},
		h,
	)
}
