package config

import (
	"encoding/hex"
	"fmt"

	"github.com/tamzrod/smc-keys/internal/smc"
)

// Modbus bridge geometry: 1 selector register + 40 block registers written,
// 40 block registers read back.
const (
	modbusRequestRegs  = 1 + smc.ParamBlockSize/2
	modbusResponseRegs = smc.ParamBlockSize / 2
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	c := cfg.Controller

	if c.ExchangeTimeoutMs < 0 {
		return fmt.Errorf("controller: exchange_timeout_ms must be >= 0, got %d", c.ExchangeTimeoutMs)
	}

	// ------------------------------------------------------------
	// DRIVER
	// ------------------------------------------------------------

	switch c.Driver {
	case "", DriverLPC:
		if c.LPC.DataPort != 0 && c.LPC.DataPort == c.LPC.CmdPort {
			return fmt.Errorf("controller.lpc: data_port and cmd_port must differ (0x%x)", c.LPC.DataPort)
		}

	case DriverModbus:
		if err := validateModbus(c.Modbus); err != nil {
			return err
		}

	case DriverSim:
		seen := make(map[string]struct{})
		for i, k := range c.Sim.Keys {
			if _, err := smc.KeyOf(k.Key); err != nil {
				return fmt.Errorf("controller.sim.keys[%d]: %w", i, err)
			}
			if _, dup := seen[k.Key]; dup {
				return fmt.Errorf("controller.sim.keys[%d]: duplicate key %q", i, k.Key)
			}
			seen[k.Key] = struct{}{}

			if k.Type != "" {
				if _, err := smc.KeyOf(k.Type); err != nil {
					return fmt.Errorf("controller.sim.keys[%d]: type: %w", i, err)
				}
			}
			b, err := hex.DecodeString(k.Bytes)
			if err != nil {
				return fmt.Errorf("controller.sim.keys[%d]: bytes: %w", i, err)
			}
			if len(b) > smc.PayloadSize {
				return fmt.Errorf("controller.sim.keys[%d]: %d bytes exceeds %d", i, len(b), smc.PayloadSize)
			}
		}

	default:
		return fmt.Errorf("controller: unknown driver %q", c.Driver)
	}

	// ------------------------------------------------------------
	// POLL
	// ------------------------------------------------------------

	if cfg.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll: interval_ms must be >= 0, got %d", cfg.Poll.IntervalMs)
	}
	for i, k := range cfg.Poll.Keys {
		if !k.Valid() {
			return fmt.Errorf("poll.keys[%d]: zero key", i)
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}

	return nil
}

func validateModbus(m ModbusConfig) error {
	if m.Endpoint == "" {
		return fmt.Errorf("controller.modbus: endpoint required")
	}
	if m.TimeoutMs < 0 {
		return fmt.Errorf("controller.modbus: timeout_ms must be >= 0, got %d", m.TimeoutMs)
	}

	// Request and response windows must not overlap (inclusive).
	reqStart := int(m.RequestAddress)
	reqEnd := reqStart + modbusRequestRegs - 1
	respStart := int(m.ResponseAddress)
	respEnd := respStart + modbusResponseRegs - 1

	if reqEnd > 0xFFFF || respEnd > 0xFFFF {
		return fmt.Errorf("controller.modbus: register window exceeds address space")
	}

	// A zero response address is replaced by Normalize when the request sits at 0.
	if m.ResponseAddress == 0 && m.RequestAddress == 0 {
		return nil
	}

	if !(reqEnd < respStart || reqStart > respEnd) {
		return fmt.Errorf(
			"controller.modbus: request range %d-%d overlaps response range %d-%d",
			reqStart, reqEnd, respStart, respEnd,
		)
	}
	return nil
}
