// Package platform turns a validated config into a ready controller stack:
// driver, manager, client and the keys.Helpers capability, plus the logger
// and exchange recorder they share.
package platform

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/tamzrod/smc-keys/internal/config"
	"github.com/tamzrod/smc-keys/internal/keys"
	"github.com/tamzrod/smc-keys/internal/smc"
	"github.com/tamzrod/smc-keys/internal/trace"
	"github.com/tamzrod/smc-keys/internal/transport/lpc"
	"github.com/tamzrod/smc-keys/internal/transport/modbus"
	"github.com/tamzrod/smc-keys/internal/transport/sim"
)

// ControllerBuiltIn reports whether this build targets a platform with a
// directly reachable controller.
const ControllerBuiltIn = lpc.Supported

// Runtime is the assembled controller stack.
type Runtime struct {
	Helpers keys.Helpers

	// Client and Driver are nil when the controller is not present.
	Client *smc.Client
	Driver smc.Driver

	closers []func() error
}

// Close releases everything Build opened.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	r.closers = nil
	return errors.Join(errs...)
}

// Present reports whether the controller should be used. An explicit
// config value wins. The lpc driver otherwise follows the build target;
// modbus and sim do not depend on the host.
func Present(c config.ControllerConfig) bool {
	if c.Present != nil {
		return *c.Present
	}
	if c.Driver == config.DriverLPC || c.Driver == "" {
		return ControllerBuiltIn
	}
	return true
}

// NewLogger returns a text logger on w at the named level.
func NewLogger(level string, w io.Writer) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// Build assembles the stack. cfg must have passed Validate and Normalize.
func Build(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rt := &Runtime{}

	if !Present(cfg.Controller) {
		logger.Info("smc controller not present, helpers disabled", "driver", cfg.Controller.Driver)
		rt.Helpers = keys.Unavailable()
		return rt, nil
	}

	rec, err := buildRecorder(cfg.Trace, logger, rt)
	if err != nil {
		return nil, err
	}

	drv, err := NewDriver(cfg.Controller, logger)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	mgr := smc.NewManager(drv,
		smc.WithLogger(logger),
		smc.WithRecorder(rec),
		smc.WithExchangeTimeout(time.Duration(cfg.Controller.ExchangeTimeoutMs)*time.Millisecond),
	)

	rt.Driver = drv
	rt.Client = smc.NewClient(mgr)
	rt.Helpers = keys.New(rt.Client)

	logger.Info("smc controller ready", "driver", cfg.Controller.Driver)
	return rt, nil
}

// NewDriver builds the configured transport.
func NewDriver(c config.ControllerConfig, logger *slog.Logger) (smc.Driver, error) {
	switch c.Driver {
	case config.DriverLPC, "":
		return lpc.New(lpc.Config{
			Device:   c.LPC.Device,
			DataPort: c.LPC.DataPort,
			CmdPort:  c.LPC.CmdPort,
		}, lpc.WithLogger(logger)), nil

	case config.DriverModbus:
		return modbus.New(modbus.Config{
			Endpoint:        c.Modbus.Endpoint,
			UnitID:          c.Modbus.UnitID,
			Timeout:         time.Duration(c.Modbus.TimeoutMs) * time.Millisecond,
			RequestAddress:  c.Modbus.RequestAddress,
			ResponseAddress: c.Modbus.ResponseAddress,
		}, nil), nil

	case config.DriverSim:
		return newSim(c.Sim)

	default:
		return nil, fmt.Errorf("platform: unknown driver %q", c.Driver)
	}
}

func newSim(sc config.SimConfig) (*sim.Controller, error) {
	ctrl := sim.New()
	for i, k := range sc.Keys {
		key, err := smc.KeyOf(k.Key)
		if err != nil {
			return nil, fmt.Errorf("platform: sim.keys[%d]: %w", i, err)
		}
		wire, err := hex.DecodeString(k.Bytes)
		if err != nil {
			return nil, fmt.Errorf("platform: sim.keys[%d]: %w", i, err)
		}
		if err := ctrl.Set(key, k.Type, wire); err != nil {
			return nil, fmt.Errorf("platform: sim.keys[%d]: %w", i, err)
		}
	}
	return ctrl, nil
}

func buildRecorder(tc config.TraceConfig, logger *slog.Logger, rt *Runtime) (trace.Recorder, error) {
	var m trace.Multi

	if tc.Path != "" {
		f, err := trace.NewFileRecorder(tc.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("platform: %w", err)
		}
		rt.closers = append(rt.closers, f.Close)
		m = append(m, f)
	}
	if tc.Console {
		m = append(m, trace.NewSlogRecorder(logger))
	}

	switch len(m) {
	case 0:
		return trace.Noop{}, nil
	case 1:
		return m[0], nil
	default:
		return m, nil
	}
}
