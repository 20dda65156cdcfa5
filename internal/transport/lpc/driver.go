// Package lpc talks to an Apple SMC over the legacy LPC port interface, the
// way the Linux applesmc driver does. Each smc session owns an open handle on
// the port device; exchanges are serialized process-wide since there is only
// one physical port pair.
package lpc

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tamzrod/smc-keys/internal/smc"
)

// portMu serializes all access to the controller ports.
var portMu sync.Mutex

// Config describes where the controller lives.
type Config struct {
	Device   string
	DataPort uint16
	CmdPort  uint16
	Timing   Timing
}

// Driver implements smc.Driver over port I/O.
type Driver struct {
	cfg     Config
	logger  *slog.Logger
	present func(path string) error
	open    func(path string) (Port, error)
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the driver logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithPort replaces the port device with open. The device path is not checked.
func WithPort(open func() (Port, error)) Option {
	return func(d *Driver) {
		d.present = func(string) error { return nil }
		d.open = func(string) (Port, error) { return open() }
	}
}

// New returns a Driver for cfg. Zero fields take the applesmc defaults.
func New(cfg Config, opts ...Option) *Driver {
	if cfg.Device == "" {
		cfg.Device = "/dev/port"
	}
	if cfg.DataPort == 0 {
		cfg.DataPort = DefaultDataPort
	}
	if cfg.CmdPort == 0 {
		cfg.CmdPort = DefaultCmdPort
	}
	if cfg.Timing.Polls == 0 {
		cfg.Timing = DefaultTiming
	}

	d := &Driver{
		cfg:     cfg,
		logger:  slog.Default(),
		present: devicePresent,
		open:    openDevPort,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Acquire implements smc.Driver. It fails when the port device is missing.
func (d *Driver) Acquire() (smc.Service, error) {
	if err := d.present(d.cfg.Device); err != nil {
		return nil, err
	}
	return &service{d: d}, nil
}

type service struct {
	d *Driver
}

// Open opens the port device and checks the controller is idle.
func (s *service) Open() (smc.Session, error) {
	p, err := s.d.open(s.d.cfg.Device)
	if err != nil {
		return nil, err
	}

	b := &bus{
		p:      p,
		data:   s.d.cfg.DataPort,
		cmd:    s.d.cfg.CmdPort,
		timing: s.d.cfg.Timing,
		logger: s.d.logger,
	}

	portMu.Lock()
	err = b.sane(context.Background())
	portMu.Unlock()
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("lpc: controller not responding: %w", err)
	}
	return &session{b: b}, nil
}

func (s *service) Release() error { return nil }

type session struct {
	b      *bus
	closed bool
}

// Call maps one parameter-block exchange onto port commands.
func (s *session) Call(ctx context.Context, sel smc.Selector, in *smc.ParamBlock) (*smc.ParamBlock, error) {
	if s.closed {
		return nil, errors.New("lpc: session closed")
	}
	if sel != smc.SelectorHandleEvent {
		return nil, fmt.Errorf("lpc: unsupported selector %s", sel)
	}

	portMu.Lock()
	defer portMu.Unlock()

	out := &smc.ParamBlock{Key: in.Key}
	key := uint32(in.Key)

	switch in.SubOp() {
	case smc.SubGetKeyInfo:
		var info [6]byte
		err := s.b.read(ctx, cmdGetKeyType, key, info[:])
		if errors.Is(err, errDataPhase) {
			out.Result = smc.ResultKeyNotFound
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out.KeyInfo = smc.KeyInfo{
			DataSize:   uint32(info[0]),
			DataType:   binary.BigEndian.Uint32(info[1:5]),
			Attributes: info[5],
		}

	case smc.SubReadKey:
		n := min(int(in.KeyInfo.DataSize), smc.PayloadSize)
		err := s.b.read(ctx, cmdRead, key, out.Bytes[:n])
		if errors.Is(err, errDataPhase) {
			out.Result = smc.ResultError
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out.KeyInfo.DataSize = uint32(n)

	case smc.SubWriteKey:
		n := min(int(in.KeyInfo.DataSize), smc.PayloadSize)
		err := s.b.write(ctx, cmdWrite, key, in.Bytes[:n])
		if errors.Is(err, errDataPhase) {
			out.Result = smc.ResultError
			return out, nil
		}
		if err != nil {
			return nil, err
		}

	default:
		out.Result = smc.ResultError
	}
	return out, nil
}

func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.b.p.Close()
}

var _ smc.Driver = (*Driver)(nil)
