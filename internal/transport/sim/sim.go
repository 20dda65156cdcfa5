// Package sim is an in-memory controller. It speaks the parameter-block
// protocol exactly like hardware would, stores values most-significant byte
// first, and counts every lifecycle step so tests can assert on call counts
// and session concurrency.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tamzrod/smc-keys/internal/smc"
)

// ErrAbsent is returned by Acquire when the controller is configured absent.
var ErrAbsent = errors.New("sim: controller absent")

type entry struct {
	info  smc.KeyInfo
	value [smc.PayloadSize]byte
}

// Stats is a snapshot of the controller counters.
type Stats struct {
	Acquires int64
	Releases int64
	Opens    int64
	Closes   int64

	// Per sub-operation call counts.
	Infos  int64
	Reads  int64
	Writes int64

	OpenNow  int64
	PeakOpen int64
}

// Controller is a simulated controller. It implements smc.Driver.
type Controller struct {
	mu       sync.Mutex
	keys     map[smc.Key]*entry
	override map[smc.Key]uint8

	// Fault injection.
	Absent   bool
	OpenErr  error
	CallErr  error
	CloseErr error

	// OnCall, when set, runs inside every Call before the response is built.
	OnCall func(in *smc.ParamBlock)

	acquires, releases atomic.Int64
	opens, closes      atomic.Int64
	infos, reads       atomic.Int64
	writes             atomic.Int64
	openNow, peakOpen  atomic.Int64
}

// New returns an empty, present controller.
func New() *Controller {
	return &Controller{
		keys:     make(map[smc.Key]*entry),
		override: make(map[smc.Key]uint8),
	}
}

// Set stores wire (controller order) as the value of key and reports its size
// as len(wire).
func (c *Controller) Set(key smc.Key, dataType string, wire []byte) error {
	if len(wire) > smc.PayloadSize {
		return fmt.Errorf("sim: value for %s is %d bytes, max %d", key, len(wire), smc.PayloadSize)
	}

	var typ uint32
	if dataType != "" {
		t, err := smc.KeyOf(dataType)
		if err != nil {
			return fmt.Errorf("sim: data type: %w", err)
		}
		typ = uint32(t)
	}

	e := &entry{info: smc.KeyInfo{DataSize: uint32(len(wire)), DataType: typ}}
	copy(e.value[:], wire)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[key] = e
	return nil
}

// Value returns the stored bytes of key in controller order.
func (c *Controller) Value(key smc.Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.keys[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, e.info.DataSize)
	copy(out, e.value[:])
	return out, true
}

// FailKey makes every call on key report result.
func (c *Controller) FailKey(key smc.Key, result uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override[key] = result
}

// Stats returns the current counters.
func (c *Controller) Stats() Stats {
	return Stats{
		Acquires: c.acquires.Load(),
		Releases: c.releases.Load(),
		Opens:    c.opens.Load(),
		Closes:   c.closes.Load(),
		Infos:    c.infos.Load(),
		Reads:    c.reads.Load(),
		Writes:   c.writes.Load(),
		OpenNow:  c.openNow.Load(),
		PeakOpen: c.peakOpen.Load(),
	}
}

// ---- smc.Driver ----

// Acquire implements smc.Driver.
func (c *Controller) Acquire() (smc.Service, error) {
	c.acquires.Add(1)
	if c.Absent {
		return nil, ErrAbsent
	}
	return &service{c: c}, nil
}

type service struct {
	c *Controller
}

func (s *service) Open() (smc.Session, error) {
	s.c.opens.Add(1)
	if s.c.OpenErr != nil {
		return nil, s.c.OpenErr
	}

	now := s.c.openNow.Add(1)
	for {
		peak := s.c.peakOpen.Load()
		if now <= peak || s.c.peakOpen.CompareAndSwap(peak, now) {
			break
		}
	}
	return &session{c: s.c}, nil
}

func (s *service) Release() error {
	s.c.releases.Add(1)
	return nil
}

type session struct {
	c      *Controller
	closed bool
}

func (s *session) Call(ctx context.Context, sel smc.Selector, in *smc.ParamBlock) (*smc.ParamBlock, error) {
	if s.closed {
		return nil, errors.New("sim: session closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sel != smc.SelectorHandleEvent {
		return nil, fmt.Errorf("sim: unsupported selector %s", sel)
	}

	switch in.SubOp() {
	case smc.SubGetKeyInfo:
		s.c.infos.Add(1)
	case smc.SubReadKey:
		s.c.reads.Add(1)
	case smc.SubWriteKey:
		s.c.writes.Add(1)
	}

	if s.c.OnCall != nil {
		s.c.OnCall(in)
	}
	if s.c.CallErr != nil {
		return nil, s.c.CallErr
	}

	return s.c.handle(in), nil
}

func (s *session) Close() error {
	if !s.closed {
		s.closed = true
		s.c.openNow.Add(-1)
	}
	s.c.closes.Add(1)
	return s.c.CloseErr
}

func (c *Controller) handle(in *smc.ParamBlock) *smc.ParamBlock {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := &smc.ParamBlock{Key: in.Key}

	if r, ok := c.override[in.Key]; ok {
		out.Result = r
		return out
	}

	e, ok := c.keys[in.Key]
	if !ok {
		out.Result = smc.ResultKeyNotFound
		return out
	}

	switch in.SubOp() {
	case smc.SubGetKeyInfo:
		out.KeyInfo = e.info

	case smc.SubReadKey:
		if in.KeyInfo.DataSize != e.info.DataSize {
			out.Result = smc.ResultError
			return out
		}
		out.KeyInfo = e.info
		copy(out.Bytes[:], e.value[:e.info.DataSize])

	case smc.SubWriteKey:
		if in.KeyInfo.DataSize != e.info.DataSize {
			out.Result = smc.ResultError
			return out
		}
		copy(e.value[:], in.Bytes[:e.info.DataSize])

	default:
		out.Result = smc.ResultError
	}
	return out
}

var _ smc.Driver = (*Controller)(nil)
