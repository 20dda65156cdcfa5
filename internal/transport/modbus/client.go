// Package modbus reaches a bench controller through a Modbus TCP gateway.
// Every parameter-block exchange is one FC23 read/write transaction: the
// request block goes out in the write window and the response block comes
// back from the read window.
package modbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/smc-keys/internal/smc"
)

// Register windows.
const (
	RequestRegisters  = 1 + smc.ParamBlockSize/2 // selector + block
	ResponseRegisters = smc.ParamBlockSize / 2
)

type Config struct {
	Endpoint        string
	UnitID          uint8
	Timeout         time.Duration
	RequestAddress  uint16
	ResponseAddress uint16
}

// Link is one gateway connection.
type Link interface {
	modbus.Client
	Close() error
}

// Dialer opens a Link.
type Dialer func(cfg Config) (Link, error)

type tcpLink struct {
	modbus.Client
	handler *modbus.TCPClientHandler
}

func (l *tcpLink) Close() error { return l.handler.Close() }

// DialTCP connects to cfg.Endpoint.
func DialTCP(cfg Config) (Link, error) {
	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &tcpLink{
		Client:  modbus.NewClient(h),
		handler: h,
	}, nil
}

// Driver implements smc.Driver over a Modbus gateway.
type Driver struct {
	cfg  Config
	dial Dialer
}

// New returns a Driver dialing with dial, or DialTCP when dial is nil.
func New(cfg Config, dial Dialer) *Driver {
	if dial == nil {
		dial = DialTCP
	}
	return &Driver{cfg: cfg, dial: dial}
}

// Acquire implements smc.Driver.
func (d *Driver) Acquire() (smc.Service, error) {
	if d.cfg.Endpoint == "" {
		return nil, errors.New("smc modbus: endpoint required")
	}
	return &service{d: d}, nil
}

type service struct {
	d *Driver
}

func (s *service) Open() (smc.Session, error) {
	link, err := s.d.dial(s.d.cfg)
	if err != nil {
		return nil, err
	}

	sess := &session{cfg: s.d.cfg, link: link}
	out, err := sess.exchange(smc.SelectorOpen, &smc.ParamBlock{})
	if err == nil && out.Result != smc.ResultSuccess {
		err = fmt.Errorf("smc modbus: open rejected (result=0x%02x)", out.Result)
	}
	if err != nil {
		_ = link.Close()
		return nil, err
	}
	return sess, nil
}

func (s *service) Release() error { return nil }

// session serializes requests on its link.
type session struct {
	mu     sync.Mutex
	cfg    Config
	link   Link
	closed bool
}

func (s *session) Call(ctx context.Context, sel smc.Selector, in *smc.ParamBlock) (*smc.ParamBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errors.New("smc modbus: session closed")
	}
	return s.exchange(sel, in)
}

func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	_, err := s.exchange(smc.SelectorClose, &smc.ParamBlock{})
	return errors.Join(err, s.link.Close())
}

func (s *session) exchange(sel smc.Selector, in *smc.ParamBlock) (*smc.ParamBlock, error) {
	req, err := encodeRequest(sel, in)
	if err != nil {
		return nil, err
	}

	resp, err := s.link.ReadWriteMultipleRegisters(
		s.cfg.ResponseAddress, ResponseRegisters,
		s.cfg.RequestAddress, RequestRegisters,
		req,
	)
	if err != nil {
		return nil, fmt.Errorf("smc modbus: %s: %w", sel, err)
	}

	out := &smc.ParamBlock{}
	if err := out.UnmarshalBinary(resp); err != nil {
		return nil, fmt.Errorf("smc modbus: %s response: %w", sel, err)
	}
	return out, nil
}

// encodeRequest lays out the write window: selector register, then the block.
func encodeRequest(sel smc.Selector, in *smc.ParamBlock) ([]byte, error) {
	block, err := in.MarshalBinary()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 2, RequestRegisters*2)
	out[1] = byte(sel)
	return append(out, block...), nil
}

var _ smc.Driver = (*Driver)(nil)
