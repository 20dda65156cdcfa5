package smc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/smc-keys/internal/trace"
)

// Driver locates the controller service. Transports implement it.
type Driver interface {
	Acquire() (Service, error)
}

// Service is a reference to the controller service.
type Service interface {
	Open() (Session, error)
	Release() error
}

// Session is an exclusive privileged channel to the controller.
// Call performs one synchronous fixed-size exchange. A returned error means
// the transport failed; controller-level failures travel in the Result byte.
type Session interface {
	Call(ctx context.Context, sel Selector, in *ParamBlock) (*ParamBlock, error)
	Close() error
}

// Conn is an open session owned by exactly one logical operation.
type Conn struct {
	id   string
	op   string
	sess Session
}

// ID returns the session id used in logs and trace records.
func (c *Conn) ID() string { return c.id }

// Manager owns the controller driver and scopes every session to a single
// logical operation. It holds no per-call state and is safe for concurrent use.
type Manager struct {
	driver  Driver
	logger  *slog.Logger
	rec     trace.Recorder
	timeout time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithRecorder sets the exchange recorder.
func WithRecorder(r trace.Recorder) Option {
	return func(m *Manager) {
		if r != nil {
			m.rec = r
		}
	}
}

// WithExchangeTimeout bounds each logical operation. Zero means unbounded.
func WithExchangeTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// NewManager creates a Manager over d.
func NewManager(d Driver, opts ...Option) *Manager {
	m := &Manager{
		driver: d,
		logger: slog.Default(),
		rec:    trace.Noop{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Acquire returns a reference to the controller service.
func (m *Manager) Acquire(op string) (Service, error) {
	if m.driver == nil {
		return nil, &Error{Op: op, Kind: ErrServiceUnavailable}
	}

	svc, err := m.driver.Acquire()
	if err == nil && svc == nil {
		err = errors.New("driver returned no service")
	}
	m.rec.Record(trace.Event{Timestamp: time.Now(), Op: op, Phase: trace.PhaseAcquire, Err: errText(err)})
	if err != nil {
		return nil, &Error{Op: op, Kind: ErrServiceUnavailable, Cause: err}
	}
	return svc, nil
}

// Open establishes a fresh session on svc.
func (m *Manager) Open(op string, svc Service) (*Conn, error) {
	id := uuid.NewString()

	sess, err := svc.Open()
	if err == nil && sess == nil {
		err = errors.New("driver returned no session")
	}
	m.rec.Record(trace.Event{Timestamp: time.Now(), SessionID: id, Op: op, Phase: trace.PhaseOpen, Err: errText(err)})
	if err != nil {
		return nil, &Error{Op: op, Session: id, Kind: ErrResourceError, Cause: err}
	}

	m.logger.Debug("smc session opened", "session", id, "op", op)
	return &Conn{id: id, op: op, sess: sess}, nil
}

// Invoke performs one exchange on c. Only transport failures are reported
// here; the caller interprets the response Result.
func (m *Manager) Invoke(ctx context.Context, c *Conn, sel Selector, in *ParamBlock) (*ParamBlock, error) {
	start := time.Now()

	var out *ParamBlock
	err := ctx.Err()
	if err == nil {
		out, err = c.sess.Call(ctx, sel, in)
		if err == nil && out == nil {
			err = errors.New("empty response")
		}
	}

	ev := trace.Event{
		Timestamp: start,
		SessionID: c.id,
		Op:        c.op,
		Phase:     trace.PhaseCall,
		Selector:  uint8(sel),
		SubOp:     in.Data8,
		Key:       in.Key.String(),
		Size:      in.KeyInfo.DataSize,
		Duration:  time.Since(start),
		Err:       errText(err),
	}
	if out != nil {
		ev.Result = out.Result
	}
	m.rec.Record(ev)

	if err != nil {
		return nil, &Error{Op: c.op, Key: in.Key, Session: c.id, Kind: ErrControllerFault, Cause: err}
	}
	return out, nil
}

// Close tears down c.
func (m *Manager) Close(c *Conn) error {
	err := c.sess.Close()
	m.rec.Record(trace.Event{Timestamp: time.Now(), SessionID: c.id, Op: c.op, Phase: trace.PhaseClose, Err: errText(err)})
	if err != nil {
		m.logger.Warn("smc session close failed", "session", c.id, "op", c.op, "error", err)
		return err
	}
	m.logger.Debug("smc session closed", "session", c.id, "op", c.op)
	return nil
}

// Release drops the service reference.
func (m *Manager) Release(op string, svc Service) error {
	err := svc.Release()
	m.rec.Record(trace.Event{Timestamp: time.Now(), Op: op, Phase: trace.PhaseRelease, Err: errText(err)})
	if err != nil {
		m.logger.Warn("smc service release failed", "op", op, "error", err)
	}
	return err
}

// Do runs fn inside one freshly opened session. The session is closed and
// the service released, in that order, on every return path. Teardown errors
// are logged and never replace the error returned by fn.
func (m *Manager) Do(ctx context.Context, op string, fn func(ctx context.Context, c *Conn) error) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	svc, err := m.Acquire(op)
	if err != nil {
		return err
	}
	defer m.Release(op, svc)

	c, err := m.Open(op, svc)
	if err != nil {
		return err
	}
	defer m.Close(c)

	return fn(ctx, c)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
