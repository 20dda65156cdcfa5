// Package keys exposes the fixed, named controller operations used by the
// power-management agent. It is the only surface of the controller client
// meant for callers outside it.
//
// Two implementations exist: New issues real exchanges through an smc.Client,
// Unavailable answers ErrServiceUnavailable to everything without touching a
// driver. Which one a process uses is decided once, from the platform
// capability flag (see package platform).
package keys

import (
	"context"
	"encoding/binary"
	"encoding/hex"

	"github.com/tamzrod/smc-keys/internal/smc"
)

// Helpers is the controller capability.
type Helpers interface {
	// ReadInt32 reads a 32-bit numeric key.
	ReadInt32(ctx context.Context, key smc.Key) (uint32, error)

	// ReadAdapterIdentity reads the 8-byte power adapter identifier.
	ReadAdapterIdentity(ctx context.Context) (AdapterIdentity, error)

	// PrimeWakeTimer arms the wake timer.
	PrimeWakeTimer(ctx context.Context) error

	// ReadWakeTimerResult returns the wake timer result in milliseconds.
	ReadWakeTimerResult(ctx context.Context) (uint16, error)
}

// AdapterIdentity is the raw adapter identifier, byte for byte as the
// controller stores it.
type AdapterIdentity [8]byte

// Uint64 interprets the identifier as a little-endian integer.
func (a AdapterIdentity) Uint64() uint64 { return binary.LittleEndian.Uint64(a[:]) }

// String renders the identifier as hex.
func (a AdapterIdentity) String() string { return hex.EncodeToString(a[:]) }

// wakeTimerEnable is the value written to arm the wake timer. On the wire it
// is the two bytes 0x00 0x01.
const wakeTimerEnable uint16 = 1

type hardware struct {
	c *smc.Client
}

// New returns Helpers backed by c.
func New(c *smc.Client) Helpers {
	return &hardware{c: c}
}

func (h *hardware) ReadInt32(ctx context.Context, key smc.Key) (uint32, error) {
	var buf [4]byte
	if _, err := h.c.ReadKey(ctx, key, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (h *hardware) ReadAdapterIdentity(ctx context.Context) (AdapterIdentity, error) {
	var id AdapterIdentity
	if _, err := h.c.ReadKey(ctx, smc.KeyAdapterID, id[:]); err != nil {
		return AdapterIdentity{}, err
	}
	return id, nil
}

func (h *hardware) PrimeWakeTimer(ctx context.Context) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], wakeTimerEnable)
	return h.c.WriteKey(ctx, smc.KeyWakeClock, buf[:])
}

func (h *hardware) ReadWakeTimerResult(ctx context.Context) (uint16, error) {
	var buf [2]byte
	if _, err := h.c.ReadKey(ctx, smc.KeyWakeClock, buf[:]); err != nil {
		return 0, err
	}
	return uint16(buf[0]) | uint16(buf[1])<<8, nil
}

// ---- no controller ----

type unavailable struct{}

// Unavailable returns Helpers for platforms without a controller.
func Unavailable() Helpers { return unavailable{} }

func errUnavailable(op string, key smc.Key) error {
	return &smc.Error{Op: op, Key: key, Kind: smc.ErrServiceUnavailable}
}

func (unavailable) ReadInt32(_ context.Context, key smc.Key) (uint32, error) {
	return 0, errUnavailable("read", key)
}

func (unavailable) ReadAdapterIdentity(context.Context) (AdapterIdentity, error) {
	return AdapterIdentity{}, errUnavailable("read", smc.KeyAdapterID)
}

func (unavailable) PrimeWakeTimer(context.Context) error {
	return errUnavailable("write", smc.KeyWakeClock)
}

func (unavailable) ReadWakeTimerResult(context.Context) (uint16, error) {
	return 0, errUnavailable("read", smc.KeyWakeClock)
}

var (
	_ Helpers = (*hardware)(nil)
	_ Helpers = unavailable{}
)
