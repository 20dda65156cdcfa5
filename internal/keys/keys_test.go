package keys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/smc-keys/internal/smc"
	"github.com/tamzrod/smc-keys/internal/transport/sim"
)

func newHardware(t *testing.T) (Helpers, *sim.Controller) {
	t.Helper()
	ctrl := sim.New()
	return New(smc.NewClient(smc.NewManager(ctrl))), ctrl
}

func TestWakeTimer_PrimeThenResult(t *testing.T) {
	h, ctrl := newHardware(t)
	ctx := context.Background()
	require.NoError(t, ctrl.Set(smc.KeyWakeClock, "ui16", []byte{0xFF, 0xFF}))

	require.NoError(t, h.PrimeWakeTimer(ctx))

	wire, ok := ctrl.Value(smc.KeyWakeClock)
	require.True(t, ok)
	assert.Equal(t, []byte{0x00, 0x01}, wire)

	// Controller reports 16 ms, most-significant byte first.
	require.NoError(t, ctrl.Set(smc.KeyWakeClock, "ui16", []byte{0x00, 0x10}))

	ms, err := h.ReadWakeTimerResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(16), ms)
}

func TestWakeTimer_NormalizedBytes(t *testing.T) {
	ctrl := sim.New()
	c := smc.NewClient(smc.NewManager(ctrl))
	require.NoError(t, ctrl.Set(smc.KeyWakeClock, "ui16", []byte{0x00, 0x10}))

	buf := make([]byte, 2)
	_, err := c.ReadKey(context.Background(), smc.KeyWakeClock, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0x00}, buf)
}

func TestReadInt32(t *testing.T) {
	h, ctrl := newHardware(t)
	key := smc.MustKey("B0FC")
	require.NoError(t, ctrl.Set(key, "ui32", []byte{0x00, 0x00, 0x1B, 0x58}))

	v, err := h.ReadInt32(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, uint32(7000), v)
}

func TestReadInt32_ShortKeyZeroExtends(t *testing.T) {
	h, ctrl := newHardware(t)
	key := smc.MustKey("B0CT")
	require.NoError(t, ctrl.Set(key, "ui16", []byte{0x01, 0x2C}))

	v, err := h.ReadInt32(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, uint32(300), v)
}

func TestReadInt32_NotFound(t *testing.T) {
	h, _ := newHardware(t)

	_, err := h.ReadInt32(context.Background(), smc.MustKey("NONE"))
	assert.ErrorIs(t, err, smc.ErrKeyNotFound)
}

func TestReadAdapterIdentity_Raw(t *testing.T) {
	h, ctrl := newHardware(t)
	raw := []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}
	require.NoError(t, ctrl.Set(smc.KeyAdapterID, "ch8*", raw))

	id, err := h.ReadAdapterIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, raw, id[:])
	assert.Equal(t, "1122334455667788", id.String())
	assert.Equal(t, uint64(0x8877665544332211), id.Uint64())
}

func TestUnavailable_ReportsUnavailable(t *testing.T) {
	h := Unavailable()
	ctx := context.Background()

	_, err := h.ReadInt32(ctx, smc.MustKey("B0AC"))
	assert.ErrorIs(t, err, smc.ErrServiceUnavailable)

	_, err = h.ReadAdapterIdentity(ctx)
	assert.ErrorIs(t, err, smc.ErrServiceUnavailable)

	assert.ErrorIs(t, h.PrimeWakeTimer(ctx), smc.ErrServiceUnavailable)

	_, err = h.ReadWakeTimerResult(ctx)
	assert.ErrorIs(t, err, smc.ErrServiceUnavailable)

	assert.Equal(t, smc.StatusServiceUnavailable, smc.StatusOf(err))
}
