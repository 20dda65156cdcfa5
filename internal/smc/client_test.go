package smc_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/smc-keys/internal/smc"
	"github.com/tamzrod/smc-keys/internal/smc/mocks"
	"github.com/tamzrod/smc-keys/internal/transport/sim"
)

var keyBatt = smc.MustKey("B0AC")

func newSimClient(t *testing.T) (*smc.Client, *sim.Controller) {
	t.Helper()
	ctrl := sim.New()
	return smc.NewClient(smc.NewManager(ctrl)), ctrl
}

// mockService hands out exactly one session, which must be closed, after
// which the service must be released.
func mockService(t *testing.T) (*mocks.MockService, *mocks.MockSession) {
	t.Helper()
	svc := mocks.NewMockService(t)
	sess := mocks.NewMockSession(t)

	svc.EXPECT().Open().Return(sess, nil).Once()
	sess.EXPECT().Close().Return(nil).Once()
	svc.EXPECT().Release().Return(nil).Once()
	return svc, sess
}

// mockChain wires a driver over mockService.
func mockChain(t *testing.T) (*mocks.MockDriver, *mocks.MockService, *mocks.MockSession) {
	t.Helper()
	svc, sess := mockService(t)
	drv := mocks.NewMockDriver(t)
	drv.EXPECT().Acquire().Return(svc, nil).Once()
	return drv, svc, sess
}

func subOp(op smc.Selector) interface{} {
	return mock.MatchedBy(func(in *smc.ParamBlock) bool { return in.SubOp() == op })
}

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i + 1)
	}
	return b
}

// ---- length negotiation ----

func TestReadKey_ReturnsMinOfSizeAndBuffer(t *testing.T) {
	c, ctrl := newSimClient(t)
	ctx := context.Background()

	for size := 0; size <= smc.PayloadSize; size++ {
		require.NoError(t, ctrl.Set(keyBatt, "", pattern(size)))

		for maxLen := 0; maxLen <= 64; maxLen++ {
			buf := make([]byte, maxLen)
			for i := range buf {
				buf[i] = 0xEE
			}

			n, err := c.ReadKey(ctx, keyBatt, buf)
			require.NoError(t, err, "size=%d maxLen=%d", size, maxLen)
			require.Equal(t, min(size, maxLen), n, "size=%d maxLen=%d", size, maxLen)

			for i := n; i < maxLen; i++ {
				require.Zero(t, buf[i], "size=%d maxLen=%d tail byte %d", size, maxLen, i)
			}
		}
	}
}

func TestReadKey_ReversesNumericPayload(t *testing.T) {
	c, ctrl := newSimClient(t)
	require.NoError(t, ctrl.Set(keyBatt, "ui32", []byte{0x00, 0x00, 0x01, 0x02}))

	buf := make([]byte, 4)
	n, err := c.ReadKey(context.Background(), keyBatt, buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0x02, 0x01, 0x00, 0x00}, buf)
}

// ---- argument validation ----

func TestReadKey_InvalidArgumentsIssueNoCalls(t *testing.T) {
	drv := mocks.NewMockDriver(t)
	c := smc.NewClient(smc.NewManager(drv))
	ctx := context.Background()

	_, err := c.ReadKey(ctx, 0, make([]byte, 4))
	assert.ErrorIs(t, err, smc.ErrInvalidArgument)

	_, err = c.ReadKey(ctx, keyBatt, nil)
	assert.ErrorIs(t, err, smc.ErrInvalidArgument)

	err = c.WriteKey(ctx, 0, []byte{1})
	assert.ErrorIs(t, err, smc.ErrInvalidArgument)

	_, err = c.KeyInfo(ctx, 0)
	assert.ErrorIs(t, err, smc.ErrInvalidArgument)

	drv.AssertNotCalled(t, "Acquire")
}

// ---- two-phase fail fast ----

func TestReadKey_NotFoundSkipsAccess(t *testing.T) {
	drv, _, sess := mockChain(t)
	sess.EXPECT().
		Call(mock.Anything, smc.SelectorHandleEvent, subOp(smc.SubGetKeyInfo)).
		Return(&smc.ParamBlock{Result: smc.ResultKeyNotFound}, nil).
		Once()

	c := smc.NewClient(smc.NewManager(drv))
	_, err := c.ReadKey(context.Background(), keyBatt, make([]byte, 4))

	assert.ErrorIs(t, err, smc.ErrKeyNotFound)
	assert.Equal(t, smc.StatusKeyNotFound, smc.StatusOf(err))
	sess.AssertNumberOfCalls(t, "Call", 1)
}

func TestWriteKey_NotFoundSkipsAccess(t *testing.T) {
	c, ctrl := newSimClient(t)

	err := c.WriteKey(context.Background(), keyBatt, []byte{1, 2})
	assert.ErrorIs(t, err, smc.ErrKeyNotFound)

	st := ctrl.Stats()
	assert.Equal(t, int64(1), st.Infos)
	assert.Zero(t, st.Writes)
	assert.Zero(t, st.Reads)
}

func TestReadKey_ProbeFaultSkipsAccess(t *testing.T) {
	c, ctrl := newSimClient(t)
	require.NoError(t, ctrl.Set(keyBatt, "", []byte{1}))
	ctrl.FailKey(keyBatt, smc.ResultError)

	_, err := c.ReadKey(context.Background(), keyBatt, make([]byte, 1))
	assert.ErrorIs(t, err, smc.ErrControllerFault)
	assert.Zero(t, ctrl.Stats().Reads)
}

func TestWriteKey_AccessRejectionIsFault(t *testing.T) {
	drv, _, sess := mockChain(t)
	sess.EXPECT().
		Call(mock.Anything, smc.SelectorHandleEvent, subOp(smc.SubGetKeyInfo)).
		Return(&smc.ParamBlock{KeyInfo: smc.KeyInfo{DataSize: 2}}, nil).
		Once()
	sess.EXPECT().
		Call(mock.Anything, smc.SelectorHandleEvent, subOp(smc.SubWriteKey)).
		Return(&smc.ParamBlock{Result: smc.ResultKeyNotFound}, nil).
		Once()

	c := smc.NewClient(smc.NewManager(drv))
	err := c.WriteKey(context.Background(), keyBatt, []byte{1, 2})

	assert.ErrorIs(t, err, smc.ErrControllerFault)
	assert.NotErrorIs(t, err, smc.ErrKeyNotFound)
}

func TestReadKey_OversizedProbeClamped(t *testing.T) {
	drv, _, sess := mockChain(t)
	sess.EXPECT().
		Call(mock.Anything, smc.SelectorHandleEvent, subOp(smc.SubGetKeyInfo)).
		Return(&smc.ParamBlock{KeyInfo: smc.KeyInfo{DataSize: 200}}, nil).
		Once()
	sess.EXPECT().
		Call(mock.Anything, smc.SelectorHandleEvent, mock.MatchedBy(func(in *smc.ParamBlock) bool {
			return in.SubOp() == smc.SubReadKey && in.KeyInfo.DataSize == smc.PayloadSize
		})).
		Return(&smc.ParamBlock{}, nil).
		Once()

	c := smc.NewClient(smc.NewManager(drv))
	n, err := c.ReadKey(context.Background(), keyBatt, make([]byte, 64))
	require.NoError(t, err)
	assert.Equal(t, smc.PayloadSize, n)
}

// ---- byte order ----

func TestWriteThenRead_RoundTrip(t *testing.T) {
	c, ctrl := newSimClient(t)
	ctx := context.Background()

	for size := 1; size <= smc.PayloadSize; size++ {
		require.NoError(t, ctrl.Set(keyBatt, "", make([]byte, size)))

		want := pattern(size)
		require.NoError(t, c.WriteKey(ctx, keyBatt, want))

		got := make([]byte, size)
		n, err := c.ReadKey(ctx, keyBatt, got)
		require.NoError(t, err)
		require.Equal(t, size, n)
		require.Equal(t, want, got, "size=%d", size)
	}
}

func TestWriteKey_StoresControllerOrderAndClips(t *testing.T) {
	c, ctrl := newSimClient(t)
	require.NoError(t, ctrl.Set(keyBatt, "", make([]byte, 2)))

	require.NoError(t, c.WriteKey(context.Background(), keyBatt, pattern(40)))

	stored, ok := ctrl.Value(keyBatt)
	require.True(t, ok)
	assert.Equal(t, []byte{2, 1}, stored)
}

func TestWriteKey_ShortValueKeepsMagnitude(t *testing.T) {
	c, ctrl := newSimClient(t)
	key := smc.MustKey("B0FC")
	require.NoError(t, ctrl.Set(key, "ui32", make([]byte, 4)))

	require.NoError(t, c.WriteKey(context.Background(), key, []byte{0x01, 0x02}))

	stored, ok := ctrl.Value(key)
	require.True(t, ok)
	assert.Equal(t, []byte{0x00, 0x00, 0x02, 0x01}, stored)

	buf := make([]byte, 4)
	_, err := c.ReadKey(context.Background(), key, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x00, 0x00}, buf)
}

func TestReadKey_AdapterIDPassthrough(t *testing.T) {
	c, ctrl := newSimClient(t)

	for size := 1; size <= smc.PayloadSize; size++ {
		stored := pattern(size)
		require.NoError(t, ctrl.Set(smc.KeyAdapterID, "ch8*", stored))

		got := make([]byte, size)
		n, err := c.ReadKey(context.Background(), smc.KeyAdapterID, got)
		require.NoError(t, err)
		require.Equal(t, size, n)
		require.Equal(t, stored, got, "size=%d", size)
	}
}

// ---- resource lifetime ----

func TestReadKey_TransportErrorStillTearsDown(t *testing.T) {
	drv, _, sess := mockChain(t)
	sess.EXPECT().
		Call(mock.Anything, smc.SelectorHandleEvent, subOp(smc.SubGetKeyInfo)).
		Return(nil, errors.New("bus timeout")).
		Once()

	c := smc.NewClient(smc.NewManager(drv))
	_, err := c.ReadKey(context.Background(), keyBatt, make([]byte, 4))

	assert.ErrorIs(t, err, smc.ErrControllerFault)
	// Close and Release are asserted by mockChain's Once() expectations.
}

func TestReadKey_OpenFailureReleasesService(t *testing.T) {
	drv := mocks.NewMockDriver(t)
	svc := mocks.NewMockService(t)
	drv.EXPECT().Acquire().Return(svc, nil).Once()
	svc.EXPECT().Open().Return(nil, errors.New("not privileged")).Once()
	svc.EXPECT().Release().Return(nil).Once()

	c := smc.NewClient(smc.NewManager(drv))
	_, err := c.ReadKey(context.Background(), keyBatt, make([]byte, 4))

	assert.ErrorIs(t, err, smc.ErrResourceError)
}

func TestReadKey_TeardownErrorDoesNotMaskResult(t *testing.T) {
	c, ctrl := newSimClient(t)
	require.NoError(t, ctrl.Set(keyBatt, "", []byte{7}))
	ctrl.CloseErr = errors.New("close failed")

	buf := make([]byte, 1)
	n, err := c.ReadKey(context.Background(), keyBatt, buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(7), buf[0])
}

func TestReadKey_AbsentController(t *testing.T) {
	c, ctrl := newSimClient(t)
	ctrl.Absent = true

	_, err := c.ReadKey(context.Background(), keyBatt, make([]byte, 4))
	assert.ErrorIs(t, err, smc.ErrServiceUnavailable)
	assert.Zero(t, ctrl.Stats().Opens)
}

func TestSessionsBalancedAcrossOutcomes(t *testing.T) {
	c, ctrl := newSimClient(t)
	ctx := context.Background()
	require.NoError(t, ctrl.Set(keyBatt, "", []byte{1, 2}))

	_, _ = c.ReadKey(ctx, keyBatt, make([]byte, 2))
	_, _ = c.ReadKey(ctx, smc.MustKey("NONE"), make([]byte, 2))
	_ = c.WriteKey(ctx, keyBatt, []byte{3, 4})
	_, _ = c.KeyInfo(ctx, keyBatt)

	st := ctrl.Stats()
	assert.Equal(t, int64(4), st.Acquires)
	assert.Equal(t, st.Acquires, st.Releases)
	assert.Equal(t, st.Opens, st.Closes)
	assert.Zero(t, st.OpenNow)
}

func TestKeyInfo(t *testing.T) {
	c, ctrl := newSimClient(t)
	require.NoError(t, ctrl.Set(keyBatt, "ui16", []byte{0, 1}))

	info, err := c.KeyInfo(context.Background(), keyBatt)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), info.DataSize)
	assert.Equal(t, "ui16", info.TypeName())
	assert.Zero(t, ctrl.Stats().Reads)
}

// ---- timeout ----

func TestExchangeTimeoutStopsAccessPhase(t *testing.T) {
	ctrl := sim.New()
	require.NoError(t, ctrl.Set(keyBatt, "", []byte{1, 2}))
	ctrl.OnCall = func(in *smc.ParamBlock) {
		if in.SubOp() == smc.SubGetKeyInfo {
			time.Sleep(50 * time.Millisecond)
		}
	}

	c := smc.NewClient(smc.NewManager(ctrl, smc.WithExchangeTimeout(10*time.Millisecond)))
	_, err := c.ReadKey(context.Background(), keyBatt, make([]byte, 2))

	assert.ErrorIs(t, err, smc.ErrControllerFault)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, ctrl.Stats().Reads)
	assert.Zero(t, ctrl.Stats().OpenNow)
}

// ---- concurrency ----

func TestConcurrentReadersGetIndependentSessions(t *testing.T) {
	ctrl := sim.New()
	keyA, keyB := smc.MustKey("TA0P"), smc.MustKey("TB0T")
	require.NoError(t, ctrl.Set(keyA, "", []byte{0x00, 0x0A}))
	require.NoError(t, ctrl.Set(keyB, "", []byte{0x00, 0x0B}))

	// Hold each probe until both sessions are open at the same time.
	var arrive sync.WaitGroup
	arrive.Add(2)
	ctrl.OnCall = func(in *smc.ParamBlock) {
		if in.SubOp() != smc.SubGetKeyInfo {
			return
		}
		arrive.Done()
		done := make(chan struct{})
		go func() { arrive.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}

	c := smc.NewClient(smc.NewManager(ctrl))

	type result struct {
		buf []byte
		err error
	}
	results := make([]result, 2)

	var wg sync.WaitGroup
	for i, k := range []smc.Key{keyA, keyB} {
		wg.Add(1)
		go func(i int, k smc.Key) {
			defer wg.Done()
			buf := make([]byte, 2)
			_, err := c.ReadKey(context.Background(), k, buf)
			results[i] = result{buf: buf, err: err}
		}(i, k)
	}
	wg.Wait()

	require.NoError(t, results[0].err)
	require.NoError(t, results[1].err)
	assert.Equal(t, []byte{0x0A, 0x00}, results[0].buf)
	assert.Equal(t, []byte{0x0B, 0x00}, results[1].buf)
	assert.Equal(t, int64(2), ctrl.Stats().PeakOpen)
	assert.Zero(t, ctrl.Stats().OpenNow)
}
