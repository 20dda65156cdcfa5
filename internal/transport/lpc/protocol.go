package lpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Port protocol constants.
const (
	DefaultDataPort = 0x300
	DefaultCmdPort  = 0x304

	statusAwaitingData = 0x01
	statusInputClosed  = 0x02
	statusBusy         = 0x04

	cmdRead       = 0x10
	cmdWrite      = 0x11
	cmdGetKeyType = 0x13

	drainPolls = 16
)

// errDataPhase marks a failure after command and argument were accepted.
// The controller answers unknown keys this way.
var errDataPhase = errors.New("lpc: data phase failed")

// Timing controls status polling. Each poll sleeps the current delay; after
// BackoffAfter polls the delay doubles on every further poll.
type Timing struct {
	MinWait      time.Duration
	Polls        int
	BackoffAfter int
}

// DefaultTiming matches the Linux applesmc driver.
var DefaultTiming = Timing{
	MinWait:      16 * time.Microsecond,
	Polls:        24,
	BackoffAfter: 10,
}

type bus struct {
	p      Port
	data   uint16
	cmd    uint16
	timing Timing
	logger *slog.Logger
}

func (b *bus) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// waitStatus polls the command port until status&mask == want.
func (b *bus) waitStatus(ctx context.Context, want, mask byte) error {
	d := b.timing.MinWait
	var last byte
	for i := 0; i < b.timing.Polls; i++ {
		st, err := b.p.In(b.cmd)
		if err != nil {
			return err
		}
		if st&mask == want {
			return nil
		}
		last = st
		if err := b.sleep(ctx, d); err != nil {
			return err
		}
		if i >= b.timing.BackoffAfter {
			d <<= 1
		}
	}
	return fmt.Errorf("lpc: status 0x%02x, want 0x%02x/0x%02x", last, want, mask)
}

func (b *bus) sendCommand(ctx context.Context, c byte) error {
	if err := b.waitStatus(ctx, 0, statusInputClosed); err != nil {
		return err
	}
	return b.p.Out(b.cmd, c)
}

func (b *bus) sendByte(ctx context.Context, v byte) error {
	if err := b.waitStatus(ctx, 0, statusInputClosed); err != nil {
		return err
	}
	if err := b.waitStatus(ctx, statusBusy, statusBusy); err != nil {
		return err
	}
	return b.p.Out(b.data, v)
}

// sane brings the controller to idle. A controller stuck busy is nudged with
// a read command once.
func (b *bus) sane(ctx context.Context) error {
	if err := b.waitStatus(ctx, 0, statusBusy); err == nil {
		return nil
	}
	if err := b.sendCommand(ctx, cmdRead); err != nil {
		return err
	}
	return b.waitStatus(ctx, 0, statusBusy)
}

func (b *bus) sendArgument(ctx context.Context, c byte, key uint32, n int) error {
	if err := b.sane(ctx); err != nil {
		return fmt.Errorf("lpc: controller not idle: %w", err)
	}
	if err := b.sendCommand(ctx, c); err != nil {
		return fmt.Errorf("lpc: command 0x%02x: %w", c, err)
	}
	for shift := 24; shift >= 0; shift -= 8 {
		if err := b.sendByte(ctx, byte(key>>shift)); err != nil {
			return fmt.Errorf("lpc: key argument: %w", err)
		}
	}
	if err := b.sendByte(ctx, byte(n)); err != nil {
		return fmt.Errorf("lpc: length argument: %w", err)
	}
	return nil
}

// read runs command c for key and fills buf from the data port.
func (b *bus) read(ctx context.Context, c byte, key uint32, buf []byte) error {
	if err := b.sendArgument(ctx, c, key, len(buf)); err != nil {
		return err
	}

	for i := range buf {
		if err := b.waitStatus(ctx, statusAwaitingData|statusBusy, statusAwaitingData|statusBusy); err != nil {
			if ctx.Err() != nil {
				return err
			}
			return fmt.Errorf("%w: byte %d: %v", errDataPhase, i, err)
		}
		v, err := b.p.In(b.data)
		if err != nil {
			return err
		}
		buf[i] = v
	}

	// Drain anything the controller still offers.
	var (
		flushed int
		last    byte
	)
	for ; flushed < drainPolls; flushed++ {
		if err := b.sleep(ctx, b.timing.MinWait); err != nil {
			return err
		}
		st, err := b.p.In(b.cmd)
		if err != nil {
			return err
		}
		if st&statusAwaitingData == 0 {
			break
		}
		if last, err = b.p.In(b.data); err != nil {
			return err
		}
	}
	if flushed > 0 {
		b.logger.Warn("smc flushed trailing bytes", "count", flushed, "last", last)
	}
	return nil
}

// write runs command c for key sending data.
func (b *bus) write(ctx context.Context, c byte, key uint32, data []byte) error {
	if err := b.sendArgument(ctx, c, key, len(data)); err != nil {
		return err
	}
	for i, v := range data {
		if err := b.sendByte(ctx, v); err != nil {
			if ctx.Err() != nil {
				return err
			}
			return fmt.Errorf("%w: byte %d: %v", errDataPhase, i, err)
		}
	}
	if err := b.waitStatus(ctx, 0, statusBusy); err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: completion: %v", errDataPhase, err)
	}
	return nil
}
