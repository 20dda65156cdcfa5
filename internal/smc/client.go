package smc

import "context"

// Client implements the two-phase key access exchange: probe the key's
// metadata, then read or write using the negotiated size. A failed probe
// always stops the operation before the access call.
//
// Client keeps no state between calls. Concurrent writers to the same key
// race; callers needing read-modify-write must serialize themselves.
type Client struct {
	mgr *Manager
}

// NewClient returns a Client issuing exchanges through m.
func NewClient(m *Manager) *Client {
	return &Client{mgr: m}
}

// ReadKey reads key into buf and returns the number of bytes filled, which
// is min(len(buf), negotiated size). Bytes past that are zeroed. A nil buf
// is an invalid argument; an empty one is not.
func (c *Client) ReadKey(ctx context.Context, key Key, buf []byte) (int, error) {
	const op = "read"

	if !key.Valid() || buf == nil {
		return 0, &Error{Op: op, Key: key, Kind: ErrInvalidArgument}
	}
	clear(buf)

	var n int
	err := c.mgr.Do(ctx, op, func(ctx context.Context, conn *Conn) error {
		info, err := c.probe(ctx, conn, op, key)
		if err != nil {
			return err
		}

		out, err := c.mgr.Invoke(ctx, conn, SelectorHandleEvent, &ParamBlock{
			Key:     key,
			Data8:   uint8(SubReadKey),
			KeyInfo: KeyInfo{DataSize: info.DataSize},
		})
		if err != nil {
			return err
		}
		if out.Result != ResultSuccess {
			return resultError(op, key, conn.ID(), out.Result)
		}

		n = min(len(buf), int(info.DataSize))
		fromWire(key, buf[:n], out.Bytes[:])
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// WriteKey writes data to key. At most the negotiated size (never more than
// PayloadSize) bytes of data are sent; the rest is dropped. Shorter numeric
// data is zero-extended, so the value keeps its magnitude. A nil data
// writes zeros.
func (c *Client) WriteKey(ctx context.Context, key Key, data []byte) error {
	const op = "write"

	if !key.Valid() {
		return &Error{Op: op, Key: key, Kind: ErrInvalidArgument}
	}

	return c.mgr.Do(ctx, op, func(ctx context.Context, conn *Conn) error {
		info, err := c.probe(ctx, conn, op, key)
		if err != nil {
			return err
		}

		in := &ParamBlock{
			Key:     key,
			Data8:   uint8(SubWriteKey),
			KeyInfo: KeyInfo{DataSize: info.DataSize},
		}
		n := min(len(data), int(info.DataSize))
		toWire(key, in.Bytes[:info.DataSize], data[:n])

		out, err := c.mgr.Invoke(ctx, conn, SelectorHandleEvent, in)
		if err != nil {
			return err
		}
		if out.Result != ResultSuccess {
			// Any write-phase rejection is a fault, including "not found".
			return &Error{Op: op, Key: key, Session: conn.ID(), Result: out.Result, Kind: ErrControllerFault}
		}
		return nil
	})
}

// KeyInfo runs the probe phase alone.
func (c *Client) KeyInfo(ctx context.Context, key Key) (KeyInfo, error) {
	const op = "info"

	if !key.Valid() {
		return KeyInfo{}, &Error{Op: op, Key: key, Kind: ErrInvalidArgument}
	}

	var info KeyInfo
	err := c.mgr.Do(ctx, op, func(ctx context.Context, conn *Conn) error {
		var err error
		info, err = c.probe(ctx, conn, op, key)
		return err
	})
	return info, err
}

// probe fetches fresh metadata for key. The negotiated size is clamped to
// PayloadSize.
func (c *Client) probe(ctx context.Context, conn *Conn, op string, key Key) (KeyInfo, error) {
	out, err := c.mgr.Invoke(ctx, conn, SelectorHandleEvent, &ParamBlock{
		Key:   key,
		Data8: uint8(SubGetKeyInfo),
	})
	if err != nil {
		return KeyInfo{}, err
	}
	if out.Result != ResultSuccess {
		return KeyInfo{}, resultError(op, key, conn.ID(), out.Result)
	}

	info := out.KeyInfo
	if info.DataSize > PayloadSize {
		info.DataSize = PayloadSize
	}
	return info, nil
}
