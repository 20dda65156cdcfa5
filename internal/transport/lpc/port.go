package lpc

import "errors"

// ErrUnsupported is returned on platforms without raw port access.
var ErrUnsupported = errors.New("lpc: port I/O not supported on this platform")

// Port is byte-wide access to the I/O port space.
type Port interface {
	In(port uint16) (byte, error)
	Out(port uint16, v byte) error
	Close() error
}
