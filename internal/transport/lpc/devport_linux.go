//go:build linux

package lpc

import (
	"fmt"
	"os"
)

// Supported reports whether this build can reach the controller ports.
const Supported = true

// devPort drives I/O ports through /dev/port, where the file offset is the
// port number.
type devPort struct {
	f *os.File
}

func devicePresent(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("lpc: %w", err)
	}
	return nil
}

func openDevPort(path string) (Port, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("lpc: open %s: %w", path, err)
	}
	return &devPort{f: f}, nil
}

func (p *devPort) In(port uint16) (byte, error) {
	var b [1]byte
	if _, err := p.f.ReadAt(b[:], int64(port)); err != nil {
		return 0, fmt.Errorf("lpc: inb 0x%x: %w", port, err)
	}
	return b[0], nil
}

func (p *devPort) Out(port uint16, v byte) error {
	if _, err := p.f.WriteAt([]byte{v}, int64(port)); err != nil {
		return fmt.Errorf("lpc: outb 0x%x: %w", port, err)
	}
	return nil
}

func (p *devPort) Close() error { return p.f.Close() }
