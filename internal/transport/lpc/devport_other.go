//go:build !linux

package lpc

// Supported reports whether this build can reach the controller ports.
const Supported = false

func devicePresent(string) error { return ErrUnsupported }

func openDevPort(string) (Port, error) { return nil, ErrUnsupported }
