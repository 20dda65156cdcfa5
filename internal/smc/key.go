package smc

import (
	"errors"
	"fmt"
)

// Key names one controller register as four ASCII characters packed
// most-significant character first ("ACID" -> 0x41434944).
// The zero Key is never valid.
type Key uint32

// Named keys used by the helpers.
var (
	// KeyAdapterID carries an opaque adapter identifier, not a number.
	KeyAdapterID = MustKey("ACID")

	// KeyWakeClock arms the wake timer and reports its result.
	KeyWakeClock = MustKey("CLWK")
)

// KeyOf builds a Key from a four character literal.
func KeyOf(s string) (Key, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("smc: key %q must be exactly 4 characters", s)
	}
	var k uint32
	for i := 0; i < 4; i++ {
		c := s[i]
		if c < 0x20 || c > 0x7E {
			return 0, fmt.Errorf("smc: key %q contains non-printable byte 0x%02x", s, c)
		}
		k = k<<8 | uint32(c)
	}
	return Key(k), nil
}

// MustKey is KeyOf for literals known at compile time. It panics on a bad literal.
func MustKey(s string) Key {
	k, err := KeyOf(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Valid reports whether k may be sent to the controller.
func (k Key) Valid() bool { return k != 0 }

// RawPassthrough reports whether the payload of k is returned exactly as
// stored, without byte-order normalization. Only KeyAdapterID qualifies.
func (k Key) RawPassthrough() bool { return k == KeyAdapterID }

// String returns the four character form, or hex when k is not printable.
func (k Key) String() string { return fourCC(uint32(k)) }

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.New("smc: zero key")
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(b []byte) error {
	v, err := KeyOf(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

func fourCC(v uint32) string {
	b := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return fmt.Sprintf("0x%08x", v)
		}
	}
	return string(b[:])
}
