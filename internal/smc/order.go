package smc

// The controller stores multi-byte numbers most-significant byte first.
// Callers see host (little-endian) order. The reversal is its own inverse,
// so the same routine serves both directions. KeyAdapterID is copied as is.

// fromWire fills dst with the first len(dst) payload bytes in host order.
func fromWire(key Key, dst []byte, wire []byte) {
	n := len(dst)
	if key.RawPassthrough() {
		copy(dst, wire[:n])
		return
	}
	for i := 0; i < n; i++ {
		dst[i] = wire[n-1-i]
	}
}

// toWire fills wire, sized to the negotiated length, from src in controller
// order. A numeric src shorter than wire is zero-extended at the
// most-significant end.
func toWire(key Key, wire []byte, src []byte) {
	if key.RawPassthrough() {
		copy(wire, src)
		return
	}
	for i, b := range src {
		wire[len(wire)-1-i] = b
	}
}
