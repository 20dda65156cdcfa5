// internal/status/encode.go
package status

import "fmt"

// Encode converts a Snapshot into a full status block.
// Layout is fixed.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerBlock)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	if s.AdapterKnown {
		regs[SlotAdapterKnown] = 1
	}

	return regs
}

// String renders s for log lines.
func (s Snapshot) String() string {
	return fmt.Sprintf("health=%s last_error=%d seconds_in_error=%d adapter_known=%t",
		HealthName(s.Health), s.LastErrorCode, s.SecondsInError, s.AdapterKnown)
}
