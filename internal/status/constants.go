// internal/status/constants.go
package status

// Status block layout constants.
// These values define the published layout and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerBlock is the fixed number of logical slots in a status block.
const SlotsPerBlock = 4

// ---- SLOT INDICES ----

// SlotHealthCode holds the controller health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the smc.Status of the last failure.
const SlotLastErrorCode = 1

// SlotSecondsInError holds the duration (in seconds) the controller has been in error.
const SlotSecondsInError = 2

// SlotAdapterKnown is 1 when the last cycle read the adapter identity.
const SlotAdapterKnown = 3

// ---- LIMITS ----

// MaxSecondsInError is where the seconds counter saturates.
const MaxSecondsInError = 65535

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a healthy controller.
const HealthOK uint16 = 1

// HealthError represents a controller error state.
const HealthError uint16 = 2

// HealthUnavailable represents a platform without a reachable controller.
const HealthUnavailable uint16 = 3

// HealthName returns a short label for h.
func HealthName(h uint16) string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthUnavailable:
		return "unavailable"
	default:
		return "invalid"
	}
}
