// internal/status/constants.go
package status

// SOC source status block layout.
// These values define the mirror protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerBlock is the fixed number of registers in the status block.
const SlotsPerBlock = 8

// ---- SLOT INDICES ----

// SlotHealthCode holds the source health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last error code reported by the source.
const SlotLastErrorCode = 1

// SlotSecondsInError holds how long (in seconds) the source has been failing.
const SlotSecondsInError = 2

// SlotSecondsSinceGood holds the age (in seconds) of the last good sample.
const SlotSecondsSinceGood = 3

// SlotSOC holds the SOC currently published to the bus.
const SlotSOC = 4

// Slots 5–7 are reserved.
const SlotReservedStart = 5
const SlotReservedEnd = 7

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state before the first poll.
const HealthUnknown uint16 = 0

// HealthOK represents a source that answered the last poll.
const HealthOK uint16 = 1

// HealthError represents a source whose last poll failed.
const HealthError uint16 = 2

// HealthStale represents a source that has not produced a good sample
// within the stale window. The bus keeps the last good SOC.
const HealthStale uint16 = 3

// ---- ERROR CODES ----

// ErrCodeNone means no error.
const ErrCodeNone uint16 = 0

// ErrCodeRead means the source could not be read.
const ErrCodeRead uint16 = 1

// ErrCodeParse means the source content was malformed.
const ErrCodeParse uint16 = 2

// ErrCodeRange means the source value was outside 0..100 and rejected.
const ErrCodeRange uint16 = 3

// HealthName returns a lowercase label for logs and metrics.
func HealthName(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	default:
		return "unknown"
	}
}
