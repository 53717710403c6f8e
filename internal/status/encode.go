// internal/status/encode.go
package status

// Encode converts a Snapshot into a full status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerBlock)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	regs[SlotSecondsSinceGood] = s.SecondsSinceGood
	regs[SlotSOC] = s.SOC

	return regs
}

// SaturatingSeconds clamps a second count into one register.
func SaturatingSeconds(sec float64) uint16 {
	switch {
	case sec <= 0:
		return 0
	case sec >= 65535:
		return 65535
	default:
		return uint16(sec)
	}
}
