// internal/status/snapshot.go
package status

// Snapshot is the SOC source state as seen by the poller.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health           uint16
	LastErrorCode    uint16
	SecondsInError   uint16
	SecondsSinceGood uint16
	SOC              uint16
}
