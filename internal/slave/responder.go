// internal/slave/responder.go
package slave

import (
	"errors"

	"github.com/tamzrod/bms-emulator/internal/registers"
	"github.com/tamzrod/bms-emulator/internal/rtu"
)

// ErrOutOfWindow rejects reads that leave the served window under WindowDrop.
var ErrOutOfWindow = errors.New("slave: read leaves served window")

// WindowPolicy decides how reads partly outside the served window are handled.
type WindowPolicy int

const (
	// WindowDrop stays silent, like the other slaves observed on the bus.
	WindowDrop WindowPolicy = iota
	// WindowZeroFill answers with 0x0000 for unresolved addresses.
	WindowZeroFill
)

// ParseWindowPolicy maps a config string to a WindowPolicy.
func ParseWindowPolicy(s string) (WindowPolicy, bool) {
	switch s {
	case "", "drop":
		return WindowDrop, true
	case "zero_fill":
		return WindowZeroFill, true
	default:
		return WindowDrop, false
	}
}

// Snapshotter hands out the current register view. registers.Table implements it.
type Snapshotter interface {
	Snapshot() *registers.Snapshot
}

// respond builds the FC3 reply for req from one snapshot, so every value in
// the reply comes from the same publish.
func respond(req rtu.ReadRequest, snap *registers.Snapshot, policy WindowPolicy) ([]byte, error) {
	values, complete := snap.Read(req.Start, req.Count)
	if !complete && policy == WindowDrop {
		return nil, ErrOutOfWindow
	}
	return rtu.EncodeReadResponse(req, values)
}
