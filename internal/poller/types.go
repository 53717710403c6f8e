// internal/poller/types.go
package poller

import (
	"context"
	"time"

	"github.com/tamzrod/bms-emulator/internal/status"
)

// Source abstracts where the SOC comes from (file today, a second Modbus
// master tomorrow). The poller depends on this contract only.
type Source interface {
	// Read returns the raw SOC percentage. Values outside 0..100 are
	// handed back verbatim; range policy belongs to the poller.
	Read(ctx context.Context) (int, error)
}

// Sink adopts published SOC values. registers.Table implements it.
type Sink interface {
	SetSOC(pct uint16) bool
}

// Observer receives poll outcomes (metrics). All methods must be cheap.
type Observer interface {
	SOCPublished(pct uint16, at time.Time)
	SourceStatus(st status.Snapshot)
}

// RangePolicy decides what happens to a SOC outside 0..100.
type RangePolicy int

const (
	// RangeClamp pins the value to the nearest bound.
	RangeClamp RangePolicy = iota
	// RangeReject drops the sample and keeps the previous SOC.
	RangeReject
)

// ParseRangePolicy maps a config string to a RangePolicy.
func ParseRangePolicy(s string) (RangePolicy, bool) {
	switch s {
	case "", "clamp":
		return RangeClamp, true
	case "reject":
		return RangeReject, true
	default:
		return RangeClamp, false
	}
}

// Sample is one accepted SOC reading.
type Sample struct {
	Percent uint16
	At      time.Time
}
