// internal/poller/builder.go
package poller

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/bms-emulator/internal/config"
	"github.com/tamzrod/bms-emulator/internal/poller/file"
	pmodbus "github.com/tamzrod/bms-emulator/internal/poller/modbus"
)

// Build constructs a Poller and wires the SOC source lifecycle.
// The returned closer releases the source (a no-op for files).
func Build(c cfg.SOCConfig, obs Observer) (*Poller, func() error, error) {
	var (
		src    Source
		closer = func() error { return nil }
	)

	switch c.Source {
	case "file":
		src = file.New(c.File.Path)

	case "modbus":
		m := c.Modbus
		ms, err := pmodbus.New(pmodbus.Config{
			Mode:     m.Mode,
			Endpoint: m.Endpoint,
			UnitID:   m.UnitID,
			Register: m.Register,
			Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
			BaudRate: m.Baud,
			DataBits: m.DataBits,
			Parity:   m.Parity,
			StopBits: m.StopBits,
		})
		if err != nil {
			return nil, nil, err
		}
		src = ms
		closer = ms.Close

	default:
		return nil, nil, fmt.Errorf("poller: unknown source %q", c.Source)
	}

	policy, ok := ParseRangePolicy(c.OutOfRange)
	if !ok {
		return nil, nil, fmt.Errorf("poller: unknown out_of_range %q", c.OutOfRange)
	}

	initial := uint16(0)
	if c.Default != nil {
		initial = uint16(*c.Default)
	}

	p, err := New(
		Config{
			Interval:   c.Interval(),
			StaleAfter: c.StaleAfter(),
			Policy:     policy,
			Observer:   obs,
		},
		src,
		initial,
	)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	return p, closer, nil
}
