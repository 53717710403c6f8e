// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	// ------------------------------------------------------------
	// SERIAL LINE
	// ------------------------------------------------------------

	s := cfg.Serial
	if s.Device == "" {
		return errors.New("serial.device is required")
	}
	if s.Baud <= 0 {
		return fmt.Errorf("serial.baud %d must be > 0", s.Baud)
	}
	if s.DataBits < 5 || s.DataBits > 8 {
		return fmt.Errorf("serial.data_bits %d must be 5..8", s.DataBits)
	}
	if !validParity(s.Parity) {
		return fmt.Errorf("serial.parity %q: use N, E or O", s.Parity)
	}
	if s.StopBits != 1 && s.StopBits != 2 {
		return fmt.Errorf("serial.stop_bits %d: use 1 or 2", s.StopBits)
	}
	if s.SilenceUs < 0 || s.TurnaroundMs < 0 {
		return errors.New("serial.silence_us and serial.turnaround_ms must be >= 0")
	}
	if s.RS485.DelayRtsBeforeSendMs < 0 || s.RS485.DelayRtsAfterSendMs < 0 {
		return errors.New("serial.rs485 delays must be >= 0")
	}

	// ------------------------------------------------------------
	// SLAVE
	// ------------------------------------------------------------

	if cfg.Slave.ID < 1 || cfg.Slave.ID > 247 {
		return fmt.Errorf("slave.id %d must be 1..247", cfg.Slave.ID)
	}
	switch cfg.Slave.OutOfWindow {
	case "drop", "zero_fill":
	default:
		return fmt.Errorf("slave.out_of_window %q: use drop or zero_fill", cfg.Slave.OutOfWindow)
	}

	// ------------------------------------------------------------
	// REGISTER WINDOW GEOMETRY
	// ------------------------------------------------------------

	r := cfg.Registers
	if r.Count == 0 {
		return errors.New("registers.count must be > 0")
	}
	end := uint32(r.Start) + uint32(r.Count) // exclusive
	if end > 0x10000 {
		return fmt.Errorf("registers: window 0x%04X+%d overflows address space", r.Start, r.Count)
	}
	inside := func(a uint16) bool {
		return uint32(a) >= uint32(r.Start) && uint32(a) < end
	}

	for a := range r.Values {
		if !inside(a) {
			return fmt.Errorf("registers.values: address 0x%04X outside window", a)
		}
	}
	if r.SOH == nil {
		return errors.New("registers.soh is required")
	}
	if !inside(*r.SOH) {
		return fmt.Errorf("registers.soh 0x%04X outside window", *r.SOH)
	}
	if len(r.SOC) == 0 {
		return errors.New("registers.soc needs at least one address")
	}
	seen := make(map[uint16]bool, len(r.SOC))
	for _, a := range r.SOC {
		if !inside(a) {
			return fmt.Errorf("registers.soc 0x%04X outside window", a)
		}
		if a == *r.SOH {
			return fmt.Errorf("registers.soc 0x%04X collides with soh", a)
		}
		if seen[a] {
			return fmt.Errorf("registers.soc 0x%04X listed twice", a)
		}
		seen[a] = true
	}

	// ------------------------------------------------------------
	// SOC SOURCE
	// ------------------------------------------------------------

	c := cfg.SOC
	if c.Default == nil || *c.Default < 0 || *c.Default > 100 {
		return errors.New("soc.default must be 0..100")
	}
	if c.IntervalMs <= 0 {
		return fmt.Errorf("soc.interval_ms %d must be > 0", c.IntervalMs)
	}
	if c.StaleAfterMs < 0 {
		return errors.New("soc.stale_after_ms must be >= 0")
	}
	switch c.OutOfRange {
	case "clamp", "reject":
	default:
		return fmt.Errorf("soc.out_of_range %q: use clamp or reject", c.OutOfRange)
	}

	switch c.Source {
	case "file":
		if c.File.Path == "" {
			return errors.New("soc.file.path is required")
		}
	case "modbus":
		m := c.Modbus
		if m.Endpoint == "" {
			return errors.New("soc.modbus.endpoint is required")
		}
		switch m.Mode {
		case "tcp":
		case "rtu":
			if !validParity(m.Parity) {
				return fmt.Errorf("soc.modbus.parity %q: use N, E or O", m.Parity)
			}
			if m.Endpoint == s.Device {
				return fmt.Errorf("soc.modbus.endpoint %s is the bus device", m.Endpoint)
			}
		default:
			return fmt.Errorf("soc.modbus.mode %q: use tcp or rtu", m.Mode)
		}
		if m.TimeoutMs <= 0 {
			return errors.New("soc.modbus.timeout_ms must be > 0")
		}
	default:
		return fmt.Errorf("soc.source %q: use file or modbus", c.Source)
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	if cfg.Log.ReportS != nil && *cfg.Log.ReportS < 0 {
		return errors.New("log.report_s must be >= 0")
	}

	return nil
}

func validParity(p string) bool {
	switch p {
	case "N", "E", "O":
		return true
	}
	return false
}
