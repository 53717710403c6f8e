// internal/config/normalize.go
package config

import "time"

// Defaults observed on the EG4 Chargeverter bus.
const (
	DefaultBaud        = 9600
	DefaultSlaveID     = 0x01
	DefaultWindowStart = 0x0000
	DefaultWindowCount = 0x27
	DefaultSOH         = 0x0017
	DefaultSOC         = 53
	DefaultIntervalMs  = 1000
	DefaultReportS     = 5
	DefaultSOCFile     = "soc.txt"
)

// DefaultSOCAddrs are the two SOC registers the Chargeverter cross-checks.
var DefaultSOCAddrs = []uint16{0x0015, 0x0018}

// DefaultValues seeds the rest of the polled window with plausible values.
func DefaultValues() map[uint16]uint16 {
	return map[uint16]uint16{
		0x0013: 0x0017,
		0x0014: 0x0018,
		0x0016: 0x0032,
	}
}

// Normalize fills defaults.
// It is allowed to mutate configuration.
// It MUST be called before Validate() so defaults are validated too.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ------------------------------------------------------------
	// SERIAL
	// ------------------------------------------------------------

	s := &cfg.Serial
	if s.Baud == 0 {
		s.Baud = DefaultBaud
	}
	if s.DataBits == 0 {
		s.DataBits = 8
	}
	if s.Parity == "" {
		s.Parity = "N"
	}
	if s.StopBits == 0 {
		s.StopBits = 1
	}

	// ------------------------------------------------------------
	// SLAVE + WINDOW
	// ------------------------------------------------------------

	if cfg.Slave.ID == 0 {
		cfg.Slave.ID = DefaultSlaveID
	}
	if cfg.Slave.OutOfWindow == "" {
		cfg.Slave.OutOfWindow = "drop"
	}

	r := &cfg.Registers
	if r.Count == 0 {
		r.Start = DefaultWindowStart
		r.Count = DefaultWindowCount
	}
	if r.Values == nil {
		r.Values = DefaultValues()
	}
	if len(r.SOC) == 0 {
		r.SOC = append([]uint16(nil), DefaultSOCAddrs...)
	}
	if r.SOH == nil {
		soh := uint16(DefaultSOH)
		r.SOH = &soh
	}

	// ------------------------------------------------------------
	// SOC SOURCE
	// ------------------------------------------------------------

	c := &cfg.SOC
	if c.Source == "" {
		c.Source = "file"
	}
	if c.Default == nil {
		d := DefaultSOC
		c.Default = &d
	}
	if c.IntervalMs == 0 {
		c.IntervalMs = DefaultIntervalMs
	}
	if c.StaleAfterMs == 0 {
		c.StaleAfterMs = 10 * c.IntervalMs
	}
	if c.OutOfRange == "" {
		c.OutOfRange = "clamp"
	}
	if c.Source == "file" && c.File.Path == "" {
		c.File.Path = DefaultSOCFile
	}

	m := &c.Modbus
	if m.Mode == "" {
		m.Mode = "tcp"
	}
	if m.UnitID == 0 {
		m.UnitID = 1
	}
	if m.TimeoutMs == 0 {
		m.TimeoutMs = 1000
	}
	if m.Mode == "rtu" {
		if m.Baud == 0 {
			m.Baud = DefaultBaud
		}
		if m.DataBits == 0 {
			m.DataBits = 8
		}
		if m.Parity == "" {
			m.Parity = "N"
		}
		if m.StopBits == 0 {
			m.StopBits = 1
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	if cfg.Log.ReportS == nil {
		rs := DefaultReportS
		cfg.Log.ReportS = &rs
	}
}

// Silence returns the configured frame gap, or 0 to derive t3.5.
func (s SerialConfig) Silence() time.Duration {
	return time.Duration(s.SilenceUs) * time.Microsecond
}

// Turnaround returns the delay between request end and reply.
func (s SerialConfig) Turnaround() time.Duration {
	return time.Duration(s.TurnaroundMs) * time.Millisecond
}

// Interval returns the SOC poll period.
func (c SOCConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// StaleAfter returns how long without a good sample before the source is stale.
func (c SOCConfig) StaleAfter() time.Duration {
	return time.Duration(c.StaleAfterMs) * time.Millisecond
}
