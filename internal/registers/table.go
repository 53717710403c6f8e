// internal/registers/table.go
package registers

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// SOHPercent is the fixed State-of-Health value (100%).
const SOHPercent uint16 = 0x0064

// Layout is the immutable geometry of the served window.
type Layout struct {
	Start  uint16
	Count  uint16
	Values map[uint16]uint16 // seed values; unset addresses read 0x0000
	SOC    []uint16          // SOC mirror addresses, always written together
	SOH    uint16            // SOH address, pinned to SOHPercent
}

// Snapshot is one published, never-mutated view of the table.
type Snapshot struct {
	start  uint16
	values []uint16
	soc    uint16
}

// Contains reports whether addr is inside the served window.
func (s *Snapshot) Contains(addr uint16) bool {
	return addr >= s.start && int(addr-s.start) < len(s.values)
}

// Get returns the value at addr. Addresses outside the window read 0x0000.
func (s *Snapshot) Get(addr uint16) uint16 {
	if !s.Contains(addr) {
		return 0
	}
	return s.values[addr-s.start]
}

// Read returns count values starting at start. complete is false when any
// address falls outside the window; those addresses read 0x0000.
func (s *Snapshot) Read(start, count uint16) (values []uint16, complete bool) {
	values = make([]uint16, count)
	complete = true
	for i := range values {
		a := uint32(start) + uint32(i)
		if a > 0xFFFF || !s.Contains(uint16(a)) {
			complete = false
			continue
		}
		values[i] = s.values[uint16(a)-s.start]
	}
	return values, complete
}

// SOC returns the SOC value carried by this snapshot.
func (s *Snapshot) SOC() uint16 {
	return s.soc
}

// Window returns the first address and length of the served window.
func (s *Snapshot) Window() (start uint16, count int) {
	return s.start, len(s.values)
}

// Table holds the current register values.
// Readers load the published snapshot without locking; SetSOC builds a
// fresh snapshot and swaps it in, so paired SOC registers never tear.
type Table struct {
	mu      sync.Mutex // serializes writers
	socAddr []uint16
	cur     atomic.Pointer[Snapshot]
}

// New builds a table from layout with soc as the initial SOC.
func New(l Layout, soc uint16) (*Table, error) {
	if l.Count == 0 {
		return nil, errors.New("registers: empty window")
	}
	if uint32(l.Start)+uint32(l.Count) > 0x10000 {
		return nil, errors.New("registers: window overflows address space")
	}
	if len(l.SOC) == 0 {
		return nil, errors.New("registers: at least one SOC address required")
	}

	snap := &Snapshot{
		start:  l.Start,
		values: make([]uint16, l.Count),
	}
	for addr, v := range l.Values {
		if !snap.Contains(addr) {
			return nil, fmt.Errorf("registers: seed address 0x%04X outside window", addr)
		}
		snap.values[addr-l.Start] = v
	}

	if !snap.Contains(l.SOH) {
		return nil, fmt.Errorf("registers: SOH address 0x%04X outside window", l.SOH)
	}
	snap.values[l.SOH-l.Start] = SOHPercent

	for _, a := range l.SOC {
		if !snap.Contains(a) {
			return nil, fmt.Errorf("registers: SOC address 0x%04X outside window", a)
		}
		if a == l.SOH {
			return nil, fmt.Errorf("registers: SOC address 0x%04X collides with SOH", a)
		}
		snap.values[a-l.Start] = soc
	}
	snap.soc = soc

	t := &Table{socAddr: append([]uint16(nil), l.SOC...)}
	t.cur.Store(snap)
	return t, nil
}

// Snapshot returns the currently published view.
func (t *Table) Snapshot() *Snapshot {
	return t.cur.Load()
}

// SOC returns the currently published SOC.
func (t *Table) SOC() uint16 {
	return t.cur.Load().soc
}

// SetSOC writes pct to every SOC mirror address in one publish.
// It reports whether the published value changed.
func (t *Table) SetSOC(pct uint16) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	old := t.cur.Load()
	if old.soc == pct {
		return false
	}

	next := &Snapshot{
		start:  old.start,
		values: append([]uint16(nil), old.values...),
		soc:    pct,
	}
	for _, a := range t.socAddr {
		next.values[a-next.start] = pct
	}
	t.cur.Store(next)
	return true
}
