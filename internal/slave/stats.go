// internal/slave/stats.go
package slave

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/tamzrod/bms-emulator/internal/rtu"
)

// Observer receives per-frame outcomes (metrics). Calls happen on the serial
// loop and must not block.
type Observer interface {
	FrameAnswered(req rtu.ReadRequest, respLen int)
	FrameDropped(reason error)
}

// Stats are cumulative frame counters.
type Stats struct {
	Answered    uint64
	BadCRC      uint64
	Short       uint64
	Foreign     uint64
	Unsupported uint64
	Invalid     uint64
}

// Valid counts frames that passed the checksum.
func (s Stats) Valid() uint64 {
	return s.Answered + s.Foreign + s.Unsupported + s.Invalid
}

type counters struct {
	answered, badCRC, short, foreign, unsupported, invalid atomic.Uint64
}

func (c *counters) count(reason error) {
	switch {
	case reason == nil:
		c.answered.Add(1)
	case errors.Is(reason, rtu.ErrBadCRC):
		c.badCRC.Add(1)
	case errors.Is(reason, rtu.ErrShortFrame):
		c.short.Add(1)
	case errors.Is(reason, rtu.ErrForeignSlave):
		c.foreign.Add(1)
	case errors.Is(reason, rtu.ErrUnsupportedFunction):
		c.unsupported.Add(1)
	default:
		c.invalid.Add(1)
	}
}

func (c *counters) load() Stats {
	return Stats{
		Answered:    c.answered.Load(),
		BadCRC:      c.badCRC.Load(),
		Short:       c.short.Load(),
		Foreign:     c.foreign.Load(),
		Unsupported: c.unsupported.Load(),
		Invalid:     c.invalid.Load(),
	}
}

// badCRCHintRatio is the share of bad-checksum frames that triggers the
// parity hint in the rate report.
const badCRCHintRatio = 0.5

// Report writes "rate ok=… badcrc=…" every interval until ctx ends.
// When line is true the report overwrites a single terminal line.
func (s *Server) Report(ctx context.Context, interval time.Duration, out io.Writer, line bool) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := s.Stats()
	last := time.Now()
	hinted := false
	for {
		select {
		case <-ctx.Done():
			if line {
				fmt.Fprintln(out)
			}
			return
		case now := <-ticker.C:
			cur := s.Stats()
			dt := now.Sub(last).Seconds()
			ok := float64(cur.Valid()-prev.Valid()) / dt
			bad := float64(cur.BadCRC-prev.BadCRC) / dt

			if line {
				fmt.Fprintf(out, "\rrate ok=%.1f/s badcrc=%.1f/s answered=%d soc=%d          ",
					ok, bad, cur.Answered, s.table.Snapshot().SOC())
			} else {
				fmt.Fprintf(out, "rate ok=%.1f/s badcrc=%.1f/s\n", ok, bad)
			}
			noisy := bad > 0 && bad >= badCRCHintRatio*(ok+bad)
			if noisy && !hinted {
				log.Printf("mostly bad checksums on %s; try parity E (8E1) or check wiring", s.cfg.Name)
			}
			hinted = noisy
			prev, last = cur, now
		}
	}
}
