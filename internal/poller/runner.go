// internal/poller/runner.go
package poller

import (
	"context"
	"log"
	"time"

	"github.com/tamzrod/bms-emulator/internal/status"
)

// Run polls immediately, then on every tick, publishing changes into sink.
// One goroutine. No overlap. No retries beyond the next tick.
func (p *Poller) Run(ctx context.Context, sink Sink) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	prevHealth := status.HealthUnknown
	for {
		if s, ok := p.PollOnce(ctx); ok {
			if sink.SetSOC(s.Percent) {
				log.Printf("soc=%d%%", s.Percent)
			}
			if p.cfg.Observer != nil {
				p.cfg.Observer.SOCPublished(s.Percent, s.At)
			}
		}

		st := p.Status()
		if st.Health != prevHealth {
			switch st.Health {
			case status.HealthError, status.HealthStale:
				log.Printf("soc source %s (code=%d), holding soc=%d", status.HealthName(st.Health), st.LastErrorCode, st.SOC)
			case status.HealthOK:
				if prevHealth != status.HealthUnknown {
					log.Printf("soc source recovered")
				}
			}
			prevHealth = st.Health
		}
		if p.cfg.Observer != nil {
			p.cfg.Observer.SourceStatus(st)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
