// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tamzrod/bms-emulator/internal/status"
)

// MaxPercent is the top of the SOC range.
const MaxPercent = 100

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval   time.Duration
	StaleAfter time.Duration
	Policy     RangePolicy
	Observer   Observer
}

// Poller is a dumb, clock-driven SOC reader.
// A failed or unchanged read publishes nothing; the last good value stands.
type Poller struct {
	cfg Config
	src Source
	now func() time.Time

	mu       sync.Mutex
	last     uint16
	started  time.Time
	lastGood time.Time
	errSince time.Time
	health   uint16
	errCode  uint16
}

// New creates a poller with immutable config. initial is the SOC already
// published to the table; reads equal to it are not re-published.
func New(cfg Config, src Source, initial uint16) (*Poller, error) {
	if src == nil {
		return nil, errors.New("poller: source required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if initial > MaxPercent {
		return nil, errors.New("poller: initial soc must be 0..100")
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 10 * cfg.Interval
	}
	p := &Poller{
		cfg:    cfg,
		src:    src,
		now:    time.Now,
		last:   initial,
		health: status.HealthUnknown,
	}
	p.started = p.now()
	return p, nil
}

// PollOnce performs exactly one read of the source.
// It returns a sample only for a valid value that differs from the last one.
func (p *Poller) PollOnce(ctx context.Context) (Sample, bool) {
	raw, err := p.src.Read(ctx)
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.fail(now, errorCode(err))
		return Sample{}, false
	}

	pct, ok := p.normalize(raw)
	if !ok {
		p.fail(now, status.ErrCodeRange)
		return Sample{}, false
	}

	p.health = status.HealthOK
	p.errCode = status.ErrCodeNone
	p.errSince = time.Time{}
	p.lastGood = now

	if pct == p.last {
		return Sample{}, false
	}
	p.last = pct
	return Sample{Percent: pct, At: now}, true
}

func (p *Poller) fail(now time.Time, code uint16) {
	if p.health != status.HealthError {
		p.errSince = now
	}
	p.health = status.HealthError
	p.errCode = code
}

func (p *Poller) normalize(v int) (uint16, bool) {
	if v >= 0 && v <= MaxPercent {
		return uint16(v), true
	}
	if p.cfg.Policy == RangeReject {
		return 0, false
	}
	if v < 0 {
		return 0, true
	}
	return MaxPercent, true
}

// Last returns the last accepted SOC.
func (p *Poller) Last() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Status returns the current source health.
// A source with no good sample inside StaleAfter reports HealthStale.
func (p *Poller) Status() status.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	snap := status.Snapshot{
		Health:        p.health,
		LastErrorCode: p.errCode,
		SOC:           p.last,
	}

	ref := p.lastGood
	if ref.IsZero() {
		ref = p.started
	}
	snap.SecondsSinceGood = status.SaturatingSeconds(now.Sub(ref).Seconds())

	if !p.errSince.IsZero() {
		snap.SecondsInError = status.SaturatingSeconds(now.Sub(p.errSince).Seconds())
	}
	if p.health != status.HealthUnknown && now.Sub(ref) > p.cfg.StaleAfter {
		snap.Health = status.HealthStale
	}
	return snap
}

// errorCode extracts a best-effort uint16 code from an error without assuming concrete types.
// If the error does not expose a code, returns ErrCodeRead.
func errorCode(err error) uint16 {
	type coder interface{ ErrorCode() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return status.ErrCodeRead
}
