// internal/slave/transport.go
package slave

import (
	"fmt"
	"io"
	"time"
)

// drainer is implemented by ports that can block until the TX FIFO is empty.
type drainer interface {
	Drain() error
}

// Transport writes replies onto the half-duplex link.
// The receiver already waited t3.5 of silence before the request was
// delivered; Turnaround adds extra slack for slow masters and transceivers.
type Transport struct {
	w          io.Writer
	turnaround time.Duration
	sleep      func(time.Duration)
}

// NewTransport wraps w.
func NewTransport(w io.Writer, turnaround time.Duration) *Transport {
	return &Transport{w: w, turnaround: turnaround, sleep: time.Sleep}
}

// Send writes one whole frame. Any error means the link is gone.
func (t *Transport) Send(frame []byte) error {
	if t.turnaround > 0 {
		t.sleep(t.turnaround)
	}
	n, err := t.w.Write(frame)
	if err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	if n != len(frame) {
		return fmt.Errorf("serial write: short write %d/%d", n, len(frame))
	}
	if d, ok := t.w.(drainer); ok {
		if err := d.Drain(); err != nil {
			return fmt.Errorf("serial drain: %w", err)
		}
	}
	return nil
}
