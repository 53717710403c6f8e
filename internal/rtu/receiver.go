// internal/rtu/receiver.go
package rtu

import (
	"context"
	"io"
	"log"
	"sync"
	"time"
)

// Receiver delimits RTU frames on a half-duplex link by inter-character
// silence. A frame ends once no byte has arrived for the silence period.
// Gaps shorter than t3.5 inside a frame are tolerated.
type Receiver struct {
	silence time.Duration

	chunks chan []byte
	errc   chan error
	done   chan struct{}
	once   sync.Once
}

// NewReceiver starts reading r in the background.
// The reader goroutine exits when r returns an error or Close is called.
func NewReceiver(r io.Reader, silence time.Duration) *Receiver {
	rc := &Receiver{
		silence: silence,
		chunks:  make(chan []byte, 64),
		errc:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go rc.readLoop(r)
	return rc
}

func (rc *Receiver) readLoop(r io.Reader) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case rc.chunks <- chunk:
			case <-rc.done:
				return
			}
		}
		if err != nil {
			select {
			case rc.errc <- err:
			case <-rc.done:
			}
			return
		}
	}
}

// Close stops delivering bytes. It does not close the underlying reader.
func (rc *Receiver) Close() {
	rc.once.Do(func() { close(rc.done) })
}

// Silence returns the end-of-frame gap in use.
func (rc *Receiver) Silence() time.Duration {
	return rc.silence
}

// Next blocks until one candidate frame has been isolated.
// Bytes pending when the link fails are discarded and the read error returned.
// Bursts longer than MaxADUSize are line noise and dropped whole.
func (rc *Receiver) Next(ctx context.Context) ([]byte, error) {
	var (
		frame   []byte
		overrun bool
		timer   *time.Timer
		timeout <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case err := <-rc.errc:
			return nil, err

		case chunk := <-rc.chunks:
			if !overrun {
				frame = append(frame, chunk...)
				if len(frame) > MaxADUSize {
					overrun = true
					frame = nil
				}
			}
			if timer == nil {
				timer = time.NewTimer(rc.silence)
			} else {
				timer.Reset(rc.silence)
			}
			timeout = timer.C

		case <-timeout:
			timeout = nil
			if overrun {
				log.Printf("rtu: dropped burst longer than %d bytes", MaxADUSize)
				overrun = false
				continue
			}
			if len(frame) > 0 {
				return frame, nil
			}
		}
	}
}
