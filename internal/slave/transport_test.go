// internal/slave/transport_test.go
package slave

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

type drainWriter struct {
	bytes.Buffer
	drained int
}

func (d *drainWriter) Drain() error { d.drained++; return nil }

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("EIO") }

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) - 1, nil }

func TestTransport_TurnaroundThenWriteThenDrain(t *testing.T) {
	w := &drainWriter{}
	tr := NewTransport(w, 3*time.Millisecond)
	var slept time.Duration
	tr.sleep = func(d time.Duration) { slept += d }

	if err := tr.Send(capturedPoll); err != nil {
		t.Fatalf("Send() err=%v", err)
	}
	if slept != 3*time.Millisecond {
		t.Fatalf("slept %s", slept)
	}
	if !bytes.Equal(w.Bytes(), capturedPoll) || w.drained != 1 {
		t.Fatalf("written % X drained=%d", w.Bytes(), w.drained)
	}
}

func TestTransport_Errors(t *testing.T) {
	if err := NewTransport(failWriter{}, 0).Send(capturedPoll); err == nil {
		t.Fatalf("write error swallowed")
	}
	if err := NewTransport(shortWriter{}, 0).Send(capturedPoll); err == nil {
		t.Fatalf("short write accepted")
	}
}
