// internal/rtu/receiver_test.go
package rtu

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

const testSilence = 20 * time.Millisecond

func nextWithin(t *testing.T, rc *Receiver, d time.Duration) ([]byte, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return rc.Next(ctx)
}

func TestReceiver_SplitWritesFormOneFrame(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	rc := NewReceiver(pr, testSilence)
	defer rc.Close()

	go func() {
		_, _ = pw.Write(capturedPoll[:3])
		time.Sleep(testSilence / 4)
		_, _ = pw.Write(capturedPoll[3:])
	}()

	got, err := nextWithin(t, rc, time.Second)
	if err != nil {
		t.Fatalf("Next() err=%v", err)
	}
	if !bytes.Equal(got, capturedPoll) {
		t.Fatalf("Next() = % X, want % X", got, capturedPoll)
	}
}

func TestReceiver_SilenceSeparatesFrames(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	rc := NewReceiver(pr, testSilence)
	defer rc.Close()

	second := EncodeReadRequest(0x02, 0x0000, 0x0001)
	go func() {
		_, _ = pw.Write(capturedPoll)
		time.Sleep(5 * testSilence)
		_, _ = pw.Write(second)
	}()

	first, err := nextWithin(t, rc, time.Second)
	if err != nil {
		t.Fatalf("Next() #1 err=%v", err)
	}
	if !bytes.Equal(first, capturedPoll) {
		t.Fatalf("frame #1 = % X", first)
	}
	got, err := nextWithin(t, rc, time.Second)
	if err != nil {
		t.Fatalf("Next() #2 err=%v", err)
	}
	if !bytes.Equal(got, second) {
		t.Fatalf("frame #2 = % X, want % X", got, second)
	}
}

func TestReceiver_ReadErrorIsReturned(t *testing.T) {
	pr, pw := io.Pipe()
	rc := NewReceiver(pr, testSilence)
	defer rc.Close()

	wantErr := errors.New("port unplugged")
	_ = pw.CloseWithError(wantErr)

	_, err := nextWithin(t, rc, time.Second)
	if !errors.Is(err, wantErr) {
		t.Fatalf("Next() err=%v, want %v", err, wantErr)
	}
}

func TestReceiver_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	rc := NewReceiver(pr, testSilence)
	defer rc.Close()

	_, err := nextWithin(t, rc, 3*testSilence)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Next() err=%v, want deadline exceeded", err)
	}
}

func TestReceiver_OverlongBurstDropped(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	rc := NewReceiver(pr, testSilence)
	defer rc.Close()

	go func() {
		_, _ = pw.Write(bytes.Repeat([]byte{0xAA}, MaxADUSize+10))
		time.Sleep(5 * testSilence)
		_, _ = pw.Write(capturedPoll)
	}()

	got, err := nextWithin(t, rc, time.Second)
	if err != nil {
		t.Fatalf("Next() err=%v", err)
	}
	if !bytes.Equal(got, capturedPoll) {
		t.Fatalf("Next() = % X, want captured poll", got)
	}
}
