// internal/rtu/timing_test.go
package rtu

import (
	"testing"
	"time"
)

func TestCharBits(t *testing.T) {
	tests := []struct {
		name     string
		data     int
		stop     int
		parity   string
		wantBits int
	}{
		{"8N1", 8, 1, "N", 10},
		{"8E1", 8, 1, "E", 11},
		{"8O2", 8, 2, "O", 12},
		{"8N2", 8, 2, "N", 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CharBits(tt.data, tt.stop, tt.parity); got != tt.wantBits {
				t.Errorf("CharBits() = %d, want %d", got, tt.wantBits)
			}
		})
	}
}

func TestSilence_9600(t *testing.T) {
	// 11 bits at 9600 baud = 1.1458ms per char; t3.5 ~ 4.01ms.
	got := Silence(9600, 8, 1, "E")
	if got < 4*time.Millisecond || got > 4100*time.Microsecond {
		t.Fatalf("Silence(9600 8E1) = %s", got)
	}
}

func TestSilence_FixedAboveBaudThreshold(t *testing.T) {
	if got := Silence(115200, 8, 1, "N"); got != 1750*time.Microsecond {
		t.Fatalf("Silence(115200) = %s, want 1.75ms", got)
	}
}
