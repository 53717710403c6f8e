// internal/metrics/metrics_test.go
package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tamzrod/bms-emulator/internal/rtu"
	"github.com/tamzrod/bms-emulator/internal/status"
)

func TestCollector_FrameOutcomes(t *testing.T) {
	c := New()

	c.FrameAnswered(rtu.ReadRequest{SlaveID: 1, Start: 0x13, Count: 0x11}, 39)
	c.FrameDropped(rtu.ErrBadCRC)
	c.FrameDropped(rtu.ErrBadCRC)
	c.FrameDropped(rtu.ErrForeignSlave)
	c.FrameDropped(rtu.ErrAddressOverflow)

	tests := []struct {
		label string
		want  float64
	}{
		{"answered", 1},
		{"bad_crc", 2},
		{"foreign", 1},
		{"invalid", 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(c.frames.WithLabelValues(tt.label)); got != tt.want {
			t.Errorf("frames{result=%q} = %v, want %v", tt.label, got, tt.want)
		}
	}
	if got := testutil.ToFloat64(c.replyBytes); got != 39 {
		t.Errorf("reply bytes = %v, want 39", got)
	}
}

func TestCollector_SOC(t *testing.T) {
	c := New()
	at := time.Unix(1_700_000_000, 0)

	c.SOCPublished(91, at)
	if got := testutil.ToFloat64(c.soc); got != 91 {
		t.Fatalf("soc = %v", got)
	}
	if got := testutil.ToFloat64(c.socUpdated); got != 1_700_000_000 {
		t.Fatalf("soc updated = %v", got)
	}

	c.SourceStatus(status.Snapshot{Health: status.HealthStale, LastErrorCode: status.ErrCodeRead, SecondsSinceGood: 42, SOC: 91})
	if got := testutil.ToFloat64(c.sourceHealth); got != float64(status.HealthStale) {
		t.Fatalf("health = %v", got)
	}
	if got := testutil.ToFloat64(c.sinceGood); got != 42 {
		t.Fatalf("since good = %v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.SOCPublished(53, time.Now())

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bms_emulator_soc_percent 53") {
		t.Fatalf("body missing soc gauge:\n%s", rec.Body.String())
	}
}
