// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleYAML = `
serial:
  device: /dev/ttySC0
  baud: 9600
  parity: E
  turnaround_ms: 2
  rs485:
    enabled: true
    rts_high_during_send: true
slave:
  id: 1
  out_of_window: zero_fill
registers:
  start: 16
  count: 24
  values:
    19: 23
    20: 24
  soc: [21, 24]
  soh: 23
soc:
  source: file
  default: 60
  interval_ms: 500
  out_of_range: reject
  file:
    path: /run/soc.txt
log:
  frames: true
  report_s: 0
metrics:
  listen: ":9108"
mirror:
  listen: "tcp://127.0.0.1:1502"
`

func TestLoad_FullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emulator.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	Normalize(cfg)
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}

	if cfg.Serial.Parity != "E" || !cfg.Serial.RS485.Enabled || !cfg.Serial.RS485.RtsHighDuringSend {
		t.Fatalf("serial = %+v", cfg.Serial)
	}
	if cfg.Serial.Turnaround() != 2*time.Millisecond {
		t.Fatalf("turnaround = %s", cfg.Serial.Turnaround())
	}
	if cfg.Registers.Start != 16 || cfg.Registers.Count != 24 || cfg.Registers.Values[19] != 23 {
		t.Fatalf("registers = %+v", cfg.Registers)
	}
	if *cfg.SOC.Default != 60 || cfg.SOC.Interval() != 500*time.Millisecond || cfg.SOC.OutOfRange != "reject" {
		t.Fatalf("soc = %+v", cfg.SOC)
	}
	if *cfg.Log.ReportS != 0 || !cfg.Log.Frames {
		t.Fatalf("log = %+v", cfg.Log)
	}
	if cfg.Metrics.Listen != ":9108" || cfg.Mirror.Listen != "tcp://127.0.0.1:1502" {
		t.Fatalf("surfaces = %+v %+v", cfg.Metrics, cfg.Mirror)
	}
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	_, err := Parse([]byte("serial:\n  device: /dev/ttyS0\n  baudrate: 9600\n"))
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "baudrate") {
		t.Fatalf("error %q does not name the unknown key", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
