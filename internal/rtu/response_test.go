// internal/rtu/response_test.go
package rtu

import (
	"errors"
	"testing"

	"github.com/tamzrod/bms-emulator/internal/crc"
)

func TestEncodeReadResponse_Layout(t *testing.T) {
	req := ReadRequest{SlaveID: 0x02, Start: 0xB1, Count: 1}
	got, err := EncodeReadResponse(req, []uint16{700})
	if err != nil {
		t.Fatalf("EncodeReadResponse() err=%v", err)
	}
	// Reference response: 02 03 02 02 BC FC 95
	want := []byte{0x02, 0x03, 0x02, 0x02, 0xBC, 0xFC, 0x95}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestEncodeReadResponse_ChargeverterWindow(t *testing.T) {
	req := ReadRequest{SlaveID: 0x01, Start: 0x13, Count: 0x11}
	vals := make([]uint16, 0x11)
	vals[0x15-0x13] = 53
	vals[0x18-0x13] = 53

	got, err := EncodeReadResponse(req, vals)
	if err != nil {
		t.Fatalf("EncodeReadResponse() err=%v", err)
	}
	if got[2] != 0x22 {
		t.Fatalf("byte count = 0x%02X, want 0x22", got[2])
	}
	if len(got) != 3+0x22+crc.Size {
		t.Fatalf("len = %d", len(got))
	}
	if !crc.Valid(got) {
		t.Fatalf("response checksum invalid")
	}

	regs, err := DecodeReadResponse(got)
	if err != nil {
		t.Fatalf("DecodeReadResponse() err=%v", err)
	}
	if regs[2] != 53 || regs[5] != 53 {
		t.Fatalf("regs = %v", regs)
	}
}

func TestEncodeReadResponse_CountMismatch(t *testing.T) {
	req := ReadRequest{SlaveID: 0x01, Start: 0, Count: 3}
	if _, err := EncodeReadResponse(req, []uint16{1, 2}); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestDecodeReadResponse_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		want  error
	}{
		{"short", []byte{0x01, 0x03, 0x00}, ErrShortFrame},
		{"bad crc", []byte{0x02, 0x03, 0x02, 0x02, 0xBC, 0xFC, 0x96}, ErrBadCRC},
		{"exception", crc.Append([]byte{0x01, 0x83, 0x02}), ErrUnsupportedFunction},
		{"odd byte count", crc.Append([]byte{0x01, 0x03, 0x01, 0x00}), ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeReadResponse(tt.frame); !errors.Is(err, tt.want) {
				t.Errorf("err=%v, want %v", err, tt.want)
			}
		})
	}
}
