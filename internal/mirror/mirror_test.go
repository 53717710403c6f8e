// internal/mirror/mirror_test.go
package mirror

import (
	"errors"
	"testing"

	"github.com/simonvetter/modbus"

	"github.com/tamzrod/bms-emulator/internal/registers"
	"github.com/tamzrod/bms-emulator/internal/status"
)

type fixedStatus status.Snapshot

func (f fixedStatus) Status() status.Snapshot { return status.Snapshot(f) }

func newHandler(t *testing.T) (*Handler, *registers.Table) {
	t.Helper()
	tbl, err := registers.New(registers.Layout{
		Start: 0, Count: 0x27,
		SOC: []uint16{0x15, 0x18},
		SOH: 0x17,
	}, 53)
	if err != nil {
		t.Fatalf("registers.New() err=%v", err)
	}
	st := fixedStatus{Health: status.HealthOK, SOC: 53}
	return NewHandler(1, tbl, st), tbl
}

func TestHandleHoldingRegisters_MirrorsTable(t *testing.T) {
	h, tbl := newHandler(t)
	tbl.SetSOC(91)

	res, err := h.HandleHoldingRegisters(&modbus.HoldingRegistersRequest{UnitId: 1, Addr: 0x13, Quantity: 0x11})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if res[2] != 91 || res[4] != 100 || res[5] != 91 {
		t.Fatalf("res = %v", res)
	}
}

func TestHandleHoldingRegisters_Refusals(t *testing.T) {
	h, _ := newHandler(t)

	tests := []struct {
		name string
		req  *modbus.HoldingRegistersRequest
		want error
	}{
		{"write", &modbus.HoldingRegistersRequest{UnitId: 1, Addr: 0x15, Quantity: 1, IsWrite: true, Args: []uint16{5}}, modbus.ErrIllegalFunction},
		{"other unit", &modbus.HoldingRegistersRequest{UnitId: 2, Addr: 0x15, Quantity: 1}, modbus.ErrIllegalFunction},
		{"outside window", &modbus.HoldingRegistersRequest{UnitId: 1, Addr: 0x20, Quantity: 0x10}, modbus.ErrIllegalDataAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.HandleHoldingRegisters(tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("err=%v, want %v", err, tt.want)
			}
		})
	}
}

func TestHandleInputRegisters_StatusBlock(t *testing.T) {
	h, _ := newHandler(t)

	res, err := h.HandleInputRegisters(&modbus.InputRegistersRequest{UnitId: 1, Addr: 0, Quantity: status.SlotsPerBlock})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if res[status.SlotHealthCode] != status.HealthOK || res[status.SlotSOC] != 53 {
		t.Fatalf("res = %v", res)
	}

	if _, err := h.HandleInputRegisters(&modbus.InputRegistersRequest{UnitId: 1, Addr: 6, Quantity: 4}); !errors.Is(err, modbus.ErrIllegalDataAddress) {
		t.Fatalf("overlong read err=%v", err)
	}
}

func TestHandleCoils_Refused(t *testing.T) {
	h, _ := newHandler(t)
	if _, err := h.HandleCoils(&modbus.CoilsRequest{UnitId: 1}); !errors.Is(err, modbus.ErrIllegalFunction) {
		t.Fatalf("err=%v", err)
	}
	if _, err := h.HandleDiscreteInputs(&modbus.DiscreteInputsRequest{UnitId: 1}); !errors.Is(err, modbus.ErrIllegalFunction) {
		t.Fatalf("err=%v", err)
	}
}
