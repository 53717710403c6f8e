// internal/mirror/mirror.go
package mirror

import (
	"fmt"
	"log"
	"time"

	"github.com/simonvetter/modbus"

	"github.com/tamzrod/bms-emulator/internal/registers"
	"github.com/tamzrod/bms-emulator/internal/status"
)

// Snapshotter hands out the current register view.
type Snapshotter interface {
	Snapshot() *registers.Snapshot
}

// StatusSource reports the SOC source health.
type StatusSource interface {
	Status() status.Snapshot
}

// Handler serves a read-only Modbus TCP view of what the bus sees:
// holding registers mirror the register table, input registers 0..7 carry
// the SOC source status block. Writes are refused.
type Handler struct {
	unitID uint8
	table  Snapshotter
	status StatusSource
}

// NewHandler builds a Handler answering unitID.
func NewHandler(unitID uint8, table Snapshotter, st StatusSource) *Handler {
	return &Handler{unitID: unitID, table: table, status: st}
}

func (h *Handler) HandleCoils(req *modbus.CoilsRequest) ([]bool, error) {
	return nil, modbus.ErrIllegalFunction
}

func (h *Handler) HandleDiscreteInputs(req *modbus.DiscreteInputsRequest) ([]bool, error) {
	return nil, modbus.ErrIllegalFunction
}

func (h *Handler) HandleHoldingRegisters(req *modbus.HoldingRegistersRequest) ([]uint16, error) {
	if req.UnitId != h.unitID {
		return nil, modbus.ErrIllegalFunction
	}
	if req.IsWrite {
		return nil, modbus.ErrIllegalFunction
	}
	vals, complete := h.table.Snapshot().Read(req.Addr, req.Quantity)
	if !complete {
		return nil, modbus.ErrIllegalDataAddress
	}
	return vals, nil
}

func (h *Handler) HandleInputRegisters(req *modbus.InputRegistersRequest) ([]uint16, error) {
	if req.UnitId != h.unitID {
		return nil, modbus.ErrIllegalFunction
	}
	if h.status == nil {
		return nil, modbus.ErrIllegalDataAddress
	}
	block := status.Encode(h.status.Status())
	if int(req.Addr)+int(req.Quantity) > len(block) {
		return nil, modbus.ErrIllegalDataAddress
	}
	return block[req.Addr : req.Addr+req.Quantity], nil
}

// Server is a running mirror.
type Server struct {
	srv *modbus.ModbusServer
}

// Start listens on url (tcp://host:port).
func Start(url string, h *Handler) (*Server, error) {
	srv, err := modbus.NewServer(&modbus.ServerConfiguration{
		URL:        url,
		Timeout:    30 * time.Second,
		MaxClients: 4,
	}, h)
	if err != nil {
		return nil, fmt.Errorf("mirror: %w", err)
	}
	if err := srv.Start(); err != nil {
		return nil, fmt.Errorf("mirror: start %s: %w", url, err)
	}
	log.Printf("mirror listening on %s (unit=%d)", url, h.unitID)
	return &Server{srv: srv}, nil
}

// Stop closes the listener and all client connections.
func (s *Server) Stop() error {
	return s.srv.Stop()
}
