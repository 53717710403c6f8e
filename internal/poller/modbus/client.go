// internal/poller/modbus/client.go
package modbus

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goburrow/modbus"
)

// registerReader is the slice of modbus.Client this source needs.
type registerReader interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
}

// Config is minimal transport config for the upstream BMS / meter.
type Config struct {
	Mode     string // "tcp" or "rtu"
	Endpoint string // host:port or serial device
	UnitID   uint8
	Register uint16
	Timeout  time.Duration

	// RTU only
	BaudRate int
	DataBits int
	Parity   string
	StopBits int
}

// Source reads the SOC from one holding register of a second Modbus slave.
// Connection is reused while healthy. On error the client is discarded and
// the factory is used again on the next poll.
type Source struct {
	cfg     Config
	factory func() (registerReader, io.Closer, error)

	client registerReader
	closer io.Closer
}

// New validates cfg. No connection is made until the first Read.
func New(cfg Config) (*Source, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus source: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}

	s := &Source{cfg: cfg}
	switch cfg.Mode {
	case "", "tcp":
		s.factory = s.dialTCP
	case "rtu":
		s.factory = s.dialRTU
	default:
		return nil, fmt.Errorf("modbus source: unknown mode %q", cfg.Mode)
	}
	return s, nil
}

func (s *Source) dialTCP() (registerReader, io.Closer, error) {
	h := modbus.NewTCPClientHandler(s.cfg.Endpoint)
	h.Timeout = s.cfg.Timeout
	h.SlaveId = s.cfg.UnitID
	if err := h.Connect(); err != nil {
		return nil, nil, err
	}
	return modbus.NewClient(h), h, nil
}

func (s *Source) dialRTU() (registerReader, io.Closer, error) {
	h := modbus.NewRTUClientHandler(s.cfg.Endpoint)
	h.BaudRate = s.cfg.BaudRate
	h.DataBits = s.cfg.DataBits
	h.Parity = s.cfg.Parity
	h.StopBits = s.cfg.StopBits
	h.SlaveId = s.cfg.UnitID
	h.Timeout = s.cfg.Timeout
	if err := h.Connect(); err != nil {
		return nil, nil, err
	}
	return modbus.NewClient(h), h, nil
}

// Read returns the register value as a percentage.
func (s *Source) Read(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if s.client == nil {
		c, closer, err := s.factory()
		if err != nil {
			return 0, fmt.Errorf("modbus source: connect %s: %w", s.cfg.Endpoint, err)
		}
		s.client, s.closer = c, closer
	}

	b, err := s.client.ReadHoldingRegisters(s.cfg.Register, 1)
	if err != nil {
		s.drop()
		return 0, fmt.Errorf("modbus source: read 0x%04X: %w", s.cfg.Register, err)
	}
	if len(b) < 2 {
		s.drop()
		return 0, errors.New("modbus source: short register payload")
	}
	return int(binary.BigEndian.Uint16(b)), nil
}

func (s *Source) drop() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
	s.client, s.closer = nil, nil
}

// Close releases the connection, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.client, s.closer = nil, nil
	return err
}
