// internal/slave/server.go
package slave

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/tamzrod/bms-emulator/internal/rtu"
)

// Config is the runtime config of the poll-respond loop.
type Config struct {
	Name      string // device name for logs
	SlaveID   byte
	Window    WindowPolicy
	LogFrames bool
}

// Server answers Read Holding Registers polls for one slave id.
// The loop is strictly sequential: one request is answered before the
// next frame is taken off the link.
type Server struct {
	cfg   Config
	rx    *rtu.Receiver
	tx    *Transport
	table Snapshotter
	obs   Observer
	stats counters
}

// New wires a server. rx and tx may be nil when only Handle is used.
func New(cfg Config, table Snapshotter, rx *rtu.Receiver, tx *Transport, obs Observer) (*Server, error) {
	if table == nil {
		return nil, errors.New("slave: register table required")
	}
	if cfg.SlaveID < 1 || cfg.SlaveID > 247 {
		return nil, fmt.Errorf("slave: id %d must be 1..247", cfg.SlaveID)
	}
	if cfg.Name == "" {
		cfg.Name = "bus"
	}
	return &Server{cfg: cfg, rx: rx, tx: tx, table: table, obs: obs}, nil
}

// Stats returns a copy of the frame counters.
func (s *Server) Stats() Stats {
	return s.stats.load()
}

// Handle turns one candidate frame into a reply.
// A nil reply means the frame is dropped silently; err says why.
func (s *Server) Handle(frame []byte) ([]byte, error) {
	req, err := rtu.ParseRequest(frame, s.cfg.SlaveID)
	if err == nil {
		var resp []byte
		resp, err = respond(req, s.table.Snapshot(), s.cfg.Window)
		if err == nil {
			s.stats.count(nil)
			if s.obs != nil {
				s.obs.FrameAnswered(req, len(resp))
			}
			return resp, nil
		}
	}

	s.stats.count(err)
	if s.obs != nil {
		s.obs.FrameDropped(err)
	}
	return nil, err
}

// Serve runs the receive → parse → respond → send loop until ctx ends or
// the link fails. Only a link failure is returned as an error.
func (s *Server) Serve(ctx context.Context) error {
	if s.rx == nil || s.tx == nil {
		return errors.New("slave: receiver and transport required")
	}

	for {
		frame, err := s.rx.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("serial read: %w", err)
		}

		resp, err := s.Handle(frame)
		if err != nil {
			s.logDrop(frame, err)
			continue
		}

		if s.cfg.LogFrames {
			log.Printf("RX % x", frame)
		}
		if err := s.tx.Send(resp); err != nil {
			return err
		}
		if s.cfg.LogFrames {
			log.Printf("TX % x", resp)
		}
	}
}

func (s *Server) logDrop(frame []byte, err error) {
	if !s.cfg.LogFrames {
		return
	}
	switch {
	case errors.Is(err, rtu.ErrForeignSlave):
		// normal multi-drop traffic
	case errors.Is(err, rtu.ErrBadCRC):
		log.Printf("BADCRC len=%d % x", len(frame), frame)
	case errors.Is(err, rtu.ErrShortFrame):
		log.Printf("SHORT len=%d % x", len(frame), frame)
	default:
		log.Printf("DROP %v: % x", err, frame)
	}
}
