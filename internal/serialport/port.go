// internal/serialport/port.go
package serialport

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gserial "github.com/goburrow/serial"
	"go.bug.st/serial"

	cfg "github.com/tamzrod/bms-emulator/internal/config"
)

// rs485ReadTimeout bounds each read on the RS-485 driver so a timeout is
// just "no bytes yet" rather than a blocked goroutine.
const rs485ReadTimeout = 100 * time.Millisecond

// Port is the bus link: reads feed the frame receiver, writes carry replies.
type Port interface {
	io.ReadWriteCloser
}

// Open opens the bus device described by c.
// Plain UARTs and USB adapters use go.bug.st/serial. When RS-485 direction
// control is enabled the port is opened through goburrow/serial, which
// drives RTS as DE/RE around each write.
func Open(c cfg.SerialConfig) (Port, error) {
	var (
		p   Port
		err error
	)
	if c.RS485.Enabled {
		p, err = openRS485(c)
	} else {
		p, err = openPlain(c)
	}
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w%s", c.Device, err, portsHint())
	}
	return p, nil
}

func openPlain(c cfg.SerialConfig) (Port, error) {
	parity, err := parseParity(c.Parity)
	if err != nil {
		return nil, err
	}
	stopbits, err := parseStopBits(c.StopBits)
	if err != nil {
		return nil, err
	}
	return serial.Open(c.Device, &serial.Mode{
		BaudRate: c.Baud,
		DataBits: c.DataBits,
		Parity:   parity,
		StopBits: stopbits,
	})
}

func openRS485(c cfg.SerialConfig) (Port, error) {
	p, err := gserial.Open(&gserial.Config{
		Address:  c.Device,
		BaudRate: c.Baud,
		DataBits: c.DataBits,
		StopBits: c.StopBits,
		Parity:   c.Parity,
		Timeout:  rs485ReadTimeout,
		RS485: gserial.RS485Config{
			Enabled:            true,
			DelayRtsBeforeSend: time.Duration(c.RS485.DelayRtsBeforeSendMs) * time.Millisecond,
			DelayRtsAfterSend:  time.Duration(c.RS485.DelayRtsAfterSendMs) * time.Millisecond,
			RtsHighDuringSend:  c.RS485.RtsHighDuringSend,
			RtsHighAfterSend:   c.RS485.RtsHighAfterSend,
			RxDuringTx:         c.RS485.RxDuringTx,
		},
	})
	if err != nil {
		return nil, err
	}
	return &timeoutPort{ReadWriteCloser: p}, nil
}

// timeoutPort turns the driver's read timeout into an empty read.
type timeoutPort struct {
	io.ReadWriteCloser
}

func (p *timeoutPort) Read(b []byte) (int, error) {
	n, err := p.ReadWriteCloser.Read(b)
	if errors.Is(err, gserial.ErrTimeout) {
		return n, nil
	}
	return n, err
}

func parseParity(s string) (serial.Parity, error) {
	switch s {
	case "N":
		return serial.NoParity, nil
	case "O":
		return serial.OddParity, nil
	case "E":
		return serial.EvenParity, nil
	default:
		return serial.NoParity, fmt.Errorf("invalid parity %q: use N, E or O", s)
	}
}

func parseStopBits(n int) (serial.StopBits, error) {
	switch n {
	case 1:
		return serial.OneStopBit, nil
	case 2:
		return serial.TwoStopBits, nil
	default:
		return serial.OneStopBit, fmt.Errorf("invalid stop bits %d: use 1 or 2", n)
	}
}

// portsHint lists the serial ports the OS knows about, for open errors.
func portsHint() string {
	ports, err := serial.GetPortsList()
	if err != nil || len(ports) == 0 {
		return ""
	}
	return " (available: " + strings.Join(ports, ", ") + ")"
}
