// internal/rtu/request.go
package rtu

import (
	"encoding/binary"
	"errors"

	"github.com/tamzrod/bms-emulator/internal/crc"
)

// FuncReadHoldingRegisters is the only function code served.
const FuncReadHoldingRegisters byte = 0x03

const (
	// MinFrameSize is address + function + checksum.
	MinFrameSize = 4
	// ReadRequestSize is the fixed length of an FC3 request ADU.
	ReadRequestSize = 8
	// MaxADUSize is the largest legal RTU frame.
	MaxADUSize = 256
	// MaxReadQuantity keeps the response byte count within one byte.
	MaxReadQuantity = 125
)

// Rejection reasons. None of them is ever answered on the bus.
var (
	ErrShortFrame          = errors.New("rtu: frame too short")
	ErrBadCRC              = errors.New("rtu: bad checksum")
	ErrForeignSlave        = errors.New("rtu: addressed to another slave")
	ErrUnsupportedFunction = errors.New("rtu: unsupported function code")
	ErrMalformed           = errors.New("rtu: malformed request")
	ErrBadQuantity         = errors.New("rtu: register count out of range")
	ErrAddressOverflow     = errors.New("rtu: register range overflows address space")
)

// ReadRequest is a validated Read Holding Registers request.
type ReadRequest struct {
	SlaveID byte
	Start   uint16
	Count   uint16
}

// End returns one past the last requested address.
func (r ReadRequest) End() uint32 {
	return uint32(r.Start) + uint32(r.Count)
}

// ParseRequest validates a delimited frame and decodes it.
// Checks run in bus order: length, checksum, slave id, function, body.
func ParseRequest(frame []byte, slaveID byte) (ReadRequest, error) {
	if len(frame) < MinFrameSize {
		return ReadRequest{}, ErrShortFrame
	}
	if !crc.Valid(frame) {
		return ReadRequest{}, ErrBadCRC
	}
	if frame[0] != slaveID {
		return ReadRequest{}, ErrForeignSlave
	}
	if frame[1] != FuncReadHoldingRegisters {
		return ReadRequest{}, ErrUnsupportedFunction
	}
	if len(frame) != ReadRequestSize {
		return ReadRequest{}, ErrMalformed
	}

	req := ReadRequest{
		SlaveID: frame[0],
		Start:   binary.BigEndian.Uint16(frame[2:4]),
		Count:   binary.BigEndian.Uint16(frame[4:6]),
	}
	if req.Count == 0 || req.Count > MaxReadQuantity {
		return ReadRequest{}, ErrBadQuantity
	}
	if req.End() > 0x10000 {
		return ReadRequest{}, ErrAddressOverflow
	}
	return req, nil
}

// EncodeReadRequest builds an FC3 request ADU. Used by tests and tooling.
func EncodeReadRequest(slaveID byte, start, count uint16) []byte {
	b := make([]byte, 6, ReadRequestSize)
	b[0] = slaveID
	b[1] = FuncReadHoldingRegisters
	binary.BigEndian.PutUint16(b[2:4], start)
	binary.BigEndian.PutUint16(b[4:6], count)
	return crc.Append(b)
}
