// internal/rtu/response.go
package rtu

import (
	"errors"
	"fmt"

	"github.com/tamzrod/bms-emulator/internal/crc"
)

// EncodeReadResponse builds the FC3 response for req carrying values.
// Layout: slave, function, byte count, registers big-endian, checksum LSB first.
func EncodeReadResponse(req ReadRequest, values []uint16) ([]byte, error) {
	if len(values) != int(req.Count) {
		return nil, fmt.Errorf("rtu: %d values for %d registers", len(values), req.Count)
	}

	n := 2 * len(values)
	out := make([]byte, 3, 3+n+crc.Size)
	out[0] = req.SlaveID
	out[1] = FuncReadHoldingRegisters
	out[2] = byte(n)
	for _, v := range values {
		out = append(out, byte(v>>8), byte(v))
	}
	out = crc.Append(out)

	if err := checkReadResponse(out, req); err != nil {
		return nil, err
	}
	return out, nil
}

// checkReadResponse refuses to hand an inconsistent frame to the transport.
func checkReadResponse(frame []byte, req ReadRequest) error {
	if len(frame) != 5+2*int(req.Count) {
		return errors.New("rtu: response length mismatch")
	}
	if int(frame[2]) != 2*int(req.Count) {
		return errors.New("rtu: response byte count mismatch")
	}
	if !crc.Valid(frame) {
		return errors.New("rtu: response checksum mismatch")
	}
	return nil
}

// DecodeReadResponse extracts register values from an FC3 response.
func DecodeReadResponse(frame []byte) ([]uint16, error) {
	if len(frame) < 5 {
		return nil, ErrShortFrame
	}
	if !crc.Valid(frame) {
		return nil, ErrBadCRC
	}
	if frame[1] != FuncReadHoldingRegisters {
		return nil, ErrUnsupportedFunction
	}
	n := int(frame[2])
	if n%2 != 0 || len(frame) != 3+n+crc.Size {
		return nil, ErrMalformed
	}
	out := make([]uint16, n/2)
	for i := range out {
		out[i] = uint16(frame[3+2*i])<<8 | uint16(frame[4+2*i])
	}
	return out, nil
}
