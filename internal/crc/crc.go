// internal/crc/crc.go
package crc

import "github.com/sigurn/crc16"

// Modbus RTU CRC-16: reflected poly 0xA001, init 0xFFFF.
// On the wire the checksum is LSB first.

// Size is the number of checksum bytes trailing every RTU frame.
const Size = 2

var table = crc16.MakeTable(crc16.CRC16_MODBUS)

// Checksum computes the Modbus CRC-16 of b.
func Checksum(b []byte) uint16 {
	return crc16.Checksum(b, table)
}

// Append appends the checksum of b to b, low byte first.
func Append(b []byte) []byte {
	c := Checksum(b)
	return append(b, byte(c), byte(c>>8))
}

// Valid reports whether the last two bytes of frame are the
// LSB-first checksum of everything before them.
func Valid(frame []byte) bool {
	if len(frame) < Size {
		return false
	}
	n := len(frame) - Size
	want := uint16(frame[n]) | uint16(frame[n+1])<<8
	return Checksum(frame[:n]) == want
}
