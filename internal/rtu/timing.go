// internal/rtu/timing.go
package rtu

import "time"

// Above 19200 baud the inter-frame silence is fixed at 1.75ms.
const (
	fixedSilenceBaud = 19200
	fixedSilence     = 1750 * time.Microsecond
)

// CharBits returns the number of bits per character on the wire
// (start + data + optional parity + stop).
func CharBits(dataBits, stopBits int, parity string) int {
	bits := 1 + dataBits
	if parity != "" && parity != "N" {
		bits++
	}
	return bits + stopBits
}

// CharTime returns the wire time of one character.
func CharTime(baud, dataBits, stopBits int, parity string) time.Duration {
	if baud <= 0 {
		return 0
	}
	bits := CharBits(dataBits, stopBits, parity)
	return time.Duration(float64(bits) / float64(baud) * float64(time.Second))
}

// Silence returns the t3.5 end-of-frame gap for the given line settings.
func Silence(baud, dataBits, stopBits int, parity string) time.Duration {
	if baud > fixedSilenceBaud {
		return fixedSilence
	}
	return time.Duration(3.5 * float64(CharTime(baud, dataBits, stopBits, parity)))
}
