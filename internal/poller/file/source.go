// internal/poller/file/source.go
package file

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tamzrod/bms-emulator/internal/status"
)

// Source reads the SOC from a small text file edited by an operator
// (echo 91 > soc.txt). The file is re-read on every poll.
type Source struct {
	path string
}

// New returns a Source for path. The file does not need to exist yet.
func New(path string) *Source {
	return &Source{path: path}
}

// Path returns the watched file.
func (s *Source) Path() string { return s.path }

// Read returns the integer part of the number in the file.
func (s *Source) Read(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return 0, err
	}
	return parse(string(b))
}

// ParseError is malformed file content.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("soc file: cannot parse %q", e.Raw)
}

// ErrorCode maps to the status block error code.
func (e *ParseError) ErrorCode() uint16 { return status.ErrCodeParse }

// parse accepts "53", " 91\n" or "53.7" (truncated toward zero).
func parse(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &ParseError{Raw: s}
	}
	f = math.Trunc(f)
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32, nil
	case f < math.MinInt32:
		return math.MinInt32, nil
	}
	return int(f), nil
}
