// Package sequence encodes the rolling per-direction sequence field.
//
// Values below Threshold travel as a single byte; larger values use a
// little-endian two-byte field. Values above Max cannot be represented and
// must never reach the wire.
package sequence

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Threshold is the first value that needs the two-byte form.
	Threshold = 253
	// Max is the largest encodable value.
	Max = 0xFFFF
)

var (
	ErrOverflow = errors.New("sequence: value exceeds two-byte field")
	ErrNegative = errors.New("sequence: negative value")
	ErrShort    = errors.New("sequence: short field")
)

// Len returns the field width used for v.
func Len(v int) int {
	if v < Threshold {
		return 1
	}
	return 2
}

// Encode packs v into one or two bytes.
func Encode(v int) ([]byte, error) {
	if v < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegative, v)
	}
	if v > Max {
		return nil, fmt.Errorf("%w: %d", ErrOverflow, v)
	}
	if v < Threshold {
		return []byte{byte(v)}, nil
	}
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(v))
	return buf, nil
}

// Decode reads the field for a counter expected to hold expected. The width
// is chosen with the same threshold Encode uses. It returns the decoded
// value and the number of bytes consumed.
func Decode(b []byte, expected int) (int, int, error) {
	n := Len(expected)
	if len(b) < n {
		return 0, 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShort, n, len(b))
	}
	if n == 1 {
		return int(b[0]), 1, nil
	}
	return int(binary.LittleEndian.Uint16(b[:2])), 2, nil
}
