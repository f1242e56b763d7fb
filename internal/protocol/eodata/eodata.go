// Package eodata implements the wire numeric unit and field-level reader/writer.
//
// Numbers are base-253 little-endian digits offset by one; the byte 0xFE
// stands in for an unused high digit. Strings are raw bytes, either
// length-implied, fixed-width, or terminated by the 0xFF break byte.
package eodata

import (
	"errors"
	"fmt"
)

const (
	CharMax  = 253
	ShortMax = CharMax * CharMax
	ThreeMax = CharMax * CharMax * CharMax
	IntMax   = CharMax * CharMax * CharMax * CharMax

	// Break terminates break strings.
	Break byte = 0xFF
	// Pad fills unused numeric digits and fixed string tails.
	Pad byte = 0xFE
)

var (
	ErrShortRead  = errors.New("eodata: short read")
	ErrValueRange = errors.New("eodata: value out of range")
	ErrNoBreak    = errors.New("eodata: missing break byte")
)

// EncodeNumber encodes v into size digits (1..4).
func EncodeNumber(v int, size int) ([]byte, error) {
	if size < 1 || size > 4 {
		return nil, fmt.Errorf("%w: size %d", ErrValueRange, size)
	}
	limits := [...]int{CharMax, ShortMax, ThreeMax, IntMax}
	if v < 0 || v >= limits[size-1] {
		return nil, fmt.Errorf("%w: %d in %d bytes", ErrValueRange, v, size)
	}
	out := []byte{Pad, Pad, Pad, Pad}
	value := v
	if value >= ThreeMax {
		out[3] = byte(value/ThreeMax + 1)
		value %= ThreeMax
	}
	if value >= ShortMax {
		out[2] = byte(value/ShortMax + 1)
		value %= ShortMax
	}
	if value >= CharMax {
		out[1] = byte(value/CharMax + 1)
		value %= CharMax
	}
	out[0] = byte(value + 1)
	return out[:size], nil
}

// DecodeNumber inverts EncodeNumber for any width.
func DecodeNumber(b []byte) int {
	result := 0
	mult := 1
	for _, d := range b {
		digit := int(d)
		if d == Pad || d == 0 {
			digit = 1
		}
		result += (digit - 1) * mult
		mult *= CharMax
	}
	return result
}
