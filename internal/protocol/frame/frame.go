package frame

import (
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/eoclient/internal/protocol/eodata"
)

// LengthLen is the size of the base-253 length prefix.
const LengthLen = 2

var (
	ErrShortLength     = errors.New("frame: short length prefix")
	ErrShortPayload    = errors.New("frame: short payload")
	ErrEmptyFrame      = errors.New("frame: empty frame")
	ErrPayloadTooLarge = errors.New("frame: payload too large")
)

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxPayloadBytes int
}

func DefaultLimits() Limits {
	return Limits{
		MaxPayloadBytes: eodata.ShortMax - 1,
	}
}

// ReadFrame reads one length-prefixed envelope from r.
func ReadFrame(r io.Reader, limits Limits) ([]byte, error) {
	var prefix [LengthLen]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortLength
		}
		return nil, err
	}
	n := eodata.DecodeNumber(prefix[:])
	if n == 0 {
		return nil, ErrEmptyFrame
	}
	if n > limits.MaxPayloadBytes {
		return nil, fmt.Errorf("%w: %d", ErrPayloadTooLarge, n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, ErrShortPayload
		}
		return nil, err
	}
	return payload, nil
}

// WriteFrame writes payload behind its length prefix in a single Write.
func WriteFrame(w io.Writer, payload []byte, limits Limits) error {
	if len(payload) == 0 {
		return ErrEmptyFrame
	}
	if len(payload) > limits.MaxPayloadBytes {
		return fmt.Errorf("%w: %d", ErrPayloadTooLarge, len(payload))
	}
	prefix, err := eodata.EncodeNumber(len(payload), LengthLen)
	if err != nil {
		return err
	}
	buf := make([]byte, 0, LengthLen+len(payload))
	buf = append(buf, prefix...)
	buf = append(buf, payload...)
	_, err = w.Write(buf)
	return err
}
