package eodata

import "bytes"

// Reader walks a serialized packet body.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) GetByte() (byte, error) {
	if r.Remaining() < 1 {
		return 0, ErrShortRead
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// GetBytes returns a copy of the next n bytes.
func (r *Reader) GetBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrShortRead
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

func (r *Reader) GetChar() (int, error) {
	return r.getNumber(1)
}

func (r *Reader) GetShort() (int, error) {
	return r.getNumber(2)
}

func (r *Reader) GetThree() (int, error) {
	return r.getNumber(3)
}

func (r *Reader) GetInt() (int, error) {
	return r.getNumber(4)
}

// GetString consumes every remaining byte.
func (r *Reader) GetString() string {
	s := string(r.data[r.pos:])
	r.pos = len(r.data)
	return s
}

// GetFixedString reads n bytes and strips pad bytes from the tail.
func (r *Reader) GetFixedString(n int) (string, error) {
	b, err := r.GetBytes(n)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(b, string([]byte{Pad}))), nil
}

// GetBreakString reads up to the next break byte and consumes it.
func (r *Reader) GetBreakString() (string, error) {
	idx := bytes.IndexByte(r.data[r.pos:], Break)
	if idx < 0 {
		return "", ErrNoBreak
	}
	s := string(r.data[r.pos : r.pos+idx])
	r.pos += idx + 1
	return s, nil
}

func (r *Reader) getNumber(size int) (int, error) {
	if r.Remaining() < size {
		return 0, ErrShortRead
	}
	v := DecodeNumber(r.data[r.pos : r.pos+size])
	r.pos += size
	return v, nil
}
