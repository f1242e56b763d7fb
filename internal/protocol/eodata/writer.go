package eodata

// Writer accumulates serialized packet fields.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 32)}
}

// Bytes returns the written buffer. The slice aliases the writer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) AddByte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *Writer) AddBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *Writer) AddChar(v int) error {
	return w.addNumber(v, 1)
}

func (w *Writer) AddShort(v int) error {
	return w.addNumber(v, 2)
}

func (w *Writer) AddThree(v int) error {
	return w.addNumber(v, 3)
}

func (w *Writer) AddInt(v int) error {
	return w.addNumber(v, 4)
}

func (w *Writer) AddBreak() {
	w.buf = append(w.buf, Break)
}

// AddString writes s with no terminator; the reader must know where it ends.
func (w *Writer) AddString(s string) {
	w.buf = append(w.buf, s...)
}

// AddBreakString writes s followed by the break byte.
func (w *Writer) AddBreakString(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, Break)
}

// AddFixedString writes s padded (or truncated) to exactly n bytes.
func (w *Writer) AddFixedString(s string, n int) {
	for i := 0; i < n; i++ {
		if i < len(s) {
			w.buf = append(w.buf, s[i])
			continue
		}
		w.buf = append(w.buf, Pad)
	}
}

func (w *Writer) addNumber(v int, size int) error {
	b, err := EncodeNumber(v, size)
	if err != nil {
		return err
	}
	w.buf = append(w.buf, b...)
	return nil
}
