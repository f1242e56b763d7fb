package sequence

import (
	"fmt"
	"sync"
)

// Window is the number of distinct increments cycled on top of the start value.
const Window = 10

// Counter is one direction's rolling sequence. The start value is seeded by
// the handshake and may be re-seeded by the server; the increment cycles
// through Window values.
type Counter struct {
	mu    sync.Mutex
	start int
	inc   int
}

func NewCounter() *Counter {
	return &Counter{}
}

// Reset seeds the counter and restarts the increment.
func (c *Counter) Reset(start int) error {
	if start < 0 {
		return fmt.Errorf("%w: start %d", ErrNegative, start)
	}
	if start+Window-1 > Max {
		return fmt.Errorf("%w: start %d", ErrOverflow, start)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = start
	c.inc = 0
	return nil
}

// Next returns the value to send with the next outbound packet.
func (c *Counter) Next() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.start + c.inc
	if v > Max {
		return 0, fmt.Errorf("%w: %d", ErrOverflow, v)
	}
	c.inc = (c.inc + 1) % Window
	return v, nil
}

// Peek returns the value Next would return without advancing.
func (c *Counter) Peek() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start + c.inc
}

// StartFromInit derives the initial start value from the two handshake bytes.
func StartFromInit(s1, s2 int) int {
	return s1*7 + s2 - 13
}

// StartFromPing derives a re-seeded start value from a server ping.
func StartFromPing(s1, s2 int) int {
	return s1 - s2
}
