package dispatch

import (
	"sync"

	"github.com/danmuck/eoclient/internal/protocol"
)

// Queue is an unbounded FIFO of decoded packets. Enqueue never blocks on
// the consumer beyond the short critical section.
type Queue struct {
	mu    sync.Mutex
	items []protocol.Packet
	head  int
}

func NewQueue() *Queue {
	return &Queue{items: make([]protocol.Packet, 0, 64)}
}

func (q *Queue) Enqueue(p protocol.Packet) {
	if p == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, p)
}

func (q *Queue) Dequeue() (protocol.Packet, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == len(q.items) {
		return nil, false
	}
	p := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return p, true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Clear discards every queued packet and returns how many were dropped.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items) - q.head
	q.items = make([]protocol.Packet, 0, 64)
	q.head = 0
	return n
}
