package dispatch

import (
	"fmt"
	"sync"
	"time"

	"github.com/danmuck/eoclient/internal/observability"
	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/rs/zerolog/log"
)

// TickStats summarizes one drain, or the running total across drains.
type TickStats struct {
	// Dispatched counts handler invocations; each consumes one budget unit.
	Dispatched int `json:"dispatched"`
	// Missed counts packets dropped without a handler invocation.
	Missed     int `json:"missed"`
	// Panicked counts invocations that panicked; they are included in Dispatched.
	Panicked   int `json:"panicked"`
	// Remaining is the queue length after the drain.
	Remaining  int `json:"remaining"`
}

// Loop drains a Queue into Handlers under a per-tick budget.
type Loop struct {
	mu       sync.Mutex
	queue    *Queue
	handlers *Handlers
	budget   int
	totals   TickStats
}

// NewLoop builds a loop; a budget below one is raised to one.
func NewLoop(queue *Queue, handlers *Handlers, budget int) *Loop {
	if budget < 1 {
		budget = 1
	}
	return &Loop{queue: queue, handlers: handlers, budget: budget}
}

func (l *Loop) Budget() int {
	return l.budget
}

// Tick runs one bounded drain. At most budget handlers are invoked.
// Packets with no applicable handler are dropped without consuming budget,
// so they never stall the backlog. A tick examines at most the packets
// that were queued when it began, which bounds the work even when every
// packet misses or the producer keeps appending.
func (l *Loop) Tick() TickStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	var stats TickStats
	pending := l.queue.Len()
	for examined := 0; examined < pending && stats.Dispatched < l.budget; examined++ {
		p, ok := l.queue.Dequeue()
		if !ok {
			break
		}
		switch l.attempt(p) {
		case observability.OutcomeNoMatch:
			stats.Missed++
		case observability.OutcomePanic:
			stats.Dispatched++
			stats.Panicked++
		default:
			stats.Dispatched++
		}
	}
	stats.Remaining = l.queue.Len()

	l.totals.Dispatched += stats.Dispatched
	l.totals.Missed += stats.Missed
	l.totals.Panicked += stats.Panicked
	l.totals.Remaining = stats.Remaining

	observability.RecordTick(stats.Remaining, time.Since(start))
	if pending > 0 {
		log.Trace().
			Int("pending", pending).
			Int("dispatched", stats.Dispatched).
			Int("missed", stats.Missed).
			Int("remaining", stats.Remaining).
			Msg("dispatch.Tick")
	}
	return stats
}

// Totals returns the cumulative stats across every tick.
func (l *Loop) Totals() TickStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totals
}

// attempt looks up and invokes the handler for p. A panic anywhere in the
// handler is recovered and reported; the packet is dropped and the tick
// continues.
func (l *Loop) attempt(p protocol.Packet) (outcome string) {
	id := protocol.IDOf(p)
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Stringer("packet", id).
				Str("panic", fmt.Sprint(r)).
				Msg("dispatch handler panicked; packet dropped")
			outcome = observability.OutcomePanic
		}
		observability.RecordDispatch(id.Family.String(), id.Action.String(), outcome)
	}()

	h, ok := l.handlers.FindHandler(id.Family, id.Action)
	if !ok {
		log.Debug().Stringer("packet", id).Msg("dispatch miss: no handler")
		return observability.OutcomeNoMatch
	}
	if !h.CanHandle() {
		log.Debug().Stringer("packet", id).Msg("dispatch miss: handler not ready")
		return observability.OutcomeNoMatch
	}
	if !h.IsHandlerFor(p) {
		log.Debug().Stringer("packet", id).Str("type", fmt.Sprintf("%T", p)).Msg("dispatch miss: handler type mismatch")
		return observability.OutcomeNoMatch
	}
	if !h.Handle(p) {
		log.Debug().Stringer("packet", id).Msg("dispatch handler declined")
		return observability.OutcomeDeclined
	}
	return observability.OutcomeHandled
}
