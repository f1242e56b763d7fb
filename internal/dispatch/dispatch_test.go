package dispatch

import (
	"errors"
	"sync"
	"testing"

	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/danmuck/eoclient/internal/protocol/eodata"
	"github.com/danmuck/eoclient/internal/testutil/testlog"
)

type walkPacket struct {
	N int
}

func (walkPacket) Family() protocol.Family { return protocol.FamilyWalk }
func (walkPacket) Action() protocol.Action { return protocol.ActionPlayer }
func (walkPacket) Serialize(w *eodata.Writer) error { return nil }

type talkPacket struct {
	N int
}

func (talkPacket) Family() protocol.Family { return protocol.FamilyTalk }
func (talkPacket) Action() protocol.Action { return protocol.ActionServer }
func (talkPacket) Serialize(w *eodata.Writer) error { return nil }

// impostor shares walkPacket's id but is a different concrete type.
type impostor struct{}

func (impostor) Family() protocol.Family { return protocol.FamilyWalk }
func (impostor) Action() protocol.Action { return protocol.ActionPlayer }
func (impostor) Serialize(w *eodata.Writer) error { return nil }

var walkID = protocol.ID(protocol.FamilyWalk, protocol.ActionPlayer)

func newWalkLoop(t *testing.T, budget int) (*Loop, *Queue, *[]int) {
	t.Helper()
	seen := &[]int{}
	handlers := NewHandlers()
	On(handlers, walkID, func(p walkPacket) bool {
		*seen = append(*seen, p.N)
		return true
	})
	q := NewQueue()
	return NewLoop(q, handlers, budget), q, seen
}

func TestQueueFIFOAndClear(t *testing.T) {
	testlog.Start(t)
	q := NewQueue()
	for i := 0; i < 200; i++ {
		q.Enqueue(walkPacket{N: i})
	}
	q.Enqueue(nil)
	for i := 0; i < 150; i++ {
		p, ok := q.Dequeue()
		if !ok || p.(walkPacket).N != i {
			t.Fatalf("dequeue %d got=%v ok=%v", i, p, ok)
		}
	}
	if q.Len() != 50 {
		t.Fatalf("unexpected len: %d", q.Len())
	}
	q.Enqueue(walkPacket{N: 200})
	if p, _ := q.Dequeue(); p.(walkPacket).N != 150 {
		t.Fatalf("order broken after compaction: %v", p)
	}
	if n := q.Clear(); n != 50 {
		t.Fatalf("clear dropped %d", n)
	}
	if _, ok := q.Dequeue(); ok {
		t.Fatalf("expected empty queue")
	}
}

func TestQueueSingleProducerSingleConsumer(t *testing.T) {
	testlog.Start(t)
	q := NewQueue()
	const total = 5000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			q.Enqueue(walkPacket{N: i})
		}
	}()
	next := 0
	for next < total {
		p, ok := q.Dequeue()
		if !ok {
			continue
		}
		if got := p.(walkPacket).N; got != next {
			t.Fatalf("out of order: got=%d want=%d", got, next)
		}
		next++
	}
	wg.Wait()
}

func TestHandlersRegistration(t *testing.T) {
	testlog.Start(t)
	handlers := NewHandlers()
	h := NewHandler(func(p walkPacket) bool { return true })
	if err := handlers.Register(walkID, h); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := handlers.Register(walkID, h); !errors.Is(err, ErrDuplicateHandler) {
		t.Fatalf("expected ErrDuplicateHandler, got %v", err)
	}
	if err := handlers.Register(walkID, nil); !errors.Is(err, ErrNilHandler) {
		t.Fatalf("expected ErrNilHandler, got %v", err)
	}
	if !handlers.HandlerExists(protocol.FamilyWalk, protocol.ActionPlayer) {
		t.Fatalf("expected handler")
	}
	if handlers.HandlerExists(protocol.FamilyTalk, protocol.ActionServer) {
		t.Fatalf("unexpected handler")
	}
	if !h.IsHandlerFor(walkPacket{}) || h.IsHandlerFor(impostor{}) {
		t.Fatalf("type matching broken")
	}
}

func TestTickDrainsAllWhenUnderBudget(t *testing.T) {
	testlog.Start(t)
	loop, q, seen := newWalkLoop(t, 4)
	for i := 0; i < 3; i++ {
		q.Enqueue(walkPacket{N: i})
	}
	stats := loop.Tick()
	if stats.Dispatched != 3 || stats.Remaining != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(*seen) != 3 || (*seen)[0] != 0 || (*seen)[2] != 2 {
		t.Fatalf("unexpected order: %v", *seen)
	}
	if stats := loop.Tick(); stats != (TickStats{}) {
		t.Fatalf("idle tick did work: %+v", stats)
	}
}

func TestTickBudgetFairness(t *testing.T) {
	testlog.Start(t)
	loop, q, seen := newWalkLoop(t, 4)
	for i := 0; i < 10; i++ {
		q.Enqueue(walkPacket{N: i})
	}
	wantRemaining := []int{6, 2, 0}
	for tick, want := range wantRemaining {
		before := q.Len()
		stats := loop.Tick()
		if stats.Remaining != want || q.Len() != want {
			t.Fatalf("tick %d remaining=%d want=%d", tick+1, stats.Remaining, want)
		}
		if before-q.Len() != stats.Dispatched+stats.Missed {
			t.Fatalf("tick %d shrank by %d, attempted %d", tick+1, before-q.Len(), stats.Dispatched+stats.Missed)
		}
		if stats.Dispatched > 4 {
			t.Fatalf("tick %d exceeded budget: %d", tick+1, stats.Dispatched)
		}
	}
	for i, n := range *seen {
		if n != i {
			t.Fatalf("arrival order broken: %v", *seen)
		}
	}
}

func TestTickBudgetFairnessWithMisses(t *testing.T) {
	testlog.Start(t)
	loop, q, seen := newWalkLoop(t, 4)
	// h0 m h1 m h2 m h3 h4 h5 h6
	next := 0
	for i := 0; i < 10; i++ {
		if i == 1 || i == 3 || i == 5 {
			q.Enqueue(talkPacket{N: i})
			continue
		}
		q.Enqueue(walkPacket{N: next})
		next++
	}

	stats := loop.Tick()
	if stats.Dispatched != 4 || stats.Missed != 3 {
		t.Fatalf("tick 1 unexpected stats: %+v", stats)
	}
	if 10-q.Len() != stats.Dispatched+stats.Missed || stats.Remaining != 3 {
		t.Fatalf("tick 1 shrank by %d, attempted %d", 10-q.Len(), stats.Dispatched+stats.Missed)
	}

	stats = loop.Tick()
	if stats.Dispatched != 3 || stats.Missed != 0 || stats.Remaining != 0 {
		t.Fatalf("tick 2 unexpected stats: %+v", stats)
	}
	if len(*seen) != 7 {
		t.Fatalf("expected 7 handled packets, got %v", *seen)
	}
	for i, n := range *seen {
		if n != i {
			t.Fatalf("arrival order broken: %v", *seen)
		}
	}
}

func TestMissesDoNotStallOrConsumeBudget(t *testing.T) {
	testlog.Start(t)
	loop, q, seen := newWalkLoop(t, 1)
	q.Enqueue(talkPacket{N: 1})
	q.Enqueue(talkPacket{N: 2})
	q.Enqueue(walkPacket{N: 3})
	q.Enqueue(walkPacket{N: 4})

	stats := loop.Tick()
	if stats.Missed != 2 || stats.Dispatched != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(*seen) != 1 || (*seen)[0] != 3 {
		t.Fatalf("handled packet not processed within the tick: %v", *seen)
	}
	if stats.Remaining != 1 {
		t.Fatalf("expected one packet left, got %d", stats.Remaining)
	}
}

func TestAllMissQueueTerminates(t *testing.T) {
	testlog.Start(t)
	loop, q, _ := newWalkLoop(t, 2)
	for i := 0; i < 50; i++ {
		q.Enqueue(talkPacket{N: i})
	}
	stats := loop.Tick()
	if stats.Missed != 50 || stats.Dispatched != 0 || stats.Remaining != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestNotReadyAndMismatchedHandlersDrop(t *testing.T) {
	testlog.Start(t)
	ready := false
	calls := 0
	handlers := NewHandlers()
	On(handlers, walkID, func(p walkPacket) bool {
		calls++
		return true
	}).WhenReady(func() bool { return ready })
	q := NewQueue()
	loop := NewLoop(q, handlers, 5)

	q.Enqueue(walkPacket{N: 1})
	q.Enqueue(impostor{})
	if stats := loop.Tick(); stats.Missed != 2 || calls != 0 {
		t.Fatalf("unexpected stats=%+v calls=%d", stats, calls)
	}

	ready = true
	q.Enqueue(impostor{})
	q.Enqueue(walkPacket{N: 2})
	if stats := loop.Tick(); stats.Missed != 1 || stats.Dispatched != 1 || calls != 1 {
		t.Fatalf("unexpected stats=%+v calls=%d", stats, calls)
	}
}

func TestHandlerPanicIsIsolated(t *testing.T) {
	testlog.Start(t)
	handlers := NewHandlers()
	On(handlers, walkID, func(p walkPacket) bool {
		if p.N == 1 {
			panic("boom")
		}
		return true
	})
	var talks []int
	On(handlers, protocol.ID(protocol.FamilyTalk, protocol.ActionServer), func(p talkPacket) bool {
		talks = append(talks, p.N)
		return false
	})
	q := NewQueue()
	loop := NewLoop(q, handlers, 10)
	q.Enqueue(walkPacket{N: 1})
	q.Enqueue(talkPacket{N: 2})
	q.Enqueue(walkPacket{N: 3})

	stats := loop.Tick()
	if stats.Panicked != 1 || stats.Dispatched != 3 || stats.Remaining != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(talks) != 1 || talks[0] != 2 {
		t.Fatalf("tick did not continue past panic: %v", talks)
	}
	if totals := loop.Totals(); totals.Panicked != 1 || totals.Dispatched != 3 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestNewLoopClampsBudget(t *testing.T) {
	testlog.Start(t)
	if got := NewLoop(NewQueue(), NewHandlers(), 0).Budget(); got != 1 {
		t.Fatalf("budget=%d", got)
	}
}
