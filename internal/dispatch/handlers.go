package dispatch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/danmuck/eoclient/internal/protocol"
)

var (
	ErrDuplicateHandler = errors.New("dispatch: duplicate handler")
	ErrNilHandler       = errors.New("dispatch: nil handler")
)

// Handler consumes one packet type.
type Handler interface {
	// CanHandle reports whether the handler accepts work in the current state.
	CanHandle() bool
	// IsHandlerFor reports whether p is the concrete packet this handler expects.
	IsHandlerFor(p protocol.Packet) bool
	// Handle processes p and reports whether it succeeded.
	Handle(p protocol.Packet) bool
}

// Handlers maps (family, action) to at most one handler.
type Handlers struct {
	mu      sync.RWMutex
	entries map[protocol.PacketID]Handler
}

func NewHandlers() *Handlers {
	return &Handlers{entries: make(map[protocol.PacketID]Handler)}
}

func (h *Handlers) Register(id protocol.PacketID, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, id)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.entries[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, id)
	}
	h.entries[id] = handler
	return nil
}

func (h *Handlers) HandlerExists(f protocol.Family, a protocol.Action) bool {
	_, ok := h.FindHandler(f, a)
	return ok
}

func (h *Handlers) FindHandler(f protocol.Family, a protocol.Action) (Handler, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	handler, ok := h.entries[protocol.ID(f, a)]
	return handler, ok
}

func (h *Handlers) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// TypedHandler adapts a function over one concrete packet type.
type TypedHandler[T protocol.Packet] struct {
	fn    func(T) bool
	ready func() bool
}

// NewHandler wraps fn; IsHandlerFor matches packets of type T only.
func NewHandler[T protocol.Packet](fn func(T) bool) *TypedHandler[T] {
	return &TypedHandler[T]{fn: fn}
}

// WhenReady gates CanHandle on ready.
func (h *TypedHandler[T]) WhenReady(ready func() bool) *TypedHandler[T] {
	h.ready = ready
	return h
}

func (h *TypedHandler[T]) CanHandle() bool {
	return h.ready == nil || h.ready()
}

func (h *TypedHandler[T]) IsHandlerFor(p protocol.Packet) bool {
	_, ok := p.(T)
	return ok
}

func (h *TypedHandler[T]) Handle(p protocol.Packet) bool {
	typed, ok := p.(T)
	if !ok {
		return false
	}
	return h.fn(typed)
}

// On registers fn under id during startup wiring; a duplicate id panics.
func On[T protocol.Packet](handlers *Handlers, id protocol.PacketID, fn func(T) bool) *TypedHandler[T] {
	h := NewHandler(fn)
	if err := handlers.Register(id, h); err != nil {
		panic(err)
	}
	return h
}
