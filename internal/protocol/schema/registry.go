package schema

import (
	"fmt"
	"strings"

	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/rs/zerolog/log"
)

// CollisionError lists pairs claimed by both the primary and the fallback.
type CollisionError struct {
	IDs []protocol.PacketID
}

func (e CollisionError) Error() string {
	names := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		names = append(names, id.String())
	}
	return fmt.Sprintf("schema: fallback collides with primary: %s", strings.Join(names, ", "))
}

// Validate reports every fallback pair the primary also serves.
func Validate(primary Source, fallback *Fallback) error {
	var collisions []protocol.PacketID
	for _, id := range fallback.IDs() {
		if primary.Has(id) {
			collisions = append(collisions, id)
		}
	}
	if len(collisions) > 0 {
		return CollisionError{IDs: collisions}
	}
	return nil
}

// Registry resolves envelope bodies against the primary source, then the fallback.
type Registry struct {
	primary  Source
	fallback *Fallback
}

func NewRegistry(primary Source, fallback *Fallback) *Registry {
	if fallback == nil {
		fallback = NewFallback()
	}
	return &Registry{primary: primary, fallback: fallback}
}

// TryCreate returns the decoded packet, or false when the body is too short
// or neither table recognizes it. A pair the primary claims is never handed
// to the fallback, even when primary deserialization fails.
func (r *Registry) TryCreate(data []byte) (protocol.Packet, bool) {
	id, ok := protocol.PeekID(data)
	if !ok {
		log.Debug().Int("len", len(data)).Msg("schema.Registry short header")
		return nil, false
	}
	if r.primary != nil && r.primary.Has(id) {
		return r.primary.TryCreate(data)
	}
	if p, ok := r.fallback.TryCreate(data); ok {
		return p, true
	}
	log.Debug().Stringer("packet", id).Int("len", len(data)).Msg("schema.Registry unrecognized packet")
	return nil, false
}
