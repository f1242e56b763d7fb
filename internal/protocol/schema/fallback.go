package schema

import (
	"fmt"

	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/danmuck/eoclient/internal/protocol/eodata"
	"github.com/rs/zerolog/log"
)

// FallbackDecoder reads a bespoke body layout; the (action, family) header
// has already been stripped.
type FallbackDecoder func(r *eodata.Reader) (protocol.Packet, error)

// Fallback is the custom table for packets absent from the shared schema.
type Fallback struct {
	entries map[protocol.PacketID]FallbackDecoder
}

func NewFallback() *Fallback {
	return &Fallback{entries: make(map[protocol.PacketID]FallbackDecoder)}
}

func (f *Fallback) Register(id protocol.PacketID, dec FallbackDecoder) error {
	if dec == nil {
		return fmt.Errorf("%w: fallback: nil decoder for %s", ErrInvalidEntry, id)
	}
	if _, ok := f.entries[id]; ok {
		return fmt.Errorf("%w: fallback: %s", ErrDuplicate, id)
	}
	f.entries[id] = dec
	return nil
}

func (f *Fallback) Has(id protocol.PacketID) bool {
	_, ok := f.entries[id]
	return ok
}

func (f *Fallback) IDs() []protocol.PacketID {
	return sortedIDs(f.entries)
}

// TryCreate strips the header and hands the body to the registered decoder.
func (f *Fallback) TryCreate(data []byte) (protocol.Packet, bool) {
	id, ok := protocol.PeekID(data)
	if !ok {
		return nil, false
	}
	dec, ok := f.entries[id]
	if !ok {
		return nil, false
	}
	p, err := dec(eodata.NewReader(data[protocol.HeaderLen:]))
	if err != nil {
		log.Debug().Stringer("packet", id).Int("len", len(data)).Err(err).Msg("schema.Fallback decode failed")
		return nil, false
	}
	return p, true
}
