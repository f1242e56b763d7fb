package schema

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/danmuck/eoclient/internal/protocol/eodata"
	"github.com/rs/zerolog/log"
)

var (
	ErrDuplicate    = errors.New("schema: duplicate registration")
	ErrInvalidEntry = errors.New("schema: invalid registration")
)

// Source creates packets from a full envelope body (header included).
type Source interface {
	Has(id protocol.PacketID) bool
	TryCreate(data []byte) (protocol.Packet, bool)
}

// Constructor returns a zero packet ready for Deserialize.
type Constructor func() protocol.Deserializer

// Table is an explicit registration table of packet constructors.
type Table struct {
	name    string
	entries map[protocol.PacketID]Constructor
}

func NewTable(name string) *Table {
	return &Table{
		name:    name,
		entries: make(map[protocol.PacketID]Constructor),
	}
}

func (t *Table) Name() string {
	return t.name
}

// Register adds ctor under the id reported by the packet it builds.
func (t *Table) Register(ctor Constructor) error {
	if ctor == nil {
		return fmt.Errorf("%w: %s: nil constructor", ErrInvalidEntry, t.name)
	}
	id := protocol.IDOf(ctor())
	if _, ok := t.entries[id]; ok {
		return fmt.Errorf("%w: %s: %s", ErrDuplicate, t.name, id)
	}
	t.entries[id] = ctor
	return nil
}

// MustRegister is Register for static tables built at init.
func (t *Table) MustRegister(ctors ...Constructor) *Table {
	for _, ctor := range ctors {
		if err := t.Register(ctor); err != nil {
			panic(err)
		}
	}
	return t
}

func (t *Table) Has(id protocol.PacketID) bool {
	_, ok := t.entries[id]
	return ok
}

// IDs lists registered pairs in (family, action) order.
func (t *Table) IDs() []protocol.PacketID {
	return sortedIDs(t.entries)
}

// TryCreate builds and deserializes the packet named by data's header.
func (t *Table) TryCreate(data []byte) (protocol.Packet, bool) {
	id, ok := protocol.PeekID(data)
	if !ok {
		return nil, false
	}
	ctor, ok := t.entries[id]
	if !ok {
		return nil, false
	}
	p := ctor()
	if err := p.Deserialize(eodata.NewReader(data[protocol.HeaderLen:])); err != nil {
		log.Debug().
			Str("table", t.name).
			Stringer("packet", id).
			Int("len", len(data)).
			Err(err).
			Msg("schema.Table deserialize failed")
		return nil, false
	}
	return p, true
}

func sortedIDs[V any](m map[protocol.PacketID]V) []protocol.PacketID {
	out := make([]protocol.PacketID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Family != out[j].Family {
			return out[i].Family < out[j].Family
		}
		return out[i].Action < out[j].Action
	})
	return out
}
