// Package custom defines application packets the shared schema does not
// know about. Each has a bespoke body layout read by a fallback decoder.
//
// Server-to-client custom packets carry no sequence field; inbound
// envelopes never do.
package custom

import (
	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/danmuck/eoclient/internal/protocol/eodata"
	"github.com/danmuck/eoclient/internal/protocol/schema"
)

// ItemSpec describes one item by id.
type ItemSpec struct {
	ItemID int
}

func (ItemSpec) Family() protocol.Family { return protocol.FamilyItem }
func (ItemSpec) Action() protocol.Action { return protocol.ActionSpec }

func (p ItemSpec) Serialize(w *eodata.Writer) error {
	return w.AddShort(p.ItemID)
}

func decodeItemSpec(r *eodata.Reader) (protocol.Packet, error) {
	id, err := r.GetShort()
	if err != nil {
		return nil, err
	}
	return &ItemSpec{ItemID: id}, nil
}

// NpcDialog is a scripted npc line; Options are break-terminated choices.
type NpcDialog struct {
	NpcIndex int
	Message  string
	Options  []string
}

func (NpcDialog) Family() protocol.Family { return protocol.FamilyNpc }
func (NpcDialog) Action() protocol.Action { return protocol.ActionDialog }

func (p NpcDialog) Serialize(w *eodata.Writer) error {
	if err := w.AddShort(p.NpcIndex); err != nil {
		return err
	}
	w.AddBreakString(p.Message)
	if err := w.AddChar(len(p.Options)); err != nil {
		return err
	}
	for _, opt := range p.Options {
		w.AddBreakString(opt)
	}
	return nil
}

func decodeNpcDialog(r *eodata.Reader) (protocol.Packet, error) {
	idx, err := r.GetShort()
	if err != nil {
		return nil, err
	}
	msg, err := r.GetBreakString()
	if err != nil {
		return nil, err
	}
	n, err := r.GetChar()
	if err != nil {
		return nil, err
	}
	p := &NpcDialog{NpcIndex: idx, Message: msg}
	for i := 0; i < n; i++ {
		opt, err := r.GetBreakString()
		if err != nil {
			return nil, err
		}
		p.Options = append(p.Options, opt)
	}
	return p, nil
}

// ExpGain is one party member's share of a kill.
type ExpGain struct {
	PlayerID   int
	Experience int
	LevelUp    bool
}

// PartyTargetGroup distributes experience across a party.
type PartyTargetGroup struct {
	Gains []ExpGain
}

func (PartyTargetGroup) Family() protocol.Family { return protocol.FamilyParty }
func (PartyTargetGroup) Action() protocol.Action { return protocol.ActionTargetGroup }

func (p PartyTargetGroup) Serialize(w *eodata.Writer) error {
	for _, g := range p.Gains {
		if err := w.AddShort(g.PlayerID); err != nil {
			return err
		}
		if err := w.AddInt(g.Experience); err != nil {
			return err
		}
		lvl := 0
		if g.LevelUp {
			lvl = 1
		}
		if err := w.AddChar(lvl); err != nil {
			return err
		}
	}
	return nil
}

const expGainLen = 2 + 4 + 1

func decodePartyTargetGroup(r *eodata.Reader) (protocol.Packet, error) {
	p := &PartyTargetGroup{}
	for r.Remaining() >= expGainLen {
		var g ExpGain
		var err error
		if g.PlayerID, err = r.GetShort(); err != nil {
			return nil, err
		}
		if g.Experience, err = r.GetInt(); err != nil {
			return nil, err
		}
		lvl, err := r.GetChar()
		if err != nil {
			return nil, err
		}
		g.LevelUp = lvl != 0
		p.Gains = append(p.Gains, g)
	}
	if r.Remaining() != 0 {
		return nil, protocol.ErrTrailingPayload
	}
	return p, nil
}

// Fallback returns the custom table consulted after the shared schema.
func Fallback() *schema.Fallback {
	f := schema.NewFallback()
	for id, dec := range map[protocol.PacketID]schema.FallbackDecoder{
		protocol.ID(protocol.FamilyItem, protocol.ActionSpec):         decodeItemSpec,
		protocol.ID(protocol.FamilyNpc, protocol.ActionDialog):        decodeNpcDialog,
		protocol.ID(protocol.FamilyParty, protocol.ActionTargetGroup): decodePartyTargetGroup,
	} {
		if err := f.Register(id, dec); err != nil {
			panic(err)
		}
	}
	return f
}
