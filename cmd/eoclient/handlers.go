package main

import (
	"github.com/danmuck/eoclient/internal/dispatch"
	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/danmuck/eoclient/internal/protocol/custom"
	"github.com/danmuck/eoclient/internal/protocol/packets"
	"github.com/rs/zerolog/log"
)

// registerHandlers wires the packets this client reacts to. Every handler
// here only logs; game state is out of scope for the transport client.
func registerHandlers(h *dispatch.Handlers, ready func() bool) {
	dispatch.On(h, protocol.ID(protocol.FamilyTalk, protocol.ActionServer), func(p *packets.TalkServerServer) bool {
		log.Info().Str("message", p.Message).Msg("server announcement")
		return true
	}).WhenReady(ready)

	dispatch.On(h, protocol.ID(protocol.FamilyWarp, protocol.ActionRequest), func(p *packets.WarpRequestServer) bool {
		log.Info().Int("map", p.MapID).Int("session", p.SessionID).Msg("warp requested")
		return true
	}).WhenReady(ready)

	dispatch.On(h, protocol.ID(protocol.FamilyItem, protocol.ActionGet), func(p *packets.ItemGetServer) bool {
		log.Info().Int("item", p.ItemID).Int("amount", p.Amount).Int("weight", p.Weight).Msg("item picked up")
		return true
	}).WhenReady(ready)

	dispatch.On(h, protocol.ID(protocol.FamilyItem, protocol.ActionSpec), func(p *custom.ItemSpec) bool {
		log.Info().Int("item", p.ItemID).Msg("item spec")
		return true
	}).WhenReady(ready)

	dispatch.On(h, protocol.ID(protocol.FamilyNpc, protocol.ActionDialog), func(p *custom.NpcDialog) bool {
		log.Info().Int("npc", p.NpcIndex).Str("message", p.Message).Strs("options", p.Options).Msg("npc dialog")
		return true
	}).WhenReady(ready)

	dispatch.On(h, protocol.ID(protocol.FamilyParty, protocol.ActionTargetGroup), func(p *custom.PartyTargetGroup) bool {
		for _, g := range p.Gains {
			log.Info().Int("player", g.PlayerID).Int("exp", g.Experience).Bool("level_up", g.LevelUp).Msg("party experience")
		}
		return true
	}).WhenReady(ready)
}
