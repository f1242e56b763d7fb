package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/danmuck/eoclient/internal/protocol/frame"
	"github.com/danmuck/eoclient/internal/protocol/packets"
	"github.com/danmuck/eoclient/internal/protocol/sequence"
	"github.com/rs/zerolog/log"
)

var (
	ErrHandshakeRejected = errors.New("session: handshake rejected")
	ErrUnexpectedPacket  = errors.New("session: unexpected packet")
)

// Handshake sends hello, waits for the Init reply and applies it: the
// multiplier is fixed, the outbound sequence is seeded and the accept is
// sent. It must run before Run.
func (s *Session) Handshake(ctx context.Context, hello packets.InitInitClient) (*packets.InitInitServer, error) {
	deadline := time.Now().Add(s.cfg.HandshakeTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = s.conn.SetDeadline(deadline)
	defer func() { _ = s.conn.SetDeadline(time.Time{}) }()

	if err := s.Send(hello); err != nil {
		return nil, err
	}
	raw, err := frame.ReadFrame(s.reader, s.cfg.Frame)
	if err != nil {
		return nil, fmt.Errorf("session: read init reply: %w", err)
	}
	p, ok := s.decoder.Decode(raw, 0)
	if !ok {
		return nil, fmt.Errorf("%w: undecodable init reply len=%d", ErrUnexpectedPacket, len(raw))
	}
	reply, ok := p.(*packets.InitInitServer)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedPacket, protocol.IDOf(p))
	}

	switch reply.Result {
	case packets.InitReplyOK:
	case packets.InitReplyOutOfDate:
		return reply, fmt.Errorf("%w: client out of date, server wants %d.%d.%d",
			ErrHandshakeRejected, reply.Version[0], reply.Version[1], reply.Version[2])
	case packets.InitReplyBanned:
		return reply, fmt.Errorf("%w: banned for %d minutes", ErrHandshakeRejected, reply.BanMinutes)
	default:
		return reply, fmt.Errorf("%w: result=%d", ErrHandshakeRejected, reply.Result)
	}

	if err := s.SetMultiplier(reply.Multiplier); err != nil {
		return reply, err
	}
	s.mu.Lock()
	s.playerID = reply.PlayerID
	s.mu.Unlock()
	if err := s.counter.Reset(sequence.StartFromInit(reply.Seq1, reply.Seq2)); err != nil {
		return reply, err
	}
	if err := s.Send(packets.ConnectionAcceptClient{Multiplier: reply.Multiplier, PlayerID: reply.PlayerID}); err != nil {
		return reply, err
	}
	log.Info().
		Str("remote", s.remote()).
		Int("player_id", reply.PlayerID).
		Int("multiplier", reply.Multiplier).
		Int("sequence", s.counter.Peek()).
		Msg("session handshake complete")
	return reply, nil
}
