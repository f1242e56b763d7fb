package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/eoclient/internal/dispatch"
	"github.com/danmuck/eoclient/internal/observability"
	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/danmuck/eoclient/internal/protocol/custom"
	"github.com/danmuck/eoclient/internal/protocol/envelope"
	"github.com/danmuck/eoclient/internal/protocol/frame"
	"github.com/danmuck/eoclient/internal/protocol/packets"
	"github.com/danmuck/eoclient/internal/protocol/schema"
	"github.com/danmuck/eoclient/internal/protocol/sequence"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrClosed            = errors.New("session: closed")
	ErrMultiplierSet     = errors.New("session: multiplier already set")
	ErrInvalidMultiplier = errors.New("session: invalid multiplier")
	ErrNilConn           = errors.New("session: nil connection")
)

// Snapshot is a point-in-time view of one session.
type Snapshot struct {
	Remote        string             `json:"remote"`
	Multiplier    int                `json:"multiplier"`
	MultiplierSet bool               `json:"multiplier_set"`
	PlayerID      int                `json:"player_id"`
	NextSequence  int                `json:"next_sequence"`
	QueueDepth    int                `json:"queue_depth"`
	Handlers      int                `json:"handlers"`
	Totals        dispatch.TickStats `json:"totals"`
	Closed        bool               `json:"closed"`
}

// Session is the single owner of one connection's codec state. Handlers
// registered through Handlers run on the tick goroutine.
type Session struct {
	cfg    Config
	conn   net.Conn
	reader *bufio.Reader

	writeMu sync.Mutex

	mu            sync.RWMutex
	multiplier    int
	multiplierSet bool
	playerID      int

	counter  *sequence.Counter
	decoder  *envelope.Decoder
	queue    *dispatch.Queue
	handlers *dispatch.Handlers
	loop     *dispatch.Loop
	closed   atomic.Bool
}

// New wraps an established connection. The server packet schema and the
// custom fallback are checked for collisions before anything is decoded.
func New(conn net.Conn, cfg Config) (*Session, error) {
	if conn == nil {
		return nil, ErrNilConn
	}
	primary := packets.ServerTable()
	fallback := custom.Fallback()
	if err := schema.Validate(primary, fallback); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()
	s := &Session{
		cfg:      cfg,
		conn:     conn,
		reader:   bufio.NewReader(conn),
		counter:  sequence.NewCounter(),
		decoder:  envelope.NewDecoder(schema.NewRegistry(primary, fallback)),
		queue:    dispatch.NewQueue(),
		handlers: dispatch.NewHandlers(),
	}
	s.loop = dispatch.NewLoop(s.queue, s.handlers, cfg.DispatchBudget)
	dispatch.On(s.handlers, protocol.ID(protocol.FamilyConnection, protocol.ActionPlayer), s.onServerPing).
		WhenReady(s.Ready)
	return s, nil
}

// Handlers is the registry application handlers are added to.
func (s *Session) Handlers() *dispatch.Handlers {
	return s.handlers
}

// Queue exposes the inbound queue.
func (s *Session) Queue() *dispatch.Queue {
	return s.queue
}

// Multiplier returns the negotiated multiplier; zero until the handshake.
func (s *Session) Multiplier() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.multiplier
}

// Ready reports whether the handshake has set the multiplier.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.multiplierSet
}

// SetMultiplier fixes the connection multiplier. It may be set only once,
// and never after Close.
func (s *Session) SetMultiplier(m int) error {
	if m < 0 || m > 0xFF {
		return fmt.Errorf("%w: %d", ErrInvalidMultiplier, m)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrClosed
	}
	if s.multiplierSet {
		return fmt.Errorf("%w: have %d", ErrMultiplierSet, s.multiplier)
	}
	s.multiplier = m
	s.multiplierSet = true
	return nil
}

// Send encodes p with the next outbound sequence value and writes one frame.
// Sequence overflow is fatal: the session is closed and the error returned.
func (s *Session) Send(p protocol.Packet) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	seq, err := s.counter.Next()
	if err != nil {
		log.Error().Err(err).Stringer("packet", protocol.IDOf(p)).Msg("session outbound sequence overflow; closing")
		_ = s.Close()
		return err
	}
	data, err := envelope.Encode(p, s.Multiplier(), seq)
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	if err := frame.WriteFrame(s.conn, data, s.cfg.Frame); err != nil {
		return fmt.Errorf("session: write %s: %w", protocol.IDOf(p), err)
	}
	log.Trace().Stringer("packet", protocol.IDOf(p)).Int("seq", seq).Int("len", len(data)).Msg("session.Send")
	return nil
}

// Receive decodes one inbound envelope and enqueues it. Unrecognized
// envelopes are counted, logged and dropped.
func (s *Session) Receive(raw []byte) bool {
	p, ok := s.decoder.Decode(raw, s.Multiplier())
	if !ok {
		observability.RecordDecodeMiss()
		log.Debug().Int("len", len(raw)).Msg("session decode miss; envelope dropped")
		return false
	}
	s.queue.Enqueue(p)
	return true
}

// Tick runs one bounded dispatch pass.
func (s *Session) Tick() dispatch.TickStats {
	return s.loop.Tick()
}

// Run pumps frames into the queue and ticks the loop until ctx ends, the
// connection fails or Close is called. A clean stop returns nil.
func (s *Session) Run(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		_ = s.Close()
		return nil
	})
	g.Go(func() error {
		return s.readPump()
	})
	g.Go(func() error {
		return s.tickLoop(gctx)
	})
	err := g.Wait()
	if errors.Is(err, ErrClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Session) readPump() error {
	for {
		raw, err := frame.ReadFrame(s.reader, s.cfg.Frame)
		if err != nil {
			if s.closed.Load() {
				return ErrClosed
			}
			log.Warn().Err(err).Msg("session read failed")
			return fmt.Errorf("session: read: %w", err)
		}
		s.Receive(raw)
	}
}

func (s *Session) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.loop.Tick()
		}
	}
}

// Close drops every queued packet, clears the multiplier and closes the
// connection. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.mu.Lock()
	s.multiplier = 0
	s.multiplierSet = false
	s.mu.Unlock()
	dropped := s.queue.Clear()
	log.Info().Str("remote", s.remote()).Int("dropped", dropped).Msg("session closed")
	return s.conn.Close()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	snap := Snapshot{
		Remote:        s.remote(),
		Multiplier:    s.multiplier,
		MultiplierSet: s.multiplierSet,
		PlayerID:      s.playerID,
	}
	s.mu.RUnlock()
	snap.NextSequence = s.counter.Peek()
	snap.QueueDepth = s.queue.Len()
	snap.Handlers = s.handlers.Len()
	snap.Totals = s.loop.Totals()
	snap.Closed = s.closed.Load()
	return snap
}

func (s *Session) remote() string {
	if addr := s.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

// onServerPing re-seeds the outbound sequence and answers the ping. A seed
// the counter cannot hold leaves both peers out of step, so the session is
// closed.
func (s *Session) onServerPing(p *packets.ConnectionPlayerServer) bool {
	start := sequence.StartFromPing(p.Seq1, p.Seq2)
	if err := s.counter.Reset(start); err != nil {
		log.Error().Err(err).Int("seq1", p.Seq1).Int("seq2", p.Seq2).Msg("session rejected sequence re-seed; closing")
		_ = s.Close()
		return false
	}
	if err := s.Send(packets.ConnectionPingClient{}); err != nil {
		log.Warn().Err(err).Msg("session ping reply failed")
		return false
	}
	return true
}
