package session

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/danmuck/eoclient/internal/protocol/packets"
	"github.com/rs/zerolog/log"
)

var ErrAddressRequired = errors.New("session: address required")

// Connect dials address, wraps the connection and completes the handshake,
// retrying with backoff until it succeeds, the server rejects the client,
// MaxConnectAttempts is reached or ctx ends.
func Connect(ctx context.Context, address string, hello packets.InitInitClient, cfg Config) (*Session, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrAddressRequired
	}
	cfg = cfg.WithDefaults()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var attempt int
	for {
		attempt++
		s, err := connectOnce(ctx, address, hello, cfg)
		if err == nil {
			return s, nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Str("addr", address).Msg("session connect failed")
		if errors.Is(err, ErrHandshakeRejected) || !shouldRetry(cfg, attempt) {
			return nil, err
		}
		if err := sleepBackoff(ctx, cfg.Backoff, attempt, rng); err != nil {
			return nil, err
		}
	}
}

func connectOnce(ctx context.Context, address string, hello packets.InitInitClient, cfg Config) (*Session, error) {
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	s, err := New(conn, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := s.Handshake(ctx, hello); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func shouldRetry(cfg Config, attempt int) bool {
	if cfg.MaxConnectAttempts <= 0 {
		return true
	}
	return attempt < cfg.MaxConnectAttempts
}
