package session

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danmuck/eoclient/internal/protocol/packets"
	"github.com/danmuck/eoclient/internal/testutil/testlog"
)

func listen(t *testing.T, reply packets.InitInitServer) (string, *atomic.Int32, <-chan error) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	accepts := &atomic.Int32{}
	errs := make(chan error, 8)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			accepts.Add(1)
			go func() {
				defer conn.Close()
				if _, err := newPeer(conn).serveHandshake(reply); err != nil {
					errs <- err
				}
			}()
		}
	}()
	return ln.Addr().String(), accepts, errs
}

func TestConnectCompletesHandshake(t *testing.T) {
	testlog.Start(t)
	addr, accepts, errs := listen(t, okReply())
	s, err := Connect(context.Background(), addr, testHello, testConfig())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()
	if s.Multiplier() != 6 || accepts.Load() != 1 {
		t.Fatalf("multiplier=%d accepts=%d", s.Multiplier(), accepts.Load())
	}
	select {
	case err := <-errs:
		t.Fatalf("server side: %v", err)
	default:
	}
}

func TestConnectDoesNotRetryRejection(t *testing.T) {
	testlog.Start(t)
	addr, accepts, _ := listen(t, packets.InitInitServer{Result: packets.InitReplyBanned, BanMinutes: 5})
	cfg := testConfig()
	cfg.MaxConnectAttempts = 5
	if _, err := Connect(context.Background(), addr, testHello, cfg); !errors.Is(err, ErrHandshakeRejected) {
		t.Fatalf("expected ErrHandshakeRejected, got %v", err)
	}
	if n := accepts.Load(); n != 1 {
		t.Fatalf("expected one attempt, got %d", n)
	}
}

func TestConnectGivesUpAfterMaxAttempts(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	cfg := testConfig()
	cfg.MaxConnectAttempts = 3
	cfg.ConnectTimeout = 200 * time.Millisecond
	if _, err := Connect(context.Background(), addr, testHello, cfg); err == nil {
		t.Fatalf("expected dial failure")
	}
}

func TestConnectRequiresAddress(t *testing.T) {
	testlog.Start(t)
	if _, err := Connect(context.Background(), "  ", testHello, DefaultConfig()); !errors.Is(err, ErrAddressRequired) {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}
}

func TestNextBackoffDelay(t *testing.T) {
	testlog.Start(t)
	cfg := BackoffConfig{InitialDelay: 100 * time.Millisecond, Multiplier: 2, MaxDelay: time.Second}
	want := []time.Duration{100, 200, 400, 800, 1000, 1000}
	for i, w := range want {
		if got := NextBackoffDelay(cfg, i+1, nil); got != w*time.Millisecond {
			t.Fatalf("attempt %d delay=%s want=%s", i+1, got, w*time.Millisecond)
		}
	}
	cfg.Jitter = true
	if got := NextBackoffDelay(cfg, 2, nil); got != 100*time.Millisecond {
		t.Fatalf("jitter without rng delay=%s", got)
	}
}

func TestConfigWithDefaults(t *testing.T) {
	testlog.Start(t)
	cfg := Config{DispatchBudget: 4}.WithDefaults()
	d := DefaultConfig()
	if cfg.DispatchBudget != 4 || cfg.TickInterval != d.TickInterval || cfg.Frame != d.Frame || cfg.Backoff != d.Backoff {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
