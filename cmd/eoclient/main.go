package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/eoclient/internal/logging"
	"github.com/danmuck/eoclient/internal/observability"
	"github.com/danmuck/eoclient/internal/server"
	"github.com/danmuck/eoclient/internal/session"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "cmd/eoclient/ex.config.toml", "path to the TOML config")
	flag.Parse()

	logging.ConfigureRuntime()
	observability.InitLogger("eoclient")

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "eoclient: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debug := server.New(cfg.DebugAddr, cfg.CORSOrigins)
	g, gctx := errgroup.WithContext(ctx)
	if cfg.DebugAddr != "" {
		g.Go(func() error {
			return debug.Run(gctx)
		})
	}
	g.Go(func() error {
		return clientLoop(gctx, cfg, debug)
	})
	return g.Wait()
}

// clientLoop keeps one session alive, reconnecting whenever it drops.
func clientLoop(ctx context.Context, cfg appConfig, debug *server.Server) error {
	for {
		s, err := session.Connect(ctx, cfg.Address, cfg.Hello, cfg.Session)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		registerHandlers(s.Handlers(), s.Ready)
		debug.Attach(s)

		err = s.Run(ctx)
		debug.Attach(nil)
		if ctx.Err() != nil {
			return nil
		}
		log.Warn().Err(err).Str("addr", cfg.Address).Msg("session ended; reconnecting")
	}
}
