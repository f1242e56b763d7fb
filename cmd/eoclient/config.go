package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/eoclient/internal/protocol/packets"
	"github.com/danmuck/eoclient/internal/session"
)

type fileConfig struct {
	Address            string   `toml:"address"`
	DebugAddr          string   `toml:"debug_addr"`
	CORSOrigins        []string `toml:"cors_origins"`
	Version            string   `toml:"version"`
	Hdid               string   `toml:"hdid"`
	Challenge          int      `toml:"challenge"`
	DispatchBudget     int      `toml:"dispatch_budget"`
	TickInterval       string   `toml:"tick_interval"`
	ConnectTimeout     string   `toml:"connect_timeout"`
	HandshakeTimeout   string   `toml:"handshake_timeout"`
	WriteTimeout       string   `toml:"write_timeout"`
	MaxConnectAttempts int      `toml:"max_connect_attempts"`
	MaxFrameBytes      int      `toml:"max_frame_bytes"`
}

type appConfig struct {
	Address     string
	DebugAddr   string
	CORSOrigins []string
	Hello       packets.InitInitClient
	Session     session.Config
}

func defaultAppConfig() appConfig {
	return appConfig{
		Address:   "127.0.0.1:8078",
		DebugAddr: "127.0.0.1:7080",
		Hello: packets.InitInitClient{
			Challenge: 72000,
			Major:     0,
			Minor:     0,
			Patch:     28,
			Hdid:      "161726351",
		},
		Session: session.DefaultConfig(),
	}
}

func loadAppConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return appConfig{}, fmt.Errorf("load eoclient config: %w", err)
	}

	if meta.IsDefined("address") {
		cfg.Address = strings.TrimSpace(raw.Address)
	}
	if meta.IsDefined("debug_addr") {
		cfg.DebugAddr = strings.TrimSpace(raw.DebugAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CORSOrigins = raw.CORSOrigins
	}
	if meta.IsDefined("version") {
		v, err := parseVersion(raw.Version)
		if err != nil {
			return appConfig{}, err
		}
		cfg.Hello.Major, cfg.Hello.Minor, cfg.Hello.Patch = v[0], v[1], v[2]
	}
	if meta.IsDefined("hdid") {
		cfg.Hello.Hdid = strings.TrimSpace(raw.Hdid)
	}
	if meta.IsDefined("challenge") {
		cfg.Hello.Challenge = raw.Challenge
	}
	if meta.IsDefined("dispatch_budget") {
		cfg.Session.DispatchBudget = raw.DispatchBudget
	}
	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"tick_interval", raw.TickInterval, &cfg.Session.TickInterval},
		{"connect_timeout", raw.ConnectTimeout, &cfg.Session.ConnectTimeout},
		{"handshake_timeout", raw.HandshakeTimeout, &cfg.Session.HandshakeTimeout},
		{"write_timeout", raw.WriteTimeout, &cfg.Session.WriteTimeout},
	}
	for _, d := range durations {
		if !meta.IsDefined(d.key) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return appConfig{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dst = v
	}
	if meta.IsDefined("max_connect_attempts") {
		cfg.Session.MaxConnectAttempts = raw.MaxConnectAttempts
	}
	if meta.IsDefined("max_frame_bytes") {
		cfg.Session.Frame.MaxPayloadBytes = raw.MaxFrameBytes
	}

	cfg.Session = cfg.Session.WithDefaults()
	return cfg, nil
}

// parseVersion reads "major.minor.patch".
func parseVersion(raw string) ([3]int, error) {
	var out [3]int
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != len(out) {
		return out, fmt.Errorf("parse version %q: want major.minor.patch", raw)
	}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return out, fmt.Errorf("parse version %q: bad component %q", raw, part)
		}
		out[i] = n
	}
	return out, nil
}
