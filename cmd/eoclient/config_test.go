package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/eoclient/internal/session"
	"github.com/danmuck/eoclient/internal/testutil/testlog"
)

func TestLoadAppConfigExample(t *testing.T) {
	testlog.Start(t)
	cfg, err := loadAppConfig("ex.config.toml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Address != "127.0.0.1:8078" {
		t.Fatalf("unexpected address: %q", cfg.Address)
	}
	if cfg.DebugAddr != "127.0.0.1:7080" {
		t.Fatalf("unexpected debug addr: %q", cfg.DebugAddr)
	}
	if cfg.Hello.Patch != 28 || cfg.Hello.Hdid != "161726351" || cfg.Hello.Challenge != 72000 {
		t.Fatalf("unexpected hello: %+v", cfg.Hello)
	}
	if cfg.Session.DispatchBudget != 20 || cfg.Session.TickInterval != 50*time.Millisecond {
		t.Fatalf("unexpected dispatch config: %+v", cfg.Session)
	}
	if cfg.Session.WriteTimeout != 10*time.Second {
		t.Fatalf("unexpected write timeout: %v", cfg.Session.WriteTimeout)
	}
	if len(cfg.CORSOrigins) != 1 {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadAppConfigDefaultsAndOverrides(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
address = " 10.0.0.5:8078 "
version = "1.2.3"
dispatch_budget = 4
tick_interval = "10ms"
`)
	cfg, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Address != "10.0.0.5:8078" {
		t.Fatalf("unexpected address: %q", cfg.Address)
	}
	if cfg.Hello.Major != 1 || cfg.Hello.Minor != 2 || cfg.Hello.Patch != 3 {
		t.Fatalf("unexpected version: %+v", cfg.Hello)
	}
	if cfg.Session.DispatchBudget != 4 || cfg.Session.TickInterval != 10*time.Millisecond {
		t.Fatalf("unexpected session: %+v", cfg.Session)
	}
	d := session.DefaultConfig()
	if cfg.Session.ConnectTimeout != d.ConnectTimeout || cfg.DebugAddr != defaultAppConfig().DebugAddr {
		t.Fatalf("defaults not kept: %+v", cfg)
	}
}

func TestLoadAppConfigRejectsBadValues(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"version":  `version = "1.2"`,
		"duration": `tick_interval = "soon"`,
		"syntax":   `address = `,
	}
	for name, body := range cases {
		if _, err := loadAppConfig(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := loadAppConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil || !strings.Contains(err.Error(), "load eoclient config") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eoclient.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
