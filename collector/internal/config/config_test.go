package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
collector:
  channel_id: "123456789012345678"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Collector.GatewayURL != DefaultGatewayURL {
		t.Errorf("GatewayURL = %q, want default %q", cfg.Collector.GatewayURL, DefaultGatewayURL)
	}
	if cfg.Collector.TokenEnv != DefaultTokenEnv {
		t.Errorf("TokenEnv = %q, want default %q", cfg.Collector.TokenEnv, DefaultTokenEnv)
	}
	if cfg.Collector.ServerEndpoint != DefaultServerEndpoint {
		t.Errorf("ServerEndpoint = %q, want default %q", cfg.Collector.ServerEndpoint, DefaultServerEndpoint)
	}
	if cfg.Collector.MetricsPort != 0 {
		t.Errorf("MetricsPort = %d, want 0", cfg.Collector.MetricsPort)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
collector:
  gateway_url: "wss://gw.example.net/?v=9&encoding=json"
  token_env: MY_TOKEN
  channel_id: "42"
  server_endpoint: "http://collector-target:5000/receive"
  metrics_port: 9102
  server_auth:
    mode: apikey
    header: x-farm-key
    key_env: FARM_KEY
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Collector.GatewayURL != "wss://gw.example.net/?v=9&encoding=json" {
		t.Errorf("GatewayURL = %q", cfg.Collector.GatewayURL)
	}
	if cfg.Collector.ChannelID != "42" {
		t.Errorf("ChannelID = %q, want 42", cfg.Collector.ChannelID)
	}
	if cfg.Collector.MetricsPort != 9102 {
		t.Errorf("MetricsPort = %d, want 9102", cfg.Collector.MetricsPort)
	}
	if cfg.Collector.ServerAuth.Mode != "apikey" {
		t.Errorf("ServerAuth.Mode = %q, want apikey", cfg.Collector.ServerAuth.Mode)
	}
	if got := cfg.Collector.ServerAuth.EffectiveHeader(); got != "x-farm-key" {
		t.Errorf("EffectiveHeader() = %q, want x-farm-key", got)
	}
}

func TestLoadMissingChannelID(t *testing.T) {
	path := writeConfig(t, `
collector:
  server_endpoint: "http://localhost:5000/receive"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load succeeded without channel_id, want error")
	}
	if !strings.Contains(err.Error(), "channel_id") {
		t.Errorf("error = %v, want mention of channel_id", err)
	}
}

func TestLoadBadGatewayScheme(t *testing.T) {
	path := writeConfig(t, `
collector:
  channel_id: "42"
  gateway_url: "http://gateway.example.net/"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load succeeded with http gateway URL, want error")
	}
	if !strings.Contains(err.Error(), "gateway_url") {
		t.Errorf("error = %v, want mention of gateway_url", err)
	}
}

func TestLoadBadAuthMode(t *testing.T) {
	path := writeConfig(t, `
collector:
  channel_id: "42"
  server_auth:
    mode: basic
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded with unknown auth mode, want error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load succeeded on missing file, want error")
	}
}

func TestTokenResolution(t *testing.T) {
	t.Setenv("COLLECTOR_TEST_TOKEN", "secret-token")

	cfg := CollectorConfig{TokenEnv: "COLLECTOR_TEST_TOKEN"}
	if got := cfg.Token(); got != "secret-token" {
		t.Errorf("Token() = %q, want secret-token", got)
	}

	empty := CollectorConfig{}
	if got := empty.Token(); got != "" {
		t.Errorf("Token() with no env name = %q, want empty", got)
	}
}

func TestAuthKeyResolution(t *testing.T) {
	t.Setenv("COLLECTOR_TEST_KEY", "k-123")

	a := AuthConfig{Mode: "apikey", KeyEnv: "COLLECTOR_TEST_KEY"}
	if got := a.Key(); got != "k-123" {
		t.Errorf("Key() = %q, want k-123", got)
	}
	if got := a.EffectiveHeader(); got != "x-api-key" {
		t.Errorf("EffectiveHeader() = %q, want default x-api-key", got)
	}
}
