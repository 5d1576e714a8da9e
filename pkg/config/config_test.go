package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestConfigValidate_AppliesDefaults verifies that Validate applies default
// values and normalises gateways, deny-list hosts and marketplace names.
func TestConfigValidate_AppliesDefaults(t *testing.T) {
	cfg := &Config{
		IPFS:        "https://gateway.example/",
		URLDenyList: []string{" Tracker.Example "},
		APIKey:      map[string]string{"OpenSea": "k"},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if cfg.CacheSize != DefaultCacheSize {
		t.Fatalf("unexpected CacheSize: %d", cfg.CacheSize)
	}
	if cfg.MaxContentLength != DefaultMaxContentLength {
		t.Fatalf("unexpected MaxContentLength: %d", cfg.MaxContentLength)
	}
	if cfg.IPFS != "https://gateway.example" {
		t.Fatalf("trailing slash not trimmed: %s", cfg.IPFS)
	}
	if cfg.URLDenyList[0] != "tracker.example" {
		t.Fatalf("deny-list host not normalised: %q", cfg.URLDenyList[0])
	}
	if cfg.APIKey["opensea"] != "k" {
		t.Fatalf("api key name not normalised: %v", cfg.APIKey)
	}
}

// TestConfigValidate_RejectsInvalid verifies format checks.
func TestConfigValidate_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "negative cache", cfg: Config{Cache: -1}},
		{name: "negative size", cfg: Config{CacheSize: -5}},
		{name: "gateway without scheme", cfg: Config{IPFS: "ipfs.io"}},
		{name: "ftp gateway", cfg: Config{Arweave: "ftp://arweave.net"}},
		{name: "bad registry", cfg: Config{Registry: "0x123"}},
		{name: "bad deny-list host", cfg: Config{URLDenyList: []string{"not a host"}}},
		{name: "bad rpc", cfg: Config{RPCAddr: "::::"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

// TestConfigValidate_AllowsAnyRPCProtocol verifies that Validate accepts
// http and websocket endpoints.
func TestConfigValidate_AllowsAnyRPCProtocol(t *testing.T) {
	for _, addr := range []string{
		"https://mainnet.infura.io/v3/key",
		"http://localhost:8545",
		"wss://mainnet.infura.io/ws/v3/key",
		"ws://localhost:8546",
	} {
		cfg := &Config{RPCAddr: addr}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error for %s: %v", addr, err)
		}
	}
}

// TestTimeoutsWithDefaults verifies that WithDefaults preserves explicitly set
// timeout values and fills in defaults for zero values.
func TestTimeoutsWithDefaults(t *testing.T) {
	in := Timeouts{HTTP: 3 * time.Second}
	out := in.WithDefaults()

	if out.HTTP != 3*time.Second {
		t.Fatalf("HTTP overwritten: %v", out.HTTP)
	}
	if out.Dial != 5*time.Second {
		t.Fatalf("unexpected Dial default: %v", out.Dial)
	}
	if out.ChainRead != 12*time.Second {
		t.Fatalf("unexpected ChainRead default: %v", out.ChainRead)
	}
	if in.Dial != 0 {
		t.Fatal("WithDefaults mutated its receiver")
	}
}

func TestCacheTTL(t *testing.T) {
	cfg := &Config{Cache: 90}
	if cfg.CacheTTL() != 90*time.Second {
		t.Fatalf("unexpected ttl: %v", cfg.CacheTTL())
	}
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ens-avatar.yaml")
	content := `rpc_addr: http://localhost:8545
cache: 60
ipfs: https://gateway.example/
api_key:
  opensea: from-file
url_deny_list:
  - bad.example
timeouts:
  http: 7s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ENS_AVATAR_RPC_ADDR", "http://env-node:8545")
	t.Setenv("ENS_AVATAR_TIMEOUTS_CHAIN_READ", "3s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RPCAddr != "http://env-node:8545" {
		t.Fatalf("env override not applied: %s", cfg.RPCAddr)
	}
	if cfg.Cache != 60 || cfg.IPFS != "https://gateway.example" {
		t.Fatalf("file values not loaded: %+v", cfg)
	}
	if cfg.APIKey["opensea"] != "from-file" {
		t.Fatalf("api key not loaded: %v", cfg.APIKey)
	}
	if len(cfg.URLDenyList) != 1 || cfg.URLDenyList[0] != "bad.example" {
		t.Fatalf("deny-list not loaded: %v", cfg.URLDenyList)
	}
	if cfg.Timeouts.HTTP != 7*time.Second || cfg.Timeouts.ChainRead != 3*time.Second {
		t.Fatalf("timeouts not loaded: %+v", cfg.Timeouts)
	}
	if cfg.CacheSize != DefaultCacheSize {
		t.Fatalf("default cache size not applied: %d", cfg.CacheSize)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit file")
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{Debug: true}
	l, err := cfg.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !l.Core().Enabled(-1) {
		t.Fatal("debug level not enabled")
	}

	cfg.Debug = false
	l, err = cfg.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if l.Core().Enabled(-1) {
		t.Fatal("debug level enabled without Debug")
	}
}
