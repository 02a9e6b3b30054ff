package app

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfigYAML = `
telegram:
  token: "from-yaml"
  run_mode: longpoll

logging:
  level: debug
  format: kv

ledger:
  rpc_url: "https://api.devnet.solana.com"
  confirm_timeout_seconds: 30

database:
  host: ""
`

func TestLoadConfig(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfigYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	// Environment overrides the YAML token.
	if cfg.Core.Telegram.Token != "123:abc" {
		t.Fatalf("token = %q, want env override", cfg.Core.Telegram.Token)
	}
	if cfg.Ledger.RPCURL != "https://api.devnet.solana.com" {
		t.Fatalf("rpc_url = %q", cfg.Ledger.RPCURL)
	}
	if cfg.Ledger.ConfirmTimeoutSeconds != 30 {
		t.Fatalf("confirm_timeout_seconds = %d", cfg.Ledger.ConfirmTimeoutSeconds)
	}
	if cfg.Database.Host != "" {
		t.Fatalf("database host = %q, want empty (history disabled)", cfg.Database.Host)
	}
}

func TestLoadConfigMissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("telegram:\n  token: \"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for missing telegram token")
	}
}
