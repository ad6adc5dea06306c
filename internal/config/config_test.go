package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Fatalf("unexpected storage driver %q", cfg.Storage.Driver)
	}
	if cfg.Storage.SQLitePath != "./landledger.db" {
		t.Fatalf("unexpected sqlite path %q", cfg.Storage.SQLitePath)
	}
	if cfg.Vault.Driver != "fs" || cfg.Vault.FSRoot != "./vaultdata" {
		t.Fatalf("unexpected vault defaults %+v", cfg.Vault)
	}
	if cfg.Bridge.Driver != "off" {
		t.Fatalf("unexpected bridge driver %q", cfg.Bridge.Driver)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log defaults %+v", cfg.Log)
	}
	if cfg.Platform.FeeBps != 500 || cfg.Platform.GovernanceThreshold != 1 {
		t.Fatalf("unexpected platform defaults %+v", cfg.Platform)
	}
}

func TestLoadReadsYamlFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
log:
  level: debug
  format: text
storage:
  driver: postgres
  postgres_dsn: postgres://ledger:secret@db/ledger
vault:
  driver: s3
  s3:
    bucket: deeds
    region: eu-central-1
    path_style: true
bridge:
  driver: solana
  solana:
    rpc_url: http://localhost:8899
platform:
  fee_bps: 250
  governance_threshold: 10
`)
	if err := os.WriteFile(filepath.Join(dir, "landledger.yaml"), content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Fatalf("log section not applied: %+v", cfg.Log)
	}
	if cfg.Storage.Driver != "postgres" || cfg.Storage.PostgresDSN != "postgres://ledger:secret@db/ledger" {
		t.Fatalf("storage section not applied: %+v", cfg.Storage)
	}
	if cfg.Vault.S3.Bucket != "deeds" || cfg.Vault.S3.Region != "eu-central-1" || !cfg.Vault.S3.PathStyle {
		t.Fatalf("vault section not applied: %+v", cfg.Vault)
	}
	if cfg.Bridge.Driver != "solana" || cfg.Bridge.Solana.RPCURL != "http://localhost:8899" {
		t.Fatalf("bridge section not applied: %+v", cfg.Bridge)
	}
	if cfg.Platform.FeeBps != 250 || cfg.Platform.GovernanceThreshold != 10 {
		t.Fatalf("platform section not applied: %+v", cfg.Platform)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "landledger.yaml"), []byte("storage:\n  driver: sqlite\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LANDLEDGER_STORAGE_DRIVER", "memory")
	t.Setenv("LANDLEDGER_VAULT_S3_BUCKET", "env-bucket")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("env override lost: %+v", cfg.Storage)
	}
	if cfg.Vault.S3.Bucket != "env-bucket" {
		t.Fatalf("nested env override lost: %+v", cfg.Vault.S3)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "landledger.yaml"), []byte("storage: [broken"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	logger := LogConfig{Level: "debug", Format: "text"}.NewLogger()
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("unexpected level %v", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("expected text formatter, got %T", logger.Formatter)
	}
	logger = LogConfig{Level: "not-a-level"}.NewLogger()
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info fallback, got %v", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected json formatter, got %T", logger.Formatter)
	}
}
