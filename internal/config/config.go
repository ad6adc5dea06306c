// Package config loads process configuration for landledger tooling from a
// yaml file with LANDLEDGER_* environment overrides. Library embedders can
// skip it entirely; the storage, vault and bridge factories read plain
// environment variables on their own.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full process configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Vault    VaultConfig    `mapstructure:"vault"`
	Bridge   BridgeConfig   `mapstructure:"bridge"`
	Platform PlatformConfig `mapstructure:"platform"`
}

// LogConfig controls the logrus root logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // trace|debug|info|warn|error
	Format string `mapstructure:"format"` // json|text
}

// StorageConfig selects and parameterizes the persistent store.
type StorageConfig struct {
	Driver      string `mapstructure:"driver"` // memory|sqlite|postgres
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// VaultConfig selects and parameterizes the document vault.
type VaultConfig struct {
	Driver string        `mapstructure:"driver"` // fs|s3|memory
	FSRoot string        `mapstructure:"fs_root"`
	S3     VaultS3Config `mapstructure:"s3"`
}

// VaultS3Config holds the S3 vault parameters.
type VaultS3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	PathStyle bool   `mapstructure:"path_style"`
}

// BridgeConfig selects and parameterizes the certificate bridge.
type BridgeConfig struct {
	Driver string             `mapstructure:"driver"` // off|solana
	Solana BridgeSolanaConfig `mapstructure:"solana"`
}

// BridgeSolanaConfig holds the Solana bridge parameters.
type BridgeSolanaConfig struct {
	RPCURL       string `mapstructure:"rpc_url"`
	PayerKey     string `mapstructure:"payer_key"`
	RegistryPath string `mapstructure:"registry_path"`
}

// PlatformConfig carries operator defaults used when bootstrapping a new
// ledger. They never override an initialized platform.
type PlatformConfig struct {
	FeeBps              uint64 `mapstructure:"fee_bps"`
	GovernanceThreshold uint64 `mapstructure:"governance_threshold"`
}

// Load reads landledger.yaml from path (or the working directory when empty)
// and applies environment overrides. A missing config file is not an error;
// defaults plus environment cover the full surface.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("landledger")
	v.SetConfigType("yaml")
	if path == "" {
		path = "."
	}
	v.AddConfigPath(path)

	v.SetEnvPrefix("LANDLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key. Viper only surfaces environment overrides
// for keys it already knows about, so keys without a real default get an
// empty one.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "./landledger.db")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("vault.driver", "fs")
	v.SetDefault("vault.fs_root", "./vaultdata")
	v.SetDefault("vault.s3.bucket", "")
	v.SetDefault("vault.s3.region", "us-east-1")
	v.SetDefault("vault.s3.endpoint", "")
	v.SetDefault("vault.s3.path_style", false)
	v.SetDefault("bridge.driver", "off")
	v.SetDefault("bridge.solana.rpc_url", "")
	v.SetDefault("bridge.solana.payer_key", "")
	v.SetDefault("bridge.solana.registry_path", "")
	v.SetDefault("platform.fee_bps", 500)
	v.SetDefault("platform.governance_threshold", 1)
}
