package app

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "walletbot/core/config"
	coredatabase "walletbot/core/database"
)

// LedgerConfig holds Solana RPC settings.
type LedgerConfig struct {
	RPCURL                string `yaml:"rpc_url" envconfig:"SOLANA_RPC_URL"`
	ConfirmTimeoutSeconds int    `yaml:"confirm_timeout_seconds" envconfig:"SOLANA_CONFIRM_TIMEOUT_SECONDS"`
}

// Config aggregates the core bot configuration with wallet-specific sections.
// The database section is optional; when host is empty the transfer history
// store is disabled and the bot runs fully in memory.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Ledger   LedgerConfig        `yaml:"ledger"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads the app configuration from YAML and environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	return &cfg, nil
}
