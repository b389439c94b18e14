// Package config provides configuration loading for the toolkit. It uses
// viper for file/env parsing with sane defaults, so a fresh install works
// without a config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the toolkit.
type Config struct {
	// StorageDir is the directory holding the namespace documents.
	StorageDir string `mapstructure:"storage_dir"`
	// DefaultNetwork is used when a command gives no --network.
	DefaultNetwork string `mapstructure:"default_network"`
	// DefaultAlgorithm is used by key creation when no algorithm is given.
	DefaultAlgorithm string `mapstructure:"default_algorithm"`
	// Networks holds custom network definitions (the localnet variant),
	// keyed by network name.
	Networks map[string]NetworkConfig `mapstructure:"networks"`
}

// NetworkConfig describes a custom network's endpoints.
type NetworkConfig struct {
	NodeEndpoint   string `mapstructure:"node_endpoint"`
	NodeAccountID  string `mapstructure:"node_account_id"`
	MirrorEndpoint string `mapstructure:"mirror_endpoint"`
}

// Load reads configuration from files and environment variables.
// Files are searched in ., ./config, and ~/.hederactl; environment
// variables use the HEDERACTL_ prefix.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".hederactl"))
	}

	v.SetEnvPrefix("HEDERACTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file not found is OK, defaults and env vars apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	storageDir := ".hederactl"
	if home, err := os.UserHomeDir(); err == nil {
		storageDir = filepath.Join(home, ".hederactl")
	}
	v.SetDefault("storage_dir", storageDir)
	v.SetDefault("default_network", "testnet")
	v.SetDefault("default_algorithm", "ed25519")

	// Localnet defaults match a locally running node.
	v.SetDefault("networks.localnet.node_endpoint", "127.0.0.1:50211")
	v.SetDefault("networks.localnet.node_account_id", "0.0.3")
	v.SetDefault("networks.localnet.mirror_endpoint", "127.0.0.1:5600")
}
