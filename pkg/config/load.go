package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	applicationName = "ens-avatar"
	envPrefix       = "ENS_AVATAR"
)

// Load reads configuration from path, or from ens-avatar.{yaml,json,toml} in
// the working directory, $HOME/.ens-avatar or /etc/ens-avatar when path is
// empty. A missing file is not an error in the search-path case. Environment
// variables prefixed with ENS_AVATAR_ override file values (for example
// ENS_AVATAR_RPC_ADDR or ENS_AVATAR_TIMEOUTS_HTTP). The result is validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var err error
	if path != "" {
		v.SetConfigFile(path)
		err = v.ReadInConfig()
	} else {
		v.SetConfigName(applicationName)
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("$HOME/.%s", applicationName))
		v.AddConfigPath(fmt.Sprintf("/etc/%s", applicationName))
		err = v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every scalar key so AutomaticEnv can override keys
// absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("rpc_addr", "")
	v.SetDefault("registry", "")
	v.SetDefault("cache", 0)
	v.SetDefault("cache_size", DefaultCacheSize)
	v.SetDefault("ipfs", "")
	v.SetDefault("arweave", "")
	v.SetDefault("ipfs_api", "")
	v.SetDefault("url_deny_list", []string{})
	v.SetDefault("max_content_length", DefaultMaxContentLength)
	v.SetDefault("debug", false)
	v.SetDefault("timeouts.dial", "0s")
	v.SetDefault("timeouts.http", "0s")
	v.SetDefault("timeouts.chain_read", "0s")
}
