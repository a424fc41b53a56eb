package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "SYNTAX_HIGHLIGHTER"

// configName is the file searched for in the working directory when no
// explicit path is given.
const configName = "syntax-highlighter"

// Load reads configuration with the following priority (highest to lowest):
//  1. Environment variables (SYNTAX_HIGHLIGHTER_*, plus bare SANITY_CHECK and QUIET)
//  2. The YAML file at path, or ./syntax-highlighter.yaml when path is empty
//  3. Default values
//
// A missing file is only an error when path names it explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{"addr", "request_timeout", "max_request_bytes", "warm_languages", "mcp.enabled"} {
		_ = v.BindEnv(key)
	}
	// SANITY_CHECK and QUIET are read without the prefix.
	_ = v.BindEnv("sanity_check", "SANITY_CHECK")
	_ = v.BindEnv("quiet", "QUIET")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("request_timeout", defaults.RequestTimeout)
	v.SetDefault("max_request_bytes", defaults.MaxRequestBytes)
	v.SetDefault("warm_languages", defaults.WarmLanguages)
	v.SetDefault("mcp.enabled", defaults.MCP.Enabled)
	v.SetDefault("quiet", defaults.Quiet)
	v.SetDefault("sanity_check", defaults.SanityCheck)
}
