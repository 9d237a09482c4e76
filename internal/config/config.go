// Package config loads the tool's configuration from YAML files,
// DSPILOT_* environment variables and flag overrides, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/poyrazK/dspilot/internal/core/domain"
	"github.com/poyrazK/dspilot/internal/dns/record"
)

type Config struct {
	Registry RegistryConfig `mapstructure:"registry"`
	Run      RunConfig      `mapstructure:"run"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// RegistryConfig selects the registry endpoint and account. The token
// may live inline or in a separate file; the file form also accepts
// "account:token" on a single line, the layout OpenDNSSEC hook scripts
// conventionally use for registry secrets.
type RegistryConfig struct {
	Endpoint          string        `mapstructure:"endpoint"`
	Account           string        `mapstructure:"account"`
	Token             string        `mapstructure:"token"`
	TokenFile         string        `mapstructure:"token_file"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxInflight       int           `mapstructure:"max_inflight"`
	RetractMode       string        `mapstructure:"retract_mode"`
}

type RunConfig struct {
	DigestTypes []string `mapstructure:"digest_types"`
	Concurrency int      `mapstructure:"concurrency"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads the configuration. An explicit path must exist; otherwise
// the usual locations are searched and missing files leave the
// defaults in place.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("registry.endpoint", "")
	v.SetDefault("registry.account", "")
	v.SetDefault("registry.token", "")
	v.SetDefault("registry.token_file", "")
	v.SetDefault("registry.timeout", "30s")
	v.SetDefault("registry.requests_per_second", 10.0)
	v.SetDefault("registry.burst", 5)
	v.SetDefault("registry.max_inflight", 1)
	v.SetDefault("registry.retract_mode", "auto")
	v.SetDefault("run.digest_types", []string{"SHA-256"})
	v.SetDefault("run.concurrency", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics.addr", "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("dspilot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dspilot")
		v.AddConfigPath("/etc/dspilot")
	}

	v.SetEnvPrefix("DSPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// Credentials resolves the account and token, reading the token file
// when one is configured. A file with an "account:token" line
// overrides the configured account.
func (c RegistryConfig) Credentials() (domain.Credentials, error) {
	account, token := c.Account, c.Token
	if c.TokenFile != "" {
		data, err := os.ReadFile(c.TokenFile)
		if err != nil {
			return domain.Credentials{}, fmt.Errorf("reading token file: %w", err)
		}
		content := strings.TrimSpace(string(data))
		if a, t, found := strings.Cut(content, ":"); found {
			account, token = a, t
		} else {
			token = content
		}
	}
	return domain.Credentials{Account: account, Token: token}, nil
}

// ParseDigestTypes parses the configured digest type names. The
// single value "all" selects every supported type.
func (c RunConfig) ParseDigestTypes() ([]record.DigestType, error) {
	if len(c.DigestTypes) == 1 && strings.EqualFold(c.DigestTypes[0], "all") {
		return record.SupportedDigestTypes(), nil
	}
	out := make([]record.DigestType, 0, len(c.DigestTypes))
	for _, name := range c.DigestTypes {
		dt, err := record.ParseDigestType(name)
		if err != nil {
			return nil, err
		}
		out = append(out, dt)
	}
	return out, nil
}
