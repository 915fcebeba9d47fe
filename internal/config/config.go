// Package config holds the service settings, unmarshalled from Viper.
//
// Values come, lowest precedence first, from the defaults below, an optional
// YAML or JSON settings file, SEQVERIFY_* environment variables and finally
// command line flags bound by the commands.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/robertftenbosch/tenbio/internal/alignment"
	"github.com/robertftenbosch/tenbio/internal/verify"
)

// EnvPrefix prefixes every environment variable, e.g. SEQVERIFY_SERVER_PORT.
const EnvPrefix = "SEQVERIFY"

// ServerConfig is for the HTTP listener.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`

	// upper bound on a single request, enforced by middleware
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Config is the root-level settings struct.
type Config struct {
	Server  ServerConfig            `mapstructure:"server"`
	Limits  verify.Limits           `mapstructure:"limits"`
	Scoring alignment.ScoringMatrix `mapstructure:"scoring"`
}

// SetDefaults registers the documented defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read-timeout", 30*time.Second)
	v.SetDefault("server.write-timeout", 120*time.Second)
	v.SetDefault("server.idle-timeout", 60*time.Second)
	v.SetDefault("server.shutdown-timeout", 30*time.Second)
	v.SetDefault("server.request-timeout", 90*time.Second)

	limits := verify.DefaultLimits()
	v.SetDefault("limits.upload-bytes", limits.MaxUploadBytes)
	v.SetDefault("limits.query-bases", limits.MaxQueryBases)
	v.SetDefault("limits.reference-bases", limits.MaxReferenceBases)
	v.SetDefault("limits.cells", limits.MaxCells)

	scoring := alignment.DefaultDNA()
	v.SetDefault("scoring.match", scoring.MatchScore)
	v.SetDefault("scoring.mismatch", scoring.MismatchPenalty)
	v.SetDefault("scoring.gap-open", scoring.GapOpenPenalty)
	v.SetDefault("scoring.gap-extend", scoring.GapExtendPenalty)
}

// New returns a Viper instance with defaults and environment lookup
// configured. A non-empty file is read as the settings file.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings %s: %w", file, err)
		}
	}

	return v, nil
}

// BindFlags binds each named flag to its settings key, e.g.
// {"server.port": "port"}.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("no flag named %q for setting %s", name, key)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// Load unmarshals v into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	l := c.Limits
	if l.MaxUploadBytes < 0 || l.MaxQueryBases < 0 || l.MaxReferenceBases < 0 || l.MaxCells < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	return nil
}

// Importer builds the import orchestrator these settings describe.
func (c *Config) Importer() *verify.Importer {
	scoring := c.Scoring
	return verify.NewImporter(c.Limits, &scoring)
}
