package mcmspreview

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/smartcontractkit/mcms-preview/engine"
	"github.com/smartcontractkit/mcms-preview/types"
)

// EnvPrefix prefixes every environment variable read by the CLI, e.g. MCMS_PREVIEW_LOG_LEVEL or
// MCMS_PREVIEW_SIMULATION_BACKEND.
const EnvPrefix = "MCMS_PREVIEW"

// Simulation backends.
const (
	BackendMemory  = "memory"
	BackendCluster = "cluster"
)

// SimulationConfig configures the sandbox, the account source and the simulation plan.
type SimulationConfig struct {
	Backend        string        `mapstructure:"backend" yaml:"backend" validate:"oneof=memory cluster"`
	Fixtures       string        `mapstructure:"fixtures" yaml:"fixtures"`           // JSON account snapshots served instead of the RPC
	RPCURL         string        `mapstructure:"rpc_url" yaml:"rpc_url"`             // Falls back to RPC_URL_<selector> from the environment or .env
	Commitment     string        `mapstructure:"commitment" yaml:"commitment"`       // processed, confirmed or finalized
	LoadPolicy     string        `mapstructure:"load_policy" yaml:"load_policy"`     // strict or lenient
	Concurrency    int           `mapstructure:"concurrency" yaml:"concurrency" validate:"gte=1"`
	ChunkSize      int           `mapstructure:"chunk_size" yaml:"chunk_size" validate:"gte=1,lte=100"`
	RetryAttempts  uint          `mapstructure:"retry_attempts" yaml:"retry_attempts" validate:"gte=1"`
	RetryDelay     time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
	Authority      string        `mapstructure:"authority" yaml:"authority"`         // Base58 fee payer, generated when empty
	FundLamports   uint64        `mapstructure:"fund_lamports" yaml:"fund_lamports"` // Credited to the authority before every batch
	Clock          string        `mapstructure:"clock" yaml:"clock"`                 // RFC3339 sandbox time
	ExtraAccounts  []string      `mapstructure:"extra_accounts" yaml:"extra_accounts"`
	GlobalAccounts []string      `mapstructure:"global_accounts" yaml:"global_accounts"`
}

// ReportConfig configures the report output.
type ReportConfig struct {
	Verbosity string `mapstructure:"verbosity" yaml:"verbosity" validate:"oneof=full summary"`
	Format    string `mapstructure:"format" yaml:"format" validate:"oneof=json yaml"`
	Output    string `mapstructure:"output" yaml:"output"` // Report file path, stdout when empty
}

// Config wraps the entire configuration of the CLI.
type Config struct {
	LogLevel   string           `mapstructure:"log_level" yaml:"log_level"`
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	Report     ReportConfig     `mapstructure:"report" yaml:"report"`
}

var defaults = map[string]any{
	"log_level":                  "info",
	"simulation.backend":         BackendMemory,
	"simulation.fixtures":        "",
	"simulation.rpc_url":         "",
	"simulation.commitment":      "confirmed",
	"simulation.load_policy":     engine.LoadPolicyStrict.String(),
	"simulation.concurrency":     engine.DefaultConcurrency,
	"simulation.chunk_size":      engine.DefaultChunkSize,
	"simulation.retry_attempts":  3,
	"simulation.retry_delay":     500 * time.Millisecond,
	"simulation.authority":       "",
	"simulation.fund_lamports":   0,
	"simulation.clock":           "",
	"simulation.extra_accounts":  []string{},
	"simulation.global_accounts": []string{},
	"report.verbosity":           "summary",
	"report.format":              "json",
	"report.output":              "",
}

// flagBindings maps config keys to the command line flags that override them.
var flagBindings = map[string]string{
	"log_level":                  "log-level",
	"simulation.backend":         "backend",
	"simulation.fixtures":        "fixtures",
	"simulation.rpc_url":         "rpc-url",
	"simulation.load_policy":     "load-policy",
	"simulation.authority":       "authority",
	"simulation.fund_lamports":   "fund-lamports",
	"simulation.clock":           "clock",
	"simulation.extra_accounts":  "extra-account",
	"simulation.global_accounts": "global-account",
	"report.verbosity":           "verbosity",
	"report.format":              "format",
	"report.output":              "output",
}

// LoadConfig loads the config from the file path, falling back to the defaults when the file does
// not exist. Environment variables override the file and flags that were set override both.
func LoadConfig(filePath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagBindings {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, err
				}
			}
		}
	}

	if filePath != "" {
		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			v.SetConfigFile(filePath)
			if err = v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("unable to read config %s: %w", filePath, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if _, err := engine.ParseLoadPolicy(c.Simulation.LoadPolicy); err != nil {
		return err
	}
	if c.Simulation.Clock != "" {
		if _, err := time.Parse(time.RFC3339, c.Simulation.Clock); err != nil {
			return fmt.Errorf("invalid clock %q: %w", c.Simulation.Clock, err)
		}
	}

	return nil
}

// rpcURL returns the configured RPC URL, or RPC_URL_<selector> from the environment after
// loading the .env file of the working directory.
func rpcURL(cfg SimulationConfig, selector types.ChainSelector) (string, error) {
	if cfg.RPCURL != "" {
		return cfg.RPCURL, nil
	}

	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("unable to load .env: %w", err)
	}

	rpcKey := fmt.Sprintf("RPC_URL_%d", selector)
	url := os.Getenv(rpcKey)
	if url == "" {
		return "", errors.New(rpcKey + " not found in the environment or .env file")
	}

	return url, nil
}
