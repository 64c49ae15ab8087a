// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/viper"
)

type Config struct {
	RPCList          []string `mapstructure:"rpc_list"`
	Commitment       string   `mapstructure:"commitment"`
	WalletPath       string   `mapstructure:"wallet_path"`
	WalletName       string   `mapstructure:"wallet_name"`
	RequestTimeoutMs int      `mapstructure:"request_timeout_ms"`
	ConfirmTimeoutMs int      `mapstructure:"confirm_timeout_ms"`
	DebugLogging     bool     `mapstructure:"debug_logging"`
	LogFile          string   `mapstructure:"log_file"`
	MetricsAddr      string   `mapstructure:"metrics_addr"`
	PriorityLevel    string   `mapstructure:"priority_level"`
}

const (
	DefaultRPC              = rpc.MainNetBeta_RPC
	DefaultCommitment       = string(rpc.CommitmentConfirmed)
	DefaultRequestTimeoutMs = 30_000
	DefaultConfirmTimeoutMs = 60_000
	DefaultLogFile          = "" // только консоль, файл включается через log_file

	envPrefix = "SOLANA_WEB3"
)

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// ConfirmTimeout returns how long transaction confirmation may take.
func (c *Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.ConfirmTimeoutMs) * time.Millisecond
}

// CommitmentType returns the configured commitment as an RPC type.
func (c *Config) CommitmentType() rpc.CommitmentType {
	return rpc.CommitmentType(c.Commitment)
}

func newViper() *viper.Viper {
	v := viper.New()

	defaults := map[string]interface{}{
		"rpc_list":           []string{DefaultRPC},
		"commitment":         DefaultCommitment,
		"request_timeout_ms": DefaultRequestTimeoutMs,
		"confirm_timeout_ms": DefaultConfirmTimeoutMs,
		"log_file":           DefaultLogFile,
		"priority_level":     "none",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// LoadConfig reads path (any format viper supports). An empty path uses
// defaults and environment variables only.
func LoadConfig(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, Validate(&cfg)
}

// Validate checks RPC URLs, commitment and timeouts.
func Validate(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return fmt.Errorf("invalid RPC URL %q: %w", rpcURL, err)
		}
	}
	switch rpc.CommitmentType(cfg.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return fmt.Errorf("invalid commitment %q", cfg.Commitment)
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.RequestTimeoutMs <= 0 {
		return errors.New("invalid request_timeout_ms")
	}
	if cfg.ConfirmTimeoutMs <= 0 {
		return errors.New("invalid confirm_timeout_ms")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) || parsed.Host == "" {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envRPCList := v.GetString("RPC_LIST")
	if envRPCList != "" {
		rpcs := strings.Split(envRPCList, ",")
		var cleanRPCs []string
		for _, endpoint := range rpcs {
			clean := strings.TrimSpace(endpoint)
			if clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}

	if s := v.GetString("COMMITMENT"); s != "" {
		cfg.Commitment = s
	}
	if s := v.GetString("WALLET_PATH"); s != "" {
		cfg.WalletPath = s
	}
	if s := v.GetString("LOG_FILE"); s != "" {
		cfg.LogFile = s
	}
	if s := v.GetString("METRICS_ADDR"); s != "" {
		cfg.MetricsAddr = s
	}
	if v.IsSet("DEBUG_LOGGING") {
		cfg.DebugLogging = v.GetBool("DEBUG_LOGGING")
	}
	return nil
}
