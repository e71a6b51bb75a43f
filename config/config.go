package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Log    LogConfig    `mapstructure:"log"`
	Wallet WalletConfig `mapstructure:"wallet"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// WalletConfig holds ledger business parameters. Seed balances are
// configuration, never literals inside operation logic; a fresh install
// defaults to zero balances with demo fixtures opt-in.
type WalletConfig struct {
	// Seed maps currency code to the balances a lazily created wallet
	// starts with. Empty means every wallet starts at zero.
	Seed map[string]SeedBalance `mapstructure:"seed"`
	// TransferFeeRate is informational metadata echoed on transfers;
	// it is never deducted from the transferred amount.
	TransferFeeRate string `mapstructure:"transfer_fee_rate"`
	// PlatformFeeRate is the settlement cut retained by the platform.
	PlatformFeeRate string `mapstructure:"platform_fee_rate"`
	// KYCThreshold is the payout amount above which the advisory
	// kyc_required flag is set.
	KYCThreshold string `mapstructure:"kyc_threshold"`
	// ResultCacheTTL bounds how long idempotent operation results are kept.
	ResultCacheTTL time.Duration `mapstructure:"result_cache_ttl"`
}

// SeedBalance is a per-currency opening balance, expressed as decimal
// strings so config files never lose precision.
type SeedBalance struct {
	Available string `mapstructure:"available"`
	Pending   string `mapstructure:"pending"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: MKW_ (Marketplace
// Wallet). Nested keys use underscore: MKW_SERVER_PORT, MKW_REDIS_HOST, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("wallet.transfer_fee_rate", "0.03")
	v.SetDefault("wallet.platform_fee_rate", "0.05")
	v.SetDefault("wallet.kyc_threshold", "5000")
	v.SetDefault("wallet.result_cache_ttl", "24h")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: MKW_SERVER_PORT -> server.port
	v.SetEnvPrefix("MKW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
