// Package config loads runtime settings from ragso.yaml, RAGSO_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "ragso"
	configType = "yaml"
	envPrefix  = "RAGSO"

	KeyLogLevel      = "log.level"
	KeyThinkingDelay = "engine.thinking_delay"
	KeyCatalogPath   = "catalog.path"
	KeyStoreDriver   = "store.driver"
	KeyEncryptionKey = "store.encryption_key"
	KeyFallbackKeys  = "store.fallback_keys"
	KeyRedactPII     = "store.redact_pii"
	KeyPIIPatterns   = "store.pii_patterns"
	KeyRedisAddr     = "redis.addr"
	KeyRedisPrefix   = "redis.prefix"
	KeyRedisTTL      = "redis.ttl"
	KeyHTTPAddr      = "http.addr"
	KeyMetricsAddr   = "metrics.addr"
	KeySeatTriggers  = "classifier.seat_triggers"
	KeyBookTriggers  = "classifier.book_triggers"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config is the resolved configuration.
type Config struct {
	LogLevel      string
	ThinkingDelay time.Duration
	CatalogPath   string
	StoreDriver   string
	Encryption    Encryption
	RedactPII     bool
	PIIPatterns   []string
	Redis         Redis
	HTTPAddr      string
	MetricsAddr   string
	SeatTriggers  []string
	BookTriggers  []string
}

// Encryption holds the at-rest keys, decoded from base64.
type Encryption struct {
	ActiveKey    []byte
	FallbackKeys [][]byte
}

// Enabled reports whether sessions are sealed before storing.
func (e Encryption) Enabled() bool { return len(e.ActiveKey) > 0 }

// Redis holds the redis adapter settings.
type Redis struct {
	Addr   string
	Prefix string
	TTL    time.Duration
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyThinkingDelay, 1500*time.Millisecond)
	v.SetDefault(KeyCatalogPath, "")
	v.SetDefault(KeyStoreDriver, DriverMemory)
	v.SetDefault(KeyEncryptionKey, "")
	v.SetDefault(KeyFallbackKeys, []string{})
	v.SetDefault(KeyRedactPII, false)
	v.SetDefault(KeyPIIPatterns, []string{})
	v.SetDefault(KeyRedisAddr, "localhost:6379")
	v.SetDefault(KeyRedisPrefix, "ragso:")
	v.SetDefault(KeyRedisTTL, 24*time.Hour)
	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeyMetricsAddr, ":2112")
	v.SetDefault(KeySeatTriggers, []string{})
	v.SetDefault(KeyBookTriggers, []string{})
}

// Load reads configuration into v. An explicit file must exist; otherwise
// ragso.yaml is searched in the working directory and $HOME/.ragso and may
// be absent.
func Load(v *viper.Viper, file string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".ragso"))
		}
		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	enc, err := decodeKeys(v.GetString(KeyEncryptionKey), v.GetStringSlice(KeyFallbackKeys))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		LogLevel:      v.GetString(KeyLogLevel),
		ThinkingDelay: v.GetDuration(KeyThinkingDelay),
		CatalogPath:   v.GetString(KeyCatalogPath),
		StoreDriver:   strings.ToLower(v.GetString(KeyStoreDriver)),
		Encryption:    enc,
		RedactPII:     v.GetBool(KeyRedactPII),
		PIIPatterns:   v.GetStringSlice(KeyPIIPatterns),
		Redis: Redis{
			Addr:   v.GetString(KeyRedisAddr),
			Prefix: v.GetString(KeyRedisPrefix),
			TTL:    v.GetDuration(KeyRedisTTL),
		},
		HTTPAddr:     v.GetString(KeyHTTPAddr),
		MetricsAddr:  v.GetString(KeyMetricsAddr),
		SeatTriggers: v.GetStringSlice(KeySeatTriggers),
		BookTriggers: v.GetStringSlice(KeyBookTriggers),
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverMemory:
	case DriverRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required for the redis store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.StoreDriver))
	}
	if k := c.Encryption.ActiveKey; len(k) > 0 && len(k) != 32 {
		errs = append(errs, fmt.Errorf("store.encryption_key must decode to 32 bytes, got %d", len(k)))
	}
	if c.ThinkingDelay < 0 {
		errs = append(errs, fmt.Errorf("engine.thinking_delay must not be negative, got %s", c.ThinkingDelay))
	}
	return errors.Join(errs...)
}

func decodeKeys(active string, fallback []string) (Encryption, error) {
	var enc Encryption
	if active == "" {
		return enc, nil
	}
	key, err := base64.StdEncoding.DecodeString(active)
	if err != nil {
		return enc, fmt.Errorf("store.encryption_key: %w", err)
	}
	enc.ActiveKey = key
	for i, f := range fallback {
		k, err := base64.StdEncoding.DecodeString(f)
		if err != nil {
			return enc, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, k)
	}
	return enc, nil
}
