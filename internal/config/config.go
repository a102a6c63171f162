package config

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	sslModeDisable = "disable"
	sslModeRequire = "require"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type (
	Config struct {
		Host       string `mapstructure:"HOST"`
		Port       string `mapstructure:"PORT"`
		DBHost     string `mapstructure:"DB_HOST"`
		DBPort     string `mapstructure:"DB_PORT"`
		DBUser     string `mapstructure:"DB_USER"`
		DBPassword string `mapstructure:"DB_PASSWORD"`
		DBName     string `mapstructure:"DB_NAME"`
		DBSSLMode  string `mapstructure:"DB_SSL_MODE"`

		SessionBackend string        `mapstructure:"SESSION_BACKEND"`
		SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
		RedisAddr      string        `mapstructure:"REDIS_ADDR"`
		RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
		RedisDB        int           `mapstructure:"REDIS_DB"`
	}
)

func NewConfig() (*Config, error) {
	viper.SetEnvPrefix("BOOKMARK")

	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("DB_HOST", "0.0.0.0")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "bookmark_site")
	viper.SetDefault("DB_SSL_MODE", sslModeDisable)
	viper.SetDefault("SESSION_BACKEND", SessionBackendMemory)
	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("REDIS_ADDR", "0.0.0.0:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	envs := []string{
		"HOST", "PORT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"SESSION_BACKEND", "SESSION_TTL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	}
	for _, key := range envs {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	validSSLValues := []string{sslModeDisable, sslModeRequire}
	sslOK := false
	for _, validValue := range validSSLValues {
		if cfg.DBSSLMode == validValue {
			sslOK = true
			break
		}
	}
	if !sslOK {
		return errors.New(fmt.Sprintf("DB SSL mode is invalid: %s", cfg.DBSSLMode))
	}

	if cfg.SessionBackend != SessionBackendMemory && cfg.SessionBackend != SessionBackendRedis {
		return errors.New(fmt.Sprintf("session backend is invalid: %s", cfg.SessionBackend))
	}
	if cfg.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}

	return nil
}
