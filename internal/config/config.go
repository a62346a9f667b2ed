// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"homework-status-bot/internal/domain"
)

const (
	EnvPracticumToken    = "PRACTICUM_TOKEN"
	EnvTelegramToken     = "TELEGRAM_TOKEN"
	EnvTelegramChatID    = "TELEGRAM_CHAT_ID"
	EnvPracticumEndpoint = "PRACTICUM_ENDPOINT"
	EnvRetryPeriod       = "RETRY_PERIOD"
	EnvLogLevel          = "LOG_LEVEL"
	EnvRedisURL          = "REDIS_URL"

	DefaultEndpoint    = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultRetryPeriod = 600 * time.Second
	DefaultHTTPTimeout = 30 * time.Second
)

type RuntimeConfig struct {
	Dev bool
}

type PracticumConfig struct {
	Token    string        `yaml:"token"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type BotConfig struct {
	Token  string `yaml:"token"`
	ChatID string `yaml:"chat_id"`
	// RatePerSec paces outgoing messages; Telegram allows about one per second per chat.
	RatePerSec int `yaml:"rate_per_sec"`
}

type PollerConfig struct {
	RetryPeriod time.Duration `yaml:"retry_period"`
	// BackoffMax > 0 enables doubling the sleep after consecutive failures, capped here.
	BackoffMax time.Duration `yaml:"backoff_max"`
	// FromDate overrides the initial cursor (unix seconds). Zero means "now".
	FromDate int64 `yaml:"from_date"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port"` // 0 disables the admin server
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LockKey  string        `yaml:"lock_key"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

type Config struct {
	Practicum PracticumConfig `yaml:"practicum"`
	Bot       BotConfig       `yaml:"bot"`
	Poller    PollerConfig    `yaml:"poller"`
	Log       LogConfig       `yaml:"log"`
	Admin     AdminConfig     `yaml:"admin"`
	Redis     RedisConfig     `yaml:"redis"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the optional YAML file at path, loads a .env file into the
// process environment and applies environment overrides and defaults.
// A missing config file is not an error; secrets usually come from the environment.
func LoadConfig(path string, dev bool) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := lookup(EnvPracticumToken); ok {
		cfg.Practicum.Token = v
	}
	if v, ok := lookup(EnvTelegramToken); ok {
		cfg.Bot.Token = v
	}
	if v, ok := lookup(EnvTelegramChatID); ok {
		cfg.Bot.ChatID = v
	}
	if v, ok := lookup(EnvPracticumEndpoint); ok {
		cfg.Practicum.Endpoint = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvRedisURL); ok {
		cfg.Redis.URL = v
	}
	if v, ok := lookup(EnvRetryPeriod); ok {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return fmt.Errorf("%s must be a positive number of seconds, got %q", EnvRetryPeriod, v)
		}
		cfg.Poller.RetryPeriod = time.Duration(secs) * time.Second
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Practicum.Endpoint == "" {
		cfg.Practicum.Endpoint = DefaultEndpoint
	}
	if cfg.Practicum.Timeout <= 0 {
		cfg.Practicum.Timeout = DefaultHTTPTimeout
	}
	if cfg.Bot.RatePerSec <= 0 {
		cfg.Bot.RatePerSec = 1
	}
	if cfg.Poller.RetryPeriod <= 0 {
		cfg.Poller.RetryPeriod = DefaultRetryPeriod
	}
	if cfg.Poller.BackoffMax < 0 {
		cfg.Poller.BackoffMax = 0
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.LockKey == "" {
		cfg.Redis.LockKey = "homework-status-bot:poller"
	}
	if cfg.Redis.LockTTL <= 0 {
		cfg.Redis.LockTTL = 2 * cfg.Poller.RetryPeriod
	}
}

// CheckTokens verifies that every secret the bot needs is present.
// The first missing one is reported by its environment variable name.
func CheckTokens(cfg *Config) error {
	secrets := []struct {
		name  string
		value string
	}{
		{EnvPracticumToken, cfg.Practicum.Token},
		{EnvTelegramToken, cfg.Bot.Token},
		{EnvTelegramChatID, cfg.Bot.ChatID},
	}
	for _, s := range secrets {
		if s.value == "" {
			return &domain.Error{Kind: domain.KindTokenMissing, Field: s.name}
		}
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
