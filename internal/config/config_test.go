package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-status-bot/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvPracticumToken, EnvTelegramToken, EnvTelegramChatID,
		EnvPracticumEndpoint, EnvRetryPeriod, EnvLogLevel, EnvRedisURL,
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPracticumToken, "p-token")
	t.Setenv(EnvTelegramToken, "t-token")
	t.Setenv(EnvTelegramChatID, "12345")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, "p-token", cfg.Practicum.Token)
	assert.Equal(t, "t-token", cfg.Bot.Token)
	assert.Equal(t, "12345", cfg.Bot.ChatID)
	assert.Equal(t, DefaultEndpoint, cfg.Practicum.Endpoint)
	assert.Equal(t, DefaultRetryPeriod, cfg.Poller.RetryPeriod)
	assert.Equal(t, DefaultHTTPTimeout, cfg.Practicum.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 1, cfg.Bot.RatePerSec)
	assert.Equal(t, 2*DefaultRetryPeriod, cfg.Redis.LockTTL)
	assert.False(t, cfg.Runtime.Dev)
	assert.NoError(t, CheckTokens(cfg))
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
practicum:
  token: from-file
  timeout: 5s
bot:
  token: bot-from-file
  chat_id: "@homework"
poller:
  retry_period: 1m
  backoff_max: 10m
log:
  level: debug
  format: console
admin:
  port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv(EnvPracticumToken, "from-env")
	t.Setenv(EnvRetryPeriod, "30")

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Practicum.Token)
	assert.Equal(t, "bot-from-file", cfg.Bot.Token)
	assert.Equal(t, "@homework", cfg.Bot.ChatID)
	assert.Equal(t, 5*time.Second, cfg.Practicum.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Poller.RetryPeriod)
	assert.Equal(t, 10*time.Minute, cfg.Poller.BackoffMax)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Admin.Port)
	assert.True(t, cfg.Runtime.Dev)
}

func TestLoadConfig_BadRetryPeriod(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRetryPeriod, "soon")

	_, err := LoadConfig("", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvRetryPeriod)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bot: [unclosed"), 0o600))

	_, err := LoadConfig(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestCheckTokens_ReportsFirstMissing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		missing string
	}{
		{
			name:    "practicum token",
			cfg:     Config{Bot: BotConfig{Token: "t", ChatID: "1"}},
			missing: EnvPracticumToken,
		},
		{
			name:    "telegram token",
			cfg:     Config{Practicum: PracticumConfig{Token: "p"}, Bot: BotConfig{ChatID: "1"}},
			missing: EnvTelegramToken,
		},
		{
			name:    "chat id",
			cfg:     Config{Practicum: PracticumConfig{Token: "p"}, Bot: BotConfig{Token: "t"}},
			missing: EnvTelegramChatID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTokens(&tt.cfg)
			require.Error(t, err)

			var de *domain.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, domain.KindTokenMissing, de.Kind)
			assert.Equal(t, tt.missing, de.Field)
			assert.True(t, de.Kind.Fatal())
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}
