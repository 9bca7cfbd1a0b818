package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("FEED_URL", "")
	t.Setenv("FEED_PATH", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("REFRESH_INTERVAL", "")
	t.Setenv("LISTEN_ADDR", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.Refresh.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Refresh.Interval)
	assert.Equal(t, 1200*time.Millisecond, cfg.Refresh.BootstrapRetry)
	assert.Equal(t, "data/alerts.json", cfg.Alerts.StateFile)
	assert.Equal(t, ":8080", cfg.Web.Addr)
	assert.Error(t, cfg.Validate(), "feed source is required")
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
feed:
  url: https://example.com/portfoy.csv
refresh:
  enabled: false
  interval: 90s
telegram:
  enabled: true
  bot_token: abc
  chat_id: 42
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("REFRESH_INTERVAL", "2m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/portfoy.csv", cfg.Feed.URL)
	assert.False(t, cfg.Refresh.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Refresh.Interval)
	assert.Equal(t, "127.0.0.1:9000", cfg.Web.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_TelegramNeedsChat(t *testing.T) {
	cfg := &Config{}
	cfg.Feed.Path = "feed.csv"
	cfg.Refresh.Interval = time.Minute
	cfg.Telegram.Enabled = true
	cfg.Telegram.BotToken = "abc"

	assert.ErrorContains(t, cfg.Validate(), "chat_id")
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feed: [unterminated"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}
