package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultAppConfigIsValid(t *testing.T) {
	cfg := DefaultAppConfig()

	require.NoError(t, Validate(&cfg))
	assert.Equal(t, 4500, cfg.Reply.MaxChars)
	assert.Equal(t, WeekdayWindowNow, cfg.Courses.WeekdayWindowPolicy)
	assert.Equal(t, 2026, cfg.Courses.ValidYear)
	assert.Equal(t, 2, cfg.Courses.ValidMonth)
}

func TestLoadAppConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: prod
server:
  port: 8080
courses:
  validYear: 2026
  validMonth: 3
  weekdayWindowPolicy: ignore
redis:
  enabled: true
  address: localhost:6379
`)

	cfg, err := LoadAppConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Courses.ValidMonth)
	assert.Equal(t, WeekdayWindowIgnore, cfg.Courses.WeekdayWindowPolicy)
	assert.True(t, cfg.Redis.Enabled)
	// untouched sections keep their defaults
	assert.Equal(t, DEFAULT_OPENAI_MODEL, cfg.OpenAI.Model)
	assert.Equal(t, DEFAULT_REPLY_MAX_CHARS, cfg.Reply.MaxChars)
}

func TestLoadAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LINE_CHANNEL_SECRET", "secret")
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "token")
	t.Setenv("REDIS_ADDRESS", "cache:6379")
	t.Setenv("PORT", "9000")

	cfg, err := LoadAppConfig(writeConfig(t, "environment: dev\n"))

	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "secret", cfg.Line.ChannelSecret)
	assert.Equal(t, "token", cfg.Line.ChannelToken)
	assert.Equal(t, "cache:6379", cfg.Redis.Address)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadAppConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "server: [\n"},
		{"invalid month", "courses:\n  validMonth: 13\n"},
		{"unknown policy", "courses:\n  weekdayWindowPolicy: sometimes\n"},
		{"unknown environment", "environment: staging\n"},
		{"redis enabled without address", "redis:\n  enabled: true\n  address: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAppConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadAppConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadAppConfig(filepath.Join(t.TempDir(), "absent.yml"))

	assert.Error(t, err)
}

func TestDataConfig_Path(t *testing.T) {
	d := DataConfig{Root: "/data"}

	assert.Equal(t, filepath.Join("/data", "a.csv"), d.Path("a.csv"))
	assert.Equal(t, "/abs/b.csv", d.Path("/abs/b.csv"))
}

func TestReplyConfig_Location(t *testing.T) {
	at := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC).In(ReplyConfig{UTCOffsetHours: 8}.Location())
	_, offset := at.Zone()

	assert.Equal(t, 8*3600, offset)
}
