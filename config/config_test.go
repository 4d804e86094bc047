package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/aswat?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("JUDGES", "")
	t.Setenv("SYNC_INTERVAL", "")
	t.Setenv("CONTEST_TIMEZONE", "UTC")
	t.Setenv("DEFAULT_DEADLINE", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.Equal(t, time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC), cfg.DefaultDeadline)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "admin", cfg.AdminDisplayName)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET_KEY")
}

func TestLoadInvalidPort(t *testing.T) {
	setRequired(t)
	for _, port := range []string{"abc", "0", "70000"} {
		t.Setenv("SERVER_PORT", port)
		_, err := Load()
		assert.Error(t, err, "port %q", port)
	}
}

func TestParseJudges(t *testing.T) {
	judges, err := ParseJudges("j1|Sheikh Ahmed|$2a$10$x, j2|Ustadh Ali|$2a$10$y")
	require.NoError(t, err)
	require.Len(t, judges, 2)
	assert.Equal(t, JudgeCredential{ID: "j2", Name: "Ustadh Ali", PasswordHash: "$2a$10$y"}, judges[1])

	_, err = ParseJudges("j1|only-two")
	assert.Error(t, err)

	_, err = ParseJudges("j1|A|h,j1|B|h")
	assert.ErrorContains(t, err, "duplicate")

	judges, err = ParseJudges("  ")
	require.NoError(t, err)
	assert.Empty(t, judges)
}
