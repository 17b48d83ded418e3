package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classmood/backend/internal/attendance"
	"github.com/classmood/backend/internal/store/sqlite"
)

type fakeClock struct {
	day string
}

func (c *fakeClock) Today() string  { return c.day }
func (c *fakeClock) Now() time.Time { return time.Now() }

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		path := writeConfig(t, `
[server]
port = ":8080"

[database]
dsn = ":memory:"
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Attendance.ScanNoticeSeconds)
		assert.Equal(t, 24, cfg.Auth.SessionTTLHours)
		assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	})

	t.Run("auth enabled defaults the token header", func(t *testing.T) {
		path := writeConfig(t, `
[server]
port = ":8080"
enable_auth = true

[auth]
redis_url = "redis://localhost:6379/0"

[database]
dsn = ":memory:"
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "Authorization", cfg.Auth.TokenHeader)
	})

	t.Run("auth disabled leaves the token header empty", func(t *testing.T) {
		path := writeConfig(t, `
[server]
port = ":8080"

[database]
dsn = ":memory:"
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Empty(t, cfg.Auth.TokenHeader)
	})

	t.Run("missing port", func(t *testing.T) {
		path := writeConfig(t, `
[database]
dsn = ":memory:"
`)
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig("/does/not/exist.toml")
		assert.Error(t, err)
	})
}

func TestDaySessionRollsOverAtDayBoundary(t *testing.T) {
	s, err := sqlite.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	clock := &fakeClock{day: "2026-05-12"}
	svc := &Service{
		Config:   &Config{},
		Store:    s,
		Clock:    clock,
		Notifier: &attendance.Notifier{},
	}

	first := svc.DaySession()
	assert.Equal(t, "2026-05-12", first.Date())
	assert.Same(t, first, svc.DaySession(), "same day reuses the session")

	clock.day = "2026-05-13"
	second := svc.DaySession()
	assert.NotSame(t, first, second)
	assert.Equal(t, "2026-05-13", second.Date())
	assert.False(t, second.Locked())
}

func TestDaySessionAppliesStrictDefault(t *testing.T) {
	s, err := sqlite.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	svc := &Service{
		Config:   &Config{},
		Store:    s,
		Clock:    &fakeClock{day: "2026-05-12"},
		Notifier: &attendance.Notifier{},
	}
	svc.Config.Attendance.StrictDefault = true

	assert.True(t, svc.DaySession().Strict())
}
