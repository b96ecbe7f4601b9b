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
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ThemeAuto, s.Theme)
	assert.Equal(t, "ru", s.Language)
	assert.Equal(t, 1, s.FirstDayOfWeek)
	assert.Equal(t, time.Monday, s.WeekStart())
	assert.True(t, s.Notifications)
	assert.Equal(t, 24*time.Hour, s.TokenTTL())
	assert.Equal(t, "0 9 * * *", s.Reminder.Cron)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
theme: dark
language: en
firstdayofweek: 0
db:
  path: /tmp/cards.db
`), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, s.Theme)
	assert.Equal(t, "en", s.Language)
	assert.Equal(t, time.Sunday, s.WeekStart())
	assert.Equal(t, "/tmp/cards.db", s.DB.Path)
	// Unset keys keep their defaults.
	assert.Equal(t, "24h", s.Token.TTL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: en\n"), 0o600))

	t.Setenv("CARDCAL_LANGUAGE", "ru")
	t.Setenv("CARDCAL_DB_PATH", "/srv/cardcal.db")
	t.Setenv("CARDCAL_NOTIFICATIONS", "false")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ru", s.Language)
	assert.Equal(t, "/srv/cardcal.db", s.DB.Path)
	assert.False(t, s.Notifications)
}

func TestLoad_InvalidValuesAreNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: neon\nlanguage: de\nfirstdayofweek: 3\n"), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ThemeAuto, s.Theme)
	assert.Equal(t, "ru", s.Language)
	assert.Equal(t, 1, s.FirstDayOfWeek)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [unclosed\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTripWithPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	s := Defaults()
	s.Theme = ThemeLight
	s.Language = "en"
	s.Token.Secret = "abc"
	require.NoError(t, Save(path, s))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, loaded.Theme)
	assert.Equal(t, "en", loaded.Language)
	assert.Equal(t, "abc", loaded.Token.Secret)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be cleaned up")
}

func TestSave_EmptyPath(t *testing.T) {
	assert.Error(t, Save("", Defaults()))
}

func TestSettings_Set(t *testing.T) {
	s := Defaults()

	require.NoError(t, s.Set("theme", "dark"))
	require.NoError(t, s.Set("firstdayofweek", "0"))
	require.NoError(t, s.Set("notifications", "false"))
	require.NoError(t, s.Set("reminder.cron", "*/30 8-18 * * 1-5"))
	require.NoError(t, s.Set("token.ttl", "12h"))
	assert.Equal(t, ThemeDark, s.Theme)
	assert.Equal(t, time.Sunday, s.WeekStart())
	assert.False(t, s.Notifications)
	assert.Equal(t, 12*time.Hour, s.TokenTTL())

	assert.Error(t, s.Set("theme", "neon"))
	assert.Error(t, s.Set("language", "fr"))
	assert.Error(t, s.Set("firstdayofweek", "2"))
	assert.Error(t, s.Set("reminder.cron", "not a cron"))
	assert.Error(t, s.Set("token.ttl", "-1h"))
	assert.Error(t, s.Set("timezone", "Mars/Olympus"))

	err := s.Set("colour", "red")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown setting")
}

func TestSettings_EnsureTokenSecret(t *testing.T) {
	s := Defaults()
	assert.True(t, s.EnsureTokenSecret())
	assert.Len(t, s.Token.Secret, 64)
	secret := s.Token.Secret
	assert.False(t, s.EnsureTokenSecret())
	assert.Equal(t, secret, s.Token.Secret)
}

func TestDefaultPath_EnvOverride(t *testing.T) {
	t.Setenv("CARDCAL_CONFIG", "/etc/cardcal.yaml")
	assert.Equal(t, "/etc/cardcal.yaml", DefaultPath())
}
