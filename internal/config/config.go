package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "CARDCAL_"

type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings is the persisted application configuration.
type Settings struct {
	Theme    Theme  `koanf:"theme" yaml:"theme"`
	Language string `koanf:"language" yaml:"language"`
	// FirstDayOfWeek is 0 for Sunday and 1 for Monday.
	FirstDayOfWeek int      `koanf:"firstdayofweek" yaml:"firstdayofweek"`
	Notifications  bool     `koanf:"notifications" yaml:"notifications"`
	Timezone       string   `koanf:"timezone" yaml:"timezone"`
	DB             DB       `koanf:"db" yaml:"db"`
	Token          Token    `koanf:"token" yaml:"token"`
	Reminder       Reminder `koanf:"reminder" yaml:"reminder"`
	Log            Log      `koanf:"log" yaml:"log"`
}

type DB struct {
	Path string `koanf:"path" yaml:"path"`
}

type Token struct {
	Secret string `koanf:"secret" yaml:"secret"`
	TTL    string `koanf:"ttl" yaml:"ttl"`
}

type Reminder struct {
	Cron string `koanf:"cron" yaml:"cron"`
}

type Log struct {
	Level string `koanf:"level" yaml:"level"`
}

// Dir returns the per-user application directory (~/.cardcal).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cardcal"
	}
	return filepath.Join(home, ".cardcal")
}

// DefaultPath returns the settings file location, honoring CARDCAL_CONFIG.
func DefaultPath() string {
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "settings.yaml")
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Theme:          ThemeAuto,
		Language:       "ru",
		FirstDayOfWeek: 1,
		Notifications:  true,
		Timezone:       "Local",
		DB:             DB{Path: filepath.Join(Dir(), "cardcal.db")},
		Token:          Token{TTL: "24h"},
		Reminder:       Reminder{Cron: "0 9 * * *"},
		Log:            Log{Level: "info"},
	}
}

// Normalize fills in missing values and coerces unknown enum values back to
// their defaults.
func (s *Settings) Normalize() {
	d := Defaults()
	switch s.Theme {
	case ThemeAuto, ThemeLight, ThemeDark:
	default:
		s.Theme = d.Theme
	}
	switch s.Language {
	case "ru", "en":
	default:
		s.Language = d.Language
	}
	if s.FirstDayOfWeek != 0 && s.FirstDayOfWeek != 1 {
		s.FirstDayOfWeek = d.FirstDayOfWeek
	}
	if s.Timezone == "" {
		s.Timezone = d.Timezone
	}
	if s.DB.Path == "" {
		s.DB.Path = d.DB.Path
	}
	if _, err := time.ParseDuration(s.Token.TTL); err != nil {
		s.Token.TTL = d.Token.TTL
	}
	if s.Reminder.Cron == "" {
		s.Reminder.Cron = d.Reminder.Cron
	}
	if _, err := log.ParseLevel(s.Log.Level); err != nil {
		s.Log.Level = d.Log.Level
	}
}

// WeekStart maps FirstDayOfWeek to a weekday.
func (s *Settings) WeekStart() time.Weekday {
	if s.FirstDayOfWeek == 0 {
		return time.Sunday
	}
	return time.Monday
}

// TokenTTL parses the configured token lifetime.
func (s *Settings) TokenTTL() time.Duration {
	ttl, err := time.ParseDuration(s.Token.TTL)
	if err != nil {
		return 24 * time.Hour
	}
	return ttl
}

// Location resolves Timezone, falling back to the local zone.
func (s *Settings) Location() *time.Location {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		log.Warnf("unknown timezone %q, using local time", s.Timezone)
		return time.Local
	}
	return loc
}

// EnsureTokenSecret generates a signing secret on first run. It reports
// whether the settings changed and need saving.
func (s *Settings) EnsureTokenSecret() bool {
	if s.Token.Secret != "" {
		return false
	}
	s.Token.Secret = strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	return true
}

// LoadDotEnv reads .env from the working directory when present.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("reading .env: %v", err)
	}
}

// Load layers defaults, the YAML file at path (if any) and CARDCAL_*
// environment variables, in that order.
func Load(path string) (Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Settings{}, fmt.Errorf("loading default settings: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("loading settings from %s: %w", path, err)
		}
		log.Debugf("settings file not found at %s, using defaults and environment", path)
	} else {
		log.Debugf("loaded settings from %s", path)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, EnvPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		return Settings{}, fmt.Errorf("loading settings from environment: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	s.Normalize()
	return s, nil
}

// Save writes s to path atomically with 0600 permissions.
func Save(path string, s Settings) error {
	if path == "" {
		return errors.New("settings path is empty")
	}
	s.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	data, err := yamlv3.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cardcal-settings-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp settings file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing settings: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod settings: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing settings: %w", err)
	}
	return nil
}

// Keys lists the settings accepted by Set.
var Keys = []string{
	"theme", "language", "firstdayofweek", "notifications", "timezone",
	"db.path", "token.ttl", "reminder.cron", "log.level",
}

// Set assigns one setting from its string form. Invalid values are rejected
// rather than coerced.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "theme":
		switch Theme(value) {
		case ThemeAuto, ThemeLight, ThemeDark:
			s.Theme = Theme(value)
		default:
			return fmt.Errorf("theme must be auto, light or dark")
		}
	case "language":
		if value != "ru" && value != "en" {
			return fmt.Errorf("language must be ru or en")
		}
		s.Language = value
	case "firstdayofweek":
		n, err := strconv.Atoi(value)
		if err != nil || (n != 0 && n != 1) {
			return fmt.Errorf("firstdayofweek must be 0 (Sunday) or 1 (Monday)")
		}
		s.FirstDayOfWeek = n
	case "notifications":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("notifications must be true or false")
		}
		s.Notifications = b
	case "timezone":
		if value != "Local" {
			if _, err := time.LoadLocation(value); err != nil {
				return fmt.Errorf("unknown timezone %q", value)
			}
		}
		s.Timezone = value
	case "db.path":
		if value == "" {
			return fmt.Errorf("db.path must not be empty")
		}
		s.DB.Path = value
	case "token.ttl":
		if d, err := time.ParseDuration(value); err != nil || d <= 0 {
			return fmt.Errorf("token.ttl must be a positive duration such as 24h")
		}
		s.Token.TTL = value
	case "reminder.cron":
		if _, err := cron.ParseStandard(value); err != nil {
			return fmt.Errorf("reminder.cron: %w", err)
		}
		s.Reminder.Cron = value
	case "log.level":
		if _, err := log.ParseLevel(value); err != nil {
			return fmt.Errorf("unknown log level %q", value)
		}
		s.Log.Level = value
	default:
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}
