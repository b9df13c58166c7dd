// Package config loads and saves AtlasERP user settings.
//
// Settings live in a TOML file under the application home:
//
//	~/.atlaserp/settings.toml
//
// A missing file is not an error; defaults are used until the first save.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"go.uber.org/zap/zapcore"

	"github.com/atlaserp/atlas/internal/notify"
)

// EnvHome overrides the application home directory.
const EnvHome = "ATLAS_HOME"

// SettingsFileName is the settings file inside the home directory.
const SettingsFileName = "settings.toml"

// DefaultSessionTTL is how long a session token stays valid.
const DefaultSessionTTL = 8 * time.Hour

// Settings holds user-adjustable application settings.
type Settings struct {
	// Language is the UI language code (en, ro, es).
	Language string `toml:"language"`

	// LogLevel is a zap level name.
	LogLevel string `toml:"log_level"`

	// DisabledModules lists module IDs switched off in module management.
	// Presentation only; the module registry ignores it.
	DisabledModules []string `toml:"disabled_modules"`

	Session SessionSettings `toml:"session"`
	Notify  notify.Config   `toml:"notify"`
}

// SessionSettings configures session tokens.
type SessionSettings struct {
	// Secret signs session tokens. A random key is used when empty.
	Secret string `toml:"secret,omitempty"`

	// TTL is the token lifetime.
	TTL Duration `toml:"ttl"`
}

// Duration is a time.Duration stored as a string ("8h", "30m").
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// Default returns settings with defaults, taking the language from the
// environment locale.
func Default() *Settings {
	return &Settings{
		Language: DetectLanguage().String(),
		LogLevel: "info",
		Session:  SessionSettings{TTL: Duration{DefaultSessionTTL}},
		Notify:   *notify.DefaultConfig(),
	}
}

// ResolveHome picks the application home: the explicit value if set, then
// $ATLAS_HOME, then ~/.atlaserp.
func ResolveHome(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(EnvHome); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".atlaserp"), nil
}

// Path returns the settings file path for an application home.
func Path(home string) string {
	return filepath.Join(home, SettingsFileName)
}

func lockFor(home string) *flock.Flock {
	return flock.New(Path(home) + ".lock")
}

// Load reads settings from home. A missing file yields Default().
func Load(home string) (*Settings, error) {
	path := Path(home)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	lock := lockFor(home)
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("locking settings: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	s := Default()
	if _, err := toml.DecodeFile(path, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes s to home atomically while holding the settings lock.
func Save(home string, s *Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(home, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	lock := lockFor(home)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking settings: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(home, "settings-*.toml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := toml.NewEncoder(tmp).Encode(s); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), Path(home)); err != nil {
		return fmt.Errorf("replacing settings: %w", err)
	}
	return nil
}

// Validate checks field values.
func (s *Settings) Validate() error {
	var errs []error
	if _, err := MatchLanguage(s.Language); err != nil {
		errs = append(errs, err)
	}
	if _, err := zapcore.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if s.Session.TTL.Duration < 0 {
		errs = append(errs, fmt.Errorf("session.ttl must not be negative"))
	}
	return errors.Join(errs...)
}

// SessionTTL returns the configured TTL or DefaultSessionTTL.
func (s *Settings) SessionTTL() time.Duration {
	if s.Session.TTL.Duration <= 0 {
		return DefaultSessionTTL
	}
	return s.Session.TTL.Duration
}

// ModuleEnabled reports whether the module is switched on.
func (s *Settings) ModuleEnabled(id string) bool {
	return !slices.Contains(s.DisabledModules, id)
}

// SetModuleEnabled switches a module on or off.
func (s *Settings) SetModuleEnabled(id string, enabled bool) {
	idx := slices.Index(s.DisabledModules, id)
	switch {
	case enabled && idx >= 0:
		s.DisabledModules = slices.Delete(s.DisabledModules, idx, idx+1)
	case !enabled && idx < 0:
		s.DisabledModules = append(s.DisabledModules, id)
		slices.Sort(s.DisabledModules)
	}
}

// ToggleModule flips a module's enabled flag and returns the new value.
func (s *Settings) ToggleModule(id string) bool {
	enabled := !s.ModuleEnabled(id)
	s.SetModuleEnabled(id, enabled)
	return enabled
}

// SetLanguage validates code and stores the matching supported language.
func (s *Settings) SetLanguage(code string) error {
	tag, err := MatchLanguage(code)
	if err != nil {
		return err
	}
	s.Language = tag.String()
	return nil
}
