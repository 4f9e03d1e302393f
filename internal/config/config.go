// Package config provides persistent configuration for the prayer-times CLI.
//
// Configuration is stored as JSON at ~/.config/prayer-times/config.json
// (XDG-compliant). The merge priority is: CLI flags > environment >
// config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	configDirName  = "prayer-times"
	configFileName = "config.json"
)

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	City       string  `json:"city,omitempty"`
	Country    string  `json:"country,omitempty"`
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
	Method     *int    `json:"method,omitempty"` // pointer so 0 is distinguishable from unset
	School     *int    `json:"school,omitempty"`
	Tune       string  `json:"tune,omitempty"`        // 9 comma-separated minute offsets
	TimeFormat string  `json:"time_format,omitempty"` // "12h" or "24h"
	Prayers    string  `json:"prayers,omitempty"`     // comma-separated list
	CacheDir   string  `json:"cache_dir,omitempty"`

	CalendarMethod  string `json:"calendar_method,omitempty"`
	HijriAdjustment *int   `json:"hijri_adjustment,omitempty"`

	Store         string `json:"store,omitempty"` // file, redis, sqlite or memory
	RedisAddr     string `json:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty"`
	SQLitePath    string `json:"sqlite_path,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	method := -1
	school := -1
	adjustment := 0
	return Config{
		Method:          &method,
		School:          &school,
		TimeFormat:      "24h",
		CalendarMethod:  "HJCoSA",
		HijriAdjustment: &adjustment,
		Store:           "file",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// A missing file yields an empty Config; invalid JSON is an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	// 0600: the file may hold a redis password
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set validates value and assigns it to key.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}
	return f.set(c, value)
}

// Get returns the string value of a config key. Unset keys read as "".
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return f.get(c), nil
}

// AffectsCalendar reports whether changing key invalidates the cached
// Hijri calendar.
func AffectsCalendar(key string) bool {
	return fields[key].calendar
}

// MethodOrDefault returns the method value, falling back to the given default.
func (c *Config) MethodOrDefault(def int) int {
	return intOr(c.Method, def)
}

// SchoolOrDefault returns the school value, falling back to the given default.
func (c *Config) SchoolOrDefault(def int) int {
	return intOr(c.School, def)
}

// HijriAdjustmentOrDefault returns the Hijri day shift, falling back to def.
func (c *Config) HijriAdjustmentOrDefault(def int) int {
	return intOr(c.HijriAdjustment, def)
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

// validPrayerNames are the prayer names the API supports.
var validPrayerNames = map[string]bool{
	"Fajr": true, "Sunrise": true, "Dhuhr": true, "Asr": true,
	"Sunset": true, "Maghrib": true, "Isha": true,
	"Imsak": true, "Midnight": true, "Firstthird": true, "Lastthird": true,
}

func isValidPrayerName(name string) bool {
	return validPrayerNames[name]
}
