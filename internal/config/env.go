package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override, e.g. PRAYER_TIMES_CITY.
const EnvPrefix = "PRAYER_TIMES_"

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// ApplyEnv loads optional .env files (working directory first, then the
// config directory) and applies PRAYER_TIMES_* overrides to c. Variables
// already set in the process environment win over .env files.
func (c *Config) ApplyEnv() error {
	files := []string{".env"}
	if dir, err := Dir(); err == nil {
		files = append(files, filepath.Join(dir, ".env"))
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	for _, key := range ValidKeys {
		v, ok := os.LookupEnv(EnvName(key))
		if !ok || v == "" {
			continue
		}
		if err := c.Set(key, v); err != nil {
			return fmt.Errorf("%s: %w", EnvName(key), err)
		}
	}
	return nil
}
