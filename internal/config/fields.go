package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// field binds a config key to its accessors.
type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
	// calendar marks keys that change Hijri calendar results.
	calendar bool
}

// ValidKeys lists all config keys that can be set via `config set`, in display order.
var ValidKeys = []string{
	"city", "country",
	"latitude", "longitude",
	"method", "school", "tune",
	"time_format",
	"prayers",
	"cache_dir",
	"calendar_method", "hijri_adjustment",
	"store", "redis_addr", "redis_password", "sqlite_path",
}

var calendarMethods = []string{"HJCoSA", "UAQ", "DIYANET", "MATHEMATICAL"}

var storeBackends = []string{"file", "redis", "sqlite", "memory"}

func stringField(p func(c *Config) *string) field {
	return field{
		get: func(c *Config) string { return *p(c) },
		set: func(c *Config, v string) error { *p(c) = v; return nil },
	}
}

func floatString(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func intString(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func parseCoordinate(name, value string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", name, value)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("invalid %s %q: must be between %g and %g", name, value, -limit, limit)
	}
	return v, nil
}

func parseIntRange(name, value string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", name, value)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("invalid %s %q: must be between %d and %d", name, value, lo, hi)
	}
	return v, nil
}

var fields = map[string]field{
	"city":    stringField(func(c *Config) *string { return &c.City }),
	"country": stringField(func(c *Config) *string { return &c.Country }),
	"latitude": {
		get: func(c *Config) string { return floatString(c.Latitude) },
		set: func(c *Config, v string) error {
			lat, err := parseCoordinate("latitude", v, 90)
			if err == nil {
				c.Latitude = lat
			}
			return err
		},
	},
	"longitude": {
		get: func(c *Config) string { return floatString(c.Longitude) },
		set: func(c *Config, v string) error {
			lon, err := parseCoordinate("longitude", v, 180)
			if err == nil {
				c.Longitude = lon
			}
			return err
		},
	},
	"method": {
		get: func(c *Config) string { return intString(c.Method) },
		set: func(c *Config, v string) error {
			m, err := parseIntRange("method", v, 0, 23)
			if err == nil {
				c.Method = &m
			}
			return err
		},
	},
	"school": {
		get: func(c *Config) string { return intString(c.School) },
		set: func(c *Config, v string) error {
			s, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid school %q: must be an integer", v)
			}
			if s != 0 && s != 1 {
				return fmt.Errorf("invalid school %q: must be 0 (Shafi) or 1 (Hanafi)", v)
			}
			c.School = &s
			return nil
		},
	},
	"tune": {
		get: func(c *Config) string { return c.Tune },
		set: func(c *Config, v string) error {
			parts := strings.Split(v, ",")
			if len(parts) != 9 {
				return fmt.Errorf("invalid tune %q: must be 9 comma-separated integers", v)
			}
			for _, p := range parts {
				if _, err := strconv.Atoi(strings.TrimSpace(p)); err != nil {
					return fmt.Errorf("invalid tune %q: %q is not an integer", v, p)
				}
			}
			c.Tune = v
			return nil
		},
	},
	"time_format": {
		get: func(c *Config) string { return c.TimeFormat },
		set: func(c *Config, v string) error {
			if v != "12h" && v != "24h" {
				return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", v)
			}
			c.TimeFormat = v
			return nil
		},
	},
	"prayers": {
		get: func(c *Config) string { return c.Prayers },
		set: func(c *Config, v string) error {
			for _, n := range strings.Split(v, ",") {
				n = strings.TrimSpace(n)
				if !isValidPrayerName(n) {
					return fmt.Errorf("invalid prayer name %q in prayers list", n)
				}
			}
			c.Prayers = v
			return nil
		},
	},
	"cache_dir": stringField(func(c *Config) *string { return &c.CacheDir }),
	"calendar_method": {
		get: func(c *Config) string { return c.CalendarMethod },
		set: func(c *Config, v string) error {
			if !slices.Contains(calendarMethods, v) {
				return fmt.Errorf("invalid calendar_method %q: must be one of %s", v, strings.Join(calendarMethods, ", "))
			}
			c.CalendarMethod = v
			return nil
		},
		calendar: true,
	},
	"hijri_adjustment": {
		get: func(c *Config) string { return intString(c.HijriAdjustment) },
		set: func(c *Config, v string) error {
			a, err := parseIntRange("hijri_adjustment", v, -3, 3)
			if err == nil {
				c.HijriAdjustment = &a
			}
			return err
		},
		calendar: true,
	},
	"store": {
		get: func(c *Config) string { return c.Store },
		set: func(c *Config, v string) error {
			if !slices.Contains(storeBackends, v) {
				return fmt.Errorf("invalid store %q: must be one of %s", v, strings.Join(storeBackends, ", "))
			}
			c.Store = v
			return nil
		},
	},
	"redis_addr":     stringField(func(c *Config) *string { return &c.RedisAddr }),
	"redis_password": stringField(func(c *Config) *string { return &c.RedisPassword }),
	"sqlite_path":    stringField(func(c *Config) *string { return &c.SQLitePath }),
}
