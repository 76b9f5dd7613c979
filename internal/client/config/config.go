package config

import "time"

// Config holds runtime settings for the mapsketch CLI.
//
// Fields:
//   - ServerURL: base URL of the backend HTTP endpoint.
//   - AutosaveInterval: debounce window between an edit and the automatic save.
//   - CachePath: path of the local SQLite document cache.
//
// Units: AutosaveInterval is a time.Duration (e.g., 2*time.Second).
type Config struct {
	ServerURL        string
	CachePath        string
	AutosaveInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.AutosaveInterval = 2 * time.Second
	c.CachePath = "mapsketch.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
