// Package config loads runtime settings for the booking client. Sources are
// layered: defaults, then a .env file, then a JSON config file, then
// command-line flags, with later sources taking precedence.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the clinic booking client.
type Config struct {
	// APIBaseURL is the root of the external booking API, including the
	// /api prefix.
	APIBaseURL string
	// SessionFile is the single-slot file the session store persists to.
	SessionFile string
	// RequestTimeout bounds each outbound API call.
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.SessionFile = defaultSessionFile()
	c.RequestTimeout = 15 * time.Second
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "clinicbook", "session.json")
}

// LoadConfig constructs a Config from all sources. A missing .env or JSON
// file is not an error; malformed explicit config panics early, before the
// UI starts.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	_ = godotenv.Load()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}

func parseEnv(cfg *Config) {
	if v := os.Getenv("CLINICBOOK_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CLINICBOOK_SESSION_FILE"); v != "" {
		cfg.SessionFile = v
	}
	if v := os.Getenv("CLINICBOOK_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}
