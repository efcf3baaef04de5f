// Package config loads runtime settings for the development API server.
// Sources are layered: defaults, then a .env file, then flags.
package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"clinicbook/internal/flagx"
)

// Config holds runtime settings for the API server.
type Config struct {
	// Addr is the listen address, e.g. ":5000".
	Addr string
	// JWTSecret signs access tokens. Override it outside local development.
	JWTSecret string
	// TokenTTL bounds how long an issued token stays valid.
	TokenTTL time.Duration
	// AdminEmail and AdminPassword seed the administrator account.
	AdminEmail    string
	AdminPassword string
	// CORSOrigins lists the origins allowed to call the API from a
	// browser. "*" allows any origin.
	CORSOrigins []string
}

// LoadDefaults populates c with local-development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":5000"
	c.JWTSecret = "dev-only-secret"
	c.TokenTTL = 24 * time.Hour
	c.AdminEmail = "admin@clinic.local"
	c.AdminPassword = "change-me-please"
	c.CORSOrigins = []string{"*"}
}

// LoadConfig constructs a Config from all sources.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	_ = godotenv.Load()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

func parseEnv(cfg *Config) {
	if v := os.Getenv("CLINICBOOK_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("CLINICBOOK_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("CLINICBOOK_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("CLINICBOOK_ADMIN_EMAIL"); v != "" {
		cfg.AdminEmail = v
	}
	if v := os.Getenv("CLINICBOOK_ADMIN_PASSWORD"); v != "" {
		cfg.AdminPassword = v
	}
	if v := os.Getenv("CLINICBOOK_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORSOrigins = origins
		}
	}
}

// parseFlags overlays cfg with command-line flags:
//
//	-addr string    listen address
//	-secret string  JWT signing secret
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-addr", "-secret"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.JWTSecret, "secret", cfg.JWTSecret, "JWT signing secret")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
