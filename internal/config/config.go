// Package config reads portal settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/geo"
	"github.com/Sandip-2006/diigital-village-hub/internal/locate"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
)

// Config holds everything the binary needs to wire itself.
type Config struct {
	DBPath          string
	RegistryPath    string // empty means the embedded registry
	RadiusKm        float64
	Policy          geo.Policy
	Addr            string
	DetectTimeout   time.Duration
	VisitorInterval time.Duration
	SessionTTL      time.Duration
	CORSOrigins     []string
	LogUseCases     bool
	LogLevel        string
}

// Default returns a Config with sensible defaults. DBPath is left for
// Load to fill from the home directory.
func Default() Config {
	return Config{
		RadiusKm:        geo.DefaultRadiusKm,
		Policy:          geo.PolicyNearest,
		Addr:            ":8080",
		DetectTimeout:   locate.DefaultTimeout,
		VisitorInterval: store.DefaultVisitorInterval,
		SessionTTL:      30 * 24 * time.Hour,
		CORSOrigins:     []string{"http://localhost:5173", "http://localhost:8080"},
		LogLevel:        "info",
	}
}

// Load reads configuration from environment variables, falling back to
// defaults for any unset or invalid values.
func Load() Config {
	return load(os.Getenv, os.UserHomeDir)
}

func load(getenv func(string) string, home func() (string, error)) Config {
	cfg := Default()

	if v := getenv("VILLAGE_PORTAL_DB"); v != "" {
		cfg.DBPath = v
	} else if h, err := home(); err == nil {
		cfg.DBPath = filepath.Join(h, ".villageportal", "portal.db")
	} else {
		cfg.DBPath = "portal.db"
	}
	cfg.RegistryPath = getenv("VILLAGE_PORTAL_REGISTRY")

	if v := getenv("VILLAGE_PORTAL_RADIUS_KM"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RadiusKm = f
		}
	}
	if v := getenv("VILLAGE_PORTAL_POLICY"); v != "" {
		if p, err := geo.ParsePolicy(v); err == nil {
			cfg.Policy = p
		}
	}
	if v := getenv("VILLAGE_PORTAL_ADDR"); v != "" {
		cfg.Addr = v
	}
	applyMillisEnv(getenv, &cfg.DetectTimeout, "VILLAGE_PORTAL_DETECT_TIMEOUT_MS")
	applyMillisEnv(getenv, &cfg.VisitorInterval, "VILLAGE_PORTAL_VISITOR_TICK_MS")
	if v := getenv("VILLAGE_PORTAL_SESSION_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTL = time.Duration(n) * time.Hour
		}
	}
	if v := getenv("VILLAGE_PORTAL_CORS_ORIGINS"); v != "" {
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
	if v := getenv("VILLAGE_PORTAL_LOG_USECASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := getenv("VILLAGE_PORTAL_LOG_LEVEL"); v != "" {
		switch strings.ToLower(v) {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = strings.ToLower(v)
		}
	}

	return cfg
}

func applyMillisEnv(getenv func(string) string, dst *time.Duration, name string) {
	v := getenv(name)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	*dst = time.Duration(n) * time.Millisecond
}
