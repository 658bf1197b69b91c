package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	configMu  sync.RWMutex
	appConfig *Config
)

// envBindings maps config keys to their flat environment variable names.
// Flat names (GOPURGE_PORT, not GOPURGE_SERVER_PORT) keep deployment
// manifests short.
var envBindings = map[string]string{
	"server.host":                "GOPURGE_HOST",
	"server.port":                "GOPURGE_PORT",
	"server.read_timeout":        "GOPURGE_READ_TIMEOUT",
	"server.write_timeout":       "GOPURGE_WRITE_TIMEOUT",
	"server.idle_timeout":        "GOPURGE_IDLE_TIMEOUT",
	"server.shutdown_timeout":    "GOPURGE_SHUTDOWN_TIMEOUT",
	"server.trust_proxy_header":  "GOPURGE_TRUST_PROXY_HEADER",
	"logging.level":              "GOPURGE_LOG_LEVEL",
	"logging.profile":            "GOPURGE_LOG_PROFILE",
	"settings.path":              "GOPURGE_SETTINGS_PATH",
	"settings.migrate":           "GOPURGE_SETTINGS_MIGRATE",
	"security.salts":             "GOPURGE_SALTS",
}

// Load builds the configuration. Optional runtime overrides (nested maps
// keyed like the config file) take precedence over everything else.
//
// Load may be called again to reload; the last result becomes the one
// GetConfig returns.
func Load(_ context.Context, overrides ...map[string]any) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("gopurge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "gopurge"))
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	// Set has the highest precedence in viper, so overrides beat bound
	// env vars, not just the config file.
	for _, override := range overrides {
		applyOverrides(v, "", override)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// GOPURGE_SALTS delivers the list as one comma-separated string and
	// viper's decode hook splits it, leaving surrounding whitespace.
	// Entries from the config file or runtime overrides arrive as a real
	// list and are kept verbatim, commas included; only trimming and
	// blank removal apply here.
	salts := make([]string, 0, len(cfg.Security.Salts))
	for _, entry := range cfg.Security.Salts {
		if entry = strings.TrimSpace(entry); entry != "" {
			salts = append(salts, entry)
		}
	}
	cfg.Security.Salts = salts

	configMu.Lock()
	appConfig = &cfg
	configMu.Unlock()

	return &cfg, nil
}

// GetConfig returns the most recently loaded configuration, or nil if Load
// has not run.
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// applyOverrides flattens a nested override map into dotted keys and sets
// each one.
func applyOverrides(v *viper.Viper, prefix string, m map[string]any) {
	for key, value := range m {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			applyOverrides(v, full, nested)
			continue
		}
		v.Set(full, value)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.trust_proxy_header", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "STRUCTURED")

	v.SetDefault("settings.path", defaultSettingsPath())
	v.SetDefault("settings.migrate", true)

	v.SetDefault("security.salts", []string{})
}

// defaultSettingsPath places the settings blob under the user config
// directory, falling back to the working directory when it is unknown.
func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gopurge-settings.json"
	}
	return filepath.Join(dir, "gopurge", "settings.json")
}
