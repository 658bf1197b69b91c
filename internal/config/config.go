// Package config loads application configuration with the precedence
// defaults < config file < environment < runtime overrides.
package config

import "time"

// Config is the application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Settings SettingsConfig `mapstructure:"settings"`
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig configures the admin HTTP server.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// TrustProxyHeader accepts X-Forwarded-Proto when deciding whether a
	// request arrived over a secure channel. Enable only behind a
	// TLS-terminating proxy you control.
	TrustProxyHeader bool `mapstructure:"trust_proxy_header"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Profile string `mapstructure:"profile"`
}

// SettingsConfig locates the persisted invalidation settings.
type SettingsConfig struct {
	// Path is the settings file location. JSON by default; .yaml/.yml
	// switches the format.
	Path string `mapstructure:"path"`

	// Migrate enables one-time legacy plaintext credential migration on
	// load.
	Migrate bool `mapstructure:"migrate"`
}

// SecurityConfig supplies the key-derivation salts. These are long-lived
// deployment secrets; without them stored credentials fall back to a
// built-in salt and are only obfuscated.
type SecurityConfig struct {
	Salts []string `mapstructure:"salts"`
}
