// Package config loads client settings from file and env.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API    APIConfig
	Wizard WizardConfig
	UI     UIConfig
	State  StateConfig
}

// APIConfig points at the UPI platform API.
type APIConfig struct {
	URL            string
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// WizardConfig tunes the application wizard.
type WizardConfig struct {
	// GatePolicy is "block" (refuse to advance past incomplete steps,
	// the default) or "advisory" (always advance, report problems).
	GatePolicy string `mapstructure:"gate_policy"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string `mapstructure:"date_format"`
}

// StateConfig locates local client state (cookies, draft autosaves).
type StateConfig struct {
	Dir string
}

// Load reads configuration from file and env. Env var overrides use prefix UPI_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("api.url", "http://localhost:5000/api")
	v.SetDefault("api.timeout_seconds", 30)
	v.SetDefault("wizard.gate_policy", "block")
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("state.dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "upi"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("UPI_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "upi"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("UPI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// CookiePath is where the session cookie file lives.
func (c Config) CookiePath() string {
	return filepath.Join(c.State.Dir, "cookies.json")
}
