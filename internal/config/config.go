// Package config loads settings for the ceres operator CLI.
//
// The dedicated log_event and preflight binaries never call Load; they run
// with Default().
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (CERES_ROOT, ...).
const EnvPrefix = "CERES"

// Config holds operator settings. Zero values mean "use the built-in
// behavior".
type Config struct {
	Root            string `mapstructure:"root" json:"root" yaml:"root"`
	Mode            string `mapstructure:"mode" json:"mode" yaml:"mode"`
	Interpreter     string `mapstructure:"interpreter" json:"interpreter,omitempty" yaml:"interpreter,omitempty"`
	LogLevel        string `mapstructure:"log_level" json:"log_level" yaml:"log_level"`
	LogJSON         bool   `mapstructure:"log_json" json:"log_json" yaml:"log_json"`
	MetricsTextfile string `mapstructure:"metrics_textfile" json:"metrics_textfile,omitempty" yaml:"metrics_textfile,omitempty"`
}

// Default returns the settings the dedicated delegators run with.
func Default() Config {
	return Config{
		Mode:     "spawn",
		LogLevel: "warn",
	}
}

// SetDefaults registers every key on v so env overrides are honored.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("root", d.Root)
	v.SetDefault("mode", d.Mode)
	v.SetDefault("interpreter", d.Interpreter)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_json", d.LogJSON)
	v.SetDefault("metrics_textfile", d.MetricsTextfile)
}

// DefaultDir is the per-user config directory ($HOME/.ceres).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".ceres"), nil
}

// Load reads cfgFile (or $HOME/.ceres/config.yaml when empty), then CERES_*
// environment variables, then any flags already bound on v.
// An explicit cfgFile must exist; the default one is optional.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := DefaultDir()
		if err == nil {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Root = strings.TrimSpace(cfg.Root)
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	cfg.Interpreter = strings.TrimSpace(cfg.Interpreter)
	return cfg, nil
}
