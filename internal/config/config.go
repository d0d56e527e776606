// Package config provides centralized configuration management using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	appName   = "estimator"
	envPrefix = "ESTIMATOR"
)

// Config holds all configuration values for the estimator.
type Config struct {
	PricePerSqFt       float64 `mapstructure:"price_per_sqft" yaml:"price_per_sqft"`
	ServiceRegion      string  `mapstructure:"service_region" yaml:"service_region"`
	RequireServiceArea bool    `mapstructure:"require_service_area" yaml:"require_service_area"`
	AllowZeroFootage   bool    `mapstructure:"allow_zero_footage" yaml:"allow_zero_footage"`
	PostalFile         string  `mapstructure:"postal_file" yaml:"postal_file"`
	MaxSquareFootage   int     `mapstructure:"max_square_footage" yaml:"max_square_footage"`
	FootageStep        int     `mapstructure:"footage_step" yaml:"footage_step"`
	CompanyName        string  `mapstructure:"company_name" yaml:"company_name"`
	LogLevel           string  `mapstructure:"log_level" yaml:"log_level"`
	LogFile            string  `mapstructure:"log_file" yaml:"log_file"`
	Events             Events  `mapstructure:"events" yaml:"events"`
}

// Events configures the state-change bus.
type Events struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port" yaml:"port"` // 0 = in-process only
	Session string `mapstructure:"session" yaml:"session"`
}

// defaults mirrors Default and seeds viper.
var defaults = map[string]any{
	"price_per_sqft":       4.50,
	"service_region":       "WA",
	"require_service_area": true,
	"allow_zero_footage":   false,
	"postal_file":          "",
	"max_square_footage":   10000,
	"footage_step":         100,
	"company_name":         "R&B Siding",
	"log_level":            "info",
	"log_file":             "",
	"events.enabled":       false,
	"events.port":          0,
	"events.session":       "",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PricePerSqFt:       4.50,
		ServiceRegion:      "WA",
		RequireServiceArea: true,
		MaxSquareFootage:   10000,
		FootageStep:        100,
		CompanyName:        "R&B Siding",
		LogLevel:           "info",
	}
}

// Load loads configuration with full precedence:
// ENV vars > project config > XDG global config > defaults.
// CLI flags are applied on top by the commands.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(appName)

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit bindings so Unmarshal sees ENV values for keys absent from files
	for key := range defaults {
		envName := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envName); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration can drive a wizard.
func (c *Config) Validate() error {
	var errs []error
	if c.PricePerSqFt <= 0 {
		errs = append(errs, fmt.Errorf("price_per_sqft must be > 0, got %v", c.PricePerSqFt))
	}
	if c.RequireServiceArea && strings.TrimSpace(c.ServiceRegion) == "" {
		errs = append(errs, errors.New("service_region is required when require_service_area is set"))
	}
	if c.FootageStep <= 0 {
		errs = append(errs, fmt.Errorf("footage_step must be > 0, got %d", c.FootageStep))
	}
	if c.MaxSquareFootage <= 0 {
		errs = append(errs, fmt.Errorf("max_square_footage must be > 0, got %d", c.MaxSquareFootage))
	} else if c.FootageStep > 0 && c.MaxSquareFootage%c.FootageStep != 0 {
		errs = append(errs, fmt.Errorf("max_square_footage (%d) must be a multiple of footage_step (%d)", c.MaxSquareFootage, c.FootageStep))
	}
	if c.Events.Port < 0 || c.Events.Port > 65535 {
		errs = append(errs, fmt.Errorf("events.port out of range: %d", c.Events.Port))
	}
	return errors.Join(errs...)
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/estimator/estimator.yml or $XDG_CONFIG_HOME/estimator/estimator.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, appName+".yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName, appName+".yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return appName + ".yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
