// Package config loads and validates application configuration.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Translator TranslatorConfig `mapstructure:"translator"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Store      StoreConfig      `mapstructure:"store"`
	Cache      CacheConfig      `mapstructure:"cache"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DictionaryConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"url"`
	// TimeoutSeconds bounds a single lookup request. Zero leaves the
	// transport defaults in place.
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"min=0"`
	SourceLang     string `mapstructure:"source_lang" validate:"lang"`
	TargetLang     string `mapstructure:"target_lang" validate:"lang"`
}

type TranslatorConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	BaseURL       string `mapstructure:"base_url"`
	RetryAttempts uint   `mapstructure:"retry_attempts"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type StoreConfig struct {
	LocalPath          string `mapstructure:"local_path"`
	LoadTimeoutSeconds int    `mapstructure:"load_timeout_seconds" validate:"min=1"`
}

type CacheConfig struct {
	TTLDays int `mapstructure:"ttl_days" validate:"min=1"`
}

// Loader reads configuration from a file, the environment, and defaults.
type Loader struct {
	v *viper.Viper
}

// NewConfigLoader creates a Loader. When configFile is empty, the loader
// searches the working directory and $HOME/.config/dango.
func NewConfigLoader(configFile string) (*Loader, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dango")
	}

	v.SetDefault("server.port", 8080)
	v.SetDefault("dictionary.base_url", "https://jisho.org")
	v.SetDefault("dictionary.source_lang", "en")
	v.SetDefault("dictionary.target_lang", "ko")
	v.SetDefault("translator.enabled", true)
	v.SetDefault("translator.retry_attempts", 3)
	v.SetDefault("database.port", 3306)
	v.SetDefault("store.local_path", filepath.Join("data", "dango.db"))
	v.SetDefault("store.load_timeout_seconds", 10)
	v.SetDefault("cache.ttl_days", 30)

	// Bind the database password to the environment only (not from config file)
	if err := v.BindEnv("database.password", "DANGO_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DANGO_DB_PASSWORD environment variable: %w", err)
	}

	return &Loader{v: v}, nil
}

// Load reads, unmarshals, and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
