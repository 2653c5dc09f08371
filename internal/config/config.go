// Package config loads service settings from config/config.yaml, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config mirrors config.yaml.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Draws  DrawsConfig  `mapstructure:"draws"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug/release/test
}

// MongoConfig points at the results collection.
type MongoConfig struct {
	URI          string        `mapstructure:"uri"`
	Database     string        `mapstructure:"database"`
	Collection   string        `mapstructure:"collection"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// CacheConfig tunes the results cache and guards its admin routes.
type CacheConfig struct {
	DefaultTTL    time.Duration `mapstructure:"default_ttl"`
	LatestTTL     time.Duration `mapstructure:"latest_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	APIKey        string        `mapstructure:"api_key"`
}

// DrawsConfig holds draw-schedule settings.
type DrawsConfig struct {
	Timezone string `mapstructure:"timezone"`
	// ForceComingSoon pins the UI into its coming-soon state. Never set in production.
	ForceComingSoon bool `mapstructure:"force_coming_soon"`
}

// LogConfig configures google/logger.
type LogConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "lottery_db")
	v.SetDefault("mongo.collection", "daily_million_results")
	v.SetDefault("mongo.query_timeout", "10s")
	v.SetDefault("cache.default_ttl", "1h")
	v.SetDefault("cache.latest_ttl", "10m")
	v.SetDefault("cache.sweep_interval", "2m")
	v.SetDefault("cache.api_key", "")
	v.SetDefault("draws.timezone", "Europe/Dublin")
	v.SetDefault("draws.force_coming_soon", false)
	v.SetDefault("log.verbose", true)
}

// Load reads ./config/config.yaml when present. Values from the
// environment (and .env) win over the file: MONGODB_URI and CACHE_API_KEY
// by name, anything else as SECTION_KEY, e.g. SERVER_PORT.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	return load("./config")
}

func load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// overrideFromEnv applies the secret names the deployment already uses.
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("MONGODB_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("CACHE_API_KEY"); v != "" {
		cfg.Cache.APIKey = v
	}
}
