// Package config loads application configuration from config.yaml and the
// environment, and initializes the global logger.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	City   CityConfig   `yaml:"city" mapstructure:"city"`
	Paths  PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Crawl  CrawlConfig  `yaml:"crawl" mapstructure:"crawl"`
	Robots RobotsConfig `yaml:"robots" mapstructure:"robots"`
	Review ReviewConfig `yaml:"review" mapstructure:"review"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// CityConfig supplies address defaults for venues with partial records.
type CityConfig struct {
	Name   string `yaml:"name" mapstructure:"name"`
	Region string `yaml:"region" mapstructure:"region"`
}

// PathsConfig locates the canonical dataset and the intermediate artifacts.
type PathsConfig struct {
	Dataset string `yaml:"dataset" mapstructure:"dataset"`
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// Artifact returns the path of an intermediate file under the data dir.
func (p PathsConfig) Artifact(name string) string {
	return filepath.Join(p.DataDir, name)
}

// CrawlConfig tunes the network stages.
type CrawlConfig struct {
	TimeoutSecs      int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent        string  `yaml:"user_agent" mapstructure:"user_agent"`
	Concurrency      int     `yaml:"concurrency" mapstructure:"concurrency"`
	PerHostRPS       float64 `yaml:"per_host_rps" mapstructure:"per_host_rps"`
	MaxLinksPerSite  int     `yaml:"max_links_per_site" mapstructure:"max_links_per_site"`
	MaxBlocksPerPage int     `yaml:"max_blocks_per_page" mapstructure:"max_blocks_per_page"`
	MaxRowsPerScan   int     `yaml:"max_rows_per_scan" mapstructure:"max_rows_per_scan"`
}

// Timeout returns the crawl timeout as a duration.
func (c CrawlConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// RobotsConfig tunes the consent resolver.
type RobotsConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the robots fetch timeout as a duration.
func (r RobotsConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSecs) * time.Second
}

// ReviewConfig tunes quality filtering.
type ReviewConfig struct {
	MaxPerVenue int `yaml:"max_per_venue" mapstructure:"max_per_venue"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MENUSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("city.name", "Charlotte")
	v.SetDefault("city.region", "NC")
	v.SetDefault("paths.dataset", "public/data/charlotte-deals.json")
	v.SetDefault("paths.data_dir", "data")
	v.SetDefault("crawl.timeout_secs", 15)
	v.SetDefault("crawl.user_agent", "Mozilla/5.0 (compatible; MenuScoutBot/0.1; +https://menuscout.example/bot)")
	v.SetDefault("crawl.concurrency", 4)
	v.SetDefault("crawl.per_host_rps", 1)
	v.SetDefault("crawl.max_links_per_site", 25)
	v.SetDefault("crawl.max_blocks_per_page", 200)
	v.SetDefault("crawl.max_rows_per_scan", 5)
	v.SetDefault("robots.timeout_secs", 5)
	v.SetDefault("review.max_per_venue", 6)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
