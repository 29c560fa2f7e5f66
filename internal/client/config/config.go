package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the catalog CLI.
type Config struct {
	APIBaseURL          string
	DataDir             string
	StoreBackend        string
	OnlineCheckInterval time.Duration
	ProbeTimeout        time.Duration
	ImageCacheSize      int
	UploadWorkers       int
	LogLevel            string
	LogFile             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://app.getswipe.in"
	c.DataDir = defaultDataDir()
	c.StoreBackend = "file"
	c.OnlineCheckInterval = 3 * time.Second
	c.ProbeTimeout = 2 * time.Second
	c.ImageCacheSize = 128
	c.UploadWorkers = 4
	c.LogLevel = "info"
	c.LogFile = ""
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".swipecatalog"
	}
	return filepath.Join(home, ".swipecatalog")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON, the environment and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
