package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DataPath string `yaml:"data_path"`
	TempPath string `yaml:"temp_path"`

	// StoreDriver selects the persistence boundary: "sqlite" or "memory".
	StoreDriver string `yaml:"store_driver"`
	Port        int    `yaml:"port"`

	AutosaveDebounce time.Duration `yaml:"autosave_debounce"`
	PlaylistCacheTTL time.Duration `yaml:"playlist_cache_ttl"`

	SyncCron   string `yaml:"sync_cron"`
	SyncOnBoot bool   `yaml:"sync_on_boot"`
}

var globalConfig = defaultConfig()

func defaultConfig() *Config {
	return &Config{
		DataPath:         "/m3u-lineup/data/",
		TempPath:         "/tmp/m3u-lineup/",
		StoreDriver:      "sqlite",
		Port:             8080,
		AutosaveDebounce: 500 * time.Millisecond,
		PlaylistCacheTTL: 30 * time.Second,
		SyncCron:         "0 0 * * *",
		SyncOnBoot:       true,
	}
}

func GetConfig() *Config {
	return globalConfig
}

func SetConfig(c *Config) {
	globalConfig = c
}

// Load builds a Config from defaults, then the YAML file at path (if any),
// then environment variables.
func Load(path string) (*Config, error) {
	c := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	applyEnv(c)

	if c.AutosaveDebounce <= 0 {
		return nil, fmt.Errorf("autosave debounce must be positive, got %s", c.AutosaveDebounce)
	}
	switch c.StoreDriver {
	case "sqlite", "memory":
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	return c, nil
}

func applyEnv(c *Config) {
	if v := strings.TrimSpace(os.Getenv("DATA_PATH")); v != "" {
		c.DataPath = v
	}
	if v := strings.TrimSpace(os.Getenv("TEMP_PATH")); v != "" {
		c.TempPath = v
	}
	if v := strings.TrimSpace(os.Getenv("STORE_DRIVER")); v != "" {
		c.StoreDriver = strings.ToLower(v)
	}
	if v, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		c.Port = v
	}
	if v, err := strconv.Atoi(os.Getenv("AUTOSAVE_DEBOUNCE_MS")); err == nil {
		c.AutosaveDebounce = time.Duration(v) * time.Millisecond
	}
	if v, err := strconv.Atoi(os.Getenv("PLAYLIST_CACHE_TTL")); err == nil {
		c.PlaylistCacheTTL = time.Duration(v) * time.Second
	}
	if v := strings.TrimSpace(os.Getenv("SYNC_CRON")); v != "" {
		c.SyncCron = v
	}
	if v := strings.TrimSpace(os.Getenv("SYNC_ON_BOOT")); v != "" {
		c.SyncOnBoot = v == "true"
	}
}

// DatabasePath is the SQLite file under c.DataPath.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataPath, "lineup.sqlite")
}

func GetDatabasePath() string {
	return globalConfig.DatabasePath()
}

func GetPlaylistPath() string {
	return filepath.Join(globalConfig.DataPath, "playlist.m3u")
}

func GetPlaylistTempPath() string {
	return filepath.Join(globalConfig.TempPath, "playlist.m3u.tmp")
}
