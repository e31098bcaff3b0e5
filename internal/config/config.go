package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Sync struct {
		GridIntervalSeconds   int `yaml:"grid_interval_seconds"`
		DetailIntervalSeconds int `yaml:"detail_interval_seconds"`
	} `yaml:"sync"`

	API struct {
		Port               int     `yaml:"port"`
		RateLimitPerSecond float64 `yaml:"rate_limit_per_second"`
		RateLimitBurst     int     `yaml:"rate_limit_burst"`
	} `yaml:"api"`

	Display struct {
		ShowClosures  *bool `yaml:"show_closures"`
		ShowLeaves    *bool `yaml:"show_leaves"`
		ShowWeeklyOff *bool `yaml:"show_weekly_off"`
	} `yaml:"display"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		StoragePath   string `yaml:"storage_path"`
		IntervalHours int    `yaml:"interval_hours"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/agenda.db"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) GridInterval() time.Duration {
	if c.Sync.GridIntervalSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Sync.GridIntervalSeconds) * time.Second
}

func (c *Config) DetailInterval() time.Duration {
	if c.Sync.DetailIntervalSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Sync.DetailIntervalSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

func (c *Config) APIPort() int {
	if c.API.Port <= 0 {
		return 8080
	}
	return c.API.Port
}

func (c *Config) RateLimit() (perSecond float64, burst int) {
	perSecond = c.API.RateLimitPerSecond
	if perSecond <= 0 {
		perSecond = 20
	}
	burst = c.API.RateLimitBurst
	if burst <= 0 {
		burst = 40
	}
	return perSecond, burst
}

func (c *Config) BackupInterval() time.Duration {
	if c.Backup.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Backup.IntervalHours) * time.Hour
}

func (c *Config) BackupStoragePath() string {
	if c.Backup.StoragePath == "" {
		return "data/backups"
	}
	return c.Backup.StoragePath
}

// Visibility returns the configured default display toggles; unset toggles
// default to visible.
func (c *Config) Visibility() (showClosures, showLeaves, showWeeklyOff bool) {
	show := func(v *bool) bool { return v == nil || *v }
	return show(c.Display.ShowClosures), show(c.Display.ShowLeaves), show(c.Display.ShowWeeklyOff)
}
