package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"bombardier/internal/logging"
)

// DefaultPath is where the CLI looks for its config file.
const DefaultPath = "./bombardier.yaml"

// Config is the application's configuration model.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Storage     StorageConfig     `yaml:"storage"`
	Cache       CacheConfig       `yaml:"cache"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	Campaign    CampaignConfig    `yaml:"campaign"`
	Engagement  EngagementConfig  `yaml:"engagement"`
	Credentials CredentialsConfig `yaml:"credentials"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Token bucket applied to every API request; 0 disables limiting.
	RatePerSecond float64       `yaml:"ratePerSecond"`
	Burst         int           `yaml:"burst"`
	Timeout       time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type StorageConfig struct {
	DBPath string `yaml:"dbPath"`
}

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type CacheConfig struct {
	Backend    string        `yaml:"backend"`
	RedisAddr  string        `yaml:"redisAddr"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"maxEntries"`
}

type AnalysisConfig struct {
	// Profiles analyzed concurrently by batch operations.
	Workers int `yaml:"workers"`
}

type CampaignConfig struct {
	TargetInterests []string `yaml:"targetInterests"`
	MinScore        float64  `yaml:"minScore"`
	MaxCount        int      `yaml:"maxCount"`
	// CEL expression every planned target must satisfy; empty accepts all.
	Filter string `yaml:"filter"`
	// Outreach action type recorded for planned targets.
	Action string `yaml:"action"`
	// Skip targets contacted within this window.
	Cooldown time.Duration `yaml:"cooldown"`
}

type EngagementConfig struct {
	// Max interactions per hour and per day
	MaxPerHour int `yaml:"maxPerHour"`
	MaxPerDay  int `yaml:"maxPerDay"`
	// Optional budgets for individual action types
	PerType map[string]Budget `yaml:"perType"`
	// Quiet hours (UTC) to avoid low-quality time windows
	QuietHours []int `yaml:"quietHours"`
}

type Budget struct {
	MaxPerHour int `yaml:"maxPerHour"`
	MaxPerDay  int `yaml:"maxPerDay"`
}

type CredentialsConfig struct {
	// X/Twitter API bearer token. If empty, read from env X_BEARER_TOKEN
	BearerToken string `yaml:"bearerToken"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Server:  ServerConfig{Addr: ":5000", RatePerSecond: 20, Burst: 40, Timeout: 30 * time.Second},
		Log:     LogConfig{Level: "info", Format: "json"},
		Metrics: MetricsConfig{Addr: ""},
		Storage: StorageConfig{DBPath: "./bombardier.db"},
		Cache:   CacheConfig{Backend: CacheMemory, RedisAddr: "localhost:6379", TTL: 10 * time.Minute, MaxEntries: 10000},
		Analysis: AnalysisConfig{Workers: 4},
		Campaign: CampaignConfig{
			TargetInterests: []string{"ai", "startup", "developer", "open source"},
			MinScore:        40,
			MaxCount:        100,
			Filter:          "",
			Action:          "dm",
			Cooldown:        30 * 24 * time.Hour,
		},
		Engagement: EngagementConfig{MaxPerHour: 6, MaxPerDay: 40, QuietHours: []int{0, 1, 2, 3, 4, 5}},
	}
}

// ResolveEnv fills in config fields from the environment. A .env file in
// the working directory is loaded first; variables already set win.
func (c *Config) ResolveEnv() {
	loadDotenv(".env")

	if c.Credentials.BearerToken == "" {
		c.Credentials.BearerToken = os.Getenv("X_BEARER_TOKEN")
	}
	if v := os.Getenv("BOMBARDIER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("BOMBARDIER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("BOMBARDIER_DB"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
}

// loadDotenv applies the env file at path. A missing file is normal; a
// malformed one is reported and skipped.
func loadDotenv(path string) {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}
	logging.Warn("config_env_error", logging.Fields{"path": path, "error": err.Error()})
}

// Load reads YAML config from path on top of Default. A missing file is
// not an error; the defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
