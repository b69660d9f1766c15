package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"idish/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	HTTP       HTTPConfig       `yaml:"http"`
	Backend    BackendConfig    `yaml:"backend"`
	Redis      RedisConfig      `yaml:"redis"`
	Session    SessionConfig    `yaml:"session"`
	Upload     UploadConfig     `yaml:"upload"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Exports    ExportConfig     `yaml:"exports"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

// BackendConfig points at the external iDISH REST API.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type SessionConfig struct {
	// TTLSeconds is how long an idle session record survives in the store.
	TTLSeconds int    `yaml:"ttl_seconds"`
	CookieName string `yaml:"cookie_name"`
	Secure     bool   `yaml:"secure"`
}

// UploadConfig selects the image upload side channel. Mode is one of
// "minio", "proxy" or "placeholder".
type UploadConfig struct {
	Mode   string            `yaml:"mode"`
	Bucket string            `yaml:"bucket"`
	Minio  MinioUploadConfig `yaml:"minio"`
}

type MinioUploadConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	PublicURL string `yaml:"public_url"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type RateLimitConfig struct {
	LoginRPS   float64 `yaml:"login_rps"`
	LoginBurst int     `yaml:"login_burst"`
}

// Load reads the YAML config, expanding ${ENV} references first. A .env file
// is honored when present so local runs can keep secrets out of the YAML.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend base_url is required")
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend base_url must be an http(s) URL, got %q", c.Backend.BaseURL)
	}
	switch c.Upload.Mode {
	case "minio":
		if c.Upload.Minio.Endpoint == "" {
			return errors.New("upload.minio.endpoint is required when upload.mode is minio")
		}
	case "proxy", "placeholder":
	default:
		return fmt.Errorf("unknown upload.mode %q", c.Upload.Mode)
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis.address is required when redis is enabled")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "idish-gateway"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.Backend.BaseURL != "" {
		c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	}
	if c.Session.TTLSeconds == 0 {
		c.Session.TTLSeconds = models.DefaultSessionTTL
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "idish_session"
	}
	if c.Upload.Mode == "" {
		c.Upload.Mode = "placeholder"
	}
	if c.Upload.Bucket == "" {
		c.Upload.Bucket = "dishes"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.RateLimit.LoginRPS == 0 {
		c.RateLimit.LoginRPS = models.LoginRateLimitRPS
	}
	if c.RateLimit.LoginBurst == 0 {
		c.RateLimit.LoginBurst = models.LoginRateLimitBurst
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
