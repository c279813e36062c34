package config

import (
	"errors"
	"fmt"
	"os"

	"courtdesk/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Logging    LoggingConfig    `yaml:"logging"`
	Redis      RedisConfig      `yaml:"redis"`
	API        APIConfig        `yaml:"api"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Facility   FacilityConfig   `yaml:"facility"`
	Users      []UserConfig     `yaml:"users"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type APIConfig struct {
	Port      int             `yaml:"port"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type FacilityConfig struct {
	Courts []int `yaml:"courts"`
}

// UserConfig is a fixed credential pair. A real identity provider would
// replace this section wholesale.
type UserConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; when present its values feed the ${VAR} expansion below.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

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
	if len(c.Facility.Courts) == 0 {
		return errors.New("at least one court is required")
	}
	seen := make(map[int]bool, len(c.Facility.Courts))
	for _, court := range c.Facility.Courts {
		if court <= 0 {
			return fmt.Errorf("invalid court number: %d", court)
		}
		if seen[court] {
			return fmt.Errorf("duplicate court number: %d", court)
		}
		seen[court] = true
	}

	return ValidateUsers(c.Users)
}

func ValidateUsers(users []UserConfig) error {
	if len(users) == 0 {
		return errors.New("at least one user is required")
	}

	emails := make(map[string]bool, len(users))
	hasAdmin := false
	for _, u := range users {
		if u.Email == "" || u.Password == "" {
			return fmt.Errorf("user %q must have email and password", u.Name)
		}
		if emails[u.Email] {
			return fmt.Errorf("duplicate user email: %s", u.Email)
		}
		emails[u.Email] = true

		switch u.Role {
		case models.RoleStaff:
		case models.RoleAdmin:
			hasAdmin = true
		default:
			return fmt.Errorf("user %q has unknown role %q", u.Name, u.Role)
		}
	}

	if !hasAdmin {
		return errors.New("at least one admin user is required")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "courtdesk"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.API.RateLimit.Burst == 0 {
		c.API.RateLimit.Burst = 5
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		c.Redis.Address = "localhost:6379"
	}
	if len(c.Facility.Courts) == 0 {
		c.Facility.Courts = []int{1, 2, 3}
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
