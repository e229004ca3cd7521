// Package config loads server and calculator settings from YAML, a .env
// file and ATTRITION_* environment variables, in that order of precedence
// (environment wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/warp/attrition-engine/internal/logging"
	"github.com/warp/attrition-engine/roi"
	"gopkg.in/yaml.v3"
)

// Config holds all settings.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  logging.Config `yaml:"logging"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// ServerConfig configures the HTTP server and its database.
type ServerConfig struct {
	Port           int           `yaml:"port"`
	DBPath         string        `yaml:"db_path"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
}

// DefaultsConfig is the parameter set the calculator form starts from.
type DefaultsConfig struct {
	TotalEmployees                 int     `yaml:"total_employees"`
	AverageAnnualSalary            float64 `yaml:"average_annual_salary"`
	CurrentAttritionRatePercent    float64 `yaml:"current_attrition_rate_percent"`
	ReplacementCostMultiplier      float64 `yaml:"replacement_cost_multiplier"`
	ModelAccuracyPercent           float64 `yaml:"model_accuracy_percent"`
	InterventionSuccessRatePercent float64 `yaml:"intervention_success_rate_percent"`
	ImplementationCost             float64 `yaml:"implementation_cost"`
	AnnualMaintenanceCost          float64 `yaml:"annual_maintenance_cost"`
}

// Parameters converts the defaults to engine parameters.
func (d DefaultsConfig) Parameters() roi.Parameters {
	return roi.Parameters{
		TotalEmployees:                 d.TotalEmployees,
		AverageAnnualSalary:            roi.Dec(d.AverageAnnualSalary),
		CurrentAttritionRatePercent:    roi.Dec(d.CurrentAttritionRatePercent),
		ReplacementCostMultiplier:      roi.Dec(d.ReplacementCostMultiplier),
		ModelAccuracyPercent:           roi.Dec(d.ModelAccuracyPercent),
		InterventionSuccessRatePercent: roi.Dec(d.InterventionSuccessRatePercent),
		ImplementationCost:             roi.Dec(d.ImplementationCost),
		AnnualMaintenanceCost:          roi.Dec(d.AnnualMaintenanceCost),
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			DBPath:         "attrition.db",
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			ShutdownGrace:  30 * time.Second,
		},
		Logging: logging.DefaultConfig(),
		Defaults: DefaultsConfig{
			TotalEmployees:                 5000,
			AverageAnnualSalary:            70000,
			CurrentAttritionRatePercent:    15,
			ReplacementCostMultiplier:      1.5,
			ModelAccuracyPercent:           93,
			InterventionSuccessRatePercent: 35,
			ImplementationCost:             150000,
			AnnualMaintenanceCost:          50000,
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment. Variables
// already set are left alone; a missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("ATTRITION_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ATTRITION_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("ATTRITION_DB_PATH"); v != "" {
		c.Server.DBPath = v
	}
	if v := os.Getenv("ATTRITION_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ATTRITION_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("ATTRITION_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	return nil
}

// Validate checks the server settings and the default parameter set.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.DBPath == "" {
		return fmt.Errorf("server.db_path is required")
	}
	if err := c.Defaults.Parameters().Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}

// Addr is the listen address for the configured port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
