// Package config loads n8nsync settings from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var (
	ErrMissingAPIURL = errors.New("N8N_API_URL is not set")
	ErrMissingAPIKey = errors.New("N8N_API_KEY is not set")
	ErrInvalidConfig = errors.New("invalid configuration")
)

const (
	DefaultEnvFile      = ".env"
	DefaultWorkflowsDir = "workflows"
	DefaultEventBus     = "none"
)

// Config holds every setting a sync run needs.
type Config struct {
	APIURL       string        `mapstructure:"n8n_api_url"   validate:"required,url"`
	APIKey       string        `mapstructure:"n8n_api_key"   validate:"required"`
	WorkflowsDir string        `mapstructure:"workflows_dir" validate:"required"`
	LogLevel     string        `mapstructure:"log_level"     validate:"omitempty,oneof=debug info warn error"`
	LogFormat    string        `mapstructure:"log_format"    validate:"omitempty,oneof=text json"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"  validate:"gte=0"`
	EventBus     string        `mapstructure:"event_bus"     validate:"oneof=none kafka"`
	KafkaBrokers string        `mapstructure:"kafka_brokers" validate:"required_if=EventBus kafka"`
}

// Load reads envFile (when it exists) and the process environment. Variables
// already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("n8n_api_url", "")
	v.SetDefault("n8n_api_key", "")
	v.SetDefault("workflows_dir", DefaultWorkflowsDir)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("http_timeout", "0s")
	v.SetDefault("event_bus", DefaultEventBus)
	v.SetDefault("kafka_brokers", "")

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")

			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	return &cfg, nil
}

// ValidateRemote checks the settings needed to reach n8n. It runs before any
// network call.
func (c *Config) ValidateRemote() error {
	if c.APIURL == "" {
		return ErrMissingAPIURL
	}

	if c.APIKey == "" {
		return ErrMissingAPIKey
	}

	return c.validate()
}

// ValidateLocal checks the settings needed by offline commands.
func (c *Config) ValidateLocal() error {
	if c.WorkflowsDir == "" {
		return fmt.Errorf("%w: WORKFLOWS_DIR is empty", ErrInvalidConfig)
	}

	return nil
}

func (c *Config) validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fieldErr := validationErrors[0]

			return fmt.Errorf("%w: %s failed on %q", ErrInvalidConfig, fieldErr.Field(), fieldErr.Tag())
		}

		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}
