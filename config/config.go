package config

import (
	"fmt"
	"time"

	"github.com/andyle182810/webber/validator"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Application
	AppName   string `env:"WEBBER_APP_NAME"   envDefault:"Webber" validate:"required"`
	LogLevel  string `env:"WEBBER_LOG_LEVEL"  envDefault:"info"   validate:"oneof=trace debug info warn error fatal panic"`
	LogPretty bool   `env:"WEBBER_LOG_PRETTY" envDefault:"false"`

	// HTTP Client
	Timeout   time.Duration `env:"WEBBER_TIMEOUT"    envDefault:"30s"   validate:"gte=0"`
	RequestID bool          `env:"WEBBER_REQUEST_ID" envDefault:"false"`
}

func New() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validator.New().Validate(c)
}
