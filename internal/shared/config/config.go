package config

import "github.com/caarlos0/env/v11"

// Config holds application configuration
type Config struct {
	Version     string `env:"VERSION" envDefault:"0.1.0"`
	Port        int    `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN   string `env:"SENTRY_DSN"`
	// APIBaseURL is the root of the remote sweet shop API, including the
	// /api prefix. All catalog and auth calls are made relative to it.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"https://sweet-shop-management-system-backend-oimn.onrender.com/api"`
	// DataDir holds the persisted session files (authToken, user).
	DataDir string `env:"DATA_DIR" envDefault:".sweetconsole"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsEnvProd() bool {
	if c.Environment == "prod" && c.SentryDSN != "" {
		return true
	}
	return false
}
