package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/lead-pipeline/internal/entity"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env             string
	Port            string
	LogLevel        string
	CRMBaseURL      string
	CRMAPIToken     string
	CRMTimeout      time.Duration
	AMQPURL         string
	RefreshInterval time.Duration
	AllowedOrigins  []string
	TerminalStages  []entity.Status
}

// Load reads .env when present, then the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Env:         getEnv("ENV", EnvDevelopment),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", ""),
		CRMBaseURL:  os.Getenv("CRM_BASE_URL"),
		CRMAPIToken: os.Getenv("CRM_API_TOKEN"),
		AMQPURL:     os.Getenv("AMQP_URL"),
	}

	var err error
	if cfg.CRMTimeout, err = getDuration("CRM_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getDuration("REFRESH_INTERVAL", 0); err != nil {
		return nil, err
	}

	cfg.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"))

	for _, s := range splitList(os.Getenv("TERMINAL_STAGES")) {
		stage := entity.Status(s)
		if !stage.IsStage() {
			return nil, fmt.Errorf("TERMINAL_STAGES: unknown stage %q", s)
		}
		cfg.TerminalStages = append(cfg.TerminalStages, stage)
	}

	if cfg.CRMBaseURL == "" {
		return nil, errors.New("CRM_BASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
