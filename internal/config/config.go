package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
	Mail          MailConfig    `yaml:"mail"`
	Audit         AuditConfig   `yaml:"audit"`
}

type MailConfig struct {
	ResendAPIKey string `yaml:"resend_api_key"`
	From         string `yaml:"from"`
	ResetBaseURL string `yaml:"reset_base_url"`
}

type AuditConfig struct {
	BufferSize int `yaml:"buffer_size"`
	Workers    int `yaml:"workers"`
}

// insecureJWTSecret is the out-of-the-box secret; Validate refuses it outside development.
const insecureJWTSecret = "supersecretkey"

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 1 * time.Hour

	cfg := &Config{
		Addr:          getEnv("GYM_ADDR", ":8080"),
		JWTSecret:     getEnv("GYM_JWT_SECRET", insecureJWTSecret),
		APITimeout:    apiTimeout,
		DatabasePath:  getEnv("GYM_DATABASE_PATH", "gymtrack.db"),
		TokenDuration: tokenDuration,
		Mail: MailConfig{
			ResendAPIKey: getEnv("GYM_RESEND_API_KEY", ""),
			From:         getEnv("GYM_MAIL_FROM", "GymTrack <no-reply@gymtrack.local>"),
			ResetBaseURL: getEnv("GYM_RESET_BASE_URL", "http://localhost:8080/reset"),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks required fields and fills defaults for optional sections.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.APITimeout <= 0 {
		c.APITimeout = 15 * time.Second
	}
	if c.TokenDuration <= 0 {
		c.TokenDuration = 1 * time.Hour
	}
	if c.JWTSecret == insecureJWTSecret && os.Getenv("GYM_ENV") != "development" {
		return fmt.Errorf("jwt_secret is the insecure default; set GYM_JWT_SECRET or jwt_secret")
	}
	if c.Audit.BufferSize <= 0 {
		c.Audit.BufferSize = 256
	}
	if c.Audit.Workers <= 0 {
		c.Audit.Workers = 2
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
