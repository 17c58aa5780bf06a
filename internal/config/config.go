package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"

	"github.com/medlink/portal-server-go/internal/util"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port          int    `env:"PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`
	SessionSecret string `env:"SESSION_SECRET"`
	PortalBaseURL string `env:"PORTAL_BASE_URL" envDefault:"http://localhost:8080"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPAccount  string `env:"SMTP_ACCOUNT"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"no-reply@medlink.local"`

	// Argon2 work factors are deployment parameters, not fixed constants.
	Argon2MemoryKiB   int `env:"ARGON2_MEMORY_KIB" envDefault:"65536"`
	Argon2Iterations  int `env:"ARGON2_ITERATIONS" envDefault:"3"`
	Argon2Parallelism int `env:"ARGON2_PARALLELISM" envDefault:"2"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Argon2Params() util.Argon2Params {
	p := util.DefaultArgon2Params()
	if c.Argon2MemoryKiB > 0 {
		p.Memory = uint32(c.Argon2MemoryKiB)
	}
	if c.Argon2Iterations > 0 {
		p.Iterations = uint32(c.Argon2Iterations)
	}
	if c.Argon2Parallelism > 0 && c.Argon2Parallelism < 256 {
		p.Parallelism = uint8(c.Argon2Parallelism)
	}
	return p
}

func (c *Config) Validate(isProduction bool) error {
	if isProduction {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}
		if c.SMTPHost == "" {
			log.Warn().Msg("SMTP_HOST is empty in production: password reset emails will only be logged")
		}
	} else if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET must be set")
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
