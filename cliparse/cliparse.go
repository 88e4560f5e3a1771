// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPort          = 3318
	DefaultVerifyURL     = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	DefaultVerifyTimeout = 5 * time.Second
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	PollSlugSalt    string
	TurnstileSecret string
	VerifyURL       string
	VerifyTimeout   time.Duration
	PublicBaseURL   string
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-poll", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.PublicBaseURL, "base-url", "", "Public base URL for share links")

	// Humanity verification
	fs.StringVar(&cfg.VerifyURL, "verify-url", "", "Turnstile siteverify URL")
	fs.DurationVar(&cfg.VerifyTimeout, "verify-timeout", 0, "Timeout for one verification call")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.PollSlugSalt, "slug-salt", "", "Poll slug salt (prefer env)")
	fs.StringVar(&cfg.TurnstileSecret, "turnstile-secret", "", "Turnstile secret key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.VerifyURL == "" {
		cfg.VerifyURL = os.Getenv("TURNSTILE_VERIFY_URL")
		if cfg.VerifyURL == "" {
			cfg.VerifyURL = DefaultVerifyURL
		}
	}

	if cfg.VerifyTimeout == 0 {
		if s := os.Getenv("VERIFY_TIMEOUT"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid VERIFY_TIMEOUT env variable")
			}
			cfg.VerifyTimeout = d
		} else {
			cfg.VerifyTimeout = DefaultVerifyTimeout
		}
	}
	if cfg.VerifyTimeout <= 0 {
		return Config{}, errors.New("verify timeout must be greater than zero")
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = os.Getenv("PUBLIC_BASE_URL")
		if cfg.PublicBaseURL == "" {
			cfg.PublicBaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
		}
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	// Secrets - MUST be provided
	if cfg.PollSlugSalt == "" {
		cfg.PollSlugSalt = os.Getenv("POLL_SLUG_SALT")
	}
	if cfg.PollSlugSalt == "" {
		return Config{}, errors.New("POLL_SLUG_SALT required")
	}

	if cfg.TurnstileSecret == "" {
		cfg.TurnstileSecret = os.Getenv("TURNSTILE_SECRET_KEY")
	}
	if cfg.TurnstileSecret == "" {
		return Config{}, errors.New("TURNSTILE_SECRET_KEY required")
	}

	return cfg, nil
}
