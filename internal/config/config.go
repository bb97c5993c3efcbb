// Package config loads application configuration from environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const visitorKeyBytes = 32

// Config holds the application configuration loaded from environment variables.
// Defaults come from the default tags; the env tags name the variable that
// sets each field and are used in validation messages.
type Config struct {
	ListenAddr      string        `env:"FORMPANEL_LISTEN_ADDR" default:"127.0.0.1:8080" validate:"required,listen_addr"`
	DBPath          string        `env:"FORMPANEL_DB_PATH" default:"formpanel.db" validate:"required"`
	SecretKey       []byte        `env:"FORMPANEL_SECRET_KEY" validate:"omitempty,len=32"`
	VisitorKey      []byte        `env:"FORMPANEL_VISITOR_KEY" validate:"min=32"`
	LogSecrets      bool          `env:"FORMPANEL_LOG_SECRETS" default:"false"`
	LogLevel        string        `env:"FORMPANEL_LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	CaptureRate     float64       `env:"FORMPANEL_CAPTURE_RATE" default:"5" validate:"gt=0"`
	CaptureBurst    int           `env:"FORMPANEL_CAPTURE_BURST" default:"10" validate:"min=1"`
	VisitorCapacity int           `env:"FORMPANEL_VISITOR_CAPACITY" default:"10000" validate:"min=1"`
	Retention       time.Duration `env:"FORMPANEL_RETENTION" default:"720h" validate:"gte=0"`

	// VisitorKeyGenerated is true when no FORMPANEL_VISITOR_KEY was provided and
	// a random per-process key is in use; visitor cookies do not survive restarts.
	VisitorKeyGenerated bool `env:"-"`
}

// HasSecretKey returns true when an AES-256 key for stored secrets is configured.
func (c *Config) HasSecretKey() bool {
	return len(c.SecretKey) > 0
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads an optional .env file from the working directory, then
// configuration from environment variables, and returns a validated Config.
// Variables already present in the environment take precedence over .env.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit .env path. A missing file is not an error.
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	if v, ok := os.LookupEnv("FORMPANEL_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("FORMPANEL_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("FORMPANEL_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv("FORMPANEL_SECRET_KEY"); v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("FORMPANEL_SECRET_KEY is not valid hex: %w", err)
		}
		cfg.SecretKey = key
	}

	if v := os.Getenv("FORMPANEL_VISITOR_KEY"); v != "" {
		cfg.VisitorKey = []byte(v)
	} else {
		cfg.VisitorKey = make([]byte, visitorKeyBytes)
		if _, err := rand.Read(cfg.VisitorKey); err != nil {
			return nil, fmt.Errorf("generate visitor key: %w", err)
		}
		cfg.VisitorKeyGenerated = true
	}

	if v, ok := os.LookupEnv("FORMPANEL_LOG_SECRETS"); ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("FORMPANEL_LOG_SECRETS has invalid boolean %q: %w", v, err)
		}
		cfg.LogSecrets = parsed
	}

	if v, ok := os.LookupEnv("FORMPANEL_CAPTURE_RATE"); ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("FORMPANEL_CAPTURE_RATE has invalid number %q: %w", v, err)
		}
		cfg.CaptureRate = parsed
	}

	if v, ok := os.LookupEnv("FORMPANEL_CAPTURE_BURST"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("FORMPANEL_CAPTURE_BURST has invalid integer %q: %w", v, err)
		}
		cfg.CaptureBurst = parsed
	}

	if v, ok := os.LookupEnv("FORMPANEL_VISITOR_CAPACITY"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("FORMPANEL_VISITOR_CAPACITY has invalid integer %q: %w", v, err)
		}
		cfg.VisitorCapacity = parsed
	}

	if v, ok := os.LookupEnv("FORMPANEL_RETENTION"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("FORMPANEL_RETENTION has invalid duration %q: %w", v, err)
		}
		cfg.Retention = parsed
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cfg against its validate tags. Messages name the
// environment variable rather than the struct field.
func validate(cfg *Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("env")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("listen_addr", validListenAddr); err != nil {
		return fmt.Errorf("register listen_addr validator: %w", err)
	}

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "len":
			msgs = append(msgs, fmt.Sprintf("%s must decode to %s bytes", fe.Field(), fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "listen_addr":
			msgs = append(msgs, fmt.Sprintf("%s must be host:port, e.g. 127.0.0.1:8080 or [::1]:8080", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// validListenAddr accepts anything net.Listen("tcp", ...) would: an optional
// host (IPv6 in brackets) and a numeric port.
func validListenAddr(fl validator.FieldLevel) bool {
	_, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil {
		return false
	}
	_, err = strconv.ParseUint(port, 10, 16)
	return err == nil
}
