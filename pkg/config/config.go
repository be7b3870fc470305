package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type AppConfig struct {
	ServiceName string
	Environment string

	Host string
	Port string

	DatabaseDriver string
	DatabasePath   string
	DatabaseURL    string
	SQLLogEnabled  bool

	BcryptCost int

	LogLevel string

	MetricsPort  string
	OTLPEndpoint string

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		ServiceName:    "userapp",
		Environment:    EnvDevelopment,
		Host:           "0.0.0.0",
		Port:           "5000",
		DatabaseDriver: "sqlite",
		DatabasePath:   "users.db",
		BcryptCost:     bcrypt.DefaultCost,
		LogLevel:       "info",
		MetricsPort:    "9091",

		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /login": {
				Requests: 20,
				Window:   time.Minute,
			},
			"POST /users": {
				Requests: 30,
				Window:   time.Minute,
			},
			"default": {
				Requests: 600,
				Window:   time.Minute,
			},
		},
	}
}

// LoadConfig layers environment variables and then command-line flags over
// the defaults, and validates the result.
func LoadConfig(args []string) (*AppConfig, error) {
	return loadConfig(args, os.LookupEnv)
}

func loadConfig(args []string, lookup func(string) (string, bool)) (*AppConfig, error) {
	cfg := GetDefaultConfig()

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.applyFlags(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dest *string) {
		if v, ok := lookup(key); ok {
			*dest = strings.TrimSpace(v)
		}
	}

	str("SERVICE_NAME", &c.ServiceName)
	str("HOST", &c.Host)
	str("PORT", &c.Port)
	str("DATABASE_DRIVER", &c.DatabaseDriver)
	str("DATABASE_PATH", &c.DatabasePath)
	str("DATABASE_URL", &c.DatabaseURL)
	str("LOG_LEVEL", &c.LogLevel)
	str("METRICS_PORT", &c.MetricsPort)
	str("OTLP_ENDPOINT", &c.OTLPEndpoint)

	if v, ok := lookup("GIN_MODE"); ok && v == "release" {
		c.Environment = EnvProduction
	}

	str("APP_ENV", &c.Environment)

	if v, ok := lookup("BCRYPT_COST"); ok && v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		c.BcryptCost = cost
	}

	for key, dest := range map[string]*bool{
		"SQL_LOG":            &c.SQLLogEnabled,
		"RATE_LIMIT_ENABLED": &c.RateLimitEnabled,
	} {
		if v, ok := lookup(key); ok && v != "" {
			enabled, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dest = enabled
		}
	}

	return nil
}

func (c *AppConfig) applyFlags(args []string) error {
	fs := flag.NewFlagSet(c.ServiceName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&c.Host, "host", c.Host, "listen host")
	fs.StringVar(&c.Port, "port", c.Port, "listen port")
	fs.StringVar(&c.DatabaseDriver, "db-driver", c.DatabaseDriver, "database driver (sqlite or postgres)")
	fs.StringVar(&c.DatabasePath, "db", c.DatabasePath, "sqlite database file")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")

	return fs.Parse(args)
}

func (c *AppConfig) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("database path is required for sqlite"))
		}
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DatabaseDriver))
	}

	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		errs = append(errs, fmt.Errorf("invalid port %q", c.Port))
	}

	if c.MetricsPort != "" {
		if _, err := strconv.ParseUint(c.MetricsPort, 10, 16); err != nil {
			errs = append(errs, fmt.Errorf("invalid metrics port %q", c.MetricsPort))
		}
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}

	return errors.Join(errs...)
}

func (c *AppConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}
