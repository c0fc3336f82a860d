package config

import (
	"encoding/hex"
	"errors"
	"flag"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const (
	defaultServerAddress      = ":8080"
	defaultDatabaseDSN        = ""
	defaultLogLevel           = "info"
	defaultRazorpayBaseURL    = "https://api.razorpay.com"
	defaultCurrency           = "INR"
	defaultGatewayTimeout     = 10 * time.Second
	defaultAutoSettleInterval = time.Hour
	defaultWebhookRateLimit   = 600
)

// Config is the service configuration
type Config struct {
	ServerAddr  string `env:"RUN_ADDRESS"`
	DatabaseDSN string `env:"DATABASE_URI"`
	LogLevel    string `env:"LOG_LEVEL"`
	// AuthTokenKey is hex encoded
	AuthTokenKey string `env:"AUTH_TOKEN_KEY"`

	RazorpayBaseURL       string        `env:"RAZORPAY_BASE_URL"`
	RazorpayKeyID         string        `env:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret     string        `env:"RAZORPAY_KEY_SECRET"`
	RazorpayWebhookSecret string        `env:"RAZORPAY_WEBHOOK_SECRET"`
	Currency              string        `env:"RAZORPAY_CURRENCY"`
	GatewayTimeout        time.Duration `env:"GATEWAY_TIMEOUT"`

	// AutoSettleInterval of zero disables the auto-settlement worker
	AutoSettleInterval time.Duration `env:"AUTO_SETTLE_INTERVAL"`
	// WebhookRateLimit is requests per minute per client address
	WebhookRateLimit       int    `env:"WEBHOOK_RATE_LIMIT"`
	PaymentLinkCallbackURL string `env:"PAYMENT_LINK_CALLBACK_URL"`
}

var (
	once      sync.Once
	singleton *Config
	initErr   error
)

// New returns new Config. It parses command line, .env file and environment variables only once.
// Environment variables take precedence over the .env file, which takes precedence over flags.
func New() (*Config, error) {
	once.Do(func() {
		// a missing .env file is fine
		_ = godotenv.Load()
		singleton, initErr = parse(os.Args[0], os.Args[1:])
	})

	return singleton, initErr
}

func parse(name string, args []string) (*Config, error) {
	cfg := Config{}

	// initialize flags
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "server address")
	fs.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "database DSN")
	fs.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
	fs.StringVar(&cfg.AuthTokenKey, "k", "", "hex encoded auth token key")
	fs.StringVar(&cfg.RazorpayBaseURL, "g", defaultRazorpayBaseURL, "payment gateway base URL")
	fs.DurationVar(&cfg.AutoSettleInterval, "s", defaultAutoSettleInterval, "auto-settlement interval, 0 disables")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Currency = defaultCurrency
	cfg.GatewayTimeout = defaultGatewayTimeout
	cfg.WebhookRateLimit = defaultWebhookRateLimit

	// if environment variable is set, then using it
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports settings the service cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is required"))
	}
	if key, err := hex.DecodeString(c.AuthTokenKey); err != nil || len(key) == 0 {
		errs = append(errs, errors.New("auth token key must be non-empty hex"))
	}
	if c.RazorpayWebhookSecret == "" {
		errs = append(errs, errors.New("webhook secret is required"))
	}
	if c.GatewayTimeout <= 0 {
		errs = append(errs, errors.New("gateway timeout must be positive"))
	}
	if c.AutoSettleInterval < 0 {
		errs = append(errs, errors.New("auto-settlement interval must not be negative"))
	}
	return errors.Join(errs...)
}
