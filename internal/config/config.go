// Package config decodes service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"carwash_payouts/internal/domain/entities"

	"github.com/joeshaw/envdecode"
	"github.com/shopspring/decimal"
)

const (
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

type Config struct {
	Port           string        `env:"PORT,default=8080"`
	AppEnv         string        `env:"APP_ENV,default=development"`
	LogLevel       string        `env:"LOG_LEVEL,default=info"`
	StoreBackend   string        `env:"STORE_BACKEND,default=dynamodb"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=5s"`

	Redis  RedisConfig
	Payout PayoutConfig
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,default=0"`
}

type PayoutConfig struct {
	// AdminUserIDs is a comma separated list of users allowed every admin action.
	AdminUserIDs         string `env:"ADMIN_USER_IDS"`
	EnforceCeiling       bool   `env:"PAYOUT_ENFORCE_CEILING,default=true"`
	MinAmount            string `env:"PAYOUT_MIN_AMOUNT,default=0"`
	MercadoPagoToken     string `env:"MERCADOPAGO_ACCESS_TOKEN"`
	GatewayMock          bool   `env:"PAYMENT_GATEWAY_MOCK,default=false"`
	RequestRatePerMinute int    `env:"PAYMENT_REQUEST_RATE_PER_MINUTE,default=6"`
}

// Load reads the environment. A .env file, if any, is loaded by the binary
// before this is called.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case StoreDynamoDB, StoreMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreDynamoDB, StoreMemory, c.StoreBackend)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if _, err := c.Payout.MinPayout(); err != nil {
		return err
	}
	if c.Payout.RequestRatePerMinute < 0 {
		return fmt.Errorf("PAYMENT_REQUEST_RATE_PER_MINUTE must not be negative")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Admins splits AdminUserIDs, dropping empty entries.
func (p PayoutConfig) Admins() []string {
	var out []string
	for _, id := range strings.Split(p.AdminUserIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (p PayoutConfig) MinPayout() (decimal.Decimal, error) {
	d, err := entities.ParseMoney(p.MinAmount)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("PAYOUT_MIN_AMOUNT must be a non-negative amount with at most 2 decimals, got %q", p.MinAmount)
	}
	return d, nil
}
