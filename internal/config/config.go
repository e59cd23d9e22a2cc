// Package config reads configuration of the mirror service from the
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/tunichain/tunichain-contract/deploy"
)

type Config struct {
	RPC struct {
		Endpoint       string        `envconfig:"TUNICHAIN_RPC_ENDPOINT" default:"http://localhost:30333"`
		DialTimeout    time.Duration `envconfig:"TUNICHAIN_RPC_DIAL_TIMEOUT" default:"5s"`
		RequestTimeout time.Duration `envconfig:"TUNICHAIN_RPC_REQUEST_TIMEOUT" default:"15s"`
	}

	Contracts struct {
		Registry          Hash `envconfig:"TUNICHAIN_REGISTRY" required:"true"`
		InvoiceValidation Hash `envconfig:"TUNICHAIN_INVOICE_VALIDATION" required:"true"`
		PaymentRegistry   Hash `envconfig:"TUNICHAIN_PAYMENT_REGISTRY" required:"true"`
		VATControl        Hash `envconfig:"TUNICHAIN_VAT_CONTROL" required:"true"`
	}

	Listener struct {
		PollInterval time.Duration `envconfig:"TUNICHAIN_POLL_INTERVAL" default:"1s"`
		StartHeight  uint32        `envconfig:"TUNICHAIN_START_HEIGHT" default:"0"`
	}

	DB struct {
		// Empty DSN selects in-memory storage.
		DSN string `envconfig:"TUNICHAIN_DB_DSN"`
	}

	HTTP struct {
		Address string        `envconfig:"TUNICHAIN_HTTP_ADDRESS" default:":8080"`
		Timeout time.Duration `envconfig:"TUNICHAIN_HTTP_TIMEOUT" default:"30s"`
	}

	Log struct {
		Level string `envconfig:"TUNICHAIN_LOG_LEVEL" default:"info"`
	}
}

// Hash is a contract address accepted either as little-endian hex string or
// as Neo address.
type Hash util.Uint160

// Decode implements envconfig.Decoder.
func (h *Hash) Decode(value string) error {
	value = strings.TrimPrefix(value, "0x")

	u, err := util.Uint160DecodeStringLE(value)
	if err != nil {
		u, err = address.StringToUint160(value)
		if err != nil {
			return fmt.Errorf("%q is neither LE hex nor address", value)
		}
	}

	*h = Hash(u)
	return nil
}

// ContractHashes returns configured contract addresses.
func (c *Config) ContractHashes() deploy.Contracts {
	return deploy.Contracts{
		Registry:          util.Uint160(c.Contracts.Registry),
		InvoiceValidation: util.Uint160(c.Contracts.InvoiceValidation),
		PaymentRegistry:   util.Uint160(c.Contracts.PaymentRegistry),
		VATControl:        util.Uint160(c.Contracts.VATControl),
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
