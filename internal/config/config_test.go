package config

import (
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func setContracts(t *testing.T) []util.Uint160 {
	hs := []util.Uint160{{1}, {2}, {3}, {4}}
	t.Setenv("TUNICHAIN_REGISTRY", hs[0].StringLE())
	t.Setenv("TUNICHAIN_INVOICE_VALIDATION", "0x"+hs[1].StringLE())
	t.Setenv("TUNICHAIN_PAYMENT_REGISTRY", address.Uint160ToString(hs[2]))
	t.Setenv("TUNICHAIN_VAT_CONTROL", hs[3].StringLE())
	return hs
}

func TestLoad(t *testing.T) {
	hs := setContracts(t)

	cfg, err := Load()
	require.NoError(t, err)

	c := cfg.ContractHashes()
	require.Equal(t, hs[0], c.Registry)
	require.Equal(t, hs[1], c.InvoiceValidation)
	require.Equal(t, hs[2], c.PaymentRegistry)
	require.Equal(t, hs[3], c.VATControl)

	require.Equal(t, "http://localhost:30333", cfg.RPC.Endpoint)
	require.Equal(t, time.Second, cfg.Listener.PollInterval)
	require.Empty(t, cfg.DB.DSN)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	setContracts(t)
	t.Setenv("TUNICHAIN_POLL_INTERVAL", "250ms")
	t.Setenv("TUNICHAIN_START_HEIGHT", "100")
	t.Setenv("TUNICHAIN_DB_DSN", "postgres://localhost/tunichain")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, cfg.Listener.PollInterval)
	require.EqualValues(t, 100, cfg.Listener.StartHeight)
	require.Equal(t, "postgres://localhost/tunichain", cfg.DB.DSN)
}

func TestLoadInvalid(t *testing.T) {
	t.Run("missing contract", func(t *testing.T) {
		setContracts(t)
		t.Setenv("TUNICHAIN_VAT_CONTROL", "")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("invalid hash", func(t *testing.T) {
		setContracts(t)
		t.Setenv("TUNICHAIN_REGISTRY", "not a hash")

		_, err := Load()
		require.Error(t, err)
	})
}
