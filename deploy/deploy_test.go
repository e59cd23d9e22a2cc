package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
	"github.com/tunichain/tunichain-contract/contracts"
	"github.com/tunichain/tunichain-contract/rpc/invoice"
	"github.com/tunichain/tunichain-contract/rpc/payment"
	"github.com/tunichain/tunichain-contract/rpc/registry"
	"github.com/tunichain/tunichain-contract/rpc/vatcontrol"
	"go.uber.org/zap/zaptest"
)

func TestIsErrContractNotFound(t *testing.T) {
	require.True(t, isErrContractNotFound(errors.New("Unknown contract")))
	require.True(t, isErrContractNotFound(fmt.Errorf("get contract state: %w", errors.New("Invalid params: Unknown contract"))))
	require.False(t, isErrContractNotFound(errors.New("connection refused")))
}

func compileContracts(t *testing.T) contracts.Set {
	compile := func(dir string) contracts.Contract {
		srcPath := path.Join("..", "contracts", dir)
		c := neotest.CompileFile(t, util.Uint160{}, srcPath, path.Join(srcPath, "config.yml"))
		return contracts.Contract{NEF: *c.NEF, Manifest: *c.Manifest}
	}

	return contracts.Set{
		Registry:          compile("registry"),
		InvoiceValidation: compile("invoice"),
		PaymentRegistry:   compile("payment"),
		VATControl:        compile("vatcontrol"),
	}
}

// TestDeploy deploys contracts to the running Neo node, e.g. neo-go privnet.
// It requires TUNICHAIN_TEST_RPC endpoint and TUNICHAIN_TEST_WIF of the funded
// account.
func TestDeploy(t *testing.T) {
	endpoint, wif := os.Getenv("TUNICHAIN_TEST_RPC"), os.Getenv("TUNICHAIN_TEST_WIF")
	if endpoint == "" || wif == "" {
		t.Skip("TUNICHAIN_TEST_RPC and TUNICHAIN_TEST_WIF are not set")
	}

	acc, err := wallet.NewAccountFromWIF(wif)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := rpcclient.New(ctx, endpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	require.NoError(t, err)
	require.NoError(t, c.Init())
	t.Cleanup(c.Close)

	prm := Prm{
		Logger:       zaptest.NewLogger(t),
		Blockchain:   c,
		LocalAccount: acc,
		Contracts:    compileContracts(t),
	}

	res, err := Deploy(ctx, prm)
	require.NoError(t, err)

	inv := invoker.New(c, nil)

	admin, err := registry.NewReader(inv, res.Registry).Admin()
	require.NoError(t, err)
	require.Equal(t, acc.ScriptHash(), admin)

	vat, err := invoice.NewReader(inv, res.InvoiceValidation).VATControl()
	require.NoError(t, err)
	require.Equal(t, res.VATControl, vat)

	vat, err = payment.NewReader(inv, res.PaymentRegistry).VATControl()
	require.NoError(t, err)
	require.Equal(t, res.VATControl, vat)

	ledger, err := vatcontrol.NewReader(inv, res.VATControl).PaymentRegistry()
	require.NoError(t, err)
	require.Equal(t, res.PaymentRegistry, ledger)

	t.Run("repeated", func(t *testing.T) {
		again, err := Deploy(ctx, prm)
		require.NoError(t, err)
		require.Equal(t, res, again)
	})
}
