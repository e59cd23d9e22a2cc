package tests

import (
	"math/big"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	registryPath   = "../contracts/registry"
	invoicePath    = "../contracts/invoice"
	paymentPath    = "../contracts/payment"
	vatControlPath = "../contracts/vatcontrol"
)

// tunichain is a set of deployed contracts with the Tax-Admin account.
type tunichain struct {
	*neotest.Executor

	admin neotest.Signer

	registry   util.Uint160
	invoice    util.Uint160
	payment    util.Uint160
	vatControl util.Uint160
}

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func compileContract(t *testing.T, e *neotest.Executor, srcPath string) *neotest.Contract {
	return neotest.CompileFile(t, e.CommitteeHash, srcPath, path.Join(srcPath, "config.yml"))
}

// newTunichain deploys all contracts in dependency order. If wire is set,
// VATControl is connected to both ledgers.
func newTunichain(t *testing.T, wire bool) *tunichain {
	e := newExecutor(t)
	tc := &tunichain{Executor: e, admin: e.NewAccount(t)}

	c := compileContract(t, e, registryPath)
	e.DeployContract(t, c, []any{tc.admin.ScriptHash()})
	tc.registry = c.Hash

	c = compileContract(t, e, invoicePath)
	e.DeployContract(t, c, []any{tc.registry})
	tc.invoice = c.Hash

	c = compileContract(t, e, paymentPath)
	e.DeployContract(t, c, []any{tc.registry, tc.invoice})
	tc.payment = c.Hash

	c = compileContract(t, e, vatControlPath)
	e.DeployContract(t, c, []any{tc.invoice, tc.payment})
	tc.vatControl = c.Hash

	if wire {
		tc.wire(t)
	}

	return tc
}

func (tc *tunichain) wire(t *testing.T) {
	tc.adminInvoker(tc.invoice).Invoke(t, stackitem.Null{}, "setVATControl", tc.vatControl)
	tc.adminInvoker(tc.payment).Invoke(t, stackitem.Null{}, "setVATControl", tc.vatControl)
}

func (tc *tunichain) adminInvoker(h util.Uint160) *neotest.ContractInvoker {
	return tc.NewInvoker(h, tc.admin)
}

// newSeller creates an account and registers it as a seller.
func (tc *tunichain) newSeller(t *testing.T) neotest.Signer {
	acc := tc.NewAccount(t)
	tc.adminInvoker(tc.registry).Invoke(t, stackitem.Null{}, "addSeller", acc.ScriptHash(), "seller")
	return acc
}

// newBank creates an account and registers it as a bank.
func (tc *tunichain) newBank(t *testing.T) neotest.Signer {
	acc := tc.NewAccount(t)
	tc.adminInvoker(tc.registry).Invoke(t, stackitem.Null{}, "addBank", acc.ScriptHash(), "bank")
	return acc
}

func (tc *tunichain) submitInvoice(t *testing.T, seller neotest.Signer, h util.Uint256, amount, rate int64) util.Uint256 {
	return tc.NewInvoker(tc.invoice, seller).Invoke(t, stackitem.Make(tc.invoiceCount(t)+1),
		"submitInvoice", seller.ScriptHash(), h, amount, rate)
}

func (tc *tunichain) invoiceCount(t *testing.T) int64 {
	return testInvokeInt(t, tc.CommitteeInvoker(tc.invoice), "invoiceCount").Int64()
}

// testInvokeInt runs the method without a transaction and returns its
// integer result.
func testInvokeInt(t *testing.T, inv *neotest.ContractInvoker, method string, args ...any) *big.Int {
	s, err := inv.TestInvoke(t, method, args...)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	return s.Pop().BigInt()
}

// testInvokeItem runs the method without a transaction and returns its
// result.
func testInvokeItem(t *testing.T, inv *neotest.ContractInvoker, method string, args ...any) stackitem.Item {
	s, err := inv.TestInvoke(t, method, args...)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	return s.Pop().Item()
}

// testInvokeHash160 runs the getter without a transaction and decodes the
// returned script hash. Null result is decoded to zero hash.
func testInvokeHash160(t *testing.T, inv *neotest.ContractInvoker, method string, args ...any) util.Uint160 {
	item := testInvokeItem(t, inv, method, args...)
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}
	}

	b, err := item.TryBytes()
	require.NoError(t, err)

	h, err := util.Uint160DecodeBytesBE(b)
	require.NoError(t, err)

	return h
}

// docHash returns 32-byte digest of the document name.
func docHash(name string) util.Uint256 {
	return hash.Sha256([]byte(name))
}

// eventsOf returns notifications of the given contract in the transaction.
func eventsOf(t *testing.T, e *neotest.Executor, txHash util.Uint256, contract util.Uint160) []*stackitem.Array {
	aer := e.CheckHalt(t, txHash)

	var res []*stackitem.Array
	for _, ev := range aer.Events {
		if ev.ScriptHash.Equals(contract) {
			res = append(res, ev.Item)
		}
	}
	return res
}

// eventNames returns names of all notifications in the transaction.
func eventNames(t *testing.T, e *neotest.Executor, txHash util.Uint256) []string {
	aer := e.CheckHalt(t, txHash)

	res := make([]string, 0, len(aer.Events))
	for _, ev := range aer.Events {
		res = append(res, ev.Name)
	}
	return res
}
