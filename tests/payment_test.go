package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/tunichain/tunichain-contract/common"
	"github.com/tunichain/tunichain-contract/rpc/payment"
)

func (tc *tunichain) storePayment(t *testing.T, bank neotest.Signer, payHash, invHash util.Uint256, amount int64) util.Uint256 {
	next := testInvokeInt(t, tc.CommitteeInvoker(tc.payment), "paymentCount").Int64() + 1
	return tc.NewInvoker(tc.payment, bank).Invoke(t, next,
		"storePayment", bank.ScriptHash(), payHash, invHash, amount)
}

func TestPayment_Store(t *testing.T) {
	tc := newTunichain(t, false)
	seller := tc.newSeller(t)
	bank := tc.newBank(t)
	invHash, payHash := docHash("invoice"), docHash("payment")

	tc.submitInvoice(t, seller, invHash, 1_000_000, 190)
	txHash := tc.storePayment(t, bank, payHash, invHash, 1_190_000)

	require.Equal(t, []string{"PaymentStored"}, eventNames(t, tc.Executor, txHash))

	evs := eventsOf(t, tc.Executor, txHash, tc.payment)
	require.Len(t, evs, 1)

	var ev payment.PaymentStoredEvent
	require.NoError(t, ev.FromStackItem(evs[0]))
	require.Equal(t, int64(1), ev.PaymentID.Int64())
	require.Equal(t, bank.ScriptHash(), ev.Bank)
	require.Equal(t, int64(1), ev.InvoiceID.Int64())
	require.Equal(t, payHash, ev.PaymentHash)
	require.Equal(t, int64(1_190_000), ev.AmountPaid.Int64())

	inv := tc.CommitteeInvoker(tc.payment)
	require.Equal(t, int64(1), testInvokeInt(t, inv, "paymentHashToId", payHash).Int64())
	require.Equal(t, int64(0), testInvokeInt(t, inv, "paymentHashToId", invHash).Int64())

	var rec payment.Payment
	require.NoError(t, rec.FromStackItem(testInvokeItem(t, inv, "getPayment", 1)))
	require.Equal(t, int64(1), rec.ID.Int64())
	require.Equal(t, bank.ScriptHash(), rec.Bank)
	require.Equal(t, int64(1), rec.InvoiceID.Int64())
	require.Equal(t, payHash, rec.PaymentHash)
	require.Equal(t, int64(1_190_000), rec.AmountPaid.Int64())

	inv.InvokeFail(t, common.ErrPaymentUnknown, "getPayment", 2)

	require.Equal(t, tc.registry, testInvokeHash160(t, inv, "registry"))
	require.Equal(t, tc.invoice, testInvokeHash160(t, inv, "invoiceValidation"))
	require.Equal(t, util.Uint160{}, testInvokeHash160(t, inv, "vatControl"))

	t.Run("partial payments", func(t *testing.T) {
		tc.storePayment(t, bank, docHash("payment-2"), invHash, 10)
		tc.storePayment(t, tc.newBank(t), docHash("payment-3"), invHash, 0)
		require.Equal(t, int64(3), testInvokeInt(t, inv, "paymentCount").Int64())
	})
}

func TestPayment_StoreFail(t *testing.T) {
	tc := newTunichain(t, false)
	seller := tc.newSeller(t)
	bank := tc.newBank(t)
	invHash, payHash := docHash("invoice"), docHash("payment")

	tc.submitInvoice(t, seller, invHash, 1_000_000, 190)

	t.Run("not a bank", func(t *testing.T) {
		tc.NewInvoker(tc.payment, seller).InvokeFail(t, common.ErrNotBank,
			"storePayment", seller.ScriptHash(), payHash, invHash, 100)
	})

	t.Run("foreign bank", func(t *testing.T) {
		u := tc.NewAccount(t)
		tc.NewInvoker(tc.payment, u).InvokeFail(t, common.ErrWitnessFailed,
			"storePayment", bank.ScriptHash(), payHash, invHash, 100)
	})

	inv := tc.NewInvoker(tc.payment, bank)

	t.Run("invalid hash", func(t *testing.T) {
		inv.InvokeFail(t, common.ErrInvalidHash, "storePayment", bank.ScriptHash(), []byte{1}, invHash, 100)
		inv.InvokeFail(t, common.ErrInvalidHash, "storePayment", bank.ScriptHash(), payHash, []byte{1}, 100)
	})

	t.Run("negative amount", func(t *testing.T) {
		inv.InvokeFail(t, common.ErrInvalidAmount, "storePayment", bank.ScriptHash(), payHash, invHash, -1)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		inv.InvokeFail(t, common.ErrInvoiceUnknown, "storePayment", bank.ScriptHash(), payHash, docHash("unknown"), 100)
	})

	tc.storePayment(t, bank, payHash, invHash, 100)

	t.Run("duplicate", func(t *testing.T) {
		inv.InvokeFail(t, common.ErrPaymentExists, "storePayment", bank.ScriptHash(), payHash, invHash, 100)
	})

	t.Run("duplicate with unknown invoice", func(t *testing.T) {
		inv.InvokeFail(t, common.ErrInvoiceUnknown, "storePayment", bank.ScriptHash(), payHash, docHash("unknown"), 100)
	})

	require.Equal(t, int64(1), testInvokeInt(t, tc.CommitteeInvoker(tc.payment), "paymentCount").Int64())
}

func TestPayment_SetVATControl(t *testing.T) {
	tc := newTunichain(t, false)
	inv := tc.CommitteeInvoker(tc.payment)

	inv.InvokeFail(t, common.ErrOnlyAdmin, "setVATControl", tc.vatControl)

	tc.adminInvoker(tc.payment).Invoke(t, stackitem.Null{}, "setVATControl", tc.vatControl)
	require.Equal(t, tc.vatControl, testInvokeHash160(t, inv, "vatControl"))
}
