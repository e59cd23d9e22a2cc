package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"github.com/tunichain/tunichain-contract/common"
	"github.com/tunichain/tunichain-contract/rpc/invoice"
	"github.com/tunichain/tunichain-contract/rpc/payment"
)

func fillHash(b byte) util.Uint256 {
	var h util.Uint256
	for i := range h {
		h[i] = b
	}
	return h
}

func TestScenario(t *testing.T) {
	tc := newTunichain(t, true)
	seller := tc.newSeller(t)
	bank := tc.newBank(t)
	vat := tc.CommitteeInvoker(tc.vatControl)

	invHash := fillHash(0xAB)
	payHash := fillHash(0xCD)

	t.Run("invoice", func(t *testing.T) {
		txHash := tc.submitInvoice(t, seller, invHash, 1_000_000, 190)

		evs := eventsOf(t, tc.Executor, txHash, tc.invoice)
		require.Len(t, evs, 1)

		var ev invoice.InvoiceStoredEvent
		require.NoError(t, ev.FromStackItem(evs[0]))
		require.Equal(t, int64(1), ev.InvoiceID.Int64())
		require.Equal(t, seller.ScriptHash(), ev.Seller)
		require.Equal(t, invHash, ev.InvoiceHash)
		require.Equal(t, int64(1_000_000), ev.Amount.Int64())
		require.Equal(t, int64(190), ev.VATRatePermille.Int64())
		require.Equal(t, int64(190_000), ev.VATAmount.Int64())

		require.Equal(t, int64(1_000_000), testInvokeInt(t, vat, "totalTaxBase", seller.ScriptHash()).Int64())
	})

	t.Run("payment", func(t *testing.T) {
		txHash := tc.storePayment(t, bank, payHash, invHash, 1_190_000)

		evs := eventsOf(t, tc.Executor, txHash, tc.payment)
		require.Len(t, evs, 1)

		var ev payment.PaymentStoredEvent
		require.NoError(t, ev.FromStackItem(evs[0]))
		require.Equal(t, int64(1), ev.PaymentID.Int64())
		require.Equal(t, bank.ScriptHash(), ev.Bank)
		require.Equal(t, int64(1), ev.InvoiceID.Int64())
		require.Equal(t, payHash, ev.PaymentHash)
		require.Equal(t, int64(1_190_000), ev.AmountPaid.Int64())

		require.Equal(t, int64(190_000), testInvokeInt(t, vat, "totalVATPaid", seller.ScriptHash()).Int64())
	})

	t.Run("payment replay", func(t *testing.T) {
		other := fillHash(0xBC)
		tc.submitInvoice(t, seller, other, 10, 190)

		tc.NewInvoker(tc.payment, bank).InvokeFail(t, common.ErrPaymentExists,
			"storePayment", bank.ScriptHash(), payHash, other, 1_190_000)

		pay := tc.CommitteeInvoker(tc.payment)
		require.Equal(t, int64(1), testInvokeInt(t, pay, "paymentCount").Int64())
		require.Equal(t, int64(1), testInvokeInt(t, pay, "paymentHashToId", payHash).Int64())
		require.Equal(t, int64(190_000), testInvokeInt(t, vat, "totalVATPaid", seller.ScriptHash()).Int64())
	})

	t.Run("unauthorized submitter", func(t *testing.T) {
		u := tc.NewAccount(t)
		before := tc.invoiceCount(t)
		h := fillHash(0x11)

		tc.NewInvoker(tc.invoice, u).InvokeFail(t, common.ErrNotSeller,
			"submitInvoice", u.ScriptHash(), h, 1_000_000, 190)

		require.Equal(t, before, tc.invoiceCount(t))
		require.Zero(t, testInvokeInt(t, tc.CommitteeInvoker(tc.invoice), "getInvoiceIdByHash", h).Sign())
		require.Zero(t, testInvokeInt(t, vat, "totalTaxBase", u.ScriptHash()).Sign())
	})

	t.Run("zero amount", func(t *testing.T) {
		h := fillHash(0xEE)
		before := testInvokeInt(t, vat, "totalTaxBase", seller.ScriptHash()).Int64()

		txHash := tc.submitInvoice(t, seller, h, 0, 190)

		evs := eventsOf(t, tc.Executor, txHash, tc.invoice)
		require.Len(t, evs, 1)

		var ev invoice.InvoiceStoredEvent
		require.NoError(t, ev.FromStackItem(evs[0]))
		require.Zero(t, ev.VATAmount.Sign())
		require.Equal(t, before, testInvokeInt(t, vat, "totalTaxBase", seller.ScriptHash()).Int64())
	})
}
