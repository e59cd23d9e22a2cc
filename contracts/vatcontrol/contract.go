package vatcontrol

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/tunichain/tunichain-contract/common"
)

// Totals is a VAT accumulator of the seller. All fields only grow.
type Totals struct {
	TaxBase int
	VATDue  int
	VATPaid int
}

const (
	invoicesKey  = 'i'
	paymentsKey  = 'p'
	totalsPrefix = 't'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	args := data.([]any)

	if isUpdate {
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	invoices := args[0].(interop.Hash160)
	payments := args[1].(interop.Hash160)
	common.CheckHash160(invoices)
	common.CheckHash160(payments)

	storage.Put(ctx, []byte{invoicesKey}, invoices)
	storage.Put(ctx, []byte{paymentsKey}, payments)

	runtime.Log("vat control contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("vat control contract updated")
}

// RecordInvoice adds invoice amounts to the seller totals. It can be invoked
// only by InvoiceValidation contract.
//
// Produces VATRecorded notification.
func RecordInvoice(seller interop.Hash160, invoiceID, taxableAmount, vatRatePermille, vatAmount int) {
	ctx := storage.GetContext()

	checkCaller(ctx, invoicesKey)

	t := getTotals(ctx, seller)
	t.TaxBase += taxableAmount
	t.VATDue += vatAmount
	common.SetSerialized(ctx, totalsKey(seller), t)

	runtime.Notify("VATRecorded", seller, invoiceID, taxableAmount, vatRatePermille, vatAmount,
		t.TaxBase, runtime.GetTime())
}

// RecordPayment adds VAT share of the payment to the seller totals. It can be
// invoked only by PaymentRegistry contract.
//
// Produces VATPaymentRecorded notification.
func RecordPayment(seller interop.Hash160, paymentID, invoiceID, amountPaid, vatRatePermille, vatAmount int) {
	ctx := storage.GetContext()

	checkCaller(ctx, paymentsKey)

	t := getTotals(ctx, seller)
	t.VATPaid += vatAmount
	common.SetSerialized(ctx, totalsKey(seller), t)

	runtime.Notify("VATPaymentRecorded", seller, paymentID, invoiceID, amountPaid, vatRatePermille, vatAmount,
		t.VATPaid, runtime.GetTime())
}

// TotalTaxBase returns the sum of taxable amounts of the seller invoices.
func TotalTaxBase(seller interop.Hash160) int {
	return getTotals(storage.GetReadOnlyContext(), seller).TaxBase
}

// TotalVATDue returns the sum of VAT amounts of the seller invoices.
func TotalVATDue(seller interop.Hash160) int {
	return getTotals(storage.GetReadOnlyContext(), seller).VATDue
}

// TotalVATPaid returns the sum of VAT shares of payments for the seller
// invoices.
func TotalVATPaid(seller interop.Hash160) int {
	return getTotals(storage.GetReadOnlyContext(), seller).VATPaid
}

// SellerTotals returns all accumulators of the seller. Unknown sellers have
// zero totals.
func SellerTotals(seller interop.Hash160) Totals {
	return getTotals(storage.GetReadOnlyContext(), seller)
}

// InvoiceValidation returns script hash of the InvoiceValidation contract
// allowed to record invoices.
func InvoiceValidation() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.GetHash160(ctx, []byte{invoicesKey})
}

// PaymentRegistry returns script hash of the PaymentRegistry contract allowed
// to record payments.
func PaymentRegistry() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.GetHash160(ctx, []byte{paymentsKey})
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkCaller(ctx storage.Context, key byte) {
	allowed := storage.Get(ctx, []byte{key}).(interop.Hash160)
	if !runtime.GetCallingScriptHash().Equals(allowed) {
		panic(common.ErrNotWiredLedger)
	}
}

func getTotals(ctx storage.Context, seller interop.Hash160) Totals {
	data := storage.Get(ctx, totalsKey(seller))
	if data == nil {
		return Totals{}
	}

	return std.Deserialize(data.([]byte)).(Totals)
}

func totalsKey(seller interop.Hash160) []byte {
	return append([]byte{totalsPrefix}, seller...)
}
