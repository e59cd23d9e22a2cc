package payment

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/tunichain/tunichain-contract/common"
)

type (
	// Payment is an immutable ledger record of the bank's payment
	// confirmation.
	Payment struct {
		ID          int
		Bank        interop.Hash160
		InvoiceID   int
		PaymentHash interop.Hash256
		AmountPaid  int
		Timestamp   int
	}

	// invoice mirrors record returned by InvoiceValidation contract.
	invoice struct {
		ID              int
		Seller          interop.Hash160
		Hash            interop.Hash256
		Amount          int
		VATRatePermille int
		VATAmount       int
		Timestamp       int
	}
)

const (
	registryKey   = 'r'
	invoicesKey   = 'n'
	vatControlKey = 'v'
	counterKey    = 'c'
	paymentPrefix = 'p'
	hashPrefix    = 'h'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	args := data.([]any)

	if isUpdate {
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	registry := args[0].(interop.Hash160)
	invoices := args[1].(interop.Hash160)
	common.CheckHash160(registry)
	common.CheckHash160(invoices)

	storage.Put(ctx, []byte{registryKey}, registry)
	storage.Put(ctx, []byte{invoicesKey}, invoices)

	runtime.Log("payment registry contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("payment registry contract updated")
}

// StorePayment stores payment confirmation of the bank for the invoice with
// the given digest and returns payment ledger identifier. The bank must be
// registered in the Registry contract and must sign the transaction. The
// invoice must exist in InvoiceValidation contract, it is checked before
// payment digest uniqueness.
//
// When VATControl contract is set, the payment is reported to it with the
// VAT share of the paid amount: amountPaid*rate/(1000+rate) rounded down,
// where rate is the invoice VAT rate in permille.
//
// Produces PaymentStored notification.
func StorePayment(bank interop.Hash160, paymentHash, invoiceHash interop.Hash256, amountPaid int) int {
	ctx := storage.GetContext()

	common.CheckHash160(bank)

	registry := storage.Get(ctx, []byte{registryKey}).(interop.Hash160)
	if !contract.Call(registry, "isBank", contract.ReadOnly, bank).(bool) {
		panic(common.ErrNotBank)
	}

	common.CheckWitness(bank)
	common.CheckHash256(paymentHash)
	common.CheckHash256(invoiceHash)

	if amountPaid < 0 {
		panic(common.ErrInvalidAmount)
	}

	invoices := storage.Get(ctx, []byte{invoicesKey}).(interop.Hash160)
	invoiceID := contract.Call(invoices, "getInvoiceIdByHash", contract.ReadOnly, invoiceHash).(int)
	if invoiceID == 0 {
		panic(common.ErrInvoiceUnknown)
	}

	hKey := hashKey(paymentHash)
	if storage.Get(ctx, hKey) != nil {
		panic(common.ErrPaymentExists)
	}

	id := common.NextID(ctx, []byte{counterKey})
	common.SetSerialized(ctx, idKey(id), Payment{
		ID:          id,
		Bank:        bank,
		InvoiceID:   invoiceID,
		PaymentHash: paymentHash,
		AmountPaid:  amountPaid,
		Timestamp:   runtime.GetTime(),
	})
	storage.Put(ctx, hKey, id)

	runtime.Notify("PaymentStored", id, bank, invoiceID, paymentHash, amountPaid)

	vat := common.GetHash160(ctx, []byte{vatControlKey})
	if vat != nil {
		inv := contract.Call(invoices, "getInvoice", contract.ReadOnly, invoiceID).(invoice)
		rate := inv.VATRatePermille
		contract.Call(vat, "recordPayment", contract.All,
			inv.Seller, id, invoiceID, amountPaid, rate, amountPaid*rate/(1000+rate))
	}

	return id
}

// PaymentHashToId returns ledger identifier of the payment with the given
// digest or 0 if there is no such payment.
func PaymentHashToId(hash interop.Hash256) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, hashKey(hash))
}

// GetPayment returns payment by its ledger identifier.
func GetPayment(id int) Payment {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, idKey(id))
	if data == nil {
		panic(common.ErrPaymentUnknown)
	}

	return std.Deserialize(data.([]byte)).(Payment)
}

// PaymentCount returns the number of stored payments.
func PaymentCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, []byte{counterKey})
}

// SetVATControl sets VATControl contract which receives every new payment.
// It can be invoked only by the Tax-Admin of the Registry contract.
//
// Produces VATControlSet notification.
func SetVATControl(addr interop.Hash160) {
	ctx := storage.GetContext()

	common.CheckAdmin(storage.Get(ctx, []byte{registryKey}).(interop.Hash160))
	common.CheckHash160(addr)

	storage.Put(ctx, []byte{vatControlKey}, addr)

	runtime.Notify("VATControlSet", addr)
}

// Registry returns script hash of the Registry contract.
func Registry() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.GetHash160(ctx, []byte{registryKey})
}

// InvoiceValidation returns script hash of the InvoiceValidation contract.
func InvoiceValidation() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.GetHash160(ctx, []byte{invoicesKey})
}

// VatControl returns script hash of the wired VATControl contract or nil.
func VatControl() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.GetHash160(ctx, []byte{vatControlKey})
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func idKey(id int) []byte {
	return append([]byte{paymentPrefix}, []byte(std.Itoa10(id))...)
}

func hashKey(hash interop.Hash256) []byte {
	return append([]byte{hashPrefix}, hash...)
}
