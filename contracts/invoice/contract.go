package invoice

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/tunichain/tunichain-contract/common"
)

// Invoice is an immutable ledger record of the seller's invoice.
type Invoice struct {
	ID              int
	Seller          interop.Hash160
	Hash            interop.Hash256
	Amount          int
	VATRatePermille int
	VATAmount       int
	Timestamp       int
}

const (
	registryKey   = 'r'
	vatControlKey = 'v'
	counterKey    = 'c'
	invoicePrefix = 'i'
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
	common.CheckHash160(registry)

	storage.Put(ctx, []byte{registryKey}, registry)

	runtime.Log("invoice validation contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("invoice validation contract updated")
}

// SubmitInvoice stores invoice of the seller and returns its ledger
// identifier. The seller must be registered in the Registry contract and must
// sign the transaction. Invoice hash must be a 32-byte digest not seen before,
// amount and VAT rate (in permille) must be non-negative.
//
// VAT amount is computed as amount*vatRatePermille/1000 rounded down. When
// VATControl contract is set, the invoice is reported to it in the same
// transaction.
//
// Produces InvoiceStored notification.
func SubmitInvoice(seller interop.Hash160, hash interop.Hash256, amount, vatRatePermille int) int {
	ctx := storage.GetContext()

	common.CheckHash160(seller)

	registry := storage.Get(ctx, []byte{registryKey}).(interop.Hash160)
	if !contract.Call(registry, "isSeller", contract.ReadOnly, seller).(bool) {
		panic(common.ErrNotSeller)
	}

	common.CheckWitness(seller)
	common.CheckHash256(hash)

	if amount < 0 {
		panic(common.ErrInvalidAmount)
	}
	if vatRatePermille < 0 {
		panic(common.ErrInvalidVATRate)
	}

	hKey := hashKey(hash)
	if storage.Get(ctx, hKey) != nil {
		panic(common.ErrInvoiceExists)
	}

	id := common.NextID(ctx, []byte{counterKey})
	inv := Invoice{
		ID:              id,
		Seller:          seller,
		Hash:            hash,
		Amount:          amount,
		VATRatePermille: vatRatePermille,
		VATAmount:       amount * vatRatePermille / 1000,
		Timestamp:       runtime.GetTime(),
	}

	common.SetSerialized(ctx, idKey(id), inv)
	storage.Put(ctx, hKey, id)

	runtime.Notify("InvoiceStored", id, seller, hash, amount, vatRatePermille, inv.VATAmount)

	vat := common.GetHash160(ctx, []byte{vatControlKey})
	if vat != nil {
		contract.Call(vat, "recordInvoice", contract.All,
			seller, id, amount, vatRatePermille, inv.VATAmount)
	}

	return id
}

// GetInvoiceIdByHash returns ledger identifier of the invoice with the given
// hash or 0 if there is no such invoice.
func GetInvoiceIdByHash(hash interop.Hash256) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, hashKey(hash))
}

// GetInvoice returns invoice by its ledger identifier.
func GetInvoice(id int) Invoice {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, idKey(id))
	if data == nil {
		panic(common.ErrInvoiceUnknown)
	}

	return std.Deserialize(data.([]byte)).(Invoice)
}

// InvoiceCount returns the number of stored invoices. It is also the
// identifier of the latest one.
func InvoiceCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, []byte{counterKey})
}

// SetVATControl sets VATControl contract which receives every new invoice.
// It can be invoked only by the Tax-Admin of the Registry contract and may be
// called again to rewire the ledger. Already stored invoices are not touched.
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
	return append([]byte{invoicePrefix}, []byte(std.Itoa10(id))...)
}

func hashKey(hash interop.Hash256) []byte {
	return append([]byte{hashPrefix}, hash...)
}
