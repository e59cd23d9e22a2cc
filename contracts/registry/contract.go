package registry

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/tunichain/tunichain-contract/common"
)

// Entry is a role membership record. Entries are never deleted, removal
// only resets Active flag.
type Entry struct {
	Metadata string
	Active   bool
}

const (
	adminKey     = 'a'
	sellerPrefix = 's'
	bankPrefix   = 'b'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	args := data.([]any)

	if isUpdate {
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	admin := args[0].(interop.Hash160)
	common.CheckHash160(admin)

	storage.Put(ctx, []byte{adminKey}, admin)

	runtime.Log("registry contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("registry contract updated")
}

// Admin returns script hash of the Tax-Admin account. Ledger contracts use it
// to authorize their own administrative methods.
func Admin() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, []byte{adminKey}).(interop.Hash160)
}

// AddSeller registers seller account with the given metadata. It can be invoked
// only by the Tax-Admin. Adding an active seller fails, adding a previously
// removed one activates it again with new metadata.
//
// Produces SellerAdded notification.
func AddSeller(seller interop.Hash160, metadata string) {
	add(sellerPrefix, seller, metadata, common.ErrSellerRegistered)
	runtime.Notify("SellerAdded", seller, metadata)
}

// AddBank registers bank account with the given metadata. Rules are the same as
// for AddSeller.
//
// Produces BankAdded notification.
func AddBank(bank interop.Hash160, metadata string) {
	add(bankPrefix, bank, metadata, common.ErrBankRegistered)
	runtime.Notify("BankAdded", bank, metadata)
}

// RemoveSeller deactivates seller account. It can be invoked only by the
// Tax-Admin. Nothing happens if the seller is not active.
//
// Produces SellerRemoved notification when the seller was active.
func RemoveSeller(seller interop.Hash160) {
	if remove(sellerPrefix, seller) {
		runtime.Notify("SellerRemoved", seller)
	}
}

// RemoveBank deactivates bank account, see RemoveSeller.
//
// Produces BankRemoved notification when the bank was active.
func RemoveBank(bank interop.Hash160) {
	if remove(bankPrefix, bank) {
		runtime.Notify("BankRemoved", bank)
	}
}

// IsSeller checks whether the account is an active seller.
func IsSeller(addr interop.Hash160) bool {
	return getEntry(storage.GetReadOnlyContext(), sellerPrefix, addr).Active
}

// IsBank checks whether the account is an active bank.
func IsBank(addr interop.Hash160) bool {
	return getEntry(storage.GetReadOnlyContext(), bankPrefix, addr).Active
}

// Seller returns seller entry. Unknown accounts have empty inactive entry.
func Seller(addr interop.Hash160) Entry {
	return getEntry(storage.GetReadOnlyContext(), sellerPrefix, addr)
}

// Bank returns bank entry. Unknown accounts have empty inactive entry.
func Bank(addr interop.Hash160) Entry {
	return getEntry(storage.GetReadOnlyContext(), bankPrefix, addr)
}

// Sellers returns list of active sellers.
func Sellers() []interop.Hash160 {
	return listActive(sellerPrefix)
}

// Banks returns list of active banks.
func Banks() []interop.Hash160 {
	return listActive(bankPrefix)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func add(prefix byte, addr interop.Hash160, metadata string, errRegistered string) {
	ctx := storage.GetContext()

	checkAdmin(ctx)
	common.CheckHash160(addr)

	key := entryKey(prefix, addr)
	if getEntry(ctx, prefix, addr).Active {
		panic(errRegistered)
	}

	common.SetSerialized(ctx, key, Entry{
		Metadata: metadata,
		Active:   true,
	})
}

func remove(prefix byte, addr interop.Hash160) bool {
	ctx := storage.GetContext()

	checkAdmin(ctx)
	common.CheckHash160(addr)

	entry := getEntry(ctx, prefix, addr)
	if !entry.Active {
		return false
	}

	entry.Active = false
	common.SetSerialized(ctx, entryKey(prefix, addr), entry)

	return true
}

func checkAdmin(ctx storage.Context) {
	admin := storage.Get(ctx, []byte{adminKey}).(interop.Hash160)
	if !runtime.CheckWitness(admin) {
		panic(common.ErrOnlyAdmin)
	}
}

func getEntry(ctx storage.Context, prefix byte, addr interop.Hash160) Entry {
	data := storage.Get(ctx, entryKey(prefix, addr))
	if data == nil {
		return Entry{}
	}

	return std.Deserialize(data.([]byte)).(Entry)
}

func listActive(prefix byte) []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()

	result := []interop.Hash160{}

	it := storage.Find(ctx, []byte{prefix}, storage.DeserializeValues|storage.RemovePrefix)
	for iterator.Next(it) {
		kv := iterator.Value(it).(struct {
			key   []byte
			value Entry
		})
		if kv.value.Active {
			result = append(result, interop.Hash160(kv.key))
		}
	}

	return result
}

func entryKey(prefix byte, addr interop.Hash160) []byte {
	return append([]byte{prefix}, addr...)
}
