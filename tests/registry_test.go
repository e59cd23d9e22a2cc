package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/tunichain/tunichain-contract/common"
	"github.com/tunichain/tunichain-contract/rpc/registry"
)

func TestRegistry_Admin(t *testing.T) {
	tc := newTunichain(t, false)
	inv := tc.CommitteeInvoker(tc.registry)

	require.Equal(t, tc.admin.ScriptHash(), testInvokeHash160(t, inv, "admin"))
}

func TestRegistry_AddSeller(t *testing.T) {
	tc := newTunichain(t, false)
	adm := tc.adminInvoker(tc.registry)
	seller := tc.NewAccount(t)

	t.Run("not admin", func(t *testing.T) {
		inv := tc.NewInvoker(tc.registry, seller)
		inv.InvokeFail(t, common.ErrOnlyAdmin, "addSeller", seller.ScriptHash(), "self")
		inv.Invoke(t, false, "isSeller", seller.ScriptHash())
	})

	t.Run("invalid address", func(t *testing.T) {
		adm.InvokeFail(t, common.ErrInvalidAddress, "addSeller", []byte{1, 2, 3}, "meta")
	})

	txHash := adm.Invoke(t, stackitem.Null{}, "addSeller", seller.ScriptHash(), "Seller SARL")

	evs := eventsOf(t, tc.Executor, txHash, tc.registry)
	require.Len(t, evs, 1)

	var ev registry.SellerAddedEvent
	require.NoError(t, ev.FromStackItem(evs[0]))
	require.Equal(t, seller.ScriptHash(), ev.Seller)
	require.Equal(t, "Seller SARL", ev.Metadata)

	adm.Invoke(t, true, "isSeller", seller.ScriptHash())
	adm.Invoke(t, false, "isBank", seller.ScriptHash())

	t.Run("already registered", func(t *testing.T) {
		adm.InvokeFail(t, common.ErrSellerRegistered, "addSeller", seller.ScriptHash(), "other")

		entry := getEntry(t, tc, "seller", seller.ScriptHash())
		require.Equal(t, "Seller SARL", entry.Metadata)
		require.True(t, entry.Active)
	})
}

func TestRegistry_RemoveSeller(t *testing.T) {
	tc := newTunichain(t, false)
	adm := tc.adminInvoker(tc.registry)
	seller := tc.newSeller(t)

	tc.NewInvoker(tc.registry, seller).InvokeFail(t, common.ErrOnlyAdmin, "removeSeller", seller.ScriptHash())

	txHash := adm.Invoke(t, stackitem.Null{}, "removeSeller", seller.ScriptHash())
	require.Equal(t, []string{"SellerRemoved"}, eventNames(t, tc.Executor, txHash))

	evs := eventsOf(t, tc.Executor, txHash, tc.registry)
	var ev registry.SellerRemovedEvent
	require.NoError(t, ev.FromStackItem(evs[0]))
	require.Equal(t, seller.ScriptHash(), ev.Seller)

	adm.Invoke(t, false, "isSeller", seller.ScriptHash())

	entry := getEntry(t, tc, "seller", seller.ScriptHash())
	require.Equal(t, "seller", entry.Metadata)
	require.False(t, entry.Active)

	t.Run("not active", func(t *testing.T) {
		txHash := adm.Invoke(t, stackitem.Null{}, "removeSeller", seller.ScriptHash())
		require.Empty(t, eventNames(t, tc.Executor, txHash))

		txHash = adm.Invoke(t, stackitem.Null{}, "removeSeller", tc.NewAccount(t).ScriptHash())
		require.Empty(t, eventNames(t, tc.Executor, txHash))
	})

	t.Run("re-add", func(t *testing.T) {
		adm.Invoke(t, stackitem.Null{}, "addSeller", seller.ScriptHash(), "renamed")
		adm.Invoke(t, true, "isSeller", seller.ScriptHash())

		entry := getEntry(t, tc, "seller", seller.ScriptHash())
		require.Equal(t, "renamed", entry.Metadata)
		require.True(t, entry.Active)
	})
}

func TestRegistry_Banks(t *testing.T) {
	tc := newTunichain(t, false)
	adm := tc.adminInvoker(tc.registry)
	bank := tc.NewAccount(t)

	tc.NewInvoker(tc.registry, bank).InvokeFail(t, common.ErrOnlyAdmin, "addBank", bank.ScriptHash(), "self")

	txHash := adm.Invoke(t, stackitem.Null{}, "addBank", bank.ScriptHash(), "Banque")

	evs := eventsOf(t, tc.Executor, txHash, tc.registry)
	require.Len(t, evs, 1)

	var added registry.BankAddedEvent
	require.NoError(t, added.FromStackItem(evs[0]))
	require.Equal(t, bank.ScriptHash(), added.Bank)
	require.Equal(t, "Banque", added.Metadata)

	adm.Invoke(t, true, "isBank", bank.ScriptHash())
	adm.Invoke(t, false, "isSeller", bank.ScriptHash())
	adm.InvokeFail(t, common.ErrBankRegistered, "addBank", bank.ScriptHash(), "Banque")

	t.Run("both roles", func(t *testing.T) {
		adm.Invoke(t, stackitem.Null{}, "addSeller", bank.ScriptHash(), "Banque retail")
		adm.Invoke(t, true, "isSeller", bank.ScriptHash())
		adm.Invoke(t, true, "isBank", bank.ScriptHash())
	})

	txHash = adm.Invoke(t, stackitem.Null{}, "removeBank", bank.ScriptHash())

	evs = eventsOf(t, tc.Executor, txHash, tc.registry)
	require.Len(t, evs, 1)

	var removed registry.BankRemovedEvent
	require.NoError(t, removed.FromStackItem(evs[0]))
	require.Equal(t, bank.ScriptHash(), removed.Bank)

	adm.Invoke(t, false, "isBank", bank.ScriptHash())
	adm.Invoke(t, true, "isSeller", bank.ScriptHash())
}

func TestRegistry_List(t *testing.T) {
	tc := newTunichain(t, false)
	adm := tc.adminInvoker(tc.registry)

	require.Empty(t, listAccounts(t, tc, "sellers"))

	s1 := tc.newSeller(t)
	s2 := tc.newSeller(t)
	b := tc.newBank(t)

	require.ElementsMatch(t, []util.Uint160{s1.ScriptHash(), s2.ScriptHash()}, listAccounts(t, tc, "sellers"))
	require.Equal(t, []util.Uint160{b.ScriptHash()}, listAccounts(t, tc, "banks"))

	adm.Invoke(t, stackitem.Null{}, "removeSeller", s1.ScriptHash())
	require.Equal(t, []util.Uint160{s2.ScriptHash()}, listAccounts(t, tc, "sellers"))
}

func TestRegistry_UnknownEntry(t *testing.T) {
	tc := newTunichain(t, false)

	entry := getEntry(t, tc, "bank", tc.NewAccount(t).ScriptHash())
	require.Equal(t, registry.Entry{}, *entry)
}

func TestRegistry_Update(t *testing.T) {
	tc := newTunichain(t, false)

	tc.adminInvoker(tc.registry).InvokeFail(t, "only committee can update contract",
		"update", []byte{}, []byte{}, nil)
}

func getEntry(t *testing.T, tc *tunichain, method string, addr util.Uint160) *registry.Entry {
	item := testInvokeItem(t, tc.CommitteeInvoker(tc.registry), method, addr)

	var entry registry.Entry
	require.NoError(t, entry.FromStackItem(item))
	return &entry
}

func listAccounts(t *testing.T, tc *tunichain, method string) []util.Uint160 {
	item := testInvokeItem(t, tc.CommitteeInvoker(tc.registry), method)

	arr, ok := item.Value().([]stackitem.Item)
	require.True(t, ok)

	res := make([]util.Uint160, 0, len(arr))
	for i := range arr {
		b, err := arr[i].TryBytes()
		require.NoError(t, err)

		u, err := util.Uint160DecodeBytesBE(b)
		require.NoError(t, err)

		res = append(res, u)
	}
	return res
}
