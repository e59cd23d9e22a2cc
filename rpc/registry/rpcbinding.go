// Package registry contains RPC wrappers for Tunichain Registry contract.
package registry

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/tunichain/tunichain-contract/rpc/internal/items"
)

// Entry is a contract-specific registry.Entry type used by its methods.
type Entry struct {
	Metadata string
	Active   bool
}

// SellerAddedEvent represents "SellerAdded" event emitted by the contract.
type SellerAddedEvent struct {
	Seller   util.Uint160
	Metadata string
}

// BankAddedEvent represents "BankAdded" event emitted by the contract.
type BankAddedEvent struct {
	Bank     util.Uint160
	Metadata string
}

// SellerRemovedEvent represents "SellerRemoved" event emitted by the contract.
type SellerRemovedEvent struct {
	Seller util.Uint160
}

// BankRemovedEvent represents "BankRemoved" event emitted by the contract.
type BankRemovedEvent struct {
	Bank util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Admin invokes `admin` method of contract.
func (c *ContractReader) Admin() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "admin"))
}

// IsSeller invokes `isSeller` method of contract.
func (c *ContractReader) IsSeller(addr util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isSeller", addr))
}

// IsBank invokes `isBank` method of contract.
func (c *ContractReader) IsBank(addr util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isBank", addr))
}

// Seller invokes `seller` method of contract.
func (c *ContractReader) Seller(addr util.Uint160) (*Entry, error) {
	return itemToEntry(unwrap.Item(c.invoker.Call(c.hash, "seller", addr)))
}

// Bank invokes `bank` method of contract.
func (c *ContractReader) Bank(addr util.Uint160) (*Entry, error) {
	return itemToEntry(unwrap.Item(c.invoker.Call(c.hash, "bank", addr)))
}

// Sellers invokes `sellers` method of contract.
func (c *ContractReader) Sellers() ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "sellers"))
}

// Banks invokes `banks` method of contract.
func (c *ContractReader) Banks() ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "banks"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// AddSeller creates a transaction invoking `addSeller` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddSeller(seller util.Uint160, metadata string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addSeller", seller, metadata)
}

// AddSellerTransaction creates a transaction invoking `addSeller` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddSellerTransaction(seller util.Uint160, metadata string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addSeller", seller, metadata)
}

// AddSellerUnsigned creates a transaction invoking `addSeller` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
func (c *Contract) AddSellerUnsigned(seller util.Uint160, metadata string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addSeller", nil, seller, metadata)
}

// AddBank creates a transaction invoking `addBank` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddBank(bank util.Uint160, metadata string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addBank", bank, metadata)
}

// AddBankTransaction creates a transaction invoking `addBank` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddBankTransaction(bank util.Uint160, metadata string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addBank", bank, metadata)
}

// AddBankUnsigned creates a transaction invoking `addBank` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
func (c *Contract) AddBankUnsigned(bank util.Uint160, metadata string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addBank", nil, bank, metadata)
}

// RemoveSeller creates a transaction invoking `removeSeller` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveSeller(seller util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeSeller", seller)
}

// RemoveSellerTransaction creates a transaction invoking `removeSeller` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveSellerTransaction(seller util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeSeller", seller)
}

// RemoveSellerUnsigned creates a transaction invoking `removeSeller` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
func (c *Contract) RemoveSellerUnsigned(seller util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeSeller", nil, seller)
}

// RemoveBank creates a transaction invoking `removeBank` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveBank(bank util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeBank", bank)
}

// RemoveBankTransaction creates a transaction invoking `removeBank` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveBankTransaction(bank util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeBank", bank)
}

// RemoveBankUnsigned creates a transaction invoking `removeBank` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
func (c *Contract) RemoveBankUnsigned(bank util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeBank", nil, bank)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// itemToEntry converts stack item into *Entry.
func itemToEntry(item stackitem.Item, err error) (*Entry, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Entry)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Entry from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Entry) FromStackItem(item stackitem.Item) error {
	arr, err := items.Struct(item, 2)
	if err != nil {
		return err
	}

	res.Metadata, err = items.String(arr[0])
	if err != nil {
		return fmt.Errorf("field Metadata: %w", err)
	}

	res.Active, err = arr[1].TryBool()
	if err != nil {
		return fmt.Errorf("field Active: %w", err)
	}

	return nil
}

// SellerAddedEventsFromApplicationLog retrieves a set of all emitted events
// with "SellerAdded" name from the provided [result.ApplicationLog].
func SellerAddedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SellerAddedEvent, error) {
	return items.EventsFromApplicationLog[SellerAddedEvent](log, util.Uint160{}, "SellerAdded")
}

// FromStackItem converts provided [stackitem.Array] to SellerAddedEvent or
// returns an error if it's not possible to do to so.
func (e *SellerAddedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, err := items.Struct(item, 2)
	if err != nil {
		return err
	}

	e.Seller, err = items.Uint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}

	e.Metadata, err = items.String(arr[1])
	if err != nil {
		return fmt.Errorf("field Metadata: %w", err)
	}

	return nil
}

// BankAddedEventsFromApplicationLog retrieves a set of all emitted events
// with "BankAdded" name from the provided [result.ApplicationLog].
func BankAddedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BankAddedEvent, error) {
	return items.EventsFromApplicationLog[BankAddedEvent](log, util.Uint160{}, "BankAdded")
}

// FromStackItem converts provided [stackitem.Array] to BankAddedEvent or
// returns an error if it's not possible to do to so.
func (e *BankAddedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, err := items.Struct(item, 2)
	if err != nil {
		return err
	}

	e.Bank, err = items.Uint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Bank: %w", err)
	}

	e.Metadata, err = items.String(arr[1])
	if err != nil {
		return fmt.Errorf("field Metadata: %w", err)
	}

	return nil
}

// SellerRemovedEventsFromApplicationLog retrieves a set of all emitted events
// with "SellerRemoved" name from the provided [result.ApplicationLog].
func SellerRemovedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SellerRemovedEvent, error) {
	return items.EventsFromApplicationLog[SellerRemovedEvent](log, util.Uint160{}, "SellerRemoved")
}

// FromStackItem converts provided [stackitem.Array] to SellerRemovedEvent or
// returns an error if it's not possible to do to so.
func (e *SellerRemovedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, err := items.Struct(item, 1)
	if err != nil {
		return err
	}

	e.Seller, err = items.Uint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}

	return nil
}

// BankRemovedEventsFromApplicationLog retrieves a set of all emitted events
// with "BankRemoved" name from the provided [result.ApplicationLog].
func BankRemovedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BankRemovedEvent, error) {
	return items.EventsFromApplicationLog[BankRemovedEvent](log, util.Uint160{}, "BankRemoved")
}

// FromStackItem converts provided [stackitem.Array] to BankRemovedEvent or
// returns an error if it's not possible to do to so.
func (e *BankRemovedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, err := items.Struct(item, 1)
	if err != nil {
		return err
	}

	e.Bank, err = items.Uint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Bank: %w", err)
	}

	return nil
}
