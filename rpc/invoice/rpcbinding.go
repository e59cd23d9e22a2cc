// Package invoice contains RPC wrappers for Tunichain InvoiceValidation
// contract.
package invoice

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

// Invoice is a contract-specific invoice.Invoice type used by its methods.
type Invoice struct {
	ID              *big.Int
	Seller          util.Uint160
	Hash            util.Uint256
	Amount          *big.Int
	VATRatePermille *big.Int
	VATAmount       *big.Int
	Timestamp       *big.Int
}

// InvoiceStoredEvent represents "InvoiceStored" event emitted by the contract.
type InvoiceStoredEvent struct {
	InvoiceID       *big.Int
	Seller          util.Uint160
	InvoiceHash     util.Uint256
	Amount          *big.Int
	VATRatePermille *big.Int
	VATAmount       *big.Int
}

// VATControlSetEvent represents "VATControlSet" event emitted by the contract.
type VATControlSetEvent struct {
	VATControl util.Uint160
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

// GetInvoiceIdByHash invokes `getInvoiceIdByHash` method of contract.
func (c *ContractReader) GetInvoiceIdByHash(hash util.Uint256) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getInvoiceIdByHash", hash))
}

// GetInvoice invokes `getInvoice` method of contract.
func (c *ContractReader) GetInvoice(id *big.Int) (*Invoice, error) {
	return itemToInvoice(unwrap.Item(c.invoker.Call(c.hash, "getInvoice", id)))
}

// InvoiceCount invokes `invoiceCount` method of contract.
func (c *ContractReader) InvoiceCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "invoiceCount"))
}

// Registry invokes `registry` method of contract.
func (c *ContractReader) Registry() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "registry"))
}

// VATControl invokes `vatControl` method of contract. Zero hash is returned
// if VATControl contract is not wired yet.
func (c *ContractReader) VATControl() (util.Uint160, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "vatControl"))
	if err != nil {
		return util.Uint160{}, err
	}
	return items.OptionalUint160(item)
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// SubmitInvoice creates a transaction invoking `submitInvoice` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitInvoice(seller util.Uint160, hash util.Uint256, amount *big.Int, vatRatePermille *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitInvoice", seller, hash, amount, vatRatePermille)
}

// SubmitInvoiceTransaction creates a transaction invoking `submitInvoice` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitInvoiceTransaction(seller util.Uint160, hash util.Uint256, amount *big.Int, vatRatePermille *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submitInvoice", seller, hash, amount, vatRatePermille)
}

// SubmitInvoiceUnsigned creates a transaction invoking `submitInvoice` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
func (c *Contract) SubmitInvoiceUnsigned(seller util.Uint160, hash util.Uint256, amount *big.Int, vatRatePermille *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "submitInvoice", nil, seller, hash, amount, vatRatePermille)
}

// SetVATControl creates a transaction invoking `setVATControl` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetVATControl(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setVATControl", addr)
}

// SetVATControlTransaction creates a transaction invoking `setVATControl` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetVATControlTransaction(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setVATControl", addr)
}

// SetVATControlUnsigned creates a transaction invoking `setVATControl` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
func (c *Contract) SetVATControlUnsigned(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setVATControl", nil, addr)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// itemToInvoice converts stack item into *Invoice.
func itemToInvoice(item stackitem.Item, err error) (*Invoice, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Invoice)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Invoice from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Invoice) FromStackItem(item stackitem.Item) error {
	arr, err := items.Struct(item, 7)
	if err != nil {
		return err
	}

	res.ID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	res.Seller, err = items.Uint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}

	res.Hash, err = items.Uint256(arr[2])
	if err != nil {
		return fmt.Errorf("field Hash: %w", err)
	}

	res.Amount, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	res.VATRatePermille, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field VATRatePermille: %w", err)
	}

	res.VATAmount, err = arr[5].TryInteger()
	if err != nil {
		return fmt.Errorf("field VATAmount: %w", err)
	}

	res.Timestamp, err = arr[6].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	return nil
}

// InvoiceStoredEventsFromApplicationLog retrieves a set of all emitted events
// with "InvoiceStored" name from the provided [result.ApplicationLog].
func InvoiceStoredEventsFromApplicationLog(log *result.ApplicationLog) ([]*InvoiceStoredEvent, error) {
	return items.EventsFromApplicationLog[InvoiceStoredEvent](log, util.Uint160{}, "InvoiceStored")
}

// FromStackItem converts provided [stackitem.Array] to InvoiceStoredEvent or
// returns an error if it's not possible to do to so.
func (e *InvoiceStoredEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, err := items.Struct(item, 6)
	if err != nil {
		return err
	}

	e.InvoiceID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field InvoiceID: %w", err)
	}

	e.Seller, err = items.Uint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}

	e.InvoiceHash, err = items.Uint256(arr[2])
	if err != nil {
		return fmt.Errorf("field InvoiceHash: %w", err)
	}

	e.Amount, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	e.VATRatePermille, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field VATRatePermille: %w", err)
	}

	e.VATAmount, err = arr[5].TryInteger()
	if err != nil {
		return fmt.Errorf("field VATAmount: %w", err)
	}

	return nil
}

// VATControlSetEventsFromApplicationLog retrieves a set of all emitted events
// with "VATControlSet" name from the provided [result.ApplicationLog].
// PaymentRegistry contract emits events with the same name, so only events
// of the given contract are returned.
func VATControlSetEventsFromApplicationLog(log *result.ApplicationLog, contract util.Uint160) ([]*VATControlSetEvent, error) {
	return items.EventsFromApplicationLog[VATControlSetEvent](log, contract, "VATControlSet")
}

// FromStackItem converts provided [stackitem.Array] to VATControlSetEvent or
// returns an error if it's not possible to do to so.
func (e *VATControlSetEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, err := items.Struct(item, 1)
	if err != nil {
		return err
	}

	e.VATControl, err = items.Uint160(arr[0])
	if err != nil {
		return fmt.Errorf("field VATControl: %w", err)
	}

	return nil
}
