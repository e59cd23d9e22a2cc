// Package payment contains RPC wrappers for Tunichain PaymentRegistry
// contract.
package payment

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

// Payment is a contract-specific payment.Payment type used by its methods.
type Payment struct {
	ID          *big.Int
	Bank        util.Uint160
	InvoiceID   *big.Int
	PaymentHash util.Uint256
	AmountPaid  *big.Int
	Timestamp   *big.Int
}

// PaymentStoredEvent represents "PaymentStored" event emitted by the contract.
type PaymentStoredEvent struct {
	PaymentID   *big.Int
	Bank        util.Uint160
	InvoiceID   *big.Int
	PaymentHash util.Uint256
	AmountPaid  *big.Int
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

// PaymentHashToId invokes `paymentHashToId` method of contract.
func (c *ContractReader) PaymentHashToId(hash util.Uint256) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "paymentHashToId", hash))
}

// GetPayment invokes `getPayment` method of contract.
func (c *ContractReader) GetPayment(id *big.Int) (*Payment, error) {
	return itemToPayment(unwrap.Item(c.invoker.Call(c.hash, "getPayment", id)))
}

// PaymentCount invokes `paymentCount` method of contract.
func (c *ContractReader) PaymentCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "paymentCount"))
}

// Registry invokes `registry` method of contract.
func (c *ContractReader) Registry() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "registry"))
}

// InvoiceValidation invokes `invoiceValidation` method of contract.
func (c *ContractReader) InvoiceValidation() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "invoiceValidation"))
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

// StorePayment creates a transaction invoking `storePayment` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) StorePayment(bank util.Uint160, paymentHash util.Uint256, invoiceHash util.Uint256, amountPaid *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "storePayment", bank, paymentHash, invoiceHash, amountPaid)
}

// StorePaymentTransaction creates a transaction invoking `storePayment` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) StorePaymentTransaction(bank util.Uint160, paymentHash util.Uint256, invoiceHash util.Uint256, amountPaid *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "storePayment", bank, paymentHash, invoiceHash, amountPaid)
}

// StorePaymentUnsigned creates a transaction invoking `storePayment` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
func (c *Contract) StorePaymentUnsigned(bank util.Uint160, paymentHash util.Uint256, invoiceHash util.Uint256, amountPaid *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "storePayment", nil, bank, paymentHash, invoiceHash, amountPaid)
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

// itemToPayment converts stack item into *Payment.
func itemToPayment(item stackitem.Item, err error) (*Payment, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Payment)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Payment from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Payment) FromStackItem(item stackitem.Item) error {
	arr, err := items.Struct(item, 6)
	if err != nil {
		return err
	}

	res.ID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	res.Bank, err = items.Uint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Bank: %w", err)
	}

	res.InvoiceID, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field InvoiceID: %w", err)
	}

	res.PaymentHash, err = items.Uint256(arr[3])
	if err != nil {
		return fmt.Errorf("field PaymentHash: %w", err)
	}

	res.AmountPaid, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field AmountPaid: %w", err)
	}

	res.Timestamp, err = arr[5].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	return nil
}

// PaymentStoredEventsFromApplicationLog retrieves a set of all emitted events
// with "PaymentStored" name from the provided [result.ApplicationLog].
func PaymentStoredEventsFromApplicationLog(log *result.ApplicationLog) ([]*PaymentStoredEvent, error) {
	return items.EventsFromApplicationLog[PaymentStoredEvent](log, util.Uint160{}, "PaymentStored")
}

// FromStackItem converts provided [stackitem.Array] to PaymentStoredEvent or
// returns an error if it's not possible to do to so.
func (e *PaymentStoredEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, err := items.Struct(item, 5)
	if err != nil {
		return err
	}

	e.PaymentID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field PaymentID: %w", err)
	}

	e.Bank, err = items.Uint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Bank: %w", err)
	}

	e.InvoiceID, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field InvoiceID: %w", err)
	}

	e.PaymentHash, err = items.Uint256(arr[3])
	if err != nil {
		return fmt.Errorf("field PaymentHash: %w", err)
	}

	e.AmountPaid, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field AmountPaid: %w", err)
	}

	return nil
}
