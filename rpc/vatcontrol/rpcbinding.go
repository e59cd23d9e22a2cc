// Package vatcontrol contains RPC wrappers for Tunichain VATControl contract.
package vatcontrol

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

// Totals is a contract-specific vatcontrol.Totals type used by its methods.
type Totals struct {
	TaxBase *big.Int
	VATDue  *big.Int
	VATPaid *big.Int
}

// VATRecordedEvent represents "VATRecorded" event emitted by the contract.
type VATRecordedEvent struct {
	Seller             util.Uint160
	InvoiceID          *big.Int
	TaxableAmount      *big.Int
	VATRatePermille    *big.Int
	VATAmount          *big.Int
	SellerTotalTaxBase *big.Int
	Timestamp          *big.Int
}

// VATPaymentRecordedEvent represents "VATPaymentRecorded" event emitted by the contract.
type VATPaymentRecordedEvent struct {
	Seller             util.Uint160
	PaymentID          *big.Int
	InvoiceID          *big.Int
	AmountPaid         *big.Int
	VATRatePermille    *big.Int
	VATAmount          *big.Int
	SellerTotalVATPaid *big.Int
	Timestamp          *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
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

// TotalTaxBase invokes `totalTaxBase` method of contract.
func (c *ContractReader) TotalTaxBase(seller util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalTaxBase", seller))
}

// TotalVATDue invokes `totalVATDue` method of contract.
func (c *ContractReader) TotalVATDue(seller util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalVATDue", seller))
}

// TotalVATPaid invokes `totalVATPaid` method of contract.
func (c *ContractReader) TotalVATPaid(seller util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalVATPaid", seller))
}

// SellerTotals invokes `sellerTotals` method of contract.
func (c *ContractReader) SellerTotals(seller util.Uint160) (*Totals, error) {
	return itemToTotals(unwrap.Item(c.invoker.Call(c.hash, "sellerTotals", seller)))
}

// InvoiceValidation invokes `invoiceValidation` method of contract.
func (c *ContractReader) InvoiceValidation() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "invoiceValidation"))
}

// PaymentRegistry invokes `paymentRegistry` method of contract.
func (c *ContractReader) PaymentRegistry() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "paymentRegistry"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// itemToTotals converts stack item into *Totals.
func itemToTotals(item stackitem.Item, err error) (*Totals, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Totals)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Totals from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Totals) FromStackItem(item stackitem.Item) error {
	arr, err := items.Struct(item, 3)
	if err != nil {
		return err
	}

	res.TaxBase, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field TaxBase: %w", err)
	}

	res.VATDue, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field VATDue: %w", err)
	}

	res.VATPaid, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field VATPaid: %w", err)
	}

	return nil
}

// VATRecordedEventsFromApplicationLog retrieves a set of all emitted events
// with "VATRecorded" name from the provided [result.ApplicationLog].
func VATRecordedEventsFromApplicationLog(log *result.ApplicationLog) ([]*VATRecordedEvent, error) {
	return items.EventsFromApplicationLog[VATRecordedEvent](log, util.Uint160{}, "VATRecorded")
}

// FromStackItem converts provided [stackitem.Array] to VATRecordedEvent or
// returns an error if it's not possible to do to so.
func (e *VATRecordedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, err := items.Struct(item, 7)
	if err != nil {
		return err
	}

	e.Seller, err = items.Uint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}

	ints := []struct {
		name string
		dst  **big.Int
	}{
		{"InvoiceID", &e.InvoiceID},
		{"TaxableAmount", &e.TaxableAmount},
		{"VATRatePermille", &e.VATRatePermille},
		{"VATAmount", &e.VATAmount},
		{"SellerTotalTaxBase", &e.SellerTotalTaxBase},
		{"Timestamp", &e.Timestamp},
	}
	for i, f := range ints {
		*f.dst, err = arr[i+1].TryInteger()
		if err != nil {
			return fmt.Errorf("field %s: %w", f.name, err)
		}
	}

	return nil
}

// VATPaymentRecordedEventsFromApplicationLog retrieves a set of all emitted
// events with "VATPaymentRecorded" name from the provided
// [result.ApplicationLog].
func VATPaymentRecordedEventsFromApplicationLog(log *result.ApplicationLog) ([]*VATPaymentRecordedEvent, error) {
	return items.EventsFromApplicationLog[VATPaymentRecordedEvent](log, util.Uint160{}, "VATPaymentRecorded")
}

// FromStackItem converts provided [stackitem.Array] to VATPaymentRecordedEvent
// or returns an error if it's not possible to do to so.
func (e *VATPaymentRecordedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, err := items.Struct(item, 8)
	if err != nil {
		return err
	}

	e.Seller, err = items.Uint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}

	ints := []struct {
		name string
		dst  **big.Int
	}{
		{"PaymentID", &e.PaymentID},
		{"InvoiceID", &e.InvoiceID},
		{"AmountPaid", &e.AmountPaid},
		{"VATRatePermille", &e.VATRatePermille},
		{"VATAmount", &e.VATAmount},
		{"SellerTotalVATPaid", &e.SellerTotalVATPaid},
		{"Timestamp", &e.Timestamp},
	}
	for i, f := range ints {
		*f.dst, err = arr[i+1].TryInteger()
		if err != nil {
			return fmt.Errorf("field %s: %w", f.name, err)
		}
	}

	return nil
}
