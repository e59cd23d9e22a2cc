/*
Package mirror keeps an off-chain copy of Tunichain ledger state.

Clients create pending drafts of sellers, banks, invoices and payments before
sending the corresponding transactions. Listener reads finalized blocks,
decodes notifications of the Tunichain contracts and confirms drafts with the
chain position of the event. Drafts are never created from chain events: an
event without a draft is counted and skipped.

Delivery is at-least-once, so every Store operation applied by Listener is
idempotent: a confirmation at the same or an older chain position than the
stored one is a no-op, and seller totals are merged by maximum.
*/
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

var (
	// ErrNotFound is returned when requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDraftExists is returned on attempt to create a draft for the key
	// which already has a record.
	ErrDraftExists = errors.New("draft already exists")
	// ErrInvalidKey is returned for keys of the wrong format.
	ErrInvalidKey = errors.New("invalid key")
)

// Kind is a type of the mirrored entity.
type Kind string

const (
	// KindSeller is a registered seller keyed by its Neo address.
	KindSeller Kind = "seller"
	// KindBank is a registered bank keyed by its Neo address.
	KindBank Kind = "bank"
	// KindInvoice is an invoice keyed by its document digest.
	KindInvoice Kind = "invoice"
	// KindPayment is a payment keyed by its document digest.
	KindPayment Kind = "payment"
)

// ParseKind parses Kind from its string representation. Plural forms used in
// HTTP paths are accepted too.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.TrimSuffix(s, "s")); k {
	case KindSeller, KindBank, KindInvoice, KindPayment:
		return k, nil
	default:
		return "", fmt.Errorf("unknown kind %q", s)
	}
}

// Status is a confirmation status of the record.
type Status string

const (
	// StatusPending is set for a draft not seen on the chain yet.
	StatusPending Status = "pending"
	// StatusConfirmed is set once the ledger event of the record is processed.
	StatusConfirmed Status = "confirmed"
	// StatusRevoked is set for a seller or bank removed from the registry.
	StatusRevoked Status = "revoked"
)

// Confirmation is a chain position of the latest event applied to the record.
type Confirmation struct {
	TxHash util.Uint256
	Block  uint32
	// LogIndex is a sequence number of the notification within the block.
	LogIndex uint32
	// LedgerID is an identifier assigned by the ledger contract, zero for
	// roles.
	LedgerID uint64
}

// Before checks whether c precedes x on the chain.
func (c Confirmation) Before(x Confirmation) bool {
	if c.Block != x.Block {
		return c.Block < x.Block
	}
	return c.LogIndex < x.LogIndex
}

// Record is a mirrored entity.
type Record struct {
	ID     uuid.UUID
	Kind   Kind
	Key    string
	Status Status
	// Payload is an opaque client document.
	Payload json.RawMessage
	// Paid is set for invoices referenced by a confirmed payment.
	Paid         bool
	Confirmation *Confirmation
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Totals are mirrored VAT accumulators of the seller. Accumulators are not
// bounded on the chain, nil value is zero.
type Totals struct {
	Seller  string
	TaxBase *big.Int
	VATPaid *big.Int
}

// Merge returns totals of t.Seller holding the maximum of every accumulator
// of t and o. Results never share memory with the arguments.
func (t Totals) Merge(o Totals) Totals {
	return Totals{
		Seller:  t.Seller,
		TaxBase: maxAmount(t.TaxBase, o.TaxBase),
		VATPaid: maxAmount(t.VATPaid, o.VATPaid),
	}
}

func maxAmount(a, b *big.Int) *big.Int {
	switch {
	case a == nil && b == nil:
		return new(big.Int)
	case a == nil:
		return new(big.Int).Set(b)
	case b == nil || a.Cmp(b) >= 0:
		return new(big.Int).Set(a)
	default:
		return new(big.Int).Set(b)
	}
}

// Store is a persistent storage of mirrored records. Implementations must be
// safe for concurrent use.
type Store interface {
	// CreateDraft creates pending record. Returns ErrDraftExists if record with
	// the same kind and key already exists.
	CreateDraft(ctx context.Context, kind Kind, key string, payload json.RawMessage) (*Record, error)
	// Get returns record by kind and key or ErrNotFound.
	Get(ctx context.Context, kind Kind, key string) (*Record, error)
	// Confirm marks record confirmed at the given position. Positions not
	// after the stored one are ignored. Returns ErrNotFound if there is no
	// such record.
	Confirm(ctx context.Context, kind Kind, key string, c Confirmation) (*Record, error)
	// Revoke marks record revoked with the same rules as Confirm.
	Revoke(ctx context.Context, kind Kind, key string, c Confirmation) (*Record, error)
	// MarkInvoicePaid sets Paid flag of the invoice confirmed with the given
	// ledger identifier. Returns ErrNotFound if there is no such invoice.
	MarkInvoicePaid(ctx context.Context, ledgerID uint64) error
	// PutTotals merges seller totals taking maximum of every field.
	PutTotals(ctx context.Context, t Totals) error
	// Totals returns seller totals or ErrNotFound.
	Totals(ctx context.Context, seller string) (*Totals, error)
	// Cursor returns the height of the last processed block or ErrNotFound.
	Cursor(ctx context.Context) (uint32, error)
	// SetCursor saves the height of the last processed block.
	SetCursor(ctx context.Context, height uint32) error
}

// NormalizeKey checks the key of the given kind and returns its canonical
// form: Neo address for roles and lowercase hex of the 32-byte big-endian
// digest for invoices and payments.
func NormalizeKey(kind Kind, key string) (string, error) {
	switch kind {
	case KindSeller, KindBank:
		u, err := address.StringToUint160(key)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		return AccountKey(u), nil
	case KindInvoice, KindPayment:
		u, err := util.Uint256DecodeStringBE(strings.TrimPrefix(strings.ToLower(key), "0x"))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		return DigestKey(u), nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidKey, kind)
	}
}

// AccountKey returns record key of the seller or bank account.
func AccountKey(u util.Uint160) string {
	return address.Uint160ToString(u)
}

// DigestKey returns record key of the invoice or payment digest.
func DigestKey(u util.Uint256) string {
	return u.StringBE()
}
