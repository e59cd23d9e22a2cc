package mirror

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/block"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/tunichain/tunichain-contract/deploy"
	"github.com/tunichain/tunichain-contract/rpc/invoice"
	"github.com/tunichain/tunichain-contract/rpc/payment"
	"github.com/tunichain/tunichain-contract/rpc/registry"
	"github.com/tunichain/tunichain-contract/rpc/vatcontrol"
	"go.uber.org/zap"
)

// DefaultPollInterval is used by Listener when ListenerPrm.PollInterval is
// not set.
const DefaultPollInterval = time.Second

// Blockchain groups services provided by particular Neo blockchain network
// that are required to read ledger events. Blocks are final once returned.
type Blockchain interface {
	GetBlockCount() (uint32, error)
	GetBlockByIndex(uint32) (*block.Block, error)
	GetApplicationLog(util.Uint256, *trigger.Type) (*result.ApplicationLog, error)
}

// ListenerPrm groups all parameters of the Listener.
type ListenerPrm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Source of the blocks and application logs.
	Blockchain Blockchain

	// Mirror storage.
	Store Store

	// Addresses of the Tunichain contracts. Events of contracts with zero
	// address are ignored.
	Contracts deploy.Contracts

	// Optional metrics.
	Metrics *Metrics

	// Interval between polls of the block count.
	PollInterval time.Duration

	// First block to process if the store has no cursor.
	StartHeight uint32
}

type eventHandler func(ctx context.Context, pos Confirmation, item *stackitem.Array) error

type contractHandlers struct {
	name   string
	events map[string]eventHandler
}

// Listener applies ledger events to the mirror Store.
type Listener struct {
	log        *zap.Logger
	blockchain Blockchain
	store      Store
	metrics    *Metrics
	interval   time.Duration
	start      uint32

	contracts map[util.Uint160]contractHandlers
}

// NewListener constructs Listener from the given parameters.
func NewListener(prm ListenerPrm) *Listener {
	l := &Listener{
		log:        prm.Logger,
		blockchain: prm.Blockchain,
		store:      prm.Store,
		metrics:    prm.Metrics,
		interval:   prm.PollInterval,
		start:      prm.StartHeight,
		contracts:  make(map[util.Uint160]contractHandlers),
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	if l.interval <= 0 {
		l.interval = DefaultPollInterval
	}

	l.register(prm.Contracts.Registry, "registry", map[string]eventHandler{
		"SellerAdded":   l.onSellerAdded,
		"BankAdded":     l.onBankAdded,
		"SellerRemoved": l.onSellerRemoved,
		"BankRemoved":   l.onBankRemoved,
	})
	l.register(prm.Contracts.InvoiceValidation, "invoice", map[string]eventHandler{
		"InvoiceStored": l.onInvoiceStored,
	})
	l.register(prm.Contracts.PaymentRegistry, "payment", map[string]eventHandler{
		"PaymentStored": l.onPaymentStored,
	})
	l.register(prm.Contracts.VATControl, "vatcontrol", map[string]eventHandler{
		"VATRecorded":        l.onVATRecorded,
		"VATPaymentRecorded": l.onVATPaymentRecorded,
	})

	return l
}

func (l *Listener) register(h util.Uint160, name string, events map[string]eventHandler) {
	if h.Equals(util.Uint160{}) {
		return
	}
	l.contracts[h] = contractHandlers{name: name, events: events}
}

// Run synchronizes the mirror with the chain every poll interval until the
// context is done. Synchronization errors are logged and retried on the next
// poll.
func (l *Listener) Run(ctx context.Context) error {
	t := time.NewTicker(l.interval)
	defer t.Stop()

	for {
		err := l.Sync(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.log.Error("failed to synchronize ledger events, will try again later", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Sync processes all blocks after the stored cursor. The cursor is advanced
// after each block.
func (l *Listener) Sync(ctx context.Context) error {
	next, err := l.nextHeight(ctx)
	if err != nil {
		return err
	}

	count, err := l.blockchain.GetBlockCount()
	if err != nil {
		return fmt.Errorf("get block count: %w", err)
	}

	if next >= count {
		l.log.Debug("no new blocks", zap.Uint32("next", next))
		return nil
	}

	for h := next; h < count; h++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		err = l.processBlock(ctx, h)
		if err != nil {
			return fmt.Errorf("process block #%d: %w", h, err)
		}

		err = l.store.SetCursor(ctx, h)
		if err != nil {
			return fmt.Errorf("save cursor at block #%d: %w", h, err)
		}

		l.metrics.SetHeight(h)
	}

	l.log.Info("ledger events synchronized",
		zap.Uint32("from", next), zap.Uint32("to", count-1))

	return nil
}

func (l *Listener) nextHeight(ctx context.Context) (uint32, error) {
	cur, err := l.store.Cursor(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return l.start, nil
		}
		return 0, fmt.Errorf("read cursor: %w", err)
	}
	return cur + 1, nil
}

func (l *Listener) processBlock(ctx context.Context, h uint32) error {
	b, err := l.blockchain.GetBlockByIndex(h)
	if err != nil {
		return fmt.Errorf("get block: %w", err)
	}

	trig := trigger.Application
	var logIndex uint32

	for _, tx := range b.Transactions {
		txHash := tx.Hash()

		appLog, err := l.blockchain.GetApplicationLog(txHash, &trig)
		if err != nil {
			return fmt.Errorf("get application log of tx %s: %w", txHash.StringLE(), err)
		}

		for _, ex := range appLog.Executions {
			if ex.VMState != vmstate.Halt {
				l.log.Debug("skip faulted transaction",
					zap.Stringer("tx", txHash), zap.String("exception", ex.FaultException))
				continue
			}

			for _, ev := range ex.Events {
				pos := Confirmation{
					TxHash:   txHash,
					Block:    h,
					LogIndex: logIndex,
				}
				logIndex++

				c, ok := l.contracts[ev.ScriptHash]
				if !ok {
					continue
				}

				handle, ok := c.events[ev.Name]
				if !ok {
					continue
				}

				err = handle(ctx, pos, ev.Item)
				if err != nil {
					return fmt.Errorf("handle %s event of %s contract in tx %s: %w", ev.Name, c.name, txHash.StringLE(), err)
				}

				l.metrics.IncrementEvent(c.name, ev.Name)
			}
		}
	}

	return nil
}

func (l *Listener) onSellerAdded(ctx context.Context, pos Confirmation, item *stackitem.Array) error {
	var e registry.SellerAddedEvent
	if err := e.FromStackItem(item); err != nil {
		return err
	}
	return l.confirm(ctx, KindSeller, AccountKey(e.Seller), pos)
}

func (l *Listener) onBankAdded(ctx context.Context, pos Confirmation, item *stackitem.Array) error {
	var e registry.BankAddedEvent
	if err := e.FromStackItem(item); err != nil {
		return err
	}
	return l.confirm(ctx, KindBank, AccountKey(e.Bank), pos)
}

func (l *Listener) onSellerRemoved(ctx context.Context, pos Confirmation, item *stackitem.Array) error {
	var e registry.SellerRemovedEvent
	if err := e.FromStackItem(item); err != nil {
		return err
	}
	return l.revoke(ctx, KindSeller, AccountKey(e.Seller), pos)
}

func (l *Listener) onBankRemoved(ctx context.Context, pos Confirmation, item *stackitem.Array) error {
	var e registry.BankRemovedEvent
	if err := e.FromStackItem(item); err != nil {
		return err
	}
	return l.revoke(ctx, KindBank, AccountKey(e.Bank), pos)
}

func (l *Listener) onInvoiceStored(ctx context.Context, pos Confirmation, item *stackitem.Array) error {
	var e invoice.InvoiceStoredEvent
	if err := e.FromStackItem(item); err != nil {
		return err
	}

	key := DigestKey(e.InvoiceHash)
	id, ok := ledgerID(e.InvoiceID)
	if !ok {
		l.invalidLedgerID(KindInvoice, key, e.InvoiceID, pos)
		return nil
	}

	pos.LedgerID = id
	return l.confirm(ctx, KindInvoice, key, pos)
}

func (l *Listener) onPaymentStored(ctx context.Context, pos Confirmation, item *stackitem.Array) error {
	var e payment.PaymentStoredEvent
	if err := e.FromStackItem(item); err != nil {
		return err
	}

	key := DigestKey(e.PaymentHash)
	id, ok := ledgerID(e.PaymentID)
	if !ok {
		l.invalidLedgerID(KindPayment, key, e.PaymentID, pos)
		return nil
	}

	pos.LedgerID = id
	err := l.confirm(ctx, KindPayment, key, pos)
	if err != nil {
		return err
	}

	invoiceID, ok := ledgerID(e.InvoiceID)
	if !ok {
		l.invalidLedgerID(KindInvoice, fmt.Sprintf("#%v", e.InvoiceID), e.InvoiceID, pos)
		return nil
	}

	err = l.store.MarkInvoicePaid(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.unmatched(KindInvoice, fmt.Sprintf("#%d", invoiceID), pos)
			return nil
		}
		return fmt.Errorf("mark invoice #%d paid: %w", invoiceID, err)
	}

	return nil
}

func (l *Listener) onVATRecorded(ctx context.Context, _ Confirmation, item *stackitem.Array) error {
	var e vatcontrol.VATRecordedEvent
	if err := e.FromStackItem(item); err != nil {
		return err
	}

	return l.putTotals(ctx, Totals{Seller: AccountKey(e.Seller), TaxBase: e.SellerTotalTaxBase})
}

func (l *Listener) onVATPaymentRecorded(ctx context.Context, _ Confirmation, item *stackitem.Array) error {
	var e vatcontrol.VATPaymentRecordedEvent
	if err := e.FromStackItem(item); err != nil {
		return err
	}

	return l.putTotals(ctx, Totals{Seller: AccountKey(e.Seller), VATPaid: e.SellerTotalVATPaid})
}

func (l *Listener) confirm(ctx context.Context, kind Kind, key string, pos Confirmation) error {
	_, err := l.store.Confirm(ctx, kind, key, pos)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.unmatched(kind, key, pos)
			return nil
		}
		return fmt.Errorf("confirm %s %s: %w", kind, key, err)
	}

	l.log.Debug("record confirmed", zap.String("kind", string(kind)), zap.String("key", key),
		zap.Uint32("block", pos.Block), zap.Uint32("log index", pos.LogIndex))

	return nil
}

func (l *Listener) revoke(ctx context.Context, kind Kind, key string, pos Confirmation) error {
	_, err := l.store.Revoke(ctx, kind, key, pos)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.unmatched(kind, key, pos)
			return nil
		}
		return fmt.Errorf("revoke %s %s: %w", kind, key, err)
	}

	l.log.Debug("record revoked", zap.String("kind", string(kind)), zap.String("key", key),
		zap.Uint32("block", pos.Block), zap.Uint32("log index", pos.LogIndex))

	return nil
}

func (l *Listener) putTotals(ctx context.Context, t Totals) error {
	err := l.store.PutTotals(ctx, t)
	if err != nil {
		return fmt.Errorf("put totals of seller %s: %w", t.Seller, err)
	}
	return nil
}

func (l *Listener) invalidLedgerID(kind Kind, key string, id *big.Int, pos Confirmation) {
	l.metrics.IncrementUnmatched(kind)
	l.log.Warn("ledger identifier is out of range, skip",
		zap.String("kind", string(kind)), zap.String("key", key), zap.Stringer("id", id),
		zap.Stringer("tx", pos.TxHash), zap.Uint32("block", pos.Block))
}

func (l *Listener) unmatched(kind Kind, key string, pos Confirmation) {
	l.metrics.IncrementUnmatched(kind)
	l.log.Warn("ledger event has no draft in the mirror, skip",
		zap.String("kind", string(kind)), zap.String("key", key),
		zap.Stringer("tx", pos.TxHash), zap.Uint32("block", pos.Block))
}

// ledgerID converts ledger counter value. Stores keep identifiers as signed
// 64-bit integers.
func ledgerID(v *big.Int) (uint64, bool) {
	if v == nil || v.Sign() < 0 || !v.IsInt64() {
		return 0, false
	}
	return v.Uint64(), true
}
