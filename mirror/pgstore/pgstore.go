// Package pgstore provides mirror.Store backed by PostgreSQL.
package pgstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/tunichain/tunichain-contract/mirror"
)

//go:embed schema.sql
var schema string

// Store is a mirror.Store keeping records in PostgreSQL tables.
type Store struct {
	pool *pgxpool.Pool
}

var _ mirror.Store = (*Store)(nil)

// New returns Store working over the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens connection pool to the database with the given DSN and
// checks it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// Migrate creates missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const recordColumns = `id, kind, key, status, payload, paid, tx_hash, block, log_index, ledger_id, created_at, updated_at`

// scanRecord reads record row in recordColumns order.
func scanRecord(s scanner) (*mirror.Record, error) {
	var (
		r        mirror.Record
		kind     string
		status   string
		payload  []byte
		txHash   *string
		block    *int64
		logIndex *int64
		ledgerID *int64
	)

	if err := s.Scan(
		&r.ID, &kind, &r.Key, &status, &payload, &r.Paid,
		&txHash, &block, &logIndex, &ledgerID,
		&r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	r.Kind = mirror.Kind(kind)
	r.Status = mirror.Status(status)
	if payload != nil {
		r.Payload = json.RawMessage(payload)
	}

	if txHash != nil {
		h, err := util.Uint256DecodeStringLE(*txHash)
		if err != nil {
			return nil, fmt.Errorf("decoding transaction hash: %w", err)
		}

		r.Confirmation = &mirror.Confirmation{TxHash: h}
		if block != nil {
			r.Confirmation.Block = uint32(*block)
		}
		if logIndex != nil {
			r.Confirmation.LogIndex = uint32(*logIndex)
		}
		if ledgerID != nil {
			r.Confirmation.LedgerID = uint64(*ledgerID)
		}
	}

	return &r, nil
}

func (s *Store) CreateDraft(ctx context.Context, kind mirror.Kind, key string, payload json.RawMessage) (*mirror.Record, error) {
	query := `
		INSERT INTO mirror_records (id, kind, key, status, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (kind, key) DO NOTHING
		RETURNING ` + recordColumns

	var doc any
	if len(payload) > 0 {
		doc = string(payload)
	}

	r, err := scanRecord(s.pool.QueryRow(ctx, query, uuid.New(), string(kind), key, string(mirror.StatusPending), doc))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mirror.ErrDraftExists
		}
		return nil, fmt.Errorf("creating draft: %w", err)
	}

	return r, nil
}

func (s *Store) Get(ctx context.Context, kind mirror.Kind, key string) (*mirror.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM mirror_records WHERE kind = $1 AND key = $2`

	r, err := scanRecord(s.pool.QueryRow(ctx, query, string(kind), key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mirror.ErrNotFound
		}
		return nil, fmt.Errorf("getting record: %w", err)
	}

	return r, nil
}

func (s *Store) Confirm(ctx context.Context, kind mirror.Kind, key string, c mirror.Confirmation) (*mirror.Record, error) {
	return s.apply(ctx, kind, key, mirror.StatusConfirmed, c)
}

func (s *Store) Revoke(ctx context.Context, kind mirror.Kind, key string, c mirror.Confirmation) (*mirror.Record, error) {
	return s.apply(ctx, kind, key, mirror.StatusRevoked, c)
}

// apply updates record only if the given position is after the stored one.
// Records left untouched are read back to tell a stale position from a
// missing record.
func (s *Store) apply(ctx context.Context, kind mirror.Kind, key string, st mirror.Status, c mirror.Confirmation) (*mirror.Record, error) {
	query := `
		UPDATE mirror_records
		SET status = $3, tx_hash = $4, block = $5, log_index = $6, ledger_id = $7, updated_at = NOW()
		WHERE kind = $1 AND key = $2
			AND (block IS NULL OR (block, log_index) < ($5::BIGINT, $6::BIGINT))
		RETURNING ` + recordColumns

	r, err := scanRecord(s.pool.QueryRow(ctx, query,
		string(kind), key, string(st),
		c.TxHash.StringLE(), int64(c.Block), int64(c.LogIndex), int64(c.LedgerID),
	))
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("updating record status: %w", err)
	}

	return s.Get(ctx, kind, key)
}

func (s *Store) MarkInvoicePaid(ctx context.Context, ledgerID uint64) error {
	query := `
		UPDATE mirror_records
		SET paid = TRUE, updated_at = CASE WHEN paid THEN updated_at ELSE NOW() END
		WHERE kind = $1 AND ledger_id = $2`

	tag, err := s.pool.Exec(ctx, query, string(mirror.KindInvoice), int64(ledgerID))
	if err != nil {
		return fmt.Errorf("marking invoice paid: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return mirror.ErrNotFound
	}

	return nil
}

func (s *Store) PutTotals(ctx context.Context, t mirror.Totals) error {
	query := `
		INSERT INTO mirror_totals (seller, tax_base, vat_paid, updated_at)
		VALUES ($1, $2::TEXT::NUMERIC, $3::TEXT::NUMERIC, NOW())
		ON CONFLICT (seller) DO UPDATE SET
			tax_base = GREATEST(mirror_totals.tax_base, EXCLUDED.tax_base),
			vat_paid = GREATEST(mirror_totals.vat_paid, EXCLUDED.vat_paid),
			updated_at = NOW()`

	_, err := s.pool.Exec(ctx, query, t.Seller, numeric(t.TaxBase), numeric(t.VATPaid))
	if err != nil {
		return fmt.Errorf("saving totals: %w", err)
	}

	return nil
}

func (s *Store) Totals(ctx context.Context, seller string) (*mirror.Totals, error) {
	query := `SELECT seller, tax_base::TEXT, vat_paid::TEXT FROM mirror_totals WHERE seller = $1`

	var (
		t                mirror.Totals
		taxBase, vatPaid string
	)
	err := s.pool.QueryRow(ctx, query, seller).Scan(&t.Seller, &taxBase, &vatPaid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mirror.ErrNotFound
		}
		return nil, fmt.Errorf("getting totals: %w", err)
	}

	var ok bool
	if t.TaxBase, ok = new(big.Int).SetString(taxBase, 10); !ok {
		return nil, fmt.Errorf("invalid tax base %q", taxBase)
	}
	if t.VATPaid, ok = new(big.Int).SetString(vatPaid, 10); !ok {
		return nil, fmt.Errorf("invalid VAT paid %q", vatPaid)
	}

	return &t, nil
}

// numeric formats accumulator as a decimal string, nil is zero.
func numeric(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func (s *Store) Cursor(ctx context.Context) (uint32, error) {
	var h int64
	err := s.pool.QueryRow(ctx, `SELECT height FROM mirror_cursor`).Scan(&h)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, mirror.ErrNotFound
		}
		return 0, fmt.Errorf("getting cursor: %w", err)
	}

	return uint32(h), nil
}

func (s *Store) SetCursor(ctx context.Context, height uint32) error {
	query := `
		INSERT INTO mirror_cursor (id, height) VALUES (TRUE, $1)
		ON CONFLICT (id) DO UPDATE SET height = EXCLUDED.height`

	if _, err := s.pool.Exec(ctx, query, int64(height)); err != nil {
		return fmt.Errorf("saving cursor: %w", err)
	}

	return nil
}
