package pgstore

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"github.com/tunichain/tunichain-contract/mirror"
)

// newStore connects to the database pointed by TUNICHAIN_TEST_PG_DSN and
// clears mirror tables. Tests are skipped when the variable is not set.
func newStore(t *testing.T) *Store {
	dsn := os.Getenv("TUNICHAIN_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TUNICHAIN_TEST_PG_DSN is not set")
	}

	ctx := context.Background()

	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := New(pool)
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx), "migration must be repeatable")

	_, err = pool.Exec(ctx, `TRUNCATE mirror_records, mirror_totals, mirror_cursor`)
	require.NoError(t, err)

	return s
}

func TestStore_Draft(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Get(ctx, mirror.KindInvoice, "aa")
	require.ErrorIs(t, err, mirror.ErrNotFound)

	r, err := s.CreateDraft(ctx, mirror.KindInvoice, "aa", json.RawMessage(`{"number": "F-1"}`))
	require.NoError(t, err)
	require.Equal(t, mirror.StatusPending, r.Status)
	require.Nil(t, r.Confirmation)
	require.JSONEq(t, `{"number":"F-1"}`, string(r.Payload))

	_, err = s.CreateDraft(ctx, mirror.KindInvoice, "aa", nil)
	require.ErrorIs(t, err, mirror.ErrDraftExists)

	r2, err := s.CreateDraft(ctx, mirror.KindPayment, "aa", nil)
	require.NoError(t, err)
	require.Nil(t, r2.Payload)

	got, err := s.Get(ctx, mirror.KindInvoice, "aa")
	require.NoError(t, err)
	require.Equal(t, r.ID, got.ID)
}

func TestStore_Confirm(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	pos := mirror.Confirmation{TxHash: util.Uint256{1, 2, 3}, Block: 10, LogIndex: 2, LedgerID: 7}

	_, err := s.Confirm(ctx, mirror.KindInvoice, "aa", pos)
	require.ErrorIs(t, err, mirror.ErrNotFound)

	_, err = s.CreateDraft(ctx, mirror.KindInvoice, "aa", nil)
	require.NoError(t, err)

	r, err := s.Confirm(ctx, mirror.KindInvoice, "aa", pos)
	require.NoError(t, err)
	require.Equal(t, mirror.StatusConfirmed, r.Status)
	require.Equal(t, pos, *r.Confirmation)

	again, err := s.Confirm(ctx, mirror.KindInvoice, "aa", pos)
	require.NoError(t, err)
	require.True(t, r.UpdatedAt.Equal(again.UpdatedAt))

	old := pos
	old.Block--
	got, err := s.Revoke(ctx, mirror.KindInvoice, "aa", old)
	require.NoError(t, err)
	require.Equal(t, mirror.StatusConfirmed, got.Status)

	next := pos
	next.LogIndex++
	got, err = s.Revoke(ctx, mirror.KindInvoice, "aa", next)
	require.NoError(t, err)
	require.Equal(t, mirror.StatusRevoked, got.Status)
	require.Equal(t, next, *got.Confirmation)
}

func TestStore_MarkInvoicePaid(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.ErrorIs(t, s.MarkInvoicePaid(ctx, 1), mirror.ErrNotFound)

	_, err := s.CreateDraft(ctx, mirror.KindInvoice, "aa", nil)
	require.NoError(t, err)
	_, err = s.Confirm(ctx, mirror.KindInvoice, "aa", mirror.Confirmation{Block: 1, LedgerID: 1})
	require.NoError(t, err)

	require.NoError(t, s.MarkInvoicePaid(ctx, 1))
	require.NoError(t, s.MarkInvoicePaid(ctx, 1))

	r, err := s.Get(ctx, mirror.KindInvoice, "aa")
	require.NoError(t, err)
	require.True(t, r.Paid)
}

func TestStore_Totals(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Totals(ctx, "seller")
	require.ErrorIs(t, err, mirror.ErrNotFound)

	big64 := new(big.Int).Lsh(big.NewInt(1), 64)
	require.NoError(t, s.PutTotals(ctx, mirror.Totals{Seller: "seller", TaxBase: big.NewInt(1000)}))
	require.NoError(t, s.PutTotals(ctx, mirror.Totals{Seller: "seller", VATPaid: big.NewInt(190)}))
	require.NoError(t, s.PutTotals(ctx, mirror.Totals{Seller: "seller", TaxBase: big.NewInt(500)}))
	require.NoError(t, s.PutTotals(ctx, mirror.Totals{Seller: "other", TaxBase: big64}))

	tt, err := s.Totals(ctx, "seller")
	require.NoError(t, err)
	require.Equal(t, "seller", tt.Seller)
	require.Equal(t, "1000", tt.TaxBase.String())
	require.Equal(t, "190", tt.VATPaid.String())

	tt, err = s.Totals(ctx, "other")
	require.NoError(t, err)
	require.Equal(t, "18446744073709551616", tt.TaxBase.String())
	require.Equal(t, "0", tt.VATPaid.String())
}

func TestStore_Cursor(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Cursor(ctx)
	require.ErrorIs(t, err, mirror.ErrNotFound)

	require.NoError(t, s.SetCursor(ctx, 5))
	require.NoError(t, s.SetCursor(ctx, 6))

	h, err := s.Cursor(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 6, h)
}
