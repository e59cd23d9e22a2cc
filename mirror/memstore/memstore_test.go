package memstore

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"github.com/tunichain/tunichain-contract/mirror"
)

func TestDraft(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Get(ctx, mirror.KindInvoice, "aa")
	require.ErrorIs(t, err, mirror.ErrNotFound)

	r, err := s.CreateDraft(ctx, mirror.KindInvoice, "aa", json.RawMessage(`{"number":"F-1"}`))
	require.NoError(t, err)
	require.Equal(t, mirror.StatusPending, r.Status)
	require.Nil(t, r.Confirmation)

	_, err = s.CreateDraft(ctx, mirror.KindInvoice, "aa", nil)
	require.ErrorIs(t, err, mirror.ErrDraftExists)

	// same key of another kind is a different record
	_, err = s.CreateDraft(ctx, mirror.KindPayment, "aa", nil)
	require.NoError(t, err)

	got, err := s.Get(ctx, mirror.KindInvoice, "aa")
	require.NoError(t, err)
	require.Equal(t, r, got)

	got.Payload[0] = 'x'
	got, err = s.Get(ctx, mirror.KindInvoice, "aa")
	require.NoError(t, err)
	require.JSONEq(t, `{"number":"F-1"}`, string(got.Payload))
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	s := New()

	pos := mirror.Confirmation{TxHash: util.Uint256{1}, Block: 10, LogIndex: 2, LedgerID: 7}

	_, err := s.Confirm(ctx, mirror.KindInvoice, "aa", pos)
	require.ErrorIs(t, err, mirror.ErrNotFound)
	_, err = s.Get(ctx, mirror.KindInvoice, "aa")
	require.ErrorIs(t, err, mirror.ErrNotFound)

	_, err = s.CreateDraft(ctx, mirror.KindInvoice, "aa", nil)
	require.NoError(t, err)

	r, err := s.Confirm(ctx, mirror.KindInvoice, "aa", pos)
	require.NoError(t, err)
	require.Equal(t, mirror.StatusConfirmed, r.Status)
	require.Equal(t, pos, *r.Confirmation)

	t.Run("redelivery", func(t *testing.T) {
		again, err := s.Confirm(ctx, mirror.KindInvoice, "aa", pos)
		require.NoError(t, err)
		require.Equal(t, r, again)
	})

	t.Run("older position", func(t *testing.T) {
		old := pos
		old.Block--
		old.TxHash = util.Uint256{2}
		got, err := s.Revoke(ctx, mirror.KindInvoice, "aa", old)
		require.NoError(t, err)
		require.Equal(t, mirror.StatusConfirmed, got.Status)
		require.Equal(t, pos, *got.Confirmation)
	})

	t.Run("newer position", func(t *testing.T) {
		next := pos
		next.LogIndex++
		got, err := s.Revoke(ctx, mirror.KindInvoice, "aa", next)
		require.NoError(t, err)
		require.Equal(t, mirror.StatusRevoked, got.Status)
		require.Equal(t, next, *got.Confirmation)
	})
}

func TestMarkInvoicePaid(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.ErrorIs(t, s.MarkInvoicePaid(ctx, 1), mirror.ErrNotFound)

	_, err := s.CreateDraft(ctx, mirror.KindInvoice, "aa", nil)
	require.NoError(t, err)
	require.ErrorIs(t, s.MarkInvoicePaid(ctx, 1), mirror.ErrNotFound, "pending invoice has no ledger id")

	_, err = s.Confirm(ctx, mirror.KindInvoice, "aa", mirror.Confirmation{Block: 1, LedgerID: 1})
	require.NoError(t, err)

	require.NoError(t, s.MarkInvoicePaid(ctx, 1))
	require.NoError(t, s.MarkInvoicePaid(ctx, 1))

	r, err := s.Get(ctx, mirror.KindInvoice, "aa")
	require.NoError(t, err)
	require.True(t, r.Paid)
}

func TestTotals(t *testing.T) {
	ctx := context.Background()
	s := New()

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

	tt.TaxBase.SetInt64(1)
	tt, err = s.Totals(ctx, "seller")
	require.NoError(t, err)
	require.Equal(t, "1000", tt.TaxBase.String())

	tt, err = s.Totals(ctx, "other")
	require.NoError(t, err)
	require.Equal(t, "18446744073709551616", tt.TaxBase.String())
	require.Equal(t, "0", tt.VATPaid.String())
}

func TestCursor(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Cursor(ctx)
	require.ErrorIs(t, err, mirror.ErrNotFound)

	require.NoError(t, s.SetCursor(ctx, 0))
	h, err := s.Cursor(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, h)

	require.NoError(t, s.SetCursor(ctx, 42))
	h, err = s.Cursor(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 42, h)
}
