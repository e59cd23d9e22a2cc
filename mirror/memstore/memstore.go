// Package memstore provides in-memory mirror.Store.
package memstore

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tunichain/tunichain-contract/mirror"
)

type recordKey struct {
	kind mirror.Kind
	key  string
}

// Store is a mirror.Store keeping all records in memory.
type Store struct {
	mtx     sync.RWMutex
	records map[recordKey]*mirror.Record
	totals  map[string]mirror.Totals
	cursor  *uint32

	now func() time.Time
}

var _ mirror.Store = (*Store)(nil)

// New returns empty Store.
func New() *Store {
	return &Store{
		records: make(map[recordKey]*mirror.Record),
		totals:  make(map[string]mirror.Totals),
		now:     time.Now,
	}
}

func (s *Store) CreateDraft(_ context.Context, kind mirror.Kind, key string, payload json.RawMessage) (*mirror.Record, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	k := recordKey{kind, key}
	if _, ok := s.records[k]; ok {
		return nil, mirror.ErrDraftExists
	}

	now := s.now().UTC()
	r := &mirror.Record{
		ID:        uuid.New(),
		Kind:      kind,
		Key:       key,
		Status:    mirror.StatusPending,
		Payload:   slices.Clone(payload),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.records[k] = r

	return copyRecord(r), nil
}

func (s *Store) Get(_ context.Context, kind mirror.Kind, key string) (*mirror.Record, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	r, ok := s.records[recordKey{kind, key}]
	if !ok {
		return nil, mirror.ErrNotFound
	}
	return copyRecord(r), nil
}

func (s *Store) Confirm(_ context.Context, kind mirror.Kind, key string, c mirror.Confirmation) (*mirror.Record, error) {
	return s.apply(kind, key, mirror.StatusConfirmed, c)
}

func (s *Store) Revoke(_ context.Context, kind mirror.Kind, key string, c mirror.Confirmation) (*mirror.Record, error) {
	return s.apply(kind, key, mirror.StatusRevoked, c)
}

func (s *Store) apply(kind mirror.Kind, key string, st mirror.Status, c mirror.Confirmation) (*mirror.Record, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	r, ok := s.records[recordKey{kind, key}]
	if !ok {
		return nil, mirror.ErrNotFound
	}

	if r.Confirmation != nil && !r.Confirmation.Before(c) {
		return copyRecord(r), nil
	}

	r.Status = st
	r.Confirmation = &c
	r.UpdatedAt = s.now().UTC()

	return copyRecord(r), nil
}

func (s *Store) MarkInvoicePaid(_ context.Context, ledgerID uint64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for k, r := range s.records {
		if k.kind != mirror.KindInvoice || r.Confirmation == nil || r.Confirmation.LedgerID != ledgerID {
			continue
		}
		if !r.Paid {
			r.Paid = true
			r.UpdatedAt = s.now().UTC()
		}
		return nil
	}

	return mirror.ErrNotFound
}

func (s *Store) PutTotals(_ context.Context, t mirror.Totals) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	cur := s.totals[t.Seller]
	cur.Seller = t.Seller
	s.totals[t.Seller] = cur.Merge(t)

	return nil
}

func (s *Store) Totals(_ context.Context, seller string) (*mirror.Totals, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.totals[seller]
	if !ok {
		return nil, mirror.ErrNotFound
	}

	res := mirror.Totals{Seller: t.Seller}.Merge(t)
	return &res, nil
}

func (s *Store) Cursor(context.Context) (uint32, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.cursor == nil {
		return 0, mirror.ErrNotFound
	}
	return *s.cursor, nil
}

func (s *Store) SetCursor(_ context.Context, height uint32) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.cursor = &height
	return nil
}

func copyRecord(r *mirror.Record) *mirror.Record {
	res := *r
	res.Payload = slices.Clone(r.Payload)
	if r.Confirmation != nil {
		c := *r.Confirmation
		res.Confirmation = &c
	}
	return &res
}
