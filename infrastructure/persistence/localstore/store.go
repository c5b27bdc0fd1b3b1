// Package localstore is the canonical record store: an in-memory, ordered,
// owner-keyed collection that synchronously writes the full collection back
// to a local SQLite file on every mutation. The in-memory state is
// authoritative for the session; the file exists so nothing is lost on
// restart even when the remote mirror never catches up.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
)

// Store implements ports.RecordStore and ports.UsageStore.
type Store struct {
	mu      sync.Mutex
	byOwner map[string][]*application.Record
	loaded  map[string]bool
	db      *sql.DB
	logger  *zap.Logger
}

// NewStore creates a store on top of an opened SQLite handle.
func NewStore(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{
		byOwner: make(map[string][]*application.Record),
		loaded:  make(map[string]bool),
		db:      db,
		logger:  logger,
	}
}

// Load restores the owner's collection from the durable surface. Missing or
// corrupt data loads as an empty collection; corruption is logged, never
// surfaced.
func (s *Store) Load(ctx context.Context, ownerID string) ([]*application.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx, ownerID)
	return cloneAll(s.byOwner[ownerID]), nil
}

// loadLocked reads the owner's stored collection into memory regardless of
// what is already there.
func (s *Store) loadLocked(ctx context.Context, ownerID string) {
	s.loaded[ownerID] = true

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM record_collections WHERE owner_key = ?`, ownerID,
	).Scan(&payload)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.byOwner[ownerID] = nil
		return
	case err != nil:
		s.logger.Warn("Loading stored collection failed, starting empty",
			zap.String("ownerID", ownerID), zap.Error(err))
		s.byOwner[ownerID] = nil
		return
	}

	var records []*application.Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		s.logger.Warn("Stored collection is malformed, starting empty",
			zap.String("ownerID", ownerID), zap.Error(err))
		records = nil
	}
	s.byOwner[ownerID] = records
}

// ensureLoadedLocked lazily restores an owner's collection the first time
// any accessor touches it after startup.
func (s *Store) ensureLoadedLocked(ctx context.Context, ownerID string) {
	if !s.loaded[ownerID] {
		s.loadLocked(ctx, ownerID)
	}
}

// ReplaceAll overwrites the owner's whole collection. Used on login, logout
// and owner switch so one account's state never bleeds into another's.
func (s *Store) ReplaceAll(ctx context.Context, ownerID string, records []*application.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded[ownerID] = true
	s.byOwner[ownerID] = cloneAll(records)
	s.persistLocked(ctx, ownerID)
	return nil
}

// Upsert inserts or replaces one record, keeping insertion order, then
// persists the full collection before returning.
func (s *Store) Upsert(ctx context.Context, record *application.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoadedLocked(ctx, record.OwnerID)

	list := s.byOwner[record.OwnerID]
	replaced := false
	for i, r := range list {
		if r.ID == record.ID {
			list[i] = record.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, record.Clone())
	}
	s.byOwner[record.OwnerID] = list

	s.persistLocked(ctx, record.OwnerID)
	return nil
}

// Update applies mutate to the stored record while holding the store lock,
// then persists. The lock spans the read, the mutation, and the write-back,
// so a delete or a competing mutation never lands in between. Unknown ids
// report false without calling mutate; a mutate error discards the change.
func (s *Store) Update(ctx context.Context, ownerID, id string, mutate func(*application.Record) error) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoadedLocked(ctx, ownerID)

	list := s.byOwner[ownerID]
	for i, r := range list {
		if r.ID == id {
			next := r.Clone()
			if err := mutate(next); err != nil {
				return true, err
			}
			list[i] = next
			s.persistLocked(ctx, ownerID)
			return true, nil
		}
	}
	return false, nil
}

// Remove deletes a record by id. Unknown ids leave the collection unchanged
// and report false.
func (s *Store) Remove(ctx context.Context, ownerID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoadedLocked(ctx, ownerID)

	list := s.byOwner[ownerID]
	for i, r := range list {
		if r.ID == id {
			s.byOwner[ownerID] = append(list[:i], list[i+1:]...)
			s.persistLocked(ctx, ownerID)
			return true, nil
		}
	}
	return false, nil
}

// Get returns a deep copy of one record.
func (s *Store) Get(ctx context.Context, ownerID, id string) (*application.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoadedLocked(ctx, ownerID)

	for _, r := range s.byOwner[ownerID] {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return nil, false
}

// List returns deep copies of the owner's records in insertion order.
func (s *Store) List(ctx context.Context, ownerID string) []*application.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoadedLocked(ctx, ownerID)

	return cloneAll(s.byOwner[ownerID])
}

// Count reports how many records the owner currently tracks.
func (s *Store) Count(ctx context.Context, ownerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoadedLocked(ctx, ownerID)

	return len(s.byOwner[ownerID])
}

// AIScansUsed reads the owner's monotonic scan counter.
func (s *Store) AIScansUsed(ctx context.Context, ownerID string) (int, error) {
	var used int
	err := s.db.QueryRowContext(ctx,
		`SELECT ai_scans_used FROM usage_counters WHERE owner_key = ?`, ownerID,
	).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return used, nil
}

// IncrementAIScans bumps the scan counter by one. Never decremented.
func (s *Store) IncrementAIScans(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO usage_counters (owner_key, ai_scans_used) VALUES (?, 1)
ON CONFLICT(owner_key) DO UPDATE SET ai_scans_used = ai_scans_used + 1`,
		ownerID,
	)
	return err
}

// persistLocked writes the owner's full collection to the durable surface.
// A failure here is logged and swallowed: the in-memory collection remains
// authoritative and the mutation still succeeds for the caller.
func (s *Store) persistLocked(ctx context.Context, ownerID string) {
	payload, err := json.Marshal(s.byOwner[ownerID])
	if err != nil {
		s.logger.Error("Serializing collection failed, durability degraded",
			zap.String("ownerID", ownerID), zap.Error(err))
		return
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO record_collections (owner_key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(owner_key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		ownerID, string(payload),
	)
	if err != nil {
		s.logger.Error("Persisting collection failed, durability degraded",
			zap.String("ownerID", ownerID), zap.Error(err))
	}
}

func cloneAll(records []*application.Record) []*application.Record {
	out := make([]*application.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
