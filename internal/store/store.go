// ABOUTME: Symptom store owning the database and the live query hub
// ABOUTME: Serializes writes, publishes after commit and exposes known-value views
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/symptomlog/internal/db"
	"github.com/harper/symptomlog/internal/watch"
)

// Query keys used by the hub.
const (
	keyEntries     = "entries"
	keyBodyParts   = "body_parts"
	keyMedications = "medications"
	keyDosagesPfx  = "dosages:"
)

// Store is the data layer of the journal. Writes are serialized with each other and
// with the recomputation of live queries; reads may run concurrently.
type Store struct {
	mu  sync.RWMutex
	db  *sql.DB
	hub *watch.Hub

	// followers are the active FollowExternalWrites loops
	followers map[*follower]struct{}

	now    func() time.Time
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used by the store and its hub.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock sets the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens (or creates) the store at dbPath. Failures wrap db.ErrStorageUnavailable.
func Open(dbPath string, opts ...Option) (*Store, error) {
	s := &Store{
		followers: make(map[*follower]struct{}),
		now:       time.Now,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	database, reset, err := db.InitDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if reset {
		s.logger.Warn("schema version changed, existing entries were discarded",
			"path", dbPath, "version", db.SchemaVersion)
	}

	s.db = database
	s.hub = watch.NewHub(s.logger)
	s.logger.Debug("store opened", "path", dbPath)

	return s, nil
}

// Close ends all subscriptions and closes the database.
func (s *Store) Close() error {
	s.hub.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// InsertEntry stores entry, stamping a fresh ID and CreatedAt, and returns the ID.
// The store does not validate field contents.
func (s *Store) InsertEntry(ctx context.Context, entry db.Entry) (int64, error) {
	var id int64
	err := s.write(ctx, func(ctx context.Context) error {
		var err error
		id, err = db.InsertEntry(ctx, s.db, entry, s.now().UnixMilli())
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("entry inserted", "id", id)
	return id, nil
}

// DeleteEntry removes one entry. Deleting an unknown ID succeeds without effect.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	var deleted bool
	err := s.write(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = db.DeleteEntry(ctx, s.db, id)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Debug("entry deleted", "id", id, "existed", deleted)
	return nil
}

// DeleteEntriesByBodyPart removes every entry tagged with bodyPart and returns how
// many were removed. Either all of them go or none do.
func (s *Store) DeleteEntriesByBodyPart(ctx context.Context, bodyPart string) (int64, error) {
	return s.deleteWhere(ctx, db.FieldBodyPart, bodyPart)
}

// DeleteEntriesByMedication removes every entry recorded with medication.
func (s *Store) DeleteEntriesByMedication(ctx context.Context, medication string) (int64, error) {
	return s.deleteWhere(ctx, db.FieldMedication, medication)
}

func (s *Store) deleteWhere(ctx context.Context, field db.Field, value string) (int64, error) {
	var removed int64
	err := s.write(ctx, func(ctx context.Context) error {
		var err error
		removed, err = db.DeleteEntriesWhere(ctx, s.db, field, value)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("cascading delete", "field", string(field), "value", value, "removed", removed)
	return removed, nil
}

// write runs fn under the write lock and, once it committed, re-evaluates every
// live query before the lock is released. A write that started is never cancelled.
func (s *Store) write(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.logger.Error("write failed", "err", err)
		return err
	}

	s.syncFollowers(ctx)
	s.hub.Publish(ctx)
	return nil
}

// ListEntries returns a snapshot of all entries, latest event first.
func (s *Store) ListEntries(ctx context.Context) ([]db.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return db.ListEntries(ctx, s.db)
}

// GetEntry returns the entry with the given ID, found is false if there is none.
func (s *Store) GetEntry(ctx context.Context, id int64) (db.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return db.GetEntry(ctx, s.db, id)
}

// CountEntries returns the number of stored entries.
func (s *Store) CountEntries(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return db.CountEntries(ctx, s.db)
}

// DistinctBodyParts returns every body part used by at least one entry.
func (s *Store) DistinctBodyParts(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return db.DistinctBodyParts(ctx, s.db)
}

// DistinctMedications returns every medication used by at least one entry.
func (s *Store) DistinctMedications(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return db.DistinctMedications(ctx, s.db)
}

// DosagesForMedication returns the dosages recorded with exactly this medication.
func (s *Store) DosagesForMedication(ctx context.Context, medication string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return db.DosagesForMedication(ctx, s.db, medication)
}

// Stats returns the live query hub counters.
func (s *Store) Stats() watch.Stats {
	return s.hub.Stats()
}
