// ABOUTME: Live query subscriptions over the symptom store
// ABOUTME: Each watch delivers the current result, then one result per committed write
package store

import (
	"context"

	"github.com/harper/symptomlog/internal/db"
	"github.com/harper/symptomlog/internal/watch"
)

// WatchAllEntries subscribes to the ordered entry list.
func (s *Store) WatchAllEntries(ctx context.Context) (*watch.Subscription[[]db.Entry], error) {
	return subscribe(ctx, s, keyEntries, func(ctx context.Context) ([]db.Entry, error) {
		return db.ListEntries(ctx, s.db)
	})
}

// WatchDistinctBodyParts subscribes to the set of known body parts.
func (s *Store) WatchDistinctBodyParts(ctx context.Context) (*watch.Subscription[[]string], error) {
	return subscribe(ctx, s, keyBodyParts, func(ctx context.Context) ([]string, error) {
		return db.DistinctBodyParts(ctx, s.db)
	})
}

// WatchDistinctMedications subscribes to the set of known medications.
func (s *Store) WatchDistinctMedications(ctx context.Context) (*watch.Subscription[[]string], error) {
	return subscribe(ctx, s, keyMedications, func(ctx context.Context) ([]string, error) {
		return db.DistinctMedications(ctx, s.db)
	})
}

// WatchDosagesForMedication subscribes to the dosages of one medication. The
// medication is fixed for the lifetime of the subscription.
func (s *Store) WatchDosagesForMedication(ctx context.Context, medication string) (*watch.Subscription[[]string], error) {
	return subscribe(ctx, s, keyDosagesPfx+medication, func(ctx context.Context) ([]string, error) {
		return db.DosagesForMedication(ctx, s.db, medication)
	})
}

// subscribe registers under the read lock so no write can commit between the
// initial evaluation and registration. eval runs without taking locks itself:
// later evaluations happen inside write, which already holds the write lock.
// Every subscriber gets its own copy of the result slice.
func subscribe[E any](ctx context.Context, s *Store, key string, eval func(ctx context.Context) ([]E, error)) (*watch.Subscription[[]E], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return watch.SubscribeSlice(ctx, s.hub, key, eval)
}
