// ABOUTME: Detection of writes made by other processes sharing the database file
// ABOUTME: Polls SQLite's data_version and refreshes live queries when it moves
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval is returned by FollowExternalWrites for a non-positive interval.
var ErrInvalidInterval = errors.New("poll interval must be positive")

// follower is one FollowExternalWrites loop. Its fields are guarded by Store.mu.
type follower struct {
	conn *sql.Conn
	last int64
}

// sync reads the connection's data_version and reports whether it moved.
func (f *follower) sync(ctx context.Context) (bool, error) {
	var current int64
	if err := f.conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&current); err != nil {
		return false, err
	}
	changed := current != f.last
	f.last = current
	return changed, nil
}

// FollowExternalWrites blocks until ctx is done, re-evaluating every live query
// whenever another process commits to the database file. Writes made through this
// Store move every follower's data_version mark while still holding the write lock,
// so they are published once by the write and never again by the poll.
func (s *Store) FollowExternalWrites(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("follow external writes: %w: %s", ErrInvalidInterval, interval)
	}

	// data_version is per connection, so the poller keeps one for itself
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("follow external writes: %w", err)
	}
	defer func() { _ = conn.Close() }()

	f := &follower{conn: conn}

	s.mu.Lock()
	if _, err := f.sync(ctx); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("follow external writes: %w", err)
	}
	s.followers[f] = struct{}{}
	// Covers writes that landed between subscribing and starting to follow
	s.hub.Publish(context.WithoutCancel(ctx))
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.followers, f)
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := s.pollFollower(ctx, f); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Warn("data version poll failed", "err", err)
		}
	}
}

func (s *Store) pollFollower(ctx context.Context, f *follower) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := f.sync(ctx)
	if err != nil || !changed {
		return err
	}
	s.logger.Debug("external write detected", "data_version", f.last)
	s.hub.Publish(context.WithoutCancel(ctx))
	return nil
}

// syncFollowers absorbs this store's own commit into every follower's mark.
// Callers hold the write lock.
func (s *Store) syncFollowers(ctx context.Context) {
	for f := range s.followers {
		if _, err := f.sync(ctx); err != nil {
			s.logger.Warn("data version resync failed", "err", err)
		}
	}
}
