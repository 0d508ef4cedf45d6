// ABOUTME: Subscription handle owning one consumer's delivery goroutine
// ABOUTME: Queues results in order and stops cleanly on Close
package watch

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription receives query results on C until Close is called.
// Results arrive in publish order and none are dropped.
type Subscription[T any] struct {
	hub   *Hub
	key   string
	subID string
	clone func(T) T

	out    chan T
	notify chan struct{}
	done   chan struct{}
	exited chan struct{}

	mu      sync.Mutex
	pending []T

	closeOnce sync.Once
}

func newSubscription[T any](h *Hub, key string, clone func(T) T) *Subscription[T] {
	s := &Subscription[T]{
		hub:    h,
		key:    key,
		subID:  uuid.New().String(),
		clone:  clone,
		out:    make(chan T),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go s.pump()
	return s
}

// C returns the channel results are delivered on. It is closed after Close.
func (s *Subscription[T]) C() <-chan T {
	return s.out
}

// Key returns the query key this subscription is bound to.
func (s *Subscription[T]) Key() string {
	return s.key
}

// ID returns the unique subscription identifier.
func (s *Subscription[T]) ID() string {
	return s.subID
}

// Close unregisters the subscription and waits for its delivery goroutine to stop.
// Nothing is delivered after Close returns. Calling Close more than once is safe.
func (s *Subscription[T]) Close() {
	s.hub.remove(s.key, s.subID)
	s.shutdown()
}

func (s *Subscription[T]) id() string {
	return s.subID
}

func (s *Subscription[T]) deliver(value any) {
	s.push(value.(T))
}

// push queues value, copied first when the subscription owns its values.
func (s *Subscription[T]) push(value T) {
	if s.clone != nil {
		value = s.clone(value)
	}

	s.mu.Lock()
	s.pending = append(s.pending, value)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Subscription[T]) shutdown() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	<-s.exited
}

func (s *Subscription[T]) next() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if len(s.pending) == 0 {
		return zero, false
	}
	value := s.pending[0]
	s.pending[0] = zero
	s.pending = s.pending[1:]
	return value, true
}

// pump forwards queued values to out so publishers never block on a slow reader.
func (s *Subscription[T]) pump() {
	defer close(s.exited)
	defer close(s.out)

	for {
		select {
		case <-s.done:
			return
		case <-s.notify:
		}

		for {
			value, ok := s.next()
			if !ok {
				break
			}
			select {
			case s.out <- value:
			case <-s.done:
				return
			}
		}
	}
}
