// ABOUTME: Publish/subscribe hub for live query results
// ABOUTME: One subject per query key, re-evaluated and fanned out after every write
package watch

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// ErrHubClosed is returned when subscribing to a hub that has been shut down.
var ErrHubClosed = errors.New("watch hub closed")

// subscriber is the type-erased side of a Subscription.
type subscriber interface {
	id() string
	deliver(value any)
	shutdown()
}

// subject holds the subscribers of one query and the evaluator they share.
type subject struct {
	key       string
	eval      func(ctx context.Context) (any, error)
	last      any
	hasLast   bool
	listeners map[string]subscriber
}

// Stats counts hub activity.
type Stats struct {
	Publishes   uint64
	Emissions   uint64
	EvalFailure uint64
}

// Hub fans query results out to subscribers. It never reads storage on its own:
// evaluation happens inside Subscribe and Publish, whose callers are responsible
// for holding whatever lock makes the read consistent.
type Hub struct {
	mu       sync.Mutex
	subjects map[string]*subject
	closed   bool

	publishes   atomic.Uint64
	emissions   atomic.Uint64
	evalFailure atomic.Uint64

	logger *log.Logger
}

// NewHub creates an empty hub. A nil logger discards hub logs.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		subjects: make(map[string]*subject),
		logger:   logger.WithPrefix("watch"),
	}
}

// Subscribe evaluates the query under key, queues the result as the first value and
// registers the subscription for every later Publish. All subscriptions to one key
// must use equivalent evaluators; the first registered one is used for publishing.
// Every subscriber of a key receives the same value, so T should be immutable; use
// SubscribeSlice for slice results.
func Subscribe[T any](ctx context.Context, h *Hub, key string, eval func(ctx context.Context) (T, error)) (*Subscription[T], error) {
	return subscribe(ctx, h, key, eval, nil)
}

// SubscribeSlice is Subscribe for slice results. Each delivery is a shallow copy,
// so a subscriber may sort or edit its slice without affecting anyone else.
func SubscribeSlice[S ~[]E, E any](ctx context.Context, h *Hub, key string, eval func(ctx context.Context) (S, error)) (*Subscription[S], error) {
	return subscribe(ctx, h, key, eval, func(v S) S { return slices.Clone(v) })
}

func subscribe[T any](ctx context.Context, h *Hub, key string, eval func(ctx context.Context) (T, error), clone func(T) T) (*Subscription[T], error) {
	initial, err := eval(ctx)
	if err != nil {
		return nil, err
	}

	sub := newSubscription(h, key, clone)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.shutdown()
		return nil, ErrHubClosed
	}
	subj, ok := h.subjects[key]
	if !ok {
		subj = &subject{
			key: key,
			eval: func(ctx context.Context) (any, error) {
				return eval(ctx)
			},
			listeners: make(map[string]subscriber),
		}
		h.subjects[key] = subj
	}
	subj.last = initial
	subj.hasLast = true
	subj.listeners[sub.id()] = sub
	sub.push(initial)
	h.mu.Unlock()

	h.emissions.Add(1)
	h.logger.Debug("subscribed", "key", key, "subscription", sub.id())

	return sub, nil
}

// Publish re-evaluates every subject with at least one subscriber and delivers the
// result to each of them, whether or not it changed. When evaluation fails the
// subscribers get the last good value again instead of a broken result.
func (h *Hub) Publish(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.publishes.Add(1)

	for _, subj := range h.subjects {
		value, err := subj.eval(ctx)
		if err != nil {
			h.evalFailure.Add(1)
			h.logger.Warn("recompute failed, re-sending last result", "key", subj.key, "err", err)
			if !subj.hasLast {
				continue
			}
			value = subj.last
		} else {
			subj.last = value
			subj.hasLast = true
		}
		for _, l := range subj.listeners {
			l.deliver(value)
			h.emissions.Add(1)
		}
	}
}

// Len reports the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, subj := range h.subjects {
		n += len(subj.listeners)
	}
	return n
}

// Stats returns a snapshot of the hub counters.
func (h *Hub) Stats() Stats {
	return Stats{
		Publishes:   h.publishes.Load(),
		Emissions:   h.emissions.Load(),
		EvalFailure: h.evalFailure.Load(),
	}
}

// Close ends every subscription and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	var subs []subscriber
	for _, subj := range h.subjects {
		for _, l := range subj.listeners {
			subs = append(subs, l)
		}
	}
	h.subjects = make(map[string]*subject)
	h.mu.Unlock()

	// Outside the lock: shutdown waits for pumps, and pumps never take h.mu
	for _, s := range subs {
		s.shutdown()
	}
	h.logger.Debug("hub closed", "subscriptions", len(subs))
}

// remove drops a subscription, and its subject once nobody listens any more.
func (h *Hub) remove(key, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subj, ok := h.subjects[key]
	if !ok {
		return
	}
	delete(subj.listeners, id)
	if len(subj.listeners) == 0 {
		delete(h.subjects, key)
	}
}
