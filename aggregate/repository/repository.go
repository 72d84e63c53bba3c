// Package repository loads aggregates from an event.Store, lets commands act
// on them and appends the resulting events.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/event"
	"go.uber.org/zap"
)

// Repository is the aggregate repository. It reconstructs aggregates from
// their event streams and appends recorded changes with optimistic
// concurrency.
type Repository struct {
	store      event.Store
	bus        event.Bus
	log        *zap.Logger
	maxRetries uint64
	interval   time.Duration
}

// Option is a repository option.
type Option func(*Repository)

// WithBus returns an Option that publishes appended events over bus. Publish
// failures are logged; the events are already committed at that point.
func WithBus(bus event.Bus) Option {
	return func(r *Repository) {
		r.bus = bus
	}
}

// Logger returns an Option that sets the logger of the repository.
func Logger(log *zap.Logger) Option {
	return func(r *Repository) {
		r.log = log
	}
}

// MaxRetries returns an Option that limits how often a Use call is retried
// after a version conflict. Defaults to 3.
func MaxRetries(n uint64) Option {
	return func(r *Repository) {
		r.maxRetries = n
	}
}

// RetryInterval returns an Option that sets the initial backoff interval
// between retries. Defaults to 50ms.
func RetryInterval(d time.Duration) Option {
	return func(r *Repository) {
		r.interval = d
	}
}

// New returns a repository that uses store to load and append events.
func New(store event.Store, opts ...Option) *Repository {
	r := &Repository{
		store:      store,
		log:        zap.NewNop(),
		maxRetries: 3,
		interval:   50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetch loads the stream of a and applies its events onto a.
func (r *Repository) Fetch(ctx context.Context, a aggregate.Aggregate) error {
	ref := aggregate.Ref(a)

	events, err := r.store.Load(ctx, ref)
	if err != nil {
		return fmt.Errorf("load events: %w [stream=%s]", err, ref)
	}

	if err := aggregate.ApplyHistory(a, events); err != nil {
		return fmt.Errorf("apply history: %w [stream=%s]", err, ref)
	}

	return nil
}

// Save appends the recorded changes of a as one batch and commits them. The
// append is expected to happen at the version a was loaded at.
func (r *Repository) Save(ctx context.Context, a aggregate.Aggregate) error {
	changes := a.AggregateChanges()
	if len(changes) == 0 {
		return nil
	}

	_, _, version := a.Aggregate()
	ref := aggregate.Ref(a)

	if err := r.store.Append(ctx, ref, version, changes...); err != nil {
		return fmt.Errorf("append events: %w [stream=%s, version=%d]", err, ref, version)
	}

	committed := append([]event.Event(nil), changes...)
	a.Commit()

	if r.bus != nil {
		if err := r.bus.Publish(ctx, committed...); err != nil {
			r.log.Warn("publish events",
				zap.Stringer("stream", ref),
				zap.Strings("events", event.Names(committed...)),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Use fetches a fresh aggregate using makeFunc, calls fn with it and saves its
// changes. If the save fails with a version conflict, the whole unit of work
// is retried with a newly fetched aggregate. Use returns the committed events.
func Use[A aggregate.Aggregate](ctx context.Context, r *Repository, makeFunc func() A, fn func(A) error) ([]event.Event, error) {
	var committed []event.Event
	var attempt int

	op := func() error {
		attempt++
		a := makeFunc()

		if err := r.Fetch(ctx, a); err != nil {
			return backoff.Permanent(err)
		}

		if err := fn(a); err != nil {
			return backoff.Permanent(err)
		}

		changes := append([]event.Event(nil), a.AggregateChanges()...)
		if err := r.Save(ctx, a); err != nil {
			if aggregate.IsConsistencyError(err) {
				r.log.Info("retry after version conflict",
					zap.Stringer("stream", aggregate.Ref(a)),
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				return err
			}
			return backoff.Permanent(err)
		}

		committed = changes
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.interval

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, r.maxRetries), ctx)); err != nil {
		return nil, err
	}

	return committed, nil
}
