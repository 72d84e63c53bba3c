// Package memory provides an in-memory event.Store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/courtflow/progression/event"
)

var _ event.Store = (*EventStore)(nil)

// EventStore is a thread-safe in-memory event store. It enforces the same
// optimistic concurrency as the persistent stores and is used by tests and by
// the CLI when no backend is configured.
type EventStore struct {
	mux     sync.RWMutex
	streams map[event.Ref][]event.Event
}

// NewEventStore returns an in-memory store that already contains events.
// The events must be ordered by version within their streams.
func NewEventStore(events ...event.Event) *EventStore {
	store := &EventStore{streams: make(map[event.Ref][]event.Event)}
	for _, evt := range events {
		ref := event.RefOf(evt)
		store.streams[ref] = append(store.streams[ref], evt)
	}
	return store
}

// Load returns a copy of the events of the stream.
func (store *EventStore) Load(_ context.Context, stream event.Ref) ([]event.Event, error) {
	store.mux.RLock()
	defer store.mux.RUnlock()
	events := store.streams[stream]
	out := make([]event.Event, len(events))
	copy(out, events)
	return out, nil
}

// Append appends events to the stream if the stream is at expectedVersion.
func (store *EventStore) Append(_ context.Context, stream event.Ref, expectedVersion int, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}

	if err := event.ValidateAppend(stream, expectedVersion, events...); err != nil {
		return fmt.Errorf("validate events: %w", err)
	}

	store.mux.Lock()
	defer store.mux.Unlock()

	current := store.streams[stream]
	var version int
	if l := len(current); l > 0 {
		version = event.VersionOf(current[l-1])
	}

	if version != expectedVersion {
		return &event.VersionError{Stream: stream, Expected: expectedVersion, Current: version}
	}

	store.streams[stream] = append(current, events...)

	return nil
}

// Streams returns the references of all non-empty streams.
func (store *EventStore) Streams() []event.Ref {
	store.mux.RLock()
	defer store.mux.RUnlock()
	refs := make([]event.Ref, 0, len(store.streams))
	for ref := range store.streams {
		refs = append(refs, ref)
	}
	return refs
}
