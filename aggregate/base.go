package aggregate

import (
	"github.com/courtflow/progression/event"
	"github.com/google/uuid"
)

// Base can be embedded into aggregates to implement the bookkeeping part of
// the Aggregate interface. Embedders implement ApplyEvent themselves.
type Base struct {
	ID      uuid.UUID
	Name    string
	Version int
	Changes []event.Event
}

// New returns a new base aggregate.
func New(name string, id uuid.UUID) *Base {
	return &Base{ID: id, Name: name}
}

// Aggregate returns the id, name, and version of the aggregate.
func (b *Base) Aggregate() (uuid.UUID, string, int) {
	return b.ID, b.Name, b.Version
}

// AggregateID returns the aggregate id.
func (b *Base) AggregateID() uuid.UUID {
	return b.ID
}

// AggregateName returns the aggregate name.
func (b *Base) AggregateName() string {
	return b.Name
}

// AggregateVersion returns the aggregate version.
func (b *Base) AggregateVersion() int {
	return b.Version
}

// AggregateChanges returns the recorded changes.
func (b *Base) AggregateChanges() []event.Event {
	return b.Changes
}

// RecordChange records applied changes to the aggregate.
func (b *Base) RecordChange(events ...event.Event) {
	b.Changes = append(b.Changes, events...)
}

// Commit clears the recorded changes and sets the aggregate version to the
// version of the last recorded change.
func (b *Base) Commit() {
	if len(b.Changes) == 0 {
		return
	}
	b.Version = event.VersionOf(b.Changes[len(b.Changes)-1])
	b.Changes = nil
}

// SetVersion manually sets the version of the aggregate.
func (b *Base) SetVersion(v int) {
	b.Version = v
}

// ApplyEvent does nothing. Aggregates that embed *Base shadow it.
func (*Base) ApplyEvent(event.Event) {}
