package aggregate

import (
	"github.com/courtflow/progression/event"
	"github.com/google/uuid"
)

// Aggregate is an event-sourced aggregate. Its state is never stored directly;
// it is rebuilt by applying its recorded events in order.
type Aggregate interface {
	// Aggregate returns the id, name and version of the aggregate.
	Aggregate() (uuid.UUID, string, int)

	// AggregateChanges returns the recorded, uncommitted events.
	AggregateChanges() []event.Event

	// RecordChange records events that were applied to the aggregate.
	RecordChange(...event.Event)

	// Commit clears the recorded changes and moves the aggregate version to
	// the version of the last change.
	Commit()

	// ApplyEvent applies an event onto the aggregate's state. Implementations
	// switch over the event name and ignore names they don't know.
	ApplyEvent(event.Event)

	// SetVersion sets the version of the aggregate.
	SetVersion(int)
}

// Ref returns the stream reference of an aggregate.
func Ref(a Aggregate) event.Ref {
	id, name, _ := a.Aggregate()
	return event.Ref{Name: name, ID: id}
}

// CurrentVersion returns the version of the aggregate including its
// uncommitted changes.
func CurrentVersion(a Aggregate) int {
	_, _, v := a.Aggregate()
	return v + len(a.AggregateChanges())
}

// Next creates the next event for the aggregate, applies it and records it as
// a change.
//
//	aggregate.Next(app, ProceedingsInitiated, ProceedingsInitiatedData{...})
func Next(a Aggregate, name string, data any, opts ...event.Option) event.Event {
	id, aname, _ := a.Aggregate()

	opts = append([]event.Option{
		event.Aggregate(id, aname, CurrentVersion(a)+1),
	}, opts...)

	evt := event.New(name, data, opts...)
	a.ApplyEvent(evt)
	a.RecordChange(evt)

	return evt
}
