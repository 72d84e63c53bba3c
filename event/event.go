package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// An Event is an immutable fact that happened to an aggregate. Events are the
// only persisted representation of state changes: the current state of an
// aggregate is rebuilt by applying its events in recorded order.
type Event interface {
	// ID returns the unique id of the event.
	ID() uuid.UUID

	// Name returns the name of the event, e.g. "progression.event.proceedings-initiated".
	Name() string

	// Time returns the time at which the event was raised.
	Time() time.Time

	// Data returns the event payload.
	Data() any

	// Aggregate returns the id, name and version of the aggregate the event
	// belongs to.
	Aggregate() (uuid.UUID, string, int)
}

// Option is an event option.
type Option func(*evt)

type evt struct {
	id               uuid.UUID
	name             string
	time             time.Time
	data             any
	aggregateID      uuid.UUID
	aggregateName    string
	aggregateVersion int
}

// New returns an event with the given name and data. A random UUID is
// generated for the event and its time is set to the current UTC time.
//
// Provide Options to override or add data to the event:
//
//	ID(uuid.UUID): Use a custom UUID
//	Time(time.Time): Use a custom time
//	Aggregate(uuid.UUID, string, int): Link the event to an aggregate
func New(name string, data any, opts ...Option) Event {
	e := evt{
		id:   uuid.New(),
		name: name,
		time: time.Now().UTC(),
		data: data,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// ID returns an Option that overrides the auto-generated UUID of an event.
func ID(id uuid.UUID) Option {
	return func(e *evt) {
		e.id = id
	}
}

// Time returns an Option that overrides the auto-generated time of an event.
func Time(t time.Time) Option {
	return func(e *evt) {
		e.time = t
	}
}

// Aggregate returns an Option that links an event to an aggregate.
func Aggregate(id uuid.UUID, name string, version int) Option {
	return func(e *evt) {
		e.aggregateID = id
		e.aggregateName = name
		e.aggregateVersion = version
	}
}

func (e evt) ID() uuid.UUID   { return e.id }
func (e evt) Name() string    { return e.name }
func (e evt) Time() time.Time { return e.time }
func (e evt) Data() any       { return e.data }

func (e evt) Aggregate() (uuid.UUID, string, int) {
	return e.aggregateID, e.aggregateName, e.aggregateVersion
}

// TryCast returns the data of the given event as D. The second return value
// reports whether the data is of type D.
func TryCast[D any](e Event) (D, bool) {
	data, ok := e.Data().(D)
	return data, ok
}

// Cast returns the data of the given event as D. Cast panics if the data is
// not of type D, which usually means that the wrong event name was mapped to a
// handler.
func Cast[D any](e Event) D {
	data, ok := TryCast[D](e)
	if !ok {
		var zero D
		panic(fmt.Errorf("[event.Cast] cannot cast %T to %T [event=%s]", e.Data(), zero, e.Name()))
	}
	return data
}

// RefOf returns the stream reference of the given event.
func RefOf(e Event) Ref {
	id, name, _ := e.Aggregate()
	return Ref{Name: name, ID: id}
}

// VersionOf returns the aggregate version of the given event.
func VersionOf(e Event) int {
	_, _, v := e.Aggregate()
	return v
}

// Names returns the names of the given events, in order.
func Names(events ...Event) []string {
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name()
	}
	return names
}
