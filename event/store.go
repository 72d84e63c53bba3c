package event

//go:generate mockgen -source=store.go -destination=./mocks/store.go

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Ref identifies a single event stream. Every aggregate owns exactly one
// stream, addressed by its name and id.
type Ref struct {
	Name string
	ID   uuid.UUID
}

// String returns the reference in the form "name(id)".
func (ref Ref) String() string {
	return fmt.Sprintf("%s(%s)", ref.Name, ref.ID)
}

// IsZero reports whether ref is the zero value.
func (ref Ref) IsZero() bool {
	return ref == Ref{}
}

// Store is an append-only event log with strong per-stream ordering.
type Store interface {
	// Load returns all events of the given stream, ordered by version.
	// Loading an unknown stream returns no events and no error.
	Load(ctx context.Context, stream Ref) ([]Event, error)

	// Append appends the events to the stream iff the stream is at
	// expectedVersion. Either all events are appended or none is. When the
	// stream has moved on since it was read, Append returns a *VersionError.
	Append(ctx context.Context, stream Ref, expectedVersion int, events ...Event) error
}

// Bus publishes committed events to downstream consumers.
type Bus interface {
	Publish(ctx context.Context, events ...Event) error
}

// VersionError is returned by a Store when an append does not match the
// current version of the stream.
type VersionError struct {
	Stream   Ref
	Expected int
	Current  int
}

func (err *VersionError) Error() string {
	return fmt.Sprintf("stream %s is at version %d; expected version %d", err.Stream, err.Current, err.Expected)
}

// IsConsistencyError implements the consistency error marker, so that callers
// can retry the command.
func (err *VersionError) IsConsistencyError() bool {
	return true
}

// ValidateAppend checks that the events belong to stream and carry contiguous
// versions starting at expectedVersion+1. Store implementations call it
// before writing anything.
func ValidateAppend(stream Ref, expectedVersion int, events ...Event) error {
	for i, e := range events {
		id, name, v := e.Aggregate()
		if id != stream.ID || name != stream.Name {
			return fmt.Errorf("event %q belongs to %s, not %s", e.Name(), Ref{Name: name, ID: id}, stream)
		}
		if want := expectedVersion + i + 1; v != want {
			return fmt.Errorf("event %q has version %d; want %d", e.Name(), v, want)
		}
	}
	return nil
}
