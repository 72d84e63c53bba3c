package aggregate

import (
	"errors"
	"fmt"

	"github.com/courtflow/progression/event"
)

const (
	// InconsistentID means an event belongs to another aggregate.
	InconsistentID = ConsistencyKind(iota + 1)

	// InconsistentName means an event has another aggregate name.
	InconsistentName

	// InconsistentVersion means an event version is not the next version of
	// the stream.
	InconsistentVersion
)

// ConsistencyKind is the kind of inconsistency.
type ConsistencyKind int

// ConsistencyError is returned when events cannot be applied to an aggregate
// because they don't continue its stream.
type ConsistencyError struct {
	Kind           ConsistencyKind
	Aggregate      event.Ref
	CurrentVersion int
	Events         []event.Event
	EventIndex     int
}

// ValidateConsistency checks that the events continue the stream of ref at
// currentVersion: every event belongs to ref and the versions are contiguous.
func ValidateConsistency(ref event.Ref, currentVersion int, events []event.Event) error {
	for i, evt := range events {
		id, name, v := evt.Aggregate()
		var kind ConsistencyKind
		switch {
		case id != ref.ID:
			kind = InconsistentID
		case name != ref.Name:
			kind = InconsistentName
		case v != currentVersion+i+1:
			kind = InconsistentVersion
		}
		if kind != 0 {
			return &ConsistencyError{
				Kind:           kind,
				Aggregate:      ref,
				CurrentVersion: currentVersion,
				Events:         events,
				EventIndex:     i,
			}
		}
	}
	return nil
}

// Event returns the event that caused the error.
func (err *ConsistencyError) Event() event.Event {
	if err.EventIndex < 0 || err.EventIndex >= len(err.Events) {
		return nil
	}
	return err.Events[err.EventIndex]
}

func (err *ConsistencyError) Error() string {
	evt := err.Event()
	if evt == nil {
		return fmt.Sprintf("consistency: invalid event index %d", err.EventIndex)
	}
	id, name, v := evt.Aggregate()

	switch err.Kind {
	case InconsistentID:
		return fmt.Sprintf("consistency: %q event has invalid AggregateID. want=%s got=%s", evt.Name(), err.Aggregate.ID, id)
	case InconsistentName:
		return fmt.Sprintf("consistency: %q event has invalid AggregateName. want=%s got=%s", evt.Name(), err.Aggregate.Name, name)
	case InconsistentVersion:
		return fmt.Sprintf("consistency: %q event has invalid AggregateVersion. want=%d got=%d", evt.Name(), err.CurrentVersion+err.EventIndex+1, v)
	default:
		return fmt.Sprintf("consistency: invalid inconsistency kind=%d", err.Kind)
	}
}

// IsConsistencyError implements the consistency error marker.
func (err *ConsistencyError) IsConsistencyError() bool {
	return true
}

// IsConsistencyError reports whether err is, or wraps, an error that reports
// a version conflict. Such errors are safe to retry with a freshly loaded
// aggregate.
func IsConsistencyError(err error) bool {
	var cerr interface{ IsConsistencyError() bool }
	return errors.As(err, &cerr) && cerr.IsConsistencyError()
}

func (k ConsistencyKind) String() string {
	switch k {
	case InconsistentID:
		return "<InconsistentID>"
	case InconsistentName:
		return "<InconsistentName>"
	case InconsistentVersion:
		return "<InconsistentVersion>"
	default:
		return "<UnknownInconsistency>"
	}
}
