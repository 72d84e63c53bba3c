package aggregate

import (
	"fmt"

	"github.com/courtflow/progression/event"
)

// ApplyHistory rebuilds the state of a from previously recorded events. The
// events must continue the aggregate's stream; each one is folded through
// a.ApplyEvent in order and the aggregate version is moved to the version of
// the last event. Applying no events leaves a untouched.
func ApplyHistory(a Aggregate, events []event.Event) error {
	_, _, v := a.Aggregate()
	if err := ValidateConsistency(Ref(a), v, events); err != nil {
		return fmt.Errorf("validate consistency: %w", err)
	}

	for _, evt := range events {
		a.ApplyEvent(evt)
	}

	if len(events) > 0 {
		a.SetVersion(event.VersionOf(events[len(events)-1]))
	}

	return nil
}
