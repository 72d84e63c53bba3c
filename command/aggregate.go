package command

import (
	"context"

	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/aggregate/repository"
	"github.com/courtflow/progression/event"
	"github.com/google/uuid"
)

// AggregateHandler returns a Handler that decodes the payload of a command as
// P and runs fn against the aggregate identified by idOf in a single unit of
// work of repo. A nil aggregate id is rejected with a ValidationError named
// after field.
//
//	d.Handle(LinkHearingCmd, command.AggregateHandler(apps, "applicationId",
//		func(p LinkHearingPayload) uuid.UUID { return p.ApplicationID },
//		func(ctx context.Context, a *Application, p LinkHearingPayload) error {
//			return a.LinkHearing(p.HearingID)
//		},
//	))
func AggregateHandler[A aggregate.Aggregate, P any](
	repo *repository.TypedRepository[A],
	field string,
	idOf func(P) uuid.UUID,
	fn func(context.Context, A, P) error,
) Handler {
	return func(ctx context.Context, cmd Command) ([]event.Event, error) {
		p, err := PayloadOf[P](cmd)
		if err != nil {
			return nil, err
		}

		id := idOf(p)
		if err := Validate(cmd.Name).RequireID(field, id).Err(); err != nil {
			return nil, err
		}

		return repo.Use(ctx, id, func(a A) error {
			return fn(ctx, a, p)
		})
	}
}
