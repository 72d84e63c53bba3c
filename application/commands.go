package application

import (
	"context"

	"github.com/courtflow/progression/aggregate/repository"
	"github.com/courtflow/progression/codec"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/court"
	"github.com/google/uuid"
)

const (
	InitiateProceedingsCmd   = "progression.command.initiate-court-proceedings-for-application"
	EditProceedingsCmd       = "progression.command.edit-court-proceedings-for-application"
	ListOrReferCmd           = "progression.command.list-or-refer-court-application"
	ApproveSummonsCmd        = "progression.command.approve-application-summons"
	RejectSummonsCmd         = "progression.command.reject-application-summons"
	HearingResultedUpdateCmd = "progression.command.hearing-resulted-update-application"
	LinkHearingCmd           = "progression.command.link-application-to-hearing"
	UpdateDefendantCmd       = "progression.command.update-court-application-defendant"
)

// ListOrReferPayload is the payload of ListOrReferCmd.
type ListOrReferPayload struct {
	ApplicationID uuid.UUID `json:"applicationId"`
}

// ApproveSummonsPayload is the payload of ApproveSummonsCmd.
type ApproveSummonsPayload struct {
	ApplicationID uuid.UUID       `json:"applicationId"`
	Approval      SummonsApproval `json:"summonsApprovedOutcome"`
}

// RejectSummonsPayload is the payload of RejectSummonsCmd.
type RejectSummonsPayload struct {
	ApplicationID          uuid.UUID `json:"applicationId"`
	Reasons                []string  `json:"reasons,omitempty"`
	ProsecutorEmailAddress string    `json:"prosecutorEmailAddress,omitempty"`
}

// HearingResultedUpdatePayload is the payload of HearingResultedUpdateCmd.
type HearingResultedUpdatePayload struct {
	Application court.CourtApplication `json:"courtApplication"`
}

// LinkHearingPayload is the payload of LinkHearingCmd.
type LinkHearingPayload struct {
	ApplicationID uuid.UUID `json:"applicationId"`
	HearingID     uuid.UUID `json:"hearingId"`
}

// UpdateDefendantPayload is the payload of UpdateDefendantCmd.
type UpdateDefendantPayload struct {
	ApplicationID uuid.UUID       `json:"applicationId"`
	Defendant     court.Defendant `json:"defendant"`
}

// InitiateProceedings returns the command to initiate the proceedings of an
// application.
func InitiateProceedings(req Proceedings) command.Command {
	return command.New(InitiateProceedingsCmd, req, command.Aggregate(AggregateName, req.Application.ID))
}

// EditProceedings returns the command to edit the proceedings of an
// application.
func EditProceedings(req Proceedings) command.Command {
	return command.New(EditProceedingsCmd, req, command.Aggregate(AggregateName, req.Application.ID))
}

// ListOrRefer returns the command to list or refer an application.
func ListOrRefer(id uuid.UUID) command.Command {
	return command.New(ListOrReferCmd, ListOrReferPayload{ApplicationID: id}, command.Aggregate(AggregateName, id))
}

// ApproveSummons returns the command to approve the summons of an application.
func ApproveSummons(id uuid.UUID, approval SummonsApproval) command.Command {
	return command.New(ApproveSummonsCmd, ApproveSummonsPayload{ApplicationID: id, Approval: approval}, command.Aggregate(AggregateName, id))
}

// RejectSummons returns the command to reject the summons of an application.
func RejectSummons(id uuid.UUID, reasons []string, prosecutorEmail string) command.Command {
	return command.New(RejectSummonsCmd, RejectSummonsPayload{
		ApplicationID:          id,
		Reasons:                reasons,
		ProsecutorEmailAddress: prosecutorEmail,
	}, command.Aggregate(AggregateName, id))
}

// HearingResultedUpdate returns the command to record the results of an
// application.
func HearingResultedUpdate(app court.CourtApplication) command.Command {
	return command.New(HearingResultedUpdateCmd, HearingResultedUpdatePayload{Application: app}, command.Aggregate(AggregateName, app.ID))
}

// LinkHearing returns the command to link an application to a hearing.
func LinkHearing(id, hearingID uuid.UUID) command.Command {
	return command.New(LinkHearingCmd, LinkHearingPayload{ApplicationID: id, HearingID: hearingID}, command.Aggregate(AggregateName, id))
}

// UpdateDefendant returns the command to update a defendant of an application.
func UpdateDefendant(id uuid.UUID, d court.Defendant) command.Command {
	return command.New(UpdateDefendantCmd, UpdateDefendantPayload{ApplicationID: id, Defendant: d}, command.Aggregate(AggregateName, id))
}

// RegisterCommands registers the application commands into a registry.
func RegisterCommands(r *codec.Registry) {
	codec.Register[Proceedings](r, InitiateProceedingsCmd)
	codec.Register[Proceedings](r, EditProceedingsCmd)
	codec.Register[ListOrReferPayload](r, ListOrReferCmd)
	codec.Register[ApproveSummonsPayload](r, ApproveSummonsCmd)
	codec.Register[RejectSummonsPayload](r, RejectSummonsCmd)
	codec.Register[HearingResultedUpdatePayload](r, HearingResultedUpdateCmd)
	codec.Register[LinkHearingPayload](r, LinkHearingCmd)
	codec.Register[UpdateDefendantPayload](r, UpdateDefendantCmd)
}

// HandleCommands registers the handlers of the application commands.
func HandleCommands(r command.Registerer, repo *repository.Repository, e *Enricher) {
	apps := repository.Typed(repo, New)

	r.Handle(InitiateProceedingsCmd, handle(apps, func(p Proceedings) uuid.UUID { return p.Application.ID },
		func(ctx context.Context, a *Application, p Proceedings) error {
			return a.InitiateProceedings(ctx, e, p)
		}))

	r.Handle(EditProceedingsCmd, handle(apps, func(p Proceedings) uuid.UUID { return p.Application.ID },
		func(ctx context.Context, a *Application, p Proceedings) error {
			return a.EditProceedings(ctx, e, p)
		}))

	r.Handle(ListOrReferCmd, handle(apps, func(p ListOrReferPayload) uuid.UUID { return p.ApplicationID },
		func(_ context.Context, a *Application, _ ListOrReferPayload) error {
			a.ListOrRefer()
			return nil
		}))

	r.Handle(ApproveSummonsCmd, handle(apps, func(p ApproveSummonsPayload) uuid.UUID { return p.ApplicationID },
		func(_ context.Context, a *Application, p ApproveSummonsPayload) error {
			a.ApproveSummons(p.Approval)
			return nil
		}))

	r.Handle(RejectSummonsCmd, handle(apps, func(p RejectSummonsPayload) uuid.UUID { return p.ApplicationID },
		func(_ context.Context, a *Application, p RejectSummonsPayload) error {
			a.RejectSummons(p.Reasons, p.ProsecutorEmailAddress)
			return nil
		}))

	r.Handle(HearingResultedUpdateCmd, handle(apps, func(p HearingResultedUpdatePayload) uuid.UUID { return p.Application.ID },
		func(_ context.Context, a *Application, p HearingResultedUpdatePayload) error {
			return a.HearingResultedUpdate(p.Application)
		}))

	r.Handle(LinkHearingCmd, handle(apps, func(p LinkHearingPayload) uuid.UUID { return p.ApplicationID },
		func(_ context.Context, a *Application, p LinkHearingPayload) error {
			return a.LinkHearing(p.HearingID)
		}))

	r.Handle(UpdateDefendantCmd, handle(apps, func(p UpdateDefendantPayload) uuid.UUID { return p.ApplicationID },
		func(_ context.Context, a *Application, p UpdateDefendantPayload) error {
			a.UpdateDefendant(p.Defendant)
			return nil
		}))
}

func handle[P any](
	apps *repository.TypedRepository[*Application],
	idOf func(P) uuid.UUID,
	fn func(context.Context, *Application, P) error,
) command.Handler {
	return command.AggregateHandler(apps, "applicationId", idOf, fn)
}
