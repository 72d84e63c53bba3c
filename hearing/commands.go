package hearing

import (
	"context"

	"github.com/courtflow/progression/aggregate/repository"
	"github.com/courtflow/progression/codec"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/court"
	"github.com/google/uuid"
)

const (
	InitiateCmd                   = "progression.command.initiate-hearing"
	ResultCmd                     = "progression.command.process-hearing-results"
	UnallocateCmd                 = "progression.command.unallocate-hearing-offences"
	UpdateVerdictCmd              = "progression.command.update-hearing-offence-verdict"
	RemoveCourtroomCmd            = "progression.command.remove-courtroom-from-hearing"
	DeleteCmd                     = "progression.command.delete-hearing"
	UpdateApplicationDefendantCmd = "progression.command.update-hearing-application-defendant"
)

// InitiatePayload is the payload of InitiateCmd.
type InitiatePayload struct {
	Hearing court.Hearing `json:"hearing"`
}

// ResultPayload is the payload of ResultCmd.
type ResultPayload struct {
	Hearing              court.Hearing `json:"hearing"`
	ShadowListedOffences []uuid.UUID   `json:"shadowListedOffences,omitempty"`
}

// UnallocatePayload is the payload of UnallocateCmd.
type UnallocatePayload struct {
	HearingID  uuid.UUID   `json:"hearingId"`
	OffenceIDs []uuid.UUID `json:"offenceIds"`
}

// UpdateVerdictPayload is the payload of UpdateVerdictCmd.
type UpdateVerdictPayload struct {
	HearingID uuid.UUID     `json:"hearingId"`
	OffenceID uuid.UUID     `json:"offenceId"`
	Verdict   court.Verdict `json:"verdict"`
}

// HearingPayload is the payload of commands that only identify the hearing.
type HearingPayload struct {
	HearingID uuid.UUID `json:"hearingId"`
}

// UpdateApplicationDefendantPayload is the payload of
// UpdateApplicationDefendantCmd.
type UpdateApplicationDefendantPayload struct {
	HearingID     uuid.UUID       `json:"hearingId"`
	ApplicationID uuid.UUID       `json:"applicationId"`
	Defendant     court.Defendant `json:"defendant"`
}

// Initiate returns the command to initiate a hearing.
func Initiate(h court.Hearing) command.Command {
	return command.New(InitiateCmd, InitiatePayload{Hearing: h}, command.Aggregate(AggregateName, h.ID))
}

// Result returns the command to record the results of a hearing.
func Result(h court.Hearing, shadowListed ...uuid.UUID) command.Command {
	return command.New(ResultCmd, ResultPayload{Hearing: h, ShadowListedOffences: shadowListed}, command.Aggregate(AggregateName, h.ID))
}

// Unallocate returns the command to unallocate offences from a hearing.
func Unallocate(id uuid.UUID, offenceIDs ...uuid.UUID) command.Command {
	return command.New(UnallocateCmd, UnallocatePayload{HearingID: id, OffenceIDs: offenceIDs}, command.Aggregate(AggregateName, id))
}

// UpdateVerdict returns the command to update the verdict of an offence.
func UpdateVerdict(id, offenceID uuid.UUID, v court.Verdict) command.Command {
	return command.New(UpdateVerdictCmd, UpdateVerdictPayload{HearingID: id, OffenceID: offenceID, Verdict: v}, command.Aggregate(AggregateName, id))
}

// RemoveCourtroom returns the command to remove the courtroom of a hearing.
func RemoveCourtroom(id uuid.UUID) command.Command {
	return command.New(RemoveCourtroomCmd, HearingPayload{HearingID: id}, command.Aggregate(AggregateName, id))
}

// Delete returns the command to delete a hearing.
func Delete(id uuid.UUID) command.Command {
	return command.New(DeleteCmd, HearingPayload{HearingID: id}, command.Aggregate(AggregateName, id))
}

// UpdateApplicationDefendant returns the command to update a defendant of an
// application of a hearing.
func UpdateApplicationDefendant(id, applicationID uuid.UUID, d court.Defendant) command.Command {
	return command.New(UpdateApplicationDefendantCmd, UpdateApplicationDefendantPayload{
		HearingID:     id,
		ApplicationID: applicationID,
		Defendant:     d,
	}, command.Aggregate(AggregateName, id))
}

// RegisterCommands registers the hearing commands into a registry.
func RegisterCommands(r *codec.Registry) {
	codec.Register[InitiatePayload](r, InitiateCmd)
	codec.Register[ResultPayload](r, ResultCmd)
	codec.Register[UnallocatePayload](r, UnallocateCmd)
	codec.Register[UpdateVerdictPayload](r, UpdateVerdictCmd)
	codec.Register[HearingPayload](r, RemoveCourtroomCmd)
	codec.Register[HearingPayload](r, DeleteCmd)
	codec.Register[UpdateApplicationDefendantPayload](r, UpdateApplicationDefendantCmd)
}

// HandleCommands registers the handlers of the hearing commands.
func HandleCommands(r command.Registerer, repo *repository.Repository) {
	hearings := repository.Typed(repo, New)

	r.Handle(InitiateCmd, command.AggregateHandler(hearings, "hearing.id",
		func(p InitiatePayload) uuid.UUID { return p.Hearing.ID },
		func(_ context.Context, h *Hearing, p InitiatePayload) error {
			return h.Initiate(p.Hearing)
		}))

	r.Handle(ResultCmd, command.AggregateHandler(hearings, "hearing.id",
		func(p ResultPayload) uuid.UUID { return p.Hearing.ID },
		func(_ context.Context, h *Hearing, p ResultPayload) error {
			return h.Result(p.Hearing, p.ShadowListedOffences)
		}))

	r.Handle(UnallocateCmd, command.AggregateHandler(hearings, "hearingId",
		func(p UnallocatePayload) uuid.UUID { return p.HearingID },
		func(_ context.Context, h *Hearing, p UnallocatePayload) error {
			return h.Unallocate(p.OffenceIDs)
		}))

	r.Handle(UpdateVerdictCmd, command.AggregateHandler(hearings, "hearingId",
		func(p UpdateVerdictPayload) uuid.UUID { return p.HearingID },
		func(_ context.Context, h *Hearing, p UpdateVerdictPayload) error {
			return h.UpdateOffenceVerdict(p.OffenceID, p.Verdict)
		}))

	r.Handle(RemoveCourtroomCmd, command.AggregateHandler(hearings, "hearingId",
		func(p HearingPayload) uuid.UUID { return p.HearingID },
		func(_ context.Context, h *Hearing, _ HearingPayload) error {
			h.RemoveCourtroom()
			return nil
		}))

	r.Handle(DeleteCmd, command.AggregateHandler(hearings, "hearingId",
		func(p HearingPayload) uuid.UUID { return p.HearingID },
		func(_ context.Context, h *Hearing, _ HearingPayload) error {
			h.Delete()
			return nil
		}))

	r.Handle(UpdateApplicationDefendantCmd, command.AggregateHandler(hearings, "hearingId",
		func(p UpdateApplicationDefendantPayload) uuid.UUID { return p.HearingID },
		func(_ context.Context, h *Hearing, p UpdateApplicationDefendantPayload) error {
			return h.UpdateApplicationDefendant(p.ApplicationID, p.Defendant)
		}))
}
