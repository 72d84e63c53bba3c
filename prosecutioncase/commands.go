package prosecutioncase

import (
	"context"

	"github.com/courtflow/progression/aggregate/repository"
	"github.com/courtflow/progression/codec"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/court"
	"github.com/google/uuid"
)

const (
	CreateCmd             = "progression.command.create-prosecution-case"
	ApplyHearingResultCmd = "progression.command.apply-hearing-result-to-case"
	UpdateStatusCmd       = "progression.command.update-case-status"
	InitiateGroupCmd      = "progression.command.initiate-group-cases"
	RecordMemberStatusCmd = "progression.command.record-group-member-case-status"
)

// CreatePayload is the payload of CreateCmd.
type CreatePayload struct {
	Case court.ProsecutionCase `json:"prosecutionCase"`
}

// ApplyHearingResultPayload is the payload of ApplyHearingResultCmd.
type ApplyHearingResultPayload struct {
	HearingID          uuid.UUID                       `json:"hearingId"`
	Case               court.ProsecutionCase           `json:"prosecutionCase"`
	HearingResults     []court.DefendantJudicialResult `json:"defendantJudicialResults,omitempty"`
	IsGroupProceedings bool                            `json:"isGroupProceedings"`
}

// UpdateStatusPayload is the payload of UpdateStatusCmd.
type UpdateStatusPayload struct {
	CaseID uuid.UUID        `json:"prosecutionCaseId"`
	Status court.CaseStatus `json:"caseStatus"`
}

// InitiateGroupPayload is the payload of InitiateGroupCmd.
type InitiateGroupPayload struct {
	GroupID       uuid.UUID   `json:"groupId"`
	MasterCaseID  uuid.UUID   `json:"masterCaseId"`
	MemberCaseIDs []uuid.UUID `json:"memberCaseIds"`
}

// RecordMemberStatusPayload is the payload of RecordMemberStatusCmd.
type RecordMemberStatusPayload struct {
	GroupID uuid.UUID        `json:"groupId"`
	CaseID  uuid.UUID        `json:"prosecutionCaseId"`
	Status  court.CaseStatus `json:"caseStatus"`
}

// Create returns the command to create a prosecution case.
func Create(c court.ProsecutionCase) command.Command {
	return command.New(CreateCmd, CreatePayload{Case: c}, command.Aggregate(AggregateName, c.ID))
}

// ApplyHearingResult returns the command to apply the result of a hearing to
// a prosecution case. hearingResults are the defendant judicial results of
// the hearing.
func ApplyHearingResult(hearingID uuid.UUID, c court.ProsecutionCase, hearingResults []court.DefendantJudicialResult, groupProceedings bool) command.Command {
	return command.New(ApplyHearingResultCmd, ApplyHearingResultPayload{
		HearingID:          hearingID,
		Case:               c,
		HearingResults:     hearingResults,
		IsGroupProceedings: groupProceedings,
	}, command.Aggregate(AggregateName, c.ID))
}

// UpdateStatus returns the command to update the status of a case.
func UpdateStatus(id uuid.UUID, status court.CaseStatus) command.Command {
	return command.New(UpdateStatusCmd, UpdateStatusPayload{CaseID: id, Status: status}, command.Aggregate(AggregateName, id))
}

// InitiateGroup returns the command to initiate a case group.
func InitiateGroup(groupID, masterCaseID uuid.UUID, memberCaseIDs ...uuid.UUID) command.Command {
	return command.New(InitiateGroupCmd, InitiateGroupPayload{
		GroupID:       groupID,
		MasterCaseID:  masterCaseID,
		MemberCaseIDs: memberCaseIDs,
	}, command.Aggregate(GroupAggregateName, groupID))
}

// RecordMemberStatus returns the command to record the status of a member
// case of a group.
func RecordMemberStatus(groupID, caseID uuid.UUID, status court.CaseStatus) command.Command {
	return command.New(RecordMemberStatusCmd, RecordMemberStatusPayload{
		GroupID: groupID,
		CaseID:  caseID,
		Status:  status,
	}, command.Aggregate(GroupAggregateName, groupID))
}

// RegisterCommands registers the case and group-case commands into a registry.
func RegisterCommands(r *codec.Registry) {
	codec.Register[CreatePayload](r, CreateCmd)
	codec.Register[ApplyHearingResultPayload](r, ApplyHearingResultCmd)
	codec.Register[UpdateStatusPayload](r, UpdateStatusCmd)
	codec.Register[InitiateGroupPayload](r, InitiateGroupCmd)
	codec.Register[RecordMemberStatusPayload](r, RecordMemberStatusCmd)
}

// HandleCommands registers the handlers of the case and group-case commands.
func HandleCommands(r command.Registerer, repo *repository.Repository) {
	cases := repository.Typed(repo, New)
	groups := repository.Typed(repo, NewGroup)

	r.Handle(CreateCmd, command.AggregateHandler(cases, "prosecutionCase.id",
		func(p CreatePayload) uuid.UUID { return p.Case.ID },
		func(_ context.Context, c *Case, p CreatePayload) error {
			return c.Create(p.Case)
		}))

	r.Handle(ApplyHearingResultCmd, command.AggregateHandler(cases, "prosecutionCase.id",
		func(p ApplyHearingResultPayload) uuid.UUID { return p.Case.ID },
		func(_ context.Context, c *Case, p ApplyHearingResultPayload) error {
			return c.ApplyHearingResult(p.HearingID, p.Case, p.HearingResults, p.IsGroupProceedings)
		}))

	r.Handle(UpdateStatusCmd, command.AggregateHandler(cases, "prosecutionCaseId",
		func(p UpdateStatusPayload) uuid.UUID { return p.CaseID },
		func(_ context.Context, c *Case, p UpdateStatusPayload) error {
			return c.UpdateStatus(p.Status)
		}))

	r.Handle(InitiateGroupCmd, command.AggregateHandler(groups, "groupId",
		func(p InitiateGroupPayload) uuid.UUID { return p.GroupID },
		func(_ context.Context, g *GroupCase, p InitiateGroupPayload) error {
			return g.Initiate(p.MasterCaseID, p.MemberCaseIDs)
		}))

	r.Handle(RecordMemberStatusCmd, command.AggregateHandler(groups, "groupId",
		func(p RecordMemberStatusPayload) uuid.UUID { return p.GroupID },
		func(_ context.Context, g *GroupCase, p RecordMemberStatusPayload) error {
			return g.RecordMemberStatus(p.CaseID, p.Status)
		}))
}
