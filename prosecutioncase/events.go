package prosecutioncase

import (
	"github.com/courtflow/progression/codec"
	"github.com/courtflow/progression/court"
	"github.com/google/uuid"
)

const (
	CaseCreated                           = "progression.event.prosecution-case-created"
	DefendantsProceedingsConcludedChanged = "progression.event.defendants-proceedings-concluded-changed"
	CaseStatusUpdated                     = "progression.event.case-status-updated"

	GroupCasesInitiated      = "progression.event.group-cases-initiated"
	MemberCaseStatusRecorded = "progression.event.group-member-case-status-recorded"
	GroupCaseStatusUpdated   = "progression.event.group-case-status-updated"
)

// CreatedData is the payload of CaseCreated events.
type CreatedData struct {
	Case court.ProsecutionCase `json:"prosecutionCase"`
}

// DefendantConcluded is the proceedings-concluded flag of a defendant.
type DefendantConcluded struct {
	DefendantID          uuid.UUID `json:"defendantId"`
	ProceedingsConcluded bool      `json:"proceedingsConcluded"`
}

// ConcludedChangedData is the payload of
// DefendantsProceedingsConcludedChanged events. Defendants holds the flags of
// all defendants of the case after the change.
type ConcludedChangedData struct {
	CaseID     uuid.UUID            `json:"prosecutionCaseId"`
	HearingID  uuid.UUID            `json:"hearingId"`
	Defendants []DefendantConcluded `json:"defendants"`
}

// StatusUpdatedData is the payload of CaseStatusUpdated events.
type StatusUpdatedData struct {
	CaseID uuid.UUID        `json:"prosecutionCaseId"`
	Status court.CaseStatus `json:"caseStatus"`
}

// GroupInitiatedData is the payload of GroupCasesInitiated events.
type GroupInitiatedData struct {
	GroupID       uuid.UUID   `json:"groupId"`
	MasterCaseID  uuid.UUID   `json:"masterCaseId"`
	MemberCaseIDs []uuid.UUID `json:"memberCaseIds"`
}

// MemberStatusData is the payload of MemberCaseStatusRecorded events.
type MemberStatusData struct {
	GroupID uuid.UUID        `json:"groupId"`
	CaseID  uuid.UUID        `json:"prosecutionCaseId"`
	Status  court.CaseStatus `json:"caseStatus"`
}

// GroupStatusData is the payload of GroupCaseStatusUpdated events.
type GroupStatusData struct {
	GroupID      uuid.UUID        `json:"groupId"`
	MasterCaseID uuid.UUID        `json:"masterCaseId"`
	Status       court.CaseStatus `json:"caseStatus"`
}

// RegisterEvents registers the case and group-case events into a registry.
func RegisterEvents(r *codec.Registry) {
	codec.Register[CreatedData](r, CaseCreated)
	codec.Register[ConcludedChangedData](r, DefendantsProceedingsConcludedChanged)
	codec.Register[StatusUpdatedData](r, CaseStatusUpdated)
	codec.Register[GroupInitiatedData](r, GroupCasesInitiated)
	codec.Register[MemberStatusData](r, MemberCaseStatusRecorded)
	codec.Register[GroupStatusData](r, GroupCaseStatusUpdated)
}
