package application

import (
	"github.com/courtflow/progression/codec"
	"github.com/courtflow/progression/court"
	"github.com/google/uuid"
)

const (
	ProceedingsInitiated                     = "progression.event.court-application-proceedings-initiated"
	ProceedingsInitiateIgnored               = "progression.event.court-application-proceedings-initiate-ignored"
	ProceedingsEdited                        = "progression.event.court-application-proceedings-edited"
	ProceedingsEditIgnored                   = "progression.event.court-application-proceedings-edit-ignored"
	ApplicationAddedToCase                   = "progression.event.court-application-added-to-case"
	ApplicationReferredToBoxwork             = "progression.event.application-referred-to-boxwork"
	ApplicationReferredToExistingHearing     = "progression.event.application-referred-to-existing-hearing"
	InitiateCourtHearingAfterSummonsApproved = "progression.event.initiate-court-hearing-after-summons-approved"
	SummonsApproved                          = "progression.event.application-summons-approved"
	SummonsRejected                          = "progression.event.application-summons-rejected"
	HearingResultedApplicationUpdated        = "progression.event.hearing-resulted-application-updated"
	HearingLinked                            = "progression.event.application-hearing-linked"
	DefendantUpdated                         = "progression.event.court-application-defendant-updated"
)

// ProceedingsData is the payload of ProceedingsInitiated and
// ProceedingsEdited events.
type ProceedingsData struct {
	Application             court.CourtApplication     `json:"courtApplication"`
	CourtHearing            *court.CourtHearingRequest `json:"courtHearing,omitempty"`
	BoxHearing              *court.BoxHearingRequest   `json:"boxHearing,omitempty"`
	SummonsApprovalRequired bool                       `json:"summonsApprovalRequired"`
	IsSJP                   bool                       `json:"isSJP"`
}

// IgnoredData is the payload of the ignored events. It only identifies the
// application.
type IgnoredData struct {
	ApplicationID uuid.UUID `json:"applicationId"`
}

// AddedToCaseData is the payload of ApplicationAddedToCase events.
type AddedToCaseData struct {
	Application court.CourtApplication `json:"courtApplication"`
}

// ReferredToBoxworkData is the payload of ApplicationReferredToBoxwork events.
type ReferredToBoxworkData struct {
	Application court.CourtApplication   `json:"courtApplication"`
	BoxHearing  *court.BoxHearingRequest `json:"boxHearing,omitempty"`
}

// ReferredToExistingHearingData is the payload of
// ApplicationReferredToExistingHearing events.
type ReferredToExistingHearingData struct {
	Application court.CourtApplication `json:"courtApplication"`
	HearingID   uuid.UUID              `json:"hearingId"`
}

// CourtHearingInitiatedData is the payload of
// InitiateCourtHearingAfterSummonsApproved events. Hearing.ID is the id of
// the hearing stream that is created for the application.
type CourtHearingInitiatedData struct {
	ApplicationID uuid.UUID                 `json:"applicationId"`
	Hearing       court.CourtHearingRequest `json:"courtHearing"`
	Application   court.CourtApplication    `json:"courtApplication"`
}

// SummonsApproval holds the decision details of an approved summons.
type SummonsApproval struct {
	ProsecutorEmailAddress string `json:"prosecutorEmailAddress,omitempty"`
	ProsecutorCost         string `json:"prosecutorCost,omitempty"`
	PersonalService        bool   `json:"personalService"`
	SummonsSuppressed      bool   `json:"summonsSuppressed"`
}

// SummonsApprovedData is the payload of SummonsApproved events.
type SummonsApprovedData struct {
	ApplicationID      uuid.UUID       `json:"applicationId"`
	ProsecutionCaseIDs []uuid.UUID     `json:"prosecutionCaseIds,omitempty"`
	Approval           SummonsApproval `json:"summonsApprovedOutcome"`
}

// SummonsRejectedData is the payload of SummonsRejected events.
type SummonsRejectedData struct {
	ApplicationID          uuid.UUID   `json:"applicationId"`
	ProsecutionCaseIDs     []uuid.UUID `json:"prosecutionCaseIds,omitempty"`
	Reasons                []string    `json:"reasons,omitempty"`
	ProsecutorEmailAddress string      `json:"prosecutorEmailAddress,omitempty"`
}

// ResultedData is the payload of HearingResultedApplicationUpdated events.
type ResultedData struct {
	Application court.CourtApplication `json:"courtApplication"`
}

// HearingLinkedData is the payload of HearingLinked events.
type HearingLinkedData struct {
	ApplicationID uuid.UUID `json:"applicationId"`
	HearingID     uuid.UUID `json:"hearingId"`
}

// DefendantUpdatedData is the payload of DefendantUpdated events.
type DefendantUpdatedData struct {
	ApplicationID uuid.UUID       `json:"applicationId"`
	Defendant     court.Defendant `json:"defendant"`
}

// RegisterEvents registers the application events into a registry.
func RegisterEvents(r *codec.Registry) {
	codec.Register[ProceedingsData](r, ProceedingsInitiated)
	codec.Register[IgnoredData](r, ProceedingsInitiateIgnored)
	codec.Register[ProceedingsData](r, ProceedingsEdited)
	codec.Register[IgnoredData](r, ProceedingsEditIgnored)
	codec.Register[AddedToCaseData](r, ApplicationAddedToCase)
	codec.Register[ReferredToBoxworkData](r, ApplicationReferredToBoxwork)
	codec.Register[ReferredToExistingHearingData](r, ApplicationReferredToExistingHearing)
	codec.Register[CourtHearingInitiatedData](r, InitiateCourtHearingAfterSummonsApproved)
	codec.Register[SummonsApprovedData](r, SummonsApproved)
	codec.Register[SummonsRejectedData](r, SummonsRejected)
	codec.Register[ResultedData](r, HearingResultedApplicationUpdated)
	codec.Register[HearingLinkedData](r, HearingLinked)
	codec.Register[DefendantUpdatedData](r, DefendantUpdated)
}
