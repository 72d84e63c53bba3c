package hearing

import (
	"github.com/courtflow/progression/codec"
	"github.com/courtflow/progression/court"
	"github.com/google/uuid"
)

const (
	HearingInitiated                         = "progression.event.hearing-initiated"
	HearingInitiateIgnored                   = "progression.event.hearing-initiate-ignored"
	HearingResulted                          = "progression.event.hearing-resulted"
	ProsecutionCasesResulted                 = "progression.event.prosecution-cases-resulted"
	ApplicationsResulted                     = "progression.event.applications-resulted"
	HearingUnallocated                       = "progression.event.hearing-unallocated"
	OffenceVerdictUpdated                    = "progression.event.hearing-offence-verdict-updated"
	CourtroomRemoved                         = "progression.event.hearing-courtroom-removed"
	HearingDeleted                           = "progression.event.hearing-deleted"
	ApplicationDefendantUpdated              = "progression.event.hearing-application-defendant-updated"
	HearingPopulatedToProbationCaseworker    = "progression.event.hearing-populated-to-probation-caseworker"
	VejHearingPopulatedToProbationCaseworker = "progression.event.vej-hearing-populated-to-probation-caseworker"
)

// InitiatedData is the payload of HearingInitiated events.
type InitiatedData struct {
	Hearing court.Hearing `json:"hearing"`
}

// IgnoredData is the payload of HearingInitiateIgnored events.
type IgnoredData struct {
	HearingID uuid.UUID `json:"hearingId"`
}

// ResultedData is the payload of HearingResulted and ApplicationsResulted
// events. Hearing is the full resulted hearing snapshot.
type ResultedData struct {
	Hearing              court.Hearing `json:"hearing"`
	ShadowListedOffences []uuid.UUID   `json:"shadowListedOffences,omitempty"`
}

// CasesResultedData is the payload of ProsecutionCasesResulted events.
type CasesResultedData struct {
	Hearing              court.Hearing          `json:"hearing"`
	ShadowListedOffences []uuid.UUID            `json:"shadowListedOffences,omitempty"`
	CommittingCourt      *court.CommittingCourt `json:"committingCourt,omitempty"`
}

// UnallocatedData is the payload of HearingUnallocated events.
type UnallocatedData struct {
	HearingID  uuid.UUID   `json:"hearingId"`
	OffenceIDs []uuid.UUID `json:"offenceIds"`
}

// VerdictUpdatedData is the payload of OffenceVerdictUpdated events.
type VerdictUpdatedData struct {
	HearingID uuid.UUID     `json:"hearingId"`
	OffenceID uuid.UUID     `json:"offenceId"`
	Verdict   court.Verdict `json:"verdict"`
}

// HearingData is the payload of events that only identify the hearing.
type HearingData struct {
	HearingID uuid.UUID `json:"hearingId"`
}

// ApplicationDefendantUpdatedData is the payload of
// ApplicationDefendantUpdated events.
type ApplicationDefendantUpdatedData struct {
	Hearing       court.Hearing   `json:"hearing"`
	ApplicationID uuid.UUID       `json:"applicationId"`
	Defendant     court.Defendant `json:"defendant"`
}

// PopulatedData is the payload of the probation caseworker events.
type PopulatedData struct {
	Hearing court.Hearing `json:"hearing"`
}

// RegisterEvents registers the hearing events into a registry.
func RegisterEvents(r *codec.Registry) {
	codec.Register[InitiatedData](r, HearingInitiated)
	codec.Register[IgnoredData](r, HearingInitiateIgnored)
	codec.Register[ResultedData](r, HearingResulted)
	codec.Register[CasesResultedData](r, ProsecutionCasesResulted)
	codec.Register[ResultedData](r, ApplicationsResulted)
	codec.Register[UnallocatedData](r, HearingUnallocated)
	codec.Register[VerdictUpdatedData](r, OffenceVerdictUpdated)
	codec.Register[HearingData](r, CourtroomRemoved)
	codec.Register[HearingData](r, HearingDeleted)
	codec.Register[ApplicationDefendantUpdatedData](r, ApplicationDefendantUpdated)
	codec.Register[PopulatedData](r, HearingPopulatedToProbationCaseworker)
	codec.Register[PopulatedData](r, VejHearingPopulatedToProbationCaseworker)
}
