package court

import (
	"github.com/google/uuid"
)

// ProsecutionCaseIdentifier identifies a case at its prosecuting authority.
type ProsecutionCaseIdentifier struct {
	ProsecutionAuthorityID        uuid.UUID `json:"prosecutionAuthorityId"`
	ProsecutionAuthorityCode      string    `json:"prosecutionAuthorityCode,omitempty"`
	ProsecutionAuthorityReference string    `json:"prosecutionAuthorityReference,omitempty"`
	CaseURN                       string    `json:"caseURN,omitempty"`
}

// Defendant is a defendant of a prosecution case.
type Defendant struct {
	ID                   uuid.UUID        `json:"id"`
	MasterDefendantID    uuid.UUID        `json:"masterDefendantId"`
	ProsecutionCaseID    uuid.UUID        `json:"prosecutionCaseId"`
	Person               *Person          `json:"personDefendant,omitempty"`
	IsYouth              bool             `json:"isYouth"`
	ProceedingsConcluded bool             `json:"proceedingsConcluded"`
	Offences             []Offence        `json:"offences,omitempty"`
	CaseJudicialResults  []JudicialResult `json:"defendantCaseJudicialResults,omitempty"`
}

// Address returns the address of the defendant, or nil.
func (d Defendant) Address() *Address {
	if d.Person == nil {
		return nil
	}
	return d.Person.Address
}

// ProsecutionCase is a case brought by a prosecuting authority.
type ProsecutionCase struct {
	ID                      uuid.UUID                 `json:"id"`
	Identifier              ProsecutionCaseIdentifier `json:"prosecutionCaseIdentifier"`
	CaseStatus              CaseStatus                `json:"caseStatus,omitempty"`
	CPSOrganisation         string                    `json:"cpsOrganisation,omitempty"`
	OriginatingOrganisation string                    `json:"originatingOrganisation,omitempty"`
	GroupID                 uuid.UUID                 `json:"groupId,omitempty"`
	IsGroupMaster           bool                      `json:"isGroupMaster"`
	IsGroupMember           bool                      `json:"isGroupMember"`
	Defendants              []Defendant               `json:"defendants,omitempty"`
}

// Defendant returns the defendant with the given id or master defendant id.
func (c ProsecutionCase) Defendant(id uuid.UUID) (Defendant, bool) {
	for _, d := range c.Defendants {
		if d.ID == id || d.MasterDefendantID == id {
			return d, true
		}
	}
	return Defendant{}, false
}

// DefendantJudicialResult is a case-level judicial result for a defendant,
// attached to the hearing rather than to an offence.
type DefendantJudicialResult struct {
	MasterDefendantID uuid.UUID      `json:"masterDefendantId"`
	JudicialResult    JudicialResult `json:"judicialResult"`
}

// HearingDay is a sitting day of a hearing.
type HearingDay struct {
	SittingDay            string `json:"sittingDay"`
	ListedDurationMinutes int    `json:"listedDurationMinutes,omitempty"`
}

// Hearing is a hearing snapshot as carried by hearing events.
type Hearing struct {
	ID                       uuid.UUID                 `json:"id"`
	Type                     HearingType               `json:"type"`
	JurisdictionType         JurisdictionType          `json:"jurisdictionType"`
	CourtCentre              CourtCentre               `json:"courtCentre"`
	HearingDays              []HearingDay              `json:"hearingDays,omitempty"`
	JudiciaryRoles           []JudicialRole            `json:"judiciary,omitempty"`
	ProsecutionCases         []ProsecutionCase         `json:"prosecutionCases,omitempty"`
	CourtApplications        []CourtApplication        `json:"courtApplications,omitempty"`
	DefendantJudicialResults []DefendantJudicialResult `json:"defendantJudicialResults,omitempty"`
	ListingStatus            string                    `json:"hearingListingStatus,omitempty"`
	IsGroupProceedings       bool                      `json:"isGroupProceedings"`
}
