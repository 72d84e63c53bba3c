package court

import (
	"time"

	"github.com/google/uuid"
)

// ProsecutingAuthority is a prosecutor party. An authority without a name or
// first name is a standard prosecutor whose details are resolved from
// reference data.
type ProsecutingAuthority struct {
	ProsecutionAuthorityID     uuid.UUID `json:"prosecutionAuthorityId"`
	ProsecutionAuthorityCode   string    `json:"prosecutionAuthorityCode,omitempty"`
	Name                       string    `json:"name,omitempty"`
	WelshName                  string    `json:"welshName,omitempty"`
	FirstName                  string    `json:"firstName,omitempty"`
	LastName                   string    `json:"lastName,omitempty"`
	Address                    *Address  `json:"address,omitempty"`
	Contact                    *Contact  `json:"contact,omitempty"`
	MajorCreditorCode          string    `json:"majorCreditorCode,omitempty"`
	ProsecutionAuthorityOUCode string    `json:"prosecutionAuthorityOUCode,omitempty"`
}

// IsStandard reports whether the authority is a standard prosecutor rather
// than an individual or organisation override.
func (a ProsecutingAuthority) IsStandard() bool {
	return a.FirstName == "" && a.Name == ""
}

// MasterDefendant links a party to a defendant of a prosecution case.
type MasterDefendant struct {
	MasterDefendantID uuid.UUID `json:"masterDefendantId"`
	DefendantID       uuid.UUID `json:"defendantId,omitempty"`
	ProsecutionCaseID uuid.UUID `json:"prosecutionCaseId,omitempty"`
	Person            *Person   `json:"personDefendant,omitempty"`
}

// Address returns the address of the linked defendant, or nil.
func (m MasterDefendant) Address() *Address {
	if m.Person == nil {
		return nil
	}
	return m.Person.Address
}

// Organisation is an organisation party.
type Organisation struct {
	Name    string   `json:"name"`
	Address *Address `json:"address,omitempty"`
}

// Party is a party to a court application.
type Party struct {
	ID                   uuid.UUID             `json:"id"`
	MasterDefendant      *MasterDefendant      `json:"masterDefendant,omitempty"`
	ProsecutingAuthority *ProsecutingAuthority `json:"prosecutingAuthority,omitempty"`
	Organisation         *Organisation         `json:"organisation,omitempty"`
	SummonsRequired      bool                  `json:"summonsRequired"`
	NotificationRequired bool                  `json:"notificationRequired"`
	UpdatedOn            *time.Time            `json:"updatedOn,omitempty"`
}

// AuthorityID returns the prosecuting authority id of the party, or uuid.Nil.
func (p *Party) AuthorityID() uuid.UUID {
	if p == nil || p.ProsecutingAuthority == nil {
		return uuid.Nil
	}
	return p.ProsecutingAuthority.ProsecutionAuthorityID
}

// MasterDefendantID returns the master defendant id of the party, or uuid.Nil.
func (p *Party) MasterDefendantID() uuid.UUID {
	if p == nil || p.MasterDefendant == nil {
		return uuid.Nil
	}
	return p.MasterDefendant.MasterDefendantID
}

// ApplicationType is the type of a court application.
type ApplicationType struct {
	ID                         uuid.UUID `json:"id"`
	Code                       string    `json:"code,omitempty"`
	Type                       string    `json:"type,omitempty"`
	LinkType                   LinkType  `json:"linkType,omitempty"`
	ProsecutorThirdPartyFlag   bool      `json:"prosecutorThirdPartyFlag"`
	SummonsTemplateType        string    `json:"summonsTemplateType,omitempty"`
	ResentencingActivationCode string    `json:"resentencingActivationCode,omitempty"`
	Prefix                     string    `json:"prefix,omitempty"`
}

// ApplicationCase is a prosecution case an application is made against.
type ApplicationCase struct {
	ProsecutionCaseID uuid.UUID                 `json:"prosecutionCaseId"`
	Identifier        ProsecutionCaseIdentifier `json:"prosecutionCaseIdentifier"`
	CaseStatus        CaseStatus                `json:"caseStatus,omitempty"`
	IsSJP             bool                      `json:"isSJP"`
	Offences          []Offence                 `json:"offences,omitempty"`
}

// CourtOrderOffence is an offence of an earlier sentencing that a court order
// was made on.
type CourtOrderOffence struct {
	ProsecutionCaseID uuid.UUID                 `json:"prosecutionCaseId"`
	Identifier        ProsecutionCaseIdentifier `json:"prosecutionCaseIdentifier"`
	Offence           *Offence                  `json:"offence,omitempty"`
}

// CourtOrder is an order, e.g. a suspended sentence, an application relates to.
type CourtOrder struct {
	ID                   uuid.UUID           `json:"id"`
	JudicialResultTypeID uuid.UUID           `json:"judicialResultTypeId"`
	Label                string              `json:"label,omitempty"`
	OrderDate            string              `json:"orderDate,omitempty"`
	Offences             []CourtOrderOffence `json:"courtOrderOffences,omitempty"`
}

// CourtHearingRequest requests a hearing to be listed for an application.
type CourtHearingRequest struct {
	ID                            uuid.UUID        `json:"id,omitempty"`
	CourtCentre                   CourtCentre      `json:"courtCentre"`
	HearingType                   HearingType      `json:"hearingType"`
	JudiciaryRoles                []JudicialRole   `json:"judiciary,omitempty"`
	EarliestStartDateTime         time.Time        `json:"earliestStartDateTime"`
	EstimatedMinutes              int              `json:"estimatedMinutes,omitempty"`
	JurisdictionType              JurisdictionType `json:"jurisdictionType"`
	WeekCommencingDurationInWeeks int              `json:"weekCommencingDurationInWeeks,omitempty"`
}

// BoxHearingRequest requests an application to be dealt with in boxwork.
type BoxHearingRequest struct {
	ID                 uuid.UUID        `json:"id"`
	CourtCentre        CourtCentre      `json:"courtCentre"`
	JurisdictionType   JurisdictionType `json:"jurisdictionType"`
	ApplicationDueDate string           `json:"applicationDueDate,omitempty"`
}

// FutureSummonsHearing is the hearing an application will be listed at once
// its summons is approved.
type FutureSummonsHearing struct {
	CourtCentre                   CourtCentre      `json:"courtCentre"`
	JudiciaryRoles                []JudicialRole   `json:"judiciary,omitempty"`
	EarliestStartDateTime         time.Time        `json:"earliestStartDateTime"`
	EstimatedMinutes              int              `json:"estimatedMinutes,omitempty"`
	JurisdictionType              JurisdictionType `json:"jurisdictionType"`
	WeekCommencingDurationInWeeks int              `json:"weekCommencingDurationInWeeks,omitempty"`
}

// CourtApplication is an application made to the court.
type CourtApplication struct {
	ID                   uuid.UUID             `json:"id"`
	ApplicationReference string                `json:"applicationReference,omitempty"`
	Type                 ApplicationType       `json:"type"`
	ReceivedDate         string                `json:"applicationReceivedDate,omitempty"`
	Particulars          string                `json:"applicationParticulars,omitempty"`
	Applicant            *Party                `json:"applicant,omitempty"`
	Subject              *Party                `json:"subject,omitempty"`
	Respondents          []Party               `json:"respondents,omitempty"`
	ThirdParties         []Party               `json:"thirdParties,omitempty"`
	Cases                []ApplicationCase     `json:"courtApplicationCases,omitempty"`
	CourtOrder           *CourtOrder           `json:"courtOrder,omitempty"`
	FutureSummonsHearing *FutureSummonsHearing `json:"futureSummonsHearing,omitempty"`
	Status               ApplicationStatus     `json:"applicationStatus,omitempty"`
	JudicialResults      []JudicialResult      `json:"judicialResults,omitempty"`
	LinkedHearingID      uuid.UUID             `json:"hearingIdToBeLinked,omitempty"`
}

// HasCourtOrder reports whether the application carries a court order with at
// least one offence.
func (app CourtApplication) HasCourtOrder() bool {
	return app.CourtOrder != nil && len(app.CourtOrder.Offences) > 0
}

// CaseIDs returns the distinct prosecution case ids of the application cases,
// in order of first appearance.
func (app CourtApplication) CaseIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(app.Cases))
	ids := make([]uuid.UUID, 0, len(app.Cases))
	for _, c := range app.Cases {
		if seen[c.ProsecutionCaseID] {
			continue
		}
		seen[c.ProsecutionCaseID] = true
		ids = append(ids, c.ProsecutionCaseID)
	}
	return ids
}

// UpdateDefendant returns a copy of app whose parties linked to the master
// defendant of d carry the personal details of d. The second return value
// reports whether any party matched.
func (app CourtApplication) UpdateDefendant(d Defendant) (CourtApplication, bool) {
	id := d.MasterDefendantID
	if id == uuid.Nil {
		return app, false
	}

	var matched bool
	update := func(p Party) Party {
		md := *p.MasterDefendant
		md.Person = d.Person
		p.MasterDefendant = &md
		matched = true
		return p
	}

	if app.Applicant.MasterDefendantID() == id {
		p := update(*app.Applicant)
		app.Applicant = &p
	}
	if app.Subject.MasterDefendantID() == id {
		p := update(*app.Subject)
		app.Subject = &p
	}

	if app.Respondents != nil {
		respondents := make([]Party, len(app.Respondents))
		for i, p := range app.Respondents {
			if p.MasterDefendantID() == id {
				p = update(p)
			}
			respondents[i] = p
		}
		app.Respondents = respondents
	}

	return app, matched
}
