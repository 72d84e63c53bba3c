package court

import (
	"time"

	"github.com/google/uuid"
)

// NextHearing is the hearing a judicial result adjourns to.
type NextHearing struct {
	Type                HearingType `json:"type"`
	CourtCentre         CourtCentre `json:"courtCentre"`
	ListedStartDateTime time.Time   `json:"listedStartDateTime"`
	EstimatedMinutes    int         `json:"estimatedMinutes,omitempty"`
}

// JudicialResult is a result pronounced at a hearing.
type JudicialResult struct {
	ID                   uuid.UUID    `json:"judicialResultId"`
	JudicialResultTypeID uuid.UUID    `json:"judicialResultTypeId"`
	Label                string       `json:"label,omitempty"`
	Category             Category     `json:"category"`
	OrderedDate          time.Time    `json:"orderedDate"`
	NextHearing          *NextHearing `json:"nextHearing,omitempty"`
	AdjournmentReason    string       `json:"adjournmentReason,omitempty"`
}

// IsAdjournment reports whether the result adjourns the offence to a dated
// next hearing.
func (r JudicialResult) IsAdjournment() bool {
	return r.AdjournmentReason != "" && !r.OrderedDate.IsZero()
}

// Verdict is the verdict on an offence.
type Verdict struct {
	VerdictTypeID uuid.UUID `json:"verdictTypeId"`
	Category      string    `json:"category,omitempty"`
	VerdictDate   time.Time `json:"verdictDate"`
}

// CommittingCourt is the magistrates' court that committed an offence to the
// Crown Court.
type CommittingCourt struct {
	CourtCentreID  uuid.UUID `json:"courtCentreId"`
	CourtHouseCode string    `json:"courtHouseCode,omitempty"`
	CourtHouseName string    `json:"courtHouseName,omitempty"`
	CourtHouseType string    `json:"courtHouseType,omitempty"`
}

// ReportingRestriction restricts press reporting of an offence.
type ReportingRestriction struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label,omitempty"`
}

// Offence is an offence charged against a defendant.
type Offence struct {
	ID                       uuid.UUID              `json:"id"`
	OffenceCode              string                 `json:"offenceCode,omitempty"`
	Title                    string                 `json:"offenceTitle,omitempty"`
	Wording                  string                 `json:"wording,omitempty"`
	WordingWelsh             string                 `json:"wordingWelsh,omitempty"`
	JudicialResults          []JudicialResult       `json:"judicialResults,omitempty"`
	LastAdjournDate          *time.Time             `json:"lastAdjournDate,omitempty"`
	LastAdjournedHearingType string                 `json:"lastAdjournedHearingType,omitempty"`
	ProceedingsConcluded     bool                   `json:"proceedingsConcluded"`
	Verdict                  *Verdict               `json:"verdict,omitempty"`
	CommittingCourt          *CommittingCourt       `json:"committingCourt,omitempty"`
	ReportingRestrictions    []ReportingRestriction `json:"reportingRestrictions,omitempty"`
}
