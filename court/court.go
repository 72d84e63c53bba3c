// Package court contains the value types shared by the progression
// aggregates and the rules that derive proceedings and case state from
// judicial results.
package court

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus is the status of a prosecution case.
type CaseStatus string

const (
	CaseActive         = CaseStatus("ACTIVE")
	CaseInactive       = CaseStatus("INACTIVE")
	CaseReadyForReview = CaseStatus("READY_FOR_REVIEW")
	CaseSJPReferral    = CaseStatus("SJP_REFERRAL")
	CaseClosed         = CaseStatus("CLOSED")
)

// ApplicationStatus is the status of a court application.
type ApplicationStatus string

const (
	ApplicationDraft      = ApplicationStatus("DRAFT")
	ApplicationInProgress = ApplicationStatus("IN_PROGRESS")
	ApplicationListed     = ApplicationStatus("LISTED")
	ApplicationFinalised  = ApplicationStatus("FINALISED")
)

// JurisdictionType is the jurisdiction of a hearing.
type JurisdictionType string

const (
	Magistrates = JurisdictionType("MAGISTRATES")
	Crown       = JurisdictionType("CROWN")
)

// Category is the category of a judicial result.
type Category string

const (
	Final        = Category("FINAL")
	Ancillary    = Category("ANCILLARY")
	Intermediary = Category("INTERMEDIARY")
)

// LinkType describes how an application relates to existing proceedings.
type LinkType string

const (
	FirstHearing = LinkType("FIRST_HEARING")
	Linked       = LinkType("LINKED")
	Standalone   = LinkType("STANDALONE")
)

// Address is a postal address.
type Address struct {
	Address1 string `json:"address1,omitempty"`
	Address2 string `json:"address2,omitempty"`
	Address3 string `json:"address3,omitempty"`
	Address4 string `json:"address4,omitempty"`
	Address5 string `json:"address5,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// SameAddress reports whether a and b describe the same address. Two missing
// addresses are the same.
func SameAddress(a, b *Address) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Contact holds contact details.
type Contact struct {
	PrimaryEmail   string `json:"primaryEmail,omitempty"`
	SecondaryEmail string `json:"secondaryEmail,omitempty"`
	Work           string `json:"work,omitempty"`
	Mobile         string `json:"mobile,omitempty"`
}

// Person holds the personal details of a defendant.
type Person struct {
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Address     *Address   `json:"address,omitempty"`
	Contact     *Contact   `json:"contact,omitempty"`
}

// CourtCentre is a court house, optionally narrowed to a room.
type CourtCentre struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code,omitempty"`
	Name     string    `json:"name,omitempty"`
	RoomID   uuid.UUID `json:"roomId,omitempty"`
	RoomName string    `json:"roomName,omitempty"`
}

// JudicialRole is a member of the judiciary sitting at a hearing.
type JudicialRole struct {
	JudicialID uuid.UUID `json:"judicialId"`
	Type       string    `json:"judicialRoleType,omitempty"`
}

// HearingType is the type of a hearing, e.g. "Sentence".
type HearingType struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description,omitempty"`
}

// DateLayout is the layout of calendar dates.
const DateLayout = "2006-01-02"

// CalendarDate returns the calendar date of t in the location t carries. The
// time is not converted to UTC first, so a sitting day keeps its date
// whatever offset it is recorded with.
func CalendarDate(t time.Time) string {
	return t.Format(DateLayout)
}
