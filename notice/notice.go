// Package notice decides which listing and result notices are generated for
// the defendants of a prosecution case.
//
// A notice is generated at most once per kind, defendant and trigger date.
// A request for a notice that was already sent is skipped, a request that
// fails the criteria of its kind deactivates the notice and any other request
// generates the notice document.
package notice

import (
	"fmt"
	"time"

	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/court"
	"github.com/courtflow/progression/event"
	"github.com/google/uuid"
)

// AggregateName is the name of the notice aggregate. Notices are streamed per
// prosecution case.
const AggregateName = "progression.notice"

// Kind is the kind of a notice.
type Kind string

const (
	PublicList = Kind("public-list")
	PressList  = Kind("press-list")
	ResultList = Kind("result-list")
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case PublicList, PressList, ResultList:
		return true
	default:
		return false
	}
}

// Outcome is the outcome of a notice request.
type Outcome int

const (
	// Skipped means the notice was already sent.
	Skipped = Outcome(iota)

	// Deactivated means the defendant does not meet the criteria of the notice.
	Deactivated

	// Generated means the notice was generated.
	Generated
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Deactivated:
		return "deactivated"
	case Generated:
		return "generated"
	default:
		return fmt.Sprintf("<unknown outcome %d>", int(o))
	}
}

type key struct {
	kind      Kind
	defendant uuid.UUID
	date      string
}

func keyOf(kind Kind, defendantID uuid.UUID, date time.Time) key {
	return key{kind: kind, defendant: defendantID, date: court.CalendarDate(date)}
}

// Notices holds the notices of a prosecution case.
type Notices struct {
	*aggregate.Base

	sent map[key]bool
}

// New returns the notices of the prosecution case with the given id.
func New(caseID uuid.UUID) *Notices {
	return &Notices{
		Base: aggregate.New(AggregateName, caseID),
		sent: make(map[key]bool),
	}
}

// Sent reports whether a notice of the given kind was sent for a defendant on
// the date.
func (n *Notices) Sent(kind Kind, defendantID uuid.UUID, date time.Time) bool {
	return n.sent[keyOf(kind, defendantID, date)]
}

// Generate requests a notice of the given kind for a defendant of pc on the
// trigger date.
func (n *Notices) Generate(kind Kind, pc court.ProsecutionCase, defendantID uuid.UUID, date time.Time) (Outcome, error) {
	if err := command.Validate(GenerateCmd).
		Require(kind.Valid(), "kind", fmt.Sprintf("unknown notice kind %q", kind)).
		Require(pc.ID == n.AggregateID(), "prosecutionCase.id", "must match the notice stream").
		RequireID("defendantId", defendantID).
		Require(!date.IsZero(), "triggerDate", "must not be empty").
		Err(); err != nil {
		return Skipped, err
	}

	if n.Sent(kind, defendantID, date) {
		return Skipped, nil
	}

	d, found := pc.Defendant(defendantID)
	reason := "defendant not found"
	if found {
		reason = criteria(kind, pc, d)
	}

	if reason != "" {
		aggregate.Next(n, NoticeDeactivated, DeactivatedData{
			CaseID:      pc.ID,
			DefendantID: defendantID,
			Kind:        kind,
			TriggerDate: date,
			Reason:      reason,
		})
		return Deactivated, nil
	}

	doc, err := render(kind, pc, d, date)
	if err != nil {
		return Skipped, fmt.Errorf("render %s notice: %w", kind, err)
	}

	aggregate.Next(n, NoticeGenerated, GeneratedData{
		CaseID:      pc.ID,
		DefendantID: defendantID,
		Kind:        kind,
		TriggerDate: date,
		Document:    doc,
	})

	return Generated, nil
}

// criteria returns why d doesn't meet the criteria of the notice kind, or an
// empty string.
func criteria(kind Kind, pc court.ProsecutionCase, d court.Defendant) string {
	if d.IsYouth {
		return "defendant is a youth"
	}

	switch kind {
	case PublicList, PressList:
		if len(d.Offences) == 0 {
			return "defendant has no offences"
		}
		if pc.CaseStatus == court.CaseInactive {
			return "case is inactive"
		}
		if kind == PressList {
			for _, o := range d.Offences {
				if len(o.ReportingRestrictions) > 0 {
					return "offence has reporting restrictions"
				}
			}
		}
	case ResultList:
		for _, o := range d.Offences {
			if len(o.JudicialResults) > 0 {
				return ""
			}
		}
		return "defendant has no results"
	}

	return ""
}

// ApplyEvent implements aggregate.Aggregate.
func (n *Notices) ApplyEvent(evt event.Event) {
	switch evt.Name() {
	case NoticeGenerated:
		data := event.Cast[GeneratedData](evt)
		n.sent[keyOf(data.Kind, data.DefendantID, data.TriggerDate)] = true
	}
}
