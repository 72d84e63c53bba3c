// Package register implements the court register aggregate. A court register
// collects the document requests of one court centre for one day.
package register

import (
	"strings"
	"time"

	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/court"
	"github.com/courtflow/progression/event"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// AggregateName is the name of the court register aggregate.
const AggregateName = "progression.court-register"

// DateLayout is the layout of register dates.
const DateLayout = court.DateLayout

// Namespace is the UUID namespace of court register stream ids.
var Namespace = uuid.MustParse("5c0f3b52-9f4e-4d8b-a4a6-2f3f1a0c6e71")

// StreamID returns the id of the register of a court centre on a date. Only
// the calendar date of date in its own location is used.
func StreamID(courtCentreID uuid.UUID, date time.Time) uuid.UUID {
	name := make([]byte, 0, len(courtCentreID)+len(DateLayout))
	name = append(name, courtCentreID[:]...)
	name = append(name, court.CalendarDate(date)...)
	return uuid.NewSHA1(Namespace, name)
}

// Defendant types of register requests for application defendants.
const (
	Applicant  = "Applicant"
	Respondent = "Respondent"
	Subject    = "Subject"
)

// Request is a document request of a court register.
type Request struct {
	ID                uuid.UUID               `json:"id"`
	HearingID         uuid.UUID               `json:"hearingId"`
	ProsecutionCaseID uuid.UUID               `json:"prosecutionCaseId,omitempty"`
	MasterDefendantID uuid.UUID               `json:"masterDefendantId,omitempty"`
	Application       *court.CourtApplication `json:"courtApplication,omitempty"`
	DefendantType     string                  `json:"defendantType"`
}

// Recipient is a recipient of a court register.
type Recipient struct {
	Name         string `json:"recipientName,omitempty"`
	EmailAddress string `json:"emailAddress"`
}

func (r Recipient) key() string {
	return strings.ToLower(strings.TrimSpace(r.EmailAddress))
}

// DefendantType returns the role of the requested master defendant in the
// application of req: Applicant, Respondent or Subject. It returns an empty
// string if the request has no application or the defendant has no role. An
// applicant without a master defendant yields Applicant.
func DefendantType(req Request) string {
	app := req.Application
	if app == nil || app.ID == uuid.Nil {
		return ""
	}

	if app.Applicant != nil {
		if app.Applicant.MasterDefendant == nil || app.Applicant.MasterDefendantID() == req.MasterDefendantID {
			return Applicant
		}
	}

	for i := range app.Respondents {
		if app.Respondents[i].MasterDefendant != nil && app.Respondents[i].MasterDefendantID() == req.MasterDefendantID {
			return Respondent
		}
	}

	if app.Subject != nil && app.Subject.MasterDefendant != nil && app.Subject.MasterDefendantID() == req.MasterDefendantID {
		return Subject
	}

	return ""
}

// Register is the court register of a court centre for one day.
type Register struct {
	*aggregate.Base

	courtCentreID uuid.UUID
	date          time.Time
	requests      []Request
	recorded      map[uuid.UUID]bool
	pending       []uuid.UUID
	generations   int
	notified      map[string]bool
}

// New returns the court register with the given stream id.
func New(id uuid.UUID) *Register {
	return &Register{
		Base:     aggregate.New(AggregateName, id),
		recorded: make(map[uuid.UUID]bool),
		notified: make(map[string]bool),
	}
}

// CourtCentreID returns the court centre of the register.
func (r *Register) CourtCentreID() uuid.UUID {
	return r.courtCentreID
}

// Date returns the date of the register.
func (r *Register) Date() time.Time {
	return r.date
}

// Requests returns the recorded requests.
func (r *Register) Requests() []Request {
	return slices.Clone(r.requests)
}

// Pending returns the ids of the requests recorded since the last generation.
func (r *Register) Pending() []uuid.UUID {
	return slices.Clone(r.pending)
}

// Generations returns how often the register was generated.
func (r *Register) Generations() int {
	return r.generations
}

// Notified returns the email addresses of the notified recipients, sorted.
func (r *Register) Notified() []string {
	keys := maps.Keys(r.notified)
	slices.Sort(keys)
	return keys
}

func (r *Register) validate(name string, courtCentreID uuid.UUID, date time.Time) error {
	return command.Validate(name).
		RequireID("courtCentreId", courtCentreID).
		Require(!date.IsZero(), "registerDate", "must not be empty").
		Require(StreamID(courtCentreID, date) == r.AggregateID(), "courtCentreId", "must match the register stream").
		Err()
}

// Record records a document request. Requests that were already recorded
// are ignored.
func (r *Register) Record(courtCentreID uuid.UUID, date time.Time, req Request) error {
	if err := r.validate(RecordCmd, courtCentreID, date); err != nil {
		return err
	}
	if err := command.Validate(RecordCmd).
		RequireID("courtRegisterRequest.id", req.ID).
		RequireID("courtRegisterRequest.hearingId", req.HearingID).
		Err(); err != nil {
		return err
	}

	if r.recorded[req.ID] {
		return nil
	}

	req.DefendantType = DefendantType(req)

	aggregate.Next(r, CourtRegisterRecorded, RecordedData{
		CourtCentreID: courtCentreID,
		RegisterDate:  date,
		Request:       req,
	})

	return nil
}

// Generate generates the register from the pending requests. Without pending
// requests nothing is generated.
func (r *Register) Generate(courtCentreID uuid.UUID, date time.Time) error {
	if err := r.validate(GenerateCmd, courtCentreID, date); err != nil {
		return err
	}

	if len(r.pending) == 0 {
		return nil
	}

	aggregate.Next(r, CourtRegisterGenerated, GeneratedData{
		CourtCentreID: courtCentreID,
		RegisterDate:  date,
		RequestIDs:    slices.Clone(r.pending),
	})

	return nil
}

// Notify notifies recipients of the generated register. Recipients that were
// already notified are skipped.
func (r *Register) Notify(courtCentreID uuid.UUID, date time.Time, recipients []Recipient) error {
	if err := r.validate(NotifyCmd, courtCentreID, date); err != nil {
		return err
	}

	if r.generations == 0 {
		return nil
	}

	seen := make(map[string]bool, len(recipients))
	var notify []Recipient
	for _, rcpt := range recipients {
		key := rcpt.key()
		if key == "" || r.notified[key] || seen[key] {
			continue
		}
		seen[key] = true
		notify = append(notify, rcpt)
	}

	if len(notify) == 0 {
		return nil
	}

	aggregate.Next(r, CourtRegisterNotifiedV2, NotifiedV2Data{
		CourtCentreID: courtCentreID,
		RegisterDate:  date,
		Recipients:    notify,
	})

	return nil
}

// ApplyEvent implements aggregate.Aggregate.
func (r *Register) ApplyEvent(evt event.Event) {
	switch evt.Name() {
	case CourtRegisterRecorded:
		data := event.Cast[RecordedData](evt)
		r.courtCentreID = data.CourtCentreID
		r.date = data.RegisterDate
		r.requests = append(r.requests, data.Request)
		r.recorded[data.Request.ID] = true
		r.pending = append(r.pending, data.Request.ID)
	case CourtRegisterGenerated:
		r.generations++
		r.pending = nil
	case CourtRegisterNotified:
		for _, email := range event.Cast[NotifiedData](evt).Recipients {
			r.notified[Recipient{EmailAddress: email}.key()] = true
		}
	case CourtRegisterNotifiedV2:
		for _, rcpt := range event.Cast[NotifiedV2Data](evt).Recipients {
			r.notified[rcpt.key()] = true
		}
	}
}
