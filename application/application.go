// Package application implements the court application aggregate.
package application

import (
	"context"

	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/court"
	"github.com/courtflow/progression/event"
	"github.com/google/uuid"
)

// AggregateName is the name of the application aggregate.
const AggregateName = "progression.application"

// State is the lifecycle state of an application.
type State int

const (
	NonExistent = State(iota)
	Initiated
	Edited
	SummonsApprovedState
	SummonsRejectedState
	Finalised
)

func (s State) String() string {
	switch s {
	case NonExistent:
		return "NonExistent"
	case Initiated:
		return "Initiated"
	case Edited:
		return "Edited"
	case SummonsApprovedState:
		return "SummonsApproved"
	case SummonsRejectedState:
		return "SummonsRejected"
	case Finalised:
		return "Finalised"
	default:
		return "Unknown"
	}
}

// Application is a court application.
type Application struct {
	*aggregate.Base

	state                   State
	application             court.CourtApplication
	courtHearing            *court.CourtHearingRequest
	boxHearing              *court.BoxHearingRequest
	summonsApprovalRequired bool
	linkedHearings          map[uuid.UUID]bool
}

// New returns the application with the given id.
func New(id uuid.UUID) *Application {
	return &Application{
		Base:           aggregate.New(AggregateName, id),
		linkedHearings: make(map[uuid.UUID]bool),
	}
}

// State returns the lifecycle state of the application.
func (a *Application) State() State {
	return a.state
}

// CourtApplication returns the recorded application.
func (a *Application) CourtApplication() court.CourtApplication {
	return a.application
}

// LinkedTo reports whether the application is linked to the hearing.
func (a *Application) LinkedTo(hearingID uuid.UUID) bool {
	return a.linkedHearings[hearingID]
}

func (a *Application) initiated() bool {
	return a.state != NonExistent
}

func (a *Application) open() bool {
	return a.initiated() && a.state != Finalised
}

func (a *Application) validate(name string, req Proceedings) error {
	return command.Validate(name).
		RequireID("courtApplication.id", req.Application.ID).
		Require(req.Application.ID == a.AggregateID(), "courtApplication.id", "must match the application stream").
		Err()
}

// InitiateProceedings initiates the court proceedings of the application. A
// retried command against an initiated application and an application whose
// cases mix SJP and non-SJP cases are ignored.
func (a *Application) InitiateProceedings(ctx context.Context, e *Enricher, req Proceedings) error {
	if err := a.validate(InitiateProceedingsCmd, req); err != nil {
		return err
	}

	if a.initiated() || !uniformSJP(req.Application.Cases) {
		aggregate.Next(a, ProceedingsInitiateIgnored, IgnoredData{ApplicationID: a.AggregateID()})
		return nil
	}

	app := e.Enrich(ctx, req)
	if app.Status == "" {
		app.Status = court.ApplicationInProgress
	}

	aggregate.Next(a, ProceedingsInitiated, ProceedingsData{
		Application:             app,
		CourtHearing:            req.CourtHearing,
		BoxHearing:              req.BoxHearing,
		SummonsApprovalRequired: req.SummonsApprovalRequired,
		IsSJP:                   isSJP(app.Cases),
	})

	return nil
}

// EditProceedings edits the proceedings of an initiated application, applying
// the same enrichment as InitiateProceedings.
func (a *Application) EditProceedings(ctx context.Context, e *Enricher, req Proceedings) error {
	if err := a.validate(EditProceedingsCmd, req); err != nil {
		return err
	}

	if !a.initiated() || !uniformSJP(req.Application.Cases) {
		aggregate.Next(a, ProceedingsEditIgnored, IgnoredData{ApplicationID: a.AggregateID()})
		return nil
	}

	if !a.open() {
		return nil
	}

	app := e.Enrich(ctx, req)
	if app.Status == "" {
		app.Status = a.application.Status
	}

	aggregate.Next(a, ProceedingsEdited, ProceedingsData{
		Application:             app,
		CourtHearing:            req.CourtHearing,
		BoxHearing:              req.BoxHearing,
		SummonsApprovalRequired: req.SummonsApprovalRequired,
		IsSJP:                   isSJP(app.Cases),
	})

	return nil
}

// ListOrRefer adds an application with cases or a court order to its cases
// and refers it to boxwork, or refers an application with a linked hearing to
// that hearing.
func (a *Application) ListOrRefer() {
	if !a.open() {
		return
	}

	app := a.application
	switch {
	case len(app.Cases) > 0 || app.HasCourtOrder():
		aggregate.Next(a, ApplicationAddedToCase, AddedToCaseData{Application: app})
		aggregate.Next(a, ApplicationReferredToBoxwork, ReferredToBoxworkData{Application: app, BoxHearing: a.boxHearing})
	case app.LinkedHearingID != uuid.Nil:
		aggregate.Next(a, ApplicationReferredToExistingHearing, ReferredToExistingHearingData{
			Application: app,
			HearingID:   app.LinkedHearingID,
		})
	}
}

// ApproveSummons approves the summons of the application. If a court hearing
// was requested with the proceedings, the hearing is initiated first.
func (a *Application) ApproveSummons(approval SummonsApproval) {
	if !a.awaitingSummonsDecision() {
		return
	}

	if a.courtHearing != nil {
		h := *a.courtHearing
		if h.ID == uuid.Nil {
			h.ID = uuid.NewSHA1(a.AggregateID(), []byte("summons-hearing"))
		}
		aggregate.Next(a, InitiateCourtHearingAfterSummonsApproved, CourtHearingInitiatedData{
			ApplicationID: a.AggregateID(),
			Hearing:       h,
			Application:   a.application,
		})
	}

	aggregate.Next(a, SummonsApproved, SummonsApprovedData{
		ApplicationID:      a.AggregateID(),
		ProsecutionCaseIDs: a.application.CaseIDs(),
		Approval:           approval,
	})
}

// RejectSummons rejects the summons of the application.
func (a *Application) RejectSummons(reasons []string, prosecutorEmail string) {
	if !a.awaitingSummonsDecision() {
		return
	}

	aggregate.Next(a, SummonsRejected, SummonsRejectedData{
		ApplicationID:          a.AggregateID(),
		ProsecutionCaseIDs:     a.application.CaseIDs(),
		Reasons:                reasons,
		ProsecutorEmailAddress: prosecutorEmail,
	})
}

func (a *Application) awaitingSummonsDecision() bool {
	return a.state == Initiated || a.state == Edited
}

// HearingResultedUpdate records the application as resulted at a hearing. The
// application is finalised if any of its judicial results is FINAL. Otherwise
// the recorded status is kept, and a finalised application stays finalised.
// The parties recorded on the stream take precedence over the hearing's copy.
func (a *Application) HearingResultedUpdate(app court.CourtApplication) error {
	if err := command.Validate(HearingResultedUpdateCmd).
		Require(app.ID == a.AggregateID(), "courtApplication.id", "must match the application stream").
		Err(); err != nil {
		return err
	}

	switch {
	case court.HasFinal(app.JudicialResults), a.state == Finalised:
		app.Status = court.ApplicationFinalised
	default:
		app.Status = a.application.Status
	}

	if a.initiated() {
		app.Applicant = a.application.Applicant
		app.Subject = a.application.Subject
		app.Respondents = a.application.Respondents
		app.ThirdParties = a.application.ThirdParties
	}

	aggregate.Next(a, HearingResultedApplicationUpdated, ResultedData{Application: app})

	return nil
}

// LinkHearing links the application to a hearing.
func (a *Application) LinkHearing(hearingID uuid.UUID) error {
	if err := command.Validate(LinkHearingCmd).RequireID("hearingId", hearingID).Err(); err != nil {
		return err
	}

	if a.linkedHearings[hearingID] {
		return nil
	}

	aggregate.Next(a, HearingLinked, HearingLinkedData{ApplicationID: a.AggregateID(), HearingID: hearingID})

	return nil
}

// UpdateDefendant updates the defendant details of the party linked to the
// defendant's master defendant.
func (a *Application) UpdateDefendant(d court.Defendant) {
	if !a.open() {
		return
	}

	if _, ok := a.application.UpdateDefendant(d); !ok {
		return
	}

	aggregate.Next(a, DefendantUpdated, DefendantUpdatedData{ApplicationID: a.AggregateID(), Defendant: d})
}

// ApplyEvent implements aggregate.Aggregate.
func (a *Application) ApplyEvent(evt event.Event) {
	switch evt.Name() {
	case ProceedingsInitiated:
		a.proceedingsInitiated(event.Cast[ProceedingsData](evt))
	case ProceedingsEdited:
		a.proceedingsEdited(event.Cast[ProceedingsData](evt))
	case SummonsApproved:
		a.state = SummonsApprovedState
	case SummonsRejected:
		a.state = SummonsRejectedState
	case HearingResultedApplicationUpdated:
		a.resulted(event.Cast[ResultedData](evt))
	case HearingLinked:
		a.linkedHearings[event.Cast[HearingLinkedData](evt).HearingID] = true
	case DefendantUpdated:
		a.defendantUpdated(event.Cast[DefendantUpdatedData](evt))
	}
}

func (a *Application) proceedingsInitiated(data ProceedingsData) {
	a.state = Initiated
	a.application = data.Application
	a.courtHearing = data.CourtHearing
	a.boxHearing = data.BoxHearing
	a.summonsApprovalRequired = data.SummonsApprovalRequired
}

func (a *Application) proceedingsEdited(data ProceedingsData) {
	if a.state == Initiated {
		a.state = Edited
	}
	a.application = data.Application
	a.courtHearing = data.CourtHearing
	a.boxHearing = data.BoxHearing
	a.summonsApprovalRequired = data.SummonsApprovalRequired
}

func (a *Application) resulted(data ResultedData) {
	a.application = data.Application
	if data.Application.Status == court.ApplicationFinalised {
		a.state = Finalised
	}
}

func (a *Application) defendantUpdated(data DefendantUpdatedData) {
	a.application, _ = a.application.UpdateDefendant(data.Defendant)
}

func uniformSJP(cases []court.ApplicationCase) bool {
	for _, c := range cases {
		if c.IsSJP != cases[0].IsSJP {
			return false
		}
	}
	return true
}

func isSJP(cases []court.ApplicationCase) bool {
	return len(cases) > 0 && cases[0].IsSJP
}
