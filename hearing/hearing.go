// Package hearing implements the hearing aggregate.
package hearing

import (
	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/court"
	"github.com/courtflow/progression/event"
	"github.com/google/uuid"
)

// AggregateName is the name of the hearing aggregate.
const AggregateName = "progression.hearing"

// Hearing is a court hearing.
type Hearing struct {
	*aggregate.Base

	initiated bool
	resulted  bool
	deleted   bool
	hearing   court.Hearing

	adjournments    map[uuid.UUID]court.Adjournment
	committingCourt *court.CommittingCourt
}

// New returns the hearing with the given id.
func New(id uuid.UUID) *Hearing {
	return &Hearing{
		Base:         aggregate.New(AggregateName, id),
		adjournments: make(map[uuid.UUID]court.Adjournment),
	}
}

// Snapshot returns the current hearing snapshot.
func (h *Hearing) Snapshot() court.Hearing {
	return h.hearing
}

// Initiated reports whether the hearing was initiated.
func (h *Hearing) Initiated() bool {
	return h.initiated
}

// Resulted reports whether the hearing was resulted.
func (h *Hearing) Resulted() bool {
	return h.resulted
}

// Deleted reports whether the hearing was deleted.
func (h *Hearing) Deleted() bool {
	return h.deleted
}

// Adjournment returns the last adjournment recorded for an offence.
func (h *Hearing) Adjournment(offenceID uuid.UUID) (court.Adjournment, bool) {
	adj, ok := h.adjournments[offenceID]
	return adj, ok
}

// CommittingCourt returns the first committing court recorded for the
// hearing, or nil.
func (h *Hearing) CommittingCourt() *court.CommittingCourt {
	return h.committingCourt
}

func (h *Hearing) open() bool {
	return h.initiated && !h.deleted
}

func (h *Hearing) validate(name string, hearing court.Hearing) error {
	return command.Validate(name).
		RequireID("hearing.id", hearing.ID).
		Require(hearing.ID == h.AggregateID(), "hearing.id", "must match the hearing stream").
		Err()
}

// Initiate initiates the hearing. Initiating an initiated hearing is ignored.
func (h *Hearing) Initiate(hearing court.Hearing) error {
	if err := h.validate(InitiateCmd, hearing); err != nil {
		return err
	}

	if h.initiated {
		aggregate.Next(h, HearingInitiateIgnored, IgnoredData{HearingID: h.AggregateID()})
		return nil
	}

	aggregate.Next(h, HearingInitiated, InitiatedData{Hearing: hearing})

	return nil
}

// Result records the results of the hearing. It always emits HearingResulted,
// followed by ProsecutionCasesResulted if the hearing has prosecution cases
// and ApplicationsResulted if it has court applications. A deleted hearing
// ignores results.
func (h *Hearing) Result(hearing court.Hearing, shadowListed []uuid.UUID) error {
	if err := h.validate(ResultCmd, hearing); err != nil {
		return err
	}

	if h.deleted {
		return nil
	}

	resulted := resultHearing(hearing, h.adjournments)

	aggregate.Next(h, HearingResulted, ResultedData{Hearing: resulted, ShadowListedOffences: shadowListed})

	if len(resulted.ProsecutionCases) > 0 {
		cc := h.committingCourt
		if cc == nil && resulted.JurisdictionType == court.Magistrates {
			cc = committingCourt(resulted)
		}
		aggregate.Next(h, ProsecutionCasesResulted, CasesResultedData{
			Hearing:              resulted,
			ShadowListedOffences: shadowListed,
			CommittingCourt:      cc,
		})
	}

	if len(resulted.CourtApplications) > 0 {
		aggregate.Next(h, ApplicationsResulted, ResultedData{Hearing: resulted, ShadowListedOffences: shadowListed})
	}

	return nil
}

// Unallocate removes offences from the hearing. Resulted and deleted hearings
// ignore unallocation.
func (h *Hearing) Unallocate(offenceIDs []uuid.UUID) error {
	if err := command.Validate(UnallocateCmd).
		Require(len(offenceIDs) > 0, "offenceIds", "must not be empty").
		Err(); err != nil {
		return err
	}

	if !h.open() || h.resulted {
		return nil
	}

	aggregate.Next(h, HearingUnallocated, UnallocatedData{HearingID: h.AggregateID(), OffenceIDs: offenceIDs})

	return nil
}

// UpdateOffenceVerdict sets the verdict of an offence of the hearing. Unknown
// offences are ignored.
func (h *Hearing) UpdateOffenceVerdict(offenceID uuid.UUID, v court.Verdict) error {
	if err := command.Validate(UpdateVerdictCmd).RequireID("offenceId", offenceID).Err(); err != nil {
		return err
	}

	if !h.open() || !h.hasOffence(offenceID) {
		return nil
	}

	aggregate.Next(h, OffenceVerdictUpdated, VerdictUpdatedData{HearingID: h.AggregateID(), OffenceID: offenceID, Verdict: v})

	return nil
}

func (h *Hearing) hasOffence(id uuid.UUID) bool {
	var found bool
	offences(h.hearing, func(o court.Offence) {
		if o.ID == id {
			found = true
		}
	})
	return found
}

// RemoveCourtroom removes the courtroom from the court centre of the hearing.
func (h *Hearing) RemoveCourtroom() {
	if !h.open() || h.hearing.CourtCentre.RoomID == uuid.Nil {
		return
	}
	aggregate.Next(h, CourtroomRemoved, HearingData{HearingID: h.AggregateID()})
}

// Delete deletes the hearing. A deleted hearing ignores further commands.
func (h *Hearing) Delete() {
	if !h.open() {
		return
	}
	aggregate.Next(h, HearingDeleted, HearingData{HearingID: h.AggregateID()})
}

// UpdateApplicationDefendant updates the parties of an application of the
// hearing that are linked to the master defendant of d. The updated hearing is
// also populated to the probation caseworker.
func (h *Hearing) UpdateApplicationDefendant(applicationID uuid.UUID, d court.Defendant) error {
	if err := command.Validate(UpdateApplicationDefendantCmd).
		RequireID("applicationId", applicationID).
		RequireID("defendant.masterDefendantId", d.MasterDefendantID).
		Err(); err != nil {
		return err
	}

	if !h.open() {
		return nil
	}

	updated := h.hearing
	updated.CourtApplications = make([]court.CourtApplication, len(h.hearing.CourtApplications))
	var matched bool
	for i, app := range h.hearing.CourtApplications {
		if app.ID == applicationID {
			var ok bool
			app, ok = app.UpdateDefendant(d)
			matched = matched || ok
		}
		updated.CourtApplications[i] = app
	}

	if !matched {
		return nil
	}

	aggregate.Next(h, ApplicationDefendantUpdated, ApplicationDefendantUpdatedData{
		Hearing:       updated,
		ApplicationID: applicationID,
		Defendant:     d,
	})
	aggregate.Next(h, HearingPopulatedToProbationCaseworker, PopulatedData{Hearing: updated})
	aggregate.Next(h, VejHearingPopulatedToProbationCaseworker, PopulatedData{Hearing: updated})

	return nil
}

// ApplyEvent implements aggregate.Aggregate.
func (h *Hearing) ApplyEvent(evt event.Event) {
	switch evt.Name() {
	case HearingInitiated:
		h.initiated = true
		h.hearing = event.Cast[InitiatedData](evt).Hearing
	case HearingResulted:
		h.resultedEvent(event.Cast[ResultedData](evt))
	case ProsecutionCasesResulted:
		if data := event.Cast[CasesResultedData](evt); h.committingCourt == nil {
			h.committingCourt = data.CommittingCourt
		}
	case HearingUnallocated:
		h.hearing = withoutOffences(h.hearing, event.Cast[UnallocatedData](evt).OffenceIDs)
	case OffenceVerdictUpdated:
		data := event.Cast[VerdictUpdatedData](evt)
		h.hearing = withVerdict(h.hearing, data.OffenceID, data.Verdict)
	case CourtroomRemoved:
		h.hearing.CourtCentre.RoomID = uuid.Nil
		h.hearing.CourtCentre.RoomName = ""
	case HearingDeleted:
		h.deleted = true
	case ApplicationDefendantUpdated:
		h.hearing = event.Cast[ApplicationDefendantUpdatedData](evt).Hearing
	}
}

func (h *Hearing) resultedEvent(data ResultedData) {
	h.initiated = true
	h.resulted = true
	h.hearing = data.Hearing

	offences(data.Hearing, func(o court.Offence) {
		if o.LastAdjournDate == nil {
			return
		}
		h.adjournments[o.ID] = court.MergeAdjournment(h.adjournments[o.ID], court.Adjournment{
			Date:        *o.LastAdjournDate,
			HearingType: o.LastAdjournedHearingType,
		})
	})
}
