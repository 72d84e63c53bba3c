package hearing_test

import (
	"context"
	"testing"
	"time"

	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/aggregate/repository"
	"github.com/courtflow/progression/backend/memory"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/court"
	"github.com/courtflow/progression/event"
	"github.com/courtflow/progression/hearing"
	"github.com/courtflow/progression/test"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	test.NewAggregate(t, hearing.New, hearing.AggregateName)
}

func result(category court.Category) court.JudicialResult {
	return court.JudicialResult{ID: uuid.New(), Category: category}
}

func adjournment(date time.Time, hearingType string) court.JudicialResult {
	return court.JudicialResult{
		ID:                uuid.New(),
		Category:          court.Intermediary,
		OrderedDate:       date,
		AdjournmentReason: "awaiting reports",
		NextHearing:       &court.NextHearing{Type: court.HearingType{Description: hearingType}},
	}
}

func defendant(results ...[]court.JudicialResult) court.Defendant {
	id := uuid.New()
	d := court.Defendant{ID: id, MasterDefendantID: id}
	for _, r := range results {
		d.Offences = append(d.Offences, court.Offence{ID: uuid.New(), OffenceCode: "TH68001", JudicialResults: r})
	}
	return d
}

func prosecutionCase(defendants ...court.Defendant) court.ProsecutionCase {
	return court.ProsecutionCase{ID: uuid.New(), CaseStatus: court.CaseReadyForReview, Defendants: defendants}
}

func newHearing(id uuid.UUID, cases ...court.ProsecutionCase) court.Hearing {
	return court.Hearing{
		ID:               id,
		JurisdictionType: court.Magistrates,
		CourtCentre:      court.CourtCentre{ID: uuid.New(), Name: "Lavender Hill", RoomID: uuid.New(), RoomName: "Courtroom 01"},
		ProsecutionCases: cases,
	}
}

func initiated(t *testing.T, h court.Hearing) *hearing.Hearing {
	t.Helper()
	a := hearing.New(h.ID)
	if err := a.Initiate(h); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	a.Commit()
	return a
}

func TestHearing_Initiate(t *testing.T) {
	id := uuid.New()
	h := hearing.New(id)

	if err := h.Initiate(newHearing(id)); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	if err := h.Initiate(newHearing(id)); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}

	test.Changes(t, h, hearing.HearingInitiated, hearing.HearingInitiateIgnored)

	if err := h.Initiate(newHearing(uuid.New())); !command.IsValidationError(err) {
		t.Fatalf("Initiate should reject another hearing id; got %v", err)
	}
}

func TestHearing_Result(t *testing.T) {
	id := uuid.New()
	concluded := defendant([]court.JudicialResult{result(court.Intermediary)}, []court.JudicialResult{result(court.Final)})
	open := defendant([]court.JudicialResult{result(court.Ancillary)})

	mixed := prosecutionCase(concluded, open)
	done := prosecutionCase(defendant([]court.JudicialResult{result(court.Final)}))

	in := newHearing(id, mixed, done)
	in.CourtApplications = []court.CourtApplication{{ID: uuid.New()}}
	shadow := []uuid.UUID{uuid.New()}

	h := hearing.New(id)
	if err := h.Result(in, shadow); err != nil {
		t.Fatalf("Result failed: %v", err)
	}

	test.Changes(t, h, hearing.HearingResulted, hearing.ProsecutionCasesResulted, hearing.ApplicationsResulted)

	data := test.Data[hearing.CasesResultedData](t, h, hearing.ProsecutionCasesResulted)
	if diff := cmp.Diff(shadow, data.ShadowListedOffences); diff != "" {
		t.Errorf("shadow listed offences mismatch (-want +got):\n%s", diff)
	}

	cases := data.Hearing.ProsecutionCases
	if got := cases[0].Defendants[0]; !got.ProceedingsConcluded || got.Offences[0].ProceedingsConcluded || !got.Offences[1].ProceedingsConcluded {
		t.Errorf("defendant with a FINAL offence should be concluded with per-offence flags; got %+v", got)
	}
	if cases[0].Defendants[1].ProceedingsConcluded {
		t.Errorf("defendant without a FINAL offence should not be concluded")
	}
	if cases[0].CaseStatus != court.CaseReadyForReview {
		t.Errorf("case with an open defendant should keep status %s; got %s", court.CaseReadyForReview, cases[0].CaseStatus)
	}
	if cases[1].CaseStatus != court.CaseInactive {
		t.Errorf("case with all defendants concluded should be %s; got %s", court.CaseInactive, cases[1].CaseStatus)
	}

	if in.ProsecutionCases[0].Defendants[0].ProceedingsConcluded {
		t.Errorf("Result should not modify the command payload")
	}

	if !h.Resulted() {
		t.Errorf("hearing should be resulted")
	}
}

func TestHearing_Result_caseLevelFinal(t *testing.T) {
	id := uuid.New()
	d := defendant([]court.JudicialResult{result(court.Intermediary)})
	in := newHearing(id, prosecutionCase(d))
	in.DefendantJudicialResults = []court.DefendantJudicialResult{{MasterDefendantID: d.MasterDefendantID, JudicialResult: result(court.Final)}}

	h := hearing.New(id)
	if err := h.Result(in, nil); err != nil {
		t.Fatalf("Result failed: %v", err)
	}

	data := test.Data[hearing.ResultedData](t, h, hearing.HearingResulted)
	if status := data.Hearing.ProsecutionCases[0].CaseStatus; status != court.CaseInactive {
		t.Errorf("case-level FINAL result should make the case %s; got %s", court.CaseInactive, status)
	}
}

func TestHearing_Result_groupProceedings(t *testing.T) {
	id := uuid.New()
	in := newHearing(id, prosecutionCase(defendant([]court.JudicialResult{result(court.Final)})))
	in.IsGroupProceedings = true

	h := hearing.New(id)
	if err := h.Result(in, nil); err != nil {
		t.Fatalf("Result failed: %v", err)
	}

	data := test.Data[hearing.ResultedData](t, h, hearing.HearingResulted)
	if status := data.Hearing.ProsecutionCases[0].CaseStatus; status != court.CaseReadyForReview {
		t.Errorf("group proceedings should not derive the case status; got %s", status)
	}
	if !data.Hearing.ProsecutionCases[0].Defendants[0].ProceedingsConcluded {
		t.Errorf("group proceedings should still derive proceedings concluded")
	}
}

func TestHearing_Result_adjournmentMonotonic(t *testing.T) {
	id := uuid.New()
	later := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	earlier := later.AddDate(0, 0, -14)

	d := defendant([]court.JudicialResult{adjournment(later, "Sentence")})
	offenceID := d.Offences[0].ID

	h := hearing.New(id)
	if err := h.Result(newHearing(id, prosecutionCase(d)), nil); err != nil {
		t.Fatalf("Result failed: %v", err)
	}

	redelivered := d
	redelivered.Offences = []court.Offence{{ID: offenceID, JudicialResults: []court.JudicialResult{adjournment(earlier, "Trial")}}}
	if err := h.Result(newHearing(id, prosecutionCase(redelivered)), nil); err != nil {
		t.Fatalf("Result failed: %v", err)
	}

	want := court.Adjournment{Date: later, HearingType: "Sentence"}
	if adj, _ := h.Adjournment(offenceID); !adj.Date.Equal(want.Date) || adj.HearingType != want.HearingType {
		t.Fatalf("adjournment should stay %+v; got %+v", want, adj)
	}

	changes := h.AggregateChanges()
	last := event.Cast[hearing.ResultedData](changes[len(changes)-2]).Hearing.ProsecutionCases[0].Defendants[0].Offences[0]
	if last.LastAdjournDate == nil || !last.LastAdjournDate.Equal(later) || last.LastAdjournedHearingType != "Sentence" {
		t.Errorf("resulted offence should carry the later adjournment; got %v %q", last.LastAdjournDate, last.LastAdjournedHearingType)
	}

	replayed := hearing.New(id)
	if err := aggregate.ApplyHistory(replayed, changes); err != nil {
		t.Fatalf("ApplyHistory failed: %v", err)
	}
	if adj, _ := replayed.Adjournment(offenceID); !adj.Date.Equal(later) {
		t.Errorf("replayed adjournment should be %v; got %v", later, adj.Date)
	}
}

func TestHearing_Result_committingCourt(t *testing.T) {
	id := uuid.New()
	first := &court.CommittingCourt{CourtCentreID: uuid.New(), CourtHouseName: "Lavender Hill"}
	second := &court.CommittingCourt{CourtCentreID: uuid.New(), CourtHouseName: "Westminster"}

	withCourt := func(cc *court.CommittingCourt) court.Hearing {
		d := defendant([]court.JudicialResult{result(court.Intermediary)})
		d.Offences[0].CommittingCourt = cc
		return newHearing(id, prosecutionCase(d))
	}

	h := hearing.New(id)
	if err := h.Result(withCourt(first), nil); err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	h.Commit()

	if err := h.Result(withCourt(second), nil); err != nil {
		t.Fatalf("Result failed: %v", err)
	}

	data := test.Data[hearing.CasesResultedData](t, h, hearing.ProsecutionCasesResulted)
	if diff := cmp.Diff(first, data.CommittingCourt); diff != "" {
		t.Errorf("committing court should be the earliest seen (-want +got):\n%s", diff)
	}

	crown := hearing.New(id)
	in := withCourt(first)
	in.JurisdictionType = court.Crown
	if err := crown.Result(in, nil); err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if cc := test.Data[hearing.CasesResultedData](t, crown, hearing.ProsecutionCasesResulted).CommittingCourt; cc != nil {
		t.Errorf("crown court hearings should not carry a committing court; got %+v", cc)
	}
}

func TestHearing_Unallocate(t *testing.T) {
	id := uuid.New()
	d := defendant([]court.JudicialResult{}, []court.JudicialResult{})
	h := initiated(t, newHearing(id, prosecutionCase(d)))

	if err := h.Unallocate(nil); !command.IsValidationError(err) {
		t.Fatalf("Unallocate should reject an empty offence list; got %v", err)
	}

	if err := h.Unallocate([]uuid.UUID{d.Offences[0].ID}); err != nil {
		t.Fatalf("Unallocate failed: %v", err)
	}

	test.Changes(t, h, hearing.HearingUnallocated)

	offences := h.Snapshot().ProsecutionCases[0].Defendants[0].Offences
	if len(offences) != 1 || offences[0].ID != d.Offences[1].ID {
		t.Errorf("unallocated offence should be removed; got %+v", offences)
	}

	if err := h.Unallocate([]uuid.UUID{d.Offences[1].ID}); err != nil {
		t.Fatalf("Unallocate failed: %v", err)
	}
	if len(h.Snapshot().ProsecutionCases) != 0 {
		t.Errorf("cases without offences should be removed")
	}
}

func TestHearing_Unallocate_resulted(t *testing.T) {
	id := uuid.New()
	d := defendant([]court.JudicialResult{result(court.Final)})
	h := hearing.New(id)
	if err := h.Result(newHearing(id, prosecutionCase(d)), nil); err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	h.Commit()

	if err := h.Unallocate([]uuid.UUID{d.Offences[0].ID}); err != nil {
		t.Fatalf("Unallocate failed: %v", err)
	}

	test.Changes(t, h)
}

func TestHearing_UpdateOffenceVerdict(t *testing.T) {
	id := uuid.New()
	d := defendant([]court.JudicialResult{})
	h := initiated(t, newHearing(id, prosecutionCase(d)))
	v := court.Verdict{VerdictTypeID: uuid.New(), Category: "GUILTY", VerdictDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)}

	if err := h.UpdateOffenceVerdict(uuid.New(), v); err != nil {
		t.Fatalf("UpdateOffenceVerdict failed: %v", err)
	}
	test.Changes(t, h)

	if err := h.UpdateOffenceVerdict(d.Offences[0].ID, v); err != nil {
		t.Fatalf("UpdateOffenceVerdict failed: %v", err)
	}
	test.Changes(t, h, hearing.OffenceVerdictUpdated)

	if diff := cmp.Diff(&v, h.Snapshot().ProsecutionCases[0].Defendants[0].Offences[0].Verdict); diff != "" {
		t.Errorf("verdict mismatch (-want +got):\n%s", diff)
	}
}

func TestHearing_RemoveCourtroom(t *testing.T) {
	id := uuid.New()
	h := initiated(t, newHearing(id))

	h.RemoveCourtroom()
	h.RemoveCourtroom()

	test.Changes(t, h, hearing.CourtroomRemoved)

	if centre := h.Snapshot().CourtCentre; centre.RoomID != uuid.Nil || centre.RoomName != "" {
		t.Errorf("courtroom should be removed; got %+v", centre)
	}
}

func TestHearing_Delete(t *testing.T) {
	id := uuid.New()
	d := defendant([]court.JudicialResult{})
	h := initiated(t, newHearing(id, prosecutionCase(d)))

	h.Delete()
	test.Changes(t, h, hearing.HearingDeleted)
	h.Commit()

	h.Delete()
	h.RemoveCourtroom()
	if err := h.Unallocate([]uuid.UUID{d.Offences[0].ID}); err != nil {
		t.Fatal(err)
	}
	if err := h.Result(newHearing(id, prosecutionCase(d)), nil); err != nil {
		t.Fatal(err)
	}

	test.Changes(t, h)
}

func applicationHearing(id, applicationID, masterDefendantID uuid.UUID) court.Hearing {
	h := newHearing(id)
	h.CourtApplications = []court.CourtApplication{{
		ID: applicationID,
		Subject: &court.Party{
			ID:              uuid.New(),
			MasterDefendant: &court.MasterDefendant{MasterDefendantID: masterDefendantID, Person: &court.Person{LastName: "Smith"}},
		},
	}}
	return h
}

func TestHearing_UpdateApplicationDefendant(t *testing.T) {
	id, appID, mdID := uuid.New(), uuid.New(), uuid.New()
	h := initiated(t, applicationHearing(id, appID, mdID))

	if err := h.UpdateApplicationDefendant(appID, court.Defendant{MasterDefendantID: uuid.New()}); err != nil {
		t.Fatalf("UpdateApplicationDefendant failed: %v", err)
	}
	test.Changes(t, h)

	d := court.Defendant{MasterDefendantID: mdID, Person: &court.Person{LastName: "Jones"}}
	if err := h.UpdateApplicationDefendant(appID, d); err != nil {
		t.Fatalf("UpdateApplicationDefendant failed: %v", err)
	}

	test.Changes(t, h,
		hearing.ApplicationDefendantUpdated,
		hearing.HearingPopulatedToProbationCaseworker,
		hearing.VejHearingPopulatedToProbationCaseworker,
	)

	updated := test.Data[hearing.ApplicationDefendantUpdatedData](t, h, hearing.ApplicationDefendantUpdated).Hearing
	populated := test.Data[hearing.PopulatedData](t, h, hearing.HearingPopulatedToProbationCaseworker).Hearing
	vej := test.Data[hearing.PopulatedData](t, h, hearing.VejHearingPopulatedToProbationCaseworker).Hearing

	if diff := cmp.Diff(updated, populated); diff != "" {
		t.Errorf("caseworker events should carry the updated hearing (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(updated, vej); diff != "" {
		t.Errorf("caseworker events should carry the updated hearing (-want +got):\n%s", diff)
	}

	if name := updated.CourtApplications[0].Subject.MasterDefendant.Person.LastName; name != "Jones" {
		t.Errorf("subject should be updated; last name is %q", name)
	}
}

func TestHandleCommands_singleBatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewEventStore()
	d := command.NewDispatcher()
	hearing.HandleCommands(d, repository.New(store))

	id, appID, mdID := uuid.New(), uuid.New(), uuid.New()
	if _, err := d.Dispatch(ctx, hearing.Initiate(applicationHearing(id, appID, mdID))); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	events, err := d.Dispatch(ctx, hearing.UpdateApplicationDefendant(id, appID, court.Defendant{MasterDefendantID: mdID}))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	for i, evt := range events {
		if v := event.VersionOf(evt); v != i+2 {
			t.Errorf("event #%d should have version %d; has %d", i, i+2, v)
		}
	}

	stream, err := store.Load(ctx, event.Ref{Name: hearing.AggregateName, ID: id})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{
		hearing.HearingInitiated,
		hearing.ApplicationDefendantUpdated,
		hearing.HearingPopulatedToProbationCaseworker,
		hearing.VejHearingPopulatedToProbationCaseworker,
	}
	if diff := cmp.Diff(want, event.Names(stream...)); diff != "" {
		t.Errorf("unexpected stream (-want +got):\n%s", diff)
	}
}
