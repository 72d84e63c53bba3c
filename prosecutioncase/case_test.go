package prosecutioncase_test

import (
	"testing"

	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/court"
	"github.com/courtflow/progression/prosecutioncase"
	"github.com/courtflow/progression/test"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	test.NewAggregate(t, prosecutioncase.New, prosecutioncase.AggregateName)
	test.NewAggregate(t, prosecutioncase.NewGroup, prosecutioncase.GroupAggregateName)
}

func newCase(defendants ...uuid.UUID) court.ProsecutionCase {
	c := court.ProsecutionCase{ID: uuid.New(), CaseStatus: court.CaseReadyForReview}
	for _, id := range defendants {
		c.Defendants = append(c.Defendants, court.Defendant{ID: id, MasterDefendantID: id})
	}
	return c
}

func resulted(pc court.ProsecutionCase, concluded ...bool) court.ProsecutionCase {
	pc.Defendants = append([]court.Defendant(nil), pc.Defendants...)
	for i := range concluded {
		pc.Defendants[i].ProceedingsConcluded = concluded[i]
	}
	return pc
}

func created(t *testing.T, pc court.ProsecutionCase) *prosecutioncase.Case {
	t.Helper()
	c := prosecutioncase.New(pc.ID)
	if err := c.Create(pc); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	c.Commit()
	return c
}

func TestCase_Create(t *testing.T) {
	pc := newCase(uuid.New())
	c := prosecutioncase.New(pc.ID)

	for i := 0; i < 2; i++ {
		if err := c.Create(pc); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	test.Change(t, c, prosecutioncase.CaseCreated, test.Exactly(1))

	if c.Status() != court.CaseReadyForReview {
		t.Errorf("status should be %s; is %s", court.CaseReadyForReview, c.Status())
	}

	if err := c.Create(newCase()); !command.IsValidationError(err) {
		t.Errorf("Create should reject another case id; got %v", err)
	}
}

func TestCase_ApplyHearingResult(t *testing.T) {
	d1, d2 := uuid.New(), uuid.New()
	pc := newCase(d1, d2)
	c := created(t, pc)
	hearingID := uuid.New()

	if err := c.ApplyHearingResult(hearingID, resulted(pc, true, false), nil, false); err != nil {
		t.Fatalf("ApplyHearingResult failed: %v", err)
	}

	test.Changes(t, c, prosecutioncase.DefendantsProceedingsConcludedChanged)
	test.Change(t, c, prosecutioncase.DefendantsProceedingsConcludedChanged, test.EventData(prosecutioncase.ConcludedChangedData{
		CaseID:    pc.ID,
		HearingID: hearingID,
		Defendants: []prosecutioncase.DefendantConcluded{
			{DefendantID: d1, ProceedingsConcluded: true},
			{DefendantID: d2, ProceedingsConcluded: false},
		},
	}))

	if c.Status() != court.CaseReadyForReview {
		t.Fatalf("case with an open defendant should keep its status; got %s", c.Status())
	}
	c.Commit()

	if err := c.ApplyHearingResult(uuid.New(), resulted(pc, false, true), nil, false); err != nil {
		t.Fatalf("ApplyHearingResult failed: %v", err)
	}

	test.Changes(t, c, prosecutioncase.DefendantsProceedingsConcludedChanged, prosecutioncase.CaseStatusUpdated)

	if !c.Concluded(d1) || !c.Concluded(d2) {
		t.Errorf("concluded flags should never flip back to false")
	}
	if c.Status() != court.CaseInactive {
		t.Errorf("status should be %s; is %s", court.CaseInactive, c.Status())
	}
	c.Commit()

	if err := c.ApplyHearingResult(uuid.New(), resulted(pc, true, true), nil, false); err != nil {
		t.Fatalf("ApplyHearingResult failed: %v", err)
	}
	test.Changes(t, c)
}

func TestCase_ApplyHearingResult_caseLevelFinal(t *testing.T) {
	d1, d2 := uuid.New(), uuid.New()
	final := court.JudicialResult{ID: uuid.New(), Category: court.Final}

	tests := []struct {
		name           string
		resulted       func(court.ProsecutionCase) court.ProsecutionCase
		hearingResults func(court.ProsecutionCase) []court.DefendantJudicialResult
	}{
		{
			name: "hearing result",
			resulted: func(pc court.ProsecutionCase) court.ProsecutionCase {
				return resulted(pc, false, false)
			},
			hearingResults: func(court.ProsecutionCase) []court.DefendantJudicialResult {
				return []court.DefendantJudicialResult{{MasterDefendantID: d1, JudicialResult: final}}
			},
		},
		{
			name: "defendant case result",
			resulted: func(pc court.ProsecutionCase) court.ProsecutionCase {
				pc = resulted(pc, false, false)
				pc.Defendants[1].CaseJudicialResults = []court.JudicialResult{final}
				return pc
			},
			hearingResults: func(court.ProsecutionCase) []court.DefendantJudicialResult { return nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := newCase(d1, d2)
			c := created(t, pc)

			if err := c.ApplyHearingResult(uuid.New(), tt.resulted(pc), tt.hearingResults(pc), false); err != nil {
				t.Fatalf("ApplyHearingResult failed: %v", err)
			}

			test.Changes(t, c, prosecutioncase.CaseStatusUpdated)

			if c.Status() != court.CaseInactive {
				t.Errorf("status should be %s; is %s", court.CaseInactive, c.Status())
			}
		})
	}
}

func TestCase_ApplyHearingResult_resultedStatusIgnored(t *testing.T) {
	pc := newCase(uuid.New())
	c := created(t, pc)

	in := resulted(pc, false)
	in.CaseStatus = court.CaseInactive
	if err := c.ApplyHearingResult(uuid.New(), in, nil, false); err != nil {
		t.Fatalf("ApplyHearingResult failed: %v", err)
	}

	test.Changes(t, c)

	if c.Status() != court.CaseReadyForReview {
		t.Errorf("status of the resulted case should not be taken over; got %s", c.Status())
	}
}

func TestCase_ApplyHearingResult_partialHearing(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	pc := newCase(a, b)
	c := created(t, pc)

	listed := resulted(pc, true)
	listed.Defendants = listed.Defendants[:1]
	listed.CaseStatus = court.CaseInactive

	if err := c.ApplyHearingResult(uuid.New(), listed, nil, false); err != nil {
		t.Fatalf("ApplyHearingResult failed: %v", err)
	}

	test.Changes(t, c, prosecutioncase.DefendantsProceedingsConcludedChanged)

	if !c.Concluded(a) || c.Concluded(b) {
		t.Errorf("only %s should be concluded; concluded(a)=%v concluded(b)=%v", a, c.Concluded(a), c.Concluded(b))
	}
	if c.Status() != court.CaseReadyForReview {
		t.Errorf("case with an open defendant should keep its status; got %s", c.Status())
	}
	if got := c.ResultedStatus(listed, nil); got != court.CaseReadyForReview {
		t.Errorf("ResultedStatus should be %s; is %s", court.CaseReadyForReview, got)
	}
	c.Commit()

	other := resulted(pc, false, true)
	other.Defendants = other.Defendants[1:]

	if err := c.ApplyHearingResult(uuid.New(), other, nil, false); err != nil {
		t.Fatalf("ApplyHearingResult failed: %v", err)
	}

	test.Changes(t, c, prosecutioncase.DefendantsProceedingsConcludedChanged, prosecutioncase.CaseStatusUpdated)

	if c.Status() != court.CaseInactive {
		t.Errorf("status should be %s once every defendant is concluded; is %s", court.CaseInactive, c.Status())
	}
}

func TestCase_ApplyHearingResult_groupProceedings(t *testing.T) {
	pc := newCase(uuid.New())
	c := created(t, pc)

	if err := c.ApplyHearingResult(uuid.New(), resulted(pc, true), nil, true); err != nil {
		t.Fatalf("ApplyHearingResult failed: %v", err)
	}

	test.Changes(t, c, prosecutioncase.DefendantsProceedingsConcludedChanged)

	if c.Status() != court.CaseReadyForReview {
		t.Errorf("group proceedings should not change the case status; got %s", c.Status())
	}
}

func TestCase_replay(t *testing.T) {
	d := uuid.New()
	pc := newCase(d)
	c := prosecutioncase.New(pc.ID)
	if err := c.Create(pc); err != nil {
		t.Fatal(err)
	}
	if err := c.ApplyHearingResult(uuid.New(), resulted(pc, true), nil, false); err != nil {
		t.Fatal(err)
	}

	replayed := prosecutioncase.New(pc.ID)
	if err := aggregate.ApplyHistory(replayed, c.AggregateChanges()); err != nil {
		t.Fatalf("ApplyHistory failed: %v", err)
	}

	if !replayed.Concluded(d) || replayed.Status() != court.CaseInactive {
		t.Errorf("replayed case should be concluded and inactive; concluded=%v status=%s", replayed.Concluded(d), replayed.Status())
	}
}

func TestCase_UpdateStatus(t *testing.T) {
	c := created(t, newCase())

	if err := c.UpdateStatus(court.CaseReadyForReview); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	test.Changes(t, c)

	if err := c.UpdateStatus(court.CaseInactive); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	test.Change(t, c, prosecutioncase.CaseStatusUpdated, test.EventData(prosecutioncase.StatusUpdatedData{
		CaseID: c.AggregateID(),
		Status: court.CaseInactive,
	}))

	if err := c.UpdateStatus(""); !command.IsValidationError(err) {
		t.Errorf("UpdateStatus should reject an empty status; got %v", err)
	}
}

func TestGroupCase(t *testing.T) {
	master, member := uuid.New(), uuid.New()
	g := prosecutioncase.NewGroup(uuid.New())

	if err := g.RecordMemberStatus(member, court.CaseInactive); err != nil {
		t.Fatalf("RecordMemberStatus failed: %v", err)
	}
	test.Changes(t, g)

	if err := g.Initiate(master, []uuid.UUID{member, master}); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	if err := g.Initiate(master, []uuid.UUID{uuid.New()}); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}

	test.Changes(t, g, prosecutioncase.GroupCasesInitiated)
	if diff := cmp.Diff([]uuid.UUID{master, member}, g.Members()); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}
	g.Commit()

	if err := g.RecordMemberStatus(uuid.New(), court.CaseInactive); !command.IsValidationError(err) {
		t.Fatalf("RecordMemberStatus should reject non-members; got %v", err)
	}

	if err := g.RecordMemberStatus(member, court.CaseInactive); err != nil {
		t.Fatalf("RecordMemberStatus failed: %v", err)
	}
	test.Changes(t, g, prosecutioncase.MemberCaseStatusRecorded)
	g.Commit()

	if err := g.RecordMemberStatus(master, court.CaseInactive); err != nil {
		t.Fatalf("RecordMemberStatus failed: %v", err)
	}
	test.Changes(t, g, prosecutioncase.MemberCaseStatusRecorded, prosecutioncase.GroupCaseStatusUpdated)
	test.Change(t, g, prosecutioncase.GroupCaseStatusUpdated, test.EventData(prosecutioncase.GroupStatusData{
		GroupID:      g.AggregateID(),
		MasterCaseID: master,
		Status:       court.CaseInactive,
	}))

	if !g.Concluded() {
		t.Errorf("group should be concluded")
	}
	g.Commit()

	if err := g.RecordMemberStatus(master, court.CaseActive); err != nil {
		t.Fatal(err)
	}
	if err := g.RecordMemberStatus(master, court.CaseInactive); err != nil {
		t.Fatal(err)
	}
	test.NoChange(t, g, prosecutioncase.GroupCaseStatusUpdated)
}
