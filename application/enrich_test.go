package application_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/courtflow/progression/application"
	"github.com/courtflow/progression/court"
	"github.com/courtflow/progression/refdata"
	mock_refdata "github.com/courtflow/progression/refdata/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newEnricher(static *refdata.Static) *application.Enricher {
	return application.NewEnricher(static, static, application.Clock(func() time.Time { return fixedNow }))
}

func authority(id uuid.UUID) *court.ProsecutingAuthority {
	return &court.ProsecutingAuthority{ProsecutionAuthorityID: id}
}

func TestEnricher_Enrich_caseProsecutor(t *testing.T) {
	cpsID := uuid.New()
	app := court.CourtApplication{
		ID:        uuid.New(),
		Applicant: &court.Party{ID: uuid.New(), Organisation: &court.Organisation{Name: "Probation"}},
		Cases: []court.ApplicationCase{
			{ProsecutionCaseID: uuid.New(), Identifier: court.ProsecutionCaseIdentifier{ProsecutionAuthorityID: cpsID, ProsecutionAuthorityCode: "CPS"}},
			{ProsecutionCaseID: uuid.New(), Identifier: court.ProsecutionCaseIdentifier{ProsecutionAuthorityID: cpsID, ProsecutionAuthorityCode: "CPS"}},
		},
	}

	got := newEnricher(refdata.NewStatic()).Enrich(context.Background(), application.Proceedings{Application: app})

	if len(got.ThirdParties) != 1 {
		t.Fatalf("application should have %d third party; has %d", 1, len(got.ThirdParties))
	}

	tp := got.ThirdParties[0]
	if tp.AuthorityID() != cpsID {
		t.Errorf("third party should be the case prosecutor %s; is %s", cpsID, tp.AuthorityID())
	}
	if !tp.SummonsRequired || !tp.NotificationRequired {
		t.Errorf("third party should require summons and notification")
	}
	if tp.ID != uuid.NewSHA1(app.ID, cpsID[:]) {
		t.Errorf("third party id should be derived from the application and authority")
	}
}

func TestEnricher_Enrich_prosecutorIsApplicant(t *testing.T) {
	cpsID := uuid.New()
	app := court.CourtApplication{
		ID:        uuid.New(),
		Applicant: &court.Party{ID: uuid.New(), ProsecutingAuthority: authority(cpsID)},
		Cases: []court.ApplicationCase{
			{ProsecutionCaseID: uuid.New(), Identifier: court.ProsecutionCaseIdentifier{ProsecutionAuthorityID: cpsID}},
		},
	}

	got := newEnricher(refdata.NewStatic()).Enrich(context.Background(), application.Proceedings{Application: app})

	if len(got.ThirdParties) != 0 {
		t.Fatalf("the applicant prosecutor should not be added as third party; got %d third parties", len(got.ThirdParties))
	}
}

func TestEnricher_Enrich_linkedCourtOrderProsecutor(t *testing.T) {
	orderAuthority := uuid.New()
	app := court.CourtApplication{
		ID:   uuid.New(),
		Type: court.ApplicationType{LinkType: court.Linked},
		CourtOrder: &court.CourtOrder{
			ID: uuid.New(),
			Offences: []court.CourtOrderOffence{{
				Identifier: court.ProsecutionCaseIdentifier{ProsecutionAuthorityID: orderAuthority},
				Offence:    &court.Offence{ID: uuid.New(), OffenceCode: "TH68001", Wording: "stole"},
			}},
		},
	}

	got := newEnricher(refdata.NewStatic()).Enrich(context.Background(), application.Proceedings{Application: app})

	if len(got.ThirdParties) != 1 || got.ThirdParties[0].AuthorityID() != orderAuthority {
		t.Fatalf("court order prosecutor should be added as third party; got %+v", got.ThirdParties)
	}
}

func TestEnricher_Enrich_resolveProsecutor(t *testing.T) {
	cpsID := uuid.New()
	static := refdata.NewStatic().AddProsecutor(refdata.Prosecutor{
		ID:       cpsID,
		Code:     "CPS",
		FullName: "Crown Prosecution Service",
		OUCode:   "A30AB00",
		Address:  &court.Address{Address1: "102 Petty France", Postcode: "SW1H 9EA"},
	})

	app := court.CourtApplication{
		ID:        uuid.New(),
		Applicant: &court.Party{ID: uuid.New(), ProsecutingAuthority: authority(cpsID)},
		Respondents: []court.Party{
			{ID: uuid.New(), ProsecutingAuthority: &court.ProsecutingAuthority{ProsecutionAuthorityID: cpsID, Name: "Override"}},
		},
	}

	got := newEnricher(static).Enrich(context.Background(), application.Proceedings{Application: app})

	want := &court.ProsecutingAuthority{
		ProsecutionAuthorityID:     cpsID,
		ProsecutionAuthorityCode:   "CPS",
		Name:                       "Crown Prosecution Service",
		Address:                    &court.Address{Address1: "102 Petty France", Postcode: "SW1H 9EA"},
		ProsecutionAuthorityOUCode: "A30AB00",
	}
	if diff := cmp.Diff(want, got.Applicant.ProsecutingAuthority); diff != "" {
		t.Errorf("applicant authority mismatch (-want +got):\n%s", diff)
	}

	if name := got.Respondents[0].ProsecutingAuthority.Name; name != "Override" {
		t.Errorf("non-standard authorities should not be resolved; name is %q", name)
	}

	if app.Applicant.ProsecutingAuthority.Name != "" {
		t.Errorf("Enrich should not modify the request")
	}
}

func TestEnricher_Enrich_prosecutorLookupOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mock_refdata.NewMockLookup(ctrl)
	query := mock_refdata.NewMockQuery(ctrl)
	cpsID := uuid.New()

	lookup.EXPECT().Prosecutor(gomock.Any(), cpsID).Return(refdata.Prosecutor{ID: cpsID, FullName: "CPS"}, nil).Times(1)

	app := court.CourtApplication{
		ID:        uuid.New(),
		Applicant: &court.Party{ID: uuid.New(), ProsecutingAuthority: authority(cpsID)},
		Respondents: []court.Party{
			{ID: uuid.New(), ProsecutingAuthority: authority(cpsID)},
			{ID: uuid.New(), ProsecutingAuthority: authority(cpsID)},
		},
	}

	got := application.NewEnricher(lookup, query).Enrich(context.Background(), application.Proceedings{Application: app})

	for _, p := range got.Respondents {
		if p.ProsecutingAuthority.Name != "CPS" {
			t.Errorf("respondent authority should be resolved; name is %q", p.ProsecutingAuthority.Name)
		}
	}
}

func courtOrderApplication(linkType court.LinkType, resultType uuid.UUID) court.CourtApplication {
	return court.CourtApplication{
		ID: uuid.New(),
		Type: court.ApplicationType{
			LinkType:                   linkType,
			Prefix:                     "Resentenced",
			ResentencingActivationCode: "CJ03510",
		},
		CourtOrder: &court.CourtOrder{
			ID:                   uuid.New(),
			JudicialResultTypeID: resultType,
			Offences: []court.CourtOrderOffence{
				{
					Identifier: court.ProsecutionCaseIdentifier{CaseURN: "32DN1212262"},
					Offence:    &court.Offence{ID: uuid.New(), OffenceCode: "TH68001", Wording: "Stole a bike", WordingWelsh: "Dwyn beic"},
				},
				{
					Identifier: court.ProsecutionCaseIdentifier{CaseURN: "32DN1212262"},
					Offence:    &court.Offence{OffenceCode: "TH68002", Wording: "No id"},
				},
			},
		},
	}
}

func TestEnricher_Enrich_resentencingWording(t *testing.T) {
	app := courtOrderApplication(court.Linked, uuid.New())

	got := newEnricher(refdata.NewStatic()).Enrich(context.Background(), application.Proceedings{Application: app})

	offences := got.CourtOrder.Offences
	if len(offences) != 1 {
		t.Fatalf("offences without an id should be dropped; got %d offences", len(offences))
	}

	o := offences[0].Offence
	if want := "Original CaseURN: 32DN1212262, Resentenced Original code : TH68001, Original details: Stole a bike"; o.Wording != want {
		t.Errorf("wording should be %q; is %q", want, o.Wording)
	}
	if want := "Original CaseURN: 32DN1212262, Resentenced Original code : TH68001, Original details: Dwyn beic"; o.WordingWelsh != want {
		t.Errorf("welsh wording should be %q; is %q", want, o.WordingWelsh)
	}
	if o.OffenceCode != "CJ03510" {
		t.Errorf("offence code should be the resentencing activation code; is %q", o.OffenceCode)
	}

	if app.CourtOrder.Offences[0].Offence.Wording != "Stole a bike" {
		t.Errorf("Enrich should not modify the request")
	}
}

func TestEnricher_Enrich_activationWording(t *testing.T) {
	app := courtOrderApplication(court.Standalone, application.SuspendedSentenceActivationTypeID)

	got := newEnricher(refdata.NewStatic()).Enrich(context.Background(), application.Proceedings{Application: app})

	o := got.CourtOrder.Offences[0].Offence
	if want := "Activation of a suspended sentence order. Original CaseURN: 32DN1212262, Original code : TH68001, Original details: Stole a bike"; o.Wording != want {
		t.Errorf("wording should be %q; is %q", want, o.Wording)
	}
}

func TestEnricher_Enrich_regeneratedOnce(t *testing.T) {
	app := courtOrderApplication(court.Linked, uuid.New())
	e := newEnricher(refdata.NewStatic())

	first := e.Enrich(context.Background(), application.Proceedings{Application: app})
	second := e.Enrich(context.Background(), application.Proceedings{Application: first})

	if got := second.CourtOrder.Offences[0].Offence.Wording; strings.Count(got, "Original CaseURN") != 1 {
		t.Errorf("wording should be regenerated once; got %q", got)
	}
}

func TestEnricher_Enrich_firstHearingWording(t *testing.T) {
	app := courtOrderApplication(court.FirstHearing, uuid.New())

	got := newEnricher(refdata.NewStatic()).Enrich(context.Background(), application.Proceedings{Application: app})

	if diff := cmp.Diff(app.CourtOrder, got.CourtOrder); diff != "" {
		t.Errorf("first hearing court orders should be unchanged (-want +got):\n%s", diff)
	}
}

func TestEnricher_Enrich_updatedOn(t *testing.T) {
	caseID := uuid.New()
	moved := uuid.New()
	stayed := uuid.New()

	static := refdata.NewStatic().AddCase(court.ProsecutionCase{
		ID: caseID,
		Defendants: []court.Defendant{
			{ID: moved, MasterDefendantID: moved, Person: &court.Person{Address: &court.Address{Address1: "1 Old Road"}}},
			{ID: stayed, MasterDefendantID: stayed, Person: &court.Person{Address: &court.Address{Address1: "2 Same Street"}}},
		},
	})

	party := func(id uuid.UUID, address string) court.Party {
		return court.Party{
			ID: uuid.New(),
			MasterDefendant: &court.MasterDefendant{
				MasterDefendantID: id,
				DefendantID:       id,
				ProsecutionCaseID: caseID,
				Person:            &court.Person{Address: &court.Address{Address1: address}},
			},
			UpdatedOn: &time.Time{},
		}
	}

	subject := party(moved, "9 New Road")
	app := court.CourtApplication{
		ID:          uuid.New(),
		Subject:     &subject,
		Respondents: []court.Party{party(stayed, "2 Same Street")},
	}

	got := newEnricher(static).Enrich(context.Background(), application.Proceedings{Application: app})

	if got.Subject.UpdatedOn == nil || !got.Subject.UpdatedOn.Equal(fixedNow) {
		t.Errorf("subject with a changed address should be updated on %v; got %v", fixedNow, got.Subject.UpdatedOn)
	}

	if got.Respondents[0].UpdatedOn != nil {
		t.Errorf("respondent with the same address should have no updated-on time; got %v", got.Respondents[0].UpdatedOn)
	}
}

func TestEnricher_Enrich_futureSummonsHearing(t *testing.T) {
	hearing := &court.CourtHearingRequest{
		CourtCentre:           court.CourtCentre{ID: uuid.New(), Name: "Lavender Hill"},
		EarliestStartDateTime: fixedNow.Add(72 * time.Hour),
		EstimatedMinutes:      20,
		JurisdictionType:      court.Magistrates,
	}
	app := court.CourtApplication{ID: uuid.New()}
	e := newEnricher(refdata.NewStatic())

	got := e.Enrich(context.Background(), application.Proceedings{Application: app, CourtHearing: hearing, SummonsApprovalRequired: true})

	want := &court.FutureSummonsHearing{
		CourtCentre:           hearing.CourtCentre,
		EarliestStartDateTime: hearing.EarliestStartDateTime,
		EstimatedMinutes:      20,
		JurisdictionType:      court.Magistrates,
	}
	if diff := cmp.Diff(want, got.FutureSummonsHearing); diff != "" {
		t.Errorf("future summons hearing mismatch (-want +got):\n%s", diff)
	}

	got = e.Enrich(context.Background(), application.Proceedings{Application: app, CourtHearing: hearing})
	if got.FutureSummonsHearing != nil {
		t.Errorf("future summons hearing should only be set when summons approval is required")
	}
}

func TestEnricher_Enrich_thirdParties(t *testing.T) {
	cpsID := uuid.New()
	otherID := uuid.New()
	existing := court.Party{ID: uuid.New(), Organisation: &court.Organisation{Name: "Victim Support"}}

	cases := []court.ApplicationCase{
		{ProsecutionCaseID: uuid.New(), Identifier: court.ProsecutionCaseIdentifier{ProsecutionAuthorityID: cpsID, ProsecutionAuthorityCode: "CPS"}},
	}

	tests := []struct {
		name      string
		applicant *court.Party
		cases     []court.ApplicationCase
		want      []uuid.UUID
	}{
		{
			name:      "case prosecutors precede existing third parties",
			applicant: &court.Party{ID: uuid.New(), ProsecutingAuthority: authority(otherID)},
			cases:     cases,
			want:      []uuid.UUID{cpsID, uuid.Nil},
		},
		{
			name:      "applicant prosecutor equal to case prosecutor",
			applicant: &court.Party{ID: uuid.New(), ProsecutingAuthority: authority(cpsID)},
			cases:     cases,
			want:      []uuid.UUID{uuid.Nil},
		},
		{
			name:      "no case prosecutor",
			applicant: &court.Party{ID: uuid.New(), ProsecutingAuthority: authority(cpsID)},
			want:      []uuid.UUID{uuid.Nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := court.CourtApplication{
				ID:           uuid.New(),
				Applicant:    tt.applicant,
				ThirdParties: []court.Party{existing},
				Cases:        tt.cases,
			}

			got := newEnricher(refdata.NewStatic()).Enrich(context.Background(), application.Proceedings{Application: app})

			var authorities []uuid.UUID
			for _, p := range got.ThirdParties {
				authorities = append(authorities, p.AuthorityID())
			}
			if diff := cmp.Diff(tt.want, authorities); diff != "" {
				t.Errorf("third party authorities mismatch (-want +got):\n%s", diff)
			}

			last := got.ThirdParties[len(got.ThirdParties)-1]
			if last.ID != existing.ID {
				t.Errorf("existing third party should come last; got %s", last.ID)
			}
		})
	}
}

func TestEnricher_Enrich_nonStandardAuthority(t *testing.T) {
	cpsID := uuid.New()
	static := refdata.NewStatic().AddProsecutor(refdata.Prosecutor{ID: cpsID, Code: "CPS", FullName: "Crown Prosecution Service"})

	tests := []struct {
		name      string
		authority court.ProsecutingAuthority
		want      string
	}{
		{
			name:      "standard",
			authority: court.ProsecutingAuthority{ProsecutionAuthorityID: cpsID},
			want:      "Crown Prosecution Service",
		},
		{
			name:      "organisation name",
			authority: court.ProsecutingAuthority{ProsecutionAuthorityID: cpsID, Name: "Local Council"},
			want:      "Local Council",
		},
		{
			name:      "individual",
			authority: court.ProsecutingAuthority{ProsecutionAuthorityID: cpsID, FirstName: "Jane", LastName: "Doe"},
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := tt.authority
			app := court.CourtApplication{
				ID:        uuid.New(),
				Applicant: &court.Party{ID: uuid.New(), ProsecutingAuthority: &auth},
			}

			got := newEnricher(static).Enrich(context.Background(), application.Proceedings{Application: app})

			pa := got.Applicant.ProsecutingAuthority
			if pa.Name != tt.want {
				t.Errorf("authority name should be %q; is %q", tt.want, pa.Name)
			}
			if !tt.authority.IsStandard() && pa.ProsecutionAuthorityCode != "" {
				t.Errorf("non-standard authority should not be resolved; code is %q", pa.ProsecutionAuthorityCode)
			}
		})
	}
}

func TestEnricher_Enrich_offenceTitle(t *testing.T) {
	static := refdata.NewStatic().AddOffence(refdata.OffenceDetails{Code: "TH68001", Title: "Theft from a shop"})
	app := courtOrderApplication(court.Linked, uuid.New())

	got := newEnricher(static).Enrich(context.Background(), application.Proceedings{Application: app})

	o := got.CourtOrder.Offences[0].Offence
	if o.Title != "Theft from a shop" {
		t.Errorf("offence title should be resolved from the original offence code; is %q", o.Title)
	}
	if o.OffenceCode != "CJ03510" {
		t.Errorf("offence code should be the resentencing activation code; is %q", o.OffenceCode)
	}
	if app.CourtOrder.Offences[0].Offence.Title != "" {
		t.Errorf("Enrich should not modify the request")
	}
}

func TestEnricher_Enrich_offenceTitleKept(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mock_refdata.NewMockLookup(ctrl)
	query := mock_refdata.NewMockQuery(ctrl)

	lookup.EXPECT().OffenceDetails(gomock.Any(), []string{"TH68002"}).Return([]refdata.OffenceDetails{{Code: "TH68002", Title: "Looked up"}}, nil)

	app := court.CourtApplication{
		ID:   uuid.New(),
		Type: court.ApplicationType{LinkType: court.FirstHearing},
		CourtOrder: &court.CourtOrder{
			ID: uuid.New(),
			Offences: []court.CourtOrderOffence{
				{Offence: &court.Offence{ID: uuid.New(), OffenceCode: "TH68001", Title: "Given"}},
				{Offence: &court.Offence{ID: uuid.New(), OffenceCode: "TH68002"}},
			},
		},
	}

	got := application.NewEnricher(lookup, query).Enrich(context.Background(), application.Proceedings{Application: app})

	if title := got.CourtOrder.Offences[0].Offence.Title; title != "Given" {
		t.Errorf("given title should be kept; is %q", title)
	}
	if title := got.CourtOrder.Offences[1].Offence.Title; title != "Looked up" {
		t.Errorf("missing title should be looked up; is %q", title)
	}
}
