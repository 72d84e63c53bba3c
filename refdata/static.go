package refdata

import (
	"context"
	"fmt"
	"sync"

	"github.com/courtflow/progression/court"
	"github.com/google/uuid"
)

var (
	_ Lookup = (*Static)(nil)
	_ Query  = (*Static)(nil)
)

// Static serves reference data and case snapshots from memory.
type Static struct {
	mux           sync.RWMutex
	prosecutors   map[uuid.UUID]Prosecutor
	offences      map[string]OffenceDetails
	organisations map[string]Organisation
	cases         map[uuid.UUID]court.ProsecutionCase
}

// NewStatic returns an empty Static.
func NewStatic() *Static {
	return &Static{
		prosecutors:   make(map[uuid.UUID]Prosecutor),
		offences:      make(map[string]OffenceDetails),
		organisations: make(map[string]Organisation),
		cases:         make(map[uuid.UUID]court.ProsecutionCase),
	}
}

// AddProsecutor adds prosecutors.
func (s *Static) AddProsecutor(prosecutors ...Prosecutor) *Static {
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, p := range prosecutors {
		s.prosecutors[p.ID] = p
	}
	return s
}

// AddOffence adds offence details.
func (s *Static) AddOffence(offences ...OffenceDetails) *Static {
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, o := range offences {
		s.offences[o.Code] = o
	}
	return s
}

// AddOrganisation adds organisations.
func (s *Static) AddOrganisation(orgs ...Organisation) *Static {
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, o := range orgs {
		s.organisations[o.LAAContractNumber] = o
	}
	return s
}

// AddCase adds prosecution case snapshots.
func (s *Static) AddCase(cases ...court.ProsecutionCase) *Static {
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, c := range cases {
		s.cases[c.ID] = c
	}
	return s
}

func (s *Static) Prosecutor(_ context.Context, authorityID uuid.UUID) (Prosecutor, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	p, ok := s.prosecutors[authorityID]
	if !ok {
		return p, fmt.Errorf("prosecutor %s: %w", authorityID, ErrNotFound)
	}
	return p, nil
}

func (s *Static) OffenceDetails(_ context.Context, codes []string) ([]OffenceDetails, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	var out []OffenceDetails
	for _, code := range codes {
		if o, ok := s.offences[code]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Static) OrganisationByLAAContractNumber(_ context.Context, number string) (Organisation, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	o, ok := s.organisations[number]
	if !ok {
		return o, fmt.Errorf("organisation %q: %w", number, ErrNotFound)
	}
	return o, nil
}

func (s *Static) ProsecutionCase(_ context.Context, caseID uuid.UUID) (court.ProsecutionCase, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	c, ok := s.cases[caseID]
	if !ok {
		return c, fmt.Errorf("prosecution case %s: %w", caseID, ErrNotFound)
	}
	return c, nil
}
