// Package refdata defines the reference-data and query collaborators used to
// enrich commands, together with a static implementation and a Redis cache.
package refdata

//go:generate mockgen -source=refdata.go -destination=./mocks/refdata.go

import (
	"context"
	"errors"

	"github.com/courtflow/progression/court"
	"github.com/google/uuid"
)

// ErrNotFound is returned when the requested reference data does not exist.
var ErrNotFound = errors.New("reference data not found")

// Prosecutor holds the reference-data details of a prosecuting authority.
type Prosecutor struct {
	ID                uuid.UUID      `json:"id"`
	Code              string         `json:"shortName,omitempty"`
	FullName          string         `json:"fullName"`
	NameWelsh         string         `json:"nameWelsh,omitempty"`
	Address           *court.Address `json:"address,omitempty"`
	Contact           *court.Contact `json:"contact,omitempty"`
	MajorCreditorCode string         `json:"majorCreditorCode,omitempty"`
	OUCode            string         `json:"oucode,omitempty"`
}

// OffenceDetails holds the reference-data details of an offence code.
type OffenceDetails struct {
	Code            string `json:"cjsOffenceCode"`
	Title           string `json:"title"`
	TitleWelsh      string `json:"welshTitle,omitempty"`
	LegislationText string `json:"legislation,omitempty"`
}

// Organisation is an organisation known by its LAA contract number.
type Organisation struct {
	ID                uuid.UUID      `json:"id"`
	Name              string         `json:"name"`
	LAAContractNumber string         `json:"laaContractNumber"`
	Address           *court.Address `json:"address,omitempty"`
}

// Lookup resolves reference data.
type Lookup interface {
	// Prosecutor returns the prosecutor with the given authority id, or an
	// error that wraps ErrNotFound.
	Prosecutor(ctx context.Context, authorityID uuid.UUID) (Prosecutor, error)

	// OffenceDetails returns the details of the given offence codes. Unknown
	// codes are omitted from the result.
	OffenceDetails(ctx context.Context, codes []string) ([]OffenceDetails, error)

	// OrganisationByLAAContractNumber returns the organisation with the given
	// contract number, or an error that wraps ErrNotFound.
	OrganisationByLAAContractNumber(ctx context.Context, number string) (Organisation, error)
}

// Query reads prosecution case snapshots.
type Query interface {
	// ProsecutionCase returns the case with the given id, or an error that
	// wraps ErrNotFound.
	ProsecutionCase(ctx context.Context, caseID uuid.UUID) (court.ProsecutionCase, error)
}
