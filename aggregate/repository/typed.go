package repository

import (
	"context"
	"fmt"

	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/event"
	"github.com/google/uuid"
)

// TypedRepository is a repository for a single aggregate type. Use Typed to
// create one from an underlying *Repository.
//
//	applications := repository.Typed(repo, application.New)
//	app, err := applications.Fetch(ctx, id)
type TypedRepository[A aggregate.Aggregate] struct {
	repo *Repository
	make func(uuid.UUID) A
}

// Typed returns a TypedRepository for aggregates created by makeFunc.
func Typed[A aggregate.Aggregate](r *Repository, makeFunc func(uuid.UUID) A) *TypedRepository[A] {
	return &TypedRepository[A]{repo: r, make: makeFunc}
}

// Fetch returns the reconstructed aggregate with the given id. An aggregate
// without any events is returned in its zero state.
func (r *TypedRepository[A]) Fetch(ctx context.Context, id uuid.UUID) (A, error) {
	a := r.make(id)
	if err := r.repo.Fetch(ctx, a); err != nil {
		return a, fmt.Errorf("fetch: %w [id=%s, type=%T]", err, id, a)
	}
	return a, nil
}

// Use runs fn against a freshly reconstructed aggregate and appends its
// changes, retrying on version conflicts. See Use.
func (r *TypedRepository[A]) Use(ctx context.Context, id uuid.UUID, fn func(A) error) ([]event.Event, error) {
	return Use(ctx, r.repo, func() A { return r.make(id) }, fn)
}

// Repository returns the underlying repository.
func (r *TypedRepository[A]) Repository() *Repository {
	return r.repo
}
