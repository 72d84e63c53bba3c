package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrUnhandled is returned when a command is dispatched that has no
	// registered handler.
	ErrUnhandled = errors.New("command has no handler")
)

// Violation describes an invalid field of a command payload.
type Violation struct {
	Field       string
	Description string
}

// ValidationError is returned when a command payload lacks data the domain
// cannot proceed without. The command is rejected before any event is
// derived.
type ValidationError struct {
	Command    string
	Violations []Violation
}

func (err *ValidationError) Error() string {
	fields := make([]string, len(err.Violations))
	for i, v := range err.Violations {
		fields[i] = fmt.Sprintf("%s: %s", v.Field, v.Description)
	}
	return fmt.Sprintf("invalid %q command: %s", err.Command, strings.Join(fields, "; "))
}

// GRPCStatus returns the error as an InvalidArgument status with a BadRequest
// detail that lists the violations.
func (err *ValidationError) GRPCStatus() *status.Status {
	st := status.New(codes.InvalidArgument, err.Error())

	br := &errdetails.BadRequest{}
	for _, v := range err.Violations {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       v.Field,
			Description: v.Description,
		})
	}

	if detailed, derr := st.WithDetails(br); derr == nil {
		return detailed
	}

	return st
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// A Validator collects the violations of a command payload.
//
//	err := command.Validate(cmd.Name).
//		RequireID("application.id", app.ID).
//		Err()
type Validator struct {
	command    string
	violations []Violation
}

// Validate returns a Validator for the named command.
func Validate(name string) *Validator {
	return &Validator{command: name}
}

// Require records a violation of field if ok is false.
func (v *Validator) Require(ok bool, field, description string) *Validator {
	if !ok {
		v.violations = append(v.violations, Violation{Field: field, Description: description})
	}
	return v
}

// RequireID records a violation of field if id is uuid.Nil.
func (v *Validator) RequireID(field string, id uuid.UUID) *Validator {
	return v.Require(id != uuid.Nil, field, "must not be empty")
}

// Err returns a *ValidationError if violations were recorded, or nil.
func (v *Validator) Err() error {
	if len(v.violations) == 0 {
		return nil
	}
	return &ValidationError{Command: v.command, Violations: v.violations}
}
