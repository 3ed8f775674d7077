// Package apperr defines the error taxonomy shared by every service in the
// lifecycle core. Callers branch on these types to decide between a 4xx
// outcome, a retry, and an alert.
package apperr

import (
	"fmt"
	"strings"
)

// ValidationRejection is an expected, user-facing outcome: the request was
// well-formed but a business rule refused it. It always carries the full list
// of reasons, never a single bare message.
type ValidationRejection struct {
	Reasons []string
}

func (e *ValidationRejection) Error() string {
	return "validation rejected: " + strings.Join(e.Reasons, "; ")
}

// PermissionDenied marks a role-gated operation attempted by an insufficient
// role. Kept distinct from ValidationRejection so handlers can render 403
// instead of 409.
type PermissionDenied struct {
	Role   string
	Action string
}

func (e *PermissionDenied) Error() string {
	return fmt.Sprintf("role %q is not allowed to %s", e.Role, e.Action)
}

// NotFound signals that an entity lookup matched zero rows. Stores return it
// instead of a driver-level sentinel.
type NotFound struct {
	Entity string
	ID     int64
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IntegrityFault is a data-integrity defect, not a user error: a project with
// no active phase, residual rows after a cascade delete. Surfaced loudly.
type IntegrityFault struct {
	ProjectID int64
	Detail    string
}

func (e *IntegrityFault) Error() string {
	return fmt.Sprintf("integrity fault on project %d: %s", e.ProjectID, e.Detail)
}

// TransientFault wraps a failed store or broker access. Retryable by the
// caller; the core never retries on its own.
type TransientFault struct {
	Op  string
	Err error
}

func (e *TransientFault) Error() string {
	return fmt.Sprintf("transient fault during %s: %v", e.Op, e.Err)
}

func (e *TransientFault) Unwrap() error { return e.Err }
