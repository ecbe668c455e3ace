package services

// Error taxonomy shared by the handlers' central error mapper. Validation and
// missing-config errors are never retried; conflicts are safe to retry once
// at the caller; unavailable means the storage collaborator failed and the
// request may be retried later.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

// MissingConfigError means a question references a difficulty with no
// configured spacing parameters. A data problem, not a transient one.
type MissingConfigError struct {
	Message string
}

func (e *MissingConfigError) Error() string { return e.Message }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnavailableError struct{ Message string }

func (e *UnavailableError) Error() string { return e.Message }
