package service

import "errors"

// Business-rule errors. Handlers map these to stable client-visible kinds;
// anything else surfaces as a generic server error.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")

	// ErrLocked rejects edits on a state-guarded entity: a task whose
	// assigned students have all submitted, or a graded submission touched
	// from the student's side.
	ErrLocked = errors.New("locked")

	// Submission window violations.
	ErrTaskDisabled = errors.New("task is disabled")
	ErrTaskUnopened = errors.New("task is not open yet")
	ErrPastDue      = errors.New("task is past due")

	// Validation failures.
	ErrGradeOutOfRange = errors.New("grade out of range")
	ErrFileRequired    = errors.New("a submission requires at least one file")
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
)
