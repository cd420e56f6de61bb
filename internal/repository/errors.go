package repository

import "errors"

// Common repository errors
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrFileNotFound       = errors.New("file not found")

	// ErrTaskHasSubmissions blocks the cascade delete of a task that is
	// referenced by at least one submission.
	ErrTaskHasSubmissions = errors.New("task has submissions")

	// ErrDuplicateSubmission is the translated unique violation on
	// (task_id, student_id) when two first submissions race.
	ErrDuplicateSubmission = errors.New("submission already exists for task and student")
)
