package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"classdesk/internal/model"
	"classdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Grading is bounded to [0, 10] regardless of Task.MaxGrade, which is only
// used for display. The two can disagree; unifying them is a product
// decision that has not been made yet.
const (
	MinGrade = 0.0
	MaxGrade = 10.0
)

// SubmissionStatus is a pure read composed from the resolver and the
// submission table; none of it is persisted.
type SubmissionStatus struct {
	AssignedCount  int  `json:"assigned_count"`
	SubmittedCount int  `json:"submitted_count"`
	AllSubmitted   bool `json:"all_submitted"`
}

type SubmitInput struct {
	Comment string
	Files   []model.SubmissionFile
}

// SubmissionLedger enforces one submission per (task, student), the
// late-submission policy, and grading immutability.
type SubmissionLedger interface {
	Submit(ctx context.Context, taskID, studentID uuid.UUID, in SubmitInput) (*model.Submission, bool, error)
	AddFiles(ctx context.Context, submissionID, studentID uuid.UUID, files []model.SubmissionFile) (*model.Submission, error)
	RemoveFile(ctx context.Context, submissionID, fileID, studentID uuid.UUID) error
	DeleteSubmission(ctx context.Context, submissionID, studentID uuid.UUID) error
	Grade(ctx context.Context, submissionID uuid.UUID, grade float64, feedback string) (*model.Submission, error)
	Status(ctx context.Context, taskID uuid.UUID) (SubmissionStatus, error)
}

type submissionLedger struct {
	tasks       repository.TaskRepository
	submissions repository.SubmissionRepository
	resolver    AssignmentResolver
	logger      zerolog.Logger
	now         func() time.Time
}

func NewSubmissionLedger(
	tasks repository.TaskRepository,
	submissions repository.SubmissionRepository,
	resolver AssignmentResolver,
	logger zerolog.Logger,
) SubmissionLedger {
	return &submissionLedger{
		tasks:       tasks,
		submissions: submissions,
		resolver:    resolver,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit records a student's work for a task. The first call creates the
// submission together with at least one file; later calls update the row in
// place, recomputing comment and lateness and appending any new files. The
// returned bool reports whether a new row was created.
func (s *submissionLedger) Submit(ctx context.Context, taskID, studentID uuid.UUID, in SubmitInput) (*model.Submission, bool, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	// A student outside the effective assigned set must not learn that the
	// task exists at all.
	assigned, err := s.resolver.ResolveAssignedStudents(ctx, taskID)
	if err != nil {
		return nil, false, err
	}
	if _, ok := assigned[studentID]; !ok {
		return nil, false, ErrNotFound
	}

	if !task.Enabled {
		return nil, false, ErrTaskDisabled
	}

	now := s.now()
	if now.Before(task.OpenAt) {
		return nil, false, ErrTaskUnopened
	}
	late := now.After(task.DueAt)
	if late && !task.AllowLateSubmissions {
		return nil, false, ErrPastDue
	}

	existing, err := s.submissions.GetByTaskAndStudent(ctx, taskID, studentID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		sub, err := s.resubmit(ctx, existing, in, now, late)
		return sub, false, err
	}

	if len(in.Files) == 0 {
		return nil, false, ErrFileRequired
	}

	sub := &model.Submission{
		TaskID:      taskID,
		StudentID:   studentID,
		SubmittedAt: now,
		Comment:     in.Comment,
		Late:        late,
	}
	err = s.submissions.CreateWithFiles(ctx, sub, in.Files)
	if errors.Is(err, repository.ErrDuplicateSubmission) {
		// Lost a first-submission race; the row now exists, so treat this
		// call as the update it effectively is.
		existing, err := s.submissions.GetByTaskAndStudent(ctx, taskID, studentID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, ErrConflict
		}
		sub, err := s.resubmit(ctx, existing, in, now, late)
		return sub, false, err
	}
	if err != nil {
		return nil, false, err
	}

	s.logger.Info().
		Str("task_id", taskID.String()).
		Str("student_id", studentID.String()).
		Bool("late", late).
		Msg("Submission created")
	return sub, true, nil
}

func (s *submissionLedger) resubmit(ctx context.Context, existing *model.Submission, in SubmitInput, now time.Time, late bool) (*model.Submission, error) {
	if existing.Graded() {
		return nil, ErrLocked
	}

	existing.Comment = in.Comment
	existing.Late = late
	existing.SubmittedAt = now
	if err := s.submissions.UpdateWithFiles(ctx, existing, in.Files); err != nil {
		return nil, err
	}
	existing.Files = append(existing.Files, in.Files...)

	s.logger.Info().
		Str("submission_id", existing.ID.String()).
		Bool("late", late).
		Msg("Submission updated")
	return existing, nil
}

// AddFiles attaches more files to the student's own submission without
// touching comment or lateness. Graded submissions are immutable from the
// student's side.
func (s *submissionLedger) AddFiles(ctx context.Context, submissionID, studentID uuid.UUID, files []model.SubmissionFile) (*model.Submission, error) {
	if len(files) == 0 {
		return nil, ErrFileRequired
	}

	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if sub.StudentID != studentID {
		return nil, ErrForbidden
	}
	if sub.Graded() {
		return nil, ErrLocked
	}

	if err := s.submissions.AppendFiles(ctx, sub.ID, files); err != nil {
		return nil, err
	}
	sub.Files = append(sub.Files, files...)
	return sub, nil
}

// RemoveFile deletes one file of the student's own submission. The
// submission itself persists even when its last file is removed. Graded
// submissions are immutable from the student's side.
func (s *submissionLedger) RemoveFile(ctx context.Context, submissionID, fileID, studentID uuid.UUID) error {
	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			return ErrNotFound
		}
		return err
	}
	if sub.StudentID != studentID {
		return ErrForbidden
	}
	if sub.Graded() {
		return ErrLocked
	}

	err = s.submissions.DeleteFile(ctx, submissionID, fileID)
	if errors.Is(err, repository.ErrFileNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *submissionLedger) DeleteSubmission(ctx context.Context, submissionID, studentID uuid.UUID) error {
	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			return ErrNotFound
		}
		return err
	}
	if sub.StudentID != studentID {
		return ErrForbidden
	}
	if sub.Graded() {
		return ErrLocked
	}

	if err := s.submissions.Delete(ctx, submissionID); err != nil {
		return err
	}
	s.logger.Info().
		Str("submission_id", submissionID.String()).
		Msg("Submission deleted by student")
	return nil
}

// Grade sets or overwrites the grade and feedback. Grading locks the
// submission against student mutation but not against re-grading.
func (s *submissionLedger) Grade(ctx context.Context, submissionID uuid.UUID, grade float64, feedback string) (*model.Submission, error) {
	if grade < MinGrade || grade > MaxGrade {
		return nil, fmt.Errorf("%w: %v not in [%v, %v]", ErrGradeOutOfRange, grade, MinGrade, MaxGrade)
	}

	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sub.Grade = &grade
	sub.Feedback = &feedback
	if err := s.submissions.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("submission_id", submissionID.String()).
		Float64("grade", grade).
		Msg("Submission graded")
	return sub, nil
}

// Status reports how many of the effectively assigned students have
// submitted. With nobody assigned, AllSubmitted is vacuously false.
func (s *submissionLedger) Status(ctx context.Context, taskID uuid.UUID) (SubmissionStatus, error) {
	assigned, err := s.resolver.ResolveAssignedStudents(ctx, taskID)
	if err != nil {
		return SubmissionStatus{}, err
	}

	submitted, err := s.submissions.CountDistinctStudents(ctx, taskID)
	if err != nil {
		return SubmissionStatus{}, err
	}

	status := SubmissionStatus{
		AssignedCount:  len(assigned),
		SubmittedCount: int(submitted),
	}
	status.AllSubmitted = status.AssignedCount > 0 && status.SubmittedCount == status.AssignedCount
	return status, nil
}
