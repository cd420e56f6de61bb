package model

import (
	"time"

	"github.com/google/uuid"
)

// Submission is a student's delivered work for a task. At most one row per
// (task, student); resubmission updates the row in place.
type Submission struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_submissions_task_student"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_submissions_task_student"`
	SubmittedAt time.Time `gorm:"not null"`
	Comment     string
	Late        bool     `gorm:"not null;default:false"`
	Grade       *float64
	Feedback    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Task    Task             `gorm:"foreignKey:TaskID"`
	Student User             `gorm:"foreignKey:StudentID"`
	Files   []SubmissionFile `gorm:"foreignKey:SubmissionID"`
}

// Graded reports whether a teacher has graded this submission, which makes
// it immutable from the student's side.
func (s *Submission) Graded() bool {
	return s.Grade != nil
}
