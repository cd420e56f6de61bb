package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TargetKind discriminates the two assignment variants.
type TargetKind string

const (
	TargetCourse  TargetKind = "course"
	TargetStudent TargetKind = "student"
)

var ErrInvalidTarget = errors.New("assignment must target exactly one course or one student")

// Assignment makes a task visible to either one student or every student of
// one course. Stored as two nullable FKs with an exactly-one-of check
// constraint; construct through NewCourseAssignment / NewStudentAssignment
// and read through Target so the rest of the code sees a sum type.
type Assignment struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	CourseID  *uuid.UUID `gorm:"type:uuid;index"`
	StudentID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`

	Task Task `gorm:"foreignKey:TaskID"`
}

func NewCourseAssignment(taskID, courseID uuid.UUID) *Assignment {
	return &Assignment{TaskID: taskID, CourseID: &courseID}
}

func NewStudentAssignment(taskID, studentID uuid.UUID) *Assignment {
	return &Assignment{TaskID: taskID, StudentID: &studentID}
}

// Target returns the populated variant, or ErrInvalidTarget when the row
// violates the exactly-one-of constraint.
func (a *Assignment) Target() (TargetKind, uuid.UUID, error) {
	switch {
	case a.CourseID != nil && a.StudentID == nil:
		return TargetCourse, *a.CourseID, nil
	case a.StudentID != nil && a.CourseID == nil:
		return TargetStudent, *a.StudentID, nil
	default:
		return "", uuid.Nil, ErrInvalidTarget
	}
}

func (a *Assignment) Validate() error {
	_, _, err := a.Target()
	return err
}
