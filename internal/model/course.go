package model

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `gorm:"not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// CourseStudent is an enrollment join row. Membership is modeled as explicit
// rows so course deletion can bulk-delete them in the same transaction.
type CourseStudent struct {
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	StudentID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Course  Course `gorm:"foreignKey:CourseID"`
	Student User   `gorm:"foreignKey:StudentID"`
}

// CourseTeacher links a teaching user to a course.
type CourseTeacher struct {
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	TeacherID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Course  Course `gorm:"foreignKey:CourseID"`
	Teacher User   `gorm:"foreignKey:TeacherID"`
}
