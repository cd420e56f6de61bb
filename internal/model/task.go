package model

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	OpenAt      time.Time `gorm:"not null"`
	DueAt       time.Time `gorm:"not null"`
	MaxGrade    float64   `gorm:"not null;default:10"`
	Enabled     bool      `gorm:"not null;default:true"`
	AllowLateSubmissions bool `gorm:"not null;default:false"`
	// When true, the task stops being editable once every assigned student
	// has submitted.
	EditableUntilLastSubmission bool      `gorm:"not null;default:false"`
	OwnerTeacherID              uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt                   time.Time
	UpdatedAt                   time.Time

	Owner User `gorm:"foreignKey:OwnerTeacherID"`
}
