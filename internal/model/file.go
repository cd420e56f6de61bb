package model

import (
	"time"

	"github.com/google/uuid"
)

// FileKind is a coarse classification derived from the file extension.
type FileKind string

const (
	FilePDF     FileKind = "PDF"
	FileZIP     FileKind = "ZIP"
	FileIMG     FileKind = "IMG"
	FileDOC     FileKind = "DOC"
	FileGeneric FileKind = "FILE"
)

// MaterialFile is task material managed by the owning teacher.
type MaterialFile struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"not null"`
	Name      string    `gorm:"not null"`
	Kind      FileKind  `gorm:"not null"`
	SizeMB    float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Task Task `gorm:"foreignKey:TaskID"`
}

// SubmissionFile is owned exclusively by one submission.
type SubmissionFile struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL          string    `gorm:"not null"`
	Name         string    `gorm:"not null"`
	Kind         FileKind  `gorm:"not null"`
	SizeMB       float64   `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}
