package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Name           string    `gorm:"not null"`
	Role           string    `gorm:"not null;check:role IN ('admin', 'teacher', 'student', 'observer')"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// User roles
const (
	RoleAdmin    = "admin"
	RoleTeacher  = "teacher"
	RoleStudent  = "student"
	RoleObserver = "observer"
)
