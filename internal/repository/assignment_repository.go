package repository

import (
	"context"
	"errors"

	"classdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error)
	GetByTaskID(ctx context.Context, taskID uuid.UUID) ([]model.Assignment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *model.Assignment) error {
	if err := assignment.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	var assignment model.Assignment
	result := r.db.WithContext(ctx).First(&assignment, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, result.Error
	}
	return &assignment, nil
}

func (r *assignmentRepository) GetByTaskID(ctx context.Context, taskID uuid.UUID) ([]model.Assignment, error) {
	var assignments []model.Assignment
	result := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&assignments)
	if result.Error != nil {
		return nil, result.Error
	}
	return assignments, nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Assignment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}
