package repository

import (
	"context"
	"errors"

	"classdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	GetByOwner(ctx context.Context, teacherID uuid.UUID) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

func (r *taskRepository) GetByOwner(ctx context.Context, teacherID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Where("owner_teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteCascade removes a task together with its material files and
// assignments in one transaction. A task referenced by any submission is
// never deleted; the caller gets ErrTaskHasSubmissions and the transaction
// rolls back without touching anything.
func (r *taskRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.Task
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		var submissions int64
		if err := tx.Model(&model.Submission{}).
			Where("task_id = ?", id).
			Count(&submissions).Error; err != nil {
			return err
		}
		if submissions > 0 {
			return ErrTaskHasSubmissions
		}

		if err := tx.Delete(&model.MaterialFile{}, "task_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Assignment{}, "task_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Task{}, "id = ?", id).Error
	})
}
