package repository

import (
	"context"
	"errors"

	"classdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialFileRepository interface {
	Create(ctx context.Context, file *model.MaterialFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.MaterialFile, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.MaterialFile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type materialFileRepository struct {
	db *gorm.DB
}

func NewMaterialFileRepository(db *gorm.DB) MaterialFileRepository {
	return &materialFileRepository{db: db}
}

func (r *materialFileRepository) Create(ctx context.Context, file *model.MaterialFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *materialFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MaterialFile, error) {
	var file model.MaterialFile
	result := r.db.WithContext(ctx).First(&file, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, result.Error
	}
	return &file, nil
}

func (r *materialFileRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.MaterialFile, error) {
	var files []model.MaterialFile
	result := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&files)
	if result.Error != nil {
		return nil, result.Error
	}
	return files, nil
}

func (r *materialFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.MaterialFile{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}
