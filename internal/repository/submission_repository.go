package repository

import (
	"context"
	"errors"

	"classdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error)
	GetByTaskAndStudent(ctx context.Context, taskID, studentID uuid.UUID) (*model.Submission, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Submission, error)
	CreateWithFiles(ctx context.Context, sub *model.Submission, files []model.SubmissionFile) error
	Update(ctx context.Context, sub *model.Submission) error
	UpdateWithFiles(ctx context.Context, sub *model.Submission, files []model.SubmissionFile) error
	AppendFiles(ctx context.Context, submissionID uuid.UUID, files []model.SubmissionFile) error
	DeleteFile(ctx context.Context, submissionID, fileID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountDistinctStudents(ctx context.Context, taskID uuid.UUID) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	var sub model.Submission
	result := r.db.WithContext(ctx).Preload("Files").First(&sub, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, result.Error
	}
	return &sub, nil
}

// GetByTaskAndStudent returns (nil, nil) when the student has not submitted
// yet; absence is a regular state for the ledger, not an error.
func (r *submissionRepository) GetByTaskAndStudent(ctx context.Context, taskID, studentID uuid.UUID) (*model.Submission, error) {
	var sub model.Submission
	err := r.db.WithContext(ctx).
		Preload("Files").
		Where("task_id = ? AND student_id = ?", taskID, studentID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Submission, error) {
	var subs []model.Submission
	result := r.db.WithContext(ctx).
		Preload("Files").
		Where("task_id = ?", taskID).
		Order("submitted_at").
		Find(&subs)
	if result.Error != nil {
		return nil, result.Error
	}
	return subs, nil
}

// CreateWithFiles inserts the submission row and its files atomically. The
// (task_id, student_id) unique constraint is the race arbiter for two
// concurrent first submissions; the loser gets ErrDuplicateSubmission.
func (r *submissionRepository) CreateWithFiles(ctx context.Context, sub *model.Submission, files []model.SubmissionFile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		for i := range files {
			files[i].SubmissionID = sub.ID
		}
		if len(files) > 0 {
			if err := tx.Create(&files).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateSubmission
	}
	return err
}

func (r *submissionRepository) Update(ctx context.Context, sub *model.Submission) error {
	result := r.db.WithContext(ctx).Omit("Files").Save(sub)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

// UpdateWithFiles applies the row update and the new files in one
// transaction, so a resubmission is all-or-nothing like a first submission.
func (r *submissionRepository) UpdateWithFiles(ctx context.Context, sub *model.Submission, files []model.SubmissionFile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Omit("Files").Save(sub)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSubmissionNotFound
		}
		if len(files) == 0 {
			return nil
		}
		for i := range files {
			files[i].SubmissionID = sub.ID
		}
		return tx.Create(&files).Error
	})
}

func (r *submissionRepository) AppendFiles(ctx context.Context, submissionID uuid.UUID, files []model.SubmissionFile) error {
	if len(files) == 0 {
		return nil
	}
	for i := range files {
		files[i].SubmissionID = submissionID
	}
	return r.db.WithContext(ctx).Create(&files).Error
}

func (r *submissionRepository) DeleteFile(ctx context.Context, submissionID, fileID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND submission_id = ?", fileID, submissionID).
		Delete(&model.SubmissionFile{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}

// Delete removes a submission and its files in one transaction.
func (r *submissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.SubmissionFile{}, "submission_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Submission{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSubmissionNotFound
		}
		return nil
	})
}

func (r *submissionRepository) CountDistinctStudents(ctx context.Context, taskID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("task_id = ?", taskID).
		Distinct("student_id").
		Count(&count).Error
	return count, err
}
