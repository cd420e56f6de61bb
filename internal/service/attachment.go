package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"classdesk/internal/model"
	"classdesk/internal/repository"

	"github.com/google/uuid"
)

// MaxFileSizeMB caps every attached file, material and submission alike.
const MaxFileSizeMB = 50.0

// KindFromName classifies a file by its extension.
func KindFromName(name string) model.FileKind {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return model.FilePDF
	case ".zip", ".rar", ".7z", ".tar", ".gz":
		return model.FileZIP
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
		return model.FileIMG
	case ".doc", ".docx", ".odt", ".txt", ".md":
		return model.FileDOC
	default:
		return model.FileGeneric
	}
}

// NewSubmissionFile validates the size cap and classifies the file. The
// caller links it to a submission through the ledger.
func NewSubmissionFile(url, name string, sizeMB float64) (model.SubmissionFile, error) {
	if sizeMB > MaxFileSizeMB {
		return model.SubmissionFile{}, fmt.Errorf("%w: %.1fMB > %.0fMB", ErrFileTooLarge, sizeMB, MaxFileSizeMB)
	}
	return model.SubmissionFile{
		URL:    url,
		Name:   name,
		Kind:   KindFromName(name),
		SizeMB: sizeMB,
	}, nil
}

// AttachmentService is the CRUD over task material files. No cross-entity
// invariants beyond ownership linkage.
type AttachmentService interface {
	AddMaterial(ctx context.Context, taskID uuid.UUID, url, name string, sizeMB float64) (*model.MaterialFile, error)
	ListMaterials(ctx context.Context, taskID uuid.UUID) ([]model.MaterialFile, error)
	RemoveMaterial(ctx context.Context, taskID, fileID uuid.UUID) error
}

type attachmentService struct {
	materials repository.MaterialFileRepository
}

func NewAttachmentService(materials repository.MaterialFileRepository) AttachmentService {
	return &attachmentService{materials: materials}
}

func (s *attachmentService) AddMaterial(ctx context.Context, taskID uuid.UUID, url, name string, sizeMB float64) (*model.MaterialFile, error) {
	if sizeMB > MaxFileSizeMB {
		return nil, fmt.Errorf("%w: %.1fMB > %.0fMB", ErrFileTooLarge, sizeMB, MaxFileSizeMB)
	}

	file := &model.MaterialFile{
		TaskID: taskID,
		URL:    url,
		Name:   name,
		Kind:   KindFromName(name),
		SizeMB: sizeMB,
	}
	if err := s.materials.Create(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *attachmentService) ListMaterials(ctx context.Context, taskID uuid.UUID) ([]model.MaterialFile, error) {
	return s.materials.ListByTask(ctx, taskID)
}

func (s *attachmentService) RemoveMaterial(ctx context.Context, taskID, fileID uuid.UUID) error {
	file, err := s.materials.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return ErrNotFound
		}
		return err
	}
	// Ownership linkage: a file id from another task is as good as absent.
	if file.TaskID != taskID {
		return ErrNotFound
	}

	err = s.materials.Delete(ctx, fileID)
	if errors.Is(err, repository.ErrFileNotFound) {
		return ErrNotFound
	}
	return err
}
