package service

import (
	"context"
	"errors"

	"classdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LifecycleService applies the cascade-delete vs. soft-deactivate policy for
// the Task and Course aggregates. The transactional work lives in the
// repositories; this layer translates outcomes into the business taxonomy.
type LifecycleService interface {
	// DeleteTask cascades material files and assignments away with the
	// task. ErrConflict when any submission references the task: the
	// teacher must disable the task instead.
	DeleteTask(ctx context.Context, taskID uuid.UUID) error

	// DeleteCourse removes the course and its membership rows, or
	// soft-deactivates it when assignments still target it. The bool
	// reports deactivation, which is a distinct success, not an error.
	DeleteCourse(ctx context.Context, courseID uuid.UUID) (bool, error)
}

type lifecycleService struct {
	tasks   repository.TaskRepository
	courses repository.CourseRepository
	logger  zerolog.Logger
}

func NewLifecycleService(tasks repository.TaskRepository, courses repository.CourseRepository, logger zerolog.Logger) LifecycleService {
	return &lifecycleService{
		tasks:   tasks,
		courses: courses,
		logger:  logger,
	}
}

func (s *lifecycleService) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	err := s.tasks.DeleteCascade(ctx, taskID)
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrTaskHasSubmissions):
		return ErrConflict
	case err != nil:
		return err
	}

	s.logger.Info().Str("task_id", taskID.String()).Msg("Task deleted")
	return nil
}

func (s *lifecycleService) DeleteCourse(ctx context.Context, courseID uuid.UUID) (bool, error) {
	deactivated, err := s.courses.Delete(ctx, courseID)
	if errors.Is(err, repository.ErrCourseNotFound) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}

	if deactivated {
		s.logger.Info().Str("course_id", courseID.String()).Msg("Course deactivated instead of deleted")
	} else {
		s.logger.Info().Str("course_id", courseID.String()).Msg("Course deleted")
	}
	return deactivated, nil
}
