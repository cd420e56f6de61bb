package service

import (
	"context"
	"fmt"

	"classdesk/internal/model"
	"classdesk/internal/repository"

	"github.com/google/uuid"
)

// AssignmentResolver computes the effective assigned-student set of a task.
// The set is derived state: course rosters change after assignments are
// created, so it is recomputed from current rows on every call and never
// cached or persisted.
type AssignmentResolver interface {
	ResolveAssignedStudents(ctx context.Context, taskID uuid.UUID) (map[uuid.UUID]struct{}, error)
}

type assignmentResolver struct {
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
}

func NewAssignmentResolver(assignments repository.AssignmentRepository, courses repository.CourseRepository) AssignmentResolver {
	return &assignmentResolver{
		assignments: assignments,
		courses:     courses,
	}
}

// ResolveAssignedStudents unions student targets with the current rosters of
// course targets, deduplicated. Inactive courses still count: historical
// assignments stay valid for already-open tasks. An empty set is a valid
// result (task assigned to nobody yet).
func (s *assignmentResolver) ResolveAssignedStudents(ctx context.Context, taskID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	assignments, err := s.assignments.GetByTaskID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	students := make(map[uuid.UUID]struct{})
	for i := range assignments {
		kind, targetID, err := assignments[i].Target()
		if err != nil {
			return nil, fmt.Errorf("assignment %s: %w", assignments[i].ID, err)
		}

		switch kind {
		case model.TargetStudent:
			students[targetID] = struct{}{}
		case model.TargetCourse:
			roster, err := s.courses.GetStudentIDs(ctx, targetID)
			if err != nil {
				return nil, fmt.Errorf("failed to load roster of course %s: %w", targetID, err)
			}
			for _, id := range roster {
				students[id] = struct{}{}
			}
		}
	}
	return students, nil
}
