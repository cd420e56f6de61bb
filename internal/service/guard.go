package service

import (
	"context"

	"classdesk/internal/model"
)

// EditabilityGuard derives whether a task may still be mutated by its owner.
// Deletion is governed by the lifecycle service instead: a task with
// submissions is never deletable, locked or not.
type EditabilityGuard interface {
	IsLocked(ctx context.Context, task *model.Task) (bool, error)
}

type editabilityGuard struct {
	ledger SubmissionLedger
}

func NewEditabilityGuard(ledger SubmissionLedger) EditabilityGuard {
	return &editabilityGuard{ledger: ledger}
}

// IsLocked is false for tasks that opted out of the guard, otherwise true
// exactly when every effectively assigned student has submitted. A locked
// task rejects all field edits, including toggling Enabled or the guard
// flag itself.
func (g *editabilityGuard) IsLocked(ctx context.Context, task *model.Task) (bool, error) {
	if !task.EditableUntilLastSubmission {
		return false, nil
	}
	status, err := g.ledger.Status(ctx, task.ID)
	if err != nil {
		return false, err
	}
	return status.AllSubmitted, nil
}
