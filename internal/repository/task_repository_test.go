package repository_test

import (
	"context"
	"testing"

	"classdesk/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTaskRepository_DeleteCascade_WithSubmissionsRollsBack(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	taskID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(taskID.String()))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "submissions" WHERE task_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	// Act
	err := repo.DeleteCascade(context.Background(), taskID)

	// Assert: the transaction rolls back before any DELETE is issued.
	assert.ErrorIs(t, err, repository.ErrTaskHasSubmissions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_DeleteCascade_RemovesDependentsFirst(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	taskID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(taskID.String()))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "submissions" WHERE task_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM "material_files"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "assignments"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "tasks"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := repo.DeleteCascade(context.Background(), taskID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
