package repository_test

import (
	"context"
	"testing"

	"classdesk/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCourseRepository_Delete_DeactivatesWhenAssigned(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCourseRepository(gormDB)

	courseID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "courses" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "active"}).AddRow(courseID.String(), true))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "assignments" WHERE course_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`UPDATE "courses" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	deactivated, err := repo.Delete(context.Background(), courseID)

	// Assert: memberships stay, the course row stays, only active flips.
	assert.NoError(t, err)
	assert.True(t, deactivated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_Delete_RemovesMembershipsFirst(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCourseRepository(gormDB)

	courseID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "courses" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "active"}).AddRow(courseID.String(), true))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "assignments" WHERE course_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM "course_students"`).
		WillReturnResult(sqlmock.NewResult(0, 12))
	mock.ExpectExec(`DELETE FROM "course_teachers"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "courses"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	deactivated, err := repo.Delete(context.Background(), courseID)

	// Assert
	assert.NoError(t, err)
	assert.False(t, deactivated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_Delete_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCourseRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "courses" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "active"}))
	mock.ExpectRollback()

	// Act
	_, err := repo.Delete(context.Background(), uuid.New())

	// Assert
	assert.ErrorIs(t, err, repository.ErrCourseNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
