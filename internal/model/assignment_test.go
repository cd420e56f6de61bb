package model_test

import (
	"testing"

	"classdesk/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAssignment_Target(t *testing.T) {
	taskID := uuid.New()
	courseID := uuid.New()
	studentID := uuid.New()

	kind, id, err := model.NewCourseAssignment(taskID, courseID).Target()
	assert.NoError(t, err)
	assert.Equal(t, model.TargetCourse, kind)
	assert.Equal(t, courseID, id)

	kind, id, err = model.NewStudentAssignment(taskID, studentID).Target()
	assert.NoError(t, err)
	assert.Equal(t, model.TargetStudent, kind)
	assert.Equal(t, studentID, id)
}

func TestAssignment_TargetInvalidRows(t *testing.T) {
	taskID := uuid.New()
	courseID := uuid.New()
	studentID := uuid.New()

	_, _, err := (&model.Assignment{TaskID: taskID}).Target()
	assert.ErrorIs(t, err, model.ErrInvalidTarget)

	_, _, err = (&model.Assignment{TaskID: taskID, CourseID: &courseID, StudentID: &studentID}).Target()
	assert.ErrorIs(t, err, model.ErrInvalidTarget)

	assert.Error(t, (&model.Assignment{TaskID: taskID}).Validate())
	assert.NoError(t, model.NewCourseAssignment(taskID, courseID).Validate())
}

func TestSubmission_Graded(t *testing.T) {
	sub := &model.Submission{}
	assert.False(t, sub.Graded())

	grade := 0.0
	sub.Grade = &grade
	assert.True(t, sub.Graded())
}
