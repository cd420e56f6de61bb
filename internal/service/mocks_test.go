package service

import (
	"context"

	"classdesk/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByOwner(ctx context.Context, teacherID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, teacherID)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	args := m.Called(ctx, id)
	sub := args.Get(0)
	if sub == nil {
		return nil, args.Error(1)
	}
	return sub.(*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetByTaskAndStudent(ctx context.Context, taskID, studentID uuid.UUID) (*model.Submission, error) {
	args := m.Called(ctx, taskID, studentID)
	sub := args.Get(0)
	if sub == nil {
		return nil, args.Error(1)
	}
	return sub.(*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Submission, error) {
	args := m.Called(ctx, taskID)
	subs := args.Get(0)
	if subs == nil {
		return nil, args.Error(1)
	}
	return subs.([]model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) CreateWithFiles(ctx context.Context, sub *model.Submission, files []model.SubmissionFile) error {
	args := m.Called(ctx, sub, files)
	return args.Error(0)
}

func (m *MockSubmissionRepository) Update(ctx context.Context, sub *model.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubmissionRepository) UpdateWithFiles(ctx context.Context, sub *model.Submission, files []model.SubmissionFile) error {
	args := m.Called(ctx, sub, files)
	return args.Error(0)
}

func (m *MockSubmissionRepository) AppendFiles(ctx context.Context, submissionID uuid.UUID, files []model.SubmissionFile) error {
	args := m.Called(ctx, submissionID, files)
	return args.Error(0)
}

func (m *MockSubmissionRepository) DeleteFile(ctx context.Context, submissionID, fileID uuid.UUID) error {
	args := m.Called(ctx, submissionID, fileID)
	return args.Error(0)
}

func (m *MockSubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubmissionRepository) CountDistinctStudents(ctx context.Context, taskID uuid.UUID) (int64, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(int64), args.Error(1)
}

type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, course *model.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	args := m.Called(ctx, id)
	course := args.Get(0)
	if course == nil {
		return nil, args.Error(1)
	}
	return course.(*model.Course), args.Error(1)
}

func (m *MockCourseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Course, error) {
	args := m.Called(ctx, userID)
	courses := args.Get(0)
	if courses == nil {
		return nil, args.Error(1)
	}
	return courses.([]model.Course), args.Error(1)
}

func (m *MockCourseRepository) GetStudentIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, courseID)
	ids := args.Get(0)
	if ids == nil {
		return nil, args.Error(1)
	}
	return ids.([]uuid.UUID), args.Error(1)
}

func (m *MockCourseRepository) IsCourseTeacher(ctx context.Context, courseID, teacherID uuid.UUID) (bool, error) {
	args := m.Called(ctx, courseID, teacherID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) TeachesStudent(ctx context.Context, teacherID, studentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, teacherID, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) AddStudent(ctx context.Context, courseID, studentID uuid.UUID) error {
	args := m.Called(ctx, courseID, studentID)
	return args.Error(0)
}

func (m *MockCourseRepository) RemoveStudent(ctx context.Context, courseID, studentID uuid.UUID) error {
	args := m.Called(ctx, courseID, studentID)
	return args.Error(0)
}

func (m *MockCourseRepository) AddTeacher(ctx context.Context, courseID, teacherID uuid.UUID) error {
	args := m.Called(ctx, courseID, teacherID)
	return args.Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment *model.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	args := m.Called(ctx, id)
	assignment := args.Get(0)
	if assignment == nil {
		return nil, args.Error(1)
	}
	return assignment.(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetByTaskID(ctx context.Context, taskID uuid.UUID) ([]model.Assignment, error) {
	args := m.Called(ctx, taskID)
	assignments := args.Get(0)
	if assignments == nil {
		return nil, args.Error(1)
	}
	return assignments.([]model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMaterialFileRepository struct {
	mock.Mock
}

func (m *MockMaterialFileRepository) Create(ctx context.Context, file *model.MaterialFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockMaterialFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MaterialFile, error) {
	args := m.Called(ctx, id)
	file := args.Get(0)
	if file == nil {
		return nil, args.Error(1)
	}
	return file.(*model.MaterialFile), args.Error(1)
}

func (m *MockMaterialFileRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.MaterialFile, error) {
	args := m.Called(ctx, taskID)
	files := args.Get(0)
	if files == nil {
		return nil, args.Error(1)
	}
	return files.([]model.MaterialFile), args.Error(1)
}

func (m *MockMaterialFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveAssignedStudents(ctx context.Context, taskID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	args := m.Called(ctx, taskID)
	students := args.Get(0)
	if students == nil {
		return nil, args.Error(1)
	}
	return students.(map[uuid.UUID]struct{}), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Submit(ctx context.Context, taskID, studentID uuid.UUID, in SubmitInput) (*model.Submission, bool, error) {
	args := m.Called(ctx, taskID, studentID, in)
	sub := args.Get(0)
	if sub == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return sub.(*model.Submission), args.Bool(1), args.Error(2)
}

func (m *MockLedger) AddFiles(ctx context.Context, submissionID, studentID uuid.UUID, files []model.SubmissionFile) (*model.Submission, error) {
	args := m.Called(ctx, submissionID, studentID, files)
	sub := args.Get(0)
	if sub == nil {
		return nil, args.Error(1)
	}
	return sub.(*model.Submission), args.Error(1)
}

func (m *MockLedger) RemoveFile(ctx context.Context, submissionID, fileID, studentID uuid.UUID) error {
	args := m.Called(ctx, submissionID, fileID, studentID)
	return args.Error(0)
}

func (m *MockLedger) DeleteSubmission(ctx context.Context, submissionID, studentID uuid.UUID) error {
	args := m.Called(ctx, submissionID, studentID)
	return args.Error(0)
}

func (m *MockLedger) Grade(ctx context.Context, submissionID uuid.UUID, grade float64, feedback string) (*model.Submission, error) {
	args := m.Called(ctx, submissionID, grade, feedback)
	sub := args.Get(0)
	if sub == nil {
		return nil, args.Error(1)
	}
	return sub.(*model.Submission), args.Error(1)
}

func (m *MockLedger) Status(ctx context.Context, taskID uuid.UUID) (SubmissionStatus, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(SubmissionStatus), args.Error(1)
}
