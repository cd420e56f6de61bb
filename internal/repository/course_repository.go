package repository

import (
	"context"
	"errors"

	"classdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Course, error)
	GetStudentIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
	IsCourseTeacher(ctx context.Context, courseID, teacherID uuid.UUID) (bool, error)
	TeachesStudent(ctx context.Context, teacherID, studentID uuid.UUID) (bool, error)
	AddStudent(ctx context.Context, courseID, studentID uuid.UUID) error
	RemoveStudent(ctx context.Context, courseID, studentID uuid.UUID) error
	AddTeacher(ctx context.Context, courseID, teacherID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) (deactivated bool, err error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	result := r.db.WithContext(ctx).First(&course, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, result.Error
	}
	return &course, nil
}

// ListByUser returns every course the user belongs to, as student or as
// teacher.
func (r *courseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Distinct("courses.*").
		Joins("LEFT JOIN course_students ON course_students.course_id = courses.id").
		Joins("LEFT JOIN course_teachers ON course_teachers.course_id = courses.id").
		Where("course_students.student_id = ? OR course_teachers.teacher_id = ?", userID, userID).
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// GetStudentIDs returns the current roster of a course. Inactive courses
// keep their roster; callers decide whether activity matters.
func (r *courseRepository) GetStudentIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.CourseStudent{}).
		Where("course_id = ?", courseID).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *courseRepository) IsCourseTeacher(ctx context.Context, courseID, teacherID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseTeacher{}).
		Where("course_id = ? AND teacher_id = ?", courseID, teacherID).
		Count(&count).Error
	return count > 0, err
}

// TeachesStudent reports whether the teacher teaches any course the student
// is enrolled in.
func (r *courseRepository) TeachesStudent(ctx context.Context, teacherID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseTeacher{}).
		Joins("JOIN course_students ON course_students.course_id = course_teachers.course_id").
		Where("course_teachers.teacher_id = ? AND course_students.student_id = ?", teacherID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *courseRepository) AddStudent(ctx context.Context, courseID, studentID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO course_students (course_id, student_id, created_at) VALUES (?, ?, NOW()) ON CONFLICT DO NOTHING",
		courseID, studentID,
	).Error
}

func (r *courseRepository) RemoveStudent(ctx context.Context, courseID, studentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Delete(&model.CourseStudent{}).Error
}

func (r *courseRepository) AddTeacher(ctx context.Context, courseID, teacherID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO course_teachers (course_id, teacher_id, created_at) VALUES (?, ?, NOW()) ON CONFLICT DO NOTHING",
		courseID, teacherID,
	).Error
}

// Delete removes a course and its membership rows in one transaction. If any
// assignment still targets the course it is soft-deactivated instead and
// Delete reports deactivated=true. The assignment check runs inside the same
// transaction, so an assignment created concurrently either blocks the
// delete or fails its course FK after the delete commits.
func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deactivated := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.First(&course, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		var assignments int64
		if err := tx.Model(&model.Assignment{}).
			Where("course_id = ?", id).
			Count(&assignments).Error; err != nil {
			return err
		}

		if assignments > 0 {
			deactivated = true
			return tx.Model(&model.Course{}).
				Where("id = ?", id).
				Update("active", false).Error
		}

		if err := tx.Delete(&model.CourseStudent{}, "course_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.CourseTeacher{}, "course_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, "id = ?", id).Error
	})
	return deactivated, err
}
