package handler

import (
	"net/http"

	"classdesk/internal/model"
	"classdesk/internal/repository"
	"classdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourseHandler struct {
	courses   repository.CourseRepository
	users     repository.UserRepository
	lifecycle service.LifecycleService
}

func NewCourseHandler(
	courses repository.CourseRepository,
	users repository.UserRepository,
	lifecycle service.LifecycleService,
) *CourseHandler {
	return &CourseHandler{
		courses:   courses,
		users:     users,
		lifecycle: lifecycle,
	}
}

type CreateCourseRequest struct {
	Name string `json:"name" binding:"required"`
}

type CourseMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type CourseResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// canManage reports whether the caller may administer the course.
func (h *CourseHandler) canManage(c *gin.Context, courseID, userID uuid.UUID, role string) (bool, error) {
	if role == model.RoleAdmin {
		return true, nil
	}
	if role != model.RoleTeacher {
		return false, nil
	}
	return h.courses.IsCourseTeacher(c.Request.Context(), courseID, userID)
}

// Create creates a course; the creating teacher joins its teacher set.
// @Summary  Create a course
// @Tags     Courses
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    request body CreateCourseRequest true "Course data"
// @Success  201 {object} CourseResponse
// @Router   /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	userID, role, ok := authUser(c)
	if !ok {
		return
	}
	if role != model.RoleTeacher && role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "Only teachers can create courses"})
		return
	}

	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Invalid input"})
		return
	}

	course := &model.Course{Name: req.Name, Active: true}
	if err := h.courses.Create(c.Request.Context(), course); err != nil {
		respondError(c, err)
		return
	}

	if role == model.RoleTeacher {
		if err := h.courses.AddTeacher(c.Request.Context(), course.ID, userID); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, CourseResponse{
		ID:     course.ID.String(),
		Name:   course.Name,
		Active: course.Active,
	})
}

// GetByID returns one course.
// @Summary  Get a course
// @Tags     Courses
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "Course ID"
// @Success  200 {object} CourseResponse
// @Router   /courses/{id} [get]
func (h *CourseHandler) GetByID(c *gin.Context) {
	if _, _, ok := authUser(c); !ok {
		return
	}
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	course, err := h.courses.GetByID(c.Request.Context(), courseID)
	if err != nil {
		if err == repository.ErrCourseNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Course not found"})
		} else {
			respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, CourseResponse{
		ID:     course.ID.String(),
		Name:   course.Name,
		Active: course.Active,
	})
}

// ListMine returns every course the caller belongs to.
// @Summary  List own courses
// @Tags     Courses
// @Security BearerAuth
// @Produce  json
// @Success  200 {array} CourseResponse
// @Router   /courses [get]
func (h *CourseHandler) ListMine(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}

	courses, err := h.courses.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CourseResponse, len(courses))
	for i, course := range courses {
		response[i] = CourseResponse{
			ID:     course.ID.String(),
			Name:   course.Name,
			Active: course.Active,
		}
	}
	c.JSON(http.StatusOK, response)
}

// Delete removes the course, or deactivates it when assignments depend on
// it. Both outcomes are success; the body tells them apart.
// @Summary  Delete or deactivate a course
// @Tags     Courses
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "Course ID"
// @Success  200 {object} map[string]interface{}
// @Router   /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	userID, role, ok := authUser(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	allowed, err := h.canManage(c, courseID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "You don't manage this course"})
		return
	}

	deactivated, err := h.lifecycle.DeleteCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}

	if deactivated {
		c.JSON(http.StatusOK, gin.H{
			"deactivated": true,
			"message":     "Course has assigned tasks and was deactivated instead of deleted",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "message": "Course deleted"})
}

// AddStudent enrolls a student into the course.
// @Summary  Enroll a student
// @Tags     Courses
// @Security BearerAuth
// @Accept   json
// @Param    id path string true "Course ID"
// @Param    request body CourseMemberRequest true "Student"
// @Success  200
// @Router   /courses/{id}/students [post]
func (h *CourseHandler) AddStudent(c *gin.Context) {
	userID, role, ok := authUser(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CourseMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Invalid input"})
		return
	}
	studentID, _ := uuid.Parse(req.UserID)

	allowed, err := h.canManage(c, courseID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "You don't manage this course"})
		return
	}

	if _, err := h.courses.GetByID(c.Request.Context(), courseID); err != nil {
		if err == repository.ErrCourseNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Course not found"})
		} else {
			respondError(c, err)
		}
		return
	}

	student, err := h.users.GetByID(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if student == nil || student.Role != model.RoleStudent {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Student not found"})
		return
	}

	if err := h.courses.AddStudent(c.Request.Context(), courseID, studentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrolled": true})
}

// RemoveStudent removes a student from the course roster.
// @Summary  Remove a student from a course
// @Tags     Courses
// @Security BearerAuth
// @Param    id path string true "Course ID"
// @Param    student_id path string true "Student ID"
// @Success  200
// @Router   /courses/{id}/students/{student_id} [delete]
func (h *CourseHandler) RemoveStudent(c *gin.Context) {
	userID, role, ok := authUser(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	studentID, ok := pathID(c, "student_id")
	if !ok {
		return
	}

	allowed, err := h.canManage(c, courseID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "You don't manage this course"})
		return
	}

	if err := h.courses.RemoveStudent(c.Request.Context(), courseID, studentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// AddTeacher adds a teacher to the course.
// @Summary  Add a teacher to a course
// @Tags     Courses
// @Security BearerAuth
// @Accept   json
// @Param    id path string true "Course ID"
// @Param    request body CourseMemberRequest true "Teacher"
// @Success  200
// @Router   /courses/{id}/teachers [post]
func (h *CourseHandler) AddTeacher(c *gin.Context) {
	userID, role, ok := authUser(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CourseMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Invalid input"})
		return
	}
	teacherID, _ := uuid.Parse(req.UserID)

	allowed, err := h.canManage(c, courseID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "You don't manage this course"})
		return
	}

	teacher, err := h.users.GetByID(c.Request.Context(), teacherID)
	if err != nil {
		respondError(c, err)
		return
	}
	if teacher == nil || teacher.Role != model.RoleTeacher {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Teacher not found"})
		return
	}

	if err := h.courses.AddTeacher(c.Request.Context(), courseID, teacherID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": true})
}
