package handler

import (
	"errors"
	"net/http"
	"time"

	"classdesk/internal/model"
	"classdesk/internal/repository"
	"classdesk/internal/service"
	"classdesk/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	tasks       repository.TaskRepository
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	guard       service.EditabilityGuard
	lifecycle   service.LifecycleService
	ledger      service.SubmissionLedger
	attachments service.AttachmentService
	resolver    service.AssignmentResolver
	files       storage.FileStore
}

func NewTaskHandler(
	tasks repository.TaskRepository,
	courses repository.CourseRepository,
	assignments repository.AssignmentRepository,
	guard service.EditabilityGuard,
	lifecycle service.LifecycleService,
	ledger service.SubmissionLedger,
	attachments service.AttachmentService,
	resolver service.AssignmentResolver,
	files storage.FileStore,
) *TaskHandler {
	return &TaskHandler{
		tasks:       tasks,
		courses:     courses,
		assignments: assignments,
		guard:       guard,
		lifecycle:   lifecycle,
		ledger:      ledger,
		attachments: attachments,
		resolver:    resolver,
		files:       files,
	}
}

type CreateTaskRequest struct {
	Title                string    `json:"title" binding:"required"`
	Description          string    `json:"description"`
	OpenAt               time.Time `json:"open_at" binding:"required"`
	DueAt                time.Time `json:"due_at" binding:"required"`
	MaxGrade             float64   `json:"max_grade"`
	AllowLateSubmissions bool      `json:"allow_late_submissions"`
	EditableUntilLastSubmission bool `json:"editable_until_last_submission"`
}

type UpdateTaskRequest struct {
	Title                string    `json:"title" binding:"required"`
	Description          string    `json:"description"`
	OpenAt               time.Time `json:"open_at" binding:"required"`
	DueAt                time.Time `json:"due_at" binding:"required"`
	MaxGrade             float64   `json:"max_grade"`
	Enabled              bool      `json:"enabled"`
	AllowLateSubmissions bool      `json:"allow_late_submissions"`
	EditableUntilLastSubmission bool `json:"editable_until_last_submission"`
}

type AssignRequest struct {
	CourseID  *string `json:"course_id" binding:"omitempty,uuid"`
	StudentID *string `json:"student_id" binding:"omitempty,uuid"`
}

type MaterialFileResponse struct {
	ID     string  `json:"id"`
	URL    string  `json:"url"`
	Name   string  `json:"name"`
	Kind   string  `json:"kind"`
	SizeMB float64 `json:"size_mb"`
}

type TaskResponse struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	OpenAt               time.Time `json:"open_at"`
	DueAt                time.Time `json:"due_at"`
	MaxGrade             float64   `json:"max_grade"`
	Enabled              bool      `json:"enabled"`
	AllowLateSubmissions bool      `json:"allow_late_submissions"`
	EditableUntilLastSubmission bool   `json:"editable_until_last_submission"`
	OwnerTeacherID              string `json:"owner_teacher_id"`

	Materials []MaterialFileResponse `json:"materials,omitempty"`
}

func taskResponse(task *model.Task, materials []model.MaterialFile) TaskResponse {
	resp := TaskResponse{
		ID:                   task.ID.String(),
		Title:                task.Title,
		Description:          task.Description,
		OpenAt:               task.OpenAt,
		DueAt:                task.DueAt,
		MaxGrade:             task.MaxGrade,
		Enabled:              task.Enabled,
		AllowLateSubmissions: task.AllowLateSubmissions,
		EditableUntilLastSubmission: task.EditableUntilLastSubmission,
		OwnerTeacherID:              task.OwnerTeacherID.String(),
	}
	for _, m := range materials {
		resp.Materials = append(resp.Materials, MaterialFileResponse{
			ID:     m.ID.String(),
			URL:    m.URL,
			Name:   m.Name,
			Kind:   string(m.Kind),
			SizeMB: m.SizeMB,
		})
	}
	return resp
}

// ownedTask loads the task and enforces ownership. Non-owners get a 404, not
// a 403: a teacher's tasks are not discoverable by other teachers.
func (h *TaskHandler) ownedTask(c *gin.Context, taskID, userID uuid.UUID) (*model.Task, bool) {
	task, err := h.tasks.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Task not found"})
		} else {
			respondError(c, err)
		}
		return nil, false
	}
	if task.OwnerTeacherID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Task not found"})
		return nil, false
	}
	return task, true
}

// Create creates a task owned by the calling teacher.
// @Summary  Create a task
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    request body CreateTaskRequest true "Task data"
// @Success  201 {object} TaskResponse
// @Router   /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, role, ok := authUser(c)
	if !ok {
		return
	}
	if role != model.RoleTeacher {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "Only teachers can create tasks"})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Invalid input"})
		return
	}
	if !req.DueAt.After(req.OpenAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "due_at must be after open_at"})
		return
	}
	if req.MaxGrade <= 0 {
		req.MaxGrade = service.MaxGrade
	}

	task := &model.Task{
		Title:                req.Title,
		Description:          req.Description,
		OpenAt:               req.OpenAt,
		DueAt:                req.DueAt,
		MaxGrade:             req.MaxGrade,
		Enabled:              true,
		AllowLateSubmissions: req.AllowLateSubmissions,
		EditableUntilLastSubmission: req.EditableUntilLastSubmission,
		OwnerTeacherID:              userID,
	}
	if err := h.tasks.Create(c.Request.Context(), task); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, taskResponse(task, nil))
}

// List returns the calling teacher's own tasks, newest first.
// @Summary  List own tasks
// @Tags     Tasks
// @Security BearerAuth
// @Produce  json
// @Success  200 {array} TaskResponse
// @Router   /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, role, ok := authUser(c)
	if !ok {
		return
	}
	if role != model.RoleTeacher {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "Only teachers have a task list"})
		return
	}

	tasks, err := h.tasks.GetByOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, taskResponse(&tasks[i], nil))
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID returns the task with its material files. Visible to the owner
// and to effectively assigned students.
// @Summary  Get a task
// @Tags     Tasks
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "Task ID"
// @Success  200 {object} TaskResponse
// @Router   /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Task not found"})
		} else {
			respondError(c, err)
		}
		return
	}

	if task.OwnerTeacherID != userID {
		assigned, err := h.resolver.ResolveAssignedStudents(c.Request.Context(), taskID)
		if err != nil {
			respondError(c, err)
			return
		}
		if _, ok := assigned[userID]; !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Task not found"})
			return
		}
	}

	materials, err := h.attachments.ListMaterials(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, taskResponse(task, materials))
}

// Update mutates task fields. Rejected with Locked once every assigned
// student has submitted (for tasks that opted into the guard); no field is
// exempt, including enabled.
// @Summary  Update a task
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id path string true "Task ID"
// @Param    request body UpdateTaskRequest true "Task fields"
// @Success  200 {object} TaskResponse
// @Failure  403 {object} map[string]string "Locked"
// @Router   /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, ok := h.ownedTask(c, taskID, userID)
	if !ok {
		return
	}

	locked, err := h.guard.IsLocked(c.Request.Context(), task)
	if err != nil {
		respondError(c, err)
		return
	}
	if locked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Locked", "message": "All assigned students have submitted; the task can no longer be edited"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Invalid input"})
		return
	}
	if !req.DueAt.After(req.OpenAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "due_at must be after open_at"})
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.OpenAt = req.OpenAt
	task.DueAt = req.DueAt
	if req.MaxGrade > 0 {
		task.MaxGrade = req.MaxGrade
	}
	task.Enabled = req.Enabled
	task.AllowLateSubmissions = req.AllowLateSubmissions
	task.EditableUntilLastSubmission = req.EditableUntilLastSubmission

	if err := h.tasks.Update(c.Request.Context(), task); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskResponse(task, nil))
}

// Delete removes the task with its assignments and material files. If
// submissions reference it the teacher gets a Conflict with guidance to
// disable the task instead.
// @Summary  Delete a task
// @Tags     Tasks
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "Task ID"
// @Success  200
// @Failure  409 {object} map[string]string "Conflict"
// @Router   /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, ok := h.ownedTask(c, taskID, userID); !ok {
		return
	}

	if err := h.lifecycle.DeleteTask(c.Request.Context(), taskID); err != nil {
		if errors.Is(err, service.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Conflict", "message": "Task has submissions and cannot be deleted; disable it instead"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Assign links the task to one course or one student, exactly one of the
// two.
// @Summary  Assign a task
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id path string true "Task ID"
// @Param    request body AssignRequest true "Target (course_id xor student_id)"
// @Success  200
// @Router   /tasks/{id}/assign [post]
func (h *TaskHandler) Assign(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, ok := h.ownedTask(c, taskID, userID); !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Invalid input"})
		return
	}
	if (req.CourseID == nil) == (req.StudentID == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Provide exactly one of course_id or student_id"})
		return
	}

	var assignment *model.Assignment
	switch {
	case req.CourseID != nil:
		courseID, _ := uuid.Parse(*req.CourseID)
		if _, err := h.courses.GetByID(c.Request.Context(), courseID); err != nil {
			if errors.Is(err, repository.ErrCourseNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Course not found"})
			} else {
				respondError(c, err)
			}
			return
		}
		teaches, err := h.courses.IsCourseTeacher(c.Request.Context(), courseID, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !teaches {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "You don't teach this course"})
			return
		}
		assignment = model.NewCourseAssignment(taskID, courseID)

	default:
		studentID, _ := uuid.Parse(*req.StudentID)
		teaches, err := h.courses.TeachesStudent(c.Request.Context(), userID, studentID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !teaches {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "Student is not in any of your courses"})
			return
		}
		assignment = model.NewStudentAssignment(taskID, studentID)
	}

	if err := h.assignments.Create(c.Request.Context(), assignment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignment_id": assignment.ID.String()})
}

// Unassign removes one assignment record. Assignments are immutable;
// removal is the only mutation.
// @Summary  Remove an assignment
// @Tags     Tasks
// @Security BearerAuth
// @Param    id path string true "Task ID"
// @Param    assignment_id path string true "Assignment ID"
// @Success  200
// @Router   /tasks/{id}/assign/{assignment_id} [delete]
func (h *TaskHandler) Unassign(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	assignmentID, ok := pathID(c, "assignment_id")
	if !ok {
		return
	}

	if _, ok := h.ownedTask(c, taskID, userID); !ok {
		return
	}

	assignment, err := h.assignments.GetByID(c.Request.Context(), assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Assignment not found"})
		} else {
			respondError(c, err)
		}
		return
	}
	if assignment.TaskID != taskID {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Assignment not found"})
		return
	}

	if err := h.assignments.Delete(c.Request.Context(), assignmentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// SubmissionStatus reports how many assigned students have submitted. The
// numbers are recomputed from current assignment and roster state on every
// call.
// @Summary  Submission status of a task
// @Tags     Tasks
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "Task ID"
// @Success  200 {object} service.SubmissionStatus
// @Router   /tasks/{id}/submission-status [get]
func (h *TaskHandler) SubmissionStatus(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, ok := h.ownedTask(c, taskID, userID); !ok {
		return
	}

	status, err := h.ledger.Status(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// AddMaterial uploads one material file for the task.
// @Summary  Attach task material
// @Tags     Tasks
// @Security BearerAuth
// @Accept   multipart/form-data
// @Produce  json
// @Param    id path string true "Task ID"
// @Param    file formData file true "Material file"
// @Success  201 {object} MaterialFileResponse
// @Router   /tasks/{id}/materials [post]
func (h *TaskHandler) AddMaterial(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, ok := h.ownedTask(c, taskID, userID); !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "A file is required"})
		return
	}
	if float64(fileHeader.Size)/(1024*1024) > service.MaxFileSizeMB {
		c.JSON(http.StatusBadRequest, gin.H{"error": "FileTooLarge", "message": "File exceeds the 50MB limit"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	url, sizeMB, err := h.files.Upload(c.Request.Context(), fileHeader.Filename, src, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}

	material, err := h.attachments.AddMaterial(c.Request.Context(), taskID, url, fileHeader.Filename, sizeMB)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MaterialFileResponse{
		ID:     material.ID.String(),
		URL:    material.URL,
		Name:   material.Name,
		Kind:   string(material.Kind),
		SizeMB: material.SizeMB,
	})
}

// RemoveMaterial deletes one material file. The blob removal is best
// effort; the metadata row is authoritative.
// @Summary  Remove task material
// @Tags     Tasks
// @Security BearerAuth
// @Param    id path string true "Task ID"
// @Param    file_id path string true "File ID"
// @Success  200
// @Router   /tasks/{id}/materials/{file_id} [delete]
func (h *TaskHandler) RemoveMaterial(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	fileID, ok := pathID(c, "file_id")
	if !ok {
		return
	}

	if _, ok := h.ownedTask(c, taskID, userID); !ok {
		return
	}

	materials, err := h.attachments.ListMaterials(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	var url string
	for _, m := range materials {
		if m.ID == fileID {
			url = m.URL
		}
	}

	if err := h.attachments.RemoveMaterial(c.Request.Context(), taskID, fileID); err != nil {
		respondError(c, err)
		return
	}
	if url != "" {
		_ = h.files.Remove(c.Request.Context(), url)
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}
