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
)

type SubmissionHandler struct {
	tasks       repository.TaskRepository
	submissions repository.SubmissionRepository
	ledger      service.SubmissionLedger
	files       storage.FileStore
}

func NewSubmissionHandler(
	tasks repository.TaskRepository,
	submissions repository.SubmissionRepository,
	ledger service.SubmissionLedger,
	files storage.FileStore,
) *SubmissionHandler {
	return &SubmissionHandler{
		tasks:       tasks,
		submissions: submissions,
		ledger:      ledger,
		files:       files,
	}
}

type GradeRequest struct {
	Grade    *float64 `json:"grade" binding:"required"`
	Feedback string   `json:"feedback"`
}

type SubmissionFileResponse struct {
	ID     string  `json:"id"`
	URL    string  `json:"url"`
	Name   string  `json:"name"`
	Kind   string  `json:"kind"`
	SizeMB float64 `json:"size_mb"`
}

type SubmissionResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	StudentID   string    `json:"student_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Comment     string    `json:"comment"`
	Late        bool      `json:"late"`
	Grade       *float64  `json:"grade,omitempty"`
	Feedback    *string   `json:"feedback,omitempty"`

	Files []SubmissionFileResponse `json:"files"`
}

func submissionResponse(sub *model.Submission) SubmissionResponse {
	resp := SubmissionResponse{
		ID:          sub.ID.String(),
		TaskID:      sub.TaskID.String(),
		StudentID:   sub.StudentID.String(),
		SubmittedAt: sub.SubmittedAt,
		Comment:     sub.Comment,
		Late:        sub.Late,
		Grade:       sub.Grade,
		Feedback:    sub.Feedback,
		Files:       []SubmissionFileResponse{},
	}
	for _, f := range sub.Files {
		resp.Files = append(resp.Files, SubmissionFileResponse{
			ID:     f.ID.String(),
			URL:    f.URL,
			Name:   f.Name,
			Kind:   string(f.Kind),
			SizeMB: f.SizeMB,
		})
	}
	return resp
}

// Submit delivers the caller's work for a task: multipart form with an
// optional comment and zero or more files. First submission requires at
// least one file and answers 201; resubmission updates in place and answers
// 200.
// @Summary  Submit work for a task
// @Tags     Submissions
// @Security BearerAuth
// @Accept   multipart/form-data
// @Produce  json
// @Param    id path string true "Task ID"
// @Param    comment formData string false "Comment"
// @Param    files formData file false "Files"
// @Success  201 {object} SubmissionResponse
// @Success  200 {object} SubmissionResponse
// @Router   /tasks/{id}/submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, role, ok := authUser(c)
	if !ok {
		return
	}
	if role != model.RoleStudent {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "Only students can submit"})
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Invalid multipart form"})
		return
	}
	comment := c.PostForm("comment")

	var files []model.SubmissionFile
	for _, fileHeader := range form.File["files"] {
		if float64(fileHeader.Size)/(1024*1024) > service.MaxFileSizeMB {
			c.JSON(http.StatusBadRequest, gin.H{"error": "FileTooLarge", "message": fileHeader.Filename + " exceeds the 50MB limit"})
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		url, sizeMB, err := h.files.Upload(c.Request.Context(), fileHeader.Filename, src, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
		src.Close()
		if err != nil {
			respondError(c, err)
			return
		}

		file, err := service.NewSubmissionFile(url, fileHeader.Filename, sizeMB)
		if err != nil {
			respondError(c, err)
			return
		}
		files = append(files, file)
	}

	sub, created, err := h.ledger.Submit(c.Request.Context(), taskID, userID, service.SubmitInput{
		Comment: comment,
		Files:   files,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, submissionResponse(sub))
}

// GetMine returns the caller's submission for the task, if any.
// @Summary  Get own submission
// @Tags     Submissions
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "Task ID"
// @Success  200 {object} SubmissionResponse
// @Router   /tasks/{id}/submissions/mine [get]
func (h *SubmissionHandler) GetMine(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	sub, err := h.submissions.GetByTaskAndStudent(c.Request.Context(), taskID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "No submission yet"})
		return
	}
	c.JSON(http.StatusOK, submissionResponse(sub))
}

// ListByTask returns every submission of a task, owner teacher only.
// @Summary  List submissions of a task
// @Tags     Submissions
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "Task ID"
// @Success  200 {array} SubmissionResponse
// @Router   /tasks/{id}/submissions [get]
func (h *SubmissionHandler) ListByTask(c *gin.Context) {
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
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Task not found"})
		return
	}

	subs, err := h.submissions.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]SubmissionResponse, len(subs))
	for i := range subs {
		response[i] = submissionResponse(&subs[i])
	}
	c.JSON(http.StatusOK, response)
}

// Grade sets or overwrites grade and feedback; only the owning teacher of
// the submitted task may grade.
// @Summary  Grade a submission
// @Tags     Submissions
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id path string true "Submission ID"
// @Param    request body GradeRequest true "Grade and feedback"
// @Success  200 {object} SubmissionResponse
// @Failure  400 {object} map[string]string "OutOfRange"
// @Router   /submissions/{id}/grade [put]
func (h *SubmissionHandler) Grade(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}
	submissionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Invalid input"})
		return
	}

	sub, err := h.submissions.GetByID(c.Request.Context(), submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Submission not found"})
		} else {
			respondError(c, err)
		}
		return
	}

	task, err := h.tasks.GetByID(c.Request.Context(), sub.TaskID)
	if err != nil {
		respondError(c, err)
		return
	}
	if task.OwnerTeacherID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "Only the task owner can grade"})
		return
	}

	graded, err := h.ledger.Grade(c.Request.Context(), submissionID, *req.Grade, req.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submissionResponse(graded))
}

// AddFiles attaches more files to the caller's own ungraded submission.
// @Summary  Add files to a submission
// @Tags     Submissions
// @Security BearerAuth
// @Accept   multipart/form-data
// @Produce  json
// @Param    id path string true "Submission ID"
// @Param    files formData file true "Files"
// @Success  200 {object} SubmissionResponse
// @Failure  400 {object} map[string]string "Locked"
// @Router   /submissions/{id}/files [post]
func (h *SubmissionHandler) AddFiles(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}
	submissionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Invalid multipart form"})
		return
	}

	var files []model.SubmissionFile
	for _, fileHeader := range form.File["files"] {
		if float64(fileHeader.Size)/(1024*1024) > service.MaxFileSizeMB {
			c.JSON(http.StatusBadRequest, gin.H{"error": "FileTooLarge", "message": fileHeader.Filename + " exceeds the 50MB limit"})
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		url, sizeMB, err := h.files.Upload(c.Request.Context(), fileHeader.Filename, src, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
		src.Close()
		if err != nil {
			respondError(c, err)
			return
		}

		file, err := service.NewSubmissionFile(url, fileHeader.Filename, sizeMB)
		if err != nil {
			respondError(c, err)
			return
		}
		files = append(files, file)
	}

	sub, err := h.ledger.AddFiles(c.Request.Context(), submissionID, userID, files)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submissionResponse(sub))
}

// Delete removes the caller's own ungraded submission.
// @Summary  Delete own submission
// @Tags     Submissions
// @Security BearerAuth
// @Param    id path string true "Submission ID"
// @Success  200
// @Failure  400 {object} map[string]string "Locked"
// @Router   /submissions/{id} [delete]
func (h *SubmissionHandler) Delete(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}
	submissionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	sub, err := h.submissions.GetByID(c.Request.Context(), submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Submission not found"})
		} else {
			respondError(c, err)
		}
		return
	}
	urls := make([]string, 0, len(sub.Files))
	for _, f := range sub.Files {
		urls = append(urls, f.URL)
	}

	if err := h.ledger.DeleteSubmission(c.Request.Context(), submissionID, userID); err != nil {
		respondError(c, err)
		return
	}
	for _, url := range urls {
		_ = h.files.Remove(c.Request.Context(), url)
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// RemoveFile deletes one file from the caller's own ungraded submission.
// The submission row stays even when its last file goes.
// @Summary  Remove a submission file
// @Tags     Submissions
// @Security BearerAuth
// @Param    id path string true "Submission ID"
// @Param    file_id path string true "File ID"
// @Success  200
// @Failure  400 {object} map[string]string "Locked"
// @Router   /submissions/{id}/files/{file_id} [delete]
func (h *SubmissionHandler) RemoveFile(c *gin.Context) {
	userID, _, ok := authUser(c)
	if !ok {
		return
	}
	submissionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	fileID, ok := pathID(c, "file_id")
	if !ok {
		return
	}

	sub, err := h.submissions.GetByID(c.Request.Context(), submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Submission not found"})
		} else {
			respondError(c, err)
		}
		return
	}
	var url string
	for _, f := range sub.Files {
		if f.ID == fileID {
			url = f.URL
		}
	}

	if err := h.ledger.RemoveFile(c.Request.Context(), submissionID, fileID, userID); err != nil {
		respondError(c, err)
		return
	}
	if url != "" {
		_ = h.files.Remove(c.Request.Context(), url)
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}
