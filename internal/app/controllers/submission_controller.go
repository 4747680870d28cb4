package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/app/models/dto"
	"github.com/presentapp/present/internal/app/services"
	"github.com/presentapp/present/internal/middleware"
)

// SubmissionController handles folders, submission tasks and student attempts
type SubmissionController struct {
	submissionService *services.SubmissionService
}

// NewSubmissionController creates a new SubmissionController
func NewSubmissionController(submissionService *services.SubmissionService) *SubmissionController {
	return &SubmissionController{
		submissionService: submissionService,
	}
}

// CreateFolder handles folder creation under a subject
// @Summary Create a folder
// @Description Creates a folder for grouping submission tasks under a subject
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFolderRequest true "Folder information"
// @Success 201 {object} dto.APIResponse{data=models.SubjectFolder} "Folder created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /folders [post]
func (c *SubmissionController) CreateFolder(ctx *gin.Context) {
	var req dto.CreateFolderRequest
	if !bindJSON(ctx, &req) {
		return
	}

	folder, err := c.submissionService.CreateFolder(ctx, middleware.ActorID(ctx), req.SubjectID, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(folder))
}

// ListFolders retrieves the folders of a subject
// @Summary List subject folders
// @Description Retrieves all folders belonging to a subject
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=[]models.SubjectFolder} "Folders retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{subjectId}/folders [get]
func (c *SubmissionController) ListFolders(ctx *gin.Context) {
	subjectID, ok := parseIDParam(ctx, "subjectId")
	if !ok {
		return
	}

	folders, err := c.submissionService.ListFolders(ctx, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(folders))
}

// DeleteFolder removes a folder and everything under it
// @Summary Delete a folder
// @Description Deletes a folder; its tasks and attempts are removed with it
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param folderId path int true "Folder ID"
// @Success 204 "Folder deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Folder not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /folders/{folderId} [delete]
func (c *SubmissionController) DeleteFolder(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "folderId")
	if !ok {
		return
	}

	if err := c.submissionService.DeleteFolder(ctx, middleware.ActorID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// CreateTask handles submission task creation
// @Summary Create a submission task
// @Description Creates a gradable task under a folder with a due date and attempt cap
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTaskRequest true "Task information"
// @Success 201 {object} dto.APIResponse{data=models.SubjectSubmission} "Task created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Folder not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /submissions [post]
func (c *SubmissionController) CreateTask(ctx *gin.Context) {
	var req dto.CreateTaskRequest
	if !bindJSON(ctx, &req) {
		return
	}

	task, err := c.submissionService.CreateTask(ctx, middleware.ActorID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(task))
}

// ListTasks retrieves the tasks of a folder
// @Summary List folder tasks
// @Description Retrieves the tasks in a folder. Students only see visible tasks.
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param folderId path int true "Folder ID"
// @Success 200 {object} dto.APIResponse{data=[]models.SubjectSubmission} "Tasks retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Folder not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /folders/{folderId}/submissions [get]
func (c *SubmissionController) ListTasks(ctx *gin.Context) {
	folderID, ok := parseIDParam(ctx, "folderId")
	if !ok {
		return
	}

	studentView := ctx.GetString(middleware.ContextRole) == string(models.RoleStudent)
	tasks, err := c.submissionService.ListTasks(ctx, folderID, studentView)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(tasks))
}

// ListTaskStatuses retrieves folder tasks enriched with the caller's state
// @Summary List folder tasks with statuses
// @Description Retrieves the visible tasks of a folder with the calling student's derived status, attempt count and latest attempt
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param folderId path int true "Folder ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.TaskStatusResponse} "Statuses retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Folder not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /folders/{folderId}/submissions/status [get]
func (c *SubmissionController) ListTaskStatuses(ctx *gin.Context) {
	folderID, ok := parseIDParam(ctx, "folderId")
	if !ok {
		return
	}

	studentID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	statuses, err := c.submissionService.TaskStatusesForStudent(ctx, folderID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(statuses))
}

// SubmitAttempt records a student attempt against a task
// @Summary Submit an attempt
// @Description Records a new attempt with its files; fails once the task's attempt cap is reached
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body dto.SubmitAttemptRequest true "Attempt files"
// @Success 201 {object} dto.APIResponse{data=models.StudentSubmission} "Attempt recorded successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or attempt limit reached"
// @Failure 403 {object} dto.ErrorResponse "Student not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /submissions/{id}/attempts [post]
func (c *SubmissionController) SubmitAttempt(ctx *gin.Context) {
	taskID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	studentID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.SubmitAttemptRequest
	if !bindJSON(ctx, &req) {
		return
	}

	attempt, err := c.submissionService.SubmitAttempt(ctx, studentID, taskID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(attempt))
}

// ListAttempts retrieves attempts against a task
// @Summary List task attempts
// @Description Retrieves attempts against a task. Instructors see everyone's; students see their own. An optional studentId query narrows the instructor view.
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param studentId query int false "Filter by student ID (instructors only)"
// @Success 200 {object} dto.APIResponse{data=[]models.StudentSubmission} "Attempts retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /submissions/{id}/attempts [get]
func (c *SubmissionController) ListAttempts(ctx *gin.Context) {
	taskID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	callerID, _ := middleware.CurrentUserID(ctx)
	if ctx.GetString(middleware.ContextRole) == string(models.RoleStudent) {
		attempts, err := c.submissionService.ListOwnAttempts(ctx, taskID, callerID)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(attempts))
		return
	}

	if filter := ctx.Query("studentId"); filter != "" {
		studentID, err := strconv.ParseInt(filter, 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid studentId").
				WithDetails("studentId must be a valid number")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		attempts, err := c.submissionService.ListOwnAttempts(ctx, taskID, studentID)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(attempts))
		return
	}

	attempts, err := c.submissionService.ListAttemptsForTask(ctx, taskID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(attempts))
}

// GetTaskStatus retrieves one task enriched with the caller's state
// @Summary Get task status
// @Description Retrieves a task with the calling student's derived status and latest attempt
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} dto.APIResponse{data=dto.TaskStatusResponse} "Status retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /submissions/{id}/status [get]
func (c *SubmissionController) GetTaskStatus(ctx *gin.Context) {
	taskID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	studentID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	status, err := c.submissionService.TaskStatusForStudent(ctx, taskID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(status))
}

// GradeAttempt grades one attempt
// @Summary Grade an attempt
// @Description Sets the grade and feedback on a student attempt
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attemptId path int true "Attempt ID"
// @Param request body dto.GradeAttemptRequest true "Grade and feedback"
// @Success 200 {object} dto.APIResponse{data=models.StudentSubmission} "Attempt graded successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/{attemptId}/grade [put]
func (c *SubmissionController) GradeAttempt(ctx *gin.Context) {
	attemptID, ok := parseIDParam(ctx, "attemptId")
	if !ok {
		return
	}

	var req dto.GradeAttemptRequest
	if !bindJSON(ctx, &req) {
		return
	}

	attempt, err := c.submissionService.GradeAttempt(ctx, middleware.ActorID(ctx), attemptID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(attempt))
}
