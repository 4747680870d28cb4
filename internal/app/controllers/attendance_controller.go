package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/presentapp/present/internal/app/models/dto"
	"github.com/presentapp/present/internal/app/services"
	"github.com/presentapp/present/internal/middleware"
)

// AttendanceController handles roll-call sessions and marks
type AttendanceController struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService *services.AttendanceService) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
	}
}

// CreateSession opens an attendance session
// @Summary Open an attendance session
// @Description Opens a roll-call for a subject on a given date
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSessionRequest true "Session information"
// @Success 201 {object} dto.APIResponse{data=models.AttendanceSession} "Session opened successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance/sessions [post]
func (c *AttendanceController) CreateSession(ctx *gin.Context) {
	var req dto.CreateSessionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	session, err := c.attendanceService.CreateSession(ctx, middleware.ActorID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(session))
}

// ListSessions retrieves the sessions of a subject
// @Summary List attendance sessions
// @Description Retrieves all roll-call sessions of a subject
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceSession} "Sessions retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{subjectId}/attendance [get]
func (c *AttendanceController) ListSessions(ctx *gin.Context) {
	subjectID, ok := parseIDParam(ctx, "subjectId")
	if !ok {
		return
	}

	sessions, err := c.attendanceService.ListSessions(ctx, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(sessions))
}

// Mark records one student's status in a session
// @Summary Mark attendance
// @Description Marks a student within a session; re-marking overwrites the previous status
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body dto.MarkAttendanceRequest true "Student and status"
// @Success 200 {object} dto.APIResponse{data=models.AttendanceRecord} "Attendance marked successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Student not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance/sessions/{id}/marks [post]
func (c *AttendanceController) Mark(ctx *gin.Context) {
	sessionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if !bindJSON(ctx, &req) {
		return
	}

	record, err := c.attendanceService.Mark(ctx, middleware.ActorID(ctx), sessionID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(record))
}

// ListRecords retrieves the marks of a session
// @Summary List session records
// @Description Retrieves all marks of a session with student profiles
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceRecord} "Records retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance/sessions/{id}/marks [get]
func (c *AttendanceController) ListRecords(ctx *gin.Context) {
	sessionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	records, err := c.attendanceService.SessionRecords(ctx, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(records))
}
