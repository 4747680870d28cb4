package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/app/models/dto"
	"github.com/presentapp/present/internal/app/services"
	"github.com/presentapp/present/internal/middleware"
	"github.com/presentapp/present/internal/pkg/helpers"
)

// ActivityController exposes the audit trail
type ActivityController struct {
	activityService *services.ActivityService
}

// NewActivityController creates a new ActivityController
func NewActivityController(activityService *services.ActivityService) *ActivityController {
	return &ActivityController{
		activityService: activityService,
	}
}

// ListActivities retrieves audit entries
// @Summary List activity log entries
// @Description Retrieves audit entries newest first, optionally filtered by action type. Actor names are resolved at read time; entries without an actor show "System".
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param actionType query string false "Filter by action type" Enums(login, logout, submission, upload, create, update, delete)
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=[]models.ActivityLog} "Entries retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /activities [get]
func (c *ActivityController) ListActivities(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	var actionType *models.ActionType
	if param := ctx.Query("actionType"); param != "" {
		a := models.ActionType(param)
		actionType = &a
	}

	entries, total, err := c.activityService.List(ctx, actionType, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(entries, helpers.NewPaginationInfo(total, page, size)))
}
