package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/app/models/dto"
	"github.com/presentapp/present/internal/app/services"
	"github.com/presentapp/present/internal/middleware"
	"github.com/presentapp/present/internal/pkg/filestorage"
)

// UploadResponse carries the stored file reference
type UploadResponse struct {
	FileName string `json:"fileName" example:"answers.pdf"`
	FileType string `json:"fileType" example:"application/pdf"`
	FileURL  string `json:"fileUrl" example:"/uploads/submissions/9b2e.pdf"`
}

// UploadController handles file uploads for submission attempts
type UploadController struct {
	storage  filestorage.FileStorage
	activity services.ActivityRecorder
}

// NewUploadController creates a new UploadController
func NewUploadController(storage filestorage.FileStorage, activity services.ActivityRecorder) *UploadController {
	return &UploadController{
		storage:  storage,
		activity: activity,
	}
}

// Upload stores one file and returns its reference
// @Summary Upload a file
// @Description Stores a file (10 MB max, allow-listed types only) and returns the reference to attach to a submission attempt
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Success 201 {object} dto.APIResponse{data=controllers.UploadResponse} "File stored successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing file, file too large, or type not allowed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /uploads [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "No file provided").
			WithDetails("A multipart form field named 'file' is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := filestorage.ValidateUpload(fileHeader); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File rejected").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fileURL, err := c.storage.SaveFileWithPath(fileHeader, "submissions")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.activity.Record(ctx, middleware.ActorID(ctx), models.ActionUpload,
		"Uploaded file: "+fileHeader.Filename)

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(UploadResponse{
		FileName: fileHeader.Filename,
		FileType: fileHeader.Header.Get("Content-Type"),
		FileURL:  fileURL,
	}))
}
