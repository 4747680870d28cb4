package dto

import (
	"time"

	"github.com/presentapp/present/internal/app/models"
)

// CreateFolderRequest creates a folder under a subject
type CreateFolderRequest struct {
	SubjectID int64  `json:"subjectId" binding:"required" example:"3"`
	Name      string `json:"name" binding:"required" example:"Quizzes"`
}

// CreateTaskRequest defines a gradable submission task
type CreateTaskRequest struct {
	FolderID    int64   `json:"folderId" binding:"required" example:"2"`
	Name        string  `json:"name" binding:"required" example:"Quiz 1"`
	Description string  `json:"description" example:"Chapters 1-3"`
	DueDate     string  `json:"dueDate" binding:"required" example:"2025-05-30"` // YYYY-MM-DD
	DueTime     *string `json:"dueTime,omitempty" example:"17:00:00"`
	MaxAttempts int     `json:"maxAttempts" binding:"required,min=1" example:"2"`
	IsVisible   bool    `json:"isVisible" example:"true"`
}

// SubmittedFile is one uploaded file reference accompanying an attempt
type SubmittedFile struct {
	FileName string `json:"fileName" binding:"required" example:"answers.pdf"`
	FileType string `json:"fileType" example:"application/pdf"`
	FileURL  string `json:"fileUrl" binding:"required" example:"/uploads/submissions/9b2e.pdf"`
}

// SubmitAttemptRequest records a student's attempt with its files
type SubmitAttemptRequest struct {
	Files []SubmittedFile `json:"files" binding:"required,min=1,dive"`
}

// GradeAttemptRequest grades one attempt. Grade is a pointer so a zero
// grade still satisfies the required binding.
type GradeAttemptRequest struct {
	Grade    *float64 `json:"grade" binding:"required,gte=0,lte=100" example:"85"`
	Feedback string   `json:"feedback" example:"Well done"`
}

// TaskStatusResponse is a task enriched with the requesting student's state
type TaskStatusResponse struct {
	ID            int64                     `json:"id"`
	FolderID      int64                     `json:"folderId"`
	Name          string                    `json:"name"`
	Description   string                    `json:"description"`
	DueDate       time.Time                 `json:"dueDate"`
	DueTime       *string                   `json:"dueTime,omitempty"`
	MaxAttempts   int                       `json:"maxAttempts"`
	Status        models.SubmissionStatus   `json:"status"`
	CanSubmit     bool                      `json:"canSubmit"`
	AttemptCount  int                       `json:"attemptCount"`
	LatestAttempt *models.StudentSubmission `json:"latestAttempt,omitempty"`
}
