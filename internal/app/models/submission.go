package models

import "time"

// SubjectFolder groups submission tasks under a subject
type SubjectFolder struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	SubjectID int64     `json:"subjectId" db:"subject_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// SubjectSubmission is a gradable task created by an instructor under a folder
type SubjectSubmission struct {
	ID          int64     `json:"id" db:"id"`
	FolderID    int64     `json:"folderId" db:"folder_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	DueDate     time.Time `json:"dueDate" db:"due_date"`
	DueTime     *string   `json:"dueTime,omitempty" db:"due_time"` // "HH:MM:SS", nil means end of day
	MaxAttempts int       `json:"maxAttempts" db:"max_attempts"`
	IsVisible   bool      `json:"isVisible" db:"is_visible"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// StudentSubmission is one attempt by a student against a task.
// Attempts are append-only; resubmission creates a new row.
type StudentSubmission struct {
	ID            int64      `json:"id" db:"id"`
	SubmissionID  int64      `json:"submissionId" db:"submission_id"`
	StudentID     int64      `json:"studentId" db:"student_id"`
	AttemptNumber int        `json:"attemptNumber" db:"attempt_number"`
	SubmittedAt   time.Time  `json:"submittedAt" db:"submitted_at"`
	Grade         *float64   `json:"grade,omitempty" db:"grade"`
	Feedback      *string    `json:"feedback,omitempty" db:"feedback"`
	GradedAt      *time.Time `json:"gradedAt,omitempty" db:"graded_at"`

	Files   []*SubmissionFile `json:"files,omitempty"` // Relation, no db tag
	Student *User             `json:"student,omitempty"`
}

// IsGraded reports whether the attempt has received a grade.
func (s *StudentSubmission) IsGraded() bool {
	return s != nil && s.Grade != nil
}

// SubmissionFile is one uploaded file belonging to an attempt
type SubmissionFile struct {
	ID                 int64  `json:"id" db:"id"`
	ParentSubmissionID int64  `json:"parentSubmissionId" db:"parent_submission_id"`
	FileName           string `json:"fileName" db:"file_name"`
	FileType           string `json:"fileType" db:"file_type"`
	FileURL            string `json:"fileUrl" db:"file_url"`
}
