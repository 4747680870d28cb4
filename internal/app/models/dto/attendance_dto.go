package dto

// CreateSessionRequest opens an attendance session for a subject
type CreateSessionRequest struct {
	SubjectID int64  `json:"subjectId" binding:"required" example:"3"`
	Date      string `json:"date" binding:"required" example:"2025-05-12"` // YYYY-MM-DD
}

// MarkAttendanceRequest marks one student within a session
type MarkAttendanceRequest struct {
	StudentID int64  `json:"studentId" binding:"required" example:"12"`
	Status    string `json:"status" binding:"required,oneof=present absent late excused" example:"present"`
}
