package models

import "time"

// AttendanceSession is one roll-call for a subject on a given date
type AttendanceSession struct {
	ID        int64     `json:"id" db:"id"`
	SubjectID int64     `json:"subjectId" db:"subject_id"`
	Date      time.Time `json:"date" db:"session_date"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// AttendanceRecord is one student's mark within a session.
// One record per (session, student); re-marking overwrites.
type AttendanceRecord struct {
	ID        int64            `json:"id" db:"id"`
	SessionID int64            `json:"sessionId" db:"session_id"`
	StudentID int64            `json:"studentId" db:"student_id"`
	Status    AttendanceStatus `json:"status" db:"status"`
	MarkedAt  time.Time        `json:"markedAt" db:"marked_at"`

	Student *User `json:"student,omitempty"` // Relation, no db tag
}
