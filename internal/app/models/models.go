package models

// Role defines the user role
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// ActionType classifies an activity log entry
type ActionType string

const (
	ActionLogin      ActionType = "login"
	ActionLogout     ActionType = "logout"
	ActionSubmission ActionType = "submission"
	ActionUpload     ActionType = "upload"
	ActionCreate     ActionType = "create"
	ActionUpdate     ActionType = "update"
	ActionDelete     ActionType = "delete"
)

// Valid reports whether the action type is one of the known types.
func (a ActionType) Valid() bool {
	switch a {
	case ActionLogin, ActionLogout, ActionSubmission, ActionUpload, ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// SubmissionStatus is the derived state of a task for one student
type SubmissionStatus string

const (
	StatusNotSubmitted SubmissionStatus = "not_submitted"
	StatusSubmitted    SubmissionStatus = "submitted"
	StatusGraded       SubmissionStatus = "graded"
	StatusOverdue      SubmissionStatus = "overdue"
)

// AttendanceStatus is the per-student state of an attendance session
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// Valid reports whether the attendance status is one of the known states.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// CatalogLevel names one level of the school year hierarchy
type CatalogLevel string

const (
	LevelYear       CatalogLevel = "year"
	LevelSemester   CatalogLevel = "semester"
	LevelGradeLevel CatalogLevel = "gradeLevel"
	LevelSection    CatalogLevel = "section"
	LevelSubject    CatalogLevel = "subject"
)

// Valid reports whether the level is one of the five hierarchy levels.
func (l CatalogLevel) Valid() bool {
	switch l {
	case LevelYear, LevelSemester, LevelGradeLevel, LevelSection, LevelSubject:
		return true
	}
	return false
}
