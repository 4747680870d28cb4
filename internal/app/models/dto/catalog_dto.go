package dto

// CreateSchoolYearRequest creates a new root catalog node
type CreateSchoolYearRequest struct {
	Year string `json:"year" binding:"required" example:"2024-2025"`
}

// CreateSemesterRequest creates a semester under a school year
type CreateSemesterRequest struct {
	SchoolYearID int64  `json:"schoolYearId" binding:"required" example:"1"`
	Name         string `json:"name" binding:"required" example:"First Semester"`
}

// CreateGradeLevelRequest creates a grade level under a semester
type CreateGradeLevelRequest struct {
	SemesterID int64  `json:"semesterId" binding:"required" example:"1"`
	Name       string `json:"name" binding:"required" example:"Grade 1"`
}

// CreateSectionRequest creates a section under a grade level
type CreateSectionRequest struct {
	GradeLevelID int64  `json:"gradeLevelId" binding:"required" example:"1"`
	Name         string `json:"name" binding:"required" example:"A"`
}

// CreateSubjectRequest creates a subject under a section
type CreateSubjectRequest struct {
	SectionID int64  `json:"sectionId" binding:"required" example:"1"`
	Name      string `json:"name" binding:"required" example:"Mathematics"`
	Code      string `json:"code" example:"MATH-101"`
}

// RenameEntityRequest renames a node at any hierarchy level
type RenameEntityRequest struct {
	Name string `json:"name" binding:"required" example:"Section B"`
}

// AssignMemberRequest attaches an instructor or student to a subject
type AssignMemberRequest struct {
	UserID int64 `json:"userId" binding:"required" example:"7"`
}
