package models

// SchoolYear is the root of the catalog hierarchy, e.g. "2024-2025"
type SchoolYear struct {
	ID   int64  `json:"id" db:"id"`
	Year string `json:"year" db:"year" example:"2024-2025"`

	Semesters []*Semester `json:"semesters,omitempty"` // Relation, no db tag
}

// Semester belongs to a school year
type Semester struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name" example:"First Semester"`
	SchoolYearID int64  `json:"schoolYearId" db:"school_year_id"`

	GradeLevels []*GradeLevel `json:"gradeLevels,omitempty"`
}

// GradeLevel belongs to a semester
type GradeLevel struct {
	ID         int64  `json:"id" db:"id"`
	Name       string `json:"name" db:"name" example:"Grade 1"`
	SemesterID int64  `json:"semesterId" db:"semester_id"`

	Sections []*Section `json:"sections,omitempty"`
}

// Section belongs to a grade level
type Section struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name" example:"A"`
	GradeLevelID int64  `json:"gradeLevelId" db:"grade_level_id"`

	Subjects []*Subject `json:"subjects,omitempty"`
}

// Subject is a leaf of the hierarchy; instructors and students are
// attached many-to-many through subject_instructors / subject_students.
type Subject struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name" example:"Mathematics"`
	Code      string `json:"code" db:"code" example:"MATH-101"`
	SectionID int64  `json:"sectionId" db:"section_id"`
}
