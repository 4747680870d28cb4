package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/app/models/dto"
	"github.com/presentapp/present/internal/app/services"
	"github.com/presentapp/present/internal/middleware"
)

// CatalogController handles the school year hierarchy and subject memberships
type CatalogController struct {
	catalogService *services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService *services.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// CreateSchoolYear handles school year creation
// @Summary Create a school year
// @Description Creates a new root node of the catalog hierarchy
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSchoolYearRequest true "School year information"
// @Success 201 {object} dto.APIResponse{data=models.SchoolYear} "School year created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/school-years [post]
func (c *CatalogController) CreateSchoolYear(ctx *gin.Context) {
	var req dto.CreateSchoolYearRequest
	if !bindJSON(ctx, &req) {
		return
	}

	year, err := c.catalogService.CreateSchoolYear(ctx, middleware.ActorID(ctx), req.Year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(year))
}

// CreateSemester handles semester creation
// @Summary Create a semester
// @Description Creates a semester under an existing school year
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSemesterRequest true "Semester information"
// @Success 201 {object} dto.APIResponse{data=models.Semester} "Semester created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "School year not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/semesters [post]
func (c *CatalogController) CreateSemester(ctx *gin.Context) {
	var req dto.CreateSemesterRequest
	if !bindJSON(ctx, &req) {
		return
	}

	semester, err := c.catalogService.CreateSemester(ctx, middleware.ActorID(ctx), req.SchoolYearID, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(semester))
}

// CreateGradeLevel handles grade level creation
// @Summary Create a grade level
// @Description Creates a grade level under an existing semester
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGradeLevelRequest true "Grade level information"
// @Success 201 {object} dto.APIResponse{data=models.GradeLevel} "Grade level created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Semester not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/grade-levels [post]
func (c *CatalogController) CreateGradeLevel(ctx *gin.Context) {
	var req dto.CreateGradeLevelRequest
	if !bindJSON(ctx, &req) {
		return
	}

	gradeLevel, err := c.catalogService.CreateGradeLevel(ctx, middleware.ActorID(ctx), req.SemesterID, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(gradeLevel))
}

// CreateSection handles section creation
// @Summary Create a section
// @Description Creates a section under an existing grade level
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSectionRequest true "Section information"
// @Success 201 {object} dto.APIResponse{data=models.Section} "Section created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Grade level not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/sections [post]
func (c *CatalogController) CreateSection(ctx *gin.Context) {
	var req dto.CreateSectionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	section, err := c.catalogService.CreateSection(ctx, middleware.ActorID(ctx), req.GradeLevelID, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(section))
}

// CreateSubject handles subject creation
// @Summary Create a subject
// @Description Creates a subject under an existing section
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubjectRequest true "Subject information"
// @Success 201 {object} dto.APIResponse{data=models.Subject} "Subject created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/subjects [post]
func (c *CatalogController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if !bindJSON(ctx, &req) {
		return
	}

	subject, err := c.catalogService.AddSubject(ctx, middleware.ActorID(ctx), req.SectionID, req.Name, req.Code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(subject))
}

// RenameEntity renames a node at any hierarchy level
// @Summary Rename a catalog entity
// @Description Renames a node at the given hierarchy level (year, semester, gradeLevel, section, subject)
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param level path string true "Hierarchy level" Enums(year, semester, gradeLevel, section, subject)
// @Param id path int true "Entity ID"
// @Param request body dto.RenameEntityRequest true "New name"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Entity renamed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Entity not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/{level}/{id} [put]
func (c *CatalogController) RenameEntity(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RenameEntityRequest
	if !bindJSON(ctx, &req) {
		return
	}

	level := models.CatalogLevel(ctx.Param("level"))
	if err := c.catalogService.RenameEntity(ctx, middleware.ActorID(ctx), level, id, req.Name); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Entity renamed successfully"}))
}

// DeleteEntity deletes a node at any hierarchy level
// @Summary Delete a catalog entity
// @Description Deletes a node at the given hierarchy level; descendants are removed with it
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param level path string true "Hierarchy level" Enums(year, semester, gradeLevel, section, subject)
// @Param id path int true "Entity ID"
// @Success 204 "Entity deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid entity ID"
// @Failure 404 {object} dto.ErrorResponse "Entity not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/{level}/{id} [delete]
func (c *CatalogController) DeleteEntity(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	level := models.CatalogLevel(ctx.Param("level"))
	if err := c.catalogService.DeleteEntity(ctx, middleware.ActorID(ctx), level, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListSchoolYears retrieves all school years
// @Summary List school years
// @Description Retrieves all school years without their children
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.SchoolYear} "School years retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/school-years [get]
func (c *CatalogController) ListSchoolYears(ctx *gin.Context) {
	years, err := c.catalogService.ListSchoolYears(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(years))
}

// GetTree retrieves the whole catalog hierarchy
// @Summary Get the catalog tree
// @Description Retrieves all school years with semesters, grade levels, sections and subjects nested
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.SchoolYear} "Catalog tree retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/tree [get]
func (c *CatalogController) GetTree(ctx *gin.Context) {
	tree, err := c.catalogService.GetTree(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(tree))
}

// AssignInstructor attaches a teacher to a subject
// @Summary Assign an instructor
// @Description Attaches a teacher to a subject; assigning twice is a conflict
// @Tags memberships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Param request body dto.AssignMemberRequest true "Instructor user ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Instructor assigned successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or already assigned"
// @Failure 404 {object} dto.ErrorResponse "Subject or user not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{subjectId}/instructors [post]
func (c *CatalogController) AssignInstructor(ctx *gin.Context) {
	subjectID, ok := parseIDParam(ctx, "subjectId")
	if !ok {
		return
	}

	var req dto.AssignMemberRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.catalogService.AssignInstructor(ctx, middleware.ActorID(ctx), subjectID, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Instructor assigned successfully"}))
}

// RemoveInstructor detaches a teacher from a subject
// @Summary Remove an instructor
// @Description Detaches a teacher from a subject; removing an absent instructor is a no-op
// @Tags memberships
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Param userId path int true "Instructor user ID"
// @Success 204 "Instructor removed successfully"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{subjectId}/instructors/{userId} [delete]
func (c *CatalogController) RemoveInstructor(ctx *gin.Context) {
	subjectID, ok := parseIDParam(ctx, "subjectId")
	if !ok {
		return
	}
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	if err := c.catalogService.RemoveInstructor(ctx, middleware.ActorID(ctx), subjectID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListInstructors retrieves a subject's instructors
// @Summary List subject instructors
// @Description Retrieves the teachers assigned to a subject with their profiles
// @Tags memberships
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=[]models.User} "Instructors retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{subjectId}/instructors [get]
func (c *CatalogController) ListInstructors(ctx *gin.Context) {
	subjectID, ok := parseIDParam(ctx, "subjectId")
	if !ok {
		return
	}

	instructors, err := c.catalogService.ListInstructorsForSubject(ctx, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(instructors))
}

// AssignStudent enrolls a student in a subject
// @Summary Enroll a student
// @Description Enrolls a student in a subject; enrolling twice is a conflict
// @Tags memberships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Param request body dto.AssignMemberRequest true "Student user ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Student enrolled successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or already enrolled"
// @Failure 404 {object} dto.ErrorResponse "Subject or user not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{subjectId}/students [post]
func (c *CatalogController) AssignStudent(ctx *gin.Context) {
	subjectID, ok := parseIDParam(ctx, "subjectId")
	if !ok {
		return
	}

	var req dto.AssignMemberRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.catalogService.AssignStudent(ctx, middleware.ActorID(ctx), subjectID, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Student enrolled successfully"}))
}

// RemoveStudent unenrolls a student from a subject
// @Summary Unenroll a student
// @Description Unenrolls a student from a subject; removing an absent student is a no-op
// @Tags memberships
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Param userId path int true "Student user ID"
// @Success 204 "Student removed successfully"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{subjectId}/students/{userId} [delete]
func (c *CatalogController) RemoveStudent(ctx *gin.Context) {
	subjectID, ok := parseIDParam(ctx, "subjectId")
	if !ok {
		return
	}
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	if err := c.catalogService.RemoveStudent(ctx, middleware.ActorID(ctx), subjectID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListStudents retrieves a subject's students
// @Summary List subject students
// @Description Retrieves the students enrolled in a subject with their profiles
// @Tags memberships
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=[]models.User} "Students retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{subjectId}/students [get]
func (c *CatalogController) ListStudents(ctx *gin.Context) {
	subjectID, ok := parseIDParam(ctx, "subjectId")
	if !ok {
		return
	}

	students, err := c.catalogService.ListStudentsForSubject(ctx, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(students))
}
