// Package services implements the application's business logic on top of
// the repository layer. Each service depends on small store interfaces so
// it can be exercised without a database.
package services

import (
	"github.com/presentapp/present/internal/app/repositories"
	"github.com/presentapp/present/internal/pkg/auth"
)

// Services aggregates all application services
type Services struct {
	Activity   *ActivityService
	User       *UserService
	Catalog    *CatalogService
	Submission *SubmissionService
	Attendance *AttendanceService
}

// NewServices wires the services on top of the repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService) *Services {
	activity := NewActivityService(repos.ActivityLogRepository)

	return &Services{
		Activity:   activity,
		User:       NewUserService(repos.UserRepository, jwtService, activity),
		Catalog:    NewCatalogService(repos.CatalogRepository, repos.MembershipRepository, repos.UserRepository, activity),
		Submission: NewSubmissionService(repos.SubmissionRepository, repos.CatalogRepository, repos.MembershipRepository, repos.UserRepository, activity),
		Attendance: NewAttendanceService(repos.AttendanceRepository, repos.CatalogRepository, repos.MembershipRepository, activity),
	}
}
