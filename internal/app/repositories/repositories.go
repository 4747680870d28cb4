package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	CatalogRepository     *CatalogRepository
	MembershipRepository  *MembershipRepository
	SubmissionRepository  *SubmissionRepository
	ActivityLogRepository *ActivityLogRepository
	AttendanceRepository  *AttendanceRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		CatalogRepository:     NewCatalogRepository(db),
		MembershipRepository:  NewMembershipRepository(db),
		SubmissionRepository:  NewSubmissionRepository(db),
		ActivityLogRepository: NewActivityLogRepository(db),
		AttendanceRepository:  NewAttendanceRepository(db),
	}
}
