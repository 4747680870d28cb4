package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/pkg/apperrors"
	"github.com/presentapp/present/internal/pkg/dberrors"
)

// MembershipRepository handles subject instructor and student assignment
type MembershipRepository struct {
	db *pgxpool.Pool
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{
		db: db,
	}
}

// membershipTable maps a role to its join table
func membershipTable(role models.Role) (string, error) {
	switch role {
	case models.RoleTeacher:
		return "subject_instructors", nil
	case models.RoleStudent:
		return "subject_students", nil
	}
	return "", fmt.Errorf("no membership table for role %s", role)
}

// Assign attaches a user to a subject. A duplicate (subject, user) pair
// surfaces as apperrors.ErrAlreadyAssigned via the unique constraint
// rather than a check-then-insert.
func (r *MembershipRepository) Assign(ctx context.Context, role models.Role, subjectID, userID int64) error {
	table, err := membershipTable(role)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (subject_id, user_id) VALUES ($1, $2)`, table)
	_, err = r.db.Exec(ctx, query, subjectID, userID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyAssigned
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSubjectNotFound
		}
		return fmt.Errorf("error assigning %s to subject: %w", role, err)
	}

	return nil
}

// Remove detaches a user from a subject. Removing a pair that does not
// exist is a no-op, matching the unconditional delete semantics.
func (r *MembershipRepository) Remove(ctx context.Context, role models.Role, subjectID, userID int64) error {
	table, err := membershipTable(role)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE subject_id = $1 AND user_id = $2`, table)
	_, err = r.db.Exec(ctx, query, subjectID, userID)
	if err != nil {
		return fmt.Errorf("error removing %s from subject: %w", role, err)
	}

	return nil
}

// IsMember checks whether the (subject, user) pair exists for the role
func (r *MembershipRepository) IsMember(ctx context.Context, role models.Role, subjectID, userID int64) (bool, error) {
	table, err := membershipTable(role)
	if err != nil {
		return false, err
	}

	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE subject_id = $1 AND user_id = $2)`, table)
	err = r.db.QueryRow(ctx, query, subjectID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking subject membership: %w", err)
	}

	return exists, nil
}

// ListMembers retrieves subject members of the given role joined with
// user and profile rows. Ordering is by last name, first name, username
// so listings are deterministic.
func (r *MembershipRepository) ListMembers(ctx context.Context, role models.Role, subjectID int64) ([]*models.User, error) {
	table, err := membershipTable(role)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT `+userSelectColumns+`
		FROM %s m
		JOIN users u ON u.id = m.user_id AND u.role = $2
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE m.subject_id = $1
		ORDER BY p.last_name NULLS LAST, p.first_name NULLS LAST, u.username
	`, table)

	rows, err := r.db.Query(ctx, query, subjectID, role)
	if err != nil {
		return nil, fmt.Errorf("error listing subject members: %w", err)
	}
	defer rows.Close()

	var members []*models.User
	for rows.Next() {
		user, err := scanUserWithProfile(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}
