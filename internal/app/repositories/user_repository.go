package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/db"
	"github.com/presentapp/present/internal/pkg/apperrors"
	"github.com/presentapp/present/internal/pkg/dberrors"
)

// UserRepository handles database operations for users and profiles
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a user and, when profile fields are present, its profile
// in a single transaction. Unique violations on username or email map to
// apperrors.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO users (username, email, password_hash, role)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`

		err := tx.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash, user.Role).
			Scan(&user.ID, &user.CreatedAt)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrUserExists
			}
			return fmt.Errorf("error creating user: %w", err)
		}

		if user.Profile == nil {
			return nil
		}

		user.Profile.UserID = user.ID
		return upsertProfileTx(ctx, tx, user.Profile)
	})
}

// upsertProfileTx writes a profile row atomically; the ON CONFLICT clause
// makes concurrent upserts for the same user safe.
func upsertProfileTx(ctx context.Context, tx pgx.Tx, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, first_name, middle_name, last_name, department, employee_id, phone, address, date_of_birth, profile_picture)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			middle_name = EXCLUDED.middle_name,
			last_name = EXCLUDED.last_name,
			department = EXCLUDED.department,
			employee_id = EXCLUDED.employee_id,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			date_of_birth = EXCLUDED.date_of_birth,
			profile_picture = EXCLUDED.profile_picture
	`

	_, err := tx.Exec(ctx, query,
		profile.UserID, profile.FirstName, profile.MiddleName, profile.LastName,
		profile.Department, profile.EmployeeID, profile.Phone, profile.Address,
		profile.DateOfBirth, profile.ProfilePicture)
	if err != nil {
		return fmt.Errorf("error upserting profile: %w", err)
	}
	return nil
}

// UpsertProfile creates or replaces a user's profile
func (r *UserRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, profile.UserID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("error checking user existence: %w", err)
		}
		if !exists {
			return apperrors.ErrUserNotFound
		}
		return upsertProfileTx(ctx, tx, profile)
	})
}

const userSelectColumns = `
	u.id, u.username, u.email, u.password_hash, u.role, u.created_at,
	p.user_id, p.first_name, p.middle_name, p.last_name, p.department,
	p.employee_id, p.phone, p.address, p.date_of_birth, p.profile_picture
`

// scanUserWithProfile scans a users row left-joined with profiles.
// Profile columns are scanned through pointers since the join may yield NULLs.
func scanUserWithProfile(row pgx.Row) (*models.User, error) {
	var user models.User
	var profile models.Profile
	var profileUserID *int64
	var firstName, lastName *string

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt,
		&profileUserID, &firstName, &profile.MiddleName, &lastName,
		&profile.Department, &profile.EmployeeID, &profile.Phone, &profile.Address,
		&profile.DateOfBirth, &profile.ProfilePicture,
	)
	if err != nil {
		return nil, err
	}

	if profileUserID != nil {
		profile.UserID = *profileUserID
		if firstName != nil {
			profile.FirstName = *firstName
		}
		if lastName != nil {
			profile.LastName = *lastName
		}
		user.Profile = &profile
	}
	return &user, nil
}

// GetByID retrieves a user with its profile by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT ` + userSelectColumns + `
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1
	`

	user, err := scanUserWithProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return user, nil
}

// GetByLogin retrieves a user by username or email
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `
		SELECT ` + userSelectColumns + `
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.username = $1 OR u.email = $1
	`

	user, err := scanUserWithProfile(r.db.QueryRow(ctx, query, login))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by login: %w", err)
	}

	return user, nil
}

// HasRole checks whether a user exists and holds the given role
func (r *UserRepository) HasRole(ctx context.Context, userID int64, role models.Role) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND role = $2)`,
		userID, role).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking user role: %w", err)
	}
	return exists, nil
}

// List retrieves users filtered by role with pagination
func (r *UserRepository) List(ctx context.Context, role *models.Role, offset uint64, limit int) ([]*models.User, int64, error) {
	countSelect := r.sb.Select("COUNT(*)").From("users u")
	baseSelect := r.sb.Select(
		"u.id", "u.username", "u.email", "u.password_hash", "u.role", "u.created_at",
		"p.user_id", "p.first_name", "p.middle_name", "p.last_name", "p.department",
		"p.employee_id", "p.phone", "p.address", "p.date_of_birth", "p.profile_picture",
	).
		From("users u").
		LeftJoin("profiles p ON p.user_id = u.id")

	if role != nil {
		countSelect = countSelect.Where(squirrel.Eq{"u.role": *role})
		baseSelect = baseSelect.Where(squirrel.Eq{"u.role": *role})
	}

	countSql, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count users query: %w", err)
	}

	var totalItems int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	baseSelect = baseSelect.OrderBy("u.username ASC").Limit(uint64(limit)).Offset(offset)

	querySql, queryArgs, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUserWithProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, totalItems, nil
}

// Delete removes a user by ID. The profile row cascades at the store level.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
