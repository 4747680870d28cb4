package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/app/models/dto"
	"github.com/presentapp/present/internal/pkg/apperrors"
	"github.com/presentapp/present/internal/pkg/auth"
)

// userStore is the persistence surface for users and profiles
type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	List(ctx context.Context, role *models.Role, offset uint64, limit int) ([]*models.User, int64, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id int64) error
}

// tokenIssuer abstracts JWT generation for the login flow
type tokenIssuer interface {
	GenerateTokenPair(user *models.User) (accessToken, refreshToken string, expiresIn int, err error)
}

// UserService manages accounts, profiles and authentication
type UserService struct {
	store    userStore
	tokens   tokenIssuer
	activity ActivityRecorder
}

// NewUserService creates a new user service instance
func NewUserService(store userStore, tokens tokenIssuer, activity ActivityRecorder) *UserService {
	return &UserService{
		store:    store,
		tokens:   tokens,
		activity: activity,
	}
}

// CreateUser registers a new account, hashing the password and writing the
// optional profile atomically with the user row.
func (s *UserService) CreateUser(ctx context.Context, actorID *int64, req *dto.CreateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperrors.NewValidationError("username must not be blank")
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role: %s", req.Role))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Role:         role,
	}

	if req.FirstName != "" || req.LastName != "" {
		user.Profile = &models.Profile{
			FirstName:  strings.TrimSpace(req.FirstName),
			LastName:   strings.TrimSpace(req.LastName),
			MiddleName: req.MiddleName,
			Department: req.Department,
			EmployeeID: req.EmployeeID,
			Phone:      req.Phone,
			Address:    req.Address,
		}
	}

	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actorID, models.ActionCreate,
		fmt.Sprintf("Created new %s: %s (%s)", role, user.DisplayName(), user.Username))

	return user, nil
}

// GetUser retrieves a user with its profile
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetByID(ctx, id)
}

// ListUsers retrieves users filtered by role with pagination
func (s *UserService) ListUsers(ctx context.Context, role *models.Role, offset uint64, limit int) ([]*models.User, int64, error) {
	if role != nil && !role.Valid() {
		return nil, 0, apperrors.NewValidationError(fmt.Sprintf("unknown role: %s", *role))
	}
	return s.store.List(ctx, role, offset, limit)
}

// UpsertProfile creates or replaces a user's profile
func (s *UserService) UpsertProfile(ctx context.Context, actorID *int64, userID int64, req *dto.UpsertProfileRequest) (*models.User, error) {
	profile := &models.Profile{
		UserID:         userID,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		MiddleName:     req.MiddleName,
		Department:     req.Department,
		EmployeeID:     req.EmployeeID,
		Phone:          req.Phone,
		Address:        req.Address,
		ProfilePicture: req.ProfilePicture,
	}

	if profile.FirstName == "" && profile.LastName == "" {
		return nil, apperrors.NewValidationError("first or last name must not be blank")
	}

	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, apperrors.NewValidationError("dateOfBirth must be in YYYY-MM-DD format")
		}
		profile.DateOfBirth = &dob
	}

	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actorID, models.ActionUpdate,
		fmt.Sprintf("Updated profile of %s", user.DisplayName()))

	return user, nil
}

// DeleteUser removes an account. The display name is captured before the
// row (and its profile) disappears so the audit entry stays readable.
func (s *UserService) DeleteUser(ctx context.Context, actorID *int64, userID int64) error {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}

	s.activity.Record(ctx, actorID, models.ActionDelete,
		fmt.Sprintf("Deleted %s: %s (%s)", user.Role, user.DisplayName(), user.Username))

	return nil
}

// Login authenticates by username or email and issues a token pair.
// A wrong login and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.store.GetByLogin(ctx, strings.TrimSpace(req.Login))
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, expiresIn, err := s.tokens.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.activity.Record(ctx, &user.ID, models.ActionLogin,
		fmt.Sprintf("%s logged in", user.DisplayName()))

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		UserID:       user.ID,
		Role:         string(user.Role),
	}, nil
}
