package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/app/models/dto"
	"github.com/presentapp/present/internal/pkg/apperrors"
	"github.com/presentapp/present/internal/pkg/auth"
)

func newUserFixture() (*UserService, *fakeUsers, *fakeActivity) {
	users := newFakeUsers()
	activity := &fakeActivity{}
	svc := NewUserService(users, &fakeTokens{}, activity)
	return svc, users, activity
}

func validCreateRequest() *dto.CreateUserRequest {
	return &dto.CreateUserRequest{
		Username:  "jane",
		Email:     "jane@present.edu",
		Password:  "s3cret-pass",
		Role:      "teacher",
		FirstName: "Jane",
		LastName:  "Doe",
	}
}

func TestUserServiceCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown role rejected", func(t *testing.T) {
		svc, _, _ := newUserFixture()
		req := validCreateRequest()
		req.Role = "principal"

		_, err := svc.CreateUser(ctx, nil, req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("blank username rejected", func(t *testing.T) {
		svc, _, _ := newUserFixture()
		req := validCreateRequest()
		req.Username = "  "

		_, err := svc.CreateUser(ctx, nil, req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		svc, _, _ := newUserFixture()

		user, err := svc.CreateUser(ctx, nil, validCreateRequest())
		require.NoError(t, err)
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
		assert.True(t, auth.CheckPassword(user.PasswordHash, "s3cret-pass"))
	})

	t.Run("activity names role and display name", func(t *testing.T) {
		svc, _, activity := newUserFixture()

		_, err := svc.CreateUser(ctx, nil, validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, "Created new teacher: Jane Doe (jane)", activity.last().Description)
		assert.Equal(t, models.ActionCreate, activity.last().Action)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		svc, _, _ := newUserFixture()

		_, err := svc.CreateUser(ctx, nil, validCreateRequest())
		require.NoError(t, err)

		_, err = svc.CreateUser(ctx, nil, validCreateRequest())
		assert.ErrorIs(t, err, apperrors.ErrUserExists)
	})

	t.Run("no profile without names", func(t *testing.T) {
		svc, _, activity := newUserFixture()
		req := validCreateRequest()
		req.FirstName = ""
		req.LastName = ""

		user, err := svc.CreateUser(ctx, nil, req)
		require.NoError(t, err)
		assert.Nil(t, user.Profile)
		// display name falls back to the username
		assert.Equal(t, "Created new teacher: jane (jane)", activity.last().Description)
	})
}

func TestUserServiceLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, activity := newUserFixture()

	user, err := svc.CreateUser(ctx, nil, validCreateRequest())
	require.NoError(t, err)

	t.Run("unknown login", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{Login: "nobody", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("wrong password looks identical", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{Login: "jane", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("login by username", func(t *testing.T) {
		resp, err := svc.Login(ctx, &dto.LoginRequest{Login: "jane", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, user.ID, resp.UserID)
		assert.Equal(t, "teacher", resp.Role)

		assert.Equal(t, "Jane Doe logged in", activity.last().Description)
		assert.Equal(t, models.ActionLogin, activity.last().Action)
		require.NotNil(t, activity.last().ActorID)
		assert.Equal(t, user.ID, *activity.last().ActorID)
	})

	t.Run("login by email", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{Login: "jane@present.edu", Password: "s3cret-pass"})
		assert.NoError(t, err)
	})
}

func TestUserServiceUpsertProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, activity := newUserFixture()

	user, err := svc.CreateUser(ctx, nil, validCreateRequest())
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpsertProfile(ctx, nil, 999, &dto.UpsertProfileRequest{FirstName: "A", LastName: "B"})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("bad date of birth", func(t *testing.T) {
		dob := "12/04/1990"
		_, err := svc.UpsertProfile(ctx, nil, user.ID, &dto.UpsertProfileRequest{
			FirstName: "Jane", LastName: "Doe", DateOfBirth: &dob,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("names required", func(t *testing.T) {
		_, err := svc.UpsertProfile(ctx, nil, user.ID, &dto.UpsertProfileRequest{})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("profile replaced", func(t *testing.T) {
		dob := "1990-04-12"
		updated, err := svc.UpsertProfile(ctx, nil, user.ID, &dto.UpsertProfileRequest{
			FirstName: "Janet", LastName: "Doe", DateOfBirth: &dob,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Profile)
		assert.Equal(t, "Janet", updated.Profile.FirstName)
		require.NotNil(t, updated.Profile.DateOfBirth)
		assert.Equal(t, "Updated profile of Janet Doe", activity.last().Description)
	})
}

func TestUserServiceDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, users, activity := newUserFixture()

	user, err := svc.CreateUser(ctx, nil, validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, nil, user.ID))
	// the display name survives in the audit entry even though the
	// profile row is gone
	assert.Equal(t, "Deleted teacher: Jane Doe (jane)", activity.last().Description)
	assert.Empty(t, users.users)

	err = svc.DeleteUser(ctx, nil, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserServiceListUsers(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newUserFixture()

	users.add("jane", models.RoleTeacher, "Jane", "Doe")
	users.add("bob", models.RoleStudent, "Bob", "Stone")
	users.add("amy", models.RoleStudent, "Amy", "Hill")

	studentRole := models.RoleStudent
	listed, total, err := svc.ListUsers(ctx, &studentRole, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, listed, 2)

	badRole := models.Role("principal")
	_, _, err = svc.ListUsers(ctx, &badRole, 0, 10)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
