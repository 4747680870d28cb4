package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/presentapp/present/internal/pkg/apperrors"
)

func handleError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	HandleAPIError(c, err)
	return rec
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation failure", apperrors.NewValidationError("name is required"), http.StatusBadRequest},
		{"duplicate membership", apperrors.ErrAlreadyAssigned, http.StatusBadRequest},
		{"duplicate user", apperrors.ErrUserExists, http.StatusBadRequest},
		{"attempt cap", apperrors.NewAttemptLimitError("maximum of 2 attempts reached"), http.StatusBadRequest},
		{"unknown folder", apperrors.ErrFolderNotFound, http.StatusNotFound},
		{"unknown user", apperrors.ErrUserNotFound, http.StatusNotFound},
		{"not enrolled", apperrors.ErrNotEnrolled, http.StatusForbidden},
		{"bad credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := handleError(t, tc.err)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestHandleAPIErrorDuplicateKeyMessages(t *testing.T) {
	rec := handleError(t, apperrors.ErrUserExists)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username or email already exists")

	rec = handleError(t, apperrors.ErrAlreadyAssigned)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already assigned")
}

func TestHandleAPIErrorOpaqueInternal(t *testing.T) {
	rec := handleError(t, errors.New("pq: relation does not exist"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}
