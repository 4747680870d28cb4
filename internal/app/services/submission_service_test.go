package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/app/models/dto"
	"github.com/presentapp/present/internal/pkg/apperrors"
)

type submissionFixture struct {
	svc        *SubmissionService
	catalog    *fakeCatalog
	store      *fakeSubmissions
	membership *fakeMembership
	users      *fakeUsers
	activity   *fakeActivity

	subject *models.Subject
	folder  *models.SubjectFolder
	student *models.User
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()

	catalog := newFakeCatalog()
	store := newFakeSubmissions()
	users := newFakeUsers()
	membership := newFakeMembership(users)
	activity := &fakeActivity{}
	svc := NewSubmissionService(store, catalog, membership, users, activity)

	subject := catalog.addSubject("Mathematics")
	folder := &models.SubjectFolder{Name: "Quizzes", SubjectID: subject.ID}
	require.NoError(t, store.CreateFolder(context.Background(), folder))

	student := users.add("bob", models.RoleStudent, "Bob", "Stone")
	require.NoError(t, membership.Assign(context.Background(), models.RoleStudent, subject.ID, student.ID))

	return &submissionFixture{
		svc:        svc,
		catalog:    catalog,
		store:      store,
		membership: membership,
		users:      users,
		activity:   activity,
		subject:    subject,
		folder:     folder,
		student:    student,
	}
}

func (fx *submissionFixture) createTask(t *testing.T, maxAttempts int, visible bool) *models.SubjectSubmission {
	t.Helper()
	task, err := fx.svc.CreateTask(context.Background(), nil, &dto.CreateTaskRequest{
		FolderID:    fx.folder.ID,
		Name:        "Quiz 1",
		DueDate:     "2025-05-30",
		MaxAttempts: maxAttempts,
		IsVisible:   visible,
	})
	require.NoError(t, err)
	return task
}

func attemptFiles() *dto.SubmitAttemptRequest {
	return &dto.SubmitAttemptRequest{
		Files: []dto.SubmittedFile{
			{FileName: "answers.pdf", FileType: "application/pdf", FileURL: "/uploads/submissions/a.pdf"},
		},
	}
}

func TestSubmissionServiceCreateTask(t *testing.T) {
	ctx := context.Background()
	fx := newSubmissionFixture(t)

	t.Run("bad due date", func(t *testing.T) {
		_, err := fx.svc.CreateTask(ctx, nil, &dto.CreateTaskRequest{
			FolderID: fx.folder.ID, Name: "Quiz", DueDate: "30-05-2025", MaxAttempts: 1,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("bad due time", func(t *testing.T) {
		badTime := "25:99"
		_, err := fx.svc.CreateTask(ctx, nil, &dto.CreateTaskRequest{
			FolderID: fx.folder.ID, Name: "Quiz", DueDate: "2025-05-30", DueTime: &badTime, MaxAttempts: 1,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("unknown folder", func(t *testing.T) {
		_, err := fx.svc.CreateTask(ctx, nil, &dto.CreateTaskRequest{
			FolderID: 999, Name: "Quiz", DueDate: "2025-05-30", MaxAttempts: 1,
		})
		assert.ErrorIs(t, err, apperrors.ErrFolderNotFound)
	})

	t.Run("created and recorded", func(t *testing.T) {
		task := fx.createTask(t, 2, true)
		assert.NotZero(t, task.ID)
		assert.Equal(t, 2, task.MaxAttempts)
		assert.Equal(t, "Created new submission: Quiz 1", fx.activity.last().Description)
	})
}

func TestSubmissionServiceSubmitAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("requires enrollment", func(t *testing.T) {
		fx := newSubmissionFixture(t)
		task := fx.createTask(t, 2, true)
		outsider := fx.users.add("eve", models.RoleStudent, "Eve", "Gray")

		_, err := fx.svc.SubmitAttempt(ctx, outsider.ID, task.ID, attemptFiles())
		assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
	})

	t.Run("hidden task behaves as missing", func(t *testing.T) {
		fx := newSubmissionFixture(t)
		task := fx.createTask(t, 2, false)

		_, err := fx.svc.SubmitAttempt(ctx, fx.student.ID, task.ID, attemptFiles())
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})

	t.Run("requires at least one file", func(t *testing.T) {
		fx := newSubmissionFixture(t)
		task := fx.createTask(t, 2, true)

		_, err := fx.svc.SubmitAttempt(ctx, fx.student.ID, task.ID, &dto.SubmitAttemptRequest{})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("attempt numbers are ordered and capped", func(t *testing.T) {
		fx := newSubmissionFixture(t)
		task := fx.createTask(t, 2, true)

		first, err := fx.svc.SubmitAttempt(ctx, fx.student.ID, task.ID, attemptFiles())
		require.NoError(t, err)
		assert.Equal(t, 1, first.AttemptNumber)
		assert.Equal(t, "Bob Stone submitted attempt 1 for Quiz 1", fx.activity.last().Description)

		second, err := fx.svc.SubmitAttempt(ctx, fx.student.ID, task.ID, attemptFiles())
		require.NoError(t, err)
		assert.Equal(t, 2, second.AttemptNumber)

		_, err = fx.svc.SubmitAttempt(ctx, fx.student.ID, task.ID, attemptFiles())
		assert.ErrorIs(t, err, apperrors.ErrAttemptLimitReached)

		attempts, err := fx.svc.ListOwnAttempts(ctx, task.ID, fx.student.ID)
		require.NoError(t, err)
		require.Len(t, attempts, 2)
		assert.Equal(t, 1, attempts[0].AttemptNumber)
		assert.Equal(t, 2, attempts[1].AttemptNumber)
	})

	t.Run("files attach to the attempt", func(t *testing.T) {
		fx := newSubmissionFixture(t)
		task := fx.createTask(t, 1, true)

		attempt, err := fx.svc.SubmitAttempt(ctx, fx.student.ID, task.ID, attemptFiles())
		require.NoError(t, err)
		require.Len(t, attempt.Files, 1)
		assert.Equal(t, "answers.pdf", attempt.Files[0].FileName)
		assert.Equal(t, attempt.ID, attempt.Files[0].ParentSubmissionID)
	})
}

func TestSubmissionServiceGradeAttempt(t *testing.T) {
	ctx := context.Background()
	fx := newSubmissionFixture(t)
	task := fx.createTask(t, 1, true)

	attempt, err := fx.svc.SubmitAttempt(ctx, fx.student.ID, task.ID, attemptFiles())
	require.NoError(t, err)

	t.Run("grade out of range", func(t *testing.T) {
		_, err := fx.svc.GradeAttempt(ctx, nil, attempt.ID, &dto.GradeAttemptRequest{Grade: gradeOf(120)})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("missing grade", func(t *testing.T) {
		_, err := fx.svc.GradeAttempt(ctx, nil, attempt.ID, &dto.GradeAttemptRequest{Feedback: "?"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("unknown attempt", func(t *testing.T) {
		_, err := fx.svc.GradeAttempt(ctx, nil, 999, &dto.GradeAttemptRequest{Grade: gradeOf(85)})
		assert.ErrorIs(t, err, apperrors.ErrAttemptNotFound)
	})

	t.Run("graded and recorded", func(t *testing.T) {
		graded, err := fx.svc.GradeAttempt(ctx, nil, attempt.ID, &dto.GradeAttemptRequest{Grade: gradeOf(85), Feedback: "Well done"})
		require.NoError(t, err)
		require.NotNil(t, graded.Grade)
		assert.Equal(t, 85.0, *graded.Grade)
		assert.True(t, graded.IsGraded())
		assert.NotNil(t, graded.GradedAt)
		assert.Equal(t, "Graded attempt 1 of Quiz 1 for Bob Stone", fx.activity.last().Description)
	})

	t.Run("zero grade is a valid grade", func(t *testing.T) {
		graded, err := fx.svc.GradeAttempt(ctx, nil, attempt.ID, &dto.GradeAttemptRequest{Grade: gradeOf(0), Feedback: "No answers"})
		require.NoError(t, err)
		require.NotNil(t, graded.Grade)
		assert.Equal(t, 0.0, *graded.Grade)
		assert.True(t, graded.IsGraded())
	})
}

func TestDeriveStatus(t *testing.T) {
	dueDate := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)
	dueTime := "17:00:00"
	task := &models.SubjectSubmission{DueDate: dueDate, DueTime: &dueTime, MaxAttempts: 3}

	grade := 85.0
	graded := &models.StudentSubmission{AttemptNumber: 1, Grade: &grade}
	ungraded := &models.StudentSubmission{AttemptNumber: 2}

	tests := []struct {
		name     string
		attempts []*models.StudentSubmission
		now      time.Time
		want     models.SubmissionStatus
	}{
		{
			name: "no attempts before deadline",
			now:  time.Date(2025, 5, 30, 16, 0, 0, 0, time.UTC),
			want: models.StatusNotSubmitted,
		},
		{
			name: "no attempts after deadline",
			now:  time.Date(2025, 5, 30, 17, 0, 1, 0, time.UTC),
			want: models.StatusOverdue,
		},
		{
			name:     "ungraded attempt past deadline stays submitted",
			attempts: []*models.StudentSubmission{ungraded},
			now:      time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			want:     models.StatusSubmitted,
		},
		{
			name:     "graded latest attempt",
			attempts: []*models.StudentSubmission{graded},
			now:      time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			want:     models.StatusGraded,
		},
		{
			name:     "latest attempt wins over earlier graded one",
			attempts: []*models.StudentSubmission{graded, ungraded},
			now:      time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			want:     models.StatusSubmitted,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(task, tc.attempts, tc.now))
		})
	}
}

func TestDeriveStatusDefaultsToEndOfDay(t *testing.T) {
	// nil due time means the whole due date still counts
	task := &models.SubjectSubmission{
		DueDate:     time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC),
		MaxAttempts: 1,
	}

	lateAfternoon := time.Date(2025, 5, 30, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, models.StatusNotSubmitted, DeriveStatus(task, nil, lateAfternoon))

	nextDay := time.Date(2025, 5, 31, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, models.StatusOverdue, DeriveStatus(task, nil, nextDay))
}

func TestSubmissionServiceTaskStatusForStudent(t *testing.T) {
	ctx := context.Background()
	fx := newSubmissionFixture(t)
	task := fx.createTask(t, 1, true)

	status, err := fx.svc.TaskStatusForStudent(ctx, task.ID, fx.student.ID)
	require.NoError(t, err)
	assert.True(t, status.CanSubmit)
	assert.Zero(t, status.AttemptCount)
	assert.Nil(t, status.LatestAttempt)

	attempt, err := fx.svc.SubmitAttempt(ctx, fx.student.ID, task.ID, attemptFiles())
	require.NoError(t, err)

	status, err = fx.svc.TaskStatusForStudent(ctx, task.ID, fx.student.ID)
	require.NoError(t, err)
	assert.False(t, status.CanSubmit)
	assert.Equal(t, 1, status.AttemptCount)
	assert.Equal(t, models.StatusSubmitted, status.Status)
	require.NotNil(t, status.LatestAttempt)
	assert.Equal(t, attempt.ID, status.LatestAttempt.ID)
}

func TestSubmissionServiceTaskVisibility(t *testing.T) {
	ctx := context.Background()
	fx := newSubmissionFixture(t)

	visible := fx.createTask(t, 1, true)
	fx.createTask(t, 1, false)

	studentTasks, err := fx.svc.ListTasks(ctx, fx.folder.ID, true)
	require.NoError(t, err)
	require.Len(t, studentTasks, 1)
	assert.Equal(t, visible.ID, studentTasks[0].ID)

	allTasks, err := fx.svc.ListTasks(ctx, fx.folder.ID, false)
	require.NoError(t, err)
	assert.Len(t, allTasks, 2)
}

func TestSubmissionServiceFolders(t *testing.T) {
	ctx := context.Background()
	fx := newSubmissionFixture(t)

	t.Run("unknown subject", func(t *testing.T) {
		_, err := fx.svc.CreateFolder(ctx, nil, 999, "Homework")
		assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := fx.svc.CreateFolder(ctx, nil, fx.subject.ID, "  ")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("delete logs folder name", func(t *testing.T) {
		folder, err := fx.svc.CreateFolder(ctx, nil, fx.subject.ID, "Homework")
		require.NoError(t, err)

		require.NoError(t, fx.svc.DeleteFolder(ctx, nil, folder.ID))
		assert.Equal(t, "Deleted folder: Homework", fx.activity.last().Description)

		err = fx.svc.DeleteFolder(ctx, nil, folder.ID)
		assert.ErrorIs(t, err, apperrors.ErrFolderNotFound)
	})
}
