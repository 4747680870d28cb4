package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/pkg/apperrors"
)

func newCatalogFixture() (*CatalogService, *fakeCatalog, *fakeMembership, *fakeUsers, *fakeActivity) {
	catalog := newFakeCatalog()
	users := newFakeUsers()
	membership := newFakeMembership(users)
	activity := &fakeActivity{}
	svc := NewCatalogService(catalog, membership, users, activity)
	return svc, catalog, membership, users, activity
}

func TestCatalogServiceCreateSchoolYear(t *testing.T) {
	ctx := context.Background()

	t.Run("blank year rejected", func(t *testing.T) {
		svc, _, _, _, activity := newCatalogFixture()

		_, err := svc.CreateSchoolYear(ctx, nil, "   ")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Empty(t, activity.entries)
	})

	t.Run("created and recorded", func(t *testing.T) {
		svc, _, _, _, activity := newCatalogFixture()

		year, err := svc.CreateSchoolYear(ctx, nil, "2024-2025")
		require.NoError(t, err)
		assert.NotZero(t, year.ID)
		assert.Equal(t, "2024-2025", year.Year)
		assert.Equal(t, "Created new school year: 2024-2025", activity.last().Description)
		assert.Equal(t, models.ActionCreate, activity.last().Action)
	})
}

func TestCatalogServiceHierarchyParents(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := newCatalogFixture()

	_, err := svc.CreateSemester(ctx, nil, 999, "First Semester")
	assert.ErrorIs(t, err, apperrors.ErrSchoolYearNotFound)

	_, err = svc.CreateGradeLevel(ctx, nil, 999, "Grade 1")
	assert.ErrorIs(t, err, apperrors.ErrSemesterNotFound)

	_, err = svc.CreateSection(ctx, nil, 999, "A")
	assert.ErrorIs(t, err, apperrors.ErrGradeLevelNotFound)

	_, err = svc.AddSubject(ctx, nil, 999, "Mathematics", "MATH-101")
	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)

	year, err := svc.CreateSchoolYear(ctx, nil, "2024-2025")
	require.NoError(t, err)

	semester, err := svc.CreateSemester(ctx, nil, year.ID, "First Semester")
	require.NoError(t, err)
	assert.Equal(t, year.ID, semester.SchoolYearID)

	grade, err := svc.CreateGradeLevel(ctx, nil, semester.ID, "Grade 1")
	require.NoError(t, err)

	section, err := svc.CreateSection(ctx, nil, grade.ID, "A")
	require.NoError(t, err)

	subject, err := svc.AddSubject(ctx, nil, section.ID, "Mathematics", "MATH-101")
	require.NoError(t, err)
	assert.Equal(t, section.ID, subject.SectionID)
	assert.Equal(t, "MATH-101", subject.Code)
}

func TestCatalogServiceRenameEntity(t *testing.T) {
	ctx := context.Background()
	svc, catalog, _, _, activity := newCatalogFixture()

	year, err := svc.CreateSchoolYear(ctx, nil, "2024-2025")
	require.NoError(t, err)

	t.Run("unknown id", func(t *testing.T) {
		err := svc.RenameEntity(ctx, nil, models.LevelYear, 999, "2025-2026")
		assert.ErrorIs(t, err, apperrors.ErrSchoolYearNotFound)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		err := svc.RenameEntity(ctx, nil, models.LevelYear, year.ID, " ")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("invalid level rejected", func(t *testing.T) {
		err := svc.RenameEntity(ctx, nil, models.CatalogLevel("course"), year.ID, "x")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("rename reads back and logs old name", func(t *testing.T) {
		err := svc.RenameEntity(ctx, nil, models.LevelYear, year.ID, "2025-2026")
		require.NoError(t, err)

		name, err := catalog.GetEntityName(ctx, models.LevelYear, year.ID)
		require.NoError(t, err)
		assert.Equal(t, "2025-2026", name)
		assert.Equal(t, "Renamed school year '2024-2025' to '2025-2026'", activity.last().Description)
	})
}

func TestCatalogServiceDeleteEntity(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, activity := newCatalogFixture()

	year, err := svc.CreateSchoolYear(ctx, nil, "2024-2025")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntity(ctx, nil, models.LevelYear, year.ID))
	assert.Equal(t, "Deleted school year: 2024-2025", activity.last().Description)
	assert.Equal(t, models.ActionDelete, activity.last().Action)

	// second delete hits nothing
	err = svc.DeleteEntity(ctx, nil, models.LevelYear, year.ID)
	assert.ErrorIs(t, err, apperrors.ErrSchoolYearNotFound)
}

func TestCatalogServiceAssignInstructor(t *testing.T) {
	ctx := context.Background()
	svc, catalog, _, users, activity := newCatalogFixture()

	subject := catalog.addSubject("Mathematics")
	teacher := users.add("jane", models.RoleTeacher, "Jane", "Doe")
	student := users.add("bob", models.RoleStudent, "Bob", "Stone")

	t.Run("unknown subject", func(t *testing.T) {
		err := svc.AssignInstructor(ctx, nil, 999, teacher.ID)
		assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)
	})

	t.Run("role mismatch treated as unknown user", func(t *testing.T) {
		err := svc.AssignInstructor(ctx, nil, subject.ID, student.ID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("assignment recorded with display names", func(t *testing.T) {
		require.NoError(t, svc.AssignInstructor(ctx, nil, subject.ID, teacher.ID))
		assert.Equal(t, "Assigned instructor Jane Doe to subject Mathematics", activity.last().Description)

		listed, err := svc.ListInstructorsForSubject(ctx, subject.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, teacher.ID, listed[0].ID)
	})

	t.Run("double assignment conflicts", func(t *testing.T) {
		err := svc.AssignInstructor(ctx, nil, subject.ID, teacher.ID)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyAssigned)
	})
}

func TestCatalogServiceStudentMembership(t *testing.T) {
	ctx := context.Background()
	svc, catalog, membership, users, activity := newCatalogFixture()

	subject := catalog.addSubject("Mathematics")
	student := users.add("bob", models.RoleStudent, "Bob", "Stone")

	require.NoError(t, svc.AssignStudent(ctx, nil, subject.ID, student.ID))
	assert.Equal(t, "Assigned student Bob Stone to subject Mathematics", activity.last().Description)

	enrolled, err := membership.IsMember(ctx, models.RoleStudent, subject.ID, student.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	require.NoError(t, svc.RemoveStudent(ctx, nil, subject.ID, student.ID))
	assert.Equal(t, "Removed student Bob Stone from subject Mathematics", activity.last().Description)

	// removing an absent member is a no-op
	require.NoError(t, svc.RemoveStudent(ctx, nil, subject.ID, student.ID))
}
