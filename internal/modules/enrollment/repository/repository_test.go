package repository

import (
	"context"
	"testing"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/internal/testutil"
	"anoa.com/eduelevate/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnrollCreatesEnrollmentAndProgress(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	instructor := testutil.CreateUser(t, db, entity.AccountInstructor)
	student := testutil.CreateUser(t, db, entity.AccountStudent)
	category := testutil.CreateCategory(t, db, "Programming")
	c1 := testutil.CreateCourse(t, db, instructor.ID, category.ID, 100, 1)
	c2 := testutil.CreateCourse(t, db, instructor.ID, category.ID, 200, 2)

	courses, err := repo.Enroll(ctx, []uuid.UUID{c1.ID, c2.ID}, student.ID)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, c1.Name, courses[0].Name)

	enrolled, err := repo.IsEnrolled(ctx, c2.ID, student.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	progress, err := repo.FindProgress(ctx, c1.ID, student.ID)
	require.NoError(t, err)
	assert.Empty(t, progress.CompletedLectures)

	counts, err := repo.CountStudents(ctx, []uuid.UUID{c1.ID, c2.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[c1.ID])
	assert.EqualValues(t, 1, counts[c2.ID])

	ids, err := repo.EnrolledCourseIDs(ctx, student.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{c1.ID, c2.ID}, ids)
}

func TestEnrollRollsBackWholeBatch(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	instructor := testutil.CreateUser(t, db, entity.AccountInstructor)
	student := testutil.CreateUser(t, db, entity.AccountStudent)
	category := testutil.CreateCategory(t, db, "Design")
	course := testutil.CreateCourse(t, db, instructor.ID, category.ID, 100, 1)

	_, err := repo.Enroll(ctx, []uuid.UUID{course.ID, uuid.New()}, student.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	enrolled, err := repo.IsEnrolled(ctx, course.ID, student.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	_, err = repo.FindProgress(ctx, course.ID, student.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEnrollTwiceConflicts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	instructor := testutil.CreateUser(t, db, entity.AccountInstructor)
	student := testutil.CreateUser(t, db, entity.AccountStudent)
	category := testutil.CreateCategory(t, db, "Music")
	course := testutil.CreateCourse(t, db, instructor.ID, category.ID, 100, 1)

	_, err := repo.Enroll(ctx, []uuid.UUID{course.ID}, student.ID)
	require.NoError(t, err)

	_, err = repo.Enroll(ctx, []uuid.UUID{course.ID}, student.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestEnrollUnknownUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEnrollmentRepository(db)

	instructor := testutil.CreateUser(t, db, entity.AccountInstructor)
	category := testutil.CreateCategory(t, db, "Cooking")
	course := testutil.CreateCourse(t, db, instructor.ID, category.ID, 100, 1)

	_, err := repo.Enroll(context.Background(), []uuid.UUID{course.ID}, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	counts, err := repo.CountStudents(context.Background(), []uuid.UUID{course.ID})
	require.NoError(t, err)
	assert.Zero(t, counts[course.ID])
}

func TestRecordCompletionOutcomes(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	instructor := testutil.CreateUser(t, db, entity.AccountInstructor)
	student := testutil.CreateUser(t, db, entity.AccountStudent)
	category := testutil.CreateCategory(t, db, "Math")
	course := testutil.CreateCourse(t, db, instructor.ID, category.ID, 0, 2)
	first := course.Sections[0].SubSections[0].ID
	second := course.Sections[0].SubSections[1].ID

	outcome, err := repo.RecordCompletion(ctx, course.ID, first, student.ID)
	require.NoError(t, err)
	assert.Equal(t, CompletionCreated, outcome)

	outcome, err = repo.RecordCompletion(ctx, course.ID, first, student.ID)
	require.NoError(t, err)
	assert.Equal(t, AlreadyComplete, outcome)

	outcome, err = repo.RecordCompletion(ctx, course.ID, second, student.ID)
	require.NoError(t, err)
	assert.Equal(t, CompletionUpdated, outcome)

	progress, err := repo.FindProgress(ctx, course.ID, student.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, progress.CompletedVideos())
}

func TestFindSubSectionCourse(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEnrollmentRepository(db)

	instructor := testutil.CreateUser(t, db, entity.AccountInstructor)
	category := testutil.CreateCategory(t, db, "Art")
	course := testutil.CreateCourse(t, db, instructor.ID, category.ID, 0, 1)

	courseID, err := repo.FindSubSectionCourse(context.Background(), course.Sections[0].SubSections[0].ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, courseID)

	_, err = repo.FindSubSectionCourse(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
