package service

import (
	"context"
	"strings"
	"testing"

	"anoa.com/eduelevate/internal/entity"
	categoryRepo "anoa.com/eduelevate/internal/modules/category/repository"
	"anoa.com/eduelevate/internal/modules/course/dto"
	"anoa.com/eduelevate/internal/modules/course/repository"
	"anoa.com/eduelevate/internal/testutil"
	"anoa.com/eduelevate/pkg/apperror"
	commonDto "anoa.com/eduelevate/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type courseFixture struct {
	db          *gorm.DB
	svc         CourseService
	storage     *fakeStorage
	indexer     *fakeIndexer
	ratings     *fakeRatings
	enrollments *fakeEnrollments
	instructor  *entity.User
	category    *entity.Category
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &courseFixture{
		db:          db,
		storage:     &fakeStorage{},
		indexer:     &fakeIndexer{},
		ratings:     &fakeRatings{},
		enrollments: &fakeEnrollments{enrolled: map[uuid.UUID]bool{}, counts: map[uuid.UUID]int64{}},
		instructor:  testutil.CreateUser(t, db, entity.AccountInstructor),
		category:    testutil.CreateCategory(t, db, "Programming"),
	}
	f.svc = NewCourseService(
		repository.NewCourseRepository(db),
		categoryRepo.NewCategoryRepository(db),
		f.enrollments,
		f.enrollments,
		f.storage,
		f.indexer,
		f.ratings,
		"eduelevate",
		zap.NewNop(),
	)
	return f
}

func thumbnail() *commonDto.UploadFile {
	return &commonDto.UploadFile{Reader: strings.NewReader("img"), FileName: "thumb.png"}
}

func price(v float64) *float64 { return &v }

func TestCreateCourse(t *testing.T) {
	f := newCourseFixture(t)

	course, err := f.svc.CreateCourse(context.Background(), f.instructor.ID, dto.CreateCourseRequest{
		CourseName:        "Go Basics",
		CourseDescription: "Learn Go",
		WhatYouWillLearn:  "Everything",
		Price:             price(499),
		Tag:               `["go", "backend"]`,
		Category:          f.category.ID.String(),
		Instructions:      `["Install Go"]`,
	}, thumbnail())
	require.NoError(t, err)

	assert.Equal(t, entity.CourseDraft, course.Status)
	assert.Equal(t, []string{"go", "backend"}, []string(course.Tags))
	assert.Equal(t, []string{"Install Go"}, []string(course.Instructions))
	assert.Equal(t, "https://cdn.example.com/eduelevate/thumb.png", course.Thumbnail)
	require.NotNil(t, course.Category)
	assert.Equal(t, "Programming", course.Category.Name)
	assert.Equal(t, []uuid.UUID{course.ID}, f.indexer.indexed)
}

func TestCreateCourseValidation(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()

	base := dto.CreateCourseRequest{
		CourseName:        "Go Basics",
		CourseDescription: "Learn Go",
		WhatYouWillLearn:  "Everything",
		Price:             price(0),
		Tag:               "go",
		Category:          f.category.ID.String(),
		Instructions:      "Install Go",
	}

	_, err := f.svc.CreateCourse(ctx, f.instructor.ID, base, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	bad := base
	bad.Tag = `["go"`
	_, err = f.svc.CreateCourse(ctx, f.instructor.ID, bad, thumbnail())
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	missing := base
	missing.Category = uuid.NewString()
	_, err = f.svc.CreateCourse(ctx, f.instructor.ID, missing, thumbnail())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.Empty(t, f.storage.uploads)
}

func TestEditCourseOwnership(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	course := testutil.CreateCourse(t, f.db, f.instructor.ID, f.category.ID, 100, 1)
	require.NoError(t, f.db.Model(course).Update("thumbnail", "https://cdn.example.com/old.png").Error)

	other := testutil.CreateUser(t, f.db, entity.AccountInstructor)
	name := "Renamed"
	_, err := f.svc.EditCourse(ctx, other.ID, dto.EditCourseRequest{CourseID: course.ID.String(), CourseName: &name}, nil)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.EditCourse(ctx, f.instructor.ID, dto.EditCourseRequest{CourseID: uuid.NewString(), CourseName: &name}, nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	draft := entity.CourseDraft
	updated, err := f.svc.EditCourse(ctx, f.instructor.ID, dto.EditCourseRequest{
		CourseID:   course.ID.String(),
		CourseName: &name,
		Status:     &draft,
	}, thumbnail())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, entity.CourseDraft, updated.Status)
	assert.Len(t, updated.Sections, 1)
	assert.Equal(t, []string{"https://cdn.example.com/old.png"}, f.storage.deleted)
}

func TestCourseDetailsHideVideosFromPublic(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	course := testutil.CreateCourse(t, f.db, f.instructor.ID, f.category.ID, 100, 2, 1)
	require.NoError(t, f.db.Model(&entity.SubSection{}).Where("1 = 1").Update("video_url", "https://cdn.example.com/v.mp4").Error)

	details, err := f.svc.GetCourseDetails(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "3m 0s", details.TotalDuration)
	for _, section := range details.CourseDetails.Sections {
		for _, sub := range section.SubSections {
			assert.Empty(t, sub.VideoURL)
		}
	}

	_, err = f.svc.GetCourseDetails(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFullCourseDetailsRequiresEnrollment(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	course := testutil.CreateCourse(t, f.db, f.instructor.ID, f.category.ID, 100, 2)
	student := testutil.CreateUser(t, f.db, entity.AccountStudent)

	_, err := f.svc.GetFullCourseDetails(ctx, course.ID, student.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	f.enrollments.enrolled[course.ID] = true
	f.enrollments.completed = []uuid.UUID{course.Sections[0].SubSections[0].ID}

	details, err := f.svc.GetFullCourseDetails(ctx, course.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, f.enrollments.completed, details.CompletedVideos)
	assert.NotEmpty(t, details.CourseDetails.Sections[0].SubSections[0].ID)

	owner, err := f.svc.GetFullCourseDetails(ctx, course.ID, f.instructor.ID)
	require.NoError(t, err)
	assert.Equal(t, "2m 0s", owner.TotalDuration)
}

func TestGetAllCoursesOnlyPublished(t *testing.T) {
	f := newCourseFixture(t)
	published := testutil.CreateCourse(t, f.db, f.instructor.ID, f.category.ID, 100, 1)
	draft := testutil.CreateCourse(t, f.db, f.instructor.ID, f.category.ID, 100, 1)
	require.NoError(t, f.db.Model(draft).Update("status", entity.CourseDraft).Error)
	f.enrollments.counts[published.ID] = 7

	courses, err := f.svc.GetAllCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, published.ID, courses[0].ID)
	assert.EqualValues(t, 7, courses[0].StudentsEnrolled)
	require.NotNil(t, courses[0].Instructor)
	assert.Equal(t, f.instructor.ID, courses[0].Instructor.ID)
}

func TestDeleteCourseCascades(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	course := testutil.CreateCourse(t, f.db, f.instructor.ID, f.category.ID, 100, 2)
	student := testutil.CreateUser(t, f.db, entity.AccountStudent)

	progress := &entity.CourseProgress{CourseID: course.ID, UserID: student.ID}
	require.NoError(t, f.db.Create(&entity.Enrollment{CourseID: course.ID, UserID: student.ID}).Error)
	require.NoError(t, f.db.Create(progress).Error)
	require.NoError(t, f.db.Create(&entity.CompletedLecture{ProgressID: progress.ID, SubSectionID: course.Sections[0].SubSections[0].ID}).Error)
	require.NoError(t, f.db.Create(&entity.RatingAndReview{CourseID: course.ID, UserID: student.ID, Rating: 5, Review: "great"}).Error)

	other := testutil.CreateUser(t, f.db, entity.AccountInstructor)
	assert.ErrorIs(t, f.svc.DeleteCourse(ctx, other.ID, course.ID), apperror.ErrForbidden)

	require.NoError(t, f.svc.DeleteCourse(ctx, f.instructor.ID, course.ID))

	for _, model := range []any{&entity.Course{}, &entity.Section{}, &entity.SubSection{}, &entity.Enrollment{},
		&entity.CourseProgress{}, &entity.CompletedLecture{}, &entity.RatingAndReview{}} {
		var count int64
		require.NoError(t, f.db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T should be empty", model)
	}
	assert.Equal(t, []uuid.UUID{course.ID}, f.indexer.removed)
	assert.Equal(t, []uuid.UUID{course.ID}, f.ratings.invalidated)

	assert.ErrorIs(t, f.svc.DeleteCourse(ctx, f.instructor.ID, course.ID), apperror.ErrNotFound)
}

func TestParseList(t *testing.T) {
	got, err := parseList("tag", `["a", " b ", ""]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	got, err = parseList("tag", "a, b,,c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	_, err = parseList("tag", "[]")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
