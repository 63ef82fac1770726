package service

import (
	"context"
	"strings"
	"testing"

	"anoa.com/eduelevate/internal/entity"
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

type sectionFixture struct {
	db         *gorm.DB
	svc        SectionService
	storage    *fakeStorage
	instructor *entity.User
	course     *entity.Course
}

func newSectionFixture(t *testing.T) *sectionFixture {
	t.Helper()

	db := testutil.NewDB(t)
	instructor := testutil.CreateUser(t, db, entity.AccountInstructor)
	category := testutil.CreateCategory(t, db, "Design")
	storage := &fakeStorage{}

	return &sectionFixture{
		db:         db,
		storage:    storage,
		instructor: instructor,
		course:     testutil.CreateCourse(t, db, instructor.ID, category.ID, 100),
		svc: NewSectionService(
			repository.NewCourseRepository(db),
			repository.NewSectionRepository(db),
			repository.NewSubSectionRepository(db),
			storage,
			"eduelevate",
			zap.NewNop(),
		),
	}
}

func video() *commonDto.UploadFile {
	return &commonDto.UploadFile{Reader: strings.NewReader("vid"), FileName: "lecture.mp4"}
}

func TestSectionsAreAppended(t *testing.T) {
	f := newSectionFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateSection(ctx, f.instructor.ID, dto.CreateSectionRequest{SectionName: "Intro", CourseID: f.course.ID.String()})
	require.NoError(t, err)
	course, err := f.svc.CreateSection(ctx, f.instructor.ID, dto.CreateSectionRequest{SectionName: "Advanced", CourseID: f.course.ID.String()})
	require.NoError(t, err)

	require.Len(t, course.Sections, 2)
	assert.Equal(t, "Intro", course.Sections[0].Name)
	assert.Equal(t, "Advanced", course.Sections[1].Name)
	assert.Equal(t, 1, course.Sections[1].Position)

	course, err = f.svc.UpdateSection(ctx, f.instructor.ID, dto.UpdateSectionRequest{
		SectionName: "Basics", SectionID: course.Sections[0].ID.String(), CourseID: f.course.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Basics", course.Sections[0].Name)

	other := testutil.CreateUser(t, f.db, entity.AccountInstructor)
	_, err = f.svc.CreateSection(ctx, other.ID, dto.CreateSectionRequest{SectionName: "x", CourseID: f.course.ID.String()})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.CreateSection(ctx, f.instructor.ID, dto.CreateSectionRequest{SectionName: "x", CourseID: uuid.NewString()})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSubSectionDuration(t *testing.T) {
	f := newSectionFixture(t)
	ctx := context.Background()

	course, err := f.svc.CreateSection(ctx, f.instructor.ID, dto.CreateSectionRequest{SectionName: "Intro", CourseID: f.course.ID.String()})
	require.NoError(t, err)
	sectionID := course.Sections[0].ID.String()

	f.storage.videoDuration = 125
	section, err := f.svc.CreateSubSection(ctx, f.instructor.ID, dto.CreateSubSectionRequest{
		SectionID: sectionID, Title: "Welcome", Description: "hello", TimeDuration: "10",
	}, video())
	require.NoError(t, err)
	require.Len(t, section.SubSections, 1)
	assert.Equal(t, "125", section.SubSections[0].TimeDuration)

	f.storage.videoDuration = 0
	section, err = f.svc.CreateSubSection(ctx, f.instructor.ID, dto.CreateSubSectionRequest{
		SectionID: sectionID, Title: "Setup", Description: "install", TimeDuration: "42",
	}, video())
	require.NoError(t, err)
	require.Len(t, section.SubSections, 2)

	section, err = f.svc.CreateSubSection(ctx, f.instructor.ID, dto.CreateSubSectionRequest{
		SectionID: sectionID, Title: "Extra", Description: "more",
	}, video())
	require.NoError(t, err)
	require.Len(t, section.SubSections, 3)

	durations := map[string]string{}
	for _, sub := range section.SubSections {
		durations[sub.Title] = sub.TimeDuration
	}
	assert.Equal(t, map[string]string{"Welcome": "125", "Setup": "42", "Extra": "0"}, durations)

	uploads := len(f.storage.uploads)
	_, err = f.svc.CreateSubSection(ctx, f.instructor.ID, dto.CreateSubSectionRequest{
		SectionID: sectionID, Title: "Bad", Description: "bad", TimeDuration: "ten",
	}, video())
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Len(t, f.storage.uploads, uploads)

	_, err = f.svc.CreateSubSection(ctx, f.instructor.ID, dto.CreateSubSectionRequest{
		SectionID: sectionID, Title: "No video", Description: "none",
	}, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestUpdateAndDeleteSubSection(t *testing.T) {
	f := newSectionFixture(t)
	ctx := context.Background()

	course, err := f.svc.CreateSection(ctx, f.instructor.ID, dto.CreateSectionRequest{SectionName: "Intro", CourseID: f.course.ID.String()})
	require.NoError(t, err)
	sectionID := course.Sections[0].ID.String()

	section, err := f.svc.CreateSubSection(ctx, f.instructor.ID, dto.CreateSubSectionRequest{
		SectionID: sectionID, Title: "Welcome", Description: "hello", TimeDuration: "10",
	}, video())
	require.NoError(t, err)
	sub := section.SubSections[0]

	title, duration := "Hello", "30"
	section, err = f.svc.UpdateSubSection(ctx, f.instructor.ID, dto.UpdateSubSectionRequest{
		SubSectionID: sub.ID.String(), SectionID: sectionID, Title: &title, TimeDuration: &duration,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello", section.SubSections[0].Title)
	assert.Equal(t, "30", section.SubSections[0].TimeDuration)

	f.storage.videoDuration = 125
	section, err = f.svc.UpdateSubSection(ctx, f.instructor.ID, dto.UpdateSubSectionRequest{
		SubSectionID: sub.ID.String(), SectionID: sectionID,
	}, video())
	require.NoError(t, err)
	assert.Equal(t, "125", section.SubSections[0].TimeDuration)

	f.storage.videoDuration = 0
	section, err = f.svc.UpdateSubSection(ctx, f.instructor.ID, dto.UpdateSubSectionRequest{
		SubSectionID: sub.ID.String(), SectionID: sectionID,
	}, video())
	require.NoError(t, err)
	assert.Equal(t, "125", section.SubSections[0].TimeDuration)
	sub = section.SubSections[0]

	_, err = f.svc.UpdateSubSection(ctx, f.instructor.ID, dto.UpdateSubSectionRequest{
		SubSectionID: sub.ID.String(), SectionID: uuid.NewString(), Title: &title,
	}, nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	section, err = f.svc.DeleteSubSection(ctx, f.instructor.ID, dto.DeleteSubSectionRequest{
		SubSectionID: sub.ID.String(), SectionID: sectionID,
	})
	require.NoError(t, err)
	assert.Empty(t, section.SubSections)
	assert.Contains(t, f.storage.deleted, sub.VideoURL)
}

func TestDeleteSectionRemovesLectures(t *testing.T) {
	f := newSectionFixture(t)
	ctx := context.Background()

	course, err := f.svc.CreateSection(ctx, f.instructor.ID, dto.CreateSectionRequest{SectionName: "Intro", CourseID: f.course.ID.String()})
	require.NoError(t, err)
	sectionID := course.Sections[0].ID.String()

	_, err = f.svc.CreateSubSection(ctx, f.instructor.ID, dto.CreateSubSectionRequest{
		SectionID: sectionID, Title: "Welcome", Description: "hello",
	}, video())
	require.NoError(t, err)

	_, err = f.svc.DeleteSection(ctx, f.instructor.ID, dto.DeleteSectionRequest{SectionID: sectionID, CourseID: uuid.NewString()})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	course, err = f.svc.DeleteSection(ctx, f.instructor.ID, dto.DeleteSectionRequest{SectionID: sectionID, CourseID: f.course.ID.String()})
	require.NoError(t, err)
	assert.Empty(t, course.Sections)

	var count int64
	require.NoError(t, f.db.Model(&entity.SubSection{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Len(t, f.storage.deleted, 1)
}
