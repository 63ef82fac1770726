package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/internal/modules/course/dto"
	"anoa.com/eduelevate/internal/modules/course/repository"
	"anoa.com/eduelevate/pkg/apperror"
	commonDto "anoa.com/eduelevate/pkg/dto"
	"anoa.com/eduelevate/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService interface {
	CreateCourse(ctx context.Context, instructorID uuid.UUID, req dto.CreateCourseRequest, thumbnail *commonDto.UploadFile) (*entity.Course, error)
	EditCourse(ctx context.Context, instructorID uuid.UUID, req dto.EditCourseRequest, thumbnail *commonDto.UploadFile) (*entity.Course, error)
	GetAllCourses(ctx context.Context) ([]dto.CourseSummary, error)
	GetCourseDetails(ctx context.Context, courseID uuid.UUID) (*dto.CourseDetailsResponse, error)
	GetFullCourseDetails(ctx context.Context, courseID, userID uuid.UUID) (*dto.FullCourseDetailsResponse, error)
	GetInstructorCourses(ctx context.Context, instructorID uuid.UUID) ([]entity.Course, error)
	DeleteCourse(ctx context.Context, instructorID, courseID uuid.UUID) error
}

type CategoryReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
}

type CourseIndexer interface {
	IndexCourse(ctx context.Context, course *entity.Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

type RatingCache interface {
	InvalidateAverage(ctx context.Context, courseIDs ...uuid.UUID)
}

type EnrollmentReader interface {
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
	CompletedVideos(ctx context.Context, courseID, userID uuid.UUID) ([]uuid.UUID, error)
}

type StudentCounter interface {
	CountStudents(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type courseService struct {
	courses     repository.CourseRepository
	categories  CategoryReader
	enrollments EnrollmentReader
	students    StudentCounter
	media       storage.MediaStorage
	indexer     CourseIndexer
	ratings     RatingCache
	folder      string
	logger      *zap.Logger
}

func NewCourseService(
	courses repository.CourseRepository,
	categories CategoryReader,
	enrollments EnrollmentReader,
	students StudentCounter,
	media storage.MediaStorage,
	indexer CourseIndexer,
	ratings RatingCache,
	folder string,
	logger *zap.Logger,
) CourseService {
	return &courseService{
		courses:     courses,
		categories:  categories,
		enrollments: enrollments,
		students:    students,
		media:       media,
		indexer:     indexer,
		ratings:     ratings,
		folder:      folder,
		logger:      logger,
	}
}

func (s *courseService) CreateCourse(ctx context.Context, instructorID uuid.UUID, req dto.CreateCourseRequest, thumbnail *commonDto.UploadFile) (*entity.Course, error) {
	if thumbnail == nil || thumbnail.Reader == nil {
		return nil, fmt.Errorf("thumbnail image is required: %w", apperror.ErrInvalidInput)
	}

	tags, err := parseList("tag", req.Tag)
	if err != nil {
		return nil, err
	}
	instructions, err := parseList("instructions", req.Instructions)
	if err != nil {
		return nil, err
	}

	categoryID, err := s.findCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = entity.CourseDraft
	}

	url, err := s.media.UploadImage(ctx, thumbnail.Reader, s.folder, thumbnail.FileName)
	if err != nil {
		return nil, fmt.Errorf("upload thumbnail: %w", apperror.ErrExternalService)
	}

	course := &entity.Course{
		Name:             strings.TrimSpace(req.CourseName),
		Description:      req.CourseDescription,
		WhatYouWillLearn: req.WhatYouWillLearn,
		InstructorID:     instructorID,
		CategoryID:       categoryID,
		Price:            *req.Price,
		Thumbnail:        url,
		Tags:             tags,
		Instructions:     instructions,
		Status:           status,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created",
		zap.String("course_id", course.ID.String()),
		zap.String("instructor_id", instructorID.String()),
	)

	return s.reindex(ctx, course.ID)
}

func (s *courseService) EditCourse(ctx context.Context, instructorID uuid.UUID, req dto.EditCourseRequest, thumbnail *commonDto.UploadFile) (*entity.Course, error) {
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("invalid course id: %w", apperror.ErrInvalidInput)
	}

	course, err := s.ownedCourse(ctx, instructorID, courseID)
	if err != nil {
		return nil, err
	}

	if req.CourseName != nil {
		course.Name = strings.TrimSpace(*req.CourseName)
	}
	if req.CourseDescription != nil {
		course.Description = *req.CourseDescription
	}
	if req.WhatYouWillLearn != nil {
		course.WhatYouWillLearn = *req.WhatYouWillLearn
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Status != nil {
		course.Status = *req.Status
	}
	if req.Tag != nil {
		if course.Tags, err = parseList("tag", *req.Tag); err != nil {
			return nil, err
		}
	}
	if req.Instructions != nil {
		if course.Instructions, err = parseList("instructions", *req.Instructions); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		if course.CategoryID, err = s.findCategory(ctx, *req.Category); err != nil {
			return nil, err
		}
	}

	oldThumbnail := ""
	if thumbnail != nil && thumbnail.Reader != nil {
		url, err := s.media.UploadImage(ctx, thumbnail.Reader, s.folder, thumbnail.FileName)
		if err != nil {
			return nil, fmt.Errorf("upload thumbnail: %w", apperror.ErrExternalService)
		}
		oldThumbnail = course.Thumbnail
		course.Thumbnail = url
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	if oldThumbnail != "" {
		s.deleteAsset(ctx, oldThumbnail)
	}

	return s.reindex(ctx, course.ID)
}

func (s *courseService) GetAllCourses(ctx context.Context) ([]dto.CourseSummary, error) {
	courses, err := s.courses.FindPublished(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	counts, err := s.students.CountStudents(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.CourseSummary, 0, len(courses))
	for _, c := range courses {
		summaries = append(summaries, dto.CourseSummary{
			ID:               c.ID,
			CourseName:       c.Name,
			Price:            c.Price,
			Thumbnail:        c.Thumbnail,
			Tags:             c.Tags,
			CategoryID:       c.CategoryID,
			Instructor:       c.Instructor,
			StudentsEnrolled: counts[c.ID],
		})
	}
	return summaries, nil
}

// GetCourseDetails is the public view, so lecture video URLs are withheld.
func (s *courseService) GetCourseDetails(ctx context.Context, courseID uuid.UUID) (*dto.CourseDetailsResponse, error) {
	course, err := s.findWithContent(ctx, courseID)
	if err != nil {
		return nil, err
	}

	for i := range course.Sections {
		for j := range course.Sections[i].SubSections {
			course.Sections[i].SubSections[j].VideoURL = ""
		}
	}

	return &dto.CourseDetailsResponse{
		CourseDetails: course,
		TotalDuration: FormatDuration(TotalDurationSeconds(course)),
	}, nil
}

func (s *courseService) GetFullCourseDetails(ctx context.Context, courseID, userID uuid.UUID) (*dto.FullCourseDetailsResponse, error) {
	course, err := s.findWithContent(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if course.InstructorID != userID {
		enrolled, err := s.enrollments.IsEnrolled(ctx, courseID, userID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, fmt.Errorf("you are not enrolled in this course: %w", apperror.ErrForbidden)
		}
	}

	completed, err := s.enrollments.CompletedVideos(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}

	return &dto.FullCourseDetailsResponse{
		CourseDetailsResponse: dto.CourseDetailsResponse{
			CourseDetails: course,
			TotalDuration: FormatDuration(TotalDurationSeconds(course)),
		},
		CompletedVideos: completed,
	}, nil
}

func (s *courseService) GetInstructorCourses(ctx context.Context, instructorID uuid.UUID) ([]entity.Course, error) {
	return s.courses.FindByInstructor(ctx, instructorID)
}

func (s *courseService) DeleteCourse(ctx context.Context, instructorID, courseID uuid.UUID) error {
	if _, err := s.ownedCourse(ctx, instructorID, courseID); err != nil {
		return err
	}

	course, err := s.courses.FindWithContent(ctx, courseID)
	if err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("course not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	if s.ratings != nil {
		s.ratings.InvalidateAverage(ctx, courseID)
	}
	if s.indexer != nil {
		if err := s.indexer.DeleteCourse(ctx, courseID); err != nil {
			s.logger.Warn("failed to remove course from search index", zap.String("course_id", courseID.String()), zap.Error(err))
		}
	}

	s.deleteAsset(ctx, course.Thumbnail)
	for _, section := range course.Sections {
		for _, sub := range section.SubSections {
			s.deleteAsset(ctx, sub.VideoURL)
		}
	}

	s.logger.Info("course deleted", zap.String("course_id", courseID.String()))
	return nil
}

func (s *courseService) ownedCourse(ctx context.Context, instructorID, courseID uuid.UUID) (*entity.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, fmt.Errorf("you are not the instructor of this course: %w", apperror.ErrForbidden)
	}
	return course, nil
}

func (s *courseService) findWithContent(ctx context.Context, courseID uuid.UUID) (*entity.Course, error) {
	course, err := s.courses.FindWithContent(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("could not find course %s: %w", courseID, apperror.ErrNotFound)
		}
		return nil, err
	}
	return course, nil
}

func (s *courseService) findCategory(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid category id: %w", apperror.ErrInvalidInput)
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fmt.Errorf("category not found: %w", apperror.ErrNotFound)
		}
		return uuid.Nil, err
	}
	return id, nil
}

// reindex reloads the course and pushes it to search; indexing failures are only logged.
func (s *courseService) reindex(ctx context.Context, courseID uuid.UUID) (*entity.Course, error) {
	course, err := s.courses.FindWithContent(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if s.indexer != nil {
		if err := s.indexer.IndexCourse(ctx, course); err != nil {
			s.logger.Warn("failed to index course", zap.String("course_id", courseID.String()), zap.Error(err))
		}
	}
	return course, nil
}

func (s *courseService) deleteAsset(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.media.Delete(ctx, url); err != nil {
		s.logger.Warn("failed to delete asset", zap.String("url", url), zap.Error(err))
	}
}

// parseList accepts a JSON array of strings or a comma separated list.
func parseList(field, raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)

	var items []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("%s must be a JSON array of strings: %w", field, apperror.ErrInvalidInput)
		}
	} else {
		items = strings.Split(raw, ",")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s is required: %w", field, apperror.ErrInvalidInput)
	}
	return out, nil
}
