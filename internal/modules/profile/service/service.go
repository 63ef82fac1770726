package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/eduelevate/internal/entity"
	courseService "anoa.com/eduelevate/internal/modules/course/service"
	enrollment "anoa.com/eduelevate/internal/modules/enrollment/service"
	"anoa.com/eduelevate/internal/modules/profile/dto"
	"anoa.com/eduelevate/internal/modules/profile/repository"
	"anoa.com/eduelevate/pkg/apperror"
	commonDto "anoa.com/eduelevate/pkg/dto"
	"anoa.com/eduelevate/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProfileService interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*entity.User, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
	GetUserDetails(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateDisplayPicture(ctx context.Context, userID uuid.UUID, picture *commonDto.UploadFile) (*entity.User, error)
	GetEnrolledCourses(ctx context.Context, userID uuid.UUID) ([]dto.EnrolledCourse, error)
	InstructorDashboard(ctx context.Context, instructorID uuid.UUID) ([]dto.InstructorCourseStats, error)
}

type ProgressReader interface {
	CompletedVideos(ctx context.Context, courseID, userID uuid.UUID) ([]uuid.UUID, error)
}

type StudentCounter interface {
	CountStudents(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type RatingCache interface {
	InvalidateAverage(ctx context.Context, courseIDs ...uuid.UUID)
}

type profileService struct {
	repo     repository.ProfileRepository
	progress ProgressReader
	students StudentCounter
	ratings  RatingCache
	media    storage.MediaStorage
	folder   string
	logger   *zap.Logger
}

func NewProfileService(
	repo repository.ProfileRepository,
	progress ProgressReader,
	students StudentCounter,
	ratings RatingCache,
	media storage.MediaStorage,
	folder string,
	logger *zap.Logger,
) ProfileService {
	return &profileService{
		repo:     repo,
		progress: progress,
		students: students,
		ratings:  ratings,
		media:    media,
		folder:   folder,
		logger:   logger,
	}
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*entity.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			return nil, fmt.Errorf("first name cannot be empty: %w", apperror.ErrInvalidInput)
		}
		user.FirstName = name
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}

	if user.Profile == nil {
		user.Profile = &entity.Profile{UserID: user.ID}
	}
	if req.DateOfBirth != nil {
		user.Profile.DateOfBirth = normalizeOptional(req.DateOfBirth)
	}
	if req.About != nil {
		user.Profile.About = normalizeOptional(req.About)
	}
	if req.ContactNumber != nil {
		user.Profile.ContactNumber = normalizeOptional(req.ContactNumber)
	}
	if req.Gender != nil {
		user.Profile.Gender = normalizeOptional(req.Gender)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.repo.FindUser(ctx, userID)
}

func (s *profileService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	owned, err := s.repo.CountOwnedCourses(ctx, userID)
	if err != nil {
		return err
	}
	if owned > 0 {
		return fmt.Errorf("delete your %d course(s) before deleting the account: %w", owned, apperror.ErrConflict)
	}

	reviewed, err := s.repo.DeleteAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return err
	}
	if s.ratings != nil {
		s.ratings.InvalidateAverage(ctx, reviewed...)
	}

	s.logger.Info("account deleted", zap.String("user_id", userID.String()), zap.String("account_type", user.AccountType))
	return nil
}

func (s *profileService) GetUserDetails(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.findUser(ctx, userID)
}

func (s *profileService) UpdateDisplayPicture(ctx context.Context, userID uuid.UUID, picture *commonDto.UploadFile) (*entity.User, error) {
	if picture == nil || picture.Reader == nil {
		return nil, fmt.Errorf("display picture is required: %w", apperror.ErrInvalidInput)
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.media.UploadImage(ctx, picture.Reader, s.folder, picture.FileName)
	if err != nil {
		return nil, fmt.Errorf("upload display picture: %w", apperror.ErrExternalService)
	}

	if err := s.repo.UpdateImage(ctx, user.ID, url); err != nil {
		return nil, err
	}
	user.Image = url
	return user, nil
}

func (s *profileService) GetEnrolledCourses(ctx context.Context, userID uuid.UUID) ([]dto.EnrolledCourse, error) {
	courses, err := s.repo.EnrolledCourses(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]dto.EnrolledCourse, 0, len(courses))
	for i := range courses {
		course := &courses[i]

		completed, err := s.progress.CompletedVideos(ctx, course.ID, userID)
		if err != nil {
			return nil, err
		}

		res = append(res, dto.EnrolledCourse{
			Course:             *course,
			TotalDuration:      courseService.FormatDuration(courseService.TotalDurationSeconds(course)),
			ProgressPercentage: enrollment.ComputeProgressPercentage(course, completed),
		})
	}
	return res, nil
}

func (s *profileService) InstructorDashboard(ctx context.Context, instructorID uuid.UUID) ([]dto.InstructorCourseStats, error) {
	courses, err := s.repo.InstructorCourses(ctx, instructorID)
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

	stats := make([]dto.InstructorCourseStats, 0, len(courses))
	for _, c := range courses {
		students := counts[c.ID]
		stats = append(stats, dto.InstructorCourseStats{
			ID:                    c.ID,
			CourseName:            c.Name,
			CourseDescription:     c.Description,
			TotalStudentsEnrolled: students,
			TotalAmountGenerated:  float64(students) * c.Price,
		})
	}
	return stats, nil
}

func (s *profileService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	result := trimmed
	return &result
}
