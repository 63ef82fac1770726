package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/internal/modules/rating/dto"
	"anoa.com/eduelevate/internal/modules/rating/repository"
	"anoa.com/eduelevate/pkg/apperror"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const averageCacheTTL = 10 * time.Minute

type RatingService interface {
	SubmitRating(ctx context.Context, userID uuid.UUID, req dto.CreateRatingRequest) (*entity.RatingAndReview, error)
	AverageRating(ctx context.Context, courseID uuid.UUID) (float64, error)
	GetAllRatings(ctx context.Context) ([]dto.ReviewResponse, error)
	InvalidateAverage(ctx context.Context, courseIDs ...uuid.UUID)
}

type CourseFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Course, error)
}

type EnrollmentChecker interface {
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
}

type ratingService struct {
	repo        repository.RatingRepository
	courses     CourseFinder
	enrollments EnrollmentChecker
	redisClient *redis.Client
	sanitizer   *bluemonday.Policy
	logger      *zap.Logger
}

func NewRatingService(
	repo repository.RatingRepository,
	courses CourseFinder,
	enrollments EnrollmentChecker,
	redisClient *redis.Client,
	logger *zap.Logger,
) RatingService {
	return &ratingService{
		repo:        repo,
		courses:     courses,
		enrollments: enrollments,
		redisClient: redisClient,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger,
	}
}

func (s *ratingService) SubmitRating(ctx context.Context, userID uuid.UUID, req dto.CreateRatingRequest) (*entity.RatingAndReview, error) {
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("invalid course id: %w", apperror.ErrInvalidInput)
	}
	if req.Rating < entity.MinRating || req.Rating > entity.MaxRating {
		return nil, fmt.Errorf("rating must be between %d and %d: %w", entity.MinRating, entity.MaxRating, apperror.ErrInvalidInput)
	}

	review := strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(req.Review)))
	if review == "" {
		return nil, fmt.Errorf("review is required: %w", apperror.ErrInvalidInput)
	}

	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	enrolled, err := s.enrollments.IsEnrolled(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, fmt.Errorf("student is not enrolled in this course: %w", apperror.ErrForbidden)
	}

	exists, err := s.repo.Exists(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("course is already reviewed by the user: %w", apperror.ErrConflict)
	}

	rating := &entity.RatingAndReview{
		CourseID: courseID,
		UserID:   userID,
		Rating:   req.Rating,
		Review:   review,
	}
	if err := s.repo.Create(ctx, rating); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("course is already reviewed by the user: %w", apperror.ErrConflict)
		}
		return nil, err
	}

	s.InvalidateAverage(ctx, courseID)
	return rating, nil
}

// AverageRating is served from redis when possible and falls back to the database.
func (s *ratingService) AverageRating(ctx context.Context, courseID uuid.UUID) (float64, error) {
	key := averageKey(courseID)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, key).Result()
		if err == nil {
			if avg, err := strconv.ParseFloat(cached, 64); err == nil {
				return avg, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("failed to read cached average rating", zap.String("course_id", courseID.String()), zap.Error(err))
		}
	}

	avg, err := s.repo.Average(ctx, courseID)
	if err != nil {
		return 0, err
	}

	if s.redisClient != nil {
		value := strconv.FormatFloat(avg, 'f', -1, 64)
		if err := s.redisClient.Set(ctx, key, value, averageCacheTTL).Err(); err != nil {
			s.logger.Warn("failed to cache average rating", zap.String("course_id", courseID.String()), zap.Error(err))
		}
	}
	return avg, nil
}

func (s *ratingService) GetAllRatings(ctx context.Context) ([]dto.ReviewResponse, error) {
	reviews, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		item := dto.ReviewResponse{
			ID:        r.ID,
			Rating:    r.Rating,
			Review:    r.Review,
			CourseID:  r.CourseID,
			CreatedAt: r.CreatedAt,
		}
		if r.Course != nil {
			item.CourseName = r.Course.Name
		}
		if r.User != nil {
			item.User = dto.ReviewAuthor{
				FirstName: r.User.FirstName,
				LastName:  r.User.LastName,
				Email:     r.User.Email,
				Image:     r.User.Image,
			}
		}
		res = append(res, item)
	}
	return res, nil
}

// InvalidateAverage drops the cached averages of courses whose reviews changed.
func (s *ratingService) InvalidateAverage(ctx context.Context, courseIDs ...uuid.UUID) {
	if s.redisClient == nil || len(courseIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(courseIDs))
	for _, id := range courseIDs {
		keys = append(keys, averageKey(id))
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("failed to invalidate average rating", zap.Strings("keys", keys), zap.Error(err))
	}
}

func averageKey(courseID uuid.UUID) string {
	return fmt.Sprintf("rating:avg:%s", courseID.String())
}
