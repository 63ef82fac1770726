package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/internal/modules/enrollment/dto"
	"anoa.com/eduelevate/internal/modules/enrollment/repository"
	notification "anoa.com/eduelevate/internal/modules/notification/service"
	"anoa.com/eduelevate/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) error
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
	RecordLectureComplete(ctx context.Context, userID uuid.UUID, req dto.CourseProgressRequest) (repository.CompletionOutcome, error)
	CompletedVideos(ctx context.Context, courseID, userID uuid.UUID) ([]uuid.UUID, error)
}

type UserReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type enrollmentService struct {
	repo     repository.EnrollmentRepository
	users    UserReader
	notifier notification.NotificationService
	logger   *zap.Logger
}

func NewEnrollmentService(
	repo repository.EnrollmentRepository,
	users UserReader,
	notifier notification.NotificationService,
	logger *zap.Logger,
) EnrollmentService {
	return &enrollmentService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) error {
	ids := uniqueIDs(courseIDs)
	if len(ids) == 0 {
		return fmt.Errorf("please provide course ids: %w", apperror.ErrInvalidInput)
	}

	courses, err := s.repo.Enroll(ctx, ids, userID)
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("enrolled user lookup failed, skipping emails",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil
	}

	for _, course := range courses {
		s.notifier.SendEnrollment(ctx, user, course.Name)
	}

	s.logger.Info("user enrolled",
		zap.String("user_id", userID.String()),
		zap.Int("courses", len(courses)),
	)
	return nil
}

func (s *enrollmentService) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	return s.repo.IsEnrolled(ctx, courseID, userID)
}

func (s *enrollmentService) RecordLectureComplete(ctx context.Context, userID uuid.UUID, req dto.CourseProgressRequest) (repository.CompletionOutcome, error) {
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return "", fmt.Errorf("invalid course id: %w", apperror.ErrInvalidInput)
	}
	subSectionID, err := uuid.Parse(req.SubSectionID)
	if err != nil {
		return "", fmt.Errorf("invalid subsection id: %w", apperror.ErrInvalidInput)
	}

	owner, err := s.repo.FindSubSectionCourse(ctx, subSectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("invalid subsection: %w", apperror.ErrNotFound)
		}
		return "", err
	}
	if owner != courseID {
		return "", fmt.Errorf("subsection does not belong to course: %w", apperror.ErrNotFound)
	}

	return s.repo.RecordCompletion(ctx, courseID, subSectionID, userID)
}

func (s *enrollmentService) CompletedVideos(ctx context.Context, courseID, userID uuid.UUID) ([]uuid.UUID, error) {
	progress, err := s.repo.FindProgress(ctx, courseID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []uuid.UUID{}, nil
		}
		return nil, err
	}
	return progress.CompletedVideos(), nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
