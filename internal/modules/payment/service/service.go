package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"anoa.com/eduelevate/internal/entity"
	notification "anoa.com/eduelevate/internal/modules/notification/service"
	"anoa.com/eduelevate/internal/modules/payment/dto"
	"anoa.com/eduelevate/internal/modules/payment/repository"
	"anoa.com/eduelevate/pkg/apperror"
	"anoa.com/eduelevate/pkg/razorpay"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const currencyINR = "INR"

// ErrPaymentFailed is a declared failure: the request was incomplete and nothing was verified.
var ErrPaymentFailed = errors.New("payment failed")

type PaymentService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req dto.CapturePaymentRequest) (*dto.OrderResponse, error)
	VerifyAndCapture(ctx context.Context, userID uuid.UUID, req dto.VerifyPaymentRequest) error
	SendPaymentSuccessEmail(ctx context.Context, userID uuid.UUID, req dto.PaymentSuccessEmailRequest) error
}

type Gateway interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type CourseFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Course, error)
}

type Enrollments interface {
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
	Enroll(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) error
}

type UserReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type paymentService struct {
	repo        repository.PaymentRepository
	gateway     Gateway
	courses     CourseFinder
	enrollments Enrollments
	users       UserReader
	notifier    notification.NotificationService
	keyID       string
	logger      *zap.Logger
}

func NewPaymentService(
	repo repository.PaymentRepository,
	gateway Gateway,
	courses CourseFinder,
	enrollments Enrollments,
	users UserReader,
	notifier notification.NotificationService,
	keyID string,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:        repo,
		gateway:     gateway,
		courses:     courses,
		enrollments: enrollments,
		users:       users,
		notifier:    notifier,
		keyID:       keyID,
		logger:      logger,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, userID uuid.UUID, req dto.CapturePaymentRequest) (*dto.OrderResponse, error) {
	courseIDs, err := parseCourseIDs(req.Courses)
	if err != nil {
		return nil, err
	}
	if len(courseIDs) == 0 {
		return nil, fmt.Errorf("please provide course ids: %w", apperror.ErrInvalidInput)
	}

	total := 0.0
	for _, id := range courseIDs {
		course, err := s.courses.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("could not find course %s: %w", id, apperror.ErrNotFound)
			}
			return nil, err
		}

		enrolled, err := s.enrollments.IsEnrolled(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		if enrolled {
			return nil, fmt.Errorf("student is already enrolled in %s: %w", course.Name, apperror.ErrConflict)
		}

		total += course.Price
	}

	receipt := uuid.NewString()
	order, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   toPaise(total),
		Currency: currencyINR,
		Receipt:  receipt,
	})
	if err != nil {
		s.logger.Error("payment gateway rejected order", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("could not initiate order: %w", apperror.ErrExternalService)
	}

	record := &entity.PaymentOrder{
		OrderID:   order.ID,
		UserID:    userID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		Receipt:   receipt,
		CourseIDs: courseIDs,
		Status:    entity.PaymentCreated,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &dto.OrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
		KeyID:    s.keyID,
	}, nil
}

// VerifyAndCapture enrolls the user only when the checkout signature matches.
func (s *paymentService) VerifyAndCapture(ctx context.Context, userID uuid.UUID, req dto.VerifyPaymentRequest) error {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" || len(req.Courses) == 0 {
		return ErrPaymentFailed
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		s.logger.Warn("payment signature mismatch",
			zap.String("user_id", userID.String()),
			zap.String("order_id", req.OrderID),
		)
		return fmt.Errorf("payment verification failed: %w", apperror.ErrSignatureMismatch)
	}

	courseIDs, err := parseCourseIDs(req.Courses)
	if err != nil {
		return err
	}

	order, err := s.repo.FindByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order %s not found: %w", req.OrderID, apperror.ErrNotFound)
		}
		return err
	}
	if order.UserID != userID {
		return fmt.Errorf("order belongs to another user: %w", apperror.ErrForbidden)
	}
	if order.Status == entity.PaymentPaid {
		return fmt.Errorf("order %s is already captured: %w", req.OrderID, apperror.ErrConflict)
	}
	if !sameCourses(order.CourseIDs, courseIDs) {
		return fmt.Errorf("courses do not match the order: %w", apperror.ErrInvalidInput)
	}

	if err := s.enrollments.Enroll(ctx, userID, courseIDs); err != nil {
		return err
	}

	if err := s.repo.MarkPaid(ctx, req.OrderID, req.PaymentID); err != nil {
		s.logger.Error("failed to mark order paid", zap.String("order_id", req.OrderID), zap.Error(err))
	}

	s.logger.Info("payment verified",
		zap.String("user_id", userID.String()),
		zap.String("order_id", req.OrderID),
		zap.String("payment_id", req.PaymentID),
	)
	return nil
}

func (s *paymentService) SendPaymentSuccessEmail(ctx context.Context, userID uuid.UUID, req dto.PaymentSuccessEmailRequest) error {
	if req.OrderID == "" || req.PaymentID == "" || req.Amount <= 0 {
		return fmt.Errorf("please provide all the details: %w", apperror.ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	s.notifier.SendPaymentSuccess(ctx, user, req.Amount, req.OrderID, req.PaymentID)
	return nil
}

func toPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func parseCourseIDs(raw []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid course id %q: %w", r, apperror.ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func sameCourses(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	left := make([]string, len(a))
	right := make([]string, len(b))
	for i := range a {
		left[i] = a[i].String()
		right[i] = b[i].String()
	}
	sort.Strings(left)
	sort.Strings(right)
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}
