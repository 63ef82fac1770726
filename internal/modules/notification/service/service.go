package service

import (
	"context"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/internal/modules/notification/template"
	"anoa.com/eduelevate/pkg/mailer"
	"go.uber.org/zap"
)

// NotificationService sends transactional emails. None of its methods report failures to the caller;
// delivery problems end up in the log.
type NotificationService interface {
	SendOTP(ctx context.Context, email, otp string, validMinutes int)
	SendEnrollment(ctx context.Context, user *entity.User, courseName string)
	SendPasswordUpdated(ctx context.Context, user *entity.User)
	SendPasswordResetLink(ctx context.Context, email, url string, validMinutes int)
	SendPaymentSuccess(ctx context.Context, user *entity.User, amountPaise int64, orderID, paymentID string)
}

type notificationService struct {
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewNotificationService(dispatcher Dispatcher, logger *zap.Logger) NotificationService {
	return &notificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *notificationService) SendOTP(ctx context.Context, email, otp string, validMinutes int) {
	s.dispatch(ctx, "otp")(template.OTPVerification(email, otp, validMinutes))
}

func (s *notificationService) SendEnrollment(ctx context.Context, user *entity.User, courseName string) {
	s.dispatch(ctx, "enrollment")(template.CourseEnrollment(user.Email, user.FullName(), courseName))
}

func (s *notificationService) SendPasswordUpdated(ctx context.Context, user *entity.User) {
	s.dispatch(ctx, "password_updated")(template.PasswordUpdated(user.Email, user.FullName()))
}

func (s *notificationService) SendPasswordResetLink(ctx context.Context, email, url string, validMinutes int) {
	s.dispatch(ctx, "password_reset")(template.PasswordResetLink(email, url, validMinutes))
}

func (s *notificationService) SendPaymentSuccess(ctx context.Context, user *entity.User, amountPaise int64, orderID, paymentID string) {
	s.dispatch(ctx, "payment_success")(template.PaymentSuccess(user.Email, user.FullName(), amountPaise, orderID, paymentID))
}

func (s *notificationService) dispatch(ctx context.Context, event string) func(mailer.Message, error) {
	return func(msg mailer.Message, err error) {
		if err != nil {
			s.logger.Error("failed to render email", zap.String("event", event), zap.Error(err))
			return
		}
		s.dispatcher.Dispatch(context.WithoutCancel(ctx), event, msg)
	}
}
