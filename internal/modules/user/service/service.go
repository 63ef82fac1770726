package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"anoa.com/eduelevate/internal/entity"
	notification "anoa.com/eduelevate/internal/modules/notification/service"
	"anoa.com/eduelevate/internal/modules/user/dto"
	"anoa.com/eduelevate/internal/modules/user/repository"
	"anoa.com/eduelevate/pkg/apperror"
	"anoa.com/eduelevate/pkg/authtoken"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxOTPAttempts = 10

var errInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password", apperror.ErrUnauthorized)

type AuthService interface {
	SendOTP(ctx context.Context, req dto.SendOTPRequest) error
	SignUp(ctx context.Context, req dto.SignUpRequest) (*entity.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error
	ResetPasswordToken(ctx context.Context, req dto.ResetPasswordTokenRequest) error
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
}

type Options struct {
	FrontendURL   string
	OTPTTL        time.Duration
	ResetTokenTTL time.Duration
}

type authService struct {
	users    repository.UserRepository
	otps     repository.OTPRepository
	tokens   *authtoken.Manager
	notifier notification.NotificationService
	opts     Options
	logger   *zap.Logger

	now         func() time.Time
	generateOTP func() (string, error)
}

func NewAuthService(
	users repository.UserRepository,
	otps repository.OTPRepository,
	tokens *authtoken.Manager,
	notifier notification.NotificationService,
	opts Options,
	logger *zap.Logger,
) AuthService {
	return &authService{
		users:       users,
		otps:        otps,
		tokens:      tokens,
		notifier:    notifier,
		opts:        opts,
		logger:      logger,
		now:         time.Now,
		generateOTP: randomOTP,
	}
}

func (s *authService) SendOTP(ctx context.Context, req dto.SendOTPRequest) error {
	email := normalizeEmail(req.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return fmt.Errorf("user is already registered: %w", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := s.now()
	var code string
	for attempt := 0; ; attempt++ {
		if attempt == maxOTPAttempts {
			return fmt.Errorf("could not allocate a unique otp: %w", apperror.ErrConflict)
		}

		candidate, err := s.generateOTP()
		if err != nil {
			return err
		}

		inUse, err := s.otps.CodeInUse(ctx, candidate, now)
		if err != nil {
			return err
		}
		if !inUse {
			code = candidate
			break
		}
	}

	otp := &entity.OTP{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(s.opts.OTPTTL),
	}
	if err := s.otps.Create(ctx, otp); err != nil {
		return err
	}

	s.notifier.SendOTP(ctx, email, code, int(s.opts.OTPTTL.Minutes()))
	return nil
}

func (s *authService) SignUp(ctx context.Context, req dto.SignUpRequest) (*entity.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("password and confirm password do not match: %w", apperror.ErrInvalidInput)
	}

	accountType := req.AccountType
	if accountType == "" {
		accountType = entity.AccountStudent
	}
	if accountType != entity.AccountStudent && accountType != entity.AccountInstructor {
		return nil, fmt.Errorf("account type %q cannot sign up: %w", accountType, apperror.ErrInvalidInput)
	}

	email := normalizeEmail(req.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user already exists, please sign in to continue: %w", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	otp, err := s.otps.FindLatestByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("the otp is not valid: %w", apperror.ErrInvalidInput)
		}
		return nil, err
	}
	if otp.Code != req.OTP || otp.Expired(s.now()) {
		return nil, fmt.Errorf("the otp is not valid: %w", apperror.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &entity.Profile{}
	if req.ContactNumber != "" {
		contact := req.ContactNumber
		profile.ContactNumber = &contact
	}

	user := &entity.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: string(hash),
		AccountType:  accountType,
		Active:       true,
		Image:        initialsAvatar(req.FirstName, req.LastName),
		Profile:      profile,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("user already exists, please sign in to continue: %w", apperror.ErrConflict)
		}
		return nil, err
	}

	if err := s.otps.DeleteByEmail(ctx, email); err != nil {
		s.logger.Warn("failed to consume otp", zap.String("email", email), zap.Error(err))
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.AccountType)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apperror.New(http.StatusUnauthorized, "the password is incorrect", apperror.ErrUnauthorized)
	}

	if req.NewPassword != req.ConfirmNewPassword {
		return fmt.Errorf("the password and confirm password do not match: %w", apperror.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	s.notifier.SendPasswordUpdated(ctx, user)
	return nil
}

func (s *authService) ResetPasswordToken(ctx context.Context, req dto.ResetPasswordTokenRequest) error {
	email := normalizeEmail(req.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("this email %s is not registered with us: %w", email, apperror.ErrNotFound)
		}
		return err
	}

	token := uuid.NewString()
	if err := s.users.SetResetToken(ctx, user.ID, token, s.now().Add(s.opts.ResetTokenTTL)); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/update-password/%s", s.opts.FrontendURL, token)
	s.notifier.SendPasswordResetLink(ctx, user.Email, link, int(s.opts.ResetTokenTTL.Minutes()))
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	if req.Password != req.ConfirmPassword {
		return fmt.Errorf("password and confirm password do not match: %w", apperror.ErrInvalidInput)
	}

	user, err := s.users.FindByResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("token is invalid: %w", apperror.ErrInvalidInput)
		}
		return err
	}

	if user.ResetTokenExpiresAt == nil || !s.now().Before(*user.ResetTokenExpiresAt) {
		return fmt.Errorf("token is expired, please regenerate your token: %w", apperror.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

func randomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func initialsAvatar(firstName, lastName string) string {
	seed := strings.TrimSpace(firstName + " " + lastName)
	return "https://api.dicebear.com/5.x/initials/svg?seed=" + url.QueryEscape(seed)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
