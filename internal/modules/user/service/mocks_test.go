package service

import (
	"context"
	"time"

	"anoa.com/eduelevate/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	byEmail map[string]*entity.User
	byID    map[uuid.UUID]*entity.User
	created []*entity.User

	passwordUpdates map[uuid.UUID]string
	resetTokens     map[uuid.UUID]string
	createErr       error
}

func newMockUserRepo(users ...*entity.User) *mockUserRepo {
	m := &mockUserRepo{
		byEmail:         map[string]*entity.User{},
		byID:            map[uuid.UUID]*entity.User{},
		passwordUpdates: map[uuid.UUID]string{},
		resetTokens:     map[uuid.UUID]string{},
	}
	for _, u := range users {
		m.byEmail[u.Email] = u
		m.byID[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, user *entity.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = uuid.New()
	m.created = append(m.created, user)
	m.byEmail[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByResetToken(_ context.Context, token string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.ResetToken != nil && *u.ResetToken == token {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.passwordUpdates[id] = passwordHash
	return nil
}

func (m *mockUserRepo) SetResetToken(_ context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	m.resetTokens[id] = token
	return nil
}

func (m *mockUserRepo) ClearExpiredResetTokens(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type mockOTPRepo struct {
	inUse   map[string]bool
	latest  map[string]*entity.OTP
	created []*entity.OTP
	deleted []string
}

func newMockOTPRepo() *mockOTPRepo {
	return &mockOTPRepo{inUse: map[string]bool{}, latest: map[string]*entity.OTP{}}
}

func (m *mockOTPRepo) Create(_ context.Context, otp *entity.OTP) error {
	m.created = append(m.created, otp)
	m.latest[otp.Email] = otp
	return nil
}

func (m *mockOTPRepo) CodeInUse(_ context.Context, code string, _ time.Time) (bool, error) {
	return m.inUse[code], nil
}

func (m *mockOTPRepo) FindLatestByEmail(_ context.Context, email string) (*entity.OTP, error) {
	if otp, ok := m.latest[email]; ok {
		return otp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOTPRepo) DeleteByEmail(_ context.Context, email string) error {
	m.deleted = append(m.deleted, email)
	return nil
}

func (m *mockOTPRepo) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type mockNotifier struct {
	otps           []string
	passwordUpdate []string
	resetLinks     []string
}

func (m *mockNotifier) SendOTP(_ context.Context, email, otp string, _ int) {
	m.otps = append(m.otps, email+":"+otp)
}

func (m *mockNotifier) SendEnrollment(context.Context, *entity.User, string) {}

func (m *mockNotifier) SendPasswordUpdated(_ context.Context, user *entity.User) {
	m.passwordUpdate = append(m.passwordUpdate, user.Email)
}

func (m *mockNotifier) SendPasswordResetLink(_ context.Context, _ string, url string, _ int) {
	m.resetLinks = append(m.resetLinks, url)
}

func (m *mockNotifier) SendPaymentSuccess(context.Context, *entity.User, int64, string, string) {}
