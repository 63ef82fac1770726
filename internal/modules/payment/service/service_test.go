package service

import (
	"context"
	"errors"
	"testing"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/internal/modules/payment/dto"
	"anoa.com/eduelevate/pkg/apperror"
	"anoa.com/eduelevate/pkg/razorpay"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockGateway struct {
	secret   string
	requests []razorpay.OrderRequest
	err      error
}

func (m *mockGateway) CreateOrder(_ context.Context, req razorpay.OrderRequest) (*razorpay.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.requests = append(m.requests, req)
	return &razorpay.Order{ID: "order_1", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"}, nil
}

func (m *mockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return razorpay.VerifySignature(orderID, paymentID, signature, m.secret)
}

type mockPaymentRepo struct {
	orders map[string]*entity.PaymentOrder
}

func (m *mockPaymentRepo) Create(_ context.Context, order *entity.PaymentOrder) error {
	m.orders[order.OrderID] = order
	return nil
}

func (m *mockPaymentRepo) FindByOrderID(_ context.Context, orderID string) (*entity.PaymentOrder, error) {
	if o, ok := m.orders[orderID]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) MarkPaid(_ context.Context, orderID, paymentID string) error {
	m.orders[orderID].Status = entity.PaymentPaid
	m.orders[orderID].PaymentID = paymentID
	return nil
}

type mockCourses struct {
	courses map[uuid.UUID]*entity.Course
}

func (m *mockCourses) FindByID(_ context.Context, id uuid.UUID) (*entity.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockEnrollments struct {
	enrolled map[uuid.UUID]bool
	calls    [][]uuid.UUID
}

func (m *mockEnrollments) IsEnrolled(_ context.Context, courseID, _ uuid.UUID) (bool, error) {
	return m.enrolled[courseID], nil
}

func (m *mockEnrollments) Enroll(_ context.Context, _ uuid.UUID, courseIDs []uuid.UUID) error {
	m.calls = append(m.calls, courseIDs)
	return nil
}

type mockUsers struct{}

func (mockUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return &entity.User{ID: id, FirstName: "Asha", Email: "asha@example.com"}, nil
}

type mockNotifier struct {
	payments []string
}

func (m *mockNotifier) SendOTP(context.Context, string, string, int)               {}
func (m *mockNotifier) SendEnrollment(context.Context, *entity.User, string)       {}
func (m *mockNotifier) SendPasswordUpdated(context.Context, *entity.User)          {}
func (m *mockNotifier) SendPasswordResetLink(context.Context, string, string, int) {}
func (m *mockNotifier) SendPaymentSuccess(_ context.Context, _ *entity.User, _ int64, orderID, _ string) {
	m.payments = append(m.payments, orderID)
}

type fixture struct {
	svc         PaymentService
	gateway     *mockGateway
	repo        *mockPaymentRepo
	enrollments *mockEnrollments
	notifier    *mockNotifier
	courseA     *entity.Course
	courseB     *entity.Course
}

func newFixture() *fixture {
	a := &entity.Course{ID: uuid.New(), Name: "Go", Price: 499.99}
	b := &entity.Course{ID: uuid.New(), Name: "Rust", Price: 100}

	f := &fixture{
		gateway:     &mockGateway{secret: "k"},
		repo:        &mockPaymentRepo{orders: map[string]*entity.PaymentOrder{}},
		enrollments: &mockEnrollments{enrolled: map[uuid.UUID]bool{}},
		notifier:    &mockNotifier{},
		courseA:     a,
		courseB:     b,
	}
	f.svc = NewPaymentService(
		f.repo,
		f.gateway,
		&mockCourses{courses: map[uuid.UUID]*entity.Course{a.ID: a, b.ID: b}},
		f.enrollments,
		mockUsers{},
		f.notifier,
		"rzp_key",
		zap.NewNop(),
	)
	return f
}

func TestCreateOrder(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	order, err := f.svc.CreateOrder(context.Background(), userID, dto.CapturePaymentRequest{
		Courses: []string{f.courseA.ID.String(), f.courseB.ID.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, "order_1", order.OrderID)
	assert.EqualValues(t, 59999, order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_key", order.KeyID)

	stored := f.repo.orders["order_1"]
	require.NotNil(t, stored)
	assert.Equal(t, userID, stored.UserID)
	assert.Equal(t, entity.PaymentCreated, stored.Status)
	assert.ElementsMatch(t, []uuid.UUID{f.courseA.ID, f.courseB.ID}, []uuid.UUID(stored.CourseIDs))
}

func TestCreateOrderRejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, uuid.New(), dto.CapturePaymentRequest{})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = f.svc.CreateOrder(ctx, uuid.New(), dto.CapturePaymentRequest{Courses: []string{uuid.NewString()}})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	f.enrollments.enrolled[f.courseA.ID] = true
	_, err = f.svc.CreateOrder(ctx, uuid.New(), dto.CapturePaymentRequest{Courses: []string{f.courseA.ID.String()}})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	f.gateway.err = errors.New("boom")
	_, err = f.svc.CreateOrder(ctx, uuid.New(), dto.CapturePaymentRequest{Courses: []string{f.courseB.ID.String()}})
	assert.ErrorIs(t, err, apperror.ErrExternalService)

	assert.Empty(t, f.repo.orders)
}

func TestVerifyAndCapture(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := uuid.New()
	courses := []string{f.courseA.ID.String()}

	_, err := f.svc.CreateOrder(ctx, userID, dto.CapturePaymentRequest{Courses: courses})
	require.NoError(t, err)

	err = f.svc.VerifyAndCapture(ctx, userID, dto.VerifyPaymentRequest{
		OrderID: "order_1", PaymentID: "pay_1", Signature: "not-a-signature", Courses: courses,
	})
	assert.ErrorIs(t, err, apperror.ErrSignatureMismatch)
	assert.Empty(t, f.enrollments.calls)

	err = f.svc.VerifyAndCapture(ctx, userID, dto.VerifyPaymentRequest{OrderID: "order_1", PaymentID: "pay_1", Courses: courses})
	assert.ErrorIs(t, err, ErrPaymentFailed)

	signature := razorpay.Signature("order_1", "pay_1", "k")
	err = f.svc.VerifyAndCapture(ctx, uuid.New(), dto.VerifyPaymentRequest{
		OrderID: "order_1", PaymentID: "pay_1", Signature: signature, Courses: courses,
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = f.svc.VerifyAndCapture(ctx, userID, dto.VerifyPaymentRequest{
		OrderID: "order_1", PaymentID: "pay_1", Signature: signature, Courses: courses,
	})
	require.NoError(t, err)
	require.Len(t, f.enrollments.calls, 1)
	assert.Equal(t, []uuid.UUID{f.courseA.ID}, f.enrollments.calls[0])
	assert.Equal(t, entity.PaymentPaid, f.repo.orders["order_1"].Status)
	assert.Equal(t, "pay_1", f.repo.orders["order_1"].PaymentID)

	err = f.svc.VerifyAndCapture(ctx, userID, dto.VerifyPaymentRequest{
		OrderID: "order_1", PaymentID: "pay_1", Signature: signature, Courses: courses,
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestVerifyRejectsForgedSignatureForKnownVector(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	f.repo.orders["o1"] = &entity.PaymentOrder{OrderID: "o1", UserID: userID, CourseIDs: []uuid.UUID{f.courseA.ID}}

	forged := razorpay.Signature("o1", "p1", "wrong-secret")
	err := f.svc.VerifyAndCapture(context.Background(), userID, dto.VerifyPaymentRequest{
		OrderID: "o1", PaymentID: "p1", Signature: forged, Courses: []string{f.courseA.ID.String()},
	})
	assert.ErrorIs(t, err, apperror.ErrSignatureMismatch)
	assert.Empty(t, f.enrollments.calls)

	err = f.svc.VerifyAndCapture(context.Background(), userID, dto.VerifyPaymentRequest{
		OrderID: "o1", PaymentID: "p1", Signature: razorpay.Signature("o1", "p1", "k"), Courses: []string{f.courseA.ID.String()},
	})
	require.NoError(t, err)
}

func TestSendPaymentSuccessEmail(t *testing.T) {
	f := newFixture()

	err := f.svc.SendPaymentSuccessEmail(context.Background(), uuid.New(), dto.PaymentSuccessEmailRequest{})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	err = f.svc.SendPaymentSuccessEmail(context.Background(), uuid.New(), dto.PaymentSuccessEmailRequest{
		OrderID: "order_1", PaymentID: "pay_1", Amount: 49900,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"order_1"}, f.notifier.payments)
}

func TestToPaise(t *testing.T) {
	assert.EqualValues(t, 59999, toPaise(599.99))
	assert.EqualValues(t, 0, toPaise(0))
	assert.EqualValues(t, 1999, toPaise(19.99))
}
