package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/eduelevate/internal/config"
	"anoa.com/eduelevate/internal/entity"
	notifService "anoa.com/eduelevate/internal/modules/notification/service"
	"anoa.com/eduelevate/internal/testutil"
	"anoa.com/eduelevate/pkg/authtoken"
	"anoa.com/eduelevate/pkg/mailer"
	"anoa.com/eduelevate/pkg/razorpay"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "rzp_secret"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	handler http.Handler
	db      *gorm.DB
	tokens  *authtoken.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req razorpay.OrderRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(razorpay.Order{
			ID:       "order_test_1",
			Entity:   "order",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	t.Cleanup(gateway.Close)

	cfg := &config.Config{
		AppEnv:      "test",
		JWTSecret:   "jwt-secret",
		JWTTTL:      time.Hour,
		AIRateLimit: time.Second,
		MediaFolder: "test",
		RazorpayKey: "rzp_key",
	}

	logger := zap.NewNop()
	db := testutil.NewDB(t)
	notifier := notifService.NewNotificationService(
		notifService.NewGoroutineDispatcher(mailer.NewConsoleMailer(logger), logger),
		logger,
	)

	srv := NewServer(cfg, Dependencies{
		DB: db,
		Payments: razorpay.NewClient(razorpay.Options{
			KeyID:     cfg.RazorpayKey,
			KeySecret: testSecret,
			BaseURL:   gateway.URL,
		}),
		Notifier: notifier,
	}, logger)

	return &testApp{
		handler: srv.Handler(),
		db:      db,
		tokens:  authtoken.NewManager(cfg.JWTSecret, cfg.JWTTTL),
	}
}

func (a *testApp) token(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, _, err := a.tokens.Issue(u.ID, u.Email, u.AccountType)
	require.NoError(t, err)
	return tok
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestRouteGuards(t *testing.T) {
	app := newTestApp(t)
	student := testutil.CreateUser(t, app.db, entity.AccountStudent)
	instructor := testutil.CreateUser(t, app.db, entity.AccountInstructor)

	code, env := app.do(t, http.MethodGet, "/api/v1/course/showAllCategories", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, _ = app.do(t, http.MethodPost, "/api/v1/course/updateCourseProgress", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.do(t, http.MethodPost, "/api/v1/course/createCategory", app.token(t, student), map[string]string{"name": "Go"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = app.do(t, http.MethodPost, "/api/v1/payment/capturePayment", app.token(t, instructor), map[string]any{"courses": []string{}})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestPurchaseAndProgressFlow(t *testing.T) {
	app := newTestApp(t)
	student := testutil.CreateUser(t, app.db, entity.AccountStudent)
	instructor := testutil.CreateUser(t, app.db, entity.AccountInstructor)
	category := testutil.CreateCategory(t, app.db, "Backend")
	course := testutil.CreateCourse(t, app.db, instructor.ID, category.ID, 499.5, 2, 3)
	token := app.token(t, student)
	courses := []string{course.ID.String()}

	code, env := app.do(t, http.MethodPost, "/api/v1/course/getFullCourseDetails", token, map[string]string{"courseId": course.ID.String()})
	assert.Equal(t, http.StatusForbidden, code, env.Message)

	code, env = app.do(t, http.MethodPost, "/api/v1/payment/capturePayment", token, map[string]any{"courses": courses})
	require.Equal(t, http.StatusOK, code, env.Message)

	var order struct {
		ID     string `json:"id"`
		Amount int64  `json:"amount"`
		Key    string `json:"key"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, "order_test_1", order.ID)
	assert.Equal(t, int64(49950), order.Amount)
	assert.Equal(t, "rzp_key", order.Key)

	code, _ = app.do(t, http.MethodPost, "/api/v1/payment/verifyPayment", token, map[string]any{
		"razorpay_order_id":   order.ID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "forged",
		"courses":             courses,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = app.do(t, http.MethodPost, "/api/v1/payment/verifyPayment", token, map[string]any{
		"razorpay_order_id":   order.ID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  razorpay.Signature(order.ID, "pay_1", testSecret),
		"courses":             courses,
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	lecture := course.Sections[0].SubSections[0].ID
	progress := map[string]string{"courseId": course.ID.String(), "subsectionId": lecture.String()}

	code, _ = app.do(t, http.MethodPost, "/api/v1/course/updateCourseProgress", token, progress)
	assert.Equal(t, http.StatusCreated, code)

	code, env = app.do(t, http.MethodPost, "/api/v1/course/updateCourseProgress", token, progress)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"outcome":"AlreadyComplete"}`, string(env.Data))

	code, env = app.do(t, http.MethodPost, "/api/v1/course/getFullCourseDetails", token, map[string]string{"courseId": course.ID.String()})
	require.Equal(t, http.StatusOK, code, env.Message)

	var details struct {
		CompletedVideos []string `json:"completedVideos"`
		TotalDuration   string   `json:"totalDuration"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &details))
	assert.Equal(t, []string{lecture.String()}, details.CompletedVideos)
	assert.Equal(t, "5m 0s", details.TotalDuration)
}
