package delivery

import (
	"bazaar/domain"
	"bazaar/middleware"
	"bazaar/repository"
	"bazaar/service"
	"bazaar/utils"
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testSender struct{ sent []string }

func (s *testSender) Send(email, code string) error {
	s.sent = append(s.sent, code)
	return nil
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *utils.JWTManager
	sender *testSender
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.RegisterCustomValidations(v)
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.OTPChallenge{},
		&domain.OTPRequestLog{},
	))

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	otpRepo := repository.NewOTPRepository(db)

	authService := service.NewAuthService(userRepo, testSecret)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo)
	sender := &testSender{}
	sellerTokens := utils.NewJWTManager(testSecret, 24*time.Hour)
	otpService := service.NewOTPService(otpRepo, sellerTokens, sender, true)

	tokens := authService.GetTokenManager()
	router := gin.New()
	NewAuthHandler(router, authService)
	NewOTPHandler(router, otpService, middleware.AuthRequired(tokens))
	NewProductHandler(router, productService, tokens)
	NewUserHandler(router, userService, tokens)

	return &testServer{router: router, db: db, tokens: tokens, sender: sender}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerUser creates an account over HTTP and returns its login token.
func (ts *testServer) registerUser(t *testing.T, email, role string) string {
	t.Helper()
	w := ts.do(t, "POST", "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "password123",
		"name":     "Test User",
		"role":     role,
	})
	require.Equal(t, 201, w.Code, w.Body.String())
	return decodeBody(t, w)["token"].(string)
}

// elevateSeller runs the OTP flow over HTTP and returns the elevated
// seller-session token.
func (ts *testServer) elevateSeller(t *testing.T, token string) string {
	t.Helper()
	w := ts.do(t, "POST", "/api/otp/generate-otp", token, nil)
	require.Equal(t, 200, w.Code, w.Body.String())
	code := decodeBody(t, w)["developmentOTP"].(string)

	w = ts.do(t, "POST", "/api/otp/verify-otp", token, gin.H{"otpCode": code})
	require.Equal(t, 200, w.Code, w.Body.String())
	return decodeBody(t, w)["sellerToken"].(string)
}
