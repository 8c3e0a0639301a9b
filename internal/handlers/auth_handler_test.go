package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ahlulathar/ahlulathar-api/internal/i18n"
	"github.com/ahlulathar/ahlulathar-api/internal/middleware"
	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/ahlulathar/ahlulathar-api/internal/prefs"
	"github.com/ahlulathar/ahlulathar-api/internal/services"
	"github.com/ahlulathar/ahlulathar-api/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newI18nSession(t *testing.T, lang i18n.Language) *i18n.Session {
	t.Helper()
	session, err := i18n.NewSession(prefs.NewMemoryStore(), lang)
	require.NoError(t, err)
	return session
}

func newAuthHandler(t *testing.T, service services.AuthServiceInterface) *AuthHandler {
	t.Helper()
	tm := jwt.NewTokenManager("test-secret-test-secret-test-secret", "ahlulathar-api", 24)
	return NewAuthHandler(service, newI18nSession(t, i18n.LanguageArabic), tm, "", false)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	mockService := new(MockAuthService)
	user := &models.User{ID: "u1", DisplayName: "Test User", PhoneNumber: "0501234567", IsActive: true, Role: models.RoleAdmin}
	mockService.On("Login", mock.Anything, &models.Credentials{
		PhoneNumber: "0501234567",
		Password:    "secret",
	}).Return(&services.LoginResult{User: user}, nil)

	handler := newAuthHandler(t, mockService)
	router := gin.New()
	router.POST("/login", handler.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"phoneNumber":"0501234567","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"u1"`)

	// session cookie is set on success
	var sessionCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.NotEmpty(t, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)

	mockService.AssertExpectations(t)
}

func TestAuthHandler_Login_PhoneNotRegistered(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("Login", mock.Anything, mock.Anything).Return(nil, services.ErrPhoneNotRegistered)

	handler := newAuthHandler(t, mockService)
	router := gin.New()
	router.POST("/login", handler.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"phoneNumber":"0599999999","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "رقم الهاتف غير مسجل")
}

func TestAuthHandler_Login_InvalidPassword(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("Login", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidPassword)

	handler := newAuthHandler(t, mockService)
	router := gin.New()
	router.POST("/login", handler.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"phoneNumber":"0501234567","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "كلمة المرور غير صحيحة")
}

func TestAuthHandler_Login_AccountDisabled(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("Login", mock.Anything, mock.Anything).Return(nil, services.ErrAccountDisabled)

	handler := newAuthHandler(t, mockService)
	router := gin.New()
	router.POST("/login", handler.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"phoneNumber":"0501234567","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "حسابك غير مفعل")
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	mockService := new(MockAuthService)

	handler := newAuthHandler(t, mockService)
	router := gin.New()
	router.POST("/login", handler.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"phoneNumber":"0501234567"}`))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestAuthHandler_Logout(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("Logout").Return()

	handler := newAuthHandler(t, mockService)
	router := gin.New()
	router.POST("/logout", handler.Logout)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logout", http.NoBody)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	cleared := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie should be cleared on logout")
	mockService.AssertExpectations(t)
}

func TestAuthHandler_Session(t *testing.T) {
	mockService := new(MockAuthService)
	user := &models.User{ID: "u1", DisplayName: "Test User", IsActive: true, Role: models.RoleAdmin}
	mockService.On("CurrentUser").Return(user)
	mockService.On("State").Return(services.StateAuthenticated)

	tm := jwt.NewTokenManager("test-secret-test-secret-test-secret", "ahlulathar-api", 24)
	token, err := tm.GenerateToken("u1", "Test User", "0501234567", "admin")
	require.NoError(t, err)

	handler := NewAuthHandler(mockService, newI18nSession(t, i18n.LanguageArabic), tm, "", false)
	router := gin.New()
	router.GET("/session", middleware.SessionMiddleware(tm, "", false), handler.Session)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/session", http.NoBody)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"authenticated"`)
	assert.Contains(t, w.Body.String(), `"uid":"u1"`)
}
