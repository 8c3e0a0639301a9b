package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahlulathar/ahlulathar-api/internal/i18n"
	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/ahlulathar/ahlulathar-api/internal/notify"
	"github.com/ahlulathar/ahlulathar-api/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func updatesRouter(t *testing.T, service *MockUpdatesService, center *notify.Center) *gin.Engine {
	t.Helper()
	handler := NewUpdatesHandler(service, newI18nSession(t, i18n.LanguageArabic), center)

	router := gin.New()
	router.GET("/updates", handler.GetUpdates)
	router.POST("/updates", handler.CreateUpdate)
	router.DELETE("/updates/:id", handler.DeleteUpdate)
	return router
}

func TestUpdatesHandler_GetUpdates(t *testing.T) {
	mockService := new(MockUpdatesService)
	mockService.On("GetUpdates", mock.Anything).Return([]*models.Update{
		{ID: "a", Title: "إطلاق الموقع", Description: "details", Date: "2025-03-01", Type: models.UpdateTypeFeature},
	}, nil)

	center := notify.NewCenter()
	defer center.Shutdown()
	router := updatesRouter(t, mockService, center)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/updates", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "إطلاق الموقع")
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestUpdatesHandler_GetUpdates_Failure(t *testing.T) {
	mockService := new(MockUpdatesService)
	mockService.On("GetUpdates", mock.Anything).Return(nil, store.ErrStore)

	center := notify.NewCenter()
	defer center.Shutdown()
	router := updatesRouter(t, mockService, center)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/updates", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// the localized fetch error, not a raw store error
	assert.Contains(t, w.Body.String(), "تعذر تحميل التحديثات")
}

func TestUpdatesHandler_CreateUpdate(t *testing.T) {
	mockService := new(MockUpdatesService)
	mockService.On("CreateUpdate", mock.Anything, &models.CreateUpdateRequest{
		Title:       "launch",
		Description: "we launched",
		Date:        "2025-04-01",
		Type:        "feature",
	}).Return(&models.Update{ID: "new-id", Title: "launch", Description: "we launched", Date: "2025-04-01", Type: models.UpdateTypeFeature}, nil)

	center := notify.NewCenter()
	defer center.Shutdown()
	router := updatesRouter(t, mockService, center)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/updates", strings.NewReader(`{"title":"launch","description":"we launched","date":"2025-04-01","type":"feature"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"new-id"`)
	mockService.AssertExpectations(t)
}

func TestUpdatesHandler_CreateUpdate_InvalidType(t *testing.T) {
	mockService := new(MockUpdatesService)

	center := notify.NewCenter()
	defer center.Shutdown()
	router := updatesRouter(t, mockService, center)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/updates", strings.NewReader(`{"title":"x","description":"y","date":"2025-04-01","type":"announcement"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateUpdate", mock.Anything, mock.Anything)
}

func TestUpdatesHandler_DeleteUpdate_RequiresConfirmation(t *testing.T) {
	mockService := new(MockUpdatesService)
	mockService.On("DeleteUpdate", mock.Anything, "a").Return(nil)

	center := notify.NewCenter(notify.WithToastTTL(time.Minute))
	defer center.Shutdown()
	router := updatesRouter(t, mockService, center)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/updates/a", http.NoBody))

	// staged, not yet deleted
	assert.Equal(t, http.StatusAccepted, w.Code)
	mockService.AssertNotCalled(t, "DeleteUpdate", mock.Anything, "a")

	dialog := center.PendingConfirm()
	require.NotNil(t, dialog)
	assert.Equal(t, "هل أنت متأكد من حذف هذا التحديث؟", dialog.Message)

	// accepting the dialog performs the deletion and posts a success toast
	require.True(t, center.ResolveConfirm(true))
	mockService.AssertCalled(t, "DeleteUpdate", mock.Anything, "a")

	toasts := center.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.SeveritySuccess, toasts[0].Severity)
}

func TestUpdatesHandler_DeleteUpdate_Declined(t *testing.T) {
	mockService := new(MockUpdatesService)

	center := notify.NewCenter()
	defer center.Shutdown()
	router := updatesRouter(t, mockService, center)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/updates/a", http.NoBody))
	assert.Equal(t, http.StatusAccepted, w.Code)

	require.True(t, center.ResolveConfirm(false))
	mockService.AssertNotCalled(t, "DeleteUpdate", mock.Anything, mock.Anything)
}

func TestUpdatesHandler_DeleteUpdate_FailurePostsErrorToast(t *testing.T) {
	mockService := new(MockUpdatesService)
	mockService.On("DeleteUpdate", mock.Anything, "missing").Return(store.ErrDocumentNotFound)

	center := notify.NewCenter(notify.WithToastTTL(time.Minute))
	defer center.Shutdown()
	router := updatesRouter(t, mockService, center)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/updates/missing", http.NoBody))
	assert.Equal(t, http.StatusAccepted, w.Code)

	require.True(t, center.ResolveConfirm(true))

	toasts := center.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.SeverityError, toasts[0].Severity)
	assert.Equal(t, "تعذر حذف التحديث", toasts[0].Message)
}
