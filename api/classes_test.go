package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/gymbooking/internal/domain"
	"github.com/Domenick1991/gymbooking/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockClassUseCase struct {
	mock.Mock
}

func (m *MockClassUseCase) List(ctx context.Context, filter repository.ClassFilter) ([]domain.Class, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Class), args.Error(1)
}

func (m *MockClassUseCase) GetByID(ctx context.Context, id int64) (*domain.Class, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Class), args.Error(1)
}

func (m *MockClassUseCase) Create(ctx context.Context, class *domain.Class) error {
	args := m.Called(ctx, class)
	return args.Error(0)
}

func (m *MockClassUseCase) Update(ctx context.Context, class *domain.Class) error {
	args := m.Called(ctx, class)
	return args.Error(0)
}

func (m *MockClassUseCase) SetActive(ctx context.Context, id int64, active bool) (*domain.Class, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Class), args.Error(1)
}

func (m *MockClassUseCase) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newClassRouter(service *MockClassUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewClassHandler(service).Register(router.Group("/api/classes"))
	return router
}

func TestClassHandler_list_Filters(t *testing.T) {
	mockService := &MockClassUseCase{}
	router := newClassRouter(mockService)

	mockService.On("List", mock.Anything, repository.ClassFilter{Type: "yoga", Trainer: "sam", Day: "monday", ActiveOnly: true}).
		Return([]domain.Class{{ID: 4, Name: "Morning Yoga", Trainer: "sam"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/classes/?type=yoga&trainer=sam&day=monday&active=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Morning Yoga")
	mockService.AssertExpectations(t)
}

func TestClassHandler_get_NotFound(t *testing.T) {
	mockService := &MockClassUseCase{}
	router := newClassRouter(mockService)

	mockService.On("GetByID", mock.Anything, int64(9)).Return(nil, domain.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/classes/9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestClassHandler_get_InvalidID(t *testing.T) {
	mockService := &MockClassUseCase{}
	router := newClassRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/classes/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestClassHandler_create_RequiresAdmin(t *testing.T) {
	mockService := &MockClassUseCase{}
	router := newClassRouter(mockService)

	body, _ := json.Marshal(map[string]interface{}{"name": "Spin"})
	req := httptest.NewRequest(http.MethodPost, "/api/classes/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClassHandler_create_AsAdmin(t *testing.T) {
	mockService := &MockClassUseCase{}
	router := newClassRouter(mockService)

	mockService.On("Create", mock.Anything, mock.AnythingOfType("*domain.Class")).Return(nil).Once()

	body, _ := json.Marshal(map[string]interface{}{
		"name":             "Spin",
		"type":             "fitness",
		"level":            "intermediate",
		"trainer":          "sam",
		"capacity":         20,
		"day":              "tuesday",
		"start_time":       "18:00",
		"duration_minutes": 45,
		"location":         "Studio B",
		"price_cents":      1500,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/classes/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "admin-1")
	req.Header.Set("X-User-Role", "admin")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestClassHandler_setStatus(t *testing.T) {
	mockService := &MockClassUseCase{}
	router := newClassRouter(mockService)

	deactivated := &domain.Class{ID: 4, Name: "Morning Yoga", IsActive: false}
	mockService.On("SetActive", mock.Anything, int64(4), false).Return(deactivated, nil).Once()

	body, _ := json.Marshal(map[string]interface{}{"is_active": false})
	req := httptest.NewRequest(http.MethodPut, "/api/classes/4/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "admin-1")
	req.Header.Set("X-User-Role", "admin")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestClassHandler_remove_RequiresAdmin(t *testing.T) {
	mockService := &MockClassUseCase{}
	router := newClassRouter(mockService)

	req := httptest.NewRequest(http.MethodDelete, "/api/classes/4", nil)
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
