package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/gymbooking/internal/domain"
	"github.com/Domenick1991/gymbooking/internal/service/bookings"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input bookings.CreateBookingInput) (*bookings.Outcome, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookings.Outcome), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, reference string, actor bookings.Actor, reason string) (*domain.Booking, error) {
	args := m.Called(ctx, reference, actor, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CompleteBooking(ctx context.Context, reference string, actor bookings.Actor) (*domain.Booking, error) {
	args := m.Called(ctx, reference, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) MarkNoShow(ctx context.Context, reference string, actor bookings.Actor) (*domain.Booking, error) {
	args := m.Called(ctx, reference, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) AddReview(ctx context.Context, reference string, actor bookings.Actor, rating int, review string) (*domain.Booking, error) {
	args := m.Called(ctx, reference, actor, rating, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, reference string, actor bookings.Actor) (*domain.Booking, error) {
	args := m.Called(ctx, reference, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListAllBookings(ctx context.Context, actor bookings.Actor) ([]domain.Booking, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) PromoteFreedSeats(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newBookingRouter(service bookings.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewBookingHandler(service)
	handler.Register(router.Group("/api/bookings"))
	handler.RegisterAdmin(router.Group("/api/admin"))
	return router
}

func TestBookingHandler_create_Confirmed(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	outcome := &bookings.Outcome{
		Booking: &domain.Booking{
			Reference:   "ref-1",
			UserID:      "user-1",
			ClassID:     4,
			BookingDate: "2025-06-02",
			Status:      domain.BookingStatusConfirmed,
			AmountCents: 2500,
		},
	}
	mockService.On("CreateBooking", mock.Anything, bookings.CreateBookingInput{
		UserID:  "user-1",
		ClassID: 4,
		Date:    "2025-06-02",
	}).Return(outcome, nil).Once()

	body, _ := json.Marshal(map[string]interface{}{"class_id": 4, "date": "2025-06-02"})
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ref-1", resp.Reference)
	assert.Equal(t, "confirmed", resp.Status)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_Waitlisted(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	mockService.On("CreateBooking", mock.Anything, mock.Anything).
		Return(&bookings.Outcome{Waitlisted: true, WaitlistPosition: 3}, nil).Once()

	body, _ := json.Marshal(map[string]interface{}{"class_id": 4, "date": "2025-06-02"})
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-2")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp waitlistResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.WaitlistPosition)
	assert.Contains(t, resp.Message, "waitlist")
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_Duplicate(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	mockService.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, domain.ErrDuplicateBooking).Once()

	body, _ := json.Marshal(map[string]interface{}{"class_id": 4, "date": "2025-06-02"})
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already have a booking")
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_ValidationErrorMapping(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	verr := &domain.ValidationError{}
	verr.Add("date", "date is required")
	mockService.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, verr).Once()

	body, _ := json.Marshal(map[string]interface{}{"class_id": 4})
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "date is required")
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_ForbiddenMapping(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	mockService.On("CancelBooking", mock.Anything, "ref-1", bookings.Actor{UserID: "intruder"}, "").
		Return(nil, domain.ErrForbidden).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/ref-1/cancel", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "intruder")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_NotFoundMapping(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	mockService.On("CancelBooking", mock.Anything, "missing", mock.Anything, "").
		Return(nil, domain.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/missing/cancel", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_complete_AdminHeaderPassedThrough(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	completed := &domain.Booking{Reference: "ref-1", UserID: "user-1", Status: domain.BookingStatusCompleted}
	mockService.On("CompleteBooking", mock.Anything, "ref-1", bookings.Actor{UserID: "admin-1", Admin: true}).
		Return(completed, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/ref-1/complete", nil)
	req.Header.Set("X-User-ID", "admin-1")
	req.Header.Set("X-User-Role", "admin")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_review(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	rating := 5
	reviewed := &domain.Booking{Reference: "ref-1", UserID: "user-1", Status: domain.BookingStatusCompleted, Rating: &rating, Review: "great"}
	mockService.On("AddReview", mock.Anything, "ref-1", bookings.Actor{UserID: "user-1"}, 5, "great").
		Return(reviewed, nil).Once()

	body, _ := json.Marshal(map[string]interface{}{"rating": 5, "review": "great"})
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/ref-1/review", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, *resp.Rating)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_exportAll_Forbidden(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	mockService.On("ListAllBookings", mock.Anything, bookings.Actor{UserID: "user-1"}).
		Return(nil, domain.ErrForbidden).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings/export", nil)
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_exportAll(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	mockService.On("ListAllBookings", mock.Anything, bookings.Actor{UserID: "admin-1", Admin: true}).
		Return([]domain.Booking{{Reference: "ref-1", UserID: "user-1", ClassID: 4}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings/export", nil)
	req.Header.Set("X-User-ID", "admin-1")
	req.Header.Set("X-User-Role", "admin")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())
	mockService.AssertExpectations(t)
}
