package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	apperrors "studyhall/pkg/errors"
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
)

const bookingID = "65f000000000000000000002"

type mockBookingService struct {
	createFunc  func(ctx context.Context, booking *model.Booking) error
	getAllFunc  func(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	updateFunc  func(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	summaryFunc func(ctx context.Context, from, to *time.Time) (*model.BookingSummary, error)
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) GetAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, filter, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockBookingService) Summary(ctx context.Context, from, to *time.Time) (*model.BookingSummary, error) {
	if m.summaryFunc != nil {
		return m.summaryFunc(ctx, from, to)
	}
	return &model.BookingSummary{}, nil
}

func newRouter(svc *mockBookingService) *httprouter.Router {
	h := &BookingHandler{
		service: svc,
		log:     logger.Discard(),
	}
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreate_StatusCodes(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			switch booking.StudentID {
			case "clash":
				return apperrors.Conflict("Booking overlaps with existing booking")
			case "ghost-seat":
				return apperrors.NotFoundWithID("Seat", booking.SeatID)
			}
			booking.ID = bookingID
			return nil
		},
	}
	router := newRouter(svc)
	body := func(student string) string {
		return `{"seat_id":"65f000000000000000000001","student_id":"` + student +
			`","start_time":"2026-03-10T09:00:00Z","end_time":"2026-03-10T17:00:00Z"}`
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"created", body("s-1"), http.StatusCreated},
		{"overlap", body("clash"), http.StatusConflict},
		{"unknown seat", body("ghost-seat"), http.StatusNotFound},
		{"bad time", `{"start_time":"yesterday"}`, http.StatusBadRequest},
		{"empty body", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(router, http.MethodPost, "/api/v1/bookings", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestGetAll_Filters(t *testing.T) {
	var got model.BookingFilter
	svc := &mockBookingService{
		getAllFunc: func(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
			got = filter
			return []*model.Booking{}, 0, nil
		},
	}
	router := newRouter(svc)

	rec := do(router, http.MethodGet,
		"/api/v1/bookings?seat_id=65f000000000000000000001&student_id=s-1&status=active&from=2026-03-01&to=2026-04-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got.SeatID != "65f000000000000000000001" || got.StudentID != "s-1" || got.Status != model.BookingActive {
		t.Errorf("filter = %+v", got)
	}
	if got.From == nil || got.To == nil {
		t.Fatalf("range not passed: %+v", got)
	}

	for _, q := range []string{"?seat_id=nope", "?from=2026-04-01&to=2026-03-01", "?limit=ten"} {
		rec := do(router, http.MethodGet, "/api/v1/bookings"+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestUpdate_RejectsSeatChange(t *testing.T) {
	called := false
	svc := &mockBookingService{
		updateFunc: func(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
			called = true
			return &model.Booking{ID: id}, nil
		},
	}
	rec := do(newRouter(svc), http.MethodPut, "/api/v1/bookings/id/"+bookingID, `{"seat_id":"65f000000000000000000009"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if called {
		t.Error("service must not be called")
	}
}

func TestSummary_PassesRange(t *testing.T) {
	var from, to *time.Time
	svc := &mockBookingService{
		summaryFunc: func(ctx context.Context, f, tt *time.Time) (*model.BookingSummary, error) {
			from, to = f, tt
			return &model.BookingSummary{TotalBookings: 4}, nil
		},
	}
	rec := do(newRouter(svc), http.MethodGet, "/api/v1/bookings/summary?from=2026-03-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if from == nil || to != nil {
		t.Errorf("range = %v..%v", from, to)
	}
}

func TestDelete_MalformedID(t *testing.T) {
	rec := do(newRouter(&mockBookingService{}), http.MethodDelete, "/api/v1/bookings/id/xyz", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
