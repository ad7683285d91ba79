package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhall/pkg/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func writeBody(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestSeatClient_Create(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/seats", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var seat model.Seat
		require.NoError(t, json.NewDecoder(r.Body).Decode(&seat))
		seat.ID = "6650f0c2a1b2c3d4e5f60718"
		writeBody(w, http.StatusCreated, map[string]any{"data": seat})
	})

	got, err := c.Seats.Create(context.Background(), &model.Seat{SeatNumber: "A1", Type: model.SeatRegular, Price: 10})
	require.NoError(t, err)
	assert.Equal(t, "6650f0c2a1b2c3d4e5f60718", got.ID)
	assert.Equal(t, "A1", got.SeatNumber)
}

func TestSeatClient_ListSendsFilters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "available", q.Get("status"))
		assert.Equal(t, "premium", q.Get("type"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "10", q.Get("offset"))
		writeBody(w, http.StatusOK, map[string]any{
			"data":        []model.Seat{{SeatNumber: "P1"}},
			"total_count": 11,
			"limit":       5,
			"offset":      10,
		})
	})

	page, err := c.Seats.List(context.Background(), SeatListOptions{
		ListOptions: ListOptions{Limit: 5, Offset: 10},
		Status:      model.SeatAvailable,
		Type:        model.SeatPremium,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), page.TotalCount)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "P1", page.Data[0].SeatNumber)
}

func TestBookingClient_CreateSendsIdempotencyKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-1", r.Header.Get(IdempotencyHeader))
		writeBody(w, http.StatusCreated, map[string]any{"data": model.Booking{ID: "b1", Status: model.BookingActive}})
	})

	got, err := c.Bookings.Create(context.Background(), &model.Booking{SeatID: "s1"}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "b1", got.ID)
}

func TestBookingClient_SummaryFormatsRange(t *testing.T) {
	from := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bookings/summary", r.URL.Path)
		assert.Equal(t, "2026-03-01T09:00:00Z", r.URL.Query().Get("from"))
		assert.Equal(t, "2026-03-03T09:00:00Z", r.URL.Query().Get("to"))
		writeBody(w, http.StatusOK, map[string]any{"data": model.BookingSummary{TotalBookings: 3, Revenue: 45}})
	})

	summary, err := c.Bookings.Summary(context.Background(), &from, &to)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalBookings)
	assert.Equal(t, 45.0, summary.Revenue)
}

func TestClient_APIError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "structured error",
			status:   http.StatusConflict,
			body:     `{"code":"CONFLICT","error":"seat is already booked"}`,
			wantCode: "CONFLICT",
			wantMsg:  "seat is already booked",
		},
		{
			name:     "plain text error",
			status:   http.StatusBadGateway,
			body:     "upstream down",
			wantCode: http.StatusText(http.StatusBadGateway),
			wantMsg:  "upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Seats.GetByID(context.Background(), "6650f0c2a1b2c3d4e5f60718")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestClient_DeleteExpectsNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/operations/id/abc", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Operations.Delete(context.Background(), "abc"))
}

func TestFinancialClient_SummaryBucket(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/financial-records/summary", r.URL.Path)
		assert.Equal(t, "week", r.URL.Query().Get("bucket"))
		assert.Equal(t, "income", r.URL.Query().Get("type"))
		writeBody(w, http.StatusOK, map[string]any{"data": model.FinancialSummary{Bucket: "week", Net: 12.5}})
	})

	summary, err := c.Financials.Summary(context.Background(), LedgerListOptions{Type: model.FinancialIncome}, model.BucketWeek)
	require.NoError(t, err)
	assert.Equal(t, "week", summary.Bucket)
	assert.Equal(t, 12.5, summary.Net)
}

func TestSessionClient_RevokeAll(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sessions/user/user-7", r.URL.Path)
		writeBody(w, http.StatusOK, map[string]any{"data": RevokeAllResult{UserID: "user-7", Revoked: 2}})
	})

	res, err := c.Sessions.RevokeAll(context.Background(), "user-7")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Revoked)
}

func TestWaitForHealthy(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.HTTP.WaitForHealthy(context.Background(), 5*time.Second))
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}
