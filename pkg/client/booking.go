package client

import (
	"context"
	"net/url"
	"time"

	"studyhall/pkg/model"
)

const bookingsPath = "/api/v1/bookings"

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{httpClient: NewHttpClient(baseURL)}
}

type BookingListOptions struct {
	ListOptions
	SeatID    string
	StudentID string
	Status    string
}

// Create books a seat. A non-empty idempotencyKey makes retries safe.
func (c *BookingClient) Create(ctx context.Context, booking *model.Booking, idempotencyKey string) (*model.Booking, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{IdempotencyHeader: idempotencyKey}
	}
	return decodeData[model.Booking](c.httpClient.POSTWithHeaders(ctx, bookingsPath, booking, headers))
}

func (c *BookingClient) List(ctx context.Context, opts BookingListOptions) (*Page[model.Booking], error) {
	q := url.Values{}
	opts.apply(q)
	if opts.SeatID != "" {
		q.Set("seat_id", opts.SeatID)
	}
	if opts.StudentID != "" {
		q.Set("student_id", opts.StudentID)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	return decodePage[model.Booking](c.httpClient.GET(ctx, withQuery(bookingsPath, q)))
}

func (c *BookingClient) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return decodeData[model.Booking](c.httpClient.GET(ctx, bookingsPath+"/id/"+url.PathEscape(id)))
}

func (c *BookingClient) Update(ctx context.Context, id string, update *model.BookingUpdate) (*model.Booking, error) {
	return decodeData[model.Booking](c.httpClient.PUT(ctx, bookingsPath+"/id/"+url.PathEscape(id), update))
}

func (c *BookingClient) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return c.Update(ctx, id, &model.BookingUpdate{Status: model.BookingCancelled})
}

func (c *BookingClient) Delete(ctx context.Context, id string) error {
	return expectNoContent(c.httpClient.DELETE(ctx, bookingsPath+"/id/"+url.PathEscape(id)))
}

func (c *BookingClient) Summary(ctx context.Context, from, to *time.Time) (*model.BookingSummary, error) {
	q := url.Values{}
	setTime(q, "from", from)
	setTime(q, "to", to)
	return decodeData[model.BookingSummary](c.httpClient.GET(ctx, withQuery(bookingsPath+"/summary", q)))
}
