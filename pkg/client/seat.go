package client

import (
	"context"
	"net/url"
	"time"

	"studyhall/pkg/model"
)

const seatsPath = "/api/v1/seats"

type SeatClient struct {
	httpClient *HttpClient
}

func NewSeatClient(baseURL string) *SeatClient {
	return &SeatClient{httpClient: NewHttpClient(baseURL)}
}

type SeatListOptions struct {
	ListOptions
	Status string
	Type   string
}

func (c *SeatClient) Create(ctx context.Context, seat *model.Seat) (*model.Seat, error) {
	return decodeData[model.Seat](c.httpClient.POST(ctx, seatsPath, seat))
}

func (c *SeatClient) List(ctx context.Context, opts SeatListOptions) (*Page[model.Seat], error) {
	q := url.Values{}
	opts.apply(q)
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Type != "" {
		q.Set("type", opts.Type)
	}
	return decodePage[model.Seat](c.httpClient.GET(ctx, withQuery(seatsPath, q)))
}

func (c *SeatClient) GetByID(ctx context.Context, id string) (*model.Seat, error) {
	return decodeData[model.Seat](c.httpClient.GET(ctx, seatsPath+"/id/"+url.PathEscape(id)))
}

func (c *SeatClient) Update(ctx context.Context, id string, update *model.SeatUpdate) (*model.Seat, error) {
	return decodeData[model.Seat](c.httpClient.PUT(ctx, seatsPath+"/id/"+url.PathEscape(id), update))
}

func (c *SeatClient) UpdateStatus(ctx context.Context, id, status string) (*model.Seat, error) {
	body := model.SeatStatusUpdate{Status: status}
	return decodeData[model.Seat](c.httpClient.PUT(ctx, seatsPath+"/id/"+url.PathEscape(id)+"/status", body))
}

func (c *SeatClient) Delete(ctx context.Context, id string) error {
	return expectNoContent(c.httpClient.DELETE(ctx, seatsPath+"/id/"+url.PathEscape(id)))
}

func (c *SeatClient) Types(ctx context.Context) ([]model.SeatTypeInfo, error) {
	types, err := decodeData[[]model.SeatTypeInfo](c.httpClient.GET(ctx, seatsPath+"/types"))
	if err != nil {
		return nil, err
	}
	return *types, nil
}

func (c *SeatClient) Summary(ctx context.Context) (*model.SeatSummary, error) {
	return decodeData[model.SeatSummary](c.httpClient.GET(ctx, seatsPath+"/summary"))
}

func (c *SeatClient) Availability(ctx context.Context, id string, from, to *time.Time) (*model.SeatAvailability, error) {
	q := url.Values{}
	setTime(q, "from", from)
	setTime(q, "to", to)
	path := withQuery(seatsPath+"/id/"+url.PathEscape(id)+"/availability", q)
	return decodeData[model.SeatAvailability](c.httpClient.GET(ctx, path))
}
