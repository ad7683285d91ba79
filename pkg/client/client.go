// Package client is a typed Go client for the studyhall API.
package client

// Client groups the per-resource clients over one HTTP connection pool.
type Client struct {
	HTTP       *HttpClient
	Seats      *SeatClient
	Bookings   *BookingClient
	Financials *FinancialClient
	Operations *OperationClient
	Sessions   *SessionClient
}

func New(baseURL string) *Client {
	h := NewHttpClient(baseURL)
	return &Client{
		HTTP:       h,
		Seats:      &SeatClient{httpClient: h},
		Bookings:   &BookingClient{httpClient: h},
		Financials: &FinancialClient{httpClient: h},
		Operations: &OperationClient{httpClient: h},
		Sessions:   &SessionClient{httpClient: h},
	}
}
