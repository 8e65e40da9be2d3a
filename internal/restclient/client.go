// Package restclient implements booking.Store against a courtside REST server.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/javiermolinar/courtside/internal/booking"
	bookingHttp "github.com/javiermolinar/courtside/internal/booking/http"
)

const userAgent = "Courtside/1.0"

// Client talks to the /v1/bookings endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid remote url %q", baseURL)
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// ListBookings implements booking.Store.
func (c *Client) ListBookings(ctx context.Context, resourceIDs []string, from, to time.Time) ([]booking.Record, error) {
	q := url.Values{}
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))
	for _, id := range resourceIDs {
		q.Add("resource_id", id)
	}

	var resp bookingHttp.ListBookingsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/bookings?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}

	records := make([]booking.Record, len(resp.Items))
	for i, item := range resp.Items {
		records[i] = toRecord(item)
	}
	return records, nil
}

// GetBooking implements booking.Store.
func (c *Client) GetBooking(ctx context.Context, id string) (*booking.Record, error) {
	var resp bookingHttp.BookingResponse
	if err := c.do(ctx, http.MethodGet, "/v1/bookings/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("getting booking %s: %w", id, err)
	}
	rec := toRecord(resp)
	return &rec, nil
}

// CreateBooking implements booking.Store. The server assigns the ID when empty.
func (c *Client) CreateBooking(ctx context.Context, rec *booking.Record) error {
	body := bookingHttp.CreateBookingRequest{
		ID:            rec.ID,
		ResourceID:    rec.ResourceID,
		StartTime:     rec.Start.UTC(),
		EndTime:       rec.End.UTC(),
		Status:        string(rec.Status),
		BookingType:   rec.Type,
		Color:         rec.Color,
		Price:         rec.Price,
		PaymentStatus: rec.PaymentStatus,
		CategoryName:  rec.CategoryName,
		CustomerName:  rec.CustomerName,
		CreatedBy:     rec.CreatedBy,
		Notes:         rec.Notes,
	}

	var resp bookingHttp.BookingResponse
	if err := c.do(ctx, http.MethodPost, "/v1/bookings", body, &resp); err != nil {
		if errors.Is(err, errConflict) {
			return fmt.Errorf("%w: %w", booking.ErrBookingOverlap, err)
		}
		return fmt.Errorf("creating booking: %w", err)
	}
	*rec = toRecord(resp)
	return nil
}

// MoveBooking implements booking.Store. Every refusal is reported as
// booking.ErrMutationRejected.
func (c *Client) MoveBooking(ctx context.Context, id, resourceID string, start, end time.Time) error {
	body := bookingHttp.MoveBookingRequest{
		ResourceID: resourceID,
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
	}
	err := c.do(ctx, http.MethodPatch, "/v1/bookings/"+url.PathEscape(id)+"/move", body, nil)
	if err == nil {
		return nil
	}

	var se *StatusError
	if errors.As(err, &se) && se.Code < 500 {
		return fmt.Errorf("%w: %w", booking.ErrMutationRejected, err)
	}
	return fmt.Errorf("moving booking %s: %w", id, err)
}

// CancelBooking implements booking.Store.
func (c *Client) CancelBooking(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/v1/bookings/"+url.PathEscape(id), nil, nil)
	if errors.Is(err, errConflict) {
		return fmt.Errorf("%w: %w", booking.ErrAlreadyCancelled, err)
	}
	if err != nil {
		return fmt.Errorf("cancelling booking %s: %w", id, err)
	}
	return nil
}

// Close implements booking.Store.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

var errConflict = errors.New("conflict")

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Is maps status codes onto the store's sentinel errors.
func (e *StatusError) Is(target error) bool {
	switch e.Code {
	case http.StatusNotFound:
		return target == booking.ErrNotFound
	case http.StatusConflict:
		return target == errConflict
	case http.StatusBadRequest:
		return target == booking.ErrInvalidRange
	}
	return false
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &payload) != nil || payload.Error == "" {
			payload.Error = strings.TrimSpace(string(data))
		}
		return &StatusError{Code: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func toRecord(r bookingHttp.BookingResponse) booking.Record {
	return booking.Record{
		ID:         r.ID,
		ResourceID: r.ResourceID,
		Start:      r.StartTime,
		End:        r.EndTime,
		CreatedAt:  r.CreatedAt,
		Details:    r.Details,
	}
}
