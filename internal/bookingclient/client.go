// Package bookingclient submits bookings to the booking API and drives the
// customer-facing submission flow.
package bookingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ruralride/internal/domain"
	"ruralride/internal/fare"
)

// ErrTransport is returned when the API could not be reached or answered with an unreadable body.
var ErrTransport = errors.New("booking api unreachable")

const fallbackMessage = "An error occurred"

// Submission is the booking form as sent to POST /api/bookings.
type Submission struct {
	PickupLocation string `json:"pickupLocation"`
	DropLocation   string `json:"dropLocation"`
	VehicleType    string `json:"vehicleType"`
	DateTime       string `json:"dateTime"`
	PaymentMethod  string `json:"paymentMethod"`
	EstimatedFare  string `json:"estimatedFare"`
	CustomerName   string `json:"customerName"`
	CustomerPhone  string `json:"customerPhone"`
}

// FieldError is one field the server rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("booking api: %d %s", e.Status, e.Message)
}

// FareTable is the rate table published by GET /api/fares.
type FareTable struct {
	DistanceKm float64      `json:"distanceKm"`
	Fares      []fare.Quote `json:"fares"`
}

// Client talks to the booking API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for baseURL. A nil httpClient uses a client with a 15s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// CreateBooking submits a booking and returns the stored record.
func (c *Client) CreateBooking(ctx context.Context, sub Submission) (*domain.Booking, error) {
	var booking domain.Booking
	if err := c.do(ctx, http.MethodPost, "/api/bookings", sub, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListBookings returns every stored booking.
func (c *Client) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	if err := c.do(ctx, http.MethodGet, "/api/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Fares returns the server's rate table.
func (c *Client) Fares(ctx context.Context) (*FareTable, error) {
	var table FareTable
	if err := c.do(ctx, http.MethodGet, "/api/fares", nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrTransport, err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) *APIError {
	var payload struct {
		Message string       `json:"message"`
		Errors  []FieldError `json:"errors"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Message == "" {
		return &APIError{Status: status, Message: fallbackMessage}
	}
	return &APIError{Status: status, Message: payload.Message, Fields: payload.Errors}
}
