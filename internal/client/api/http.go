package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"clinicbook/internal/clinic"
)

// TokenFunc supplies the current bearer token, or "" when nobody is logged
// in. It is consulted on every request so a login mid-session takes effect
// immediately.
type TokenFunc func() string

// UnauthorizedFunc is invoked once per 401 response, before the call returns
// ErrUnauthorized.
type UnauthorizedFunc func()

// HTTPGateway implements Gateway over net/http against the clinic REST API.
type HTTPGateway struct {
	baseURL        string
	client         *http.Client
	token          TokenFunc
	onUnauthorized UnauthorizedFunc
}

var _ Gateway = (*HTTPGateway)(nil)

// Option customizes an HTTPGateway.
type Option func(*HTTPGateway)

// WithHTTPClient replaces the underlying HTTP client, usually to set a
// request timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(g *HTTPGateway) { g.client = c }
}

// WithToken installs the bearer-token supplier.
func WithToken(fn TokenFunc) Option {
	return func(g *HTTPGateway) { g.token = fn }
}

// WithUnauthorizedPolicy installs the global 401 reaction.
func WithUnauthorizedPolicy(fn UnauthorizedFunc) Option {
	return func(g *HTTPGateway) { g.onUnauthorized = fn }
}

// NewHTTPGateway builds a gateway rooted at baseURL, which includes the
// API prefix, e.g. "http://localhost:5000/api".
func NewHTTPGateway(baseURL string, opts ...Option) *HTTPGateway {
	g := &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// do performs one API call: marshal body, attach the bearer token, run the
// 401 policy, map rejections to typed errors and decode the response into
// out. It never retries.
func (g *HTTPGateway) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != nil {
		if tok := g.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if g.onUnauthorized != nil {
			g.onUnauthorized()
		}
		return ErrUnauthorized
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &StatusError{Code: resp.StatusCode, Message: apiMessage(data, resp.StatusCode)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// apiMessage extracts the server's error message, falling back to the
// status text when the body carries none.
func apiMessage(data []byte, code int) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return http.StatusText(code)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for an identity. A 2xx response without a
// token is treated as "no identity": the caller decides what that means.
func (g *HTTPGateway) Login(ctx context.Context, email, password string) (*clinic.Identity, error) {
	var id clinic.Identity
	err := g.do(ctx, http.MethodPost, "/auth/login", nil, credentials{Email: email, Password: password}, &id)
	if err != nil {
		return nil, err
	}
	if id.Token == "" {
		return nil, nil
	}
	return &id, nil
}

// Register creates an account, under the same identity contract as Login.
func (g *HTTPGateway) Register(ctx context.Context, req RegisterRequest) (*clinic.Identity, error) {
	var id clinic.Identity
	if err := g.do(ctx, http.MethodPost, "/auth/register", nil, req, &id); err != nil {
		return nil, err
	}
	if id.Token == "" {
		return nil, nil
	}
	return &id, nil
}

// Services fetches the treatment catalogue.
func (g *HTTPGateway) Services(ctx context.Context) ([]clinic.Service, error) {
	var out []clinic.Service
	if err := g.do(ctx, http.MethodGet, "/services", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AvailableSlots fetches the free time slots for date (YYYY-MM-DD).
func (g *HTTPGateway) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	var out []string
	q := url.Values{"date": {date}}
	if err := g.do(ctx, http.MethodGet, "/appointments/slots", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BookAppointment creates an appointment for the logged-in patient.
func (g *HTTPGateway) BookAppointment(ctx context.Context, req BookingRequest) (*clinic.Appointment, error) {
	var out clinic.Appointment
	if err := g.do(ctx, http.MethodPost, "/appointments", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyAppointments lists the logged-in patient's appointments.
func (g *HTTPGateway) MyAppointments(ctx context.Context) ([]clinic.Appointment, error) {
	var out []clinic.Appointment
	if err := g.do(ctx, http.MethodGet, "/appointments", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAppointment applies a partial update to one appointment. The server
// decides what the caller's role permits.
func (g *HTTPGateway) UpdateAppointment(ctx context.Context, id string, upd AppointmentUpdate) (*clinic.Appointment, error) {
	var out clinic.Appointment
	if err := g.do(ctx, http.MethodPut, "/appointments/"+id, nil, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllAppointments lists every appointment with its owner. Admin only.
func (g *HTTPGateway) AllAppointments(ctx context.Context) ([]clinic.AppointmentWithOwner, error) {
	var out []clinic.AppointmentWithOwner
	if err := g.do(ctx, http.MethodGet, "/appointments/all", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reviews fetches all feedback, newest first.
func (g *HTTPGateway) Reviews(ctx context.Context) ([]clinic.Review, error) {
	var out []clinic.Review
	if err := g.do(ctx, http.MethodGet, "/feedback", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// SubmitReview posts feedback from the logged-in patient.
func (g *HTTPGateway) SubmitReview(ctx context.Context, rating int, comment string) (*clinic.Review, error) {
	var out clinic.Review
	if err := g.do(ctx, http.MethodPost, "/feedback", nil, reviewRequest{Rating: rating, Comment: comment}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
