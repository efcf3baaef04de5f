// Package api is the client's single gateway to the clinic REST API. It owns
// request shaping, bearer-token injection and the global 401 policy; every
// other client package talks to the server through the Gateway interface.
package api

import (
	"context"

	"clinicbook/internal/clinic"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// BookingRequest creates an appointment. Address accompanies home visits
// only and is omitted from the payload otherwise.
type BookingRequest struct {
	Service string           `json:"service"`
	Type    clinic.VisitType `json:"type"`
	Date    string           `json:"date"`
	Time    string           `json:"time"`
	Address string           `json:"address,omitempty"`
}

// AppointmentUpdate is a partial update: nil fields stay untouched
// server-side. Clearing the arrival delay is sending an empty non-nil Delay.
type AppointmentUpdate struct {
	Status *clinic.Status `json:"status,omitempty"`
	Delay  *string        `json:"doctorArrivalDelay,omitempty"`
}

// Gateway is the transport-agnostic API surface consumed by the session
// store, the booking wizard and the views.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*clinic.Identity, error)
	Register(ctx context.Context, req RegisterRequest) (*clinic.Identity, error)

	Services(ctx context.Context) ([]clinic.Service, error)
	AvailableSlots(ctx context.Context, date string) ([]string, error)
	BookAppointment(ctx context.Context, req BookingRequest) (*clinic.Appointment, error)
	MyAppointments(ctx context.Context) ([]clinic.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, upd AppointmentUpdate) (*clinic.Appointment, error)
	AllAppointments(ctx context.Context) ([]clinic.AppointmentWithOwner, error)

	Reviews(ctx context.Context) ([]clinic.Review, error)
	SubmitReview(ctx context.Context, rating int, comment string) (*clinic.Review, error)
}
