// Package store is the in-memory data layer of the development API server.
// It exists so the client can run end-to-end locally; nothing is persisted
// across restarts.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"clinicbook/internal/clinic"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	ErrNotFound   = errors.New("not found")
	ErrSlotTaken  = errors.New("slot already booked")
)

// User is an account record. Only the server sees the password hash.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         clinic.Role
	PasswordHash string
	CreatedAt    time.Time
}

// Store holds all server state behind one mutex. Appointment and review
// order is insertion order.
type Store struct {
	mu           sync.RWMutex
	users        map[string]*User
	idByEmail    map[string]string
	appointments []clinic.Appointment
	reviews      []clinic.Review
	services     []clinic.Service
	now          func() time.Time
}

// New builds an empty store with the service catalogue seeded.
func New() *Store {
	return &Store{
		users:     make(map[string]*User),
		idByEmail: make(map[string]string),
		services:  seedServices(),
		now:       time.Now,
	}
}

func seedServices() []clinic.Service {
	return []clinic.Service{
		{ID: "svc-physio", Name: "Physiotherapy", Description: "Assessment and treatment of movement disorders.", IconName: "PhysioIcon"},
		{ID: "svc-sports", Name: "Sports Massage", Description: "Deep tissue massage for recovery and performance.", IconName: "SportsIcon"},
		{ID: "svc-rehab", Name: "Post-surgery Rehabilitation", Description: "Guided recovery programmes after surgery.", IconName: "RehabIcon"},
		{ID: "svc-acu", Name: "Acupuncture", Description: "Needle therapy for pain management.", IconName: "AcuIcon"},
	}
}

// CreateUser registers a new account. The email must be unused.
func (s *Store) CreateUser(name, email, phone, passwordHash string, role clinic.Role) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.idByEmail[email]; taken {
		return nil, ErrEmailTaken
	}
	u := &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}
	s.users[u.ID] = u
	s.idByEmail[u.Email] = u.ID
	return u, nil
}

// UserByEmail looks an account up for login.
func (s *Store) UserByEmail(email string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.idByEmail[email]
	if !ok {
		return nil, false
	}
	u := *s.users[id]
	return &u, true
}

// UserByID looks an account up for authenticated requests.
func (s *Store) UserByID(id string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	copied := *u
	return &copied, true
}

// RemoveUser deletes an account, leaving its appointments orphaned. The
// admin listing then carries a null owner for them.
func (s *Store) RemoveUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		delete(s.idByEmail, u.Email)
		delete(s.users, id)
	}
}

// slotGrid is the bookable grid for any date: hourly, nine to five.
func slotGrid() []string {
	slots := make([]string, 0, 8)
	for h := 9; h < 17; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return slots
}

// AvailableSlots returns the grid minus slots already taken on date by a
// non-cancelled appointment.
func (s *Store) AvailableSlots(date string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	taken := make(map[string]bool)
	for _, a := range s.appointments {
		if a.Date == date && a.Status != clinic.StatusCancelled {
			taken[a.Time] = true
		}
	}
	out := make([]string, 0, 8)
	for _, slot := range slotGrid() {
		if !taken[slot] {
			out = append(out, slot)
		}
	}
	return out
}

// CreateAppointment books a slot for user uid. The slot must still be free;
// status always starts Upcoming.
func (s *Store) CreateAppointment(uid, service string, visitType clinic.VisitType, date, slot, address string) (clinic.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.appointments {
		if a.Date == date && a.Time == slot && a.Status != clinic.StatusCancelled {
			return clinic.Appointment{}, ErrSlotTaken
		}
	}
	now := s.now().UTC().Format(time.RFC3339)
	appt := clinic.Appointment{
		ID:        uuid.New().String(),
		UserID:    uid,
		Service:   service,
		Type:      visitType,
		Date:      date,
		Time:      slot,
		Address:   address,
		Status:    clinic.StatusUpcoming,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.appointments = append(s.appointments, appt)
	return appt, nil
}

// AppointmentsByUser lists uid's own appointments.
func (s *Store) AppointmentsByUser(uid string) []clinic.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]clinic.Appointment, 0)
	for _, a := range s.appointments {
		if a.UserID == uid {
			out = append(out, a)
		}
	}
	return out
}

// AppointmentByID returns one appointment.
func (s *Store) AppointmentByID(id string) (clinic.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appointments {
		if a.ID == id {
			return a, true
		}
	}
	return clinic.Appointment{}, false
}

// UpdateAppointment applies a partial update: a new status, a new arrival
// delay, or both. Authorization is the handler's job.
func (s *Store) UpdateAppointment(id string, status *clinic.Status, delay *string) (clinic.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID != id {
			continue
		}
		if status != nil {
			s.appointments[i].Status = *status
		}
		if delay != nil {
			s.appointments[i].DoctorArrivalDelay = *delay
		}
		s.appointments[i].UpdatedAt = s.now().UTC().Format(time.RFC3339)
		return s.appointments[i], nil
	}
	return clinic.Appointment{}, ErrNotFound
}

// AllWithOwners joins every appointment with its owner for the admin
// listing. Appointments whose owner no longer exists carry a nil owner.
func (s *Store) AllWithOwners() []clinic.AppointmentWithOwner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]clinic.AppointmentWithOwner, 0, len(s.appointments))
	for _, a := range s.appointments {
		var owner *clinic.Owner
		if u, ok := s.users[a.UserID]; ok {
			owner = &clinic.Owner{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		out = append(out, clinic.AppointmentWithOwner{
			ID:                 a.ID,
			Owner:              owner,
			Service:            a.Service,
			Type:               a.Type,
			Date:               a.Date,
			Time:               a.Time,
			Address:            a.Address,
			Status:             a.Status,
			DoctorArrivalDelay: a.DoctorArrivalDelay,
			CreatedAt:          a.CreatedAt,
			UpdatedAt:          a.UpdatedAt,
		})
	}
	return out
}

// Services returns the seeded catalogue.
func (s *Store) Services() []clinic.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]clinic.Service(nil), s.services...)
}

// Reviews lists all feedback, newest first.
func (s *Store) Reviews() []clinic.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]clinic.Review, len(s.reviews))
	for i, r := range s.reviews {
		out[len(s.reviews)-1-i] = r
	}
	return out
}

// AddReview stores one piece of feedback.
func (s *Store) AddReview(author clinic.ReviewAuthor, rating int, comment string) clinic.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := clinic.Review{
		ID:        uuid.New().String(),
		Author:    author,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	s.reviews = append(s.reviews, r)
	return r
}
