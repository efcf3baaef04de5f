package clinic

import "strings"

// VisitType distinguishes appointments at the clinic from home visits.
// The wire values match the API contract exactly.
type VisitType string

const (
	ClinicVisit VisitType = "Clinic Visit"
	HomeVisit   VisitType = "Home Visit"
)

// Valid reports whether t is one of the known visit types.
func (t VisitType) Valid() bool {
	switch t {
	case ClinicVisit, HomeVisit:
		return true
	}
	return false
}

// RequiresAddress reports whether an appointment of this type needs a
// patient address. Only home visits do.
func (t VisitType) RequiresAddress() bool {
	switch t {
	case HomeVisit:
		return true
	case ClinicVisit:
		return false
	}
	return false
}

// Status is the appointment lifecycle state. An appointment starts Upcoming;
// Completed and Cancelled are terminal.
type Status string

const (
	StatusUpcoming  Status = "Upcoming"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled:
		return true
	case StatusUpcoming:
		return false
	}
	return false
}

// CanTransition reports whether the lifecycle permits moving from s to next.
// The only forward edges are Upcoming→Completed and Upcoming→Cancelled.
func (s Status) CanTransition(next Status) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case StatusCompleted, StatusCancelled:
		return true
	case StatusUpcoming:
		return false
	}
	return false
}

// AllStatuses lists every status, in the order the admin view offers them.
func AllStatuses() []Status {
	return []Status{StatusUpcoming, StatusCompleted, StatusCancelled}
}

// Appointment is a booked visit as held by the client: a transient,
// refetchable copy owned by the API. Address is set only for home visits.
// DoctorArrivalDelay is free text set by an administrator and is meaningful
// to the patient only while the appointment is Upcoming.
type Appointment struct {
	ID                 string    `json:"_id"`
	UserID             string    `json:"user"`
	Service            string    `json:"service"`
	Type               VisitType `json:"type"`
	Date               string    `json:"date"` // YYYY-MM-DD
	Time               string    `json:"time"` // slot label, e.g. "09:00"
	Address            string    `json:"address,omitempty"`
	Status             Status    `json:"status"`
	DoctorArrivalDelay string    `json:"doctorArrivalDelay,omitempty"`
	CreatedAt          string    `json:"createdAt"`
	UpdatedAt          string    `json:"updatedAt"`
}

// OwnerCanCancel reports whether the owning patient may cancel the
// appointment. Cancellation is offered only while the appointment is
// Upcoming; terminal appointments are immutable through the owner path.
func (a *Appointment) OwnerCanCancel() bool {
	return a.Status == StatusUpcoming
}

// OwnerCanReview reports whether the owning patient should be offered the
// "leave review" action, i.e. the appointment has been completed.
func (a *Appointment) OwnerCanReview() bool {
	return a.Status == StatusCompleted
}

// ShowsDelayBanner reports whether the patient should see the arrival-delay
// notice: only while Upcoming and only when a delay has been set.
func (a *Appointment) ShowsDelayBanner() bool {
	return a.Status == StatusUpcoming && a.DoctorArrivalDelay != ""
}

// Owner is the denormalized owner record attached to appointments in the
// administrator listing.
type Owner struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AppointmentWithOwner is an appointment joined with its owner, used only by
// the administrator views.
type AppointmentWithOwner struct {
	ID                 string    `json:"_id"`
	Owner              *Owner    `json:"user"`
	Service            string    `json:"service"`
	Type               VisitType `json:"type"`
	Date               string    `json:"date"`
	Time               string    `json:"time"`
	Address            string    `json:"address,omitempty"`
	Status             Status    `json:"status"`
	DoctorArrivalDelay string    `json:"doctorArrivalDelay,omitempty"`
	CreatedAt          string    `json:"createdAt"`
	UpdatedAt          string    `json:"updatedAt"`
}

// FilterForAdmin applies the administrator listing rules to appts:
//
//   - entries whose owner reference is missing are dropped rather than
//     rendered with holes;
//   - query, if non-empty, must match the owner name or email as a
//     case-insensitive substring;
//   - status, if non-empty, must match exactly;
//   - both filters are AND-ed.
func FilterForAdmin(appts []AppointmentWithOwner, query string, status Status) []AppointmentWithOwner {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]AppointmentWithOwner, 0, len(appts))
	for _, a := range appts {
		if a.Owner == nil {
			continue
		}
		if q != "" {
			name := strings.ToLower(a.Owner.Name)
			email := strings.ToLower(a.Owner.Email)
			if !strings.Contains(name, q) && !strings.Contains(email, q) {
				continue
			}
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out
}
