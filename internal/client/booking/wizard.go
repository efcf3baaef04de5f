// Package booking implements the two-step appointment wizard: service and
// visit-type selection first, then date and time-slot selection. The wizard
// owns its own state so going back never loses entered values, and it guards
// against stale slot-fetch results when the user changes the date while a
// fetch is still in flight.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clinicbook/internal/client/api"
	"clinicbook/internal/clinic"
	"clinicbook/internal/common"
)

// Step identifies the wizard page being shown.
type Step int

const (
	// StepDetails collects service, visit type and (for home visits) address.
	StepDetails Step = 1
	// StepSchedule collects date and time slot and confirms the booking.
	StepSchedule Step = 2
)

var (
	// ErrNoSlotSelected blocks confirmation until a slot is chosen.
	ErrNoSlotSelected = errors.New("no time slot selected")
	// ErrSubmitInFlight blocks confirmation while a submission is running.
	ErrSubmitInFlight = errors.New("booking already in progress")
	// ErrUnknownSlot rejects slot selections outside the fetched set.
	ErrUnknownSlot = errors.New("slot not in the available set")
)

// SlotFetcher loads the bookable slots for a calendar date.
type SlotFetcher func(ctx context.Context, date string) ([]string, error)

// Booker submits a completed booking request.
type Booker func(ctx context.Context, req api.BookingRequest) (*clinic.Appointment, error)

// Wizard is the booking flow state machine. All exported methods are safe
// for use from the UI plus the internal slot-fetch goroutine.
type Wizard struct {
	fetchSlots SlotFetcher
	book       Booker
	now        func() time.Time

	mu           sync.Mutex
	step         Step
	service      string
	visitType    clinic.VisitType
	address      string
	date         string
	slots        []string
	slotsLoading bool
	slotsErr     error
	selectedSlot string
	submitting   bool
	confirmed    *clinic.Appointment
	cancelFetch  context.CancelFunc
}

// New builds a wizard on StepDetails with the visit type defaulted to a
// clinic visit.
func New(fetch SlotFetcher, book Booker) *Wizard {
	return &Wizard{
		fetchSlots: fetch,
		book:       book,
		now:        time.Now,
		step:       StepDetails,
		visitType:  clinic.ClinicVisit,
	}
}

// Step returns the page currently shown.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// SetService records the chosen service.
func (w *Wizard) SetService(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.service = name
}

// SetVisitType records the visit type. Unknown values are rejected.
func (w *Wizard) SetVisitType(t clinic.VisitType) error {
	if !t.Valid() {
		return common.NewValidationError("type", "unknown visit type")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visitType = t
	return nil
}

// SetAddress records the home-visit address.
func (w *Wizard) SetAddress(addr string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.address = addr
}

// Service returns the chosen service name.
func (w *Wizard) Service() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.service
}

// VisitType returns the chosen visit type.
func (w *Wizard) VisitType() clinic.VisitType {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visitType
}

// Address returns the entered address.
func (w *Wizard) Address() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.address
}

// Date returns the selected calendar date, if any.
func (w *Wizard) Date() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.date
}

// Advance moves from StepDetails to StepSchedule. It is blocked until a
// service is chosen and, for home visits, an address is entered.
func (w *Wizard) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepDetails {
		return nil
	}
	if w.service == "" {
		return common.NewValidationError("service", "is required")
	}
	if w.visitType.RequiresAddress() && w.address == "" {
		return common.NewValidationError("address", "is required for home visits")
	}
	w.step = StepSchedule
	return nil
}

// Back returns to StepDetails. Every previously entered value is kept.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepSchedule {
		w.step = StepDetails
	}
}

// SelectDate records a calendar date and starts an asynchronous slot fetch
// for it. Dates before the current date are rejected. Selecting a new date
// supersedes any fetch still in flight: the older request is cancelled and
// its result, should it still arrive, is discarded rather than displayed.
func (w *Wizard) SelectDate(d string) error {
	if _, err := time.Parse("2006-01-02", d); err != nil {
		return common.NewValidationError("date", "must be YYYY-MM-DD")
	}
	if d < w.now().Format("2006-01-02") {
		return common.NewValidationError("date", "cannot be in the past")
	}

	w.mu.Lock()
	if w.cancelFetch != nil {
		w.cancelFetch()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancelFetch = cancel
	w.date = d
	w.selectedSlot = ""
	w.slots = nil
	w.slotsErr = nil
	w.slotsLoading = true
	w.mu.Unlock()

	go func() {
		slots, err := w.fetchSlots(ctx, d)

		w.mu.Lock()
		defer w.mu.Unlock()
		// Stale-response guard: apply only results for the date that is
		// still selected, independent of completion order.
		if w.date != d {
			return
		}
		w.slots = slots
		w.slotsErr = err
		w.slotsLoading = false
	}()
	return nil
}

// Slots returns the slot list for the currently selected date along with
// whether a fetch is still running and the error of the last completed one.
func (w *Wizard) Slots() (slots []string, loading bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.slots...), w.slotsLoading, w.slotsErr
}

// SelectSlot picks one slot out of the fetched set.
func (w *Wizard) SelectSlot(slot string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.slots {
		if s == slot {
			w.selectedSlot = slot
			return nil
		}
	}
	return ErrUnknownSlot
}

// SelectedSlot returns the chosen slot, or "".
func (w *Wizard) SelectedSlot() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedSlot
}

// CanSubmit reports whether the confirmation control should be enabled:
// a slot is selected and no submission is already in flight.
func (w *Wizard) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedSlot != "" && !w.submitting
}

// Submit sends the booking. On failure the wizard stays on StepSchedule with
// every selection intact, so resubmitting the same action retries it. On
// success the confirmed appointment is retained for the summary view.
func (w *Wizard) Submit(ctx context.Context) (*clinic.Appointment, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if w.selectedSlot == "" {
		w.mu.Unlock()
		return nil, ErrNoSlotSelected
	}
	req := api.BookingRequest{
		Service: w.service,
		Type:    w.visitType,
		Date:    w.date,
		Time:    w.selectedSlot,
	}
	if w.visitType.RequiresAddress() {
		req.Address = w.address
	}
	w.submitting = true
	w.mu.Unlock()

	appt, err := w.book(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		return nil, fmt.Errorf("book appointment: %w", err)
	}
	w.confirmed = appt
	return appt, nil
}

// Confirmed returns the successfully booked appointment, or nil while the
// flow is still in progress.
func (w *Wizard) Confirmed() *clinic.Appointment {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.confirmed
}
