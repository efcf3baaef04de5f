package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"clinicbook/internal/client/booking"
	"clinicbook/internal/client/nav"
	"clinicbook/internal/clinic"
)

// Book walks through the two-step booking wizard. The route guard applies
// first: anonymous visitors are sent to the login view instead.
func (a *App) Book(ctx context.Context) error {
	if a.nav.Go(nav.RouteBooking) != nav.RouteBooking {
		printlnFn("Please log in to book an appointment.")
		return nil
	}

	services, err := a.gateway.Services(ctx)
	if err != nil {
		printlnFn("Could not load services:", err.Error())
		return err
	}

	w := booking.New(a.gateway.AvailableSlots, a.gateway.BookAppointment)

	if err := a.bookStepDetails(w, services); err != nil || w.Step() != booking.StepSchedule {
		return err
	}
	return a.bookStepSchedule(ctx, w, services)
}

// bookStepDetails runs step 1: service, visit type and address.
func (a *App) bookStepDetails(w *booking.Wizard, services []clinic.Service) error {
	names := make([]string, len(services))
	for i, s := range services {
		names[i] = s.Name
	}
	pick, err := GetChoice(a.reader, "1. Select a service", names, os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return nil
	}
	if pick < 0 {
		return nil
	}
	w.SetService(names[pick])

	kind, err := GetChoice(a.reader, "2. Choose appointment type",
		[]string{string(clinic.ClinicVisit), string(clinic.HomeVisit)}, os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return nil
	}
	switch kind {
	case 0:
		if err := w.SetVisitType(clinic.ClinicVisit); err != nil {
			return err
		}
	case 1:
		if err := w.SetVisitType(clinic.HomeVisit); err != nil {
			return err
		}
		addr, err := getSimpleText(a.reader, "Home address", os.Stdout)
		if err != nil {
			return err
		}
		w.SetAddress(addr)
	}

	if err := w.Advance(); err != nil {
		printlnFn(err.Error())
		return nil
	}
	return nil
}

// bookStepSchedule runs step 2: date, slot and confirmation. Entering
// "back" returns to step 1 with every previously entered value kept. On a
// failed submission the wizard keeps its state, so the user can simply
// confirm again.
func (a *App) bookStepSchedule(ctx context.Context, w *booking.Wizard, services []clinic.Service) error {
	for {
		date, err := getSimpleText(a.reader, "3. Select a date (YYYY-MM-DD, 'back' to change details)", os.Stdout)
		if err != nil {
			return err
		}
		if date == "" {
			return nil
		}
		if strings.EqualFold(date, "back") {
			w.Back()
			if err := a.bookStepDetails(w, services); err != nil || w.Step() != booking.StepSchedule {
				return err
			}
			continue
		}
		if err := w.SelectDate(date); err != nil {
			printlnFn(err.Error())
			continue
		}

		slots := a.waitForSlots(w)
		if len(slots) == 0 {
			printlnFn("No available slots for this date. Please try another day.")
			continue
		}

		pick, err := GetChoice(a.reader, "4. Select an available time", slots, os.Stdout)
		if err != nil {
			printlnFn(err.Error())
			continue
		}
		if pick < 0 {
			continue
		}
		if err := w.SelectSlot(slots[pick]); err != nil {
			printlnFn(err.Error())
			continue
		}

		if !w.CanSubmit() {
			continue
		}
		appt, err := w.Submit(ctx)
		if err != nil {
			printlnFn("There was an error booking your appointment. Please try again.")
			continue
		}

		printlnFn(fmt.Sprintf("Appointment booked! %s on %s at %s is confirmed.",
			appt.Service, longDate(appt.Date), appt.Time))
		return nil
	}
}

// waitForSlots polls the wizard until its slot fetch settles.
func (a *App) waitForSlots(w *booking.Wizard) []string {
	for {
		slots, loading, err := w.Slots()
		if err != nil {
			printlnFn("Could not fetch available slots.")
			return nil
		}
		if !loading {
			return slots
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func longDate(d string) string {
	t, err := time.Parse("2006-01-02", d)
	if err != nil {
		return d
	}
	return t.Format("Monday, January 2, 2006")
}
