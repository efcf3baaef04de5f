package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"clinicbook/internal/client/nav"
	"clinicbook/internal/clinic"
)

// Appointments renders the patient dashboard: upcoming visits first, then
// the history, each newest date first, with the cancel and review actions
// the lifecycle rules allow. Numbering runs continuously across the two
// sections and the action indices resolve against exactly that numbering.
func (a *App) Appointments(ctx context.Context) error {
	if a.nav.Go(nav.RouteAppointments) != nav.RouteAppointments {
		printlnFn("Please log in to see your appointments.")
		return nil
	}

	appts, err := a.gateway.MyAppointments(ctx)
	if err != nil {
		printlnFn("Could not load appointments:", err.Error())
		return err
	}
	if len(appts) == 0 {
		printlnFn("You have no appointments yet. Use 'book' to create one.")
		return nil
	}

	var upcoming, past []clinic.Appointment
	for _, appt := range appts {
		if appt.Status == clinic.StatusUpcoming {
			upcoming = append(upcoming, appt)
		} else {
			past = append(past, appt)
		}
	}
	sortNewestFirst(upcoming)
	sortNewestFirst(past)

	printlnFn("Upcoming appointments:")
	a.renderAppointments(upcoming, 1)
	printlnFn("Past appointments:")
	a.renderAppointments(past, len(upcoming)+1)

	ordered := make([]clinic.Appointment, 0, len(appts))
	ordered = append(ordered, upcoming...)
	ordered = append(ordered, past...)
	return a.appointmentActions(ctx, ordered)
}

func sortNewestFirst(appts []clinic.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date > appts[j].Date
		}
		return appts[i].Time > appts[j].Time
	})
}

// renderAppointments prints one section, numbering entries from start so
// the indices stay unique across sections.
func (a *App) renderAppointments(appts []clinic.Appointment, start int) {
	if len(appts) == 0 {
		printlnFn("  (none)")
		return
	}
	for i, appt := range appts {
		line := fmt.Sprintf("  %d. %s — %s at %s [%s] (%s)",
			start+i, appt.Service, longDate(appt.Date), appt.Time, appt.Status, appt.Type)
		printlnFn(line)
		if appt.ShowsDelayBanner() {
			printlnFn("     Update: doctor is delayed by approximately " + appt.DoctorArrivalDelay + ".")
		}
	}
}

// appointmentActions offers cancel/review on the listed appointments.
func (a *App) appointmentActions(ctx context.Context, appts []clinic.Appointment) error {
	line, err := getSimpleText(a.reader,
		"Actions: 'cancel <n>' to cancel an upcoming visit, 'review <n>' after a completed one, empty to go back",
		os.Stdout)
	if err != nil || line == "" {
		return err
	}

	parts := strings.Fields(line)
	if len(parts) != 2 {
		printlnFn("Unknown action:", line)
		return nil
	}
	n, convErr := strconv.Atoi(parts[1])
	if convErr != nil || n < 1 || n > len(appts) {
		printlnFn("No such appointment:", parts[1])
		return nil
	}
	appt := appts[n-1]

	switch parts[0] {
	case "cancel":
		return a.cancelAppointment(ctx, appt)
	case "review":
		return a.leaveReview(ctx, appt)
	default:
		printlnFn("Unknown action:", parts[0])
		return nil
	}
}

func (a *App) cancelAppointment(ctx context.Context, appt clinic.Appointment) error {
	if !appt.OwnerCanCancel() {
		printlnFn("Only upcoming appointments can be cancelled.")
		return nil
	}
	confirm, err := getSimpleText(a.reader, "Are you sure you want to cancel this appointment? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, "yes") && !strings.EqualFold(confirm, "y") {
		return nil
	}

	st := clinic.StatusCancelled
	if _, err := a.gateway.UpdateAppointment(ctx, appt.ID, updateStatus(&st)); err != nil {
		printlnFn("Failed to cancel appointment:", err.Error())
		return err
	}
	printlnFn("Appointment cancelled.")
	return nil
}

func (a *App) leaveReview(ctx context.Context, appt clinic.Appointment) error {
	if !appt.OwnerCanReview() {
		printlnFn("Reviews can be left after a completed appointment.")
		return nil
	}

	ratingStr, err := getSimpleText(a.reader, "Rating (1-5)", os.Stdout)
	if err != nil {
		return err
	}
	rating, convErr := strconv.Atoi(ratingStr)
	if convErr != nil || !clinic.ValidRating(rating) {
		printlnFn("Rating must be a whole number between 1 and 5.")
		return nil
	}
	comment, err := getSimpleText(a.reader, "Your comment", os.Stdout)
	if err != nil {
		return err
	}
	if strings.TrimSpace(comment) == "" {
		printlnFn("A comment is required.")
		return nil
	}

	if _, err := a.gateway.SubmitReview(ctx, rating, comment); err != nil {
		printlnFn("Failed to submit review:", err.Error())
		return err
	}
	printlnFn("Thank you for your feedback!")
	return nil
}
