package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"clinicbook/internal/client/api"
	"clinicbook/internal/client/nav"
	"clinicbook/internal/clinic"
)

func updateStatus(st *clinic.Status) api.AppointmentUpdate {
	return api.AppointmentUpdate{Status: st}
}

func updateDelay(d string) api.AppointmentUpdate {
	return api.AppointmentUpdate{Delay: &d}
}

// Admin renders the triage view over all appointments. The administrator
// guard applies first; users without admin rights land on the home view.
func (a *App) Admin(ctx context.Context) error {
	if a.nav.Go(nav.RouteAdmin) != nav.RouteAdmin {
		printlnFn("This area is for administrators.")
		return nil
	}

	appts, err := a.gateway.AllAppointments(ctx)
	if err != nil {
		printlnFn("Could not load appointments:", err.Error())
		return err
	}

	var query string
	var status clinic.Status

	for {
		visible := clinic.FilterForAdmin(appts, query, status)
		a.renderAdminList(visible, query, status)

		line, err := getSimpleText(a.reader,
			"Admin: 'filter <text>', 'status <Upcoming|Completed|Cancelled|all>', 'set <n> <status>', 'delay <n> <text>', 'cleardelay <n>', empty to go back",
			os.Stdout)
		if err != nil || line == "" {
			return err
		}

		parts := strings.Fields(line)
		switch parts[0] {
		case "filter":
			query = strings.TrimSpace(strings.TrimPrefix(line, "filter"))

		case "status":
			if len(parts) != 2 {
				printlnFn("Usage: status <Upcoming|Completed|Cancelled|all>")
				continue
			}
			if parts[1] == "all" {
				status = ""
				continue
			}
			st := clinic.Status(parts[1])
			if !st.Valid() {
				printlnFn("Unknown status:", parts[1])
				continue
			}
			status = st

		case "set":
			a.adminSetStatus(ctx, visible, appts, parts)

		case "delay":
			if len(parts) < 3 {
				printlnFn("Usage: delay <n> <text>")
				continue
			}
			a.adminSetDelay(ctx, visible, appts, parts, strings.TrimSpace(strings.Join(parts[2:], " ")))

		case "cleardelay":
			a.adminSetDelay(ctx, visible, appts, parts, "")

		default:
			printlnFn("Unknown action:", parts[0])
		}
	}
}

func (a *App) renderAdminList(visible []clinic.AppointmentWithOwner, query string, status clinic.Status) {
	header := "All appointments"
	if query != "" || status != "" {
		header += fmt.Sprintf(" (filter: %q, status: %s)", query, orAll(status))
	}
	printlnFn(header + ":")
	if len(visible) == 0 {
		printlnFn("  No appointments match the current filters.")
		return
	}
	for i, appt := range visible {
		printlnFn(fmt.Sprintf("  %d. %s <%s> — %s on %s at %s [%s]",
			i+1, appt.Owner.Name, appt.Owner.Email, appt.Service, appt.Date, appt.Time, appt.Status))
		if appt.DoctorArrivalDelay != "" {
			printlnFn("     Delay: " + appt.DoctorArrivalDelay)
		}
	}
}

func orAll(st clinic.Status) string {
	if st == "" {
		return "all"
	}
	return string(st)
}

// pickVisible resolves a 1-based index into the filtered list.
func pickVisible(visible []clinic.AppointmentWithOwner, arg string) (*clinic.AppointmentWithOwner, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(visible) {
		printlnFn("No such appointment:", arg)
		return nil, false
	}
	return &visible[n-1], true
}

// adminSetStatus assigns a status. The menu offers exactly the three known
// statuses; whether a transition is legal stays the API's call.
func (a *App) adminSetStatus(ctx context.Context, visible, all []clinic.AppointmentWithOwner, parts []string) {
	if len(parts) != 3 {
		printlnFn("Usage: set <n> <Upcoming|Completed|Cancelled>")
		return
	}
	target, ok := pickVisible(visible, parts[1])
	if !ok {
		return
	}
	st := clinic.Status(parts[2])
	if !st.Valid() {
		printlnFn("Unknown status:", parts[2])
		return
	}

	updated, err := a.gateway.UpdateAppointment(ctx, target.ID, updateStatus(&st))
	if err != nil {
		printlnFn("Failed to update status:", err.Error())
		return
	}
	applyAdminUpdate(all, target.ID, updated)
	printlnFn("Status updated.")
}

func (a *App) adminSetDelay(ctx context.Context, visible, all []clinic.AppointmentWithOwner, parts []string, delay string) {
	if len(parts) < 2 {
		printlnFn("Usage: delay <n> <text> (or cleardelay <n>)")
		return
	}
	target, ok := pickVisible(visible, parts[1])
	if !ok {
		return
	}

	updated, err := a.gateway.UpdateAppointment(ctx, target.ID, updateDelay(delay))
	if err != nil {
		printlnFn("Failed to update delay:", err.Error())
		return
	}
	applyAdminUpdate(all, target.ID, updated)
	printlnFn("Delay updated.")
}

// applyAdminUpdate copies the mutated fields into the local list, only ever
// after the API accepted the change.
func applyAdminUpdate(all []clinic.AppointmentWithOwner, id string, updated *clinic.Appointment) {
	for i := range all {
		if all[i].ID == id {
			all[i].Status = updated.Status
			all[i].DoctorArrivalDelay = updated.DoctorArrivalDelay
			return
		}
	}
}
