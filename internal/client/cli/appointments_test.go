package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"clinicbook/internal/client/api"
	"clinicbook/internal/client/nav"
	"clinicbook/internal/clinic"
)

// fakeGateway implements api.Gateway for view tests. Only the methods a
// test exercises carry behavior.
type fakeGateway struct {
	services []clinic.Service
	slots    []string
	appts    []clinic.Appointment

	BookedReq     *api.BookingRequest
	UpdatedID     string
	UpdatedStatus *clinic.Status
	ReviewRating  int
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (*clinic.Identity, error) {
	return nil, nil
}
func (f *fakeGateway) Register(ctx context.Context, req api.RegisterRequest) (*clinic.Identity, error) {
	return nil, nil
}
func (f *fakeGateway) Services(ctx context.Context) ([]clinic.Service, error) {
	return f.services, nil
}
func (f *fakeGateway) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	return f.slots, nil
}
func (f *fakeGateway) BookAppointment(ctx context.Context, req api.BookingRequest) (*clinic.Appointment, error) {
	f.BookedReq = &req
	return &clinic.Appointment{ID: "a-new", Service: req.Service, Date: req.Date, Time: req.Time, Status: clinic.StatusUpcoming}, nil
}
func (f *fakeGateway) MyAppointments(ctx context.Context) ([]clinic.Appointment, error) {
	return append([]clinic.Appointment(nil), f.appts...), nil
}
func (f *fakeGateway) UpdateAppointment(ctx context.Context, id string, upd api.AppointmentUpdate) (*clinic.Appointment, error) {
	f.UpdatedID = id
	f.UpdatedStatus = upd.Status
	out := clinic.Appointment{ID: id}
	if upd.Status != nil {
		out.Status = *upd.Status
	}
	return &out, nil
}
func (f *fakeGateway) AllAppointments(ctx context.Context) ([]clinic.AppointmentWithOwner, error) {
	return nil, nil
}
func (f *fakeGateway) Reviews(ctx context.Context) ([]clinic.Review, error) { return nil, nil }
func (f *fakeGateway) SubmitReview(ctx context.Context, rating int, comment string) (*clinic.Review, error) {
	f.ReviewRating = rating
	return &clinic.Review{Rating: rating, Comment: comment}, nil
}

// stubInput replaces the line-input seam with a scripted sequence. Prompts
// past the end of the script read as empty lines.
func stubInput(t *testing.T, lines ...string) {
	t.Helper()
	orig := getSimpleText
	getSimpleText = func(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
		if len(lines) == 0 {
			return "", nil
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}
	t.Cleanup(func() { getSimpleText = orig })
}

func newViewApp(gw api.Gateway, input string) *App {
	id := &clinic.Identity{ID: "u1", Name: "Pat", Email: "pat@example.com", Role: clinic.RoleUser, Token: "tok"}
	return &App{
		gateway: gw,
		nav:     nav.New(func() *clinic.Identity { return id }),
		reader:  bufio.NewReader(strings.NewReader(input)),
	}
}

func dashboardFixture() []clinic.Appointment {
	// Server insertion order differs from display order on purpose.
	return []clinic.Appointment{
		{ID: "a-massage", Service: "Sports Massage", Type: clinic.ClinicVisit,
			Date: "2026-09-01", Time: "10:00", Status: clinic.StatusCompleted},
		{ID: "a-acu", Service: "Acupuncture", Type: clinic.ClinicVisit,
			Date: "2026-09-10", Time: "09:00", Status: clinic.StatusUpcoming},
		{ID: "a-physio", Service: "Physiotherapy", Type: clinic.ClinicVisit,
			Date: "2026-09-11", Time: "09:00", Status: clinic.StatusUpcoming},
	}
}

func TestAppointmentsListNewestFirst(t *testing.T) {
	gw := &fakeGateway{appts: dashboardFixture()}
	a := newViewApp(gw, "")
	out := captureOutput(t)
	stubInput(t) // leave the action prompt immediately

	require.NoError(t, a.Appointments(context.Background()))

	joined := strings.Join(*out, "\n")
	physio := strings.Index(joined, "1. Physiotherapy")
	acu := strings.Index(joined, "2. Acupuncture")
	massage := strings.Index(joined, "3. Sports Massage")
	require.GreaterOrEqual(t, physio, 0)
	require.Greater(t, acu, physio)
	require.Greater(t, massage, acu)
}

func TestCancelTargetsTheDisplayedNumber(t *testing.T) {
	gw := &fakeGateway{appts: dashboardFixture()}
	a := newViewApp(gw, "")
	out := captureOutput(t)
	stubInput(t, "cancel 2", "yes")

	require.NoError(t, a.Appointments(context.Background()))

	// The entry shown as #2 is the one the cancel must hit.
	require.Contains(t, strings.Join(*out, "\n"), "2. Acupuncture")
	require.Equal(t, "a-acu", gw.UpdatedID)
	require.NotNil(t, gw.UpdatedStatus)
	require.Equal(t, clinic.StatusCancelled, *gw.UpdatedStatus)
}

func TestReviewTargetsTheDisplayedNumber(t *testing.T) {
	gw := &fakeGateway{appts: dashboardFixture()}
	a := newViewApp(gw, "")
	captureOutput(t)
	// #3 is the completed visit; rating then comment follow.
	stubInput(t, "review 3", "5", "Back on my feet in three weeks.")

	require.NoError(t, a.Appointments(context.Background()))
	require.Equal(t, 5, gw.ReviewRating)
	require.Empty(t, gw.UpdatedID)
}
