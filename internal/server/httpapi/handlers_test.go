package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"clinicbook/internal/clinic"
	"clinicbook/internal/logging"
	"clinicbook/internal/server/auth"
	"clinicbook/internal/server/config"
	"clinicbook/internal/server/store"
)

func newTestServer(t *testing.T) (*gin.Engine, *store.Store, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.LoadDefaults()
	st := store.New()
	srv := New(cfg, st, logging.NewText(io.Discard, slog.LevelError))
	return srv.Router(), st, cfg
}

func seedUser(t *testing.T, st *store.Store, cfg *config.Config, email string, role clinic.Role) (*store.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	u, err := st.CreateUser("Pat Example", email, "", hash, role)
	require.NoError(t, err)
	tok, err := auth.MakeToken(u.ID, u.Role, cfg.JWTSecret, time.Minute)
	require.NoError(t, err)
	return u, tok
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Pat Example", "email": "pat@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var id clinic.Identity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &id))
	require.NotEmpty(t, id.ID)
	require.Equal(t, clinic.RoleUser, id.Role)
	require.NotEmpty(t, id.Token)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "pat@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &id))
	require.NotEmpty(t, id.Token)
}

func TestRegisterRejectsShortPasswordAndDuplicates(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Pat", "email": "pat@example.com", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Pat", "email": "pat@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Other Pat", "email": "pat@example.com", "password": "password456",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, st, cfg := newTestServer(t)
	seedUser(t, st, cfg, "pat@example.com", clinic.RoleUser)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "pat@example.com", "password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/appointments", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/appointments", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSlotsValidateDateAndShrink(t *testing.T) {
	r, st, cfg := newTestServer(t)
	_, tok := seedUser(t, st, cfg, "pat@example.com", clinic.RoleUser)

	w := doJSON(t, r, http.MethodGet, "/api/appointments/slots", tok, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/appointments/slots?date=2026-09-10", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var slots []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &slots))
	require.Len(t, slots, 8)

	w = doJSON(t, r, http.MethodPost, "/api/appointments", tok, gin.H{
		"service": "Physiotherapy", "type": "Clinic Visit", "date": "2026-09-10", "time": "09:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/appointments/slots?date=2026-09-10", tok, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &slots))
	require.Len(t, slots, 7)
	require.NotContains(t, slots, "09:00")
}

func TestCreateAppointmentValidation(t *testing.T) {
	r, st, cfg := newTestServer(t)
	_, tok := seedUser(t, st, cfg, "pat@example.com", clinic.RoleUser)

	// Home visits need an address.
	w := doJSON(t, r, http.MethodPost, "/api/appointments", tok, gin.H{
		"service": "Physiotherapy", "type": "Home Visit", "date": "2026-09-10", "time": "09:00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/appointments", tok, gin.H{
		"service": "Physiotherapy", "type": "Home Visit", "date": "2026-09-10", "time": "09:00",
		"address": "12 Harbour Road",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// The slot is now taken.
	w = doJSON(t, r, http.MethodPost, "/api/appointments", tok, gin.H{
		"service": "Acupuncture", "type": "Clinic Visit", "date": "2026-09-10", "time": "09:00",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestOwnerMayOnlyCancelOwnUpcoming(t *testing.T) {
	r, st, cfg := newTestServer(t)
	owner, ownerTok := seedUser(t, st, cfg, "pat@example.com", clinic.RoleUser)
	_, otherTok := seedUser(t, st, cfg, "sam@example.com", clinic.RoleUser)

	appt, err := st.CreateAppointment(owner.ID, "Physiotherapy", clinic.ClinicVisit, "2026-09-10", "09:00", "")
	require.NoError(t, err)

	// Another patient cannot touch it.
	w := doJSON(t, r, http.MethodPut, "/api/appointments/"+appt.ID, otherTok, gin.H{"status": "Cancelled"})
	require.Equal(t, http.StatusForbidden, w.Code)

	// The owner cannot complete it or set a delay.
	w = doJSON(t, r, http.MethodPut, "/api/appointments/"+appt.ID, ownerTok, gin.H{"status": "Completed"})
	require.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, r, http.MethodPut, "/api/appointments/"+appt.ID, ownerTok, gin.H{"doctorArrivalDelay": "30 minutes"})
	require.Equal(t, http.StatusForbidden, w.Code)

	// Cancelling works exactly once.
	w = doJSON(t, r, http.MethodPut, "/api/appointments/"+appt.ID, ownerTok, gin.H{"status": "Cancelled"})
	require.Equal(t, http.StatusOK, w.Code)
	var got clinic.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, clinic.StatusCancelled, got.Status)

	w = doJSON(t, r, http.MethodPut, "/api/appointments/"+appt.ID, ownerTok, gin.H{"status": "Cancelled"})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminEndpointsEnforceRole(t *testing.T) {
	r, st, cfg := newTestServer(t)
	owner, userTok := seedUser(t, st, cfg, "pat@example.com", clinic.RoleUser)
	_, adminTok := seedUser(t, st, cfg, "admin@clinic.local", clinic.RoleAdmin)

	appt, err := st.CreateAppointment(owner.ID, "Physiotherapy", clinic.HomeVisit, "2026-09-10", "10:00", "12 Harbour Road")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/appointments/all", userTok, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/appointments/all", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []clinic.AppointmentWithOwner
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 1)
	require.NotNil(t, all[0].Owner)
	require.Equal(t, "pat@example.com", all[0].Owner.Email)

	// Admins may set any status and the arrival delay, on anyone's booking.
	w = doJSON(t, r, http.MethodPut, "/api/appointments/"+appt.ID, adminTok, gin.H{
		"status": "Completed", "doctorArrivalDelay": "45 minutes",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var got clinic.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, clinic.StatusCompleted, got.Status)
	require.Equal(t, "45 minutes", got.DoctorArrivalDelay)
}

func TestFeedbackFlow(t *testing.T) {
	r, st, cfg := newTestServer(t)
	_, tok := seedUser(t, st, cfg, "pat@example.com", clinic.RoleUser)

	// Reading feedback is public; writing requires a session.
	w := doJSON(t, r, http.MethodGet, "/api/feedback", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/feedback", "", gin.H{"rating": 5, "comment": "great"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/feedback", tok, gin.H{"rating": 9, "comment": "great"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/feedback", tok, gin.H{"rating": 5, "comment": "Back on my feet in three weeks."})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/feedback", "", nil)
	var reviews []clinic.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	require.Equal(t, "Pat Example", reviews[0].Author.Name)
	require.Equal(t, 5, reviews[0].Rating)
}

func TestCORSHonorsConfiguredOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.CORSOrigins = []string{"http://localhost:3000"}
	r := New(cfg, store.New(), logging.NewText(io.Discard, slog.LevelError)).Router()

	req := httptest.NewRequest(http.MethodOptions, "/api/services", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/services", nil)
	req.Header.Set("Origin", "http://other.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestServicesCatalogueIsPublic(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/services", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var services []clinic.Service
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &services))
	require.NotEmpty(t, services)
}
