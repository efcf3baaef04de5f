package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"clinicbook/internal/clinic"
	"clinicbook/internal/common"
	"clinicbook/internal/server/auth"
	"clinicbook/internal/server/store"
)

// identityPayload is the auth response: profile plus bearer token, shaped
// exactly as the client's session store persists it.
func identityPayload(u *store.User, token string) clinic.Identity {
	return clinic.Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  u.Role,
		Token: token,
	}
}

func (s *Server) issueToken(c *gin.Context, u *store.User) (string, bool) {
	tok, err := auth.MakeToken(u.ID, u.Role, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		s.log.Error(c.Request.Context(), "issue token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not issue token"})
		return "", false
	}
	return tok, true
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	switch {
	case req.Name == "":
		c.JSON(http.StatusBadRequest, gin.H{"message": "name is required"})
		return
	case req.Email == "":
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
		return
	case len(req.Password) < common.MinPasswordLength:
		c.JSON(http.StatusBadRequest, gin.H{"message": "password is too short"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create account"})
		return
	}
	u, err := s.store.CreateUser(req.Name, req.Email, req.Phone, hash, clinic.RoleUser)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create account"})
		return
	}

	tok, ok := s.issueToken(c, u)
	if !ok {
		return
	}
	s.log.Info(c.Request.Context(), "account created", "email", u.Email)
	c.JSON(http.StatusCreated, identityPayload(u, tok))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	u, ok := s.store.UserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if !ok || !auth.CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
		return
	}

	tok, ok := s.issueToken(c, u)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, identityPayload(u, tok))
}

func (s *Server) services(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Services())
}

func (s *Server) availableSlots(c *gin.Context) {
	date := c.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "date must be YYYY-MM-DD"})
		return
	}
	c.JSON(http.StatusOK, s.store.AvailableSlots(date))
}

type bookingRequest struct {
	Service string           `json:"service"`
	Type    clinic.VisitType `json:"type"`
	Date    string           `json:"date"`
	Time    string           `json:"time"`
	Address string           `json:"address"`
}

func (s *Server) createAppointment(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	switch {
	case strings.TrimSpace(req.Service) == "":
		c.JSON(http.StatusBadRequest, gin.H{"message": "service is required"})
		return
	case !req.Type.Valid():
		c.JSON(http.StatusBadRequest, gin.H{"message": "unknown visit type"})
		return
	case req.Time == "":
		c.JSON(http.StatusBadRequest, gin.H{"message": "time slot is required"})
		return
	case req.Type.RequiresAddress() && strings.TrimSpace(req.Address) == "":
		c.JSON(http.StatusBadRequest, gin.H{"message": "address is required for home visits"})
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "date must be YYYY-MM-DD"})
		return
	}

	appt, err := s.store.CreateAppointment(callerID(c), req.Service, req.Type, req.Date, req.Time, req.Address)
	if err != nil {
		if errors.Is(err, store.ErrSlotTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "slot already booked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not book appointment"})
		return
	}
	s.log.Info(c.Request.Context(), "appointment booked",
		"user", callerID(c), "date", appt.Date, "time", appt.Time)
	c.JSON(http.StatusCreated, appt)
}

func (s *Server) myAppointments(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.AppointmentsByUser(callerID(c)))
}

type updateRequest struct {
	Status *clinic.Status `json:"status"`
	Delay  *string        `json:"doctorArrivalDelay"`
}

// updateAppointment is the shared owner/admin mutation endpoint. Owners may
// only cancel their own upcoming appointments; administrators may set any
// status and the arrival delay on any appointment.
func (s *Server) updateAppointment(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if req.Status == nil && req.Delay == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "nothing to update"})
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unknown status"})
		return
	}

	appt, ok := s.store.AppointmentByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "appointment not found"})
		return
	}

	if !callerIsAdmin(c) {
		if appt.UserID != callerID(c) {
			c.JSON(http.StatusForbidden, gin.H{"message": "not your appointment"})
			return
		}
		if req.Delay != nil {
			c.JSON(http.StatusForbidden, gin.H{"message": "only staff can set the arrival delay"})
			return
		}
		if req.Status == nil || *req.Status != clinic.StatusCancelled {
			c.JSON(http.StatusForbidden, gin.H{"message": "patients may only cancel"})
			return
		}
		if !appt.Status.CanTransition(clinic.StatusCancelled) {
			c.JSON(http.StatusConflict, gin.H{"message": "appointment can no longer be cancelled"})
			return
		}
	}

	updated, err := s.store.UpdateAppointment(appt.ID, req.Status, req.Delay)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update appointment"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) allAppointments(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.AllWithOwners())
}

func (s *Server) listReviews(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Reviews())
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *Server) submitReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if !clinic.ValidRating(req.Rating) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "rating must be between 1 and 5"})
		return
	}
	if strings.TrimSpace(req.Comment) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "comment is required"})
		return
	}

	u, ok := s.store.UserByID(callerID(c))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}
	review := s.store.AddReview(clinic.ReviewAuthor{ID: u.ID, Name: u.Name}, req.Rating, req.Comment)
	c.JSON(http.StatusCreated, review)
}
