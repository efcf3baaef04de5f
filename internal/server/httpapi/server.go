// Package httpapi exposes the development API server's REST surface. The
// routes and payload shapes mirror what the booking client expects under
// the /api prefix.
package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"clinicbook/internal/logging"
	"clinicbook/internal/server/config"
	"clinicbook/internal/server/store"
)

// Server wires the store and configuration into an HTTP handler.
type Server struct {
	cfg   *config.Config
	store *store.Store
	log   logging.Logger
}

// New builds a Server around the given store.
func New(cfg *config.Config, st *store.Store, log logging.Logger) *Server {
	return &Server{cfg: cfg, store: st, log: log}
}

// Router assembles the gin engine with every route mounted under /api.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(s.corsConfig()))

	api := r.Group("/api")
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	api.GET("/services", s.services)
	api.GET("/feedback", s.listReviews)

	authed := api.Group("", s.requireAuth)
	authed.GET("/appointments/slots", s.availableSlots)
	authed.POST("/appointments", s.createAppointment)
	authed.GET("/appointments", s.myAppointments)
	authed.PUT("/appointments/:id", s.updateAppointment)
	authed.GET("/appointments/all", s.requireAdmin, s.allAppointments)
	authed.POST("/feedback", s.submitReview)

	return r
}

// corsConfig builds the CORS policy from the configured origins. The
// Authorization header must be allowed for the bearer-token scheme.
func (s *Server) corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	if len(s.cfg.CORSOrigins) == 1 && s.cfg.CORSOrigins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = s.cfg.CORSOrigins
	}
	return c
}
