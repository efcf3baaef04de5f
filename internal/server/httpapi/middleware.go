package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clinicbook/internal/clinic"
	"clinicbook/internal/server/auth"
)

const (
	ctxUserID = "uid"
	ctxRole   = "role"
)

// requireAuth validates the bearer token and stashes the caller's id and
// role in the request context. Missing or bad credentials yield 401, which
// the client answers with a forced logout.
func (s *Server) requireAuth(c *gin.Context) {
	raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if raw == "" || raw == c.GetHeader("Authorization") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, no token"})
		return
	}

	claims, err := auth.ParseToken(raw, s.cfg.JWTSecret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, token failed"})
		return
	}
	if _, ok := s.store.UserByID(claims.UserID); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, user gone"})
		return
	}

	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxRole, claims.Role)
	c.Next()
}

// requireAdmin gates the admin-only endpoints. A valid non-admin caller is
// forbidden, not unauthorized.
func (s *Server) requireAdmin(c *gin.Context) {
	if c.GetString(ctxUserID) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}
	if role, _ := c.Get(ctxRole); role != clinic.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin access only"})
		return
	}
	c.Next()
}

func callerID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func callerIsAdmin(c *gin.Context) bool {
	role, _ := c.Get(ctxRole)
	return role == clinic.RoleAdmin
}
