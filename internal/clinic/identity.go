// Package clinic defines the domain model shared by the booking client and
// the development API server: identities, appointments, services and reviews,
// plus the appointment lifecycle rules the UI must enforce.
package clinic

// Role is the closed set of account roles known to the system.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// Identity is the authenticated user's session record as returned by the
// auth endpoints. Token carries the bearer credential for subsequent calls;
// expiry is enforced server-side.
type Identity struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  Role   `json:"role"`
	Token string `json:"token"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
