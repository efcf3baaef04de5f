// Package nav models the client's views as a closed set of routes and gates
// the protected ones with pure guard predicates, re-evaluated on every
// navigation. It also hosts the forced-login entry point the gateway's
// unauthorized policy drives.
package nav

import (
	"sync"

	"clinicbook/internal/clinic"
)

// Route names a view of the application.
type Route string

const (
	RouteHome         Route = "home"
	RouteServices     Route = "services"
	RouteDoctor       Route = "doctor"
	RouteGallery      Route = "gallery"
	RouteContact      Route = "contact"
	RouteAbout        Route = "about"
	RouteLogin        Route = "login"
	RouteSignup       Route = "signup"
	RouteBooking      Route = "booking"
	RouteAppointments Route = "appointments"
	RouteAdmin        Route = "admin"
)

// Authenticated passes iff an identity is present.
func Authenticated(id *clinic.Identity) bool {
	return id != nil
}

// Administrator passes iff an identity is present and carries the admin
// role.
func Administrator(id *clinic.Identity) bool {
	return id != nil && id.Role == clinic.RoleAdmin
}

// Resolve applies the guard for route against id and returns the route that
// should actually be shown. Failing the authenticated guard redirects to
// login; failing the administrator guard redirects home, since missing
// admin rights is not an auth failure.
func Resolve(route Route, id *clinic.Identity) Route {
	switch route {
	case RouteBooking, RouteAppointments:
		if !Authenticated(id) {
			return RouteLogin
		}
	case RouteAdmin:
		if !Administrator(id) {
			return RouteHome
		}
	case RouteHome, RouteServices, RouteDoctor, RouteGallery,
		RouteContact, RouteAbout, RouteLogin, RouteSignup:
		// public
	}
	return route
}

// IdentityFunc yields the current identity for guard evaluation.
type IdentityFunc func() *clinic.Identity

// Navigator tracks the current route. Guards hold no state of their own;
// the navigator simply re-runs them on each Go.
type Navigator struct {
	identity IdentityFunc

	mu      sync.Mutex
	current Route
	forced  bool
}

// New builds a Navigator starting at the home view.
func New(identity IdentityFunc) *Navigator {
	return &Navigator{identity: identity, current: RouteHome}
}

// Go navigates to route, applying its guard, and returns the route actually
// reached. Each navigation resets the forced-login latch.
func (n *Navigator) Go(route Route) Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.forced = false
	n.current = Resolve(route, n.identity())
	return n.current
}

// Current returns the route currently shown.
func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// ForceLogin sends the user to the login view after a credential rejection.
// Within a single navigation it fires at most once: repeated 401s from
// parallel calls collapse into one redirect. Reports whether the redirect
// happened.
func (n *Navigator) ForceLogin() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.forced {
		return false
	}
	n.forced = true
	n.current = RouteLogin
	return true
}
