package nav

import (
	"testing"

	"github.com/stretchr/testify/require"

	"clinicbook/internal/clinic"
)

func user() *clinic.Identity {
	return &clinic.Identity{ID: "u1", Email: "u@example.com", Role: clinic.RoleUser, Token: "t"}
}

func admin() *clinic.Identity {
	return &clinic.Identity{ID: "a1", Email: "a@example.com", Role: clinic.RoleAdmin, Token: "t"}
}

func TestGuardPredicates(t *testing.T) {
	require.False(t, Authenticated(nil))
	require.True(t, Authenticated(user()))
	require.True(t, Authenticated(admin()))

	require.False(t, Administrator(nil))
	require.False(t, Administrator(user()))
	require.True(t, Administrator(admin()))
}

func TestResolveRedirects(t *testing.T) {
	tests := []struct {
		name  string
		route Route
		id    *clinic.Identity
		want  Route
	}{
		{"anonymous booking goes to login", RouteBooking, nil, RouteLogin},
		{"anonymous appointments goes to login", RouteAppointments, nil, RouteLogin},
		{"anonymous admin goes home", RouteAdmin, nil, RouteHome},
		{"user admin goes home not login", RouteAdmin, user(), RouteHome},
		{"admin reaches admin", RouteAdmin, admin(), RouteAdmin},
		{"user reaches booking", RouteBooking, user(), RouteBooking},
		{"public route stays", RouteServices, nil, RouteServices},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Resolve(tc.route, tc.id))
		})
	}
}

func TestNavigatorReevaluatesPerNavigation(t *testing.T) {
	var id *clinic.Identity
	n := New(func() *clinic.Identity { return id })

	// Anonymous visitor heading for booking lands on login.
	require.Equal(t, RouteLogin, n.Go(RouteBooking))

	// After login the same navigation succeeds within the same session.
	id = user()
	require.Equal(t, RouteBooking, n.Go(RouteBooking))

	// Admin rights are picked up on the next navigation, not cached.
	require.Equal(t, RouteHome, n.Go(RouteAdmin))
	id = admin()
	require.Equal(t, RouteAdmin, n.Go(RouteAdmin))
}

func TestForceLoginFiresOncePerNavigation(t *testing.T) {
	id := user()
	n := New(func() *clinic.Identity { return id })
	n.Go(RouteAppointments)

	require.True(t, n.ForceLogin())
	require.Equal(t, RouteLogin, n.Current())

	// Repeated 401s within the same navigation do not redirect again.
	require.False(t, n.ForceLogin())
	require.False(t, n.ForceLogin())

	// A fresh navigation re-arms the latch.
	n.Go(RouteHome)
	require.True(t, n.ForceLogin())
}
