package cli

import (
	"context"
	"os"

	"clinicbook/internal/client/api"
	"clinicbook/internal/client/nav"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing; they point at the interactive input helpers.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates. On success the session
// is persisted and the user lands back on the home view.
func (a *App) Login(ctx context.Context) error {
	a.nav.Go(nav.RouteLogin)

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	id, err := a.session.Login(ctx, email, password)
	if err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	a.log.Info(ctx, "logged in", "user", id.Email, "role", id.Role)
	printlnFn("Welcome back,", id.Name+"!")
	a.nav.Go(nav.RouteHome)
	return nil
}

// Signup prompts for the registration profile and creates an account.
// Validation failures (short password, missing fields) are shown inline and
// never reach the network.
func (a *App) Signup(ctx context.Context) error {
	a.nav.Go(nav.RouteSignup)

	name, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone (optional)", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	id, err := a.session.Signup(ctx, api.RegisterRequest{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: password,
	})
	if err != nil {
		printlnFn("Sign up failed:", err.Error())
		return err
	}

	printlnFn("Account created. Welcome,", id.Name+"!")
	a.nav.Go(nav.RouteHome)
	return nil
}

// Logout ends the session and returns to the home view. Safe to call when
// nobody is logged in.
func (a *App) Logout() {
	a.session.Logout()
	a.nav.Go(nav.RouteHome)
	printlnFn("Logged out.")
}

// Home shows the landing view.
func (a *App) Home() {
	a.nav.Go(nav.RouteHome)
	printlnFn("PhysioCare Clinic — book clinic and home visits, manage your appointments.")
	printlnFn("Commands: services, doctor, book, appts. Type 'help' for the full list.")
}
