package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL needs. App satisfies
// it; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Home()
	Services(ctx context.Context) error
	Doctor(ctx context.Context) error
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Book(ctx context.Context) error
	Appointments(ctx context.Context) error
	Admin(ctx context.Context) error
	Logout()
}

func (a *App) runREPL(ctx context.Context, scanner *bufio.Scanner) {
	status := func() string {
		if id := a.session.Current(); id != nil {
			return fmt.Sprintf("%s (%s)", id.Email, id.Role)
		}
		return "guest"
	}
	runREPL(ctx, a, status, scanner)
}

// runREPL reads commands line by line and dispatches them. Handlers report
// their own errors; the loop stays resilient and exits on EOF or
// "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	printlnFn("Welcome to the clinic booking client. Type 'help' for commands.")
	for {
		printlnFn(fmt.Sprintf("clinic> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			printHelp(a)

		case "home":
			a.Home()

		case "services":
			_ = a.Services(ctx)

		case "doctor":
			_ = a.Doctor(ctx)

		case "login":
			_ = a.Login(ctx)

		case "signup", "register":
			_ = a.Signup(ctx)

		case "book":
			_ = a.Book(ctx)

		case "appts", "appointments":
			_ = a.Appointments(ctx)

		case "admin":
			_ = a.Admin(ctx)

		case "logout":
			a.Logout()

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", parts[0])
		}
	}
}

func printHelp(a execIface) {
	if !a.isLoggedIn() {
		printlnFn("Available commands: home, services, doctor, login, signup, book, exit")
		return
	}
	if a.isAdmin() {
		printlnFn("Available commands: home, services, doctor, book, appts, admin, logout, exit")
		return
	}
	printlnFn("Available commands: home, services, doctor, book, appts, logout, exit")
}
