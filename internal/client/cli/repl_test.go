package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	loggedIn bool
	admin    bool
	calls    []string
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }
func (s *stubExec) isAdmin() bool    { return s.admin }

func (s *stubExec) Home()                                   { s.calls = append(s.calls, "home") }
func (s *stubExec) Services(ctx context.Context) error      { s.calls = append(s.calls, "services"); return nil }
func (s *stubExec) Doctor(ctx context.Context) error        { s.calls = append(s.calls, "doctor"); return nil }
func (s *stubExec) Login(ctx context.Context) error         { s.calls = append(s.calls, "login"); return nil }
func (s *stubExec) Signup(ctx context.Context) error        { s.calls = append(s.calls, "signup"); return nil }
func (s *stubExec) Book(ctx context.Context) error          { s.calls = append(s.calls, "book"); return nil }
func (s *stubExec) Appointments(ctx context.Context) error  { s.calls = append(s.calls, "appts"); return nil }
func (s *stubExec) Admin(ctx context.Context) error         { s.calls = append(s.calls, "admin"); return nil }
func (s *stubExec) Logout()                                 { s.calls = append(s.calls, "logout") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runScript(t *testing.T, a execIface, script string) {
	t.Helper()
	captureOutput(t)
	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), a, func() string { return "test" }, scanner)
}

func TestREPLDispatch(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "home\nservices\ndoctor\nlogin\nsignup\nbook\nappts\nadmin\nlogout\nexit\n")
	require.Equal(t,
		[]string{"home", "services", "doctor", "login", "signup", "book", "appts", "admin", "logout"},
		s.calls)
}

func TestREPLAliases(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "register\nappointments\nquit\n")
	require.Equal(t, []string{"signup", "appts"}, s.calls)
}

func TestREPLSkipsBlankAndUnknown(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "\n\nnonsense\nhome\n")
	require.Equal(t, []string{"home"}, s.calls)
}

func TestREPLExitsOnEOF(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "home")
	require.Equal(t, []string{"home"}, s.calls)
}

func TestHelpVariesWithSession(t *testing.T) {
	out := captureOutput(t)
	printHelp(&stubExec{})
	require.Contains(t, strings.Join(*out, "\n"), "login")

	*out = nil
	printHelp(&stubExec{loggedIn: true})
	require.Contains(t, strings.Join(*out, "\n"), "logout")
	require.NotContains(t, strings.Join(*out, "\n"), "admin")

	*out = nil
	printHelp(&stubExec{loggedIn: true, admin: true})
	require.Contains(t, strings.Join(*out, "\n"), "admin")
}
