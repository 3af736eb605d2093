package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/cargodesk/internal/client/draft"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	fail  map[string]error
}

func (f *fakeExec) record(name string, args ...string) error {
	call := name
	if len(args) > 0 {
		call += " " + strings.Join(args, " ")
	}
	f.calls = append(f.calls, call)
	return f.fail[name]
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }
func (f *fakeExec) Login(_ context.Context, args []string) error {
	f.loggedIn = true
	return f.record("login", args...)
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(context.Context) error { return f.record("whoami") }
func (f *fakeExec) New(context.Context) error    { return f.record("new") }
func (f *fakeExec) Edit(_ context.Context, args []string) error {
	return f.record("edit", args...)
}
func (f *fakeExec) Set(_ context.Context, args []string) error { return f.record("set", args...) }
func (f *fakeExec) Unset(_ context.Context, args []string) error {
	return f.record("unset", args...)
}
func (f *fakeExec) Select(_ context.Context, c draft.KeyedCollection, args []string) error {
	return f.record("select:"+c.String(), args...)
}
func (f *fakeExec) Entry(_ context.Context, c draft.PositionalCollection, args []string) error {
	return f.record("entry:"+c.String(), args...)
}
func (f *fakeExec) Step(_ context.Context, cmd string, args []string) error {
	return f.record("step:"+cmd, args...)
}
func (f *fakeExec) Show(context.Context) error     { return f.record("show") }
func (f *fakeExec) Submit(context.Context) error   { return f.record("submit") }
func (f *fakeExec) Retry(context.Context) error    { return f.record("retry") }
func (f *fakeExec) Discard(context.Context) error  { return f.record("discard") }
func (f *fakeExec) Catalogs(context.Context) error { return f.record("catalogs") }
func (f *fakeExec) Search(_ context.Context, args []string) error {
	return f.record("search", args...)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	input := strings.Join([]string{
		"login clerk",
		"new",
		"set firm 3",
		"set declnum D 77",
		"unset payment",
		"keeping 1 5",
		"working 2 3",
		"mode 7",
		"transport add 2 AB123",
		"product rm 1",
		"photo add pic.jpg",
		"next",
		"back",
		"goto modes",
		"show",
		"submit",
		"retry",
		"edit 5",
		"catalogs",
		"search firms acme",
		"whoami",
		"discard",
		"logout",
		"exit",
		"new",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login clerk",
		"new",
		"set firm 3",
		"set declnum D 77",
		"unset payment",
		"select:keeping 1 5",
		"select:working 2 3",
		"select:modes 7",
		"entry:transports add 2 AB123",
		"entry:products rm 1",
		"entry:photos add pic.jpg",
		"step:next",
		"step:back",
		"step:goto modes",
		"show",
		"submit",
		"retry",
		"edit 5",
		"catalogs",
		"search firms acme",
		"whoami",
		"discard",
		"logout",
	}, exec.calls)
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("help\nlogin\nhelp\n")))

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, helpLoggedOut)
	assert.Contains(t, joined, helpLoggedIn)
}

func TestRunREPL_PrintsErrorsAndUnknownCommands(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{fail: map[string]error{"submit": errors.New("boom")}}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("\nsubmit\nfoobar\nquit\n")))

	assert.Contains(t, *out, "Error: boom")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "Bye!")
	assert.Contains(t, *out, "cd s > ")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("whoami")))
	assert.Equal(t, []string{"whoami"}, exec.calls)
}
