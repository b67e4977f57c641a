package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	calls []string
	fail  error
}

func (f *fakeExec) record(name, args string) error {
	if args != "" {
		name += " " + args
	}
	f.calls = append(f.calls, name)
	return f.fail
}

func (f *fakeExec) List(_ context.Context, a string) error { return f.record("list", a) }
func (f *fakeExec) Show(_ context.Context, a string) error { return f.record("show", a) }
func (f *fakeExec) Set(_ context.Context, a string) error { return f.record("set", a) }
func (f *fakeExec) Clear(_ context.Context, a string) error { return f.record("clear", a) }
func (f *fakeExec) AddChoice(_ context.Context, a string) error { return f.record("add", a) }
func (f *fakeExec) RemoveChoice(_ context.Context, a string) error {
	return f.record("remove", a)
}
func (f *fakeExec) SetYes(_ context.Context, a string) error { return f.record("yes", a) }
func (f *fakeExec) SetNo(_ context.Context, a string) error { return f.record("no", a) }
func (f *fakeExec) Date(_ context.Context, a string) error { return f.record("date", a) }
func (f *fakeExec) Terms(_ context.Context, a string) error { return f.record("terms", a) }
func (f *fakeExec) Preview(_ context.Context, a string) error { return f.record("preview", a) }
func (f *fakeExec) Mode(_ context.Context, a string) error { return f.record("mode", a) }
func (f *fakeExec) Submit(_ context.Context, a string) error { return f.record("submit", a) }
func (f *fakeExec) Drafts(_ context.Context, a string) error { return f.record("drafts", a) }
func (f *fakeExec) Save(_ context.Context, a string) error { return f.record("save", a) }
func (f *fakeExec) Resume(_ context.Context, a string) error { return f.record("resume", a) }
func (f *fakeExec) Discard(_ context.Context, a string) error { return f.record("discard", a) }
func (f *fakeExec) Reload(_ context.Context, a string) error { return f.record("reload", a) }
func (f *fakeExec) Status(_ context.Context, a string) error { return f.record("status", a) }
func (f *fakeExec) Cache(_ context.Context, a string) error { return f.record("cache", a) }

// capturePrints replaces the REPL output seams and returns what was printed.
func capturePrints(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrintln, origPrint := printlnFn, printFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	printFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn, printFn = origPrintln, origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrints(t)

	input := strings.Join([]string{
		"",
		"help",
		"l",
		"  SET  Title   Hello world ",
		"add Colors Red",
		"rm Colors Blue",
		"yes Status",
		"no Status",
		"date Due 2024-05-01",
		"terms Topic Finance|5f0c",
		"clear Title",
		"show Title",
		"preview",
		"mode native",
		"submit",
		"save",
		"drafts",
		"resume 1a2b",
		"discard 1a2b",
		"reload -f",
		"status",
		"cache clear",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))

	want := []string{
		"list",
		"set Title   Hello world",
		"add Colors Red",
		"remove Colors Blue",
		"yes Status",
		"no Status",
		"date Due 2024-05-01",
		"terms Topic Finance|5f0c",
		"clear Title",
		"show Title",
		"preview",
		"mode native",
		"submit",
		"save",
		"drafts",
		"resume 1a2b",
		"discard 1a2b",
		"reload -f",
		"status",
		"cache clear",
	}
	assert.Equal(t, want, exec.calls)
}

func TestRunREPL_PrintsErrorsAndUnknownCommands(t *testing.T) {
	lines := capturePrints(t)

	exec := &fakeExec{fail: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "pp> " }, bufio.NewReader(strings.NewReader("submit\nfrobnicate\nquit\n")))

	assert.Equal(t, []string{"submit"}, exec.calls)
	assert.Contains(t, *lines, "pp> ")
	assert.Contains(t, *lines, "Error: boom")
	assert.Contains(t, *lines, "Unknown command: frobnicate")
	assert.Contains(t, *lines, "Bye!")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrints(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("list\nsubmit")))

	assert.Equal(t, []string{"list", "submit"}, exec.calls)
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	capturePrints(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("list\n")))
	require.Empty(t, exec.calls)
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		line, cmd, args string
	}{
		{"", "", ""},
		{"list", "list", ""},
		{"  Set Title  x y ", "set", "Title  x y"},
		{"terms Topic A|1;B|2\n", "terms", "Topic A|1;B|2"},
	}
	for _, tt := range tests {
		cmd, args := splitCommand(tt.line)
		assert.Equal(t, tt.cmd, cmd, tt.line)
		assert.Equal(t, tt.args, args, tt.line)
	}

	field, rest := splitField("Title   New title")
	assert.Equal(t, "Title", field)
	assert.Equal(t, "New title", rest)
}
