package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
	arg   string
	err   error
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeExec) List(ctx context.Context) error { return f.record("list") }
func (f *fakeExec) Search(ctx context.Context, term string) error {
	f.arg = term
	return f.record("search")
}
func (f *fakeExec) Sort(ctx context.Context, args []string) error     { return f.record("sort") }
func (f *fakeExec) Favorite(ctx context.Context, args []string) error { return f.record("fav") }
func (f *fakeExec) Add(ctx context.Context) error                     { return f.record("add") }
func (f *fakeExec) Refresh(ctx context.Context) error                 { return f.record("refresh") }
func (f *fakeExec) Pending(ctx context.Context) error                 { return f.record("pending") }
func (f *fakeExec) Sync(ctx context.Context) error                    { return f.record("sync") }
func (f *fakeExec) Image(ctx context.Context, args []string) error    { return f.record("image") }
func (f *fakeExec) Export(ctx context.Context, args []string) error   { return f.record("export") }
func (f *fakeExec) Status(ctx context.Context) error                  { return f.record("status") }

func runLines(t *testing.T, exec execIface, promptFn func() string, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, promptFn, reader, &out)
	return out.String()
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	exec := &fakeExec{}
	out := runLines(t, exec, nil,
		"help",
		"list",
		"l",
		"",
		"search red  pen",
		"sort price-asc",
		"fav 2",
		"add",
		"refresh",
		"pending",
		"sync",
		"image 1",
		"export out.csv",
		"status",
		"foobar",
		"exit",
		"list",
	)

	assert.Equal(t, []string{"list", "list", "search", "sort", "fav", "add", "refresh", "pending", "sync", "image", "export", "status"}, exec.calls)
	assert.Equal(t, "red pen", exec.arg)
	assert.Contains(t, out, "Available commands:")
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_ErrorsDoNotStopTheLoop(t *testing.T) {
	exec := &fakeExec{err: errors.New("boom")}
	out := runLines(t, exec, nil, "list", "sync")

	assert.Equal(t, []string{"list", "sync"}, exec.calls)
	assert.Equal(t, 2, strings.Count(out, "Error: boom"))
}

func TestRunREPL_PromptAndEOF(t *testing.T) {
	exec := &fakeExec{}
	out := runLines(t, exec, func() string { return "catalog (offline) > " }, "status")

	assert.Equal(t, []string{"status"}, exec.calls)
	assert.Equal(t, 2, strings.Count(out, "catalog (offline) > "))
	assert.NotContains(t, out, "Bye!")
}
