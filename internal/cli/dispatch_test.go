package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"taskman/internal/api"
	"taskman/internal/cli"
	"taskman/internal/commands"
	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/model"
	"taskman/internal/session"
	"taskman/internal/storage"
	"taskman/internal/tasks"
	"taskman/internal/testutil"
)

// testFactory returns an AppFactory wiring fake clients and a throwaway
// session db.
func testFactory(t *testing.T, auth *testutil.FakeAuthClient, tc *testutil.FakeTasksClient) cli.AppFactory {
	t.Helper()
	return func(ctx context.Context, cfg *config.Config) (*commands.App, error) {
		st, err := storage.Open(cfg.SessionDBPath())
		if err != nil {
			return nil, err
		}
		t.Cleanup(func() { st.Close() })
		return &commands.App{
			Session: session.New(auth, st, nil),
			Tasks:   tasks.New(tc, api.ConventionExpress),
		}, nil
	}
}

// run dispatches args with --config pointed at a temp dir so the real
// XDG config is never touched.
func run(t *testing.T, d *cli.Dispatcher, args []string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), append([]string{args[0], "--config", t.TempDir()}, args[1:]...), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(t, testutil.NewFakeAuthClient(), testutil.NewFakeTasksClient()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(t, testutil.NewFakeAuthClient(), testutil.NewFakeTasksClient()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	stdout, stderr, code := run(t, dispatcher, []string{"help"})

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !bytes.Contains([]byte(stdout), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	stdout, stderr, code := run(t, dispatcher, []string{"version"})

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskman 0.1.0\n" {
		t.Errorf("expected 'taskman 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_AuthCommandWithoutSession(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(t, testutil.NewFakeAuthClient(), testutil.NewFakeTasksClient()))

	stdout, stderr, code := run(t, dispatcher, []string{"list"})

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "error: not logged in (run: taskman login)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_LoginWhileAuthenticated(t *testing.T) {
	auth := testutil.NewFakeAuthClient()
	tc := testutil.NewFakeTasksClient()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(t, auth, tc))

	// A stored token from a previous login keeps guest-only commands out.
	dir := t.TempDir()
	st, err := storage.Open(filepath.Join(dir, config.SessionDBFile))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	if err := st.Set(storage.KeyAuthToken, "tok-123"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	st.Close()

	var stdout, stderr bytes.Buffer
	args := []string{"login", "--config", dir, "--email", "test@example.com", "--password", "secret"}
	code := dispatcher.Run(context.Background(), args, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "already logged in\n" {
		t.Errorf("unexpected stdout: %q", stdout.String())
	}
}

func TestDispatcher_AuthCommandWithSession(t *testing.T) {
	auth := testutil.NewFakeAuthClient()
	tc := testutil.NewFakeTasksClient()
	tc.AddTask(model.Task{ID: "t1", Title: "Buy milk", Status: model.StatusPending, Priority: model.PriorityMedium})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(t, auth, tc))

	dir := t.TempDir()
	st, err := storage.Open(filepath.Join(dir, config.SessionDBFile))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	if err := st.Set(storage.KeyAuthToken, "tok-123"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	st.Close()

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"rm", "--config", dir, "t1"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "ok\n" {
		t.Errorf("unexpected stdout: %q", stdout.String())
	}
	if len(tc.Tasks()) != 0 {
		t.Errorf("expected task deleted, got %+v", tc.Tasks())
	}
}

func TestDispatcher_NoBackendConfigured(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	stdout, stderr, code := run(t, dispatcher, []string{"list"})

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: no backend configured\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}
