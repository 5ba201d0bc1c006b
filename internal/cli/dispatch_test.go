package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/session"
	"todo/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	// --config goes first so it is parsed before any positional args.
	argv := append([]string{args[0], "--config", t.TempDir()}, args[1:]...)
	code = d.Run(context.Background(), argv, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), nil)

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
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), nil)

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
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), nil)

	stdout, stderr, code := run(t, dispatcher, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "todo reorder", "todo subadd", "--api-url"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected help output to contain %q", want)
		}
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), nil)

	stdout, stderr, code := run(t, dispatcher, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected 'todo 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), nil)

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

func TestDispatcher_MissingFlagValue(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--sort"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -sort\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc), nil)

	var stdout, stderr bytes.Buffer
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "[ ] #1  Buy milk  medium\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestDispatcher_CommonFlagsAfterCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc), nil)

	stdout, stderr, code := run(t, dispatcher, "add", "--quiet", "--no-color", "Buy", "milk")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected no output with --quiet, got %q", stdout)
	}
	if task, ok := svc.Task(1); !ok || task.Title != "Buy milk" {
		t.Errorf("expected task created, got %+v", task)
	}
}

func TestDispatcher_NotLoggedIn(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, session.ErrNoSession
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, nil)

	_, stderr, code := run(t, dispatcher, "list")
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not logged in (run: todo login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, errors.New("invalid session file")
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, nil)

	_, stderr, code := run(t, dispatcher, "stats")
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "invalid session file") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_NoAuthCommandsSkipFactory(t *testing.T) {
	called := false
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		called = true
		return nil, session.ErrNoSession
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, nil)

	if _, _, code := run(t, dispatcher, "logout"); code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if called {
		t.Error("factory should not be called for logout")
	}
}

func TestDispatcher_APIURLFlag(t *testing.T) {
	var got string
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		got = cfg.APIURL()
		return testutil.NewFakeService(), nil
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, nil)

	if _, stderr, code := run(t, dispatcher, "list", "--api-url", "http://example.test/api/"); code != exitcode.Success {
		t.Fatalf("unexpected exit code %d (%s)", code, stderr)
	}
	if got != "http://example.test/api" {
		t.Errorf("expected flag to override the API URL, got %q", got)
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), nil)

	_, stderr, code := run(t, dispatcher, "version", "--debug")
	if code != exitcode.Success {
		t.Fatalf("unexpected exit code %d", code)
	}
	if !strings.Contains(stderr, "level=DEBUG") || !strings.Contains(stderr, "command=version") {
		t.Errorf("expected debug log on stderr, got %q", stderr)
	}
}

func TestDispatcher_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte("theme: [\n"), 0600); err != nil {
		t.Fatal(err)
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version", "--config", dir}, &stdout, &stderr)
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr.String(), "error: invalid settings.yaml") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_ExpiredSession(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, session.ErrExpired
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, nil)

	_, stderr, code := run(t, dispatcher, "done", "1")
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: session expired (run: todo login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// fakeAuth records the logins it is asked for.
type fakeAuth struct {
	apiURL string
	logins []string
}

func (f *fakeAuth) Register(ctx context.Context, r service.Registration) (service.Account, error) {
	return service.Account{Username: r.Username, Email: r.Email}, nil
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	f.logins = append(f.logins, username+":"+password)
	return &oauth2.Token{AccessToken: "tok-" + username, TokenType: "bearer"}, nil
}

func TestDispatcher_InjectsAuthenticator(t *testing.T) {
	auth := &fakeAuth{}
	authFactory := func(cfg *config.Config) service.Authenticator {
		auth.apiURL = cfg.APIURL()
		return auth
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), authFactory)
	dispatcher.Stdin = strings.NewReader("secret1\n")

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(),
		[]string{"login", "--config", dir, "--api-url", "http://example.test", "alice"}, &stdout, &stderr)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "logged in as alice\n" {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
	if len(auth.logins) != 1 || auth.logins[0] != "alice:secret1" {
		t.Errorf("expected one login through the injected client, got %v", auth.logins)
	}
	if auth.apiURL != "http://example.test" {
		t.Errorf("expected the factory to see the final config, got %q", auth.apiURL)
	}

	sess, err := session.Load(filepath.Join(dir, config.SessionFile))
	if err != nil {
		t.Fatalf("expected a saved session: %v", err)
	}
	if sess.Token.AccessToken != "tok-alice" {
		t.Errorf("unexpected token %q", sess.Token.AccessToken)
	}
}

func TestDispatcher_NoAuthenticator(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), nil)
	dispatcher.Stdin = strings.NewReader("secret1\n")

	_, stderr, code := run(t, dispatcher, "login", "alice")
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasSuffix(stderr, "error: auth error: no auth client configured\n") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
