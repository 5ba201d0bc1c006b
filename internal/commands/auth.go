package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/session"
)

func init() {
	Register(&RegisterCmd{})
	Register(&LoginCmd{})
	Register(&LogoutCmd{})
	Register(&WhoamiCmd{})
}

// AuthCommand is a command that talks to the auth endpoints. The
// dispatcher hands it an Authenticator before Run.
type AuthCommand interface {
	Command
	SetAuthenticator(auth service.Authenticator)
}

// errNoAuthenticator is reported when no Authenticator was set.
var errNoAuthenticator = errors.New("no auth client configured")

// RegisterCmd creates an account.
type RegisterCmd struct {
	email string
	auth  service.Authenticator
}

func (c *RegisterCmd) SetAuthenticator(auth service.Authenticator) { c.auth = auth }

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string     { return "todo register [--email <email>] [<username>]" }
func (c *RegisterCmd) NeedsAuth() bool   { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	p := newPrompter(cfg.Stdin, errOut)
	r := service.Registration{Username: joinArgs(args), Email: c.email}

	var err error
	if strings.TrimSpace(r.Username) == "" {
		if r.Username, err = p.line("username: "); err != nil {
			return userError(errOut, fmt.Errorf("username required: %w", err))
		}
	}
	if strings.TrimSpace(r.Email) == "" {
		if r.Email, err = p.line("email: "); err != nil {
			return userError(errOut, fmt.Errorf("email required: %w", err))
		}
	}
	if r.Password, err = p.password("password: "); err != nil {
		return userError(errOut, fmt.Errorf("password required: %w", err))
	}
	if err := service.ValidateRegistration(&r); err != nil {
		return userError(errOut, err)
	}
	if c.auth == nil {
		fmt.Fprintf(errOut, "error: auth error: %v\n", errNoAuthenticator)
		return exitcode.AuthError
	}

	acct, err := c.auth.Register(ctx, r)
	if err != nil {
		return authFailure(errOut, "registration failed", err)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "registered %s (run: todo login)\n", acct.Username)
	}
	return exitcode.Success
}

// LoginCmd implements the login command.
type LoginCmd struct {
	auth service.Authenticator
}

func (c *LoginCmd) SetAuthenticator(auth service.Authenticator) { c.auth = auth }

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in and store the session" }
func (c *LoginCmd) Usage() string     { return "todo login [<username>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	p := newPrompter(cfg.Stdin, errOut)

	username := strings.TrimSpace(joinArgs(args))
	var err error
	if username == "" {
		if username, err = p.line("username: "); err != nil || username == "" {
			return userError(errOut, errors.New("username required"))
		}
	}
	password, err := p.password("password: ")
	if err != nil || password == "" {
		return userError(errOut, errors.New("password required"))
	}
	if c.auth == nil {
		fmt.Fprintf(errOut, "error: auth error: %v\n", errNoAuthenticator)
		return exitcode.AuthError
	}

	token, err := c.auth.Login(ctx, username, password)
	if err != nil {
		return authFailure(errOut, "login failed", err)
	}

	if err := session.Save(cfg.SessionPath(), &session.Session{Username: username, Token: token}); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}
	cfg.Log().Debug("session saved", "path", cfg.SessionPath())

	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", username)
	}
	return exitcode.Success
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Remove the stored session" }
func (c *LogoutCmd) Usage() string     { return "todo logout" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	removed, err := session.Clear(cfg.SessionPath())
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to remove session: %v\n", err)
		return exitcode.AuthError
	}
	if cfg.Quiet {
		return exitcode.Success
	}
	if removed {
		fmt.Fprintln(out, "ok")
	} else {
		fmt.Fprintln(out, "not logged in")
	}
	return exitcode.Success
}

// WhoamiCmd prints the logged-in username.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Print the logged-in user" }
func (c *WhoamiCmd) Usage() string     { return "todo whoami" }
func (c *WhoamiCmd) NeedsAuth() bool   { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	sess, err := session.Load(cfg.SessionPath())
	switch {
	case errors.Is(err, session.ErrNoSession):
		fmt.Fprintln(errOut, "error: not logged in (run: todo login)")
		return exitcode.AuthError
	case errors.Is(err, session.ErrExpired):
		if _, cerr := session.Clear(cfg.SessionPath()); cerr != nil {
			cfg.Log().Warn("failed to clear session", "err", cerr)
		}
		fmt.Fprintln(errOut, "error: session expired (run: todo login)")
		return exitcode.AuthError
	case err != nil:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if cfg.Debug && !sess.Token.Expiry.IsZero() {
		fmt.Fprintf(out, "%s (expires %s)\n", sess.Username, output.FormatDeadline(sess.Token.Expiry, cfg.Location()))
		return exitcode.Success
	}
	fmt.Fprintln(out, sess.Username)
	return exitcode.Success
}

// authFailure reports an error from the auth endpoints. These never end a
// session: a 401 here means wrong credentials.
func authFailure(errOut io.Writer, what string, err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintf(errOut, "error: %s: %s\n", what, detail(err, service.ErrUnauthorized))
		return exitcode.AuthError
	case errors.Is(err, service.ErrRejected):
		fmt.Fprintf(errOut, "error: %s: %s\n", what, detail(err, service.ErrRejected))
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// detail returns the server's message from an error wrapping sentinel,
// or the sentinel text if there is none.
func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}
