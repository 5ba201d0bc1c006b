// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/session"
)

// DefaultCommand runs when no command is given.
const DefaultCommand = "list"

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// AuthenticatorFactory creates the client for the auth endpoints.
// Used to inject it into login and register.
type AuthenticatorFactory func(cfg *config.Config) service.Authenticator

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	auth     AuthenticatorFactory

	// Stdin is handed to commands that prompt.
	Stdin io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and factories.
// auth may be nil if no auth command is run.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory, auth AuthenticatorFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		auth:     auth,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	name := DefaultCommand
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}

	// Flags require a command.
	if strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	apiURL    string
	quiet     bool
	debug     bool
	noColor   bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.StringVar(&f.apiURL, "api-url", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.quiet, "q", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
	fs.BoolVar(&f.noColor, "no-color", false, "")
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // errors are reported below

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A positional arg starting with - would have been parsed as a flag.
	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	cfg.NoColor = cfg.NoColor || common.noColor
	cfg.Stdin = d.Stdin
	if common.apiURL != "" {
		cfg.Settings.APIURL = common.apiURL
	}
	if cfg.Debug {
		cfg.Logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	cfg.Log().Debug("dispatch", "command", cmd.Name(), "config", cfg.Dir, "api", cfg.APIURL())

	var svc service.Service
	if cmd.NeedsAuth() {
		svc, err = d.factory(ctx, cfg)
		switch {
		case errors.Is(err, session.ErrNoSession):
			fmt.Fprintln(errOut, "error: not logged in (run: todo login)")
			return exitcode.AuthError
		case errors.Is(err, session.ErrExpired):
			fmt.Fprintln(errOut, "error: session expired (run: todo login)")
			return exitcode.AuthError
		}
		if err != nil {
			fmt.Fprintf(errOut, "error: auth error: %v\n", err)
			return exitcode.AuthError
		}
	}

	if ac, ok := cmd.(commands.AuthCommand); ok {
		var auth service.Authenticator
		if d.auth != nil {
			auth = d.auth(cfg)
		}
		ac.SetAuthenticator(auth)
	}

	return cmd.Run(ctx, cfg, svc, positional, out, errOut)
}

// flagError rewrites flag package errors into CLI messages.
func flagError(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument: "):
		return msg
	case strings.HasPrefix(msg, "flag provided but not defined: "):
		return "unknown flag: " + strings.TrimPrefix(msg, "flag provided but not defined: ")
	}
	return msg
}
