package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"todo/internal/board"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/session"
)

// backendFailure reports err and returns its exit code.
// A rejected token ends the session, as if the user had logged out.
func backendFailure(cfg *config.Config, errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		if _, cerr := session.Clear(cfg.SessionPath()); cerr != nil {
			cfg.Log().Warn("failed to clear session", "err", cerr)
		}
		fmt.Fprintln(errOut, "error: session expired (run: todo login)")
		return exitcode.AuthError
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrRejected):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// writeFailure reports an error from a board write and returns its exit
// code. If the server applied the write and only the reload failed, the
// write is reported as done and a warning follows.
func writeFailure(cfg *config.Config, out, errOut io.Writer, err error) int {
	if board.IsReloadError(err) && !errors.Is(err, service.ErrUnauthorized) {
		printOK(cfg, out)
	}
	return reloadWarning(cfg, errOut, err)
}

// reloadWarning reports a reload error after a successful write. The
// exit code is Success unless the reload found the session rejected.
// Any other error goes to backendFailure.
func reloadWarning(cfg *config.Config, errOut io.Writer, err error) int {
	var rerr *board.ReloadError
	if !errors.As(err, &rerr) || errors.Is(err, service.ErrUnauthorized) {
		return backendFailure(cfg, errOut, err)
	}
	cfg.Log().Debug("reload after write failed", "err", rerr.Err)
	fmt.Fprintf(errOut, "warning: %v\n", rerr)
	return exitcode.Success
}

// confirm asks on stdin before a destructive change unless force is set.
// Without stdin the change is refused with refusal and a hint to use --force.
func confirm(cfg *config.Config, errOut io.Writer, force bool, question, refusal string) int {
	if force {
		return exitcode.Success
	}
	answer, err := newPrompter(cfg.Stdin, errOut).line(question + " [y/N] ")
	if err != nil {
		fmt.Fprintf(errOut, "error: %s; use --force\n", refusal)
		return exitcode.UserError
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return exitcode.Success
	}
	fmt.Fprintln(errOut, "error: cancelled")
	return exitcode.UserError
}

// printTask prints a task from the reloaded board with its subtasks.
func printTask(cfg *config.Config, out io.Writer, b *board.Board, id int) {
	if cfg.Quiet {
		return
	}
	t, ok := b.Find(id)
	if !ok {
		printOK(cfg, out)
		return
	}
	newPrinter(cfg, out).Tasks([]service.Task{t}, time.Now())
}

// userError prints err and returns exitcode.UserError.
func userError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}

// loadBoard fetches the task list. On failure the error has been reported
// and the returned code is non-zero.
func loadBoard(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (*board.Board, int) {
	b, err := board.Load(ctx, svc)
	if err != nil {
		return nil, backendFailure(cfg, errOut, err)
	}
	return b, exitcode.Success
}

// titleFromArgs joins args into a validated title.
func titleFromArgs(args []string) (string, error) {
	return service.ValidateTitle(joinArgs(args))
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

func newPrinter(cfg *config.Config, out io.Writer) *output.Printer {
	return output.NewPrinter(out, cfg.Theme(), cfg.NoColor, cfg.Location())
}

func printOK(cfg *config.Config, out io.Writer) {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
}

func taskErr(id int, err error) error {
	return fmt.Errorf("task %d: %w", id, err)
}
