package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/board"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&RmCmd{})
	Register(&ClearCmd{})
}

// RmCmd deletes a task after asking, or at once with --force.
type RmCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *RmCmd) SetForce(force bool) {
	c.force = force
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "todo rm [--force] <id>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	registerForce(fs, &c.force)
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return userError(errOut, err)
	}
	b, code := loadBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	task, ok := b.Find(id)
	if !ok {
		return userError(errOut, taskErr(id, service.ErrNotFound))
	}
	question := fmt.Sprintf("delete task #%d %q?", id, task.Title)
	if code := confirm(cfg, errOut, c.force, question, fmt.Sprintf("this deletes task #%d", id)); code != exitcode.Success {
		return code
	}

	if err := b.Delete(ctx, id); err != nil {
		return writeFailure(cfg, out, errOut, taskErr(id, err))
	}
	printOK(cfg, out)
	return exitcode.Success
}

func registerForce(fs *flag.FlagSet, force *bool) {
	fs.BoolVar(force, "force", false, "")
	fs.BoolVar(force, "f", false, "")
}

// ClearCmd deletes every completed task after asking, or at once with --force.
type ClearCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *ClearCmd) SetForce(force bool) {
	c.force = force
}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return nil }
func (c *ClearCmd) Synopsis() string  { return "Delete all completed tasks" }
func (c *ClearCmd) Usage() string     { return "todo clear [--force]" }
func (c *ClearCmd) NeedsAuth() bool   { return true }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {
	registerForce(fs, &c.force)
}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	b, code := loadBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	n := b.CompletedCount()
	if n == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no completed tasks to clear")
		}
		return exitcode.Success
	}
	question := fmt.Sprintf("delete %d completed task(s)?", n)
	if code := confirm(cfg, errOut, c.force, question, fmt.Sprintf("this deletes %d completed task(s)", n)); code != exitcode.Success {
		return code
	}

	deleted, err := b.ClearCompleted(ctx)
	if err != nil && !board.IsReloadError(err) {
		return backendFailure(cfg, errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "deleted %d\n", deleted)
	}
	if err != nil {
		return reloadWarning(cfg, errOut, err)
	}
	return exitcode.Success
}
