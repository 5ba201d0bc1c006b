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
	Register(&SubsCmd{})
	Register(&SubAddCmd{})
	Register(&SubDoneCmd{})
	Register(&SubUndoCmd{})
	Register(&SubRmCmd{})
}

// SubsCmd lists the subtasks of a task.
type SubsCmd struct{}

func (c *SubsCmd) Name() string      { return "subs" }
func (c *SubsCmd) Aliases() []string { return nil }
func (c *SubsCmd) Synopsis() string  { return "List subtasks of a task" }
func (c *SubsCmd) Usage() string     { return "todo subs <id>" }
func (c *SubsCmd) NeedsAuth() bool   { return true }

func (c *SubsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SubsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return userError(errOut, err)
	}
	task, err := svc.GetTask(ctx, id)
	if err != nil {
		return backendFailure(cfg, errOut, taskErr(id, err))
	}
	if len(task.Subtasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no subtasks")
		}
		return exitcode.Success
	}
	p := newPrinter(cfg, out)
	for _, s := range task.Subtasks {
		p.Subtask(s)
	}
	return exitcode.Success
}

// SubAddCmd adds a subtask.
type SubAddCmd struct{}

func (c *SubAddCmd) Name() string      { return "subadd" }
func (c *SubAddCmd) Aliases() []string { return nil }
func (c *SubAddCmd) Synopsis() string  { return "Add a subtask" }
func (c *SubAddCmd) Usage() string     { return "todo subadd <id> <title...>" }
func (c *SubAddCmd) NeedsAuth() bool   { return true }

func (c *SubAddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SubAddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return userError(errOut, err)
	}
	title, err := titleFromArgs(args[1:])
	if err != nil {
		return userError(errOut, err)
	}
	b, code := loadBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	sub, err := b.AddSubtask(ctx, id, title)
	if err != nil && !board.IsReloadError(err) {
		return backendFailure(cfg, errOut, taskErr(id, err))
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "created #%d/#%d\n", id, sub.ID)
	}
	if err != nil {
		return reloadWarning(cfg, errOut, err)
	}
	return exitcode.Success
}

// SubDoneCmd marks a subtask completed.
type SubDoneCmd struct{}

func (c *SubDoneCmd) Name() string      { return "subdone" }
func (c *SubDoneCmd) Aliases() []string { return nil }
func (c *SubDoneCmd) Synopsis() string  { return "Mark a subtask completed" }
func (c *SubDoneCmd) Usage() string     { return "todo subdone <id> <subtask-id>" }
func (c *SubDoneCmd) NeedsAuth() bool   { return true }

func (c *SubDoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SubDoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetSubtaskCompleted(ctx, cfg, svc, args, true, out, errOut)
}

// SubUndoCmd reopens a subtask.
type SubUndoCmd struct{}

func (c *SubUndoCmd) Name() string      { return "subundo" }
func (c *SubUndoCmd) Aliases() []string { return nil }
func (c *SubUndoCmd) Synopsis() string  { return "Mark a subtask not completed" }
func (c *SubUndoCmd) Usage() string     { return "todo subundo <id> <subtask-id>" }
func (c *SubUndoCmd) NeedsAuth() bool   { return true }

func (c *SubUndoCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SubUndoCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetSubtaskCompleted(ctx, cfg, svc, args, false, out, errOut)
}

func runSetSubtaskCompleted(ctx context.Context, cfg *config.Config, svc service.Service, args []string, completed bool, out, errOut io.Writer) int {
	ref, err := ParseSubtaskRef(args)
	if err != nil {
		return userError(errOut, err)
	}
	b, code := loadBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	if err := b.SetSubtaskCompleted(ctx, ref.TaskID, ref.SubtaskID, completed); err != nil {
		return writeFailure(cfg, out, errOut, subtaskErr(ref, err))
	}
	printTask(cfg, out, b, ref.TaskID)
	return exitcode.Success
}

// SubRmCmd deletes a subtask after asking, or at once with --force.
type SubRmCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *SubRmCmd) SetForce(force bool) {
	c.force = force
}

func (c *SubRmCmd) Name() string      { return "subrm" }
func (c *SubRmCmd) Aliases() []string { return nil }
func (c *SubRmCmd) Synopsis() string  { return "Delete a subtask" }
func (c *SubRmCmd) Usage() string     { return "todo subrm [--force] <id> <subtask-id>" }
func (c *SubRmCmd) NeedsAuth() bool   { return true }

func (c *SubRmCmd) RegisterFlags(fs *flag.FlagSet) {
	registerForce(fs, &c.force)
}

func (c *SubRmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := ParseSubtaskRef(args)
	if err != nil {
		return userError(errOut, err)
	}
	b, code := loadBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	sub, ok := findSubtask(b, ref)
	if !ok {
		return userError(errOut, subtaskErr(ref, service.ErrNotFound))
	}
	question := fmt.Sprintf("delete subtask #%d/#%d %q?", ref.TaskID, ref.SubtaskID, sub.Title)
	refusal := fmt.Sprintf("this deletes subtask #%d/#%d", ref.TaskID, ref.SubtaskID)
	if code := confirm(cfg, errOut, c.force, question, refusal); code != exitcode.Success {
		return code
	}

	if err := b.DeleteSubtask(ctx, ref.TaskID, ref.SubtaskID); err != nil {
		return writeFailure(cfg, out, errOut, subtaskErr(ref, err))
	}
	printTask(cfg, out, b, ref.TaskID)
	return exitcode.Success
}

func findSubtask(b *board.Board, ref SubtaskRef) (service.Subtask, bool) {
	task, ok := b.Find(ref.TaskID)
	if !ok {
		return service.Subtask{}, false
	}
	for _, s := range task.Subtasks {
		if s.ID == ref.SubtaskID {
			return s, true
		}
	}
	return service.Subtask{}, false
}

func subtaskErr(ref SubtaskRef, err error) error {
	return fmt.Errorf("subtask %d/%d: %w", ref.TaskID, ref.SubtaskID, err)
}
