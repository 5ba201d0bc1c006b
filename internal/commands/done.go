package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "todo done <id>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, svc, args, true, out, errOut)
}

// UndoCmd reopens a completed task.
type UndoCmd struct{}

func (c *UndoCmd) Name() string      { return "undo" }
func (c *UndoCmd) Aliases() []string { return []string{"reopen"} }
func (c *UndoCmd) Synopsis() string  { return "Mark a task not completed" }
func (c *UndoCmd) Usage() string     { return "todo undo <id>" }
func (c *UndoCmd) NeedsAuth() bool   { return true }

func (c *UndoCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, svc, args, false, out, errOut)
}

func runSetCompleted(ctx context.Context, cfg *config.Config, svc service.Service, args []string, completed bool, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return userError(errOut, err)
	}
	b, code := loadBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	if err := b.SetCompleted(ctx, id, completed); err != nil {
		return writeFailure(cfg, out, errOut, taskErr(id, err))
	}
	printTask(cfg, out, b, id)
	return exitcode.Success
}
