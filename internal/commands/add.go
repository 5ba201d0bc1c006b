package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"todo/internal/board"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&AddCmd{})
	Register(&EditCmd{})
}

// taskFields holds the optional task attributes shared by add and edit.
type taskFields struct {
	priority string
	category string
	deadline string
}

func (f *taskFields) register(fs *flag.FlagSet) {
	fs.StringVar(&f.priority, "priority", "", "")
	fs.StringVar(&f.priority, "p", "", "")
	fs.StringVar(&f.category, "category", "", "")
	fs.StringVar(&f.category, "c", "", "")
	fs.StringVar(&f.deadline, "deadline", "", "")
	fs.StringVar(&f.deadline, "d", "", "")
}

func (f *taskFields) parsePriority() (*service.Priority, error) {
	if f.priority == "" {
		return nil, nil
	}
	p, err := service.ParsePriority(f.priority)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (f *taskFields) parseCategory() (*service.Category, error) {
	if f.category == "" {
		return nil, nil
	}
	c, err := service.ParseCategory(f.category)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (f *taskFields) parseDeadline(loc *time.Location) (*time.Time, error) {
	if f.deadline == "" {
		return nil, nil
	}
	d, err := service.ParseDeadline(f.deadline, loc)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// AddCmd implements the add command.
type AddCmd struct {
	fields taskFields
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "todo add [--priority <p>] [--category <c>] [--deadline <when>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.fields.register(fs)
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title, err := titleFromArgs(args)
	if err != nil {
		return userError(errOut, err)
	}

	in := service.NewTask{Title: title, Priority: service.PriorityMedium}
	if p, err := c.fields.parsePriority(); err != nil {
		return userError(errOut, err)
	} else if p != nil {
		in.Priority = *p
	}
	if cat, err := c.fields.parseCategory(); err != nil {
		return userError(errOut, err)
	} else if cat != nil {
		in.Category = *cat
	}
	if in.Deadline, err = c.fields.parseDeadline(cfg.Location()); err != nil {
		return userError(errOut, err)
	}

	b, code := loadBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	task, err := b.Create(ctx, in)
	if err != nil && !board.IsReloadError(err) {
		return backendFailure(cfg, errOut, err)
	}
	cfg.Log().Debug("task created", "id", task.ID, "tasks", len(b.Tasks()))

	if !cfg.Quiet {
		fmt.Fprintf(out, "created #%d\n", task.ID)
	}
	if err != nil {
		return reloadWarning(cfg, errOut, err)
	}
	return exitcode.Success
}

// EditCmd changes a task's title, priority, category or deadline.
// Only the given fields are sent; a category or deadline cannot be removed.
type EditCmd struct {
	fields taskFields
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "todo edit [--priority <p>] [--category <c>] [--deadline <when>] <id> [new title...]"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.fields.register(fs)
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return userError(errOut, err)
	}

	var upd service.TaskUpdate
	if len(args) > 1 {
		title, err := titleFromArgs(args[1:])
		if err != nil {
			return userError(errOut, err)
		}
		upd.Title = &title
	}
	if upd.Priority, err = c.fields.parsePriority(); err != nil {
		return userError(errOut, err)
	}
	if upd.Category, err = c.fields.parseCategory(); err != nil {
		return userError(errOut, err)
	}
	if upd.Deadline, err = c.fields.parseDeadline(cfg.Location()); err != nil {
		return userError(errOut, err)
	}
	if upd == (service.TaskUpdate{}) {
		return userError(errOut, errors.New("nothing to change"))
	}

	b, code := loadBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	if err := b.Update(ctx, id, upd); err != nil {
		return writeFailure(cfg, out, errOut, taskErr(id, err))
	}
	printTask(cfg, out, b, id)
	return exitcode.Success
}
