package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"todo/internal/board"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&ListCmd{})
	Register(&ShowCmd{})
	Register(&StatsCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list [filters]`.
type ListCmd struct {
	status   string
	category string
	search   string
	sort     string
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "todo list [--status all|active|completed] [--category all|<category>] [--search <text>] [--sort <mode>]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", string(board.StatusAll), "")
	fs.StringVar(&c.category, "category", board.CategoryAll, "")
	fs.StringVar(&c.category, "c", board.CategoryAll, "")
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
	fs.StringVar(&c.sort, "sort", string(board.SortPosition), "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	q, err := c.query(args)
	if err != nil {
		return userError(errOut, err)
	}

	b, code := loadBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	tasks := q.Apply(b.Tasks())
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, output.EmptyMessage)
		}
		return exitcode.Success
	}
	newPrinter(cfg, out).Tasks(tasks, time.Now())
	return exitcode.Success
}

// query builds the view query from flags. Positional args, if any, are
// joined into the search term.
func (c *ListCmd) query(args []string) (board.Query, error) {
	status, err := board.ParseStatus(c.status)
	if err != nil {
		return board.Query{}, err
	}
	category, err := board.ParseCategoryFilter(c.category)
	if err != nil {
		return board.Query{}, err
	}
	sort, err := board.ParseSort(c.sort)
	if err != nil {
		return board.Query{}, err
	}
	search := c.search
	if search == "" && len(args) > 0 {
		search = joinArgs(args)
	}
	return board.Query{Status: status, Category: category, Search: search, Sort: sort}, nil
}

// ShowCmd prints one task with its subtasks.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return nil }
func (c *ShowCmd) Synopsis() string  { return "Show a task and its subtasks" }
func (c *ShowCmd) Usage() string     { return "todo show <id>" }
func (c *ShowCmd) NeedsAuth() bool   { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return userError(errOut, err)
	}
	task, err := svc.GetTask(ctx, id)
	if err != nil {
		return backendFailure(cfg, errOut, taskErr(id, err))
	}
	newPrinter(cfg, out).Tasks([]service.Task{task}, time.Now())
	return exitcode.Success
}

// StatsCmd prints task statistics.
type StatsCmd struct{}

func (c *StatsCmd) Name() string      { return "stats" }
func (c *StatsCmd) Aliases() []string { return nil }
func (c *StatsCmd) Synopsis() string  { return "Show task statistics" }
func (c *StatsCmd) Usage() string     { return "todo stats" }
func (c *StatsCmd) NeedsAuth() bool   { return true }

func (c *StatsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	b, code := loadBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	newPrinter(cfg, out).Stats(board.ComputeStats(b.Tasks(), time.Now()))
	return exitcode.Success
}
