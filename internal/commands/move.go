package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"golang.org/x/term"

	"todo/internal/board"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/reorder"
	"todo/internal/service"
)

func init() {
	Register(&MoveCmd{})
	Register(&ReorderCmd{})
}

// MoveCmd drops one task onto another, or shifts it by a number of places.
type MoveCmd struct {
	by int
}

func (c *MoveCmd) Name() string      { return "move" }
func (c *MoveCmd) Aliases() []string { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string  { return "Move a task in the list order" }
func (c *MoveCmd) Usage() string     { return "todo move <id> <target-id> | todo move --by <n> <id>" }
func (c *MoveCmd) NeedsAuth() bool   { return true }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.by, "by", 0, "")
}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return userError(errOut, err)
	}

	var target int
	switch {
	case c.by != 0 && len(args) > 1:
		return userError(errOut, errors.New("cannot use both --by and a target task"))
	case c.by == 0:
		if len(args) < 2 {
			return userError(errOut, errors.New("target task id required"))
		}
		if target, err = ParseTaskID(args[1:]); err != nil {
			return userError(errOut, err)
		}
	}

	b, code := loadBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	if c.by != 0 {
		order := board.IDs(b.Tasks())
		from := slices.Index(order, id)
		if from < 0 {
			return userError(errOut, taskErr(id, service.ErrNotFound))
		}
		// Dropping onto the task that currently occupies the destination
		// gives the same result as shifting.
		_, to := board.MoveBy(order, from, c.by)
		target = order[to]
	}

	if err := b.Move(ctx, id, target); err != nil {
		return writeFailure(cfg, out, errOut, err)
	}
	printOK(cfg, out)
	return exitcode.Success
}

// ReorderCmd opens the interactive reorder screen.
type ReorderCmd struct{}

func (c *ReorderCmd) Name() string      { return "reorder" }
func (c *ReorderCmd) Aliases() []string { return nil }
func (c *ReorderCmd) Synopsis() string  { return "Reorder tasks interactively" }
func (c *ReorderCmd) Usage() string     { return "todo reorder" }
func (c *ReorderCmd) NeedsAuth() bool   { return true }

func (c *ReorderCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ReorderCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	in, ok := cfg.Stdin.(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		fmt.Fprintln(errOut, "error: reorder needs an interactive terminal (use: todo move)")
		return exitcode.UserError
	}

	b, code := loadBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	saves, err := reorder.Run(ctx, b, newPrinter(cfg, out), in, out)
	if err != nil {
		return backendFailure(cfg, errOut, err)
	}
	cfg.Log().Debug("reorder finished", "saves", saves)
	if !cfg.Quiet && saves > 0 {
		fmt.Fprintf(out, "saved %d change(s)\n", saves)
	}
	return exitcode.Success
}
