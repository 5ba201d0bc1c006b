package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&ThemeCmd{})
}

// ThemeCmd shows or changes the stored color theme.
type ThemeCmd struct{}

func (c *ThemeCmd) Name() string      { return "theme" }
func (c *ThemeCmd) Aliases() []string { return nil }
func (c *ThemeCmd) Synopsis() string  { return "Show or set the color theme" }
func (c *ThemeCmd) Usage() string     { return "todo theme [light|dark|toggle]" }
func (c *ThemeCmd) NeedsAuth() bool   { return false }

func (c *ThemeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ThemeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(out, cfg.Theme())
		return exitcode.Success
	}

	var theme string
	switch arg := strings.ToLower(strings.TrimSpace(args[0])); arg {
	case config.ThemeLight, config.ThemeDark:
		theme = arg
	case "toggle":
		theme = config.ThemeDark
		if cfg.Theme() == config.ThemeDark {
			theme = config.ThemeLight
		}
	default:
		fmt.Fprintf(errOut, "error: invalid theme: %s (want light, dark or toggle)\n", args[0])
		return exitcode.UserError
	}

	cfg.Settings.Theme = theme
	if err := cfg.SaveSettings(); err != nil {
		fmt.Fprintf(errOut, "error: failed to save settings: %v\n", err)
		return exitcode.UserError
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, theme)
	}
	return exitcode.Success
}
