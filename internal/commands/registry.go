// Package commands implements the todo commands and the registry that
// the dispatcher looks them up in.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"sync"

	"todo/internal/config"
	"todo/internal/service"
)

// Command is a single todo subcommand. Commands register themselves in
// init and are run once per process.
type Command interface {
	Name() string
	Aliases() []string

	// Synopsis is the one-line description shown by help; Usage is the
	// argument summary shown by help <command>.
	Synopsis() string
	Usage() string

	// NeedsAuth reports whether Run gets a logged-in service. When false,
	// svc is nil.
	NeedsAuth() bool

	// RegisterFlags adds command flags next to the common ones.
	RegisterFlags(fs *flag.FlagSet)

	// Run receives positional args left after flag parsing and returns the
	// process exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// Registry maps command names and aliases to commands.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command
	primary map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Command),
		primary: make(map[string]Command),
	}
}

// Register adds a command under its name and aliases.
// Returns an error if any of them is taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{c.Name()}, c.Aliases()...)
	for _, n := range names {
		if _, taken := r.byName[n]; taken {
			return fmt.Errorf("command name already registered: %s", n)
		}
	}
	for _, n := range names {
		r.byName[n] = c
	}
	r.primary[c.Name()] = c
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.byName[name]
	return cmd, ok
}

// All returns each command once, sorted by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, 0, len(r.primary))
	for _, c := range r.primary {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
