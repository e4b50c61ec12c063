package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

const prefix = "cmd "

// ErrUnknown is returned by Execute for a subcommand that was never registered.
var ErrUnknown = errors.New("unknown command")

// Command is one console subcommand. Run sees the flag values parsed for the current line.
type Command struct {
	Name    string
	Usage   string
	FlagSet *flag.FlagSet
	Run     func() error
}

// Registry maps subcommand names to commands.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns a registry with no commands.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a subcommand. name is the first token after "cmd" (e.g. "press").
// fs may be nil for commands without flags; run is called after fs.Parse(args[1:]) succeeds.
// Parse errors are returned, never printed.
func (r *Registry) Register(name, usage string, fs *flag.FlagSet, run func() error) {
	if fs == nil {
		fs = flag.NewFlagSet(name, flag.ContinueOnError)
	}
	fs.SetOutput(io.Discard)
	r.cmds[name] = &Command{Name: name, Usage: usage, FlagSet: fs, Run: run}
}

// Names returns the registered subcommands, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Help returns one "name  usage" line per command.
func (r *Registry) Help() []string {
	var out []string
	for _, n := range r.Names() {
		out = append(out, fmt.Sprintf("%s  %s", n, r.cmds[n].Usage))
	}
	return out
}

// Parse splits a console line of the form "cmd <name> [flags]" into fields. ok is false when the
// line lacks the case-sensitive "cmd " prefix.
func Parse(line string) (args []string, ok bool) {
	if !strings.HasPrefix(line, prefix) {
		return nil, false
	}
	rest := strings.TrimSpace(line[len(prefix):])
	if rest == "" {
		return nil, true
	}
	return strings.Fields(rest), true
}

// Execute parses args[1:] into the flags of subcommand args[0] and runs it.
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return errors.New("missing subcommand")
	}
	c, ok := r.cmds[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, args[0])
	}
	if err := c.FlagSet.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	return c.Run()
}

// Submit handles one console line. handled is false when the line is not a command.
func (r *Registry) Submit(line string) (handled bool, err error) {
	args, ok := Parse(line)
	if !ok {
		return false, nil
	}
	return true, r.Execute(args)
}
