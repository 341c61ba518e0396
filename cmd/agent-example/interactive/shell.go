// Package interactive provides the interactive command-line interface
// for agent-example.
package interactive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/mash-protocol/agent-go/pkg/agent"
	"github.com/mash-protocol/agent-go/pkg/examples"
)

// lineReader is the part of *readline.Instance the command loop uses.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

// Shell handles interactive mode for agent-example.
type Shell struct {
	hp        *examples.HeatPump
	order     []string
	bindings  map[string]binding
	watches   map[agent.SubscriptionID]string
	out       io.Writer
	term      *readline.Instance
	in        lineReader
	closeOnce sync.Once
}

// New creates a shell for hp reading from the terminal.
func New(hp *examples.HeatPump) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "heatpump> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := newShell(hp, rl.Stdout())
	s.term = rl
	s.in = rl
	return s, nil
}

func newShell(hp *examples.HeatPump, out io.Writer) *Shell {
	order, bindings := heatPumpBindings(hp)
	return &Shell{
		hp:       hp,
		order:    order,
		bindings: bindings,
		watches:  make(map[agent.SubscriptionID]string),
		out:      out,
	}
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.term.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (s *Shell) Stderr() io.Writer {
	return s.term.Stderr()
}

// Run starts the interactive command loop. Cancelling ctx closes the input,
// so Run also returns while a read is pending.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.Close()
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	s.printHelp()

	for {
		line, err := s.in.Readline()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if !s.Execute(line) {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Close closes the shell input. A blocked Run returns. Close may be called
// more than once and from any goroutine.
func (s *Shell) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.in != nil {
			err = s.in.Close()
		}
	})
	return err
}

// Execute runs one command line. It returns false when the shell should
// exit.
func (s *Shell) Execute(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "list", "ls":
		s.cmdList()

	case "get", "g":
		s.cmdGet(args)

	case "set", "s":
		s.cmdSet(args)

	case "add":
		s.cmdAdd(args)

	case "inc", "dec":
		s.cmdStep(cmd == "inc", args)

	case "watch", "w":
		s.cmdWatch(args)

	case "unwatch":
		s.cmdUnwatch(args)

	case "tick", "t":
		s.cmdTick(args)

	case "status":
		s.cmdStatus()

	case "quit", "exit", "q":
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Heat Pump Commands:
  Values:
    list                 - List all agents with value and subscriber count
    get <agent>          - Read an agent value
    set <agent> <value>  - Write an agent value
    add <agent> <delta>  - Add to a numeric agent
    inc|dec <agent>      - Increment or decrement a numeric agent

  Observation:
    watch <agent>        - Print every change of an agent
    unwatch <id>         - Stop a watch by its subscription ID

  Simulation:
    tick [n]             - Advance the room simulation by n steps (default 1)
    status               - Show controller status

  General:
    help                 - Show this help
    quit                 - Exit

  Agents: setpoint, room, mode, running, power, limit`)
}

// lookup returns the binding named by args[0] or prints an error.
func (s *Shell) lookup(args []string, usage string) (string, binding, bool) {
	if len(args) < 1 {
		fmt.Fprintf(s.out, "Usage: %s\n", usage)
		return "", nil, false
	}
	name := args[0]
	b, ok := s.bindings[name]
	if !ok {
		fmt.Fprintf(s.out, "Unknown agent: %s\n", name)
		return "", nil, false
	}
	return name, b, true
}

func (s *Shell) cmdList() {
	for _, name := range s.order {
		b := s.bindings[name]
		fmt.Fprintf(s.out, "  %-10s = %-10s (%d subscribers)\n", name, b.Value(), b.Subscribers())
	}
}

func (s *Shell) cmdGet(args []string) {
	name, b, ok := s.lookup(args, "get <agent>")
	if !ok {
		return
	}
	fmt.Fprintf(s.out, "%s = %s\n", name, b.Value())
}

func (s *Shell) cmdSet(args []string) {
	name, b, ok := s.lookup(args, "set <agent> <value>")
	if !ok {
		return
	}
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: set <agent> <value>")
		return
	}
	if err := b.Set(args[1]); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s = %s\n", name, b.Value())
}

func (s *Shell) cmdAdd(args []string) {
	name, b, ok := s.lookup(args, "add <agent> <delta>")
	if !ok {
		return
	}
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: add <agent> <delta>")
		return
	}
	if err := b.Add(args[1]); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s = %s\n", name, b.Value())
}

func (s *Shell) cmdStep(up bool, args []string) {
	name, b, ok := s.lookup(args, "inc|dec <agent>")
	if !ok {
		return
	}
	if err := b.Step(up); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s = %s\n", name, b.Value())
}

func (s *Shell) cmdWatch(args []string) {
	name, b, ok := s.lookup(args, "watch <agent>")
	if !ok {
		return
	}
	id := b.Watch(name, s.out)
	s.watches[id] = name
	fmt.Fprintf(s.out, "Watching %s (id %d)\n", name, id)
}

func (s *Shell) cmdUnwatch(args []string) {
	if len(args) < 1 {
		s.printWatches()
		return
	}
	n, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid id: %s\n", args[0])
		return
	}
	id := agent.SubscriptionID(n)
	name, ok := s.watches[id]
	if !ok {
		fmt.Fprintf(s.out, "No watch with id %d\n", id)
		return
	}
	s.bindings[name].Unwatch(id)
	delete(s.watches, id)
	fmt.Fprintf(s.out, "Stopped watching %s (id %d)\n", name, id)
}

func (s *Shell) printWatches() {
	if len(s.watches) == 0 {
		fmt.Fprintln(s.out, "No active watches")
		return
	}
	ids := make([]agent.SubscriptionID, 0, len(s.watches))
	for id := range s.watches {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Fprintf(s.out, "  %d: %s\n", id, s.watches[id])
	}
}

func (s *Shell) cmdTick(args []string) {
	steps := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Fprintf(s.out, "Invalid step count: %s\n", args[0])
			return
		}
		steps = n
	}
	for i := 0; i < steps; i++ {
		s.hp.Step()
	}
	fmt.Fprintf(s.out, "room = %s, running = %s\n",
		s.bindings["room"].Value(), s.bindings["running"].Value())
}

func (s *Shell) cmdStatus() {
	hp := s.hp
	fmt.Fprintf(s.out, "Mode:     %s\n", hp.Mode.Get())
	fmt.Fprintf(s.out, "Setpoint: %.1f °C (target %.1f °C)\n", hp.Setpoint.Get(), hp.Target())
	fmt.Fprintf(s.out, "Room:     %.2f °C\n", hp.RoomTemperature.Get())
	fmt.Fprintf(s.out, "Running:  %t\n", hp.Running.Get())
	fmt.Fprintf(s.out, "Power:    %.2f kW", float64(hp.Power.Get())/1e6)
	if limit := hp.ConsumptionLimit.Get(); limit > 0 {
		fmt.Fprintf(s.out, " (limit %.2f kW)", float64(limit)/1e6)
	}
	fmt.Fprintln(s.out)
}
