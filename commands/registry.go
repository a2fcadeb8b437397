package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"Brackenhold/internal/game"
)

// Stage is the step of the resolution cascade a command belongs to.
type Stage int

const (
	StageGuest Stage = iota
	StageAdmin
	StagePlayer
	StageSystem
)

func (s Stage) String() string {
	switch s {
	case StageGuest:
		return "guest"
	case StageAdmin:
		return "admin"
	case StagePlayer:
		return "player"
	case StageSystem:
		return "system"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Definition describes a single command's metadata.
type Definition struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
	Stage       Stage
	// Args makes the command match its name followed by a space and an
	// argument, as well as the bare name with an empty argument.
	Args bool
	// Glued lets the argument follow the name directly, as in "*waves".
	Glued bool
}

// Handler executes a command.
// Returning true indicates the connection should terminate.
type Handler func(*Context) bool

// Command couples metadata with the executable handler.
type Command struct {
	Definition
	Handler Handler
}

// Context provides the runtime data available to a command handler.
// Character is nil for guests.
type Context struct {
	World     *game.World
	Session   *game.Session
	Character *game.Character
	Raw       string
	Arg       string
	Command   *Command
}

// Reply sends text to the issuing session as a private message.
func (ctx *Context) Reply(text string) {
	ctx.Session.Tell(text)
}

type phrase struct {
	text string
	cmd  *Command
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Command)
	ordered    []*Command
	phrases    = make(map[Stage][]phrase)
)

// Define registers a new command using the provided definition and handler.
// It panics when metadata is incomplete or duplicates an existing command.
func Define(def Definition, handler Handler) *Command {
	if handler == nil {
		panic("commands: handler must not be nil")
	}
	if strings.TrimSpace(def.Name) == "" {
		panic("commands: command must have a name")
	}

	cmd := &Command{Definition: def, Handler: handler}

	registryMu.Lock()
	defer registryMu.Unlock()

	registerName := func(name string) {
		key := strings.ToLower(name)
		if _, exists := registry[key]; exists {
			panic(fmt.Sprintf("commands: duplicate registration for %q", name))
		}
		registry[key] = cmd
		phrases[def.Stage] = append(phrases[def.Stage], phrase{text: key, cmd: cmd})
	}

	registerName(def.Name)
	for _, alias := range def.Aliases {
		if strings.TrimSpace(alias) == "" {
			continue
		}
		registerName(alias)
	}

	// Exact commands are tried before argument commands, and longer phrases
	// before shorter ones, so "look at door" never reaches "look at <x>".
	list := phrases[def.Stage]
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].cmd.Args != list[j].cmd.Args {
			return !list[i].cmd.Args
		}
		return len(list[i].text) > len(list[j].text)
	})

	ordered = append(ordered, cmd)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Name < ordered[j].Name
	})

	return cmd
}

// All returns the registered commands sorted by primary name.
func All() []*Command {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]*Command, len(ordered))
	copy(out, ordered)
	return out
}

// ForStage returns the commands of one stage sorted by primary name.
func ForStage(stage Stage) []*Command {
	all := All()
	filtered := make([]*Command, 0, len(all))
	for _, cmd := range all {
		if cmd.Stage == stage {
			filtered = append(filtered, cmd)
		}
	}
	return filtered
}

// Find looks up a command by name or alias.
func Find(name string) (*Command, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	cmd, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return cmd, ok
}

// lookup returns the command of stage that line invokes and its argument.
func lookup(stage Stage, line string) (*Command, string, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, p := range phrases[stage] {
		if arg, ok := p.match(line); ok {
			return p.cmd, arg, true
		}
	}
	return nil, "", false
}

func (p phrase) match(line string) (string, bool) {
	n := len(p.text)
	if len(line) < n || !strings.EqualFold(line[:n], p.text) {
		return "", false
	}
	rest := line[n:]
	switch {
	case rest == "":
		return "", true
	case !p.cmd.Args:
		return "", false
	case p.cmd.Glued:
		return strings.TrimSpace(rest), true
	case rest[0] == ' ':
		return strings.TrimSpace(rest), true
	}
	return "", false
}
