package game

import (
	"sort"
	"strconv"
	"strings"
)

var (
	pickUpVerbs = wordSet("pick up", "get", "grab", "take")
	dropVerbs   = wordSet("drop", "put down", "lose")

	atlasStopWords = wordSet("stop", "drop", "put down", "lose", "end", "exit", "quit")
	atlasShowWords = wordSet("help", "look", "view", "places", "map", "look at", "show")
)

// Item is a portable object. Its command table maps verbs to scripts; an
// item with an Atlas is a map that can transport its holder.
type Item struct {
	node
	commands map[string]string
	hook     string
	atlas    *Atlas
}

// Atlas is the payload of a map item: ASCII art and the numbered list of
// rooms the map can take its holder to.
type Atlas struct {
	Art     string
	Targets []string
}

// NewItem constructs a detached item.
func NewItem(name, description string, synonyms ...string) *Item {
	return &Item{node: newNode(name, description, synonyms), commands: make(map[string]string)}
}

// NewMap constructs a detached map item.
func NewMap(name, description string, atlas Atlas, synonyms ...string) *Item {
	it := NewItem(name, description, synonyms...)
	it.atlas = &Atlas{Art: atlas.Art, Targets: append([]string(nil), atlas.Targets...)}
	return it
}

func (it *Item) Kind() Kind {
	if it.atlas != nil {
		return KindMap
	}
	return KindItem
}

// SetCommand binds verb to a script in the item's command table.
func (it *Item) SetCommand(verb, script string) {
	it.commands[normalizeVerb(verb)] = script
}

// Commands returns the item's command table sorted by verb.
func (it *Item) Commands() []Command {
	verbs := make([]string, 0, len(it.commands))
	for verb := range it.commands {
		verbs = append(verbs, verb)
	}
	sort.Strings(verbs)
	out := make([]Command, 0, len(verbs))
	for _, verb := range verbs {
		out = append(out, Command{Verb: verb, Script: it.commands[verb]})
	}
	return out
}

// Command is one entry of an item's command table.
type Command struct {
	Verb   string
	Script string
}

// Hook returns the item's OnInspect script source, if any.
func (it *Item) Hook() string { return it.hook }

// SetHook replaces the item's OnInspect script source.
func (it *Item) SetHook(source string) { it.hook = source }

// Atlas returns the map payload, or nil for ordinary items.
func (it *Item) Atlas() *Atlas { return it.atlas }

func (it *Item) interpret(w *World, verb string, actor *Character) Result {
	v := normalizeVerb(verb)
	if script, ok := it.commands[v]; ok {
		return w.runScript(it, actor, script)
	}
	switch {
	case pickUpVerbs[v], dropVerbs[v]:
		return w.runPrimitive(it, actor, v)
	case v == "use" && it.atlas != nil:
		return it.useAtlas(actor)
	}
	return declined
}

func (it *Item) heal(*World, int) {}

func (it *Item) heldBy(c *Character) bool {
	return it.container == Container(c)
}

func (it *Item) useAtlas(actor *Character) Result {
	if !it.heldBy(actor) {
		actor.tell("You need to be holding the map to use it.")
		return handled
	}
	actor.tell("You are using the map.")
	it.showAtlas(actor)
	actor.listener = it
	return handled
}

func (it *Item) showAtlas(actor *Character) {
	var b strings.Builder
	b.WriteString(it.atlas.Art)
	for i, target := range it.atlas.Targets {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(" ")
		b.WriteString(target)
	}
	actor.tell(b.String())
}

func (it *Item) listen(w *World, actor *Character, line string) {
	if it.atlas == nil {
		actor.listener = nil
		return
	}
	input := normalizeVerb(line)
	switch {
	case atlasStopWords[input]:
		actor.tell("You stop using the map.")
		actor.listener = nil
		return
	case atlasShowWords[input]:
		it.showAtlas(actor)
		return
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		actor.tell("The map does not understand that command.")
		return
	}
	if n < 0 {
		n = -n
	}
	if n < 1 || n > len(it.atlas.Targets) {
		actor.tell("The map does not understand that command.")
		return
	}
	target := it.atlas.Targets[n-1]
	actor.tell("You travel to the " + target)
	if room := w.roomByNameLocked(target); room != nil {
		w.moveLocked(actor, room)
	} else {
		actor.tell("That is not a valid room")
	}
	actor.listener = nil
}
