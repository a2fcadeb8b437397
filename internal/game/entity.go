package game

import (
	"strings"

	"github.com/google/uuid"
)

// Kind identifies the variant of a world node.
type Kind uint8

const (
	KindRoom Kind = iota
	KindDoor
	KindItem
	KindMap
	KindPlayer
	KindNPC
)

func (k Kind) String() string {
	switch k {
	case KindRoom:
		return "room"
	case KindDoor:
		return "door"
	case KindItem:
		return "item"
	case KindMap:
		return "map"
	case KindNPC:
		return "npc"
	default:
		return "player"
	}
}

// Entity is any node of the world graph. Accessors read unguarded state;
// once a world is shared they must only be called under the world lock or
// from tests that own the world exclusively.
type Entity interface {
	ID() string
	Name() string
	Description() string
	Synonyms() []string
	Kind() Kind
	Container() Container
	Matches(token string) bool

	base() *node
	interpret(w *World, verb string, actor *Character) Result
	heal(w *World, amount int)
}

// Container is an entity that holds other entities. Rooms and characters
// are the only containers.
type Container interface {
	Entity
	Contents() []Entity
	entered(w *World, e Entity)
	exited(w *World, e Entity)
}

// Listener receives raw input lines from a character ahead of every other
// command stage.
type Listener interface {
	Entity
	listen(w *World, actor *Character, line string)
}

type node struct {
	id          string
	name        string
	description string
	synonyms    []string
	container   Container
}

func newNode(name, description string, synonyms []string) node {
	return node{
		id:          uuid.NewString(),
		name:        name,
		description: description,
		synonyms:    append([]string(nil), synonyms...),
	}
}

func (n *node) base() *node { return n }

func (n *node) ID() string { return n.id }

func (n *node) Name() string { return n.name }

func (n *node) Description() string { return n.description }

func (n *node) Container() Container { return n.container }

func (n *node) Synonyms() []string {
	return append([]string(nil), n.synonyms...)
}

// Matches reports whether token names this entity or one of its synonyms,
// ignoring case.
func (n *node) Matches(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	if strings.EqualFold(n.name, token) {
		return true
	}
	for _, synonym := range n.synonyms {
		if strings.EqualFold(synonym, token) {
			return true
		}
	}
	return false
}

func (n *node) rename(name, description string) {
	n.name = name
	n.description = description
}

func removeEntity(list []Entity, e Entity) []Entity {
	for i, candidate := range list {
		if candidate == e {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// enclosingRoom walks up the containment chain until it reaches a room.
func enclosingRoom(e Entity) *Room {
	for e != nil {
		if room, ok := e.(*Room); ok {
			return room
		}
		c := e.Container()
		if c == nil {
			return nil
		}
		e = c
	}
	return nil
}

func normalizeVerb(verb string) string {
	return strings.ToLower(strings.Join(strings.Fields(verb), " "))
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
