package game

import (
	"fmt"
	"strings"
)

const deletedRoomPrefix = "DELETE"

// Room is a location. Room 0 of every world is Limbo, where characters of
// disconnected players wait.
type Room struct {
	node
	doors    []*Door
	contents []Entity
	hook     string
}

// NewRoom constructs a detached room.
func NewRoom(name, description string) *Room {
	return &Room{node: newNode(name, description, nil)}
}

func (r *Room) Kind() Kind { return KindRoom }

// Contents returns a copy of the room's contents in arrival order.
func (r *Room) Contents() []Entity {
	return append([]Entity(nil), r.contents...)
}

// Doors returns a copy of the room's exits.
func (r *Room) Doors() []*Door {
	return append([]*Door(nil), r.doors...)
}

// Hook returns the room's OnEnter script source, if any.
func (r *Room) Hook() string { return r.hook }

// SetHook replaces the room's OnEnter script source.
func (r *Room) SetHook(source string) { r.hook = source }

// Deleted reports whether the room has been tombstoned by an administrator.
func (r *Room) Deleted() bool {
	return strings.HasPrefix(r.name, deletedRoomPrefix)
}

// AddDoor attaches a door to the room during world construction.
func (r *Room) AddDoor(d *Door) {
	d.container = r
	r.doors = append(r.doors, d)
}

// Place puts e into the room without notifying anybody. It is meant for
// world construction before the world is shared between goroutines.
func (r *Room) Place(e Entity) {
	e.base().container = r
	r.contents = append(r.contents, e)
}

func (r *Room) removeDoor(d *Door) bool {
	for i, candidate := range r.doors {
		if candidate == d {
			r.doors = append(r.doors[:i], r.doors[i+1:]...)
			d.container = nil
			return true
		}
	}
	return false
}

func (r *Room) entered(w *World, e Entity) {
	r.contents = append(r.contents, e)
	if c, ok := e.(*Character); ok {
		c.tell("\nYou have entered " + r.name)
	}
	r.hear(fmt.Sprintf("%s has entered.", e.Name()), e)
	if c, ok := e.(*Character); ok && r.hook != "" && w != nil {
		w.hooks.roomEntered(w, r, c)
	}
}

func (r *Room) exited(w *World, e Entity) {
	r.contents = removeEntity(r.contents, e)
	r.hear(fmt.Sprintf("%s has left.", e.Name()), e)
}

func (r *Room) interpret(*World, string, *Character) Result {
	return declined
}

func (r *Room) heal(w *World, amount int) {
	for _, e := range r.Contents() {
		e.heal(w, amount)
	}
}

// hear delivers text to every character in the room except skip.
func (r *Room) hear(text string, skip Entity) {
	for _, e := range r.contents {
		if e == skip {
			continue
		}
		if c, ok := e.(*Character); ok {
			c.hear(text)
		}
	}
}

func (r *Room) findContent(token string) Entity {
	for _, e := range r.contents {
		if e.Matches(token) {
			return e
		}
	}
	return nil
}

func (r *Room) findDoor(token string) *Door {
	for _, d := range r.doors {
		if d.Matches(token) {
			return d
		}
	}
	return nil
}
