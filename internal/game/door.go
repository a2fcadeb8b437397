package game

import "strings"

// Door is a one-way exit from the room that holds it to its target room.
type Door struct {
	node
	target     *Room
	targetName string
}

// NewDoor constructs a door leading to target. A door with a nil target
// goes nowhere.
func NewDoor(name, description string, target *Room, synonyms ...string) *Door {
	d := &Door{node: newNode(name, description, synonyms), target: target}
	if target != nil {
		d.targetName = target.name
	}
	return d
}

func (d *Door) Kind() Kind { return KindDoor }

// Target returns the destination room, or nil for a dangling door.
func (d *Door) Target() *Room { return d.target }

// TargetName is the room name the door was declared with.
func (d *Door) TargetName() string {
	if d.target != nil {
		return d.target.name
	}
	return d.targetName
}

func (d *Door) interpret(w *World, verb string, actor *Character) Result {
	v := normalizeVerb(verb)
	if v != "use" && !strings.HasPrefix(v, "go") {
		return declined
	}
	w.passThroughLocked(d, actor)
	return handled
}

func (d *Door) heal(*World, int) {}

// passThroughLocked moves actor across d. Callers hold w.mu.
func (w *World) passThroughLocked(d *Door, actor *Character) {
	if d.target == nil || d.target.Deleted() || !w.moveLocked(actor, d.target) {
		actor.tell("This door doesn't go anywhere.")
		return
	}
	if actor.lastRoom != nil {
		actor.lastRoom.hear(actor.name+" goes through the "+d.name, actor)
	}
}
