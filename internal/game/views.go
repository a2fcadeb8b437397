package game

import "strings"

// RoomView is a read-only snapshot of a room as seen by one character.
type RoomView struct {
	Index       int
	Name        string
	Description string
	Contents    []string
}

// DoorView is a read-only snapshot of a door.
type DoorView struct {
	Name        string
	Description string
	Target      string
}

// EntityView is a read-only snapshot of an inspected entity.
type EntityView struct {
	Name        string
	Description string
	Kind        Kind
	Contents    []string
	Held        bool
}

// CharacterView is a read-only snapshot of a character's sheet.
type CharacterView struct {
	Name        string
	Description string
	Room        string
	HitPoints   int
	XP          int
	Inventory   []string
}

// Survey describes the room c stands in, leaving c out of the contents.
func (w *World) Survey(c *Character) (RoomView, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	room := c.Location()
	if room == nil {
		return RoomView{}, false
	}
	view := RoomView{Index: w.indexOfLocked(room), Name: room.name, Description: room.description}
	for _, e := range room.contents {
		if e == Entity(c) {
			continue
		}
		view.Contents = append(view.Contents, e.Name())
	}
	return view, true
}

// Doors describes the exits of the room c stands in.
func (w *World) Doors(c *Character) []DoorView {
	w.mu.RLock()
	defer w.mu.RUnlock()
	room := c.Location()
	if room == nil {
		return nil
	}
	out := make([]DoorView, 0, len(room.doors))
	for _, d := range room.doors {
		out = append(out, DoorView{Name: d.name, Description: d.description, Target: d.TargetName()})
	}
	return out
}

// Inspect describes the entity named target, searching the character's room
// before its inventory. Items with an OnInspect hook run it.
func (w *World) Inspect(c *Character, target string) (EntityView, bool) {
	target = strings.TrimSpace(target)
	w.mu.Lock()
	defer w.mu.Unlock()
	var found Entity
	held := false
	if room := c.Location(); room != nil {
		if e := room.findContent(target); e != nil {
			found = e
		} else if d := room.findDoor(target); d != nil {
			found = d
		}
	}
	if found == nil {
		for _, e := range c.inventory {
			if e.Matches(target) {
				found = e
				held = true
				break
			}
		}
	}
	if found == nil {
		return EntityView{}, false
	}
	view := EntityView{Name: found.Name(), Description: found.Description(), Kind: found.Kind(), Held: held}
	if holder, ok := found.(Container); ok {
		for _, e := range holder.Contents() {
			view.Contents = append(view.Contents, e.Name())
		}
	}
	if it, ok := found.(*Item); ok && it.hook != "" {
		w.hooks.itemInspected(w, it, c)
	}
	return view, true
}

// Profile returns c's character sheet.
func (w *World) Profile(c *Character) CharacterView {
	w.mu.RLock()
	defer w.mu.RUnlock()
	view := CharacterView{
		Name:        c.name,
		Description: c.description,
		Room:        containerName(c.container),
		HitPoints:   c.hitPoints,
		XP:          c.xp,
	}
	for _, e := range c.inventory {
		view.Inventory = append(view.Inventory, e.Name())
	}
	return view
}

// ListenerName returns the name of the entity c is talking to, if any.
func (w *World) ListenerName(c *Character) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if c.listener == nil {
		return "", false
	}
	return c.listener.Name(), true
}

// ConversationOptions returns the triggers c may currently choose from.
func (w *World) ConversationOptions(c *Character) []int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if c.talk == nil {
		return nil
	}
	out := make([]int, 0, len(c.talk.options))
	for _, d := range c.talk.options {
		out = append(out, d.Trigger)
	}
	return out
}
