package game

import (
	"fmt"

	"go.uber.org/zap"
)

// Goto moves c to the room at index n. Negative indices are taken by
// absolute value.
func (w *World) Goto(c *Character, n int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	room, err := w.roomAtLocked(n)
	if err != nil {
		return err
	}
	w.moveLocked(c, room)
	return nil
}

// CreateRoom appends a new room and returns its index.
func (w *World) CreateRoom(name, description string) int {
	w.mu.Lock()
	w.rooms = append(w.rooms, NewRoom(name, description))
	count := len(w.rooms)
	o := w.observer
	w.log.Info("room created", zap.String("room", name), zap.Int("index", count-1))
	w.mu.Unlock()
	o.RoomsChanged(count)
	return count - 1
}

// CreateDoor adds a door in c's room leading to the room at index n.
func (w *World) CreateDoor(c *Character, n int, name, description string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	target, err := w.roomAtLocked(n)
	if err != nil {
		return err
	}
	room := c.Location()
	if room == nil {
		return fmt.Errorf("%s has no location: %w", c.name, ErrNotFound)
	}
	room.AddDoor(NewDoor(name, description, target))
	return nil
}

// EditRoom renames and redescribes the room c stands in.
func (w *World) EditRoom(c *Character, name, description string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if room := c.Location(); room != nil {
		room.rename(name, description)
	}
}

// EditEntity renames and redescribes the entity called target in c's room.
func (w *World) EditEntity(c *Character, target, name, description string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	e := w.localLocked(c, target)
	if e == nil {
		return fmt.Errorf("%s: %w", target, ErrNotFound)
	}
	e.base().rename(name, description)
	return nil
}

// DeleteRoom tombstones the room c stands in. Its doors are removed and its
// contents, c included, are moved to Limbo. The room keeps its index.
func (w *World) DeleteRoom(c *Character) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	room := c.Location()
	if room == nil || len(w.rooms) == 0 {
		return ErrNoWorld
	}
	if room == w.rooms[0] {
		return ErrLimbo
	}
	for _, d := range room.Doors() {
		room.removeDoor(d)
	}
	w.ejectLocked(room, w.rooms[0])
	room.name = deletedRoomPrefix + room.name
	w.log.Info("room deleted", zap.String("room", room.name), zap.Int("index", w.indexOfLocked(room)))
	return nil
}

// DeleteEntity removes the entity called target from c's room. Characters
// driven by a live session are refused with ErrCharacterInUse.
func (w *World) DeleteEntity(c *Character, target string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	e := w.localLocked(c, target)
	if e == nil {
		return fmt.Errorf("%s: %w", target, ErrNotFound)
	}
	if other, ok := e.(*Character); ok && other.session != nil {
		return fmt.Errorf("delete %s: %w", other.name, ErrCharacterInUse)
	}
	w.removeLocked(e)
	return nil
}

// Eject moves the entity called victim, or every entity when victim is
// "all", from c's room to the room at index n.
func (w *World) Eject(c *Character, victim string, n int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	dest, err := w.roomAtLocked(n)
	if err != nil {
		return err
	}
	room := c.Location()
	if room == nil {
		return fmt.Errorf("%s has no location: %w", c.name, ErrNotFound)
	}
	if victim == "all" {
		w.ejectLocked(room, dest)
		return nil
	}
	e := room.findContent(victim)
	if e == nil {
		return fmt.Errorf("%s: %w", victim, ErrNotFound)
	}
	w.moveLocked(e, dest)
	return nil
}

func (w *World) ejectLocked(from *Room, to *Room) {
	for _, e := range from.Contents() {
		w.moveLocked(e, to)
	}
}

// localLocked finds target among the contents and doors of c's room.
func (w *World) localLocked(c *Character, target string) Entity {
	room := c.Location()
	if room == nil {
		return nil
	}
	if e := room.findContent(target); e != nil {
		return e
	}
	if d := room.findDoor(target); d != nil {
		return d
	}
	return nil
}
