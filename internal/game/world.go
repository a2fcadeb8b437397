package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrNoWorld        = errors.New("no world loaded")
	ErrCharacterInUse = errors.New("character already in play")
	ErrPlayersOnline  = errors.New("players are logged in")
	ErrNoArchive      = errors.New("no archive attached")
	ErrEmptyArchive   = errors.New("archive is empty")
	ErrInvalidRoom    = errors.New("invalid room")
	ErrNotFound       = errors.New("not found")
	ErrLimbo          = errors.New("limbo cannot be deleted")
)

// Observer receives notifications about server activity. Implementations
// must be safe for concurrent use and must not call back into the world.
type Observer interface {
	SessionOpened(transport string)
	SessionClosed(transport string)
	CommandResolved(stage string)
	WorldSaved(err error)
	RoomsChanged(count int)
}

type nopObserver struct{}

func (nopObserver) SessionOpened(string)   {}
func (nopObserver) SessionClosed(string)   {}
func (nopObserver) CommandResolved(string) {}
func (nopObserver) WorldSaved(error)       {}
func (nopObserver) RoomsChanged(int)       {}

// Archive stores world documents. Latest returns the most recently saved
// document, or an error wrapping ErrEmptyArchive when nothing was saved.
type Archive interface {
	Save(doc *Document) error
	Latest() (*Document, error)
}

// World is the registry of rooms and live sessions. Every exported method is
// a single transaction under mu; helpers with a Locked suffix expect the
// caller to hold it. Room broadcasts happen inside the transaction that
// caused them, so every room observes one global order of events.
type World struct {
	mu       sync.RWMutex
	rooms    []*Room
	welcome  string
	goodbye  string
	sessions []*Session
	admins   map[string]bool

	archive  Archive
	observer Observer
	log      *zap.Logger
	hooks    *hookEngine
	shutdown func()
}

// NewWorld returns an empty world with no rooms.
func NewWorld() *World {
	return &World{
		observer: nopObserver{},
		log:      zap.NewNop(),
		hooks:    newHookEngine(),
	}
}

// NewWorldWithRooms returns a world holding rooms in order. rooms[0] is
// Limbo.
func NewWorldWithRooms(rooms ...*Room) *World {
	w := NewWorld()
	w.rooms = append(w.rooms, rooms...)
	return w
}

// SetLogger replaces the world's logger. A nil logger disables logging.
func (w *World) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	w.mu.Lock()
	w.log = log
	w.mu.Unlock()
}

// Logger returns the world's logger.
func (w *World) Logger() *zap.Logger {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.log
}

// SetObserver installs o to receive activity notifications.
func (w *World) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	w.mu.Lock()
	w.observer = o
	count := len(w.rooms)
	w.mu.Unlock()
	o.RoomsChanged(count)
}

// AttachArchive sets the store used by Save and Restore.
func (w *World) AttachArchive(a Archive) {
	w.mu.Lock()
	w.archive = a
	w.mu.Unlock()
}

// AttachShutdown registers the function Shutdown invokes to stop serving.
func (w *World) AttachShutdown(fn func()) {
	w.mu.Lock()
	w.shutdown = fn
	w.mu.Unlock()
}

// SetAdmins restricts admin commands to the named characters. An empty list
// grants admin commands to every logged-in character.
func (w *World) SetAdmins(names []string) {
	admins := make(map[string]bool, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			admins[strings.ToLower(name)] = true
		}
	}
	w.mu.Lock()
	w.admins = admins
	w.mu.Unlock()
}

// IsAdmin reports whether c may use admin commands.
func (w *World) IsAdmin(c *Character) bool {
	if c == nil {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if len(w.admins) == 0 {
		return true
	}
	return w.admins[strings.ToLower(c.name)]
}

// SetMessages replaces the world welcome and goodbye messages.
func (w *World) SetMessages(welcome, goodbye string) {
	w.mu.Lock()
	w.welcome = welcome
	w.goodbye = goodbye
	w.mu.Unlock()
}

// Welcome returns the world welcome message.
func (w *World) Welcome() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.welcome
}

// RoomCount returns the number of rooms, tombstoned rooms included.
func (w *World) RoomCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.rooms)
}

// Room returns the room at index i.
func (w *World) Room(i int) (*Room, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if i < 0 || i >= len(w.rooms) {
		return nil, false
	}
	return w.rooms[i], true
}

// RecordCommand reports which cascade stage consumed a line.
func (w *World) RecordCommand(stage string) {
	w.mu.RLock()
	o := w.observer
	w.mu.RUnlock()
	o.CommandResolved(stage)
}

// MoveTo runs the move protocol for e as one transaction.
func (w *World) MoveTo(e Entity, to Container) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moveLocked(e, to)
}

// moveLocked leaves the current container, records the previous room of a
// character, then enters the new container. Moving to the current container
// is not special-cased and fires both notifications.
func (w *World) moveLocked(e Entity, to Container) bool {
	if to == nil {
		return false
	}
	if room, ok := to.(*Room); ok && room == nil {
		return false
	}
	n := e.base()
	from := n.container
	if from != nil {
		from.exited(w, e)
	}
	if c, ok := e.(*Character); ok {
		if prev, ok := from.(*Room); ok {
			c.lastRoom = prev
		}
	}
	n.container = to
	to.entered(w, e)
	return true
}

// removeLocked detaches e from the world entirely.
func (w *World) removeLocked(e Entity) {
	n := e.base()
	if n.container == nil {
		return
	}
	if d, ok := e.(*Door); ok {
		if room, ok := n.container.(*Room); ok {
			room.removeDoor(d)
		}
		return
	}
	n.container.exited(w, e)
	n.container = nil
}

func (w *World) roomByNameLocked(name string) *Room {
	for _, room := range w.rooms {
		if room.name == name {
			return room
		}
	}
	return nil
}

func (w *World) indexOfLocked(r *Room) int {
	for i, room := range w.rooms {
		if room == r {
			return i
		}
	}
	return -1
}

// startRoomLocked returns the first live room after Limbo, or Limbo when
// every other room has been deleted.
func (w *World) startRoomLocked() *Room {
	for _, r := range w.rooms[1:] {
		if !r.Deleted() {
			return r
		}
	}
	return w.rooms[0]
}

func (w *World) roomAtLocked(n int) (*Room, error) {
	if n < 0 {
		n = -n
	}
	if n >= len(w.rooms) {
		return nil, fmt.Errorf("room %d: %w", n, ErrInvalidRoom)
	}
	return w.rooms[n], nil
}

// CheckContainment verifies that every container lists exactly the entities
// that point back at it.
func (w *World) CheckContainment() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var check func(c Container) error
	check = func(c Container) error {
		seen := make(map[Entity]bool)
		for _, e := range c.Contents() {
			if seen[e] {
				return fmt.Errorf("%s listed twice in %s", e.Name(), c.Name())
			}
			seen[e] = true
			if e.Container() != c {
				return fmt.Errorf("%s listed in %s but contained elsewhere", e.Name(), c.Name())
			}
			if holder, ok := e.(Container); ok {
				if err := check(holder); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, room := range w.rooms {
		if err := check(room); err != nil {
			return err
		}
		for _, d := range room.doors {
			if d.container != Container(room) {
				return fmt.Errorf("door %s listed in %s but attached elsewhere", d.name, room.name)
			}
		}
	}
	return nil
}
