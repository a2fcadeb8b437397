package game

import (
	"strings"

	"go.uber.org/zap"
)

const limboNotice = "You are now being placed in Limbo. When you log back on you will be returned to your previous location."

// SessionInfo is a snapshot of one live session.
type SessionInfo struct {
	Addr      string
	Transport string
	Character string
}

// Attach registers s as a live session and sends it the world welcome.
func (w *World) Attach(s *Session) {
	w.mu.Lock()
	w.sessions = append(w.sessions, s)
	welcome := w.welcome
	o := w.observer
	w.log.Info("session opened", zap.String("session", s.id), zap.String("addr", s.addr), zap.String("transport", s.transport))
	w.mu.Unlock()
	if welcome != "" {
		s.Tell(welcome)
	}
	o.SessionOpened(s.transport)
}

// Sessions lists the live sessions in connection order.
func (w *World) Sessions() []SessionInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]SessionInfo, 0, len(w.sessions))
	for _, s := range w.sessions {
		info := SessionInfo{Addr: s.addr, Transport: s.transport}
		if s.character != nil {
			info.Character = s.character.name
		}
		out = append(out, info)
	}
	return out
}

// Login binds s to the player character called name, creating one in the
// start room when nobody by that name exists. A character waiting in Limbo
// is returned to the room it was in when its player left.
func (w *World) Login(s *Session, name string) (*Character, error) {
	name = strings.TrimSpace(name)
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.rooms) == 0 {
		return nil, ErrNoWorld
	}
	if s.character != nil {
		return s.character, nil
	}
	c := w.findPlayerLocked(name)
	if c != nil {
		if c.session != nil {
			return nil, ErrCharacterInUse
		}
		s.Tell("A character has been found by that name.")
		c.session = s
		s.character = c
		if c.Location() == w.rooms[0] {
			dest := c.lastRoom
			if dest == nil || dest == w.rooms[0] || dest.Deleted() || w.indexOfLocked(dest) < 0 {
				dest = w.startRoomLocked()
			}
			w.moveLocked(c, dest)
		} else {
			w.log.Warn("character arrived in an unexpected location",
				zap.String("character", c.name),
				zap.String("room", containerName(c.container)))
		}
	} else {
		c = NewPlayer(name, "")
		s.Tell("A new character has been created.")
		c.session = s
		s.character = c
		start := w.startRoomLocked()
		w.moveLocked(c, start)
		c.lastRoom = start
	}
	w.log.Info("character logged in", zap.String("session", s.id), zap.String("character", c.name))
	c.tell("Welcome to the game, " + c.name + "!")
	return c, nil
}

// Disconnect parks the session's character in Limbo, says goodbye and
// closes the session. It is safe to call more than once.
func (w *World) Disconnect(s *Session) {
	w.mu.Lock()
	index := -1
	for i, candidate := range w.sessions {
		if candidate == s {
			index = i
			break
		}
	}
	if index < 0 {
		w.mu.Unlock()
		return
	}
	w.sessions = append(w.sessions[:index], w.sessions[index+1:]...)
	if c := s.character; c != nil {
		c.tell(limboNotice)
		c.listener = nil
		c.talk = nil
		if len(w.rooms) > 0 {
			w.moveLocked(c, w.rooms[0])
		}
		c.tell(w.goodbye)
		c.session = nil
		s.character = nil
	}
	o := w.observer
	w.log.Info("session closed", zap.String("session", s.id), zap.String("addr", s.addr))
	w.mu.Unlock()
	s.close()
	o.SessionClosed(s.transport)
}

// Broadcast sends text to every live session.
func (w *World) Broadcast(text string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, s := range w.sessions {
		s.Tell(text)
	}
}

func (w *World) findPlayerLocked(name string) *Character {
	if name == "" {
		return nil
	}
	for _, room := range w.rooms {
		for _, e := range room.contents {
			if c, ok := e.(*Character); ok && c.persona == nil && c.Matches(name) {
				return c
			}
		}
	}
	return nil
}

func (w *World) onlineLocked() int {
	n := 0
	for _, s := range w.sessions {
		if s.character != nil {
			n++
		}
	}
	return n
}

func containerName(c Container) string {
	if c == nil {
		return ""
	}
	return c.Name()
}
