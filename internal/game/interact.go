package game

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Converse routes line to the character's active listener. It reports false
// when no listener is set.
func (w *World) Converse(c *Character, line string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c.listener == nil {
		return false
	}
	c.listener.listen(w, c, line)
	return true
}

// InterpretObjects offers line to the entities the words after the first
// name, in order. Each candidate is looked up in the character's inventory,
// then among the room's contents and doors, and receives the words before
// its name as the verb. matched reports whether any word named an entity;
// handled whether one of them consumed the line.
func (w *World) InterpretObjects(c *Character, line string) (matched, handled bool) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return false, false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := 1; i < len(tokens); i++ {
		target := w.resolveLocked(c, tokens[i])
		if target == nil {
			continue
		}
		matched = true
		verb := strings.Join(tokens[:i], " ")
		result := target.interpret(w, verb, c)
		switch result.Status {
		case Handled:
			return true, true
		case Errored:
			w.log.Warn("entity failed to handle command",
				zap.String("entity", target.Name()),
				zap.String("verb", verb),
				zap.Error(result.Err))
			c.tell(fmt.Sprintf("You cannot do that to %s", target.Name()))
			return true, true
		default:
			c.tell(fmt.Sprintf("You cannot do that to %s", target.Name()))
		}
	}
	return matched, false
}

func (w *World) resolveLocked(c *Character, token string) Entity {
	for _, e := range c.inventory {
		if e.Matches(token) {
			return e
		}
	}
	room := c.Location()
	if room == nil {
		return nil
	}
	if e := room.findContent(token); e != nil {
		return e
	}
	if d := room.findDoor(token); d != nil {
		return d
	}
	return nil
}

// Say broadcasts speech from c to its room.
func (w *World) Say(c *Character, text string) {
	w.speak(c, func() string { return fmt.Sprintf("%s says, \"%s\"", c.name, text) })
}

// Shout broadcasts a shout from c to its room.
func (w *World) Shout(c *Character, text string) {
	w.speak(c, func() string { return fmt.Sprintf("%s shouts, \"%s\"", c.name, text) })
}

// Pose broadcasts an action attributed to c, as in "Fred dances".
func (w *World) Pose(c *Character, text string) {
	w.speak(c, func() string { return c.name + " " + strings.TrimSpace(text) })
}

// Narrate broadcasts text to c's room without attribution.
func (w *World) Narrate(c *Character, text string) {
	w.speak(c, func() string { return text })
}

func (w *World) speak(c *Character, render func() string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if room := c.Location(); room != nil {
		room.hear(render(), nil)
	}
}

// UseDoor sends c through the only door of its room.
func (w *World) UseDoor(c *Character) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	room := c.Location()
	if room == nil || len(room.doors) != 1 {
		return false
	}
	w.passThroughLocked(room.doors[0], c)
	return true
}
