package game

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultHitPoints       = 10
	defaultDescription     = "As yet completely undescribed and unremarkable."
	attackDamage           = 1
	attackExperienceReward = 1
)

// Character is a player character or, when it carries a Persona, an NPC.
// Players are bound to at most one Session while connected.
type Character struct {
	node
	hitPoints int
	xp        int
	lastRoom  *Room
	inventory []Entity
	listener  Listener
	talk      *conversation
	session   *Session
	persona   *Persona
}

// NewPlayer constructs a detached player character.
func NewPlayer(name, description string, synonyms ...string) *Character {
	if strings.TrimSpace(description) == "" {
		description = defaultDescription
	}
	return &Character{node: newNode(name, description, synonyms), hitPoints: defaultHitPoints}
}

// NewNPC constructs a detached non-player character.
func NewNPC(name, description string, persona Persona, synonyms ...string) *Character {
	c := NewPlayer(name, description, synonyms...)
	p := persona
	if strings.TrimSpace(p.Dismissal) == "" {
		p.Dismissal = defaultDismissal
	}
	c.persona = &p
	return c
}

func (c *Character) Kind() Kind {
	if c.persona != nil {
		return KindNPC
	}
	return KindPlayer
}

// Location returns the room the character stands in.
func (c *Character) Location() *Room {
	room, _ := c.container.(*Room)
	return room
}

// LastRoom is the room the character occupied before its latest move.
func (c *Character) LastRoom() *Room { return c.lastRoom }

func (c *Character) HitPoints() int { return c.hitPoints }

func (c *Character) XP() int { return c.xp }

// SetStats overrides hit points and experience during world construction.
func (c *Character) SetStats(hitPoints, xp int) {
	c.hitPoints = hitPoints
	c.xp = xp
}

// Persona returns the NPC payload, or nil for player characters.
func (c *Character) Persona() *Persona { return c.persona }

// Contents returns a copy of the character's inventory.
func (c *Character) Contents() []Entity {
	return append([]Entity(nil), c.inventory...)
}

// Carry adds e to the inventory without notifying anybody. It is meant for
// world construction before the world is shared between goroutines.
func (c *Character) Carry(e Entity) {
	e.base().container = c
	c.inventory = append(c.inventory, e)
}

func (c *Character) entered(_ *World, e Entity) {
	c.inventory = append(c.inventory, e)
	c.tell(fmt.Sprintf("You have gained a %s.", e.Name()))
}

func (c *Character) exited(_ *World, e Entity) {
	c.inventory = removeEntity(c.inventory, e)
	c.tell(fmt.Sprintf("You have lost a %s.", e.Name()))
}

func (c *Character) heal(_ *World, amount int) {
	c.hitPoints += amount
	if amount > 0 {
		c.tell(fmt.Sprintf("You have been healed %d points.", amount))
	} else {
		c.tell(fmt.Sprintf("You have been harmed %d points.", -amount))
	}
}

func (c *Character) interpret(w *World, verb string, actor *Character) Result {
	v := normalizeVerb(verb)
	if c.persona != nil && talkVerbs[v] {
		return c.beginConversation(actor)
	}
	if v == "attack" {
		c.attackedBy(w, actor)
		return handled
	}
	return declined
}

func (c *Character) attackedBy(w *World, actor *Character) {
	c.hitPoints -= attackDamage
	actor.xp += attackExperienceReward
	if room := actor.Location(); room != nil {
		room.hear(fmt.Sprintf("%s attacks %s.", actor.name, c.name), nil)
	}
	if c.hitPoints <= 0 && w != nil {
		w.log.Info("character defeated", zap.String("character", c.name), zap.String("attacker", actor.name))
	}
}

// tell delivers a private message to the character's session, if any.
func (c *Character) tell(text string) {
	if c.session == nil || text == "" {
		return
	}
	c.session.Send(FormatMessage(text))
}

// hear delivers a room-level message to the character's session, if any.
func (c *Character) hear(text string) {
	if c.session == nil || text == "" {
		return
	}
	c.session.Send(FormatHeard(text))
}
