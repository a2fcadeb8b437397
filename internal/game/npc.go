package game

import (
	"fmt"
	"strconv"
	"strings"
)

const defaultDismissal = "They have nothing to say to you."

var talkVerbs = wordSet("talk to", "chat to", "speak to", "talk with", "speak with", "chat with")

// Persona carries the conversational payload of an NPC.
type Persona struct {
	Greeting  string
	Farewell  string
	Dismissal string
	Dialogues []*Dialogue
}

// Dialogue is one node of an NPC's conversation tree. Trigger is the number
// the player types to pick it; Action is an optional script run on behalf of
// the player once Line has been spoken.
type Dialogue struct {
	Trigger  int
	Line     string
	Action   string
	Children []*Dialogue
}

// conversation is the per-player cursor into an NPC's dialogue tree. It lives
// on the player so two players can talk to the same NPC independently.
type conversation struct {
	npc     *Character
	options []*Dialogue
}

func (c *Character) beginConversation(actor *Character) Result {
	p := c.persona
	if len(p.Dialogues) == 0 {
		actor.tell(p.Dismissal)
		return handled
	}
	if room := actor.Location(); room != nil {
		room.hear(fmt.Sprintf("%s is talking to %s", actor.name, c.name), actor)
	}
	actor.listener = c
	actor.talk = &conversation{npc: c, options: p.Dialogues}
	actor.tell(p.Greeting)
	return handled
}

func (c *Character) listen(w *World, actor *Character, line string) {
	if c.persona == nil {
		actor.listener = nil
		actor.talk = nil
		return
	}
	input := strings.ToLower(strings.TrimSpace(line))
	var options []*Dialogue
	if actor.talk != nil && actor.talk.npc == c {
		options = actor.talk.options
	}
	for _, d := range options {
		if input != strconv.Itoa(d.Trigger) {
			continue
		}
		actor.tell(d.Line)
		if d.Action != "" {
			w.runScript(c, actor, d.Action)
		}
		if len(d.Children) == 0 {
			c.endConversation(actor)
			return
		}
		actor.talk = &conversation{npc: c, options: d.Children}
		return
	}
	if input == "stop" {
		c.endConversation(actor)
		return
	}
	actor.tell("Pardon?")
}

func (c *Character) endConversation(actor *Character) {
	actor.tell(c.persona.Farewell)
	actor.talk = nil
	actor.listener = nil
}
