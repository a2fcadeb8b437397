package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	actorToken       = "$_actor"
	segmentSeparator = "; "
)

var errDetached = errors.New("script owner is no longer in the world")

// runScript executes a command-table script owned by caller on behalf of
// actor. Callers hold w.mu. A script in which no segment is recognised is
// declined; unknown segments of an otherwise valid script are logged and
// skipped.
func (w *World) runScript(caller Entity, actor *Character, script string) Result {
	text := strings.ReplaceAll(script, actorToken, actor.name)
	result := declined
	for _, segment := range strings.Split(text, segmentSeparator) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		r := w.runPrimitive(caller, actor, segment)
		switch r.Status {
		case Handled:
			if result.Status == Declined {
				result = handled
			}
		case Errored:
			w.log.Warn("script segment failed",
				zap.String("owner", caller.Name()),
				zap.String("segment", segment),
				zap.Error(r.Err))
			result = r
		default:
			w.log.Warn("unknown script segment",
				zap.String("owner", caller.Name()),
				zap.String("segment", segment))
		}
	}
	return result
}

// runPrimitive executes a single script segment. Callers hold w.mu.
func (w *World) runPrimitive(caller Entity, actor *Character, segment string) Result {
	verb, arg := splitPrimitive(segment)
	switch verb {
	case "heal":
		w.scriptHeal(caller, actor, arg)
	case "message":
		actor.tell(arg)
	case "announce":
		if room := actor.Location(); room != nil {
			room.hear(arg, nil)
		}
	case "say":
		if room := actor.Location(); room != nil {
			room.hear(fmt.Sprintf("%s says, \"%s\"", caller.Name(), arg), nil)
		}
	case "shout":
		if room := actor.Location(); room != nil {
			room.hear(fmt.Sprintf("%s shouts, \"%s\"", caller.Name(), arg), nil)
		}
	default:
		lowered := normalizeVerb(segment)
		switch {
		case pickUpVerbs[lowered]:
			item, ok := caller.(*Item)
			if !ok {
				return declined
			}
			if !item.heldBy(actor) {
				w.moveLocked(item, actor)
			}
		case dropVerbs[lowered]:
			item, ok := caller.(*Item)
			if !ok {
				return declined
			}
			if item.heldBy(actor) {
				if room := actor.Location(); room != nil {
					w.moveLocked(item, room)
				}
			}
		case lowered == "delete self":
			if caller.Container() == nil {
				return failed(errDetached)
			}
			w.removeLocked(caller)
		default:
			return declined
		}
	}
	return handled
}

func splitPrimitive(segment string) (string, string) {
	verb, arg, ok := strings.Cut(segment, " ")
	verb = strings.ToLower(verb)
	switch verb {
	case "heal", "message", "announce", "say", "shout":
		if !ok && verb != "heal" {
			return "", ""
		}
		return verb, strings.TrimSpace(arg)
	}
	return "", ""
}

func (w *World) scriptHeal(caller Entity, actor *Character, arg string) {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		actor.tell("Wrong syntax!")
		return
	}
	amount, err := strconv.Atoi(fields[0])
	if err != nil {
		actor.tell("That is not a valid amount")
		return
	}
	if len(fields) == 1 {
		if holder := caller.Container(); holder != nil {
			holder.heal(w, amount)
		}
		return
	}
	switch strings.ToLower(fields[1]) {
	case "room":
		if room := enclosingRoom(caller); room != nil {
			room.heal(w, amount)
		}
	case "actor":
		actor.heal(w, amount)
	case "holder":
		if holder, ok := caller.Container().(*Character); ok {
			holder.heal(w, amount)
		}
	default:
		actor.tell("What do you want me to heal?")
	}
}
