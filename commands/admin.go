package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"Brackenhold/internal/game"
)

const (
	wrongSyntax  = "Wrong syntax!"
	invalidRoom  = "That is not a valid room"
	missingRoom  = "That room does not exist!"
	createWhat   = "What do you want to create?"
	deleteLimbo  = "You cannot delete Limbo."
	deleteInPlay = "That character is in play. Eject them instead."
	usersHeader  = "IP Address       Username"
	notLoggedIn  = "(not logged in)"
	savedMessage = "World saved."
	saveFailed   = "Save failed. Check server log."
)

var Goto = Define(Definition{
	Name:        "goto",
	Usage:       "goto <n>",
	Description: "move to room number n",
	Stage:       StageAdmin,
	Args:        true,
}, func(ctx *Context) bool {
	n, err := strconv.Atoi(ctx.Arg)
	if err != nil {
		ctx.Reply(invalidRoom)
		return false
	}
	if err := ctx.World.Goto(ctx.Character, n); err != nil {
		ctx.Reply(invalidRoom)
	}
	return false
})

var Create = Define(Definition{
	Name:        "create",
	Usage:       "create room <name> <description> | create door to <n> <name> <description>",
	Description: "add a room to the world or a door to this room",
	Stage:       StageAdmin,
	Args:        true,
}, func(ctx *Context) bool {
	kind, rest := cutWord(ctx.Arg)
	switch strings.ToLower(kind) {
	case "room":
		name, description := cutWord(rest)
		if name == "" || description == "" {
			ctx.Reply(wrongSyntax)
			return false
		}
		index := ctx.World.CreateRoom(name, description)
		ctx.Reply(fmt.Sprintf("Room %d created.", index))
	case "door":
		to, rest := cutWord(rest)
		number, rest := cutWord(rest)
		if !strings.EqualFold(to, "to") || number == "" {
			ctx.Reply(wrongSyntax)
			return false
		}
		n, err := strconv.Atoi(number)
		if err != nil {
			ctx.Reply(invalidRoom)
			return false
		}
		name, description := cutWord(rest)
		if name == "" || description == "" {
			ctx.Reply(wrongSyntax)
			return false
		}
		if err := ctx.World.CreateDoor(ctx.Character, n, name, description); err != nil {
			if errors.Is(err, game.ErrInvalidRoom) {
				ctx.Reply(missingRoom)
			} else {
				ctx.Reply(wrongSyntax)
			}
		}
	default:
		ctx.Reply(createWhat)
	}
	return false
})

var Edit = Define(Definition{
	Name:        "edit",
	Usage:       "edit room <name> <description> | edit <target> <name> <description>",
	Description: "rename and redescribe this room or something in it",
	Stage:       StageAdmin,
	Args:        true,
}, func(ctx *Context) bool {
	target, rest := cutWord(ctx.Arg)
	name, description := cutWord(rest)
	if target == "" || name == "" || description == "" {
		ctx.Reply(wrongSyntax)
		return false
	}
	if strings.EqualFold(target, "room") {
		ctx.World.EditRoom(ctx.Character, name, description)
		return false
	}
	if err := ctx.World.EditEntity(ctx.Character, target, name, description); err != nil {
		ctx.Reply("Cannot find " + target)
	}
	return false
})

var Delete = Define(Definition{
	Name:        "delete",
	Usage:       "delete room | delete <name>",
	Description: "tombstone this room, or remove something from it",
	Stage:       StageAdmin,
	Args:        true,
}, func(ctx *Context) bool {
	target := ctx.Arg
	if target == "" {
		ctx.Reply(wrongSyntax)
		return false
	}
	if strings.EqualFold(target, "room") {
		switch err := ctx.World.DeleteRoom(ctx.Character); {
		case errors.Is(err, game.ErrLimbo):
			ctx.Reply(deleteLimbo)
		case errors.Is(err, game.ErrNoWorld):
			ctx.Reply(noWorldMessage)
		}
		return false
	}
	switch err := ctx.World.DeleteEntity(ctx.Character, target); {
	case errors.Is(err, game.ErrCharacterInUse):
		ctx.Reply(deleteInPlay)
	case err != nil:
		ctx.Reply("Cannot find " + target)
	}
	return false
})

var Eject = Define(Definition{
	Name:        "eject",
	Usage:       "eject <name|all> [to] <n>",
	Description: "move someone or everything here to room number n",
	Stage:       StageAdmin,
	Args:        true,
}, func(ctx *Context) bool {
	fields := strings.Fields(ctx.Arg)
	if len(fields) == 3 && strings.EqualFold(fields[1], "to") {
		fields = []string{fields[0], fields[2]}
	}
	if len(fields) != 2 {
		ctx.Reply(wrongSyntax)
		return false
	}
	victim := fields[0]
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		ctx.Reply(invalidRoom)
		return false
	}
	switch err := ctx.World.Eject(ctx.Character, victim, n); {
	case errors.Is(err, game.ErrInvalidRoom):
		ctx.Reply(invalidRoom)
	case errors.Is(err, game.ErrNotFound):
		ctx.Reply("Cannot find " + victim)
	}
	return false
})

var Users = Define(Definition{
	Name:        "users",
	Usage:       "users",
	Description: "list connected sessions",
	Stage:       StageAdmin,
}, func(ctx *Context) bool {
	var b strings.Builder
	b.WriteString(usersHeader)
	for _, info := range ctx.World.Sessions() {
		name := info.Character
		if name == "" {
			name = notLoggedIn
		}
		b.WriteString("\n" + info.Addr + "  " + name)
	}
	ctx.Reply(b.String())
	return false
})

var Save = Define(Definition{
	Name:        "save",
	Usage:       "save",
	Description: "write the world to the archive",
	Stage:       StageAdmin,
}, func(ctx *Context) bool {
	if err := ctx.World.Save(); err != nil {
		ctx.World.Logger().Error("save failed", zap.Error(err))
		ctx.Reply(saveFailed)
		return false
	}
	ctx.Reply(savedMessage)
	return false
})

// cutWord splits s into its first word and the trimmed remainder.
func cutWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	word, rest, _ := strings.Cut(s, " ")
	return word, strings.TrimSpace(rest)
}
