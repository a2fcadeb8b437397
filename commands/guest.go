package commands

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"Brackenhold/internal/game"
)

const (
	maxNameLength   = 24
	noWorldMessage  = "The server has not got a world loaded."
	playersOnline   = "There are players logged in! Restore doesn't work when players are logged in. All players should be disconnected first."
	noSavesMessage  = "No save files present!"
	restoreOK       = "Restore successful."
	restoreFailed   = "Restore failed. Check server log."
	characterInPlay = "That character is already in play."
)

var Login = Define(Definition{
	Name:        "login",
	Usage:       "login <name>",
	Description: "play the character called name, creating it if needed",
	Stage:       StageGuest,
	Args:        true,
}, func(ctx *Context) bool {
	name := ctx.Arg
	if problem := nameProblem(name); problem != "" {
		ctx.Reply(problem)
		return false
	}
	_, err := ctx.World.Login(ctx.Session, name)
	switch {
	case err == nil:
	case errors.Is(err, game.ErrNoWorld):
		ctx.World.Logger().Warn("login to an empty world", zap.String("addr", ctx.Session.Addr()))
		ctx.Reply(noWorldMessage)
	case errors.Is(err, game.ErrCharacterInUse):
		ctx.Reply(characterInPlay)
	default:
		ctx.World.Logger().Error("login failed", zap.String("name", name), zap.Error(err))
		ctx.Reply(huh)
	}
	return false
})

// nameProblem explains why name cannot be used, or returns "".
func nameProblem(name string) string {
	switch {
	case name == "":
		return wrongSyntax
	case strings.ContainsAny(name, " \t"):
		return "Names cannot contain spaces."
	case len(name) > maxNameLength:
		return fmt.Sprintf("Names must be %d characters or fewer.", maxNameLength)
	}
	return ""
}

var Restore = Define(Definition{
	Name:        "restore",
	Usage:       "restore",
	Description: "reload the most recently saved world",
	Stage:       StageGuest,
}, func(ctx *Context) bool {
	err := ctx.World.Restore()
	switch {
	case err == nil:
		ctx.Reply(restoreOK)
	case errors.Is(err, game.ErrPlayersOnline):
		ctx.Reply(playersOnline)
	case errors.Is(err, game.ErrEmptyArchive), errors.Is(err, game.ErrNoArchive):
		ctx.Reply(noSavesMessage)
	default:
		ctx.World.Logger().Error("restore failed", zap.Error(err))
		ctx.Reply(restoreFailed)
	}
	return false
})

var Shutdown = Define(Definition{
	Name:        "shutdown",
	Usage:       "shutdown",
	Description: "stop the server",
	Stage:       StageGuest,
}, func(ctx *Context) bool {
	ctx.World.Shutdown()
	return false
})
