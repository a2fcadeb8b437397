package commands

import (
	"fmt"
	"strings"

	"Brackenhold/internal/game"
)

var Help = Define(Definition{
	Name:        "help",
	Aliases:     []string{"?"},
	Usage:       "help",
	Description: "show this message",
	Stage:       StageSystem,
}, func(ctx *Context) bool {
	message := helpMessage("Console Commands:", append(ForStage(StageGuest), ForStage(StageSystem)...))
	if ctx.Character != nil {
		message += helpMessage("Game Commands:", ForStage(StagePlayer))
		if ctx.World.IsAdmin(ctx.Character) {
			message += helpMessage("Admin Commands:", ForStage(StageAdmin))
		}
	}
	ctx.Session.Send(message)
	return false
})

var Quit = Define(Definition{
	Name:        "quit",
	Usage:       "quit",
	Description: "disconnect",
	Stage:       StageSystem,
}, func(ctx *Context) bool {
	return true
})

func helpMessage(title string, commands []*Command) string {
	var builder strings.Builder
	builder.WriteString(game.Style("\n"+title, game.AnsiBold))
	builder.WriteString("\n")
	for _, cmd := range commands {
		usage := cmd.Usage
		if strings.TrimSpace(usage) == "" {
			usage = cmd.Name
		}
		builder.WriteString(fmt.Sprintf("  %-30s - %s\n", usage, cmd.Description))
	}
	return builder.String()
}
