package commands

import (
	"fmt"
	"strings"

	"Brackenhold/internal/game"
)

const (
	whichDoor   = "Which door do you mean?"
	noDoors     = "There are no doors here."
	lookAtWhat  = "look at what?"
	emptyPocket = "(empty)"
)

var Say = Define(Definition{
	Name:        "say",
	Usage:       "say <message>",
	Description: "speak to the room",
	Stage:       StagePlayer,
	Args:        true,
}, func(ctx *Context) bool {
	if ctx.Arg == "" {
		ctx.Reply("Say what?")
		return false
	}
	ctx.World.Say(ctx.Character, ctx.Arg)
	return false
})

var Shout = Define(Definition{
	Name:        "shout",
	Usage:       "shout <message>",
	Description: "shout to the room",
	Stage:       StagePlayer,
	Args:        true,
}, func(ctx *Context) bool {
	if ctx.Arg == "" {
		ctx.Reply("Shout what?")
		return false
	}
	ctx.World.Shout(ctx.Character, ctx.Arg)
	return false
})

var Pose = Define(Definition{
	Name:        "*",
	Usage:       "*<action>",
	Description: "act out something, as in *waves",
	Stage:       StagePlayer,
	Args:        true,
	Glued:       true,
}, func(ctx *Context) bool {
	if ctx.Arg != "" {
		ctx.World.Pose(ctx.Character, ctx.Arg)
	}
	return false
})

var Narrate = Define(Definition{
	Name:        "/",
	Usage:       "/<text>",
	Description: "describe something happening in the room",
	Stage:       StagePlayer,
	Args:        true,
	Glued:       true,
}, func(ctx *Context) bool {
	if ctx.Arg != "" {
		ctx.World.Narrate(ctx.Character, ctx.Arg)
	}
	return false
})

var Look = Define(Definition{
	Name:        "look",
	Usage:       "look [thing]",
	Description: "describe the room, or something in it",
	Stage:       StagePlayer,
	Args:        true,
}, func(ctx *Context) bool {
	if ctx.Arg == "" || strings.EqualFold(ctx.Arg, "around") {
		describeRoom(ctx)
		return false
	}
	inspect(ctx, ctx.Arg)
	return false
})

var LookAt = Define(Definition{
	Name:        "look at",
	Usage:       "look at <thing>",
	Description: "describe something here or in your inventory",
	Stage:       StagePlayer,
	Args:        true,
}, func(ctx *Context) bool {
	inspect(ctx, ctx.Arg)
	return false
})

var Doors = Define(Definition{
	Name:        "doors",
	Aliases:     []string{"door", "look door", "look doors", "look at door", "look at doors", "look at the door", "look at the doors"},
	Usage:       "doors",
	Description: "describe the exits of this room",
	Stage:       StagePlayer,
}, func(ctx *Context) bool {
	doors := ctx.World.Doors(ctx.Character)
	if len(doors) == 0 {
		ctx.Reply(noDoors)
		return false
	}
	parts := make([]string, 0, len(doors))
	for _, d := range doors {
		parts = append(parts, d.Name+"\n"+d.Description)
	}
	ctx.Reply(strings.Join(parts, "\n \n"))
	return false
})

var UseDoor = Define(Definition{
	Name:        "use door",
	Aliases:     []string{"use the door"},
	Usage:       "use door",
	Description: "go through the only door in this room",
	Stage:       StagePlayer,
}, func(ctx *Context) bool {
	if !ctx.World.UseDoor(ctx.Character) {
		ctx.Reply(whichDoor)
	}
	return false
})

var Me = Define(Definition{
	Name:        "me",
	Usage:       "me",
	Description: "show your name and description",
	Stage:       StagePlayer,
}, func(ctx *Context) bool {
	view := ctx.World.Profile(ctx.Character)
	ctx.Reply(view.Name + "\n" + view.Description)
	return false
})

var Stats = Define(Definition{
	Name:        "stats",
	Aliases:     []string{"stat"},
	Usage:       "stats",
	Description: "show your hit points and experience",
	Stage:       StagePlayer,
}, func(ctx *Context) bool {
	ctx.Reply(statsLine(ctx.World.Profile(ctx.Character)))
	return false
})

var Inventory = Define(Definition{
	Name:        "inventory",
	Aliases:     []string{"inven"},
	Usage:       "inventory",
	Description: "list what you are carrying",
	Stage:       StagePlayer,
}, func(ctx *Context) bool {
	ctx.Reply(inventoryLine(ctx.World.Profile(ctx.Character).Inventory))
	return false
})

var Sheet = Define(Definition{
	Name:        "sheet",
	Aliases:     []string{"character sheet", "character"},
	Usage:       "sheet",
	Description: "show your full character sheet",
	Stage:       StagePlayer,
}, func(ctx *Context) bool {
	view := ctx.World.Profile(ctx.Character)
	ctx.Reply(fmt.Sprintf("%s (%s)\n%s\n%s\n%s",
		view.Name, view.Room, view.Description, statsLine(view), inventoryLine(view.Inventory)))
	return false
})

func describeRoom(ctx *Context) {
	view, ok := ctx.World.Survey(ctx.Character)
	if !ok {
		ctx.Reply("You seem to be nowhere.")
		return
	}
	text := view.Name + "\n" + view.Description
	if len(view.Contents) > 0 {
		text += "\nContents: " + strings.Join(view.Contents, ", ")
	}
	ctx.Reply(text)
}

func inspect(ctx *Context, target string) {
	switch strings.ToLower(target) {
	case "":
		ctx.Reply(lookAtWhat)
		return
	case "me", "self", "myself":
		view := ctx.World.Profile(ctx.Character)
		ctx.Reply(view.Description + "\n" + inventoryLine(view.Inventory))
		return
	}
	view, ok := ctx.World.Inspect(ctx.Character, target)
	if !ok {
		ctx.Reply(lookAtWhat)
		return
	}
	text := view.Description
	if view.Held {
		text = "Inventory: " + text
	}
	if len(view.Contents) > 0 {
		text += "\nContents: " + strings.Join(view.Contents, ", ")
	}
	ctx.Reply(text)
}

func statsLine(view game.CharacterView) string {
	return fmt.Sprintf("Hitpoints: %d\nXp: %d", view.HitPoints, view.XP)
}

func inventoryLine(items []string) string {
	if len(items) == 0 {
		return "Inventory: " + emptyPocket
	}
	return "Inventory: " + strings.Join(items, ", ")
}
