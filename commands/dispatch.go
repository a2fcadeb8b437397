package commands

import "Brackenhold/internal/game"

const huh = "Huh?"

// Dispatch resolves one input line through the cascade: an active listener
// takes the whole line; otherwise guests try the guest commands, logged-in
// characters try admin commands (when permitted) then player commands, then
// the entities named in the line. quit and help are tried last so content
// can never shadow them, and anything left over gets "Huh?".
func Dispatch(world *game.World, session *game.Session, line string) bool {
	c := session.Character()
	if c != nil && world.Converse(c, line) {
		world.RecordCommand("listener")
		return false
	}

	var stages []Stage
	if c == nil {
		stages = append(stages, StageGuest)
	} else {
		if world.IsAdmin(c) {
			stages = append(stages, StageAdmin)
		}
		stages = append(stages, StagePlayer)
	}
	for _, stage := range stages {
		if quit, ok := run(world, session, stage, line); ok {
			return quit
		}
	}

	if c != nil {
		if matched, _ := world.InterpretObjects(c, line); matched {
			world.RecordCommand("object")
			return false
		}
	}

	if quit, ok := run(world, session, StageSystem, line); ok {
		return quit
	}

	session.Tell(huh)
	world.RecordCommand("unknown")
	return false
}

func run(world *game.World, session *game.Session, stage Stage, line string) (quit, ok bool) {
	cmd, arg, ok := lookup(stage, line)
	if !ok {
		return false, false
	}
	world.RecordCommand(stage.String())
	ctx := &Context{
		World:     world,
		Session:   session,
		Character: session.Character(),
		Raw:       line,
		Arg:       arg,
		Command:   cmd,
	}
	return cmd.Handler(ctx), true
}
