package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Brackenhold/internal/game"
	"Brackenhold/internal/worldfile"
)

var checkCmd = &cobra.Command{
	Use:   "check <world.xml>",
	Short: "Validate a world file",
	Long:  `Build the world described by an XML file, report unresolved references and compile every hook script.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := worldfile.ReadFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		world, problems := game.Build(doc, zap.NewNop())
		for _, hook := range hookSources(doc) {
			if err := game.CompileHook(hook.source); err != nil {
				problems = append(problems, fmt.Sprintf("hook on %s: %v", hook.owner, err))
			}
		}
		for _, problem := range problems {
			fmt.Fprintln(out, problem)
		}
		fmt.Fprintf(out, "%s: %d rooms, %d problems\n", args[0], world.RoomCount(), len(problems))
		if len(problems) > 0 {
			return fmt.Errorf("%s has %d problems", args[0], len(problems))
		}
		return nil
	},
}

type hookSource struct {
	owner  string
	source string
}

func hookSources(doc *game.Document) []hookSource {
	var hooks []hookSource
	addItems := func(items []game.ItemRecord) {
		for _, it := range items {
			if it.Hook != "" {
				hooks = append(hooks, hookSource{owner: "item " + it.Name, source: it.Hook})
			}
		}
	}
	for _, room := range doc.Rooms {
		if room.Hook != "" {
			hooks = append(hooks, hookSource{owner: "room " + room.Name, source: room.Hook})
		}
		addItems(room.Items)
		for _, c := range room.Characters {
			addItems(c.Items)
		}
	}
	return hooks
}
