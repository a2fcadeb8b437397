package commands

import (
	"strings"
	"testing"

	"Brackenhold/internal/game"
)

func TestLookDescribesRoom(t *testing.T) {
	w, hall, _ := newTestWorld()
	hall.Place(game.NewItem("lamp", "A brass lamp."))
	s := connect(t, w, "Ada")

	for _, line := range []string{"look", "LOOK AROUND"} {
		got := send(t, w, s, line)
		if !containsLine(got, "Hall") || !containsLine(got, "A long hall with a stone floor.") {
			t.Fatalf("%s output = %v", line, got)
		}
		if !containsLine(got, "Contents: lamp") {
			t.Fatalf("%s contents = %v", line, got)
		}
	}
}

func TestLookAtThings(t *testing.T) {
	w, hall, garden := newTestWorld()
	hall.Place(game.NewItem("lamp", "A brass lamp."))
	hall.AddDoor(game.NewDoor("arch", "A mossy arch.", garden))
	s := connect(t, w, "Ada")

	cases := map[string]string{
		"look at lamp": "A brass lamp.",
		"look lamp":    "A brass lamp.",
		"look at arch": "A mossy arch.",
		"look at me":   "As yet completely undescribed and unremarkable.",
		"look myself":  "Inventory: (empty)",
		"look at":      lookAtWhat,
		"look at moon": lookAtWhat,
	}
	for line, want := range cases {
		if got := send(t, w, s, line); !containsLine(got, want) {
			t.Fatalf("%q output = %v, want %q", line, got, want)
		}
	}

	send(t, w, s, "take lamp")
	if got := send(t, w, s, "look at lamp"); !containsLine(got, "Inventory: A brass lamp.") {
		t.Fatalf("held lamp output = %v", got)
	}
}

func TestDoorsListing(t *testing.T) {
	w, hall, garden := newTestWorld()
	s := connect(t, w, "Ada")

	if got := send(t, w, s, "doors"); !containsLine(got, noDoors) {
		t.Fatalf("no doors output = %v", got)
	}
	if got := send(t, w, s, "use the door"); !containsLine(got, whichDoor) {
		t.Fatalf("use door without doors output = %v", got)
	}

	hall.AddDoor(game.NewDoor("arch", "A mossy arch.", garden))
	hall.AddDoor(game.NewDoor("hatch", "A trapdoor.", nil))
	for _, line := range []string{"door", "doors", "look door", "look at doors", "look at the door"} {
		got := send(t, w, s, line)
		if !containsLine(got, "arch") || !containsLine(got, "A trapdoor.") {
			t.Fatalf("%q output = %v", line, got)
		}
	}
	if got := send(t, w, s, "use door"); !containsLine(got, whichDoor) {
		t.Fatalf("use door with two doors output = %v", got)
	}
	if s.Character().Location() != hall {
		t.Fatalf("ambiguous use door moved the character")
	}
}

func TestCharacterSheets(t *testing.T) {
	w, hall, _ := newTestWorld()
	hall.Place(game.NewItem("coin", "A gold coin."))
	s := connect(t, w, "Ada")

	if got := send(t, w, s, "stats"); !containsLine(got, "Hitpoints: 10") || !containsLine(got, "Xp: 0") {
		t.Fatalf("stats output = %v", got)
	}
	if got := send(t, w, s, "inven"); !containsLine(got, "Inventory: (empty)") {
		t.Fatalf("empty inventory output = %v", got)
	}
	send(t, w, s, "get coin")
	if got := send(t, w, s, "inventory"); !containsLine(got, "Inventory: coin") {
		t.Fatalf("inventory output = %v", got)
	}
	if got := send(t, w, s, "me"); !containsLine(got, "Ada") {
		t.Fatalf("me output = %v", got)
	}

	got := send(t, w, s, "character sheet")
	want := []string{"Ada (Hall)", "As yet completely undescribed and unremarkable.", "Hitpoints: 10", "Xp: 0", "Inventory: coin"}
	if len(got) != len(want) {
		t.Fatalf("sheet output = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sheet line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPoseAndNarrate(t *testing.T) {
	w, _, _ := newTestWorld()
	ada := connect(t, w, "Ada")
	bob := connect(t, w, "Bob")
	drainOutput(ada.Output)

	send(t, w, ada, "*waves")
	if got := drainOutput(bob.Output); !containsLine(got, "Ada waves") {
		t.Fatalf("pose output = %v", got)
	}
	send(t, w, ada, "/The floor creaks.")
	got := drainOutput(bob.Output)
	if !containsLine(got, "The floor creaks.") || containsLine(got, "Ada") {
		t.Fatalf("narrate output = %v", got)
	}
	send(t, w, ada, "shout over here")
	if got := drainOutput(bob.Output); !containsLine(got, `Ada shouts, "over here"`) {
		t.Fatalf("shout output = %v", got)
	}
	if got := send(t, w, ada, "say"); !containsLine(got, "Say what?") {
		t.Fatalf("empty say output = %v", got)
	}
}

func TestHelpDependsOnLoginState(t *testing.T) {
	w, _, _ := newTestWorld()
	w.SetAdmins([]string{"Root"})
	s := guest(w, "127.0.0.1:1")

	text := strings.Join(send(t, w, s, "help"), "\n")
	if !strings.Contains(text, "Console Commands:") || !strings.Contains(text, "login <name>") {
		t.Fatalf("guest help = %s", text)
	}
	if strings.Contains(text, "Game Commands:") {
		t.Fatalf("guest help lists game commands: %s", text)
	}

	Dispatch(w, s, "login Ada")
	drainOutput(s.Output)
	text = strings.Join(send(t, w, s, "help"), "\n")
	if !strings.Contains(text, "Game Commands:") || !strings.Contains(text, "look at <thing>") {
		t.Fatalf("player help = %s", text)
	}
	if strings.Contains(text, "Admin Commands:") {
		t.Fatalf("non-admin help lists admin commands: %s", text)
	}

	root := connect(t, w, "Root")
	text = strings.Join(send(t, w, root, "?"), "\n")
	if !strings.Contains(text, "Admin Commands:") || !strings.Contains(text, "goto <n>") {
		t.Fatalf("admin help = %s", text)
	}
}
