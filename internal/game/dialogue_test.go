package game

import (
	"reflect"
	"testing"
)

func newInnkeeper() *Character {
	return NewNPC("Innkeeper", "A stout innkeeper polishing a mug.", Persona{
		Greeting: "Welcome, traveller. Ask me about 1) rooms or 2) rumours.",
		Farewell: "Safe travels.",
		Dialogues: []*Dialogue{
			{Trigger: 1, Line: "Rooms are two silver a night."},
			{Trigger: 2, Line: "They say the cellar is haunted.", Children: []*Dialogue{
				{Trigger: 1, Line: "Go and look, if you dare.", Action: "message A chill runs down your spine."},
			}},
		},
	}, "keeper")
}

func TestConversationLeafEndsDialogue(t *testing.T) {
	w, hall, _ := newTestWorld()
	hall.Place(newInnkeeper())
	s, c := connect(t, w, "Ada")

	if _, handled := w.InterpretObjects(c, "talk to keeper"); !handled {
		t.Fatalf("talk to keeper was not handled")
	}
	if name, ok := w.ListenerName(c); !ok || name != "Innkeeper" {
		t.Fatalf("ListenerName = %q, %v", name, ok)
	}
	if got := w.ConversationOptions(c); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("ConversationOptions = %v, want [1 2]", got)
	}
	if got := drainOutput(s.Output); !containsLine(got, "Welcome, traveller.") {
		t.Fatalf("greeting missing: %v", got)
	}

	if !w.Converse(c, "1") {
		t.Fatalf("Converse returned false during a conversation")
	}
	got := drainOutput(s.Output)
	if !containsLine(got, "Rooms are two silver a night.") || !containsLine(got, "Safe travels.") {
		t.Fatalf("output = %v", got)
	}
	if _, ok := w.ListenerName(c); ok {
		t.Fatalf("listener still set after a leaf")
	}
	if w.ConversationOptions(c) != nil {
		t.Fatalf("conversation options still set after a leaf")
	}
	if w.Converse(c, "1") {
		t.Fatalf("Converse returned true with no listener")
	}
}

func TestConversationDescendsAndRunsAction(t *testing.T) {
	w, hall, _ := newTestWorld()
	hall.Place(newInnkeeper())
	s, c := connect(t, w, "Ada")

	w.InterpretObjects(c, "speak with innkeeper")
	w.Converse(c, "2")
	if got := w.ConversationOptions(c); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("ConversationOptions = %v, want [1]", got)
	}
	w.Converse(c, "1")
	got := drainOutput(s.Output)
	for _, want := range []string{"They say the cellar is haunted.", "Go and look, if you dare.", "A chill runs down your spine.", "Safe travels."} {
		if !containsLine(got, want) {
			t.Fatalf("missing %q in %v", want, got)
		}
	}
}

func TestConversationStopAndPardon(t *testing.T) {
	w, hall, _ := newTestWorld()
	hall.Place(newInnkeeper())
	s, c := connect(t, w, "Ada")
	watcher, _ := connect(t, w, "Bo")

	w.InterpretObjects(c, "chat to innkeeper")
	if got := drainOutput(watcher.Output); !containsLine(got, "Ada is talking to Innkeeper") {
		t.Fatalf("watcher output = %v", got)
	}
	drainOutput(s.Output)

	w.Converse(c, "7")
	if got := drainOutput(s.Output); !containsLine(got, "Pardon?") {
		t.Fatalf("output = %v", got)
	}
	w.Converse(c, "stop")
	if got := drainOutput(s.Output); !containsLine(got, "Safe travels.") {
		t.Fatalf("output = %v", got)
	}
	if _, ok := w.ListenerName(c); ok {
		t.Fatalf("listener still set after stop")
	}
}

func TestConversationsArePerPlayer(t *testing.T) {
	w, hall, _ := newTestWorld()
	hall.Place(newInnkeeper())
	_, ada := connect(t, w, "Ada")
	_, bo := connect(t, w, "Bo")

	w.InterpretObjects(ada, "talk to keeper")
	w.InterpretObjects(bo, "talk to keeper")
	w.Converse(ada, "2")

	if got := w.ConversationOptions(ada); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("Ada options = %v, want [1]", got)
	}
	if got := w.ConversationOptions(bo); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("Bo options = %v, want [1 2]", got)
	}
}

func TestSilentNPCDismisses(t *testing.T) {
	w, hall, _ := newTestWorld()
	hall.Place(NewNPC("Statue", "A marble statue.", Persona{}))
	s, c := connect(t, w, "Ada")

	w.InterpretObjects(c, "talk to statue")
	if got := drainOutput(s.Output); !containsLine(got, defaultDismissal) {
		t.Fatalf("output = %v", got)
	}
	if _, ok := w.ListenerName(c); ok {
		t.Fatalf("listener set for an NPC without dialogue")
	}
}

func TestAtlasTransportsHolder(t *testing.T) {
	w, hall, garden := newTestWorld()
	chart := NewMap("chart", "A folded chart.", Atlas{Art: "[~~~]", Targets: []string{"Garden", "Nowhere"}})
	hall.Place(chart)
	s, c := connect(t, w, "Ada")

	w.InterpretObjects(c, "use chart")
	if got := drainOutput(s.Output); !containsLine(got, "You need to be holding the map to use it.") {
		t.Fatalf("output = %v", got)
	}

	w.InterpretObjects(c, "take chart")
	w.InterpretObjects(c, "use chart")
	got := drainOutput(s.Output)
	if !containsLine(got, "You are using the map.") || !containsLine(got, "1 Garden") || !containsLine(got, "2 Nowhere") {
		t.Fatalf("output = %v", got)
	}

	w.Converse(c, "fly")
	if got := drainOutput(s.Output); !containsLine(got, "The map does not understand that command.") {
		t.Fatalf("output = %v", got)
	}
	w.Converse(c, "2")
	if got := drainOutput(s.Output); !containsLine(got, "That is not a valid room") {
		t.Fatalf("output = %v", got)
	}
	if c.Location() != hall {
		t.Fatalf("moved to an unknown room")
	}

	w.InterpretObjects(c, "use chart")
	w.Converse(c, "-1")
	if c.Location() != garden {
		t.Fatalf("location = %s, want Garden", c.Location().Name())
	}
	if _, ok := w.ListenerName(c); ok {
		t.Fatalf("map still listening after travel")
	}
}
