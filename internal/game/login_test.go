package game

import (
	"errors"
	"testing"
)

func TestLoginCreatesCharacterInStartRoom(t *testing.T) {
	w, hall, _ := newTestWorld()
	s := NewSession(nil, "127.0.0.1:1", "test")
	w.Attach(s)

	c, err := w.Login(s, "Ada")
	if err != nil {
		t.Fatalf("Login error = %v", err)
	}
	if c.Location() != hall || c.LastRoom() != hall {
		t.Fatalf("new character in %s, last room %v", c.Location().Name(), c.LastRoom())
	}
	got := drainOutput(s.Output)
	for _, want := range []string{"A new character has been created.", "Welcome to the game, Ada!"} {
		if !containsLine(got, want) {
			t.Fatalf("missing %q in %v", want, got)
		}
	}
	if s.Character() != c {
		t.Fatalf("session is not bound to the character")
	}
}

func TestLoginWithoutRoomsFails(t *testing.T) {
	w := NewWorld()
	s := NewSession(nil, "127.0.0.1:1", "test")
	if _, err := w.Login(s, "Ada"); !errors.Is(err, ErrNoWorld) {
		t.Fatalf("Login error = %v, want ErrNoWorld", err)
	}
}

func TestLoginRefusesCharacterInPlay(t *testing.T) {
	w, _, _ := newTestWorld()
	connect(t, w, "Ada")
	s := NewSession(nil, "127.0.0.1:2", "test")
	w.Attach(s)
	if _, err := w.Login(s, "ada"); !errors.Is(err, ErrCharacterInUse) {
		t.Fatalf("Login error = %v, want ErrCharacterInUse", err)
	}
	if s.Character() != nil {
		t.Fatalf("refused session was bound")
	}
}

func TestDisconnectParksInLimboAndLoginResumes(t *testing.T) {
	w, _, garden := newTestWorld()
	w.SetMessages("Hello.", "Goodbye for now.")
	s, c := connect(t, w, "Ada")
	w.MoveTo(c, garden)
	drainOutput(s.Output)

	w.Disconnect(s)
	limbo, _ := w.Room(0)
	if c.Location() != limbo {
		t.Fatalf("character in %s, want Limbo", c.Location().Name())
	}
	if c.LastRoom() != garden {
		t.Fatalf("last room = %v, want Garden", c.LastRoom().Name())
	}
	got := drainOutput(s.Output)
	if !containsLine(got, "You are now being placed in Limbo.") || !containsLine(got, "Goodbye for now.") {
		t.Fatalf("output = %v", got)
	}
	if len(w.Sessions()) != 0 {
		t.Fatalf("sessions = %v, want none", w.Sessions())
	}
	w.Disconnect(s)

	again := NewSession(nil, "127.0.0.1:3", "test")
	w.Attach(again)
	resumed, err := w.Login(again, "Ada")
	if err != nil {
		t.Fatalf("Login error = %v", err)
	}
	if resumed != c || c.Location() != garden {
		t.Fatalf("resumed in %s, want Garden", c.Location().Name())
	}
	got = drainOutput(again.Output)
	if !containsLine(got, "Hello.") || !containsLine(got, "A character has been found by that name.") {
		t.Fatalf("output = %v", got)
	}
}

func TestLoginSkipsDeletedRooms(t *testing.T) {
	w, hall, garden := newTestWorld()
	s, ada := connect(t, w, "Ada")
	w.MoveTo(ada, garden)
	w.Disconnect(s)

	_, root := connect(t, w, "Root")
	w.MoveTo(root, garden)
	if err := w.DeleteRoom(root); err != nil {
		t.Fatalf("DeleteRoom error = %v", err)
	}

	again := NewSession(nil, "127.0.0.1:4", "test")
	w.Attach(again)
	if _, err := w.Login(again, "Ada"); err != nil {
		t.Fatalf("Login error = %v", err)
	}
	if ada.Location() != hall {
		t.Fatalf("resumed in %s, want Hall", ada.Location().Name())
	}

	if err := w.DeleteRoom(ada); err != nil {
		t.Fatalf("DeleteRoom error = %v", err)
	}
	newcomer := NewSession(nil, "127.0.0.1:5", "test")
	w.Attach(newcomer)
	c, err := w.Login(newcomer, "Cy")
	if err != nil {
		t.Fatalf("Login error = %v", err)
	}
	if limbo, _ := w.Room(0); c.Location() != limbo {
		t.Fatalf("new character placed in %s with every room deleted, want Limbo", c.Location().Name())
	}
}

func TestDisconnectEndsConversation(t *testing.T) {
	w, hall, _ := newTestWorld()
	hall.Place(newInnkeeper())
	s, c := connect(t, w, "Ada")
	w.InterpretObjects(c, "talk to keeper")

	w.Disconnect(s)
	if _, ok := w.ListenerName(c); ok {
		t.Fatalf("listener survived disconnect")
	}
	if w.ConversationOptions(c) != nil {
		t.Fatalf("conversation survived disconnect")
	}
}

func TestSayReachesEachListenerOnce(t *testing.T) {
	w, _, _ := newTestWorld()
	a, ada := connect(t, w, "A")
	b, _ := connect(t, w, "B")
	drainOutput(a.Output)

	w.Say(ada, "hello")

	if n := countLines(drainOutput(b.Output), `A says, "hello"`); n != 1 {
		t.Fatalf("B heard %d copies, want 1", n)
	}
	if n := countLines(drainOutput(a.Output), `A says, "hello"`); n != 1 {
		t.Fatalf("A heard %d copies, want 1", n)
	}
}

func TestSendAfterCloseIsIgnored(t *testing.T) {
	w, _, _ := newTestWorld()
	s, _ := connect(t, w, "Ada")
	w.Disconnect(s)
	drainOutput(s.Output)
	s.Send("late")
	if _, ok := <-s.Output; ok {
		t.Fatalf("received output after close")
	}
}
