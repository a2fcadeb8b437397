package game

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRoomHookNarratesOnEnter(t *testing.T) {
	w, _, garden := newTestWorld()
	garden.SetHook(`package main

func OnEnter(ctx map[string]any) {
	narrate := ctx["narrate"].(func(string))
	narrate("Bees hum around " + ctx["player"].(string) + ".")
}`)
	s, c := connect(t, w, "Ada")

	w.MoveTo(c, garden)
	if got := drainOutput(s.Output); !containsLine(got, "Bees hum around Ada.") {
		t.Fatalf("output = %v", got)
	}
}

func TestItemHookDescribesOnInspect(t *testing.T) {
	w, hall, _ := newTestWorld()
	orb := NewItem("orb", "A glass orb.")
	orb.SetHook(`package main

func OnInspect(ctx map[string]any) {
	describe := ctx["describe"].(func(string))
	describe("The orb glows in your " + ctx["where"].(string) + ".")
}`)
	hall.Place(orb)
	s, c := connect(t, w, "Ada")

	view, ok := w.Inspect(c, "orb")
	if !ok || view.Description != "A glass orb." {
		t.Fatalf("Inspect = %+v, %v", view, ok)
	}
	if got := drainOutput(s.Output); !containsLine(got, "The orb glows in your room.") {
		t.Fatalf("output = %v", got)
	}
}

func TestBrokenHookIsLoggedAndCached(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w, _, garden := newTestWorld()
	w.SetLogger(zap.New(core))
	garden.SetHook("package main\nfunc OnEnter(")
	_, c := connect(t, w, "Ada")

	w.MoveTo(c, garden)
	w.MoveTo(c, garden)
	if n := logs.FilterMessage("room hook failed to load").Len(); n != 2 {
		t.Fatalf("load warnings = %d, want 2", n)
	}
	if len(w.hooks.scripts) != 1 {
		t.Fatalf("cached scripts = %d, want 1", len(w.hooks.scripts))
	}
	if err := CompileHook(garden.Hook()); err == nil {
		t.Fatalf("CompileHook accepted a broken hook")
	}
}

func TestPanickingHookIsRecovered(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w, _, garden := newTestWorld()
	w.SetLogger(zap.New(core))
	garden.SetHook(`package main

func OnEnter(ctx map[string]any) {
	panic("boom")
}`)
	_, c := connect(t, w, "Ada")

	if !w.MoveTo(c, garden) {
		t.Fatalf("MoveTo returned false")
	}
	if logs.FilterMessage("hook panic").Len() != 1 {
		t.Fatalf("expected a hook panic warning, got %v", logs.All())
	}
	if c.Location() != garden {
		t.Fatalf("character did not arrive")
	}
}
