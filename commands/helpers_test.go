package commands

import (
	"regexp"
	"strings"
	"testing"

	"Brackenhold/internal/game"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// drainOutput returns every queued line with ANSI sequences and indentation
// removed.
func drainOutput(ch chan string) []string {
	var out []string
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return out
			}
			for _, line := range strings.Split(ansiPattern.ReplaceAllString(msg, ""), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					out = append(out, line)
				}
			}
		default:
			return out
		}
	}
}

func containsLine(lines []string, want string) bool {
	for _, line := range lines {
		if strings.Contains(line, want) {
			return true
		}
	}
	return false
}

func newTestWorld() (*game.World, *game.Room, *game.Room) {
	limbo := game.NewRoom("Limbo", "A grey nothing between places.")
	hall := game.NewRoom("Hall", "A long hall with a stone floor.")
	garden := game.NewRoom("Garden", "Roses climb the walls.")
	return game.NewWorldWithRooms(limbo, hall, garden), hall, garden
}

func guest(w *game.World, addr string) *game.Session {
	s := game.NewSession(nil, addr, "test")
	w.Attach(s)
	return s
}

// connect logs name in through the command cascade and discards the login
// chatter.
func connect(t *testing.T, w *game.World, name string) *game.Session {
	t.Helper()
	s := guest(w, "127.0.0.1:"+name)
	if quit := Dispatch(w, s, "login "+name); quit {
		t.Fatalf("login %s asked to quit", name)
	}
	if s.Character() == nil {
		t.Fatalf("login %s left the session without a character: %v", name, drainOutput(s.Output))
	}
	drainOutput(s.Output)
	return s
}

func send(t *testing.T, w *game.World, s *game.Session, line string) []string {
	t.Helper()
	if quit := Dispatch(w, s, line); quit {
		t.Fatalf("Dispatch(%q) asked to quit", line)
	}
	return drainOutput(s.Output)
}
