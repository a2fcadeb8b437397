package game

import (
	"regexp"
	"strings"
	"testing"
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
			for _, line := range strings.Split(stripAnsi(msg), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					out = append(out, line)
				}
			}
		default:
			return out
		}
	}
}

func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func containsLine(lines []string, want string) bool {
	for _, line := range lines {
		if strings.Contains(line, want) {
			return true
		}
	}
	return false
}

func countLines(lines []string, want string) int {
	n := 0
	for _, line := range lines {
		if strings.Contains(line, want) {
			n++
		}
	}
	return n
}

func newTestWorld() (*World, *Room, *Room) {
	limbo := NewRoom("Limbo", "A grey nothing between places.")
	hall := NewRoom("Hall", "A long hall with a stone floor.")
	garden := NewRoom("Garden", "Roses climb the walls.")
	return NewWorldWithRooms(limbo, hall, garden), hall, garden
}

// connect logs name in on a fresh session and discards the login chatter.
func connect(t *testing.T, w *World, name string) (*Session, *Character) {
	t.Helper()
	s := NewSession(nil, "127.0.0.1:"+name, "test")
	w.Attach(s)
	c, err := w.Login(s, name)
	if err != nil {
		t.Fatalf("Login(%q) error = %v", name, err)
	}
	drainOutput(s.Output)
	return s, c
}
