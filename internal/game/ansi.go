package game

import "strings"

const (
	AnsiReset  = "\x1b[0m"
	AnsiBold   = "\x1b[1m"
	AnsiYellow = "\x1b[33m"
)

// Style wraps text with the provided ANSI attributes.
func Style(text string, attrs ...string) string {
	if len(attrs) == 0 {
		return text
	}
	return strings.Join(attrs, "") + text + AnsiReset
}

// Trim normalises a raw input line.
func Trim(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r", ""))
}

// Prompt renders the input prompt sent after every processed line.
func Prompt() string {
	return Style("\n> ", AnsiBold, AnsiYellow)
}
