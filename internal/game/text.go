package game

import "strings"

const (
	messageIndent = "          "
	heardIndent   = "                    "
)

// FormatMessage renders text addressed directly to a player. Each line is
// indented by ten spaces and underscores stand in for spaces, so world
// authors can lay out ASCII art in single-line document fields.
func FormatMessage(text string) string {
	return indentLines(text, messageIndent)
}

// FormatHeard renders text a player overhears from the room around them.
func FormatHeard(text string) string {
	return indentLines(text, heardIndent)
}

func indentLines(text, indent string) string {
	lines := splitLines(text)
	var b strings.Builder
	for _, line := range lines {
		b.WriteString("\n")
		if line == "" {
			continue
		}
		b.WriteString(indent)
		b.WriteString(strings.ReplaceAll(line, "_", " "))
	}
	return b.String()
}

// splitLines breaks text on runs of line terminators. A leading terminator
// yields an empty first line, which renders as a blank spacer.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r", "\n")
	parts := strings.Split(text, "\n")
	lines := make([]string, 0, len(parts))
	for i, part := range parts {
		if part == "" && i != 0 {
			continue
		}
		lines = append(lines, part)
	}
	return lines
}
