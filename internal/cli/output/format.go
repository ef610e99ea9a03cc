package output

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	titleCaser = cases.Title(language.English)
	printer    = message.NewPrinter(language.English)
)

// FormatHeader returns a Markdown heading.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a Markdown list item "- **key:** value".
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}

// FormatCodeBlock returns a fenced code block. The fence grows past any backtick run in code.
func FormatCodeBlock(lang, code string) string {
	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	return fence + lang + "\n" + strings.TrimRight(code, "\n") + "\n" + fence
}

// Title returns s in English title case ("dax quality" -> "Dax Quality").
func Title(s string) string {
	return titleCaser.String(s)
}

// FormatCount formats n with thousands separators.
func FormatCount[T ~int | ~int64](n T) string {
	return printer.Sprintf("%d", int64(n))
}

// FormatBytes formats a byte count with separators and a unit suffix.
func FormatBytes(n int64) string {
	return printer.Sprintf("%d B", n)
}

// EscapeCell makes s safe inside a Markdown table cell.
func EscapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// FormatMarkdownTable renders headers and rows as a Markdown table.
func FormatMarkdownTable(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(escapeAll(headers), " | ") + " |\n")
	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(escapeAll(row), " | ") + " |\n")
	}
	return b.String()
}

func escapeAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = EscapeCell(c)
	}
	return out
}
