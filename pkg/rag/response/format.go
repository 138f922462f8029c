package response

import (
	"regexp"
	"strings"
)

var (
	markdownBold = regexp.MustCompile(`\*\*(.+?)\*\*`)
	inlineItem   = regexp.MustCompile(`(?:(<br/>)[ \t]*|([.!?:)]|</strong>)[ \t]+)(\d{1,2}\.[ \t]+)`)
	numberedLine = regexp.MustCompile(`^\s*\d{1,2}\.\s`)
	htmlTag      = regexp.MustCompile(`<[^>]+>`)
)

const (
	sectionBreak  = "<br/><br/>"
	maxTitleChars = 100
)

// FormatAnswer repairs model output into the answer markup: a bold title line followed by numbered
// sections, each on its own line and ending with a double line break.
func FormatAnswer(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}

	s = markdownBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = splitInlineItems(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if numberedLine.MatchString(line) {
			lines[i] = terminateSection(line)
		}
	}
	boldTitle(lines)

	return strings.Join(lines, "\n")
}

// splitInlineItems moves "... text. 2. next" onto its own line.
func splitInlineItems(s string) string {
	matches := inlineItem.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		// group 1 is a line break, group 2 punctuation; group 3 starts the item
		punctEnd := m[3]
		if m[2] < 0 {
			punctEnd = m[5]
		}
		itemStart := m[6]
		sb.WriteString(s[last:punctEnd])
		if strings.HasSuffix(s[:punctEnd], "<br/>") {
			sb.WriteString("\n")
		} else {
			sb.WriteString(sectionBreak + "\n")
		}
		last = itemStart
	}
	sb.WriteString(s[last:])
	return sb.String()
}

func terminateSection(line string) string {
	line = strings.TrimRight(line, " \t")
	switch {
	case strings.HasSuffix(line, sectionBreak):
		return line
	case strings.HasSuffix(line, "<br/>"):
		return line + "<br/>"
	default:
		return line + sectionBreak
	}
}

// boldTitle wraps a short plain first line in <strong> when more content follows it.
func boldTitle(lines []string) {
	first := -1
	rest := false
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first == -1 {
			first = i
			continue
		}
		rest = true
		break
	}
	if first == -1 || !rest {
		return
	}

	line := strings.TrimSpace(lines[first])
	if numberedLine.MatchString(line) {
		return
	}
	if strings.HasPrefix(line, "<strong>") {
		if isBoldSpan(line) {
			lines[first] = terminateSection(line)
		}
		return
	}

	title := strings.TrimSuffix(line, sectionBreak)
	title = strings.TrimSuffix(title, "<br/>")
	title = strings.TrimSpace(strings.TrimLeft(title, "# "))
	if title == "" || len(title) > maxTitleChars || htmlTag.MatchString(title) {
		return
	}

	lines[first] = "<strong>" + title + "</strong>" + sectionBreak
}

// isBoldSpan reports whether line is a single <strong> span, ignoring trailing breaks.
func isBoldSpan(line string) bool {
	body := strings.TrimSpace(line)
	for strings.HasSuffix(body, "<br/>") {
		body = strings.TrimSpace(strings.TrimSuffix(body, "<br/>"))
	}
	if !strings.HasSuffix(body, "</strong>") {
		return false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(body, "<strong>"), "</strong>")
	return inner != "" && !strings.Contains(inner, "<strong>")
}
