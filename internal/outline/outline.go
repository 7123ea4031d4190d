package outline

import (
	"errors"
	"regexp"
	"strings"
)

// ErrSectionNotFound is returned by Locate when no heading matches.
var ErrSectionNotFound = errors.New("section not found")

// Section is one heading of an article body and the line range it covers.
type Section struct {
	Level  int    `json:"level"`  // Number of leading '#' characters
	Header string `json:"header"` // Heading text, trimmed
	Start  int    `json:"-"`      // Line index of the heading line
	End    int    `json:"-"`      // Line index one past the last line of the section
}

// Lines splits a body the same way every function in this package does.
func Lines(body string) []string {
	return strings.Split(body, "\n")
}

// HeadingLevel reports whether line is a heading line and returns its level and text.
// A heading line, once trimmed, starts with one or more '#' followed by non-empty text.
func HeadingLevel(line string) (level int, text string, ok bool) {
	trimmed := strings.TrimSpace(line)
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 {
		return 0, "", false
	}
	text = strings.TrimSpace(trimmed[level:])
	if text == "" {
		return 0, "", false
	}
	return level, text, true
}

// Index returns the sections of body in document order.
// Each section ends where the next heading at the same or a shallower level starts,
// or at the end of the document.
func Index(body string) []Section {
	if body == "" {
		return nil
	}
	lines := Lines(body)

	var sections []Section
	// open holds indexes into sections whose End is not yet known.
	var open []int
	for i, line := range lines {
		level, text, ok := HeadingLevel(line)
		if !ok {
			continue
		}
		for len(open) > 0 && sections[open[len(open)-1]].Level >= level {
			sections[open[len(open)-1]].End = i
			open = open[:len(open)-1]
		}
		sections = append(sections, Section{Level: level, Header: text, Start: i})
		open = append(open, len(sections)-1)
	}
	for _, idx := range open {
		sections[idx].End = len(lines)
	}
	return sections
}

// Match is the result of Locate.
type Match struct {
	Section
	Content string // Lines Start..End joined with newlines and trimmed
}

// Locate finds the first heading whose text equals header (case-insensitive) and
// returns its section. Special characters in header are matched literally.
// A blank header matches nothing, as Index never yields empty headings.
func Locate(body, header string) (Match, error) {
	if strings.TrimSpace(header) == "" {
		return Match{}, ErrSectionNotFound
	}
	pattern, err := regexp.Compile(`(?i)^#+\s*` + regexp.QuoteMeta(header) + `\s*$`)
	if err != nil {
		return Match{}, err
	}
	lines := Lines(body)

	start := -1
	level := 0
	for i, line := range lines {
		if pattern.MatchString(line) {
			start = i
			level = len(line) - len(strings.TrimLeft(line, "#"))
			break
		}
	}
	if start < 0 {
		return Match{}, ErrSectionNotFound
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if l, _, ok := HeadingLevel(lines[i]); ok && l <= level {
			end = i
			break
		}
	}

	_, text, _ := HeadingLevel(lines[start])
	return Match{
		Section: Section{Level: level, Header: text, Start: start, End: end},
		Content: strings.TrimSpace(strings.Join(lines[start:end], "\n")),
	}, nil
}
