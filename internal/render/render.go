// Package render builds the paired output of every article operation: a
// human-readable text block and a structured record carrying the same data.
package render

import (
	"fmt"
	"strings"

	"github.com/dgallion1/grokmcp/internal/truncate"
)

// Result is what every operation returns on success.
type Result struct {
	Text string // Human-readable rendering
	Data any    // Structured record, JSON-encodable
}

// Truncation is the optional metadata attached to a structured record when its
// content was cut. Embed it as a pointer: a nil value omits both fields.
type Truncation struct {
	Truncated      bool `json:"_truncated"`
	OriginalLength int  `json:"_original_length"`
}

// TruncationOf returns metadata for r, or nil when r was not truncated.
func TruncationOf(r truncate.Result) *Truncation {
	if !r.Truncated {
		return nil
	}
	return &Truncation{Truncated: true, OriginalLength: r.OriginalLength}
}

// Builder assembles a text block from ordered fragments joined by newlines.
type Builder struct {
	parts []string
}

// Line appends one fragment.
func (b *Builder) Line(s string) *Builder {
	b.parts = append(b.parts, s)
	return b
}

// Linef appends a formatted fragment.
func (b *Builder) Linef(format string, args ...any) *Builder {
	return b.Line(fmt.Sprintf(format, args...))
}

// Blank appends an empty fragment, producing an empty line.
func (b *Builder) Blank() *Builder {
	return b.Line("")
}

// Title appends a level-one markdown heading.
func (b *Builder) Title(title string) *Builder {
	return b.Line("# " + title)
}

// TruncationNotice appends the standard notice when t is non-nil. shown is the
// number of characters kept.
func (b *Builder) TruncationNotice(t *Truncation, shown int) *Builder {
	if t == nil {
		return b
	}
	return b.Blank().Linef("... (truncated at %d of %d chars)", shown, t.OriginalLength)
}

// String joins the fragments.
func (b *Builder) String() string {
	return strings.Join(b.parts, "\n")
}

// Result pairs the built text with data.
func (b *Builder) Result(data any) Result {
	return Result{Text: b.String(), Data: data}
}
