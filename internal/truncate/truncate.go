package truncate

import "unicode/utf8"

// Result is the outcome of limiting a piece of content.
type Result struct {
	Content        string
	Truncated      bool
	OriginalLength int // Length in characters before limiting
}

// Len returns the length of s in characters. Every call site that reports a
// content length uses this so counts agree with Limit.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Prefix returns the first n characters of s, or s itself when it is shorter.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Limit cuts content to at most max characters. No attempt is made to keep
// word or line boundaries. A negative max is treated as zero.
func Limit(content string, max int) Result {
	if max < 0 {
		max = 0
	}
	n := Len(content)
	if n <= max {
		return Result{Content: content, OriginalLength: n}
	}
	return Result{
		Content:        Prefix(content, max),
		Truncated:      true,
		OriginalLength: n,
	}
}
