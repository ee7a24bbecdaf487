package catalog

import (
	"regexp"
	"strings"
)

// matcher finds query as a literal, comparing letters one to one under
// simple Unicode case folding.
func matcher(query string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}

// Highlight splits text into segments, marking every case-insensitive
// occurrence of query. Adjacent segments alternate between plain and matched
// text and concatenate back to text.
func Highlight(text, query string) []Segment {
	if query == "" || strings.TrimSpace(query) == "" {
		return []Segment{{Text: text}}
	}

	matches := matcher(query).FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{Text: text}}
	}

	segments := make([]Segment, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			segments = append(segments, Segment{Text: text[last:m[0]]})
		}
		segments = append(segments, Segment{Text: text[m[0]:m[1]], Match: true})
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}

	return segments
}

// HighlightString wraps every matched segment of text with wrap. Plain
// segments pass through escape, which may be nil.
func HighlightString(text, query string, escape, wrap func(string) string) string {
	var b strings.Builder
	for _, segment := range Highlight(text, query) {
		value := segment.Text
		if escape != nil {
			value = escape(value)
		}
		if segment.Match {
			value = wrap(value)
		}
		b.WriteString(value)
	}
	return b.String()
}
