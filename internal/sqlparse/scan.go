package sqlparse

import "strings"

// The scanning helpers below all share the same notion of "top level":
// outside single- or double-quoted runs and outside parentheses. Clause
// keywords, commas, and AND/OR splits only count at top level, which is
// what keeps COUNT(DISTINCT x) or a quoted 'GROUP BY' literal from being
// mistaken for structure.

// collapseSpaces folds runs of whitespace into single spaces, leaving
// quoted runs untouched.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var quote byte
	space := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			b.WriteByte(ch)
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
			space = false
			b.WriteByte(ch)
		case ' ', '\t', '\n', '\r':
			if !space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = true
		default:
			space = false
			b.WriteByte(ch)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func isWordChar(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}

// indexKeyword returns the first top-level, word-bounded, case-insensitive
// occurrence of kw at or after from, or -1.
func indexKeyword(s, kw string, from int) int {
	if from < 0 {
		from = 0
	}
	depth := 0
	var quote byte
	for i := from; i+len(kw) <= len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
			continue
		case ch == '\'' || ch == '"':
			quote = ch
			continue
		case ch == '(':
			depth++
			continue
		case ch == ')':
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		if !strings.EqualFold(s[i:i+len(kw)], kw) {
			continue
		}
		if i > 0 && isWordChar(s[i-1]) {
			continue
		}
		if end := i + len(kw); end < len(s) && isWordChar(s[end]) {
			continue
		}
		return i
	}
	return -1
}

// splitTopLevel splits on sep at top level.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case ch == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// tokenize splits on whitespace at top level, keeping quoted runs and
// parenthesized calls intact within a single token.
func tokenize(s string) []string {
	var tokens []string
	depth := 0
	var quote byte
	start := -1
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
			if start < 0 {
				start = i
			}
		case ch == '(':
			depth++
			if start < 0 {
				start = i
			}
		case ch == ')':
			depth--
		case ch == ' ' || ch == '\t':
			if depth == 0 && quote == 0 {
				if start >= 0 {
					tokens = append(tokens, s[start:i])
					start = -1
				}
				continue
			}
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

// splitConditions breaks a WHERE body on top-level AND/OR, returning each
// segment with the logical operator that introduced it (empty for the
// first). The AND that belongs to a BETWEEN range is not a split point.
func splitConditions(s string) []conditionSegment {
	var segments []conditionSegment
	depth := 0
	var quote byte
	start := 0
	logical := ""
	pendingBetween := false

	flush := func(end int, nextLogical string, nextStart int) {
		segments = append(segments, conditionSegment{
			text:    strings.TrimSpace(s[start:end]),
			logical: logical,
		})
		logical = nextLogical
		start = nextStart
		pendingBetween = false
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
			continue
		case ch == '\'' || ch == '"':
			quote = ch
			continue
		case ch == '(':
			depth++
			continue
		case ch == ')':
			depth--
			continue
		}
		if depth != 0 || !isWordChar(ch) {
			continue
		}
		// Scan the word starting here.
		if i > 0 && isWordChar(s[i-1]) {
			continue
		}
		j := i
		for j < len(s) && isWordChar(s[j]) {
			j++
		}
		switch strings.ToUpper(s[i:j]) {
		case "BETWEEN":
			pendingBetween = true
		case "AND":
			if pendingBetween {
				pendingBetween = false
			} else {
				flush(i, "AND", j)
			}
		case "OR":
			flush(i, "OR", j)
		}
		i = j - 1
	}
	segments = append(segments, conditionSegment{
		text:    strings.TrimSpace(s[start:]),
		logical: logical,
	})

	// Drop empty segments produced by stray operators.
	out := segments[:0]
	for _, seg := range segments {
		if seg.text != "" {
			out = append(out, seg)
		}
	}
	return out
}

type conditionSegment struct {
	text    string
	logical string
}
