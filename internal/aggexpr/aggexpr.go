// Package aggexpr classifies column-list and HAVING expression tokens.
// It is the one place where "is this an aggregate" ambiguity is resolved,
// so the generator and the parser can never disagree about it.
package aggexpr

import (
	"strconv"
	"strings"

	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
	"github.com/alvinwquach/sculptql-sub000/internal/sqlquote"
)

// Kind is the classification of a candidate expression token.
type Kind int

const (
	// Unrecognized tokens are opaque raw expressions, passed through
	// as-is and never further interpreted.
	Unrecognized Kind = iota
	// Wildcard is the bare "*".
	Wildcard
	// PlainColumn is a bare or quoted member of the known-columns set.
	PlainColumn
	// CountStar is COUNT(*), recognized verbatim.
	CountStar
	// Aggregate is FN(DISTINCT? col[, decimals]) for a supported FN.
	Aggregate
	// NestedRound is ROUND(FN(DISTINCT? col)[, decimals]) wrapping an
	// inner aggregate.
	NestedRound
)

// Classification is the result of classifying one token.
type Classification struct {
	Kind Kind
	// Func is the aggregate function: the outer call for Aggregate, the
	// inner call for NestedRound.
	Func string
	// Column is the physical column the expression wraps.
	Column string
	// Distinct marks a DISTINCT inside the call.
	Distinct bool
	// Decimals is the ROUND precision when HasDecimals is set.
	Decimals    int
	HasDecimals bool
	// Raw is the original token, preserved for Unrecognized results.
	Raw string
}

// aggregateFuncs are the calls whose result is non-groupable.
var aggregateFuncs = map[string]bool{
	"SUM":   true,
	"AVG":   true,
	"MAX":   true,
	"MIN":   true,
	"COUNT": true,
}

// supportedFuncs additionally admits ROUND as an outer call.
var supportedFuncs = map[string]bool{
	"SUM":   true,
	"AVG":   true,
	"MAX":   true,
	"MIN":   true,
	"COUNT": true,
	"ROUND": true,
}

// Classify resolves a candidate token against the known columns of the
// active table. Function keywords match case-insensitively; column
// identifiers match case-sensitively after quote stripping. Tokens that
// fit neither the column set nor the function grammar come back
// Unrecognized.
func Classify(token string, columns map[string]struct{}, d querystate.Dialect) Classification {
	trimmed := strings.TrimSpace(token)
	unrecognized := Classification{Kind: Unrecognized, Raw: trimmed}

	if trimmed == "" {
		return unrecognized
	}
	if trimmed == "*" {
		return Classification{Kind: Wildcard}
	}
	if name := sqlquote.StripQuotes(trimmed); isColumn(name, columns) {
		return Classification{Kind: PlainColumn, Column: name}
	}

	open := strings.IndexByte(trimmed, '(')
	if open < 0 || !strings.HasSuffix(trimmed, ")") {
		return unrecognized
	}
	fn := strings.ToUpper(strings.TrimSpace(trimmed[:open]))
	if !supportedFuncs[fn] {
		return unrecognized
	}
	inner := strings.TrimSpace(trimmed[open+1 : len(trimmed)-1])

	if fn == "COUNT" && inner == "*" {
		return Classification{Kind: CountStar}
	}
	if fn == "ROUND" {
		if c, ok := classifyNestedRound(inner, columns, d); ok {
			return c
		}
		// Fall through: ROUND(col[, n]) without a nested aggregate.
	}

	args := splitTopLevel(inner, ',')
	if len(args) == 0 || len(args) > 2 {
		return unrecognized
	}

	target := strings.TrimSpace(args[0])
	distinct := false
	if rest, ok := cutKeyword(target, "DISTINCT"); ok {
		distinct = true
		target = rest
	}
	if distinct && fn != "COUNT" && !d.SupportsAggregateDistinct() {
		return unrecognized
	}

	col := sqlquote.StripQuotes(target)
	if !isColumn(col, columns) {
		return unrecognized
	}

	c := Classification{Kind: Aggregate, Func: fn, Column: col, Distinct: distinct}
	if len(args) == 2 {
		n, err := strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil {
			return unrecognized
		}
		c.Decimals = n
		c.HasDecimals = true
	}
	return c
}

// classifyNestedRound handles ROUND(FN(DISTINCT? col)[, decimals]).
// inner is the text between ROUND's parentheses.
func classifyNestedRound(inner string, columns map[string]struct{}, d querystate.Dialect) (Classification, bool) {
	open := strings.IndexByte(inner, '(')
	if open < 0 {
		return Classification{}, false
	}
	fn := strings.ToUpper(strings.TrimSpace(inner[:open]))
	if !aggregateFuncs[fn] {
		return Classification{}, false
	}
	end := matchParen(inner, open)
	if end < 0 {
		return Classification{}, false
	}

	target := strings.TrimSpace(inner[open+1 : end])
	distinct := false
	if rest, ok := cutKeyword(target, "DISTINCT"); ok {
		distinct = true
		target = rest
	}
	if distinct && fn != "COUNT" && !d.SupportsAggregateDistinct() {
		return Classification{}, false
	}
	col := sqlquote.StripQuotes(target)
	if !isColumn(col, columns) {
		return Classification{}, false
	}

	c := Classification{Kind: NestedRound, Func: fn, Column: col, Distinct: distinct}

	tail := strings.TrimSpace(inner[end+1:])
	if tail != "" {
		if !strings.HasPrefix(tail, ",") {
			return Classification{}, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(tail[1:]))
		if err != nil {
			return Classification{}, false
		}
		c.Decimals = n
		c.HasDecimals = true
	}
	return c, true
}

// Option mints the canonical identifier reference for a classification.
// Both sync directions call this, so a given expression always produces
// the same SelectOption regardless of which direction saw it first.
func (c Classification) Option() querystate.SelectOption {
	switch c.Kind {
	case Wildcard:
		return querystate.Wildcard()
	case PlainColumn:
		return querystate.SelectOption{Value: c.Column, Label: c.Column}
	case CountStar:
		return querystate.SelectOption{Value: "COUNT(*)", Label: "COUNT(*)", Aggregate: true}
	case Aggregate, NestedRound:
		v := c.render()
		return querystate.SelectOption{
			Value:        v,
			Label:        v,
			Aggregate:    aggregateFuncs[c.Func],
			SourceColumn: c.Column,
		}
	}
	return querystate.SelectOption{Value: c.Raw, Label: c.Raw}
}

func (c Classification) render() string {
	var b strings.Builder
	if c.Kind == NestedRound {
		b.WriteString("ROUND(")
	}
	b.WriteString(c.Func)
	b.WriteByte('(')
	if c.Distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(c.Column)
	b.WriteByte(')')
	if c.Kind == NestedRound {
		if c.HasDecimals {
			b.WriteString(", ")
			b.WriteString(strconv.Itoa(c.Decimals))
		}
		b.WriteByte(')')
	} else if c.HasDecimals {
		// Non-nested call with a precision argument, e.g. ROUND(price, 2).
		s := b.String()
		return s[:len(s)-1] + ", " + strconv.Itoa(c.Decimals) + ")"
	}
	return b.String()
}

func isColumn(name string, columns map[string]struct{}) bool {
	_, ok := columns[name]
	return ok
}

// cutKeyword strips a leading keyword (case-insensitive, whole word) and
// returns the remainder.
func cutKeyword(s, kw string) (string, bool) {
	if len(s) <= len(kw) {
		return s, false
	}
	if !strings.EqualFold(s[:len(kw)], kw) {
		return s, false
	}
	rest := s[len(kw):]
	if rest[0] != ' ' && rest[0] != '\t' {
		return s, false
	}
	return strings.TrimSpace(rest), true
}

// splitTopLevel splits on sep, ignoring separators inside parentheses or
// quoted strings.
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
	parts = append(parts, s[start:])
	return parts
}

// matchParen returns the index of the ')' matching the '(' at open, or -1.
func matchParen(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
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
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
