// Package sqlquote decides how tokens are quoted when emitted into SQL
// text and how quotes are removed when text is read back. It is the single
// source of truth for both sync directions: the generator and the parser
// must agree on what counts as "needs quotes" or round-trips drift.
package sqlquote

import (
	"strconv"
	"strings"
)

// NeedsQuoting reports whether a token used as a literal value must be
// quoted. Numbers, boolean literals, the literal null, and empty or
// whitespace-only strings stand on their own; everything else — including
// strings with spaces or SQL punctuation — needs quotes.
func NeedsQuoting(token string) bool {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return false
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return false
	}
	switch strings.ToLower(trimmed) {
	case "true", "false", "null":
		return false
	}
	return true
}

// StripQuotes removes a single matching pair of leading/trailing double or
// single quotes, un-escaping doubled inner quotes ("" becomes ", '' becomes
// '). Tokens with mismatched or absent quote pairs pass through unchanged.
func StripQuotes(token string) string {
	if len(token) < 2 {
		return token
	}
	first, last := token[0], token[len(token)-1]
	if first != last || (first != '"' && first != '\'') {
		return token
	}
	inner := token[1 : len(token)-1]
	q := string(first)
	return strings.ReplaceAll(inner, q+q, q)
}

// QuoteLiteral wraps a value in single quotes, doubling inner quotes.
func QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// QuoteIdentifier double-quotes an identifier when it contains characters
// outside the plain lowercase name set, doubling inner double quotes.
// Plain names (lowercase letters, digits, underscores) pass through bare.
func QuoteIdentifier(name string) string {
	if name == "" || name == "*" {
		return name
	}
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_') {
			return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
		}
	}
	return name
}
