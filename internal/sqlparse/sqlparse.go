// Package sqlparse recovers a structured QueryState from free-form SQL
// text, so the visual controls stay in sync with hand-typed edits.
//
// Recovery is deliberately conservative. Each clause is scanned by its own
// small matcher; a clause the scanner cannot make sense of is reported as
// not found, and the controller keeps that field's previous value rather
// than destroying working state on a typo. Only the loss of the FROM table
// is a structural reset — nothing downstream of a missing table is
// meaningful. Parse never fails.
package sqlparse

import (
	"strconv"
	"strings"

	"github.com/alvinwquach/sculptql-sub000/internal/aggexpr"
	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
	"github.com/alvinwquach/sculptql-sub000/internal/schema"
	"github.com/alvinwquach/sculptql-sub000/internal/sqlquote"
)

// Clause identifies which QueryState fields a parse recovered. A clause
// that is present in the text but garbled stays unset so the previous
// value survives the merge; a clause cleanly absent from an otherwise
// understood statement is reported found-and-empty, because the user
// deleted it on purpose.
type Clause uint16

const (
	ClauseTable Clause = 1 << iota
	ClauseColumns
	ClauseDistinct
	ClauseWhere
	ClauseGroupBy
	ClauseHaving
	ClauseOrderBy
	ClauseLimit
)

// Result is the partial state recovered from one statement.
type Result struct {
	State querystate.QueryState
	Found Clause
	// Reset is set when the statement has no resolvable FROM table;
	// every dependent field must be cleared.
	Reset bool
}

// Has reports whether the parse recovered the given clause.
func (r Result) Has(c Clause) bool { return r.Found&c != 0 }

var clauseNames = []struct {
	c    Clause
	name string
}{
	{ClauseTable, "table"},
	{ClauseColumns, "columns"},
	{ClauseDistinct, "distinct"},
	{ClauseWhere, "where"},
	{ClauseGroupBy, "groupBy"},
	{ClauseHaving, "having"},
	{ClauseOrderBy, "orderBy"},
	{ClauseLimit, "limit"},
}

// Names lists the recovered clauses in statement order.
func (c Clause) Names() []string {
	var out []string
	for _, cn := range clauseNames {
		if c&cn.c != 0 {
			out = append(out, cn.name)
		}
	}
	return out
}

// Parse scans a SQL statement against the known-schema catalog. The
// catalog and dialect are passed on every call; nothing is cached.
func Parse(text string, cat *schema.Catalog, d querystate.Dialect) Result {
	res := Result{State: querystate.QueryState{RawText: text}}

	s := collapseSpaces(strings.TrimSpace(text))
	s = strings.TrimRight(s, ";")
	s = strings.TrimSpace(s)
	if s == "" {
		res.Reset = true
		return res
	}

	fromPos := indexKeyword(s, "FROM", 0)
	if fromPos < 0 {
		res.Reset = true
		return res
	}
	table := tableAfterFrom(s[fromPos+len("FROM"):])
	if table == "" || !cat.HasTable(table) {
		res.Reset = true
		return res
	}
	res.State.Table = table
	res.Found |= ClauseTable
	columns := cat.ColumnSet(table)

	wherePos := indexKeyword(s, "WHERE", fromPos)
	groupPos := indexKeyword(s, "GROUP BY", fromPos)
	havingPos := indexKeyword(s, "HAVING", fromPos)
	orderPos := indexKeyword(s, "ORDER BY", fromPos)
	limitPos := indexKeyword(s, "LIMIT", fromPos)

	parseColumns(&res, s, fromPos, columns, d)
	parseWhere(&res, clauseBody(s, wherePos, len("WHERE"), groupPos, havingPos, orderPos, limitPos), wherePos >= 0, columns)
	parseGroupBy(&res, clauseBody(s, groupPos, len("GROUP BY"), havingPos, orderPos, limitPos), groupPos >= 0, columns)
	parseHaving(&res, clauseBody(s, havingPos, len("HAVING"), orderPos, limitPos), havingPos >= 0, columns, d)
	parseOrderBy(&res, clauseBody(s, orderPos, len("ORDER BY"), limitPos), orderPos >= 0, columns)
	parseLimit(&res, clauseBody(s, limitPos, len("LIMIT")), limitPos >= 0)

	return res
}

// clauseBody slices the text between a clause keyword and the first of the
// following clause keywords (or end of statement). pos < 0 yields "".
func clauseBody(s string, pos, kwLen int, ends ...int) string {
	if pos < 0 {
		return ""
	}
	end := len(s)
	for _, e := range ends {
		if e > pos && e < end {
			end = e
		}
	}
	return strings.TrimSpace(s[pos+kwLen : end])
}

// tableAfterFrom extracts the first identifier following FROM.
func tableAfterFrom(s string) string {
	tokens := tokenize(strings.TrimSpace(s))
	if len(tokens) == 0 {
		return ""
	}
	return sqlquote.StripQuotes(tokens[0])
}

// parseColumns handles the projection between SELECT [DISTINCT] and FROM.
// Unclassifiable tokens are dropped from the structured list — they live
// on only in RawText. A projection in which nothing classifies is treated
// as malformed so the previous column list survives.
func parseColumns(res *Result, s string, fromPos int, columns map[string]struct{}, d querystate.Dialect) {
	selectPos := indexKeyword(s, "SELECT", 0)
	if selectPos < 0 || selectPos > fromPos {
		return
	}
	body := strings.TrimSpace(s[selectPos+len("SELECT") : fromPos])

	distinct := false
	if rest, ok := cutLeadingKeyword(body, "DISTINCT"); ok {
		distinct = true
		body = rest
	}
	res.State.Distinct = distinct
	res.Found |= ClauseDistinct

	if body == "" || body == "*" {
		res.State.Columns = []querystate.SelectOption{querystate.Wildcard()}
		res.Found |= ClauseColumns
		return
	}

	var opts []querystate.SelectOption
	for _, tok := range splitTopLevel(body, ',') {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		c := aggexpr.Classify(tok, columns, d)
		if c.Kind == aggexpr.Unrecognized {
			continue
		}
		opts = append(opts, c.Option())
	}
	if len(opts) == 0 {
		// Nothing classified: keep the previous column list.
		res.Found &^= ClauseDistinct
		res.State.Distinct = false
		return
	}
	res.State.Columns = opts
	res.Found |= ClauseColumns
}

// parseWhere splits the WHERE body on top-level AND/OR and matches each
// segment against `column operator [value [AND value2]]`. Multi-word
// operators are recognized before the single- and double-character forms.
// A segment whose column is not a known column is preserved as an opaque
// raw condition rather than silently dropped, so the two directions treat
// unknown content the same way the column list does.
func parseWhere(res *Result, body string, present bool, columns map[string]struct{}) {
	if !present || body == "" {
		if res.Has(ClauseTable) && !present {
			res.Found |= ClauseWhere
		}
		return
	}

	var conds []querystate.WhereCondition
	for i, seg := range splitConditions(body) {
		logical := querystate.LogicalNone
		if i > 0 {
			logical = querystate.LogicalOp(seg.logical)
		}
		cond, ok := parseCondition(seg.text, columns)
		if !ok {
			cond = querystate.WhereCondition{Raw: seg.text}
		}
		cond.Logical = logical
		conds = append(conds, cond)
	}
	if len(conds) == 0 {
		return
	}
	res.State.Where = conds
	res.Found |= ClauseWhere
}

// whereOperator matches an operator at the head of the token stream,
// longest (multi-word) forms first. It returns the operator and how many
// tokens it consumed.
func whereOperator(tokens []string) (querystate.CompareOp, int) {
	upper := func(i int) string {
		if i < len(tokens) {
			return strings.ToUpper(tokens[i])
		}
		return ""
	}
	if upper(0) == "IS" {
		if upper(1) == "NOT" && upper(2) == "NULL" {
			return querystate.OpIsNotNull, 3
		}
		if upper(1) == "NULL" {
			return querystate.OpIsNull, 2
		}
		return querystate.OpNone, 0
	}
	switch upper(0) {
	case "BETWEEN":
		return querystate.OpBetween, 1
	case "LIKE":
		return querystate.OpLike, 1
	case "=":
		return querystate.OpEqual, 1
	case "!=", "<>":
		return querystate.OpNotEqual, 1
	case ">=":
		return querystate.OpGreaterEq, 1
	case "<=":
		return querystate.OpLessEq, 1
	case ">":
		return querystate.OpGreater, 1
	case "<":
		return querystate.OpLess, 1
	}
	return querystate.OpNone, 0
}

func parseCondition(segment string, columns map[string]struct{}) (querystate.WhereCondition, bool) {
	tokens := tokenize(segment)
	if len(tokens) == 0 {
		return querystate.WhereCondition{}, false
	}
	col := sqlquote.StripQuotes(tokens[0])
	if _, known := columns[col]; !known {
		return querystate.WhereCondition{}, false
	}
	cond := querystate.WhereCondition{
		Column: &querystate.SelectOption{Value: col, Label: col},
	}
	if len(tokens) == 1 {
		return cond, true
	}

	op, consumed := whereOperator(tokens[1:])
	if op == querystate.OpNone {
		return querystate.WhereCondition{}, false
	}
	cond.Operator = op
	rest := tokens[1+consumed:]

	if !op.TakesValue() || len(rest) == 0 {
		return cond, true
	}
	cond.Value = literalOption(rest[0])
	if op.TakesSecondValue() {
		// BETWEEN keeps its first bound even when the second is still
		// missing, so the UI can prompt for completion.
		if len(rest) >= 3 && strings.EqualFold(rest[1], "AND") {
			cond.Value2 = literalOption(rest[2])
		}
	}
	return cond, true
}

func literalOption(tok string) *querystate.SelectOption {
	v := sqlquote.StripQuotes(tok)
	return &querystate.SelectOption{Value: v, Label: v}
}

func parseGroupBy(res *Result, body string, present bool, columns map[string]struct{}) {
	if !present || body == "" {
		if res.Has(ClauseTable) && !present {
			res.Found |= ClauseGroupBy
		}
		return
	}
	var opts []querystate.SelectOption
	for _, tok := range splitTopLevel(body, ',') {
		name := sqlquote.StripQuotes(strings.TrimSpace(tok))
		if _, known := columns[name]; !known {
			continue
		}
		opts = append(opts, querystate.SelectOption{Value: name, Label: name})
	}
	if len(opts) == 0 {
		return
	}
	res.State.GroupBy = opts
	res.Found |= ClauseGroupBy
}

// parseHaving matches a single `aggregate operator [value]` condition,
// reusing the recognizer (and its dialect gate) for the aggregate head.
func parseHaving(res *Result, body string, present bool, columns map[string]struct{}, d querystate.Dialect) {
	if !present || body == "" {
		if res.Has(ClauseTable) && !present {
			res.Found |= ClauseHaving
		}
		return
	}
	tokens := tokenize(body)
	if len(tokens) == 0 {
		return
	}
	c := aggexpr.Classify(tokens[0], columns, d)
	switch c.Kind {
	case aggexpr.CountStar, aggexpr.Aggregate, aggexpr.NestedRound:
	default:
		return
	}
	opt := c.Option()
	cond := querystate.HavingCondition{AggregateColumn: &opt}

	if len(tokens) > 1 {
		op, consumed := comparisonOperator(tokens[1])
		if op == querystate.OpNone {
			return
		}
		cond.Operator = op
		if rest := tokens[1+consumed:]; len(rest) > 0 {
			cond.Value = literalOption(rest[0])
		}
	}
	res.State.Having = []querystate.HavingCondition{cond}
	res.Found |= ClauseHaving
}

// comparisonOperator admits only the plain comparison forms HAVING uses.
func comparisonOperator(tok string) (querystate.CompareOp, int) {
	switch tok {
	case "=":
		return querystate.OpEqual, 1
	case "!=", "<>":
		return querystate.OpNotEqual, 1
	case ">=":
		return querystate.OpGreaterEq, 1
	case "<=":
		return querystate.OpLessEq, 1
	case ">":
		return querystate.OpGreater, 1
	case "<":
		return querystate.OpLess, 1
	}
	return querystate.OpNone, 0
}

func parseOrderBy(res *Result, body string, present bool, columns map[string]struct{}) {
	if !present || body == "" {
		if res.Has(ClauseTable) && !present {
			res.Found |= ClauseOrderBy
		}
		return
	}
	tokens := tokenize(body)
	if len(tokens) == 0 {
		return
	}
	col := sqlquote.StripQuotes(tokens[0])
	if _, known := columns[col]; !known {
		return
	}
	clause := querystate.OrderByClause{
		Column: &querystate.SelectOption{Value: col, Label: col},
	}
	if len(tokens) > 1 {
		switch strings.ToUpper(tokens[1]) {
		case "ASC":
			clause.Direction = querystate.SortAsc
		case "DESC":
			clause.Direction = querystate.SortDesc
		}
	}
	res.State.OrderBy = &clause
	res.Found |= ClauseOrderBy
}

// parseLimit reads a bare non-negative integer. Anything else falls back
// to "no limit" — the clause is still considered recovered, per the
// fall-back rule, so a garbled LIMIT clears rather than resurrects one.
func parseLimit(res *Result, body string, present bool) {
	if !present {
		if res.Has(ClauseTable) {
			res.Found |= ClauseLimit
		}
		return
	}
	res.Found |= ClauseLimit
	tokens := tokenize(body)
	if len(tokens) == 0 {
		return
	}
	n, err := strconv.Atoi(tokens[0])
	if err != nil || n < 0 {
		return
	}
	res.State.Limit = &n
}

// cutLeadingKeyword strips a leading word-bounded keyword.
func cutLeadingKeyword(s, kw string) (string, bool) {
	if len(s) < len(kw) || !strings.EqualFold(s[:len(kw)], kw) {
		return s, false
	}
	if len(s) == len(kw) {
		return "", true
	}
	if isWordChar(s[len(kw)]) {
		return s, false
	}
	return strings.TrimSpace(s[len(kw):]), true
}
