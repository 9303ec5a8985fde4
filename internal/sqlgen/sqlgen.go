// Package sqlgen renders a QueryState to canonical SQL text.
//
// Render is deterministic and total: it never fails, and a clause whose
// required sub-fields are missing is emitted up to its last complete token
// so the output stays a syntactically valid prefix. That matches the
// mid-edit behavior the builder needs — the user picks a column before an
// operator, an operator before a value, and every intermediate state still
// renders.
package sqlgen

import (
	"strconv"
	"strings"

	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
	"github.com/alvinwquach/sculptql-sub000/internal/sqlquote"
)

// Render serializes the state's clauses in fixed order: WITH, SELECT
// [DISTINCT], column list (CASE appended), FROM, JOINs, WHERE, GROUP BY,
// HAVING, ORDER BY, LIMIT, UNIONs. The statement is closed with ";" once
// it contains at least one of FROM/WHERE/GROUP BY/HAVING/ORDER BY/LIMIT;
// otherwise it ends with a trailing space so further structured edits can
// keep appending clauses textually.
func Render(st querystate.QueryState, d querystate.Dialect) string {
	var b strings.Builder
	terminal := false

	if with := renderCTEs(st.CTEs, d); with != "" {
		b.WriteString(with)
		b.WriteByte(' ')
	}

	b.WriteString("SELECT ")
	if st.Distinct {
		b.WriteString("DISTINCT ")
	}
	cols := renderColumnList(st.Columns)
	b.WriteString(cols)
	if cs := renderCase(st.Case); cs != "" {
		if cols != "" {
			b.WriteString(", ")
		}
		b.WriteString(cs)
	}

	if st.Table != "" {
		b.WriteString(" FROM ")
		b.WriteString(sqlquote.QuoteIdentifier(st.Table))
		terminal = true

		for _, j := range st.Joins {
			if join := renderJoin(j); join != "" {
				b.WriteByte(' ')
				b.WriteString(join)
			}
		}
	}

	if where := renderConditions(st.Where); where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
		terminal = true
	}

	if group := renderGroupBy(st.GroupBy); group != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(group)
		terminal = true
	}

	if having := renderHaving(st.Having); having != "" {
		b.WriteString(" HAVING ")
		b.WriteString(having)
		terminal = true
	}

	if st.OrderBy != nil && st.OrderBy.Column != nil && st.OrderBy.Column.Value != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(sqlquote.QuoteIdentifier(st.OrderBy.Column.Value))
		if st.OrderBy.Direction != querystate.SortNone {
			b.WriteByte(' ')
			b.WriteString(string(st.OrderBy.Direction))
		}
		terminal = true
	}

	if st.Limit != nil && *st.Limit >= 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(*st.Limit))
		terminal = true
	}

	if st.Table != "" {
		for _, u := range st.Unions {
			if u.Table == "" {
				continue
			}
			kind := u.Type
			if kind == "" {
				kind = querystate.UnionDistinct
			}
			b.WriteByte(' ')
			b.WriteString(string(kind))
			b.WriteString(" SELECT ")
			b.WriteString(cols)
			b.WriteString(" FROM ")
			b.WriteString(sqlquote.QuoteIdentifier(u.Table))
		}
	}

	if terminal {
		b.WriteByte(';')
		return b.String()
	}
	return b.String() + " "
}

// renderColumnList emits the SELECT projection. An empty list, or one
// holding only the wildcard option, collapses to "*".
func renderColumnList(columns []querystate.SelectOption) string {
	var parts []string
	for _, opt := range columns {
		if s := renderOption(opt); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, ", ")
}

// renderOption emits one identifier reference. Aggregates and anything
// already shaped like a call pass through verbatim; plain column names go
// through the quoting policy.
func renderOption(opt querystate.SelectOption) string {
	if opt.Value == "" {
		return ""
	}
	if opt.IsWildcard() {
		return "*"
	}
	if opt.Aggregate || strings.ContainsRune(opt.Value, '(') {
		return opt.Value
	}
	return sqlquote.QuoteIdentifier(opt.Value)
}

func renderConditions(conds []querystate.WhereCondition) string {
	var b strings.Builder
	for _, c := range conds {
		s := renderCondition(c)
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			op := c.Logical
			if op == querystate.LogicalNone {
				op = querystate.LogicalAnd
			}
			b.WriteByte(' ')
			b.WriteString(string(op))
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return b.String()
}

func renderCondition(c querystate.WhereCondition) string {
	if c.Raw != "" {
		return c.Raw
	}
	if c.Column == nil || c.Column.Value == "" {
		return ""
	}
	out := sqlquote.QuoteIdentifier(c.Column.Value)
	if c.Operator == querystate.OpNone {
		return out
	}
	out += " " + string(c.Operator)
	if !c.Operator.TakesValue() {
		// IS NULL / IS NOT NULL never render a value, even if one is
		// still sitting in state from a previous operator choice.
		return out
	}
	v := optionLiteral(c.Value)
	if v == "" {
		return out
	}
	out += " " + v
	if c.Operator.TakesSecondValue() {
		if v2 := optionLiteral(c.Value2); v2 != "" {
			out += " AND " + v2
		}
	}
	return out
}

// optionLiteral renders a comparison value, quoting it as a literal only
// when the quoting policy says its content needs it.
func optionLiteral(opt *querystate.SelectOption) string {
	if opt == nil {
		return ""
	}
	v := strings.TrimSpace(opt.Value)
	if v == "" {
		return ""
	}
	if sqlquote.NeedsQuoting(v) {
		return sqlquote.QuoteLiteral(v)
	}
	return v
}

func renderGroupBy(groupBy []querystate.SelectOption) string {
	var parts []string
	for _, opt := range groupBy {
		if opt.Value == "" {
			continue
		}
		parts = append(parts, sqlquote.QuoteIdentifier(opt.Value))
	}
	return strings.Join(parts, ", ")
}

func renderHaving(conds []querystate.HavingCondition) string {
	var parts []string
	for _, c := range conds {
		if c.AggregateColumn == nil || c.AggregateColumn.Value == "" {
			continue
		}
		s := c.AggregateColumn.Value
		if c.Operator != querystate.OpNone {
			s += " " + string(c.Operator)
			if v := optionLiteral(c.Value); v != "" && c.Operator.TakesValue() {
				s += " " + v
			}
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " AND ")
}

func renderJoin(j querystate.JoinClause) string {
	if j.Table == "" {
		return ""
	}
	kind := j.Type
	if kind == "" {
		kind = querystate.JoinInner
	}
	out := string(kind) + " JOIN " + sqlquote.QuoteIdentifier(j.Table)
	if kind == querystate.JoinCross {
		return out
	}
	if j.OnColumn1 == nil || j.OnColumn1.Value == "" {
		return out
	}
	out += " ON " + sqlquote.QuoteIdentifier(j.OnColumn1.Value)
	if j.OnColumn2 == nil || j.OnColumn2.Value == "" {
		return out
	}
	return out + " = " + sqlquote.QuoteIdentifier(j.OnColumn2.Value)
}

// renderCase emits the CASE expression appended to the column list. Only
// complete WHEN arms (column, operator, and result, with a value where the
// operator takes one) are rendered.
func renderCase(c *querystate.CaseClause) string {
	if c == nil {
		return ""
	}
	var arms []string
	for _, cond := range c.Conditions {
		if cond.Column == nil || cond.Operator == querystate.OpNone || cond.Result == nil {
			continue
		}
		when := sqlquote.QuoteIdentifier(cond.Column.Value) + " " + string(cond.Operator)
		if cond.Operator.TakesValue() {
			v := optionLiteral(cond.Value)
			if v == "" {
				continue
			}
			when += " " + v
		}
		arms = append(arms, "WHEN "+when+" THEN "+optionLiteral(cond.Result))
	}
	if len(arms) == 0 {
		return ""
	}
	out := "CASE " + strings.Join(arms, " ")
	if e := optionLiteral(c.Else); e != "" {
		out += " ELSE " + e
	}
	out += " END"
	if c.Alias != "" {
		out += " AS " + sqlquote.QuoteIdentifier(c.Alias)
	}
	return out
}

// renderCTEs emits the WITH prologue. CTE bodies are rendered with the
// same clause helpers as the main statement, one level deep — CteClause
// cannot nest further by construction.
func renderCTEs(ctes []querystate.CteClause, d querystate.Dialect) string {
	var parts []string
	for _, cte := range ctes {
		if cte.Alias == "" || cte.FromTable == "" {
			continue
		}
		var b strings.Builder
		b.WriteString(sqlquote.QuoteIdentifier(cte.Alias))
		b.WriteString(" AS (SELECT ")
		b.WriteString(renderColumnList(cte.Columns))
		b.WriteString(" FROM ")
		b.WriteString(sqlquote.QuoteIdentifier(cte.FromTable))
		if where := renderConditions(cte.Where); where != "" {
			b.WriteString(" WHERE ")
			b.WriteString(where)
		}
		if group := renderGroupBy(cte.GroupBy); group != "" {
			b.WriteString(" GROUP BY ")
			b.WriteString(group)
		}
		if having := renderHaving(cte.Having); having != "" {
			b.WriteString(" HAVING ")
			b.WriteString(having)
		}
		b.WriteByte(')')
		parts = append(parts, b.String())
	}
	if len(parts) == 0 {
		return ""
	}
	return "WITH " + strings.Join(parts, ", ")
}
