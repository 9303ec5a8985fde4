// Package querystate defines the structured representation of a SELECT
// statement that the visual builder edits. The types here are plain data:
// the generator renders them to SQL text and the parser recovers them from
// SQL text, but the state itself carries no behavior beyond copying.
package querystate

// SelectOption is an identifier reference: a SQL fragment plus its
// presentation label. Options are immutable value objects — the recognizer
// or the UI mints them, and edits replace them wholesale.
type SelectOption struct {
	// Value is the literal SQL fragment to emit, e.g. "id" or "SUM(price)".
	Value string `json:"value"`
	// Label is the presentation text shown in the UI.
	Label string `json:"label"`
	// Aggregate marks the option as non-groupable.
	Aggregate bool `json:"isAggregate,omitempty"`
	// SourceColumn records which physical column an aggregate wraps,
	// used to validate GROUP BY compatibility.
	SourceColumn string `json:"sourceColumn,omitempty"`
}

// Wildcard is the canonical "all columns" option.
func Wildcard() SelectOption {
	return SelectOption{Value: "*", Label: "All Columns (*)"}
}

// IsWildcard reports whether the option selects all columns.
func (o SelectOption) IsWildcard() bool { return o.Value == "*" }

// CompareOp is a comparison operator usable in WHERE, HAVING, and CASE
// conditions. The zero value means "not chosen yet".
type CompareOp string

const (
	OpNone      CompareOp = ""
	OpEqual     CompareOp = "="
	OpNotEqual  CompareOp = "!="
	OpLess      CompareOp = "<"
	OpGreater   CompareOp = ">"
	OpLessEq    CompareOp = "<="
	OpGreaterEq CompareOp = ">="
	OpLike      CompareOp = "LIKE"
	OpBetween   CompareOp = "BETWEEN"
	OpIsNull    CompareOp = "IS NULL"
	OpIsNotNull CompareOp = "IS NOT NULL"
)

// TakesValue reports whether the operator compares against a value.
// IS NULL and IS NOT NULL are complete without one.
func (op CompareOp) TakesValue() bool {
	switch op {
	case OpNone, OpIsNull, OpIsNotNull:
		return false
	}
	return true
}

// TakesSecondValue reports whether the operator needs a second bound.
func (op CompareOp) TakesSecondValue() bool { return op == OpBetween }

// LogicalOp joins consecutive WHERE conditions. Only meaningful on
// conditions after the first.
type LogicalOp string

const (
	LogicalNone LogicalOp = ""
	LogicalAnd  LogicalOp = "AND"
	LogicalOr   LogicalOp = "OR"
)

// WhereCondition is a single predicate in the WHERE clause.
//
// Invariants: Value2 is set only when Operator is BETWEEN; Value is unset
// when Operator is IS NULL or IS NOT NULL. Conditions without a column are
// placeholders the UI may hold transiently; they are never emitted.
//
// Raw, when non-empty, holds a predicate the parser could not resolve
// against the known columns. It is preserved verbatim so a text edit never
// destroys user content, and the generator echoes it back unchanged.
type WhereCondition struct {
	Column   *SelectOption `json:"column,omitempty"`
	Operator CompareOp     `json:"operator,omitempty"`
	Value    *SelectOption `json:"value,omitempty"`
	Value2   *SelectOption `json:"value2,omitempty"`
	Logical  LogicalOp     `json:"logicalOperator,omitempty"`
	Raw      string        `json:"raw,omitempty"`
}

// Empty reports whether the condition carries nothing emittable.
func (c WhereCondition) Empty() bool { return c.Column == nil && c.Raw == "" }

// HavingCondition filters grouped rows. AggregateColumn must be an
// aggregate-flagged option.
type HavingCondition struct {
	AggregateColumn *SelectOption `json:"aggregateColumn,omitempty"`
	Operator        CompareOp     `json:"operator,omitempty"`
	Value           *SelectOption `json:"value,omitempty"`
}

// SortDirection orders the result set. The zero value leaves the
// direction unspecified.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// OrderByClause names the single sort column and its direction.
type OrderByClause struct {
	Column    *SelectOption `json:"column,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// JoinType is the kind of JOIN emitted.
type JoinType string

const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinCross JoinType = "CROSS"
)

// JoinClause joins an additional table. OnColumn1/OnColumn2 are required
// unless Type is CROSS.
type JoinClause struct {
	Type      JoinType      `json:"joinType"`
	Table     string        `json:"table"`
	OnColumn1 *SelectOption `json:"onColumn1,omitempty"`
	OnColumn2 *SelectOption `json:"onColumn2,omitempty"`
}

// UnionType distinguishes UNION from UNION ALL.
type UnionType string

const (
	UnionDistinct UnionType = "UNION"
	UnionAll      UnionType = "UNION ALL"
)

// UnionClause appends a set operation reusing the primary column list.
type UnionClause struct {
	Table string    `json:"table"`
	Type  UnionType `json:"unionType"`
}

// CteClause is a self-contained, non-recursive mini query-state emitted
// in the WITH prologue. Sub-structures nest one level deep only.
type CteClause struct {
	Alias     string            `json:"alias"`
	FromTable string            `json:"fromTable"`
	Columns   []SelectOption    `json:"selectedColumns,omitempty"`
	Where     []WhereCondition  `json:"whereClause,omitempty"`
	GroupBy   []SelectOption    `json:"groupByColumns,omitempty"`
	Having    []HavingCondition `json:"havingClause,omitempty"`
}

// CaseCondition is one WHEN/THEN arm of a CASE expression.
type CaseCondition struct {
	Column   *SelectOption `json:"column,omitempty"`
	Operator CompareOp     `json:"operator,omitempty"`
	Value    *SelectOption `json:"value,omitempty"`
	Result   *SelectOption `json:"result,omitempty"`
}

// CaseClause is a CASE expression appended to the column list.
type CaseClause struct {
	Conditions []CaseCondition `json:"conditions,omitempty"`
	Else       *SelectOption   `json:"elseValue,omitempty"`
	Alias      string          `json:"alias,omitempty"`
}

// QueryState is the root structured representation of one SELECT
// statement. Each open query tab owns exactly one QueryState; switching
// tabs swaps the whole object rather than mutating shared memory.
//
// RawText is a valid rendering of the other fields immediately after a
// structured edit, but may diverge arbitrarily after a manual text edit.
type QueryState struct {
	Table    string            `json:"table,omitempty"`
	Columns  []SelectOption    `json:"columns,omitempty"`
	Distinct bool              `json:"isDistinct,omitempty"`
	Where    []WhereCondition  `json:"whereClause,omitempty"`
	GroupBy  []SelectOption    `json:"groupByColumns,omitempty"`
	Having   []HavingCondition `json:"havingClause,omitempty"`
	OrderBy  *OrderByClause    `json:"orderByClause,omitempty"`
	Limit    *int              `json:"limit,omitempty"`
	Joins    []JoinClause      `json:"joinClauses,omitempty"`
	Unions   []UnionClause     `json:"unionClauses,omitempty"`
	CTEs     []CteClause       `json:"cteClauses,omitempty"`
	Case     *CaseClause       `json:"caseClause,omitempty"`
	RawText  string            `json:"rawText,omitempty"`
}

// ResetDependents clears every field that is meaningless without a table
// reference. RawText is left alone — user text is never destroyed here.
func (s *QueryState) ResetDependents() {
	s.Table = ""
	s.Columns = nil
	s.Distinct = false
	s.Where = nil
	s.GroupBy = nil
	s.Having = nil
	s.OrderBy = nil
	s.Limit = nil
	s.Joins = nil
	s.Unions = nil
	s.CTEs = nil
	s.Case = nil
}

// Clone returns a deep copy. The controller hands clones to its publish
// hooks so downstream holders can never alias the live state.
func (s QueryState) Clone() QueryState {
	out := s
	out.Columns = cloneOptions(s.Columns)
	out.Where = cloneWhere(s.Where)
	out.GroupBy = cloneOptions(s.GroupBy)
	out.Having = cloneHaving(s.Having)
	if s.OrderBy != nil {
		ob := OrderByClause{Column: cloneOption(s.OrderBy.Column), Direction: s.OrderBy.Direction}
		out.OrderBy = &ob
	}
	if s.Limit != nil {
		n := *s.Limit
		out.Limit = &n
	}
	if s.Joins != nil {
		out.Joins = make([]JoinClause, len(s.Joins))
		for i, j := range s.Joins {
			out.Joins[i] = JoinClause{
				Type:      j.Type,
				Table:     j.Table,
				OnColumn1: cloneOption(j.OnColumn1),
				OnColumn2: cloneOption(j.OnColumn2),
			}
		}
	}
	if s.Unions != nil {
		out.Unions = append([]UnionClause(nil), s.Unions...)
	}
	if s.CTEs != nil {
		out.CTEs = make([]CteClause, len(s.CTEs))
		for i, c := range s.CTEs {
			out.CTEs[i] = CteClause{
				Alias:     c.Alias,
				FromTable: c.FromTable,
				Columns:   cloneOptions(c.Columns),
				Where:     cloneWhere(c.Where),
				GroupBy:   cloneOptions(c.GroupBy),
				Having:    cloneHaving(c.Having),
			}
		}
	}
	if s.Case != nil {
		cc := CaseClause{Alias: s.Case.Alias, Else: cloneOption(s.Case.Else)}
		if s.Case.Conditions != nil {
			cc.Conditions = make([]CaseCondition, len(s.Case.Conditions))
			for i, c := range s.Case.Conditions {
				cc.Conditions[i] = CaseCondition{
					Column:   cloneOption(c.Column),
					Operator: c.Operator,
					Value:    cloneOption(c.Value),
					Result:   cloneOption(c.Result),
				}
			}
		}
		out.Case = &cc
	}
	return out
}

func cloneOption(o *SelectOption) *SelectOption {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}

func cloneOptions(opts []SelectOption) []SelectOption {
	if opts == nil {
		return nil
	}
	return append([]SelectOption(nil), opts...)
}

func cloneWhere(conds []WhereCondition) []WhereCondition {
	if conds == nil {
		return nil
	}
	out := make([]WhereCondition, len(conds))
	for i, c := range conds {
		out[i] = WhereCondition{
			Column:   cloneOption(c.Column),
			Operator: c.Operator,
			Value:    cloneOption(c.Value),
			Value2:   cloneOption(c.Value2),
			Logical:  c.Logical,
			Raw:      c.Raw,
		}
	}
	return out
}

func cloneHaving(conds []HavingCondition) []HavingCondition {
	if conds == nil {
		return nil
	}
	out := make([]HavingCondition, len(conds))
	for i, c := range conds {
		out[i] = HavingCondition{
			AggregateColumn: cloneOption(c.AggregateColumn),
			Operator:        c.Operator,
			Value:           cloneOption(c.Value),
		}
	}
	return out
}
