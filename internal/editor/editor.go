// Package editor coordinates the two sync directions for one query tab.
//
// The controller is the only stateful piece of the engine. Structured
// edits flow through the generator and publish fresh text; text edits flow
// through the parser and publish a merged state. The editingViaText flag
// tells the host which direction drove the last change, so it can decide
// whether to refresh column and unique-value lookups — the flag has no
// effect on the pure generate/parse functions themselves.
package editor

import (
	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
	"github.com/alvinwquach/sculptql-sub000/internal/schema"
	"github.com/alvinwquach/sculptql-sub000/internal/sqlgen"
	"github.com/alvinwquach/sculptql-sub000/internal/sqlparse"
)

// CatalogFunc returns the current known-schema catalog. The controller
// calls it on every text edit rather than caching a copy, so manual edits
// always resolve against the freshest schema the host has.
type CatalogFunc func() *schema.Catalog

// Controller owns the QueryState of a single query tab.
type Controller struct {
	state   querystate.QueryState
	catalog CatalogFunc
	dialect querystate.Dialect

	editingViaText bool

	// onText and onState receive the published artifacts of each edit.
	// Either may be nil.
	onText  func(string)
	onState func(querystate.QueryState)
}

// Option configures a Controller.
type Option func(*Controller)

// WithTextHook registers the text publish hook.
func WithTextHook(fn func(string)) Option {
	return func(c *Controller) { c.onText = fn }
}

// WithStateHook registers the state publish hook.
func WithStateHook(fn func(querystate.QueryState)) Option {
	return func(c *Controller) { c.onState = fn }
}

// New creates a controller with an empty state.
func New(catalog CatalogFunc, dialect querystate.Dialect, opts ...Option) *Controller {
	c := &Controller{catalog: catalog, dialect: dialect}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() querystate.QueryState { return c.state.Clone() }

// Text returns the current SQL text.
func (c *Controller) Text() string { return c.state.RawText }

// EditingViaText reports whether the last edit came in through the text
// surface.
func (c *Controller) EditingViaText() bool { return c.editingViaText }

// StructuredEdit replaces the state from the visual controls, regenerates
// the SQL text, and publishes both.
func (c *Controller) StructuredEdit(next querystate.QueryState) {
	c.editingViaText = false
	next.RawText = sqlgen.Render(next, c.dialect)
	c.state = next
	// Text first, then state. The host applies the text update without
	// feeding it back through TextEdit — that is what keeps a
	// state-triggered regeneration from re-parsing itself and
	// overwriting the state that produced it.
	if c.onText != nil {
		c.onText(c.state.RawText)
	}
	c.publishState()
}

// TextEdit re-parses the full statement and merges the recovered clauses
// over the previous state: clauses the parser recovered, including ones it
// recovered as deliberately empty, replace their fields; clauses it could
// not make sense of keep their previous values. A table-less or empty
// statement clears every dependent field.
func (c *Controller) TextEdit(text string) {
	c.editingViaText = true
	res := sqlparse.Parse(text, c.catalog(), c.dialect)

	if res.Reset {
		c.state.ResetDependents()
		c.state.RawText = text
		c.publishState()
		return
	}

	merged := c.state.Clone()
	merged.Table = res.State.Table
	if res.Has(sqlparse.ClauseColumns) {
		merged.Columns = res.State.Columns
	}
	if res.Has(sqlparse.ClauseDistinct) {
		merged.Distinct = res.State.Distinct
	}
	if res.Has(sqlparse.ClauseWhere) {
		merged.Where = res.State.Where
	}
	if res.Has(sqlparse.ClauseGroupBy) {
		merged.GroupBy = res.State.GroupBy
	}
	if res.Has(sqlparse.ClauseHaving) {
		merged.Having = res.State.Having
	}
	if res.Has(sqlparse.ClauseOrderBy) {
		merged.OrderBy = res.State.OrderBy
	}
	if res.Has(sqlparse.ClauseLimit) {
		merged.Limit = res.State.Limit
	}
	merged.RawText = text

	c.state = merged
	c.publishState()
}

// Replace swaps in a whole state without regenerating text, used when the
// host switches tabs and restores a previously captured state.
func (c *Controller) Replace(st querystate.QueryState) {
	c.state = st.Clone()
}

func (c *Controller) publishState() {
	if c.onState != nil {
		c.onState(c.state.Clone())
	}
}
