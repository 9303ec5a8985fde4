package aggexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
)

func cols(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

func TestClassify_Wildcard(t *testing.T) {
	c := Classify("*", cols("id"), querystate.Postgres)
	assert.Equal(t, Wildcard, c.Kind)
}

func TestClassify_PlainColumn(t *testing.T) {
	known := cols("id", "User Name")

	c := Classify("id", known, querystate.Postgres)
	assert.Equal(t, PlainColumn, c.Kind)
	assert.Equal(t, "id", c.Column)

	// Quoted identifiers resolve after quote stripping.
	c = Classify(`"User Name"`, known, querystate.Postgres)
	assert.Equal(t, PlainColumn, c.Kind)
	assert.Equal(t, "User Name", c.Column)
}

func TestClassify_ColumnMatchIsCaseSensitive(t *testing.T) {
	c := Classify("ID", cols("id"), querystate.Postgres)
	assert.Equal(t, Unrecognized, c.Kind)
	assert.Equal(t, "ID", c.Raw)
}

func TestClassify_CountStar(t *testing.T) {
	c := Classify("COUNT(*)", cols("id"), querystate.Postgres)
	assert.Equal(t, CountStar, c.Kind)

	c = Classify("count( * )", cols("id"), querystate.Postgres)
	assert.Equal(t, CountStar, c.Kind)
}

func TestClassify_Aggregate(t *testing.T) {
	known := cols("price")

	c := Classify("SUM(price)", known, querystate.Postgres)
	assert.Equal(t, Aggregate, c.Kind)
	assert.Equal(t, "SUM", c.Func)
	assert.Equal(t, "price", c.Column)
	assert.False(t, c.Distinct)

	// Function keywords are case-insensitive.
	c = Classify("avg( price )", known, querystate.Postgres)
	assert.Equal(t, Aggregate, c.Kind)
	assert.Equal(t, "AVG", c.Func)
}

func TestClassify_AggregateUnknownColumn(t *testing.T) {
	c := Classify("SUM(total)", cols("price"), querystate.Postgres)
	assert.Equal(t, Unrecognized, c.Kind)
}

func TestClassify_CountDistinctAlwaysAllowed(t *testing.T) {
	for _, d := range []querystate.Dialect{querystate.Postgres, querystate.MySQL, querystate.DuckDB} {
		c := Classify("COUNT(DISTINCT city)", cols("city"), d)
		assert.Equal(t, Aggregate, c.Kind, "dialect %s", d)
		assert.True(t, c.Distinct)
	}
}

func TestClassify_AggregateDistinctGatedByDialect(t *testing.T) {
	known := cols("price")

	c := Classify("SUM(DISTINCT price)", known, querystate.MySQL)
	assert.Equal(t, Aggregate, c.Kind)
	assert.True(t, c.Distinct)

	c = Classify("SUM(DISTINCT price)", known, querystate.DuckDB)
	assert.Equal(t, Aggregate, c.Kind)

	c = Classify("SUM(DISTINCT price)", known, querystate.Postgres)
	assert.Equal(t, Unrecognized, c.Kind)
}

func TestClassify_NestedRound(t *testing.T) {
	known := cols("price")

	c := Classify("ROUND(AVG(price), 2)", known, querystate.Postgres)
	assert.Equal(t, NestedRound, c.Kind)
	assert.Equal(t, "AVG", c.Func)
	assert.Equal(t, "price", c.Column)
	assert.True(t, c.HasDecimals)
	assert.Equal(t, 2, c.Decimals)

	// Decimals are optional.
	c = Classify("ROUND(SUM(price))", known, querystate.Postgres)
	assert.Equal(t, NestedRound, c.Kind)
	assert.False(t, c.HasDecimals)
}

func TestClassify_NestedRoundDistinctGate(t *testing.T) {
	known := cols("price")

	c := Classify("ROUND(AVG(DISTINCT price), 2)", known, querystate.MySQL)
	assert.Equal(t, NestedRound, c.Kind)
	assert.True(t, c.Distinct)

	c = Classify("ROUND(AVG(DISTINCT price), 2)", known, querystate.Postgres)
	assert.Equal(t, Unrecognized, c.Kind)
}

func TestClassify_PlainRound(t *testing.T) {
	c := Classify("ROUND(price, 2)", cols("price"), querystate.Postgres)
	assert.Equal(t, Aggregate, c.Kind)
	assert.Equal(t, "ROUND", c.Func)
	assert.True(t, c.HasDecimals)

	opt := c.Option()
	assert.Equal(t, "ROUND(price, 2)", opt.Value)
	assert.False(t, opt.Aggregate, "plain ROUND is groupable")
	assert.Equal(t, "price", opt.SourceColumn)
}

func TestClassify_Unrecognized(t *testing.T) {
	known := cols("price")
	for _, tok := range []string{
		"",
		"MEDIAN(price)",     // unsupported function
		"SUM(price",         // unbalanced parens
		"SUM(price, extra)", // non-numeric second arg
		"SUM()",
		"SUM(a, b, c)",
	} {
		c := Classify(tok, known, querystate.Postgres)
		assert.Equal(t, Unrecognized, c.Kind, "token %q", tok)
	}
}

func TestOption_CanonicalForms(t *testing.T) {
	known := cols("price", "city")

	opt := Classify("*", known, querystate.Postgres).Option()
	assert.Equal(t, querystate.Wildcard(), opt)

	opt = Classify("city", known, querystate.Postgres).Option()
	assert.Equal(t, querystate.SelectOption{Value: "city", Label: "city"}, opt)

	opt = Classify("COUNT(*)", known, querystate.Postgres).Option()
	assert.Equal(t, "COUNT(*)", opt.Value)
	assert.True(t, opt.Aggregate)

	opt = Classify("sum( price )", known, querystate.Postgres).Option()
	assert.Equal(t, "SUM(price)", opt.Value, "option value is normalized")
	assert.True(t, opt.Aggregate)
	assert.Equal(t, "price", opt.SourceColumn)

	opt = Classify("round(avg(DISTINCT price), 2)", known, querystate.MySQL).Option()
	assert.Equal(t, "ROUND(AVG(DISTINCT price), 2)", opt.Value)
	assert.True(t, opt.Aggregate)
}

// The same expression classified twice, in either direction's spelling,
// must mint the same option.
func TestOption_Stable(t *testing.T) {
	known := cols("price")
	a := Classify("SUM( price )", known, querystate.Postgres).Option()
	b := Classify(a.Value, known, querystate.Postgres).Option()
	assert.Equal(t, a, b)
}
