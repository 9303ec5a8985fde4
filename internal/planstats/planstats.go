// Package planstats parses DuckDB EXPLAIN ANALYZE (FORMAT json) output
// into an operator tree and rolls up per-operator timing and cardinality.
package planstats

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Node is one operator in the physical plan tree.
type Node struct {
	Name        string  `json:"name"`
	Timing      float64 `json:"timing"`
	Cardinality int64   `json:"cardinality"`
	ExtraInfo   string  `json:"extraInfo,omitempty"`
	Children    []*Node `json:"children,omitempty"`
}

// OperatorTotal aggregates all occurrences of one operator type.
type OperatorTotal struct {
	Name        string  `json:"name"`
	Count       int     `json:"count"`
	Timing      float64 `json:"timing"`
	Cardinality int64   `json:"cardinality"`
}

// Summary is the rolled-up view of a plan.
type Summary struct {
	TotalTiming float64         `json:"totalTiming"`
	Operators   []OperatorTotal `json:"operators"`
	Tables      []string        `json:"tables"`
}

// rawNode mirrors the shape DuckDB emits. Older and newer versions
// disagree on key casing, so both spellings are tried.
type rawNode struct {
	Name            string          `json:"name"`
	OperatorName    string          `json:"operator_name"`
	Timing          float64         `json:"timing"`
	OperatorTiming  float64         `json:"operator_timing"`
	Cardinality     int64           `json:"cardinality"`
	OperatorRows    int64           `json:"operator_cardinality"`
	ExtraInfo       json.RawMessage `json:"extra_info"`
	Children        []rawNode       `json:"children"`
}

// Parse decodes EXPLAIN ANALYZE json into a Node tree.
func Parse(data []byte) (*Node, error) {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode plan json: %w", err)
	}
	return convert(raw), nil
}

func convert(raw rawNode) *Node {
	n := &Node{
		Name:        firstNonEmpty(raw.OperatorName, raw.Name),
		Timing:      raw.Timing + raw.OperatorTiming,
		Cardinality: raw.Cardinality + raw.OperatorRows,
		ExtraInfo:   decodeExtraInfo(raw.ExtraInfo),
	}
	for _, child := range raw.Children {
		n.Children = append(n.Children, convert(child))
	}
	return n
}

// decodeExtraInfo flattens extra_info, which DuckDB emits either as a
// plain string or as a string map depending on version.
func decodeExtraInfo(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err == nil {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var parts []string
		for _, k := range keys {
			parts = append(parts, k+"="+m[k])
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Summarize walks the tree and totals timing and cardinality per
// operator type, plus the deduplicated scanned tables.
func Summarize(root *Node) Summary {
	if root == nil {
		return Summary{}
	}
	totals := make(map[string]*OperatorTotal)
	seen := make(map[string]bool)
	var tables []string
	walk(root, totals, seen, &tables)

	var sum Summary
	for _, t := range totals {
		sum.Operators = append(sum.Operators, *t)
		sum.TotalTiming += t.Timing
	}
	sort.Slice(sum.Operators, func(i, j int) bool {
		if sum.Operators[i].Timing != sum.Operators[j].Timing {
			return sum.Operators[i].Timing > sum.Operators[j].Timing
		}
		return sum.Operators[i].Name < sum.Operators[j].Name
	})
	sum.Tables = tables
	return sum
}

func walk(n *Node, totals map[string]*OperatorTotal, seen map[string]bool, tables *[]string) {
	if n == nil {
		return
	}
	name := strings.TrimSpace(n.Name)
	if name != "" {
		t, ok := totals[name]
		if !ok {
			t = &OperatorTotal{Name: name}
			totals[name] = t
		}
		t.Count++
		t.Timing += n.Timing
		t.Cardinality += n.Cardinality
	}
	if table := scannedTable(n); table != "" && !seen[table] {
		seen[table] = true
		*tables = append(*tables, table)
	}
	for _, child := range n.Children {
		walk(child, totals, seen, tables)
	}
}

// scannedTable pulls the table name out of a scan operator's extra info.
// DuckDB reports scans as SEQ_SCAN / TABLE_SCAN with the table name as
// the first extra_info line or a Table= entry.
func scannedTable(n *Node) string {
	upper := strings.ToUpper(n.Name)
	if !strings.Contains(upper, "SCAN") {
		return ""
	}
	info := n.ExtraInfo
	if info == "" {
		return ""
	}
	if idx := strings.Index(info, "Table="); idx >= 0 {
		rest := info[idx+len("Table="):]
		if cut := strings.IndexAny(rest, " \n"); cut >= 0 {
			rest = rest[:cut]
		}
		return rest
	}
	if cut := strings.IndexAny(info, " \n"); cut >= 0 {
		return info[:cut]
	}
	return info
}
