package rules_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pbiassist/internal/testutil"
	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
	_ "github.com/leapstack-labs/pbiassist/pkg/lint/rules"
	"github.com/leapstack-labs/pbiassist/pkg/vpax"
)

func check(t *testing.T, id string, data *core.ProcessedData, opts map[string]any) lint.Result {
	t.Helper()
	rule, ok := lint.GetByID(id)
	require.True(t, ok, "rule %s not registered", id)
	return rule.Check(data, opts)
}

func TestCatalogue(t *testing.T) {
	ids := make([]string, 0, lint.Count())
	for _, r := range lint.GetAll() {
		ids = append(ids, r.ID)
		assert.NotEmpty(t, r.Name, r.ID)
		assert.NotEmpty(t, r.Description, r.ID)
		assert.NotEmpty(t, r.Rationale, r.ID)
	}
	assert.Equal(t, []string{
		"DQ01", "DQ02", "EP01", "FM01", "MD01", "MD02", "MT01",
		"MT02", "NC01", "NC02", "PF01", "PF02", "RP01",
	}, ids)

	for _, cat := range core.AllCategories() {
		assert.NotEmpty(t, lint.GetByCategory(cat), "category %s has no rules", cat)
	}
}

func TestEmptyModelPassesEverything(t *testing.T) {
	result := lint.Analyze(&core.ProcessedData{})
	assert.Equal(t, 13, result.Overall.TotalRules)
	assert.Equal(t, 13, result.Overall.PassedRules)
	assert.Len(t, result.Categories, 8)
	assert.Equal(t, 100, result.Score())
}

func TestSampleExport(t *testing.T) {
	data, err := vpax.Extract(testutil.SampleExport(t))
	require.NoError(t, err)

	result := lint.Analyze(data)
	assert.Equal(t, lint.Totals{TotalRules: 13, PassedRules: 10, FailedRules: 3}, result.Overall)
	assert.Equal(t, 77, result.Score())

	var failed []string
	for _, f := range result.Failures() {
		failed = append(failed, f.Rule.ID)
	}
	assert.Equal(t, []string{"MT01", "MT02", "RP01"}, failed)

	res, _ := result.Result("RP01")
	assert.Equal(t, []string{"Table: Calendar"}, res.AffectedObjects)

	categories := make([]core.Category, 0, len(result.Categories))
	for _, c := range result.Categories {
		categories = append(categories, c.Category)
	}
	assert.Equal(t, core.AllCategories(), categories)
}

func TestSampleExport_RepeatedAnalysis(t *testing.T) {
	data, err := vpax.Extract(testutil.SampleExport(t))
	require.NoError(t, err)

	first := lint.Analyze(data)
	second := lint.Analyze(data)
	assert.Equal(t, first, second)
	assert.Equal(t, first.Score(), second.Score())

	again, err := vpax.Extract(testutil.SampleExport(t))
	require.NoError(t, err)
	assert.Equal(t, data, again)
	assert.Equal(t, first, lint.Analyze(again))
}

func TestGenericNames(t *testing.T) {
	tests := []struct {
		name   string
		data   *core.ProcessedData
		opts   map[string]any
		want   []string
		passed bool
	}{
		{
			name: "designer defaults",
			data: &core.ProcessedData{
				Tables:   []core.TableRecord{{Name: "Table"}, {Name: "table1"}, {Name: "Sales"}},
				Columns:  []core.ColumnRecord{{TableName: "Sales", ColumnName: "Column 2"}, {TableName: "Sales", ColumnName: "Amount"}},
				Measures: []core.MeasureRecord{{TableName: "Sales", MeasureName: "New Measure3"}},
			},
			want: []string{"Table: Table", "Table: table1", "Column: Sales[Column 2]", "Measure: Sales[New Measure3]"},
		},
		{
			name: "short names",
			data: &core.ProcessedData{Tables: []core.TableRecord{{Name: "ab"}, {Name: "abc"}}},
			want: []string{"Table: ab"},
		},
		{
			name: "min_length option",
			data: &core.ProcessedData{Tables: []core.TableRecord{{Name: "abc"}}},
			opts: map[string]any{"min_length": 5},
			want: []string{"Table: abc"},
		},
		{
			name:   "descriptive names",
			data:   &core.ProcessedData{Tables: []core.TableRecord{{Name: "Tables Overview"}, {Name: "New Customers"}}},
			want:   []string{},
			passed: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := check(t, "NC01", tt.data, tt.opts)
			assert.Equal(t, tt.passed, res.Passed)
			assert.Equal(t, tt.want, res.AffectedObjects)
		})
	}
}

func tables(names ...string) *core.ProcessedData {
	d := &core.ProcessedData{}
	for _, n := range names {
		d.Tables = append(d.Tables, core.TableRecord{Name: n})
	}
	return d
}

func TestTableNamingConsistency(t *testing.T) {
	tests := []struct {
		name string
		data *core.ProcessedData
		want []string
	}{
		{"pascal majority", tables("Sales", "Product", "Customer", "Date", "Region", "orders"), []string{"Table: orders"}},
		{"camel majority", tables("sales", "product", "Customer"), []string{"Table: Customer"}},
		{"tie goes to pascal", tables("sales", "Product"), []string{"Table: sales"}},
		{"only the first five are sampled", tables("Sales", "Product", "Customer", "date", "region", "orders", "items", "lines"),
			[]string{"Table: date", "Table: region", "Table: orders", "Table: items", "Table: lines"}},
		{"spaces break both conventions", tables("Sales", "Sales Targets"), []string{"Table: Sales Targets"}},
		{"no tables", tables(), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := check(t, "NC02", tt.data, nil)
			assert.Equal(t, tt.want, res.AffectedObjects)
			assert.Equal(t, len(tt.want) == 0, res.Passed)
		})
	}
}

func TestMeasureDocumentation(t *testing.T) {
	data := &core.ProcessedData{Measures: []core.MeasureRecord{
		{TableName: "Sales", MeasureName: "Total", Description: "Sum", DisplayFolder: "KPIs"},
		{TableName: "Sales", MeasureName: "Count", Description: "  "},
	}}

	res := check(t, "MT01", data, nil)
	assert.Equal(t, []string{"Measure: Sales[Count]"}, res.AffectedObjects)

	res = check(t, "MT02", data, nil)
	assert.Equal(t, []string{"Measure: Sales[Count]"}, res.AffectedObjects)
}

func TestComplexMeasures(t *testing.T) {
	data := &core.ProcessedData{Measures: []core.MeasureRecord{
		{TableName: "T", MeasureName: "Long", MeasureExpression: strings.Repeat("x", 501)},
		{TableName: "T", MeasureName: "Edge", MeasureExpression: strings.Repeat("x", 500)},
	}}

	res := check(t, "DQ01", data, nil)
	assert.False(t, res.Passed)
	require.Len(t, res.AffectedObjects, 1)
	assert.Contains(t, res.AffectedObjects[0], "Measure: T[Long]")

	res = check(t, "DQ01", data, map[string]any{"max_length": 1000})
	assert.True(t, res.Passed)
}

func TestNestedCalculate(t *testing.T) {
	expr := func(n int) string {
		return strings.Repeat("CALCULATE ( ", n) + "[x]" + strings.Repeat(")", n)
	}
	data := &core.ProcessedData{Measures: []core.MeasureRecord{
		{TableName: "T", MeasureName: "Four", MeasureExpression: expr(4)},
		{TableName: "T", MeasureName: "Three", MeasureExpression: strings.ToLower(expr(3))},
		{TableName: "T", MeasureName: "Table", MeasureExpression: strings.Repeat("CALCULATETABLE(", 5)},
	}}

	res := check(t, "DQ02", data, nil)
	require.Len(t, res.AffectedObjects, 1)
	assert.Contains(t, res.AffectedObjects[0], "Measure: T[Four]")

	res = check(t, "DQ02", data, map[string]any{"max_occurrences": 2})
	assert.Len(t, res.AffectedObjects, 2)

	res = check(t, "DQ02", data, map[string]any{"function": "CALCULATETABLE"})
	assert.Len(t, res.AffectedObjects, 1)
	assert.Contains(t, res.AffectedObjects[0], "Measure: T[Table]")
}

func relationships(n int) []core.RelationshipRecord {
	out := make([]core.RelationshipRecord, n)
	for i := range out {
		out[i] = core.RelationshipRecord{
			FromTableName:      "Fact",
			FromFullColumnName: fmt.Sprintf("Fact[K%d]", i),
			ToTableName:        fmt.Sprintf("Dim%d", i),
			ToFullColumnName:   fmt.Sprintf("Dim%d[K]", i),
			Cardinality:        "M-1-S",
		}
	}
	return out
}

func TestRelationshipCount(t *testing.T) {
	res := check(t, "MD01", &core.ProcessedData{Relationships: relationships(30)}, nil)
	assert.True(t, res.Passed)

	res = check(t, "MD01", &core.ProcessedData{Relationships: relationships(31)}, nil)
	assert.False(t, res.Passed)
	require.Len(t, res.AffectedObjects, 1)
	assert.Contains(t, res.AffectedObjects[0], "31")
	assert.Contains(t, res.AffectedObjects[0], "30")
}

func TestManyToMany(t *testing.T) {
	rels := relationships(3)
	rels[1].Cardinality = "M-M-B"
	rels[2].Cardinality = "1-M-S"

	res := check(t, "MD02", &core.ProcessedData{Relationships: rels}, nil)
	assert.Equal(t, []string{"Relationship: Fact[K1] -> Dim1[K] (M-M-B)"}, res.AffectedObjects)
}

func TestPercentageFormat(t *testing.T) {
	consistent := &core.ProcessedData{Measures: []core.MeasureRecord{
		{TableName: "T", MeasureName: "Margin %", FormatString: "0.0%"},
		{TableName: "T", MeasureName: "Growth Pct", FormatString: "0.0%"},
		{TableName: "T", MeasureName: "Revenue", FormatString: "#,0"},
	}}
	assert.True(t, check(t, "FM01", consistent, nil).Passed)

	mixed := &core.ProcessedData{Measures: []core.MeasureRecord{
		{TableName: "T", MeasureName: "Margin %", FormatString: "0.0%"},
		{TableName: "T", MeasureName: "Growth Percent", FormatString: "0.00%"},
		{TableName: "T", MeasureName: "Share PCT"},
		{TableName: "T", MeasureName: "Revenue", FormatString: "#,0"},
	}}
	res := check(t, "FM01", mixed, nil)
	assert.False(t, res.Passed)
	assert.Len(t, res.AffectedObjects, 3)
}

func TestHiddenTables(t *testing.T) {
	data := &core.ProcessedData{Tables: []core.TableRecord{{Name: "Visible"}, {Name: "Helper", IsHidden: true}}}
	res := check(t, "RP01", data, nil)
	assert.Equal(t, []string{"Table: Helper"}, res.AffectedObjects)
}

func TestHighCardinalityColumns(t *testing.T) {
	data := &core.ProcessedData{Columns: []core.ColumnRecord{
		{TableName: "Sales", ColumnName: "Amount", DataType: "Double", TotalSize: 2_000_000},
		{TableName: "Sales", ColumnName: "When", DataType: "DateTime", TotalSize: 1_000_000},
		{TableName: "Sales", ColumnName: "Key", DataType: "Int64", TotalSize: 9_000_000},
		{TableName: "Sales", ColumnName: "Price", DataType: "decimal", TotalSize: 1_000_001},
	}}

	res := check(t, "PF01", data, nil)
	assert.False(t, res.Passed)
	require.Len(t, res.AffectedObjects, 2)
	assert.Contains(t, res.AffectedObjects[0], "Column: Sales[Amount]")
	assert.Contains(t, res.AffectedObjects[1], "Column: Sales[Price]")
}

func TestQueryFolding(t *testing.T) {
	data := &core.ProcessedData{Expressions: []core.ExpressionRecord{
		{TableName: "A", Expression: `Value.NativeQuery(src, "select 1", null, [EnableFolding=false])`},
		{TableName: "B", Expression: `Value.NativeQuery(src, "select 1", null, [EnableFolding = TRUE])`},
		{TableName: "C", Expression: `Sql.Database("srv", "db")`},
		{TableName: "D"},
		{TableName: "E", Expression: `Value.NativeQuery(src, "select 1", null, [enableFolding=false])`},
		{TableName: "F", Expression: `Value.NativeQuery(src, "select 1", null, [ENABLEFOLDING = true])`},
	}}
	res := check(t, "PF02", data, nil)
	assert.Equal(t, []string{"Table: A", "Table: E"}, res.AffectedObjects)
}

func TestRelationshipTypeMismatch(t *testing.T) {
	data := &core.ProcessedData{
		Columns: []core.ColumnRecord{
			{TableName: "A", ColumnName: "X", DataType: "Integer"},
			{TableName: "B", ColumnName: "Y", DataType: "String"},
			{TableName: "C", ColumnName: "Z", DataType: "integer"},
		},
		Relationships: []core.RelationshipRecord{
			{FromTableName: "A", FromColumnName: "X", ToTableName: "B", ToColumnName: "Y"},
			{FromTableName: "A", FromColumnName: "X", ToTableName: "C", ToColumnName: "Z"},
			{FromTableName: "A", FromColumnName: "X", ToTableName: "Missing", ToColumnName: "Y"},
		},
	}

	res := check(t, "EP01", data, nil)
	assert.False(t, res.Passed)
	assert.Equal(t, []string{"Relationship: A[X] (Integer) -> B[Y] (String)"}, res.AffectedObjects)
}
