package dag

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pbiassist/pkg/core"
)

func sampleModel() *core.ProcessedData {
	return &core.ProcessedData{
		Columns: []core.ColumnRecord{
			{TableName: "Sales", ColumnName: "Amount"},
			{TableName: "Sales", ColumnName: "Qty"},
			{TableName: "Sales", ColumnName: "Line Total", ColumnExpression: "[Amount] * [Qty]"},
			{TableName: "Product", ColumnName: "Name"},
		},
		Measures: []core.MeasureRecord{
			{TableName: "Sales", MeasureName: "Total Sales", MeasureExpression: "SUM(Sales[Amount])"},
			{TableName: "Sales", MeasureName: "Total Qty", MeasureExpression: "SUM('Sales'[Qty])"},
			{TableName: "Sales", MeasureName: "Avg Price", MeasureExpression: "DIVIDE([Total Sales], [Total Qty]) // not [Amount]"},
			{TableName: "Product", MeasureName: "Label", MeasureExpression: `"Sales[Amount]" & SELECTEDVALUE(Product[Name])`},
			{TableName: "Product", MeasureName: "Big", MeasureExpression: "Product[Total Sales] * 2 + [Unknown]"},
		},
	}
}

func TestScanReferences(t *testing.T) {
	refs := ScanReferences(`'Sales ''Data'''[Amount] + Sales[Qty] + [M] + "[x]" /* [y] */`)
	assert.Equal(t, []Reference{
		{Table: "Sales 'Data'", Name: "Amount"},
		{Table: "Sales", Name: "Qty"},
		{Name: "M"},
	}, refs)
}

func TestBuildModelGraph(t *testing.T) {
	g := BuildModelGraph(sampleModel())

	assert.Equal(t, 9, g.NodeCount())
	assert.Equal(t, [][2]string{
		{"Product[Name]", "Product[Label]"},
		{"Sales[Amount]", "Sales[Line Total]"},
		{"Sales[Amount]", "Sales[Total Sales]"},
		{"Sales[Qty]", "Sales[Line Total]"},
		{"Sales[Qty]", "Sales[Total Qty]"},
		{"Sales[Total Qty]", "Sales[Avg Price]"},
		{"Sales[Total Sales]", "Product[Big]"},
		{"Sales[Total Sales]", "Sales[Avg Price]"},
	}, g.Edges())

	n, ok := g.GetNode("Sales[Line Total]")
	require.True(t, ok)
	assert.True(t, n.Object.Calculated)
	assert.Equal(t, KindColumn, n.Object.Kind)

	assert.Equal(t, []string{"Sales[Amount]", "Sales[Qty]", "Sales[Total Qty]", "Sales[Total Sales]"}, g.Upstream("Sales[Avg Price]", 0))
	assert.Nil(t, g.FindCycle())

	assert.Equal(t, 0, BuildModelGraph(nil).NodeCount())
}

func TestGraphFormats(t *testing.T) {
	g := BuildModelGraph(sampleModel())

	var dot bytes.Buffer
	require.NoError(t, g.Write(&dot, FormatDOT))
	assert.Contains(t, dot.String(), "digraph model {")
	assert.Contains(t, dot.String(), `"Sales[Amount]" -> "Sales[Total Sales]";`)
	assert.Contains(t, dot.String(), `"Sales[Total Sales]" [shape=ellipse];`)
	assert.Contains(t, dot.String(), `"Sales[Line Total]" [shape=box, style=dashed];`)

	var mermaid bytes.Buffer
	require.NoError(t, g.Write(&mermaid, FormatMermaid))
	assert.Contains(t, mermaid.String(), "flowchart LR\n")
	assert.Contains(t, mermaid.String(), `(["Sales[Total Sales]"])`)
	assert.Contains(t, mermaid.String(), " --> ")

	var raw bytes.Buffer
	require.NoError(t, g.Write(&raw, FormatJSON))
	var decoded JSONGraph
	require.NoError(t, json.Unmarshal(raw.Bytes(), &decoded))
	assert.Len(t, decoded.Nodes, 9)
	assert.Equal(t, JSONStats{Measures: 5, Columns: 4, Edges: 8}, decoded.Stats)

	_, err := ParseFormat("svg")
	assert.Error(t, err)
	f, err := ParseFormat("DOT")
	require.NoError(t, err)
	assert.Equal(t, FormatDOT, f)
}
