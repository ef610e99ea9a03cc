package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/pbiassist/pkg/core"
)

func TestModelSummary(t *testing.T) {
	var s core.ModelSummary
	s.Add(core.AttrModelName, "Sales")
	s.Add(core.AttrLastModified, "2024-01-15")
	s.Add(core.AttrTables, "3")

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{core.AttrModelName, core.AttrLastModified, core.AttrTables}, s.Attribute)
	assert.Len(t, s.Value, len(s.Attribute))

	v, ok := s.Get(core.AttrTables)
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = s.Get(core.AttrTotalRelationships)
	assert.False(t, ok)

	pairs := s.Pairs()
	assert.Equal(t, core.SummaryPair{Attribute: core.AttrModelName, Value: "Sales"}, pairs[0])
}

func TestCategories(t *testing.T) {
	all := core.AllCategories()
	assert.Equal(t, []core.Category{
		core.CategoryMaintenance,
		core.CategoryDAXQuality,
		core.CategoryNaming,
		core.CategoryModeling,
		core.CategoryFormatting,
		core.CategoryReporting,
		core.CategoryPerformance,
		core.CategoryErrorPrevention,
	}, all)

	tests := []struct {
		in   string
		want core.Category
		ok   bool
	}{
		{"naming", core.CategoryNaming, true},
		{"DAX-Quality", core.CategoryDAXQuality, true},
		{" error-prevention ", core.CategoryErrorPrevention, true},
		{"style", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := core.ParseCategory(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "DAX Quality", core.CategoryDAXQuality.DisplayName())
	assert.Equal(t, "Naming Conventions", core.CategoryNaming.DisplayName())
}

func TestProcessedDataLookups(t *testing.T) {
	data := &core.ProcessedData{
		Tables: []core.TableRecord{{Name: "Sales"}, {Name: "Product"}},
		Columns: []core.ColumnRecord{
			{TableName: "Sales", ColumnName: "Amount", DataType: "Double"},
			{TableName: "Product", ColumnName: "Name", DataType: "String"},
		},
		Measures: []core.MeasureRecord{{TableName: "Sales", MeasureName: "Total"}},
	}

	col, ok := data.ColumnByName("Product", "Name")
	assert.True(t, ok)
	assert.Equal(t, "String", col.DataType)

	_, ok = data.ColumnByName("Sales", "Name")
	assert.False(t, ok)

	_, ok = data.TableByName("Product")
	assert.True(t, ok)

	assert.Len(t, data.ColumnsOf("Sales"), 1)
	assert.Len(t, data.MeasuresOf("Sales"), 1)

	var nilData *core.ProcessedData
	_, ok = nilData.TableByName("Sales")
	assert.False(t, ok)
}
