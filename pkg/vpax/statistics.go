package vpax

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/leapstack-labs/pbiassist/pkg/core"
)

// PlaceholderTableSize stands in for a zero statistics size of a live-query table,
// so such tables still show up in size breakdowns.
const PlaceholderTableSize int64 = 1

// tableStats is one entry of the statistics Tables list.
type tableStats struct {
	name        string
	size        int64
	columnsSize int64
	rows        int64
	hasRows     bool
}

type statistics struct {
	tables        []tableStats
	columns       []core.ColumnRecord
	measures      []core.MeasureRecord
	relationships []core.RelationshipRecord
}

func parseStatistics(doc *Document) statistics {
	var s statistics

	for _, t := range doc.First("Tables", "tables").Array() {
		rows := field(t, "RowsCount")
		s.tables = append(s.tables, tableStats{
			name:        field(t, "TableName").String(),
			size:        field(t, "TableSize").Int(),
			columnsSize: field(t, "ColumnsSize").Int(),
			rows:        rows.Int(),
			hasRows:     rows.Exists(),
		})
	}

	var columnsTotal int64
	for _, c := range doc.First("Columns", "columns").Array() {
		rec := core.ColumnRecord{
			TableName:        field(c, "TableName").String(),
			ColumnName:       field(c, "ColumnName").String(),
			FullColumnName:   field(c, "FullColumnName").String(),
			DataType:         field(c, "DataType").String(),
			ColumnType:       field(c, "ColumnType").String(),
			IsHidden:         field(c, "IsHidden").Bool(),
			Encoding:         field(c, "Encoding").String(),
			DisplayFolder:    field(c, "DisplayFolder").String(),
			Description:      field(c, "Description").String(),
			FormatString:     field(c, "FormatString").String(),
			IsKey:            field(c, "IsKey").Bool(),
			IsUnique:         field(c, "IsUnique").Bool(),
			IsRowNumber:      field(c, "IsRowNumber").Bool(),
			DictionarySize:   field(c, "DictionarySize").Int(),
			DataSize:         field(c, "DataSize").Int(),
			TotalSize:        field(c, "TotalSize").Int(),
			IsReferenced:     field(c, "IsReferenced").Bool(),
			IsNullable:       field(c, "IsNullable").Bool(),
			ColumnExpression: text(field(c, "ColumnExpression")),
		}
		if rec.FullColumnName == "" {
			rec.FullColumnName = qualify(rec.TableName, rec.ColumnName)
		}
		columnsTotal += rec.TotalSize
		s.columns = append(s.columns, rec)
	}
	// column percentages are model-wide, not per table
	for i := range s.columns {
		s.columns[i].PctOfTotalSize = percent(s.columns[i].TotalSize, columnsTotal)
	}

	for _, m := range doc.First("Measures", "measures").Array() {
		rec := core.MeasureRecord{
			TableName:         field(m, "TableName").String(),
			MeasureName:       field(m, "MeasureName").String(),
			FullMeasureName:   field(m, "FullMeasureName").String(),
			MeasureExpression: text(field(m, "MeasureExpression")),
			DisplayFolder:     field(m, "DisplayFolder").String(),
			Description:       field(m, "Description").String(),
			DataType:          field(m, "DataType").String(),
			FormatString:      field(m, "FormatString").String(),
		}
		if rec.FullMeasureName == "" {
			rec.FullMeasureName = qualify(rec.TableName, rec.MeasureName)
		}
		s.measures = append(s.measures, rec)
	}

	for _, r := range doc.First("Relationships", "relationships").Array() {
		s.relationships = append(s.relationships, parseRelationship(r))
	}
	return s
}

func parseRelationship(r gjson.Result) core.RelationshipRecord {
	rec := core.RelationshipRecord{
		FromTableName:             field(r, "FromTableName").String(),
		FromFullColumnName:        field(r, "FromFullColumnName").String(),
		FromCardinalityType:       field(r, "FromCardinalityType").String(),
		ToTableName:               field(r, "ToTableName").String(),
		ToFullColumnName:          field(r, "ToFullColumnName").String(),
		ToCardinalityType:         field(r, "ToCardinalityType").String(),
		CrossFilteringBehavior:    field(r, "CrossFilteringBehavior").String(),
		JoinOnDateBehavior:        field(r, "JoinOnDateBehavior").String(),
		RelationshipType:          field(r, "RelationshipType").String(),
		IsActive:                  field(r, "IsActive").Bool(),
		SecurityFilteringBehavior: field(r, "SecurityFilteringBehavior").String(),
		UsedSizeFrom:              field(r, "UsedSizeFrom").Int(),
		UsedSize:                  field(r, "UsedSize").Int(),
		MissingKeys:               field(r, "MissingKeys").Int(),
		InvalidRows:               field(r, "InvalidRows").Int(),
	}
	rec.FromColumnName = shortColumnName(r, "From", rec.FromFullColumnName)
	rec.ToColumnName = shortColumnName(r, "To", rec.ToFullColumnName)
	if rec.FromFullColumnName == "" {
		rec.FromFullColumnName = qualify(rec.FromTableName, rec.FromColumnName)
	}
	if rec.ToFullColumnName == "" {
		rec.ToFullColumnName = qualify(rec.ToTableName, rec.ToColumnName)
	}
	rec.Cardinality = CardinalityCode(rec.FromCardinalityType, rec.ToCardinalityType, rec.CrossFilteringBehavior)
	return rec
}

// shortColumnName resolves <side>ColumnName, then <side>Column, then the bracketed
// part of the fully-qualified name.
func shortColumnName(r gjson.Result, side, full string) string {
	if v := field(r, side+"ColumnName").String(); v != "" {
		return v
	}
	if v := field(r, side+"Column").String(); v != "" {
		return v
	}
	return bracketName(full)
}

// bracketName extracts "Col" from "'Table'[Col]".
func bracketName(full string) string {
	open := strings.LastIndex(full, "[")
	if open < 0 {
		return full
	}
	return strings.TrimSuffix(full[open+1:], "]")
}

func qualify(table, name string) string {
	if name == "" {
		return ""
	}
	return table + "[" + name + "]"
}

// mergeTableStatistics overlays statistics sizes and row counts onto the tables
// derived from the model definition. Tables without a counterpart keep their sizes; when
// the overlay is partial every percentage is recomputed against the merged sizes.
func mergeTableStatistics(tables []core.TableRecord, stats []tableStats, liveQuery bool) {
	if len(stats) == 0 {
		return
	}

	byName := make(map[string]tableStats, len(stats))
	var total int64
	for _, st := range stats {
		if liveQuery && st.size == 0 {
			st.size = PlaceholderTableSize
		}
		total += st.size
		if _, dup := byName[st.name]; !dup {
			byName[st.name] = st
		}
	}

	matched := make(map[string]bool, len(byName))
	for i := range tables {
		st, ok := byName[tables[i].Name]
		if !ok {
			continue
		}
		matched[st.name] = true
		tables[i].TotalSize = st.size
		tables[i].ColumnsSize = st.columnsSize
		tables[i].RelationshipsSize = st.size - st.columnsSize
		if st.hasRows {
			tables[i].Rows = st.rows
		}
		tables[i].PctOfTotalSize = percent(st.size, total)
	}

	// A partial overlay mixes two denominators; re-percent against the merged sizes.
	if len(matched) == len(byName) && allMatched(tables, byName) {
		return
	}
	var merged int64
	for _, t := range tables {
		merged += t.TotalSize
	}
	for i := range tables {
		tables[i].PctOfTotalSize = percent(tables[i].TotalSize, merged)
	}
}

func allMatched(tables []core.TableRecord, byName map[string]tableStats) bool {
	for _, t := range tables {
		if _, ok := byName[t.Name]; !ok {
			return false
		}
	}
	return true
}
