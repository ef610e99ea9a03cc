package core

// ProcessedData is the normalized representation of one model export.
// It is built once per upload by the extraction pipeline and never mutated afterwards;
// a new upload produces a new value.
type ProcessedData struct {
	Summary       ModelSummary         `json:"summary" yaml:"summary"`
	Tables        []TableRecord        `json:"tables" yaml:"tables"`
	Columns       []ColumnRecord       `json:"columns" yaml:"columns"`
	Measures      []MeasureRecord      `json:"measures" yaml:"measures"`
	Expressions   []ExpressionRecord   `json:"expressions" yaml:"expressions"`
	Relationships []RelationshipRecord `json:"relationships" yaml:"relationships"`
}

// TableRecord describes one table of the model.
type TableRecord struct {
	Name       string `json:"name" yaml:"name"`
	Mode       string `json:"mode" yaml:"mode"` // storage mode of the first partition
	Partitions int    `json:"partitions" yaml:"partitions"`
	Rows       int64  `json:"rows" yaml:"rows"`
	TotalSize  int64  `json:"totalTableSize" yaml:"total_table_size"`
	// ColumnsSize is the part of TotalSize attributed to columns.
	ColumnsSize int64 `json:"columnsSize" yaml:"columns_size"`
	// RelationshipsSize is TotalSize - ColumnsSize. It is not clamped and may be negative
	// when the source statistics are inconsistent.
	RelationshipsSize int64  `json:"relationshipsSize" yaml:"relationships_size"`
	PctOfTotalSize    string `json:"pctOfTotalSize" yaml:"pct_of_total_size"`
	IsHidden          bool   `json:"isHidden" yaml:"is_hidden"`
	ModifiedTime      string `json:"modifiedTime" yaml:"modified_time"`
	RefreshedTime     string `json:"refreshedTime" yaml:"refreshed_time"`
}

// ColumnRecord describes one column. TableName is a weak reference to a TableRecord.
type ColumnRecord struct {
	TableName      string `json:"tableName" yaml:"table_name"`
	ColumnName     string `json:"columnName" yaml:"column_name"`
	FullColumnName string `json:"fullColumnName" yaml:"full_column_name"`
	DataType       string `json:"dataType" yaml:"data_type"`
	ColumnType     string `json:"columnType" yaml:"column_type"` // Data, Calculated, RowNumber...
	IsHidden       bool   `json:"isHidden" yaml:"is_hidden"`
	Encoding       string `json:"encoding" yaml:"encoding"`
	DisplayFolder  string `json:"displayFolder" yaml:"display_folder"`
	Description    string `json:"description" yaml:"description"`
	FormatString   string `json:"formatString" yaml:"format_string"`
	IsKey          bool   `json:"isKey" yaml:"is_key"`
	IsUnique       bool   `json:"isUnique" yaml:"is_unique"`
	IsRowNumber    bool   `json:"isRowNumber" yaml:"is_row_number"`
	DictionarySize int64  `json:"dictionarySize" yaml:"dictionary_size"`
	DataSize       int64  `json:"dataSize" yaml:"data_size"`
	TotalSize      int64  `json:"totalSize" yaml:"total_size"`
	// PctOfTotalSize is relative to the sum of TotalSize over every column of the model,
	// not only the columns of the owning table.
	PctOfTotalSize   string `json:"pctOfTotalSize" yaml:"pct_of_total_size"`
	IsReferenced     bool   `json:"isReferenced" yaml:"is_referenced"`
	IsNullable       bool   `json:"isNullable" yaml:"is_nullable"`
	ColumnExpression string `json:"columnExpression" yaml:"column_expression"`
}

// MeasureRecord describes one measure. TableName is a weak reference to a TableRecord.
type MeasureRecord struct {
	TableName         string `json:"tableName" yaml:"table_name"`
	MeasureName       string `json:"measureName" yaml:"measure_name"`
	FullMeasureName   string `json:"fullMeasureName" yaml:"full_measure_name"`
	MeasureExpression string `json:"measureExpression" yaml:"measure_expression"`
	DisplayFolder     string `json:"displayFolder" yaml:"display_folder"`
	Description       string `json:"description" yaml:"description"`
	DataType          string `json:"dataType" yaml:"data_type"`
	FormatString      string `json:"formatString" yaml:"format_string"`
}

// ExpressionRecord holds the load query of a table. Expression is empty when the table has none.
type ExpressionRecord struct {
	TableName  string `json:"tableName" yaml:"table_name"`
	Expression string `json:"expression" yaml:"expression"`
}

// RelationshipRecord describes one relationship edge between two tables.
type RelationshipRecord struct {
	FromTableName             string `json:"fromTableName" yaml:"from_table_name"`
	FromFullColumnName        string `json:"fromFullColumnName" yaml:"from_full_column_name"`
	FromColumnName            string `json:"fromColumnName" yaml:"from_column_name"`
	FromCardinalityType       string `json:"fromCardinalityType" yaml:"from_cardinality_type"`
	ToTableName               string `json:"toTableName" yaml:"to_table_name"`
	ToFullColumnName          string `json:"toFullColumnName" yaml:"to_full_column_name"`
	ToColumnName              string `json:"toColumnName" yaml:"to_column_name"`
	ToCardinalityType         string `json:"toCardinalityType" yaml:"to_cardinality_type"`
	CrossFilteringBehavior    string `json:"crossFilteringBehavior" yaml:"cross_filtering_behavior"`
	JoinOnDateBehavior        string `json:"joinOnDateBehavior" yaml:"join_on_date_behavior"`
	RelationshipType          string `json:"relationshipType" yaml:"relationship_type"`
	IsActive                  bool   `json:"isActive" yaml:"is_active"`
	SecurityFilteringBehavior string `json:"securityFilteringBehavior" yaml:"security_filtering_behavior"`
	UsedSizeFrom              int64  `json:"usedSizeFrom" yaml:"used_size_from"`
	UsedSize                  int64  `json:"usedSize" yaml:"used_size"`
	MissingKeys               int64  `json:"missingKeys" yaml:"missing_keys"`
	InvalidRows               int64  `json:"invalidRows" yaml:"invalid_rows"`
	// Cardinality is the compact code, e.g. "M-1-S" for many-to-one with single direction.
	Cardinality string `json:"cardinality" yaml:"cardinality"`
}

// TableByName returns the table with the given name.
func (d *ProcessedData) TableByName(name string) (TableRecord, bool) {
	if d == nil {
		return TableRecord{}, false
	}
	for _, t := range d.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableRecord{}, false
}

// ColumnByName resolves a column by its owning table and short column name.
func (d *ProcessedData) ColumnByName(table, column string) (ColumnRecord, bool) {
	if d == nil {
		return ColumnRecord{}, false
	}
	for _, c := range d.Columns {
		if c.TableName == table && c.ColumnName == column {
			return c, true
		}
	}
	return ColumnRecord{}, false
}

// ColumnsOf returns the columns owned by a table, in model order.
func (d *ProcessedData) ColumnsOf(table string) []ColumnRecord {
	if d == nil {
		return nil
	}
	var cols []ColumnRecord
	for _, c := range d.Columns {
		if c.TableName == table {
			cols = append(cols, c)
		}
	}
	return cols
}

// MeasuresOf returns the measures hosted by a table, in model order.
func (d *ProcessedData) MeasuresOf(table string) []MeasureRecord {
	if d == nil {
		return nil
	}
	var ms []MeasureRecord
	for _, m := range d.Measures {
		if m.TableName == table {
			ms = append(ms, m)
		}
	}
	return ms
}
