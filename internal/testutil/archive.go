package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Archive builds an in-memory model export (a zip container) entry by entry.
type Archive struct {
	names    []string
	contents map[string][]byte
}

// NewArchive returns an empty archive builder.
func NewArchive() *Archive {
	return &Archive{contents: make(map[string][]byte)}
}

// Add appends a raw entry. Entries are written in insertion order.
func (a *Archive) Add(name string, content []byte) *Archive {
	if _, ok := a.contents[name]; !ok {
		a.names = append(a.names, name)
	}
	a.contents[name] = content
	return a
}

// AddString appends a text entry.
func (a *Archive) AddString(name, content string) *Archive {
	return a.Add(name, []byte(content))
}

// AddJSON marshals v and appends it as an entry.
func (a *Archive) AddJSON(t testing.TB, name string, v any) *Archive {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return a.Add(name, b)
}

// Bytes returns the zipped archive.
func (a *Archive) Bytes(t testing.TB) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range a.names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(a.contents[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// SampleExport returns a small but complete export: name document, model definition and statistics.
func SampleExport(t testing.TB) []byte {
	t.Helper()
	return NewArchive().
		AddString("DaxModel.json", SampleNameDocument).
		AddString("Model.bim", SampleModelDefinition).
		AddString("DaxVpaView.json", SampleStatistics).
		Bytes(t)
}

// SampleNameDocument is the name document of SampleExport.
const SampleNameDocument = `{
  "ModelName": {"Name": "Contoso Sales"},
  "LastUpdate": "2024-03-18T09:15:00Z"
}`

// SampleModelDefinition is the model definition of SampleExport.
// Sales and Product are import tables, Calendar is hidden.
const SampleModelDefinition = `{
  "name": "SemanticModel",
  "model": {
    "tables": [
      {
        "name": "Sales",
        "estimatedSize": 6000,
        "partitions": [
          {"name": "p1", "mode": "import", "rows": 700, "modifiedTime": "2024-03-10T00:00:00", "refreshedTime": "2024-03-18T00:00:00",
           "source": {"type": "m", "expression": ["let", "    Source = Sql.Database(\"srv\", \"db\")", "in", "    Source"]}},
          {"name": "p2", "mode": "import", "rows": 300}
        ],
        "columns": [
          {"name": "Amount", "dataType": "double"},
          {"name": "OrderDate", "dataType": "dateTime"},
          {"name": "ProductKey", "dataType": "int64"}
        ],
        "measures": [
          {"name": "Total Sales", "expression": "SUM(Sales[Amount])", "displayFolder": "Totals", "description": "Sum of sales amount"},
          {"name": "Sales Pct", "expression": "DIVIDE([Total Sales], CALCULATE([Total Sales], ALL(Sales)))", "formatString": "0.00%"}
        ]
      },
      {
        "name": "Product",
        "estimatedSize": 3000,
        "partitions": [
          {"name": "p1", "mode": "import", "rows": 50,
           "source": {"type": "m", "expression": "let Source = Csv.Document(File.Contents(\"p.csv\")) in Source"}}
        ],
        "columns": [
          {"name": "ProductKey", "dataType": "int64"},
          {"name": "Name", "dataType": "string"}
        ]
      },
      {
        "name": "Calendar",
        "isHidden": true,
        "estimatedSize": 1000,
        "partitions": [{"name": "p1", "mode": "import", "rows": 365}],
        "columns": [{"name": "Date", "dataType": "dateTime"}]
      }
    ]
  }
}`

// SampleStatistics is the statistics document of SampleExport.
const SampleStatistics = `{
  "Tables": [
    {"TableName": "Sales", "TableSize": 5000, "ColumnsSize": 4000, "RowsCount": 1000},
    {"TableName": "Product", "TableSize": 4000, "ColumnsSize": 3500, "RowsCount": 50},
    {"TableName": "Calendar", "TableSize": 1000, "ColumnsSize": 1000, "RowsCount": 365}
  ],
  "Columns": [
    {"TableName": "Sales", "ColumnName": "Amount", "FullColumnName": "'Sales'[Amount]", "DataType": "Double", "ColumnType": "Data", "Encoding": "VALUE", "DictionarySize": 100, "DataSize": 1900, "TotalSize": 2000, "IsNullable": true},
    {"TableName": "Sales", "ColumnName": "OrderDate", "FullColumnName": "'Sales'[OrderDate]", "DataType": "DateTime", "ColumnType": "Data", "Encoding": "HASH", "TotalSize": 1500},
    {"TableName": "Sales", "ColumnName": "ProductKey", "FullColumnName": "'Sales'[ProductKey]", "DataType": "Int64", "ColumnType": "Data", "TotalSize": 500},
    {"TableName": "Product", "ColumnName": "ProductKey", "FullColumnName": "'Product'[ProductKey]", "DataType": "Int64", "ColumnType": "Data", "IsKey": true, "IsUnique": true, "TotalSize": 1500},
    {"TableName": "Product", "ColumnName": "Name", "FullColumnName": "'Product'[Name]", "DataType": "String", "ColumnType": "Data", "TotalSize": 2000},
    {"TableName": "Calendar", "ColumnName": "Date", "FullColumnName": "'Calendar'[Date]", "DataType": "DateTime", "ColumnType": "Data", "IsHidden": true, "TotalSize": 2500}
  ],
  "Measures": [
    {"TableName": "Sales", "MeasureName": "Total Sales", "FullMeasureName": "Sales[Total Sales]", "MeasureExpression": "SUM(Sales[Amount])", "DisplayFolder": "Totals", "Description": "Sum of sales amount", "DataType": "Double", "FormatString": "#,0"},
    {"TableName": "Sales", "MeasureName": "Sales Pct", "FullMeasureName": "Sales[Sales Pct]", "MeasureExpression": "DIVIDE([Total Sales], CALCULATE([Total Sales], ALL(Sales)))", "DataType": "Double", "FormatString": "0.00%"}
  ],
  "Relationships": [
    {"FromTableName": "Sales", "FromFullColumnName": "'Sales'[ProductKey]", "FromCardinalityType": "Many",
     "ToTableName": "Product", "ToFullColumnName": "'Product'[ProductKey]", "ToColumnName": "ProductKey", "ToCardinalityType": "One",
     "CrossFilteringBehavior": "OneDirection", "JoinOnDateBehavior": "DateAndTime", "RelationshipType": "SingleColumn",
     "IsActive": true, "SecurityFilteringBehavior": "OneDirection", "UsedSizeFrom": 120, "UsedSize": 160, "MissingKeys": 0, "InvalidRows": 0}
  ]
}`
