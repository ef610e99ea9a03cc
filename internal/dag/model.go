package dag

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/pbiassist/pkg/core"
)

// ObjectKind distinguishes measures from columns.
type ObjectKind string

// Object kinds.
const (
	KindMeasure ObjectKind = "measure"
	KindColumn  ObjectKind = "column"
)

// Object is the model object a node stands for.
type Object struct {
	Kind  ObjectKind `json:"kind"`
	Table string     `json:"table"`
	Name  string     `json:"name"`
	// Calculated is set for calculated columns.
	Calculated bool `json:"calculated,omitempty"`
}

// ObjectID builds the node id of a table-scoped object, e.g. "Sales[Amount]".
func ObjectID(table, name string) string {
	return table + "[" + name + "]"
}

var (
	// 'Quoted Table'[Name], Table[Name] or [Name]
	referencePattern = regexp.MustCompile(`'((?:[^']|'')+)'\[([^\]]+)\]|([A-Za-z_][A-Za-z0-9_.]*)\[([^\]]+)\]|\[([^\]]+)\]`)
	stringLiteral    = regexp.MustCompile(`"(?:[^"]|"")*"`)
	lineComment      = regexp.MustCompile(`(?m)(//|--).*$`)
	blockComment     = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// Reference is one object reference found in a DAX expression. Table is empty
// for unqualified references.
type Reference struct {
	Table string
	Name  string
}

// ScanReferences lists the object references of a DAX expression in order of appearance.
// String literals and comments are ignored.
func ScanReferences(expr string) []Reference {
	expr = blockComment.ReplaceAllString(expr, " ")
	expr = stringLiteral.ReplaceAllString(expr, `""`)
	expr = lineComment.ReplaceAllString(expr, "")

	var refs []Reference
	for _, m := range referencePattern.FindAllStringSubmatch(expr, -1) {
		switch {
		case m[1] != "":
			refs = append(refs, Reference{Table: strings.ReplaceAll(m[1], "''", "'"), Name: m[2]})
		case m[3] != "":
			refs = append(refs, Reference{Table: m[3], Name: m[4]})
		default:
			refs = append(refs, Reference{Name: m[5]})
		}
	}
	return refs
}

// BuildModelGraph builds the dependency graph of measures and columns. An edge runs
// from a referenced object to the measure or calculated column whose expression uses it.
// Unqualified references resolve to a measure first, then to a column of the owning table.
// References that resolve to nothing are ignored.
func BuildModelGraph(data *core.ProcessedData) *Graph {
	g := NewGraph()
	if data == nil {
		return g
	}

	measures := make(map[string]string) // measure name -> node id
	for _, c := range data.Columns {
		g.AddNode(ObjectID(c.TableName, c.ColumnName), Object{
			Kind:       KindColumn,
			Table:      c.TableName,
			Name:       c.ColumnName,
			Calculated: strings.TrimSpace(c.ColumnExpression) != "",
		})
	}
	for _, m := range data.Measures {
		id := ObjectID(m.TableName, m.MeasureName)
		g.AddNode(id, Object{Kind: KindMeasure, Table: m.TableName, Name: m.MeasureName})
		if _, dup := measures[m.MeasureName]; !dup {
			measures[m.MeasureName] = id
		}
	}

	resolve := func(owner string, ref Reference) (string, bool) {
		if ref.Table != "" {
			id := ObjectID(ref.Table, ref.Name)
			if _, ok := g.nodes[id]; ok {
				return id, true
			}
			// measures may be written with any table prefix
			id, ok := measures[ref.Name]
			return id, ok
		}
		if id, ok := measures[ref.Name]; ok {
			return id, true
		}
		id := ObjectID(owner, ref.Name)
		_, ok := g.nodes[id]
		return id, ok
	}

	link := func(owner, childID, expr string) {
		for _, ref := range ScanReferences(expr) {
			if parent, ok := resolve(owner, ref); ok && parent != childID {
				_ = g.AddEdge(parent, childID)
			}
		}
	}
	for _, m := range data.Measures {
		link(m.TableName, ObjectID(m.TableName, m.MeasureName), m.MeasureExpression)
	}
	for _, c := range data.Columns {
		if c.ColumnExpression != "" {
			link(c.TableName, ObjectID(c.TableName, c.ColumnName), c.ColumnExpression)
		}
	}
	return g
}
