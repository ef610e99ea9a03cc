package dag

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format is a graph serialization format.
type Format string

// Supported formats.
const (
	FormatDOT     Format = "dot"
	FormatMermaid Format = "mermaid"
	FormatJSON    Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatDOT, FormatMermaid, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown graph format %q (expected dot, mermaid or json)", s)
	}
}

// Write serializes the graph in the given format.
func (g *Graph) Write(w io.Writer, f Format) error {
	switch f {
	case FormatDOT:
		return g.WriteDOT(w)
	case FormatMermaid:
		return g.WriteMermaid(w)
	case FormatJSON:
		return g.WriteJSON(w)
	default:
		return fmt.Errorf("unknown graph format %q", f)
	}
}

// WriteDOT writes the graph in Graphviz DOT syntax. Measures are ellipses,
// columns boxes and calculated columns dashed boxes.
func (g *Graph) WriteDOT(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph model {\n  rankdir=LR;\n")
	for _, n := range g.Nodes() {
		fmt.Fprintf(&b, "  %s [shape=%s%s];\n", dotQuote(n.ID), dotShape(n.Object), dotStyle(n.Object))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "  %s -> %s;\n", dotQuote(e[0]), dotQuote(e[1]))
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func dotQuote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func dotShape(o Object) string {
	if o.Kind == KindMeasure {
		return "ellipse"
	}
	return "box"
}

func dotStyle(o Object) string {
	if o.Calculated {
		return ", style=dashed"
	}
	return ""
}

// WriteMermaid writes the graph as a Mermaid flowchart.
func (g *Graph) WriteMermaid(w io.Writer) error {
	nodes := g.Nodes()
	ids := make(map[string]string, len(nodes))

	var b strings.Builder
	b.WriteString("flowchart LR\n")
	for i, n := range nodes {
		key := fmt.Sprintf("n%d", i)
		ids[n.ID] = key
		label := strings.ReplaceAll(n.ID, `"`, "#quot;")
		if n.Object.Kind == KindMeasure {
			fmt.Fprintf(&b, "  %s([\"%s\"])\n", key, label)
		} else {
			fmt.Fprintf(&b, "  %s[\"%s\"]\n", key, label)
		}
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "  %s --> %s\n", ids[e[0]], ids[e[1]])
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// JSONGraph is the JSON form of a graph.
type JSONGraph struct {
	Nodes []JSONNode `json:"nodes"`
	Edges []JSONEdge `json:"edges"`
	Stats JSONStats  `json:"stats"`
}

// JSONNode is one node of a JSONGraph.
type JSONNode struct {
	ID string `json:"id"`
	Object
}

// JSONEdge points from a dependency to its dependent.
type JSONEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// JSONStats summarizes a JSONGraph.
type JSONStats struct {
	Measures int  `json:"measures"`
	Columns  int  `json:"columns"`
	Edges    int  `json:"edges"`
	Cyclic   bool `json:"cyclic"`
}

// ToJSON converts the graph into its JSON form.
func (g *Graph) ToJSON() JSONGraph {
	out := JSONGraph{Nodes: []JSONNode{}, Edges: []JSONEdge{}}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, JSONNode{ID: n.ID, Object: n.Object})
		if n.Object.Kind == KindMeasure {
			out.Stats.Measures++
		} else {
			out.Stats.Columns++
		}
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, JSONEdge{From: e[0], To: e[1]})
	}
	out.Stats.Edges = len(out.Edges)
	out.Stats.Cyclic = g.FindCycle() != nil
	return out
}

// WriteJSON writes the graph as indented JSON.
func (g *Graph) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g.ToJSON())
}
