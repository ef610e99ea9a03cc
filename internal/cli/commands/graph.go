package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/pbiassist/internal/cli/output"
	"github.com/leapstack-labs/pbiassist/internal/dag"
	"github.com/spf13/cobra"
)

// GraphOptions holds options for the graph command.
type GraphOptions struct {
	Format     string // dot, mermaid or json
	Object     string // Focus object, e.g. Sales[Total Sales]
	Upstream   bool
	Downstream bool
	Depth      int
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	opts := &GraphOptions{}
	cmd := &cobra.Command{
		Use:   "graph <file.vpax>",
		Short: "Show the measure and column dependency graph",
		Long: `Build the dependency graph of a model: which columns and measures every
measure and calculated column references.

Edges point from the referenced object to the object that uses it.
Use --object to focus on the lineage of one measure or column.`,
		Example: `  # Graphviz DOT for the whole model
  pbiassist graph sales.vpax | dot -Tsvg > model.svg

  # Mermaid flowchart
  pbiassist graph sales.vpax --format mermaid

  # Everything a measure depends on, two hops deep
  pbiassist graph sales.vpax --object "Sales[Sales Pct]" --downstream=false --depth 2

  # JSON
  pbiassist graph sales.vpax --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "", "Graph format (dot|mermaid|json), default dot")
	cmd.Flags().StringVar(&opts.Object, "object", "", "Only show the lineage of this object, e.g. Sales[Amount]")
	cmd.Flags().BoolVar(&opts.Upstream, "upstream", true, "Include upstream dependencies")
	cmd.Flags().BoolVar(&opts.Downstream, "downstream", true, "Include downstream dependents")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "Max traversal depth (0 = unlimited)")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(dag.FormatDOT), string(dag.FormatMermaid), string(dag.FormatJSON)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runGraph(cmd *cobra.Command, path string, opts *GraphOptions) error {
	cmdCtx := NewCommandContext(cmd)

	format, err := graphFormat(opts.Format, cmdCtx.Renderer.EffectiveMode())
	if err != nil {
		return err
	}

	m, err := loadModel(cmdCtx.Logger, path)
	if err != nil {
		return err
	}

	graph := dag.BuildModelGraph(m.Data)
	if cycle := graph.FindCycle(); cycle != nil {
		cmdCtx.Logger.Warn("dependency cycle", "path", strings.Join(cycle, " -> "))
	}

	if opts.Object != "" {
		id, ok := resolveObject(graph, opts.Object)
		if !ok {
			return fmt.Errorf("object not found: %s", opts.Object)
		}
		graph = graph.Neighborhood(id, opts.Depth, opts.Upstream, opts.Downstream)
	}

	cmdCtx.Logger.Debug("built dependency graph", "nodes", graph.NodeCount(), "edges", graph.EdgeCount())
	return graph.Write(cmd.OutOrStdout(), format)
}

// graphFormat picks the serialization: the flag wins, then a JSON output mode, then DOT.
func graphFormat(flag string, mode output.Mode) (dag.Format, error) {
	if flag != "" {
		return dag.ParseFormat(flag)
	}
	if mode == output.ModeJSON {
		return dag.FormatJSON, nil
	}
	return dag.FormatDOT, nil
}

// resolveObject finds a node by exact id, then case-insensitively, then by bare name
// when the name is unique.
func resolveObject(g *dag.Graph, ref string) (string, bool) {
	if _, ok := g.GetNode(ref); ok {
		return ref, true
	}
	var byName []string
	for _, n := range g.Nodes() {
		if strings.EqualFold(n.ID, ref) {
			return n.ID, true
		}
		if strings.EqualFold(n.Object.Name, strings.Trim(ref, "[]")) {
			byName = append(byName, n.ID)
		}
	}
	if len(byName) == 1 {
		return byName[0], true
	}
	return "", false
}
