package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/pbiassist/internal/cli/output"
	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/spf13/cobra"
)

// Inspect sections.
const (
	SectionAll           = "all"
	SectionSummary       = "summary"
	SectionTables        = "tables"
	SectionColumns       = "columns"
	SectionMeasures      = "measures"
	SectionRelationships = "relationships"
	SectionExpressions   = "expressions"
)

var inspectSections = []string{
	SectionSummary, SectionTables, SectionColumns, SectionMeasures, SectionRelationships, SectionExpressions,
}

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	Section string // Section to show
	Table   string // Restrict columns/measures/expressions to one table
	Format  string // Output format
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect <file.vpax>",
		Short: "Show the metadata extracted from a model export",
		Long: `Extract a Power BI model export and print its normalized metadata:
summary attributes, tables, columns, measures, relationships and
the source query of each table.`,
		Example: `  # Show everything
  pbiassist inspect sales.vpax

  # Show the measures of one table
  pbiassist inspect sales.vpax --section measures --table Sales

  # Dump the full model as YAML
  pbiassist inspect sales.vpax -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Section, "section", "s", SectionAll, "Section: all, "+strings.Join(inspectSections, ", "))
	cmd.Flags().StringVar(&opts.Table, "table", "", "Only show objects of this table")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	_ = cmd.RegisterFlagCompletionFunc("section", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return append([]string{SectionAll}, inspectSections...), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runInspect(cmd *cobra.Command, path string, opts *InspectOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := overrideRenderer(cmd, cmdCtx.Renderer, opts.Format)

	section := strings.ToLower(opts.Section)
	if section != SectionAll && !contains(inspectSections, section) {
		return fmt.Errorf("unknown section %q (expected all, %s)", opts.Section, strings.Join(inspectSections, ", "))
	}

	m, err := loadModel(cmdCtx.Logger, path)
	if err != nil {
		return err
	}
	data := filterByTable(m.Data, opts.Table)

	if ok, err := r.Structured(sectionValue(data, section)); ok || err != nil {
		return err
	}

	r.Header(1, m.Name())
	for _, s := range inspectSections {
		if section != SectionAll && section != s {
			continue
		}
		r.Header(2, output.Title(s))
		headers, rows := sectionTable(data, s)
		if len(rows) == 0 {
			r.Muted("(none)")
			r.Println()
			continue
		}
		r.Table(headers, rows)
		r.Println()
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// filterByTable returns a copy of data restricted to one table. An empty table keeps everything.
func filterByTable(data *core.ProcessedData, table string) *core.ProcessedData {
	if table == "" {
		return data
	}
	out := &core.ProcessedData{Summary: data.Summary}
	for _, t := range data.Tables {
		if strings.EqualFold(t.Name, table) {
			out.Tables = append(out.Tables, t)
		}
	}
	for _, c := range data.Columns {
		if strings.EqualFold(c.TableName, table) {
			out.Columns = append(out.Columns, c)
		}
	}
	for _, m := range data.Measures {
		if strings.EqualFold(m.TableName, table) {
			out.Measures = append(out.Measures, m)
		}
	}
	for _, e := range data.Expressions {
		if strings.EqualFold(e.TableName, table) {
			out.Expressions = append(out.Expressions, e)
		}
	}
	for _, rel := range data.Relationships {
		if strings.EqualFold(rel.FromTableName, table) || strings.EqualFold(rel.ToTableName, table) {
			out.Relationships = append(out.Relationships, rel)
		}
	}
	return out
}

func sectionValue(data *core.ProcessedData, section string) any {
	switch section {
	case SectionSummary:
		return data.Summary.Pairs()
	case SectionTables:
		return data.Tables
	case SectionColumns:
		return data.Columns
	case SectionMeasures:
		return data.Measures
	case SectionRelationships:
		return data.Relationships
	case SectionExpressions:
		return data.Expressions
	default:
		return data
	}
}

func sectionTable(data *core.ProcessedData, section string) ([]string, [][]string) {
	var rows [][]string
	switch section {
	case SectionSummary:
		for _, p := range data.Summary.Pairs() {
			rows = append(rows, []string{p.Attribute, p.Value})
		}
		return []string{"Attribute", "Value"}, rows
	case SectionTables:
		for _, t := range data.Tables {
			rows = append(rows, []string{
				t.Name, t.Mode, fmt.Sprintf("%d", t.Partitions), output.FormatCount(t.Rows),
				output.FormatCount(t.TotalSize), t.PctOfTotalSize, yesNo(t.IsHidden),
			})
		}
		return []string{"Table", "Mode", "Partitions", "Rows", "Size", "% of Model", "Hidden"}, rows
	case SectionColumns:
		for _, c := range data.Columns {
			rows = append(rows, []string{
				c.FullColumnName, c.DataType, c.ColumnType, c.Encoding,
				output.FormatCount(c.TotalSize), c.PctOfTotalSize, yesNo(c.IsHidden),
			})
		}
		return []string{"Column", "Data Type", "Kind", "Encoding", "Size", "% of Model", "Hidden"}, rows
	case SectionMeasures:
		for _, m := range data.Measures {
			rows = append(rows, []string{
				m.FullMeasureName, m.DisplayFolder, m.FormatString, truncateOneLine(m.MeasureExpression, 60),
			})
		}
		return []string{"Measure", "Folder", "Format", "Expression"}, rows
	case SectionRelationships:
		for _, rel := range data.Relationships {
			rows = append(rows, []string{
				rel.FromFullColumnName, rel.ToFullColumnName, rel.Cardinality, yesNo(rel.IsActive),
				output.FormatCount(rel.MissingKeys),
			})
		}
		return []string{"From", "To", "Cardinality", "Active", "Missing Keys"}, rows
	case SectionExpressions:
		for _, e := range data.Expressions {
			if e.Expression == "" {
				continue
			}
			rows = append(rows, []string{e.TableName, truncateOneLine(e.Expression, 80)})
		}
		return []string{"Table", "Expression"}, rows
	}
	return nil, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
