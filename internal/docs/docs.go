// Package docs exports a Markdown document describing a Power BI model.
//
// The document lists the summary attributes, tables, columns, measures with
// their DAX, source queries and relationships. When an analysis result is
// supplied a best-practices section closes the document.
package docs

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

// Markdown writes the documentation of data to w. result may be nil.
func Markdown(w io.Writer, data *core.ProcessedData, result *lint.AnalysisResult) error {
	if data == nil {
		data = &core.ProcessedData{}
	}
	bw := bufio.NewWriter(w)
	g := &generator{w: bw, data: data}

	g.title()
	g.summary()
	g.tables()
	g.columns()
	g.measures()
	g.expressions()
	g.relationships()
	if result != nil {
		g.bestPractices(result)
	}
	return bw.Flush()
}

type generator struct {
	w    io.Writer
	data *core.ProcessedData
}

func (g *generator) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(g.w, format, a...)
}

func (g *generator) heading(level int, text string) {
	g.printf("%s %s\n\n", strings.Repeat("#", level), text)
}

// table renders a Markdown table through go-pretty.
func (g *generator) table(headers []string, rows [][]string) {
	t := table.NewWriter()
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}
	g.printf("%s\n\n", t.RenderMarkdown())
}

func (g *generator) title() {
	name, ok := g.data.Summary.Get(core.AttrModelName)
	if !ok || name == "" {
		name = core.Unknown
	}
	g.heading(1, name)
	if modified, ok := g.data.Summary.Get(core.AttrLastModified); ok {
		g.printf("_Last modified: %s_\n\n", modified)
	}
}

func (g *generator) summary() {
	g.heading(2, "Summary")
	rows := make([][]string, 0, g.data.Summary.Len())
	for _, p := range g.data.Summary.Pairs() {
		rows = append(rows, []string{p.Attribute, p.Value})
	}
	g.table([]string{"Attribute", "Value"}, rows)
}

func (g *generator) tables() {
	g.heading(2, "Tables")
	if len(g.data.Tables) == 0 {
		g.printf("No tables.\n\n")
		return
	}
	rows := make([][]string, 0, len(g.data.Tables))
	for _, t := range g.data.Tables {
		rows = append(rows, []string{
			t.Name,
			t.Mode,
			numbers.Sprintf("%d", t.Rows),
			numbers.Sprintf("%d", t.TotalSize),
			t.PctOfTotalSize,
			yesNo(t.IsHidden),
		})
	}
	g.table([]string{"Table", "Mode", "Rows", "Size (bytes)", "% of Model", "Hidden"}, rows)
}

func (g *generator) columns() {
	g.heading(2, "Columns")
	if len(g.data.Columns) == 0 {
		g.printf("No columns.\n\n")
		return
	}
	for _, name := range g.tableOrder() {
		cols := g.data.ColumnsOf(name)
		if len(cols) == 0 {
			continue
		}
		g.heading(3, name)
		rows := make([][]string, 0, len(cols))
		for _, c := range cols {
			rows = append(rows, []string{
				c.ColumnName,
				c.ColumnType,
				c.DataType,
				numbers.Sprintf("%d", c.TotalSize),
				yesNo(c.IsHidden),
				c.Description,
			})
		}
		g.table([]string{"Column", "Kind", "Data Type", "Size (bytes)", "Hidden", "Description"}, rows)
	}
}

func (g *generator) measures() {
	g.heading(2, "Measures")
	if len(g.data.Measures) == 0 {
		g.printf("No measures.\n\n")
		return
	}
	for _, name := range g.tableOrder() {
		ms := g.data.MeasuresOf(name)
		if len(ms) == 0 {
			continue
		}
		g.heading(3, name)
		for _, m := range ms {
			g.heading(4, m.MeasureName)
			if m.Description != "" {
				g.printf("%s\n\n", m.Description)
			}
			if m.DisplayFolder != "" {
				g.printf("- **Display folder:** %s\n", m.DisplayFolder)
			}
			if m.FormatString != "" {
				g.printf("- **Format:** `%s`\n", m.FormatString)
			}
			if m.DisplayFolder != "" || m.FormatString != "" {
				g.printf("\n")
			}
			g.printf("%s\n\n", codeBlock("dax", m.MeasureExpression))
		}
	}
}

func (g *generator) expressions() {
	var found bool
	for _, e := range g.data.Expressions {
		if strings.TrimSpace(e.Expression) != "" {
			found = true
			break
		}
	}
	if !found {
		return
	}
	g.heading(2, "Source Queries")
	for _, e := range g.data.Expressions {
		if strings.TrimSpace(e.Expression) == "" {
			continue
		}
		g.heading(3, e.TableName)
		g.printf("%s\n\n", codeBlock("powerquery", e.Expression))
	}
}

func (g *generator) relationships() {
	g.heading(2, "Relationships")
	if len(g.data.Relationships) == 0 {
		g.printf("No relationships.\n\n")
		return
	}
	rows := make([][]string, 0, len(g.data.Relationships))
	for _, r := range g.data.Relationships {
		rows = append(rows, []string{
			r.FromFullColumnName,
			r.ToFullColumnName,
			r.Cardinality,
			r.CrossFilteringBehavior,
			yesNo(r.IsActive),
		})
	}
	g.table([]string{"From", "To", "Cardinality", "Cross Filter", "Active"}, rows)
}

func (g *generator) bestPractices(result *lint.AnalysisResult) {
	g.heading(2, "Best Practices")
	g.printf("Overall score: **%d%%** (%d of %d rules passed)\n\n",
		result.Score(), result.Overall.PassedRules, result.Overall.TotalRules)

	rows := make([][]string, 0, len(result.Categories))
	for _, c := range result.Categories {
		rows = append(rows, []string{
			c.DisplayName,
			fmt.Sprintf("%d", c.PassedRules),
			fmt.Sprintf("%d", c.FailedRules),
			fmt.Sprintf("%d%%", c.Compliance()),
		})
	}
	g.table([]string{"Category", "Passed", "Failed", "Compliance"}, rows)

	failures := result.Failures()
	if len(failures) == 0 {
		return
	}
	g.heading(3, "Findings")
	for _, f := range failures {
		g.printf("- **%s %s** (%s): %s\n", f.Rule.ID, f.Rule.Name, f.Rule.DefaultSeverity, f.Rule.Description)
		for _, obj := range f.AffectedObjects {
			g.printf("  - %s\n", obj)
		}
	}
	g.printf("\n")
}

// tableOrder returns table names in model order, followed by any table only
// referenced from columns or measures.
func (g *generator) tableOrder() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, t := range g.data.Tables {
		add(t.Name)
	}
	for _, c := range g.data.Columns {
		add(c.TableName)
	}
	for _, m := range g.data.Measures {
		add(m.TableName)
	}
	return names
}

func codeBlock(lang, code string) string {
	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	return fence + lang + "\n" + strings.TrimRight(code, "\n") + "\n" + fence
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
