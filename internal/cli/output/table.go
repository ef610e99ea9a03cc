package output

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders rows under headers: a box table in text mode, a Markdown table otherwise.
func (r *Renderer) Table(headers []string, rows [][]string) {
	if r.EffectiveMode() != ModeText {
		r.Printf("%s", FormatMarkdownTable(headers, rows))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}
	t.Render()
}
