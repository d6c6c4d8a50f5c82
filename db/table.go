package db

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table collects a header and rows and renders them as a boxed text table.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
}

func NewTable(w io.Writer) *Table {
	return &Table{writer: w}
}

func (t *Table) Header(headers []string) {
	t.headers = headers
}

func (t *Table) Row(row []string) {
	t.rows = append(t.rows, row)
}

func (t *Table) Bulk(rows [][]string) {
	t.rows = append(t.rows, rows...)
}

// Render writes nothing when there is neither a header nor a row.
func (t *Table) Render() {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(t.writer)
	writer.SetStyle(table.StyleLight)

	if len(t.headers) > 0 {
		writer.AppendHeader(toRow(t.headers))
	}
	for _, row := range t.rows {
		writer.AppendRow(toRow(row))
	}
	writer.Render()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}
