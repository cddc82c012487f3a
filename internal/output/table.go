package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Style selects the table border style.
type Style int

const (
	// StyleRounded draws a rounded box around the table.
	StyleRounded Style = iota
	// StyleSimple draws header separators only.
	StyleSimple
)

// Table provides table rendering utilities
type Table struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
}

// NewTable creates a table writing to w. aligns sets per-column alignment
// for body rows; columns beyond len(aligns) are left aligned.
func NewTable(w io.Writer, style Style, headers []string, aligns ...tw.Align) *Table {
	rendition := tw.Rendition{Symbols: tw.NewSymbols(tw.StyleRounded)}
	if style == StyleSimple {
		rendition = tw.Rendition{
			Borders: tw.BorderNone,
			Symbols: tw.NewSymbols(tw.StyleLight),
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global:    tw.AlignLeft,
					PerColumn: aligns,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.Off,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignCenter,
				},
			},
		}),
		tablewriter.WithRendition(rendition),
	)

	return &Table{table: table, header: headers}
}

// AddRow adds a row to the table
func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

// Render outputs the table
func (t *Table) Render() error {
	t.table.Header(t.header)
	if err := t.table.Bulk(t.rows); err != nil {
		return err
	}
	return t.table.Render()
}
