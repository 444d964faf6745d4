package main

import (
	"slices"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/writers"
	"github.com/samber/lo"
)

const maxColumnWidth = 16

// SortKeys returns the columns the viewer can sort by, in cycling order.
// The index column is always last.
func SortKeys(columns []string) []string {
	keys := lo.Filter([]string{"sharpe_ratio", "cum_return", "max_drawdown", "net_pnl", "number_of_trades"}, func(key string, _ int) bool {
		return slices.Contains(columns, key)
	})

	if slices.Contains(columns, writers.IndexColumn) {
		keys = append(keys, writers.IndexColumn)
	}

	return keys
}

// SortRows returns a copy of the rows ordered by the given column. The index
// column sorts ascending, everything else descending so the best row comes
// first. Cells that are not numbers sort last. The sort is stable.
func SortRows(data writers.ResultTable, key string) [][]string {
	rows := slices.Clone(data.Rows)

	column := slices.Index(data.Columns, key)
	if column < 0 {
		return rows
	}

	ascending := key == writers.IndexColumn

	slices.SortStableFunc(rows, func(a, b []string) int {
		x, errX := strconv.ParseFloat(a[column], 64)
		y, errY := strconv.ParseFloat(b[column], 64)

		switch {
		case errX != nil && errY != nil:
			return 0
		case errX != nil:
			return 1
		case errY != nil:
			return -1
		case x == y:
			return 0
		case (x < y) == ascending:
			return -1
		default:
			return 1
		}
	})

	return rows
}

// NewResultsTable creates a table for displaying result rows.
func NewResultsTable(columns []string, rows [][]string) table.Model {
	cells := make([]table.Row, 0, len(rows))
	widths := lo.Map(columns, func(column string, _ int) int {
		return len(column)
	})

	for _, row := range rows {
		formatted := lo.Map(row, func(cell string, _ int) string {
			return FormatCell(cell)
		})

		for i, cell := range formatted {
			widths[i] = max(widths[i], len(cell))
		}

		cells = append(cells, formatted)
	}

	tableColumns := make([]table.Column, 0, len(columns))
	for i, column := range columns {
		tableColumns = append(tableColumns, table.Column{Title: column, Width: min(widths[i], maxColumnWidth)})
	}

	t := table.New(
		table.WithColumns(tableColumns),
		table.WithRows(cells),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}
