package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/writers"
)

// Model is the Bubble Tea model of the results viewer.
type Model struct {
	path      string
	sortKey   string
	sortKeys  []string
	data      writers.ResultTable
	loaded    bool
	dataTable table.Model
	err       error
	width     int
	height    int
}

// NewModel creates a viewer for the results file at path, initially sorted
// by sortKey.
func NewModel(path string, sortKey string) Model {
	return Model{
		path:      path,
		sortKey:   sortKey,
		dataTable: NewResultsTable(nil, nil),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return loadResults(m.path)
}

func loadResults(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := writers.ReadResultTable(path)
		if err != nil {
			return ResultsErrorMsg{Err: err}
		}

		return ResultsLoadedMsg{Table: data}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "s":
			return m.cycleSort(), nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dataTable.SetWidth(msg.Width)
		m.dataTable.SetHeight(max(msg.Height-6, 3))

		return m, nil

	case ResultsLoadedMsg:
		m.data = msg.Table
		m.loaded = true
		m.err = nil
		m.sortKeys = SortKeys(msg.Table.Columns)

		if !slices.Contains(msg.Table.Columns, m.sortKey) && len(m.sortKeys) > 0 {
			m.sortKey = m.sortKeys[0]
		}

		return m.refresh(), nil

	case ResultsErrorMsg:
		m.err = msg.Err

		return m, nil
	}

	var cmd tea.Cmd
	m.dataTable, cmd = m.dataTable.Update(msg)

	return m, cmd
}

func (m Model) cycleSort() Model {
	if len(m.sortKeys) == 0 {
		return m
	}

	next := (slices.Index(m.sortKeys, m.sortKey) + 1) % len(m.sortKeys)
	m.sortKey = m.sortKeys[next]

	return m.refresh()
}

func (m Model) refresh() Model {
	m.dataTable = NewResultsTable(m.data.Columns, SortRows(m.data, m.sortKey))

	if m.width > 0 {
		m.dataTable.SetWidth(m.width)
		m.dataTable.SetHeight(max(m.height-6, 3))
	}

	return m
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render(fmt.Sprintf("Sweep Results - %s", m.path)))
	s.WriteString("\n\n")

	switch {
	case m.err != nil:
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n")
	case !m.loaded:
		s.WriteString("Loading results...\n")
	case len(m.data.Rows) == 0:
		s.WriteString("No result rows.\n")
	default:
		s.WriteString(fmt.Sprintf("%d rows, sorted by %s\n\n", len(m.data.Rows), m.sortKey))
		s.WriteString(m.dataTable.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("s: change sort | ↑/↓: scroll | q: quit"))

	return s.String()
}
