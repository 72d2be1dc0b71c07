package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmorrill/gridpath/grid"
	"github.com/kmorrill/gridpath/pathfind"
)

var (
	normalStyle = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	wallStyle   = lipgloss.NewStyle().Background(lipgloss.Color("250"))
	roughStyle  = lipgloss.NewStyle().Background(lipgloss.Color("94"))
	boostStyle  = lipgloss.NewStyle().Background(lipgloss.Color("24"))
	startStyle  = lipgloss.NewStyle().Background(lipgloss.Color("28")).Foreground(lipgloss.Color("255")).Bold(true)
	goalStyle   = lipgloss.NewStyle().Background(lipgloss.Color("124")).Foreground(lipgloss.Color("255")).Bold(true)
	pathStyle   = lipgloss.NewStyle().Background(lipgloss.Color("220")).Foreground(lipgloss.Color("16"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type model struct {
	grid   *grid.Grid
	finder *pathfind.Finder
	cursor grid.Coord

	// result of the last search; stale is set when the grid has been
	// edited since, so the overlay is hidden until the next search.
	result   pathfind.Result
	searched bool
	stale    bool

	status string
}

func newModel(g *grid.Grid) model {
	return model{
		grid:   g,
		finder: pathfind.New(g),
		status: "paint cells, then press f to search",
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor.Row > 0 {
			m.cursor.Row--
		}
	case "down", "j":
		if m.cursor.Row < m.grid.Rows()-1 {
			m.cursor.Row++
		}
	case "left", "h":
		if m.cursor.Col > 0 {
			m.cursor.Col--
		}
	case "right", "l":
		if m.cursor.Col < m.grid.Cols()-1 {
			m.cursor.Col++
		}

	case "n":
		m.paint(grid.Normal)
	case "w":
		m.paint(grid.Wall)
	case "r":
		m.paint(grid.Rough)
	case "b":
		m.paint(grid.Boost)
	case "s":
		m.paint(grid.Start)
	case "g":
		m.paint(grid.Goal)

	case "c":
		m.grid.Clear()
		m.searched = false
		m.status = "grid cleared"

	case "f":
		m.result = m.finder.FindPath()
		m.searched = true
		m.stale = false
		if m.result.Found {
			m.status = fmt.Sprintf("path found: cost %.1f, %d cells, %d expanded", m.result.TotalCost, len(m.result.Path), m.result.Expanded)
		} else if _, ok := m.grid.StartPosition(); !ok {
			m.status = "no start set"
		} else if _, ok := m.grid.GoalPosition(); !ok {
			m.status = "no goal set"
		} else {
			m.status = "no path exists"
		}
	}

	return m, nil
}

// paint sets the cell under the cursor and marks any path overlay stale.
func (m *model) paint(t grid.CellType) {
	// The cursor never leaves the grid, so this cannot fail.
	if err := m.grid.SetCellType(m.cursor.Row, m.cursor.Col, t); err != nil {
		m.status = err.Error()
		return
	}
	m.stale = true
	m.status = fmt.Sprintf("(%d,%d) painted %s", m.cursor.Row, m.cursor.Col, t)
}

func (m model) View() string {
	onPath := map[grid.Coord]bool{}
	if m.searched && !m.stale {
		for _, c := range m.result.Path {
			onPath[c] = true
		}
	}

	s := ""
	for r := 0; r < m.grid.Rows(); r++ {
		for c := 0; c < m.grid.Cols(); c++ {
			ct, _ := m.grid.CellType(r, c)
			cell := grid.Coord{Row: r, Col: c}
			s += renderCell(ct, onPath[cell], cell == m.cursor)
		}
		s += "\n"
	}

	s += statusStyle.Render(m.status) + "\n"
	s += statusStyle.Render("[n]ormal [w]all [r]ough [b]oost [s]tart [g]oal | [f]ind [c]lear [q]uit") + "\n"
	return s
}

func renderCell(ct grid.CellType, onPath, underCursor bool) string {
	label := "  "
	switch ct {
	case grid.Start:
		label = " S"
	case grid.Goal:
		label = " G"
	case grid.Rough:
		label = "::"
	case grid.Boost:
		label = ">>"
	}
	if underCursor {
		label = "[]"
	}

	style := normalStyle
	switch {
	case onPath && ct != grid.Start && ct != grid.Goal:
		style = pathStyle
	case ct == grid.Wall:
		style = wallStyle
	case ct == grid.Rough:
		style = roughStyle
	case ct == grid.Boost:
		style = boostStyle
	case ct == grid.Start:
		style = startStyle
	case ct == grid.Goal:
		style = goalStyle
	}
	return style.Render(label)
}
