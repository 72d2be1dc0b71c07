// Package main implements an interactive terminal editor for gridpath.
//
// The editor paints terrain onto a grid and overlays the lowest-cost route
// between the start and goal cells on demand.
package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmorrill/gridpath/grid"
)

func main() {
	rows := flag.Int("rows", 15, "Grid rows (1-255)")
	cols := flag.Int("cols", 30, "Grid columns (1-255)")
	flag.Parse()

	g, err := grid.New(*rows, *cols)
	if err != nil {
		log.Fatalf("Bad grid size: %v", err)
	}

	p := tea.NewProgram(newModel(g))
	if _, err := p.Run(); err != nil {
		log.Fatalf("Editor failed: %v", err)
	}
}
