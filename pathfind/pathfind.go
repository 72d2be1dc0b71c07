// Package pathfind computes lowest-cost routes over a grid.Grid using A*
// search.
//
// Movement is orthogonal only. The cost of a step is decided by the
// destination cell's type, and walls are never explored. The heuristic is
// Manhattan distance scaled by the cheapest possible step (the Boost cost),
// which keeps it admissible: the returned path is always optimal.
package pathfind

import (
	"container/heap"
	"math"

	"github.com/kmorrill/gridpath/grid"
)

// NoPath is the TotalCost reported when no route exists or when the grid has
// no start or goal set. It is a normal outcome, not an error.
const NoPath = -1.0

// StepCost returns the cost of moving onto a cell of type t, or a negative
// value if t is impassable.
func StepCost(t grid.CellType) float64 {
	switch t {
	case grid.Wall:
		return -1
	case grid.Rough:
		return 2.0
	case grid.Boost:
		return 0.5
	default:
		return 1.0 // Normal, Start, Goal
	}
}

// Result is the outcome of one search.
type Result struct {
	// Path runs start to goal inclusive; empty when Found is false.
	Path []grid.Coord
	// TotalCost is the summed step cost along Path, or NoPath.
	TotalCost float64
	// Expanded counts cells popped and expanded from the frontier.
	Expanded int
	Found    bool
}

// Finder runs searches against a grid model. It holds no state between
// calls; every FindPath works on a fresh snapshot and fresh search tables.
type Finder struct {
	model *grid.Grid
}

func New(model *grid.Grid) *Finder {
	return &Finder{model: model}
}

var steps = [4]grid.Coord{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// FindPath runs A* from the grid's start to its goal.
//
// If either position is unset, or the frontier drains without reaching the
// goal, the result carries NoPath and an empty path. Ties in f are broken by
// insertion order, so results are reproducible for a given grid.
func (f *Finder) FindPath() Result {
	start, okStart := f.model.StartPosition()
	goal, okGoal := f.model.GoalPosition()
	if !okStart || !okGoal {
		return Result{TotalCost: NoPath}
	}

	g := f.model.Clone()

	rows, cols := g.Rows(), g.Cols()
	costs := make([]float64, rows*cols)
	for i := range costs {
		costs[i] = math.Inf(1)
	}
	visited := make([]bool, rows*cols)
	cameFrom := make(map[grid.Coord]grid.Coord)

	h := func(c grid.Coord) float64 {
		return 0.5 * float64(abs(c.Row-goal.Row)+abs(c.Col-goal.Col))
	}

	open := &frontier{}
	costs[start.Row*cols+start.Col] = 0
	open.push(node{cell: start, g: 0, f: h(start)})

	expanded := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(node)
		idx := current.cell.Row*cols + current.cell.Col

		// A cell can sit in the frontier more than once; only the first
		// (cheapest) pop expands it.
		if visited[idx] {
			continue
		}
		visited[idx] = true
		expanded++

		if current.cell == goal {
			return Result{
				Path:      reconstruct(cameFrom, start, goal),
				TotalCost: costs[idx],
				Expanded:  expanded,
				Found:     true,
			}
		}

		for _, d := range steps {
			next := grid.Coord{Row: current.cell.Row + d.Row, Col: current.cell.Col + d.Col}
			ct, err := g.CellType(next.Row, next.Col)
			if err != nil {
				continue // off the board
			}
			step := StepCost(ct)
			if step < 0 {
				continue // wall
			}
			newCost := current.g + step
			if newCost < costs[next.Row*cols+next.Col] {
				costs[next.Row*cols+next.Col] = newCost
				cameFrom[next] = current.cell
				open.push(node{cell: next, g: newCost, f: newCost + h(next)})
			}
		}
	}

	return Result{TotalCost: NoPath, Expanded: expanded}
}

// reconstruct follows parent links from the goal back to the start, then
// reverses into start -> goal order.
func reconstruct(cameFrom map[grid.Coord]grid.Coord, start, goal grid.Coord) []grid.Coord {
	path := []grid.Coord{goal}
	current := goal
	for current != start {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
