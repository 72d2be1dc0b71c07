// Package grid holds the authoritative terrain state for the pathfinding
// board.
//
// A Grid is a fixed-size rectangle of typed cells plus bookkeeping for the
// unique start and goal positions. Mutations go through SetCellType/Clear so
// the start/goal invariants always hold, and watchers are notified of every
// change. The search engine works on a Clone so a running search never sees
// a half-applied mutation.
package grid

import (
	"errors"
	"fmt"
)

// CellType is the terrain or role of a single cell.
type CellType uint8

const (
	Normal CellType = iota
	Wall
	Rough
	Boost
	Start
	Goal
)

var cellTypeNames = [...]string{"normal", "wall", "rough", "boost", "start", "goal"}

func (t CellType) String() string {
	if int(t) < len(cellTypeNames) {
		return cellTypeNames[t]
	}
	return fmt.Sprintf("celltype(%d)", uint8(t))
}

// ParseCellType maps a wire/UI name back to a CellType.
func ParseCellType(s string) (CellType, error) {
	for i, name := range cellTypeNames {
		if s == name {
			return CellType(i), nil
		}
	}
	return Normal, fmt.Errorf("unknown cell type %q", s)
}

// Coord is a board coordinate. Row 0 is the top row.
type Coord struct {
	Row int
	Col int
}

// MaxDim caps grid dimensions on both axes.
const MaxDim = 255

var (
	ErrOutOfRange = errors.New("coordinate out of grid bounds")
	ErrDimensions = errors.New("grid dimensions out of range")
)

// EventKind discriminates watcher notifications.
type EventKind int

const (
	// EventCell means a single cell changed type.
	EventCell EventKind = iota
	// EventReset means the whole grid was cleared.
	EventReset
)

// Event describes one grid mutation. Cell is meaningful for EventCell only.
type Event struct {
	Kind EventKind
	Cell Coord
}

// Grid is the board state. Not safe for concurrent use; callers that share a
// Grid across goroutines must serialize access themselves.
type Grid struct {
	rows  int
	cols  int
	cells []CellType // row-major, rows*cols

	start *Coord
	goal  *Coord

	watchers []func(Event)
}

// New returns a rows x cols grid with every cell Normal and no start or goal
// set. Both dimensions must be in [1, MaxDim].
func New(rows, cols int) (*Grid, error) {
	if rows < 1 || rows > MaxDim || cols < 1 || cols > MaxDim {
		return nil, fmt.Errorf("%w: %dx%d (max %dx%d)", ErrDimensions, rows, cols, MaxDim, MaxDim)
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]CellType, rows*cols),
	}, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row, col) addresses a cell.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// CellType returns the type of the cell at (row, col).
func (g *Grid) CellType(row, col int) (CellType, error) {
	if !g.InBounds(row, col) {
		return Normal, fmt.Errorf("%w: (%d,%d) on %dx%d grid", ErrOutOfRange, row, col, g.rows, g.cols)
	}
	return g.cells[row*g.cols+col], nil
}

// StartPosition returns the start coordinate, if one is set.
func (g *Grid) StartPosition() (Coord, bool) {
	if g.start == nil {
		return Coord{}, false
	}
	return *g.start, true
}

// GoalPosition returns the goal coordinate, if one is set.
func (g *Grid) GoalPosition() (Coord, bool) {
	if g.goal == nil {
		return Coord{}, false
	}
	return *g.goal, true
}

// Watch registers fn to be called synchronously after every successful
// mutation. Watchers must not mutate the grid from inside the callback.
func (g *Grid) Watch(fn func(Event)) {
	g.watchers = append(g.watchers, fn)
}

func (g *Grid) notify(ev Event) {
	for _, fn := range g.watchers {
		fn(ev)
	}
}

// SetCellType sets the cell at (row, col) to t.
//
// Painting Start or Goal first reverts the previous start/goal cell (if any)
// to Normal, so at most one of each exists. Painting any type over the
// current start or goal cell clears the corresponding tracked position; the
// tracked positions always agree with the cell contents.
func (g *Grid) SetCellType(row, col int, t CellType) error {
	if !g.InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d grid", ErrOutOfRange, row, col, g.rows, g.cols)
	}

	target := Coord{Row: row, Col: col}

	// The target cell may currently hold the other special; painting over it
	// always invalidates that tracked position.
	g.forgetSpecialAt(target, t)

	switch t {
	case Start:
		g.moveSpecial(&g.start, target, Start)
	case Goal:
		g.moveSpecial(&g.goal, target, Goal)
	default:
		g.cells[row*g.cols+col] = t
		g.notify(Event{Kind: EventCell, Cell: target})
	}
	return nil
}

// forgetSpecialAt drops a tracked position that is about to be painted over
// with a different type.
func (g *Grid) forgetSpecialAt(c Coord, newType CellType) {
	if g.start != nil && *g.start == c && newType != Start {
		g.start = nil
	}
	if g.goal != nil && *g.goal == c && newType != Goal {
		g.goal = nil
	}
}

// moveSpecial relocates the start or goal to target, reverting the old cell
// to Normal first.
func (g *Grid) moveSpecial(pos **Coord, target Coord, t CellType) {
	if old := *pos; old != nil && *old != target {
		g.cells[old.Row*g.cols+old.Col] = Normal
		g.notify(Event{Kind: EventCell, Cell: *old})
	}
	g.cells[target.Row*g.cols+target.Col] = t
	c := target
	*pos = &c
	g.notify(Event{Kind: EventCell, Cell: target})
}

// Clear resets every cell to Normal and unsets both special positions.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Normal
	}
	g.start = nil
	g.goal = nil
	g.notify(Event{Kind: EventReset})
}

// Clone performs a deep copy of the grid state. Watchers do not carry over:
// a clone is a snapshot, not a live model.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	out := &Grid{
		rows:  g.rows,
		cols:  g.cols,
		cells: make([]CellType, len(g.cells)),
	}
	copy(out.cells, g.cells)
	if g.start != nil {
		c := *g.start
		out.start = &c
	}
	if g.goal != nil {
		c := *g.goal
		out.goal = &c
	}
	return out
}
