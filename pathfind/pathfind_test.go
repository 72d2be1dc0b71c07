package pathfind

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/kmorrill/gridpath/grid"
)

// buildGrid is a test helper that creates a grid from an ASCII picture.
// '.'=Normal '#'=Wall '~'=Rough '+'=Boost 'S'=Start 'G'=Goal
func buildGrid(t *testing.T, picture string) *grid.Grid {
	t.Helper()
	lines := strings.Fields(picture)
	g, err := grid.New(len(lines), len(lines[0]))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for r, line := range lines {
		for c, ch := range line {
			var ct grid.CellType
			switch ch {
			case '.':
				continue
			case '#':
				ct = grid.Wall
			case '~':
				ct = grid.Rough
			case '+':
				ct = grid.Boost
			case 'S':
				ct = grid.Start
			case 'G':
				ct = grid.Goal
			default:
				t.Fatalf("bad picture rune %q", ch)
			}
			if err := g.SetCellType(r, c, ct); err != nil {
				t.Fatalf("SetCellType(%d,%d): %v", r, c, err)
			}
		}
	}
	return g
}

// pathCost sums step costs along a path per the destination-cell rule,
// independently of the engine's bookkeeping.
func pathCost(t *testing.T, g *grid.Grid, path []grid.Coord) float64 {
	t.Helper()
	total := 0.0
	for i := 1; i < len(path); i++ {
		ct, err := g.CellType(path[i].Row, path[i].Col)
		if err != nil {
			t.Fatalf("path leaves grid at %v: %v", path[i], err)
		}
		total += StepCost(ct)
	}
	return total
}

// checkContiguous verifies the path starts at start, ends at goal, and moves
// one orthogonal step at a time.
func checkContiguous(t *testing.T, g *grid.Grid, path []grid.Coord) {
	t.Helper()
	start, _ := g.StartPosition()
	goal, _ := g.GoalPosition()
	if len(path) == 0 {
		t.Fatal("empty path")
	}
	if path[0] != start {
		t.Fatalf("path starts at %v, want %v", path[0], start)
	}
	if path[len(path)-1] != goal {
		t.Fatalf("path ends at %v, want %v", path[len(path)-1], goal)
	}
	for i := 1; i < len(path); i++ {
		dr := path[i].Row - path[i-1].Row
		dc := path[i].Col - path[i-1].Col
		if dr*dr+dc*dc != 1 {
			t.Fatalf("path jumps from %v to %v", path[i-1], path[i])
		}
	}
}

func TestStepCost(t *testing.T) {
	cases := []struct {
		ct   grid.CellType
		want float64
	}{
		{grid.Normal, 1.0},
		{grid.Start, 1.0},
		{grid.Goal, 1.0},
		{grid.Rough, 2.0},
		{grid.Boost, 0.5},
	}
	for _, c := range cases {
		if got := StepCost(c.ct); got != c.want {
			t.Fatalf("StepCost(%v)=%v, want %v", c.ct, got, c.want)
		}
	}
	if StepCost(grid.Wall) >= 0 {
		t.Fatal("wall step cost should be negative")
	}
}

func TestFindPath_AllNormal3x3(t *testing.T) {
	g := buildGrid(t, `
		S..
		...
		..G
	`)
	res := New(g).FindPath()
	if !res.Found {
		t.Fatalf("no path found: %+v", res)
	}
	if res.TotalCost != 4.0 {
		t.Fatalf("cost=%v, want 4.0", res.TotalCost)
	}
	if len(res.Path) != 5 {
		t.Fatalf("path length=%d, want 5: %v", len(res.Path), res.Path)
	}
	checkContiguous(t, g, res.Path)
	if got := pathCost(t, g, res.Path); got != res.TotalCost {
		t.Fatalf("summed cost %v != reported %v", got, res.TotalCost)
	}
}

func TestFindPath_BoostColumnIsCheaper(t *testing.T) {
	g := buildGrid(t, `
		S+.
		.+.
		.+G
	`)
	res := New(g).FindPath()
	if !res.Found {
		t.Fatalf("no path found: %+v", res)
	}
	// Three boost steps at 0.5 plus the final step onto the goal.
	if res.TotalCost != 2.5 {
		t.Fatalf("cost=%v, want 2.5", res.TotalCost)
	}
	if res.TotalCost >= 4.0 {
		t.Fatal("boost route not cheaper than the all-normal route")
	}
	checkContiguous(t, g, res.Path)
	if got := pathCost(t, g, res.Path); got != res.TotalCost {
		t.Fatalf("summed cost %v != reported %v", got, res.TotalCost)
	}
}

func TestFindPath_RoughTakenWhenDetourCostsMore(t *testing.T) {
	g := buildGrid(t, `
		S~G
		...
	`)
	res := New(g).FindPath()
	if !res.Found {
		t.Fatalf("no path found: %+v", res)
	}
	// Straight through rough: 2.0 + 1.0 = 3.0. Detour below: 1+1+1+1 = 4.0.
	if res.TotalCost != 3.0 {
		t.Fatalf("cost=%v, want 3.0", res.TotalCost)
	}
}

func TestFindPath_WallBlocks1x3(t *testing.T) {
	g := buildGrid(t, `S#G`)
	res := New(g).FindPath()
	if res.Found {
		t.Fatalf("found a path through a wall: %+v", res)
	}
	if res.TotalCost != NoPath {
		t.Fatalf("cost=%v, want %v", res.TotalCost, NoPath)
	}
	if len(res.Path) != 0 {
		t.Fatalf("path not empty: %v", res.Path)
	}
}

func TestFindPath_WallDetour(t *testing.T) {
	g := buildGrid(t, `
		S.#..
		.~#.~
		..#..
		..#+.
		....G
	`)
	res := New(g).FindPath()
	if !res.Found {
		t.Fatalf("no path found: %+v", res)
	}
	if res.TotalCost != 8.0 {
		t.Fatalf("cost=%v, want 8.0", res.TotalCost)
	}
	checkContiguous(t, g, res.Path)
	for _, c := range res.Path {
		ct, err := g.CellType(c.Row, c.Col)
		if err != nil {
			t.Fatalf("path cell %v: %v", c, err)
		}
		if ct == grid.Wall {
			t.Fatalf("path passes through wall at %v", c)
		}
	}
}

func TestFindPath_UnsetInputs(t *testing.T) {
	onlyStart := buildGrid(t, `
		S..
		...
	`)
	onlyGoal := buildGrid(t, `
		..G
		...
	`)
	neither := buildGrid(t, `
		...
		...
	`)
	for name, g := range map[string]*grid.Grid{"only start": onlyStart, "only goal": onlyGoal, "neither": neither} {
		res := New(g).FindPath()
		if res.Found || res.TotalCost != NoPath || len(res.Path) != 0 {
			t.Fatalf("%s: got %+v, want no-path sentinel", name, res)
		}
		if res.Expanded != 0 {
			t.Fatalf("%s: search ran with unset inputs (expanded %d)", name, res.Expanded)
		}
	}
}

func TestFindPath_StartEqualsGoalNeighbors(t *testing.T) {
	// Start adjacent to goal: single step onto the goal.
	g := buildGrid(t, `SG`)
	res := New(g).FindPath()
	if !res.Found || res.TotalCost != 1.0 || len(res.Path) != 2 {
		t.Fatalf("got %+v, want cost 1.0 path of 2", res)
	}
}

func TestFindPath_Deterministic(t *testing.T) {
	g := buildGrid(t, `
		S..~.
		.#.+.
		.#...
		...#G
	`)
	f := New(g)
	first := f.FindPath()
	for i := 0; i < 10; i++ {
		again := f.FindPath()
		if again.TotalCost != first.TotalCost || len(again.Path) != len(first.Path) {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again, first)
		}
		for j := range first.Path {
			if again.Path[j] != first.Path[j] {
				t.Fatalf("run %d path[%d]=%v, want %v", i, j, again.Path[j], first.Path[j])
			}
		}
	}
}

func TestFindPath_DoesNotMutateGrid(t *testing.T) {
	g := buildGrid(t, `
		S~+
		.#.
		..G
	`)
	before := g.Clone()
	New(g).FindPath()
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			got, _ := g.CellType(r, c)
			want, _ := before.CellType(r, c)
			if got != want {
				t.Fatalf("cell (%d,%d) changed from %v to %v", r, c, want, got)
			}
		}
	}
}

// relaxAllEdges computes the true minimum cost from start to goal by
// repeated full relaxation sweeps (Bellman-Ford). Slow but obviously
// correct; used to cross-check the engine on small grids.
func relaxAllEdges(g *grid.Grid) (float64, bool) {
	start, okStart := g.StartPosition()
	goal, okGoal := g.GoalPosition()
	if !okStart || !okGoal {
		return 0, false
	}
	rows, cols := g.Rows(), g.Cols()
	dist := make([]float64, rows*cols)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[start.Row*cols+start.Col] = 0

	for iter := 0; iter < rows*cols; iter++ {
		changed := false
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				d := dist[r*cols+c]
				if math.IsInf(d, 1) {
					continue
				}
				for _, n := range []grid.Coord{{Row: r - 1, Col: c}, {Row: r + 1, Col: c}, {Row: r, Col: c - 1}, {Row: r, Col: c + 1}} {
					ct, err := g.CellType(n.Row, n.Col)
					if err != nil {
						continue
					}
					step := StepCost(ct)
					if step < 0 {
						continue
					}
					if d+step < dist[n.Row*cols+n.Col] {
						dist[n.Row*cols+n.Col] = d + step
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	best := dist[goal.Row*cols+goal.Col]
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

func TestFindPath_MatchesExhaustiveRelaxation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	terrain := []grid.CellType{grid.Normal, grid.Normal, grid.Rough, grid.Boost, grid.Wall}

	for trial := 0; trial < 200; trial++ {
		rows := 2 + rng.Intn(5) // 2..6
		cols := 2 + rng.Intn(5)
		g, err := grid.New(rows, cols)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if err := g.SetCellType(r, c, terrain[rng.Intn(len(terrain))]); err != nil {
					t.Fatalf("SetCellType: %v", err)
				}
			}
		}
		if err := g.SetCellType(0, 0, grid.Start); err != nil {
			t.Fatalf("SetCellType start: %v", err)
		}
		if err := g.SetCellType(rows-1, cols-1, grid.Goal); err != nil {
			t.Fatalf("SetCellType goal: %v", err)
		}

		res := New(g).FindPath()
		want, reachable := relaxAllEdges(g)

		if res.Found != reachable {
			t.Fatalf("trial %d (%dx%d): found=%v, reference reachable=%v", trial, rows, cols, res.Found, reachable)
		}
		if !reachable {
			continue
		}
		if res.TotalCost != want {
			t.Fatalf("trial %d (%dx%d): cost=%v, reference=%v", trial, rows, cols, res.TotalCost, want)
		}
		checkContiguous(t, g, res.Path)
		if got := pathCost(t, g, res.Path); got != res.TotalCost {
			t.Fatalf("trial %d: summed cost %v != reported %v", trial, got, res.TotalCost)
		}
	}
}
