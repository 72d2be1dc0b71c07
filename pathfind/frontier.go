package pathfind

import (
	"container/heap"

	"github.com/kmorrill/gridpath/grid"
)

type node struct {
	cell grid.Coord
	g    float64
	f    float64
	seq  int
}

// frontier is a min-heap of candidate nodes ordered by f. Equal-f entries
// pop in insertion order (seq), which pins down tie-breaking so searches are
// deterministic. Stale duplicates are allowed; the visited set filters them.
type frontier struct {
	nodes []node
	seq   int
}

func (q *frontier) Len() int { return len(q.nodes) }

func (q *frontier) Less(i, j int) bool {
	if q.nodes[i].f != q.nodes[j].f {
		return q.nodes[i].f < q.nodes[j].f
	}
	return q.nodes[i].seq < q.nodes[j].seq
}

func (q *frontier) Swap(i, j int) { q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i] }

func (q *frontier) Push(x any) { q.nodes = append(q.nodes, x.(node)) }

func (q *frontier) Pop() any {
	old := q.nodes
	n := len(old)
	item := old[n-1]
	q.nodes = old[:n-1]
	return item
}

// push stamps the node with the next sequence number and heaps it.
func (q *frontier) push(n node) {
	n.seq = q.seq
	q.seq++
	heap.Push(q, n)
}
