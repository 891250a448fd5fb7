package graph

import (
	"math"
	"sort"
	"time"
)

const day = 24 * time.Hour

// Build constructs a Network from activities and relationship edges.
//
// Activities keep their input order. A repeated activity id is ignored after
// its first occurrence. Edges whose endpoints are unknown are dropped, as are
// exact duplicates. Cycles are accepted here; the passes decide how to treat
// them.
func Build(activities []Activity, edges []Edge) *Network {
	n := &Network{
		nodes: make([]node, 0, len(activities)),
		index: make(map[int]int, len(activities)),
	}

	for _, a := range activities {
		if _, ok := n.index[a.ID]; ok {
			n.duplicates++
			continue
		}
		n.index[a.ID] = len(n.nodes)
		n.nodes = append(n.nodes, node{act: a, duration: deriveDuration(a)})
	}

	n.out = make([][]Arc, len(n.nodes))
	n.in = make([][]int, len(n.nodes))
	n.inDegree = make([]int, len(n.nodes))

	seen := make(map[Edge]bool, len(edges))
	for _, e := range edges {
		from, okFrom := n.index[e.PredID]
		to, okTo := n.index[e.SuccID]
		if !okFrom || !okTo {
			n.dangling++
			continue
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		n.out[from] = append(n.out[from], Arc{To: to, Type: e.Type, Lag: e.Lag})
		n.in[to] = append(n.in[to], from)
		n.inDegree[to]++
	}

	return n
}

// deriveDuration returns the explicit duration when it is usable, otherwise
// the whole number of days between the baseline early dates, otherwise 0.
func deriveDuration(a Activity) float64 {
	if a.Duration != nil {
		d := *a.Duration
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return 0
		}
		return d
	}
	if a.BaselineES != nil && a.BaselineEF != nil {
		days := float64(a.BaselineEF.Sub(*a.BaselineES)) / float64(day)
		return math.Max(0, math.Floor(days+0.5))
	}
	return 0
}

// Len returns the number of activities in the network.
func (n *Network) Len() int {
	return len(n.nodes)
}

// ID returns the activity id stored at index i.
func (n *Network) ID(i int) int {
	return n.nodes[i].act.ID
}

// Index returns the dense index for an activity id.
func (n *Network) Index(id int) (int, bool) {
	i, ok := n.index[id]
	return i, ok
}

// Activity returns the input record at index i.
func (n *Network) Activity(i int) Activity {
	return n.nodes[i].act
}

// Duration returns the working duration in days at index i.
func (n *Network) Duration(i int) float64 {
	return n.nodes[i].duration
}

// SetDuration overrides the working duration at index i, clamped to >= 0.
// Only the receiver is affected; use Clone first when the network is shared.
func (n *Network) SetDuration(i int, days float64) {
	if math.IsNaN(days) || days < 0 {
		days = 0
	}
	n.nodes[i].duration = days
}

// IsMilestone reports whether the activity at index i is flagged as a
// milestone or has zero working duration.
func (n *Network) IsMilestone(i int) bool {
	return n.nodes[i].act.Milestone || n.nodes[i].duration == 0
}

// Out returns the outgoing arcs of index i. The slice must not be modified.
func (n *Network) Out(i int) []Arc {
	return n.out[i]
}

// Preds returns the predecessor indices of index i.
func (n *Network) Preds(i int) []int {
	return n.in[i]
}

// InDegree returns a fresh copy of the per-node in-degree counts. Callers
// may consume it destructively.
func (n *Network) InDegree() []int {
	c := make([]int, len(n.inDegree))
	copy(c, n.inDegree)
	return c
}

// EdgeCount returns the number of edges kept in the network.
func (n *Network) EdgeCount() int {
	total := 0
	for _, arcs := range n.out {
		total += len(arcs)
	}
	return total
}

// DanglingEdges returns how many edges were dropped because an endpoint was
// not a known activity.
func (n *Network) DanglingEdges() int {
	return n.dangling
}

// DuplicateIDs returns how many activities were ignored for reusing an id.
func (n *Network) DuplicateIDs() int {
	return n.duplicates
}

// Clone returns a copy whose working durations can be changed independently.
// Topology slices are shared since nothing mutates them after Build.
func (n *Network) Clone() *Network {
	c := *n
	c.nodes = make([]node, len(n.nodes))
	copy(c.nodes, n.nodes)
	return &c
}

// Roots returns the ids of activities without predecessors, ascending.
func (n *Network) Roots() []int {
	var ids []int
	for i := range n.nodes {
		if n.inDegree[i] == 0 {
			ids = append(ids, n.ID(i))
		}
	}
	sort.Ints(ids)
	return ids
}

// Leaves returns the ids of activities without successors, ascending.
func (n *Network) Leaves() []int {
	var ids []int
	for i := range n.nodes {
		if len(n.out[i]) == 0 {
			ids = append(ids, n.ID(i))
		}
	}
	sort.Ints(ids)
	return ids
}

// DetectCycle returns the activity ids along one cycle, or nil if the network
// is acyclic. The first id is repeated at the end of the path.
// Uses DFS with coloring: white (unvisited), gray (in progress), black (done).
func (n *Network) DetectCycle() []int {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make([]int, len(n.nodes))
	parent := make([]int, len(n.nodes))

	var dfs func(u int) []int
	dfs = func(u int) []int {
		color[u] = gray
		for _, a := range n.out[u] {
			v := a.To
			if color[v] == gray {
				cycle := []int{n.ID(v), n.ID(u)}
				for cur := u; cur != v; {
					cur = parent[cur]
					cycle = append(cycle, n.ID(cur))
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[v] == white {
				parent[v] = u
				if cycle := dfs(v); cycle != nil {
					return cycle
				}
			}
		}
		color[u] = black
		return nil
	}

	// Visit in id order so the reported cycle is stable.
	order := make([]int, len(n.nodes))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return n.ID(order[a]) < n.ID(order[b]) })

	for _, u := range order {
		if color[u] == white {
			if cycle := dfs(u); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
