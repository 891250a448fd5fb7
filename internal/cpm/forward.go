package cpm

import (
	"sort"
	"time"

	"github.com/iko-commits/gantt-chart-pro/internal/graph"
)

// DefaultEpoch returns the earliest baseline early start among the
// activities, or now when none carries one.
func DefaultEpoch(activities []graph.Activity, now time.Time) Day {
	found := false
	var min Day
	for _, a := range activities {
		if a.BaselineES == nil {
			continue
		}
		d := DayOf(*a.BaselineES)
		if !found || d < min {
			min = d
			found = true
		}
	}
	if !found {
		return DayOf(now)
	}
	return min
}

// Forward computes early dates with Kahn's algorithm.
//
// An activity starts at the latest of its incoming constraints and its
// baseline early start. Activities with neither start at epoch. Activities
// that never become ready because of a cycle are placed at their baseline
// dates without propagating to successors, and reported in Unresolved.
func Forward(n *graph.Network, epoch Day) *EarlyDates {
	size := n.Len()
	e := &EarlyDates{
		ES:    make([]Day, size),
		EF:    make([]Day, size),
		Epoch: epoch,
		Order: make([]int, 0, size),
	}

	inDegree := n.InDegree()
	pending := make([]Day, size)
	constrained := make([]bool, size)
	done := make([]bool, size)

	key := make([]Day, size)
	for i := 0; i < size; i++ {
		key[i] = epoch
		if b := n.Activity(i).BaselineES; b != nil {
			key[i] = DayOf(*b)
		}
	}
	byBaseline := func(queue []int) {
		sort.SliceStable(queue, func(a, b int) bool {
			ka, kb := key[queue[a]], key[queue[b]]
			if ka != kb {
				return ka < kb
			}
			return n.ID(queue[a]) < n.ID(queue[b])
		})
	}

	var queue []int
	for i := 0; i < size; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	byBaseline(queue)

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		es, ok := pending[u], constrained[u]
		if b := n.Activity(u).BaselineES; b != nil {
			if bd := DayOf(*b); !ok || bd > es {
				es, ok = bd, true
			}
		}
		if !ok {
			es = epoch
		}
		e.ES[u] = es
		e.EF[u] = es + Day(n.Duration(u))
		e.Order = append(e.Order, u)
		done[u] = true

		pushed := false
		for _, a := range n.Out(u) {
			c := startConstraint(a, e.ES[u], e.EF[u], Day(n.Duration(a.To)))
			if !constrained[a.To] || c > pending[a.To] {
				pending[a.To] = c
				constrained[a.To] = true
			}
			inDegree[a.To]--
			if inDegree[a.To] == 0 {
				queue = append(queue, a.To)
				pushed = true
			}
		}
		if pushed {
			byBaseline(queue)
		}
	}

	for i := 0; i < size; i++ {
		if done[i] {
			continue
		}
		act := n.Activity(i)
		d := Day(n.Duration(i))
		switch {
		case act.BaselineES != nil:
			e.ES[i] = DayOf(*act.BaselineES)
		case act.BaselineEF != nil:
			e.ES[i] = DayOf(*act.BaselineEF) - d
		default:
			e.ES[i] = epoch
		}
		e.EF[i] = e.ES[i] + d
		e.unresolvedIdx = append(e.unresolvedIdx, i)
	}

	sort.Slice(e.unresolvedIdx, func(a, b int) bool {
		return n.ID(e.unresolvedIdx[a]) < n.ID(e.unresolvedIdx[b])
	})
	for _, i := range e.unresolvedIdx {
		e.Unresolved = append(e.Unresolved, n.ID(i))
	}
	e.Cyclic = len(e.unresolvedIdx) > 0

	return e
}

// startConstraint is the earliest start an arc allows its successor.
func startConstraint(a graph.Arc, predES, predEF, succDur Day) Day {
	lag := Day(a.Lag)
	switch a.Type {
	case graph.SS:
		return predES + lag
	case graph.FF:
		return predEF + lag - succDur
	case graph.SF:
		return predES + lag - succDur
	default: // graph.FS
		return predEF + lag
	}
}
