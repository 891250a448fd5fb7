package cpm

import (
	"math"

	"github.com/iko-commits/gantt-chart-pro/internal/graph"
)

// ProjectFinish returns the latest early finish, or the epoch for an empty
// network.
func ProjectFinish(e *EarlyDates) Day {
	if len(e.EF) == 0 {
		return e.Epoch
	}
	finish := e.EF[0]
	for _, ef := range e.EF[1:] {
		if ef > finish {
			finish = ef
		}
	}
	return finish
}

// Backward computes late dates, total float and free float.
//
// Activities are visited in reverse forward order with unresolved activities
// visited first. Only successors already visited constrain an activity, so
// arcs inside a cycle are skipped.
func Backward(n *graph.Network, early *EarlyDates, projectFinish Day) *LateDates {
	size := n.Len()
	l := &LateDates{
		LS:            make([]Day, size),
		LF:            make([]Day, size),
		TotalFloat:    make([]float64, size),
		FreeFloat:     make([]float64, size),
		ProjectFinish: projectFinish,
	}

	order := make([]int, 0, size)
	order = append(order, early.Order...)
	order = append(order, early.unresolvedIdx...)

	inf := Day(math.Inf(1))
	done := make([]bool, size)

	for k := len(order) - 1; k >= 0; k-- {
		u := order[k]
		d := Day(n.Duration(u))

		finishLimit, startLimit := inf, inf
		for _, a := range n.Out(u) {
			if !done[a.To] {
				continue
			}
			lag := Day(a.Lag)
			switch a.Type {
			case graph.FS:
				finishLimit = minDay(finishLimit, l.LS[a.To]-lag)
			case graph.FF:
				finishLimit = minDay(finishLimit, l.LF[a.To]-lag)
			case graph.SS:
				startLimit = minDay(startLimit, l.LS[a.To]-lag)
			case graph.SF:
				startLimit = minDay(startLimit, l.LF[a.To]-lag)
			}
		}

		lf := finishLimit
		if lf == inf {
			lf = early.EF[u]
			if projectFinish > lf {
				lf = projectFinish
			}
		}
		ls := lf - d
		if startLimit < ls {
			ls = startLimit
			lf = ls + d
		}

		l.LS[u], l.LF[u] = ls, lf
		l.TotalFloat[u] = Round(float64(ls - early.ES[u]))
		l.FreeFloat[u] = freeFloat(n, early, u, l.TotalFloat[u])
		done[u] = true
	}

	return l
}

// freeFloat measures how far u can slip before it delays the early dates of
// its FS and FF successors.
func freeFloat(n *graph.Network, early *EarlyDates, u int, totalFloat float64) float64 {
	limit, found := Day(0), false
	for _, a := range n.Out(u) {
		var c Day
		switch a.Type {
		case graph.FS:
			c = early.ES[a.To] - Day(a.Lag)
		case graph.FF:
			c = early.EF[a.To] - Day(a.Lag)
		default:
			continue
		}
		if !found || c < limit {
			limit, found = c, true
		}
	}
	if !found {
		return math.Max(0, totalFloat)
	}
	return math.Max(0, Round(float64(limit-early.EF[u])))
}

func minDay(a, b Day) Day {
	if b < a {
		return b
	}
	return a
}
