package cpm

import (
	"sort"

	"github.com/iko-commits/gantt-chart-pro/internal/graph"
)

// Analyze runs the forward and backward passes over the network and collects
// the per-activity schedule, critical path and waves.
//
// The network is only read. Analyze never fails: cyclic networks produce a
// best-effort schedule with Cyclic set.
func Analyze(n *graph.Network, epoch Day) *Result {
	early := Forward(n, epoch)
	finish := ProjectFinish(early)
	late := Backward(n, early, finish)
	return collect(n, early, late)
}

func collect(n *graph.Network, early *EarlyDates, late *LateDates) *Result {
	result := &Result{
		Activities:    make(map[int]*ActivitySchedule, n.Len()),
		ProjectStart:  early.Epoch,
		ProjectFinish: late.ProjectFinish,
		Cyclic:        early.Cyclic,
		Unresolved:    early.Unresolved,
	}

	order := make([]int, 0, n.Len())
	order = append(order, early.Order...)
	order = append(order, early.unresolvedIdx...)

	for k, i := range order {
		id := n.ID(i)
		result.Order = append(result.Order, id)
		result.Activities[id] = &ActivitySchedule{
			ActivityID:  id,
			Duration:    n.Duration(i),
			ES:          early.ES[i],
			EF:          early.EF[i],
			LS:          late.LS[i],
			LF:          late.LF[i],
			TotalFloat:  late.TotalFloat[i],
			FreeFloat:   late.FreeFloat[i],
			IsCritical:  late.TotalFloat[i] <= 0,
			IsMilestone: n.IsMilestone(i),
		}
		if k == 0 || early.ES[i] < result.ProjectStart {
			result.ProjectStart = early.ES[i]
		}
	}

	// Build critical path (critical activities in forward order)
	for _, id := range result.Order {
		if result.Activities[id].IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}

	result.Waves = computeWaves(result)

	return result
}

// computeWaves groups activities by their early start.
func computeWaves(result *Result) []Wave {
	esGroups := make(map[Day][]int)
	for _, id := range result.Order {
		es := result.Activities[id].ES
		esGroups[es] = append(esGroups[es], id)
	}

	esValues := make([]Day, 0, len(esGroups))
	for es := range esGroups {
		esValues = append(esValues, es)
	}
	sort.Slice(esValues, func(a, b int) bool { return esValues[a] < esValues[b] })

	waves := make([]Wave, len(esValues))
	for i, es := range esValues {
		ids := esGroups[es]
		sort.Ints(ids)

		hasCritical := false
		for _, id := range ids {
			result.Activities[id].Wave = i
			if result.Activities[id].IsCritical {
				hasCritical = true
			}
		}

		// Critical activities first within a wave
		sort.SliceStable(ids, func(a, b int) bool {
			return result.Activities[ids[a]].IsCritical && !result.Activities[ids[b]].IsCritical
		})

		waves[i] = Wave{
			Index:       i,
			Start:       es,
			ActivityIDs: ids,
			IsCritical:  hasCritical,
		}
	}

	return waves
}
