package graph

import (
	"testing"
	"time"
)

func dur(d float64) *float64 { return &d }

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestBuild_SimpleDAG(t *testing.T) {
	// 1 -> 2 -> 4
	// 1 -> 3 -> 4
	acts := []Activity{
		{ID: 1, Name: "Design", Duration: dur(5)},
		{ID: 2, Name: "Build", Duration: dur(3)},
		{ID: 3, Name: "Docs", Duration: dur(2)},
		{ID: 4, Name: "Ship", Duration: dur(0)},
	}
	edges := []Edge{
		{PredID: 1, SuccID: 2},
		{PredID: 1, SuccID: 3},
		{PredID: 2, SuccID: 4},
		{PredID: 3, SuccID: 4, Type: FF, Lag: 1},
	}

	n := Build(acts, edges)

	if n.Len() != 4 {
		t.Errorf("expected 4 activities, got %d", n.Len())
	}
	if n.EdgeCount() != 4 {
		t.Errorf("expected 4 edges, got %d", n.EdgeCount())
	}

	if roots := n.Roots(); len(roots) != 1 || roots[0] != 1 {
		t.Errorf("expected roots=[1], got %v", roots)
	}
	if leaves := n.Leaves(); len(leaves) != 1 || leaves[0] != 4 {
		t.Errorf("expected leaves=[4], got %v", leaves)
	}

	i, _ := n.Index(1)
	if out := n.Out(i); len(out) != 2 {
		t.Errorf("expected 1 to have 2 successors, got %v", out)
	}
	j, _ := n.Index(4)
	if preds := n.Preds(j); len(preds) != 2 {
		t.Errorf("expected 4 to have 2 predecessors, got %v", preds)
	}
	if deg := n.InDegree(); deg[j] != 2 {
		t.Errorf("expected in-degree 2 for 4, got %d", deg[j])
	}
	if !n.IsMilestone(j) {
		t.Error("zero-duration activity should be a milestone")
	}
}

func TestBuild_DanglingEdgesDropped(t *testing.T) {
	acts := []Activity{
		{ID: 10, Duration: dur(1)},
		{ID: 20, Duration: dur(1)},
	}
	edges := []Edge{
		{PredID: 10, SuccID: 99},
		{PredID: 98, SuccID: 20},
		{PredID: 10, SuccID: 20},
	}

	n := Build(acts, edges)

	if n.EdgeCount() != 1 {
		t.Errorf("expected 1 kept edge, got %d", n.EdgeCount())
	}
	if n.DanglingEdges() != 2 {
		t.Errorf("expected 2 dangling edges, got %d", n.DanglingEdges())
	}
}

func TestBuild_DuplicateEdgesCollapsed(t *testing.T) {
	acts := []Activity{{ID: 1}, {ID: 2}}
	edges := []Edge{
		{PredID: 1, SuccID: 2, Type: SS, Lag: 2},
		{PredID: 1, SuccID: 2, Type: SS, Lag: 2},
		{PredID: 1, SuccID: 2, Type: FS},
	}

	n := Build(acts, edges)

	if n.EdgeCount() != 2 {
		t.Errorf("expected 2 edges after collapsing duplicates, got %d", n.EdgeCount())
	}
	j, _ := n.Index(2)
	if n.InDegree()[j] != 2 {
		t.Errorf("expected in-degree 2, got %d", n.InDegree()[j])
	}
}

func TestBuild_DuplicateActivityIDs(t *testing.T) {
	acts := []Activity{
		{ID: 7, Name: "first", Duration: dur(2)},
		{ID: 7, Name: "second", Duration: dur(9)},
	}

	n := Build(acts, nil)

	if n.Len() != 1 {
		t.Fatalf("expected 1 activity, got %d", n.Len())
	}
	if n.Activity(0).Name != "first" {
		t.Errorf("expected first occurrence to win, got %q", n.Activity(0).Name)
	}
	if n.DuplicateIDs() != 1 {
		t.Errorf("expected 1 duplicate, got %d", n.DuplicateIDs())
	}
}

func TestBuild_DurationDerivation(t *testing.T) {
	tests := []struct {
		name string
		act  Activity
		want float64
	}{
		{name: "explicit", act: Activity{Duration: dur(4)}, want: 4},
		{name: "fractional", act: Activity{Duration: dur(2.5)}, want: 2.5},
		{name: "negative clamps", act: Activity{Duration: dur(-3)}, want: 0},
		{
			name: "from baseline dates",
			act:  Activity{BaselineES: date("2025-03-03"), BaselineEF: date("2025-03-13")},
			want: 10,
		},
		{
			name: "baseline dates reversed",
			act:  Activity{BaselineES: date("2025-03-13"), BaselineEF: date("2025-03-03")},
			want: 0,
		},
		{name: "only start date", act: Activity{BaselineES: date("2025-03-03")}, want: 0},
		{name: "nothing", act: Activity{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Build([]Activity{tt.act}, nil)
			if got := n.Duration(0); got != tt.want {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNetwork_CloneIsolatesDurations(t *testing.T) {
	n := Build([]Activity{{ID: 1, Duration: dur(5)}}, nil)
	c := n.Clone()

	c.SetDuration(0, 9)
	if n.Duration(0) != 5 {
		t.Errorf("original duration changed to %v", n.Duration(0))
	}
	if c.Duration(0) != 9 {
		t.Errorf("clone duration = %v, want 9", c.Duration(0))
	}

	c.SetDuration(0, -4)
	if c.Duration(0) != 0 {
		t.Errorf("negative duration should clamp to 0, got %v", c.Duration(0))
	}
}

func TestNetwork_InDegreeIsACopy(t *testing.T) {
	n := Build([]Activity{{ID: 1}, {ID: 2}}, []Edge{{PredID: 1, SuccID: 2}})

	deg := n.InDegree()
	deg[1] = 0

	if n.InDegree()[1] != 1 {
		t.Error("mutating the returned in-degree slice changed the network")
	}
}

func TestDetectCycle_NoCycle(t *testing.T) {
	n := Build([]Activity{{ID: 1}, {ID: 2}}, []Edge{{PredID: 1, SuccID: 2}})

	if cycle := n.DetectCycle(); cycle != nil {
		t.Errorf("expected no cycle, got %v", cycle)
	}
}

func TestDetectCycle_WithCycle(t *testing.T) {
	// 1 -> 2 -> 3 -> 1, and 3 -> 4
	n := Build(
		[]Activity{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}},
		[]Edge{
			{PredID: 1, SuccID: 2},
			{PredID: 2, SuccID: 3},
			{PredID: 3, SuccID: 1},
			{PredID: 3, SuccID: 4},
		},
	)

	cycle := n.DetectCycle()
	if cycle == nil {
		t.Fatal("expected cycle, got nil")
	}
	if len(cycle) != 4 {
		t.Errorf("expected closed path of 4 ids, got %v", cycle)
	}
	if cycle[0] != cycle[len(cycle)-1] {
		t.Errorf("expected path to start and end on the same id, got %v", cycle)
	}
}

func TestDetectCycle_SelfLoop(t *testing.T) {
	n := Build([]Activity{{ID: 5}}, []Edge{{PredID: 5, SuccID: 5}})

	cycle := n.DetectCycle()
	if len(cycle) != 2 || cycle[0] != 5 || cycle[1] != 5 {
		t.Errorf("expected [5 5], got %v", cycle)
	}
}

func TestBuild_Empty(t *testing.T) {
	n := Build(nil, nil)
	if n.Len() != 0 {
		t.Errorf("expected 0 activities, got %d", n.Len())
	}
	if n.DetectCycle() != nil {
		t.Error("empty network should have no cycle")
	}
}
