package cpm

import (
	"math"
	"testing"
	"time"

	"github.com/iko-commits/gantt-chart-pro/internal/graph"
)

func act(id int, duration float64) graph.Activity {
	return graph.Activity{ID: id, Name: string(rune('A' + id - 1)), Duration: &duration}
}

func fs(pred, succ int, lag float64) graph.Edge {
	return graph.Edge{PredID: pred, SuccID: succ, Type: graph.FS, Lag: lag}
}

func day(n int) *time.Time {
	t := time.Date(1970, 1, 1+n, 0, 0, 0, 0, time.UTC)
	return &t
}

func assertSchedule(t *testing.T, s *ActivitySchedule, es, ef, ls, lf Day, totalFloat float64) {
	t.Helper()
	if s == nil {
		t.Fatal("schedule is nil")
	}
	if s.ES != es || s.EF != ef || s.LS != ls || s.LF != lf {
		t.Errorf("activity %d: ES/EF/LS/LF = %v/%v/%v/%v, want %v/%v/%v/%v",
			s.ActivityID, float64(s.ES), float64(s.EF), float64(s.LS), float64(s.LF),
			float64(es), float64(ef), float64(ls), float64(lf))
	}
	if s.TotalFloat != totalFloat {
		t.Errorf("activity %d: total float = %v, want %v", s.ActivityID, s.TotalFloat, totalFloat)
	}
}

// assertInvariants checks the date and float identities that hold after any
// pass, cyclic or not.
func assertInvariants(t *testing.T, r *Result) {
	t.Helper()
	for id, s := range r.Activities {
		if math.Abs(float64(s.EF-s.ES)-s.Duration) > 1e-9 {
			t.Errorf("activity %d: EF-ES = %v, duration %v", id, float64(s.EF-s.ES), s.Duration)
		}
		if math.Abs(float64(s.LF-s.LS)-s.Duration) > 1e-9 {
			t.Errorf("activity %d: LF-LS = %v, duration %v", id, float64(s.LF-s.LS), s.Duration)
		}
		if want := Round(float64(s.LS - s.ES)); s.TotalFloat != want {
			t.Errorf("activity %d: total float %v, want round(LS-ES) = %v", id, s.TotalFloat, want)
		}
		if s.FreeFloat < 0 {
			t.Errorf("activity %d: negative free float %v", id, s.FreeFloat)
		}
	}
}

func TestAnalyze_TwoActivityChain(t *testing.T) {
	// A(5) -FS+0-> B(3)
	n := graph.Build([]graph.Activity{act(1, 5), act(2, 3)}, []graph.Edge{fs(1, 2, 0)})

	result := Analyze(n, 0)

	assertSchedule(t, result.Activities[1], 0, 5, 0, 5, 0)
	assertSchedule(t, result.Activities[2], 5, 8, 5, 8, 0)
	if result.ProjectFinish != 8 {
		t.Errorf("expected project finish 8, got %v", float64(result.ProjectFinish))
	}
	if len(result.CriticalPath) != 2 || result.CriticalPath[0] != 1 || result.CriticalPath[1] != 2 {
		t.Errorf("expected critical path [1 2], got %v", result.CriticalPath)
	}
	if result.Cyclic {
		t.Error("acyclic network flagged as cyclic")
	}
	assertInvariants(t, result)
}

func TestAnalyze_DurationChangeRipples(t *testing.T) {
	base := graph.Build([]graph.Activity{act(1, 5), act(2, 3)}, []graph.Edge{fs(1, 2, 0)})

	n := base.Clone()
	i, _ := n.Index(1)
	n.SetDuration(i, n.Duration(i)+4)
	result := Analyze(n, 0)

	assertSchedule(t, result.Activities[1], 0, 9, 0, 9, 0)
	assertSchedule(t, result.Activities[2], 9, 12, 9, 12, 0)
	if result.ProjectFinish != 12 {
		t.Errorf("expected project finish 12, got %v", float64(result.ProjectFinish))
	}

	// The original network keeps its durations.
	if got := Analyze(base, 0).ProjectFinish; got != 8 {
		t.Errorf("base network changed: finish %v, want 8", float64(got))
	}
}

func TestAnalyze_RelationshipTypes(t *testing.T) {
	// A(5) -> B(3) with lag 2 under each relationship type.
	tests := []struct {
		name   string
		typ    graph.RelType
		b      [4]Day // ES, EF, LS, LF of B
		bFloat float64
		finish Day
	}{
		{name: "finish to start", typ: graph.FS, b: [4]Day{7, 10, 7, 10}, finish: 10},
		{name: "start to start", typ: graph.SS, b: [4]Day{2, 5, 2, 5}, finish: 5},
		{name: "finish to finish", typ: graph.FF, b: [4]Day{4, 7, 4, 7}, finish: 7},
		{name: "start to finish", typ: graph.SF, b: [4]Day{-1, 2, 2, 5}, bFloat: 3, finish: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := graph.Build(
				[]graph.Activity{act(1, 5), act(2, 3)},
				[]graph.Edge{{PredID: 1, SuccID: 2, Type: tt.typ, Lag: 2}},
			)
			result := Analyze(n, 0)

			assertSchedule(t, result.Activities[1], 0, 5, 0, 5, 0)
			assertSchedule(t, result.Activities[2], tt.b[0], tt.b[1], tt.b[2], tt.b[3], tt.bFloat)
			if result.ProjectFinish != tt.finish {
				t.Errorf("expected project finish %v, got %v", float64(tt.finish), float64(result.ProjectFinish))
			}
			assertInvariants(t, result)
		})
	}
}

func TestAnalyze_NegativeLag(t *testing.T) {
	// A(5) -FS-2-> B(3): B overlaps the last two days of A.
	n := graph.Build([]graph.Activity{act(1, 5), act(2, 3)}, []graph.Edge{fs(1, 2, -2)})

	result := Analyze(n, 0)

	assertSchedule(t, result.Activities[1], 0, 5, 0, 5, 0)
	assertSchedule(t, result.Activities[2], 3, 6, 3, 6, 0)
	if result.Activities[1].FreeFloat != 0 {
		t.Errorf("expected free float 0, got %v", result.Activities[1].FreeFloat)
	}
}

func TestAnalyze_DiamondFloatAndWaves(t *testing.T) {
	// A(2) -> B(4) -> D(1)
	// A(2) -> C(1) -> D(1)
	n := graph.Build(
		[]graph.Activity{act(1, 2), act(2, 4), act(3, 1), act(4, 1)},
		[]graph.Edge{fs(1, 2, 0), fs(1, 3, 0), fs(2, 4, 0), fs(3, 4, 0)},
	)

	result := Analyze(n, 0)

	assertSchedule(t, result.Activities[3], 2, 3, 5, 6, 3)
	if result.Activities[3].FreeFloat != 3 {
		t.Errorf("expected free float 3 for C, got %v", result.Activities[3].FreeFloat)
	}
	if result.Activities[3].IsCritical {
		t.Error("C should not be critical")
	}

	want := []int{1, 2, 4}
	if len(result.CriticalPath) != len(want) {
		t.Fatalf("expected critical path %v, got %v", want, result.CriticalPath)
	}
	for i, id := range want {
		if result.CriticalPath[i] != id {
			t.Errorf("critical path[%d] = %d, want %d", i, result.CriticalPath[i], id)
		}
	}

	// 3 waves: [A], [B,C], [D]
	if len(result.Waves) != 3 {
		t.Fatalf("expected 3 waves, got %d", len(result.Waves))
	}
	w := result.Waves[1]
	if w.Start != 2 || len(w.ActivityIDs) != 2 || w.ActivityIDs[0] != 2 || !w.IsCritical {
		t.Errorf("unexpected second wave %+v", w)
	}
	if result.Activities[3].Wave != 1 {
		t.Errorf("expected C in wave 1, got %d", result.Activities[3].Wave)
	}
	assertInvariants(t, result)
}

func TestAnalyze_FreeFloatBoundedByTotalFloat(t *testing.T) {
	// A(2) -> B(4) -> D(1)
	// A(2) -> C(1) -> E(1) -> D(1)
	edges := []graph.Edge{fs(1, 2, 0), fs(2, 4, 0), fs(1, 3, 0), fs(3, 5, 0), fs(5, 4, 0)}
	n := graph.Build([]graph.Activity{act(1, 2), act(2, 4), act(3, 1), act(4, 1), act(5, 1)}, edges)

	result := Analyze(n, 0)

	c := result.Activities[3]
	if c.TotalFloat != 2 || c.FreeFloat != 0 {
		t.Errorf("C: total/free float = %v/%v, want 2/0", c.TotalFloat, c.FreeFloat)
	}
	e := result.Activities[5]
	if e.TotalFloat != 2 || e.FreeFloat != 2 {
		t.Errorf("E: total/free float = %v/%v, want 2/2", e.TotalFloat, e.FreeFloat)
	}

	for _, edge := range edges {
		s := result.Activities[edge.PredID]
		if s.FreeFloat > s.TotalFloat {
			t.Errorf("activity %d: free float %v exceeds total float %v", s.ActivityID, s.FreeFloat, s.TotalFloat)
		}
	}
}

func TestAnalyze_BaselineStartAnchors(t *testing.T) {
	a := act(1, 2)
	b := act(2, 1)
	b.BaselineES = day(10)
	n := graph.Build([]graph.Activity{a, b}, []graph.Edge{fs(1, 2, 0)})

	result := Analyze(n, 0)

	if got := result.Activities[2].ES; got != 10 {
		t.Errorf("expected B to hold its baseline start 10, got %v", float64(got))
	}
	if got := result.Activities[1].TotalFloat; got != 8 {
		t.Errorf("expected A total float 8, got %v", got)
	}
}

func TestForward_ReadyQueueOrderedByBaseline(t *testing.T) {
	a := act(1, 1)
	a.BaselineES = day(5)
	b := act(2, 1)
	b.BaselineES = day(3)
	c := act(3, 1)
	n := graph.Build([]graph.Activity{a, b, c}, nil)

	result := Analyze(n, 4)

	want := []int{2, 3, 1}
	for i, id := range want {
		if result.Order[i] != id {
			t.Fatalf("expected order %v, got %v", want, result.Order)
		}
	}
	if result.Activities[3].ES != 4 {
		t.Errorf("expected unanchored activity at epoch 4, got %v", float64(result.Activities[3].ES))
	}
	if result.ProjectStart != 3 {
		t.Errorf("expected project start 3, got %v", float64(result.ProjectStart))
	}
}

func TestAnalyze_CyclicNetwork(t *testing.T) {
	// 1 -> 2 -> 3 -> 2 (cycle), 3 -> 4, and 5 standalone.
	n := graph.Build(
		[]graph.Activity{act(1, 2), act(2, 3), act(3, 1), act(4, 1), act(5, 4)},
		[]graph.Edge{fs(1, 2, 0), fs(2, 3, 0), fs(3, 2, 0), fs(3, 4, 0)},
	)

	result := Analyze(n, 0)

	if !result.Cyclic {
		t.Fatal("expected cyclic flag")
	}
	want := []int{2, 3, 4}
	if len(result.Unresolved) != len(want) {
		t.Fatalf("expected unresolved %v, got %v", want, result.Unresolved)
	}
	for i, id := range want {
		if result.Unresolved[i] != id {
			t.Errorf("unresolved[%d] = %d, want %d", i, result.Unresolved[i], id)
		}
	}
	if len(result.Activities) != 5 {
		t.Errorf("expected every activity scheduled, got %d", len(result.Activities))
	}
	if result.ProjectFinish != 4 {
		t.Errorf("expected project finish 4, got %v", float64(result.ProjectFinish))
	}
	assertInvariants(t, result)
}

func TestForward_UnresolvedFallsBackToBaseline(t *testing.T) {
	a := act(1, 2)
	a.BaselineES = day(7)
	b := graph.Activity{ID: 2, BaselineEF: day(12)}
	three := 3.0
	b.Duration = &three
	n := graph.Build([]graph.Activity{a, b}, []graph.Edge{fs(1, 2, 0), fs(2, 1, 0)})

	early := Forward(n, 0)

	ia, _ := n.Index(1)
	ib, _ := n.Index(2)
	if early.ES[ia] != 7 || early.EF[ia] != 9 {
		t.Errorf("activity 1: ES/EF = %v/%v, want 7/9", float64(early.ES[ia]), float64(early.EF[ia]))
	}
	if early.ES[ib] != 9 || early.EF[ib] != 12 {
		t.Errorf("activity 2: ES/EF = %v/%v, want 9/12", float64(early.ES[ib]), float64(early.EF[ib]))
	}
	if len(early.Order) != 0 {
		t.Errorf("expected nothing resolved, got order %v", early.Order)
	}
}

func TestAnalyze_Milestone(t *testing.T) {
	n := graph.Build([]graph.Activity{act(1, 3), act(2, 0)}, []graph.Edge{fs(1, 2, 0)})

	result := Analyze(n, 0)

	if !result.Activities[2].IsMilestone {
		t.Error("zero duration activity should be a milestone")
	}
	if result.Activities[1].IsMilestone {
		t.Error("activity 1 should not be a milestone")
	}
	assertSchedule(t, result.Activities[2], 3, 3, 3, 3, 0)
}

func TestAnalyze_EmptyNetwork(t *testing.T) {
	result := Analyze(graph.Build(nil, nil), 42)

	if len(result.Activities) != 0 || len(result.Waves) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if result.ProjectStart != 42 || result.ProjectFinish != 42 {
		t.Errorf("expected start/finish at epoch, got %v/%v", float64(result.ProjectStart), float64(result.ProjectFinish))
	}
}

func TestDefaultEpoch(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if got := DefaultEpoch([]graph.Activity{act(1, 1)}, now); got != DayOf(now) {
		t.Errorf("expected now without baselines, got %v", got)
	}

	a := act(1, 1)
	a.BaselineES = day(20)
	b := act(2, 1)
	b.BaselineES = day(12)
	if got := DefaultEpoch([]graph.Activity{a, b, act(3, 1)}, now); got != 12 {
		t.Errorf("expected earliest baseline 12, got %v", float64(got))
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2.5, 3},
		{2.4, 2},
		{-0.5, 0},
		{-1.5, -1},
		{-1.6, -2},
		{0, 0},
	}
	for _, tt := range tests {
		got := Round(tt.in)
		if got != tt.want || math.Signbit(got) != math.Signbit(tt.want) {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDay_Text(t *testing.T) {
	d := DayOf(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if d.String() != "2024-03-01" {
		t.Errorf("expected 2024-03-01, got %s", d)
	}
	if (d + 2.5).String() != "2024-03-03" {
		t.Errorf("expected fractional day to format as 2024-03-03, got %s", d+2.5)
	}

	var back Day
	if err := back.UnmarshalText([]byte("2024-03-01")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back != d {
		t.Errorf("round trip: got %v, want %v", float64(back), float64(d))
	}
	if err := back.UnmarshalText([]byte("March 1")); err == nil {
		t.Error("expected error for malformed date")
	}
}
