// Package scenario re-solves a schedule under an imposed duration change and
// keeps a bounded library of named scenarios.
package scenario

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/iko-commits/gantt-chart-pro/internal/cpm"
	"github.com/iko-commits/gantt-chart-pro/internal/graph"
	"github.com/iko-commits/gantt-chart-pro/internal/logging"
	"github.com/iko-commits/gantt-chart-pro/internal/metrics"
)

// Validation failures. Wrapped in a *ValidationError.
var (
	ErrUnknownActivity = errors.New("unknown activity")
	ErrInvalidDelta    = errors.New("invalid duration delta")
)

// ValidationError rejects a scenario request before any solve runs.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid scenario: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Impact is a signed change to one activity's duration.
type Impact struct {
	ActivityID int     `json:"activity_id"`
	DeltaDays  float64 `json:"delta_days"`
}

// Record is the recomputed schedule of one activity.
type Record struct {
	ActivityID     int     `json:"id"`
	Name           string  `json:"name"`
	EarlyStart     cpm.Day `json:"early_start"`
	EarlyFinish    cpm.Day `json:"early_finish"`
	LateStart      cpm.Day `json:"late_start"`
	LateFinish     cpm.Day `json:"late_finish"`
	DurationDays   float64 `json:"duration_days"`
	TotalFloatDays float64 `json:"total_float_days"`
	FreeFloatDays  float64 `json:"free_float_days"`
	IsMilestone    bool    `json:"is_milestone"`
	IsCritical     bool    `json:"is_critical"`

	// Scheduled is false for records passed through from the input because
	// the activity is not part of the solved network.
	Scheduled bool `json:"scheduled"`
}

// Snapshot is a complete solved schedule. Snapshots are shared between
// callers and must be treated as read-only.
type Snapshot struct {
	Impact        *Impact  `json:"impact,omitempty"`
	Records       []Record `json:"activities"`
	ProjectStart  cpm.Day  `json:"project_start"`
	ProjectFinish cpm.Day  `json:"project_finish"`
	CriticalPath  []int    `json:"critical_path"`
	Cyclic        bool     `json:"cyclic"`
	Unresolved    []int    `json:"unresolved,omitempty"`

	Result *cpm.Result `json:"-"`
}

// Record returns the record for an activity id.
func (s *Snapshot) Record(id int) (Record, bool) {
	for _, r := range s.Records {
		if r.ActivityID == id && r.Scheduled {
			return r, true
		}
	}
	return Record{}, false
}

// Engine solves scenarios over an immutable baseline of activities and
// edges. It is safe for concurrent use.
type Engine struct {
	activities []graph.Activity
	edges      []graph.Edge
	base       *graph.Network
	epoch      cpm.Day
	logger     *slog.Logger
}

// NewEngine builds the baseline network. The epoch anchors activities that
// have neither predecessors nor a baseline start; it stays fixed for the life
// of the engine so repeated solves agree. A nil logger discards output.
func NewEngine(activities []graph.Activity, edges []graph.Edge, epoch cpm.Day, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	e := &Engine{
		activities: append([]graph.Activity(nil), activities...),
		edges:      append([]graph.Edge(nil), edges...),
		epoch:      epoch,
		logger:     logger,
	}
	e.base = graph.Build(e.activities, e.edges)

	if d := e.base.DanglingEdges(); d > 0 {
		metrics.DroppedEdgesTotal.Add(float64(d))
		logger.Warn("dropped relationships with unknown activities", "count", d)
	}
	if d := e.base.DuplicateIDs(); d > 0 {
		logger.Warn("ignored activities with duplicate ids", "count", d)
	}
	logger.Debug("network built",
		"activities", e.base.Len(),
		"relationships", e.base.EdgeCount(),
		"roots", len(e.base.Roots()),
		"leaves", len(e.base.Leaves()),
	)
	return e
}

// Epoch returns the fixed epoch of the engine.
func (e *Engine) Epoch() cpm.Day {
	return e.epoch
}

// Activities returns the baseline activities. The slice must not be modified.
func (e *Engine) Activities() []graph.Activity {
	return e.activities
}

// Network returns the baseline network. It must not be modified; use Clone.
func (e *Engine) Network() *graph.Network {
	return e.base
}

// Validate checks an impact without solving. A nil impact is valid.
func (e *Engine) Validate(impact *Impact) error {
	if impact == nil {
		return nil
	}
	if _, ok := e.base.Index(impact.ActivityID); !ok {
		metrics.ScenarioRejections.WithLabelValues("unknown_activity").Inc()
		return &ValidationError{
			Reason: fmt.Sprintf("activity %d does not exist", impact.ActivityID),
			Err:    ErrUnknownActivity,
		}
	}
	if math.IsNaN(impact.DeltaDays) || math.IsInf(impact.DeltaDays, 0) {
		metrics.ScenarioRejections.WithLabelValues("invalid_delta").Inc()
		return &ValidationError{
			Reason: fmt.Sprintf("delta %v is not a finite number of days", impact.DeltaDays),
			Err:    ErrInvalidDelta,
		}
	}
	return nil
}

// Simulate solves the network from scratch, with the impacted activity's
// duration shifted by the delta and clamped at zero. A nil impact solves the
// baseline.
func (e *Engine) Simulate(impact *Impact) (*Snapshot, error) {
	if err := e.Validate(impact); err != nil {
		return nil, err
	}

	n := e.base.Clone()
	kind := "baseline"
	if impact != nil {
		kind = "scenario"
		i, _ := n.Index(impact.ActivityID)
		n.SetDuration(i, n.Duration(i)+impact.DeltaDays)
	}

	start := time.Now()
	result := cpm.Analyze(n, e.epoch)
	metrics.SolveDuration.Observe(time.Since(start).Seconds())
	metrics.SolvesTotal.WithLabelValues(kind).Inc()

	if result.Cyclic {
		metrics.CyclicNetworksTotal.Inc()
		e.logger.Warn("network contains a cycle; unresolved activities placed at baseline dates",
			"cycle", n.DetectCycle(),
			"unresolved", result.Unresolved,
		)
	}

	snap := &Snapshot{
		Records:       e.records(result),
		ProjectStart:  result.ProjectStart,
		ProjectFinish: result.ProjectFinish,
		CriticalPath:  result.CriticalPath,
		Cyclic:        result.Cyclic,
		Unresolved:    result.Unresolved,
		Result:        result,
	}
	if impact != nil {
		imp := *impact
		snap.Impact = &imp
	}
	return snap, nil
}

// records emits one record per baseline activity in input order.
func (e *Engine) records(result *cpm.Result) []Record {
	records := make([]Record, 0, len(e.activities))
	emitted := make(map[int]bool, len(e.activities))
	for _, a := range e.activities {
		s, ok := result.Activities[a.ID]
		if !ok || emitted[a.ID] {
			records = append(records, passThrough(a))
			continue
		}
		emitted[a.ID] = true
		records = append(records, Record{
			ActivityID:     a.ID,
			Name:           a.Name,
			EarlyStart:     s.ES,
			EarlyFinish:    s.EF,
			LateStart:      s.LS,
			LateFinish:     s.LF,
			DurationDays:   s.Duration,
			TotalFloatDays: s.TotalFloat,
			FreeFloatDays:  s.FreeFloat,
			IsMilestone:    s.IsMilestone,
			IsCritical:     s.IsCritical,
			Scheduled:      true,
		})
	}
	return records
}

func passThrough(a graph.Activity) Record {
	r := Record{ActivityID: a.ID, Name: a.Name, IsMilestone: a.Milestone}
	if a.Duration != nil {
		r.DurationDays = *a.Duration
	}
	if a.BaselineFloat != nil {
		r.TotalFloatDays = *a.BaselineFloat
	}
	if a.BaselineES != nil {
		r.EarlyStart = cpm.DayOf(*a.BaselineES)
	}
	if a.BaselineEF != nil {
		r.EarlyFinish = cpm.DayOf(*a.BaselineEF)
	}
	if a.BaselineLS != nil {
		r.LateStart = cpm.DayOf(*a.BaselineLS)
	}
	if a.BaselineLF != nil {
		r.LateFinish = cpm.DayOf(*a.BaselineLF)
	}
	return r
}
