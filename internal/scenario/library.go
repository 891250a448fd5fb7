package scenario

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/iko-commits/gantt-chart-pro/internal/metrics"
)

// MaxScenarios is the capacity of a Library.
const MaxScenarios = 10

// Library errors.
var (
	ErrLibraryFull = errors.New("scenario library is full")
	ErrNotFound    = errors.New("scenario not found")
)

// Scenario is a saved, named impact.
type Scenario struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	ActivityID int       `json:"activity_id"`
	DeltaDays  float64   `json:"delta_days"`
	CreatedAt  time.Time `json:"created_at"`
}

// Impact returns the duration change the scenario applies.
func (s Scenario) Impact() *Impact {
	return &Impact{ActivityID: s.ActivityID, DeltaDays: s.DeltaDays}
}

// Library is an insertion-ordered list of at most MaxScenarios scenarios
// with at most one active. The baseline snapshot is kept separately so the
// view can always be reset. Safe for concurrent use.
type Library struct {
	engine   *Engine
	baseline *Snapshot
	now      func() time.Time

	mu        sync.RWMutex
	scenarios []Scenario
	solved    map[string]*Snapshot
	activeID  string
}

// NewLibrary solves the baseline and returns an empty library.
func NewLibrary(engine *Engine) (*Library, error) {
	baseline, err := engine.Simulate(nil)
	if err != nil {
		return nil, fmt.Errorf("solve baseline: %w", err)
	}
	return &Library{
		engine:   engine,
		baseline: baseline,
		now:      func() time.Time { return time.Now().UTC() },
		solved:   make(map[string]*Snapshot),
	}, nil
}

// Baseline returns the untouched baseline snapshot.
func (l *Library) Baseline() *Snapshot {
	return l.baseline
}

// Save validates and appends a scenario. An empty title is generated from
// the impact. Returns ErrLibraryFull once MaxScenarios are stored.
func (l *Library) Save(title string, activityID int, deltaDays float64) (Scenario, error) {
	impact := &Impact{ActivityID: activityID, DeltaDays: deltaDays}
	if err := l.engine.Validate(impact); err != nil {
		return Scenario{}, err
	}
	if title == "" {
		title = fmt.Sprintf("%+g days on activity %d", deltaDays, activityID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.scenarios) >= MaxScenarios {
		metrics.ScenarioRejections.WithLabelValues("library_full").Inc()
		return Scenario{}, ErrLibraryFull
	}

	s := Scenario{
		ID:         uuid.New().String(),
		Title:      title,
		ActivityID: activityID,
		DeltaDays:  deltaDays,
		CreatedAt:  l.now(),
	}
	l.scenarios = append(l.scenarios, s)
	metrics.ScenariosSaved.Inc()
	l.engine.logger.Info("scenario saved", "id", s.ID, "title", s.Title, "activity", activityID, "delta", deltaDays)
	return s, nil
}

// List returns the scenarios in insertion order.
func (l *Library) List() []Scenario {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Scenario(nil), l.scenarios...)
}

// Len returns the number of stored scenarios.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.scenarios)
}

// Get returns a scenario by id.
func (l *Library) Get(id string) (Scenario, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.find(id); i >= 0 {
		return l.scenarios[i], nil
	}
	return Scenario{}, ErrNotFound
}

// Remove deletes a scenario. Removing the active scenario resets the view.
func (l *Library) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.find(id)
	if i < 0 {
		return ErrNotFound
	}
	l.scenarios = append(l.scenarios[:i], l.scenarios[i+1:]...)
	delete(l.solved, id)
	if l.activeID == id {
		l.activeID = ""
	}
	return nil
}

// Activate solves a scenario and makes it the active view.
func (l *Library) Activate(id string) (*Snapshot, error) {
	l.mu.RLock()
	i := l.find(id)
	var s Scenario
	if i >= 0 {
		s = l.scenarios[i]
	}
	snap := l.solved[id]
	l.mu.RUnlock()

	if i < 0 {
		return nil, ErrNotFound
	}
	if snap == nil {
		var err error
		snap, err = l.engine.Simulate(s.Impact())
		if err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.find(id) < 0 {
		return nil, ErrNotFound
	}
	l.solved[id] = snap
	l.activeID = id
	l.engine.logger.Info("scenario activated", "id", id, "project_finish", snap.ProjectFinish.String())
	return snap, nil
}

// Reset clears the active scenario and returns the baseline.
func (l *Library) Reset() *Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.activeID = ""
	return l.baseline
}

// Active returns the active scenario, if any.
func (l *Library) Active() (Scenario, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.activeID == "" {
		return Scenario{}, false
	}
	return l.scenarios[l.find(l.activeID)], true
}

// View returns the active scenario's snapshot, or the baseline.
func (l *Library) View() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.activeID == "" {
		return l.baseline
	}
	return l.solved[l.activeID]
}

// PrecomputeAll solves every saved scenario that has not been solved yet,
// at most parallel at a time (unbounded when parallel <= 0). Each solve runs
// on its own cloned network.
func (l *Library) PrecomputeAll(ctx context.Context, parallel int) error {
	l.mu.RLock()
	var pending []Scenario
	for _, s := range l.scenarios {
		if l.solved[s.ID] == nil {
			pending = append(pending, s)
		}
	}
	l.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	results := make([]*Snapshot, len(pending))
	for i, s := range pending {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			snap, err := l.engine.Simulate(s.Impact())
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.ID, err)
			}
			results[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range pending {
		if l.find(s.ID) >= 0 && l.solved[s.ID] == nil {
			l.solved[s.ID] = results[i]
		}
	}
	return nil
}

// Solved returns the cached snapshot of a scenario, if it has been solved.
func (l *Library) Solved(id string) (*Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snap, ok := l.solved[id]
	return snap, ok
}

func (l *Library) find(id string) int {
	for i, s := range l.scenarios {
		if s.ID == id {
			return i
		}
	}
	return -1
}
