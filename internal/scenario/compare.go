package scenario

import "github.com/iko-commits/gantt-chart-pro/internal/cpm"

// Shift is the change of one activity between two snapshots.
type Shift struct {
	ActivityID     int     `json:"id"`
	Name           string  `json:"name"`
	FinishBefore   cpm.Day `json:"finish_before"`
	FinishAfter    cpm.Day `json:"finish_after"`
	DeltaDays      float64 `json:"delta_days"`
	FloatBefore    float64 `json:"total_float_before"`
	FloatAfter     float64 `json:"total_float_after"`
	BecameCritical bool    `json:"became_critical,omitempty"`
}

// Comparison lists the activities whose early finish or total float
// differs between two snapshots.
type Comparison struct {
	ProjectFinishBefore cpm.Day `json:"project_finish_before"`
	ProjectFinishAfter  cpm.Day `json:"project_finish_after"`
	ProjectDeltaDays    float64 `json:"project_delta_days"`
	Shifts              []Shift `json:"shifts"`
}

// Compare diffs after against before, in the order of after's records.
func Compare(before, after *Snapshot) Comparison {
	c := Comparison{
		ProjectFinishBefore: before.ProjectFinish,
		ProjectFinishAfter:  after.ProjectFinish,
		ProjectDeltaDays:    cpm.Round(float64(after.ProjectFinish - before.ProjectFinish)),
	}

	for _, a := range after.Records {
		if !a.Scheduled {
			continue
		}
		b, ok := before.Record(a.ActivityID)
		if !ok {
			continue
		}
		if a.EarlyFinish == b.EarlyFinish && a.TotalFloatDays == b.TotalFloatDays {
			continue
		}
		c.Shifts = append(c.Shifts, Shift{
			ActivityID:     a.ActivityID,
			Name:           a.Name,
			FinishBefore:   b.EarlyFinish,
			FinishAfter:    a.EarlyFinish,
			DeltaDays:      cpm.Round(float64(a.EarlyFinish - b.EarlyFinish)),
			FloatBefore:    b.TotalFloatDays,
			FloatAfter:     a.TotalFloatDays,
			BecameCritical: a.IsCritical && !b.IsCritical,
		})
	}
	return c
}
