package ingest

import (
	"fmt"
	"time"

	"github.com/iko-commits/gantt-chart-pro/internal/graph"
)

// Header aliases for activity columns, tried in order.
var (
	idFields        = []string{"ID", "Activity ID", "ActivityID", "Task ID", "TaskID", "UID"}
	nameFields      = []string{"Name", "Activity Name", "Task Name", "Title", "Description"}
	durationFields  = []string{"Duration_d", "Duration", "Duration Days", "Dur", "Original Duration"}
	esFields        = []string{"ES", "Early Start", "EarlyStart", "Start"}
	efFields        = []string{"EF", "Early Finish", "EarlyFinish", "Finish"}
	lsFields        = []string{"LS", "Late Start", "LateStart"}
	lfFields        = []string{"LF", "Late Finish", "LateFinish"}
	milestoneFields = []string{"Milestone", "IsMilestone", "Is Milestone"}
	percentFields   = []string{"PercentComplete", "Percent Complete", "% Complete", "Pct", "Progress"}
	wbsFields       = []string{"WBS Level", "WBSLevel", "Outline Level", "Level"}
	floatFields     = []string{"Total Float", "TotalFloat", "TF", "Float"}
)

// Options controls which sheets and headers are read.
type Options struct {
	ActivitySheets     []string
	RelationshipSheets []string
	PredecessorFields  []string
}

// DefaultOptions returns the built-in sheet and header preferences.
func DefaultOptions() Options {
	return Options{
		ActivitySheets: []string{"Activities", "Activity", "Tasks", "Schedule"},
		RelationshipSheets: []string{
			"Relationships", "Relationship", "Links", "Logic",
			"Dependencies", "Predecessors", "Preds", "Network",
		},
		PredecessorFields: []string{"Predecessors", "Predecessor", "Preds", "Pred", "Predecessor IDs"},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len(o.ActivitySheets) == 0 {
		o.ActivitySheets = d.ActivitySheets
	}
	if len(o.RelationshipSheets) == 0 {
		o.RelationshipSheets = d.RelationshipSheets
	}
	if len(o.PredecessorFields) == 0 {
		o.PredecessorFields = d.PredecessorFields
	}
	return o
}

// Dataset is the normalized kernel input read from a workbook.
type Dataset struct {
	Activities    []graph.Activity
	Relationships Extraction
	ActivitySheet string
	SkippedRows   int // activity rows without a usable id
}

// Load reads activities and relationships from a workbook.
func Load(wb Workbook, opts Options) (*Dataset, error) {
	opts = opts.withDefaults()

	sheet, ok := FindSheet(wb, opts.ActivitySheets)
	if !ok {
		sheet, ok = firstOtherSheet(wb, opts.RelationshipSheets)
	}
	if !ok {
		return nil, fmt.Errorf("load workbook: no activity sheet found")
	}

	rows, err := wb.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("load workbook: %w", err)
	}

	activities, skipped := ReadActivities(rows)
	rels, err := ExtractRelationships(wb, rows, opts)
	if err != nil {
		return nil, fmt.Errorf("load workbook: %w", err)
	}

	return &Dataset{
		Activities:    activities,
		Relationships: rels,
		ActivitySheet: sheet,
		SkippedRows:   skipped,
	}, nil
}

// firstOtherSheet returns the first sheet that is not a relationship table.
func firstOtherSheet(wb Workbook, exclude []string) (string, bool) {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[normalize(e)] = true
	}
	for _, name := range wb.SheetNames() {
		if !skip[normalize(name)] {
			return name, true
		}
	}
	return "", false
}

// ReadActivities converts rows into activities. Rows without a whole numeric
// id are skipped and counted.
func ReadActivities(rows []Row) ([]graph.Activity, int) {
	var (
		activities []graph.Activity
		skipped    int
	)
	for _, row := range rows {
		a, ok := readActivity(row)
		if !ok {
			skipped++
			continue
		}
		activities = append(activities, a)
	}
	return activities, skipped
}

func readActivity(row Row) (graph.Activity, bool) {
	raw, ok := row.Lookup(idFields...)
	if !ok {
		return graph.Activity{}, false
	}
	id, ok := toID(raw)
	if !ok {
		return graph.Activity{}, false
	}

	a := graph.Activity{ID: id}
	if v, ok := row.Lookup(nameFields...); ok {
		a.Name = toString(v)
	}
	if v, ok := row.Lookup(durationFields...); ok {
		if d, ok := toFloat(v); ok {
			a.Duration = &d
		}
	}
	a.BaselineES = lookupDate(row, esFields)
	a.BaselineEF = lookupDate(row, efFields)
	a.BaselineLS = lookupDate(row, lsFields)
	a.BaselineLF = lookupDate(row, lfFields)
	if v, ok := row.Lookup(milestoneFields...); ok {
		a.Milestone = toBool(v)
	}
	if v, ok := row.Lookup(percentFields...); ok {
		if p, ok := toFloat(v); ok {
			a.PercentComplete = clamp(p, 0, 100)
		}
	}
	if v, ok := row.Lookup(wbsFields...); ok {
		if l, ok := toID(v); ok && l >= 0 {
			a.WBSLevel = l
		}
	}
	if v, ok := row.Lookup(floatFields...); ok {
		if f, ok := toFloat(v); ok {
			a.BaselineFloat = &f
		}
	}
	return a, true
}

func lookupDate(row Row, aliases []string) *time.Time {
	v, ok := row.Lookup(aliases...)
	if !ok {
		return nil
	}
	t, ok := toDate(v)
	if !ok {
		return nil
	}
	return t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
