package graph

import (
	"strings"
	"time"
)

// RelType is the kind of precedence relationship between two activities.
type RelType int

const (
	FS RelType = iota // finish-to-start
	SS                // start-to-start
	FF                // finish-to-finish
	SF                // start-to-finish
)

func (r RelType) String() string {
	switch r {
	case FS:
		return "FS"
	case SS:
		return "SS"
	case FF:
		return "FF"
	case SF:
		return "SF"
	default:
		return "FS"
	}
}

// ParseRelType matches a two-letter relationship code case-insensitively.
func ParseRelType(s string) (RelType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FS":
		return FS, true
	case "SS":
		return SS, true
	case "FF":
		return FF, true
	case "SF":
		return SF, true
	}
	return FS, false
}

// MarshalText encodes the type as its two-letter code.
func (r RelType) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a two-letter code, defaulting to FS.
func (r *RelType) UnmarshalText(b []byte) error {
	*r, _ = ParseRelType(string(b))
	return nil
}

// Activity is a single schedulable unit of work as supplied by ingestion.
// It is never modified by the scheduler.
type Activity struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Duration        *float64   `json:"duration_days,omitempty"` // nil when absent
	BaselineES      *time.Time `json:"early_start,omitempty"`
	BaselineEF      *time.Time `json:"early_finish,omitempty"`
	BaselineLS      *time.Time `json:"late_start,omitempty"`
	BaselineLF      *time.Time `json:"late_finish,omitempty"`
	Milestone       bool       `json:"is_milestone,omitempty"`
	PercentComplete float64    `json:"percent_complete,omitempty"`
	WBSLevel        int        `json:"wbs_level,omitempty"`
	BaselineFloat   *float64   `json:"total_float_days,omitempty"`
}

// Edge is a typed precedence relationship: SuccID depends on PredID.
type Edge struct {
	PredID int     `json:"pred_id"`
	SuccID int     `json:"succ_id"`
	Type   RelType `json:"type"`
	Lag    float64 `json:"lag_days"` // negative lag is a lead
}

// Arc is an outgoing edge resolved to dense node indices.
type Arc struct {
	To   int
	Type RelType
	Lag  float64
}

type node struct {
	act      Activity
	duration float64
}

// Network is the validated activity graph. Nodes are held in a dense arena
// indexed 0..Len()-1; activity ids map onto that index.
type Network struct {
	nodes    []node
	index    map[int]int
	out      [][]Arc
	in       [][]int // predecessor indices, for diagnostics
	inDegree []int

	dangling   int
	duplicates int
}
