package cpm

import (
	"math"
	"time"
)

// DateLayout is the date-only representation used for input and output.
const DateLayout = "2006-01-02"

const secondsPerDay = 86400

// Day is a point in time measured in days since 1970-01-01 UTC. Whole values
// fall on midnight; durations may leave fractional values.
type Day float64

// DayOf converts a time to a Day.
func DayOf(t time.Time) Day {
	return Day(float64(t.Unix())/secondsPerDay + float64(t.Nanosecond())/(secondsPerDay*1e9))
}

// Time converts the day back to a UTC time.
func (d Day) Time() time.Time {
	whole := math.Floor(float64(d))
	frac := float64(d) - whole
	t := time.Unix(int64(whole)*secondsPerDay, 0).UTC()
	return t.Add(time.Duration(math.Round(frac * secondsPerDay * 1e9)))
}

// String formats the day as a date-only string.
func (d Day) String() string {
	return d.Time().Format(DateLayout)
}

// MarshalText encodes the day as a date-only string.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a date-only string.
func (d *Day) UnmarshalText(b []byte) error {
	t, err := time.Parse(DateLayout, string(b))
	if err != nil {
		return err
	}
	*d = DayOf(t)
	return nil
}

// Round rounds a day count half-up, so -0.5 becomes 0 and 2.5 becomes 3.
func Round(days float64) float64 {
	r := math.Floor(days + 0.5)
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// EarlyDates is the output of the forward pass. Slices are indexed by the
// network's dense activity index.
type EarlyDates struct {
	ES, EF []Day
	Epoch  Day

	// Order lists indices in the order the pass finished them.
	Order []int

	// Unresolved holds the ids of activities that never became ready because
	// they sit on or behind a cycle. They were placed at their baseline dates.
	Unresolved []int
	Cyclic     bool

	unresolvedIdx []int
}

// LateDates is the output of the backward pass, indexed like EarlyDates.
type LateDates struct {
	LS, LF        []Day
	TotalFloat    []float64
	FreeFloat     []float64
	ProjectFinish Day
}

// Result holds the complete critical path analysis of a network.
type Result struct {
	Activities    map[int]*ActivitySchedule
	Order         []int // activity ids in forward finish order, unresolved last
	CriticalPath  []int // ordered activity ids with no float
	ProjectStart  Day
	ProjectFinish Day
	Waves         []Wave
	Cyclic        bool
	Unresolved    []int
}

// ActivitySchedule holds the computed dates for a single activity.
type ActivitySchedule struct {
	ActivityID  int
	Duration    float64
	ES, EF      Day // earliest start/finish
	LS, LF      Day // latest start/finish
	TotalFloat  float64
	FreeFloat   float64
	IsCritical  bool
	IsMilestone bool
	Wave        int // index of the wave sharing this early start
}

// Wave groups activities that share the same early start.
type Wave struct {
	Index       int
	Start       Day
	ActivityIDs []int
	IsCritical  bool // true if wave contains critical path activities
}
