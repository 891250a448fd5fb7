package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iko-commits/gantt-chart-pro/internal/cpm"
	"github.com/iko-commits/gantt-chart-pro/internal/scenario"
	"github.com/iko-commits/gantt-chart-pro/internal/ui"
)

// Reporter renders a solved schedule for the terminal.
type Reporter struct {
	Snapshot *scenario.Snapshot
	Title    string // optional heading, e.g. the scenario title
}

// New creates a new Reporter.
func New(snap *scenario.Snapshot) *Reporter {
	return &Reporter{Snapshot: snap}
}

func (r *Reporter) heading() string {
	if r.Title != "" {
		return r.Title
	}
	if imp := r.Snapshot.Impact; imp != nil {
		return fmt.Sprintf("Scenario: %+g days on activity %d", imp.DeltaDays, imp.ActivityID)
	}
	return "Baseline schedule"
}

// PrintSchedule writes a terminal-friendly schedule table.
func (r *Reporter) PrintSchedule(w io.Writer) {
	s := r.Snapshot
	fmt.Fprintf(w, "%s %s — %s → %s — %d activities\n",
		ui.BoldCyan("📅 "+r.heading()),
		ui.Dim(""),
		ui.Bold(s.ProjectStart.String()),
		ui.Bold(s.ProjectFinish.String()),
		len(s.Records))
	if s.Cyclic {
		fmt.Fprintf(w, "%s\n", ui.Red(fmt.Sprintf("⚠ network contains a cycle; %d activities placed at baseline dates", len(s.Unresolved))))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "    %-6s %-32s %6s  %-10s %-10s %-10s %-10s %6s %6s\n",
		"ID", "NAME", "DUR", "ES", "EF", "LS", "LF", "TF", "FF")
	for _, rec := range s.Records {
		r.printRecord(w, rec)
	}
}

func (r *Reporter) printRecord(w io.Writer, rec scenario.Record) {
	icon := ui.FloatIcon(rec.TotalFloatDays, rec.IsMilestone)
	if !rec.Scheduled {
		icon = ui.Dim("?")
	}

	name := rec.Name
	if len(name) > 32 {
		name = name[:29] + "..."
	}

	fmt.Fprintf(w, "  %s %-6d %-32s %6s  %-10s %-10s %-10s %-10s %6s %6s\n",
		icon, rec.ActivityID, name,
		formatDays(rec.DurationDays),
		rec.EarlyStart, rec.EarlyFinish, rec.LateStart, rec.LateFinish,
		ui.Float(rec.TotalFloatDays),
		formatDays(rec.FreeFloatDays))
}

// PrintCritical writes the critical path and the waves of activities that
// share an early start.
func (r *Reporter) PrintCritical(w io.Writer) {
	s := r.Snapshot
	names := make(map[int]string, len(s.Records))
	for _, rec := range s.Records {
		if rec.Scheduled {
			names[rec.ActivityID] = rec.Name
		}
	}

	if len(s.CriticalPath) == 0 {
		fmt.Fprintf(w, "%s\n", ui.Dim("No critical activities"))
	} else {
		ids := make([]string, len(s.CriticalPath))
		for i, id := range s.CriticalPath {
			ids[i] = fmt.Sprintf("%d", id)
		}
		fmt.Fprintf(w, "Critical:  %s\n\n", ui.BoldYellow("⚡ "+strings.Join(ids, " → ")))
	}

	if s.Result == nil {
		return
	}
	for _, wave := range s.Result.Waves {
		label := ui.Dim("floating")
		if wave.IsCritical {
			label = ui.BoldYellow("critical")
		}
		fmt.Fprintf(w, "  🌊 %s %d  %s  (%s, %d activities)\n",
			ui.BoldWhite("Wave"), wave.Index+1, wave.Start, label, len(wave.ActivityIDs))
		for _, id := range wave.ActivityIDs {
			as := s.Result.Activities[id]
			fmt.Fprintf(w, "    %s %s %s\n", ui.FloatIcon(as.TotalFloat, as.IsMilestone), ui.ActivityPrefix(id), names[id])
		}
	}
}

// PrintGantt draws one text bar per activity across width columns.
// Critical activities are drawn with solid blocks, the rest with shading,
// and the late window of floating activities is dotted.
func (r *Reporter) PrintGantt(w io.Writer, domain cpm.Domain, width int) {
	if width < 10 {
		width = 10
	}
	scale := cpm.NewLinearScale(domain, 0, float64(width))
	col := func(d cpm.Day) int {
		c := int(scale.Project(d))
		if c < 0 {
			return 0
		}
		if c > width {
			return width
		}
		return c
	}

	fmt.Fprintf(w, "%-8s %s%s%s\n", "", domain.Start, strings.Repeat(" ", max(1, width-2*len(cpm.DateLayout))), domain.End)
	for _, rec := range r.Snapshot.Records {
		if !rec.Scheduled {
			continue
		}
		line := []rune(strings.Repeat(" ", width+1))
		es, ef := col(rec.EarlyStart), col(rec.EarlyFinish)
		lf := col(rec.LateFinish)

		for c := ef; c < lf && c <= width; c++ {
			line[c] = '·'
		}
		fill := '▒'
		if rec.IsCritical {
			fill = '█'
		}
		for c := es; c < ef; c++ {
			line[c] = fill
		}
		if rec.IsMilestone && es <= width {
			line[es] = '◆'
		}

		bar := string(line)
		if rec.IsCritical {
			bar = ui.BoldYellow(bar)
		}
		fmt.Fprintf(w, "%s %s\n", ui.ActivityPrefix(rec.ActivityID), bar)
	}
}

// PrintComparison writes the effect of a scenario against the baseline.
func PrintComparison(w io.Writer, c scenario.Comparison) {
	fmt.Fprintf(w, "%s\n", ui.BoldCyan("Scenario impact"))
	fmt.Fprintf(w, "%s\n", ui.Cyan("═══════════════"))
	fmt.Fprintf(w, "Finish:    %s → %s  (%s)\n",
		c.ProjectFinishBefore, ui.Bold(c.ProjectFinishAfter.String()), ui.Delta(c.ProjectDeltaDays))
	fmt.Fprintf(w, "Shifted:   %d activities\n\n", len(c.Shifts))

	for _, s := range c.Shifts {
		marker := " "
		if s.BecameCritical {
			marker = ui.BoldYellow("⚡")
		}
		fmt.Fprintf(w, "  %s %s %-32s %s → %s  %s  float %s → %s\n",
			marker, ui.ActivityPrefix(s.ActivityID), s.Name,
			s.FinishBefore, s.FinishAfter, ui.Delta(s.DeltaDays),
			formatDays(s.FloatBefore), ui.Float(s.FloatAfter))
	}
}

// JSON returns the machine-readable schedule.
func (r *Reporter) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Snapshot, "", "  ")
}

// Summary returns a short summary string.
func (r *Reporter) Summary() string {
	var b strings.Builder
	s := r.Snapshot

	critical, negative := 0, 0
	for _, rec := range s.Records {
		if rec.IsCritical {
			critical++
		}
		if rec.TotalFloatDays < 0 {
			negative++
		}
	}

	fmt.Fprintf(&b, "\n%s\n", ui.BoldCyan(r.heading()))
	fmt.Fprintf(&b, "%s\n", ui.Cyan("═════════════════════════"))
	fmt.Fprintf(&b, "Start:     %s\n", s.ProjectStart)
	fmt.Fprintf(&b, "Finish:    %s\n", ui.Bold(s.ProjectFinish.String()))
	fmt.Fprintf(&b, "Span:      %s\n", formatDays(float64(s.ProjectFinish-s.ProjectStart)))
	fmt.Fprintf(&b, "Critical:  %d of %d activities\n", critical, len(s.Records))
	if negative > 0 {
		fmt.Fprintf(&b, "Behind:    %s\n", ui.Red(fmt.Sprintf("%d with negative float", negative)))
	}
	if s.Cyclic {
		fmt.Fprintf(&b, "Cyclic:    %s\n", ui.Red(fmt.Sprintf("%v unresolved", s.Unresolved)))
	}
	return b.String()
}

func formatDays(d float64) string {
	return fmt.Sprintf("%gd", d)
}
