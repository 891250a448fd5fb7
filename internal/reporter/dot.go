package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/iko-commits/gantt-chart-pro/internal/graph"
	"github.com/iko-commits/gantt-chart-pro/internal/scenario"
)

// PrintDOT writes the network in Graphviz DOT format. Critical activities
// and the arcs between them are drawn in red. Arcs other than a plain FS
// with no lag are labelled with their type and lag.
func PrintDOT(w io.Writer, n *graph.Network, snap *scenario.Snapshot) {
	critical := make(map[int]bool, len(snap.Records))
	for _, rec := range snap.Records {
		if rec.Scheduled && rec.IsCritical {
			critical[rec.ActivityID] = true
		}
	}

	fmt.Fprintln(w, "digraph ganttpro {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")
	fmt.Fprintln(w)

	for i := 0; i < n.Len(); i++ {
		a := n.Activity(i)
		name := strings.ReplaceAll(a.Name, `"`, `\"`)
		attrs := fmt.Sprintf(`label="%d\n%s\n%gd"`, a.ID, name, n.Duration(i))
		if n.IsMilestone(i) {
			attrs += ", shape=diamond"
		}
		if critical[a.ID] {
			attrs += `, style="rounded,bold", color=red`
		}
		fmt.Fprintf(w, "  \"%d\" [%s];\n", a.ID, attrs)
	}

	fmt.Fprintln(w)

	for i := 0; i < n.Len(); i++ {
		from := n.ID(i)
		for _, arc := range n.Out(i) {
			to := n.ID(arc.To)
			var attrs []string
			if arc.Type != graph.FS || arc.Lag != 0 {
				attrs = append(attrs, fmt.Sprintf("label=%q", relLabel(arc)))
			}
			if critical[from] && critical[to] {
				attrs = append(attrs, "color=red", "penwidth=2")
			}
			fmt.Fprintf(w, "  \"%d\" -> \"%d\"%s;\n", from, to, attrList(attrs))
		}
	}

	fmt.Fprintln(w, "}")
}

func relLabel(arc graph.Arc) string {
	if arc.Lag == 0 {
		return arc.Type.String()
	}
	return fmt.Sprintf("%s%+g", arc.Type, arc.Lag)
}

func attrList(attrs []string) string {
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ", ") + "]"
}
