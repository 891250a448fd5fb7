package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// PrintLogo renders the colored ganttpro banner.
func PrintLogo(w io.Writer) {
	frame := color.New(color.FgCyan)
	bars := color.New(color.FgYellow)
	brand := color.New(color.Bold, color.FgMagenta)
	tag := color.New(color.Faint)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +--------------------------+")
	bars.Fprintln(w, "   |  ████▒▒                  |")
	bars.Fprintln(w, "   |      ██████▒▒▒           |")
	brand.Fprintln(w, "   |  G A N T T   P R O       |")
	bars.Fprintln(w, "   |            ████████  ◆   |")
	frame.Fprintln(w, "   +--------------------------+")
	tag.Fprintln(w, "   Critical path scheduling")
	fmt.Fprintln(w)
}

// activityColors is a palette of distinct bold colors for differentiating
// activities.
var activityColors = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// ActivityPrefix returns a colored [id] prefix string. Each id gets a
// stable color from the palette.
func ActivityPrefix(id int) string {
	c := activityColors[uint(id)%uint(len(activityColors))]
	return Dim("[") + c(strconv.Itoa(id)) + Dim("]")
}

// FloatIcon returns a colored marker for an activity's total float:
// behind schedule, critical, or floating.
func FloatIcon(totalFloat float64, milestone bool) string {
	switch {
	case totalFloat < 0:
		return Red("✗")
	case totalFloat == 0 && milestone:
		return BoldYellow("◆")
	case totalFloat == 0:
		return BoldYellow("⚡")
	case milestone:
		return Dim("◇")
	default:
		return Green("·")
	}
}

// Float returns the total float colored by severity.
func Float(days float64) string {
	s := strconv.FormatFloat(days, 'f', -1, 64) + "d"
	switch {
	case days < 0:
		return BoldRed(s)
	case days == 0:
		return BoldYellow(s)
	default:
		return Green(s)
	}
}

// Delta returns a signed day change colored by direction.
func Delta(days float64) string {
	s := strconv.FormatFloat(days, 'f', -1, 64) + "d"
	switch {
	case days > 0:
		return Red("+" + s)
	case days < 0:
		return Green(s)
	default:
		return Dim(s)
	}
}
