// Package report renders the contents of a call registry as text tables.
package report

import (
	"strings"

	"github.com/getsentry/callcount/internal/callcount"
	"github.com/getsentry/callcount/internal/cost"
	"github.com/getsentry/callcount/internal/pattern"
)

const (
	MostTimeTitle      = "Most Time Spent in Function"
	MostExpensiveTitle = "Most Expensive Function Calls"

	// InvalidPatternMessage prefixes the report returned for a pattern that
	// does not compile.
	InvalidPatternMessage = "Invalid regular expression: "
)

// Fixed layout column widths.
const (
	nameWidth    = 70
	callsWidth   = 7
	costWidth    = 11
	averageWidth = 10
	titleWidth   = nameWidth + callsWidth + costWidth + averageWidth + 5
	fixedWidth   = titleWidth + 4
)

// Wide layout column widths.
const (
	wideCallsWidth = 8
	wideCostWidth  = 9
	wideIndent     = 17
)

// Reporter formats rankings of a registry. It only reads the registry and
// labels columns with the registry's own cost configuration.
type Reporter struct {
	registry *callcount.Registry
	config   cost.Config
}

func NewReporter(registry *callcount.Registry) *Reporter {
	return &Reporter{registry: registry, config: registry.Config()}
}

// RenderFixedReport renders the primary cost of the top tableSize functions,
// by total and by per call cost, in fixed width bordered tables. A tableSize
// of 0 shows every function.
func (r *Reporter) RenderFixedReport(tableSize int) string {
	var b strings.Builder
	unit := r.config.Name(0)
	r.writeFixedTable(&b, MostTimeTitle, unit, r.registry.RankByTotalCost(tableSize))
	b.WriteString("\n")
	r.writeFixedTable(&b, MostExpensiveTitle, unit, r.registry.RankByAverageCost(tableSize))
	return b.String()
}

// RenderWideReport renders both rankings with one column per displayed cost
// dimension.
func (r *Reporter) RenderWideReport(tableSize int) string {
	return r.renderWide(
		r.registry.RankByTotalCost(tableSize),
		r.registry.RankByAverageCost(tableSize),
	)
}

// RenderFilteredReport is RenderWideReport restricted to the functions whose
// name matches patternText. A pattern that does not compile yields an error
// message instead of tables.
func (r *Reporter) RenderFilteredReport(patternText string, tableSize int) string {
	p, err := pattern.Compile(patternText)
	if err != nil {
		return InvalidPatternMessage + "\n" + err.Error()
	}
	filtered := r.registry.Filter(p)
	return r.renderWide(
		callcount.RankEntriesByTotalCost(filtered, tableSize),
		callcount.RankEntriesByAverageCost(filtered, tableSize),
	)
}

// PrintResults is RenderFixedReport.
func (r *Reporter) PrintResults(tableSize int) string {
	return r.RenderFixedReport(tableSize)
}

// WidePrint is RenderWideReport.
func (r *Reporter) WidePrint(tableSize int) string {
	return r.RenderWideReport(tableSize)
}

// FilteredPrint is RenderFilteredReport.
func (r *Reporter) FilteredPrint(patternText string, tableSize int) string {
	return r.RenderFilteredReport(patternText, tableSize)
}

func (r *Reporter) writeFixedTable(b *strings.Builder, title, unit string, rows []callcount.Entry) {
	rule := strings.Repeat("-", fixedWidth) + "\n"

	b.WriteString(rule)
	b.WriteString("|-" + label("               "+title, titleWidth) + "-|\n")
	b.WriteString(rule)
	b.WriteString("| " + label("   Function Name", nameWidth))
	b.WriteString("| " + label("Calls", callsWidth))
	b.WriteString("| " + label(unit, costWidth))
	b.WriteString("| " + label(unit+"/call", averageWidth) + "|\n")
	b.WriteString(rule)

	for _, e := range rows {
		b.WriteString("| " + cell(e.Name, nameWidth))
		b.WriteString("| " + number(e.Record.Calls, callsWidth))
		b.WriteString("| " + number(e.Record.TotalCost(), costWidth))
		b.WriteString("| " + number(e.Record.AverageCost(), averageWidth) + "|\n")
	}

	b.WriteString(rule)
}

func (r *Reporter) renderWide(mostTime, mostExpensive []callcount.Entry) string {
	var b strings.Builder
	r.writeWideTable(&b, MostTimeTitle, mostTime, false)
	b.WriteString("\n\n")
	r.writeWideTable(&b, MostExpensiveTitle, mostExpensive, true)
	return b.String()
}

func (r *Reporter) writeWideTable(b *strings.Builder, title string, rows []callcount.Entry, average bool) {
	b.WriteString(strings.Repeat(" ", wideIndent) + title + "\n")
	b.WriteString(strings.Repeat(" ", wideIndent-2) + strings.Repeat("=", len(title)+4) + "\n")

	display := r.config.DisplayIndices()
	b.WriteString(" " + label("Calls", wideCallsWidth))
	for _, i := range display {
		name := r.config.Name(i)
		if average {
			name = "Av " + name
		}
		b.WriteString("  " + label(name, wideCostWidth))
	}
	b.WriteString("  Name\n")

	b.WriteString(" " + strings.Repeat("-", wideCallsWidth))
	for range display {
		b.WriteString("  " + strings.Repeat("-", wideCostWidth))
	}
	b.WriteString("  -------\n")

	for _, e := range rows {
		b.WriteString(" " + number(e.Record.Calls, wideCallsWidth))
		for _, i := range display {
			v := e.Record.Costs.At(i)
			if average {
				v = e.Record.Average(i)
			}
			b.WriteString("  " + number(v, wideCostWidth))
		}
		b.WriteString("  " + e.Name + "\n")
	}
}
