package report

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// cell truncates s to width terminal columns, marking the cut with an
// ellipsis, and pads it back to exactly width.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ellipsis), width)
}

// label is cell without the ellipsis, for short column headers.
func label(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

// number renders v left aligned in width columns. Values with too many
// digits switch to exponent notation with as much precision as fits.
func number(v int64, width int) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= width {
		return s + strings.Repeat(" ", width-len(s))
	}
	for prec := width; prec >= 0; prec-- {
		e := strconv.FormatFloat(float64(v), 'e', prec, 64)
		if len(e) <= width {
			return e + strings.Repeat(" ", width-len(e))
		}
	}
	return strings.Repeat("#", width)
}
