package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/getsentry/callcount/internal/callcount"
	"github.com/getsentry/callcount/internal/report"
)

const (
	layoutFixed = "fixed"
	layoutWide  = "wide"
)

type reportOptions struct {
	layout  string
	pattern string
	top     int
}

func newReportCmd(opts *options) *cobra.Command {
	var ro reportOptions
	cmd := &cobra.Command{
		Use:   "report [event files...]",
		Short: "Print the most expensive functions of one or more event streams",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.costConfig()
			if err != nil {
				return err
			}
			r, err := loadEvents(c, cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), r, ro)
		},
	}
	cmd.Flags().StringVarP(&ro.layout, "layout", "l", layoutFixed, "table layout: fixed or wide")
	cmd.Flags().StringVarP(&ro.pattern, "pattern", "p", "", "only report functions matching this regular expression (implies wide)")
	cmd.Flags().IntVarP(&ro.top, "top", "n", 0, "number of functions per table, 0 for all")
	return cmd
}

func writeReport(w io.Writer, r *callcount.Registry, ro reportOptions) error {
	reporter := report.NewReporter(r)
	var out string
	switch {
	case ro.pattern != "":
		out = reporter.FilteredPrint(ro.pattern, ro.top)
	case ro.layout == layoutWide:
		out = reporter.WidePrint(ro.top)
	case ro.layout == layoutFixed:
		out = reporter.PrintResults(ro.top)
	default:
		return fmt.Errorf("unknown layout %q", ro.layout)
	}
	_, err := io.WriteString(w, out)
	return err
}
