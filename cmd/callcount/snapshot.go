package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getsentry/callcount/internal/callcount"
	"github.com/getsentry/callcount/internal/snapshot"
	"github.com/getsentry/callcount/internal/storageprovider"
)

func newSnapshotCmd(opts *options) *cobra.Command {
	var (
		bucketURL string
		object    string
		ro        reportOptions
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save aggregated calls to a bucket or report on a saved snapshot",
	}
	cmd.PersistentFlags().StringVar(&bucketURL, "bucket", "", "bucket URL, e.g. file:///tmp/callcount or gs://my-bucket")
	cmd.PersistentFlags().StringVar(&object, "object", "", "object name of the snapshot")
	_ = cmd.MarkPersistentFlagRequired("bucket")

	save := &cobra.Command{
		Use:   "save [event files...]",
		Short: "Aggregate event streams and store the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.costConfig()
			if err != nil {
				return err
			}
			r, err := loadEvents(c, cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			h, err := storageprovider.Open(ctx, bucketURL)
			if err != nil {
				return err
			}
			defer h.Close()
			name := object
			if name == "" {
				name, err = snapshot.Save(ctx, h, r)
			} else {
				err = snapshot.SaveAs(ctx, h, name, r)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
			return err
		},
	}

	load := &cobra.Command{
		Use:   "report",
		Short: "Print a report of a stored snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if object == "" {
				return fmt.Errorf("--object is required")
			}
			c, err := opts.costConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			h, err := storageprovider.Open(ctx, bucketURL)
			if err != nil {
				return err
			}
			defer h.Close()
			r := callcount.NewRegistry(c)
			if err := snapshot.Load(ctx, h, object, r); err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), r, ro)
		},
	}
	load.Flags().StringVarP(&ro.layout, "layout", "l", layoutFixed, "table layout: fixed or wide")
	load.Flags().StringVarP(&ro.pattern, "pattern", "p", "", "only report functions matching this regular expression (implies wide)")
	load.Flags().IntVarP(&ro.top, "top", "n", 0, "number of functions per table, 0 for all")

	cmd.AddCommand(save, load)
	return cmd
}
