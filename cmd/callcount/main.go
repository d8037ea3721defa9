package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/getsentry/callcount/internal/callcount"
	"github.com/getsentry/callcount/internal/cost"
	"github.com/getsentry/callcount/internal/ingest"
	"github.com/getsentry/callcount/internal/logutil"
)

type options struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("callcount failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:           "callcount",
		Short:         "Aggregate function call costs and report the most expensive functions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			logutil.ConfigureLoggerWithOutput(cmd.ErrOrStderr(), level)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML file describing the cost dimensions")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")

	root.AddCommand(
		newReportCmd(&opts),
		newPushCmd(&opts),
		newSnapshotCmd(&opts),
	)
	return root
}

func (o *options) costConfig() (cost.Config, error) {
	return cost.LoadConfig(o.configPath)
}

// loadEvents builds a registry from the event files, or from stdin when no
// file is given.
func loadEvents(c cost.Config, stdin io.Reader, files []string) (*callcount.Registry, error) {
	r := callcount.NewRegistry(c)
	if len(files) == 0 {
		n, err := ingest.Load(r, stdin)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		log.Debug().Int("events", n).Msg("loaded events from stdin")
		return r, nil
	}
	for _, path := range files {
		if err := loadFile(r, path); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func loadFile(r *callcount.Registry, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	n, err := ingest.Load(r, f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Str("file", path).Int("events", n).Msg("loaded events")
	return nil
}
