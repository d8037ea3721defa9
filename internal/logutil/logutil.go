package logutil

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cloud.google.com/go/compute/metadata"
)

// ConfigureLogger sets up the global logger: JSON with a severity field on
// GCE, a console writer on stderr anywhere else.
func ConfigureLogger() {
	ConfigureLoggerWithOutput(os.Stderr, zerolog.InfoLevel)
}

// ConfigureLoggerWithOutput is ConfigureLogger with an explicit console
// output and minimum level.
func ConfigureLoggerWithOutput(w io.Writer, level zerolog.Level) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.With().Caller().Stack().Logger()
	if metadata.OnGCE() {
		log.Logger = log.Hook(ErrorHook{})
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
	}
	log.Logger = log.Sample(LevelSampler{Level: level})
}

type ErrorHook struct{}

func (h ErrorHook) Run(e *zerolog.Event, level zerolog.Level, _ string) {
	e.Str("severity", level.String())
}
