package logutil

import (
	"github.com/rs/zerolog"
)

// LevelSampler drops every event below Level. It lets the CLI switch debug
// output on without touching the global level.
type LevelSampler struct {
	Level zerolog.Level
}

func (l LevelSampler) Sample(lvl zerolog.Level) bool {
	return lvl >= l.Level
}
