package applog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a JSON logger that writes to stdout and, if a buffer is supplied, tees
// every event into that buffer as well
func New(appEnv string, buffer *Buffer) zerolog.Logger {
	var w io.Writer = os.Stdout
	if buffer != nil {
		w = zerolog.MultiLevelWriter(os.Stdout, buffer)
	}
	return NewWithWriter(appEnv, w)
}

// NewWithWriter returns a JSON logger that writes to the given writer, logging at
// debug level everywhere except production
func NewWithWriter(appEnv string, w io.Writer) zerolog.Logger {
	level := zerolog.DebugLevel
	if appEnv == "production" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
