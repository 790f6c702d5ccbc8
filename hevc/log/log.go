package log

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

type LogLevel int

const (
	LogLevel_None = iota
	LogLevel_Warn
	LogLevel_Info
	LogLevel_Trace
)

// Level controls what gets written to stderr. Trace enables per-element
// bitstream tracing and is very verbose.
var Level LogLevel = LogLevel_Warn

var cyan = color.New(color.FgCyan)
var yellow = color.New(color.FgYellow)

func Warnf(f string, args ...interface{}) {
	if LogLevel_Warn <= Level {
		yellow.Fprintf(os.Stderr, "[WARNING] "+f+"\n", args...)
	}
}

func Infof(f string, args ...interface{}) {
	if LogLevel_Info <= Level {
		fmt.Fprintf(os.Stderr, f+"\n", args...)
	}
}

func Tracef(f string, args ...interface{}) {
	if LogLevel_Trace <= Level {
		cyan.Fprintf(os.Stderr, f+"\n", args...)
	}
}

// Tracing reports whether Tracef would produce output, so hot paths can
// skip building trace arguments.
func Tracing() bool {
	return LogLevel_Trace <= Level
}
