// logger.go: Leveled diagnostics with dynamic filtering
//
// The logger writes to the diagnostic stream only, never to standard output,
// so command results consumed by pipelines are never corrupted by
// diagnostics.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package vesta

import (
	"fmt"
	"io"
	"strings"

	"github.com/agilira/go-timecache"
)

// Logger emits leveled, formatted lines to a diagnostic stream, filtered
// against a configured minimum level.
//
// Filtering is asymmetric: levels on the scale are compared by rank, but a
// level name that is not on the scale always passes, accompanied by a
// one-time warning. A logging call with a typo'd level is therefore never
// silently swallowed.
type Logger struct {
	out    io.Writer
	min    Level
	stamp  bool
	warned map[Level]bool
}

// NewLogger returns a logger writing to out with the given minimum level.
func NewLogger(out io.Writer, min Level) *Logger {
	return &Logger{
		out:    out,
		min:    min,
		warned: make(map[Level]bool),
	}
}

// SetMinLevel reconfigures the filter. min must be a level on the scale;
// names are validated by ParseLevel before they reach here.
func (l *Logger) SetMinLevel(min Level) {
	l.min = min
}

// MinLevel returns the currently configured minimum level.
func (l *Logger) MinLevel() Level {
	return l.min
}

// SetTimestamps toggles a leading wall-clock timestamp on each line.
func (l *Logger) SetTimestamps(on bool) {
	l.stamp = on
}

// Log writes message at the given level if it passes the filter. Each line of
// a multi-line message is written separately; blank lines are replaced by a
// single space so the level prefix is never dangling.
func (l *Logger) Log(level Level, message string) {
	rank, known := level.rank()
	if known {
		minRank, _ := l.min.rank()
		if rank < minRank {
			return
		}
	} else if !l.warned[level] {
		l.warned[level] = true
		l.emit(LevelWarn, fmt.Sprintf("unknown log level %q", string(level)))
	}
	l.emit(level, message)
}

// Logf is Log with fmt.Sprintf formatting.
func (l *Logger) Logf(level Level, format string, args ...interface{}) {
	l.Log(level, fmt.Sprintf(format, args...))
}

// emit writes unconditionally, one line at a time, bypassing the filter.
func (l *Logger) emit(level Level, message string) {
	for _, line := range strings.Split(message, "\n") {
		if line == "" {
			line = " "
		}
		if l.stamp {
			fmt.Fprintf(l.out, "%s %*s %s\n",
				timecache.CachedTime().Format("15:04:05.000"), levelWidth, string(level), line)
		} else {
			fmt.Fprintf(l.out, "%*s %s\n", levelWidth, string(level), line)
		}
	}
}
