// level.go: Ordered severity scale for diagnostic filtering
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package vesta

import "strings"

// Level names a diagnostic severity. Levels are ordered by the scale below;
// a message passes the filter when its level ranks at or after the configured
// minimum. Level is a string type on purpose: callers may pass names that are
// not part of the scale, and the logger treats those as always visible rather
// than silently dropping them.
type Level string

// The severity scale, least to most severe. EXEC marks external actions being
// run, DRY marks actions suppressed by dry-run; DRY ranks above the default
// minimum so dry-run output is visible without raising verbosity.
const (
	LevelTrace Level = "TRACE"
	LevelDebug Level = "DEBUG"
	LevelExec  Level = "EXEC"
	LevelInfo  Level = "INFO"
	LevelDry   Level = "DRY"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
	LevelDie   Level = "DIE"
)

// levelScale defines the total order. Every level used anywhere in Vesta
// appears here exactly once.
var levelScale = [...]Level{
	LevelTrace,
	LevelDebug,
	LevelExec,
	LevelInfo,
	LevelDry,
	LevelWarn,
	LevelError,
	LevelDie,
}

// levelWidth is the print width of the longest level name, used to
// right-align the level prefix on every diagnostic line.
const levelWidth = 5

// rank returns the position of l in the scale and whether l is part of it.
func (l Level) rank() (int, bool) {
	for i, s := range levelScale {
		if s == l {
			return i, true
		}
	}
	return -1, false
}

// ParseLevel resolves a case-insensitive level name against the scale.
func ParseLevel(name string) (Level, bool) {
	l := Level(strings.ToUpper(name))
	if _, ok := l.rank(); !ok {
		return "", false
	}
	return l, true
}

// Levels returns the scale in order, least severe first.
func Levels() []Level {
	out := make([]Level, len(levelScale))
	copy(out, levelScale[:])
	return out
}
