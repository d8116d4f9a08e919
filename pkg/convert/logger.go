package convert

// QPov
//
// Copyright (C) Thomas Habets <thomas@habets.se> 2015
// https://github.com/ThomasHabets/qpov
//
//   This program is free software; you can redistribute it and/or modify
//   it under the terms of the GNU General Public License as published by
//   the Free Software Foundation; either version 2 of the License, or
//   (at your option) any later version.
//
//   This program is distributed in the hope that it will be useful,
//   but WITHOUT ANY WARRANTY; without even the implied warranty of
//   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//   GNU General Public License for more details.
//
//   You should have received a copy of the GNU General Public License along
//   with this program; if not, write to the Free Software Foundation, Inc.,
//   51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.

import (
	log "github.com/sirupsen/logrus"
)

// Logger receives diagnostics: skipped input, dropped models and progress.
type Logger interface {
	Log(msg string)
}

type logrusLogger struct {
	e *log.Entry
}

// NewLogrusLogger returns a Logger writing to a logrus entry.
func NewLogrusLogger(e *log.Entry) Logger {
	return &logrusLogger{e: e}
}

func (l *logrusLogger) Log(msg string) { l.e.Info(msg) }

type nopLogger struct{}

func (nopLogger) Log(string) {}
