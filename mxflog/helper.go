// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package mxflog provides the leveled-logging helper the mxf core calls
// into while constructing a HeaderPartition. Its call shape
// (Helper.Debugf/Warnf/Errorf, NewHelper, NewStdHelper) mirrors the
// teacher's internal github.com/saferwall/pe/log package as used from
// file.go; see SPEC_FULL.md §2.1 for why it is backed by zerolog instead of
// that unavailable internal package.
package mxflog

import (
	"os"

	"github.com/rs/zerolog"
)

// Helper wraps a zerolog.Logger with the small, leveled call surface the
// core uses: one line per diagnostic, no structured fields required at the
// call site (callers that want fields can still build them into logger
// before wrapping it here).
type Helper struct {
	log zerolog.Logger
}

// NewHelper wraps an already-configured zerolog.Logger.
func NewHelper(logger zerolog.Logger) *Helper {
	return &Helper{log: logger}
}

// NewStdHelper builds a Helper writing to os.Stderr at the given minimum
// level, the equivalent of the teacher's
// log.NewHelper(log.NewFilter(log.NewStdLogger(os.Stdout), log.FilterLevel(...))).
func NewStdHelper(level zerolog.Level) *Helper {
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	return &Helper{log: logger}
}

// Debugf logs at debug level.
func (h *Helper) Debugf(format string, args ...interface{}) {
	if h == nil {
		return
	}
	h.log.Debug().Msgf(format, args...)
}

// Infof logs at info level.
func (h *Helper) Infof(format string, args ...interface{}) {
	if h == nil {
		return
	}
	h.log.Info().Msgf(format, args...)
}

// Warnf logs at warn level.
func (h *Helper) Warnf(format string, args ...interface{}) {
	if h == nil {
		return
	}
	h.log.Warn().Msgf(format, args...)
}

// Errorf logs at error level.
func (h *Helper) Errorf(format string, args ...interface{}) {
	if h == nil {
		return
	}
	h.log.Error().Msgf(format, args...)
}
