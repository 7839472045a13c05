// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin facade over go-ethereum's slog based logger.
// Package level loggers created by WithContext follow the root logger, so
// handlers installed by the CLI after package init still take effect.
package log

import (
	"context"
	"io"
	"log/slog"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes leveled, structured records.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	New(ctx ...any) Logger
	Enabled(level slog.Level) bool
}

const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = gethlog.LevelDebug
	LevelInfo  = gethlog.LevelInfo
	LevelWarn  = gethlog.LevelWarn
	LevelError = gethlog.LevelError
	LevelCrit  = gethlog.LevelCrit
)

type contextLogger struct {
	ctx []any
}

// WithContext returns a logger that prefixes every record with ctx.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

// Root returns the root logger.
func Root() Logger {
	return &contextLogger{}
}

func (l *contextLogger) root() gethlog.Logger {
	if len(l.ctx) == 0 {
		return gethlog.Root()
	}
	return gethlog.Root().With(l.ctx...)
}

func (l *contextLogger) Trace(msg string, ctx ...any) { l.root().Trace(msg, ctx...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { l.root().Debug(msg, ctx...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { l.root().Info(msg, ctx...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { l.root().Warn(msg, ctx...) }
func (l *contextLogger) Error(msg string, ctx ...any) { l.root().Error(msg, ctx...) }

func (l *contextLogger) New(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(append(merged, l.ctx...), ctx...)
	return &contextLogger{ctx: merged}
}

func (l *contextLogger) Enabled(level slog.Level) bool {
	return gethlog.Root().Enabled(context.Background(), level)
}

// FromVerbosity maps the legacy 0 (crit) .. 5 (trace) verbosity to a level.
func FromVerbosity(verbosity int) slog.Level {
	return gethlog.FromLegacyLevel(verbosity)
}

// SetHandler installs h as the root handler.
func SetHandler(h slog.Handler) {
	gethlog.SetDefault(gethlog.NewLogger(h))
}

// Setup installs a terminal or JSON handler writing to w at the given level.
func Setup(w io.Writer, level slog.Level, json, color bool) {
	if json {
		SetHandler(gethlog.JSONHandlerWithLevel(w, level))
		return
	}
	SetHandler(gethlog.NewTerminalHandlerWithLevel(w, level, color))
}

// Discard silences the root logger.
func Discard() {
	SetHandler(gethlog.DiscardHandler())
}
