// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/pictriage/pkg/relocate"
	"github.com/walteh/pictriage/pkg/status"
)

// 📦 FinalizeOperation describes one finalize run for logging
type FinalizeOperation struct {
	Session string // Session ID
	Library string // Base directory destinations go to
	Items   int    // Decided items in the batch
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *FinalizeOperation
	outcomes  []relocate.Outcome
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🏭 NewWithZerolog creates a logger that writes structured events to zlog
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// Writer returns the console writer
func (l *Logger) Writer() io.Writer {
	return l.console
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a discarding one
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return NewWithZerolog(io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 LogOutcome logs what happened to one item
func (l *Logger) LogOutcome(ctx context.Context, o relocate.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.outcomes = append(l.outcomes, o)

	fmt.Fprintln(l.console, status.FormatOutcomeLine(o))

	ev := l.zlog.Info()
	if !o.Relocated() {
		ev = l.zlog.Warn().Err(o.Err)
	}
	ev.Str("item", o.Item.String()).
		Str("disposition", o.Disposition.String()).
		Str("outcome", o.Kind.String()).
		Str("destination", o.Destination).
		Msg("item relocated")
	if o.Warning != nil {
		l.zlog.Warn().Err(o.Warning).Str("item", o.Item.String()).Msg("destination not recorded")
	}
}

// 📝 StartFinalize starts a new finalize operation
func (l *Logger) StartFinalize(ctx context.Context, op FinalizeOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.outcomes = nil

	fmt.Fprintf(l.console, "[saving to %s]\n",
		color.New(color.FgCyan).Sprint(op.Library))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Session),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d items", op.Items))

	l.zlog.Info().
		Str("session", op.Session).
		Str("library", op.Library).
		Int("items", op.Items).
		Msg("starting finalize")
}

// 📝 EndFinalize ends the current finalize operation and prints its summary
func (l *Logger) EndFinalize(ctx context.Context, report *relocate.Report) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	summary := status.FormatSummary(report)
	c := color.New(color.FgGreen)
	if report != nil && report.Failed() > 0 {
		c = color.New(color.FgYellow)
	}
	fmt.Fprintf(l.console, "%s\n", c.Sprint(summary))

	l.zlog.Info().
		Str("session", l.currentOp.Session).
		Int("outcomes", len(l.outcomes)).
		Msg(summary)

	l.currentOp = nil
	l.outcomes = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("pictriage")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
