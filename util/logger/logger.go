/*
 * AVR8SIM - Wrapper for slog
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package logger wraps log/slog with the two sinks the simulator needs:
// warnings (decode anomalies, bus faults, pc overflow) always go to
// stderr, and per-instruction trace lines are gated behind a debug flag.
// An optional second writer (the --log file) receives everything.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type handler struct {
	out   io.Writer // optional extra sink, e.g. the --log file; may be nil
	mu    *sync.Mutex
	trace bool
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < slog.LevelDebug {
		return false
	}
	if level == slog.LevelDebug {
		return h.trace
	}
	return true
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *handler) WithGroup(name string) slog.Handler       { return h }

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	strs := []string{r.Time.Format("2006/01/02 15:04:05"), r.Level.String() + ":", r.Message}
	r.Attrs(func(a slog.Attr) bool {
		strs = append(strs, a.Value.String())
		return true
	})
	line := strings.Join(strs, " ") + "\n"
	b := []byte(line)

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := os.Stderr.Write(b)
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	return err
}

var (
	defaultHandler = &handler{mu: &sync.Mutex{}}
	logger         = slog.New(defaultHandler)
)

// Configure wires an optional extra log file and turns per-instruction
// tracing on or off. Called once from main before the run loop starts.
func Configure(file io.Writer, trace bool) {
	defaultHandler.out = file
	defaultHandler.trace = trace
}

// Warn reports a non-fatal anomaly (decode anomaly, bus fault, pc
// overflow). It always reaches stderr regardless of trace mode.
func Warn(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...))
}

// Debug emits a per-instruction trace line tagged with fn (typically the
// operation mnemonic). Silent unless tracing was enabled via Configure.
func Debug(fn string, format string, args ...any) {
	logger.Debug(fn + ": " + fmt.Sprintf(format, args...))
}
