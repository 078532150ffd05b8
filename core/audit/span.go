// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"fmt"
	"runtime/trace"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoadSpan represents a catalogue load in flight.
type LoadSpan struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration

	Locale   string
	Files    []string
	Size     int64 // total input size in bytes, 0 when unknown
	Records  int
	Warnings int
	Error    error
}

// Begin starts timing the load and opens a runtime/trace task for it.
func (span *LoadSpan) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "catalog.load")
	trace.Log(ctx, "locale", span.Locale)

	return ctx
}

// End stops the timer. Only the first call has an effect.
func (span *LoadSpan) End() {
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()

		span.task = nil
	}
}

// Duration returns the time between Begin and End.
func (span LoadSpan) Duration() time.Duration {
	return span.duration
}

// Log writes the span to logger at debug level, or at error level when
// the load failed.
func (span LoadSpan) Log(logger *zerolog.Logger) {
	if logger == nil {
		logger = &log.Logger
	}

	event := logger.Debug()
	if span.Error != nil {
		event = logger.Error().Err(span.Error)
	}

	event.Str("locale", span.Locale)
	event.Strs("files", span.Files)
	event.Str("len", humanizeSize(span.Size))
	event.Dur("dur", span.duration)

	if span.Error == nil {
		event.Int("records", span.Records)
		event.Int("warnings", span.Warnings)
	}

	event.Msg("Catalog load")
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
	bytesInGB = bytesInMB * bytesInKB
)

func humanizeSize(x int64) string {
	if x < bytesInKB {
		return strconv.FormatInt(x, 10)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	if x < bytesInGB {
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}

	return fmt.Sprintf("%.2fG", float64(x)/bytesInGB)
}
