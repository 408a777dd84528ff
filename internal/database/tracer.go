package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// multiTracer allows chaining multiple tracers.
//
// pgx supports a single Tracer in ConnConfig.
// This type acts as an adapter so you can run multiple tracer implementations:
//   - New Relic tracer (for distributed tracing/APM)
//   - tracelog.TraceLog (for local SQL logging in "local" env)
//   - slowQueryTracer (for queries over the configured threshold)
//
// Implementation detail:
//   - Uses runtime interface checks to see whether each tracer supports
//     TraceQueryStart and TraceQueryEnd.
type multiTracer struct {
	tracers []any
}

// TraceQueryStart implements pgx tracer interface.
//
// Called at the start of query execution. Each tracer may attach values
// to ctx; the context is threaded through every call in order.
func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

// TraceQueryEnd implements pgx tracer interface.
func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// chainTracers collapses the configured tracers into the single pgx slot.
// Returns nil when there is nothing to install.
func chainTracers(tracers ...pgx.QueryTracer) pgx.QueryTracer {
	var active []any
	for _, t := range tracers {
		if t != nil {
			active = append(active, t)
		}
	}

	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0].(pgx.QueryTracer)
	default:
		return &multiTracer{tracers: active}
	}
}

type slowQueryStartKey struct{}

// slowQueryTracer logs a warning for every query slower than threshold.
type slowQueryTracer struct {
	threshold time.Duration
	log       *zerolog.Logger
}

func newSlowQueryTracer(threshold time.Duration, log *zerolog.Logger) *slowQueryTracer {
	if threshold <= 0 {
		return nil
	}
	return &slowQueryTracer{threshold: threshold, log: log}
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, slowQueryStartKey{}, time.Now())
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(slowQueryStartKey{}).(time.Time)
	if !ok {
		return
	}

	elapsed := time.Since(start)
	if elapsed < t.threshold {
		return
	}

	event := t.log.Warn().
		Dur("duration", elapsed).
		Dur("threshold", t.threshold).
		Str("command_tag", data.CommandTag.String())
	if data.Err != nil {
		event = event.Err(data.Err)
	}
	event.Msg("slow query")
}
