// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger so packages below middleware can log without
// importing it.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is replaced by the request-aware logger at startup.
var GlobalLogger = &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stdout, nil))}

// SetLogger replaces the handler behind GlobalLogger.
func SetLogger(l *slog.Logger) {
	if l != nil {
		GlobalLogger = &Logger{Logger: l}
	}
}

type correlationKey struct{}

// WithCorrelationID ties work started from ctx, including detached
// notification goroutines, back to the originating request.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// ExtractCorrelationID returns the id set by WithCorrelationID, or "".
func ExtractCorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// AuditWrites toggles the per-write repository log lines.
var AuditWrites = true

// WriteLog records state changes on one table: submissions, reviews,
// deletions, role and blacklist edits.
type WriteLog struct {
	table string
}

// NewWriteLog returns a WriteLog for table.
func NewWriteLog(table string) *WriteLog {
	return &WriteLog{table: table}
}

// Wrote logs a successful write. args are slog key/value pairs.
func (l *WriteLog) Wrote(ctx context.Context, operation string, args ...any) {
	if !AuditWrites {
		return
	}
	GlobalLogger.InfoContext(ctx, l.table+" "+operation,
		append([]any{
			slog.String("table", l.table),
			slog.String("operation", operation),
			slog.String("correlation_id", ExtractCorrelationID(ctx)),
		}, args...)...,
	)
}

// Failed logs a write the database rejected.
func (l *WriteLog) Failed(ctx context.Context, operation string, err error) {
	GlobalLogger.ErrorContext(ctx, l.table+" "+operation+" failed",
		slog.String("table", l.table),
		slog.String("operation", operation),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
		slog.String("error", err.Error()),
	)
}

// AsyncOp tracks one unit of background work spawned by a request.
type AsyncOp struct {
	ctx   context.Context
	name  string
	args  []any
	start time.Time
}

// StartAsync logs the start of name and returns a handle to finish it with.
func StartAsync(ctx context.Context, name string, args ...any) *AsyncOp {
	op := &AsyncOp{
		ctx:   ctx,
		name:  name,
		start: time.Now(),
		args: append([]any{
			slog.String("operation", name),
			slog.String("correlation_id", ExtractCorrelationID(ctx)),
		}, args...),
	}
	GlobalLogger.DebugContext(ctx, "async operation started", op.args...)
	return op
}

// Done logs completion, or failure when err is non-nil.
func (o *AsyncOp) Done(err error) {
	args := append(o.args, slog.Duration("elapsed", time.Since(o.start)))
	if err != nil {
		GlobalLogger.ErrorContext(o.ctx, "async operation failed", append(args, slog.String("error", err.Error()))...)
		return
	}
	GlobalLogger.InfoContext(o.ctx, "async operation completed", args...)
}
