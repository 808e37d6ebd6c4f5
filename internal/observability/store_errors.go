package observability

import (
	"context"
	"log/slog"
)

// WriteFailure describes a store write that failed outside a request's
// critical path, such as a notification insert during fan-out.
type WriteFailure struct {
	Path      string
	Operation string
	Err       error
	Fields    map[string]any
}

// WriteFailureReporter receives store write failures. Reporting is always
// non-fatal to the caller; observers log and count, they never propagate.
type WriteFailureReporter interface {
	ReportWriteFailure(ctx context.Context, f WriteFailure)
}

type slogReporter struct {
	logger *slog.Logger
}

// NewWriteFailureReporter returns a reporter that logs each failure and
// increments the StoreWriteFailures counter.
func NewWriteFailureReporter(logger *slog.Logger) WriteFailureReporter {
	return &slogReporter{logger: logger}
}

func (r *slogReporter) ReportWriteFailure(ctx context.Context, f WriteFailure) {
	StoreWriteFailures.WithLabelValues(f.Path, f.Operation).Inc()

	attrs := []any{
		slog.String("path", f.Path),
		slog.String("operation", f.Operation),
	}
	if f.Err != nil {
		attrs = append(attrs, slog.String("error", f.Err.Error()))
	}
	for k, v := range f.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	r.logger.ErrorContext(ctx, "store write failed", attrs...)
}
