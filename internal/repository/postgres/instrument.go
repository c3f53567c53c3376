package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/honeynil/kapitalist/internal/infrastructure/observability"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const uniqueViolation = "23505"

// instrument opens a span for a repository method. The returned func must be
// deferred with a pointer to the method's named error.
func instrument(ctx context.Context, tracerName, method string) (context.Context, trace.Span, func(*error)) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, method)
	start := time.Now()

	return ctx, span, func(errp *error) {
		status := "success"
		if errp != nil && *errp != nil {
			status = "error"
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		observability.RepositoryCalls.WithLabelValues(method, status).Inc()
		observability.RepositoryDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		span.End()
	}
}

// uniqueConstraint reports the violated constraint name of a duplicate key
// error, or "" if err is something else.
func uniqueConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if pqErr.Constraint == "" {
			return "unknown"
		}
		return pqErr.Constraint
	}
	return ""
}

// setList accumulates the SET clause of a partial UPDATE.
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

func (s *setList) empty() bool {
	return len(s.cols) == 0
}

// clause returns "a = $1, b = $2" and the position the next placeholder takes.
func (s *setList) clause() (string, int) {
	return strings.Join(s.cols, ", "), len(s.args) + 1
}

const foreignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}
